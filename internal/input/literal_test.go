package input

import (
	"testing"

	"github.com/kingrea/wdl/internal/value"
)

func TestIdentifierPattern(t *testing.T) {
	if !IsIdentifier("here_is-an.identifier") {
		t.Fatalf("expected dotted identifier to match")
	}
	if !IsIdentifier("größe.naïve_ключ") {
		t.Fatalf("expected non-ASCII identifier to match")
	}
	if IsIdentifier("here is not an identifier") {
		t.Fatalf("expected identifier with spaces to be rejected")
	}
}

func TestAssumeStringPattern(t *testing.T) {
	for _, literal := range []string{"", "fooBAR082", "foo bar baz", "café au lait"} {
		if !assumeStringPattern().MatchString(literal) {
			t.Fatalf("expected %q to match the bare-word pattern", literal)
		}
	}
	if assumeStringPattern().MatchString("[1, a]") {
		t.Fatalf("expected %q to be rejected", "[1, a]")
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		literal string
		want    value.Value
	}{
		{literal: `"bar"`, want: value.String("bar")},
		{literal: `"bar$"`, want: value.String("bar$")},
		{literal: "bar", want: value.String("bar")},
		{literal: "two words", want: value.String("two words")},
		{literal: "", want: value.String("")},
		{literal: "-100", want: value.Integer(-100)},
		{literal: "1.5", want: value.Float(1.5)},
		{literal: "false", want: value.Boolean(false)},
		{literal: "null", want: value.None()},
		{literal: "[1, 2]", want: value.Array(value.Integer(1), value.Integer(2))},
	}
	for _, tc := range cases {
		got, err := ParseValue(tc.literal)
		if err != nil {
			t.Fatalf("ParseValue(%q) returned error: %v", tc.literal, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseValue(%q) = %s, want %s", tc.literal, got, tc.want)
		}
	}
}

func TestParseValueRejectsUntypedLiteral(t *testing.T) {
	for _, literal := range []string{"baz#bar", "[1, a]", "{oops"} {
		_, err := ParseValue(literal)
		if KindOf(err) != Deserialize {
			t.Fatalf("ParseValue(%q): expected Deserialize, got %v", literal, err)
		}
	}
}
