package input

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/kingrea/wdl/internal/value"
)

func TestParseExistingFile(t *testing.T) {
	in, err := Parse("testdata/inputs_one.json")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	path, ok := in.File()
	if !ok || path != "testdata/inputs_one.json" {
		t.Fatalf("expected file input, got %s (%s)", in, in.Kind())
	}
	if _, _, ok := in.Pair(); ok {
		t.Fatalf("file input must not report a pair")
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse("testdata/does_not_exist.json")
	var notFound *FileNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected FileNotFoundError, got %v", err)
	}
	if notFound.Path != "testdata/does_not_exist.json" {
		t.Fatalf("wrong path in error: %s", notFound.Path)
	}
	if err.Error() != "file not found: `testdata/does_not_exist.json`" {
		t.Fatalf("unexpected message: %s", err)
	}
}

func TestParsePairs(t *testing.T) {
	cases := []struct {
		token string
		key   string
		want  value.Value
	}{
		{token: `foo="bar"`, key: "foo", want: value.String("bar")},
		{token: `foo.bar-baz_quux="qil"`, key: "foo.bar-baz_quux", want: value.String("qil")},
		{token: `foo="bar$"`, key: "foo", want: value.String("bar$")},
		{token: "count=3", key: "count", want: value.Integer(3)},
		{token: "café=1", key: "café", want: value.Integer(1)},
		{token: "größe=3", key: "größe", want: value.Integer(3)},
		{token: "name=café au lait", key: "name", want: value.String("café au lait")},
	}
	fs := afero.NewMemMapFs()
	for _, tc := range cases {
		in, err := parse(fs, tc.token)
		if err != nil {
			t.Fatalf("parse(%q) returned error: %v", tc.token, err)
		}
		key, got := in.MustPair()
		if key != tc.key {
			t.Fatalf("parse(%q): key = %q, want %q", tc.token, key, tc.key)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("parse(%q): value = %s, want %s", tc.token, got, tc.want)
		}
	}
}

func TestParseInvalidKey(t *testing.T) {
	_, err := parse(afero.NewMemMapFs(), `foo$="bar"`)
	var invalid *InvalidPairError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidPairError, got %v", err)
	}
	if invalid.Pair != `foo$="bar"` {
		t.Fatalf("wrong pair in error: %s", invalid.Pair)
	}
	if !strings.Contains(err.Error(), "key `foo$` did not match the identifier regex") {
		t.Fatalf("unexpected message: %s", err)
	}
}

func TestParseRejectsMultipleEquals(t *testing.T) {
	_, err := parse(afero.NewMemMapFs(), `url="a=b"`)
	if KindOf(err) != InvalidPair {
		t.Fatalf("expected InvalidPair, got %v", err)
	}
	if !strings.Contains(err.Error(), "expected exactly one equal sign (`=`), found 2") {
		t.Fatalf("unexpected message: %s", err)
	}
}

func TestParseUntypedValue(t *testing.T) {
	_, err := parse(afero.NewMemMapFs(), "foo=baz#bar")
	var deserialize *DeserializeError
	if !errors.As(err, &deserialize) {
		t.Fatalf("expected DeserializeError, got %v", err)
	}
	if deserialize.Literal != "baz#bar" {
		t.Fatalf("wrong literal in error: %s", deserialize.Literal)
	}
}

func TestMustFilePanicsForPair(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustFile to panic for a pair input")
		}
	}()
	NewPair("foo", value.String("bar")).MustFile()
}
