package input

import (
	"regexp"
	"sync"

	"github.com/kingrea/wdl/internal/value"
)

// wordClass matches Unicode word characters, not only ASCII ones.
const wordClass = `\p{L}\p{M}\p{Nd}\p{Nl}\p{Pc}`

// identifierPattern matches a valid input key. Dots allow task and workflow
// prefixes such as `task_name.input_name`.
var identifierPattern = sync.OnceValue(func() *regexp.Regexp {
	return regexp.MustCompile(`^([` + wordClass + `\-.]+)$`)
})

// assumeStringPattern matches pair values that are taken verbatim as strings
// when they are not valid literals.
var assumeStringPattern = sync.OnceValue(func() *regexp.Regexp {
	return regexp.MustCompile(`^[` + wordClass + ` ]*$`)
})

// literalParser is one attempt at typing a pair value.
type literalParser func(literal string) (value.Value, bool)

// literalParsers are tried in order; the last one is the bare-word fallback.
var literalParsers = []literalParser{parseStructured, assumeString}

func parseStructured(literal string) (value.Value, bool) {
	v, err := value.ParseJSON([]byte(literal))
	return v, err == nil
}

func assumeString(literal string) (value.Value, bool) {
	if !assumeStringPattern().MatchString(literal) {
		return value.Value{}, false
	}
	return value.String(literal), true
}

// ParseValue types the value side of a `key=value` token. A full literal
// (number, boolean, null, quoted string, array or object) is tried first;
// failing that, a value made only of word characters and spaces is taken as
// a string. Anything else is a *DeserializeError.
func ParseValue(literal string) (value.Value, error) {
	for _, parse := range literalParsers {
		if v, ok := parse(literal); ok {
			return v, nil
		}
	}
	return value.Value{}, &DeserializeError{Literal: literal}
}

// IsIdentifier reports whether key is a valid input key.
func IsIdentifier(key string) bool {
	return identifierPattern().MatchString(key)
}
