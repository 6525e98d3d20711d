// Package input resolves the positional inputs of the wdl command line into
// a single ordered set of key/value pairs.
//
// Each token is either a path to a JSON or YAML input file or an inline
// `key=value` pair. Tokens are applied left to right and later keys overwrite
// earlier ones, so the order an operator writes inputs in is the order of
// precedence.
package input

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/kingrea/wdl/internal/value"
)

// Kind distinguishes file tokens from pair tokens.
type Kind int

const (
	KindFile Kind = iota
	KindPair
)

func (k Kind) String() string {
	if k == KindPair {
		return "pair"
	}
	return "file"
}

// Input is one classified command-line token.
type Input struct {
	kind  Kind
	path  string
	key   string
	value value.Value
}

// NewFile returns a file input.
func NewFile(path string) Input {
	return Input{kind: KindFile, path: path}
}

// NewPair returns a key/value input.
func NewPair(key string, v value.Value) Input {
	return Input{kind: KindPair, key: key, value: v}
}

// Kind reports whether the input is a file or a pair.
func (in Input) Kind() Kind { return in.kind }

// File returns the path of a file input.
func (in Input) File() (string, bool) {
	if in.kind != KindFile {
		return "", false
	}
	return in.path, true
}

// Pair returns the key and value of a pair input.
func (in Input) Pair() (string, value.Value, bool) {
	if in.kind != KindPair {
		return "", value.Value{}, false
	}
	return in.key, in.value, true
}

// MustFile returns the path of a file input and panics for a pair.
func (in Input) MustFile() string {
	path, ok := in.File()
	if !ok {
		panic(fmt.Sprintf("input: %s is not a file input", in))
	}
	return path
}

// MustPair returns the key and value of a pair input and panics for a file.
func (in Input) MustPair() (string, value.Value) {
	key, v, ok := in.Pair()
	if !ok {
		panic(fmt.Sprintf("input: %s is not a key-value pair", in))
	}
	return key, v
}

func (in Input) String() string {
	if in.kind == KindPair {
		return in.key + "=" + in.value.String()
	}
	return in.path
}

// Parse classifies a single token against the OS filesystem.
func Parse(token string) (Input, error) {
	return parse(afero.NewOsFs(), token)
}

func parse(fs afero.Fs, token string) (Input, error) {
	equals := strings.Count(token, "=")
	switch equals {
	case 0:
		exists, err := afero.Exists(fs, token)
		if err != nil {
			return Input{}, &IoError{Path: token, Err: err}
		}
		if !exists {
			return Input{}, &FileNotFoundError{Path: token}
		}
		return NewFile(token), nil
	case 1:
		key, literal, _ := strings.Cut(token, "=")
		if !IsIdentifier(key) {
			return Input{}, &InvalidPairError{
				Pair:   token,
				Reason: fmt.Sprintf("key `%s` did not match the identifier regex (`%s`)", key, identifierPattern()),
			}
		}
		v, err := ParseValue(literal)
		if err != nil {
			return Input{}, err
		}
		return NewPair(key, v), nil
	default:
		return Input{}, &InvalidPairError{
			Pair:   token,
			Reason: fmt.Sprintf("expected exactly one equal sign (`=`), found %d", equals),
		}
	}
}
