package input

import (
	"errors"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/kingrea/wdl/internal/value"
)

var errInvalidUTF8 = errors.New("contents are not valid UTF-8")

// Format is a named input file syntax.
type Format struct {
	Name  string
	Parse func(data []byte) (value.Value, error)
}

// JSON parses input files as JSON.
var JSON = Format{Name: "JSON", Parse: value.ParseJSON}

// YAML parses input files as YAML.
var YAML = Format{Name: "YAML", Parse: value.ParseYAML}

// DefaultFormats returns the formats tried for every input file, in order.
func DefaultFormats() []Format {
	return []Format{JSON, YAML}
}

// readFile loads path from fs and returns the first object-rooted parse among
// formats. A parse that succeeds with a non-object root does not stop the
// search; if no later format yields an object the result is a
// *NonMapRootError. If no format parses at all the result is an
// *UnsupportedFormatError.
func readFile(fs afero.Fs, path string, formats []Format) (*value.Object, string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, "", &IoError{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, "", &IoError{Path: path, Err: errInvalidUTF8}
	}

	parsedNonMap := false
	names := make([]string, 0, len(formats))
	for _, format := range formats {
		names = append(names, format.Name)
		v, err := format.Parse(data)
		if err != nil {
			continue
		}
		if obj, ok := v.AsObject(); ok {
			return obj, format.Name, nil
		}
		parsedNonMap = true
	}
	if parsedNonMap {
		return nil, "", &NonMapRootError{Path: path}
	}
	return nil, "", &UnsupportedFormatError{Path: path, Formats: names}
}
