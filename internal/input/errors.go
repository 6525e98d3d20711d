package input

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies the errors returned while resolving inputs.
type ErrorKind int

const (
	// Other marks errors that did not come from input resolution.
	Other ErrorKind = iota
	FileNotFound
	InvalidPair
	Deserialize
	Io
	NonMapRoot
	UnsupportedFormat
)

func (k ErrorKind) String() string {
	switch k {
	case FileNotFound:
		return "FileNotFound"
	case InvalidPair:
		return "InvalidPair"
	case Deserialize:
		return "Deserialize"
	case Io:
		return "Io"
	case NonMapRoot:
		return "NonMapRoot"
	case UnsupportedFormat:
		return "UnsupportedFormat"
	default:
		return "Other"
	}
}

// KindOf returns the kind of the first input error in err's chain.
func KindOf(err error) ErrorKind {
	var kinded interface{ Kind() ErrorKind }
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	return Other
}

// FileNotFoundError reports a token without `=` that names no filesystem entry.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string { return fmt.Sprintf("file not found: `%s`", e.Path) }

// Kind returns FileNotFound.
func (e *FileNotFoundError) Kind() ErrorKind { return FileNotFound }

// InvalidPairError reports a malformed `key=value` token.
type InvalidPairError struct {
	Pair   string
	Reason string
}

func (e *InvalidPairError) Error() string {
	return fmt.Sprintf("invalid key-value pair: `%s`; %s", e.Pair, e.Reason)
}

// Kind returns InvalidPair.
func (e *InvalidPairError) Kind() ErrorKind { return InvalidPair }

// DeserializeError reports a pair value that is neither a literal nor a bare
// word.
type DeserializeError struct {
	Literal string
}

func (e *DeserializeError) Error() string {
	return fmt.Sprintf("unable to deserialize `%s` as valid WDL value", e.Literal)
}

// Kind returns Deserialize.
func (e *DeserializeError) Kind() ErrorKind { return Deserialize }

// IoError reports a failure reading an input file.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("unable to read input file `%s`: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// Kind returns Io.
func (e *IoError) Kind() ErrorKind { return Io }

// NonMapRootError reports an input file that parsed but whose top-level value
// is not an object.
type NonMapRootError struct {
	Path string
}

func (e *NonMapRootError) Error() string {
	return fmt.Sprintf("input file `%s` did not contain a map at the root", e.Path)
}

// Kind returns NonMapRoot.
func (e *NonMapRootError) Kind() ErrorKind { return NonMapRoot }

// UnsupportedFormatError reports an input file that no format could parse.
type UnsupportedFormatError struct {
	Path    string
	Formats []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("file `%s` is %s", e.Path, describeFormats(e.Formats))
}

// Kind returns UnsupportedFormat.
func (e *UnsupportedFormatError) Kind() ErrorKind { return UnsupportedFormat }

func describeFormats(names []string) string {
	switch len(names) {
	case 0:
		return "not in a supported format"
	case 1:
		return "not a valid " + names[0] + " file"
	case 2:
		return "neither a valid " + names[0] + " nor a valid " + names[1] + " file"
	default:
		return "not a valid " + strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1] + " file"
	}
}
