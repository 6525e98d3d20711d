package input

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/kingrea/wdl/internal/value"
)

// Resolver classifies and coalesces input tokens.
type Resolver struct {
	fs      afero.Fs
	logger  *log.Logger
	formats []Format
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFs reads input files from fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(r *Resolver) {
		if fs != nil {
			r.fs = fs
		}
	}
}

// WithLogger sends resolution traces to logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithFormats overrides the formats tried for input files.
func WithFormats(formats ...Format) Option {
	return func(r *Resolver) {
		if len(formats) > 0 {
			r.formats = append([]Format(nil), formats...)
		}
	}
}

// NewResolver returns a resolver backed by the OS filesystem unless
// overridden.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		fs:      afero.NewOsFs(),
		logger:  log.New(io.Discard),
		formats: DefaultFormats(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Parse classifies a single token.
func (r *Resolver) Parse(token string) (Input, error) {
	return parse(r.fs, token)
}

// ReadFile loads an input file and returns its top-level object.
func (r *Resolver) ReadFile(path string) (*value.Object, error) {
	obj, format, err := readFile(r.fs, path, r.formats)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("read input file", "path", path, "format", format, "keys", obj.Len())
	return obj, nil
}

// Coalesce resolves tokens left to right into one set of inputs. The first
// failing token aborts resolution and no partial result is returned.
func (r *Resolver) Coalesce(tokens []string) (*Inputs, error) {
	inputs := NewInputs()
	for _, token := range tokens {
		in, err := r.Parse(token)
		if err != nil {
			return nil, err
		}
		switch in.Kind() {
		case KindFile:
			obj, err := r.ReadFile(in.MustFile())
			if err != nil {
				return nil, err
			}
			inputs.Extend(obj)
		case KindPair:
			key, v := in.MustPair()
			if _, replaced := inputs.Get(key); replaced {
				r.logger.Debug("overriding input", "key", key)
			}
			inputs.Insert(key, v)
		}
	}
	return inputs, nil
}

// Coalesce resolves tokens against the OS filesystem.
func Coalesce(tokens []string) (*Inputs, error) {
	return NewResolver().Coalesce(tokens)
}
