package analysis

import (
	"fmt"
	"io"

	"github.com/kingrea/wdl/internal/diag"
	"github.com/kingrea/wdl/internal/document"
)

// Result is the outcome of analyzing one source. Exactly one of Document and
// Err is set.
type Result struct {
	URI      string
	Path     string
	Document *document.Document
	Err      error
}

// Results holds one Result per source, in the order sources were given.
type Results struct {
	results []Result
}

// All returns every result.
func (r *Results) All() []Result {
	if r == nil {
		return nil
	}
	return append([]Result(nil), r.results...)
}

// Len returns the number of analyzed sources.
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.results)
}

// FindResult returns the result for uri.
func (r *Results) FindResult(uri string) (Result, bool) {
	if r == nil {
		return Result{}, false
	}
	for _, result := range r.results {
		if result.URI == uri {
			return result, true
		}
	}
	return Result{}, false
}

// EmitDiagnostics renders every diagnostic to w and returns how many had
// error severity. The first result that failed to load stops emission and its
// error is returned.
func (r *Results) EmitDiagnostics(w io.Writer, renderer *diag.Renderer) (int, error) {
	errs := 0
	for _, result := range r.All() {
		if result.Err != nil {
			return errs, result.Err
		}
		doc := result.Document
		for _, d := range doc.Diagnostics {
			if err := renderer.Emit(w, doc.Path, doc.Source, d); err != nil {
				return errs, err
			}
			if d.Severity == document.SeverityError {
				errs++
			}
		}
	}
	return errs, nil
}

// Summary writes one line per analyzed document.
func (r *Results) Summary(w io.Writer) error {
	for _, result := range r.All() {
		var line string
		switch {
		case result.Err != nil:
			line = fmt.Sprintf("%s: failed: %v", result.Path, result.Err)
		default:
			doc := result.Document
			workflow := "none"
			if doc.Workflow != nil {
				workflow = doc.Workflow.Name
			}
			line = fmt.Sprintf("%s: version %s, %d task(s), workflow %s, %d diagnostic(s)",
				result.Path, versionOrUnknown(doc.Version), len(doc.Tasks), workflow, len(doc.Diagnostics))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("analysis: write summary: %w", err)
		}
	}
	return nil
}

func versionOrUnknown(version string) string {
	if version == "" {
		return "unknown"
	}
	return version
}
