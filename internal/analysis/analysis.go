// Package analysis loads WDL sources and analyzes them concurrently.
package analysis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/kingrea/wdl/internal/document"
	"github.com/kingrea/wdl/internal/lint"
)

// ProgressKind names the phase a progress report belongs to.
type ProgressKind int

const (
	ProgressParsing ProgressKind = iota
	ProgressAnalyzing
)

func (k ProgressKind) String() string {
	if k == ProgressAnalyzing {
		return "analyzing"
	}
	return "parsing"
}

// ProgressFunc receives progress reports. It is called from worker
// goroutines but never concurrently.
type ProgressFunc func(kind ProgressKind, completed, total int)

// Analysis describes a set of sources to analyze. The zero value is usable.
type Analysis struct {
	sources    []string
	exceptions map[string]struct{}
	lint       bool
	fs         afero.Fs
	client     *http.Client
	logger     *log.Logger
	progress   ProgressFunc
	limit      int
}

// New returns an empty analysis.
func New() *Analysis {
	return &Analysis{}
}

// AddSource queues a file, directory or URL.
func (a *Analysis) AddSource(source string) *Analysis {
	a.sources = append(a.sources, source)
	return a
}

// ExtendSources queues every source.
func (a *Analysis) ExtendSources(sources []string) *Analysis {
	a.sources = append(a.sources, sources...)
	return a
}

// AddException disables the rule with the given id.
func (a *Analysis) AddException(rule string) *Analysis {
	if a.exceptions == nil {
		a.exceptions = map[string]struct{}{}
	}
	a.exceptions[rule] = struct{}{}
	return a
}

// ExtendExceptions disables every listed rule.
func (a *Analysis) ExtendExceptions(rules []string) *Analysis {
	for _, rule := range rules {
		a.AddException(rule)
	}
	return a
}

// Lint enables the lint rules.
func (a *Analysis) Lint(enabled bool) *Analysis {
	a.lint = enabled
	return a
}

// Fs sets the filesystem local sources are read from.
func (a *Analysis) Fs(fs afero.Fs) *Analysis {
	a.fs = fs
	return a
}

// HTTPClient sets the client used for http and https sources.
func (a *Analysis) HTTPClient(client *http.Client) *Analysis {
	a.client = client
	return a
}

// Logger sets the logger for analysis traces.
func (a *Analysis) Logger(logger *log.Logger) *Analysis {
	a.logger = logger
	return a
}

// Progress sets the progress callback.
func (a *Analysis) Progress(fn ProgressFunc) *Analysis {
	a.progress = fn
	return a
}

// Concurrency bounds the number of sources analyzed at once.
func (a *Analysis) Concurrency(n int) *Analysis {
	a.limit = n
	return a
}

// source is a document to analyze, addressed both by URI and by the path or
// URL shown to users.
type source struct {
	uri    string
	path   string
	remote bool
}

// Run resolves every source and analyzes the documents. Problems resolving a
// source (a missing file, an unreadable directory) fail the run; problems
// loading a single document are recorded on its Result.
func (a *Analysis) Run(ctx context.Context) (*Results, error) {
	fs := a.fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logger := a.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var sources []source
	seen := map[string]bool{}
	for _, raw := range a.sources {
		resolved, err := resolveSource(fs, raw)
		if err != nil {
			return nil, err
		}
		for _, src := range resolved {
			if seen[src.uri] {
				continue
			}
			seen[src.uri] = true
			sources = append(sources, src)
		}
	}
	logger.Debug("analyzing sources", "count", len(sources), "lint", a.lint)

	visitor := a.lintVisitor()
	results := make([]Result, len(sources))
	var (
		mu        sync.Mutex
		parsed    int
		analyzed  int
		total     = len(sources)
		reportFor = func(kind ProgressKind, counter *int) {
			mu.Lock()
			defer mu.Unlock()
			*counter++
			if a.progress != nil {
				a.progress(kind, *counter, total)
			}
		}
	)
	if a.progress != nil && total > 0 {
		a.progress(ProgressParsing, 0, total)
	}

	limit := a.limit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, src := range sources {
		g.Go(func() error {
			result := Result{URI: src.uri, Path: src.path}
			text, err := a.load(ctx, fs, src)
			reportFor(ProgressParsing, &parsed)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				result.Err = err
				results[i] = result
				reportFor(ProgressAnalyzing, &analyzed)
				return nil
			}
			doc := document.Parse(src.uri, src.path, text)
			diags := a.filter(doc.Diagnostics)
			if visitor != nil {
				diags = append(diags, visitor.Visit(doc)...)
			}
			doc.Diagnostics = diags
			result.Document = doc
			results[i] = result
			logger.Debug("analyzed document", "uri", src.uri, "diagnostics", len(diags))
			reportFor(ProgressAnalyzing, &analyzed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	return &Results{results: results}, nil
}

func (a *Analysis) lintVisitor() *lint.Visitor {
	if !a.lint {
		return nil
	}
	var rules []lint.Rule
	for _, rule := range lint.Rules() {
		if _, skip := a.exceptions[rule.ID()]; !skip {
			rules = append(rules, rule)
		}
	}
	return lint.NewVisitor(rules)
}

// filter drops excepted diagnostics. Error diagnostics always survive; an
// invalid document cannot be analyzed around.
func (a *Analysis) filter(diags []document.Diagnostic) []document.Diagnostic {
	kept := make([]document.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if _, skip := a.exceptions[d.Rule]; skip && d.Severity != document.SeverityError {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

func (a *Analysis) load(ctx context.Context, fs afero.Fs, src source) (string, error) {
	if !src.remote {
		data, err := afero.ReadFile(fs, src.path)
		if err != nil {
			return "", fmt.Errorf("failed to read `%s`: %w", src.path, err)
		}
		return string(data), nil
	}
	client := a.client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.uri, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch `%s`: %w", src.uri, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch `%s`: %w", src.uri, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch `%s`: server responded with %s", src.uri, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to fetch `%s`: %w", src.uri, err)
	}
	return string(data), nil
}

func resolveSource(fs afero.Fs, raw string) ([]source, error) {
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		switch u.Scheme {
		case "http", "https":
			return []source{{uri: raw, path: raw, remote: true}}, nil
		case "file":
			raw = u.Path
		default:
			return nil, fmt.Errorf("unsupported URL scheme `%s` in source `%s`", u.Scheme, raw)
		}
	}

	info, err := fs.Stat(raw)
	if err != nil {
		return nil, fmt.Errorf("source file `%s` does not exist", raw)
	}
	if !info.IsDir() {
		return []source{{uri: PathToURI(raw), path: raw}}, nil
	}

	var found []source
	err = afero.Walk(fs, raw, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ".wdl") {
			found = append(found, source{uri: PathToURI(path), path: path})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("analysis: walk directory `%s`: %w", raw, err)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].path < found[j].path })
	return found, nil
}

// PathToURI returns the file URI for path, made absolute when possible.
func PathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
