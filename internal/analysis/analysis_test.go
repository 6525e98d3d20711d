package analysis

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"go.uber.org/goleak"

	"github.com/kingrea/wdl/internal/diag"
	"github.com/kingrea/wdl/internal/document"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const alignSource = `version 1.1

task Align {
  input {
    File reads
  }
  command <<< echo >>>
}
`

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, contents := range files {
		if err := afero.WriteFile(fs, path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func rules(diags []document.Diagnostic) []string {
	var ids []string
	for _, d := range diags {
		ids = append(ids, d.Rule)
	}
	return ids
}

func TestRunResolvesFilesAndDirectories(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/work/main.wdl":       alignSource,
		"/work/lib/b.wdl":      "version 1.1\n",
		"/work/lib/a.wdl":      "version 1.1\n",
		"/work/lib/notes.txt":  "not wdl",
		"/work/lib/deep/c.wdl": "version 1.1\n",
	})
	results, err := New().
		Fs(fs).
		AddSource("/work/main.wdl").
		AddSource("/work/lib").
		AddSource("file:///work/main.wdl").
		Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	var paths []string
	for _, result := range results.All() {
		paths = append(paths, result.Path)
	}
	want := []string{"/work/main.wdl", "/work/lib/a.wdl", "/work/lib/b.wdl", "/work/lib/deep/c.wdl"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("unexpected sources (-want +got):\n%s", diff)
	}
	result, ok := results.FindResult(PathToURI("/work/main.wdl"))
	if !ok {
		t.Fatalf("expected to find main.wdl by URI")
	}
	if result.Document == nil || len(result.Document.Tasks) != 1 {
		t.Fatalf("expected analyzed document with one task, got %+v", result)
	}
}

func TestRunMissingSource(t *testing.T) {
	_, err := New().Fs(afero.NewMemMapFs()).AddSource("missing.wdl").Run(context.Background())
	if err == nil || err.Error() != "source file `missing.wdl` does not exist" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunLintAndExceptions(t *testing.T) {
	fs := newFs(t, map[string]string{"/work/main.wdl": alignSource})

	results, err := New().Fs(fs).AddSource("/work/main.wdl").Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if diags := results.All()[0].Document.Diagnostics; len(diags) != 0 {
		t.Fatalf("expected no diagnostics without lint, got %v", rules(diags))
	}

	results, err = New().Fs(fs).AddSource("/work/main.wdl").Lint(true).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"SnakeCase"}, rules(results.All()[0].Document.Diagnostics)); diff != "" {
		t.Fatalf("unexpected lint rules (-want +got):\n%s", diff)
	}

	results, err = New().Fs(fs).AddSource("/work/main.wdl").Lint(true).AddException("SnakeCase").Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if diags := results.All()[0].Document.Diagnostics; len(diags) != 0 {
		t.Fatalf("expected excepted rule to be silenced, got %v", rules(diags))
	}
}

func TestRunExceptionsKeepErrors(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/work/old.wdl":     "version 0.9\n",
		"/work/unknown.wdl": "task t {\n}\n",
	})
	results, err := New().
		Fs(fs).
		ExtendSources([]string{"/work/old.wdl", "/work/unknown.wdl"}).
		ExtendExceptions([]string{document.RuleUnsupportedVersion, document.RuleMissingVersion}).
		Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	all := results.All()
	if diags := all[0].Document.Diagnostics; len(diags) != 0 {
		t.Fatalf("expected UnsupportedVersion warning to be excepted, got %v", rules(diags))
	}
	if diff := cmp.Diff([]string{document.RuleMissingVersion}, rules(all[1].Document.Diagnostics)); diff != "" {
		t.Fatalf("expected error diagnostic to survive (-want +got):\n%s", diff)
	}
}

func TestRunFetchesURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/align.wdl" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(alignSource))
	}))
	defer server.Close()
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}

	results, err := New().
		HTTPClient(client).
		AddSource(server.URL + "/align.wdl").
		AddSource(server.URL + "/missing.wdl").
		Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	fetched, ok := results.FindResult(server.URL + "/align.wdl")
	if !ok || fetched.Err != nil {
		t.Fatalf("expected fetched document, got %+v", fetched)
	}
	if _, found := fetched.Document.TaskByName("Align"); !found {
		t.Fatalf("expected fetched document, got %+v", fetched)
	}
	missing, _ := results.FindResult(server.URL + "/missing.wdl")
	if missing.Err == nil || !strings.Contains(missing.Err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", missing.Err)
	}

	_, err = results.EmitDiagnostics(&bytes.Buffer{}, diag.NewRenderer(&bytes.Buffer{}, false))
	if err == nil || err != missing.Err {
		t.Fatalf("expected emission to stop on the failed source, got %v", err)
	}
}

func TestRunReportsProgress(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/work/a.wdl": "version 1.1\n",
		"/work/b.wdl": "version 1.1\n",
	})
	var (
		mu      sync.Mutex
		reports []string
		last    = map[ProgressKind]int{}
	)
	_, err := New().Fs(fs).AddSource("/work").Concurrency(1).Progress(func(kind ProgressKind, completed, total int) {
		mu.Lock()
		defer mu.Unlock()
		if total != 2 {
			t.Errorf("expected total 2, got %d", total)
		}
		if completed < last[kind] {
			t.Errorf("%s progress went backwards: %d after %d", kind, completed, last[kind])
		}
		last[kind] = completed
		reports = append(reports, kind.String())
	}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if last[ProgressParsing] != 2 || last[ProgressAnalyzing] != 2 {
		t.Fatalf("expected both phases to complete, got %v", last)
	}
	if len(reports) != 5 {
		t.Fatalf("expected 5 progress reports, got %v", reports)
	}
}

func TestEmitDiagnosticsCountsErrors(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/work/a.wdl": "task t {\n}\n",
		"/work/b.wdl": alignSource,
	})
	results, err := New().Fs(fs).AddSource("/work").Lint(true).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	var out bytes.Buffer
	count, err := results.EmitDiagnostics(&out, diag.NewRenderer(&out, false))
	if err != nil {
		t.Fatalf("EmitDiagnostics returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 error diagnostic, got %d:\n%s", count, out.String())
	}
	for _, want := range []string{"error[MissingVersion]", "warning[SnakeCase]", "/work/b.wdl:3:6"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out.String())
		}
	}

	var summary bytes.Buffer
	if err := results.Summary(&summary); err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if !strings.Contains(summary.String(), "/work/b.wdl: version 1.1, 1 task(s), workflow none") {
		t.Fatalf("unexpected summary:\n%s", summary.String())
	}
}
