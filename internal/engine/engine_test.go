package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kingrea/wdl/internal/document"
	"github.com/kingrea/wdl/internal/value"
)

const source = `version 1.2

struct Sample {
  String id
  Int? depth
}

task align {
  input {
    File reads
    Float threshold
    Array[Int]+ lanes = [1]
    Map[String, Float] weights = {}
    Pair[Int, String]? tag
    Sample? sample
  }
  command <<< echo >>>
}

workflow pipeline {
  input {
    String cohort
    Boolean dry_run = false
  }
  call align
  call align as realign
}
`

func parseDoc(t *testing.T) *document.Document {
	t.Helper()
	doc := document.Parse("", "test.wdl", source)
	if len(doc.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", doc.Diagnostics)
	}
	return doc
}

func object(t *testing.T, literal string) *value.Object {
	t.Helper()
	v, err := value.ParseJSON([]byte(literal))
	if err != nil {
		t.Fatalf("ParseJSON(%s): %v", literal, err)
	}
	obj, ok := v.AsObject()
	if !ok {
		t.Fatalf("literal %s is not an object", literal)
	}
	return obj
}

func TestBindReturnsNilWithoutPrefix(t *testing.T) {
	doc := parseDoc(t)
	for _, literal := range []string{`{}`, `{"cohort": "x"}`, `{".cohort": "x"}`} {
		inv, err := Bind(doc, object(t, literal))
		if err != nil {
			t.Fatalf("Bind(%s) returned error: %v", literal, err)
		}
		if inv != nil {
			t.Fatalf("Bind(%s) = %+v, want nil", literal, inv)
		}
	}
}

func TestBindTaskCoercesValues(t *testing.T) {
	doc := parseDoc(t)
	inv, err := Bind(doc, object(t, `{
		"align.reads": "r.fq",
		"align.threshold": 3,
		"align.weights": {"a": 1},
		"align.tag": {"left": 1, "right": "x"},
		"align.sample": {"id": "s1"}
	}`))
	if err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	if inv.Kind != KindTask || inv.Name != "align" {
		t.Fatalf("unexpected target %s %s", inv.Kind, inv.Name)
	}
	if diff := cmp.Diff([]string{"reads", "threshold", "weights", "tag", "sample"}, inv.Inputs.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	threshold, _ := inv.Inputs.Get("threshold")
	if f, ok := threshold.AsFloat(); !ok || f != 3 {
		t.Fatalf("expected integer to widen to float, got %s", threshold)
	}
	weights, _ := inv.Inputs.Get("weights")
	if weights.String() != `{"a":1.0}` {
		t.Fatalf("unexpected weights %s", weights)
	}
	if err := inv.Validate(doc); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestBindWorkflowAcceptsCallInputs(t *testing.T) {
	doc := parseDoc(t)
	inv, err := Bind(doc, object(t, `{"pipeline.cohort": "c", "pipeline.realign.threshold": 0.5}`))
	if err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	if inv.Kind != KindWorkflow {
		t.Fatalf("expected workflow invocation, got %s", inv.Kind)
	}
	if _, ok := inv.Inputs.Get("realign.threshold"); !ok {
		t.Fatalf("expected call input to pass through")
	}
	data, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	const want = `{"kind":"workflow","name":"pipeline","inputs":{"cohort":"c","realign.threshold":0.5}}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}
}

func TestBindErrors(t *testing.T) {
	doc := parseDoc(t)
	cases := []struct {
		name    string
		literal string
		want    string
	}{
		{"unknown target", `{"nope.x": 1}`, "a task or workflow named `nope` does not exist"},
		{"mixed prefixes", `{"align.reads": "r", "pipeline.cohort": "c"}`, "expected key to be prefixed with `align`"},
		{"unprefixed after prefixed", `{"align.reads": "r", "reads": "r"}`, "expected key to be prefixed with `align`"},
		{"empty prefix before prefixed", `{".x": "r", "align.reads": "r"}`, "invalid input key `.x`: expected key to be prefixed with `align`"},
		{"unknown input", `{"align.missing": 1}`, "task `align` does not have an input named `missing`"},
		{"unknown call", `{"pipeline.other.x": 1}`, "does not have a call named `other`"},
		{"type mismatch", `{"align.reads": 1}`, "cannot coerce value of type `Int` to type `File`"},
		{"empty non-empty array", `{"align.lanes": []}`, "non-empty type `Array[Int]+`"},
		{"none into required", `{"align.reads": null}`, "non-optional type `File`"},
		{"struct extra member", `{"align.sample": {"id": "a", "x": 1}}`, "does not have a member named `x`"},
		{"struct missing member", `{"align.sample": {}}`, "missing member `id`"},
		{"pair shape", `{"align.tag": {"left": 1}}`, "to type `Pair[Int, String]?`"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Bind(doc, object(t, tc.literal))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not contain %q", err, tc.want)
			}
		})
	}
}

func TestValidateReportsMissingInputs(t *testing.T) {
	doc := parseDoc(t)
	err := NewInvocation(KindTask, "align").Validate(doc)
	if err == nil {
		t.Fatalf("expected missing input error")
	}
	const want = "missing required inputs `align.reads`, `align.threshold` to task `align`"
	if err.Error() != want {
		t.Fatalf("error = %q, want %q", err, want)
	}
}

func TestSelect(t *testing.T) {
	doc := parseDoc(t)
	inv, err := Select(doc, "", "test.wdl")
	if err != nil || inv.Kind != KindWorkflow || inv.Name != "pipeline" {
		t.Fatalf("expected default workflow, got %+v, %v", inv, err)
	}
	inv, err = Select(doc, "align", "test.wdl")
	if err != nil || inv.Kind != KindTask {
		t.Fatalf("expected task align, got %+v, %v", inv, err)
	}
	if _, err := Select(doc, "nope", "test.wdl"); err == nil {
		t.Fatalf("expected error for unknown name")
	}
	noWorkflow := document.Parse("", "", "version 1.2\ntask a {\n}\n")
	if _, err := Select(noWorkflow, "", "a.wdl"); err == nil || !strings.Contains(err.Error(), "no workflow was found in `a.wdl`") {
		t.Fatalf("unexpected error: %v", err)
	}
}
