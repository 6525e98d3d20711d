package document

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleSource = `version 1.2

struct Sample {
  String id
  Array[File] reads
}

task say_hello {
  input {
    String greeting = "hello"
    String name
    Int? repeat
    Map[String, Int] counts
  }

  command <<<
    for i in $(seq ~{select_first([repeat, 1])}); do echo "~{greeting}, ~{name}"; done
  >>>

  output {
    String out = read_string(stdout())
  }
}

workflow greet {
  input {
    Array[String]+ names
    Sample sample
  }

  scatter (n in names) {
    call say_hello { input: name = n }
  }

  call say_hello as again
}
`

func TestParseExtractsDefinitions(t *testing.T) {
	doc := Parse("file:///tmp/sample.wdl", "/tmp/sample.wdl", sampleSource)
	if len(doc.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", doc.Diagnostics)
	}
	if doc.Version != "1.2" {
		t.Fatalf("version = %q", doc.Version)
	}
	task, ok := doc.TaskByName("say_hello")
	if !ok {
		t.Fatalf("expected task say_hello")
	}
	var got []string
	for _, decl := range task.Inputs {
		got = append(got, decl.Type.String()+" "+decl.Name)
	}
	want := []string{"String greeting", "String name", "Int? repeat", "Map[String, Int] counts"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("task inputs mismatch (-want +got):\n%s", diff)
	}
	greeting, _ := task.Input("greeting")
	if greeting.Required() {
		t.Fatalf("input with a default should not be required")
	}
	name, _ := task.Input("name")
	if !name.Required() {
		t.Fatalf("input without a default should be required")
	}
	repeat, _ := task.Input("repeat")
	if repeat.Required() {
		t.Fatalf("optional input should not be required")
	}

	wf := doc.Workflow
	if wf == nil || wf.Name != "greet" {
		t.Fatalf("expected workflow greet, got %+v", wf)
	}
	names, ok := wf.Input("names")
	if !ok || !names.Type.NonEmpty || names.Type.Name != TypeArray {
		t.Fatalf("unexpected names input: %+v", names)
	}
	if _, ok := wf.Call("say_hello"); !ok {
		t.Fatalf("expected call say_hello inside scatter")
	}
	if _, ok := wf.Call("again"); !ok {
		t.Fatalf("expected aliased call again")
	}
	st, ok := doc.StructByName("Sample")
	if !ok || len(st.Members) != 2 {
		t.Fatalf("unexpected struct: %+v", st)
	}
}

func TestParseReportsProblems(t *testing.T) {
	cases := []struct {
		name   string
		source string
		rule   string
	}{
		{"missing version", "task a {\n}\n", RuleMissingVersion},
		{"unsupported version", "version 9.9\n", RuleUnsupportedVersion},
		{"unmatched close", "version 1.2\n}\n", RuleUnmatchedBrace},
		{"unclosed open", "version 1.2\ntask a {\n", RuleUnmatchedBrace},
		{"duplicate task", "version 1.2\ntask a {\n}\ntask a {\n}\n", RuleDuplicateTask},
		{"two workflows", "version 1.2\nworkflow a {\n}\nworkflow b {\n}\n", RuleMultipleWorkflows},
		{"duplicate input", "version 1.2\ntask a {\n input {\n  Int x\n  String x\n }\n}\n", RuleDuplicateInput},
		{"name conflict", "version 1.2\ntask a {\n}\nworkflow a {\n}\n", RuleNameConflict},
		{"invalid type", "version 1.2\ntask a {\n input {\n  Array[Int, Int] x\n }\n}\n", RuleInvalidType},
		{"unterminated heredoc", "version 1.2\ntask a {\n command <<<\n echo\n}\n", RuleUnterminated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := Parse("", "", tc.source)
			for _, diag := range doc.Diagnostics {
				if diag.Rule == tc.rule {
					return
				}
			}
			t.Fatalf("expected a %s diagnostic, got %+v", tc.rule, doc.Diagnostics)
		})
	}
}

func TestParseBraceCommandSection(t *testing.T) {
	source := strings.Join([]string{
		"version 1.0",
		"task a {",
		"  input {",
		"    String s",
		"  }",
		"  command {",
		"    if [ -n \"${s}\" ]; then { echo ok; }; fi",
		"  }",
		"}",
	}, "\n")
	doc := Parse("", "", source)
	if len(doc.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", doc.Diagnostics)
	}
	if task, ok := doc.TaskByName("a"); !ok || len(task.Inputs) != 1 {
		t.Fatalf("expected task a with one input")
	}
}

func TestParseType(t *testing.T) {
	cases := map[string]string{
		"Int":                    "Int",
		"Array[ File ]+?":        "Array[File]+?",
		"Map[String,Array[Int]]": "Map[String, Array[Int]]",
		"Pair[Int, Float]":       "Pair[Int, Float]",
		"MyStruct?":              "MyStruct?",
	}
	for text, want := range cases {
		typ, err := ParseType(text)
		if err != nil {
			t.Fatalf("ParseType(%q) returned error: %v", text, err)
		}
		if got := typ.String(); got != want {
			t.Fatalf("ParseType(%q) = %q, want %q", text, got, want)
		}
	}
	for _, bad := range []string{"", "Array", "Int+", "Map[String]", "Array[Int", "Int Int"} {
		if _, err := ParseType(bad); err == nil {
			t.Fatalf("expected ParseType(%q) to fail", bad)
		}
	}
}
