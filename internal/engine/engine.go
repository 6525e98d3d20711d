// Package engine binds a flat input mapping to a task or workflow of an
// analyzed document, producing the invocation handed to the execution
// engine.
package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kingrea/wdl/internal/document"
	"github.com/kingrea/wdl/internal/value"
)

// Kind says whether an invocation targets a task or a workflow.
type Kind int

const (
	KindTask Kind = iota
	KindWorkflow
)

func (k Kind) String() string {
	if k == KindWorkflow {
		return "workflow"
	}
	return "task"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Invocation is a named, scoped set of inputs. Input keys no longer carry the
// task or workflow name prefix.
type Invocation struct {
	Kind   Kind
	Name   string
	Inputs *value.Object
}

// NewInvocation returns an invocation with no inputs.
func NewInvocation(kind Kind, name string) *Invocation {
	return &Invocation{Kind: kind, Name: name, Inputs: value.NewObject()}
}

// MarshalJSON encodes the invocation for the execution engine.
func (inv *Invocation) MarshalJSON() ([]byte, error) {
	inputs := inv.Inputs
	if inputs == nil {
		inputs = value.NewObject()
	}
	return json.Marshal(struct {
		Kind   Kind          `json:"kind"`
		Name   string        `json:"name"`
		Inputs *value.Object `json:"inputs"`
	}{inv.Kind, inv.Name, inputs})
}

// Bind infers the target of inputs from the `<name>.` prefix of its keys and
// coerces every value to the declared input type. Bind returns nil when no
// key carries a non-empty prefix.
func Bind(doc *document.Document, inputs *value.Object) (*Invocation, error) {
	if doc == nil {
		return nil, fmt.Errorf("engine: document is required")
	}
	keys := inputs.Keys()
	name := ""
	for _, key := range keys {
		if prefix, _, ok := strings.Cut(key, "."); ok && prefix != "" {
			name = prefix
			break
		}
	}
	if name == "" {
		return nil, nil
	}
	var inv *Invocation
	task, isTask := doc.TaskByName(name)
	switch {
	case isTask:
		inv = NewInvocation(KindTask, name)
	case doc.Workflow != nil && doc.Workflow.Name == name:
		inv = NewInvocation(KindWorkflow, name)
	default:
		return nil, fmt.Errorf("invalid input key `%s`: a task or workflow named `%s` does not exist in the document",
			firstKeyWithPrefix(keys, name), name)
	}
	for _, key := range keys {
		rest, ok := strings.CutPrefix(key, name+".")
		if !ok || rest == "" {
			return nil, fmt.Errorf("invalid input key `%s`: expected key to be prefixed with `%s`", key, name)
		}
		v, _ := inputs.Get(key)
		var (
			bound value.Value
			err   error
		)
		if isTask {
			bound, err = bindTaskInput(doc, task, rest, v)
		} else {
			bound, err = bindWorkflowInput(doc, doc.Workflow, rest, v)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid input key `%s`: %w", key, err)
		}
		inv.Inputs.Set(rest, bound)
	}
	return inv, nil
}

func firstKeyWithPrefix(keys []string, name string) string {
	for _, key := range keys {
		if strings.HasPrefix(key, name+".") {
			return key
		}
	}
	return name
}

func bindTaskInput(doc *document.Document, task *document.Task, name string, v value.Value) (value.Value, error) {
	decl, ok := task.Input(name)
	if !ok {
		return value.Value{}, fmt.Errorf("task `%s` does not have an input named `%s`", task.Name, name)
	}
	return Coerce(doc, decl.Type, v)
}

func bindWorkflowInput(doc *document.Document, wf *document.Workflow, name string, v value.Value) (value.Value, error) {
	if callName, _, nested := strings.Cut(name, "."); nested {
		if _, ok := wf.Call(callName); !ok {
			return value.Value{}, fmt.Errorf("workflow `%s` does not have a call named `%s`", wf.Name, callName)
		}
		return v, nil
	}
	decl, ok := wf.Input(name)
	if !ok {
		return value.Value{}, fmt.Errorf("workflow `%s` does not have an input named `%s`", wf.Name, name)
	}
	return Coerce(doc, decl.Type, v)
}

// Validate reports required inputs that the invocation does not supply.
func (inv *Invocation) Validate(doc *document.Document) error {
	var decls []document.Decl
	switch inv.Kind {
	case KindTask:
		task, ok := doc.TaskByName(inv.Name)
		if !ok {
			return fmt.Errorf("engine: document does not contain a task named `%s`", inv.Name)
		}
		decls = task.Inputs
	case KindWorkflow:
		if doc.Workflow == nil || doc.Workflow.Name != inv.Name {
			return fmt.Errorf("engine: document does not contain a workflow named `%s`", inv.Name)
		}
		decls = doc.Workflow.Inputs
	}
	var missing []string
	for _, decl := range decls {
		if !decl.Required() {
			continue
		}
		if _, ok := inv.Inputs.Get(decl.Name); !ok {
			missing = append(missing, fmt.Sprintf("`%s.%s`", inv.Name, decl.Name))
		}
	}
	switch len(missing) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("missing required input %s to %s `%s`", missing[0], inv.Kind, inv.Name)
	default:
		return fmt.Errorf("missing required inputs %s to %s `%s`", strings.Join(missing, ", "), inv.Kind, inv.Name)
	}
}

// Select picks the invocation target when the inputs named none: the task or
// workflow called name, or the document's workflow when name is empty.
func Select(doc *document.Document, name, source string) (*Invocation, error) {
	if name != "" {
		if _, ok := doc.TaskByName(name); ok {
			return NewInvocation(KindTask, name), nil
		}
		if doc.Workflow != nil && doc.Workflow.Name == name {
			return NewInvocation(KindWorkflow, name), nil
		}
		return nil, fmt.Errorf("no task or workflow with name `%s` was found", name)
	}
	if doc.Workflow != nil {
		return NewInvocation(KindWorkflow, doc.Workflow.Name), nil
	}
	return nil, fmt.Errorf("no workflow was found in `%s`; either specify a document with a workflow "+
		"or use the `-n` option to refer to a specific task or workflow by name", source)
}
