// Package document holds the analyzed form of a workflow source file: its
// version, tasks, workflow, structs and the input declarations the engine
// handoff binds against.
package document

// Decl is an input or struct member declaration.
type Decl struct {
	Name       string
	Type       Type
	HasDefault bool
	Span       Span
}

// Required reports whether a value must be supplied for the declaration.
func (d Decl) Required() bool {
	return !d.Type.Optional && !d.HasDefault
}

// Call is a call statement inside a workflow.
type Call struct {
	Target string
	Alias  string
	Span   Span
}

// Name returns the name the call is addressed by in input keys.
func (c Call) Name() string {
	if c.Alias != "" {
		return c.Alias
	}
	target := c.Target
	for i := len(target) - 1; i >= 0; i-- {
		if target[i] == '.' {
			return target[i+1:]
		}
	}
	return target
}

// Task is a task definition.
type Task struct {
	Name   string
	Inputs []Decl
	Span   Span
}

// Input looks up a declared input by name.
func (t *Task) Input(name string) (Decl, bool) {
	return findDecl(t.Inputs, name)
}

// Workflow is the workflow definition of a document.
type Workflow struct {
	Name   string
	Inputs []Decl
	Calls  []Call
	Span   Span
}

// Input looks up a declared input by name.
func (w *Workflow) Input(name string) (Decl, bool) {
	return findDecl(w.Inputs, name)
}

// Call looks up a call by the name it is addressed by.
func (w *Workflow) Call(name string) (Call, bool) {
	for _, call := range w.Calls {
		if call.Name() == name {
			return call, true
		}
	}
	return Call{}, false
}

// Struct is a struct definition.
type Struct struct {
	Name    string
	Members []Decl
	Span    Span
}

// Document is one analyzed source.
type Document struct {
	URI         string
	Path        string
	Source      string
	Version     string
	VersionSpan Span
	Tasks       []Task
	Workflow    *Workflow
	Structs     []Struct
	Diagnostics []Diagnostic
}

// TaskByName returns the task with the given name.
func (d *Document) TaskByName(name string) (*Task, bool) {
	for i := range d.Tasks {
		if d.Tasks[i].Name == name {
			return &d.Tasks[i], true
		}
	}
	return nil, false
}

// StructByName returns the struct with the given name.
func (d *Document) StructByName(name string) (*Struct, bool) {
	for i := range d.Structs {
		if d.Structs[i].Name == name {
			return &d.Structs[i], true
		}
	}
	return nil, false
}

// ErrorCount returns the number of error diagnostics.
func (d *Document) ErrorCount() int {
	count := 0
	for _, diag := range d.Diagnostics {
		if diag.Severity == SeverityError {
			count++
		}
	}
	return count
}

func findDecl(decls []Decl, name string) (Decl, bool) {
	for _, decl := range decls {
		if decl.Name == name {
			return decl, true
		}
	}
	return Decl{}, false
}
