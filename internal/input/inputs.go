package input

import (
	"github.com/kingrea/wdl/internal/document"
	"github.com/kingrea/wdl/internal/engine"
	"github.com/kingrea/wdl/internal/value"
)

// Inputs is the coalesced, insertion-ordered set of resolved inputs.
type Inputs struct {
	obj *value.Object
}

// NewInputs returns an empty set of inputs.
func NewInputs() *Inputs {
	return &Inputs{obj: value.NewObject()}
}

// Len returns the number of distinct keys.
func (in *Inputs) Len() int { return in.obj.Len() }

// Get returns the value stored under key.
func (in *Inputs) Get(key string) (value.Value, bool) { return in.obj.Get(key) }

// Keys returns the keys in first-insertion order.
func (in *Inputs) Keys() []string { return in.obj.Keys() }

// Insert stores v under key. An existing key keeps its position and takes the
// new value.
func (in *Inputs) Insert(key string, v value.Value) {
	if in.obj == nil {
		in.obj = value.NewObject()
	}
	in.obj.Set(key, v)
}

// Extend inserts every entry of obj in order.
func (in *Inputs) Extend(obj *value.Object) {
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		in.Insert(key, v)
	}
}

// Object returns a copy of the inputs as an ordered object.
func (in *Inputs) Object() *value.Object { return in.obj.Clone() }

// MarshalJSON encodes the inputs as a JSON object in insertion order.
func (in *Inputs) MarshalJSON() ([]byte, error) {
	if in.obj == nil {
		return []byte("{}"), nil
	}
	return in.obj.MarshalJSON()
}

// EngineInputs binds the inputs to a task or workflow in doc. It returns a
// nil invocation when no key names a task or workflow prefix.
func (in *Inputs) EngineInputs(doc *document.Document) (*engine.Invocation, error) {
	return engine.Bind(doc, in.obj)
}
