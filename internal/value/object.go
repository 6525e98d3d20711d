package value

// Object is an insertion-ordered map from string keys to values. Setting an
// existing key replaces its value in place and keeps its original position.
type Object struct {
	keys    []string
	entries map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{entries: map[string]Value{}}
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.entries[key]
	return v, ok
}

// Keys returns the keys in first-insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Set stores value under key.
func (o *Object) Set(key string, value Value) {
	if o.entries == nil {
		o.entries = map[string]Value{}
	}
	if _, exists := o.entries[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.entries[key] = value
}

// Clone returns a copy of the object. Values are immutable so the copy is
// independent of the original.
func (o *Object) Clone() *Object {
	clone := NewObject()
	if o == nil {
		return clone
	}
	clone.keys = make([]string, len(o.keys))
	copy(clone.keys, o.keys)
	for key, value := range o.entries {
		clone.entries[key] = value
	}
	return clone
}

// Equal reports whether both objects hold the same entries in the same order.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	if o.Len() == 0 {
		return true
	}
	for i, key := range o.keys {
		if other.keys[i] != key {
			return false
		}
		if !o.entries[key].Equal(other.entries[key]) {
			return false
		}
	}
	return true
}
