package value

import "golang.org/x/text/cases"

var foldCaser = cases.Fold()

// fold normalizes a variable name for case-insensitive storage, the same
// case-folding internal/lexer uses to recognize reserved words.
func fold(name string) string {
	return foldCaser.String(name)
}

// entry pairs a Value with the original-cased name it was stored under, so
// Enumerate can report names the way the user wrote them.
type entry struct {
	name  string
	value Value
}

// NamedValue is one (name, value) pair returned by Enumerate.
type NamedValue struct {
	Name  string
	Value Value
}

// Registry is a case-insensitive map from variable name to Value.
// Insertion order is preserved so Enumerate (used by the memory()
// built-in) is deterministic within a run.
type Registry struct {
	order []string          // folded keys, insertion order
	byKey map[string]*entry // folded key -> entry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]*entry)}
}

// Set stores value under name, overwriting any prior value and tag.
func (r *Registry) Set(name string, v Value) {
	key := fold(name)
	if e, ok := r.byKey[key]; ok {
		e.value = v
		return
	}
	r.byKey[key] = &entry{name: name, value: v}
	r.order = append(r.order, key)
}

// Get returns the value stored under name, if any.
func (r *Registry) Get(name string) (Value, bool) {
	e, ok := r.byKey[fold(name)]
	if !ok {
		return Value{}, false
	}
	return e.value, true
}

// Remove deletes name from the registry. It returns true if it was present.
func (r *Registry) Remove(name string) bool {
	key := fold(name)
	if _, ok := r.byKey[key]; !ok {
		return false
	}
	delete(r.byKey, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear removes every entry.
func (r *Registry) Clear() {
	r.order = nil
	r.byKey = make(map[string]*entry)
}

// Len reports how many variables are currently stored.
func (r *Registry) Len() int {
	return len(r.order)
}

// Enumerate returns every (name, value) pair in insertion order, for the
// memory() built-in's dump.
func (r *Registry) Enumerate() []NamedValue {
	out := make([]NamedValue, 0, len(r.order))
	for _, key := range r.order {
		e := r.byKey[key]
		out = append(out, NamedValue{Name: e.name, Value: e.value})
	}
	return out
}
