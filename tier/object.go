// Package tier normalizes arbitrarily nested "tiered list" documents.
//
// A tiered value is either a scalar, a sequence ([]any), or a mapping
// with unique string keys and preserved insertion order (*Object). Keys
// ending in the literal suffix "List" mark hierarchy levels; the package
// discovers the chain of level names from the root and renames each level
// to the canonical Tier1_List, Tier2_List, ..., BranchesList scheme while
// leaving the wrapped data untouched.
//
// The package is pure: no I/O, no logging, no shared mutable state. The
// only failure mode is ErrCyclicStructure on cyclic object graphs.
package tier

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is the mapping node of a tiered value. Unlike a Go map it
// preserves key insertion order, which discovery depends on ("first key
// ending in List" is defined by document order).
type Object struct {
	om *orderedmap.OrderedMap[string, any]
}

// NewObject returns an empty ordered mapping.
func NewObject() *Object {
	return &Object{om: orderedmap.New[string, any]()}
}

// Set stores value under key, appending the key if it is new.
// Returns the receiver so literals can be built by chaining.
func (o *Object) Set(key string, value any) *Object {
	o.om.Set(key, value)
	return o
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	return o.om.Get(key)
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.om.Get(key)
	return ok
}

// Delete removes key, reporting whether it was present.
func (o *Object) Delete(key string) bool {
	_, ok := o.om.Delete(key)
	return ok
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return o.om.Len()
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.om.Len())
	for p := o.om.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Pairs iterates key/value pairs in insertion order.
func (o *Object) Pairs() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for p := o.om.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}
