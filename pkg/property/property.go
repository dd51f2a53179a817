package property

import (
	"maps"
	"reflect"
	"slices"
)

// ID identifies a property. IDs are compared by value, so two keys with the
// same ID address the same entry regardless of their declared type.
type ID string

// Key is a typed handle for a property with a default value.
type Key[T any] struct {
	id  ID
	def T
}

// NewKey returns a key with the given identifier and default value.
func NewKey[T any](id string, def T) Key[T] {
	return Key[T]{id: ID(id), def: def}
}

// ID returns the key's identifier.
func (k Key[T]) ID() ID { return k.id }

// Default returns the value reported by [Get] when the key is absent.
func (k Key[T]) Default() T { return k.def }

// Cloner is implemented by property values that must not be shared between
// elements. CloneValue returns an independent copy.
type Cloner interface {
	CloneValue() any
}

// Duplicate returns a copy of v if it implements [Cloner], or v itself.
func Duplicate(v any) any {
	if c, ok := v.(Cloner); ok {
		if dup := c.CloneValue(); dup != nil {
			return dup
		}
	}
	return v
}

// Holder is implemented by anything that carries a property container.
type Holder interface {
	Properties() *Container
}

// Container maps property identifiers to values.
// The zero value is ready to use.
type Container struct {
	values map[ID]any
}

// New returns an empty container.
func New() *Container {
	return &Container{values: make(map[ID]any)}
}

// SetValue stores v under id. A nil v removes the entry, including a typed
// nil pointer, map, slice, channel, func or interface.
func (c *Container) SetValue(id ID, v any) *Container {
	if isNil(v) {
		delete(c.values, id)
		return c
	}
	if c.values == nil {
		c.values = make(map[ID]any)
	}
	c.values[id] = v
	return c
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Value returns the raw value stored under id.
func (c *Container) Value(id ID) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.values[id]
	return v, ok
}

// Has reports whether id is present.
func (c *Container) Has(id ID) bool {
	_, ok := c.Value(id)
	return ok
}

// Remove deletes id from the container.
func (c *Container) Remove(id ID) {
	delete(c.values, id)
}

// Keys returns the identifiers present in the container, sorted so that
// iteration is deterministic.
func (c *Container) Keys() []ID {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.values))
}

// Len returns the number of entries.
func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	return len(c.values)
}

// CopyFrom merges all entries of other into c. Entries of other win on
// collision. A nil other is a no-op.
func (c *Container) CopyFrom(other *Container) *Container {
	if other == nil || len(other.values) == 0 {
		return c
	}
	if c.values == nil {
		c.values = make(map[ID]any, len(other.values))
	}
	maps.Copy(c.values, other.values)
	return c
}

// Clear removes every entry.
func (c *Container) Clear() {
	clear(c.values)
}

// Clone returns a shallow copy of the container.
func (c *Container) Clone() *Container {
	return New().CopyFrom(c)
}

// Set stores v under k.
func Set[T any](c *Container, k Key[T], v T) *Container {
	return c.SetValue(k.id, v)
}

// Get returns the value stored under k, or the key's default if it is absent
// or holds a value of a different type.
func Get[T any](c *Container, k Key[T]) T {
	if v, ok := Lookup(c, k); ok {
		return v
	}
	return k.def
}

// Lookup returns the value stored under k and whether it was present with
// the expected type.
func Lookup[T any](c *Container, k Key[T]) (T, bool) {
	raw, ok := c.Value(k.id)
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}
