// Package property provides the key/value container that layout options are
// stored in.
//
// A [Container] maps option identifiers to values. Absence is represented by
// the key being missing, never by a nil entry: [Container.SetValue] with a nil
// value removes the key. Typed access goes through [Key], which pairs an
// identifier with a default value:
//
//	var Spacing = property.NewKey("layout.spacing", 20.0)
//
//	c := property.New()
//	property.Set(c, Spacing, 35.0)
//	property.Get(c, Spacing) // 35.0
//
// # Duplication
//
// Values that are mutable and may be shared between many elements implement
// [Cloner]. [Duplicate] returns a fresh copy of such values so that two
// elements configured from the same container never alias the same value.
//
// # Concurrency
//
// Containers are not safe for concurrent mutation. Concurrent reads are safe
// once all writes have completed.
package property
