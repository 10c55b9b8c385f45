package engine

// Box is a readable, writable value cell. The payload bridge exposes every
// text slot to scripts through this interface only.
type Box[T any] interface {
	Get() T
	Set(v T)
}

// Dirty is a Box that remembers whether it was written. A write marks the
// cell changed even when the new value equals the old one.
type Dirty[T any] struct {
	value   T
	changed bool
}

// NewDirty returns a clean cell holding v.
func NewDirty[T any](v T) Dirty[T] {
	return Dirty[T]{value: v}
}

// Get returns the current value.
func (d *Dirty[T]) Get() T { return d.value }

// Set stores v and marks the cell changed.
func (d *Dirty[T]) Set(v T) {
	d.value = v
	d.changed = true
}

// Changed reports whether Set was called since the last Reset.
func (d *Dirty[T]) Changed() bool { return d.changed }

// Reset stores v and clears the changed flag.
func (d *Dirty[T]) Reset(v T) {
	d.value = v
	d.changed = false
}
