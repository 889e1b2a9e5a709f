// Package growable implements a resizable, random-access buffer of bytes or
// runes. It is the storage engine behind every large object.
package growable

import (
	"math"

	"github.com/bisegni/lobcursor/pkg/sqlerr"
)

const (
	// MinCapacity is the capacity allocated on the first growth.
	MinCapacity = 256
	// MaxLength is the largest logical length a buffer accepts.
	MaxLength = math.MaxInt32
)

// Element is the set of element types a Buffer can hold.
type Element interface {
	~byte | ~rune
}

// Buffer is a growable array. Its logical length never exceeds its capacity,
// extending the length zero-fills the newly exposed elements and shrinking it
// never releases storage.
//
// A Buffer is not safe for concurrent use.
type Buffer[T Element] struct {
	data []T
}

// New creates an empty buffer.
func New[T Element]() *Buffer[T] {
	return &Buffer[T]{}
}

// From creates a buffer seeded with a copy of content.
func From[T Element](content []T) *Buffer[T] {
	b := &Buffer[T]{}
	b.Append(content...)
	return b
}

// Len returns the logical length.
func (b *Buffer[T]) Len() int {
	return len(b.data)
}

// Cap returns the physical capacity.
func (b *Buffer[T]) Cap() int {
	return cap(b.data)
}

// Append extends the buffer with elems.
func (b *Buffer[T]) Append(elems ...T) {
	if len(elems) == 0 {
		return
	}
	old := len(b.data)
	b.reserve(old + len(elems))
	b.data = b.data[:old+len(elems)]
	copy(b.data[old:], elems)
}

// SetLength sets the logical length to n. Positions between the previous
// length and n are zero-filled; a smaller n keeps the storage untouched.
func (b *Buffer[T]) SetLength(n int) error {
	if n < 0 {
		return sqlerr.InvalidArgument("length [%d] is negative", n)
	}
	if n > MaxLength {
		return sqlerr.InvalidArgument("length [%d] exceeds the maximum [%d]", n, MaxLength)
	}
	old := len(b.data)
	if n <= old {
		b.data = b.data[:n]
		return nil
	}
	b.reserve(n)
	b.data = b.data[:n]
	clear(b.data[old:])
	return nil
}

// Overwrite copies src into the buffer starting at off, growing it first when
// the write ends past the current length. The gap between the old length and
// off is zero-filled. Growth and copy happen as one step.
func (b *Buffer[T]) Overwrite(off int, src []T) error {
	if off < 0 {
		return sqlerr.InvalidArgument("offset [%d] is negative", off)
	}
	if off > MaxLength || len(src) > MaxLength-off {
		return sqlerr.InvalidArgument("write of [%d] elements at offset [%d] exceeds the maximum length [%d]", len(src), off, MaxLength)
	}
	if end := off + len(src); end > len(b.data) {
		if err := b.SetLength(end); err != nil {
			return err
		}
	}
	copy(b.data[off:], src)
	return nil
}

// View returns the live backing storage up to the logical length. The slice
// aliases the buffer and must not be retained across a call that may grow it.
func (b *Buffer[T]) View() []T {
	return b.data
}

// Reset sets the length to zero and keeps the storage for reuse.
func (b *Buffer[T]) Reset() {
	b.data = b.data[:0]
}

// Clone returns an independent copy of the buffer content.
func (b *Buffer[T]) Clone() *Buffer[T] {
	return From(b.data)
}

// reserve makes room for n elements, doubling the capacity as required but
// never past MaxLength unless n itself is larger.
func (b *Buffer[T]) reserve(n int) {
	if n <= cap(b.data) {
		return
	}
	newCap := cap(b.data) * 2
	if newCap < MinCapacity {
		newCap = MinCapacity
	}
	for newCap < n && newCap < MaxLength {
		newCap *= 2
	}
	if newCap > MaxLength {
		newCap = MaxLength
	}
	if newCap < n {
		newCap = n
	}
	data := make([]T, len(b.data), newCap)
	copy(data, b.data)
	b.data = data
}
