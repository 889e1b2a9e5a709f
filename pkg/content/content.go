// Package content provides the pluggable row backends driven by a cursor.
//
// Four variants exist and the set is closed: FixedTable (random access over
// in-memory rows), Null (empty placeholder), Iterator (pull-style forward-only
// producer) and Stream (push-style forward-only producer filling a reused row
// buffer). The streaming variants enforce forward-only movement inside
// SetCurrentRow itself.
package content

import (
	"fmt"
	"math"
)

// Unbounded is the row count reported by sources whose size is unknown until
// they are exhausted.
const Unbounded = math.MaxInt

// Row is an ordered sequence of cell values. A nil Row means "no data".
type Row []any

// Kind identifies a Source variant.
type Kind int

const (
	KindFixed Kind = iota
	KindNull
	KindIterator
	KindStream
)

func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindNull:
		return "null"
	case KindIterator:
		return "iterator"
	case KindStream:
		return "stream"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Source is the row backend behind a cursor. Row numbers are 1-based and 0
// means "before the first row".
type Source interface {
	// Kind reports the variant.
	Kind() Kind
	// RowCount returns the number of rows, or Unbounded when unknown.
	RowCount() int
	// CurrentRow returns the current row number.
	CurrentRow() int
	// SetCurrentRow moves to row and reports whether it landed on a real row.
	SetCurrentRow(row int) (bool, error)
	// Row returns the data of row, or nil when it is not available.
	Row(row int) Row
	// Close releases the source. It is safe to call more than once.
	Close() error
	// Streaming reports whether the source only moves forward.
	Streaming() bool

	sealed()
}
