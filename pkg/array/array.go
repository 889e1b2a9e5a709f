// Package array implements an in-memory SQL ARRAY value.
package array

import (
	"github.com/bisegni/lobcursor/pkg/content"
	"github.com/bisegni/lobcursor/pkg/convert"
	"github.com/bisegni/lobcursor/pkg/cursor"
	"github.com/bisegni/lobcursor/pkg/metadata"
	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/pkg/errors"
)

// Array holds elements of one base kind.
type Array struct {
	kind      convert.Kind
	elements  []any
	converter *convert.Table
	freed     bool
}

// New creates an array of elements, converted through table on read. A nil
// table means convert.Default().
func New(kind convert.Kind, elements []any, table *convert.Table) *Array {
	if table == nil {
		table = convert.Default()
	}
	return &Array{kind: kind, elements: elements, converter: table}
}

// BaseKind returns the kind of the elements.
func (a *Array) BaseKind() convert.Kind {
	return a.kind
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.elements)
}

// Values returns count elements starting at the 1-based index, converted to
// the base kind. count is truncated at the end of the array.
func (a *Array) Values(index int64, count int) ([]any, error) {
	start, end, err := a.bounds(index, count)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, end-start)
	for i := start; i < end; i++ {
		v, err := a.converter.Convert(a.kind, a.elements[i])
		if err != nil {
			return nil, errors.WithMessagef(err, "array element %d", i+1)
		}
		out = append(out, v)
	}
	return out, nil
}

// All returns every element converted to the base kind.
func (a *Array) All() ([]any, error) {
	if len(a.elements) == 0 {
		return []any{}, a.checkFreed()
	}
	return a.Values(1, len(a.elements))
}

// Cursor returns a forward-only cursor with the columns INDEX and VALUE over
// count elements starting at index.
func (a *Array) Cursor(index int64, count int) (*cursor.Cursor, error) {
	start, end, err := a.bounds(index, count)
	if err != nil {
		return nil, err
	}
	rows := make([]content.Row, 0, end-start)
	for i := start; i < end; i++ {
		v, err := a.converter.Convert(a.kind, a.elements[i])
		if err != nil {
			return nil, errors.WithMessagef(err, "array element %d", i+1)
		}
		rows = append(rows, content.Row{int64(i + 1), v})
	}
	cols := metadata.Columns{
		{Name: "INDEX", Kind: convert.Int64},
		{Name: "VALUE", Kind: a.kind},
	}
	return cursor.New(content.NewFixedTable(rows),
		cursor.WithColumns(cols),
		cursor.WithConverter(a.converter),
		cursor.WithForwardOnly())
}

// Free releases the elements. The array can't be read afterwards.
func (a *Array) Free() {
	a.elements = nil
	a.freed = true
}

func (a *Array) checkFreed() error {
	if a.freed {
		return sqlerr.Unsupported("array has been freed")
	}
	return nil
}

func (a *Array) bounds(index int64, count int) (int, int, error) {
	if err := a.checkFreed(); err != nil {
		return 0, 0, err
	}
	if count < 0 {
		return 0, 0, sqlerr.InvalidArgument("count can't be negative: %d", count)
	}
	n := int64(len(a.elements))
	if index < 1 || index > n {
		return 0, 0, sqlerr.OutOfRange(sqlerr.ErrPositionOutOfRange, index, 1, n)
	}
	start := int(index - 1)
	return start, start + min(count, len(a.elements)-start), nil
}
