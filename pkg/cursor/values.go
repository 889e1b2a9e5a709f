package cursor

import (
	"time"

	"github.com/bisegni/lobcursor/pkg/content"
	"github.com/bisegni/lobcursor/pkg/convert"
	"github.com/bisegni/lobcursor/pkg/lob"
	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Value returns the raw cell of the current row. Columns are 1-based.
func (c *Cursor) Value(column int) (any, error) {
	row, err := c.current()
	if err != nil {
		return nil, err
	}
	if column < 1 || column > len(row) {
		return nil, sqlerr.OutOfRange(sqlerr.ErrColumnOutOfRange, int64(column), 1, int64(len(row)))
	}
	v := row[column-1]
	c.wasNull = v == nil
	return v, nil
}

// Values returns a copy of the current row.
func (c *Cursor) Values() (content.Row, error) {
	row, err := c.current()
	if err != nil {
		return nil, err
	}
	out := make(content.Row, len(row))
	copy(out, row)
	return out, nil
}

// WasNull reports whether the last cell read was nil.
func (c *Cursor) WasNull() bool {
	return c.wasNull
}

// FindColumn maps a column label to its number using the column metadata.
func (c *Cursor) FindColumn(label string) (int, error) {
	if c.state == Closed {
		return 0, errors.Wrapf(sqlerr.ErrCursorClosed, "%s", c.name)
	}
	if i, ok := c.labels.Get(label); ok {
		return i, nil
	}
	i, err := c.columns.Find(label)
	if err != nil {
		return 0, err
	}
	c.labels.Add(label, i)
	return i, nil
}

// ValueOf returns the raw cell of the column labelled label.
func (c *Cursor) ValueOf(label string) (any, error) {
	i, err := c.FindColumn(label)
	if err != nil {
		return nil, err
	}
	return c.Value(i)
}

// ColumnCount returns the number of declared columns.
func (c *Cursor) ColumnCount() int {
	return c.columns.Count()
}

// DisplaySize returns the declared display size of column.
func (c *Cursor) DisplaySize(column int) (int, error) {
	col, err := c.columns.Column(column)
	if err != nil {
		return 0, err
	}
	return col.DisplaySize, nil
}

// Scale returns the declared scale of column.
func (c *Cursor) Scale(column int) (int, error) {
	col, err := c.columns.Column(column)
	if err != nil {
		return 0, err
	}
	return col.Scale, nil
}

// Typed returns the cell converted to the declared kind of the column, or the
// raw cell when no kind is declared.
func (c *Cursor) Typed(column int) (any, error) {
	kind := convert.Any
	if col, err := c.columns.Column(column); err == nil {
		kind = col.Kind
	}
	return c.convert(column, kind)
}

func (c *Cursor) String(column int) (string, error) {
	return typed[string](c, column, convert.String)
}

func (c *Cursor) Bool(column int) (bool, error) {
	return typed[bool](c, column, convert.Bool)
}

func (c *Cursor) Int64(column int) (int64, error) {
	return typed[int64](c, column, convert.Int64)
}

func (c *Cursor) Float64(column int) (float64, error) {
	return typed[float64](c, column, convert.Float64)
}

func (c *Cursor) Decimal(column int) (decimal.Decimal, error) {
	return typed[decimal.Decimal](c, column, convert.Decimal)
}

func (c *Cursor) Bytes(column int) ([]byte, error) {
	return typed[[]byte](c, column, convert.Bytes)
}

func (c *Cursor) Time(column int) (time.Time, error) {
	return typed[time.Time](c, column, convert.Time)
}

func (c *Cursor) Blob(column int) (*lob.Blob, error) {
	return typed[*lob.Blob](c, column, convert.Blob)
}

func (c *Cursor) Clob(column int) (*lob.Clob, error) {
	return typed[*lob.Clob](c, column, convert.Clob)
}

func (c *Cursor) SQLXML(column int) (*lob.SQLXML, error) {
	return typed[*lob.SQLXML](c, column, convert.XML)
}

// typed converts the cell to kind and checks that the registered converter
// produced a T. A nil cell yields the zero T.
func typed[T any](c *Cursor, column int, kind convert.Kind) (T, error) {
	var zero T
	v, err := c.convert(column, kind)
	if v == nil || err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, errors.Wrapf(sqlerr.ErrConversionUnsupported, "column %d: %s converter returned %T", column, kind, v)
	}
	return out, nil
}

func (c *Cursor) convert(column int, kind convert.Kind) (any, error) {
	v, err := c.Value(column)
	if err != nil {
		return nil, err
	}
	out, err := c.converter.Convert(kind, v)
	if err != nil {
		return nil, errors.WithMessagef(err, "column %d", column)
	}
	return out, nil
}

func (c *Cursor) current() (content.Row, error) {
	switch c.state {
	case Closed:
		return nil, errors.Wrapf(sqlerr.ErrCursorClosed, "%s", c.name)
	case OnRow:
	default:
		return nil, errors.Wrapf(sqlerr.ErrNoCurrentRow, "%s is %s", c.name, c.state)
	}
	row := c.src.Row(c.row)
	if row == nil {
		return nil, errors.Wrapf(sqlerr.ErrNoCurrentRow, "%s has no data at row %d", c.name, c.row)
	}
	return row, nil
}
