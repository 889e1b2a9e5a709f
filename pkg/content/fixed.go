package content

import (
	"github.com/bisegni/lobcursor/pkg/sqlerr"
)

// FixedTable serves a pre-built set of rows with random access.
type FixedTable struct {
	rows    []Row
	current int
}

// NewFixedTable creates a table over rows. The slice is kept, not copied.
func NewFixedTable(rows []Row) *FixedTable {
	return &FixedTable{rows: rows}
}

func (*FixedTable) Kind() Kind      { return KindFixed }
func (*FixedTable) Streaming() bool { return false }
func (*FixedTable) sealed()         {}

func (t *FixedTable) RowCount() int {
	return len(t.rows)
}

func (t *FixedTable) CurrentRow() int {
	return t.current
}

// SetCurrentRow accepts any row in 1..RowCount.
func (t *FixedTable) SetCurrentRow(row int) (bool, error) {
	if row < 1 || row > len(t.rows) {
		return false, sqlerr.OutOfRange(sqlerr.ErrRowOutOfRange, int64(row), 1, int64(len(t.rows)))
	}
	t.current = row
	return true, nil
}

// Row returns the stored row regardless of the current position.
func (t *FixedTable) Row(row int) Row {
	if row < 1 || row > len(t.rows) {
		return nil
	}
	return t.rows[row-1]
}

func (t *FixedTable) Close() error {
	return nil
}
