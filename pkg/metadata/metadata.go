// Package metadata describes the columns of a cursor.
package metadata

import (
	"strconv"
	"strings"

	"github.com/bisegni/lobcursor/pkg/convert"
	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/pkg/errors"
)

// Column describes one column.
type Column struct {
	Name        string
	Kind        convert.Kind
	DisplaySize int
	Scale       int
}

// Columns is an ordered column list. Column numbers are 1-based.
type Columns []Column

// Names builds untyped columns from plain names.
func Names(names ...string) Columns {
	cols := make(Columns, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n, Kind: convert.Any}
	}
	return cols
}

// Count returns the number of columns.
func (c Columns) Count() int {
	return len(c)
}

// Column returns column i.
func (c Columns) Column(i int) (Column, error) {
	if i < 1 || i > len(c) {
		return Column{}, sqlerr.OutOfRange(sqlerr.ErrColumnOutOfRange, int64(i), 1, int64(len(c)))
	}
	return c[i-1], nil
}

// Find returns the number of the first column whose name matches label,
// ignoring case.
func (c Columns) Find(label string) (int, error) {
	for i, col := range c {
		if strings.EqualFold(col.Name, label) {
			return i + 1, nil
		}
	}
	return 0, errors.Wrapf(sqlerr.ErrColumnOutOfRange, "unknown column label %q", label)
}

// Labels returns the column names in order.
func (c Columns) Labels() []string {
	out := make([]string, len(c))
	for i, col := range c {
		out[i] = col.Name
	}
	return out
}

// ParseColumns parses "name:type[:size[:scale]]" declarations. The type may be
// omitted, in which case the column is untyped.
func ParseColumns(decls ...string) (Columns, error) {
	cols := make(Columns, 0, len(decls))
	for _, decl := range decls {
		col, err := parseColumn(decl)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func parseColumn(decl string) (Column, error) {
	parts := strings.Split(strings.TrimSpace(decl), ":")
	if len(parts) > 4 || parts[0] == "" {
		return Column{}, sqlerr.InvalidArgument("malformed column declaration %q", decl)
	}
	col := Column{Name: parts[0], Kind: convert.Any}
	if len(parts) > 1 && parts[1] != "" {
		k, err := convert.ParseKind(parts[1])
		if err != nil {
			return Column{}, err
		}
		col.Kind = k
	}
	var err error
	if len(parts) > 2 {
		if col.DisplaySize, err = parseSize(decl, parts[2]); err != nil {
			return Column{}, err
		}
	}
	if len(parts) > 3 {
		if col.Scale, err = parseSize(decl, parts[3]); err != nil {
			return Column{}, err
		}
	}
	return col, nil
}

func parseSize(decl, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, sqlerr.InvalidArgument("bad size %q in column declaration %q", s, decl)
	}
	return n, nil
}
