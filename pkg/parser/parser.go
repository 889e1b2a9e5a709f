// Package parser builds content sources from CSV, JSON, JSONL, MessagePack
// and XML inputs.
package parser

import (
	"io"
	"strings"

	"github.com/bisegni/lobcursor/pkg/content"
	"github.com/bisegni/lobcursor/pkg/convert"
	"github.com/bisegni/lobcursor/pkg/cursor"
	"github.com/bisegni/lobcursor/pkg/logging"
	"github.com/bisegni/lobcursor/pkg/metadata"
	"github.com/sirupsen/logrus"
)

// Table is a parsed input: a content source and the columns of its rows.
type Table struct {
	Source  content.Source
	Columns metadata.Columns
	Format  Format
}

// Cursor binds a cursor to the table, scrollable when the source allows it.
func (t *Table) Cursor(table *convert.Table) (*cursor.Cursor, error) {
	opts := []cursor.Option{cursor.WithColumns(t.Columns)}
	if table != nil {
		opts = append(opts, cursor.WithConverter(table))
	}
	return cursor.New(t.Source, opts...)
}

// Open reads name (a file, "-" for stdin or inline JSON) according to opts.
func Open(name string, opts Options) (*Table, error) {
	format := opts.Format
	if format == FormatAuto {
		if isInline(name) || name == "" || name == "-" {
			format = FormatJSON
		} else {
			format = DetectFormat(name)
		}
	}

	in, err := OpenInput(name, opts.Encoding)
	if err != nil {
		return nil, err
	}
	t, err := Read(in, format, opts)
	if err != nil {
		in.Close()
		return nil, err
	}
	logging.WithFields(logrus.Fields{
		"input":   displayName(name),
		"format":  format.String(),
		"source":  t.Source.Kind().String(),
		"columns": len(t.Columns),
	}).Debug("input opened")
	return t, nil
}

// Read builds a table from r. r is closed by the returned source once it has
// been consumed, or right away for scrollable tables. On error closing r is
// left to the caller.
func Read(r io.ReadCloser, format Format, opts Options) (*Table, error) {
	var (
		t   *Table
		err error
	)
	switch format {
	case FormatCSV:
		t, err = readCSV(r, opts)
	case FormatJSON, FormatAuto:
		t, err = readJSON(r, false, opts)
	case FormatJSONL:
		t, err = readJSON(r, true, opts)
	case FormatMsgpack:
		t, err = readMsgpack(r, opts)
	case FormatXML:
		t, err = readXML(r, opts)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, err
	}
	t.Format = format
	return t, nil
}

func isInline(name string) bool {
	s := strings.TrimSpace(name)
	return len(s) > 0 && (s[0] == '{' || s[0] == '[')
}

func displayName(name string) string {
	if isInline(name) {
		return "<inline>"
	}
	if name == "" || name == "-" {
		return "<stdin>"
	}
	return name
}

// convertRow converts every cell of row in place to the kind of its column.
func convertRow(row content.Row, cols metadata.Columns, table *convert.Table) error {
	for i := range row {
		if i >= len(cols) || cols[i].Kind == convert.Any {
			continue
		}
		v, err := table.Convert(cols[i].Kind, row[i])
		if err != nil {
			return err
		}
		row[i] = v
	}
	return nil
}

// collect reads every row of a forward-only source into a fixed table and
// closes it.
func collect(src content.Source) (*content.FixedTable, error) {
	var rows []content.Row
	for next := 1; ; next++ {
		ok, err := src.SetCurrentRow(next)
		if err != nil {
			src.Close()
			return nil, err
		}
		if !ok {
			break
		}
		row := src.Row(next)
		cp := make(content.Row, len(row))
		copy(cp, row)
		rows = append(rows, cp)
	}
	if err := src.Close(); err != nil {
		return nil, err
	}
	return content.NewFixedTable(rows), nil
}
