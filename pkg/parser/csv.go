package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/bisegni/lobcursor/pkg/content"
	"github.com/bisegni/lobcursor/pkg/convert"
	"github.com/bisegni/lobcursor/pkg/metadata"
	"github.com/pkg/errors"
)

// csvReader fills stream rows from csv lines. index maps each column to its
// field in a line.
type csvReader struct {
	reader     *csv.Reader
	closer     io.Closer
	columns    metadata.Columns
	index      []int
	table      *convert.Table
	allowEmpty bool
	pending    []string
	line       int
}

func readCSV(r io.ReadCloser, opts Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = opts.separator()
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	c := &csvReader{reader: cr, closer: r, table: opts.converter(), allowEmpty: opts.AllowEmptyColumns}

	var header []string
	if opts.Header {
		rec, err := c.read()
		if err != nil && err != io.EOF {
			return nil, err
		}
		header = append(header, rec...)
	}
	if err := c.resolveColumns(header, opts.Columns); err != nil {
		return nil, err
	}
	if len(c.columns) == 0 {
		r.Close()
		return &Table{Source: content.NewNull()}, nil
	}

	stream, err := content.NewStream(make(content.Row, len(c.columns)), c.fetch, c.closer.Close)
	if err != nil {
		return nil, err
	}
	t := &Table{Source: stream, Columns: c.columns}
	if opts.Scrollable {
		fixed, err := collect(stream)
		if err != nil {
			return nil, err
		}
		t.Source = fixed
	}
	return t, nil
}

func (c *csvReader) read() ([]string, error) {
	rec, err := c.reader.Read()
	if err == io.EOF {
		return nil, err
	}
	c.line++
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "csv line %d: %v", c.line, err)
	}
	return rec, nil
}

func (c *csvReader) resolveColumns(header []string, declared metadata.Columns) error {
	switch {
	case len(declared) > 0 && len(header) > 0:
		c.columns = declared
		for _, col := range declared {
			pos := -1
			for i, h := range header {
				if strings.EqualFold(strings.TrimSpace(h), col.Name) {
					pos = i
					break
				}
			}
			if pos < 0 {
				return errors.Wrapf(ErrMalformedInput, "column %q not found in csv header", col.Name)
			}
			c.index = append(c.index, pos)
		}
	case len(declared) > 0:
		c.columns = declared
		for i := range declared {
			c.index = append(c.index, i)
		}
	case len(header) > 0:
		for i, h := range header {
			c.columns = append(c.columns, metadata.Column{Name: strings.TrimSpace(h), Kind: convert.String})
			c.index = append(c.index, i)
		}
	default:
		// no names anywhere, the width of the first line decides
		rec, err := c.read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		c.pending = append([]string(nil), rec...)
		for i := range rec {
			c.columns = append(c.columns, metadata.Column{Name: fmt.Sprintf("COLUMN%d", i+1), Kind: convert.String})
			c.index = append(c.index, i)
		}
	}
	return nil
}

func (c *csvReader) fetch(row content.Row) (bool, error) {
	rec := c.pending
	c.pending = nil
	if rec == nil {
		var err error
		rec, err = c.read()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}

	for i, field := range c.index {
		if field >= len(rec) {
			if !c.allowEmpty {
				return false, errors.Wrapf(ErrMalformedInput, "csv line %d has %d fields, expected at least %d", c.line, len(rec), field+1)
			}
			row[i] = nil
			continue
		}
		v, err := c.cell(c.columns[i].Kind, rec[field])
		if err != nil {
			return false, errors.WithMessagef(err, "csv line %d column %q", c.line, c.columns[i].Name)
		}
		row[i] = v
	}
	return true, nil
}

func (c *csvReader) cell(kind convert.Kind, text string) (any, error) {
	switch kind {
	case convert.Any, convert.String:
		return text, nil
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return c.table.Convert(kind, text)
}
