package parser

import (
	"fmt"
	"io"
	"sort"

	"github.com/bisegni/lobcursor/pkg/content"
	"github.com/bisegni/lobcursor/pkg/convert"
	"github.com/bisegni/lobcursor/pkg/metadata"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"
)

// msgpackReader decodes a stream of MessagePack values, each one an array
// (cells by position) or a map (cells by column name).
type msgpackReader struct {
	decoder *msgpack.Decoder
	closer  io.Closer
	columns metadata.Columns
	table   *convert.Table
	pending interface{}
	count   int
}

func readMsgpack(r io.ReadCloser, opts Options) (*Table, error) {
	m := &msgpackReader{decoder: msgpack.NewDecoder(r), closer: r, table: opts.converter()}

	if len(opts.Columns) > 0 {
		m.columns = opts.Columns
	} else {
		first, err := m.next()
		if err == io.EOF {
			r.Close()
			return &Table{Source: content.NewNull()}, nil
		}
		if err != nil {
			return nil, err
		}
		m.pending = first
		m.columns = inferColumns(first)
	}
	if len(m.columns) == 0 {
		r.Close()
		return &Table{Source: content.NewNull()}, nil
	}

	stream, err := content.NewStream(make(content.Row, len(m.columns)), m.fetch, m.closer.Close)
	if err != nil {
		return nil, err
	}
	t := &Table{Source: stream, Columns: m.columns}
	if opts.Scrollable {
		fixed, err := collect(stream)
		if err != nil {
			return nil, err
		}
		t.Source = fixed
	}
	return t, nil
}

func (m *msgpackReader) next() (interface{}, error) {
	v, err := m.decoder.DecodeInterface()
	if err == io.EOF {
		return nil, err
	}
	m.count++
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "msgpack value %d: %v", m.count, err)
	}
	return v, nil
}

func (m *msgpackReader) fetch(row content.Row) (bool, error) {
	v := m.pending
	m.pending = nil
	if v == nil {
		var err error
		v, err = m.next()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}

	switch x := v.(type) {
	case []interface{}:
		for i := range row {
			if i < len(x) {
				row[i] = x[i]
			} else {
				row[i] = nil
			}
		}
	case map[string]interface{}:
		for i, col := range m.columns {
			row[i] = x[col.Name]
		}
	case map[interface{}]interface{}:
		for i, col := range m.columns {
			row[i] = x[col.Name]
		}
	default:
		return false, errors.Wrapf(ErrMalformedInput, "msgpack value %d is a %T, expected array or map", m.count, v)
	}
	if err := convertRow(row, m.columns, m.table); err != nil {
		return false, err
	}
	return true, nil
}

func inferColumns(v interface{}) metadata.Columns {
	var names []string
	switch x := v.(type) {
	case []interface{}:
		for i := range x {
			names = append(names, fmt.Sprintf("COLUMN%d", i+1))
		}
	case map[string]interface{}:
		for k := range x {
			names = append(names, k)
		}
		sort.Strings(names)
	case map[interface{}]interface{}:
		for k := range x {
			names = append(names, fmt.Sprint(k))
		}
		sort.Strings(names)
	}
	return metadata.Names(names...)
}
