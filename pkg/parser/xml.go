package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/bisegni/lobcursor/pkg/content"
	"github.com/bisegni/lobcursor/pkg/convert"
	"github.com/bisegni/lobcursor/pkg/metadata"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DefaultRowTag is the element that delimits a row when Options.RowTag is
// empty.
const DefaultRowTag = "row"

// xmlRecord is one row element: field names in document order and their text.
type xmlRecord struct {
	names  []string
	values map[string]string
}

// xmlReader streams row elements out of an XML document. Every child element
// of a row element is a field; attributes of the row element are fields too.
// Text of nested elements is folded into the enclosing field.
type xmlReader struct {
	decoder *xml.Decoder
	closer  io.Closer
	rowTag  string
	columns metadata.Columns
	index   map[string]int
	table   *convert.Table
	pending *xmlRecord
	rows    int
}

func readXML(r io.ReadCloser, opts Options) (*Table, error) {
	x := &xmlReader{
		decoder: xml.NewDecoder(r),
		closer:  r,
		rowTag:  opts.rowTag(),
		table:   opts.converter(),
	}
	x.decoder.CharsetReader = charsetReader(opts.Encoding != "")

	if len(opts.Columns) > 0 {
		x.columns = opts.Columns
	} else {
		first, err := x.next()
		if err == io.EOF {
			r.Close()
			return &Table{Source: content.NewNull()}, nil
		}
		if err != nil {
			return nil, err
		}
		x.pending = first
		for _, name := range first.names {
			x.columns = append(x.columns, metadata.Column{Name: name, Kind: convert.String})
		}
	}
	if len(x.columns) == 0 {
		r.Close()
		return &Table{Source: content.NewNull()}, nil
	}
	x.index = make(map[string]int, len(x.columns))
	for i, col := range x.columns {
		x.index[strings.ToLower(col.Name)] = i
	}

	stream, err := content.NewStream(make(content.Row, len(x.columns)), x.fetch, x.closer.Close)
	if err != nil {
		return nil, err
	}
	t := &Table{Source: stream, Columns: x.columns}
	if opts.Scrollable {
		fixed, err := collect(stream)
		if err != nil {
			return nil, err
		}
		t.Source = fixed
	}
	return t, nil
}

// charsetReader transcodes documents declaring a non UTF-8 encoding. When the
// input was already decoded the declaration is ignored.
func charsetReader(decoded bool) func(string, io.Reader) (io.Reader, error) {
	return func(label string, input io.Reader) (io.Reader, error) {
		if decoded {
			return input, nil
		}
		enc, err := htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
		}
		return transform.NewReader(input, enc.NewDecoder()), nil
	}
}

// next returns the next row element, or io.EOF at the end of the document.
func (x *xmlReader) next() (*xmlRecord, error) {
	var (
		rec   *xmlRecord
		field string
		text  strings.Builder
		depth int
	)
	for {
		tok, err := x.decoder.Token()
		if err == io.EOF {
			if rec != nil {
				return nil, errors.Wrapf(ErrMalformedInput, "xml row %d is not closed", x.rows+1)
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedInput, "xml row %d: %v", x.rows+1, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case rec == nil && t.Name.Local == x.rowTag:
				rec = &xmlRecord{values: make(map[string]string)}
				for _, attr := range t.Attr {
					rec.set(attr.Name.Local, attr.Value)
				}
			case rec != nil:
				depth++
				if depth == 1 {
					field = t.Name.Local
					text.Reset()
				}
			}
		case xml.CharData:
			if rec != nil && depth > 0 {
				text.Write(t)
			}
		case xml.EndElement:
			if rec == nil {
				continue
			}
			if depth == 0 {
				x.rows++
				return rec, nil
			}
			depth--
			if depth == 0 {
				rec.set(field, strings.TrimSpace(text.String()))
			}
		}
	}
}

func (r *xmlRecord) set(name, value string) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

func (x *xmlReader) fetch(row content.Row) (bool, error) {
	rec := x.pending
	x.pending = nil
	if rec == nil {
		var err error
		if rec, err = x.next(); err == io.EOF {
			return false, nil
		} else if err != nil {
			return false, err
		}
	}

	clear(row)
	for _, name := range rec.names {
		i, ok := x.index[strings.ToLower(name)]
		if !ok {
			continue
		}
		v, err := x.cell(x.columns[i].Kind, rec.values[name])
		if err != nil {
			return false, errors.WithMessagef(err, "xml row %d column %q", x.rows, x.columns[i].Name)
		}
		row[i] = v
	}
	return true, nil
}

func (x *xmlReader) cell(kind convert.Kind, text string) (any, error) {
	switch kind {
	case convert.Any, convert.String:
		return text, nil
	}
	if text == "" {
		return nil, nil
	}
	return x.table.Convert(kind, text)
}
