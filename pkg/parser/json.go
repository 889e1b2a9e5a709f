package parser

import (
	"bufio"
	"encoding/json"
	"io"
	"sort"

	"github.com/bisegni/lobcursor/pkg/content"
	"github.com/bisegni/lobcursor/pkg/convert"
	"github.com/bisegni/lobcursor/pkg/metadata"
	"github.com/blues/jsonata-go"
	"github.com/pkg/errors"
)

// Record represents a single JSON object
type Record map[string]interface{}

// jsonReader streams records from a JSON document (one object, an array of
// objects or a sequence of objects) or from JSON Lines.
type jsonReader struct {
	closer  io.Closer
	isJSONL bool

	decoder   *json.Decoder
	scanner   *bufio.Scanner
	bufReader *bufio.Reader

	startArrayChecked bool
	inArray           bool
	line              int
}

func newJSONReader(r io.ReadCloser, isJSONL bool) *jsonReader {
	p := &jsonReader{closer: r, isJSONL: isJSONL}
	if isJSONL {
		p.scanner = bufio.NewScanner(r)
		p.scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	} else {
		// bufio.Reader allows peeking for the opening bracket
		p.bufReader = bufio.NewReader(r)
		p.decoder = json.NewDecoder(p.bufReader)
	}
	return p
}

func (p *jsonReader) Close() error {
	return p.closer.Close()
}

// Read reads the next record, io.EOF at the end of the input.
func (p *jsonReader) Read() (Record, error) {
	if p.isJSONL {
		return p.readLine()
	}

	if !p.startArrayChecked {
		for {
			b, err := p.bufReader.Peek(1)
			if err != nil {
				return nil, err
			}
			c := b[0]
			if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
				p.bufReader.ReadByte()
				continue
			}
			if c == '[' {
				p.inArray = true
				p.bufReader.ReadByte()
			}
			p.startArrayChecked = true
			break
		}
	}

	if p.inArray && !p.decoder.More() {
		t, err := p.decoder.Token()
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedInput, "json: %v", err)
		}
		if delim, ok := t.(json.Delim); ok && delim == ']' {
			p.inArray = false
			return nil, io.EOF
		}
		return nil, errors.Wrapf(ErrMalformedInput, "expected array end, got %v", t)
	}

	var record Record
	if err := p.decoder.Decode(&record); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrapf(ErrMalformedInput, "failed to decode JSON record: %v", err)
	}
	return record, nil
}

func (p *jsonReader) readLine() (Record, error) {
	for p.scanner.Scan() {
		p.line++
		line := p.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, errors.Wrapf(ErrMalformedInput, "JSONL line %d: %v", p.line, err)
		}
		return record, nil
	}
	if err := p.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// extractor pulls one column out of a record.
type extractor func(Record) (any, error)

func fieldExtractor(name string) extractor {
	return func(r Record) (any, error) {
		return r[name], nil
	}
}

// pathExtractor evaluates a JSONata expression. An expression without result
// yields nil.
func pathExtractor(path string) (extractor, error) {
	expr, err := jsonata.Compile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "bad path %q: %v", path, err)
	}
	return func(r Record) (any, error) {
		v, err := expr.Eval(map[string]interface{}(r))
		if err == jsonata.ErrUndefined {
			return nil, nil
		}
		return v, err
	}, nil
}

// jsonProducer turns records into rows.
type jsonProducer struct {
	reader  *jsonReader
	pending Record
	extract []extractor
	columns metadata.Columns
	table   *convert.Table
}

func (p *jsonProducer) Move() (content.Row, bool, error) {
	rec := p.pending
	p.pending = nil
	if rec == nil {
		var err error
		rec, err = p.reader.Read()
		if err == io.EOF {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
	}

	row := make(content.Row, len(p.extract))
	for i, ex := range p.extract {
		v, err := ex(rec)
		if err != nil {
			return nil, false, errors.WithMessagef(err, "column %q", p.columns[i].Name)
		}
		row[i] = v
	}
	if err := convertRow(row, p.columns, p.table); err != nil {
		return nil, false, err
	}
	return row, true, nil
}

func (p *jsonProducer) Close() error {
	return p.reader.Close()
}

func readJSON(r io.ReadCloser, isJSONL bool, opts Options) (*Table, error) {
	p := &jsonProducer{reader: newJSONReader(r, isJSONL), table: opts.converter()}

	switch {
	case len(opts.Paths) > 0:
		if len(opts.Columns) > 0 && len(opts.Columns) != len(opts.Paths) {
			return nil, errors.Wrapf(ErrMalformedInput, "%d paths for %d columns", len(opts.Paths), len(opts.Columns))
		}
		p.columns = opts.Columns
		if len(p.columns) == 0 {
			p.columns = metadata.Names(opts.Paths...)
		}
		for _, path := range opts.Paths {
			ex, err := pathExtractor(path)
			if err != nil {
				return nil, err
			}
			p.extract = append(p.extract, ex)
		}
	case len(opts.Columns) > 0:
		p.columns = opts.Columns
		for _, col := range opts.Columns {
			p.extract = append(p.extract, fieldExtractor(col.Name))
		}
	default:
		// columns are the sorted keys of the first record
		first, err := p.reader.Read()
		if err == io.EOF {
			r.Close()
			return &Table{Source: content.NewNull()}, nil
		}
		if err != nil {
			return nil, err
		}
		p.pending = first
		keys := make([]string, 0, len(first))
		for k := range first {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		p.columns = metadata.Names(keys...)
		for _, k := range keys {
			p.extract = append(p.extract, fieldExtractor(k))
		}
	}

	var src content.Source = content.NewIterator(p)
	if opts.Scrollable {
		fixed, err := collect(src)
		if err != nil {
			return nil, err
		}
		src = fixed
	}
	return &Table{Source: src, Columns: p.columns}, nil
}
