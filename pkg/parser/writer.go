package parser

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/bisegni/lobcursor/pkg/cursor"
	"github.com/bisegni/lobcursor/pkg/lob"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack"
)

// KeyVal is one entry of an OrderedMap.
type KeyVal struct {
	Key string
	Val interface{}
}

// OrderedMap is a row rendered as an object whose keys keep the column order.
type OrderedMap []KeyVal

// MarshalJSON implements the json.Marshaler interface.
func (om OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range om {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := json.Marshal(kv.Val)
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeMsgpack writes the entries as a MessagePack map in order.
func (om OrderedMap) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(om)); err != nil {
		return err
	}
	for _, kv := range om {
		if err := enc.EncodeString(kv.Key); err != nil {
			return err
		}
		if err := enc.Encode(kv.Val); err != nil {
			return err
		}
	}
	return nil
}

// String implements fmt.Stringer
func (om OrderedMap) String() string {
	b, _ := om.MarshalJSON()
	return string(b)
}

// RowWriter serializes cursor rows.
type RowWriter interface {
	Write(row OrderedMap) error
	Close() error
}

// NewWriter returns a writer for format. JSON writes one array, JSONL one
// object per line and MessagePack one map per row.
func NewWriter(w io.Writer, format Format, pretty bool) (RowWriter, error) {
	switch format {
	case FormatJSONL:
		enc := json.NewEncoder(w)
		if pretty {
			enc.SetIndent("", "  ")
		}
		return &jsonlWriter{enc: enc}, nil
	case FormatJSON, FormatAuto:
		return &jsonArrayWriter{w: w, pretty: pretty}, nil
	case FormatMsgpack:
		return &msgpackWriter{enc: msgpack.NewEncoder(w)}, nil
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "no writer for %s", format)
}

type jsonlWriter struct {
	enc *json.Encoder
}

func (j *jsonlWriter) Write(row OrderedMap) error { return j.enc.Encode(row) }
func (j *jsonlWriter) Close() error               { return nil }

type jsonArrayWriter struct {
	w      io.Writer
	pretty bool
	count  int
}

func (j *jsonArrayWriter) Write(row OrderedMap) error {
	var (
		b   []byte
		err error
	)
	if j.pretty {
		b, err = json.MarshalIndent(row, "  ", "  ")
	} else {
		b, err = json.Marshal(row)
	}
	if err != nil {
		return err
	}
	sep := ","
	if j.count == 0 {
		sep = "["
	}
	if j.pretty {
		sep += "\n  "
	}
	j.count++
	if _, err := io.WriteString(j.w, sep); err != nil {
		return err
	}
	_, err = j.w.Write(b)
	return err
}

func (j *jsonArrayWriter) Close() error {
	end := "]\n"
	if j.count == 0 {
		end = "[]\n"
	} else if j.pretty {
		end = "\n]\n"
	}
	_, err := io.WriteString(j.w, end)
	return err
}

type msgpackWriter struct {
	enc *msgpack.Encoder
}

func (m *msgpackWriter) Write(row OrderedMap) error { return m.enc.Encode(row) }
func (m *msgpackWriter) Close() error               { return nil }

// RowObject renders the current row of c with its column labels. Cells are
// converted to their declared kinds and large objects are inlined.
func RowObject(c *cursor.Cursor) (OrderedMap, error) {
	labels := c.Columns().Labels()
	values, err := c.Values()
	if err != nil {
		return nil, err
	}
	om := make(OrderedMap, 0, len(values))
	for i := range values {
		v, err := c.Typed(i + 1)
		if err != nil {
			return nil, err
		}
		key := ""
		if i < len(labels) {
			key = labels[i]
		}
		om = append(om, KeyVal{Key: key, Val: Plain(v)})
	}
	return om, nil
}

// WriteRows drains c into w and returns the number of rows written.
func WriteRows(w RowWriter, c *cursor.Cursor) (int, error) {
	n := 0
	for {
		ok, err := c.Next()
		if err != nil {
			return n, err
		}
		if !ok {
			break
		}
		row, err := RowObject(c)
		if err != nil {
			return n, err
		}
		if err := w.Write(row); err != nil {
			return n, err
		}
		n++
	}
	return n, w.Close()
}

// Plain maps decimals, times and large objects to values every encoder
// understands.
func Plain(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case *lob.Clob:
		return x.Value()
	case *lob.SQLXML:
		return x.Value()
	case *lob.Blob:
		if x.Length() == 0 {
			return []byte{}
		}
		b, _ := x.Bytes(1, int(x.Length()))
		return b
	}
	return v
}
