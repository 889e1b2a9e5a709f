package convert

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bisegni/lobcursor/pkg/lob"
	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Func converts a non-nil raw value.
type Func func(v any) (any, error)

// Table holds one conversion rule per target kind. A Table is built by the
// caller and passed where it is needed; there is no shared instance.
type Table struct {
	rules map[Kind]Func
}

// NewTable returns a table without rules.
func NewTable() *Table {
	return &Table{rules: make(map[Kind]Func)}
}

// Default returns a new table carrying the built-in rules for every kind.
func Default() *Table {
	t := NewTable()
	t.Register(Any, func(v any) (any, error) { return v, nil })
	t.Register(String, func(v any) (any, error) { return ToString(v) })
	t.Register(Bool, func(v any) (any, error) { return ToBool(v) })
	t.Register(Int64, func(v any) (any, error) { return ToInt64(v) })
	t.Register(Float64, func(v any) (any, error) { return ToFloat64(v) })
	t.Register(Decimal, func(v any) (any, error) { return ToDecimal(v) })
	t.Register(Bytes, func(v any) (any, error) { return ToBytes(v) })
	t.Register(Time, func(v any) (any, error) { return ToTime(v) })
	t.Register(Blob, func(v any) (any, error) { return ToBlob(v) })
	t.Register(Clob, func(v any) (any, error) { return ToClob(v) })
	t.Register(XML, func(v any) (any, error) { return ToSQLXML(v) })
	return t
}

// Register sets the rule for kind, replacing any previous one.
func (t *Table) Register(kind Kind, fn Func) {
	t.rules[kind] = fn
}

// Convert applies the rule for kind to v. nil always converts to nil.
func (t *Table) Convert(kind Kind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	fn, ok := t.rules[kind]
	if !ok {
		return nil, errors.Wrapf(sqlerr.ErrConversionUnsupported, "no rule for %s", kind)
	}
	return fn(v)
}

func unsupported(v any, kind Kind) error {
	return errors.Wrapf(sqlerr.ErrConversionUnsupported, "%T to %s", v, kind)
}

// ToString renders scalars and character objects as text.
func ToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case json.Number:
		return x.String(), nil
	case decimal.Decimal:
		return x.String(), nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case *lob.Clob:
		return x.Value(), nil
	case *lob.SQLXML:
		return x.Value(), nil
	case *lob.Blob:
		return "", unsupported(v, String)
	}
	if i, ok := asInt64(v); ok {
		return strconv.FormatInt(i, 10), nil
	}
	if f, ok := asFloat64(v); ok {
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}
	return "", unsupported(v, String)
}

// ToBool accepts booleans, numbers (non-zero is true) and strconv.ParseBool
// spellings.
func ToBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, errors.Wrapf(sqlerr.ErrConversionUnsupported, "%q to %s", x, Bool)
		}
		return b, nil
	}
	if i, ok := asInt64(v); ok {
		return i != 0, nil
	}
	if f, ok := asFloat64(v); ok {
		return f != 0, nil
	}
	return false, unsupported(v, Bool)
}

// ToInt64 accepts integers, integral floats, decimals and numeric text.
func ToInt64(v any) (int64, error) {
	if i, ok := asInt64(v); ok {
		return i, nil
	}
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
			return int64(f), nil
		}
		return 0, errors.Wrapf(sqlerr.ErrConversionUnsupported, "%q to %s", x, Int64)
	case json.Number:
		return ToInt64(x.String())
	case decimal.Decimal:
		return x.IntPart(), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	if f, ok := asFloat64(v); ok {
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, errors.Wrapf(sqlerr.ErrConversionUnsupported, "%v to %s", f, Int64)
		}
		return int64(f), nil
	}
	return 0, unsupported(v, Int64)
}

// ToFloat64 accepts numbers, decimals and numeric text.
func ToFloat64(v any) (float64, error) {
	if f, ok := asFloat64(v); ok {
		return f, nil
	}
	if i, ok := asInt64(v); ok {
		return float64(i), nil
	}
	switch x := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, errors.Wrapf(sqlerr.ErrConversionUnsupported, "%q to %s", x, Float64)
		}
		return f, nil
	case json.Number:
		return ToFloat64(x.String())
	case decimal.Decimal:
		f, _ := x.Float64()
		return f, nil
	}
	return 0, unsupported(v, Float64)
}

// ToDecimal accepts numbers and numeric text.
func ToDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero, errors.Wrapf(sqlerr.ErrConversionUnsupported, "%q to %s", x, Decimal)
		}
		return d, nil
	case json.Number:
		return ToDecimal(x.String())
	}
	if i, ok := asInt64(v); ok {
		return decimal.NewFromInt(i), nil
	}
	if f, ok := asFloat64(v); ok {
		return decimal.NewFromFloat(f), nil
	}
	return decimal.Zero, unsupported(v, Decimal)
}

// ToBytes accepts byte slices, text and the content of a Blob.
func ToBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	case *lob.Blob:
		if x.Length() == 0 {
			return []byte{}, nil
		}
		return x.Bytes(1, int(x.Length()))
	}
	return nil, unsupported(v, Bytes)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ToTime accepts time values, the layouts above and unix seconds.
func ToTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, errors.Wrapf(sqlerr.ErrConversionUnsupported, "%q to %s", x, Time)
	}
	if i, ok := asInt64(v); ok {
		return time.Unix(i, 0).UTC(), nil
	}
	return time.Time{}, unsupported(v, Time)
}

// ToBlob wraps bytes or text in a new Blob.
func ToBlob(v any) (*lob.Blob, error) {
	switch x := v.(type) {
	case *lob.Blob:
		return x, nil
	case []byte:
		return lob.NewBlobFrom(x), nil
	case string:
		return lob.NewBlobFrom([]byte(x)), nil
	}
	return nil, unsupported(v, Blob)
}

// ToClob wraps text in a new Clob. An SQLXML value yields its backing Clob.
func ToClob(v any) (*lob.Clob, error) {
	switch x := v.(type) {
	case *lob.Clob:
		return x, nil
	case *lob.SQLXML:
		return x.Clob(), nil
	case string:
		return lob.NewClobFromString(x), nil
	case []byte:
		return lob.NewClobFromString(string(x)), nil
	}
	return nil, unsupported(v, Clob)
}

// ToSQLXML wraps text in a new SQLXML value.
func ToSQLXML(v any) (*lob.SQLXML, error) {
	switch x := v.(type) {
	case *lob.SQLXML:
		return x, nil
	case *lob.Clob:
		return lob.NewSQLXMLFromString(x.Value()), nil
	case string:
		return lob.NewSQLXMLFromString(x), nil
	case []byte:
		return lob.NewSQLXMLFromString(string(x)), nil
	}
	return nil, unsupported(v, XML)
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
