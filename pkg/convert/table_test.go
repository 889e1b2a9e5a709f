package convert

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bisegni/lobcursor/pkg/lob"
	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"string", String},
		{"VARCHAR", String},
		{" int ", Int64},
		{"bigint", Int64},
		{"double", Float64},
		{"numeric", Decimal},
		{"timestamp", Time},
		{"blob", Blob},
		{"clob", Clob},
		{"sqlxml", XML},
		{"any", Any},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseKind("geometry")
	require.ErrorIs(t, err, sqlerr.ErrInvalidArgument)
}

func TestConvertNilIsNil(t *testing.T) {
	table := Default()
	for k := Any; k <= XML; k++ {
		v, err := table.Convert(k, nil)
		require.NoError(t, err, k.String())
		assert.Nil(t, v, k.String())
	}
}

func TestConvertMissingRule(t *testing.T) {
	table := NewTable()
	_, err := table.Convert(String, "x")
	require.ErrorIs(t, err, sqlerr.ErrConversionUnsupported)

	table.Register(String, func(v any) (any, error) { return "custom", nil })
	v, err := table.Convert(String, 1)
	require.NoError(t, err)
	assert.Equal(t, "custom", v)
}

func TestDefaultTablesAreIndependent(t *testing.T) {
	a := Default()
	b := Default()
	a.Register(String, func(v any) (any, error) { return "overridden", nil })

	v, err := b.Convert(String, 7)
	require.NoError(t, err)
	assert.Equal(t, "7", v)
}

func TestDefaultConversions(t *testing.T) {
	table := Default()
	ts := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		kind Kind
		in   any
		want any
	}{
		{"int to string", String, 42, "42"},
		{"float to string", String, 1.5, "1.5"},
		{"clob to string", String, lob.NewClobFromString("text"), "text"},
		{"string to bool", Bool, "true", true},
		{"int to bool", Bool, 0, false},
		{"string to int", Int64, " 12 ", int64(12)},
		{"integral float to int", Int64, 3.0, int64(3)},
		{"json number to int", Int64, json.Number("99"), int64(99)},
		{"string to float", Float64, "2.25", 2.25},
		{"int to float", Float64, int32(4), 4.0},
		{"string to bytes", Bytes, "ab", []byte("ab")},
		{"blob to bytes", Bytes, lob.NewBlobFrom([]byte{1, 2}), []byte{1, 2}},
		{"rfc3339 to time", Time, "2024-05-01T10:30:00Z", ts},
		{"date to time", Time, "2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"unix to time", Time, ts.Unix(), ts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Convert(tt.kind, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecimalConversion(t *testing.T) {
	table := Default()

	v, err := table.Convert(Decimal, "10.05")
	require.NoError(t, err)
	assert.True(t, mustDecimal(t, "10.05").Equal(v.(decimal.Decimal)))

	v, err = table.Convert(Decimal, 7)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(7).Equal(v.(decimal.Decimal)))

	v, err = table.Convert(Int64, mustDecimal(t, "12.9"))
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)
}

func TestLargeObjectConversions(t *testing.T) {
	table := Default()

	v, err := table.Convert(Blob, "raw")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.(*lob.Blob).Length())

	v, err = table.Convert(Clob, "chars")
	require.NoError(t, err)
	assert.Equal(t, "chars", v.(*lob.Clob).Value())

	x := lob.NewSQLXMLFromString("<a/>")
	v, err = table.Convert(Clob, x)
	require.NoError(t, err)
	assert.Same(t, x.Clob(), v)

	v, err = table.Convert(XML, "<b/>")
	require.NoError(t, err)
	assert.Equal(t, "<b/>", v.(*lob.SQLXML).Value())
}

func TestConversionFailures(t *testing.T) {
	table := Default()

	tests := []struct {
		name string
		kind Kind
		in   any
	}{
		{"text to int", Int64, "abc"},
		{"fraction to int", Int64, 1.5},
		{"text to bool", Bool, "maybe"},
		{"text to float", Float64, "x"},
		{"text to decimal", Decimal, "1..2"},
		{"text to time", Time, "yesterday"},
		{"blob to string", String, lob.NewBlob()},
		{"map to bytes", Bytes, map[string]any{}},
		{"int to blob", Blob, 3},
		{"int to clob", Clob, 3},
		{"bool to xml", XML, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := table.Convert(tt.kind, tt.in)
			require.ErrorIs(t, err, sqlerr.ErrConversionUnsupported)
		})
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
