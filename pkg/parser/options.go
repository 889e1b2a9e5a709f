package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bisegni/lobcursor/pkg/convert"
	"github.com/bisegni/lobcursor/pkg/metadata"
	"github.com/pkg/errors"
)

var (
	// ErrUnknownFormat is returned for format names that no reader handles.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrMalformedInput wraps every decoding failure of an input.
	ErrMalformedInput = errors.New("malformed input")
)

// Format identifies the layout of an input.
type Format int

const (
	FormatAuto Format = iota
	FormatCSV
	FormatJSON
	FormatJSONL
	FormatMsgpack
	FormatXML
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatJSONL:
		return "jsonl"
	case FormatMsgpack:
		return "msgpack"
	case FormatXML:
		return "xml"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat resolves a format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatAuto, nil
	case "csv", "tsv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	case "xml":
		return FormatXML, nil
	}
	return FormatAuto, errors.Wrapf(ErrUnknownFormat, "%q", name)
}

// DetectFormat guesses the format from the file name, ignoring compression
// extensions. Inline text and stdin are JSON.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(baseName(name))) {
	case ".csv", ".tsv", ".txt":
		return FormatCSV
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".msgpack", ".mp":
		return FormatMsgpack
	case ".xml":
		return FormatXML
	}
	return FormatJSON
}

// Options control how an input is turned into a content source.
type Options struct {
	Format Format
	// Separator is the CSV field delimiter, ',' when zero.
	Separator rune
	// Header reports whether the first CSV line holds the column names.
	Header bool
	// AllowEmptyColumns accepts CSV lines with fewer fields than columns;
	// missing cells are nil.
	AllowEmptyColumns bool
	// Encoding is the character set of the input, UTF-8 when empty.
	Encoding string
	// Scrollable loads the whole input into a fixed table.
	Scrollable bool
	// Columns declares names and kinds. When empty the columns are taken
	// from the input.
	Columns metadata.Columns
	// Paths holds one JSONata expression per column for JSON inputs.
	Paths []string
	// RowTag names the element holding one row of an XML input,
	// DefaultRowTag when empty.
	RowTag string
	// Converter converts cells to the declared kinds, convert.Default()
	// when nil.
	Converter *convert.Table
}

func (o Options) separator() rune {
	if o.Separator == 0 {
		return ','
	}
	return o.Separator
}

func (o Options) rowTag() string {
	if o.RowTag == "" {
		return DefaultRowTag
	}
	return o.RowTag
}

func (o Options) converter() *convert.Table {
	if o.Converter == nil {
		return convert.Default()
	}
	return o.Converter
}
