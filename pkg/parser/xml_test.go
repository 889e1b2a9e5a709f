package parser

import (
	"testing"

	"github.com/bisegni/lobcursor/pkg/content"
	"github.com/bisegni/lobcursor/pkg/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXMLInferredColumns(t *testing.T) {
	doc := `<orders>
  <title>ignored</title>
  <order id="1"><name>Ann</name><note>big <b>deal</b></note></order>
  <order id="2"><name>Bob</name></order>
</orders>`
	path := writeFile(t, "orders.xml", []byte(doc))

	table, c := openCursor(t, path, Options{RowTag: "order"})
	assert.Equal(t, FormatXML, table.Format)
	assert.Equal(t, content.KindStream, table.Source.Kind())
	assert.Equal(t, []string{"id", "name", "note"}, table.Columns.Labels())
	assert.Equal(t, [][]any{{"1", "Ann", "big deal"}, {"2", "Bob", nil}}, drain(t, c))
}

func TestXMLDeclaredColumnsScrollable(t *testing.T) {
	doc := `<rows>
  <row><id>1</id><NAME>a</NAME><extra>x</extra></row>
  <row><id></id><name>b</name></row>
</rows>`
	path := writeFile(t, "rows.xml", []byte(doc))
	cols, err := metadata.ParseColumns("id:int", "name")
	require.NoError(t, err)

	table, c := openCursor(t, path, Options{Columns: cols, Scrollable: true})
	assert.Equal(t, content.KindFixed, table.Source.Kind())
	assert.Equal(t, [][]any{{int64(1), "a"}, {nil, "b"}}, drain(t, c))
}

func TestXMLMalformed(t *testing.T) {
	path := writeFile(t, "bad.xml", []byte(`<rows><row><id>1</id></rows>`))
	cols, err := metadata.ParseColumns("id:int")
	require.NoError(t, err)

	_, c := openCursor(t, path, Options{Columns: cols})
	_, err = c.Next()
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestXMLDeclaredEncoding(t *testing.T) {
	doc := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><rows><row><v>caf`), 0xE9)
	doc = append(doc, []byte(`</v></row></rows>`)...)
	path := writeFile(t, "latin1.xml", doc)

	_, c := openCursor(t, path, Options{})
	assert.Equal(t, [][]any{{"café"}}, drain(t, c))

	// already transcoded by the input layer
	_, c = openCursor(t, path, Options{Encoding: "iso-8859-1"})
	assert.Equal(t, [][]any{{"café"}}, drain(t, c))
}

func TestXMLWithoutRows(t *testing.T) {
	path := writeFile(t, "empty.xml", []byte(`<rows><other/></rows>`))
	table, err := Open(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, content.KindNull, table.Source.Kind())
}

func TestDetectXMLFormat(t *testing.T) {
	assert.Equal(t, FormatXML, DetectFormat("data.XML.lz4"))
	f, err := ParseFormat("xml")
	require.NoError(t, err)
	assert.Equal(t, FormatXML, f)
}
