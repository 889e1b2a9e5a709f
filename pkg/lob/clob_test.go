package lob

import (
	"encoding/xml"
	"io"
	"testing"

	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClobSubString(t *testing.T) {
	c := NewClobFromString("grüße, world")

	s, err := c.SubString(1, 5)
	require.NoError(t, err)
	assert.Equal(t, "grüße", s)

	s, err = c.SubString(8, 100)
	require.NoError(t, err)
	assert.Equal(t, "world", s)
	assert.Equal(t, int64(12), c.Length())

	_, err = c.SubString(13, 1)
	require.ErrorIs(t, err, sqlerr.ErrPositionOutOfRange)
	_, err = c.SubString(1, -2)
	require.ErrorIs(t, err, sqlerr.ErrInvalidArgument)
}

func TestClobSetString(t *testing.T) {
	c := NewClob()
	n, err := c.SetString(3, "ab")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "\x00\x00ab", c.Value())

	n, err = c.SetStringRange(1, "xyz", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "yz"+"ab", c.Value())

	_, err = c.SetStringRange(1, "xyz", 2, 5)
	require.ErrorIs(t, err, sqlerr.ErrInvalidArgument)
	_, err = c.SetString(-3, "x")
	require.ErrorIs(t, err, sqlerr.ErrPositionOutOfRange)
}

func TestClobPosition(t *testing.T) {
	c := NewClobFromString("aabab")

	pos, err := c.Position("ab", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos)

	pos, err = c.Position("ab", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	pos, err = c.Position("zz", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)

	pos, err = c.PositionClob(NewClobFromString("bab"), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)

	_, err = c.Position("a", 9)
	require.ErrorIs(t, err, sqlerr.ErrPositionOutOfRange)
}

func TestClobTruncateAndFree(t *testing.T) {
	c := NewClobFromString("characters")
	require.NoError(t, c.Truncate(4))
	assert.Equal(t, "char", c.Value())
	require.ErrorIs(t, c.Truncate(5), sqlerr.ErrInvalidArgument)

	c.Free()
	assert.Equal(t, int64(0), c.Length())
	c.SetValue("again")
	assert.Equal(t, "again", c.Value())
}

func TestClobCharacterStreamWriter(t *testing.T) {
	c := NewClobFromString("hello")
	w, err := c.SetCharacterStream(6)
	require.NoError(t, err)

	_, err = w.WriteString(", ")
	require.NoError(t, err)
	_, err = w.WriteRune('ü')
	require.NoError(t, err)

	// "é" split across two writes.
	encoded := []byte("é!")
	_, err = w.Write(encoded[:1])
	require.NoError(t, err)
	assert.Equal(t, "hello, ü", c.Value())
	_, err = w.Write(encoded[1:])
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, "hello, üé!", c.Value())
	assert.Equal(t, int64(10), c.Length())
}

func TestClobCharacterStreamMixedWrites(t *testing.T) {
	c := NewClob()
	w, err := c.SetCharacterStream(1)
	require.NoError(t, err)

	_, err = w.Write([]byte{0xC3})
	require.NoError(t, err)
	_, err = w.Write([]byte{0xA9})
	require.NoError(t, err)
	_, err = w.Write([]byte{0xE2, 0x82})
	require.NoError(t, err)
	_, err = w.Write([]byte{0xAC})
	require.NoError(t, err)
	_, err = io.WriteString(w, "x")
	require.NoError(t, err)
	assert.Equal(t, "é€x", c.Value())

	// an interrupted sequence is rejected before the later text is stored
	_, err = w.Write([]byte{0xE2, 0x82})
	require.NoError(t, err)
	_, err = w.WriteString("y")
	require.NoError(t, err)
	_, err = w.Write([]byte{0xC3})
	require.NoError(t, err)
	_, err = w.WriteRune('z')
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, "é€x\uFFFD\uFFFDy\uFFFDz", c.Value())
}

func TestClobAsciiStreams(t *testing.T) {
	c := NewClobFromString("abc")
	w, err := c.SetAsciiStream(2)
	require.NoError(t, err)
	_, err = w.Write([]byte("XY"))
	require.NoError(t, err)
	require.NoError(t, w.WriteByte('Z'))
	assert.Equal(t, "aXYZ", c.Value())

	c.SetValue("añb")
	data, err := io.ReadAll(c.AsciiStream())
	require.NoError(t, err)
	assert.Equal(t, "a?b", string(data))
}

func TestClobReadersAndEquality(t *testing.T) {
	c := NewClobFromString("stream me")
	data, err := io.ReadAll(c.CharacterStream())
	require.NoError(t, err)
	assert.Equal(t, "stream me", string(data))

	r, err := c.CharacterStreamRange(8, 5)
	require.NoError(t, err)
	data, err = io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "me", string(data))

	assert.True(t, c.Equal(NewClobFrom([]rune("stream me"))))
	assert.False(t, c.Equal(NewClobFromString("stream")))
	assert.Equal(t, NewClobFromString("stream me").Hash(), c.Hash())
	assert.Equal(t, "Clob [length=9]", c.String())
}

func TestSQLXMLStreamRepresentation(t *testing.T) {
	x := NewSQLXMLFromString("<a><b>1</b></a>")

	src, err := x.Source(RepresentationStream)
	require.NoError(t, err)
	data, err := io.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, "<a><b>1</b></a>", string(data))

	res, err := x.Result(RepresentationStream)
	require.NoError(t, err)
	_, err = io.WriteString(res, "<root/>")
	require.NoError(t, err)
	assert.Equal(t, "<root/>", x.Value())
	assert.Equal(t, int64(7), x.Length())
}

func TestSQLXMLUnsupportedRepresentations(t *testing.T) {
	x := NewSQLXMLFromString("<a/>")
	for _, rep := range []Representation{RepresentationDOM, RepresentationSAX, RepresentationStAX} {
		_, err := x.Source(rep)
		require.ErrorIs(t, err, sqlerr.ErrUnsupportedRepresentation, rep.String())
		_, err = x.Result(rep)
		require.ErrorIs(t, err, sqlerr.ErrUnsupportedRepresentation, rep.String())
	}
	assert.Equal(t, "<a/>", x.Value(), "failed requests leave the document untouched")
}

func TestSQLXMLDecoder(t *testing.T) {
	x := NewSQLXML()
	w := x.SetBinaryStream()
	_, err := w.Write([]byte(`<items><item id="1"/></items>`))
	require.NoError(t, err)

	var names []string
	dec := x.Decoder()
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if start, ok := tok.(xml.StartElement); ok {
			names = append(names, start.Name.Local)
		}
	}
	assert.Equal(t, []string{"items", "item"}, names)

	x.Free()
	assert.Equal(t, int64(0), x.Length())
	assert.Equal(t, "SQLXML [length=0]", x.String())
}
