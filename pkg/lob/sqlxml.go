package lob

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/pkg/errors"
)

// Representation selects how an XML payload is exposed to or received from a
// caller.
type Representation int

const (
	// RepresentationStream is a plain character stream.
	RepresentationStream Representation = iota
	// RepresentationDOM is a parsed document tree.
	RepresentationDOM
	// RepresentationSAX is a push-parser event stream.
	RepresentationSAX
	// RepresentationStAX is a pull-parser event stream.
	RepresentationStAX
)

func (r Representation) String() string {
	switch r {
	case RepresentationStream:
		return "stream"
	case RepresentationDOM:
		return "dom"
	case RepresentationSAX:
		return "sax"
	case RepresentationStAX:
		return "stax"
	default:
		return fmt.Sprintf("representation(%d)", int(r))
	}
}

// SQLXML is a character large object holding an XML document. Only the
// stream representation is supported.
type SQLXML struct {
	clob *Clob
}

// NewSQLXML creates an empty SQLXML value.
func NewSQLXML() *SQLXML {
	return &SQLXML{clob: NewClob()}
}

// NewSQLXMLFromString creates an SQLXML value holding s.
func NewSQLXMLFromString(s string) *SQLXML {
	return &SQLXML{clob: NewClobFromString(s)}
}

// Length returns the number of characters in the document.
func (x *SQLXML) Length() int64 {
	return x.clob.Length()
}

// Value returns the document text.
func (x *SQLXML) Value() string {
	return x.clob.Value()
}

// SetValue replaces the document text.
func (x *SQLXML) SetValue(s string) {
	x.clob.SetValue(s)
}

// CharacterStream returns a reader over the document text.
func (x *SQLXML) CharacterStream() io.Reader {
	return x.clob.CharacterStream()
}

// SetCharacterStream empties the document and returns a writer filling it.
func (x *SQLXML) SetCharacterStream() *RuneWriter {
	x.clob.Free()
	w, _ := x.clob.SetCharacterStream(1)
	return w
}

// BinaryStream returns the document as UTF-8 bytes.
func (x *SQLXML) BinaryStream() io.Reader {
	return strings.NewReader(x.clob.Value())
}

// SetBinaryStream empties the document and returns a writer accepting UTF-8
// bytes.
func (x *SQLXML) SetBinaryStream() *RuneWriter {
	return x.SetCharacterStream()
}

// Source returns the document in the requested representation.
func (x *SQLXML) Source(rep Representation) (io.Reader, error) {
	if rep != RepresentationStream {
		return nil, errors.Wrapf(sqlerr.ErrUnsupportedRepresentation, "source representation [%s]", rep)
	}
	return x.CharacterStream(), nil
}

// Result returns a writer that replaces the document, in the requested
// representation.
func (x *SQLXML) Result(rep Representation) (io.Writer, error) {
	if rep != RepresentationStream {
		return nil, errors.Wrapf(sqlerr.ErrUnsupportedRepresentation, "result representation [%s]", rep)
	}
	return x.SetCharacterStream(), nil
}

// Decoder returns an XML token decoder over the stream representation.
func (x *SQLXML) Decoder() *xml.Decoder {
	return xml.NewDecoder(x.CharacterStream())
}

// Clob exposes the underlying character object.
func (x *SQLXML) Clob() *Clob {
	return x.clob
}

// Free empties the document. It stays usable.
func (x *SQLXML) Free() {
	x.clob.Free()
}

func (x *SQLXML) String() string {
	return fmt.Sprintf("SQLXML [length=%d]", x.clob.Length())
}
