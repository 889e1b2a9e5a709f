package lob

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/OneOfOne/xxhash"
	"github.com/bisegni/lobcursor/pkg/sqlerr"
)

// Clob is an in-memory character large object. Positions and lengths count
// characters (runes), not bytes.
type Clob struct {
	store[rune]
}

// NewClob creates an empty Clob.
func NewClob() *Clob {
	return &Clob{store: newStore[rune](nil)}
}

// NewClobFromString creates a Clob holding s.
func NewClobFromString(s string) *Clob {
	return &Clob{store: newStore([]rune(s))}
}

// NewClobFrom creates a Clob holding a copy of content.
func NewClobFrom(content []rune) *Clob {
	return &Clob{store: newStore(content)}
}

// Length returns the number of characters in the Clob.
func (c *Clob) Length() int64 {
	return c.length()
}

// SubString returns up to length characters starting at pos.
func (c *Clob) SubString(pos int64, length int) (string, error) {
	runes, err := c.read(pos, length)
	if err != nil {
		return "", err
	}
	return string(runes), nil
}

// SetString writes s at pos and returns the number of characters written.
func (c *Clob) SetString(pos int64, s string) (int, error) {
	runes := []rune(s)
	return c.write(pos, runes, 0, len(runes))
}

// SetStringRange writes the characters [offset, offset+length) of s at pos.
func (c *Clob) SetStringRange(pos int64, s string, offset, length int) (int, error) {
	return c.write(pos, []rune(s), offset, length)
}

// Position returns the 1-based position of search at or after start, or 0.
func (c *Clob) Position(search string, start int64) (int64, error) {
	return c.find([]rune(search), start)
}

// PositionClob searches for the whole content of search.
func (c *Clob) PositionClob(search *Clob, start int64) (int64, error) {
	if search == nil {
		return 0, sqlerr.InvalidArgument("clob to search is nil")
	}
	return c.find(search.buf.View(), start)
}

// Truncate shortens the Clob to length characters.
func (c *Clob) Truncate(length int64) error {
	return c.truncate(length)
}

// Free empties the Clob. It stays usable.
func (c *Clob) Free() {
	c.free()
}

// Value returns the whole content.
func (c *Clob) Value() string {
	return string(c.buf.View())
}

// SetValue replaces the whole content with s.
func (c *Clob) SetValue(s string) {
	c.free()
	c.buf.Append([]rune(s)...)
}

// CharacterStream returns a reader over a snapshot of the whole content.
func (c *Clob) CharacterStream() io.Reader {
	return strings.NewReader(c.Value())
}

// CharacterStreamRange returns a reader over up to length characters
// starting at pos.
func (c *Clob) CharacterStreamRange(pos, length int64) (io.Reader, error) {
	s, err := c.SubString(pos, int(length))
	if err != nil {
		return nil, err
	}
	return strings.NewReader(s), nil
}

// AsciiStream returns the content as bytes, one byte per character. Characters
// outside the ASCII range are replaced by '?'.
func (c *Clob) AsciiStream() io.Reader {
	runes := c.buf.View()
	out := make([]byte, len(runes))
	for i, r := range runes {
		if r < utf8.RuneSelf {
			out[i] = byte(r)
		} else {
			out[i] = '?'
		}
	}
	return strings.NewReader(string(out))
}

// SetCharacterStream returns a writer that decodes UTF-8 and stores the
// characters sequentially from pos.
func (c *Clob) SetCharacterStream(pos int64) (*RuneWriter, error) {
	if err := c.checkPosition(pos, false); err != nil {
		return nil, err
	}
	return &RuneWriter{w: writer[rune]{buf: c.buf, off: int(pos - 1)}}, nil
}

// SetAsciiStream returns a writer that stores every byte as one character,
// sequentially from pos.
func (c *Clob) SetAsciiStream(pos int64) (*AsciiWriter, error) {
	if err := c.checkPosition(pos, false); err != nil {
		return nil, err
	}
	return &AsciiWriter{w: writer[rune]{buf: c.buf, off: int(pos - 1)}}, nil
}

// Hash returns the xxhash64 checksum of the UTF-8 content.
func (c *Clob) Hash() uint64 {
	return xxhash.Checksum64([]byte(c.Value()))
}

// Equal reports whether both Clobs hold the same characters.
func (c *Clob) Equal(other *Clob) bool {
	if other == nil {
		return false
	}
	a, b := c.buf.View(), other.buf.View()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (c *Clob) String() string {
	return fmt.Sprintf("Clob [length=%d]", c.buf.Len())
}

// RuneWriter writes directly into the Clob buffer. Byte input is decoded as
// UTF-8; a sequence split across two Write calls is held until complete.
type RuneWriter struct {
	w       writer[rune]
	pending []byte
}

// Write implements io.Writer.
func (rw *RuneWriter) Write(p []byte) (int, error) {
	data := p
	if len(rw.pending) > 0 {
		data = append(rw.pending, p...)
		rw.pending = nil
	}
	runes := make([]rune, 0, len(data))
	for len(data) > 0 {
		if !utf8.FullRune(data) {
			rw.pending = append([]byte(nil), data...)
			break
		}
		r, size := utf8.DecodeRune(data)
		runes = append(runes, r)
		data = data[size:]
	}
	rw.w.put(runes)
	return len(p), nil
}

// WriteString implements io.StringWriter. A sequence held back by Write is
// completed or rejected first, so characters keep their write order.
func (rw *RuneWriter) WriteString(s string) (int, error) {
	if len(rw.pending) > 0 {
		return rw.Write([]byte(s))
	}
	rw.w.put([]rune(s))
	return len(s), nil
}

// WriteRune stores a single character.
func (rw *RuneWriter) WriteRune(r rune) (int, error) {
	if len(rw.pending) > 0 {
		return rw.Write(utf8.AppendRune(nil, r))
	}
	rw.w.putOne(r)
	return utf8.RuneLen(r), nil
}

// Close stores an incomplete trailing sequence as utf8.RuneError.
func (rw *RuneWriter) Close() error {
	if len(rw.pending) > 0 {
		rw.w.putOne(utf8.RuneError)
		rw.pending = nil
	}
	return nil
}

// AsciiWriter stores each written byte as one character.
type AsciiWriter struct {
	w writer[rune]
}

// Write implements io.Writer.
func (aw *AsciiWriter) Write(p []byte) (int, error) {
	runes := make([]rune, len(p))
	for i, b := range p {
		runes[i] = rune(b)
	}
	aw.w.put(runes)
	return len(p), nil
}

// WriteByte implements io.ByteWriter.
func (aw *AsciiWriter) WriteByte(b byte) error {
	aw.w.putOne(rune(b))
	return nil
}
