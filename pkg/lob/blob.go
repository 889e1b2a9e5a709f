package lob

import (
	"bytes"
	"fmt"
	"io"

	"github.com/OneOfOne/xxhash"
	"github.com/bisegni/lobcursor/pkg/sqlerr"
)

// Blob is an in-memory binary large object.
type Blob struct {
	store[byte]
}

// NewBlob creates an empty Blob.
func NewBlob() *Blob {
	return &Blob{store: newStore[byte](nil)}
}

// NewBlobFrom creates a Blob holding a copy of content.
func NewBlobFrom(content []byte) *Blob {
	return &Blob{store: newStore(content)}
}

// Length returns the number of bytes in the Blob.
func (b *Blob) Length() int64 {
	return b.length()
}

// Bytes returns up to length bytes starting at pos.
func (b *Blob) Bytes(pos int64, length int) ([]byte, error) {
	return b.read(pos, length)
}

// SetBytes writes data at pos and returns the number of bytes written.
func (b *Blob) SetBytes(pos int64, data []byte) (int, error) {
	return b.write(pos, data, 0, len(data))
}

// SetBytesRange writes data[offset:offset+length] at pos.
func (b *Blob) SetBytesRange(pos int64, data []byte, offset, length int) (int, error) {
	return b.write(pos, data, offset, length)
}

// Position returns the 1-based position of pattern at or after start, or 0
// when it does not occur.
func (b *Blob) Position(pattern []byte, start int64) (int64, error) {
	return b.find(pattern, start)
}

// PositionBlob searches for the whole content of pattern.
func (b *Blob) PositionBlob(pattern *Blob, start int64) (int64, error) {
	if pattern == nil {
		return 0, sqlerr.InvalidArgument("pattern blob is nil")
	}
	return b.find(pattern.buf.View(), start)
}

// Truncate shortens the Blob to length bytes.
func (b *Blob) Truncate(length int64) error {
	return b.truncate(length)
}

// Free empties the Blob. It stays usable.
func (b *Blob) Free() {
	b.free()
}

// BinaryStream returns a reader over a snapshot of the whole content.
func (b *Blob) BinaryStream() io.Reader {
	return bytes.NewReader(bytes.Clone(b.buf.View()))
}

// BinaryStreamRange returns a reader over up to length bytes starting at pos.
func (b *Blob) BinaryStreamRange(pos, length int64) (io.Reader, error) {
	data, err := b.read(pos, int(length))
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// SetBinaryStream returns a writer that stores bytes sequentially from pos.
func (b *Blob) SetBinaryStream(pos int64) (*ByteWriter, error) {
	if err := b.checkPosition(pos, false); err != nil {
		return nil, err
	}
	return &ByteWriter{w: writer[byte]{buf: b.buf, off: int(pos - 1)}}, nil
}

// ReadFrom appends everything r yields to the end of the Blob.
func (b *Blob) ReadFrom(r io.Reader) (int64, error) {
	w := &ByteWriter{w: writer[byte]{buf: b.buf, off: b.buf.Len()}}
	return io.Copy(w, r)
}

// Hash returns the xxhash64 checksum of the content.
func (b *Blob) Hash() uint64 {
	return xxhash.Checksum64(b.buf.View())
}

// Equal reports whether both Blobs hold the same bytes.
func (b *Blob) Equal(other *Blob) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(b.buf.View(), other.buf.View())
}

func (b *Blob) String() string {
	return fmt.Sprintf("Blob [length=%d]", b.buf.Len())
}

// ByteWriter writes directly into the Blob buffer.
type ByteWriter struct {
	w writer[byte]
}

// Write implements io.Writer.
func (bw *ByteWriter) Write(p []byte) (int, error) {
	bw.w.put(p)
	return len(p), nil
}

// WriteByte implements io.ByteWriter.
func (bw *ByteWriter) WriteByte(c byte) error {
	bw.w.putOne(c)
	return nil
}

// Close implements io.Closer. Writes are already visible, so it does nothing.
func (bw *ByteWriter) Close() error {
	return nil
}
