// Package lob implements in-memory large objects: Blob for bytes, Clob for
// characters and SQLXML for character payloads holding XML documents.
//
// Positions are 1-based. Reading past the end truncates silently, writing past
// the end grows the object and zero-fills the gap. None of the types are safe
// for concurrent use.
package lob

import (
	"math"

	"github.com/bisegni/lobcursor/pkg/growable"
	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/pkg/errors"
)

// store holds the position arithmetic shared by every large object.
type store[T growable.Element] struct {
	buf *growable.Buffer[T]
}

func newStore[T growable.Element](content []T) store[T] {
	return store[T]{buf: growable.From(content)}
}

func (s *store[T]) length() int64 {
	return int64(s.buf.Len())
}

// checkPosition validates a 1-based position. With inside set the position
// must also address an existing element.
func (s *store[T]) checkPosition(pos int64, inside bool) error {
	switch {
	case pos < 1:
		return errors.Wrapf(sqlerr.ErrPositionOutOfRange, "position [%d] is less than 1", pos)
	case pos >= math.MaxInt32:
		return errors.Wrapf(sqlerr.ErrPositionOutOfRange, "position [%d] is too large for an in-memory object", pos)
	case inside && pos > s.length():
		return sqlerr.OutOfRange(sqlerr.ErrPositionOutOfRange, pos, 1, s.length())
	}
	return nil
}

// read copies at most n elements starting at pos.
func (s *store[T]) read(pos int64, n int) ([]T, error) {
	if n < 0 {
		return nil, sqlerr.InvalidArgument("length [%d] is negative", n)
	}
	if err := s.checkPosition(pos, true); err != nil {
		return nil, err
	}
	from := int(pos - 1)
	size := min(n, s.buf.Len()-from)
	out := make([]T, size)
	copy(out, s.buf.View()[from:from+size])
	return out, nil
}

// write stores data[offset:offset+n] at pos and reports n.
func (s *store[T]) write(pos int64, data []T, offset, n int) (int, error) {
	if offset < 0 || offset > len(data) {
		return 0, sqlerr.OutOfRange(sqlerr.ErrInvalidArgument, int64(offset), 0, int64(len(data)))
	}
	if n < 0 || n > len(data)-offset {
		return 0, sqlerr.OutOfRange(sqlerr.ErrInvalidArgument, int64(n), 0, int64(len(data)-offset))
	}
	if err := s.checkPosition(pos, false); err != nil {
		return 0, err
	}
	if err := s.buf.Overwrite(int(pos-1), data[offset:offset+n]); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *store[T]) truncate(n int64) error {
	if n < 0 {
		return sqlerr.InvalidArgument("length [%d] is negative", n)
	}
	if n > s.length() {
		return sqlerr.InvalidArgument("length to truncate [%d] is greater than current length [%d]", n, s.length())
	}
	return s.buf.SetLength(int(n))
}

// find returns the 1-based position of the first occurrence of pattern at or
// after start, or 0.
func (s *store[T]) find(pattern []T, start int64) (int64, error) {
	if len(pattern) == 0 {
		return 0, sqlerr.InvalidArgument("pattern is empty")
	}
	if err := s.checkPosition(start, true); err != nil {
		return 0, err
	}
	content := s.buf.View()
	if len(content)-int(start-1) < len(pattern) {
		return 0, nil
	}

next:
	for index, last := int(start-1), len(content)-len(pattern); index <= last; index++ {
		if content[index] != pattern[0] {
			continue
		}
		for sub := 1; sub < len(pattern); sub++ {
			if content[index+sub] != pattern[sub] {
				continue next
			}
		}
		return int64(index + 1), nil
	}
	return 0, nil
}

func (s *store[T]) free() {
	s.buf.Reset()
}

// writer is the sequential direct-write adapter. It keeps the buffer and an
// offset only; the backing view is taken anew on every call.
type writer[T growable.Element] struct {
	buf *growable.Buffer[T]
	off int
}

func (w *writer[T]) put(elems []T) {
	if len(elems) == 0 {
		return
	}
	// Overwrite only fails on a negative offset, which the constructor rules out.
	_ = w.buf.Overwrite(w.off, elems)
	w.off += len(elems)
}

func (w *writer[T]) putOne(e T) {
	if w.off < w.buf.Len() {
		w.buf.View()[w.off] = e
	} else {
		w.put([]T{e})
		return
	}
	w.off++
}
