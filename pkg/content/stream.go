package content

import (
	"github.com/bisegni/lobcursor/pkg/logging"
	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/sirupsen/logrus"
)

// FetchFunc fills row in place with the next record and reports whether one
// was available.
type FetchFunc func(row Row) (bool, error)

// CloseFunc releases the external producer.
type CloseFunc func() error

// Stream is a push-style forward-only source. Every record is fetched into the
// same pre-allocated row, so the Row returned for the current position is
// overwritten by the next move.
type Stream struct {
	buffer    Row
	fetch     FetchFunc
	closer    CloseFunc
	current   int
	exhausted bool
	closed    bool
}

// NewStream creates a source over a caller-supplied row buffer and callbacks.
// closer may be nil.
func NewStream(buffer Row, fetch FetchFunc, closer CloseFunc) (*Stream, error) {
	if len(buffer) == 0 {
		return nil, sqlerr.InvalidArgument("row buffer can't be empty")
	}
	if fetch == nil {
		return nil, sqlerr.InvalidArgument("fetch function can't be nil")
	}
	return &Stream{buffer: buffer, fetch: fetch, closer: closer}, nil
}

func (*Stream) Kind() Kind      { return KindStream }
func (*Stream) Streaming() bool { return true }
func (*Stream) sealed()         {}

// RowCount returns the current row number, or 0 once the stream is exhausted.
func (s *Stream) RowCount() int {
	if s.exhausted {
		return 0
	}
	return s.current
}

func (s *Stream) CurrentRow() int {
	return s.current
}

// SetCurrentRow only advances to CurrentRow()+1, fetching into the buffer.
func (s *Stream) SetCurrentRow(row int) (bool, error) {
	if row != s.current+1 {
		return false, nil
	}
	if s.exhausted || s.closed {
		s.current = row
		return false, nil
	}
	ok, err := s.fetch(s.buffer)
	if err != nil {
		return false, err
	}
	s.current = row
	if !ok {
		s.exhausted = true
		return false, nil
	}
	return true, nil
}

// Row returns the shared buffer when row is the current, fetched row.
func (s *Stream) Row(row int) Row {
	if s.exhausted || s.closed || row < 1 || row != s.current {
		return nil
	}
	return s.buffer
}

// Close invokes the close callback exactly once.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	logging.WithFields(logrus.Fields{"source": KindStream.String(), "rows": s.current}).Debug("content source closed")
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
