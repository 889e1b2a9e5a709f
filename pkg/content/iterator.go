package content

import (
	"io"

	"github.com/bisegni/lobcursor/pkg/logging"
	"github.com/sirupsen/logrus"
)

// Producer yields rows one at a time. ok is false once the producer is
// exhausted. A producer that also implements io.Closer is closed after it has
// been drained.
type Producer interface {
	Move() (row Row, ok bool, err error)
}

// ProducerFunc adapts a function to Producer.
type ProducerFunc func() (Row, bool, error)

func (f ProducerFunc) Move() (Row, bool, error) {
	return f()
}

// SliceProducer yields the rows of a slice in order.
func SliceProducer(rows []Row) Producer {
	idx := 0
	return ProducerFunc(func() (Row, bool, error) {
		if idx >= len(rows) {
			return nil, false, nil
		}
		row := rows[idx]
		idx++
		return row, true, nil
	})
}

// Iterator wraps a one-shot forward-only producer.
type Iterator struct {
	producer  Producer
	current   int
	row       Row
	exhausted bool
	closed    bool
}

// NewIterator creates a source pulling rows from producer.
func NewIterator(producer Producer) *Iterator {
	return &Iterator{producer: producer}
}

func (*Iterator) Kind() Kind      { return KindIterator }
func (*Iterator) Streaming() bool { return true }
func (*Iterator) sealed()         {}

// RowCount is always Unbounded, the true size is unknown.
func (it *Iterator) RowCount() int {
	return Unbounded
}

func (it *Iterator) CurrentRow() int {
	return it.current
}

// SetCurrentRow only advances to CurrentRow()+1. Once the producer is
// exhausted the row number still advances but false is returned.
func (it *Iterator) SetCurrentRow(row int) (bool, error) {
	if row != it.current+1 {
		return false, nil
	}
	if it.exhausted || it.closed {
		it.current = row
		it.row = nil
		return false, nil
	}
	next, ok, err := it.producer.Move()
	if err != nil {
		return false, err
	}
	it.current = row
	if !ok {
		it.exhausted = true
		it.row = nil
		return false, nil
	}
	it.row = next
	return true, nil
}

// Row returns the last pulled row when row is the current one.
func (it *Iterator) Row(row int) Row {
	if row != it.current || row < 1 {
		return nil
	}
	return it.row
}

// Close drains whatever the producer still holds and closes it.
func (it *Iterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.row = nil

	drained := 0
	for !it.exhausted {
		_, ok, err := it.producer.Move()
		if err != nil {
			closeProducer(it.producer)
			return err
		}
		if !ok {
			it.exhausted = true
			break
		}
		drained++
	}
	logging.WithFields(logrus.Fields{"source": KindIterator.String(), "drained": drained}).Debug("content source closed")
	return closeProducer(it.producer)
}

func closeProducer(p Producer) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
