package content

import (
	"github.com/bisegni/lobcursor/pkg/logging"
	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/sirupsen/logrus"
)

// Segment is one source of a Chain and the marker naming it.
type Segment struct {
	Marker string
	Source Source
}

// MarkerFunc is called when a Chain leaves the segment marked prev. next is
// the marker of the segment that follows, or "" once the chain is exhausted.
type MarkerFunc func(prev, next string)

// Chain is a Producer yielding the rows of several sources one after the
// other. Wrap it with NewIterator to read it through one forward-only cursor.
type Chain struct {
	segments []Segment
	onChange MarkerFunc
	index    int
	row      int
	done     bool
	closed   bool
}

// NewChain creates a producer over segments. onChange may be nil.
func NewChain(onChange MarkerFunc, segments ...Segment) (*Chain, error) {
	if len(segments) == 0 {
		return nil, sqlerr.InvalidArgument("chain needs at least one segment")
	}
	for i, seg := range segments {
		if seg.Source == nil {
			return nil, sqlerr.InvalidArgument("segment %d has no source", i+1)
		}
	}
	return &Chain{segments: segments, onChange: onChange}, nil
}

// Marker returns the marker of the segment rows are read from, or "" once
// the chain is exhausted.
func (ch *Chain) Marker() string {
	if ch.done {
		return ""
	}
	return ch.segments[ch.index].Marker
}

// Move returns the next row, moving on to the following segment whenever the
// current one runs out.
func (ch *Chain) Move() (Row, bool, error) {
	for !ch.done {
		src := ch.segments[ch.index].Source
		next := ch.row + 1
		if !src.Streaming() && next > src.RowCount() {
			ch.advance()
			continue
		}
		ok, err := src.SetCurrentRow(next)
		if err != nil {
			return nil, false, err
		}
		row := src.Row(next)
		if !ok || row == nil {
			ch.advance()
			continue
		}
		ch.row = next
		return row, true, nil
	}
	return nil, false, nil
}

func (ch *Chain) advance() {
	prev := ch.segments[ch.index].Marker
	ch.row = 0
	ch.index++
	if ch.index >= len(ch.segments) {
		ch.index = len(ch.segments) - 1
		ch.done = true
	}
	ch.notify(prev, ch.Marker())
}

func (ch *Chain) notify(prev, next string) {
	logging.WithFields(logrus.Fields{"from": prev, "to": next}).Debug("chain segment finished")
	if ch.onChange != nil {
		ch.onChange(prev, next)
	}
}

// Close closes every segment and returns the first error. A chain closed
// before it was exhausted reports its last marker change first.
func (ch *Chain) Close() error {
	if ch.closed {
		return nil
	}
	ch.closed = true
	if !ch.done {
		prev := ch.Marker()
		ch.done = true
		ch.notify(prev, "")
	}
	var first error
	for _, seg := range ch.segments {
		if err := seg.Source.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
