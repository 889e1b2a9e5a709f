// Package cursor implements the row cursor state machine over a content
// source.
//
// A cursor starts before the first row, moves onto rows and finally reaches
// the terminal after-last state. Forward-only cursors only move with Next.
// Scrollable cursors, which require a fixed table, also accept absolute and
// relative moves inside [1, RowCount].
package cursor

import (
	"fmt"

	"github.com/bisegni/lobcursor/pkg/content"
	"github.com/bisegni/lobcursor/pkg/convert"
	"github.com/bisegni/lobcursor/pkg/logging"
	"github.com/bisegni/lobcursor/pkg/metadata"
	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const defaultLabelCache = 64

// State is the logical position of a cursor.
type State int

const (
	BeforeFirst State = iota
	OnRow
	AfterLast
	Closed
)

func (s State) String() string {
	switch s {
	case BeforeFirst:
		return "before-first"
	case OnRow:
		return "on-row"
	case AfterLast:
		return "after-last"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Cursor drives one content source for its whole life.
type Cursor struct {
	name      string
	src       content.Source
	mode      Mode
	columns   metadata.Columns
	converter *convert.Table
	labels    *lru.Cache[string, int]

	state   State
	row     int
	wasNull bool
}

// New binds a cursor to src. Fixed tables default to Scrollable, every other
// source to ForwardOnly.
func New(src content.Source, opts ...Option) (*Cursor, error) {
	if src == nil {
		return nil, sqlerr.InvalidArgument("content source can't be nil")
	}
	o := options{cacheSize: defaultLabelCache}
	for _, opt := range opts {
		opt(&o)
	}

	mode := ForwardOnly
	if src.Kind() == content.KindFixed {
		mode = Scrollable
	}
	if o.mode != nil {
		mode = *o.mode
	}
	if mode == Scrollable && src.Kind() != content.KindFixed {
		return nil, sqlerr.Unsupported("%s source can't be scrolled", src.Kind())
	}
	if o.converter == nil {
		o.converter = convert.Default()
	}
	if o.cacheSize < 1 {
		o.cacheSize = defaultLabelCache
	}
	labels, err := lru.New[string, int](o.cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create label cache")
	}

	return &Cursor{
		name:      "cursor-" + uuid.New().String(),
		src:       src,
		mode:      mode,
		columns:   o.columns,
		converter: o.converter,
		labels:    labels,
	}, nil
}

// Name returns the generated cursor name.
func (c *Cursor) Name() string { return c.name }

// Mode returns the navigation policy.
func (c *Cursor) Mode() Mode { return c.mode }

// State returns the current logical position.
func (c *Cursor) State() State { return c.state }

// Columns returns the attached column metadata.
func (c *Cursor) Columns() metadata.Columns { return c.columns }

// Row returns the current row number, or 0 when not on a row.
func (c *Cursor) Row() int {
	if c.state != OnRow {
		return 0
	}
	return c.row
}

func (c *Cursor) IsBeforeFirst() bool { return c.state == BeforeFirst }
func (c *Cursor) IsAfterLast() bool   { return c.state == AfterLast }
func (c *Cursor) IsFirst() bool       { return c.state == OnRow && c.row == 1 }

// IsLast reports whether the cursor is on the last row of a fixed table.
// Streaming sources can't know it without moving, so it is false for them.
func (c *Cursor) IsLast() bool {
	return c.state == OnRow && c.src.Kind() == content.KindFixed && c.row == c.src.RowCount()
}

// Next moves to the following row. It reports false once the cursor has
// moved after the last row.
func (c *Cursor) Next() (bool, error) {
	if err := c.checkNavigable(); err != nil {
		return false, err
	}
	target := c.row + 1

	switch c.src.Kind() {
	case content.KindFixed:
		if target > c.src.RowCount() {
			c.afterLast(target)
			return false, nil
		}
		if _, err := c.src.SetCurrentRow(target); err != nil {
			return false, err
		}
	case content.KindNull:
		c.afterLast(target)
		return false, nil
	case content.KindIterator, content.KindStream:
		ok, err := c.src.SetCurrentRow(target)
		if err != nil {
			return false, err
		}
		if !ok {
			c.afterLast(target)
			return false, nil
		}
	default:
		return false, sqlerr.Unsupported("unknown source kind %s", c.src.Kind())
	}
	c.onRow(target)
	return true, nil
}

// Absolute moves to row.
func (c *Cursor) Absolute(row int) error {
	if err := c.checkScrollable(); err != nil {
		return err
	}
	return c.moveTo(row)
}

// Relative moves delta rows from the current position. From before the first
// row the current position counts as 0.
func (c *Cursor) Relative(delta int) error {
	if err := c.checkScrollable(); err != nil {
		return err
	}
	return c.moveTo(c.row + delta)
}

// First moves to row 1.
func (c *Cursor) First() error {
	return c.Absolute(1)
}

// Last moves to the last row.
func (c *Cursor) Last() error {
	if err := c.checkScrollable(); err != nil {
		return err
	}
	return c.moveTo(c.src.RowCount())
}

// Previous moves one row back.
func (c *Cursor) Previous() error {
	return c.Relative(-1)
}

// BeforeFirst rewinds a scrollable cursor.
func (c *Cursor) BeforeFirst() error {
	if err := c.checkScrollable(); err != nil {
		return err
	}
	c.state = BeforeFirst
	c.row = 0
	c.wasNull = false
	return nil
}

// Close releases the source. It is idempotent and closes the source exactly
// once.
func (c *Cursor) Close() error {
	if c.state == Closed {
		return nil
	}
	c.state = Closed
	c.wasNull = false
	c.labels.Purge()
	c.log().Debug("cursor closed")
	return c.src.Close()
}

func (c *Cursor) moveTo(target int) error {
	count := c.src.RowCount()
	if target < 1 || target > count {
		return sqlerr.OutOfRange(sqlerr.ErrRowOutOfRange, int64(target), 1, int64(count))
	}
	if _, err := c.src.SetCurrentRow(target); err != nil {
		return err
	}
	c.onRow(target)
	return nil
}

func (c *Cursor) checkNavigable() error {
	switch c.state {
	case Closed:
		return errors.Wrapf(sqlerr.ErrCursorClosed, "%s", c.name)
	case AfterLast:
		return errors.Wrapf(sqlerr.ErrInvalidCursorState, "%s is after the last row", c.name)
	}
	return nil
}

func (c *Cursor) checkScrollable() error {
	if c.state == Closed {
		return errors.Wrapf(sqlerr.ErrCursorClosed, "%s", c.name)
	}
	if c.mode != Scrollable {
		return sqlerr.Unsupported("%s is forward-only over a %s source", c.name, c.src.Kind())
	}
	return c.checkNavigable()
}

func (c *Cursor) onRow(row int) {
	c.state = OnRow
	c.row = row
	c.wasNull = false
}

func (c *Cursor) afterLast(row int) {
	c.state = AfterLast
	c.row = row
	c.wasNull = false
	c.log().Debug("cursor moved after the last row")
}

func (c *Cursor) log() *logrus.Entry {
	return logging.WithFields(logrus.Fields{
		"cursor": c.name,
		"source": c.src.Kind().String(),
		"row":    c.row,
	})
}
