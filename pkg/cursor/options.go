package cursor

import (
	"github.com/bisegni/lobcursor/pkg/convert"
	"github.com/bisegni/lobcursor/pkg/metadata"
)

// Mode is the navigation policy of a cursor.
type Mode int

const (
	// ForwardOnly allows Next only.
	ForwardOnly Mode = iota
	// Scrollable additionally allows absolute and relative moves. Only
	// fixed tables can be scrolled.
	Scrollable
)

func (m Mode) String() string {
	if m == Scrollable {
		return "scrollable"
	}
	return "forward-only"
}

type options struct {
	columns   metadata.Columns
	converter *convert.Table
	mode      *Mode
	cacheSize int
}

// Option configures a Cursor.
type Option func(*options)

// WithColumns attaches column metadata.
func WithColumns(cols metadata.Columns) Option {
	return func(o *options) {
		o.columns = cols
	}
}

// WithConverter sets the conversion table used by the typed getters.
func WithConverter(t *convert.Table) Option {
	return func(o *options) {
		o.converter = t
	}
}

// WithForwardOnly restricts navigation to Next.
func WithForwardOnly() Option {
	return withMode(ForwardOnly)
}

// WithScrollable requests scrollable navigation. New fails when the source
// is not a fixed table.
func WithScrollable() Option {
	return withMode(Scrollable)
}

// WithLabelCache sets how many column label lookups are cached.
func WithLabelCache(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

func withMode(m Mode) Option {
	return func(o *options) {
		o.mode = &m
	}
}
