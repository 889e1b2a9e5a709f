package parser

import (
	"github.com/bisegni/lobcursor/pkg/content"
	"github.com/bisegni/lobcursor/pkg/logging"
	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/sirupsen/logrus"
)

// OpenChain opens every name with opts and reads them one after the other
// through a single forward-only source. Segments are marked with their
// display name and the columns are those of the first input, so the inputs
// are expected to share a layout. onChange may be nil.
func OpenChain(names []string, opts Options, onChange content.MarkerFunc) (*Table, error) {
	if len(names) == 0 {
		return nil, sqlerr.InvalidArgument("no input to open")
	}
	// scrollable tables are collected once, after chaining
	scrollable := opts.Scrollable
	opts.Scrollable = false

	var (
		first    *Table
		segments = make([]content.Segment, 0, len(names))
	)
	closeAll := func() {
		for _, seg := range segments {
			seg.Source.Close()
		}
	}
	for _, name := range names {
		t, err := Open(name, opts)
		if err != nil {
			closeAll()
			return nil, err
		}
		if first == nil {
			first = t
		}
		segments = append(segments, content.Segment{Marker: displayName(name), Source: t.Source})
	}

	chain, err := content.NewChain(onChange, segments...)
	if err != nil {
		closeAll()
		return nil, err
	}
	logging.WithFields(logrus.Fields{"inputs": len(names), "columns": len(first.Columns)}).Debug("inputs chained")

	t := &Table{Source: content.NewIterator(chain), Columns: first.Columns, Format: first.Format}
	if scrollable {
		fixed, err := collect(t.Source)
		if err != nil {
			return nil, err
		}
		t.Source = fixed
	}
	return t, nil
}
