package content

import (
	"testing"

	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedTableRandomAccess(t *testing.T) {
	table := NewFixedTable([]Row{{"a", 1}, {"b", 2}, {"c", 3}})
	assert.Equal(t, KindFixed, table.Kind())
	assert.False(t, table.Streaming())
	assert.Equal(t, 3, table.RowCount())
	assert.Equal(t, 0, table.CurrentRow())

	for _, row := range []int{3, 1, 2, 3} {
		ok, err := table.SetCurrentRow(row)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, row, table.CurrentRow())
	}

	assert.Equal(t, Row{"a", 1}, table.Row(1))
	assert.Equal(t, Row{"c", 3}, table.Row(3))
	assert.Nil(t, table.Row(0))
	assert.Nil(t, table.Row(4))
}

func TestFixedTableRejectsOutOfRange(t *testing.T) {
	table := NewFixedTable([]Row{{"a"}})
	_, err := table.SetCurrentRow(1)
	require.NoError(t, err)

	for _, row := range []int{0, -1, 2} {
		ok, err := table.SetCurrentRow(row)
		assert.False(t, ok)
		require.ErrorIs(t, err, sqlerr.ErrRowOutOfRange)
		assert.Equal(t, 1, table.CurrentRow())
	}
}

func TestNullSource(t *testing.T) {
	n := NewNull()
	assert.Equal(t, KindNull, n.Kind())
	assert.Equal(t, 0, n.RowCount())
	ok, err := n.SetCurrentRow(42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, n.Row(1))
	assert.NoError(t, n.Close())
}

type closingProducer struct {
	Producer
	closed int
}

func (c *closingProducer) Close() error {
	c.closed++
	return nil
}

func TestIteratorYieldsInOrder(t *testing.T) {
	it := NewIterator(SliceProducer([]Row{{"a"}, {"b"}}))
	assert.Equal(t, Unbounded, it.RowCount())
	assert.True(t, it.Streaming())

	ok, err := it.SetCurrentRow(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Row{"a"}, it.Row(1))

	ok, err = it.SetCurrentRow(2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Row{"b"}, it.Row(2))
	assert.Nil(t, it.Row(1))

	ok, err = it.SetCurrentRow(3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, it.CurrentRow())
	assert.Nil(t, it.Row(3))

	ok, err = it.SetCurrentRow(4)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIteratorRejectsNonSequentialMoves(t *testing.T) {
	it := NewIterator(SliceProducer([]Row{{"a"}, {"b"}, {"c"}}))
	_, err := it.SetCurrentRow(1)
	require.NoError(t, err)

	for _, row := range []int{0, 1, 3} {
		ok, err := it.SetCurrentRow(row)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 1, it.CurrentRow())
	}
	assert.Equal(t, Row{"a"}, it.Row(1))
}

func TestIteratorProducerError(t *testing.T) {
	failure := errors.New("broken producer")
	it := NewIterator(ProducerFunc(func() (Row, bool, error) {
		return nil, false, failure
	}))

	ok, err := it.SetCurrentRow(1)
	assert.False(t, ok)
	require.ErrorIs(t, err, failure)
	assert.Equal(t, 0, it.CurrentRow())
}

func TestIteratorCloseDrainsProducer(t *testing.T) {
	pulled := 0
	rows := []Row{{1}, {2}, {3}, {4}}
	p := &closingProducer{Producer: ProducerFunc(func() (Row, bool, error) {
		if pulled >= len(rows) {
			return nil, false, nil
		}
		pulled++
		return rows[pulled-1], true, nil
	})}

	it := NewIterator(p)
	_, err := it.SetCurrentRow(1)
	require.NoError(t, err)

	require.NoError(t, it.Close())
	assert.Equal(t, len(rows), pulled)
	assert.Equal(t, 1, p.closed)

	require.NoError(t, it.Close())
	assert.Equal(t, 1, p.closed)

	ok, err := it.SetCurrentRow(2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStreamReusesBuffer(t *testing.T) {
	data := [][2]any{{"a", 1}, {"b", 2}}
	idx := 0
	closed := 0
	buf := make(Row, 2)

	s, err := NewStream(buf, func(row Row) (bool, error) {
		if idx >= len(data) {
			return false, nil
		}
		row[0], row[1] = data[idx][0], data[idx][1]
		idx++
		return true, nil
	}, func() error {
		closed++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, KindStream, s.Kind())

	ok, err := s.SetCurrentRow(1)
	require.NoError(t, err)
	assert.True(t, ok)
	first := s.Row(1)
	assert.Equal(t, Row{"a", 1}, first)
	assert.Equal(t, 1, s.RowCount())

	ok, err = s.SetCurrentRow(2)
	require.NoError(t, err)
	assert.True(t, ok)
	// same backing array, overwritten in place
	assert.Equal(t, Row{"b", 2}, first)

	ok, err = s.SetCurrentRow(3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, s.RowCount())
	assert.Nil(t, s.Row(3))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, closed)
}

func TestNewStreamValidation(t *testing.T) {
	_, err := NewStream(nil, func(Row) (bool, error) { return false, nil }, nil)
	require.ErrorIs(t, err, sqlerr.ErrInvalidArgument)

	_, err = NewStream(make(Row, 1), nil, nil)
	require.ErrorIs(t, err, sqlerr.ErrInvalidArgument)

	s, err := NewStream(make(Row, 1), func(Row) (bool, error) { return false, nil }, nil)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "fixed", KindFixed.String())
	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "iterator", KindIterator.String())
	assert.Equal(t, "stream", KindStream.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

type markerChange struct{ prev, next string }

func TestChainConcatenatesSegments(t *testing.T) {
	var changes []markerChange
	onChange := func(prev, next string) { changes = append(changes, markerChange{prev, next}) }

	streamed := []Row{{"s1"}, {"s2"}}
	idx := 0
	stream, err := NewStream(make(Row, 1), func(row Row) (bool, error) {
		if idx >= len(streamed) {
			return false, nil
		}
		copy(row, streamed[idx])
		idx++
		return true, nil
	}, nil)
	require.NoError(t, err)

	chain, err := NewChain(onChange,
		Segment{Marker: "fixed", Source: NewFixedTable([]Row{{"f1"}, {"f2"}})},
		Segment{Marker: "empty", Source: NewNull()},
		Segment{Marker: "stream", Source: stream},
		Segment{Marker: "iter", Source: NewIterator(SliceProducer([]Row{{"i1"}}))},
	)
	require.NoError(t, err)
	assert.Equal(t, "fixed", chain.Marker())

	var got []any
	var markers []string
	for {
		row, ok, err := chain.Move()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, row[0])
		markers = append(markers, chain.Marker())
	}
	assert.Equal(t, []any{"f1", "f2", "s1", "s2", "i1"}, got)
	assert.Equal(t, []string{"fixed", "fixed", "stream", "stream", "iter"}, markers)
	assert.Equal(t, "", chain.Marker())
	assert.Equal(t, []markerChange{
		{"fixed", "empty"}, {"empty", "stream"}, {"stream", "iter"}, {"iter", ""},
	}, changes)

	_, ok, err := chain.Move()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, chain.Close())
	assert.Len(t, changes, 4)
}

func TestChainThroughIterator(t *testing.T) {
	chain, err := NewChain(nil,
		Segment{Marker: "a", Source: NewFixedTable([]Row{{1}})},
		Segment{Marker: "b", Source: NewFixedTable([]Row{{2}, {3}})},
	)
	require.NoError(t, err)

	it := NewIterator(chain)
	for i := 1; i <= 3; i++ {
		ok, err := it.SetCurrentRow(i)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, Row{i}, it.Row(i))
	}
	ok, err := it.SetCurrentRow(4)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, it.Close())
}

func TestChainCloseBeforeExhausted(t *testing.T) {
	var changes []markerChange
	first := &closingProducer{Producer: SliceProducer([]Row{{1}, {2}})}
	second := &closingProducer{Producer: SliceProducer([]Row{{3}})}
	chain, err := NewChain(func(prev, next string) { changes = append(changes, markerChange{prev, next}) },
		Segment{Marker: "one", Source: NewIterator(first)},
		Segment{Marker: "two", Source: NewIterator(second)},
	)
	require.NoError(t, err)

	_, ok, err := chain.Move()
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, chain.Close())
	assert.Equal(t, []markerChange{{"one", ""}}, changes)
	assert.Equal(t, 1, first.closed)
	assert.Equal(t, 1, second.closed)
	assert.Equal(t, "", chain.Marker())

	require.NoError(t, chain.Close())
	assert.Len(t, changes, 1)
}

func TestChainErrors(t *testing.T) {
	_, err := NewChain(nil)
	require.ErrorIs(t, err, sqlerr.ErrInvalidArgument)

	_, err = NewChain(nil, Segment{Marker: "a", Source: NewNull()}, Segment{Marker: "b"})
	require.ErrorIs(t, err, sqlerr.ErrInvalidArgument)

	boom := errors.New("boom")
	chain, err := NewChain(nil, Segment{Marker: "bad", Source: NewIterator(ProducerFunc(func() (Row, bool, error) {
		return nil, false, boom
	}))})
	require.NoError(t, err)
	_, _, err = chain.Move()
	require.ErrorIs(t, err, boom)
}
