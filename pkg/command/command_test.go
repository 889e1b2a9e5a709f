package command

import (
	"testing"

	"github.com/bisegni/lobcursor/pkg/content"
	"github.com/bisegni/lobcursor/pkg/cursor"
	"github.com/bisegni/lobcursor/pkg/lob"
	"github.com/bisegni/lobcursor/pkg/metadata"
	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"next", Command{Op: OpNext}},
		{"  PREV ", Command{Op: OpPrevious}},
		{"previous", Command{Op: OpPrevious}},
		{"First", Command{Op: OpFirst}},
		{"last", Command{Op: OpLast}},
		{"before first", Command{Op: OpBeforeFirst}},
		{"absolute 3", Command{Op: OpAbsolute, N: 3}},
		{"relative -2", Command{Op: OpRelative, N: -2}},
		{"get 2", Command{Op: OpGet, Column: Column{Index: 2}}},
		{"get name", Command{Op: OpGet, Column: Column{Label: "name"}}},
		{`get "row"`, Command{Op: OpGet, Column: Column{Label: "row"}}},
		{"length doc", Command{Op: OpLength, Column: Column{Label: "doc"}}},
		{"find 'ab' in doc", Command{Op: OpFind, Column: Column{Label: "doc"}, Pattern: "ab", N: 1}},
		{"FIND \"ab\" IN 1 FROM 3", Command{Op: OpFind, Column: Column{Index: 1}, Pattern: "ab", N: 3}},
		{"substr doc 2 5", Command{Op: OpSubstr, Column: Column{Label: "doc"}, N: 2, Length: 5}},
		{"row", Command{Op: OpRow}},
		{"columns", Command{Op: OpColumns}},
		{"close", Command{Op: OpClose}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", "jump", "absolute", "absolute x", "find ab in doc", "next 1"} {
		_, err := Parse(input)
		assert.Error(t, err, input)
	}
}

func newCursor(t *testing.T) *cursor.Cursor {
	t.Helper()
	cols, err := metadata.ParseColumns("id:int", "doc:clob:40", "raw:blob")
	require.NoError(t, err)
	rows := []content.Row{
		{1, "aabab", []byte("xyxy")},
		{2, nil, nil},
	}
	c, err := cursor.New(content.NewFixedTable(rows), cursor.WithColumns(cols))
	require.NoError(t, err)
	return c
}

func run(t *testing.T, c *cursor.Cursor, line string) string {
	t.Helper()
	out, err := Exec(c, line)
	require.NoError(t, err, line)
	return out
}

func TestRunNavigation(t *testing.T) {
	c := newCursor(t)

	assert.Equal(t, "row 1", run(t, c, "next"))
	assert.Equal(t, "row 2", run(t, c, "last"))
	assert.Equal(t, "row 1", run(t, c, "relative -1"))
	assert.Equal(t, "row 2", run(t, c, "absolute 2"))
	assert.Equal(t, "row 1", run(t, c, "prev"))
	assert.Equal(t, "before first row", run(t, c, "before first"))
	assert.Equal(t, "row 1", run(t, c, "first"))

	_, err := Exec(c, "absolute 9")
	require.ErrorIs(t, err, sqlerr.ErrRowOutOfRange)

	assert.Equal(t, "row 2", run(t, c, "next"))
	assert.Equal(t, "after last row", run(t, c, "next"))

	_, err = Exec(c, "next")
	require.ErrorIs(t, err, sqlerr.ErrInvalidCursorState)

	assert.Equal(t, "closed", run(t, c, "close"))
	_, err = Exec(c, "next")
	require.ErrorIs(t, err, sqlerr.ErrCursorClosed)
}

func TestRunValues(t *testing.T) {
	c := newCursor(t)
	run(t, c, "next")

	assert.Equal(t, "1", run(t, c, "get id"))
	assert.Equal(t, "aabab", run(t, c, "get 2"))
	assert.Equal(t, "5", run(t, c, "length doc"))
	assert.Equal(t, "4", run(t, c, "length raw"))
	assert.Equal(t, "2", run(t, c, "find 'ab' in doc"))
	assert.Equal(t, "4", run(t, c, "find 'ab' in doc from 3"))
	assert.Equal(t, "0", run(t, c, "find 'zz' in doc"))
	assert.Equal(t, "2", run(t, c, "find 'yx' in raw"))
	assert.Equal(t, "bab", run(t, c, "substr doc 3 10"))
	assert.Equal(t, `{"id":1,"doc":"aabab","raw":"eHl4eQ=="}`, run(t, c, "row"))
	assert.Equal(t, "1 id int64\n2 doc clob(40)\n3 raw blob", run(t, c, "columns"))

	_, err := Exec(c, "get missing")
	require.ErrorIs(t, err, sqlerr.ErrColumnOutOfRange)
	_, err = Exec(c, "find 'a' in doc from 9")
	require.ErrorIs(t, err, sqlerr.ErrPositionOutOfRange)

	run(t, c, "next")
	assert.Equal(t, "NULL", run(t, c, "get doc"))
	assert.Equal(t, "NULL", run(t, c, "length doc"))
	assert.Equal(t, "NULL", run(t, c, "substr doc 1 1"))
}

func TestRunWithoutRow(t *testing.T) {
	c := newCursor(t)
	_, err := Exec(c, "get 1")
	require.ErrorIs(t, err, sqlerr.ErrNoCurrentRow)
	_, err = Exec(c, "row")
	require.ErrorIs(t, err, sqlerr.ErrNoCurrentRow)
}

func TestLobPositionMatchesCommand(t *testing.T) {
	clob := lob.NewClobFromString("aabab")
	pos, err := clob.Position("ab", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)
}

func TestHelpMentionsEveryVerb(t *testing.T) {
	help := Help()
	for op := OpNext; op <= OpClose; op++ {
		assert.Contains(t, help, op.String())
	}
}
