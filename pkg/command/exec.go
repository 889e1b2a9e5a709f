package command

import (
	"fmt"
	"strings"

	"github.com/bisegni/lobcursor/pkg/cursor"
	"github.com/bisegni/lobcursor/pkg/lob"
	"github.com/bisegni/lobcursor/pkg/parser"
)

// Run executes cmd against c and renders the outcome as text.
func Run(c *cursor.Cursor, cmd *Command) (string, error) {
	switch cmd.Op {
	case OpNext:
		ok, err := c.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			return "after last row", nil
		}
		return position(c), nil
	case OpPrevious:
		return move(c, c.Previous)
	case OpFirst:
		return move(c, c.First)
	case OpLast:
		return move(c, c.Last)
	case OpBeforeFirst:
		return move(c, c.BeforeFirst)
	case OpAbsolute:
		return move(c, func() error { return c.Absolute(cmd.N) })
	case OpRelative:
		return move(c, func() error { return c.Relative(cmd.N) })
	case OpGet:
		return get(c, cmd.Column)
	case OpLength:
		return length(c, cmd.Column)
	case OpFind:
		return find(c, cmd)
	case OpSubstr:
		return substr(c, cmd)
	case OpRow:
		row, err := parser.RowObject(c)
		if err != nil {
			return "", err
		}
		return row.String(), nil
	case OpColumns:
		return columns(c), nil
	case OpClose:
		return "closed", c.Close()
	}
	return "", fmt.Errorf("unsupported command %s", cmd.Op)
}

// Exec parses and runs one line.
func Exec(c *cursor.Cursor, line string) (string, error) {
	cmd, err := Parse(line)
	if err != nil {
		return "", err
	}
	return Run(c, cmd)
}

func move(c *cursor.Cursor, fn func() error) (string, error) {
	if err := fn(); err != nil {
		return "", err
	}
	return position(c), nil
}

func position(c *cursor.Cursor) string {
	if c.IsBeforeFirst() {
		return "before first row"
	}
	return fmt.Sprintf("row %d", c.Row())
}

func resolve(c *cursor.Cursor, col Column) (int, error) {
	if col.Index != 0 {
		return col.Index, nil
	}
	return c.FindColumn(col.Label)
}

func get(c *cursor.Cursor, col Column) (string, error) {
	i, err := resolve(c, col)
	if err != nil {
		return "", err
	}
	v, err := c.Typed(i)
	if err != nil {
		return "", err
	}
	if c.WasNull() {
		return "NULL", nil
	}
	return fmt.Sprint(parser.Plain(v)), nil
}

func length(c *cursor.Cursor, col Column) (string, error) {
	i, err := resolve(c, col)
	if err != nil {
		return "", err
	}
	v, err := c.Typed(i)
	if err != nil {
		return "", err
	}
	if c.WasNull() {
		return "NULL", nil
	}
	switch x := v.(type) {
	case *lob.Blob:
		return fmt.Sprint(x.Length()), nil
	case *lob.SQLXML:
		return fmt.Sprint(x.Length()), nil
	}
	clob, err := c.Clob(i)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(clob.Length()), nil
}

func find(c *cursor.Cursor, cmd *Command) (string, error) {
	i, err := resolve(c, cmd.Column)
	if err != nil {
		return "", err
	}
	v, err := c.Typed(i)
	if err != nil {
		return "", err
	}
	if c.WasNull() {
		return "NULL", nil
	}
	var pos int64
	if blob, ok := v.(*lob.Blob); ok {
		pos, err = blob.Position([]byte(cmd.Pattern), int64(cmd.N))
	} else {
		var clob *lob.Clob
		if clob, err = c.Clob(i); err != nil {
			return "", err
		}
		pos, err = clob.Position(cmd.Pattern, int64(cmd.N))
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprint(pos), nil
}

func substr(c *cursor.Cursor, cmd *Command) (string, error) {
	i, err := resolve(c, cmd.Column)
	if err != nil {
		return "", err
	}
	clob, err := c.Clob(i)
	if err != nil {
		return "", err
	}
	if clob == nil {
		return "NULL", nil
	}
	return clob.SubString(int64(cmd.N), cmd.Length)
}

func columns(c *cursor.Cursor) string {
	var b strings.Builder
	for i, col := range c.Columns() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d %s %s", i+1, col.Name, col.Kind)
		if col.DisplaySize > 0 {
			fmt.Fprintf(&b, "(%d", col.DisplaySize)
			if col.Scale > 0 {
				fmt.Fprintf(&b, ",%d", col.Scale)
			}
			b.WriteByte(')')
		}
	}
	return b.String()
}
