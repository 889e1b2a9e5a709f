// Package command parses and runs the cursor navigation commands of the
// interactive shell.
package command

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Op is a command verb.
type Op int

const (
	OpNext Op = iota
	OpPrevious
	OpFirst
	OpLast
	OpBeforeFirst
	OpAbsolute
	OpRelative
	OpGet
	OpLength
	OpFind
	OpSubstr
	OpRow
	OpColumns
	OpClose
)

var opNames = [...]string{
	OpNext:        "NEXT",
	OpPrevious:    "PREVIOUS",
	OpFirst:       "FIRST",
	OpLast:        "LAST",
	OpBeforeFirst: "BEFORE FIRST",
	OpAbsolute:    "ABSOLUTE",
	OpRelative:    "RELATIVE",
	OpGet:         "GET",
	OpLength:      "LENGTH",
	OpFind:        "FIND",
	OpSubstr:      "SUBSTR",
	OpRow:         "ROW",
	OpColumns:     "COLUMNS",
	OpClose:       "CLOSE",
}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Column references a column by number or, when Index is 0, by label.
type Column struct {
	Index int
	Label string
}

func (c Column) String() string {
	if c.Index != 0 {
		return fmt.Sprint(c.Index)
	}
	return c.Label
}

// Command is a parsed shell command. N is the row or delta of ABSOLUTE and
// RELATIVE, the start of FIND and the position of SUBSTR.
type Command struct {
	Op      Op
	N       int
	Length  int
	Column  Column
	Pattern string
}

var (
	commandLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Keyword", Pattern: `(?i)\b(NEXT|PREVIOUS|PREV|FIRST|LAST|BEFORE|ABSOLUTE|RELATIVE|GET|LENGTH|FIND|IN|FROM|SUBSTR|ROW|COLUMNS|CLOSE)\b`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Number", Pattern: `[-+]?\d+`},
		{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	commandParser = participle.MustBuild[ASTCommand](
		participle.Lexer(commandLexer),
		participle.Unquote("String"),
		participle.CaseInsensitive("Keyword"),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
)

// Parse parses one command line.
func Parse(input string) (*Command, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty command")
	}
	ast, err := commandParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	cmd := ast.ToCommand()
	if cmd == nil {
		return nil, fmt.Errorf("parse error: unknown command %q", input)
	}
	return cmd, nil
}

// Help lists the accepted commands.
func Help() string {
	return strings.Join([]string{
		"NEXT | PREVIOUS | FIRST | LAST | BEFORE FIRST",
		"ABSOLUTE <row> | RELATIVE <delta>",
		"GET <column> | ROW | COLUMNS",
		"LENGTH <column> | SUBSTR <column> <pos> <len>",
		"FIND '<pattern>' IN <column> [FROM <pos>]",
		"CLOSE",
	}, "\n")
}
