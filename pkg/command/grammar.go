package command

// AST for Participle Parser

type ASTCommand struct {
	Next        bool          `parser:"  @'NEXT'"`
	Previous    bool          `parser:"| @('PREVIOUS' | 'PREV')"`
	First       bool          `parser:"| @'FIRST'"`
	Last        bool          `parser:"| @'LAST'"`
	BeforeFirst bool          `parser:"| @('BEFORE' 'FIRST')"`
	Absolute    *int          `parser:"| 'ABSOLUTE' @Number"`
	Relative    *int          `parser:"| 'RELATIVE' @Number"`
	Get         *ASTColumnRef `parser:"| 'GET' @@"`
	Length      *ASTColumnRef `parser:"| 'LENGTH' @@"`
	Find        *ASTFind      `parser:"| 'FIND' @@"`
	Substr      *ASTSubstr    `parser:"| 'SUBSTR' @@"`
	Row         bool          `parser:"| @'ROW'"`
	Columns     bool          `parser:"| @'COLUMNS'"`
	Close       bool          `parser:"| @'CLOSE'"`
}

// ASTColumnRef is a 1-based column number or a column label.
type ASTColumnRef struct {
	Index *int    `parser:"  @Number"`
	Label *string `parser:"| (@Ident | @String)"`
}

type ASTFind struct {
	Pattern string        `parser:"@String 'IN'"`
	Column  *ASTColumnRef `parser:"@@"`
	From    *int          `parser:"('FROM' @Number)?"`
}

type ASTSubstr struct {
	Column *ASTColumnRef `parser:"@@"`
	Pos    int           `parser:"@Number"`
	Length int           `parser:"@Number"`
}

// ToCommand flattens the AST.
func (a *ASTCommand) ToCommand() *Command {
	switch {
	case a.Next:
		return &Command{Op: OpNext}
	case a.Previous:
		return &Command{Op: OpPrevious}
	case a.First:
		return &Command{Op: OpFirst}
	case a.Last:
		return &Command{Op: OpLast}
	case a.BeforeFirst:
		return &Command{Op: OpBeforeFirst}
	case a.Absolute != nil:
		return &Command{Op: OpAbsolute, N: *a.Absolute}
	case a.Relative != nil:
		return &Command{Op: OpRelative, N: *a.Relative}
	case a.Get != nil:
		return &Command{Op: OpGet, Column: a.Get.ToColumn()}
	case a.Length != nil:
		return &Command{Op: OpLength, Column: a.Length.ToColumn()}
	case a.Find != nil:
		cmd := &Command{Op: OpFind, Column: a.Find.Column.ToColumn(), Pattern: a.Find.Pattern, N: 1}
		if a.Find.From != nil {
			cmd.N = *a.Find.From
		}
		return cmd
	case a.Substr != nil:
		return &Command{Op: OpSubstr, Column: a.Substr.Column.ToColumn(), N: a.Substr.Pos, Length: a.Substr.Length}
	case a.Row:
		return &Command{Op: OpRow}
	case a.Columns:
		return &Command{Op: OpColumns}
	case a.Close:
		return &Command{Op: OpClose}
	}
	return nil
}

func (r *ASTColumnRef) ToColumn() Column {
	if r.Index != nil {
		return Column{Index: *r.Index}
	}
	if r.Label != nil {
		return Column{Label: *r.Label}
	}
	return Column{}
}
