package content

// Null is the empty-result placeholder. Every positioning request succeeds
// and no row ever carries data.
type Null struct{}

// NewNull returns the empty source.
func NewNull() *Null {
	return &Null{}
}

func (*Null) Kind() Kind                          { return KindNull }
func (*Null) Streaming() bool                     { return false }
func (*Null) RowCount() int                       { return 0 }
func (*Null) CurrentRow() int                     { return 0 }
func (*Null) SetCurrentRow(row int) (bool, error) { return true, nil }
func (*Null) Row(row int) Row                     { return nil }
func (*Null) Close() error                        { return nil }
func (*Null) sealed()                             {}
