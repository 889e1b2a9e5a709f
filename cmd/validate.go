package cmd

import (
	"fmt"

	"github.com/bisegni/lobcursor/pkg/cursor"
	"github.com/spf13/cobra"
)

var validateMaxErrors int

var validateCmd = &cobra.Command{
	Use:   "validate [file|JSON|-]",
	Short: "Check that every cell converts to its declared column type",
	Long: `Read every row and convert each cell to the type declared for its column.
Syntax errors in the input and cells that cannot be converted are reported.

Examples:
  lobcursor validate data.csv --columns id:int,price:decimal:8:2,at:timestamp
  cat data.jsonl | lobcursor validate --columns id:bigint`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().IntVar(&validateMaxErrors, "max-errors", 10, "Stop after this many bad cells")
	rootCmd.AddCommand(validateCmd)
}

// cellError is a cell that failed to convert.
type cellError struct {
	Row    int
	Column string
	Err    error
}

func (e cellError) String() string {
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func runValidate(cmd *cobra.Command, args []string) error {
	filename, err := inputName(args)
	if err != nil {
		return cmd.Help()
	}

	c, err := openCursor(filename)
	if err != nil {
		return err
	}
	defer c.Close()

	rows, bad, err := validateRows(c, validateMaxErrors)
	if err != nil {
		fmt.Printf("Validation failed: %v\n", err)
		return err
	}
	for _, e := range bad {
		fmt.Println(e)
	}
	if len(bad) > 0 {
		return fmt.Errorf("%d invalid cell(s)", len(bad))
	}
	fmt.Printf("Valid input with %d row(s) and %d column(s)\n", rows, c.ColumnCount())
	return nil
}

// validateRows converts every cell of c and collects up to max conversion
// failures. Input errors abort the scan.
func validateRows(c *cursor.Cursor, max int) (int, []cellError, error) {
	var bad []cellError
	rows := 0
	for {
		ok, err := c.Next()
		if err != nil {
			return rows, bad, err
		}
		if !ok {
			return rows, bad, nil
		}
		rows++
		for i, col := range c.Columns() {
			if _, err := c.Typed(i + 1); err != nil {
				bad = append(bad, cellError{Row: c.Row(), Column: col.Name, Err: err})
				if max > 0 && len(bad) >= max {
					return rows, bad, nil
				}
			}
		}
	}
}
