package cmd

import (
	"os"

	"github.com/bisegni/lobcursor/pkg/cursor"
	"github.com/bisegni/lobcursor/pkg/logging"
	"github.com/bisegni/lobcursor/pkg/parser"
	"github.com/spf13/cobra"
)

var (
	rowsFrom  int
	rowsLimit int
)

var rowsCmd = &cobra.Command{
	Use:   "rows [file|JSON|-]...",
	Short: "Print the rows of an input as JSON Lines",
	Long: `Print the rows of an input, one JSON object per line, with cells
converted to the declared column types. Several inputs are read one after
the other as a single sequence of rows.

Examples:
  lobcursor rows data.csv --columns id:int,price:decimal:8:2
  lobcursor rows data.csv --scroll --from 10 --limit 5
  lobcursor rows jan.csv feb.csv mar.csv --limit 100
  cat data.jsonl | lobcursor rows`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := inputNames(args)
		if err != nil {
			return cmd.Help()
		}
		return RunRows(names, rowsFrom, rowsLimit)
	},
}

func init() {
	rowsCmd.Flags().IntVar(&rowsFrom, "from", 0, "First row to print (needs --scroll)")
	rowsCmd.Flags().IntVarP(&rowsLimit, "limit", "n", -1, "Maximum number of rows to print")
}

// RunRows prints up to limit rows starting at row from. A from of 0 starts at
// the first row without scrolling; a negative limit prints every row.
func RunRows(names []string, from, limit int) error {
	var (
		c   *cursor.Cursor
		err error
	)
	if len(names) == 1 {
		c, err = openCursor(names[0])
	} else {
		var t *parser.Table
		if t, err = openChain(names); err == nil {
			c, err = bindCursor(t)
		}
	}
	if err != nil {
		return err
	}
	defer c.Close()

	format := parser.FormatJSONL
	if Pretty {
		format = parser.FormatJSON
	}
	w, err := parser.NewWriter(os.Stdout, format, Pretty)
	if err != nil {
		return err
	}

	printed := 0
	if from > 0 {
		// position just before from so the loop below lands on it
		if from == 1 {
			err = c.BeforeFirst()
		} else {
			err = c.Absolute(from - 1)
		}
		if err != nil {
			return err
		}
	}
	for limit < 0 || printed < limit {
		ok, err := c.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		row, err := parser.RowObject(c)
		if err != nil {
			return err
		}
		if err := w.Write(row); err != nil {
			return err
		}
		printed++
	}
	logging.Debugf("printed %d rows from %s", printed, c.Name())
	return w.Close()
}
