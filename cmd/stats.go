package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/bisegni/lobcursor/pkg/cursor"
	"github.com/bisegni/lobcursor/pkg/lob"
	"github.com/bisegni/lobcursor/pkg/metadata"
	"github.com/bisegni/lobcursor/pkg/parser"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [file|JSON|-]",
	Short: "Show statistics about an input",
	Long: `Display statistics about an input including the row count, the declared
columns and, per column, the types of the cells and how many are null.

Examples:
  lobcursor stats data.csv
  lobcursor stats data.jsonl --columns id:int,doc:clob
  cat data.json | lobcursor stats`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

type columnStats struct {
	Column metadata.Column
	Types  map[string]int
	Nulls  int
}

type tableStats struct {
	Rows    int
	Columns []*columnStats
}

func runStats(cmd *cobra.Command, args []string) error {
	filename, err := inputName(args)
	if err != nil {
		return cmd.Help()
	}

	table, err := openTable(filename)
	if err != nil {
		return err
	}
	c, err := table.Cursor(nil)
	if err != nil {
		table.Source.Close()
		return err
	}
	defer c.Close()

	stats, err := gatherStats(c)
	if err != nil {
		return err
	}

	if filename == "-" {
		fmt.Printf("File: <stdin>\n")
	} else {
		fmt.Printf("File: %s\n", filename)
	}
	fmt.Printf("Format: %s\n", table.Format)
	fmt.Printf("Source: %s\n", table.Source.Kind())
	fmt.Printf("Total rows: %d\n", stats.Rows)

	if len(stats.Columns) > 0 {
		fmt.Printf("\nColumns:\n")
	}
	for i, col := range stats.Columns {
		fmt.Printf("  %d %s (%s): %d null\n", i+1, col.Column.Name, col.Column.Kind, col.Nulls)
		names := make([]string, 0, len(col.Types))
		for typ := range col.Types {
			names = append(names, typ)
		}
		sort.Strings(names)
		for _, typ := range names {
			count := col.Types[typ]
			fmt.Printf("    %s: %d (%.1f%%)\n", typ, count, float64(count)/float64(stats.Rows)*100)
		}
	}
	return nil
}

// gatherStats drains c and counts the raw cell types per column.
func gatherStats(c *cursor.Cursor) (*tableStats, error) {
	stats := &tableStats{}
	for _, col := range c.Columns() {
		stats.Columns = append(stats.Columns, &columnStats{Column: col, Types: make(map[string]int)})
	}

	for {
		ok, err := c.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		stats.Rows++
		for i, col := range stats.Columns {
			v, err := c.Value(i + 1)
			if err != nil {
				return nil, err
			}
			if c.WasNull() {
				col.Nulls++
				continue
			}
			col.Types[getTypeName(v)]++
		}
	}
	return stats, nil
}

func getTypeName(v interface{}) string {
	if v == nil {
		return "null"
	}

	switch v.(type) {
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, uint64:
		return "number"
	case decimal.Decimal:
		return "decimal"
	case string:
		return "string"
	case []byte:
		return "bytes"
	case time.Time:
		return "time"
	case *lob.Blob:
		return "blob"
	case *lob.Clob:
		return "clob"
	case *lob.SQLXML:
		return "sqlxml"
	case []interface{}:
		return "array"
	case map[string]interface{}, map[interface{}]interface{}, parser.Record:
		return "object"
	default:
		return "unknown"
	}
}
