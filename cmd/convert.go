package cmd

import (
	"fmt"

	"github.com/bisegni/lobcursor/pkg/logging"
	"github.com/bisegni/lobcursor/pkg/parser"
	"github.com/spf13/cobra"
)

var (
	convertTo     string
	convertOutput string
)

var convertCmd = &cobra.Command{
	Use:   "convert [file|JSON|-]",
	Short: "Convert an input to JSON, JSONL or MessagePack",
	Long: `Read an input through a cursor and write its rows in another format.
Cells are converted to the declared column types first. An output name
ending in .lz4, .sz or .snappy is compressed.

Examples:
  lobcursor convert data.csv --to jsonl
  lobcursor convert data.jsonl --to json --pretty
  lobcursor convert data.csv --to msgpack -o data.msgpack.lz4`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "", "Target format (json, jsonl or msgpack)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "-", "Output file")
	convertCmd.MarkFlagRequired("to")
}

func runConvert(cmd *cobra.Command, args []string) error {
	filename, err := inputName(args)
	if err != nil {
		return cmd.Help()
	}
	format, err := parser.ParseFormat(convertTo)
	if err != nil {
		return err
	}
	if format == parser.FormatCSV || format == parser.FormatAuto {
		return fmt.Errorf("cannot convert to %s", convertTo)
	}

	c, err := openCursor(filename)
	if err != nil {
		return err
	}
	defer c.Close()

	out, err := parser.CreateOutput(convertOutput)
	if err != nil {
		return err
	}
	w, err := parser.NewWriter(out, format, Pretty)
	if err != nil {
		out.Close()
		return err
	}
	n, err := parser.WriteRows(w, c)
	if err != nil {
		out.Close()
		return err
	}
	logging.Infof("converted %d rows to %s", n, format)
	return out.Close()
}
