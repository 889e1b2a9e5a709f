package cmd

import (
	"fmt"
	"os"

	"github.com/bisegni/lobcursor/pkg/config"
	"github.com/bisegni/lobcursor/pkg/cursor"
	"github.com/bisegni/lobcursor/pkg/logging"
	"github.com/bisegni/lobcursor/pkg/parser"
	"github.com/spf13/cobra"
)

var (
	ConfigPath      string
	Format          string
	Separator       string
	Header          bool
	AllowEmpty      bool
	Encoding        string
	Scrollable      bool
	Columns         []string
	Paths           []string
	RowTag          string
	LogLevel        string
	LogFile         string
	Pretty          bool
	InteractiveMode bool

	settings *config.Cfg
)

var rootCmd = &cobra.Command{
	Use:   "lobcursor [file|JSON|-]...",
	Short: "Row cursor over CSV, JSON, JSONL, MessagePack and XML data",
	Long: `lobcursor opens tabular data as a row cursor and reads cells as typed
values and large objects (BLOB, CLOB, SQLXML).
If no command is provided, it prints the rows of the specified input.

Supports:
  - File paths: lobcursor data.csv
  - Compressed files: lobcursor data.jsonl.lz4, lobcursor data.csv.sz
  - Stdin: cat data.json | lobcursor  (or use "-" as filename)
  - Inline JSON: lobcursor '[{"name":"Alice"}]'
  - Several files read one after the other: lobcursor jan.csv feb.csv

Examples:
  lobcursor data.csv --columns id:int,name:varchar:20
  lobcursor data.json --path user.name --path 'orders[0].total'
  lobcursor orders.xml --row-tag order --columns id:int,note:clob
  lobcursor -i --scroll data.csv
  lobcursor convert data.csv --to msgpack -o data.msgpack
  lobcursor lob find data.csv body 'needle'`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadSettings(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := inputNames(args)
		if err != nil {
			if InteractiveMode {
				return fmt.Errorf("interactive mode requires a file or stdin input")
			}
			return cmd.Help()
		}
		if InteractiveMode {
			if len(names) > 1 {
				return fmt.Errorf("interactive mode reads a single input")
			}
			return RunInteractive(names[0])
		}
		return RunRows(names, 0, -1)
	},
}

func Execute() error {
	defer logging.Close()
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ConfigPath, "config", "c", "", "ini configuration file")
	flags.StringVarP(&Format, "format", "f", "auto", "Input format (auto, csv, json, jsonl, msgpack, xml)")
	flags.StringVar(&Separator, "separator", ",", "CSV field separator")
	flags.BoolVar(&Header, "header", true, "First CSV line holds the column names")
	flags.BoolVar(&AllowEmpty, "allow-empty", false, "Accept CSV lines with missing fields")
	flags.StringVar(&Encoding, "encoding", "", "Input character set (e.g. iso-8859-1)")
	flags.BoolVar(&Scrollable, "scroll", false, "Load the input into a scrollable table")
	flags.StringSliceVar(&Columns, "columns", nil, "Column declarations name:type[:size[:scale]]")
	flags.StringArrayVar(&Paths, "path", nil, "JSONata expression per column (JSON inputs)")
	flags.StringVar(&RowTag, "row-tag", "", "Element holding one row (XML inputs, default \"row\")")
	flags.StringVar(&LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&LogFile, "log-file", "", "Also write the log to this file")
	flags.BoolVar(&Pretty, "pretty", false, "Pretty print output")
	rootCmd.Flags().BoolVarP(&InteractiveMode, "interactive", "i", false, "Interactive cursor shell")

	rootCmd.AddCommand(rowsCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(lobCmd)
}

// loadSettings reads the config file and lets explicitly set flags override it.
func loadSettings(cmd *cobra.Command) error {
	cfg, err := config.Load(ConfigPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = Format
	}
	if flags.Changed("separator") {
		cfg.Separator = Separator
	}
	if flags.Changed("header") {
		cfg.Header = Header
	}
	if flags.Changed("allow-empty") {
		cfg.AllowEmpty = AllowEmpty
	}
	if flags.Changed("encoding") {
		cfg.Encoding = Encoding
	}
	if flags.Changed("scroll") {
		cfg.Scrollable = Scrollable
	}
	if flags.Changed("columns") {
		cfg.Columns = Columns
	}
	if flags.Changed("path") {
		cfg.Paths = Paths
	}
	if flags.Changed("row-tag") {
		cfg.RowTag = RowTag
	}
	if LogLevel != "" {
		cfg.LogLevel = LogLevel
	}
	if LogFile != "" {
		cfg.LogFile = LogFile
	}
	if err := logging.Init(cfg.LogConfig()); err != nil {
		return err
	}
	settings = cfg
	return nil
}

// inputName picks the input from the arguments or stdin.
func inputName(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		return "-", nil
	}
	return "", fmt.Errorf("no input")
}

// inputNames is inputName for commands reading several inputs in sequence.
func inputNames(args []string) ([]string, error) {
	if len(args) > 1 {
		return args, nil
	}
	name, err := inputName(args)
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}

func openTable(filename string) (*parser.Table, error) {
	opts, err := settings.ParserOptions()
	if err != nil {
		return nil, err
	}
	return parser.Open(filename, opts)
}

// openChain reads names in sequence, logging each switch to the next input.
func openChain(names []string) (*parser.Table, error) {
	opts, err := settings.ParserOptions()
	if err != nil {
		return nil, err
	}
	return parser.OpenChain(names, opts, func(prev, next string) {
		if next != "" {
			logging.Infof("finished %s, reading %s", prev, next)
		}
	})
}

func openCursor(filename string) (*cursor.Cursor, error) {
	t, err := openTable(filename)
	if err != nil {
		return nil, err
	}
	return bindCursor(t)
}

func bindCursor(t *parser.Table) (*cursor.Cursor, error) {
	c, err := t.Cursor(nil)
	if err != nil {
		t.Source.Close()
		return nil, err
	}
	return c, nil
}
