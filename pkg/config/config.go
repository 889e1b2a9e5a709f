// Package config loads lobcursor settings from an ini file.
//
//	[log]
//	level = info
//	file  =
//
//	[content]
//	format      = auto
//	separator   = ,
//	header      = true
//	allow_empty = false
//	encoding    = utf-8
//	scrollable  = false
//	columns     = id:int, name:varchar:20
//	paths       =
package config

import (
	"unicode/utf8"

	"github.com/bisegni/lobcursor/pkg/logging"
	"github.com/bisegni/lobcursor/pkg/metadata"
	"github.com/bisegni/lobcursor/pkg/parser"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// Cfg holds the settings of one run.
type Cfg struct {
	Raw *ini.File

	// log
	LogLevel string
	LogFile  string

	// content
	Format     string
	Separator  string
	Header     bool
	AllowEmpty bool
	Encoding   string
	Scrollable bool
	Columns    []string
	Paths      []string
	RowTag     string
}

// NewCfg returns the defaults.
func NewCfg() *Cfg {
	return &Cfg{
		Raw:       ini.Empty(),
		LogLevel:  "warn",
		Format:    "auto",
		Separator: ",",
		Header:    true,
	}
}

// Load reads path over the defaults. An empty path leaves the defaults
// untouched.
func Load(path string) (*Cfg, error) {
	cfg := NewCfg()
	if path == "" {
		return cfg, nil
	}
	raw, err := ini.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config %s", path)
	}
	cfg.Raw = raw
	cfg.parseLogCfg(raw.Section("log"))
	cfg.parseContentCfg(raw.Section("content"))
	return cfg, nil
}

func (cfg *Cfg) parseLogCfg(section *ini.Section) {
	cfg.LogLevel = section.Key("level").MustString(cfg.LogLevel)
	cfg.LogFile = section.Key("file").MustString(cfg.LogFile)
}

func (cfg *Cfg) parseContentCfg(section *ini.Section) {
	cfg.Format = section.Key("format").MustString(cfg.Format)
	cfg.Separator = section.Key("separator").MustString(cfg.Separator)
	cfg.Header = section.Key("header").MustBool(cfg.Header)
	cfg.AllowEmpty = section.Key("allow_empty").MustBool(cfg.AllowEmpty)
	cfg.Encoding = section.Key("encoding").MustString(cfg.Encoding)
	cfg.Scrollable = section.Key("scrollable").MustBool(cfg.Scrollable)
	cfg.RowTag = section.Key("row_tag").MustString(cfg.RowTag)
	if section.HasKey("columns") {
		cfg.Columns = section.Key("columns").Strings(",")
	}
	if section.HasKey("paths") {
		cfg.Paths = section.Key("paths").Strings(",")
	}
}

// LogConfig returns the logging settings.
func (cfg *Cfg) LogConfig() logging.Config {
	return logging.Config{Level: cfg.LogLevel, File: cfg.LogFile}
}

// ParserOptions converts the content settings to parser options.
func (cfg *Cfg) ParserOptions() (parser.Options, error) {
	format, err := parser.ParseFormat(cfg.Format)
	if err != nil {
		return parser.Options{}, err
	}
	opts := parser.Options{
		Format:            format,
		Header:            cfg.Header,
		AllowEmptyColumns: cfg.AllowEmpty,
		Encoding:          cfg.Encoding,
		Scrollable:        cfg.Scrollable,
		Paths:             cfg.Paths,
		RowTag:            cfg.RowTag,
	}
	sep := cfg.Separator
	if sep == `\t` || sep == "tab" {
		sep = "\t"
	}
	if sep != "" {
		r, size := utf8.DecodeRuneInString(sep)
		if size != len(sep) {
			return parser.Options{}, errors.Errorf("separator must be a single character, got %q", cfg.Separator)
		}
		opts.Separator = r
	}
	if len(cfg.Columns) > 0 {
		cols, err := metadata.ParseColumns(cfg.Columns...)
		if err != nil {
			return parser.Options{}, err
		}
		opts.Columns = cols
	}
	return opts, nil
}
