package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bisegni/lobcursor/pkg/convert"
	"github.com/bisegni/lobcursor/pkg/parser"
	"github.com/bisegni/lobcursor/pkg/sqlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lobcursor.ini")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)

	opts, err := cfg.ParserOptions()
	require.NoError(t, err)
	assert.Equal(t, parser.FormatAuto, opts.Format)
	assert.Equal(t, ',', opts.Separator)
	assert.True(t, opts.Header)
	assert.Empty(t, opts.Columns)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[log]
level = debug
file = /tmp/lobcursor.log

[content]
format = csv
separator = \t
header = false
allow_empty = true
encoding = windows-1252
scrollable = true
columns = id:int, name:varchar:20
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogConfig().Level)
	assert.Equal(t, "/tmp/lobcursor.log", cfg.LogConfig().File)

	opts, err := cfg.ParserOptions()
	require.NoError(t, err)
	assert.Equal(t, parser.FormatCSV, opts.Format)
	assert.Equal(t, '\t', opts.Separator)
	assert.False(t, opts.Header)
	assert.True(t, opts.AllowEmptyColumns)
	assert.True(t, opts.Scrollable)
	assert.Equal(t, "windows-1252", opts.Encoding)
	require.Len(t, opts.Columns, 2)
	assert.Equal(t, convert.Int64, opts.Columns[0].Kind)
	assert.Equal(t, 20, opts.Columns[1].DisplaySize)
}

func TestBadValues(t *testing.T) {
	cfg := NewCfg()
	cfg.Separator = ";;"
	_, err := cfg.ParserOptions()
	require.Error(t, err)

	cfg = NewCfg()
	cfg.Format = "xml"
	_, err = cfg.ParserOptions()
	require.ErrorIs(t, err, parser.ErrUnknownFormat)

	cfg = NewCfg()
	cfg.Columns = []string{"a:nope"}
	_, err = cfg.ParserOptions()
	require.ErrorIs(t, err, sqlerr.ErrInvalidArgument)

	_, err = Load(filepath.Join(t.TempDir(), "missing.ini"))
	require.Error(t, err)
}

func TestLoadXMLRowTag(t *testing.T) {
	path := writeConfig(t, `
[content]
format = xml
row_tag = order
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	opts, err := cfg.ParserOptions()
	require.NoError(t, err)
	assert.Equal(t, parser.FormatXML, opts.Format)
	assert.Equal(t, "order", opts.RowTag)
}
