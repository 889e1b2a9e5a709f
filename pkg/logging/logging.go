// Package logging configures the logrus logger shared by the module.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the shared logger. Until Init is called it writes warnings and
// above to stderr.
var Logger = newLogger(logrus.WarnLevel, os.Stderr)

var (
	// logFile is the file opened by the last Init, closed when replaced.
	logFile *os.File
	// logOutput is the last Init output without the file.
	logOutput io.Writer = os.Stderr
)

// Config holds the logging settings.
type Config struct {
	Level  string
	File   string
	Output io.Writer
}

// Formatter prints "[time] [LEVL] message key=value ...".
type Formatter struct {
	TimestampFormat string
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	layout := f.TimestampFormat
	if layout == "" {
		layout = "15:04:05.000"
	}
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s", entry.Time.Format(layout), level, entry.Message)
	for _, key := range sortedKeys(entry.Data) {
		fmt.Fprintf(&b, " %s=%v", key, entry.Data[key])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// ParseLevel maps a level name to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	l, _ := lookupLevel(level)
	return l
}

func lookupLevel(level string) (logrus.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel, true
	case "debug":
		return logrus.DebugLevel, true
	case "", "info":
		return logrus.InfoLevel, true
	case "warn", "warning":
		return logrus.WarnLevel, true
	case "error":
		return logrus.ErrorLevel, true
	case "fatal":
		return logrus.FatalLevel, true
	default:
		return logrus.InfoLevel, false
	}
}

// Init replaces the shared logger according to cfg. When File is set the log
// is written there as well as to Output (stderr by default). The file of a
// previous Init is closed.
func Init(cfg Config) error {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	var f *os.File
	if cfg.File != "" {
		var err error
		if f, err = openLogFile(cfg.File); err != nil {
			return fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		out = io.MultiWriter(out, f)
	}
	level, known := lookupLevel(cfg.Level)
	Logger = newLogger(level, out)
	if err := closeFile(); err != nil {
		Warnf("failed to close previous log file: %v", err)
	}
	logFile = f
	logOutput = cfg.Output
	if logOutput == nil {
		logOutput = os.Stderr
	}
	if !known {
		Warnf("unknown log level %q, using %s", cfg.Level, level)
	}
	return nil
}

// Close closes the log file opened by Init, if any. The logger keeps writing
// to its other output.
func Close() error {
	if logFile == nil {
		return nil
	}
	Logger.SetOutput(logOutput)
	return closeFile()
}

func closeFile() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// WithFields returns an entry of the shared logger.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

// Debugf logs at debug level.
func Debugf(format string, args ...interface{}) {
	Logger.Debugf(format, args...)
}

// Infof logs at info level.
func Infof(format string, args ...interface{}) {
	Logger.Infof(format, args...)
}

// Warnf logs at warn level.
func Warnf(format string, args ...interface{}) {
	Logger.Warnf(format, args...)
}

func newLogger(level logrus.Level, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&Formatter{})
	l.SetLevel(level)
	l.SetOutput(out)
	return l
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func sortedKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	// insertion sort, entries carry a handful of fields
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
