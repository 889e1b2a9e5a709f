package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// input is a decoded byte stream together with whatever has to be closed
// once it is consumed.
type input struct {
	io.Reader
	file   *os.File
	inline bool
}

func (in *input) Close() error {
	if in.file == nil || in.file == os.Stdin {
		return nil
	}
	return in.file.Close()
}

// OpenInput opens name for reading.
// Special cases:
// - Empty string or "-" reads from stdin
// - Strings starting with '{' or '[' are treated as inline JSON
//
// Files ending in .lz4 are lz4 frames, files ending in .sz or .snappy are
// snappy framed streams. When encoding is set and is not UTF-8 the content is
// transcoded to UTF-8.
func OpenInput(name, encoding string) (io.ReadCloser, error) {
	in, err := openRaw(name)
	if err != nil {
		return nil, err
	}
	if err := in.decode(encoding); err != nil {
		in.Close()
		return nil, err
	}
	return in, nil
}

func openRaw(name string) (*input, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return &input{Reader: strings.NewReader(name), inline: true}, nil
	}
	if name == "" || name == "-" {
		return &input{Reader: os.Stdin, file: os.Stdin}, nil
	}

	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	in := &input{Reader: file, file: file}
	switch compression(name) {
	case "lz4":
		in.Reader = lz4.NewReader(file)
	case "snappy":
		in.Reader = snappy.NewReader(file)
	}
	return in, nil
}

func (in *input) decode(encoding string) error {
	if encoding == "" {
		return nil
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return fmt.Errorf("unknown encoding %q: %w", encoding, err)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return nil
	}
	in.Reader = transform.NewReader(in.Reader, enc.NewDecoder())
	return nil
}

// output is a destination file behind an optional compressor.
type output struct {
	io.Writer
	file *os.File
	comp io.Closer
}

func (out *output) Close() error {
	var err error
	if out.comp != nil {
		err = out.comp.Close()
	}
	if out.file == nil || out.file == os.Stdout {
		return err
	}
	if cerr := out.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// CreateOutput opens name for writing, "" or "-" meaning stdout. The same
// extensions OpenInput understands select an lz4 or snappy compressor.
func CreateOutput(name string) (io.WriteCloser, error) {
	if name == "" || name == "-" {
		return &output{Writer: os.Stdout, file: os.Stdout}, nil
	}
	file, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	out := &output{Writer: file, file: file}
	switch compression(name) {
	case "lz4":
		zw := lz4.NewWriter(file)
		out.Writer, out.comp = zw, zw
	case "snappy":
		zw := snappy.NewBufferedWriter(file)
		out.Writer, out.comp = zw, zw
	}
	return out, nil
}

// compression returns "lz4", "snappy" or "" from the file extension.
func compression(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".lz4"):
		return "lz4"
	case strings.HasSuffix(lower, ".sz"), strings.HasSuffix(lower, ".snappy"):
		return "snappy"
	}
	return ""
}

// baseName strips a compression extension.
func baseName(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range []string{".lz4", ".snappy", ".sz"} {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
