package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"licm/internal/ir"
)

const binaryExt = ".irb"

type emitFormat string

const (
	emitText    emitFormat = "text"
	emitMsgpack emitFormat = "msgpack"
	emitNone    emitFormat = "none"
)

func readEmitFormat(value string) (emitFormat, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "text":
		return emitText, nil
	case "msgpack", "binary":
		return emitMsgpack, nil
	case "none":
		return emitNone, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected text|msgpack|none)", value)
	}
}

// isBinaryIR reports whether data holds the msgpack form: a top-level
// map header, which no text module starts with.
func isBinaryIR(name string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(name), binaryExt) {
		return true
	}
	if len(data) == 0 {
		return false
	}
	b := data[0]
	return b&0xf0 == 0x80 || b == 0xde || b == 0xdf
}

// readModule loads a module from path, or from stdin when path is "-".
func readModule(path string, stdin io.Reader) (*ir.Module, error) {
	var (
		data []byte
		err  error
		name = path
	)
	if path == "-" {
		name = "<stdin>"
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if isBinaryIR(path, data) {
		m, err := ir.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return m, nil
	}
	return ir.Parse(name, string(data))
}

// writeModule writes m to path in the given format; "" or "-" means out.
func writeModule(path string, out io.Writer, m *ir.Module, format emitFormat) (err error) {
	if format == emitNone {
		return nil
	}
	w := out
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close %s: %w", path, cerr)
			}
		}()
		w = f
	}
	switch format {
	case emitMsgpack:
		return ir.Encode(w, m)
	default:
		return ir.DumpModule(w, m)
	}
}

// formatForOutput picks msgpack for .irb outputs unless the user asked
// for a format explicitly.
func formatForOutput(path string, format emitFormat, explicit bool) emitFormat {
	if !explicit && strings.EqualFold(filepath.Ext(path), binaryExt) {
		return emitMsgpack
	}
	return format
}
