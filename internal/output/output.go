// Package output writes extraction results as indented JSON or YAML.
package output

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case JSON, YAML:
		return f, nil
	default:
		return "", errors.Errorf("unknown output format %q", s)
	}
}

// Writer encodes values in one format.
type Writer struct {
	format Format
	indent int
}

// New creates a Writer. An indent below 1 writes compact JSON and two-space YAML.
func New(format Format, indent int) *Writer {
	return &Writer{format: format, indent: indent}
}

// Write encodes v to out followed by a newline.
func (w *Writer) Write(out io.Writer, v any) error {
	data, err := w.jsonBytes(v)
	if err != nil {
		return err
	}

	if w.format == YAML {
		return w.writeYAML(out, data)
	}

	data = append(data, '\n')
	if _, err := out.Write(data); err != nil {
		return errors.Errorf("failed to write output: %w", err)
	}

	return nil
}

func (w *Writer) jsonBytes(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indent > 0 && w.format == JSON {
		enc.SetIndent("", strings.Repeat(" ", w.indent))
	}

	if err := enc.Encode(v); err != nil {
		return nil, errors.Errorf("failed to encode output: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// writeYAML re-encodes the JSON document so that field names and order match
// the JSON output exactly.
func (w *Writer) writeYAML(out io.Writer, data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Errorf("failed to convert output: %w", err)
	}
	clearStyle(&doc)

	indent := w.indent
	if indent < 1 {
		indent = 2
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(indent)
	if err := enc.Encode(&doc); err != nil {
		return errors.Errorf("failed to write output: %w", err)
	}

	return enc.Close()
}

// clearStyle drops the flow and quoting styles JSON syntax implies.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
