package diagnostic

import (
	"fmt"
	"log/slog"
	"strings"

	"typeschema/internal/common"
)

// Codes of the diagnostics produced by extraction.
const (
	CodeSubmoduleSkipped = "submodule_skipped"
	CodeSubmoduleEmpty   = "submodule_empty"
	CodeVersionUnknown   = "version_unknown"
	CodeTypeErrors       = "type_errors"
)

// Diagnostics holds all diagnostic information from one extraction.
type Diagnostics struct {
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Module is the qualified package name this relates to (if any).
	Module string
	// Symbol is the function or class this relates to (if any).
	Symbol string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return common.UnknownStr
	}
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, module, symbol string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Module:   module,
		Symbol:   symbol,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, module, symbol string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		Module:   module,
		Symbol:   symbol,
	})
}

// Len is the number of diagnostics of any severity.
func (d *Diagnostics) Len() int {
	return len(d.Warnings) + len(d.Infos)
}

// ByCode returns the diagnostics carrying code, warnings first.
func (d *Diagnostics) ByCode(code string) []Diagnostic {
	var out []Diagnostic
	for _, list := range [][]Diagnostic{d.Warnings, d.Infos} {
		for _, diag := range list {
			if diag.Code == code {
				out = append(out, diag)
			}
		}
	}

	return out
}

// Level maps the severity to a log level. Infos are only logged verbosely.
func (d Diagnostic) Level() slog.Level {
	if d.Severity == SeverityWarning {
		return slog.LevelWarn
	}

	return slog.LevelDebug
}

// Attrs returns the structured logging attributes of the diagnostic.
func (d Diagnostic) Attrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("code", d.Code)}
	if d.Module != "" {
		attrs = append(attrs, slog.String("module", d.Module))
	}

	if d.Symbol != "" {
		attrs = append(attrs, slog.String("symbol", d.Symbol))
	}

	return attrs
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Module != "" {
		prefix = append(prefix, "["+d.Module+"]")
	}

	if d.Symbol != "" {
		prefix = append(prefix, d.Symbol)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
