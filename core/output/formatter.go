// Package output provides output formatting for CLI results.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"tolltariff/core/types"
	"tolltariff/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatText is a human-readable table
	FormatText Format = "text"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// ParseFormat accepts text (or its older name cli) and json
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "cli":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", errors.Newf(errors.TypeInput, "unsupported output format: %s (use text or json)", s)
	}
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes v; text formatters call table instead
	Render(w io.Writer, v interface{}, table func(t *Table)) error
}

// New returns the formatter for f
func New(f Format) Formatter {
	if f == FormatJSON {
		return jsonFormatter{}
	}
	return textFormatter{}
}

type jsonFormatter struct{}

func (jsonFormatter) Format() Format { return FormatJSON }

func (jsonFormatter) Render(w io.Writer, v interface{}, _ func(t *Table)) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type textFormatter struct{}

func (textFormatter) Format() Format { return FormatText }

func (textFormatter) Render(w io.Writer, _ interface{}, table func(t *Table)) error {
	t := &Table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	table(t)
	return t.tw.Flush()
}

// Table writes aligned text columns
type Table struct {
	tw *tabwriter.Writer
}

// Row writes one row; empty and nil values print as "-"
func (t *Table) Row(cols ...interface{}) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = Cell(c)
	}
	fmt.Fprintln(t.tw, strings.Join(parts, "\t"))
}

// Line writes a free-form line
func (t *Table) Line(format string, args ...interface{}) {
	fmt.Fprintf(t.tw, format+"\n", args...)
}

// Cell renders a single value
func Cell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case *string:
		if x == nil || *x == "" {
			return "-"
		}
		return *x
	case string:
		if x == "" {
			return "-"
		}
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Countries joins ISO codes with commas
func Countries(countries []types.Country) string {
	if len(countries) == 0 {
		return "-"
	}
	isos := make([]string, len(countries))
	for i, c := range countries {
		isos[i] = c.ISO
	}
	return strings.Join(isos, ",")
}
