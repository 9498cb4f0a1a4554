// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/quickly-survey/catalog"
)

// DefaultSeparator is used when Options.Separator is empty.
const DefaultSeparator = ","

var (
	ErrEmptySeparator   = errors.New("separator must not be empty")
	ErrInvalidSeparator = errors.New("invalid separator")
)

// Options controls Format.
type Options struct {
	Separator string
	// SepLine prepends a "sep=<separator>" line understood by spreadsheet
	// applications.
	SepLine bool
}

// ToDelimitedText renders rows with a header line. The output is fully
// determined by its inputs.
func ToDelimitedText(cat *catalog.Catalog, rows []Row, sep string) (string, error) {
	if sep == "" {
		return "", ErrEmptySeparator
	}
	if strings.ContainsAny(sep, "\"\r\n") {
		return "", fmt.Errorf("%w %q", ErrInvalidSeparator, sep)
	}

	columns := Columns(cat)

	var b strings.Builder
	writeLine(&b, columns, sep)

	fields := make([]string, len(columns))
	for _, r := range rows {
		if len(r.Cells) != len(columns)-1 {
			return "", fmt.Errorf("respondent %s: %d cells for %d questions",
				r.RespondentID, len(r.Cells), len(columns)-1)
		}
		fields[0] = r.RespondentID
		for i, c := range r.Cells {
			fields[i+1] = c.String()
		}
		writeLine(&b, fields, sep)
	}

	return strings.TrimRight(b.String(), " \t\r\n"), nil
}

// Format is ToDelimitedText with the default separator and the optional
// sep= line.
func Format(cat *catalog.Catalog, rows []Row, opts Options) (string, error) {
	sep := opts.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	text, err := ToDelimitedText(cat, rows, sep)
	if err != nil {
		return "", err
	}
	if opts.SepLine {
		text = "sep=" + sep + "\r\n" + text
	}
	return text, nil
}

func writeLine(b *strings.Builder, fields []string, sep string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteString(sep)
		}
		if f == "" && i == len(fields)-1 && i > 0 && trimmable(sep) {
			// an empty last field after a blank separator would be trimmed away
			b.WriteString(`""`)
			continue
		}
		b.WriteString(quote(f, sep))
	}
	b.WriteString("\r\n")
}

// trimmable reports whether sep is made only of characters the final trim
// removes.
func trimmable(sep string) bool {
	return strings.Trim(sep, " \t") == ""
}

// quote applies RFC 4180 quoting. Fields ending in whitespace are quoted
// too so the final trim cannot change the last value.
func quote(field, sep string) string {
	needs := strings.Contains(field, sep) ||
		strings.ContainsAny(field, "\"\r\n") ||
		strings.TrimRight(field, " \t") != field
	if !needs {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
