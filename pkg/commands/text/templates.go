// Package text provides text formatting utilities for CLI commands.
package text

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Indentation is the standard indentation for CLI help text.
const Indentation = `  `

// LongDesc normalizes a command's long description by trimming surrounding whitespace and the
// common indentation of its lines.
func LongDesc(s string) string {
	if len(s) == 0 {
		return s
	}

	return normalizer{s}.trim().dedent().string
}

// Examples normalizes a command's examples so every line carries the standard indentation.
func Examples(s string) string {
	if len(s) == 0 {
		return s
	}

	return normalizer{s}.trim().indent().string
}

// Table renders rows under header as a bordered table.
func Table(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorders(tablewriter.Border{
		Left:   true,
		Right:  true,
		Top:    true,
		Bottom: true,
	})
	table.AppendBulk(rows)
	table.Render()
}

type normalizer struct {
	string
}

func (s normalizer) trim() normalizer {
	s.string = strings.TrimSpace(s.string)

	return s
}

func (s normalizer) dedent() normalizer {
	lines := strings.Split(s.string, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s.string = strings.Join(lines, "\n")

	return s
}

func (s normalizer) indent() normalizer {
	indentedLines := make([]string, 0, strings.Count(s.string, "\n")+1)
	for line := range strings.SplitSeq(s.string, "\n") {
		indentedLines = append(indentedLines, Indentation+strings.TrimSpace(line))
	}
	s.string = strings.Join(indentedLines, "\n")

	return s
}
