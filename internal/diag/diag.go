// Package diag renders document diagnostics for a terminal.
package diag

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/kingrea/wdl/internal/document"
)

// Renderer formats diagnostics in a labelled, source-annotated layout:
//
//	warning[SnakeCase]: task name `Align` is not snake_case
//	  ┌─ align.wdl:3:6
//	  │
//	3 │ task Align {
//	  │      ^^^^^
//	  = fix: rename the task to `align`
type Renderer struct {
	severity map[document.Severity]lipgloss.Style
	gutter   lipgloss.Style
	bold     lipgloss.Style
}

// NewRenderer returns a renderer for w. Colour escapes are written only when
// color is set.
func NewRenderer(w io.Writer, color bool) *Renderer {
	lr := lipgloss.NewRenderer(w)
	if color {
		lr.SetColorProfile(termenv.ANSI)
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		severity: map[document.Severity]lipgloss.Style{
			document.SeverityError:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
			document.SeverityWarning: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
			document.SeverityNote:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		},
		gutter: lr.NewStyle().Foreground(lipgloss.Color("12")),
		bold:   lr.NewStyle().Bold(true),
	}
}

// Error formats a fatal command error.
func (r *Renderer) Error(msg string) string {
	return r.severity[document.SeverityError].Render("error") + ": " + msg
}

// Render formats d against the source text it was reported in.
func (r *Renderer) Render(path, source string, d document.Diagnostic) string {
	var b strings.Builder
	label := d.Severity.String()
	if d.Rule != "" {
		label += "[" + d.Rule + "]"
	}
	b.WriteString(r.severity[d.Severity].Render(label))
	b.WriteString(r.bold.Render(": " + d.Message))
	b.WriteString("\n")

	lines := strings.Split(source, "\n")
	line := d.Span.Line
	width := len(strconv.Itoa(line))
	pad := strings.Repeat(" ", width)
	if line < 1 || line > len(lines) {
		fmt.Fprintf(&b, "%s %s %s\n", pad, r.gutter.Render("┌─"), path)
	} else {
		column := max(d.Span.Column, 1)
		fmt.Fprintf(&b, "%s %s %s:%d:%d\n", pad, r.gutter.Render("┌─"), path, line, column)
		fmt.Fprintf(&b, "%s %s\n", pad, r.gutter.Render("│"))
		text := strings.TrimRight(lines[line-1], "\r")
		fmt.Fprintf(&b, "%s %s %s\n", r.gutter.Render(strconv.Itoa(line)), r.gutter.Render("│"), text)
		carets := strings.Repeat(" ", column-1) + strings.Repeat("^", max(d.Span.Length, 1))
		fmt.Fprintf(&b, "%s %s %s\n", pad, r.gutter.Render("│"), r.severity[d.Severity].Render(carets))
	}
	if d.Fix != "" {
		fmt.Fprintf(&b, "%s = fix: %s\n", pad, d.Fix)
	}
	return b.String()
}

// Emit writes the rendered diagnostic followed by a blank line.
func (r *Renderer) Emit(w io.Writer, path, source string, d document.Diagnostic) error {
	if _, err := io.WriteString(w, r.Render(path, source, d)+"\n"); err != nil {
		return fmt.Errorf("diag: write diagnostic: %w", err)
	}
	return nil
}
