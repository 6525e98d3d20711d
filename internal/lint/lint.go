// Package lint holds the optional style rules run over analyzed documents.
package lint

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kingrea/wdl/internal/document"
)

// MaxLineWidth is the widest line LineWidth accepts.
const MaxLineWidth = 90

// Rule inspects a document and reports style problems as warnings.
type Rule interface {
	ID() string
	Description() string
	Check(doc *document.Document) []document.Diagnostic
}

// Rules returns every lint rule.
func Rules() []Rule {
	return []Rule{snakeCase{}, trailingWhitespace{}, lineWidth{}}
}

// Visitor runs a fixed set of rules.
type Visitor struct {
	rules []Rule
}

// NewVisitor builds a visitor over rules.
func NewVisitor(rules []Rule) *Visitor {
	return &Visitor{rules: rules}
}

// Visit returns the diagnostics every rule reports for doc, rule by rule.
func (v *Visitor) Visit(doc *document.Document) []document.Diagnostic {
	if v == nil {
		return nil
	}
	var diags []document.Diagnostic
	for _, rule := range v.rules {
		diags = append(diags, rule.Check(doc)...)
	}
	return diags
}

var snakeCasePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

type snakeCase struct{}

func (snakeCase) ID() string { return "SnakeCase" }

func (snakeCase) Description() string {
	return "Ensures that tasks, workflows, inputs and call aliases are named in snake_case."
}

func (r snakeCase) Check(doc *document.Document) []document.Diagnostic {
	var diags []document.Diagnostic
	check := func(kind, name string, span document.Span) {
		if snakeCasePattern.MatchString(name) {
			return
		}
		span.Length = len(name)
		diags = append(diags, document.Diagnostic{
			Rule:     r.ID(),
			Severity: document.SeverityWarning,
			Message:  kind + " name `" + name + "` is not snake_case",
			Span:     span,
			Fix:      "rename the " + kind + " to `" + toSnakeCase(name) + "`",
		})
	}
	for _, task := range doc.Tasks {
		check("task", task.Name, task.Span)
		for _, decl := range task.Inputs {
			check("input", decl.Name, decl.Span)
		}
	}
	if wf := doc.Workflow; wf != nil {
		check("workflow", wf.Name, wf.Span)
		for _, decl := range wf.Inputs {
			check("input", decl.Name, decl.Span)
		}
		for _, call := range wf.Calls {
			if call.Alias != "" {
				check("call", call.Alias, call.Span)
			}
		}
	}
	return diags
}

func toSnakeCase(name string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			prevLower = false
		case r == '-' || r == ' ':
			b.WriteByte('_')
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
		}
	}
	return b.String()
}

type trailingWhitespace struct{}

func (trailingWhitespace) ID() string { return "TrailingWhitespace" }

func (trailingWhitespace) Description() string {
	return "Ensures that lines do not end with spaces or tabs."
}

func (r trailingWhitespace) Check(doc *document.Document) []document.Diagnostic {
	var diags []document.Diagnostic
	for i, line := range strings.Split(doc.Source, "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimRight(line, " \t")
		if len(trimmed) == len(line) {
			continue
		}
		diags = append(diags, document.Diagnostic{
			Rule:     r.ID(),
			Severity: document.SeverityWarning,
			Message:  "line contains trailing whitespace",
			Span:     document.Span{Line: i + 1, Column: len(trimmed) + 1, Length: len(line) - len(trimmed)},
			Fix:      "remove the trailing whitespace",
		})
	}
	return diags
}

type lineWidth struct{}

func (lineWidth) ID() string { return "LineWidth" }

func (lineWidth) Description() string {
	return "Ensures that lines are no wider than 90 characters."
}

func (r lineWidth) Check(doc *document.Document) []document.Diagnostic {
	var diags []document.Diagnostic
	for i, line := range strings.Split(doc.Source, "\n") {
		line = strings.TrimSuffix(line, "\r")
		width := utf8.RuneCountInString(line)
		if width <= MaxLineWidth {
			continue
		}
		diags = append(diags, document.Diagnostic{
			Rule:     r.ID(),
			Severity: document.SeverityWarning,
			Message:  "line exceeds maximum width of 90",
			Span:     document.Span{Line: i + 1, Column: MaxLineWidth + 1, Length: len(line) - MaxLineWidth},
		})
	}
	return diags
}
