package document

import "fmt"

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Span locates a run of source text. Line and Column are 1-based; Length is
// measured in bytes.
type Span struct {
	Line   int
	Column int
	Length int
}

// Diagnostic is a problem found in a document.
type Diagnostic struct {
	Rule     string
	Severity Severity
	Message  string
	Span     Span
	Fix      string
}

// Rule identifiers for analysis diagnostics.
const (
	RuleMissingVersion     = "MissingVersion"
	RuleUnsupportedVersion = "UnsupportedVersion"
	RuleUnmatchedBrace     = "UnmatchedBrace"
	RuleUnterminated       = "Unterminated"
	RuleDuplicateTask      = "DuplicateTask"
	RuleMultipleWorkflows  = "MultipleWorkflows"
	RuleDuplicateInput     = "DuplicateInput"
	RuleNameConflict       = "NameConflict"
	RuleInvalidType        = "InvalidType"
)

// AnalysisRules lists the rule identifiers the scanner can emit.
func AnalysisRules() []string {
	return []string{
		RuleMissingVersion,
		RuleUnsupportedVersion,
		RuleUnmatchedBrace,
		RuleUnterminated,
		RuleDuplicateTask,
		RuleMultipleWorkflows,
		RuleDuplicateInput,
		RuleNameConflict,
		RuleInvalidType,
	}
}

func errorAt(rule string, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{Rule: rule, Severity: SeverityError, Message: fmt.Sprintf(format, args...), Span: span}
}

func warningAt(rule string, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{Rule: rule, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...), Span: span}
}
