package document

import "strings"

type tokenKind int

const (
	tokWord tokenKind = iota
	tokString
	tokPunct
	tokBody
)

type token struct {
	kind tokenKind
	text string
	span Span
}

type lexer struct {
	src    string
	pos    int
	line   int
	col    int
	tokens []token
	diags  []Diagnostic
}

func lex(src string) ([]token, []Diagnostic) {
	l := &lexer{src: src, line: 1, col: 1}
	l.run()
	return l.tokens, l.diags
}

func (l *lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *lexer) here() Span {
	return Span{Line: l.line, Column: l.col}
}

func (l *lexer) emit(kind tokenKind, start int, span Span) {
	span.Length = l.pos - start
	l.tokens = append(l.tokens, token{kind: kind, text: l.src[start:l.pos], span: span})
}

func (l *lexer) run() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance()
			}
		case c == '"' || c == '\'':
			l.lexString(c)
		case isIdentByte(c):
			start, span := l.pos, l.here()
			for l.pos < len(l.src) && (isIdentByte(l.src[l.pos]) || l.src[l.pos] == '.') {
				l.advance()
			}
			l.emit(tokWord, start, span)
			if l.src[start:l.pos] == "command" {
				l.lexCommandBody()
			}
		case strings.HasPrefix(l.src[l.pos:], "<<<"):
			l.lexHeredoc()
		default:
			start, span := l.pos, l.here()
			l.advance()
			l.emit(tokPunct, start, span)
		}
	}
}

func (l *lexer) lexString(quote byte) {
	start, span := l.pos, l.here()
	l.advance()
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' && l.pos+1 < len(l.src) {
			l.advance()
			l.advance()
			continue
		}
		if c == '\n' {
			break
		}
		l.advance()
		if c == quote {
			l.emit(tokString, start, span)
			return
		}
	}
	span.Length = 1
	l.diags = append(l.diags, errorAt(RuleUnterminated, span, "unterminated string"))
	l.emit(tokString, start, span)
}

func (l *lexer) lexHeredoc() {
	start, span := l.pos, l.here()
	end := strings.Index(l.src[l.pos+3:], ">>>")
	if end < 0 {
		span.Length = 3
		l.diags = append(l.diags, errorAt(RuleUnterminated, span, "unterminated heredoc; expected `>>>`"))
		for l.pos < len(l.src) {
			l.advance()
		}
		l.emit(tokBody, start, span)
		return
	}
	target := l.pos + 3 + end + 3
	for l.pos < target {
		l.advance()
	}
	l.emit(tokBody, start, span)
}

// lexCommandBody consumes a brace-delimited command section as a single token.
// Heredoc command sections are left to the generic heredoc rule.
func (l *lexer) lexCommandBody() {
	probe := l.pos
	for probe < len(l.src) && (l.src[probe] == ' ' || l.src[probe] == '\t') {
		probe++
	}
	if probe >= len(l.src) || l.src[probe] != '{' {
		return
	}
	for l.pos < probe {
		l.advance()
	}
	start, span := l.pos, l.here()
	depth := 0
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.advance()
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				l.emit(tokBody, start, span)
				return
			}
		}
	}
	span.Length = 1
	l.diags = append(l.diags, errorAt(RuleUnterminated, span, "unterminated command section"))
	l.emit(tokBody, start, span)
}
