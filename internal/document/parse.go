package document

import "strings"

// SupportedVersions lists the document versions the handoff understands.
var SupportedVersions = []string{"1.0", "1.1", "1.2", "development"}

type frameKind int

const (
	frameOther frameKind = iota
	frameTask
	frameWorkflow
)

type frame struct {
	kind frameKind
	open Span
	// skip marks a redefinition whose contents are not recorded.
	skip bool
}

type parser struct {
	doc    *Document
	tokens []token
	pos    int
	stack  []frame
	diags  []Diagnostic
}

// Parse scans source into a Document. Parsing never fails outright: every
// problem is reported as a diagnostic on the returned document.
func Parse(uri, path, source string) *Document {
	doc := &Document{URI: uri, Path: path, Source: source}
	tokens, diags := lex(source)
	p := &parser{doc: doc, tokens: tokens, diags: diags}
	p.run()
	p.check()
	doc.Diagnostics = p.diags
	return doc
}

func (p *parser) peek(offset int) (token, bool) {
	idx := p.pos + offset
	if idx < 0 || idx >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[idx], true
}

func (p *parser) peekPunct(offset int, text string) bool {
	tok, ok := p.peek(offset)
	return ok && tok.kind == tokPunct && tok.text == text
}

func (p *parser) peekWord(offset int) (token, bool) {
	tok, ok := p.peek(offset)
	if !ok || tok.kind != tokWord {
		return token{}, false
	}
	return tok, true
}

func (p *parser) top() frameKind {
	if len(p.stack) == 0 {
		return -1
	}
	return p.stack[len(p.stack)-1].kind
}

func (p *parser) inWorkflow() bool {
	for _, f := range p.stack {
		if f.kind == frameWorkflow {
			return !f.skip
		}
	}
	return false
}

func (p *parser) skipping() bool {
	return len(p.stack) > 0 && p.stack[len(p.stack)-1].skip
}

func (p *parser) run() {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		switch {
		case tok.kind == tokWord && len(p.stack) == 0:
			p.topLevel(tok)
		case tok.kind == tokWord && tok.text == "input" && (p.top() == frameTask || p.top() == frameWorkflow) && p.peekPunct(1, "{"):
			p.pos += 2
			decls := p.declarations()
			p.attachInputs(decls)
		case tok.kind == tokWord && tok.text == "call" && p.inWorkflow():
			p.call()
		case tok.kind == tokPunct && tok.text == "{":
			p.stack = append(p.stack, frame{kind: frameOther, open: tok.span})
			p.pos++
		case tok.kind == tokPunct && tok.text == "}":
			if len(p.stack) == 0 {
				p.diags = append(p.diags, errorAt(RuleUnmatchedBrace, tok.span, "unmatched `}`"))
			} else {
				p.stack = p.stack[:len(p.stack)-1]
			}
			p.pos++
		default:
			p.pos++
		}
	}
	for _, f := range p.stack {
		span := f.open
		span.Length = 1
		p.diags = append(p.diags, errorAt(RuleUnmatchedBrace, span, "unclosed `{`"))
	}
}

func (p *parser) topLevel(tok token) {
	switch tok.text {
	case "version":
		if next, ok := p.peekWord(1); ok {
			if p.doc.Version == "" {
				p.doc.Version = next.text
				p.doc.VersionSpan = next.span
			}
			p.pos += 2
			return
		}
	case "task", "workflow", "struct":
		name, ok := p.peekWord(1)
		if ok && p.peekPunct(2, "{") {
			open := p.tokens[p.pos+2].span
			p.pos += 3
			switch tok.text {
			case "task":
				p.doc.Tasks = append(p.doc.Tasks, Task{Name: name.text, Span: name.span})
				p.stack = append(p.stack, frame{kind: frameTask, open: open})
			case "workflow":
				skip := p.doc.Workflow != nil
				if skip {
					p.diags = append(p.diags, errorAt(RuleMultipleWorkflows, name.span,
						"cannot define workflow `%s` as only one workflow is allowed per document", name.text))
				} else {
					p.doc.Workflow = &Workflow{Name: name.text, Span: name.span}
				}
				p.stack = append(p.stack, frame{kind: frameWorkflow, open: open, skip: skip})
			case "struct":
				members := p.declarations()
				p.doc.Structs = append(p.doc.Structs, Struct{Name: name.text, Members: members, Span: name.span})
			}
			return
		}
	}
	p.pos++
}

func (p *parser) attachInputs(decls []Decl) {
	if p.skipping() {
		return
	}
	switch p.top() {
	case frameTask:
		task := &p.doc.Tasks[len(p.doc.Tasks)-1]
		task.Inputs = append(task.Inputs, decls...)
	case frameWorkflow:
		p.doc.Workflow.Inputs = append(p.doc.Workflow.Inputs, decls...)
	}
}

func (p *parser) call() {
	target, ok := p.peekWord(1)
	if !ok {
		p.pos++
		return
	}
	call := Call{Target: target.text, Span: target.span}
	p.pos += 2
	if as, ok := p.peekWord(0); ok && as.text == "as" {
		if alias, ok := p.peekWord(1); ok {
			call.Alias = alias.text
			call.Span = alias.span
			p.pos += 2
		}
	}
	p.doc.Workflow.Calls = append(p.doc.Workflow.Calls, call)
}

// declarations reads declarations up to and including the closing brace of
// the current block. A declaration starts on a new line whenever no bracket
// is left open by the previous one.
func (p *parser) declarations() []Decl {
	var (
		decls   []Decl
		current []token
		nesting int
	)
	flush := func() {
		if len(current) > 0 {
			if decl, ok := p.declaration(current); ok {
				decls = append(decls, decl)
			}
		}
		current = nil
	}
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		if tok.kind == tokPunct && tok.text == "}" && nesting == 0 {
			p.pos++
			flush()
			return decls
		}
		if nesting == 0 && len(current) > 0 && tok.span.Line != current[len(current)-1].span.Line {
			flush()
		}
		if tok.kind == tokPunct {
			switch tok.text {
			case "(", "[", "{":
				nesting++
			case ")", "]", "}":
				if nesting > 0 {
					nesting--
				}
			}
		}
		current = append(current, tok)
		p.pos++
	}
	flush()
	return decls
}

func (p *parser) declaration(tokens []token) (Decl, bool) {
	end := len(tokens)
	hasDefault := false
	depth := 0
	for i, tok := range tokens {
		if tok.kind != tokPunct {
			continue
		}
		switch tok.text {
		case "[", "(":
			depth++
		case "]", ")":
			depth--
		case "=":
			if depth == 0 && end == len(tokens) {
				end = i
				hasDefault = true
			}
		}
	}
	head := tokens[:end]
	if len(head) < 2 || head[len(head)-1].kind != tokWord {
		return Decl{}, false
	}
	name := head[len(head)-1]
	var typeText strings.Builder
	for _, tok := range head[:len(head)-1] {
		typeText.WriteString(tok.text)
		if tok.text == "," {
			typeText.WriteByte(' ')
		}
	}
	typ, err := ParseType(typeText.String())
	if err != nil {
		span := head[0].span
		span.Length = len(typeText.String())
		p.diags = append(p.diags, errorAt(RuleInvalidType, span, "%s", strings.TrimPrefix(err.Error(), "document: ")))
		return Decl{}, false
	}
	return Decl{Name: name.text, Type: typ, HasDefault: hasDefault, Span: name.span}, true
}

func (p *parser) check() {
	doc := p.doc
	if doc.Version == "" {
		p.diags = append(p.diags, Diagnostic{
			Rule:     RuleMissingVersion,
			Severity: SeverityError,
			Message:  "missing version statement",
			Span:     Span{Line: 1, Column: 1, Length: 1},
			Fix:      "add a version statement at the top of the document, e.g. `version 1.2`",
		})
	} else if !isSupportedVersion(doc.Version) {
		p.diags = append(p.diags, warningAt(RuleUnsupportedVersion, doc.VersionSpan,
			"unsupported version `%s`", doc.Version))
	}
	seen := map[string]bool{}
	for _, task := range doc.Tasks {
		if seen[task.Name] {
			p.diags = append(p.diags, errorAt(RuleDuplicateTask, task.Span, "conflicting task name `%s`", task.Name))
		}
		seen[task.Name] = true
		p.checkInputs(task.Inputs)
	}
	if wf := doc.Workflow; wf != nil {
		if seen[wf.Name] {
			p.diags = append(p.diags, errorAt(RuleNameConflict, wf.Span,
				"conflicting workflow name `%s`; a task with that name already exists", wf.Name))
		}
		p.checkInputs(wf.Inputs)
	}
	for _, st := range doc.Structs {
		p.checkInputs(st.Members)
	}
}

func (p *parser) checkInputs(decls []Decl) {
	seen := map[string]bool{}
	for _, decl := range decls {
		if seen[decl.Name] {
			p.diags = append(p.diags, errorAt(RuleDuplicateInput, decl.Span, "conflicting input name `%s`", decl.Name))
		}
		seen[decl.Name] = true
	}
}

func isSupportedVersion(version string) bool {
	for _, v := range SupportedVersions {
		if v == version {
			return true
		}
	}
	return false
}
