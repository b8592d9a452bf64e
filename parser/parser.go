// Package parser turns script source text into an ast.Program.
//
// One recursive-descent parser serves every grammar variant. The variant is
// chosen from the file extension (see DialectFor) and only switches on
// syntax extensions: type annotations for typed sources and markup for
// component sources. Both extensions produce synthetic nodes that walkers
// pass through, so trees from any variant look alike to analysis code.
package parser

import (
	"errors"
	"fmt"

	"github.com/rubiojr/netscript/ast"
	"github.com/rubiojr/netscript/scanner"
)

// SyntaxError reports source that could not be parsed.
type SyntaxError struct {
	File   string
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Msg)
}

// bailout is raised with panic to unwind the parser on the first error.
type bailout struct{ err *SyntaxError }

// Parse parses code as a module of the given dialect. name is used in
// error messages and recorded as the program's File.
func Parse(name, code string, dialect Dialect) (prog *ast.Program, err error) {
	p := &parser{
		file:    name,
		src:     code,
		sc:      scanner.New(code),
		dialect: dialect,
	}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			prog, err = nil, b.err
		}
	}()
	p.next()
	var body []ast.Stmt
	for p.tok.Kind != scanner.EOF {
		body = append(body, p.parseStatement(true))
	}
	return ast.NewProgram(name, code, body), nil
}

// ParseFile parses code using the dialect implied by path's extension.
func ParseFile(path, code string) (*ast.Program, error) {
	return Parse(path, code, DialectFor(path))
}

type parser struct {
	file    string
	src     string
	sc      *scanner.Scanner
	dialect Dialect

	tok  scanner.Token // current token
	prev scanner.Token // last consumed token

	noIn        bool // parsing a for-init: 'in' is not an operator
	inGenerator bool
	inAsync     bool
}

func (p *parser) typed() bool { return p.dialect&Typed != 0 }
func (p *parser) jsx() bool   { return p.dialect&JSX != 0 }

// --- errors ---

func (p *parser) errorAt(tok scanner.Token, format string, args ...any) {
	panic(bailout{&SyntaxError{
		File:   p.file,
		Line:   tok.Line,
		Column: tok.Col,
		Msg:    fmt.Sprintf(format, args...),
	}})
}

func (p *parser) unexpected() {
	p.errorAt(p.tok, "unexpected token %s", p.tok)
}

func (p *parser) scanError(err error) {
	var se *scanner.Error
	if errors.As(err, &se) {
		panic(bailout{&SyntaxError{File: p.file, Line: se.Line, Column: se.Col, Msg: se.Msg}})
	}
	panic(bailout{&SyntaxError{File: p.file, Line: p.tok.Line, Column: p.tok.Col, Msg: err.Error()}})
}

// --- tokens ---

// regexpAllowed reports whether a '/' after the current token starts a
// regular expression.
func (p *parser) regexpAllowed() bool {
	t := p.tok
	switch t.Kind {
	case scanner.EOF, scanner.TemplateHead, scanner.TemplateMiddle:
		return true
	case scanner.Punct:
		switch t.Value {
		case ")", "]", "++", "--":
			return false
		}
		return true
	case scanner.Ident:
		switch t.Value {
		case "return", "typeof", "case", "do", "else", "in", "instanceof", "new",
			"void", "delete", "throw", "yield", "await", "of", "extends":
			return true
		}
	}
	return false
}

func (p *parser) mode() scanner.Mode {
	if p.regexpAllowed() {
		return scanner.RegExpAllowed
	}
	return 0
}

func (p *parser) next() { p.nextWith(p.mode()) }

func (p *parser) nextWith(mode scanner.Mode) {
	tok, err := p.sc.Next(mode)
	if err != nil {
		p.scanError(err)
	}
	p.prev = p.tok
	p.tok = tok
}

// setTok replaces the current token with one scanned out of band
// (template continuations, JSX text) after consuming the current one.
func (p *parser) setTok(tok scanner.Token) {
	p.prev = p.tok
	p.tok = tok
}

func (p *parser) peek() scanner.Token {
	st := p.sc.Save()
	tok, err := p.sc.Next(p.mode())
	p.sc.Restore(st)
	if err != nil {
		return scanner.Token{Kind: scanner.EOF}
	}
	return tok
}

func (p *parser) isPunct(v string) bool {
	return p.tok.Kind == scanner.Punct && p.tok.Value == v
}

func (p *parser) isKeyword(v string) bool {
	return p.tok.Kind == scanner.Ident && p.tok.Value == v
}

func (p *parser) accept(v string) bool {
	if p.isPunct(v) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(v string) {
	if !p.isPunct(v) {
		p.errorAt(p.tok, "expected %q, found %s", v, p.tok)
	}
	p.next()
}

// closeHeader consumes the ")" ending an if, for, while or do-while
// header. A statement follows, so a '/' after it starts a regular
// expression.
func (p *parser) closeHeader() {
	if !p.isPunct(")") {
		p.errorAt(p.tok, "expected %q, found %s", ")", p.tok)
	}
	p.nextWith(scanner.RegExpAllowed)
}

func (p *parser) expectKeyword(v string) {
	if !p.isKeyword(v) {
		p.errorAt(p.tok, "expected %q, found %s", v, p.tok)
	}
	p.next()
}

// semicolon consumes a statement terminator, applying automatic
// semicolon insertion.
func (p *parser) semicolon() {
	if p.accept(";") {
		return
	}
	if p.isPunct("}") || p.tok.Kind == scanner.EOF || p.tok.NewlineBefore {
		return
	}
	p.unexpected()
}

// canInsertSemicolon reports whether a statement may end before the
// current token.
func (p *parser) canInsertSemicolon() bool {
	return p.isPunct(";") || p.isPunct("}") || p.tok.Kind == scanner.EOF || p.tok.NewlineBefore
}

func (p *parser) span(start int) ast.Span {
	return ast.Span{Start: start, Stop: p.prev.End}
}

// identName consumes an identifier (keywords allowed) and returns it.
func (p *parser) identName() string {
	if p.tok.Kind != scanner.Ident {
		p.errorAt(p.tok, "expected identifier, found %s", p.tok)
	}
	name := p.tok.Value
	p.next()
	return name
}

// bindingName consumes an identifier usable as a binding.
func (p *parser) bindingName() *ast.BindingIdent {
	if p.tok.Kind != scanner.Ident || scanner.IsReserved(p.tok.Value) && !(p.typed() && p.tok.Value == "this") {
		p.errorAt(p.tok, "expected identifier, found %s", p.tok)
	}
	start := p.tok.Start
	name := p.tok.Value
	p.next()
	return &ast.BindingIdent{Span: p.span(start), Name: name}
}

// allowIn re-enables the 'in' operator inside brackets; call the returned
// function to restore the previous state.
func (p *parser) allowIn() func() {
	old := p.noIn
	p.noIn = false
	return func() { p.noIn = old }
}

// --- speculation ---

type snapshot struct {
	st          scanner.State
	tok, prev   scanner.Token
	noIn        bool
	inGenerator bool
	inAsync     bool
}

func (p *parser) save() snapshot {
	return snapshot{
		st:          p.sc.Save(),
		tok:         p.tok,
		prev:        p.prev,
		noIn:        p.noIn,
		inGenerator: p.inGenerator,
		inAsync:     p.inAsync,
	}
}

func (p *parser) restore(s snapshot) {
	p.sc.Restore(s.st)
	p.tok, p.prev = s.tok, s.prev
	p.noIn, p.inGenerator, p.inAsync = s.noIn, s.inGenerator, s.inAsync
}

// try runs f and reports whether it parsed without error. On failure the
// parser is rewound to where it was before f ran.
func (p *parser) try(f func()) (ok bool) {
	s := p.save()
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			p.restore(s)
			ok = false
		}
	}()
	f()
	return true
}
