package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rubiojr/netscript/ast"
	"github.com/rubiojr/netscript/scanner"
)

// parseJSXElement parses an element or fragment whose '<' starts at start
// and has already been consumed. For a child element the final '>' is left
// as the current token so the parent can resume scanning text after it.
func (p *parser) parseJSXElement(start int, child bool) ast.Expr {
	el := &ast.JSXElement{}
	openName := ""
	if !p.isGT() {
		el.Name, openName = p.parseJSXTagName()
		p.parseJSXAttrs(el)
		if p.isPunct("/") {
			p.nextWith(0)
			p.closeJSXTag(child)
			el.Span = p.span(start)
			return el
		}
	}
	p.splitGT()
	p.parseJSXChildren(el)

	// the current token follows "</"
	closeTok := p.tok
	closeName := ""
	if !p.isGT() {
		_, closeName = p.parseJSXTagName()
	}
	if closeName != openName {
		if openName == "" {
			p.errorAt(closeTok, "expected corresponding closing tag for JSX fragment")
		}
		p.errorAt(closeTok, "expected corresponding JSX closing tag for <%s>", openName)
	}
	p.closeJSXTag(child)
	el.Span = p.span(start)
	return el
}

func (p *parser) isGT() bool {
	return p.tok.Kind == scanner.Punct && strings.HasPrefix(p.tok.Value, ">")
}

// closeJSXTag consumes the '>' ending a tag.
func (p *parser) closeJSXTag(child bool) {
	if !p.isGT() {
		p.errorAt(p.tok, "expected %q, found %s", ">", p.tok)
	}
	p.splitGT()
	if !child {
		p.nextWith(0)
	}
}

// parseJSXTagName parses a tag name and returns it with its source text.
// Intrinsic names become *ast.JSXName; component names are expressions.
func (p *parser) parseJSXTagName() (ast.Expr, string) {
	start := p.tok.Start
	if p.tok.Kind != scanner.Ident {
		p.errorAt(p.tok, "expected JSX tag name, found %s", p.tok)
	}
	name := p.tok.Value
	p.nextWith(scanner.JSXName)
	switch {
	case p.isPunct(":"):
		p.nextWith(scanner.JSXName)
		if p.tok.Kind != scanner.Ident {
			p.errorAt(p.tok, "expected JSX tag name, found %s", p.tok)
		}
		name += ":" + p.tok.Value
		p.nextWith(scanner.JSXName)
		return &ast.JSXName{Span: p.span(start), Name: name}, name
	case p.isPunct("."):
		var x ast.Expr = &ast.Ident{Span: p.span(start), Name: name}
		for p.isPunct(".") {
			p.nextWith(scanner.JSXName)
			if p.tok.Kind != scanner.Ident {
				p.errorAt(p.tok, "expected JSX tag name, found %s", p.tok)
			}
			sel := &ast.Ident{Span: ast.Span{Start: p.tok.Start, Stop: p.tok.End}, Name: p.tok.Value}
			p.nextWith(scanner.JSXName)
			x = &ast.DotExpr{Span: p.span(start), X: x, Sel: sel}
		}
		return x, p.src[start:p.prev.End]
	}
	if isIntrinsicTag(name) {
		return &ast.JSXName{Span: p.span(start), Name: name}, name
	}
	return &ast.Ident{Span: p.span(start), Name: name}, name
}

func isIntrinsicTag(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsLower(r) || strings.Contains(name, "-")
}

func (p *parser) parseJSXAttrs(el *ast.JSXElement) {
	for !p.isPunct("/") && !p.isGT() {
		start := p.tok.Start
		if p.isPunct("{") {
			p.next()
			p.expect("...")
			x := p.parseAssign()
			if !p.isPunct("}") {
				p.errorAt(p.tok, "expected %q, found %s", "}", p.tok)
			}
			p.nextWith(scanner.JSXName)
			el.Attrs = append(el.Attrs, &ast.JSXAttr{Span: p.span(start), Spread: x})
			continue
		}
		if p.tok.Kind != scanner.Ident {
			p.errorAt(p.tok, "expected JSX attribute, found %s", p.tok)
		}
		attr := &ast.JSXAttr{Name: p.tok.Value}
		p.nextWith(scanner.JSXName)
		if p.isPunct(":") {
			p.nextWith(scanner.JSXName)
			attr.Name += ":" + p.identName()
		}
		if p.isPunct("=") {
			p.nextWith(scanner.JSXAttr)
			switch {
			case p.tok.Kind == scanner.String:
				attr.Value = &ast.StringLit{Span: ast.Span{Start: p.tok.Start, Stop: p.tok.End}, Value: p.tok.Value, Raw: p.tok.Raw}
				p.nextWith(scanner.JSXName)
			case p.isPunct("{"):
				cstart := p.tok.Start
				p.next()
				x := p.parseAssign()
				if !p.isPunct("}") {
					p.errorAt(p.tok, "expected %q, found %s", "}", p.tok)
				}
				p.nextWith(scanner.JSXName)
				attr.Value = &ast.JSXExprContainer{Span: p.span(cstart), X: x}
			case p.isPunct("<"):
				vstart := p.tok.Start
				p.nextWith(scanner.JSXName)
				attr.Value = p.parseJSXElement(vstart, false)
			default:
				p.errorAt(p.tok, "expected JSX attribute value, found %s", p.tok)
			}
		}
		attr.Span = p.span(start)
		el.Attrs = append(el.Attrs, attr)
	}
}

// parseJSXChildren parses text, expression containers and nested elements
// up to the closing "</", which is consumed.
func (p *parser) parseJSXChildren(el *ast.JSXElement) {
	for {
		text := p.sc.JSXText()
		if strings.TrimSpace(text.Value) != "" {
			el.Children = append(el.Children, &ast.JSXText{
				Span:  ast.Span{Start: text.Start, Stop: text.End},
				Value: text.Value,
			})
		}
		p.setTok(text)
		p.nextWith(0)
		switch {
		case p.tok.Kind == scanner.EOF:
			p.errorAt(p.tok, "unterminated JSX contents")
		case p.isPunct("{"):
			start := p.tok.Start
			p.next()
			var x ast.Expr
			if !p.isPunct("}") {
				if p.accept("...") {
					x = &ast.SpreadElem{Span: p.span(start), X: p.parseExpression()}
				} else {
					x = p.parseExpression()
				}
			}
			if !p.isPunct("}") {
				p.errorAt(p.tok, "expected %q, found %s", "}", p.tok)
			}
			el.Children = append(el.Children, &ast.JSXExprContainer{
				Span: ast.Span{Start: start, Stop: p.tok.End},
				X:    x,
			})
		case p.isPunct("<"):
			start := p.tok.Start
			p.nextWith(scanner.JSXName)
			if p.isPunct("/") {
				p.nextWith(scanner.JSXName)
				return
			}
			el.Children = append(el.Children, p.parseJSXElement(start, true))
		default:
			p.unexpected()
		}
	}
}
