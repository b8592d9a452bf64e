package parser

import (
	"strings"

	"github.com/rubiojr/netscript/ast"
	"github.com/rubiojr/netscript/scanner"
)

// Types carry no runtime meaning for analysis, so they are skipped at the
// token level and kept only as raw text in *ast.TypeAnnotation nodes.

// parseTypeAnnotation parses `: T`. It returns nil when the current token
// is not a colon.
func (p *parser) parseTypeAnnotation() *ast.TypeAnnotation {
	if !p.isPunct(":") {
		return nil
	}
	p.next()
	return p.parseType()
}

// parseType skips one type expression starting at the current token.
func (p *parser) parseType() *ast.TypeAnnotation {
	start := p.tok.Start
	p.skipType()
	return p.typeText(start)
}

// parseTypeParams skips a <...> group of type parameters.
func (p *parser) parseTypeParams() *ast.TypeAnnotation {
	start := p.tok.Start
	p.skipAngle()
	return p.typeText(start)
}

// parseTypeArgs skips a <...> group of type arguments.
func (p *parser) parseTypeArgs() *ast.TypeAnnotation { return p.parseTypeParams() }

// tryTypeArgs speculatively parses type arguments that must be followed by
// an argument list or a template. It returns nil, consuming nothing, when
// the '<' turns out to be a comparison.
func (p *parser) tryTypeArgs() *ast.TypeAnnotation {
	var t *ast.TypeAnnotation
	ok := p.try(func() {
		t = p.parseTypeArgs()
		if !p.isPunct("(") && p.tok.Kind != scanner.NoSubstTemplate && p.tok.Kind != scanner.TemplateHead {
			p.unexpected()
		}
	})
	if !ok {
		return nil
	}
	return t
}

func (p *parser) typeText(start int) *ast.TypeAnnotation {
	end := p.prev.End
	return &ast.TypeAnnotation{Span: ast.Span{Start: start, Stop: end}, Raw: p.src[start:end]}
}

func (p *parser) skipType() {
	p.skipUnionType()
	if p.isKeyword("extends") && !p.tok.NewlineBefore {
		// conditional type: A extends B ? C : D
		p.next()
		p.skipUnionType()
		p.expect("?")
		p.skipType()
		p.expect(":")
		p.skipType()
	}
}

func (p *parser) skipUnionType() {
	if !p.accept("|") {
		p.accept("&")
	}
	for {
		p.skipTypeOperand()
		if !p.accept("|") && !p.accept("&") {
			return
		}
	}
}

var typeOperators = map[string]bool{
	"keyof": true, "unique": true, "readonly": true, "infer": true,
}

func (p *parser) skipTypeOperand() {
	for p.tok.Kind == scanner.Ident && typeOperators[p.tok.Value] && startsType(p.peek()) {
		p.next()
	}
	p.skipPrimaryType()
	// T[] and T[K]
	for p.isPunct("[") && !p.tok.NewlineBefore {
		p.skipBalanced()
	}
}

func startsType(t scanner.Token) bool {
	switch t.Kind {
	case scanner.Ident, scanner.String, scanner.Number, scanner.BigInt,
		scanner.NoSubstTemplate, scanner.TemplateHead:
		return true
	case scanner.Punct:
		switch t.Value {
		case "(", "[", "{", "<", "-":
			return true
		}
	}
	return false
}

func (p *parser) skipPrimaryType() {
	tok := p.tok
	switch tok.Kind {
	case scanner.String, scanner.Number, scanner.BigInt, scanner.NoSubstTemplate:
		p.next()
		return
	case scanner.TemplateHead:
		p.skipTemplateType()
		return
	case scanner.Ident:
		switch tok.Value {
		case "new", "abstract":
			// constructor type: new (...) => T
			p.next()
			if tok.Value == "abstract" {
				p.expectKeyword("new")
			}
			if p.isPunct("<") {
				p.skipAngle()
			}
			p.skipBalanced()
			p.expect("=>")
			p.skipType()
			return
		case "asserts":
			if t := p.peek(); t.Kind == scanner.Ident && !t.NewlineBefore {
				p.next()
				p.next()
				if p.isKeyword("is") {
					p.next()
					p.skipType()
				}
				return
			}
		case "typeof":
			p.next()
			if p.isKeyword("import") {
				p.next()
				p.skipBalanced()
			} else {
				p.identName()
			}
			p.skipTypeName()
			return
		case "import":
			p.next()
			p.skipBalanced()
			p.skipTypeName()
			return
		}
		p.next()
		p.skipTypeName()
		if p.isKeyword("is") && !p.tok.NewlineBefore {
			// type predicate: x is T
			p.next()
			p.skipType()
		}
		return
	case scanner.Punct:
		switch tok.Value {
		case "(":
			p.skipBalanced()
			if p.accept("=>") {
				p.skipType()
			}
			return
		case "<":
			// generic function type
			p.skipAngle()
			p.skipBalanced()
			p.expect("=>")
			p.skipType()
			return
		case "[", "{":
			p.skipBalanced()
			return
		case "-":
			p.next()
			if p.tok.Kind == scanner.Number || p.tok.Kind == scanner.BigInt {
				p.next()
				return
			}
		}
	}
	p.errorAt(tok, "expected type, found %s", tok)
}

// skipTypeName skips the .member chain and type arguments after a name.
func (p *parser) skipTypeName() {
	for p.accept(".") {
		p.identName()
	}
	if p.isPunct("<") && !p.tok.NewlineBefore {
		p.skipAngle()
	}
}

// skipTemplateType skips a template literal type such as `id-${number}`.
func (p *parser) skipTemplateType() {
	for {
		p.next()
		p.skipType()
		if !p.isPunct("}") {
			p.errorAt(p.tok, "expected %q, found %s", "}", p.tok)
		}
		tok, err := p.sc.TemplateContinue(p.tok)
		if err != nil {
			p.scanError(err)
		}
		p.setTok(tok)
		if tok.Kind == scanner.TemplateTail {
			p.next()
			return
		}
	}
}

// tokens that cannot appear inside type arguments; seeing one means a '<'
// was a comparison after all.
var notInTypeArgs = map[string]bool{
	";": true, ")": true, "]": true, "}": true, "&&": true, "||": true,
	"==": true, "===": true, "!=": true, "!==": true, "+": true, "++": true,
	"--": true, "+=": true, "-=": true, "*": true, "/": true, "%": true,
	"!": true, "??": true, "**": true,
}

// skipAngle skips a balanced <...> group, splitting compound tokens such
// as ">>" at the closing bracket.
func (p *parser) skipAngle() {
	depth := 0
	for {
		tok := p.tok
		switch tok.Kind {
		case scanner.EOF:
			p.errorAt(tok, "unexpected end of input")
		case scanner.TemplateHead:
			p.skipTemplateType()
			continue
		case scanner.Punct:
			switch {
			case tok.Value == "<":
				depth++
			case strings.HasPrefix(tok.Value, ">"):
				p.splitGT()
				depth--
				p.next()
				if depth == 0 {
					return
				}
				continue
			case tok.Value == "(" || tok.Value == "[" || tok.Value == "{":
				p.skipBalanced()
				continue
			case notInTypeArgs[tok.Value]:
				p.unexpected()
			}
		}
		p.next()
	}
}

// splitGT narrows a punctuator starting with '>' to a single '>' and
// rewinds the scanner just past it.
func (p *parser) splitGT() {
	tok := p.tok
	if len(tok.Value) == 1 {
		return
	}
	p.sc.Rescan(tok, 1)
	tok.Value, tok.Raw, tok.End = ">", ">", tok.Start+1
	p.tok = tok
}

// skipBalanced consumes a bracketed group starting at the current '(', '['
// or '{' up to and including its matching closer.
func (p *parser) skipBalanced() {
	var stack []string
	for {
		tok := p.tok
		switch tok.Kind {
		case scanner.EOF:
			p.errorAt(tok, "unexpected end of input")
		case scanner.TemplateHead, scanner.TemplateMiddle:
			stack = append(stack, "`")
		case scanner.Punct:
			switch tok.Value {
			case "(":
				stack = append(stack, ")")
			case "[":
				stack = append(stack, "]")
			case "{":
				stack = append(stack, "}")
			case ")", "]", "}":
				if len(stack) == 0 {
					p.unexpected()
				}
				want := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if want == "`" && tok.Value == "}" {
					t, err := p.sc.TemplateContinue(tok)
					if err != nil {
						p.scanError(err)
					}
					p.setTok(t)
					continue
				}
				if want != tok.Value {
					p.unexpected()
				}
				if len(stack) == 0 {
					p.next()
					return
				}
			}
		}
		if len(stack) == 0 {
			p.unexpected()
		}
		p.next()
	}
}

// parseTypeScriptDecl parses declarations that only exist in typed
// sources. It returns nil when the current identifier does not start one.
func (p *parser) parseTypeScriptDecl() ast.Stmt {
	start := p.tok.Start
	t := p.peek()
	if t.NewlineBefore {
		return nil
	}
	switch p.tok.Value {
	case "interface":
		if t.Kind != scanner.Ident {
			return nil
		}
		p.next()
		name := p.identName()
		if p.isPunct("<") {
			p.parseTypeParams()
		}
		if p.isKeyword("extends") {
			p.next()
			for {
				p.skipType()
				if !p.accept(",") {
					break
				}
			}
		}
		p.skipBalanced()
		return &ast.TypeDecl{Span: p.span(start), Kind: "interface", Name: name}
	case "type":
		if t.Kind != scanner.Ident {
			return nil
		}
		p.next()
		name := p.identName()
		if p.isPunct("<") {
			p.parseTypeParams()
		}
		p.expect("=")
		p.skipType()
		p.semicolon()
		return &ast.TypeDecl{Span: p.span(start), Kind: "type", Name: name}
	case "enum":
		if t.Kind != scanner.Ident {
			return nil
		}
		return p.parseEnum(start, false)
	case "declare":
		if t.Kind != scanner.Ident {
			return nil
		}
		p.next()
		p.skipDeclaration()
		return &ast.TypeDecl{Span: p.span(start), Kind: "declare"}
	case "abstract":
		if !t.Is("class") {
			return nil
		}
		p.next()
		return p.parseClassDecl(start, false)
	case "namespace", "module":
		if t.Kind != scanner.Ident && t.Kind != scanner.String {
			return nil
		}
		p.next()
		name := p.tok.Value
		p.next()
		for p.accept(".") {
			name += "." + p.identName()
		}
		p.skipBalanced()
		return &ast.TypeDecl{Span: p.span(start), Kind: "namespace", Name: name}
	}
	return nil
}

// skipDeclaration skips the rest of an ambient declaration, which ends at
// a semicolon or at a line break outside any brackets.
func (p *parser) skipDeclaration() {
	consumed := false
	for {
		switch {
		case p.tok.Kind == scanner.EOF:
			return
		case p.isPunct(";"):
			p.next()
			return
		case consumed && p.tok.NewlineBefore && !continuesType(p.prev):
			return
		case p.isPunct("("), p.isPunct("["), p.isPunct("{"):
			p.skipBalanced()
		default:
			p.next()
		}
		consumed = true
	}
}

// continuesType reports whether a declaration obviously continues on the
// next line after t.
func continuesType(t scanner.Token) bool {
	if t.Kind != scanner.Punct {
		return false
	}
	switch t.Value {
	case ")", "]", "}":
		return false
	}
	return true
}

func (p *parser) parseEnum(start int, isConst bool) ast.Stmt {
	p.expectKeyword("enum")
	d := &ast.EnumDecl{Name: p.bindingName(), Const: isConst}
	p.expect("{")
	for !p.accept("}") {
		mstart := p.tok.Start
		if p.tok.Kind != scanner.Ident && p.tok.Kind != scanner.String {
			p.unexpected()
		}
		m := &ast.EnumMember{Name: p.tok.Value}
		p.next()
		if p.accept("=") {
			m.Init = p.parseAssign()
		}
		m.Span = p.span(mstart)
		d.Members = append(d.Members, m)
		if !p.isPunct("}") {
			p.expect(",")
		}
	}
	d.Span = p.span(start)
	return d
}
