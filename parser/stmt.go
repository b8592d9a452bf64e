package parser

import (
	"github.com/rubiojr/netscript/ast"
	"github.com/rubiojr/netscript/scanner"
)

// parseStatement parses one statement. top is set for module-level
// statements, the only place import and export declarations may appear.
func (p *parser) parseStatement(top bool) ast.Stmt {
	start := p.tok.Start
	if p.tok.Kind == scanner.Punct {
		switch p.tok.Value {
		case "{":
			return p.parseBlock()
		case ";":
			p.next()
			return &ast.EmptyStmt{Span: p.span(start)}
		case "@":
			p.skipDecorators()
			return p.parseStatement(top)
		}
	}
	if p.tok.Kind == scanner.Ident {
		switch p.tok.Value {
		case "var", "const":
			if p.tok.Value == "const" && p.typed() && p.peek().Is("enum") {
				p.next()
				return p.parseEnum(start, true)
			}
			return p.parseVarStatement()
		case "let":
			if t := p.peek(); t.Kind == scanner.Ident || t.Is("[") || t.Is("{") {
				return p.parseVarStatement()
			}
		case "function":
			return p.parseFuncDecl(start, false, false)
		case "async":
			if t := p.peek(); t.Is("function") && !t.NewlineBefore {
				p.next()
				return p.parseFuncDecl(start, true, false)
			}
		case "class":
			return p.parseClassDecl(start, false)
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		case "while":
			p.next()
			p.expect("(")
			test := p.parseExpression()
			p.closeHeader()
			body := p.parseStatement(false)
			return &ast.WhileStmt{Span: p.span(start), Test: test, Body: body}
		case "do":
			p.next()
			body := p.parseStatement(false)
			p.expectKeyword("while")
			p.expect("(")
			test := p.parseExpression()
			p.closeHeader()
			p.accept(";")
			return &ast.DoWhileStmt{Span: p.span(start), Body: body, Test: test}
		case "return":
			p.next()
			var value ast.Expr
			if !p.canInsertSemicolon() {
				value = p.parseExpression()
			}
			p.semicolon()
			return &ast.ReturnStmt{Span: p.span(start), Value: value}
		case "break", "continue":
			tok := p.tok.Value
			p.next()
			label := ""
			if p.tok.Kind == scanner.Ident && !p.tok.NewlineBefore && !scanner.IsReserved(p.tok.Value) {
				label = p.identName()
			}
			p.semicolon()
			return &ast.BranchStmt{Span: p.span(start), Tok: tok, Label: label}
		case "throw":
			p.next()
			x := p.parseExpression()
			p.semicolon()
			return &ast.ThrowStmt{Span: p.span(start), X: x}
		case "try":
			return p.parseTry()
		case "switch":
			return p.parseSwitch()
		case "debugger":
			p.next()
			p.semicolon()
			return &ast.DebuggerStmt{Span: p.span(start)}
		case "import":
			if t := p.peek(); !t.Is("(") && !t.Is(".") {
				if !top {
					p.errorAt(p.tok, "import declarations may only appear at top level of a module")
				}
				return p.parseImport()
			}
		case "export":
			if !top {
				p.errorAt(p.tok, "export declarations may only appear at top level of a module")
			}
			return p.parseExport()
		}
		if p.typed() {
			if s := p.parseTypeScriptDecl(); s != nil {
				return s
			}
		}
		if !scanner.IsReserved(p.tok.Value) && p.peek().Is(":") {
			label := p.identName()
			p.expect(":")
			body := p.parseStatement(false)
			return &ast.LabeledStmt{Span: p.span(start), Label: label, Body: body}
		}
	}
	x := p.parseExpression()
	p.semicolon()
	return &ast.ExprStmt{Span: p.span(start), X: x}
}

func (p *parser) parseBlock() *ast.BlockStmt {
	start := p.tok.Start
	p.expect("{")
	var list []ast.Stmt
	for !p.isPunct("}") {
		if p.tok.Kind == scanner.EOF {
			p.errorAt(p.tok, "expected %q, found %s", "}", p.tok)
		}
		list = append(list, p.parseStatement(false))
	}
	p.next()
	return &ast.BlockStmt{Span: p.span(start), List: list}
}

func (p *parser) parseVarStatement() *ast.VarDecl {
	d := p.parseVarDecl()
	p.semicolon()
	d.Span = p.span(d.Start)
	return d
}

// parseVarDecl parses the declaration list without its terminator so the
// for statement can share it.
func (p *parser) parseVarDecl() *ast.VarDecl {
	start := p.tok.Start
	kind := p.tok.Value
	p.next()
	d := &ast.VarDecl{Kind: kind}
	for {
		dstart := p.tok.Start
		target := p.parseBindingTarget()
		if p.typed() {
			p.accept("!")
			if t := p.parseTypeAnnotation(); t != nil {
				setPatternType(target, t)
			}
		}
		var init ast.Expr
		if p.accept("=") {
			init = p.parseAssign()
		}
		d.Decls = append(d.Decls, &ast.Declarator{Span: p.span(dstart), Target: target, Init: init})
		if !p.accept(",") {
			break
		}
	}
	d.Span = p.span(start)
	return d
}

func (p *parser) parseIf() ast.Stmt {
	start := p.tok.Start
	p.next()
	p.expect("(")
	test := p.parseExpression()
	p.closeHeader()
	cons := p.parseStatement(false)
	var alt ast.Stmt
	if p.isKeyword("else") {
		p.next()
		alt = p.parseStatement(false)
	}
	return &ast.IfStmt{Span: p.span(start), Test: test, Cons: cons, Alt: alt}
}

func (p *parser) parseFor() ast.Stmt {
	start := p.tok.Start
	p.next()
	await := false
	if p.isKeyword("await") {
		await = true
		p.next()
	}
	p.expect("(")

	var init ast.Node
	if !p.isPunct(";") {
		p.noIn = true
		switch {
		case p.isKeyword("var"), p.isKeyword("const"):
			init = p.parseVarDecl()
		case p.isKeyword("let") && func() bool {
			t := p.peek()
			return t.Kind == scanner.Ident && !t.Is("in") && !t.Is("of") || t.Is("[") || t.Is("{")
		}():
			init = p.parseVarDecl()
		default:
			init = p.parseExpression()
		}
		p.noIn = false
		if p.isKeyword("of") || p.isKeyword("in") {
			of := p.tok.Value == "of"
			p.next()
			var right ast.Expr
			if of {
				right = p.parseAssign()
			} else {
				right = p.parseExpression()
			}
			p.closeHeader()
			body := p.parseStatement(false)
			return &ast.ForInStmt{Span: p.span(start), Left: init, Right: right, Body: body, Of: of, Await: await}
		}
	}
	p.expect(";")
	var test, update ast.Expr
	if !p.isPunct(";") {
		test = p.parseExpression()
	}
	p.expect(";")
	if !p.isPunct(")") {
		update = p.parseExpression()
	}
	p.closeHeader()
	body := p.parseStatement(false)
	return &ast.ForStmt{Span: p.span(start), Init: init, Test: test, Update: update, Body: body}
}

func (p *parser) parseTry() ast.Stmt {
	start := p.tok.Start
	p.next()
	s := &ast.TryStmt{Block: p.parseBlock()}
	if p.isKeyword("catch") {
		p.next()
		if p.accept("(") {
			s.Param = p.parseBindingTarget()
			if p.typed() {
				if t := p.parseTypeAnnotation(); t != nil {
					setPatternType(s.Param, t)
				}
			}
			p.expect(")")
		}
		s.Handler = p.parseBlock()
	}
	if p.isKeyword("finally") {
		p.next()
		s.Finally = p.parseBlock()
	}
	if s.Handler == nil && s.Finally == nil {
		p.errorAt(p.tok, "missing catch or finally after try")
	}
	s.Span = p.span(start)
	return s
}

func (p *parser) parseSwitch() ast.Stmt {
	start := p.tok.Start
	p.next()
	p.expect("(")
	disc := p.parseExpression()
	p.expect(")")
	p.expect("{")
	s := &ast.SwitchStmt{Disc: disc}
	for !p.accept("}") {
		cstart := p.tok.Start
		c := &ast.SwitchCase{}
		switch {
		case p.isKeyword("case"):
			p.next()
			c.Test = p.parseExpression()
		case p.isKeyword("default"):
			p.next()
		default:
			p.unexpected()
		}
		p.expect(":")
		for !p.isKeyword("case") && !p.isKeyword("default") && !p.isPunct("}") {
			if p.tok.Kind == scanner.EOF {
				p.unexpected()
			}
			c.Body = append(c.Body, p.parseStatement(false))
		}
		c.Span = p.span(cstart)
		s.Cases = append(s.Cases, c)
	}
	s.Span = p.span(start)
	return s
}

func (p *parser) parseFuncDecl(start int, async, optionalName bool) *ast.FuncDecl {
	fn := p.parseFunction(start, async, optionalName)
	return &ast.FuncDecl{Span: p.span(start), Func: fn}
}

func (p *parser) parseClassDecl(start int, optionalName bool) *ast.ClassDecl {
	c := p.parseClass(start, optionalName)
	return &ast.ClassDecl{Span: p.span(start), Class: c}
}

// --- modules ---

func (p *parser) parseImport() ast.Stmt {
	start := p.tok.Start
	p.next()
	d := &ast.ImportDecl{}
	if p.typed() && p.isKeyword("type") {
		if t := p.peek(); t.Is("{") || t.Is("*") || t.Kind == scanner.Ident && !t.Is("from") {
			d.TypeOnly = true
			p.next()
		}
	}
	if p.tok.Kind != scanner.String {
		if p.tok.Kind == scanner.Ident {
			local := p.bindingName()
			d.Specifiers = append(d.Specifiers, &ast.ImportSpec{
				Span: local.Span, Kind: ast.ImportDefault, Imported: "default", Local: local,
			})
		}
		if len(d.Specifiers) == 0 || p.accept(",") {
			p.parseImportClause(d)
		}
		p.expectKeyword("from")
	}
	d.Source = p.parseModuleSource()
	p.skipImportAttributes()
	p.semicolon()
	d.Span = p.span(start)
	return d
}

// parseImportClause parses `* as ns` or `{ a, b as c }`.
func (p *parser) parseImportClause(d *ast.ImportDecl) {
	switch {
	case p.isPunct("*"):
		start := p.tok.Start
		p.next()
		p.expectKeyword("as")
		local := p.bindingName()
		d.Specifiers = append(d.Specifiers, &ast.ImportSpec{
			Span: p.span(start), Kind: ast.ImportNamespace, Local: local,
		})
	case p.isPunct("{"):
		p.next()
		for !p.accept("}") {
			d.Specifiers = append(d.Specifiers, p.parseImportSpec())
			if !p.isPunct("}") {
				p.expect(",")
			}
		}
	default:
		p.unexpected()
	}
}

func (p *parser) parseImportSpec() *ast.ImportSpec {
	start := p.tok.Start
	s := &ast.ImportSpec{Kind: ast.ImportNamed}
	if p.typed() && p.isKeyword("type") {
		if t := p.peek(); t.Kind == scanner.Ident || t.Kind == scanner.String {
			s.TypeOnly = true
			p.next()
		}
	}
	var imported scanner.Token
	switch p.tok.Kind {
	case scanner.String, scanner.Ident:
		imported = p.tok
		s.Imported = p.tok.Value
		p.next()
	default:
		p.unexpected()
	}
	if p.isKeyword("as") {
		p.next()
		s.Local = p.bindingName()
	} else {
		if imported.Kind == scanner.String || scanner.IsReserved(imported.Value) {
			p.errorAt(imported, "expected binding name, found %s", imported)
		}
		s.Local = &ast.BindingIdent{Span: ast.Span{Start: imported.Start, Stop: imported.End}, Name: imported.Value}
	}
	s.Span = p.span(start)
	return s
}

func (p *parser) parseModuleSource() *ast.StringLit {
	if p.tok.Kind != scanner.String {
		p.errorAt(p.tok, "expected module specifier, found %s", p.tok)
	}
	lit := &ast.StringLit{Span: ast.Span{Start: p.tok.Start, Stop: p.tok.End}, Value: p.tok.Value, Raw: p.tok.Raw}
	p.next()
	return lit
}

// skipImportAttributes skips `with { type: "json" }` and the older
// `assert { ... }` form.
func (p *parser) skipImportAttributes() {
	if (p.isKeyword("with") || p.isKeyword("assert")) && !p.tok.NewlineBefore && p.peek().Is("{") {
		p.next()
		p.skipBalanced()
	}
}

func (p *parser) parseExport() ast.Stmt {
	start := p.tok.Start
	p.next()
	switch {
	case p.isKeyword("default"):
		p.next()
		var decl ast.Node
		dstart := p.tok.Start
		switch {
		case p.isKeyword("function"):
			decl = p.parseFuncDecl(dstart, false, true)
		case p.isKeyword("async") && p.peek().Is("function") && !p.peek().NewlineBefore:
			p.next()
			decl = p.parseFuncDecl(dstart, true, true)
		case p.isKeyword("class"):
			decl = p.parseClassDecl(dstart, true)
		case p.typed() && p.isKeyword("abstract") && p.peek().Is("class"):
			p.next()
			decl = p.parseClassDecl(dstart, true)
		case p.typed() && p.isKeyword("interface"):
			decl = p.parseTypeScriptDecl()
		default:
			decl = p.parseAssign()
			p.semicolon()
		}
		return &ast.ExportDefaultDecl{Span: p.span(start), Decl: decl}

	case p.isPunct("*"):
		p.next()
		d := &ast.ExportAllDecl{}
		if p.isKeyword("as") {
			p.next()
			d.Exported = p.exportName()
		}
		p.expectKeyword("from")
		d.Source = p.parseModuleSource()
		p.skipImportAttributes()
		p.semicolon()
		d.Span = p.span(start)
		return d

	case p.isPunct("{"), p.typed() && p.isKeyword("type") && p.peek().Is("{"):
		d := &ast.ExportNamedDecl{}
		if p.isKeyword("type") {
			d.TypeOnly = true
			p.next()
		}
		p.expect("{")
		for !p.accept("}") {
			sstart := p.tok.Start
			if p.typed() && p.isKeyword("type") {
				if t := p.peek(); t.Kind == scanner.Ident || t.Kind == scanner.String {
					p.next()
				}
			}
			local := p.exportName()
			exported := local
			if p.isKeyword("as") {
				p.next()
				exported = p.exportName()
			}
			d.Specifiers = append(d.Specifiers, &ast.ExportSpec{Span: p.span(sstart), Local: local, Exported: exported})
			if !p.isPunct("}") {
				p.expect(",")
			}
		}
		if p.isKeyword("from") {
			p.next()
			d.Source = p.parseModuleSource()
			p.skipImportAttributes()
		}
		p.semicolon()
		d.Span = p.span(start)
		return d

	case p.typed() && p.isPunct("="):
		// export = x; has no module semantics here.
		p.next()
		p.parseExpression()
		p.semicolon()
		return &ast.TypeDecl{Span: p.span(start), Kind: "export="}
	}

	decl := p.parseStatement(false)
	switch decl.(type) {
	case *ast.VarDecl, *ast.FuncDecl, *ast.ClassDecl, *ast.TypeDecl, *ast.EnumDecl:
	default:
		p.errorAt(p.prev, "unexpected export")
	}
	return &ast.ExportNamedDecl{Span: p.span(start), Decl: decl}
}

func (p *parser) exportName() string {
	if p.tok.Kind == scanner.String || p.tok.Kind == scanner.Ident {
		name := p.tok.Value
		p.next()
		return name
	}
	p.errorAt(p.tok, "expected export name, found %s", p.tok)
	return ""
}

// --- bindings ---

// parseBindingTarget parses an identifier, array pattern or object pattern.
func (p *parser) parseBindingTarget() ast.Pattern {
	start := p.tok.Start
	switch {
	case p.isPunct("["):
		p.next()
		ap := &ast.ArrayPattern{}
		for !p.accept("]") {
			if p.isPunct(",") {
				p.next()
				ap.Elems = append(ap.Elems, nil)
				continue
			}
			if p.isPunct("...") {
				rstart := p.tok.Start
				p.next()
				target := p.parseBindingTarget()
				ap.Elems = append(ap.Elems, &ast.RestPattern{Span: p.span(rstart), Target: target})
			} else {
				ap.Elems = append(ap.Elems, p.parseBindingElement())
			}
			if !p.isPunct("]") {
				p.expect(",")
			}
		}
		ap.Span = p.span(start)
		return ap
	case p.isPunct("{"):
		p.next()
		op := &ast.ObjectPattern{}
		for !p.accept("}") {
			if p.isPunct("...") {
				rstart := p.tok.Start
				p.next()
				target := p.parseBindingTarget()
				op.Rest = &ast.RestPattern{Span: p.span(rstart), Target: target}
			} else {
				op.Props = append(op.Props, p.parsePatternProp())
			}
			if !p.isPunct("}") {
				p.expect(",")
			}
		}
		op.Span = p.span(start)
		return op
	}
	return p.bindingName()
}

func (p *parser) parsePatternProp() *ast.PatternProp {
	start := p.tok.Start
	keyTok := p.tok
	key := p.parsePropKey()
	if p.accept(":") {
		value := p.parseBindingElement()
		return &ast.PatternProp{Span: p.span(start), Key: key, Value: value}
	}
	if key.Computed != nil || keyTok.Kind != scanner.Ident || scanner.IsReserved(keyTok.Value) {
		p.errorAt(keyTok, "expected binding name, found %s", keyTok)
	}
	var value ast.Pattern = &ast.BindingIdent{Span: ast.Span{Start: keyTok.Start, Stop: keyTok.End}, Name: key.Name}
	if p.accept("=") {
		def := p.parseAssign()
		value = &ast.AssignPattern{Span: p.span(start), Target: value, Default: def}
	}
	return &ast.PatternProp{Span: p.span(start), Key: key, Value: value}
}

// parseBindingElement parses a binding target with an optional default.
func (p *parser) parseBindingElement() ast.Pattern {
	start := p.tok.Start
	target := p.parseBindingTarget()
	if p.accept("=") {
		def := p.parseAssign()
		return &ast.AssignPattern{Span: p.span(start), Target: target, Default: def}
	}
	return target
}

// parseParams parses a parenthesized parameter list.
func (p *parser) parseParams() []ast.Pattern {
	p.expect("(")
	defer p.allowIn()()
	var params []ast.Pattern
	for !p.accept(")") {
		params = append(params, p.parseParam())
		if !p.isPunct(")") {
			p.expect(",")
		}
	}
	return params
}

func (p *parser) parseParam() ast.Pattern {
	start := p.tok.Start
	p.skipDecorators()
	var modifiers []string
	if p.typed() {
		for p.tok.Kind == scanner.Ident && paramModifiers[p.tok.Value] {
			if t := p.peek(); t.Kind != scanner.Ident && !t.Is("{") && !t.Is("[") {
				break
			}
			modifiers = append(modifiers, p.tok.Value)
			p.next()
		}
	}
	var param ast.Pattern
	if p.isPunct("...") {
		p.next()
		target := p.parseBindingTarget()
		p.parseParamType(target)
		param = &ast.RestPattern{Span: p.span(start), Target: target}
	} else {
		target := p.parseBindingTarget()
		p.parseParamType(target)
		param = target
		if p.accept("=") {
			def := p.parseAssign()
			param = &ast.AssignPattern{Span: p.span(start), Target: target, Default: def}
		}
	}
	if len(modifiers) > 0 {
		param = &ast.ParamProp{Span: p.span(start), Modifiers: modifiers, Param: param}
	}
	return param
}

// parseParamType parses `?` and `: T` after a typed parameter.
func (p *parser) parseParamType(target ast.Pattern) {
	if !p.typed() {
		return
	}
	if p.accept("?") {
		if b, ok := target.(*ast.BindingIdent); ok {
			b.Optional = true
		}
	}
	if t := p.parseTypeAnnotation(); t != nil {
		setPatternType(target, t)
	}
}

var paramModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "readonly": true, "override": true,
}

func setPatternType(pat ast.Pattern, t *ast.TypeAnnotation) {
	switch pat := pat.(type) {
	case *ast.BindingIdent:
		pat.Type = t
		pat.Stop = t.Stop
	case *ast.ArrayPattern:
		pat.Type = t
		pat.Stop = t.Stop
	case *ast.ObjectPattern:
		pat.Type = t
		pat.Stop = t.Stop
	}
}

// --- functions and classes ---

// parseFunction parses `function [*] name (params) body` with the current
// token on the function keyword.
func (p *parser) parseFunction(start int, async, optionalName bool) *ast.Func {
	p.expectKeyword("function")
	fn := &ast.Func{Async: async}
	if p.accept("*") {
		fn.Generator = true
	}
	if p.tok.Kind == scanner.Ident {
		fn.Name = p.bindingName()
	} else if !optionalName {
		p.errorAt(p.tok, "expected function name, found %s", p.tok)
	}
	p.parseFuncRest(fn)
	fn.Span = p.span(start)
	return fn
}

// parseFuncRest parses type parameters, parameters, return type and body.
func (p *parser) parseFuncRest(fn *ast.Func) {
	if p.typed() && p.isPunct("<") {
		fn.TypeParams = p.parseTypeParams()
	}
	savedGen, savedAsync := p.inGenerator, p.inAsync
	p.inGenerator, p.inAsync = fn.Generator, fn.Async
	fn.Params = p.parseParams()
	if p.typed() {
		fn.ReturnType = p.parseTypeAnnotation()
	}
	if p.typed() && !p.isPunct("{") {
		// Overload signature or abstract method.
		p.semicolon()
	} else {
		restore := p.allowIn()
		fn.Body = p.parseBlock()
		restore()
	}
	p.inGenerator, p.inAsync = savedGen, savedAsync
}

// parseClass parses a class with the current token on the class keyword.
func (p *parser) parseClass(start int, optionalName bool) *ast.Class {
	p.expectKeyword("class")
	c := &ast.Class{}
	if p.tok.Kind == scanner.Ident && !p.isKeyword("extends") && !p.isKeyword("implements") {
		c.Name = p.bindingName()
	} else if !optionalName {
		p.errorAt(p.tok, "expected class name, found %s", p.tok)
	}
	if p.typed() && p.isPunct("<") {
		c.TypeParams = p.parseTypeParams()
	}
	if p.isKeyword("extends") {
		p.next()
		c.Super = p.parseLeftHandSide()
		if p.typed() && p.isPunct("<") {
			p.parseTypeArgs()
		}
	}
	if p.typed() && p.isKeyword("implements") {
		istart := p.tok.End
		p.next()
		for {
			p.skipType()
			if !p.accept(",") {
				break
			}
		}
		c.Implements = &ast.TypeAnnotation{Span: ast.Span{Start: istart, Stop: p.prev.End}, Raw: p.src[istart:p.prev.End]}
	}
	p.expect("{")
	restore := p.allowIn()
	for !p.accept("}") {
		if p.tok.Kind == scanner.EOF {
			p.unexpected()
		}
		if m := p.parseClassMember(); m != nil {
			c.Members = append(c.Members, m)
		}
	}
	restore()
	c.Span = p.span(start)
	return c
}

var classModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "readonly": true,
	"abstract": true, "override": true, "declare": true, "accessor": true,
}

// modifierApplies reports whether the identifier at the current token is a
// modifier rather than the member name.
func (p *parser) modifierApplies() bool {
	t := p.peek()
	if t.Kind == scanner.EOF {
		return false
	}
	if t.Kind == scanner.Punct {
		switch t.Value {
		case "(", "=", ";", "}", ":", "?", "!", "<", ",":
			return false
		}
	}
	return true
}

func (p *parser) parseClassMember() *ast.ClassMember {
	start := p.tok.Start
	if p.accept(";") {
		return nil
	}
	p.skipDecorators()
	m := &ast.ClassMember{Kind: ast.MemberField}
	p.skipClassModifiers()
	if p.isKeyword("static") && p.modifierApplies() {
		p.next()
		m.Static = true
		if p.isPunct("{") {
			m.Kind = ast.MemberStaticBlock
			m.Block = p.parseBlock()
			m.Span = p.span(start)
			return m
		}
		p.skipClassModifiers()
	}
	if p.typed() && p.isPunct("[") && p.isIndexSignature() {
		p.skipBalanced()
		p.parseTypeAnnotation()
		p.semicolon()
		return nil
	}
	async, gen := false, false
	if p.isKeyword("async") && p.modifierApplies() && !p.peek().NewlineBefore {
		async = true
		p.next()
	}
	if p.accept("*") {
		gen = true
	}
	kind := ast.MemberMethod
	if (p.isKeyword("get") || p.isKeyword("set")) && p.modifierApplies() {
		kind = ast.MemberGetter
		if p.tok.Value == "set" {
			kind = ast.MemberSetter
		}
		p.next()
	}
	m.Key = p.parsePropKey()
	if p.typed() && (p.isPunct("?") || p.isPunct("!")) {
		p.next()
	}
	if p.isPunct("(") || p.isPunct("<") {
		fstart := p.tok.Start
		fn := &ast.Func{Async: async, Generator: gen}
		p.parseFuncRest(fn)
		fn.Span = p.span(fstart)
		if kind == ast.MemberMethod && m.Key.Computed == nil && m.Key.Name == "constructor" && !m.Static {
			kind = ast.MemberConstructor
		}
		m.Kind = kind
		m.Value = &ast.FuncExpr{Span: fn.Span, Func: fn}
		m.Span = p.span(start)
		return m
	}
	if async || gen || kind != ast.MemberMethod {
		p.unexpected()
	}
	if p.typed() {
		m.Type = p.parseTypeAnnotation()
	}
	if p.accept("=") {
		m.Value = p.parseAssign()
	}
	p.semicolon()
	m.Span = p.span(start)
	return m
}

func (p *parser) skipClassModifiers() {
	for p.typed() && p.tok.Kind == scanner.Ident && classModifiers[p.tok.Value] && p.modifierApplies() {
		p.next()
	}
}

// isIndexSignature reports whether the current '[' starts `[key: T]`.
func (p *parser) isIndexSignature() bool {
	s := p.save()
	defer p.restore(s)
	p.next()
	if p.tok.Kind != scanner.Ident {
		return false
	}
	p.next()
	return p.isPunct(":")
}

// skipDecorators skips @expr decorators; they have no effect on analysis.
func (p *parser) skipDecorators() {
	for p.isPunct("@") {
		p.next()
		p.parseLeftHandSide()
	}
}
