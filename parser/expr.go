package parser

import (
	"strconv"
	"strings"

	"github.com/rubiojr/netscript/ast"
	"github.com/rubiojr/netscript/scanner"
)

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, ">>>=": true, "&=": true, "|=": true,
	"^=": true, "&&=": true, "||=": true, "??=": true,
}

var binaryPrec = map[string]int{
	"??": 1, "||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6, "===": 6, "!==": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
	"**": 11,
}

const relationalPrec = 7

func (p *parser) parseExpression() ast.Expr {
	start := p.tok.Start
	x := p.parseAssign()
	if !p.isPunct(",") {
		return x
	}
	list := []ast.Expr{x}
	for p.accept(",") {
		list = append(list, p.parseAssign())
	}
	return &ast.SeqExpr{Span: p.span(start), List: list}
}

func (p *parser) parseAssign() ast.Expr {
	if p.inGenerator && p.isKeyword("yield") {
		return p.parseYield()
	}
	if arrow := p.tryArrow(); arrow != nil {
		return arrow
	}
	start := p.tok.Start
	x := p.parseConditional()
	if p.tok.Kind == scanner.Punct && assignOps[p.tok.Value] {
		op := p.tok.Value
		p.next()
		value := p.parseAssign()
		return &ast.AssignExpr{Span: p.span(start), Op: op, Target: x, Value: value}
	}
	return x
}

func (p *parser) parseYield() ast.Expr {
	start := p.tok.Start
	p.next()
	y := &ast.YieldExpr{}
	switch {
	case p.accept("*"):
		y.Delegate = true
		y.X = p.parseAssign()
	case !p.tok.NewlineBefore && startsExpr(p.tok):
		y.X = p.parseAssign()
	}
	y.Span = p.span(start)
	return y
}

func startsExpr(t scanner.Token) bool {
	if t.Kind == scanner.EOF {
		return false
	}
	if t.Kind == scanner.Punct {
		switch t.Value {
		case ")", "]", "}", ",", ";", ":":
			return false
		}
	}
	return true
}

// tryArrow parses an arrow function if one starts at the current token and
// returns nil otherwise, leaving the parser untouched.
func (p *parser) tryArrow() ast.Expr {
	start := p.tok.Start
	async := false
	switch {
	case p.tok.Kind == scanner.Ident && !scanner.IsReserved(p.tok.Value):
		t := p.peek()
		if t.Is("=>") && !t.NewlineBefore {
			param := p.bindingName()
			p.next()
			return p.parseArrowBody(start, &ast.Func{Arrow: true, Params: []ast.Pattern{param}})
		}
		if p.tok.Value != "async" || t.NewlineBefore {
			return nil
		}
		if !t.Is("(") && !(t.Kind == scanner.Ident && !scanner.IsReserved(t.Value)) && !(p.typed() && t.Is("<")) {
			return nil
		}
		async = true
	case p.isPunct("("), p.typed() && p.isPunct("<"):
	default:
		return nil
	}

	fn := &ast.Func{Arrow: true, Async: async}
	ok := p.try(func() {
		if async {
			p.next()
		}
		if async && p.tok.Kind == scanner.Ident {
			fn.Params = []ast.Pattern{p.bindingName()}
		} else {
			if p.typed() && p.isPunct("<") {
				fn.TypeParams = p.parseTypeParams()
			}
			fn.Params = p.parseParams()
			if p.typed() {
				fn.ReturnType = p.parseTypeAnnotation()
			}
		}
		if !p.isPunct("=>") || p.tok.NewlineBefore {
			p.unexpected()
		}
	})
	if !ok {
		return nil
	}
	p.next()
	return p.parseArrowBody(start, fn)
}

func (p *parser) parseArrowBody(start int, fn *ast.Func) ast.Expr {
	savedGen, savedAsync := p.inGenerator, p.inAsync
	p.inGenerator, p.inAsync = false, fn.Async
	if p.isPunct("{") {
		restore := p.allowIn()
		fn.Body = p.parseBlock()
		restore()
	} else {
		fn.ExprBody = p.parseAssign()
	}
	p.inGenerator, p.inAsync = savedGen, savedAsync
	fn.Span = p.span(start)
	return &ast.ArrowFunc{Span: fn.Span, Func: fn}
}

func (p *parser) parseConditional() ast.Expr {
	start := p.tok.Start
	test := p.parseBinary(1)
	if !p.isPunct("?") {
		return test
	}
	p.next()
	restore := p.allowIn()
	cons := p.parseAssign()
	restore()
	p.expect(":")
	alt := p.parseAssign()
	return &ast.CondExpr{Span: p.span(start), Test: test, Cons: cons, Alt: alt}
}

func (p *parser) binaryOp() (string, int) {
	switch p.tok.Kind {
	case scanner.Punct:
		return p.tok.Value, binaryPrec[p.tok.Value]
	case scanner.Ident:
		switch v := p.tok.Value; v {
		case "instanceof":
			return v, relationalPrec
		case "in":
			if !p.noIn {
				return v, relationalPrec
			}
		case "as", "satisfies":
			if p.typed() && !p.tok.NewlineBefore {
				return v, relationalPrec
			}
		}
	}
	return "", 0
}

// parseBinary parses binary operators of precedence minPrec and above.
func (p *parser) parseBinary(minPrec int) ast.Expr {
	start := p.tok.Start
	x := p.parseUnary()
	for {
		op, prec := p.binaryOp()
		if prec == 0 || prec < minPrec {
			return x
		}
		p.next()
		if op == "as" || op == "satisfies" {
			t := p.parseType()
			x = &ast.AsExpr{Span: p.span(start), X: x, Type: t, Satisfies: op == "satisfies"}
			continue
		}
		next := prec + 1
		if op == "**" {
			next = prec
		}
		y := p.parseBinary(next)
		x = &ast.BinaryExpr{Span: p.span(start), Op: op, X: x, Y: y}
	}
}

func (p *parser) parseUnary() ast.Expr {
	start := p.tok.Start
	switch p.tok.Kind {
	case scanner.Punct:
		switch op := p.tok.Value; op {
		case "!", "~", "+", "-":
			p.next()
			x := p.parseUnary()
			return &ast.UnaryExpr{Span: p.span(start), Op: op, X: x}
		case "++", "--":
			p.next()
			x := p.parseUnary()
			return &ast.UpdateExpr{Span: p.span(start), Op: op, Prefix: true, X: x}
		case "<":
			if p.typed() && !p.jsx() {
				t := p.parseTypeArgs()
				x := p.parseUnary()
				return &ast.AsExpr{Span: p.span(start), X: x, Type: t}
			}
		}
	case scanner.Ident:
		switch op := p.tok.Value; op {
		case "typeof", "void", "delete":
			p.next()
			x := p.parseUnary()
			return &ast.UnaryExpr{Span: p.span(start), Op: op, X: x}
		case "await":
			if t := p.peek(); p.inAsync || startsExpr(t) && !t.Is("=>") {
				p.next()
				x := p.parseUnary()
				return &ast.AwaitExpr{Span: p.span(start), X: x}
			}
		}
	}
	x := p.parseLeftHandSide()
	if (p.isPunct("++") || p.isPunct("--")) && !p.tok.NewlineBefore {
		op := p.tok.Value
		p.next()
		return &ast.UpdateExpr{Span: p.span(start), Op: op, X: x}
	}
	return x
}

// parseLeftHandSide parses member accesses, calls and new expressions.
func (p *parser) parseLeftHandSide() ast.Expr {
	start := p.tok.Start
	var x ast.Expr
	if p.isKeyword("new") {
		x = p.parseNew()
	} else {
		x = p.parsePrimary()
	}
	return p.parseCallTail(start, x, true)
}

func (p *parser) parseNew() ast.Expr {
	start := p.tok.Start
	p.next()
	if p.accept(".") {
		prop := p.parseSelector()
		return &ast.MetaProp{Span: p.span(start), Meta: "new", Prop: prop.Name}
	}
	var callee ast.Expr
	if p.isKeyword("new") {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	callee = p.parseCallTail(start, callee, false)
	n := &ast.NewExpr{Callee: callee}
	if p.typed() && p.isPunct("<") {
		n.TypeArgs = p.tryTypeArgs()
	}
	if p.isPunct("(") {
		n.Args = p.parseArguments()
	}
	n.Span = p.span(start)
	return n
}

// parseCallTail parses the postfix chain after x. Without calls only
// member accesses are taken, as in the callee of a new expression.
func (p *parser) parseCallTail(start int, x ast.Expr, calls bool) ast.Expr {
	for {
		switch {
		case p.isPunct("."):
			p.next()
			sel := p.parseSelector()
			x = &ast.DotExpr{Span: p.span(start), X: x, Sel: sel}
		case p.isPunct("?.") && calls:
			p.next()
			switch {
			case p.isPunct("("):
				args := p.parseArguments()
				x = &ast.CallExpr{Span: p.span(start), Callee: x, Args: args, Optional: true}
			case p.isPunct("["):
				idx := p.parseIndex()
				x = &ast.IndexExpr{Span: p.span(start), X: x, Index: idx, Optional: true}
			default:
				sel := p.parseSelector()
				x = &ast.DotExpr{Span: p.span(start), X: x, Sel: sel, Optional: true}
			}
		case p.isPunct("["):
			idx := p.parseIndex()
			x = &ast.IndexExpr{Span: p.span(start), X: x, Index: idx}
		case p.isPunct("(") && calls:
			args := p.parseArguments()
			x = &ast.CallExpr{Span: p.span(start), Callee: x, Args: args}
		case p.tok.Kind == scanner.NoSubstTemplate, p.tok.Kind == scanner.TemplateHead:
			quasi := p.parseTemplate()
			x = &ast.TaggedTemplate{Span: p.span(start), Tag: x, Quasi: quasi}
		case p.typed() && p.isPunct("!") && !p.tok.NewlineBefore:
			p.next()
			x = &ast.NonNullExpr{Span: p.span(start), X: x}
		case p.typed() && p.isPunct("<") && calls:
			targs := p.tryTypeArgs()
			if targs == nil {
				return x
			}
			if p.isPunct("(") {
				args := p.parseArguments()
				x = &ast.CallExpr{Span: p.span(start), Callee: x, Args: args, TypeArgs: targs}
			}
		default:
			return x
		}
	}
}

// parseSelector parses the property name after '.' or '?.'. Keywords are
// valid property names, and the token after one never starts a regexp.
func (p *parser) parseSelector() *ast.Ident {
	if p.tok.Kind != scanner.Ident && p.tok.Kind != scanner.PrivateName {
		p.errorAt(p.tok, "expected property name, found %s", p.tok)
	}
	id := &ast.Ident{Span: ast.Span{Start: p.tok.Start, Stop: p.tok.End}, Name: p.tok.Value}
	p.nextWith(0)
	return id
}

func (p *parser) parseIndex() ast.Expr {
	p.expect("[")
	restore := p.allowIn()
	idx := p.parseExpression()
	restore()
	p.expect("]")
	return idx
}

func (p *parser) parseArguments() []ast.Expr {
	p.expect("(")
	restore := p.allowIn()
	defer restore()
	var args []ast.Expr
	for !p.accept(")") {
		if p.isPunct("...") {
			start := p.tok.Start
			p.next()
			x := p.parseAssign()
			args = append(args, &ast.SpreadElem{Span: p.span(start), X: x})
		} else {
			args = append(args, p.parseAssign())
		}
		if !p.isPunct(")") {
			p.expect(",")
		}
	}
	return args
}

func (p *parser) parsePrimary() ast.Expr {
	start := p.tok.Start
	tok := p.tok
	switch tok.Kind {
	case scanner.Ident:
		switch tok.Value {
		case "this":
			p.next()
			return &ast.ThisExpr{Span: p.span(start)}
		case "super":
			p.next()
			return &ast.SuperExpr{Span: p.span(start)}
		case "null":
			p.next()
			return &ast.NullLit{Span: p.span(start)}
		case "true", "false":
			p.next()
			return &ast.BoolLit{Span: p.span(start), Value: tok.Value == "true"}
		case "function":
			fn := p.parseFunction(start, false, true)
			return &ast.FuncExpr{Span: fn.Span, Func: fn}
		case "async":
			if t := p.peek(); t.Is("function") && !t.NewlineBefore {
				p.next()
				fn := p.parseFunction(start, true, true)
				return &ast.FuncExpr{Span: fn.Span, Func: fn}
			}
		case "class":
			c := p.parseClass(start, true)
			return &ast.ClassExpr{Span: c.Span, Class: c}
		case "new":
			return p.parseNew()
		case "import":
			return p.parseImportExpr()
		}
		if scanner.IsReserved(tok.Value) {
			p.unexpected()
		}
		p.next()
		return &ast.Ident{Span: p.span(start), Name: tok.Value}

	case scanner.PrivateName:
		// #field in obj
		p.next()
		return &ast.Ident{Span: p.span(start), Name: tok.Value}

	case scanner.Number, scanner.BigInt:
		p.next()
		lit := &ast.NumberLit{Raw: tok.Raw, BigInt: tok.Kind == scanner.BigInt}
		v, err := scanner.NumberValue(strings.TrimSuffix(tok.Raw, "n"))
		if err != nil && !lit.BigInt {
			p.errorAt(tok, "invalid number literal %s", tok.Raw)
		}
		lit.Value = v
		lit.Span = p.span(start)
		return lit

	case scanner.String:
		p.next()
		return &ast.StringLit{Span: p.span(start), Value: tok.Value, Raw: tok.Raw}

	case scanner.NoSubstTemplate, scanner.TemplateHead:
		return p.parseTemplate()

	case scanner.RegExp:
		p.next()
		i := strings.LastIndexByte(tok.Raw, '/')
		return &ast.RegExpLit{Span: p.span(start), Pattern: tok.Raw[1:i], Flags: tok.Raw[i+1:]}

	case scanner.Punct:
		switch tok.Value {
		case "(":
			p.next()
			restore := p.allowIn()
			x := p.parseExpression()
			restore()
			p.expect(")")
			return &ast.ParenExpr{Span: p.span(start), X: x}
		case "[":
			return p.parseArrayLit()
		case "{":
			return p.parseObjectLit()
		case "<":
			if p.jsx() {
				p.nextWith(scanner.JSXName)
				return p.parseJSXElement(start, false)
			}
		}
	}
	p.unexpected()
	return nil
}

// parseImportExpr parses import(specifier) and import.meta.
func (p *parser) parseImportExpr() ast.Expr {
	start := p.tok.Start
	p.next()
	if p.accept(".") {
		prop := p.parseSelector()
		return &ast.MetaProp{Span: p.span(start), Meta: "import", Prop: prop.Name}
	}
	p.expect("(")
	restore := p.allowIn()
	arg := p.parseAssign()
	if p.accept(",") && !p.isPunct(")") {
		// import options are evaluated but do not affect resolution
		p.parseAssign()
		p.accept(",")
	}
	restore()
	p.expect(")")
	return &ast.ImportCall{Span: p.span(start), Arg: arg}
}

func (p *parser) parseTemplate() *ast.TemplateLit {
	start := p.tok.Start
	lit := &ast.TemplateLit{Quasis: []string{p.tok.Value}}
	if p.tok.Kind == scanner.NoSubstTemplate {
		p.next()
		lit.Span = p.span(start)
		return lit
	}
	p.next()
	for {
		restore := p.allowIn()
		x := p.parseExpression()
		restore()
		if !p.isPunct("}") {
			p.errorAt(p.tok, "expected %q, found %s", "}", p.tok)
		}
		tok, err := p.sc.TemplateContinue(p.tok)
		if err != nil {
			p.scanError(err)
		}
		p.setTok(tok)
		lit.Exprs = append(lit.Exprs, x)
		lit.Quasis = append(lit.Quasis, tok.Value)
		if tok.Kind == scanner.TemplateTail {
			break
		}
		p.next()
	}
	p.next()
	lit.Span = p.span(start)
	return lit
}

func (p *parser) parseArrayLit() ast.Expr {
	start := p.tok.Start
	p.next()
	restore := p.allowIn()
	defer restore()
	var elems []ast.Expr
	for !p.accept("]") {
		if p.isPunct(",") {
			p.next()
			elems = append(elems, nil)
			continue
		}
		if p.isPunct("...") {
			sstart := p.tok.Start
			p.next()
			x := p.parseAssign()
			elems = append(elems, &ast.SpreadElem{Span: p.span(sstart), X: x})
		} else {
			elems = append(elems, p.parseAssign())
		}
		if !p.isPunct("]") {
			p.expect(",")
		}
	}
	return &ast.ArrayLit{Span: p.span(start), Elems: elems}
}

func (p *parser) parseObjectLit() ast.Expr {
	start := p.tok.Start
	p.next()
	restore := p.allowIn()
	defer restore()
	var props []*ast.Property
	for !p.accept("}") {
		props = append(props, p.parseProperty())
		if !p.isPunct("}") {
			p.expect(",")
		}
	}
	return &ast.ObjectLit{Span: p.span(start), Props: props}
}

func (p *parser) parseProperty() *ast.Property {
	start := p.tok.Start
	if p.accept("...") {
		x := p.parseAssign()
		return &ast.Property{Span: p.span(start), Kind: ast.PropSpread, Value: x}
	}
	async, gen := false, false
	kind := ast.PropInit
	if p.isKeyword("async") && p.modifierApplies() && !p.peek().NewlineBefore {
		async = true
		p.next()
	}
	if p.accept("*") {
		gen = true
	}
	if !async && !gen && (p.isKeyword("get") || p.isKeyword("set")) && p.modifierApplies() {
		kind = ast.PropGetter
		if p.tok.Value == "set" {
			kind = ast.PropSetter
		}
		p.next()
	}
	keyTok := p.tok
	key := p.parsePropKey()
	if p.isPunct("(") || p.isPunct("<") {
		fstart := p.tok.Start
		fn := &ast.Func{Async: async, Generator: gen}
		p.parseFuncRest(fn)
		fn.Span = p.span(fstart)
		if kind == ast.PropInit {
			kind = ast.PropMethod
		}
		return &ast.Property{Span: p.span(start), Kind: kind, Key: key, Value: &ast.FuncExpr{Span: fn.Span, Func: fn}}
	}
	if async || gen || kind != ast.PropInit {
		p.unexpected()
	}
	if p.accept(":") {
		value := p.parseAssign()
		return &ast.Property{Span: p.span(start), Kind: ast.PropInit, Key: key, Value: value}
	}
	if key.Computed != nil || keyTok.Kind != scanner.Ident || scanner.IsReserved(keyTok.Value) {
		p.errorAt(keyTok, "unexpected token %s", keyTok)
	}
	id := &ast.Ident{Span: ast.Span{Start: keyTok.Start, Stop: keyTok.End}, Name: key.Name}
	var value ast.Expr = id
	if p.accept("=") {
		// {a = 1} is only valid as a destructuring target.
		def := p.parseAssign()
		value = &ast.AssignExpr{Span: p.span(start), Op: "=", Target: id, Value: def}
	}
	return &ast.Property{Span: p.span(start), Kind: ast.PropShorthand, Key: key, Value: value}
}

// parsePropKey parses a property name in an object literal, class body or
// object pattern.
func (p *parser) parsePropKey() ast.PropKey {
	tok := p.tok
	switch tok.Kind {
	case scanner.Ident, scanner.String, scanner.PrivateName:
		p.nextWith(0)
		return ast.PropKey{Name: tok.Value}
	case scanner.Number, scanner.BigInt:
		p.nextWith(0)
		name := tok.Raw
		if v, err := scanner.NumberValue(tok.Raw); err == nil {
			name = strconv.FormatFloat(v, 'f', -1, 64)
		}
		return ast.PropKey{Name: name}
	case scanner.Punct:
		if tok.Value == "[" {
			p.next()
			restore := p.allowIn()
			x := p.parseAssign()
			restore()
			p.expect("]")
			return ast.PropKey{Computed: x}
		}
	}
	p.unexpected()
	return ast.PropKey{}
}
