package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ident(name string) *Ident { return &Ident{Name: name} }

func TestInspectVisitsIdentifiers(t *testing.T) {
	// ns.hack(target) inside if (x) { ... }
	call := &CallExpr{
		Callee: &DotExpr{X: ident("ns"), Sel: ident("hack")},
		Args:   []Expr{ident("target")},
	}
	prog := &Program{Body: []Stmt{
		&IfStmt{Test: ident("x"), Cons: &BlockStmt{List: []Stmt{&ExprStmt{X: call}}}},
	}}

	var names []string
	Inspect(prog, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	assert.Equal(t, []string{"x", "ns", "hack", "target"}, names)
}

func TestInspectSkipsChildren(t *testing.T) {
	fn := &FuncDecl{Func: &Func{
		Name: &BindingIdent{Name: "f"},
		Body: &BlockStmt{List: []Stmt{&ExprStmt{X: ident("inner")}}},
	}}
	prog := &Program{Body: []Stmt{fn, &ExprStmt{X: ident("outer")}}}

	var names []string
	Inspect(prog, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		_, isFunc := n.(*FuncDecl)
		return !isFunc
	})
	assert.Equal(t, []string{"outer"}, names)
}

func TestWalkPassesThroughSyntheticNodes(t *testing.T) {
	typ := &TypeAnnotation{Raw: "number"}
	el := &JSXElement{
		Name:     &JSXName{Name: "div"},
		Attrs:    []*JSXAttr{{Name: "onClick", Value: &JSXExprContainer{X: ident("handler")}}},
		Children: []Expr{&JSXText{Value: "hi"}, &JSXElement{Name: ident("Widget")}},
	}
	prog := &Program{Body: []Stmt{
		&TypeDecl{Kind: "interface", Name: "Opts"},
		&VarDecl{Kind: "const", Decls: []*Declarator{{
			Target: &BindingIdent{Name: "v", Type: typ},
			Init:   &AsExpr{X: el, Type: typ},
		}}},
	}}

	var names []string
	count := map[string]int{}
	Inspect(prog, func(n Node) bool {
		switch n := n.(type) {
		case *Ident:
			names = append(names, n.Name)
		case *TypeAnnotation:
			count["type"]++
		case *TypeDecl:
			count["decl"]++
		}
		return true
	})
	assert.Equal(t, []string{"handler", "Widget"}, names)
	assert.Equal(t, 2, count["type"])
	assert.Equal(t, 1, count["decl"])
}

type depth struct {
	cur, max *int
}

func (d depth) Visit(n Node) Visitor {
	if n == nil {
		*d.cur--
		return nil
	}
	*d.cur++
	if *d.cur > *d.max {
		*d.max = *d.cur
	}
	return d
}

func TestWalkBalancesNilVisits(t *testing.T) {
	prog := &Program{Body: []Stmt{
		&WhileStmt{Test: &BoolLit{Value: true}, Body: &BlockStmt{List: []Stmt{
			&ExprStmt{X: &AwaitExpr{X: ident("p")}},
		}}},
	}}
	cur, deepest := 0, 0
	Walk(depth{&cur, &deepest}, prog)
	assert.Equal(t, 0, cur)
	// Program, While, Block, ExprStmt, Await, Ident
	assert.Equal(t, 6, deepest)
}

func TestProgramLines(t *testing.T) {
	src := "a\r\nb\nc"
	prog := NewProgram("x.js", src, nil)
	assert.Equal(t, 1, prog.Line(0))
	assert.Equal(t, 2, prog.Line(3))
	assert.Equal(t, 3, prog.Line(5))
	assert.Equal(t, "b", prog.Text(&Ident{Span: Span{3, 4}}))
	assert.Equal(t, "", prog.Text(&Ident{Span: Span{5, 50}}))
}
