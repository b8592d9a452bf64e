package ast

// Visitor is called by Walk for each node. If Visit returns a non-nil
// visitor w, Walk visits the children of n with w, followed by a call of
// w.Visit(nil).
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. Synthetic nodes with no
// runtime meaning (*TypeAnnotation, *TypeDecl, *JSXName, *JSXText) are
// visited but have no children, so every walker handles trees from any
// grammar variant the same way.
func Walk(v Visitor, n Node) {
	if v = v.Visit(n); v == nil {
		return
	}

	switch n := n.(type) {
	case *Program:
		walkStmts(v, n.Body)

	// statements
	case *ExprStmt:
		Walk(v, n.X)
	case *VarDecl:
		for _, d := range n.Decls {
			Walk(v, d)
		}
	case *Declarator:
		Walk(v, n.Target)
		walkExpr(v, n.Init)
	case *FuncDecl:
		Walk(v, n.Func)
	case *ClassDecl:
		Walk(v, n.Class)
	case *ReturnStmt:
		walkExpr(v, n.Value)
	case *IfStmt:
		Walk(v, n.Test)
		Walk(v, n.Cons)
		if n.Alt != nil {
			Walk(v, n.Alt)
		}
	case *ForStmt:
		if n.Init != nil {
			Walk(v, n.Init)
		}
		walkExpr(v, n.Test)
		walkExpr(v, n.Update)
		Walk(v, n.Body)
	case *ForInStmt:
		Walk(v, n.Left)
		Walk(v, n.Right)
		Walk(v, n.Body)
	case *WhileStmt:
		Walk(v, n.Test)
		Walk(v, n.Body)
	case *DoWhileStmt:
		Walk(v, n.Body)
		Walk(v, n.Test)
	case *BlockStmt:
		walkStmts(v, n.List)
	case *ThrowStmt:
		Walk(v, n.X)
	case *TryStmt:
		Walk(v, n.Block)
		if n.Param != nil {
			Walk(v, n.Param)
		}
		if n.Handler != nil {
			Walk(v, n.Handler)
		}
		if n.Finally != nil {
			Walk(v, n.Finally)
		}
	case *SwitchStmt:
		Walk(v, n.Disc)
		for _, c := range n.Cases {
			Walk(v, c)
		}
	case *SwitchCase:
		walkExpr(v, n.Test)
		walkStmts(v, n.Body)
	case *LabeledStmt:
		Walk(v, n.Body)
	case *ImportDecl:
		for _, s := range n.Specifiers {
			Walk(v, s)
		}
		Walk(v, n.Source)
	case *ImportSpec:
		Walk(v, n.Local)
	case *ExportNamedDecl:
		if n.Decl != nil {
			Walk(v, n.Decl)
		}
		for _, s := range n.Specifiers {
			Walk(v, s)
		}
		if n.Source != nil {
			Walk(v, n.Source)
		}
	case *ExportDefaultDecl:
		Walk(v, n.Decl)
	case *ExportAllDecl:
		Walk(v, n.Source)
	case *EnumDecl:
		Walk(v, n.Name)
		for _, m := range n.Members {
			Walk(v, m)
		}
	case *EnumMember:
		walkExpr(v, n.Init)

	// functions and classes
	case *Func:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		walkType(v, n.TypeParams)
		for _, p := range n.Params {
			Walk(v, p)
		}
		walkType(v, n.ReturnType)
		if n.Body != nil {
			Walk(v, n.Body)
		}
		walkExpr(v, n.ExprBody)
	case *Class:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		walkType(v, n.TypeParams)
		walkExpr(v, n.Super)
		walkType(v, n.Implements)
		for _, m := range n.Members {
			Walk(v, m)
		}
	case *ClassMember:
		walkExpr(v, n.Key.Computed)
		walkType(v, n.Type)
		walkExpr(v, n.Value)
		if n.Block != nil {
			Walk(v, n.Block)
		}

	// patterns
	case *BindingIdent:
		walkType(v, n.Type)
	case *ArrayPattern:
		for _, e := range n.Elems {
			if e != nil {
				Walk(v, e)
			}
		}
		walkType(v, n.Type)
	case *ObjectPattern:
		for _, p := range n.Props {
			Walk(v, p)
		}
		if n.Rest != nil {
			Walk(v, n.Rest)
		}
		walkType(v, n.Type)
	case *PatternProp:
		walkExpr(v, n.Key.Computed)
		Walk(v, n.Value)
	case *AssignPattern:
		Walk(v, n.Target)
		Walk(v, n.Default)
	case *RestPattern:
		Walk(v, n.Target)
	case *ExprPattern:
		Walk(v, n.X)
	case *ParamProp:
		Walk(v, n.Param)

	// expressions
	case *TemplateLit:
		walkExprs(v, n.Exprs)
	case *TaggedTemplate:
		Walk(v, n.Tag)
		Walk(v, n.Quasi)
	case *ArrayLit:
		walkExprs(v, n.Elems)
	case *ObjectLit:
		for _, p := range n.Props {
			Walk(v, p)
		}
	case *Property:
		walkExpr(v, n.Key.Computed)
		walkExpr(v, n.Value)
	case *FuncExpr:
		Walk(v, n.Func)
	case *ArrowFunc:
		Walk(v, n.Func)
	case *ClassExpr:
		Walk(v, n.Class)
	case *UnaryExpr:
		Walk(v, n.X)
	case *UpdateExpr:
		Walk(v, n.X)
	case *BinaryExpr:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *AssignExpr:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *CondExpr:
		Walk(v, n.Test)
		Walk(v, n.Cons)
		Walk(v, n.Alt)
	case *CallExpr:
		Walk(v, n.Callee)
		walkType(v, n.TypeArgs)
		walkExprs(v, n.Args)
	case *NewExpr:
		Walk(v, n.Callee)
		walkType(v, n.TypeArgs)
		walkExprs(v, n.Args)
	case *DotExpr:
		Walk(v, n.X)
		Walk(v, n.Sel)
	case *IndexExpr:
		Walk(v, n.X)
		Walk(v, n.Index)
	case *SpreadElem:
		Walk(v, n.X)
	case *SeqExpr:
		walkExprs(v, n.List)
	case *ParenExpr:
		Walk(v, n.X)
	case *AwaitExpr:
		Walk(v, n.X)
	case *YieldExpr:
		walkExpr(v, n.X)
	case *ImportCall:
		Walk(v, n.Arg)
	case *AsExpr:
		Walk(v, n.X)
		walkType(v, n.Type)
	case *NonNullExpr:
		Walk(v, n.X)

	// JSX
	case *JSXElement:
		walkExpr(v, n.Name)
		for _, a := range n.Attrs {
			Walk(v, a)
		}
		walkExprs(v, n.Children)
	case *JSXAttr:
		walkExpr(v, n.Value)
		walkExpr(v, n.Spread)
	case *JSXExprContainer:
		walkExpr(v, n.X)

		// leaves: *Ident, literals, *ThisExpr, *SuperExpr, *MetaProp,
		// *EmptyStmt, *DebuggerStmt, *BranchStmt, *TypeDecl,
		// *TypeAnnotation, *JSXName, *JSXText, *ExportSpec
	}

	v.Visit(nil)
}

func walkStmts(v Visitor, list []Stmt) {
	for _, s := range list {
		Walk(v, s)
	}
}

func walkExprs(v Visitor, list []Expr) {
	for _, e := range list {
		if e != nil {
			Walk(v, e)
		}
	}
}

func walkExpr(v Visitor, e Expr) {
	if e != nil {
		Walk(v, e)
	}
}

func walkType(v Visitor, t *TypeAnnotation) {
	if t != nil {
		Walk(v, t)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if n != nil && f(n) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order, calling f for each node.
// If f returns false, the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}
