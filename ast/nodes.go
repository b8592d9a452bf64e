// Package ast declares the syntax tree produced by the parser for every
// supported grammar variant. Trees from plain, typed and JSX sources share
// these node types; syntax that only exists in a variant (type annotations,
// interfaces, markup) is represented by synthetic nodes that walkers pass
// through.
package ast

import "sort"

// Node is the interface for all AST nodes.
type Node interface {
	Pos() int // byte offset of the first character
	End() int // byte offset just past the last character
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmt()
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr()
}

// Pattern is the interface for binding targets (declarations, parameters,
// destructuring).
type Pattern interface {
	Node
	pattern()
}

// Span holds the source range of a node.
type Span struct {
	Start int
	Stop  int
}

func (s Span) Pos() int { return s.Start }
func (s Span) End() int { return s.Stop }

// Program is the root node.
type Program struct {
	Span
	Body   []Stmt
	File   string // display path of the source file
	Source string // source text the tree was parsed from
	lines  []int  // offsets of line starts
}

// NewProgram builds a Program and indexes the line starts of src.
func NewProgram(file, src string, body []Stmt) *Program {
	lines := []int{0}
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\n':
			lines = append(lines, i+1)
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			lines = append(lines, i+1)
		}
	}
	return &Program{Span: Span{0, len(src)}, Body: body, File: file, Source: src, lines: lines}
}

// Line returns the 1-based line number of a byte offset.
func (p *Program) Line(offset int) int {
	return sort.Search(len(p.lines), func(i int) bool { return p.lines[i] > offset })
}

// Text returns the source text covered by n.
func (p *Program) Text(n Node) string {
	if n.Pos() < 0 || n.End() > len(p.Source) || n.Pos() > n.End() {
		return ""
	}
	return p.Source[n.Pos():n.End()]
}

// --- Statements ---

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Span
	X Expr
}

// VarDecl is a var, let or const declaration.
type VarDecl struct {
	Span
	Kind  string // "var", "let", "const"
	Decls []*Declarator
}

// Declarator is one binding of a VarDecl.
type Declarator struct {
	Span
	Target Pattern
	Init   Expr // nil when absent
}

// FuncDecl is a function declaration.
type FuncDecl struct {
	Span
	Func *Func
}

// ClassDecl is a class declaration.
type ClassDecl struct {
	Span
	Class *Class
}

// ReturnStmt is return [value].
type ReturnStmt struct {
	Span
	Value Expr
}

// IfStmt is if (test) cons [else alt].
type IfStmt struct {
	Span
	Test Expr
	Cons Stmt
	Alt  Stmt // nil without else
}

// ForStmt is the three-clause for loop. Init is a *VarDecl or an Expr.
type ForStmt struct {
	Span
	Init   Node
	Test   Expr
	Update Expr
	Body   Stmt
}

// ForInStmt is for-in, for-of and for-await-of. Left is a *VarDecl or an
// Expr.
type ForInStmt struct {
	Span
	Left  Node
	Right Expr
	Body  Stmt
	Of    bool
	Await bool
}

// WhileStmt is while (test) body.
type WhileStmt struct {
	Span
	Test Expr
	Body Stmt
}

// DoWhileStmt is do body while (test).
type DoWhileStmt struct {
	Span
	Body Stmt
	Test Expr
}

// BlockStmt is { list }.
type BlockStmt struct {
	Span
	List []Stmt
}

// EmptyStmt is a lone semicolon.
type EmptyStmt struct {
	Span
}

// DebuggerStmt is the debugger statement.
type DebuggerStmt struct {
	Span
}

// BranchStmt is break or continue.
type BranchStmt struct {
	Span
	Tok   string // "break" or "continue"
	Label string
}

// ThrowStmt is throw x.
type ThrowStmt struct {
	Span
	X Expr
}

// TryStmt is try/catch/finally.
type TryStmt struct {
	Span
	Block   *BlockStmt
	Param   Pattern    // catch binding, nil when omitted
	Handler *BlockStmt // nil without catch
	Finally *BlockStmt // nil without finally
}

// SwitchStmt is switch (disc) { cases }.
type SwitchStmt struct {
	Span
	Disc  Expr
	Cases []*SwitchCase
}

// SwitchCase is one case (Test == nil for default).
type SwitchCase struct {
	Span
	Test Expr
	Body []Stmt
}

// LabeledStmt is label: body.
type LabeledStmt struct {
	Span
	Label string
	Body  Stmt
}

// ImportDecl is a static import declaration.
type ImportDecl struct {
	Span
	Specifiers []*ImportSpec
	Source     *StringLit
	TypeOnly   bool
}

// ImportKind distinguishes the forms of an import specifier.
type ImportKind int

const (
	ImportNamed     ImportKind = iota // import { a as b }
	ImportDefault                     // import a
	ImportNamespace                   // import * as a
)

// ImportSpec is one imported binding.
type ImportSpec struct {
	Span
	Kind     ImportKind
	Imported string // exported name in the source module (named imports)
	Local    *BindingIdent
	TypeOnly bool
}

// ExportNamedDecl is export <decl>, export {a as b} and
// export {a} from "mod".
type ExportNamedDecl struct {
	Span
	Decl       Stmt // nil for the specifier forms
	Specifiers []*ExportSpec
	Source     *StringLit // nil unless re-exporting
	TypeOnly   bool
}

// ExportSpec is one exported name.
type ExportSpec struct {
	Span
	Local    string
	Exported string
}

// ExportDefaultDecl is export default <decl or expression>. Decl is a
// *FuncDecl, *ClassDecl or an Expr.
type ExportDefaultDecl struct {
	Span
	Decl Node
}

// ExportAllDecl is export * [as name] from "mod".
type ExportAllDecl struct {
	Span
	Exported string // empty without "as"
	Source   *StringLit
}

// TypeDecl is a declaration that only exists in the type system
// (interface, type alias, declare ...). Walkers treat it as a no-op.
type TypeDecl struct {
	Span
	Kind string // "interface", "type", "declare", ...
	Name string
}

// EnumDecl is a TypeScript enum, which does produce a runtime value.
type EnumDecl struct {
	Span
	Name    *BindingIdent
	Members []*EnumMember
	Const   bool
}

// EnumMember is one enum entry.
type EnumMember struct {
	Span
	Name string
	Init Expr
}

// --- Functions and classes ---

// Func holds the parts shared by declarations, expressions, arrows and
// methods.
type Func struct {
	Span
	Name       *BindingIdent // nil for anonymous functions
	Async      bool
	Generator  bool
	Arrow      bool
	TypeParams *TypeAnnotation
	Params     []Pattern
	ReturnType *TypeAnnotation
	Body       *BlockStmt // nil for expression-bodied arrows and overload signatures
	ExprBody   Expr       // arrow functions with an expression body
}

// Class holds a class declaration or expression.
type Class struct {
	Span
	Name       *BindingIdent
	TypeParams *TypeAnnotation
	Super      Expr
	Implements *TypeAnnotation
	Members    []*ClassMember
}

// MemberKind classifies class members and object properties.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberMethod
	MemberGetter
	MemberSetter
	MemberConstructor
	MemberStaticBlock
)

// ClassMember is one element of a class body.
type ClassMember struct {
	Span
	Kind   MemberKind
	Static bool
	Key    PropKey
	Value  Expr // *FuncExpr for methods, initializer for fields
	Type   *TypeAnnotation
	Block  *BlockStmt // static initialization block
}

// PropKey is a property name, either literal or computed.
type PropKey struct {
	Name     string
	Computed Expr // non-nil for [expr] keys
}

// --- Patterns ---

// BindingIdent is a name introduced by a declaration or parameter.
type BindingIdent struct {
	Span
	Name     string
	Type     *TypeAnnotation
	Optional bool
}

// ArrayPattern is [a, , b] destructuring. Holes are nil.
type ArrayPattern struct {
	Span
	Elems []Pattern
	Type  *TypeAnnotation
}

// ObjectPattern is {a, b: c, ...rest} destructuring.
type ObjectPattern struct {
	Span
	Props []*PatternProp
	Rest  Pattern
	Type  *TypeAnnotation
}

// PatternProp is one property of an ObjectPattern.
type PatternProp struct {
	Span
	Key   PropKey
	Value Pattern
}

// AssignPattern is a binding with a default value.
type AssignPattern struct {
	Span
	Target  Pattern
	Default Expr
}

// RestPattern is ...target.
type RestPattern struct {
	Span
	Target Pattern
}

// ExprPattern wraps an assignment target that is not a plain binding
// (a.b in [a.b] = xs, or an existing variable in for (x of xs)).
type ExprPattern struct {
	Span
	X Expr
}

// ParamProp is a TypeScript constructor parameter property
// (constructor(private x: number)).
type ParamProp struct {
	Span
	Modifiers []string
	Param     Pattern
}

// --- Expressions ---

// Ident is a reference to a name.
type Ident struct {
	Span
	Name string
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Span
	Value  float64
	Raw    string
	BigInt bool
}

// StringLit is a string literal.
type StringLit struct {
	Span
	Value string
	Raw   string
}

// BoolLit is true or false.
type BoolLit struct {
	Span
	Value bool
}

// NullLit is null.
type NullLit struct {
	Span
}

// RegExpLit is /pattern/flags.
type RegExpLit struct {
	Span
	Pattern string
	Flags   string
}

// TemplateLit is `a${x}b`. len(Quasis) == len(Exprs)+1.
type TemplateLit struct {
	Span
	Quasis []string
	Exprs  []Expr
}

// TaggedTemplate is tag`...`.
type TaggedTemplate struct {
	Span
	Tag   Expr
	Quasi *TemplateLit
}

// ThisExpr is this.
type ThisExpr struct {
	Span
}

// SuperExpr is super.
type SuperExpr struct {
	Span
}

// ArrayLit is [a, b, ...c]. Holes are nil.
type ArrayLit struct {
	Span
	Elems []Expr
}

// PropKind classifies object literal properties.
type PropKind int

const (
	PropInit PropKind = iota
	PropShorthand
	PropMethod
	PropGetter
	PropSetter
	PropSpread
)

// Property is one entry of an ObjectLit.
type Property struct {
	Span
	Kind  PropKind
	Key   PropKey
	Value Expr // for PropShorthand, the *Ident; for PropSpread, the spread operand
}

// ObjectLit is { props }.
type ObjectLit struct {
	Span
	Props []*Property
}

// FuncExpr is a function expression.
type FuncExpr struct {
	Span
	Func *Func
}

// ArrowFunc is (params) => body.
type ArrowFunc struct {
	Span
	Func *Func
}

// ClassExpr is a class expression.
type ClassExpr struct {
	Span
	Class *Class
}

// UnaryExpr is a prefix operator: ! ~ + - typeof void delete.
type UnaryExpr struct {
	Span
	Op string
	X  Expr
}

// UpdateExpr is ++ or --.
type UpdateExpr struct {
	Span
	Op     string
	Prefix bool
	X      Expr
}

// BinaryExpr is a binary or logical operator.
type BinaryExpr struct {
	Span
	Op string
	X  Expr
	Y  Expr
}

// AssignExpr is target op= value.
type AssignExpr struct {
	Span
	Op     string
	Target Expr
	Value  Expr
}

// CondExpr is test ? cons : alt.
type CondExpr struct {
	Span
	Test Expr
	Cons Expr
	Alt  Expr
}

// CallExpr is callee(args).
type CallExpr struct {
	Span
	Callee   Expr
	Args     []Expr
	Optional bool // callee?.(args)
	TypeArgs *TypeAnnotation
}

// NewExpr is new callee(args).
type NewExpr struct {
	Span
	Callee   Expr
	Args     []Expr
	TypeArgs *TypeAnnotation
}

// DotExpr is x.sel or x?.sel. Private names keep their leading '#'.
type DotExpr struct {
	Span
	X        Expr
	Sel      *Ident
	Optional bool
}

// IndexExpr is x[index] or x?.[index].
type IndexExpr struct {
	Span
	X        Expr
	Index    Expr
	Optional bool
}

// SpreadElem is ...x in calls and array literals.
type SpreadElem struct {
	Span
	X Expr
}

// SeqExpr is a, b, c.
type SeqExpr struct {
	Span
	List []Expr
}

// ParenExpr is (x).
type ParenExpr struct {
	Span
	X Expr
}

// AwaitExpr is await x. It is the only suspension point of a script.
type AwaitExpr struct {
	Span
	X Expr
}

// YieldExpr is yield [x] or yield* x.
type YieldExpr struct {
	Span
	X        Expr
	Delegate bool
}

// MetaProp is new.target or import.meta.
type MetaProp struct {
	Span
	Meta string
	Prop string
}

// ImportCall is a dynamic import(specifier).
type ImportCall struct {
	Span
	Arg Expr
}

// AsExpr is x as T or x satisfies T.
type AsExpr struct {
	Span
	X         Expr
	Type      *TypeAnnotation
	Satisfies bool
}

// NonNullExpr is x!.
type NonNullExpr struct {
	Span
	X Expr
}

// TypeAnnotation is the raw text of a type. It has no children: walkers
// pass through it.
type TypeAnnotation struct {
	Span
	Raw string
}

// --- JSX ---

// JSXElement is <Name attrs>children</Name>; Name is nil for fragments.
// Component tags (capitalized or dotted) are ordinary expressions so the
// names they reference are visible to walkers.
type JSXElement struct {
	Span
	Name     Expr
	Attrs    []*JSXAttr
	Children []Expr
}

// JSXName is an intrinsic element or attribute name such as div or
// aria-label. It never refers to a binding.
type JSXName struct {
	Span
	Name string
}

// JSXAttr is name=value or {...spread}.
type JSXAttr struct {
	Span
	Name   string
	Value  Expr // nil for boolean attributes
	Spread Expr
}

// JSXText is literal text between tags.
type JSXText struct {
	Span
	Value string
}

// JSXExprContainer is {expr} inside markup; X is nil for {}.
type JSXExprContainer struct {
	Span
	X Expr
}

// statement markers

func (*ExprStmt) stmt()          {}
func (*VarDecl) stmt()           {}
func (*FuncDecl) stmt()          {}
func (*ClassDecl) stmt()         {}
func (*ReturnStmt) stmt()        {}
func (*IfStmt) stmt()            {}
func (*ForStmt) stmt()           {}
func (*ForInStmt) stmt()         {}
func (*WhileStmt) stmt()         {}
func (*DoWhileStmt) stmt()       {}
func (*BlockStmt) stmt()         {}
func (*EmptyStmt) stmt()         {}
func (*DebuggerStmt) stmt()      {}
func (*BranchStmt) stmt()        {}
func (*ThrowStmt) stmt()         {}
func (*TryStmt) stmt()           {}
func (*SwitchStmt) stmt()        {}
func (*LabeledStmt) stmt()       {}
func (*ImportDecl) stmt()        {}
func (*ExportNamedDecl) stmt()   {}
func (*ExportDefaultDecl) stmt() {}
func (*ExportAllDecl) stmt()     {}
func (*TypeDecl) stmt()          {}
func (*EnumDecl) stmt()          {}

// expression markers

func (*Ident) expr()            {}
func (*NumberLit) expr()        {}
func (*StringLit) expr()        {}
func (*BoolLit) expr()          {}
func (*NullLit) expr()          {}
func (*RegExpLit) expr()        {}
func (*TemplateLit) expr()      {}
func (*TaggedTemplate) expr()   {}
func (*ThisExpr) expr()         {}
func (*SuperExpr) expr()        {}
func (*ArrayLit) expr()         {}
func (*ObjectLit) expr()        {}
func (*FuncExpr) expr()         {}
func (*ArrowFunc) expr()        {}
func (*ClassExpr) expr()        {}
func (*UnaryExpr) expr()        {}
func (*UpdateExpr) expr()       {}
func (*BinaryExpr) expr()       {}
func (*AssignExpr) expr()       {}
func (*CondExpr) expr()         {}
func (*CallExpr) expr()         {}
func (*NewExpr) expr()          {}
func (*DotExpr) expr()          {}
func (*IndexExpr) expr()        {}
func (*SpreadElem) expr()       {}
func (*SeqExpr) expr()          {}
func (*ParenExpr) expr()        {}
func (*AwaitExpr) expr()        {}
func (*YieldExpr) expr()        {}
func (*MetaProp) expr()         {}
func (*ImportCall) expr()       {}
func (*AsExpr) expr()           {}
func (*NonNullExpr) expr()      {}
func (*JSXElement) expr()       {}
func (*JSXName) expr()          {}
func (*JSXText) expr()          {}
func (*JSXExprContainer) expr() {}

// pattern markers

func (*BindingIdent) pattern()  {}
func (*ArrayPattern) pattern()  {}
func (*ObjectPattern) pattern() {}
func (*AssignPattern) pattern() {}
func (*RestPattern) pattern()   {}
func (*ExprPattern) pattern()   {}
func (*ParamProp) pattern()     {}
