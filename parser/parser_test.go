package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/netscript/ast"
)

func parse(t *testing.T, file, src string) *ast.Program {
	t.Helper()
	prog, err := ParseFile(file, src)
	require.NoError(t, err)
	return prog
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		file string
		want Dialect
	}{
		{"main.js", Plain},
		{"lib/util.mjs", Plain},
		{"ui.jsx", JSX},
		{"hack.ts", Typed},
		{"App.TSX", Typed | JSX},
		{"notes.txt", Plain},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, DialectFor(tt.file))
		})
	}
}

func TestParseStatements(t *testing.T) {
	prog := parse(t, "main.js", `
const a = 1
let b = a
function f(x, ...rest) { return x }
class C extends Base { static #count = 0; get n() { return 1 } }
for (let i = 0; i < 3; i++) {}
for (const [k, v] of Object.entries(o)) {}
for (;;) break
while (true) { await ns.sleep(10) }
do x--; while (x > 0)
label: for (const k in o) continue label
switch (a) { case 1: b = 2; break; default: b = 3 }
try { f() } catch { } finally { }
`)
	require.Len(t, prog.Body, 12)
	assert.IsType(t, &ast.VarDecl{}, prog.Body[0])
	assert.IsType(t, &ast.VarDecl{}, prog.Body[1])
	assert.IsType(t, &ast.FuncDecl{}, prog.Body[2])
	assert.IsType(t, &ast.ClassDecl{}, prog.Body[3])
	assert.IsType(t, &ast.ForStmt{}, prog.Body[4])
	forOf, ok := prog.Body[5].(*ast.ForInStmt)
	require.True(t, ok)
	assert.True(t, forOf.Of)
	assert.IsType(t, &ast.ForStmt{}, prog.Body[6])
	assert.IsType(t, &ast.WhileStmt{}, prog.Body[7])
	assert.IsType(t, &ast.DoWhileStmt{}, prog.Body[8])
	assert.IsType(t, &ast.LabeledStmt{}, prog.Body[9])
	assert.IsType(t, &ast.SwitchStmt{}, prog.Body[10])
	assert.IsType(t, &ast.TryStmt{}, prog.Body[11])
}

func TestParseImports(t *testing.T) {
	prog := parse(t, "main.js", `import def, { a, b as c } from "./lib.js";
import * as ns2 from "lib";
import "./side.js";
export { a as z } from "./lib.js";
export * from "./all.js";
export default function () {}
`)
	require.Len(t, prog.Body, 6)

	imp := prog.Body[0].(*ast.ImportDecl)
	assert.Equal(t, "./lib.js", imp.Source.Value)
	require.Len(t, imp.Specifiers, 3)
	assert.Equal(t, ast.ImportDefault, imp.Specifiers[0].Kind)
	assert.Equal(t, "def", imp.Specifiers[0].Local.Name)
	assert.Equal(t, "a", imp.Specifiers[1].Imported)
	assert.Equal(t, "b", imp.Specifiers[2].Imported)
	assert.Equal(t, "c", imp.Specifiers[2].Local.Name)

	ns := prog.Body[1].(*ast.ImportDecl)
	require.Len(t, ns.Specifiers, 1)
	assert.Equal(t, ast.ImportNamespace, ns.Specifiers[0].Kind)

	side := prog.Body[2].(*ast.ImportDecl)
	assert.Empty(t, side.Specifiers)
	assert.Equal(t, `"./side.js"`, prog.Text(side.Source))

	re := prog.Body[3].(*ast.ExportNamedDecl)
	require.NotNil(t, re.Source)
	assert.Equal(t, "z", re.Specifiers[0].Exported)

	assert.IsType(t, &ast.ExportAllDecl{}, prog.Body[4])
	def := prog.Body[5].(*ast.ExportDefaultDecl)
	assert.IsType(t, &ast.FuncDecl{}, def.Decl)
}

func TestParseArrowsAndParens(t *testing.T) {
	prog := parse(t, "main.js", "const f = (a, b = 2) => a + b; const g = (a + b) * c; const h = async x => x;")
	require.Len(t, prog.Body, 3)

	f := prog.Body[0].(*ast.VarDecl).Decls[0].Init.(*ast.ArrowFunc)
	assert.Len(t, f.Func.Params, 2)
	assert.IsType(t, &ast.BinaryExpr{}, f.Func.ExprBody)

	g := prog.Body[1].(*ast.VarDecl).Decls[0].Init.(*ast.BinaryExpr)
	assert.Equal(t, "*", g.Op)
	assert.IsType(t, &ast.ParenExpr{}, g.X)

	h := prog.Body[2].(*ast.VarDecl).Decls[0].Init.(*ast.ArrowFunc)
	assert.True(t, h.Func.Async)
}

func TestParseRegExpAndDivision(t *testing.T) {
	prog := parse(t, "main.js", "const r = /ab+c/gi; const d = a / b / c;")
	re := prog.Body[0].(*ast.VarDecl).Decls[0].Init.(*ast.RegExpLit)
	assert.Equal(t, "ab+c", re.Pattern)
	assert.Equal(t, "gi", re.Flags)

	d := prog.Body[1].(*ast.VarDecl).Decls[0].Init.(*ast.BinaryExpr)
	assert.Equal(t, "/", d.Op)
	assert.IsType(t, &ast.BinaryExpr{}, d.X)
}

func TestParseRegExpAfterControlHeader(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"if", "if (a) /x/.test(y)"},
		{"else branch", "if (a) b; else /x/g.exec(y)"},
		{"while", "while (a) /x/.test(y)"},
		{"for", "for (let i = 0; i < 1; i++) /x/.test(y)"},
		{"for-of", "for (const s of xs) /x/.test(s)"},
		{"do-while", "do x(); while (a) /x/.test(y)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parse(t, "main.js", tt.src)
			var re *ast.RegExpLit
			ast.Inspect(prog, func(n ast.Node) bool {
				if r, ok := n.(*ast.RegExpLit); ok {
					re = r
				}
				return true
			})
			require.NotNil(t, re)
			assert.Equal(t, "x", re.Pattern)
		})
	}
}

func TestParseDivisionAfterParens(t *testing.T) {
	prog := parse(t, "main.js", "const d = (a) / 2 / (b)")
	d := prog.Body[0].(*ast.VarDecl).Decls[0].Init.(*ast.BinaryExpr)
	assert.Equal(t, "/", d.Op)
}

func TestParseEscapedIdentifier(t *testing.T) {
	prog := parse(t, "main.js", "const \\u0061b = 2; \\u{62}c(ab)")
	decl := prog.Body[0].(*ast.VarDecl).Decls[0]
	assert.Equal(t, "ab", decl.Target.(*ast.BindingIdent).Name)
	call := prog.Body[1].(*ast.ExprStmt).X.(*ast.CallExpr)
	assert.Equal(t, "bc", call.Callee.(*ast.Ident).Name)
	assert.Equal(t, "ab", call.Args[0].(*ast.Ident).Name)

	_, err := ParseFile("main.js", "const \\u0031a = 1")
	assert.Error(t, err)
}

func TestParseTemplate(t *testing.T) {
	prog := parse(t, "main.js", "const s = `a${x}b${y + 1}c`;")
	tpl := prog.Body[0].(*ast.VarDecl).Decls[0].Init.(*ast.TemplateLit)
	assert.Equal(t, []string{"a", "b", "c"}, tpl.Quasis)
	require.Len(t, tpl.Exprs, 2)
	assert.IsType(t, &ast.BinaryExpr{}, tpl.Exprs[1])
}

func TestParseASI(t *testing.T) {
	prog := parse(t, "main.js", "const a = 1\nconst b = 2\nfunction f() {\n  return\n  1\n}\n")
	require.Len(t, prog.Body, 3)
	fn := prog.Body[2].(*ast.FuncDecl)
	ret := fn.Func.Body.List[0].(*ast.ReturnStmt)
	assert.Nil(t, ret.Value)
}

func TestParseTypeScript(t *testing.T) {
	prog := parse(t, "lib.ts", `import type { Foo } from "./foo";
import { bar, type Baz } from "./bar";
export interface Opts { a?: number; b: Array<string> }
type Pair<T> = [T, T];
enum Color { Red, Green = 2 }
declare const env: Record<string, string>;
abstract class Base<T> implements Opts {
  private readonly x: number = 1;
  constructor(public name: string, protected n?: number) { super(); }
  abstract run(): void;
  get value(): T | undefined { return undefined; }
}
export function id<T>(v: T): T { return v as T; }
const m = new Map<string, number>();
const n = id<number>(1)!;
const arrow = async <T,>(x: T): Promise<T> => x;
`)
	require.Len(t, prog.Body, 11)

	assert.True(t, prog.Body[0].(*ast.ImportDecl).TypeOnly)
	mixed := prog.Body[1].(*ast.ImportDecl)
	assert.False(t, mixed.Specifiers[0].TypeOnly)
	assert.True(t, mixed.Specifiers[1].TypeOnly)

	iface := prog.Body[2].(*ast.ExportNamedDecl).Decl.(*ast.TypeDecl)
	assert.Equal(t, "interface", iface.Kind)
	assert.Equal(t, "Opts", iface.Name)

	assert.Equal(t, "type", prog.Body[3].(*ast.TypeDecl).Kind)
	enum := prog.Body[4].(*ast.EnumDecl)
	assert.Len(t, enum.Members, 2)
	assert.Equal(t, "declare", prog.Body[5].(*ast.TypeDecl).Kind)

	class := prog.Body[6].(*ast.ClassDecl).Class
	require.Len(t, class.Members, 4)
	assert.Equal(t, ast.MemberField, class.Members[0].Kind)
	assert.Equal(t, "number", class.Members[0].Type.Raw)
	assert.Equal(t, ast.MemberConstructor, class.Members[1].Kind)
	ctor := class.Members[1].Value.(*ast.FuncExpr).Func
	assert.IsType(t, &ast.ParamProp{}, ctor.Params[0])
	assert.Nil(t, class.Members[2].Value.(*ast.FuncExpr).Func.Body)
	assert.Equal(t, ast.MemberGetter, class.Members[3].Kind)

	n := prog.Body[9].(*ast.VarDecl).Decls[0].Init.(*ast.NonNullExpr)
	call := n.X.(*ast.CallExpr)
	require.NotNil(t, call.TypeArgs)
	assert.Equal(t, "<number>", call.TypeArgs.Raw)

	arrow := prog.Body[10].(*ast.VarDecl).Decls[0].Init.(*ast.ArrowFunc)
	assert.True(t, arrow.Func.Async)
	assert.NotNil(t, arrow.Func.ReturnType)
}

func TestParseTypeAnnotationOnBinding(t *testing.T) {
	prog := parse(t, "x.ts", "const x: number = 1;\ninterface A { b: string }\n")
	require.Len(t, prog.Body, 2)
	b := prog.Body[0].(*ast.VarDecl).Decls[0].Target.(*ast.BindingIdent)
	require.NotNil(t, b.Type)
	assert.Equal(t, "number", b.Type.Raw)
	assert.Equal(t, "A", prog.Body[1].(*ast.TypeDecl).Name)
}

func TestParseJSX(t *testing.T) {
	prog := parse(t, "ui.jsx", `const el = <div className="a">{name} text <Foo.Bar x={1} /></div>;`)
	el := prog.Body[0].(*ast.VarDecl).Decls[0].Init.(*ast.JSXElement)
	name := el.Name.(*ast.JSXName)
	assert.Equal(t, "div", name.Name)
	require.Len(t, el.Attrs, 1)
	assert.Equal(t, "className", el.Attrs[0].Name)

	require.Len(t, el.Children, 3)
	assert.IsType(t, &ast.JSXExprContainer{}, el.Children[0])
	assert.Equal(t, " text ", el.Children[1].(*ast.JSXText).Value)
	child := el.Children[2].(*ast.JSXElement)
	assert.IsType(t, &ast.DotExpr{}, child.Name)
}

func TestParseJSXFragmentInTSX(t *testing.T) {
	prog := parse(t, "App.tsx", "export const App = (p: Props) => <><b>{p.x}</b></>;")
	decl := prog.Body[0].(*ast.ExportNamedDecl).Decl.(*ast.VarDecl)
	arrow := decl.Decls[0].Init.(*ast.ArrowFunc)
	frag := arrow.Func.ExprBody.(*ast.JSXElement)
	assert.Nil(t, frag.Name)
	assert.Len(t, frag.Children, 1)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		src  string
		want string
	}{
		{"missing operand", "a.js", "let x = ;", `a.js:1:9: unexpected token ";"`},
		{"unterminated string", "a.js", "let s = 'abc", "a.js:1:9: unterminated string literal"},
		{"mismatched tag", "a.jsx", "const e = <a></b>;", "a.jsx:1:16: expected corresponding JSX closing tag for <a>"},
		{"types in plain js", "a.js", "let x: number = 1;", `a.js:1:6: unexpected token ":"`},
		{"nested import", "a.js", "function f() { import x from 'y' }", "a.js:1:16: import declarations may only appear at top level of a module"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile(tt.file, tt.src)
			require.Error(t, err)
			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}
