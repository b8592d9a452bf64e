package compiler

import "github.com/rubiojr/netscript/ast"

// importSpan is the module specifier of an import or re-export, with the
// byte range of its string literal (quotes included).
type importSpan struct {
	Spec       string
	Start, End int
}

// findImports returns the specifiers of every import and re-export in
// source order.
func findImports(prog *ast.Program) []importSpan {
	var out []importSpan
	add := func(lit *ast.StringLit) {
		if lit != nil {
			out = append(out, importSpan{Spec: lit.Value, Start: lit.Pos(), End: lit.End()})
		}
	}
	for _, s := range prog.Body {
		switch s := s.(type) {
		case *ast.ImportDecl:
			add(s.Source)
		case *ast.ExportNamedDecl:
			add(s.Source)
		case *ast.ExportAllDecl:
			add(s.Source)
		}
	}
	return out
}
