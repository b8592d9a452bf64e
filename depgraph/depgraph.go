// Package depgraph builds the name-level dependency map of a parsed script.
//
// Keys are "<module>.__GLOBAL__" for top-level code and "<module>.<fn>" for
// the body of each top-level function declaration; functions nested inside
// one collapse into its key. Each key maps to the names its code references:
// the bare identifier (which may be a priced global), the same-module
// qualified name, and the imported name an alias stands for.
package depgraph

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rubiojr/netscript/ast"
	"github.com/rubiojr/netscript/script"
)

// Reserved key parts.
const (
	GlobalKey   = "__GLOBAL__"
	DefaultKey  = "__SPECIAL_DEFAULT__"
	OverrideKey = "^RAM_OVERRIDE"
	Wildcard    = "*"

	IfRef    = "__SPECIAL_referenceIf"
	ForRef   = "__SPECIAL_referenceFor"
	WhileRef = "__SPECIAL_referenceWhile"
)

// Key joins a module and a name.
func Key(module, name string) string { return module + "." + name }

// Name returns the part of a key after its last dot.
func Name(key string) string {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		return key[i+1:]
	}
	return key
}

// Set is a set of keys.
type Set map[string]struct{}

// Sorted returns the keys in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Map maps a key to the keys it references.
type Map map[string]Set

// Add records an edge from -> to.
func (m Map) Add(from, to string) {
	s, ok := m[from]
	if !ok {
		s = make(Set)
		m[from] = s
	}
	s[to] = struct{}{}
}

// Touch makes sure key exists, even with no edges.
func (m Map) Touch(key string) {
	if _, ok := m[key]; !ok {
		m[key] = make(Set)
	}
}

// Merge adds every edge of o to m.
func (m Map) Merge(o Map) {
	for k, s := range o {
		m.Touch(k)
		for to := range s {
			m[k][to] = struct{}{}
		}
	}
}

// Keys returns the keys of m, sorted.
func (m Map) Keys() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Result is the output of Build.
type Result struct {
	Deps Map
	// AdditionalModules lists, in first-seen order, the modules imported or
	// re-exported by the script. Entries are canonical script paths when the
	// specifier resolved, and the raw specifier otherwise.
	AdditionalModules []string
}

// Build walks prog, the code of module. scripts resolves import specifiers;
// a specifier that does not resolve is recorded verbatim and left for the
// resolver to report.
func Build(prog *ast.Program, module string, scripts script.Lookup) *Result {
	b := &builder{
		module:  module,
		scripts: scripts,
		deps:    make(Map),
		aliases: make(map[string]string),
		seen:    make(map[string]bool),
	}
	global := Key(module, GlobalKey)
	b.deps.Touch(global)

	// Imports are hoisted, so aliases must be known before any reference.
	for _, s := range prog.Body {
		b.declareImports(s, global)
	}
	for _, s := range prog.Body {
		ast.Walk(&visitor{b: b, key: global}, s)
	}
	b.checkOverride(prog)
	return &Result{Deps: b.deps, AdditionalModules: b.modules}
}

type builder struct {
	module  string
	scripts script.Lookup
	deps    Map
	aliases map[string]string // local name -> "<module>.<exported>"
	modules []string
	seen    map[string]bool
}

func (b *builder) resolve(spec string) string {
	if script.IsURL(spec) {
		return spec
	}
	p, _ := script.ResolveImport(spec, b.module, b.scripts)
	return p
}

func (b *builder) addModule(m string) {
	if !b.seen[m] {
		b.seen[m] = true
		b.modules = append(b.modules, m)
	}
}

// addRef records that the code under key references name.
func (b *builder) addRef(key, name string) {
	if ext, ok := b.aliases[name]; ok {
		b.deps.Add(key, ext)
	}
	b.deps.Add(key, Key(b.module, name))
	b.deps.Add(key, name)
}

func (b *builder) declareImports(s ast.Stmt, global string) {
	switch s := s.(type) {
	case *ast.ImportDecl:
		if s.TypeOnly {
			return
		}
		mod := b.resolve(s.Source.Value)
		b.addModule(mod)
		b.deps.Add(global, Key(mod, GlobalKey))
		for _, spec := range s.Specifiers {
			if spec.TypeOnly {
				continue
			}
			switch spec.Kind {
			case ast.ImportNamed:
				b.aliases[spec.Local.Name] = Key(mod, spec.Imported)
			default:
				b.deps.Add(global, Key(mod, Wildcard))
			}
		}
	case *ast.ExportAllDecl:
		mod := b.resolve(s.Source.Value)
		b.addModule(mod)
		b.deps.Add(global, Key(mod, GlobalKey))
		b.deps.Add(global, Key(mod, Wildcard))
	case *ast.ExportNamedDecl:
		if s.TypeOnly || s.Source == nil {
			return
		}
		mod := b.resolve(s.Source.Value)
		b.addModule(mod)
		b.deps.Add(global, Key(mod, GlobalKey))
		for _, spec := range s.Specifiers {
			b.deps.Add(Key(b.module, spec.Exported), Key(mod, spec.Local))
		}
	}
}

// checkOverride looks for <x>.ramOverride(<number>) as the first statement of
// the top-level function main.
func (b *builder) checkOverride(prog *ast.Program) {
	for _, s := range prog.Body {
		fn := topLevelFunc(s)
		if fn == nil || fn.Name == nil || fn.Name.Name != "main" || fn.Body == nil || len(fn.Body.List) == 0 {
			continue
		}
		v, ok := overrideValue(fn.Body.List[0])
		if ok {
			b.deps.Add(Key(b.module, OverrideKey), strconv.FormatFloat(v, 'g', -1, 64))
		}
		return
	}
}

func topLevelFunc(s ast.Stmt) *ast.Func {
	switch s := s.(type) {
	case *ast.FuncDecl:
		return s.Func
	case *ast.ExportNamedDecl:
		if fd, ok := s.Decl.(*ast.FuncDecl); ok {
			return fd.Func
		}
	case *ast.ExportDefaultDecl:
		if fd, ok := s.Decl.(*ast.FuncDecl); ok {
			return fd.Func
		}
	}
	return nil
}

// overrideValue matches `<x>.ramOverride(n)` with a single non-negative
// numeric literal. The callee must be a member access; a bare
// ramOverride(n) is an ordinary call.
func overrideValue(s ast.Stmt) (float64, bool) {
	es, ok := s.(*ast.ExprStmt)
	if !ok {
		return 0, false
	}
	call, ok := es.X.(*ast.CallExpr)
	if !ok || len(call.Args) != 1 {
		return 0, false
	}
	sel, ok := call.Callee.(*ast.DotExpr)
	if !ok || sel.Sel.Name != "ramOverride" {
		return 0, false
	}
	n, ok := call.Args[0].(*ast.NumberLit)
	if !ok || n.BigInt || n.Value < 0 {
		return 0, false
	}
	return n.Value, true
}

// visitor carries the key the current code is attributed to.
type visitor struct {
	b   *builder
	key string
	fn  bool // inside a function declaration
}

func (v *visitor) Visit(n ast.Node) ast.Visitor {
	switch n := n.(type) {
	case nil:
		return nil
	case *ast.ImportDecl, *ast.ExportAllDecl:
		return nil
	case *ast.ExportNamedDecl:
		if n.Decl == nil {
			// export { local as exported }
			if n.Source == nil && !n.TypeOnly {
				for _, spec := range n.Specifiers {
					v.b.addRef(Key(v.b.module, spec.Exported), spec.Local)
				}
			}
			return nil
		}
	case *ast.FuncDecl:
		if v.fn {
			return v
		}
		name := DefaultKey
		if n.Func.Name != nil {
			name = n.Func.Name.Name
		}
		key := Key(v.b.module, name)
		v.b.deps.Touch(key)
		return &visitor{b: v.b, key: key, fn: true}
	case *ast.Ident:
		v.b.addRef(v.key, n.Name)
	case *ast.IfStmt:
		v.b.deps.Add(v.key, IfRef)
	case *ast.ForStmt, *ast.ForInStmt:
		v.b.deps.Add(v.key, ForRef)
	case *ast.WhileStmt, *ast.DoWhileStmt:
		v.b.deps.Add(v.key, WhileRef)
	}
	return v
}
