// Package lint runs advisory checks over parsed scripts. Findings never
// block compilation; they are surfaced to the editor and the CLI.
package lint

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/rubiojr/netscript/ast"
	"github.com/rubiojr/netscript/parser"
)

// Finding is one advisory result.
type Finding struct {
	Check string `json:"check"`
	Line  int    `json:"line"`
	Msg   string `json:"message"`
}

func (f Finding) String() string { return fmt.Sprintf("%d: %s (%s)", f.Line, f.Msg, f.Check) }

// Check inspects a program without modifying it.
type Check interface {
	Name() string
	Run(prog *ast.Program) []Finding
}

// Chain runs checks in order and collects their findings sorted by line.
type Chain []Check

// Run executes every check.
func (c Chain) Run(prog *ast.Program) []Finding {
	var out []Finding
	for _, chk := range c {
		out = append(out, chk.Run(prog)...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

// Default is the chain used by the engine and the CLI.
func Default() Chain { return Chain{InfiniteLoopCheck()} }

var ignoreMarker = regexp.MustCompile(`^\s*//\s*@ignore-infinite`)

type loopCheck struct{}

// InfiniteLoopCheck flags `while` and `for (;;)` loops with a constant
// truthy test whose body never awaits.
func InfiniteLoopCheck() Check { return loopCheck{} }

func (loopCheck) Name() string { return "infinite-loop" }

func (loopCheck) Run(prog *ast.Program) []Finding {
	lines := SuspiciousLoops(prog, prog.Source)
	out := make([]Finding, len(lines))
	for i, l := range lines {
		out[i] = Finding{Check: "infinite-loop", Line: l, Msg: "possible infinite loop without await"}
	}
	return out
}

// SuspiciousLoops returns the 1-based lines of loops that look like they
// never yield: a while loop with a truthy literal test, and also a for
// loop with no test at all, which is the same loop spelled for (;;).
// src must be the text prog was parsed from.
func SuspiciousLoops(prog *ast.Program, src string) []int {
	lines := splitLines(src)
	var out []int
	for _, s := range prog.Body {
		ast.Inspect(s, func(n ast.Node) bool {
			var body ast.Stmt
			switch n := n.(type) {
			case *ast.WhileStmt:
				if !truthy(n.Test) {
					return true
				}
				body = n.Body
			case *ast.ForStmt:
				// for (;;) is flagged alongside while (true)
				if n.Test != nil {
					return true
				}
				body = n.Body
			default:
				return true
			}
			line := prog.Line(n.Pos())
			if suppressed(lines, line) || awaits(body) {
				return true
			}
			out = append(out, line)
			return true
		})
	}
	return out
}

// CheckSource parses code and runs SuspiciousLoops over it.
func CheckSource(path, code string) ([]int, error) {
	prog, err := parser.ParseFile(path, code)
	if err != nil {
		return nil, err
	}
	return SuspiciousLoops(prog, code), nil
}

func splitLines(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	return strings.Split(strings.ReplaceAll(src, "\r", "\n"), "\n")
}

// suppressed reports whether the closest non-blank line above line carries
// the ignore marker.
func suppressed(lines []string, line int) bool {
	for i := line - 2; i >= 0 && i < len(lines); i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		return ignoreMarker.MatchString(lines[i])
	}
	return false
}

func truthy(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.ParenExpr:
		return truthy(e.X)
	case *ast.BoolLit:
		return e.Value
	case *ast.NumberLit:
		return e.Value != 0 && !math.IsNaN(e.Value)
	case *ast.StringLit:
		return e.Value != ""
	}
	return false
}

// awaits looks for an await in body, not descending into nested loops or
// functions.
func awaits(body ast.Stmt) bool {
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
		if found {
			return false
		}
		switch n.(type) {
		case *ast.AwaitExpr:
			found = true
			return false
		case *ast.WhileStmt, *ast.DoWhileStmt, *ast.ForStmt, *ast.ForInStmt,
			*ast.FuncDecl, *ast.FuncExpr, *ast.ArrowFunc, *ast.ClassDecl, *ast.ClassExpr:
			return false
		}
		return true
	})
	return found
}
