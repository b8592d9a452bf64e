package ramcost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/netscript/capability"
	"github.com/rubiojr/netscript/script"
)

func newCalc(t *testing.T, opts ...Option) *Calculator {
	t.Helper()
	c, err := New(capability.Default(), 64, opts...)
	require.NoError(t, err)
	return c
}

func server(t *testing.T, files map[string]string) *script.Server {
	t.Helper()
	srv := script.NewServer("home")
	for p, code := range files {
		_, err := srv.Write(p, code)
		require.NoError(t, err)
	}
	return srv
}

func calc(t *testing.T, c *Calculator, srv *script.Server, path string) Result {
	t.Helper()
	sc, ok := srv.Script(path)
	require.True(t, ok)
	return c.Calculate(sc.Code(), path, srv.Name, srv)
}

func TestBaseCost(t *testing.T) {
	srv := server(t, map[string]string{"main.js": "export async function main(ns) {}"})
	res := calc(t, newCalc(t), srv, "main.js")
	require.Nil(t, res.Err)
	assert.Equal(t, 1.6, res.Cost)
	assert.Equal(t, []Entry{{Type: Misc, Name: "baseCost", Cost: 1.6}}, res.Entries)
}

func TestPricedOnce(t *testing.T) {
	srv := server(t, map[string]string{"main.js": `
export async function main(ns) {
  ns.hack("a");
  ns.hack("b");
  other(ns);
}
function other(ns) { ns.hack("c") }
`})
	res := calc(t, newCalc(t), srv, "main.js")
	require.Nil(t, res.Err)
	assert.Equal(t, 1.7, res.Cost)
	assert.Equal(t, []Entry{
		{Type: Misc, Name: "baseCost", Cost: 1.6},
		{Type: NS, Name: "hack", Cost: 0.1},
	}, res.Entries)
}

func TestDeterministic(t *testing.T) {
	srv := server(t, map[string]string{"main.js": `
export async function main(ns) {
  ns.share(); ns.getServer(); ns.stock.getPrice("ECP"); ns.grow("x");
}
`})
	c := newCalc(t)
	first := calc(t, c, srv, "main.js")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, calc(t, c, srv, "main.js"))
	}
	assert.Equal(t, 1, c.parsed.Len())
	assert.InDelta(t, 1.6+2.4+2+2+0.15, first.Cost, 1e-9)
}

func TestNamespacedNames(t *testing.T) {
	srv := server(t, map[string]string{"main.js": `
export async function main(ns) { ns.go.analysis.getChains() }
`})
	res := calc(t, newCalc(t), srv, "main.js")
	require.Nil(t, res.Err)
	assert.Equal(t, 17.6, res.Cost)
	assert.Contains(t, res.Entries, Entry{Type: NS, Name: "go.analysis.getChains", Cost: 16})
}

func TestSingularityContext(t *testing.T) {
	srv := server(t, map[string]string{"main.js": `
export async function main(ns) { ns.singularity.installAugmentations() }
`})
	assert.Equal(t, 81.6, calc(t, newCalc(t), srv, "main.js").Cost)
	assert.Equal(t, 21.6, calc(t, newCalc(t, WithContext(capability.Context{SingularityLevel: 2})), srv, "main.js").Cost)
	assert.Equal(t, 6.6, calc(t, newCalc(t, WithContext(capability.Context{BitNode: 4})), srv, "main.js").Cost)
}

func TestMaxCap(t *testing.T) {
	srv := server(t, map[string]string{"main.js": `
export async function main(ns) {
  ns.share(); ns.getServer(); ns.exec("x"); ns.codingcontract.getContract();
}
`})
	res := calc(t, newCalc(t, WithLimits(1.6, 10)), srv, "main.js")
	require.Nil(t, res.Err)
	assert.Equal(t, 10.0, res.Cost)
	assert.Equal(t, Entry{Type: Misc, Name: "Max Ram Cap", Cost: 10}, res.Entries[len(res.Entries)-1])
}

func TestSpecialGlobals(t *testing.T) {
	srv := server(t, map[string]string{"main.js": `
export async function main(ns) {
  hacknet.numNodes();
  document.title = window.name;
}
`})
	res := calc(t, newCalc(t), srv, "main.js")
	require.Nil(t, res.Err)
	assert.Equal(t, 55.6, res.Cost)
	assert.Contains(t, res.Entries, Entry{Type: NS, Name: "hacknet", Cost: 4})
	assert.Contains(t, res.Entries, Entry{Type: DOM, Name: "document", Cost: 25})
	assert.Contains(t, res.Entries, Entry{Type: DOM, Name: "window", Cost: 25})
}

func TestOverride(t *testing.T) {
	tests := []struct {
		name string
		code string
		opts []Option
		want float64
	}{
		{"honored", "export async function main(ns) { ns.ramOverride(4); ns.share() }", nil, 4},
		{"below base", "export async function main(ns) { ns.ramOverride(1); ns.hack() }", nil, 1.7},
		{"clamped", "export async function main(ns) { ns.ramOverride(64) }", []Option{WithLimits(1.6, 10)}, 10},
		{"not first", "export async function main(ns) { ns.hack(); ns.ramOverride(8) }", nil, 1.7},
		{"bare call", "export async function main(ns) { ramOverride(8); ns.hack() }", nil, 1.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := server(t, map[string]string{"main.js": tt.code})
			res := calc(t, newCalc(t, tt.opts...), srv, "main.js")
			require.Nil(t, res.Err)
			assert.Equal(t, tt.want, res.Cost)
		})
	}

	srv := server(t, map[string]string{"main.js": "export async function main(ns) { ns.ramOverride(4) }"})
	res := calc(t, newCalc(t), srv, "main.js")
	assert.Equal(t, []Entry{{Type: Misc, Name: "ramOverride", Cost: 4}}, res.Entries)
}

const lib = `
export async function main(ns) { ns.ramOverride(100); ns.grow("x") }
export function helper(ns) { ns.grow("y") }
export function unused(ns) { ns.share() }
`

func TestImports(t *testing.T) {
	tests := []struct {
		name string
		code string
		want float64
	}{
		{"named", `import { helper } from "./lib"; export async function main(ns) { helper(ns) }`, 1.75},
		{"aliased", `import { helper as h } from "lib.js"; export async function main(ns) { h(ns) }`, 1.75},
		{"unused import", `import { helper } from "./lib.js"; export async function main(ns) {}`, 1.6},
		{"namespace", `import * as l from "./lib.js"; export async function main(ns) { l.helper(ns) }`, 1.6 + 0.15 + 2.4},
		{"re-export", `export * from "./lib.js"; export async function main(ns) {}`, 1.6 + 0.15 + 2.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := server(t, map[string]string{"main.js": tt.code, "lib.js": lib})
			res := calc(t, newCalc(t), srv, "main.js")
			require.Nil(t, res.Err)
			assert.InDelta(t, tt.want, res.Cost, 1e-9)
		})
	}
}

func TestImportChain(t *testing.T) {
	srv := server(t, map[string]string{
		"main.js":   `import { a } from "./a.js"; export async function main(ns) { a(ns) }`,
		"a.js":      `import { b } from "./sub/b.js"; export function a(ns) { b(ns) }`,
		"sub/b.js":  `import { c } from "../c.ts"; export function b(ns) { c(ns); ns.scan() }`,
		"c.ts":      `export function c(ns: any): void { ns.getPlayer() }`,
		"cycle.js":  `import { main } from "./main.js"; export function loop() { main() }`,
		"unused.js": `export function u(ns) { ns.share() }`,
	})
	res := calc(t, newCalc(t), srv, "main.js")
	require.Nil(t, res.Err)
	assert.InDelta(t, 1.6+0.2+0.5, res.Cost, 1e-9)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		kind     ErrorKind
		contains string
	}{
		{
			name:     "target syntax",
			files:    map[string]string{"main.js": "export async function main(ns) {"},
			kind:     SyntaxError,
			contains: "main.js",
		},
		{
			name:     "missing import",
			files:    map[string]string{"main.js": `import { x } from "./nope"; export async function main() { x() }`},
			kind:     ImportError,
			contains: `"nope" imported by "main.js" not found on server: home`,
		},
		{
			name: "broken import",
			files: map[string]string{
				"main.js": `import { x } from "./lib.js"; export async function main() { x() }`,
				"lib.js":  "export function x( {",
			},
			kind:     ImportError,
			contains: "Error parsing lib.js",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := server(t, tt.files)
			res := calc(t, newCalc(t), srv, "main.js")
			require.NotNil(t, res.Err)
			assert.Equal(t, tt.kind, res.Err.Kind)
			assert.Contains(t, res.Err.Message, tt.contains)
			assert.Zero(t, res.Cost)
		})
	}
}

func TestURLImportsIgnored(t *testing.T) {
	srv := server(t, map[string]string{
		"main.js": `import { x } from "https://cdn.example.com/x.js"; export async function main(ns) { x(); ns.hack() }`,
	})
	res := calc(t, newCalc(t), srv, "main.js")
	require.Nil(t, res.Err)
	assert.Equal(t, 1.7, res.Cost)
}

func TestRegExpAfterControlHeader(t *testing.T) {
	srv := server(t, map[string]string{"main.js": `export async function main(ns) {
  if (ns.args[0]) /x/.test('y')
  while (ns.args[1]) /x/g.test('y')
  ns.hack("n00dles")
}`})
	res := calc(t, newCalc(t), srv, "main.js")
	require.Nil(t, res.Err)
	assert.Equal(t, 1.7, res.Cost)
}

func TestSortEntries(t *testing.T) {
	in := []Entry{
		{Misc, "baseCost", 1.6},
		{NS, "hack", 0.1},
		{DOM, "document", 25},
		{NS, "grow", 0.15},
		{NS, "weaken", 0.15},
	}
	got := SortEntries(in)
	assert.Equal(t, []string{"baseCost", "document", "grow", "weaken", "hack"}, names(got))
	assert.Equal(t, "hack", in[1].Name, "input untouched")
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "SyntaxError", SyntaxError.String())
	assert.Equal(t, "ImportError", ImportError.String())
	err := &Error{Kind: ImportError, Message: "boom"}
	assert.EqualError(t, err, "ImportError: boom")
}
