package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/netscript/parser"
	"github.com/rubiojr/netscript/script"
)

func build(t *testing.T, srv *script.Server, path, code string) *Result {
	t.Helper()
	prog, err := parser.ParseFile(path, code)
	require.NoError(t, err)
	return Build(prog, path, srv)
}

func TestKeysAndReferences(t *testing.T) {
	res := build(t, script.NewServer("home"), "main.js", `
const target = "n00dles";
export async function main(ns) {
  function inner() { ns.hack(target) }
  inner();
}
helper();
`)
	main := res.Deps["main.js.main"]
	require.NotNil(t, main)
	for _, k := range []string{"ns", "main.js.ns", "hack", "main.js.hack", "inner", "target"} {
		assert.Contains(t, main, k)
	}
	_, nested := res.Deps["main.js.inner"]
	assert.False(t, nested, "nested functions collapse into the top-level key")

	global := res.Deps["main.js.__GLOBAL__"]
	assert.Contains(t, global, "helper")
	assert.Contains(t, global, "main.js.helper")
	assert.NotContains(t, global, "hack")
}

func TestControlConstructs(t *testing.T) {
	res := build(t, script.NewServer("home"), "a.js", `
if (x) {}
for (;;) {}
for (const k of xs) {}
while (y) {}
do {} while (z)
`)
	global := res.Deps["a.js.__GLOBAL__"]
	assert.Contains(t, global, IfRef)
	assert.Contains(t, global, ForRef)
	assert.Contains(t, global, WhileRef)
}

func TestDefaultExportKey(t *testing.T) {
	res := build(t, script.NewServer("home"), "a.js", "export default function () { ns.grow() }")
	assert.Contains(t, res.Deps["a.js.__SPECIAL_DEFAULT__"], "grow")
}

func TestImports(t *testing.T) {
	srv := script.NewServer("home")
	for _, p := range []string{"lib.js", "util.ts", "all.js", "re.js"} {
		_, err := srv.Write(p, "")
		require.NoError(t, err)
	}
	res := build(t, srv, "main.ts", `
import { weaken as w } from "./lib";
import * as u from "./util";
import type { T } from "./types";
export * from "./all.js";
export { grow as g } from "./re.js";
import missing from "./nope";
import { x } from "https://cdn.example.com/x.js";
export async function main() { w(); u.f(); }
`)
	assert.Equal(t, []string{"lib.js", "util.ts", "all.js", "re.js", "nope", "https://cdn.example.com/x.js"}, res.AdditionalModules)

	main := res.Deps["main.ts.main"]
	assert.Contains(t, main, "lib.js.weaken")
	assert.Contains(t, main, "w")

	global := res.Deps["main.ts.__GLOBAL__"]
	assert.Contains(t, global, "lib.js.__GLOBAL__")
	assert.Contains(t, global, "util.ts.*")
	assert.Contains(t, global, "all.js.*")
	assert.Contains(t, global, "nope.*")
	assert.Contains(t, res.Deps["main.ts.g"], "re.js.grow")
}

func TestLocalExportAlias(t *testing.T) {
	res := build(t, script.NewServer("home"), "lib.js", "function a() { ns.hack() }\nexport { a as b }")
	assert.Contains(t, res.Deps["lib.js.b"], "lib.js.a")
}

func TestRAMOverride(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"member call", "export async function main(ns) { ns.ramOverride(4.5); ns.hack() }", "4.5"},
		{"bare call", "async function main(ns) { ramOverride(8) }", ""},
		{"nested member", "async function main(ns) { globalThis.ns.ramOverride(8) }", "8"},
		{"not first", "export async function main(ns) { ns.hack(); ns.ramOverride(4) }", ""},
		{"not literal", "export async function main(ns) { ns.ramOverride(x) }", ""},
		{"two args", "export async function main(ns) { ns.ramOverride(4, 5) }", ""},
		{"other function", "export async function run(ns) { ns.ramOverride(4) }", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := build(t, script.NewServer("home"), "m.js", tt.code)
			got, ok := res.Deps["m.js."+OverrideKey]
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, []string{tt.want}, got.Sorted())
		})
	}
}

func TestTypedAndJSXTrees(t *testing.T) {
	srv := script.NewServer("home")
	res := build(t, srv, "a.tsx", `
interface P { n: number }
export function View(p: P) { return <Widget onClick={() => ns.hack(p.n as number)} /> }
`)
	view := res.Deps["a.tsx.View"]
	assert.Contains(t, view, "Widget")
	assert.Contains(t, view, "hack")
	assert.NotContains(t, view, "number")
}

func TestNameAndMerge(t *testing.T) {
	assert.Equal(t, "hack", Name("lib.js.hack"))
	assert.Equal(t, "hack", Name("hack"))
	assert.Equal(t, "*", Name("lib.js.*"))

	a := Map{}
	a.Add("x", "y")
	b := Map{}
	b.Add("x", "z")
	b.Touch("w")
	a.Merge(b)
	assert.Equal(t, []string{"w", "x"}, a.Keys())
	assert.Equal(t, []string{"y", "z"}, a["x"].Sorted())
}
