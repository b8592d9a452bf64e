package compiler

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/netscript/script"
)

// fakeHost records what the linker hands it. Instantiation of a URL whose
// code is listed in fail returns an error.
type fakeHost struct {
	mu           sync.Mutex
	published    map[string]string
	revoked      []string
	instantiated []string
	fail         map[string]bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{published: make(map[string]string), fail: make(map[string]bool)}
}

func (h *fakeHost) Publish(url, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.published[url] = code
}

func (h *fakeHost) Instantiate(_ context.Context, url string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.instantiated = append(h.instantiated, url)
	if h.fail[h.published[url]] {
		return errors.New("boom")
	}
	return nil
}

func (h *fakeHost) Revoke(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.revoked = append(h.revoked, url)
}

func (h *fakeHost) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.published)
}

type fixture struct {
	srv    *script.Server
	host   Host
	cache  *Cache
	linker *Linker
}

func newFixture(t *testing.T, host Host, files map[string]string) *fixture {
	t.Helper()
	srv := script.NewServer("home")
	for p, code := range files {
		_, err := srv.Write(p, code)
		require.NoError(t, err)
	}
	cache := NewCache(func(u *Unit) { host.Revoke(u.URL()) })
	return &fixture{srv: srv, host: host, cache: cache, linker: NewLinker(host, cache, nil)}
}

func (f *fixture) script(t *testing.T, path string) *script.Script {
	t.Helper()
	sc, ok := f.srv.Script(path)
	require.True(t, ok, path)
	return sc
}

func (f *fixture) compile(t *testing.T, path string) *Unit {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	u, err := f.linker.Compile(ctx, f.script(t, path), f.srv)
	require.NoError(t, err)
	return u
}

func TestLinkSingle(t *testing.T) {
	host := newFakeHost()
	f := newFixture(t, host, map[string]string{"main.js": "export async function main(ns) { ns.tprint('hi') }"})
	u := f.compile(t, "main.js")

	assert.Contains(t, u.URL(), URLScheme)
	assert.Equal(t, "export async function main(ns) { ns.tprint('hi') }", u.Code())
	assert.Equal(t, "main.js", u.Path())
	assert.Equal(t, 1, f.cache.Len())
	assert.Equal(t, 1, f.cache.Refs(u.Code()))
	assert.Equal(t, 1, host.count())
	assert.NoError(t, u.Err())
}

func TestLinkRewritesImports(t *testing.T) {
	f := newFixture(t, newFakeHost(), map[string]string{
		"main.js": `import { grow } from "./lib";
export * from './util.js';
import { x } from "https://cdn.example.com/x.js";
export async function main(ns) { await grow(ns); x() }`,
		"lib.js":  `import { log } from "util.js"; export async function grow(ns) { log(); await ns.grow("n00dles") }`,
		"util.js": "export function log() {}",
	})
	main := f.compile(t, "main.js")
	lib := f.script(t, "lib.js").Module().(*Unit)
	util := f.script(t, "util.js").Module().(*Unit)

	assert.Equal(t, `import { grow } from `+strconv.Quote(lib.URL())+`;
export * from `+strconv.Quote(util.URL())+`;
import { x } from "https://cdn.example.com/x.js";
export async function main(ns) { await grow(ns); x() }`, main.Code())
	assert.Contains(t, lib.Code(), strconv.Quote(util.URL()))

	mainSc := f.script(t, "main.js")
	assert.Equal(t, []string{"lib.js", "util.js"}, paths(mainSc.Dependencies()))
	assert.Equal(t, []string{"main.js"}, paths(f.script(t, "lib.js").Dependents()))
	assert.Equal(t, []string{"lib.js", "main.js"}, paths(f.script(t, "util.js").Dependents()))
	assert.Equal(t, 3, f.cache.Len())
}

func paths(scripts []*script.Script) []string {
	out := make([]string, len(scripts))
	for i, s := range scripts {
		out[i] = s.Path
	}
	return out
}

func TestLinkIdempotent(t *testing.T) {
	host := newFakeHost()
	f := newFixture(t, host, map[string]string{"main.js": "export const a = 1"})
	first := f.compile(t, "main.js")
	second := f.compile(t, "main.js")
	assert.Same(t, first, second)
	assert.Equal(t, 1, host.count())
	assert.Equal(t, 1, f.cache.Refs(first.Code()))
}

func TestIdenticalCodeSharesUnit(t *testing.T) {
	host := newFakeHost()
	f := newFixture(t, host, map[string]string{"a.js": "export const v = 1", "b.js": "export const v = 1"})
	a := f.compile(t, "a.js")
	b := f.compile(t, "b.js")
	assert.Same(t, a, b)
	assert.Equal(t, 2, f.cache.Refs(a.Code()))

	require.True(t, f.srv.Remove("a.js"))
	assert.Equal(t, 1, f.cache.Refs(a.Code()))
	assert.Empty(t, host.revoked)

	require.True(t, f.srv.Remove("b.js"))
	assert.Equal(t, 0, f.cache.Len())
	assert.Equal(t, []string{a.URL()}, host.revoked)
}

func TestEditInvalidatesDependents(t *testing.T) {
	f := newFixture(t, newFakeHost(), map[string]string{
		"main.js": `import { v } from "./lib.js"; export const w = v`,
		"lib.js":  "export const v = 1",
	})
	old := f.compile(t, "main.js")
	oldLib := f.script(t, "lib.js").Module().(*Unit)

	_, err := f.srv.Write("lib.js", "export const v = 2")
	require.NoError(t, err)
	assert.Nil(t, f.script(t, "main.js").Module())
	assert.Nil(t, f.script(t, "lib.js").Module())
	assert.Equal(t, 0, f.cache.Len())

	fresh := f.compile(t, "main.js")
	assert.NotEqual(t, old.URL(), fresh.URL())
	newLib := f.script(t, "lib.js").Module().(*Unit)
	assert.NotEqual(t, oldLib.URL(), newLib.URL())
	assert.Contains(t, fresh.Code(), strconv.Quote(newLib.URL()))
}

func TestImportCycle(t *testing.T) {
	f := newFixture(t, NewBlobHost(), map[string]string{
		"a.js": `import { b } from "./b.js"; export function a() { return b }`,
		"b.js": `import { a } from "./a.js"; export function b() { return a }`,
	})
	a := f.compile(t, "a.js")
	b := f.script(t, "b.js").Module().(*Unit)
	require.NotNil(t, b)

	assert.Contains(t, a.Code(), strconv.Quote(b.URL()))
	assert.Contains(t, b.Code(), strconv.Quote(a.URL()))
	ctx := context.Background()
	assert.NoError(t, b.Wait(ctx))

	// editing either end invalidates both
	_, err := f.srv.Write("b.js", `import { a } from "./a.js"; export function b() { return a() }`)
	require.NoError(t, err)
	assert.Nil(t, f.script(t, "a.js").Module())
	assert.Nil(t, f.script(t, "b.js").Module())
}

func TestMissingImport(t *testing.T) {
	f := newFixture(t, newFakeHost(), map[string]string{
		"main.js": `import { v } from "./lib.js"; import { w } from "./nope"; export const x = v + w`,
		"lib.js":  "export const v = 1",
	})
	_, err := f.linker.Link(context.Background(), f.script(t, "main.js"), f.srv)
	var ierr *ImportError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "./nope", ierr.Specifier)
	assert.Equal(t, "nope", ierr.Path)
	assert.Equal(t, "main.js", ierr.Importer)
	assert.EqualError(t, err, `File: "./nope" imported by "main.js" not found on server: home`)
	assert.Nil(t, f.script(t, "main.js").Module())
	assert.NotNil(t, f.script(t, "lib.js").Module(), "dependencies linked before the failure keep their unit")
}

func TestFailedCycleInvalidatesCapturedUnits(t *testing.T) {
	f := newFixture(t, newFakeHost(), map[string]string{
		"a.js": `import { b } from "./b.js"; import { c } from "./missing.js"; export const a = 1`,
		"b.js": `import { a } from "./a.js"; export const b = 2`,
	})
	var evicted []*Unit
	f.cache.onEvict = func(u *Unit) { evicted = append(evicted, u) }

	_, err := f.linker.Link(context.Background(), f.script(t, "a.js"), f.srv)
	require.Error(t, err)
	assert.Nil(t, f.script(t, "a.js").Module())
	assert.Nil(t, f.script(t, "b.js").Module())

	// b was linked against a's reserved URL and rolled back: it is never
	// handed to the host
	require.Len(t, evicted, 1)
	assert.Equal(t, "b.js", evicted[0].Path())
	assert.ErrorIs(t, evicted[0].Err(), ErrAbandoned)
	host := f.host.(*fakeHost)
	host.mu.Lock()
	defer host.mu.Unlock()
	assert.Empty(t, host.instantiated)
}

func TestInstantiationFailure(t *testing.T) {
	host := newFakeHost()
	const code = "export const broken = 1"
	host.fail[code] = true
	f := newFixture(t, host, map[string]string{"main.js": code})
	var mu sync.Mutex
	f.linker.Locker = &mu

	sc := f.script(t, "main.js")
	mu.Lock()
	u, err := f.linker.Link(context.Background(), sc, f.srv)
	mu.Unlock()
	require.NoError(t, err)

	err = u.Wait(context.Background())
	var ierr *InstantiationError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "main.js", ierr.Path)
	assert.EqualError(t, errors.Unwrap(err), "boom")

	mu.Lock()
	defer mu.Unlock()
	assert.Nil(t, sc.Module())
	assert.Equal(t, 0, f.cache.Len())
}

func TestCompileTyped(t *testing.T) {
	f := newFixture(t, NewBlobHost(), map[string]string{
		"main.ts": `import { grow } from "./lib";
interface Opts { target: string }
export async function main(ns: NS): Promise<void> {
  const o: Opts = { target: "n00dles" };
  await grow(ns, o.target as string);
}`,
		"lib.tsx": `export async function grow(ns: any, t: string) { ns.tprintRaw(<b>{t}</b>); await ns.grow(t) }`,
	})
	u := f.compile(t, "main.ts")
	lib := f.script(t, "lib.tsx").Module().(*Unit)
	assert.NotContains(t, u.Code(), "interface")
	assert.NotContains(t, u.Code(), ": NS")
	assert.Contains(t, u.Code(), strconv.Quote(lib.URL()))
	assert.Contains(t, lib.Code(), "React.createElement")
}

func TestTransformError(t *testing.T) {
	f := newFixture(t, newFakeHost(), map[string]string{"main.ts": "let x: = 1"})
	_, err := f.linker.Link(context.Background(), f.script(t, "main.ts"), f.srv)
	var terr *TransformError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "main.ts", terr.Path)
	assert.NotEmpty(t, terr.Messages)
	assert.Equal(t, 0, f.cache.Len())
}

func TestWaitHonorsContext(t *testing.T) {
	u := newUnit("x.js")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, u.Wait(ctx), context.Canceled)
	assert.NoError(t, u.Err())
	u.settle(errors.New("late"))
	u.settle(nil)
	assert.EqualError(t, u.Wait(context.Background()), "late")
}
