package ramcost

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/netscript/capability"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	d, err := OpenDiskCache(t.TempDir(), 0)
	require.NoError(t, err)

	_, ok, err := d.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	want := Result{Cost: 1.75, Entries: []Entry{
		{Type: Misc, Name: "baseCost", Cost: 1.6},
		{Type: NS, Name: "grow", Cost: 0.15},
	}}
	require.NoError(t, d.Put("k1", want))
	got, ok, err := d.Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	failed := Result{Err: &Error{Kind: ImportError, Message: "gone"}}
	require.NoError(t, d.Put("k2", failed))
	got, ok, err = d.Get("k2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, failed, got)

	require.NoError(t, d.Clear())
	_, ok, _ = d.Get("k1")
	assert.False(t, ok)
}

func TestDiskCacheNil(t *testing.T) {
	var d *DiskCache
	_, ok, err := d.Get("k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, d.Put("k", Result{}))
}

func TestDiskCacheEviction(t *testing.T) {
	dir := t.TempDir()
	d, err := OpenDiskCache(dir, 0)
	require.NoError(t, err)

	res := Result{Cost: 2.3, Entries: []Entry{{Type: Misc, Name: "baseCost", Cost: 1.6}}}
	require.NoError(t, d.Put("old", res))
	info, err := os.Stat(d.pathFor("old"))
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(d.pathFor("old"), past, past))

	d.maxBytes = info.Size()*2 - 1
	require.NoError(t, d.Put("new", res))

	_, err = os.Stat(d.pathFor("old"))
	assert.True(t, os.IsNotExist(err), "oldest entry evicted")
	_, ok, err := d.Get("new")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestKeyTracksServer(t *testing.T) {
	c := newCalc(t)
	srv := server(t, map[string]string{"main.js": "export async function main(ns) {}", "lib.js": ""})
	sc, _ := srv.Script("main.js")

	k1 := c.Key("main.js", sc.Code(), srv)
	assert.Equal(t, k1, c.Key("main.js", sc.Code(), srv))

	_, err := srv.Write("lib.js", "export const x = 1")
	require.NoError(t, err)
	k2 := c.Key("main.js", sc.Code(), srv)
	assert.NotEqual(t, k1, k2)

	other := newCalc(t, WithContext(capability.Context{SingularityLevel: 3}))
	assert.NotEqual(t, k2, other.Key("main.js", sc.Code(), srv))

	capped := newCalc(t, WithLimits(1.6, 32))
	assert.NotEqual(t, k2, capped.Key("main.js", sc.Code(), srv))
}
