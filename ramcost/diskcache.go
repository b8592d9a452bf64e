package ramcost

import (
	"compress/gzip"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/rubiojr/netscript/script"
)

// bump when the payload layout changes
const diskCacheSchema uint16 = 1

// DefaultDiskCacheBytes caps the on-disk cache size.
const DefaultDiskCacheBytes = 64 * 1024 * 1024

// DiskCache persists results across runs, keyed by everything a result
// depends on (see Key). Entries are msgpack encoded and gzip compressed,
// and the oldest are evicted once the directory exceeds its size cap.
type DiskCache struct {
	mu       sync.Mutex
	dir      string
	maxBytes int64
}

type diskPayload struct {
	Schema uint16
	Result Result
}

// DefaultDiskCacheDir returns $XDG_CACHE_HOME/netscript/ramcost, falling
// back to ~/.cache.
func DefaultDiskCacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "netscript", "ramcost"), nil
}

// OpenDiskCache creates dir if needed. maxBytes <= 0 selects
// DefaultDiskCacheBytes.
func OpenDiskCache(dir string, maxBytes int64) (*DiskCache, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultDiskCacheBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &DiskCache{dir: dir, maxBytes: maxBytes}, nil
}

// Key hashes the calculator settings, the target script and every script
// in scripts, so any edit on the server yields a new key.
func (c *Calculator) Key(path, code string, scripts script.Catalog) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d\x00%g\x00%g\x00%s\x00", diskCacheSchema, c.baseCost, c.maxCost, c.registry.Digest(c.ctx))
	fmt.Fprintf(h, "%s\x00%s\x00", path, code)
	for _, p := range scripts.Paths() {
		sc, _ := scripts.Script(p)
		fmt.Fprintf(h, "%s\x00%d\x00%s\x00", p, len(sc.Code()), sc.Code())
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:32]
}

func (d *DiskCache) pathFor(key string) string {
	return filepath.Join(d.dir, key+".mp.gz")
}

// Get returns the cached result for key and refreshes its timestamp.
func (d *DiskCache) Get(key string) (Result, bool, error) {
	if d == nil {
		return Result{}, false, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, false, nil
		}
		return Result{}, false, err
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return Result{}, false, err
	}
	defer gr.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(gr).Decode(&payload); err != nil {
		return Result{}, false, err
	}
	if payload.Schema != diskCacheSchema {
		return Result{}, false, nil
	}
	now := time.Now()
	os.Chtimes(p, now, now)
	return payload.Result, true, nil
}

// Put stores res under key, then evicts the oldest entries while the cache
// is over its size cap.
func (d *DiskCache) Put(key string, res Result) error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := os.CreateTemp(d.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	gw, err := gzip.NewWriterLevel(f, gzip.BestSpeed)
	if err != nil {
		f.Close()
		return err
	}
	if err := msgpack.NewEncoder(gw).Encode(&diskPayload{Schema: diskCacheSchema, Result: res}); err != nil {
		gw.Close()
		f.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), d.pathFor(key)); err != nil {
		return err
	}
	d.evict()
	return nil
}

// Clear removes every entry.
func (d *DiskCache) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			if err := os.Remove(filepath.Join(d.dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// evict removes the oldest entries until the cache is under the size cap.
func (d *DiskCache) evict() {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return
	}

	type entry struct {
		path    string
		size    int64
		modTime time.Time
	}

	var files []entry
	var total int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, entry{filepath.Join(d.dir, e.Name()), info.Size(), info.ModTime()})
		total += info.Size()
	}
	if total <= d.maxBytes {
		return
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })
	for _, f := range files {
		if total <= d.maxBytes {
			break
		}
		os.Remove(f.path)
		total -= f.size
	}
}
