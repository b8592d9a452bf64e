package compiler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rubiojr/netscript/parser"
	"github.com/rubiojr/netscript/script"
)

// Host loads linked code.
type Host interface {
	// Publish makes code available at url. It must not block: every unit
	// of a link is published before any of them is instantiated.
	Publish(url, code string)
	// Instantiate loads the unit published at url.
	Instantiate(ctx context.Context, url string) error
	// Revoke forgets url once its unit has left the cache.
	Revoke(url string)
}

// BlobHost keeps published code in memory. Instantiating a unit reparses
// its code and checks that every import names a published unit or a
// network URL. Executors read linked code back with Fetch.
type BlobHost struct {
	mu    sync.RWMutex
	blobs map[string]string
	ready map[string]bool
}

// NewBlobHost returns an empty host.
func NewBlobHost() *BlobHost {
	return &BlobHost{blobs: make(map[string]string), ready: make(map[string]bool)}
}

func (h *BlobHost) Publish(url, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.blobs[url] = code
}

func (h *BlobHost) Instantiate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	code, ok := h.Fetch(url)
	if !ok {
		return fmt.Errorf("no module published at %s", url)
	}
	prog, err := parser.Parse(url, code, parser.Plain)
	if err != nil {
		return err
	}
	for _, imp := range findImports(prog) {
		switch {
		case script.IsURL(imp.Spec):
		case strings.HasPrefix(imp.Spec, URLScheme):
			if _, ok := h.Fetch(imp.Spec); !ok {
				return fmt.Errorf("failed to fetch dynamically imported module: %s", imp.Spec)
			}
		default:
			return fmt.Errorf("failed to resolve module specifier %q", imp.Spec)
		}
	}
	h.mu.Lock()
	h.ready[url] = true
	h.mu.Unlock()
	return nil
}

func (h *BlobHost) Revoke(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.blobs, url)
	delete(h.ready, url)
}

// Fetch returns the code published at url.
func (h *BlobHost) Fetch(url string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	code, ok := h.blobs[url]
	return code, ok
}

// Ready reports whether url was instantiated successfully.
func (h *BlobHost) Ready(url string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ready[url]
}

// Len returns the number of published units.
func (h *BlobHost) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.blobs)
}
