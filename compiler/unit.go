package compiler

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/rubiojr/netscript/script"
)

// URLScheme prefixes the URL of every unit.
const URLScheme = "blob:netscript/"

// Unit is a compiled unit: a URL other units import it by, its final code,
// and the outcome of instantiating that code. The URL and code are known
// as soon as the unit is linked; the outcome arrives later.
type Unit struct {
	url  string
	path string
	code string

	cache   *Cache
	holders []*script.Script
	cited   bool // imported through a cycle before it was finalized

	once sync.Once
	done chan struct{}
	err  error
}

func newUnit(path string) *Unit {
	return &Unit{
		url:  URLScheme + uuid.NewString(),
		path: path,
		done: make(chan struct{}),
	}
}

// URL returns the address other units import this one by.
func (u *Unit) URL() string { return u.url }

// Path returns the script the unit was first linked from.
func (u *Unit) Path() string { return u.path }

// Code returns the linked code, with every import rewritten to a unit URL.
func (u *Unit) Code() string { return u.code }

// Release drops one reference held by a script.
func (u *Unit) Release() {
	if u.cache != nil {
		u.cache.Release(u)
	}
}

// Wait blocks until the unit is instantiated and returns the outcome.
func (u *Unit) Wait(ctx context.Context) error {
	select {
	case <-u.done:
		return u.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the outcome is known.
func (u *Unit) Done() <-chan struct{} { return u.done }

// Err returns the instantiation error, or nil while pending or on success.
func (u *Unit) Err() error {
	select {
	case <-u.done:
		return u.err
	default:
		return nil
	}
}

// held reports whether a script still holds u.
func (u *Unit) held() bool {
	for _, sc := range u.holders {
		if sc.Module() == script.Module(u) {
			return true
		}
	}
	return false
}

func (u *Unit) settle(err error) {
	u.once.Do(func() {
		u.err = err
		close(u.done)
	})
}

var _ script.Module = (*Unit)(nil)
