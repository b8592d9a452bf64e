// Package engine owns the state of a game session: the servers and their
// scripts, the compiled-unit cache and the host units are loaded into.
// Every public method runs as one atomic turn under the engine lock, so a
// dependency map or a link is never observed half built. Cost calculations
// take their turn to snapshot the server and then run outside the lock.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/rubiojr/netscript/capability"
	"github.com/rubiojr/netscript/compiler"
	"github.com/rubiojr/netscript/config"
	"github.com/rubiojr/netscript/lint"
	"github.com/rubiojr/netscript/parser"
	"github.com/rubiojr/netscript/ramcost"
	"github.com/rubiojr/netscript/script"
)

// ErrNotFound is returned for a server or script that does not exist.
var ErrNotFound = errors.New("not found")

// Engine is a session. The zero value is not usable; call New.
type Engine struct {
	mu      sync.Mutex
	cfg     config.Config
	logger  *slog.Logger
	servers map[string]*script.Server

	host   compiler.Host
	cache  *compiler.Cache
	linker *compiler.Linker
	calc   *ramcost.Calculator
}

// Option configures an Engine.
type Option func(*Engine)

// WithHost replaces the in-memory BlobHost.
func WithHost(h compiler.Host) Option {
	return func(e *Engine) { e.host = h }
}

// WithLogger sets the logger. The default is slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New builds a session from cfg.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:     cfg,
		logger:  slog.Default(),
		servers: make(map[string]*script.Server),
	}
	for _, o := range opts {
		o(e)
	}
	if e.host == nil {
		e.host = compiler.NewBlobHost()
	}

	reg := capability.Default()
	names := make([]string, 0, len(cfg.Prices))
	for name := range cfg.Prices {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := reg.SetPrice(name, cfg.Prices[name]); err != nil {
			return nil, fmt.Errorf("price override: %w", err)
		}
	}

	calc, err := ramcost.New(reg, cfg.RAM.ParseCache,
		ramcost.WithLimits(cfg.RAM.Base, cfg.RAM.Max),
		ramcost.WithContext(capability.Context{BitNode: cfg.RAM.BitNode, SingularityLevel: cfg.RAM.SingularityLevel}),
		ramcost.WithLogger(e.logger),
	)
	if err != nil {
		return nil, err
	}
	e.calc = calc

	host := e.host
	e.cache = compiler.NewCache(func(u *compiler.Unit) {
		e.logger.Debug("unit evicted", "url", u.URL(), "script", u.Path())
		host.Revoke(u.URL())
	})
	e.linker = compiler.NewLinker(host, e.cache, e.logger)
	e.linker.Locker = &e.mu
	return e, nil
}

// Calculator returns the cost calculator.
func (e *Engine) Calculator() *ramcost.Calculator { return e.calc }

// Host returns the host units are published to.
func (e *Engine) Host() compiler.Host { return e.host }

// server returns the named server, creating it when create is set.
func (e *Engine) server(name string, create bool) (*script.Server, error) {
	srv, ok := e.servers[name]
	if ok {
		return srv, nil
	}
	if !create {
		return nil, fmt.Errorf("server %s: %w", name, ErrNotFound)
	}
	srv = script.NewServer(name)
	e.servers[name] = srv
	return srv, nil
}

func (e *Engine) script(server, path string) (*script.Server, *script.Script, error) {
	srv, err := e.server(server, false)
	if err != nil {
		return nil, nil, err
	}
	p, err := script.ResolvePath(path, "")
	if err != nil {
		return nil, nil, err
	}
	sc, ok := srv.Script(p)
	if !ok {
		return nil, nil, fmt.Errorf("script %s on %s: %w", p, server, ErrNotFound)
	}
	return srv, sc, nil
}

// Servers returns the names of all servers, sorted.
func (e *Engine) Servers() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.servers))
	for n := range e.servers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Scripts returns the script paths on server, sorted.
func (e *Engine) Scripts(server string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	srv, err := e.server(server, false)
	if err != nil {
		return nil, err
	}
	return srv.Paths(), nil
}

// WriteScript creates or updates a script, creating the server on demand.
// Updating invalidates the compiled units of the script and its dependents.
func (e *Engine) WriteScript(server, path, code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	srv, _ := e.server(server, true)
	sc, err := srv.Write(path, code)
	if err != nil {
		return err
	}
	e.logger.Debug("script written", "server", server, "path", sc.Path)
	return nil
}

// RemoveScript deletes a script.
func (e *Engine) RemoveScript(server, path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	srv, err := e.server(server, false)
	if err != nil {
		return err
	}
	if !srv.Remove(path) {
		return fmt.Errorf("script %s on %s: %w", path, server, ErrNotFound)
	}
	return nil
}

// costJob is what a cost calculation needs, copied out of the session so
// the calculation itself runs without the engine lock.
type costJob struct {
	sc   *script.Script
	path string
	code string
	gen  uint64
	snap *script.Snapshot
}

func (e *Engine) costJob(server, path string) (*costJob, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	srv, sc, err := e.script(server, path)
	if err != nil {
		return nil, err
	}
	return &costJob{sc: sc, path: sc.Path, code: sc.Code(), gen: srv.Generation(), snap: srv.Snapshot()}, nil
}

func (e *Engine) calculate(j *costJob) ramcost.Result {
	res := e.calc.Calculate(j.code, j.path, j.snap.Name, j.snap)
	if res.Err == nil {
		e.mu.Lock()
		// a stale generation never matches a later RAMUsage lookup
		j.sc.SetRAMUsage(res.Cost, j.gen)
		e.mu.Unlock()
	}
	return res
}

// ComputeCost returns the itemized RAM cost of a script. Cost failures are
// reported in the result; the error is only set for a missing script.
// The calculation runs on a snapshot of the server, outside the engine
// lock, so costs of several scripts can be computed in parallel.
func (e *Engine) ComputeCost(server, path string) (ramcost.Result, error) {
	j, err := e.costJob(server, path)
	if err != nil {
		return ramcost.Result{}, err
	}
	return e.calculate(j), nil
}

// RAMUsage returns the cost of a script, reusing the value cached on the
// script while nothing on its server changed.
func (e *Engine) RAMUsage(server, path string) (float64, error) {
	e.mu.Lock()
	srv, sc, err := e.script(server, path)
	if err != nil {
		e.mu.Unlock()
		return 0, err
	}
	if cost, ok := sc.RAMUsage(srv.Generation()); ok {
		e.mu.Unlock()
		return cost, nil
	}
	e.mu.Unlock()

	j, err := e.costJob(server, path)
	if err != nil {
		return 0, err
	}
	res := e.calculate(j)
	if res.Err != nil {
		return 0, res.Err
	}
	return res.Cost, nil
}

// LinkScript links a script and returns its unit without waiting for the
// unit to be instantiated.
func (e *Engine) LinkScript(ctx context.Context, server, path string) (*compiler.Unit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	srv, sc, err := e.script(server, path)
	if err != nil {
		return nil, err
	}
	return e.linker.Link(ctx, sc, srv)
}

// CompileScript links a script and waits for its unit to be instantiated.
// The engine lock is released while waiting.
func (e *Engine) CompileScript(ctx context.Context, server, path string) (*compiler.Unit, error) {
	u, err := e.LinkScript(ctx, server, path)
	if err != nil {
		return nil, err
	}
	if err := u.Wait(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

// SuspiciousLoops runs the infinite-loop heuristic over a script.
func (e *Engine) SuspiciousLoops(server, path string) ([]int, error) {
	e.mu.Lock()
	srv, sc, err := e.script(server, path)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	p, code := sc.Path, sc.Code()
	e.mu.Unlock()

	prog, err := parser.ParseFile(p, code)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", p, srv.Name, err)
	}
	return lint.SuspiciousLoops(prog, code), nil
}

// Reset ends the session: every server is dropped and the unit cache is
// emptied.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, srv := range e.servers {
		srv.Reset()
	}
	e.servers = make(map[string]*script.Server)
	e.cache.Clear()
	e.logger.Debug("session reset")
}

// CachedUnits returns the number of entries in the compiled-unit cache.
func (e *Engine) CachedUnits() int { return e.cache.Len() }

// ComputeCostCached is ComputeCost backed by an on-disk cache. hit reports
// whether the result came from dc. Failed results are not stored.
func (e *Engine) ComputeCostCached(dc *ramcost.DiskCache, server, path string) (res ramcost.Result, hit bool, err error) {
	j, err := e.costJob(server, path)
	if err != nil {
		return ramcost.Result{}, false, err
	}
	key := e.calc.Key(j.path, j.code, j.snap)
	if cached, ok, err := dc.Get(key); err != nil {
		e.logger.Warn("cost cache read failed", "script", j.path, "error", err)
	} else if ok {
		return cached, true, nil
	}
	res = e.calculate(j)
	if res.Err != nil {
		return res, false, nil
	}
	if err := dc.Put(key, res); err != nil {
		e.logger.Warn("cost cache write failed", "script", j.path, "error", err)
	}
	return res, false, nil
}

// Dependency is a script another script was linked against.
type Dependency struct {
	Path string
	URL  string // empty once the dependency was invalidated
}

// Dependencies lists the scripts a linked script depends on, transitively.
func (e *Engine) Dependencies(server, path string) ([]Dependency, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, sc, err := e.script(server, path)
	if err != nil {
		return nil, err
	}
	deps := sc.Dependencies()
	out := make([]Dependency, len(deps))
	for i, d := range deps {
		out[i] = Dependency{Path: d.Path}
		if m := d.Module(); m != nil {
			out[i].URL = m.URL()
		}
	}
	return out, nil
}

// Lint runs the default advisory checks over a script.
func (e *Engine) Lint(server, path string) ([]lint.Finding, error) {
	e.mu.Lock()
	_, sc, err := e.script(server, path)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	p, code := sc.Path, sc.Code()
	e.mu.Unlock()

	prog, err := parser.ParseFile(p, code)
	if err != nil {
		return nil, err
	}
	return lint.Default().Run(prog), nil
}
