// Package compiler links scripts into compiled units. Linking rewrites
// every import of a script to the URL of its dependency's unit, shares
// units between scripts whose final code is identical, and hands new
// units to a Host for instantiation.
package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/rubiojr/netscript/parser"
	"github.com/rubiojr/netscript/script"
)

// Linker links scripts of a server. It is not safe for concurrent use;
// callers serialize Link the same way they serialize edits to scripts.
type Linker struct {
	Host   Host
	Cache  *Cache
	Logger *slog.Logger
	// Locker, when set, is held while a failed instantiation invalidates
	// the scripts holding the unit.
	Locker sync.Locker
}

// NewLinker returns a linker. A nil logger selects slog.Default.
func NewLinker(host Host, cache *Cache, logger *slog.Logger) *Linker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Linker{Host: host, Cache: cache, Logger: logger}
}

// frame is a script being linked and the unit reserved for it.
type frame struct {
	sc   *script.Script
	unit *Unit
}

// session collects the units created by one top-level Link.
type session struct {
	server  *script.Server
	created []*Unit
}

// Link makes sure sc and everything it imports hold a unit and returns the
// unit of sc. New units are published before Link returns; their
// instantiation continues in the background, outliving ctx cancellation,
// and is awaited with Unit.Wait.
func (l *Linker) Link(ctx context.Context, sc *script.Script, srv *script.Server) (*Unit, error) {
	s := &session{server: srv}
	u, err := l.link(s, sc, nil)
	bg := context.WithoutCancel(ctx)
	for _, c := range s.created {
		if !c.held() {
			// rolled back by abandon; its entry is already gone
			c.settle(ErrAbandoned)
			continue
		}
		go l.instantiate(bg, c)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Compile links sc and waits for its unit to be instantiated.
func (l *Linker) Compile(ctx context.Context, sc *script.Script, srv *script.Server) (*Unit, error) {
	u, err := l.Link(ctx, sc, srv)
	if err != nil {
		return nil, err
	}
	if err := u.Wait(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func (l *Linker) link(s *session, sc *script.Script, stack []frame) (*Unit, error) {
	if m := sc.Module(); m != nil {
		if u, ok := m.(*Unit); ok {
			record(sc, stack)
			return u, nil
		}
	}
	for _, f := range stack {
		if f.sc == sc {
			// import cycle: reuse the unit reserved further up
			f.unit.cited = true
			record(sc, stack)
			return f.unit, nil
		}
	}

	code, err := Transform(sc.Path, sc.Code())
	if err != nil {
		return nil, err
	}
	prog, err := parser.Parse(sc.Path, code, parser.Plain)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", sc.Path, err)
	}

	self := frame{sc: sc, unit: newUnit(sc.Path)}
	stack = append(stack, self)

	imports := findImports(prog)
	urls := make([]string, len(imports))
	for i, imp := range imports {
		if script.IsURL(imp.Spec) {
			continue
		}
		path, ok := script.ResolveImport(imp.Spec, sc.Path, s.server)
		if !ok {
			l.abandon(self)
			return nil, &ImportError{Specifier: imp.Spec, Path: path, Importer: sc.Path, Server: s.server.Name}
		}
		dep, _ := s.server.Script(path)
		du, err := l.link(s, dep, stack)
		if err != nil {
			l.abandon(self)
			return nil, err
		}
		urls[i] = du.URL()
	}

	// rewrite from the end so earlier offsets stay valid
	for i := len(imports) - 1; i >= 0; i-- {
		if urls[i] == "" {
			continue
		}
		imp := imports[i]
		code = code[:imp.Start] + strconv.Quote(urls[i]) + code[imp.End:]
	}

	u := l.adopt(s, self, code)
	u.holders = append(u.holders, sc)
	sc.SetModule(u)
	l.Cache.Acquire(u)
	record(sc, stack[:len(stack)-1])
	return u, nil
}

// adopt returns the cached unit for code, or finalizes the reserved one.
// A reserved unit already imported through a cycle carries a URL other
// units embed, so it is kept even when the cache has a match.
func (l *Linker) adopt(s *session, self frame, code string) *Unit {
	if !self.unit.cited {
		if hit, ok := l.Cache.Get(code); ok {
			l.Logger.Debug("unit cache hit", "script", self.sc.Path, "url", hit.URL())
			return hit
		}
	}
	u := self.unit
	u.code = code
	if !l.Cache.Insert(u) {
		l.Logger.Debug("unit shadows cached code", "script", self.sc.Path)
	}
	l.Logger.Debug("unit cache miss", "script", self.sc.Path, "url", u.URL())
	l.Host.Publish(u.URL(), u.code)
	s.created = append(s.created, u)
	return u
}

// record adds the dependency edges for sc having been linked from stack.
func record(sc *script.Script, stack []frame) {
	for _, f := range stack {
		f.sc.AddDependency(sc)
	}
	if len(stack) > 0 {
		sc.AddDependent(stack[len(stack)-1].sc)
	}
}

// abandon invalidates the scripts that captured the reserved unit of a
// script through a cycle before it failed to link.
func (l *Linker) abandon(f frame) {
	if !f.unit.cited {
		return
	}
	for _, d := range f.sc.Dependents() {
		d.InvalidateModule()
	}
}

func (l *Linker) instantiate(ctx context.Context, u *Unit) {
	err := l.Host.Instantiate(ctx, u.URL())
	if err == nil {
		u.settle(nil)
		return
	}
	ierr := &InstantiationError{Path: u.path, URL: u.URL(), Err: err}
	l.Logger.Error("instantiation failed", "script", u.path, "url", u.URL(), "error", err)

	if l.Locker != nil {
		l.Locker.Lock()
	}
	l.Cache.Discard(u)
	for _, sc := range u.holders {
		if sc.Module() == script.Module(u) {
			sc.InvalidateModule()
		}
	}
	if l.Locker != nil {
		l.Locker.Unlock()
	}
	u.settle(ierr)
}
