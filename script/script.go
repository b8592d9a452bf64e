// Package script models the scripts stored on a server and the
// dependency bookkeeping the linker needs to invalidate compiled code.
package script

import "sort"

// Module is a compiled unit as seen by the script that holds it. Release
// is called exactly once, when the script drops its reference.
type Module interface {
	URL() string
	Release()
}

// Lookup finds sibling scripts by canonical path. *Server implements it.
type Lookup interface {
	Script(path string) (*Script, bool)
}

// Script is a source file on a server.
type Script struct {
	Server string
	Path   string

	code   string
	module Module

	ramUsage    float64
	ramGen      uint64
	ramUsageSet bool

	dependencies map[string]*Script
	dependents   map[string]*Script
}

// New creates a script with no compiled module.
func New(server, path, code string) *Script {
	return &Script{
		Server:       server,
		Path:         path,
		code:         code,
		dependencies: make(map[string]*Script),
		dependents:   make(map[string]*Script),
	}
}

// Code returns the current source text.
func (s *Script) Code() string { return s.code }

// SetCode replaces the source text. A change invalidates the compiled
// module of the script and of everything depending on it.
func (s *Script) SetCode(code string) {
	if code == s.code {
		return
	}
	s.code = code
	s.InvalidateModule()
}

// Module returns the compiled module, or nil when the script has not been
// linked since its last invalidation.
func (s *Script) Module() Module { return s.module }

// SetModule stores the compiled module. A previously held module is
// released.
func (s *Script) SetModule(m Module) {
	if s.module == m {
		return
	}
	if s.module != nil {
		s.module.Release()
	}
	s.module = m
}

// InvalidateModule drops the compiled module and the cached RAM usage, and
// propagates to every dependent since their code embeds the old module URL.
func (s *Script) InvalidateModule() {
	s.ramUsageSet = false
	if s.module == nil {
		return
	}
	m := s.module
	s.module = nil
	m.Release()
	for _, d := range s.Dependents() {
		d.InvalidateModule()
	}
}

// AddDependency records that s transitively imports dep.
func (s *Script) AddDependency(dep *Script) {
	if dep != s {
		s.dependencies[dep.Path] = dep
	}
}

// AddDependent records that d imports s directly.
func (s *Script) AddDependent(d *Script) {
	if d != s {
		s.dependents[d.Path] = d
	}
}

// Dependencies returns the scripts s imports, sorted by path.
func (s *Script) Dependencies() []*Script { return sorted(s.dependencies) }

// Dependents returns the scripts importing s, sorted by path.
func (s *Script) Dependents() []*Script { return sorted(s.dependents) }

// forget removes every reference to other.
func (s *Script) forget(other *Script) {
	if s.dependencies[other.Path] == other {
		delete(s.dependencies, other.Path)
	}
	if s.dependents[other.Path] == other {
		delete(s.dependents, other.Path)
	}
}

// RAMUsage returns the cached cost if it was computed at server generation
// gen and nothing invalidated it since.
func (s *Script) RAMUsage(gen uint64) (float64, bool) {
	if !s.ramUsageSet || s.ramGen != gen {
		return 0, false
	}
	return s.ramUsage, true
}

// SetRAMUsage caches a successfully computed cost.
func (s *Script) SetRAMUsage(cost float64, gen uint64) {
	s.ramUsage, s.ramGen, s.ramUsageSet = cost, gen, true
}

func sorted(m map[string]*Script) []*Script {
	out := make([]*Script, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
