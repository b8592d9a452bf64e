package script

import (
	"fmt"
	"sort"
)

// Server is a named collection of scripts. It is not safe for concurrent
// use; the engine serializes access.
type Server struct {
	Name string

	scripts    map[string]*Script
	generation uint64
}

// NewServer creates an empty server.
func NewServer(name string) *Server {
	return &Server{Name: name, scripts: make(map[string]*Script)}
}

// Write stores code at path, creating the script or updating the existing
// one. path is validated and canonicalized first.
func (s *Server) Write(path, code string) (*Script, error) {
	p, err := ResolvePath(path, "")
	if err != nil {
		return nil, err
	}
	if !IsScript(p) {
		return nil, fmt.Errorf("%w: %s is not a script", ErrInvalidPath, path)
	}
	s.generation++
	if sc, ok := s.scripts[p]; ok {
		sc.SetCode(code)
		return sc, nil
	}
	sc := New(s.Name, p, code)
	s.scripts[p] = sc
	return sc, nil
}

// Script returns the script stored at the canonical path.
func (s *Server) Script(path string) (*Script, bool) {
	sc, ok := s.scripts[path]
	return sc, ok
}

// Remove deletes the script at path. Its module is invalidated and every
// sibling forgets it.
func (s *Server) Remove(path string) bool {
	p, err := ResolvePath(path, "")
	if err != nil {
		return false
	}
	sc, ok := s.scripts[p]
	if !ok {
		return false
	}
	s.generation++
	sc.InvalidateModule()
	delete(s.scripts, p)
	for _, other := range s.scripts {
		other.forget(sc)
	}
	return true
}

// Reset removes every script.
func (s *Server) Reset() {
	for _, p := range s.Paths() {
		s.Remove(p)
	}
}

// Paths returns the paths of all scripts, sorted.
func (s *Server) Paths() []string {
	paths := make([]string, 0, len(s.scripts))
	for p := range s.scripts {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of scripts.
func (s *Server) Len() int { return len(s.scripts) }

// Generation changes every time a script is written or removed.
func (s *Server) Generation() uint64 { return s.generation }

// Catalog is a Lookup that can also list its paths.
type Catalog interface {
	Lookup
	Paths() []string
}

// Snapshot is a detached copy of the sources on a server. It never
// changes, so it can be read without holding the lock that guards the
// server.
type Snapshot struct {
	Name    string
	scripts map[string]*Script
}

// Snapshot copies the path and code of every script.
func (s *Server) Snapshot() *Snapshot {
	snap := &Snapshot{Name: s.Name, scripts: make(map[string]*Script, len(s.scripts))}
	for p, sc := range s.scripts {
		snap.scripts[p] = New(s.Name, p, sc.code)
	}
	return snap
}

// Script returns the copy of the script at the canonical path.
func (s *Snapshot) Script(path string) (*Script, bool) {
	sc, ok := s.scripts[path]
	return sc, ok
}

// Paths returns the paths of all scripts, sorted.
func (s *Snapshot) Paths() []string {
	paths := make([]string, 0, len(s.scripts))
	for p := range s.scripts {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

var (
	_ Catalog = (*Server)(nil)
	_ Catalog = (*Snapshot)(nil)
)
