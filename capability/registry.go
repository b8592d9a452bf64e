// Package capability holds the registry of priced names a script can
// reference. Identifiers found by the dependency graph are looked up here
// by their bare name; the first match in depth-first order wins.
package capability

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// Context carries the player state a dynamic price depends on.
type Context struct {
	// BitNode is the node the player is in. In node 4 singularity
	// functions cost their base price.
	BitNode int
	// SingularityLevel is the level of Source-File 4 the player owns.
	SingularityLevel int
}

// Price is a fixed cost or a callback evaluated against a Context.
type Price struct {
	fixed float64
	fn    func(Context) float64
}

// Fixed returns a constant price.
func Fixed(v float64) Price { return Price{fixed: v} }

// Dynamic returns a price computed when it is resolved.
func Dynamic(fn func(Context) float64) Price { return Price{fn: fn} }

// Cost evaluates the price.
func (p Price) Cost(ctx Context) float64 {
	if p.fn != nil {
		return p.fn(ctx)
	}
	return p.fixed
}

// IsDynamic reports whether the price depends on the Context.
func (p Price) IsDynamic() bool { return p.fn != nil }

type entry struct {
	name  string
	price Price
}

// Namespace is one level of the registry. Entries and child namespaces
// keep their insertion order.
type Namespace struct {
	Name string

	entries  []entry
	children []*Namespace
	parent   *Namespace
}

// Add appends a priced name and returns n for chaining. Adding a name
// twice replaces its price.
func (n *Namespace) Add(name string, p Price) *Namespace {
	for i := range n.entries {
		if n.entries[i].name == name {
			n.entries[i].price = p
			return n
		}
	}
	n.entries = append(n.entries, entry{name, p})
	return n
}

// Fixed is shorthand for Add(name, Fixed(v)).
func (n *Namespace) Fixed(name string, v float64) *Namespace { return n.Add(name, Fixed(v)) }

// Child returns the child namespace called name, creating it if needed.
func (n *Namespace) Child(name string) *Namespace {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	c := &Namespace{Name: name, parent: n}
	n.children = append(n.children, c)
	return c
}

// qualify returns the dotted path of name inside n.
func (n *Namespace) qualify(name string) string {
	parts := []string{name}
	for ns := n; ns != nil && ns.parent != nil; ns = ns.parent {
		parts = append(parts, ns.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// lookup searches n depth first: its own entries, then each child in
// order.
func (n *Namespace) lookup(name string) (string, Price, bool) {
	for _, e := range n.entries {
		if e.name == name {
			return n.qualify(name), e.price, true
		}
	}
	for _, c := range n.children {
		if q, p, ok := c.lookup(name); ok {
			return q, p, ok
		}
	}
	return "", Price{}, false
}

func (n *Namespace) walk(fn func(qualified string, p Price)) {
	for _, e := range n.entries {
		fn(n.qualify(e.name), e.price)
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}

// Registry is a tree of priced names.
type Registry struct {
	root *Namespace
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{root: &Namespace{}}
}

// Root returns the top-level namespace.
func (r *Registry) Root() *Namespace { return r.root }

// Lookup resolves a bare identifier. It returns the qualified name of the
// first match (for example "stock.getPrice").
func (r *Registry) Lookup(name string) (qualified string, p Price, ok bool) {
	return r.root.lookup(name)
}

// SetPrice replaces the price of a qualified name with a fixed value.
func (r *Registry) SetPrice(qualified string, v float64) error {
	parts := strings.Split(qualified, ".")
	ns := r.root
	for _, part := range parts[:len(parts)-1] {
		var next *Namespace
		for _, c := range ns.children {
			if c.Name == part {
				next = c
				break
			}
		}
		if next == nil {
			return fmt.Errorf("unknown capability %q", qualified)
		}
		ns = next
	}
	name := parts[len(parts)-1]
	for i := range ns.entries {
		if ns.entries[i].name == name {
			ns.entries[i].price = Fixed(v)
			return nil
		}
	}
	return fmt.Errorf("unknown capability %q", qualified)
}

// Names returns every qualified name, sorted.
func (r *Registry) Names() []string {
	var names []string
	r.root.walk(func(q string, _ Price) { names = append(names, q) })
	sort.Strings(names)
	return names
}

// Digest identifies the registry contents for the given Context. Two
// registries with the same digest price every name identically.
func (r *Registry) Digest(ctx Context) string {
	h := sha256.New()
	r.root.walk(func(q string, p Price) {
		fmt.Fprintf(h, "%s=%g\n", q, p.Cost(ctx))
	})
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
