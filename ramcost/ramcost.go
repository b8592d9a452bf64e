// Package ramcost computes the static RAM cost of a script: the base cost
// plus the price of every distinct capability reachable from the script's
// own scopes through same-module references, imports and nested functions.
package ramcost

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rubiojr/netscript/ast"
	"github.com/rubiojr/netscript/capability"
	"github.com/rubiojr/netscript/depgraph"
	"github.com/rubiojr/netscript/parser"
	"github.com/rubiojr/netscript/script"
)

// Default limits.
const (
	DefaultBaseCost = 1.6
	DefaultMaxCost  = 1024.0
)

// ErrorKind classifies a failed calculation.
type ErrorKind int

const (
	SyntaxError ErrorKind = iota + 1
	ImportError
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case ImportError:
		return "ImportError"
	}
	return "UnknownError"
}

// Error describes why a cost could not be computed.
type Error struct {
	Kind    ErrorKind `json:"kind" msgpack:"kind"`
	Message string    `json:"message" msgpack:"message"`
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Message }

// EntryType groups itemized costs.
type EntryType string

const (
	Misc EntryType = "misc"
	NS   EntryType = "ns"
	DOM  EntryType = "dom"
)

// Entry is one itemized cost.
type Entry struct {
	Type EntryType `json:"type" msgpack:"type"`
	Name string    `json:"name" msgpack:"name"`
	Cost float64   `json:"cost" msgpack:"cost"`
}

// Result is a computed cost, or an error when Err is set.
type Result struct {
	Cost    float64 `json:"cost" msgpack:"cost"`
	Entries []Entry `json:"entries,omitempty" msgpack:"entries"`
	Err     *Error  `json:"error,omitempty" msgpack:"err"`
}

func failure(kind ErrorKind, format string, args ...any) Result {
	return Result{Err: &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}}
}

// specially priced globals outside the registry
var specialGlobals = map[string]Entry{
	"hacknet":  {Type: NS, Name: "hacknet", Cost: capability.HacknetCost},
	"document": {Type: DOM, Name: "document", Cost: capability.DOMCost},
	"window":   {Type: DOM, Name: "window", Cost: capability.DOMCost},
}

// Calculator computes RAM costs against a capability registry.
type Calculator struct {
	registry *capability.Registry
	ctx      capability.Context
	baseCost float64
	maxCost  float64
	logger   *slog.Logger
	parsed   *lru.Cache[string, *ast.Program]
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLimits sets the base and maximum cost.
func WithLimits(base, maxCost float64) Option {
	return func(c *Calculator) { c.baseCost, c.maxCost = base, maxCost }
}

// WithContext sets the player state dynamic prices are evaluated against.
func WithContext(ctx capability.Context) Option {
	return func(c *Calculator) { c.ctx = ctx }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) { c.logger = l }
}

// New returns a Calculator pricing names with reg. Parsed programs are
// kept in an LRU of parseCacheSize entries.
func New(reg *capability.Registry, parseCacheSize int, opts ...Option) (*Calculator, error) {
	cache, err := lru.New[string, *ast.Program](parseCacheSize)
	if err != nil {
		return nil, fmt.Errorf("parse cache: %w", err)
	}
	c := &Calculator{
		registry: reg,
		baseCost: DefaultBaseCost,
		maxCost:  DefaultMaxCost,
		logger:   slog.Default(),
		parsed:   cache,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Context returns the player state used for dynamic prices.
func (c *Calculator) Context() capability.Context { return c.ctx }

// Registry returns the capability registry.
func (c *Calculator) Registry() *capability.Registry { return c.registry }

// Limits returns the base and maximum cost.
func (c *Calculator) Limits() (base, maxCost float64) { return c.baseCost, c.maxCost }

// parse returns the tree for code, reusing a cached one for identical
// source of the same dialect.
func (c *Calculator) parse(path, code string) (*ast.Program, error) {
	d := parser.DialectFor(path)
	key := fmt.Sprintf("%x", sha256.Sum256([]byte(d.String()+"\x00"+code)))
	if prog, ok := c.parsed.Get(key); ok {
		return prog, nil
	}
	prog, err := parser.Parse(path, code, d)
	if err != nil {
		return nil, err
	}
	c.parsed.Add(key, prog)
	return prog, nil
}

// Calculate parses code, the source of the script at path on server, and
// computes its cost. scripts resolves imports and is never modified.
func (c *Calculator) Calculate(code, path, server string, scripts script.Lookup) Result {
	prog, err := c.parse(path, code)
	if err != nil {
		return failure(SyntaxError, "%s", err)
	}
	return c.CalculateProgram(prog, path, server, scripts)
}

type pending struct {
	module string
	from   string
}

// CalculateProgram computes the cost of an already parsed script.
func (c *Calculator) CalculateProgram(prog *ast.Program, path, server string, scripts script.Lookup) Result {
	first := depgraph.Build(prog, path, scripts)
	deps := first.Deps

	queue := make([]pending, 0, len(first.AdditionalModules))
	for _, m := range first.AdditionalModules {
		queue = append(queue, pending{m, path})
	}
	parsed := map[string]bool{path: true}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if parsed[next.module] || script.IsURL(next.module) {
			continue
		}
		parsed[next.module] = true

		sc, ok := scripts.Script(next.module)
		if !ok {
			return failure(ImportError, "File: %q imported by %q not found on server: %s", next.module, next.from, server)
		}
		mprog, err := c.parse(sc.Path, sc.Code())
		if err != nil {
			return failure(ImportError, "Error parsing %s: %s", next.module, err)
		}
		res := depgraph.Build(mprog, sc.Path, scripts)
		deps.Merge(res.Deps)
		for _, m := range res.AdditionalModules {
			queue = append(queue, pending{m, next.module})
		}
	}

	return c.resolve(deps, path)
}

// resolve runs the worklist over names starting at the scopes of target.
func (c *Calculator) resolve(deps depgraph.Map, target string) Result {
	prefix := target + "."
	overrideKey := depgraph.Key(target, depgraph.OverrideKey)

	var unresolved []string
	for _, k := range deps.Keys() {
		if strings.HasPrefix(k, prefix) {
			unresolved = append(unresolved, k)
		}
	}

	ram := c.baseCost
	entries := []Entry{{Type: Misc, Name: "baseCost", Cost: c.baseCost}}
	resolved := make(map[string]bool)
	priced := make(map[string]bool)
	enqueue := func(set depgraph.Set) {
		for _, d := range set.Sorted() {
			if !resolved[d] {
				unresolved = append(unresolved, d)
			}
		}
	}

	for len(unresolved) > 0 {
		ref := unresolved[0]
		unresolved = unresolved[1:]
		if resolved[ref] {
			continue
		}
		resolved[ref] = true

		if strings.HasSuffix(ref, "."+depgraph.OverrideKey) {
			if ref != overrideKey {
				continue
			}
			if v, ok := c.override(deps[ref]); ok {
				c.logger.Debug("ram override", "script", target, "cost", v)
				return Result{Cost: round(v), Entries: []Entry{{Type: Misc, Name: "ramOverride", Cost: v}}}
			}
			continue
		}

		if e, ok := specialGlobals[ref]; ok {
			ram += e.Cost
			entries = append(entries, e)
		}

		if strings.HasSuffix(ref, "."+depgraph.Wildcard) {
			modPrefix := strings.TrimSuffix(ref, depgraph.Wildcard)
			for _, k := range deps.Keys() {
				if strings.HasPrefix(k, modPrefix) && !strings.HasSuffix(k, "."+depgraph.OverrideKey) {
					enqueue(deps[k])
				}
			}
			continue
		}
		enqueue(deps[ref])

		name := depgraph.Name(ref)
		if priced[name] {
			continue
		}
		priced[name] = true
		qualified, price, ok := c.registry.Lookup(name)
		if !ok {
			continue
		}
		cost := price.Cost(c.ctx)
		ram += cost
		if cost != 0 {
			entries = append(entries, Entry{Type: NS, Name: qualified, Cost: cost})
		}
	}

	if ram > c.maxCost {
		ram = c.maxCost
		entries = append(entries, Entry{Type: Misc, Name: "Max Ram Cap", Cost: c.maxCost})
	}
	return Result{Cost: round(ram), Entries: entries}
}

// override reads the literal recorded for a ramOverride call. Values below
// the base cost are ignored; larger ones are clamped to the maximum.
func (c *Calculator) override(set depgraph.Set) (float64, bool) {
	vals := set.Sorted()
	if len(vals) != 1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(vals[0], 64)
	if err != nil || v < c.baseCost {
		return 0, false
	}
	return math.Min(v, c.maxCost), true
}

func round(v float64) float64 { return math.Round(v*100) / 100 }

// SortEntries orders entries by descending cost, then name. The base cost
// stays first.
func SortEntries(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	if len(out) < 2 {
		return out
	}
	rest := out[1:]
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].Cost != rest[j].Cost {
			return rest[i].Cost > rest[j].Cost
		}
		return rest[i].Name < rest[j].Name
	})
	return out
}
