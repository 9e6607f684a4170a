// Package filters holds the named string filters that templates and the site
// processor invoke by name.
package filters

import (
	"sort"
	"sync"
	"text/template"

	"git.home.luguber.info/inful/sitefilter/internal/errors"
	"git.home.luguber.info/inful/sitefilter/internal/typography"
)

// Func is a filter: it receives a string value and returns the rewritten value.
type Func func(string) string

// Registry maps filter names to functions. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds fn under name. Names are unique; re-registering is an error.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return errors.ValidationFailed("name", "filter name must not be empty")
	}
	if fn == nil {
		return errors.ValidationFailed("fn", "filter function must not be nil").WithContext("filter", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[name]; ok {
		return errors.ValidationFailed("name", "filter already registered").WithContext("filter", name)
	}
	r.funcs[name] = fn
	return nil
}

// MustRegister is Register that panics on error. Intended for process startup.
func (r *Registry) MustRegister(name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the filter registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns registered filter names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chain composes the named filters left to right. An empty list yields the
// identity filter.
func (r *Registry) Chain(names ...string) (Func, error) {
	fns := make([]Func, 0, len(names))
	for _, name := range names {
		fn, ok := r.Lookup(name)
		if !ok {
			return nil, errors.UnknownFilter(name)
		}
		fns = append(fns, fn)
	}
	return func(s string) string {
		for _, fn := range fns {
			s = fn(s)
		}
		return s
	}, nil
}

// FuncMap exposes every registered filter to text/template under its name.
func (r *Registry) FuncMap() template.FuncMap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fm := make(template.FuncMap, len(r.funcs))
	for name, fn := range r.funcs {
		fm[name] = fn
	}
	return fm
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry with the built-in filters.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry()
		registerBuiltins(defaultReg)
	})
	return defaultReg
}

func registerBuiltins(r *Registry) {
	r.MustRegister(typography.FilterName, typography.AddNonBreakingSpaces)
}
