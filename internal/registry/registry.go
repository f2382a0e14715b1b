// Package registry is the component inventory used by the preview and
// listing tools. Registration is an explicit, init-once list: callers
// pass one population function that runs exactly once for the default
// registry, instead of scattering registrations across package init
// side effects. That keeps the full component list in one place and
// makes registration order deterministic.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/loupe-ui/loupe/internal/element"
)

// Metadata describes a registered component.
type Metadata struct {
	// Name uniquely identifies the component within the registry.
	Name string
	// Scope groups components by the package family they belong to.
	Scope string
	// Description is a one-line summary shown by listings.
	Description string
}

// Previewer is the optional capability of producing a representative
// rendered example. Components that implement it appear in preview
// output; components that do not are listed but skipped by preview.
type Previewer interface {
	PreviewElement() element.Element
}

// Entry pairs component metadata with its factory. New returns a fresh
// component value per call; the registry never caches instances.
type Entry struct {
	Metadata
	New func() any
}

// Registry is a set of component entries keyed by name.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty registry. Tests use fresh registries; the
// process-wide one comes from Default or Init.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds an entry. Empty names, nil factories, and duplicate
// names are registration-list bugs and error out rather than silently
// shadowing.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" {
		return fmt.Errorf("register component: empty name")
	}
	if e.New == nil {
		return fmt.Errorf("register component %q: nil factory", e.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[e.Name]; exists {
		return fmt.Errorf("register component %q: already registered", e.Name)
	}
	r.entries[e.Name] = e
	return nil
}

// MustRegister is Register for static registration lists, where a
// failure is a programmer error.
func (r *Registry) MustRegister(e Entry) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// All returns every entry sorted by scope, then name.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Scope != out[j].Scope {
			return out[i].Scope < out[j].Scope
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Preview renders the component's representative example, or false if
// the component does not implement Previewer.
func (e Entry) Preview() (element.Element, bool) {
	p, ok := e.New().(Previewer)
	if !ok {
		return element.Element{}, false
	}
	return p.PreviewElement(), true
}

var (
	defaultRegistry = New()
	initOnce        sync.Once
)

// Default returns the process-wide registry. It is empty until Init
// runs the registration list.
func Default() *Registry {
	return defaultRegistry
}

// Init populates the default registry exactly once and returns it.
// Later calls return the registry unchanged regardless of the function
// passed, so there is a single authoritative registration list per
// process.
func Init(populate func(*Registry)) *Registry {
	initOnce.Do(func() { populate(defaultRegistry) })
	return defaultRegistry
}
