// Package generator holds the content generators a timeline can instantiate
// and the registry that maps schema names to them.
package generator

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/atlas-demo/atlas/internal/animation"
)

// ErrUnknownSchema is returned by Lookup for names nothing registered.
var ErrUnknownSchema = errors.New("unknown schema")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*animation.Schema)
	sealed     bool
)

// Register adds a schema. It must be called during package initialization;
// registering after the first lookup panics.
func Register(s *animation.Schema) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if sealed {
		panic(fmt.Sprintf("generator: Register(%q) after registry was sealed", s.Name))
	}
	if _, dup := registry[s.Name]; dup {
		panic(fmt.Sprintf("generator: schema %q registered twice", s.Name))
	}
	registry[s.Name] = s
}

func seal() {
	registryMu.RLock()
	done := sealed
	registryMu.RUnlock()
	if done {
		return
	}

	registryMu.Lock()
	sealed = true
	registryMu.Unlock()
}

// Lookup returns the schema registered under name. The animation schema is
// always available.
func Lookup(name string) (*animation.Schema, error) {
	seal()
	if name == animation.AnimationSchema.Name {
		return animation.AnimationSchema, nil
	}

	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	return s, nil
}

// Schemas returns every registered generator schema sorted by name.
func Schemas() []*animation.Schema {
	seal()
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]*animation.Schema, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
