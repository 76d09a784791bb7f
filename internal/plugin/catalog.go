package plugin

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"git.home.luguber.info/inful/nile/internal/config"
	nerrors "git.home.luguber.info/inful/nile/internal/errors"
)

// ErrUnresolvedHook is wrapped by every manifest entry that cannot be turned into a Hook.
var ErrUnresolvedHook = errors.New("unresolved hook")

// CommandFactory is the catalog entry used for manifest hooks with a command.
const CommandFactory = "command"

// Factory builds a Hook from its manifest entry.
type Factory func(spec config.HookSpec) (Hook, error)

// Catalog holds the compiled-in hook factories a manifest may refer to.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// Add registers a factory under name.
func (c *Catalog) Add(name string, factory Factory) error {
	if name == "" || factory == nil {
		return fmt.Errorf("catalog entry requires a name and a factory")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.factories[name]; exists {
		return fmt.Errorf("hook %q already in catalog", name)
	}
	c.factories[name] = factory
	return nil
}

// Names lists the catalog entries, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve turns one manifest entry into a Hook without invoking it.
func (c *Catalog) Resolve(spec config.HookSpec) (Hook, error) {
	key := spec.Use
	if spec.Command != "" {
		key = CommandFactory
	}

	c.mu.RLock()
	factory, ok := c.factories[key]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no hook named %q (available: %v)", ErrUnresolvedHook, key, c.Names())
	}

	hook, err := factory(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnresolvedHook, err)
	}
	if hook == nil {
		return nil, fmt.Errorf("%w: factory %q returned no hook", ErrUnresolvedHook, key)
	}
	return hook, nil
}

// LoadManifest resolves every manifest entry and registers it in order.
// The first entry that cannot be resolved aborts loading; nothing is skipped silently.
func LoadManifest(reg *Registry, cat *Catalog, specs []config.HookSpec) error {
	for _, spec := range specs {
		name := spec.DisplayName()
		if !KnownPoint(spec.Point) {
			return nerrors.HookUnresolved(spec.Point, name,
				fmt.Errorf("%w: unknown extension point %q", ErrUnresolvedHook, spec.Point))
		}

		hook, err := cat.Resolve(spec)
		if err != nil {
			return nerrors.HookUnresolved(spec.Point, name, err)
		}

		if err := reg.Register(spec.Point, hook); err != nil {
			return nerrors.HookUnresolved(spec.Point, name, fmt.Errorf("%w: %w", ErrUnresolvedHook, err))
		}
	}
	return nil
}
