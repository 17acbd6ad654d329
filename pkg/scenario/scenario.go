// Package scenario groups what the pipeline needs to run one planning
// scenario: its assembly rules, its description documents and the handlers
// that translate its plans.
package scenario

import (
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/aretw0/taskstream/pkg/assembler"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/translator"
)

// Bundle is a complete scenario.
type Bundle struct {
	Scenario *assembler.Scenario
	// Handlers translate the scenario's plans. Empty when the scenario has no
	// executor-facing translation.
	Handlers []translator.Handler
	// Descriptions holds the default domain and stream descriptions, addressed
	// by the scenario's DomainPath and StreamPath.
	Descriptions fs.FS
}

// Name returns the scenario name.
func (b *Bundle) Name() string {
	return b.Scenario.Name
}

// Catalog manages the available scenarios.
type Catalog struct {
	mu      sync.RWMutex
	bundles map[string]*Bundle
}

// NewCatalog creates a catalog holding the given bundles.
func NewCatalog(bundles ...*Bundle) *Catalog {
	c := &Catalog{bundles: make(map[string]*Bundle)}
	for _, b := range bundles {
		c.Register(b)
	}
	return c
}

// Register adds a bundle. A bundle with the same name is replaced.
func (c *Catalog) Register(b *Bundle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bundles[b.Name()] = b
}

// Get returns the bundle registered under name.
func (c *Catalog) Get(name string) (*Bundle, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bundles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownScenario, name)
	}
	return b, nil
}

// Names returns the registered scenario names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.bundles))
	for name := range c.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
