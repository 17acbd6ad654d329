package taskstream

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Set holds one Pipeline per scenario, for frontends serving several scenarios.
type Set struct {
	mu        sync.RWMutex
	pipelines map[string]*Pipeline
}

// NewSet creates a set of pipelines keyed by scenario name.
func NewSet(pipelines ...*Pipeline) *Set {
	s := &Set{pipelines: make(map[string]*Pipeline, len(pipelines))}
	for _, p := range pipelines {
		s.Add(p)
	}
	return s
}

// Add registers p, replacing any pipeline for the same scenario.
func (s *Set) Add(p *Pipeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipelines[p.Name()] = p
}

// Get returns the pipeline for scenario name.
func (s *Set) Get(name string) (*Pipeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pipelines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownScenario, name)
	}
	return p, nil
}

// Names returns the scenario names, sorted.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.pipelines))
	for name := range s.pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
