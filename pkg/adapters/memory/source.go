package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Source implements ports.ScenarioSource over instances held in memory.
type Source struct {
	mu        sync.RWMutex
	instances map[string]domain.Instance
}

// NewSource creates a source holding the given instances, keyed by name.
func NewSource(instances ...domain.Instance) *Source {
	s := &Source{instances: make(map[string]domain.Instance)}
	for _, inst := range instances {
		s.Put(inst)
	}
	return s
}

// Put adds or replaces an instance.
func (s *Source) Put(inst domain.Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[inst.Name] = inst
}

// GetInstance returns a copy of the named instance.
func (s *Source) GetInstance(ctx context.Context, name string) (*domain.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInstanceNotFound, name)
	}
	inst.Entities = append([]domain.Entity(nil), inst.Entities...)
	return &inst, nil
}

// ListInstances returns all instance names, sorted.
func (s *Source) ListInstances(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.instances))
	for name := range s.instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
