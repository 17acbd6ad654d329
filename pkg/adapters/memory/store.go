package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Store implements ports.PlanStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Run
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Run),
	}
}

// Save persists a copy of the run.
func (s *Store) Save(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run id cannot be empty")
	}
	copied := cloneRun(run)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[run.ID] = copied
	return nil
}

// Load retrieves a copy of the run, so callers can't mutate the stored one.
func (s *Store) Load(ctx context.Context, id string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
	}
	return cloneRun(run), nil
}

// Delete removes the run.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored run IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func cloneRun(run *domain.Run) *domain.Run {
	out := *run
	if run.Labels != nil {
		out.Labels = make(map[string]string, len(run.Labels))
		for k, v := range run.Labels {
			out.Labels[k] = v
		}
	}
	if run.Solution.Plan != nil {
		actions := make([]domain.Action, len(run.Solution.Plan.Actions))
		for i, a := range run.Solution.Plan.Actions {
			actions[i] = domain.Action{Name: a.Name, Args: append(domain.Args(nil), a.Args...)}
		}
		out.Solution.Plan = &domain.Plan{Actions: actions}
	}
	return &out
}
