package ports

import (
	"context"

	"github.com/aretw0/taskstream/pkg/domain"
)

// PlanStore persists solver runs so a plan can be translated later, or by
// another process.
type PlanStore interface {
	// Save persists the run under run.ID, replacing any previous run with that ID.
	Save(ctx context.Context, run *domain.Run) error

	// Load retrieves a run by ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, id string) (*domain.Run, error)

	// Delete removes a run. Deleting a missing run is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored runs.
	List(ctx context.Context) ([]string, error)
}
