package ports

import (
	"context"

	"github.com/aretw0/taskstream/pkg/domain"
)

// DescriptionSource reads externally authored domain and stream descriptions
// by scenario-relative path. Implementations must not transform the text.
type DescriptionSource interface {
	ReadDescription(ctx context.Context, path string) (domain.Description, error)
}

// ScenarioSource retrieves stored scenario instances.
type ScenarioSource interface {
	// GetInstance returns domain.ErrInstanceNotFound if the instance does not exist.
	GetInstance(ctx context.Context, name string) (*domain.Instance, error)

	// ListInstances returns the names of all stored instances.
	ListInstances(ctx context.Context) ([]string, error)
}
