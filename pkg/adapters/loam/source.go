// Package loam reads scenario instances stored as markdown or JSON documents
// in a Loam repository.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/taskstream/pkg/domain"
)

// Source adapts a Loam repository to ports.ScenarioSource.
type Source struct {
	Repo *loam.TypedRepository[InstanceMetadata]
}

// New creates a Loam scenario source.
func New(repo *loam.TypedRepository[InstanceMetadata]) *Source {
	return &Source{Repo: repo}
}

// Open opens the repository rooted at dir read-only.
func Open(dir string) (*Source, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve instance directory: %w", err)
	}
	repo, err := loam.Init(abs,
		loam.WithVersioning(false),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open instance repository %s: %w", abs, err)
	}
	return New(loam.NewTypedRepository[InstanceMetadata](repo)), nil
}

// GetInstance loads and decodes the named instance.
func (s *Source) GetInstance(ctx context.Context, name string) (*domain.Instance, error) {
	doc, err := s.Repo.Get(ctx, name)
	if err != nil {
		if known, lerr := s.ListInstances(ctx); lerr == nil && !contains(known, name) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInstanceNotFound, name)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", name, err)
	}

	meta := doc.Data
	id := meta.ID
	if id == "" {
		id = doc.ID
	}
	inst := &domain.Instance{
		Name:     trimExtension(id),
		Scenario: meta.Scenario,
		Strict:   meta.Strict,
		Debug:    meta.Debug,
		Notes:    strings.TrimSpace(doc.Content),
	}
	if inst.Scenario == "" {
		return nil, fmt.Errorf("%w: instance %s names no scenario", domain.ErrConfiguration, name)
	}

	for i, em := range meta.Entities {
		e, err := decodeEntity(em)
		if err != nil {
			return nil, fmt.Errorf("%w: instance %s entity %d: %w", domain.ErrConfiguration, name, i, err)
		}
		inst.Entities = append(inst.Entities, e)
	}

	inst.Options, err = domain.DecodeOptions(meta.Options)
	if err != nil {
		return nil, fmt.Errorf("instance %s: %w", name, err)
	}
	return inst, nil
}

func decodeEntity(em EntityMetadata) (domain.Entity, error) {
	if em.Name == "" {
		return domain.Entity{}, fmt.Errorf("entity without a name")
	}
	e := domain.Entity{Name: em.Name, Keywords: em.Keywords, Attributes: em.Attributes}
	if em.Pose != nil {
		pose, err := domain.DecodeValue(normalize(em.Pose))
		if err != nil {
			return domain.Entity{}, fmt.Errorf("%s pose: %w", em.Name, err)
		}
		e.Pose = pose
	}
	return e, nil
}

// normalize turns map[any]any nodes, as produced by some YAML decoders, into
// map[string]any.
func normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// ListInstances lists the instance names, with extensions stripped.
func (s *Source) ListInstances(ctx context.Context) ([]string, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		raw := doc.Data.ID
		if raw == "" {
			raw = doc.ID
		}
		name := trimExtension(raw)
		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: instance '%s' is defined in both '%s' and '%s'", name, existing, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func trimExtension(id string) string {
	if ext := filepath.Ext(id); ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

func contains(names []string, name string) bool {
	name = trimExtension(name)
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
