package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/ports"
)

const mask = "***"

type redactMiddleware struct {
	next     ports.PlanStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware masks run labels and solver evidence entries whose keys
// match one of the patterns, before they reach the backend. Solver evidence
// can carry host paths or credentials passed through the solver environment.
func NewRedactMiddleware(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled[i] = re
	}
	return func(next ports.PlanStore) ports.PlanStore {
		return &redactMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, run *domain.Run) error {
	cloned := *run
	if run.Labels != nil {
		cloned.Labels = make(map[string]string, len(run.Labels))
		for k, v := range run.Labels {
			if m.matches(k) {
				v = mask
			}
			cloned.Labels[k] = v
		}
	}
	cloned.Solution.Evidence = m.redact(run.Solution.Evidence)
	return m.next.Save(ctx, &cloned)
}

func (m *redactMiddleware) Load(ctx context.Context, id string) (*domain.Run, error) {
	return m.next.Load(ctx, id)
}

func (m *redactMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

// redact returns a masked copy of v. The input is never modified.
func (m *redactMiddleware) redact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, sub := range t {
			if m.matches(k) {
				out[k] = mask
				continue
			}
			out[k] = m.redact(sub)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, sub := range t {
			out[i] = m.redact(sub)
		}
		return out
	default:
		return v
	}
}
