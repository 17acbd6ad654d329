// Package validator checks scenario bundles and stored instances for
// inconsistencies that would otherwise surface only at solve or translation
// time.
package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/taskstream/pkg/adapters/file"
	"github.com/aretw0/taskstream/pkg/description"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/ports"
	"github.com/aretw0/taskstream/pkg/registry"
	"github.com/aretw0/taskstream/pkg/scenario"
)

// Report lists the problems found for one scenario.
type Report struct {
	Scenario string   `json:"scenario"`
	Streams  []string `json:"streams"`
	Actions  []string `json:"actions"`
	Problems []string `json:"problems,omitempty"`
	// Notes are findings that are not errors, e.g. skipped checks.
	Notes []string `json:"notes,omitempty"`
}

// Err returns nil when no problems were found.
func (r *Report) Err() error {
	if len(r.Problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s: found %d errors:\n- %s", domain.ErrConfiguration, r.Scenario, len(r.Problems), strings.Join(r.Problems, "\n- "))
}

func (r *Report) problem(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// ValidateBundle checks the bundle's bound streams against its stream
// description and its handlers against the actions of its domain description,
// including arity. Descriptions are read from source, or from the bundle's
// embedded documents when source is nil.
func ValidateBundle(ctx context.Context, b *scenario.Bundle, source ports.DescriptionSource) (*Report, error) {
	if source == nil {
		if b.Descriptions == nil {
			return nil, fmt.Errorf("%w: scenario %s has no descriptions", domain.ErrConfiguration, b.Name())
		}
		source = file.NewSource(b.Descriptions)
	}
	sc := b.Scenario
	report := &Report{Scenario: sc.Name}

	domainDesc, err := source.ReadDescription(ctx, sc.DomainPath)
	if err != nil {
		return nil, err
	}
	streamDesc, err := source.ReadDescription(ctx, sc.StreamPath)
	if err != nil {
		return nil, err
	}

	streams := description.Streams(streamDesc)
	actions := description.Actions(domainDesc)
	report.Streams = description.Names(streams)
	report.Actions = description.Names(actions)

	if sc.Streams == nil {
		report.Notes = append(report.Notes, "no stream callbacks bound; only the debug stream map is available")
	} else if err := registry.CheckCoverage(sc.Streams.Names(), report.Streams); err != nil {
		report.problem("%v", err)
	}

	if len(b.Handlers) == 0 {
		report.Notes = append(report.Notes, "no action handlers; plans cannot be translated")
		return report, nil
	}
	bound := make(map[string]bool, len(b.Handlers))
	for _, h := range b.Handlers {
		bound[h.Name()] = true
		decl, ok := description.Find(actions, h.Name())
		if !ok {
			report.problem("%v: handler %s has no action in %s", domain.ErrUnhandledAction, h.Name(), sc.DomainPath)
			continue
		}
		if got, want := h.Signature().Arity(), len(decl.Parameters); got != want {
			report.problem("%v: %s handles %d arguments, action declares %d", domain.ErrArgumentShape, h.Name(), got, want)
		}
	}
	for _, name := range report.Actions {
		if !bound[name] {
			report.problem("%v: action %s has no handler", domain.ErrUnhandledAction, name)
		}
	}
	return report, nil
}

// ValidateInstances loads every stored instance and checks that it names a
// known scenario. It returns one message per broken instance.
func ValidateInstances(ctx context.Context, source ports.ScenarioSource, catalog *scenario.Catalog) ([]string, error) {
	names, err := source.ListInstances(ctx)
	if err != nil {
		return nil, err
	}
	var broken []string
	for _, name := range names {
		inst, err := source.GetInstance(ctx, name)
		if err != nil {
			broken = append(broken, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if _, err := catalog.Get(inst.Scenario); err != nil {
			if errors.Is(err, domain.ErrUnknownScenario) {
				broken = append(broken, fmt.Sprintf("%s: %v", name, err))
				continue
			}
			return nil, err
		}
	}
	return broken, nil
}
