package validator

import (
	"context"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/aretw0/taskstream/pkg/adapters/file"
	"github.com/aretw0/taskstream/pkg/adapters/memory"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/scenario"
	"github.com/aretw0/taskstream/pkg/scenario/kitchen"
	"github.com/aretw0/taskstream/pkg/scenario/rovers"
	"github.com/aretw0/taskstream/pkg/schema"
	"github.com/aretw0/taskstream/pkg/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBundle_Shipped(t *testing.T) {
	ctx := context.Background()

	t.Run("rovers", func(t *testing.T) {
		report, err := ValidateBundle(ctx, rovers.Bundle(), nil)
		require.NoError(t, err)
		assert.NoError(t, report.Err())
		assert.Len(t, report.Actions, 7)
		assert.Len(t, report.Streams, 6)
		assert.Empty(t, report.Notes)
	})

	t.Run("kitchen", func(t *testing.T) {
		report, err := ValidateBundle(ctx, kitchen.Bundle(), nil)
		require.NoError(t, err)
		assert.NoError(t, report.Err())
		assert.Contains(t, report.Notes, "no action handlers; plans cannot be translated")
	})
}

func TestValidateBundle_Broken(t *testing.T) {
	ctx := context.Background()
	domainText, err := fs.ReadFile(rovers.Descriptions, "domain.pddl")
	require.NoError(t, err)
	streamText, err := fs.ReadFile(rovers.Descriptions, "stream.pddl")
	require.NoError(t, err)

	// One extra declared stream that nothing binds.
	source := file.NewSource(fstest.MapFS{
		"domain.pddl": {Data: domainText},
		"stream.pddl": {Data: append(streamText, []byte("\n(:stream sample-dance :inputs (?v) :outputs (?q))\n")...)},
	})

	b := rovers.Bundle()
	var handlers []translator.Handler
	for _, h := range b.Handlers {
		if h.Name() != "drop_rock" {
			handlers = append(handlers, h)
		}
	}
	rover := schema.Arg("v", schema.Symbol())
	handlers = append(handlers,
		translator.PassThrough("drop_rock", schema.Of(rover), 0),
		translator.PassThrough("teleport", schema.Of(rover), 0),
	)
	b.Handlers = handlers

	report, err := ValidateBundle(ctx, b, source)
	require.NoError(t, err)
	require.Len(t, report.Problems, 3)
	assert.Contains(t, report.Problems[0], "sample-dance")
	assert.Contains(t, report.Problems[1], "drop_rock handles 1 arguments, action declares 2")
	assert.Contains(t, report.Problems[2], "handler teleport has no action")

	err = report.Err()
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "found 3 errors")
}

func TestValidateBundle_MissingHandler(t *testing.T) {
	b := rovers.Bundle()
	b.Handlers = b.Handlers[1:]

	report, err := ValidateBundle(context.Background(), b, nil)
	require.NoError(t, err)
	require.Len(t, report.Problems, 1)
	assert.Contains(t, report.Problems[0], "action move has no handler")
}

func TestValidateBundle_MissingDescription(t *testing.T) {
	b := rovers.Bundle()
	_, err := ValidateBundle(context.Background(), b, file.NewSource(fstest.MapFS{}))
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = ValidateBundle(context.Background(), &scenario.Bundle{Scenario: b.Scenario}, nil)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestValidateInstances(t *testing.T) {
	source := memory.NewSource(
		domain.Instance{Name: "mission", Scenario: "rovers"},
		domain.Instance{Name: "warehouse", Scenario: "forklift"},
	)
	catalog := scenario.NewCatalog(rovers.Bundle(), kitchen.Bundle())

	broken, err := ValidateInstances(context.Background(), source, catalog)
	require.NoError(t, err)
	require.Len(t, broken, 1)
	assert.Contains(t, broken[0], "warehouse")
	assert.Contains(t, broken[0], "forklift")
}
