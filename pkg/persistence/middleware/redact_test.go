package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/taskstream/pkg/adapters/memory"
	"github.com/aretw0/taskstream/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactMiddleware_Masking(t *testing.T) {
	backend := memory.NewStore()
	mw, err := middleware.NewRedactMiddleware([]string{"secret", "token"})
	require.NoError(t, err)
	store := mw(backend)
	ctx := context.Background()

	run := sampleRun("r1")
	run.Solution.Evidence = map[string]any{
		"evaluations": 14.0,
		"api_token":   "s3cr3t",
		"attempts":    []any{map[string]any{"auth_token": "abc", "planner": "ff"}},
	}
	require.NoError(t, store.Save(ctx, run))

	assert.Equal(t, "hunter2", run.Labels["session_secret"], "the caller's run must not be modified")
	assert.Equal(t, "s3cr3t", run.Solution.Evidence.(map[string]any)["api_token"])

	stored, err := backend.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "***", stored.Labels["session_secret"])
	assert.Equal(t, "lab-3", stored.Labels["owner"])

	evidence := stored.Solution.Evidence.(map[string]any)
	assert.Equal(t, "***", evidence["api_token"])
	assert.Equal(t, 14.0, evidence["evaluations"])
	attempt := evidence["attempts"].([]any)[0].(map[string]any)
	assert.Equal(t, "***", attempt["auth_token"])
	assert.Equal(t, "ff", attempt["planner"])
}

func TestRedactMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewRedactMiddleware([]string{"("})
	assert.Error(t, err)
}
