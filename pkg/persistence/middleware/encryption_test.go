package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"
	"time"

	"github.com/aretw0/taskstream/pkg/adapters/memory"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/persistence/middleware"
	"github.com/aretw0/taskstream/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func sampleRun(id string) *domain.Run {
	return &domain.Run{
		ID:       id,
		Scenario: "kitchen",
		Solution: domain.Solution{
			Plan: domain.NewPlan(
				domain.NewAction("pick", "gripper", "cup", domain.P(7.5, 0, 0)),
				domain.NewAction("stir", "gripper", "cup", "spoon"),
			),
			Cost:     2,
			Evidence: map[string]any{"evaluations": 14.0, "api_token": "s3cr3t"},
		},
		Labels:    map[string]string{"owner": "lab-3", "session_secret": "hunter2"},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func encrypted(t *testing.T, backend ports.PlanStore, active []byte, fallback ...[]byte) ports.PlanStore {
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
	require.NoError(t, err)
	return mw(backend)
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	backend := memory.NewStore()
	store := encrypted(t, backend, generateKey(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRun("r1")))

	stored, err := backend.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, stored.Solution.Plan, "the backend must not see the plan")
	assert.Equal(t, "kitchen", stored.Scenario)
	assert.NotContains(t, stored.Labels, "owner")
	assert.Contains(t, stored.Labels, middleware.EnvelopeLabel)

	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, sampleRun("r1").Solution.Plan, loaded.Solution.Plan)
	assert.Equal(t, "lab-3", loaded.Labels["owner"])

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	backend := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	oldStore := encrypted(t, backend, oldKey)
	require.NoError(t, oldStore.Save(ctx, sampleRun("r1")))

	rotated := encrypted(t, backend, newKey, oldKey)
	run, err := rotated.Load(ctx, "r1")
	require.NoError(t, err, "fallback key must open runs sealed with the old key")

	run.Labels["owner"] = "lab-4"
	require.NoError(t, rotated.Save(ctx, run))

	_, err = oldStore.Load(ctx, "r1")
	assert.Error(t, err, "runs sealed with the new key must not open with the old one")
}

func TestEncryptionMiddleware_Errors(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	backend := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, backend.Save(ctx, sampleRun("plain")))

	store := encrypted(t, backend, generateKey(t))
	_, err = store.Load(ctx, "plain")
	assert.ErrorContains(t, err, "envelope")

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}
