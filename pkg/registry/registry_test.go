package registry

import (
	"context"
	"testing"

	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alwaysTrue(ctx context.Context, inputs []domain.Value) (bool, error) { return true, nil }

func TestRegistry_RegisterAndSnapshot(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterTest("test-reachable", alwaysTrue, domain.StreamInfo{PSuccess: 0.1}))
	require.NoError(t, r.RegisterGenerator("sample-above", func(ctx context.Context, inputs []domain.Value) domain.Generator {
		return domain.FromSlice([]domain.Value{domain.P(1, 2, 0)})
	}, domain.StreamInfo{}))

	decl, ok := r.Lookup("test-reachable")
	require.True(t, ok)
	assert.Equal(t, domain.StreamTest, decl.Kind)
	assert.Equal(t, 0.1, decl.Info.PSuccess)

	live := r.StreamMap(domain.StreamModeReal)
	assert.False(t, live.IsDebug())
	assert.Equal(t, []string{"sample-above", "test-reachable"}, live.Names())

	debug := r.StreamMap(domain.StreamModeDebug)
	assert.True(t, debug.IsDebug())
	assert.Zero(t, debug.Len())
}

func TestRegistry_RejectsInvalidDeclarations(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(domain.StreamDecl{Name: "broken", Kind: domain.StreamGenerator}))
	assert.Error(t, r.Register(domain.TestStream("", alwaysTrue)))
	assert.Empty(t, r.Names())
}

func TestCheckCoverage_NamesDuplicates(t *testing.T) {
	err := CheckCoverage([]string{"sample-motion"}, []string{"sample-motion", "sample-motion"})
	require.ErrorIs(t, err, domain.ErrUndeclaredStream)
	assert.Contains(t, err.Error(), "declared more than once [sample-motion]")
}

func TestCheckCoverage(t *testing.T) {
	tests := []struct {
		name     string
		bound    []string
		declared []string
		wantErr  bool
	}{
		{"exact", []string{"a", "b"}, []string{"b", "a"}, false},
		{"extra binding", []string{"a", "b", "c"}, []string{"a", "b"}, true},
		{"missing binding", []string{"a"}, []string{"a", "b"}, true},
		{"both empty", nil, nil, false},
		{"declared twice", []string{"a", "b"}, []string{"a", "b", "a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCoverage(tt.bound, tt.declared)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUndeclaredStream)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
