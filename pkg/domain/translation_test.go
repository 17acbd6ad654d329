package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslationState_AttachDetach(t *testing.T) {
	var empty TranslationState
	assert.True(t, empty.Empty())

	held := empty.Attach("rover", "rock1")
	assert.True(t, empty.Empty(), "Attach must not modify the receiver")

	obj, ok := held.Holding("rover")
	require.True(t, ok)
	assert.Equal(t, "rock1", obj)
	assert.Equal(t, []string{"rover"}, held.Agents())

	released, after, err := held.Detach("rover")
	require.NoError(t, err)
	assert.Equal(t, "rock1", released)
	assert.True(t, after.Empty())

	_, stillHeld := held.Holding("rover")
	assert.True(t, stillHeld, "Detach must not modify the receiver")
}

func TestTranslationState_DetachWithoutAttachment(t *testing.T) {
	var state TranslationState
	_, next, err := state.Detach("rover")
	assert.ErrorIs(t, err, ErrNotHolding)
	assert.True(t, next.Empty())
}

func TestTranslationState_AttachReplaces(t *testing.T) {
	state := TranslationState{}.Attach("rover", "rock1").Attach("rover", "soil1")
	assert.Equal(t, map[string]string{"rover": "soil1"}, state.Attachments())
}
