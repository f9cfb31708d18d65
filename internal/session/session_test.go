package session

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAndLogout(t *testing.T) {
	store := NewStore(time.Hour, clockwork.NewFakeClock())

	token, err := store.Login()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, store.Active(token))

	other, err := store.Login()
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "tokens must be unique")

	store.Logout(token)
	assert.False(t, store.Active(token))
	assert.True(t, store.Active(other))
}

func TestSessionExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewStore(time.Hour, clock)

	token, err := store.Login()
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	assert.True(t, store.Active(token))

	clock.Advance(2 * time.Minute)
	assert.False(t, store.Active(token))
}

func TestSubmissionWorkflow(t *testing.T) {
	store := NewStore(time.Hour, clockwork.NewFakeClock())
	token, err := store.Login()
	require.NoError(t, err)

	assert.Equal(t, StateIdle, store.Submission(token))

	t.Run("blank entries require confirmation first", func(t *testing.T) {
		require.NoError(t, store.Transition(token, StateIdle, StateAwaitingConfirmation))
		assert.Equal(t, StateAwaitingConfirmation, store.Submission(token))

		require.NoError(t, store.Transition(token, StateAwaitingConfirmation, StateSubmitting))
		require.NoError(t, store.Transition(token, StateSubmitting, StateDone))
		require.NoError(t, store.Transition(token, StateDone, StateIdle))
	})

	t.Run("confirmation can be cancelled", func(t *testing.T) {
		require.NoError(t, store.Transition(token, StateIdle, StateAwaitingConfirmation))
		require.NoError(t, store.Transition(token, StateAwaitingConfirmation, StateIdle))
	})

	t.Run("illegal transition rejected", func(t *testing.T) {
		err := store.Transition(token, StateIdle, StateDone)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "illegal")
	})

	t.Run("stale expectation rejected", func(t *testing.T) {
		err := store.Transition(token, StateSubmitting, StateDone)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not")
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		err := store.Transition("nope", StateIdle, StateSubmitting)
		require.Error(t, err)
	})
}
