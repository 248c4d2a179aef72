package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetReturnsFreshState(t *testing.T) {
	m := NewManager(NewMemoryStorage(time.Hour, time.Hour))

	st, err := m.Get(context.Background(), 7, 70)
	require.NoError(t, err)

	assert.Equal(t, int64(7), st.UserID)
	assert.Equal(t, int64(70), st.ChatID)
	assert.Empty(t, st.SessionID)
}

func TestManager_BindSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage(time.Hour, time.Hour))

	st, err := m.BindSession(ctx, 7, 70, "s1")
	require.NoError(t, err)
	st.LastMessageID = 12
	st.PendingConfirmation = "cancel"
	require.NoError(t, m.Save(ctx, st))

	st, err = m.BindSession(ctx, 7, 70, "s2")
	require.NoError(t, err)
	assert.Equal(t, "s2", st.SessionID)
	assert.Zero(t, st.LastMessageID)
	assert.Empty(t, st.PendingConfirmation)

	stored, err := m.Get(ctx, 7, 70)
	require.NoError(t, err)
	assert.Equal(t, "s2", stored.SessionID)
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(time.Hour, time.Hour)
	require.NoError(t, s.Set(ctx, &UserState{UserID: 1, SessionID: "a"}))

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	got.SessionID = "changed"

	again, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", again.SessionID)
}

func TestMemoryStorage_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(time.Hour, time.Hour)
	require.NoError(t, s.Set(ctx, &UserState{UserID: 1}))
	require.NoError(t, s.Delete(ctx, 1))

	_, err := s.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrStateNotFound)
}
