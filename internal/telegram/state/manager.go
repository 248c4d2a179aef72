package state

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Manager manages Telegram UI state
type Manager struct {
	storage Storage
	now     func() time.Time
}

func NewManager(storage Storage) *Manager {
	return &Manager{
		storage: storage,
		now:     time.Now,
	}
}

// Get returns the state of a user, or a fresh one if none is stored
func (m *Manager) Get(ctx context.Context, userID, chatID int64) (*UserState, error) {
	st, err := m.storage.Get(ctx, userID)
	if errors.Is(err, ErrStateNotFound) {
		now := m.now()
		return &UserState{UserID: userID, ChatID: chatID, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get telegram state from storage: %w", err)
	}
	return st, nil
}

func (m *Manager) Save(ctx context.Context, st *UserState) error {
	st.UpdatedAt = m.now()
	if err := m.storage.Set(ctx, st); err != nil {
		return fmt.Errorf("save telegram state to storage: %w", err)
	}
	return nil
}

func (m *Manager) Delete(ctx context.Context, userID int64) error {
	if err := m.storage.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete telegram state from storage: %w", err)
	}
	return nil
}

// BindSession points the user at a new assessment session, resetting
// per-session UI state
func (m *Manager) BindSession(ctx context.Context, userID, chatID int64, sessionID string) (*UserState, error) {
	st, err := m.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	st.ChatID = chatID
	st.SessionID = sessionID
	st.LastMessageID = 0
	st.PendingConfirmation = ""

	if err := m.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}
