package state

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

var ErrStateNotFound = errors.New("telegram user state not found")

// UserState maps a Telegram user to an assessment session and the message
// currently showing it
type UserState struct {
	UserID    int64  `json:"user_id"`
	ChatID    int64  `json:"chat_id"`
	SessionID string `json:"session_id,omitempty"`

	// LastMessageID is the question message edited in place while answering
	LastMessageID int `json:"last_message_id,omitempty"`

	// ResultTab is the recommendation tab shown on the result message
	ResultTab string `json:"result_tab,omitempty"`

	// PendingConfirmation is set while a destructive action awaits a yes/no
	PendingConfirmation string `json:"pending_confirmation,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Storage defines persistence for Telegram UI state
type Storage interface {
	Get(ctx context.Context, userID int64) (*UserState, error)
	Set(ctx context.Context, state *UserState) error
	Delete(ctx context.Context, userID int64) error
}

var _ Storage = &MemoryStorage{}

// MemoryStorage keeps UI state in process memory with sliding expiration
type MemoryStorage struct {
	cache *cache.Cache
}

func NewMemoryStorage(ttl, cleanupInterval time.Duration) *MemoryStorage {
	return &MemoryStorage{cache: cache.New(ttl, cleanupInterval)}
}

func (s *MemoryStorage) Get(_ context.Context, userID int64) (*UserState, error) {
	v, ok := s.cache.Get(key(userID))
	if !ok {
		return nil, ErrStateNotFound
	}
	stored := v.(UserState)
	return &stored, nil
}

func (s *MemoryStorage) Set(_ context.Context, state *UserState) error {
	s.cache.SetDefault(key(state.UserID), *state)
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, userID int64) error {
	s.cache.Delete(key(userID))
	return nil
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
