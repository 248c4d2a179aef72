// Package auth provides the bearer token sources the assessment core reads
// credentials from. Token issuance and validation stay with the scoring service.
package auth

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

type contextKey struct{}

// ContextWithToken attaches the caller's bearer token to ctx
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextKey{}, token)
}

// TokenFromContext returns the bearer token attached to ctx
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(contextKey{}).(string)
	return token, ok && token != ""
}

// ParseBearer extracts the token from an Authorization header value
func ParseBearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ContextProvider reads the token attached to the request context
type ContextProvider struct{}

func (ContextProvider) Token(ctx context.Context) (string, bool) {
	return TokenFromContext(ctx)
}

// StaticProvider always returns the same token. Local runs only.
type StaticProvider struct {
	token string
}

func NewStaticProvider(token string) *StaticProvider {
	return &StaticProvider{token: token}
}

func (p *StaticProvider) Token(_ context.Context) (string, bool) {
	return p.token, p.token != ""
}

// Provider is the credential source consumed by the assessment core
type Provider interface {
	Token(ctx context.Context) (string, bool)
}

// Chain returns the first token any of the providers has
type Chain []Provider

func (c Chain) Token(ctx context.Context) (string, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if token, ok := p.Token(ctx); ok {
			return token, true
		}
	}
	return "", false
}

// TokenStore keeps tokens of chat users who logged in with /login
type TokenStore struct {
	cache *cache.Cache
}

func NewTokenStore(ttl, cleanupInterval time.Duration) *TokenStore {
	return &TokenStore{cache: cache.New(ttl, cleanupInterval)}
}

func (s *TokenStore) Set(userID int64, token string) {
	s.cache.SetDefault(userKey(userID), token)
}

func (s *TokenStore) Get(userID int64) (string, bool) {
	v, ok := s.cache.Get(userKey(userID))
	if !ok {
		return "", false
	}
	token, ok := v.(string)
	return token, ok && token != ""
}

func (s *TokenStore) Delete(userID int64) {
	s.cache.Delete(userKey(userID))
}

// ForUser binds the store to one chat user
func (s *TokenStore) ForUser(userID int64) Provider {
	return userProvider{store: s, userID: userID}
}

type userProvider struct {
	store  *TokenStore
	userID int64
}

func (p userProvider) Token(_ context.Context) (string, bool) {
	return p.store.Get(p.userID)
}

func userKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}
