package results

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/futig/behavior-profile/internal/entity"
)

const (
	MsgResultFailed        = "Não foi possível carregar o resultado do seu perfil. Recarregue a página para tentar novamente."
	MsgResultInvalid       = "O resultado recebido está incompleto e não pode ser exibido."
	MsgResultLoginRequired = "Você precisa estar logado para ver seu resultado. Faça login e tente novamente."
)

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

type ResultProvider interface {
	FetchResult(ctx context.Context, token string) (*entity.ProfileAnalysisResult, error)
}

type CredentialProvider interface {
	Token(ctx context.Context) (string, bool)
}

// Screen moves from Loading to either Success or Error exactly once
type Screen struct {
	mu      sync.RWMutex
	phase   Phase
	view    *ProfileView
	err     error
	message string
}

func NewScreen() *Screen {
	return &Screen{phase: PhaseLoading}
}

func (s *Screen) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

func (s *Screen) View() *ProfileView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Screen) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Message is the user-facing text of the error state
func (s *Screen) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}

func (s *Screen) succeed(view *ProfileView) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseLoading {
		return false
	}
	s.phase = PhaseSuccess
	s.view = view
	return true
}

func (s *Screen) fail(err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseLoading {
		return false
	}
	s.phase = PhaseError
	s.err = err
	s.message = errorMessage(err)
	return true
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrResultShapeMismatch):
		return MsgResultInvalid
	case entity.RemoteMessage(err) != "":
		return entity.RemoteMessage(err)
	case errors.Is(err, entity.ErrUnauthenticated):
		return MsgResultLoginRequired
	default:
		return MsgResultFailed
	}
}

// Loader performs the single result fetch behind a Screen
type Loader struct {
	provider    ResultProvider
	credentials CredentialProvider
}

func NewLoader(provider ResultProvider, credentials CredentialProvider) *Loader {
	return &Loader{
		provider:    provider,
		credentials: credentials,
	}
}

// Load fetches and builds the result view. The returned screen is always
// terminal; the error mirrors the screen's error state.
func (l *Loader) Load(ctx context.Context) (*Screen, error) {
	screen := NewScreen()

	var (
		token string
		ok    bool
	)
	if l.credentials != nil {
		token, ok = l.credentials.Token(ctx)
	}
	if !ok || token == "" {
		screen.fail(entity.ErrUnauthenticated)
		return screen, entity.ErrUnauthenticated
	}

	result, err := l.provider.FetchResult(ctx, token)
	if err != nil {
		err = fmt.Errorf("failed to fetch profile result: %w", err)
		screen.fail(err)
		return screen, err
	}

	view, err := Build(result)
	if err != nil {
		screen.fail(err)
		return screen, err
	}

	screen.succeed(view)
	return screen, nil
}
