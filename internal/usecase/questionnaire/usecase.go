package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/behavior-profile/internal/assessment"
	"github.com/futig/behavior-profile/internal/entity"
	"github.com/futig/behavior-profile/internal/pkg/formatter"
	"github.com/futig/behavior-profile/internal/pkg/logger"
	"github.com/futig/behavior-profile/internal/repository"
	"github.com/futig/behavior-profile/internal/results"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type Config struct {
	AutoAdvanceDelay time.Duration
	SessionTTL       time.Duration
	CleanupInterval  time.Duration
}

// SessionView is a session snapshot together with its registry metadata
type SessionView struct {
	ID        string
	CreatedAt time.Time
	State     assessment.State
}

// ExportedFile is a rendered result report
type ExportedFile struct {
	Data        []byte
	ContentType string
	Filename    string
}

type sessionEntry struct {
	id        string
	createdAt time.Time
	session   *assessment.Session
}

// StartOption customizes a new session
type StartOption func(*startConfig)

type startConfig struct {
	credentials assessment.CredentialProvider
	onAdvance   func(SessionView)
}

// WithCredentials overrides the default credential source of the session
func WithCredentials(credentials assessment.CredentialProvider) StartOption {
	return func(c *startConfig) {
		c.credentials = credentials
	}
}

// WithOnAdvance is called after an auto-advance, outside any lock
func WithOnAdvance(fn func(SessionView)) StartOption {
	return func(c *startConfig) {
		c.onAdvance = fn
	}
}

// QuestionnaireUsecase owns the in-memory assessment sessions
type QuestionnaireUsecase struct {
	connector   ScoringConnector
	catalog     OptionCatalog
	journal     repository.SubmissionRepository
	formatters  *formatter.Factory
	credentials assessment.CredentialProvider
	scheduler   assessment.Scheduler
	sessions    *cache.Cache
	cfg         Config
	now         func() time.Time
	logger      *zap.Logger
}

// NewUsecase creates a new questionnaire use case
func NewUsecase(
	cfg Config,
	connector ScoringConnector,
	catalog OptionCatalog,
	journal repository.SubmissionRepository,
	formatters *formatter.Factory,
	credentials assessment.CredentialProvider,
	logger *zap.Logger,
) *QuestionnaireUsecase {
	if journal == nil {
		journal = repository.NoopSubmissionRepository{}
	}

	uc := &QuestionnaireUsecase{
		connector:   connector,
		catalog:     catalog,
		journal:     journal,
		formatters:  formatters,
		credentials: credentials,
		scheduler:   assessment.TimerScheduler{},
		sessions:    cache.New(cfg.SessionTTL, cfg.CleanupInterval),
		cfg:         cfg,
		now:         time.Now,
		logger:      logger,
	}

	// Expired and deleted sessions are torn down so pending advances never fire
	uc.sessions.OnEvicted(func(id string, v any) {
		if entry, ok := v.(*sessionEntry); ok {
			entry.session.Close()
			uc.logger.Debug("assessment session closed", zap.String("session_id", id))
		}
	})

	return uc
}

// StartSession creates a session and loads its questions. A failed load is
// reported through the session's LoadError, not as an error.
func (uc *QuestionnaireUsecase) StartSession(ctx context.Context, opts ...StartOption) (*SessionView, error) {
	start := &startConfig{credentials: uc.credentials}
	for _, opt := range opts {
		opt(start)
	}

	entry := &sessionEntry{
		id:        uuid.New().String(),
		createdAt: uc.now(),
	}

	sessionOpts := []assessment.Option{
		assessment.WithAutoAdvanceDelay(uc.cfg.AutoAdvanceDelay),
		assessment.WithScheduler(uc.scheduler),
	}
	if start.onAdvance != nil {
		onAdvance := start.onAdvance
		sessionOpts = append(sessionOpts, assessment.WithOnAdvance(func(state assessment.State) {
			onAdvance(SessionView{ID: entry.id, CreatedAt: entry.createdAt, State: state})
		}))
	}

	entry.session = assessment.NewSession(uc.connector, uc.connector, start.credentials, sessionOpts...)
	uc.sessions.SetDefault(entry.id, entry)

	ctx = logger.WithSession(ctx, entry.id)
	if err := entry.session.LoadQuestions(ctx); err != nil {
		if errors.Is(err, entity.ErrSessionClosed) {
			return nil, err
		}
		ctxzap.Warn(ctx, "failed to load questions", zap.Error(err))
	}

	return entry.view(), nil
}

// ReloadQuestions fetches the question list again, discarding answers
func (uc *QuestionnaireUsecase) ReloadQuestions(ctx context.Context, sessionID string) (*SessionView, error) {
	entry, err := uc.getEntry(sessionID)
	if err != nil {
		return nil, err
	}

	if err := entry.session.LoadQuestions(ctx); err != nil {
		if errors.Is(err, entity.ErrSessionClosed) {
			return nil, err
		}
		ctxzap.Warn(ctx, "failed to reload questions", zap.String("session_id", sessionID), zap.Error(err))
	}

	return entry.view(), nil
}

func (uc *QuestionnaireUsecase) GetSession(_ context.Context, sessionID string) (*SessionView, error) {
	entry, err := uc.getEntry(sessionID)
	if err != nil {
		return nil, err
	}
	return entry.view(), nil
}

func (uc *QuestionnaireUsecase) SelectAnswer(
	ctx context.Context,
	sessionID string,
	questionID int,
	value entity.Category,
) (*SessionView, error) {
	entry, err := uc.getEntry(sessionID)
	if err != nil {
		return nil, err
	}

	if err := entry.session.SelectAnswer(questionID, value); err != nil {
		return nil, fmt.Errorf("select answer: %w", err)
	}

	ctxzap.Debug(ctx, "answer selected",
		zap.String("session_id", sessionID),
		zap.Int("question_id", questionID),
		zap.String("answer_option", string(value)),
	)

	return entry.view(), nil
}

func (uc *QuestionnaireUsecase) Next(_ context.Context, sessionID string) (*SessionView, error) {
	return uc.navigate(sessionID, (*assessment.Session).Next)
}

func (uc *QuestionnaireUsecase) Prev(_ context.Context, sessionID string) (*SessionView, error) {
	return uc.navigate(sessionID, (*assessment.Session).Prev)
}

func (uc *QuestionnaireUsecase) GoTo(_ context.Context, sessionID string, index int) (*SessionView, error) {
	return uc.navigate(sessionID, func(s *assessment.Session) error {
		return s.GoTo(index)
	})
}

func (uc *QuestionnaireUsecase) navigate(sessionID string, move func(*assessment.Session) error) (*SessionView, error) {
	entry, err := uc.getEntry(sessionID)
	if err != nil {
		return nil, err
	}

	if err := move(entry.session); err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}

	return entry.view(), nil
}

// Submit sends the answers and journals the submission. On failure the
// returned view carries SubmitError and the answers are kept.
func (uc *QuestionnaireUsecase) Submit(ctx context.Context, sessionID string) (*SessionView, error) {
	entry, err := uc.getEntry(sessionID)
	if err != nil {
		return nil, err
	}

	payload, err := entry.session.Submit(ctx)
	if err != nil {
		ctxzap.Warn(ctx, "submission failed", zap.String("session_id", sessionID), zap.Error(err))
		return entry.view(), err
	}

	ctxzap.Info(ctx, "answers submitted",
		zap.String("session_id", sessionID),
		zap.Int("answer_count", len(payload.Answers)),
	)

	submission := &entity.Submission{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		AnswerCount: len(payload.Answers),
		Payload:     *payload,
		SubmittedAt: uc.now(),
	}
	if err := uc.journal.SaveSubmission(ctx, submission); err != nil {
		// the scoring service already accepted the answers
		ctxzap.Error(ctx, "failed to journal submission", zap.String("session_id", sessionID), zap.Error(err))
	}

	return entry.view(), nil
}

// CloseSession tears the session down and forgets it
func (uc *QuestionnaireUsecase) CloseSession(_ context.Context, sessionID string) error {
	if _, err := uc.getEntry(sessionID); err != nil {
		return err
	}
	uc.sessions.Delete(sessionID)
	return nil
}

// CloseAll tears down every live session. Used on shutdown.
func (uc *QuestionnaireUsecase) CloseAll() int {
	items := uc.sessions.Items()
	for id := range items {
		uc.sessions.Delete(id)
	}
	return len(items)
}

// Options returns the answer options of a question; false on a catalog miss
func (uc *QuestionnaireUsecase) Options(questionID int) ([]entity.AnswerOption, bool) {
	return uc.catalog.Lookup(questionID)
}

// GetResult loads the profile result of the caller. The screen is always
// returned in a terminal state.
func (uc *QuestionnaireUsecase) GetResult(
	ctx context.Context,
	credentials assessment.CredentialProvider,
) (*results.Screen, error) {
	if credentials == nil {
		credentials = uc.credentials
	}

	screen, err := results.NewLoader(uc.connector, credentials).Load(ctx)
	if err != nil {
		ctxzap.Warn(ctx, "failed to load profile result", zap.Error(err))
	}
	return screen, err
}

// ExportResult renders the caller's profile result in the given format
func (uc *QuestionnaireUsecase) ExportResult(
	ctx context.Context,
	credentials assessment.CredentialProvider,
	format entity.ResultFormat,
) (*ExportedFile, error) {
	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	screen, err := uc.GetResult(ctx, credentials)
	if err != nil {
		return nil, err
	}

	data, err := f.Format(formatter.ProfileDocument(screen.View()))
	if err != nil {
		return nil, fmt.Errorf("format result: %w", err)
	}

	return &ExportedFile{
		Data:        data,
		ContentType: f.ContentType(),
		Filename:    "perfil-comportamental" + f.FileExtension(),
	}, nil
}

func (uc *QuestionnaireUsecase) getEntry(sessionID string) (*sessionEntry, error) {
	v, ok := uc.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, sessionID)
	}
	entry := v.(*sessionEntry)

	// sliding expiration; overwriting does not trigger OnEvicted
	uc.sessions.SetDefault(sessionID, entry)

	return entry, nil
}

func (e *sessionEntry) view() *SessionView {
	return &SessionView{
		ID:        e.id,
		CreatedAt: e.createdAt,
		State:     e.session.Snapshot(),
	}
}
