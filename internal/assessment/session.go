package assessment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/futig/behavior-profile/internal/entity"
)

const DefaultAutoAdvanceDelay = 400 * time.Millisecond

// Option configures a Session
type Option func(*Session)

// WithAutoAdvanceDelay sets how long a selection stays on screen before advancing
func WithAutoAdvanceDelay(delay time.Duration) Option {
	return func(s *Session) {
		if delay >= 0 {
			s.delay = delay
		}
	}
}

func WithScheduler(scheduler Scheduler) Option {
	return func(s *Session) {
		if scheduler != nil {
			s.scheduler = scheduler
		}
	}
}

// WithOnAdvance registers a callback invoked after an auto-advance moved the
// displayed question. It runs without the session lock held.
func WithOnAdvance(fn func(State)) Option {
	return func(s *Session) {
		s.onAdvance = fn
	}
}

// Session drives one user through the ordered questionnaire
type Session struct {
	provider    QuestionProvider
	submitter   Submitter
	credentials CredentialProvider
	scheduler   Scheduler
	delay       time.Duration
	onAdvance   func(State)

	mu         sync.Mutex
	questions  []entity.Question
	positions  map[int]int
	current    int
	answers    entity.AnswerMap
	loading    bool
	loadErr    string
	submitting bool
	submitErr  string
	submitted  bool
	closed     bool

	pending    Task
	generation uint64
}

func NewSession(
	provider QuestionProvider,
	submitter Submitter,
	credentials CredentialProvider,
	opts ...Option,
) *Session {
	s := &Session{
		provider:    provider,
		submitter:   submitter,
		credentials: credentials,
		scheduler:   TimerScheduler{},
		delay:       DefaultAutoAdvanceDelay,
		positions:   make(map[int]int),
		answers:     make(entity.AnswerMap),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadQuestions fetches the question list. On success the index is reset and
// answers are cleared; on failure LoadError is set and no questions are kept.
func (s *Session) LoadQuestions(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return entity.ErrSessionClosed
	}
	s.cancelPendingLocked()
	s.loading = true
	s.loadErr = ""
	s.mu.Unlock()

	questions, err := s.provider.FetchQuestions(ctx)
	if err == nil {
		err = validateQuestions(questions)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// torn down while the fetch was in flight
	if s.closed {
		return entity.ErrSessionClosed
	}

	s.loading = false
	s.questions = nil
	s.positions = make(map[int]int)
	s.current = 0
	s.answers = make(entity.AnswerMap)
	s.submitErr = ""
	s.submitted = false

	if err != nil {
		if errors.Is(err, entity.ErrNoQuestions) {
			s.loadErr = MsgNoQuestions
		} else {
			s.loadErr = userMessage(err, MsgLoadFailed)
		}
		return fmt.Errorf("%w: %w", entity.ErrLoadFailure, err)
	}

	s.questions = append([]entity.Question(nil), questions...)
	for i, q := range s.questions {
		s.positions[q.ID] = i
	}

	return nil
}

func validateQuestions(questions []entity.Question) error {
	if len(questions) == 0 {
		return entity.ErrNoQuestions
	}
	seen := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if _, ok := seen[q.ID]; ok {
			return fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

// SelectAnswer records the answer for a question, replacing any previous one.
// Answering the displayed question schedules an advance unless it is the last.
func (s *Session) SelectAnswer(questionID int, value entity.Category) error {
	if err := value.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return entity.ErrSessionClosed
	}
	if s.submitting {
		return entity.ErrSubmitInProgress
	}

	pos, ok := s.positions[questionID]
	if !ok {
		return fmt.Errorf("%w: %d", entity.ErrQuestionNotFound, questionID)
	}

	s.answers[questionID] = value

	if pos == s.current && pos < len(s.questions)-1 {
		s.scheduleAdvanceLocked(pos)
	}

	return nil
}

func (s *Session) scheduleAdvanceLocked(from int) {
	s.cancelPendingLocked()
	gen := s.generation
	s.pending = s.scheduler.Schedule(s.delay, func() {
		s.fireAdvance(gen, from)
	})
}

func (s *Session) cancelPendingLocked() {
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}
	s.generation++
}

func (s *Session) fireAdvance(gen uint64, from int) {
	s.mu.Lock()
	if s.closed || gen != s.generation || s.current != from || from >= len(s.questions)-1 {
		s.mu.Unlock()
		return
	}
	s.current++
	s.pending = nil
	s.generation++
	state := s.snapshotLocked()
	onAdvance := s.onAdvance
	s.mu.Unlock()

	if onAdvance != nil {
		onAdvance(state)
	}
}

// Next moves to the following question; no-op on the last one
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return entity.ErrSessionClosed
	}
	s.cancelPendingLocked()
	if s.current < len(s.questions)-1 {
		s.current++
	}
	return nil
}

// Prev moves to the preceding question; no-op on the first one
func (s *Session) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return entity.ErrSessionClosed
	}
	s.cancelPendingLocked()
	if s.current > 0 {
		s.current--
	}
	return nil
}

// GoTo jumps to the question at index
func (s *Session) GoTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return entity.ErrSessionClosed
	}
	if index < 0 || index >= len(s.questions) {
		return fmt.Errorf("%w: %d", entity.ErrInvalidIndex, index)
	}
	s.cancelPendingLocked()
	s.current = index
	return nil
}

func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return isComplete(s.questions, s.answers)
}

func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress(len(s.answers), len(s.questions))
}

// Submit sends the completed answers. The returned payload is what was sent;
// a nil error means the host may move on to the results view. Failures keep
// the answers so the call can be retried.
func (s *Session) Submit(ctx context.Context) (*entity.SubmissionPayload, error) {
	var (
		token string
		ok    bool
	)
	if s.credentials != nil {
		token, ok = s.credentials.Token(ctx)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, entity.ErrSessionClosed
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, entity.ErrSubmitInProgress
	}
	if len(s.questions) == 0 {
		s.mu.Unlock()
		return nil, entity.ErrNoQuestions
	}
	if !isComplete(s.questions, s.answers) {
		s.mu.Unlock()
		return nil, entity.ErrIncomplete
	}
	if !ok || token == "" {
		s.submitErr = MsgLoginRequired
		s.mu.Unlock()
		return nil, entity.ErrUnauthenticated
	}

	payload := BuildPayload(s.answers)
	s.submitting = true
	s.submitErr = ""
	s.mu.Unlock()

	err := s.submitter.SubmitAnswers(ctx, token, payload)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.submitting = false
	if err != nil {
		s.submitErr = userMessage(err, MsgSubmitFailed)
		return nil, fmt.Errorf("%w: %w", entity.ErrSubmissionFailure, err)
	}
	s.submitted = true

	return payload, nil
}

// Close tears the session down and cancels a pending auto-advance
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.cancelPendingLocked()
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	return State{
		Questions:          append([]entity.Question(nil), s.questions...),
		CurrentIndex:       s.current,
		Answers:            s.answers.Clone(),
		IsLoadingQuestions: s.loading,
		LoadError:          s.loadErr,
		IsSubmitting:       s.submitting,
		SubmitError:        s.submitErr,
		Submitted:          s.submitted,
		Closed:             s.closed,
	}
}
