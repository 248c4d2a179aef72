package assessment

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/behavior-profile/internal/entity"
)

type sessionFixture struct {
	session     *Session
	provider    *fakeProvider
	submitter   *fakeSubmitter
	credentials *staticCredentials
	scheduler   *fakeScheduler
}

func newFixture(t *testing.T, n int, opts ...Option) *sessionFixture {
	t.Helper()

	f := &sessionFixture{
		provider:    &fakeProvider{questions: makeQuestions(n)},
		submitter:   &fakeSubmitter{},
		credentials: &staticCredentials{token: "token-123"},
		scheduler:   &fakeScheduler{},
	}
	opts = append([]Option{WithScheduler(f.scheduler)}, opts...)
	f.session = NewSession(f.provider, f.submitter, f.credentials, opts...)

	if n > 0 {
		require.NoError(t, f.session.LoadQuestions(context.Background()))
	}
	return f
}

func TestLoadQuestions_Success(t *testing.T) {
	f := newFixture(t, 3)

	state := f.session.Snapshot()
	assert.Len(t, state.Questions, 3)
	assert.Equal(t, 0, state.CurrentIndex)
	assert.Empty(t, state.Answers)
	assert.False(t, state.IsLoadingQuestions)
	assert.Empty(t, state.LoadError)
	assert.Equal(t, 0, state.Progress())
	assert.False(t, state.CanGoPrev())
	assert.True(t, state.CanGoNext())
}

func TestLoadQuestions_ResetsAnswersAndIndex(t *testing.T) {
	f := newFixture(t, 3)
	require.NoError(t, f.session.SelectAnswer(1, entity.CategoryAnalista))
	require.NoError(t, f.session.GoTo(2))

	require.NoError(t, f.session.LoadQuestions(context.Background()))

	state := f.session.Snapshot()
	assert.Equal(t, 0, state.CurrentIndex)
	assert.Empty(t, state.Answers)
}

func TestLoadQuestions_ServerError(t *testing.T) {
	f := newFixture(t, 0)
	f.provider.err = &entity.RemoteError{
		StatusCode: http.StatusInternalServerError,
		Err:        errors.New("internal error"),
	}

	err := f.session.LoadQuestions(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrLoadFailure)
	state := f.session.Snapshot()
	assert.Equal(t, MsgLoadFailed, state.LoadError)
	assert.Empty(t, state.Questions)
	assert.False(t, state.IsLoadingQuestions)
	_, ok := state.CurrentQuestion()
	assert.False(t, ok)
}

func TestLoadQuestions_PrefersServerMessage(t *testing.T) {
	f := newFixture(t, 0)
	f.provider.err = &entity.RemoteError{
		StatusCode: http.StatusServiceUnavailable,
		Message:    "Serviço em manutenção",
	}

	err := f.session.LoadQuestions(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Serviço em manutenção", f.session.Snapshot().LoadError)
}

func TestLoadQuestions_FailureDropsPreviousList(t *testing.T) {
	f := newFixture(t, 4)
	f.provider.err = errors.New("connection reset")

	require.Error(t, f.session.LoadQuestions(context.Background()))

	state := f.session.Snapshot()
	assert.Empty(t, state.Questions)
	assert.Equal(t, MsgLoadFailed, state.LoadError)
}

func TestLoadQuestions_InvalidLists(t *testing.T) {
	tests := []struct {
		name      string
		questions []entity.Question
		message   string
	}{
		{
			name:      "empty list",
			questions: []entity.Question{},
			message:   MsgNoQuestions,
		},
		{
			name:      "duplicate ids",
			questions: []entity.Question{{ID: 1}, {ID: 2}, {ID: 1}},
			message:   MsgLoadFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0)
			f.provider.questions = tt.questions

			err := f.session.LoadQuestions(context.Background())

			assert.ErrorIs(t, err, entity.ErrLoadFailure)
			state := f.session.Snapshot()
			assert.Equal(t, tt.message, state.LoadError)
			assert.Empty(t, state.Questions)
		})
	}
}

type closingProvider struct {
	session *Session
}

func (p *closingProvider) FetchQuestions(_ context.Context) ([]entity.Question, error) {
	p.session.Close()
	return makeQuestions(3), nil
}

func TestLoadQuestions_DiscardedAfterClose(t *testing.T) {
	provider := &closingProvider{}
	session := NewSession(provider, &fakeSubmitter{}, &staticCredentials{}, WithScheduler(&fakeScheduler{}))
	provider.session = session

	err := session.LoadQuestions(context.Background())

	assert.ErrorIs(t, err, entity.ErrSessionClosed)
	assert.Empty(t, session.Snapshot().Questions)
}

func TestProgressSequence(t *testing.T) {
	f := newFixture(t, 5)
	choices := []entity.Category{
		entity.CategoryExecutor,
		entity.CategoryPlanejador,
		entity.CategoryExecutor,
		entity.CategoryAnalista,
		entity.CategoryComunicador,
	}

	var progress []int
	for i, choice := range choices {
		require.NoError(t, f.session.SelectAnswer(i+1, choice))
		progress = append(progress, f.session.Progress())
		f.scheduler.FireAll()
	}

	assert.Equal(t, []int{20, 40, 60, 80, 100}, progress)
	assert.True(t, f.session.IsComplete())
	assert.Equal(t, 4, f.session.Snapshot().CurrentIndex)

	payload, err := f.session.Submit(context.Background())
	require.NoError(t, err)
	assert.Len(t, payload.Answers, 5)
}

func TestProgress_Rounding(t *testing.T) {
	for total := 0; total <= 7; total++ {
		for answered := 0; answered <= total; answered++ {
			got := Progress(answered, total)
			if total == 0 {
				assert.Equal(t, 0, got)
				continue
			}
			expected := int(float64(answered)*100/float64(total) + 0.5)
			assert.Equal(t, expected, got, "%d of %d", answered, total)
		}
	}
	assert.Equal(t, 33, Progress(1, 3))
	assert.Equal(t, 67, Progress(2, 3))
	assert.Equal(t, 100, Progress(3, 3))
}

func TestIsComplete_AllSubsets(t *testing.T) {
	const n = 6
	for skip := 1; skip <= n; skip++ {
		f := newFixture(t, n)
		for id := 1; id <= n; id++ {
			if id == skip {
				continue
			}
			require.NoError(t, f.session.SelectAnswer(id, entity.CategoryAnalista))
		}
		assert.False(t, f.session.IsComplete(), "missing question %d", skip)

		require.NoError(t, f.session.SelectAnswer(skip, entity.CategoryExecutor))
		assert.True(t, f.session.IsComplete())
	}
}

func TestIsComplete_NoQuestions(t *testing.T) {
	f := newFixture(t, 0)
	assert.False(t, f.session.IsComplete())
}

func TestSelectAnswer_Idempotent(t *testing.T) {
	f := newFixture(t, 3)

	require.NoError(t, f.session.SelectAnswer(2, entity.CategoryPlanejador))
	require.NoError(t, f.session.SelectAnswer(2, entity.CategoryPlanejador))

	state := f.session.Snapshot()
	assert.Equal(t, 1, state.AnsweredCount())
	value, ok := state.Answer(2)
	require.True(t, ok)
	assert.Equal(t, entity.CategoryPlanejador, value)
}

func TestSelectAnswer_Overwrites(t *testing.T) {
	f := newFixture(t, 3)

	require.NoError(t, f.session.SelectAnswer(2, entity.CategoryPlanejador))
	require.NoError(t, f.session.SelectAnswer(2, entity.CategoryComunicador))

	state := f.session.Snapshot()
	assert.Equal(t, 1, state.AnsweredCount())
	assert.Equal(t, entity.CategoryComunicador, state.Answers[2])
}

func TestSelectAnswer_Rejects(t *testing.T) {
	f := newFixture(t, 3)

	err := f.session.SelectAnswer(99, entity.CategoryAnalista)
	assert.ErrorIs(t, err, entity.ErrQuestionNotFound)

	err = f.session.SelectAnswer(1, entity.Category("lider"))
	assert.ErrorIs(t, err, entity.ErrInvalidCategory)

	assert.Empty(t, f.session.Snapshot().Answers)
	assert.Zero(t, f.scheduler.Pending())
}

func TestNavigation_Bounds(t *testing.T) {
	f := newFixture(t, 3)

	require.NoError(t, f.session.Prev())
	assert.Equal(t, 0, f.session.Snapshot().CurrentIndex)

	require.NoError(t, f.session.Next())
	require.NoError(t, f.session.Next())
	assert.Equal(t, 2, f.session.Snapshot().CurrentIndex)

	require.NoError(t, f.session.Next())
	state := f.session.Snapshot()
	assert.Equal(t, 2, state.CurrentIndex)
	assert.False(t, state.CanGoNext())
	assert.True(t, state.IsLast())

	require.NoError(t, f.session.Prev())
	assert.Equal(t, 1, f.session.Snapshot().CurrentIndex)
}

func TestNavigation_DoesNotRequireAnswer(t *testing.T) {
	f := newFixture(t, 3)

	require.NoError(t, f.session.Next())

	state := f.session.Snapshot()
	assert.Equal(t, 1, state.CurrentIndex)
	assert.Empty(t, state.Answers)
}

func TestGoTo(t *testing.T) {
	f := newFixture(t, 4)

	require.NoError(t, f.session.GoTo(3))
	assert.Equal(t, 3, f.session.Snapshot().CurrentIndex)

	assert.ErrorIs(t, f.session.GoTo(4), entity.ErrInvalidIndex)
	assert.ErrorIs(t, f.session.GoTo(-1), entity.ErrInvalidIndex)
	assert.Equal(t, 3, f.session.Snapshot().CurrentIndex)
}

func TestAutoAdvance_DisplayedQuestion(t *testing.T) {
	f := newFixture(t, 3, WithAutoAdvanceDelay(250*time.Millisecond))

	require.NoError(t, f.session.SelectAnswer(1, entity.CategoryExecutor))
	assert.Equal(t, 0, f.session.Snapshot().CurrentIndex, "advance must wait for the delay")
	require.Equal(t, 1, f.scheduler.Pending())
	assert.Equal(t, 250*time.Millisecond, f.scheduler.tasks[0].delay)

	f.scheduler.FireAll()

	assert.Equal(t, 1, f.session.Snapshot().CurrentIndex)
}

func TestAutoAdvance_SuppressedOnLastQuestion(t *testing.T) {
	f := newFixture(t, 3)
	require.NoError(t, f.session.GoTo(2))

	require.NoError(t, f.session.SelectAnswer(3, entity.CategoryAnalista))

	assert.Zero(t, f.scheduler.Pending())
	f.scheduler.FireStale()
	assert.Equal(t, 2, f.session.Snapshot().CurrentIndex)
}

func TestAutoAdvance_NotForOtherQuestion(t *testing.T) {
	f := newFixture(t, 5)
	require.NoError(t, f.session.GoTo(3))

	require.NoError(t, f.session.SelectAnswer(1, entity.CategoryComunicador))

	assert.Zero(t, f.scheduler.Pending())
	assert.Equal(t, 3, f.session.Snapshot().CurrentIndex)
}

func TestAutoAdvance_StaleAfterManualNavigation(t *testing.T) {
	f := newFixture(t, 5)

	require.NoError(t, f.session.SelectAnswer(1, entity.CategoryExecutor))
	require.NoError(t, f.session.Next())
	f.scheduler.FireStale()

	assert.Equal(t, 1, f.session.Snapshot().CurrentIndex)
}

func TestAutoAdvance_ReselectReschedules(t *testing.T) {
	f := newFixture(t, 5)

	require.NoError(t, f.session.SelectAnswer(1, entity.CategoryExecutor))
	require.NoError(t, f.session.SelectAnswer(1, entity.CategoryAnalista))
	assert.Equal(t, 1, f.scheduler.Pending())

	f.scheduler.FireStale()

	assert.Equal(t, 1, f.session.Snapshot().CurrentIndex)
}

func TestAutoAdvance_CancelledByClose(t *testing.T) {
	f := newFixture(t, 3)

	require.NoError(t, f.session.SelectAnswer(1, entity.CategoryExecutor))
	f.session.Close()

	assert.Zero(t, f.scheduler.Pending())
	f.scheduler.FireStale()

	state := f.session.Snapshot()
	assert.True(t, state.Closed)
	assert.Equal(t, 0, state.CurrentIndex)
}

func TestAutoAdvance_Callback(t *testing.T) {
	var advanced []State
	f := newFixture(t, 3, WithOnAdvance(func(state State) {
		advanced = append(advanced, state)
	}))

	require.NoError(t, f.session.SelectAnswer(1, entity.CategoryExecutor))
	f.scheduler.FireAll()

	require.Len(t, advanced, 1)
	assert.Equal(t, 1, advanced[0].CurrentIndex)
	assert.Equal(t, entity.CategoryExecutor, advanced[0].Answers[1])
}

func TestAutoAdvance_TimerScheduler(t *testing.T) {
	session := NewSession(
		&fakeProvider{questions: makeQuestions(2)},
		&fakeSubmitter{},
		&staticCredentials{},
		WithAutoAdvanceDelay(5*time.Millisecond),
	)
	require.NoError(t, session.LoadQuestions(context.Background()))

	require.NoError(t, session.SelectAnswer(1, entity.CategoryExecutor))

	assert.Eventually(t, func() bool {
		return session.Snapshot().CurrentIndex == 1
	}, time.Second, 5*time.Millisecond)
}

func TestClose_RejectsFurtherUse(t *testing.T) {
	f := newFixture(t, 3)
	f.session.Close()
	f.session.Close()

	assert.ErrorIs(t, f.session.SelectAnswer(1, entity.CategoryExecutor), entity.ErrSessionClosed)
	assert.ErrorIs(t, f.session.Next(), entity.ErrSessionClosed)
	assert.ErrorIs(t, f.session.Prev(), entity.ErrSessionClosed)
	assert.ErrorIs(t, f.session.GoTo(0), entity.ErrSessionClosed)
	assert.ErrorIs(t, f.session.LoadQuestions(context.Background()), entity.ErrSessionClosed)
	_, err := f.session.Submit(context.Background())
	assert.ErrorIs(t, err, entity.ErrSessionClosed)
}

func answerAll(t *testing.T, s *Session, n int) {
	t.Helper()
	categories := entity.Categories()
	for id := 1; id <= n; id++ {
		require.NoError(t, s.SelectAnswer(id, categories[(id-1)%len(categories)]))
	}
}

func TestSubmit_Success(t *testing.T) {
	f := newFixture(t, 4)
	answerAll(t, f.session, 4)

	payload, err := f.session.Submit(context.Background())

	require.NoError(t, err)
	require.Len(t, f.submitter.payloads, 1)
	assert.Equal(t, []string{"token-123"}, f.submitter.tokens)
	assert.Same(t, payload, f.submitter.payloads[0])
	assert.Equal(t, []entity.SubmissionAnswer{
		{QuestionID: 1, AnswerOption: "executor"},
		{QuestionID: 2, AnswerOption: "planejador"},
		{QuestionID: 3, AnswerOption: "analista"},
		{QuestionID: 4, AnswerOption: "comunicador"},
	}, payload.Answers)

	state := f.session.Snapshot()
	assert.True(t, state.Submitted)
	assert.False(t, state.IsSubmitting)
	assert.Empty(t, state.SubmitError)
}

func TestSubmit_Incomplete(t *testing.T) {
	f := newFixture(t, 4)
	answerAll(t, f.session, 3)

	_, err := f.session.Submit(context.Background())

	assert.ErrorIs(t, err, entity.ErrIncomplete)
	assert.Empty(t, f.submitter.payloads)
}

func TestSubmit_NoQuestions(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.session.Submit(context.Background())

	assert.ErrorIs(t, err, entity.ErrNoQuestions)
}

func TestSubmit_NoTokenThenRetry(t *testing.T) {
	f := newFixture(t, 3)
	answerAll(t, f.session, 3)
	f.credentials.token = ""
	before := f.session.Snapshot().Answers

	_, err := f.session.Submit(context.Background())

	assert.ErrorIs(t, err, entity.ErrUnauthenticated)
	state := f.session.Snapshot()
	assert.Equal(t, MsgLoginRequired, state.SubmitError)
	assert.Equal(t, before, state.Answers)
	assert.Empty(t, f.submitter.payloads)

	f.credentials.token = "fresh-token"
	payload, err := f.session.Submit(context.Background())

	require.NoError(t, err)
	assert.Len(t, payload.Answers, 3)
	assert.Equal(t, []string{"fresh-token"}, f.submitter.tokens)
	assert.Empty(t, f.session.Snapshot().SubmitError)
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		message     string
		unauthentic bool
	}{
		{
			name:    "server message",
			err:     &entity.RemoteError{StatusCode: http.StatusBadRequest, Message: "Respostas inválidas"},
			message: "Respostas inválidas",
		},
		{
			name:    "network failure",
			err:     errors.New("dial tcp: connection refused"),
			message: MsgSubmitFailed,
		},
		{
			name:        "expired token",
			err:         &entity.RemoteError{StatusCode: http.StatusUnauthorized, Err: errors.New("unauthorized")},
			message:     MsgLoginRequired,
			unauthentic: true,
		},
		{
			name:        "forbidden with message",
			err:         &entity.RemoteError{StatusCode: http.StatusForbidden, Message: "Sessão expirada"},
			message:     "Sessão expirada",
			unauthentic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 2)
			answerAll(t, f.session, 2)
			f.submitter.err = tt.err

			_, err := f.session.Submit(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, entity.ErrSubmissionFailure)
			assert.Equal(t, tt.unauthentic, errors.Is(err, entity.ErrUnauthenticated))

			state := f.session.Snapshot()
			assert.Equal(t, tt.message, state.SubmitError)
			assert.False(t, state.Submitted)
			assert.False(t, state.IsSubmitting)
			assert.Len(t, state.Answers, 2)

			f.submitter.err = nil
			_, err = f.session.Submit(context.Background())
			require.NoError(t, err)
			assert.Len(t, f.submitter.payloads, 2)
		})
	}
}

type blockingSubmitter struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSubmitter) SubmitAnswers(_ context.Context, _ string, _ *entity.SubmissionPayload) error {
	close(b.entered)
	<-b.release
	return nil
}

func TestSubmit_InProgress(t *testing.T) {
	submitter := &blockingSubmitter{entered: make(chan struct{}), release: make(chan struct{})}
	session := NewSession(
		&fakeProvider{questions: makeQuestions(1)},
		submitter,
		&staticCredentials{token: "t"},
		WithScheduler(&fakeScheduler{}),
	)
	require.NoError(t, session.LoadQuestions(context.Background()))
	require.NoError(t, session.SelectAnswer(1, entity.CategoryExecutor))

	done := make(chan error, 1)
	go func() {
		_, err := session.Submit(context.Background())
		done <- err
	}()
	<-submitter.entered

	assert.True(t, session.Snapshot().IsSubmitting)
	_, err := session.Submit(context.Background())
	assert.ErrorIs(t, err, entity.ErrSubmitInProgress)
	assert.ErrorIs(t, session.SelectAnswer(1, entity.CategoryAnalista), entity.ErrSubmitInProgress)

	close(submitter.release)
	require.NoError(t, <-done)
	assert.True(t, session.Snapshot().Submitted)
}
