package assessment

import (
	"context"
	"sync"
	"time"

	"github.com/futig/behavior-profile/internal/entity"
)

type fakeTask struct {
	fn        func()
	delay     time.Duration
	cancelled bool
	fired     bool
}

func (t *fakeTask) Cancel() bool {
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	return true
}

// fakeScheduler collects tasks and runs them only when told to
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

func (f *fakeScheduler) Schedule(delay time.Duration, fn func()) Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	task := &fakeTask{fn: fn, delay: delay}
	f.tasks = append(f.tasks, task)
	return task
}

// FireAll runs every task that is still pending
func (f *fakeScheduler) FireAll() int {
	f.mu.Lock()
	var due []*fakeTask
	for _, t := range f.tasks {
		if !t.cancelled && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	f.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// FireStale runs every task, cancelled ones included
func (f *fakeScheduler) FireStale() {
	f.mu.Lock()
	tasks := append([]*fakeTask(nil), f.tasks...)
	f.mu.Unlock()

	for _, t := range tasks {
		t.fn()
	}
}

func (f *fakeScheduler) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tasks {
		if !t.cancelled && !t.fired {
			n++
		}
	}
	return n
}

type fakeProvider struct {
	questions []entity.Question
	err       error
	calls     int
}

func (p *fakeProvider) FetchQuestions(_ context.Context) ([]entity.Question, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.questions, nil
}

type fakeSubmitter struct {
	mu       sync.Mutex
	err      error
	tokens   []string
	payloads []*entity.SubmissionPayload
}

func (f *fakeSubmitter) SubmitAnswers(_ context.Context, token string, payload *entity.SubmissionPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	f.payloads = append(f.payloads, payload)
	return f.err
}

type staticCredentials struct {
	token string
}

func (c *staticCredentials) Token(_ context.Context) (string, bool) {
	return c.token, c.token != ""
}

func makeQuestions(n int) []entity.Question {
	questions := make([]entity.Question, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, entity.Question{ID: i, Text: "Pergunta"})
	}
	return questions
}
