package assessment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/behavior-profile/internal/api/middleware"
	"github.com/futig/behavior-profile/internal/auth"
	"github.com/futig/behavior-profile/internal/catalog"
	"github.com/futig/behavior-profile/internal/entity"
	"github.com/futig/behavior-profile/internal/integration/profile"
	"github.com/futig/behavior-profile/internal/pkg/formatter"
	"github.com/futig/behavior-profile/internal/pkg/response"
	"github.com/futig/behavior-profile/internal/pkg/validator"
	"github.com/futig/behavior-profile/internal/results"
	"github.com/futig/behavior-profile/internal/usecase/questionnaire"
)

const bearer = "Bearer candidate-token"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	uc := questionnaire.NewUsecase(
		questionnaire.Config{AutoAdvanceDelay: time.Hour, SessionTTL: time.Hour, CleanupInterval: time.Hour},
		profile.NewMockConnector(zap.NewNop()),
		catalog.Default(),
		nil,
		formatter.NewFactory(),
		auth.Chain{auth.ContextProvider{}},
		zap.NewNop(),
	)

	r := chi.NewRouter()
	r.Use(middleware.Auth)
	RegisterRoutes(r, NewHandler(uc, validator.NewValidator()))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, authorized bool) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", bearer)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func startSession(t *testing.T, srv *httptest.Server) entity.SessionDTO {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/assessment-session/", nil, false)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[entity.SessionDTO](t, resp)
}

func answerAll(t *testing.T, srv *httptest.Server, dto entity.SessionDTO) {
	t.Helper()
	for id := 1; id <= dto.TotalQuestions; id++ {
		resp := do(t, srv, http.MethodPost, "/assessment-session/"+dto.ID+"/answers",
			entity.SelectAnswerRequest{QuestionID: id, AnswerOption: "comunicador"}, false)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestStartSession(t *testing.T) {
	srv := newTestServer(t)

	dto := startSession(t, srv)

	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, 10, dto.TotalQuestions)
	assert.Equal(t, 0, dto.Progress)
	assert.False(t, dto.CanGoPrev)
	assert.True(t, dto.CanGoNext)
	assert.Nil(t, dto.LoadError)

	require.NotNil(t, dto.CurrentQuestion)
	assert.Equal(t, 1, dto.CurrentQuestion.Number)
	assert.True(t, dto.CurrentQuestion.OptionsAvailable)
	assert.Len(t, dto.CurrentQuestion.Options, 4)
	assert.Nil(t, dto.CurrentQuestion.SelectedOption)
}

func TestSelectAnswer(t *testing.T) {
	srv := newTestServer(t)
	dto := startSession(t, srv)

	resp := do(t, srv, http.MethodPost, "/assessment-session/"+dto.ID+"/answers",
		entity.SelectAnswerRequest{QuestionID: 1, AnswerOption: "analista"}, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decode[entity.SessionDTO](t, resp)
	assert.Equal(t, 1, updated.AnsweredCount)
	assert.Equal(t, 10, updated.Progress)
	require.NotNil(t, updated.CurrentQuestion.SelectedOption)
	assert.Equal(t, entity.CategoryAnalista, *updated.CurrentQuestion.SelectedOption)
}

func TestSelectAnswer_BadRequests(t *testing.T) {
	srv := newTestServer(t)
	dto := startSession(t, srv)
	path := "/assessment-session/" + dto.ID + "/answers"

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"unknown category", entity.SelectAnswerRequest{QuestionID: 1, AnswerOption: "lider"}, http.StatusBadRequest},
		{"missing question", entity.SelectAnswerRequest{AnswerOption: "executor"}, http.StatusBadRequest},
		{"unknown question", entity.SelectAnswerRequest{QuestionID: 77, AnswerOption: "executor"}, http.StatusNotFound},
		{"malformed body", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, srv, http.MethodPost, path, tt.body, false)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestNavigation(t *testing.T) {
	srv := newTestServer(t)
	dto := startSession(t, srv)
	base := "/assessment-session/" + dto.ID

	resp := do(t, srv, http.MethodPost, base+"/next", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[entity.SessionDTO](t, resp).CurrentIndex)

	resp = do(t, srv, http.MethodPost, base+"/goto/9", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	last := decode[entity.SessionDTO](t, resp)
	assert.Equal(t, 9, last.CurrentIndex)
	assert.False(t, last.CanGoNext)

	resp = do(t, srv, http.MethodPost, base+"/prev", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 8, decode[entity.SessionDTO](t, resp).CurrentIndex)

	resp = do(t, srv, http.MethodPost, base+"/goto/10", nil, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, base+"/goto/abc", nil, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmit_Incomplete(t *testing.T) {
	srv := newTestServer(t)
	dto := startSession(t, srv)

	resp := do(t, srv, http.MethodPost, "/assessment-session/"+dto.ID+"/submit", nil, true)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSubmit_RequiresToken(t *testing.T) {
	srv := newTestServer(t)
	dto := startSession(t, srv)
	answerAll(t, srv, dto)

	resp := do(t, srv, http.MethodPost, "/assessment-session/"+dto.ID+"/submit", nil, false)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decode[response.ErrorResponse](t, resp)
	assert.Equal(t, "unauthenticated", body.Error)
	assert.NotEmpty(t, body.Message)

	// answers survive, a retry with a token goes through
	resp = do(t, srv, http.MethodPost, "/assessment-session/"+dto.ID+"/submit", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	submitted := decode[entity.SessionDTO](t, resp)
	assert.True(t, submitted.Submitted)
	assert.Nil(t, submitted.SubmitError)
}

func TestProfileResult(t *testing.T) {
	srv := newTestServer(t)

	// nothing submitted yet for this token
	resp := do(t, srv, http.MethodGet, "/profile-result/", nil, true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/profile-result/", nil, false)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, results.MsgResultLoginRequired, decode[response.ErrorResponse](t, resp).Message)

	dto := startSession(t, srv)
	answerAll(t, srv, dto)
	resp = do(t, srv, http.MethodPost, "/assessment-session/"+dto.ID+"/submit", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/profile-result/", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	view := decode[results.ProfileView](t, resp)
	require.Len(t, view.Distribution, 4)
	assert.Equal(t, entity.CategoryComunicador, view.Distribution[0].Category)
	assert.Equal(t, 100, view.Distribution[0].Value)
	assert.Len(t, view.Recommendations, 4)
}

func TestProfileResultExport(t *testing.T) {
	srv := newTestServer(t)
	dto := startSession(t, srv)
	answerAll(t, srv, dto)
	resp := do(t, srv, http.MethodPost, "/assessment-session/"+dto.ID+"/submit", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/profile-result/export?format=markdown", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/markdown; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "perfil-comportamental.md")

	resp = do(t, srv, http.MethodGet, "/profile-result/export?format=odt", nil, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCloseSession(t *testing.T) {
	srv := newTestServer(t)
	dto := startSession(t, srv)
	path := fmt.Sprintf("/assessment-session/%s", dto.ID)

	resp := do(t, srv, http.MethodDelete, path, nil, false)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, path, nil, false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"))
}

func TestToSessionDTO_CatalogMiss(t *testing.T) {
	view := &questionnaire.SessionView{ID: "s1"}
	view.State.Questions = []entity.Question{{ID: 42, Text: "Sem opções"}}

	dto := toSessionDTO(view, catalog.Default().Lookup)

	require.NotNil(t, dto.CurrentQuestion)
	assert.False(t, dto.CurrentQuestion.OptionsAvailable)
	assert.Empty(t, dto.CurrentQuestion.Options)
	assert.False(t, dto.IsComplete)
}
