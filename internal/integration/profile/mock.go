package profile

import (
	"context"
	"math"
	"net/http"
	"sort"
	"sync"

	"github.com/futig/behavior-profile/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var mockQuestions = []entity.Question{
	{ID: 1, Text: "Diante de um problema inesperado no trabalho, qual é a sua primeira reação?"},
	{ID: 2, Text: "Em um projeto em equipe, qual papel você costuma assumir?"},
	{ID: 3, Text: "Como você costuma tomar decisões importantes?"},
	{ID: 4, Text: "Que tipo de ambiente de trabalho mais te motiva?"},
	{ID: 5, Text: "O que mais te incomoda no dia a dia profissional?"},
	{ID: 6, Text: "Como você prefere receber uma nova tarefa?"},
	{ID: 7, Text: "Como você lida com conflitos no time?"},
	{ID: 8, Text: "Como seus colegas provavelmente te descreveriam?"},
	{ID: 9, Text: "Qual é a sua prioridade ao conduzir uma entrega?"},
	{ID: 10, Text: "Quando você se sente mais realizado profissionalmente?"},
}

var mockAverages = map[entity.Category]float64{
	entity.CategoryExecutor:    27.3,
	entity.CategoryPlanejador:  24.8,
	entity.CategoryAnalista:    22.5,
	entity.CategoryComunicador: 25.4,
}

// MockConnector serves canned questions and scores submissions locally
type MockConnector struct {
	logger *zap.Logger

	mu          sync.Mutex
	submissions map[string]*entity.SubmissionPayload
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger:      logger,
		submissions: make(map[string]*entity.SubmissionPayload),
	}
}

func (m *MockConnector) FetchQuestions(ctx context.Context) ([]entity.Question, error) {
	ctxzap.Info(ctx, "[MOCK] fetching behavioral questions")
	return append([]entity.Question(nil), mockQuestions...), nil
}

func (m *MockConnector) SubmitAnswers(ctx context.Context, token string, payload *entity.SubmissionPayload) error {
	ctxzap.Info(ctx, "[MOCK] submitting behavioral answers", zap.Int("answer_count", len(payload.Answers)))

	if token == "" {
		return &entity.RemoteError{StatusCode: http.StatusUnauthorized, Message: "Token de acesso ausente."}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored := &entity.SubmissionPayload{Answers: append([]entity.SubmissionAnswer(nil), payload.Answers...)}
	m.submissions[token] = stored

	return nil
}

func (m *MockConnector) FetchResult(ctx context.Context, token string) (*entity.ProfileAnalysisResult, error) {
	ctxzap.Info(ctx, "[MOCK] fetching profile result")

	if token == "" {
		return nil, &entity.RemoteError{StatusCode: http.StatusUnauthorized, Message: "Token de acesso ausente."}
	}

	m.mu.Lock()
	payload, ok := m.submissions[token]
	m.mu.Unlock()
	if !ok {
		return nil, &entity.RemoteError{
			StatusCode: http.StatusNotFound,
			Message:    "Você ainda não respondeu o teste comportamental.",
		}
	}

	return scorePayload(payload), nil
}

// scorePayload mimics the scoring service closely enough for local runs
func scorePayload(payload *entity.SubmissionPayload) *entity.ProfileAnalysisResult {
	counts := make(map[entity.Category]int)
	for _, a := range payload.Answers {
		counts[entity.Category(a.AnswerOption)]++
	}
	total := len(payload.Answers)

	percentages := make(map[entity.Category]float64, 4)
	ranking := make([]entity.RankingEntry, 0, 4)
	for _, c := range entity.Categories() {
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(counts[c])/float64(total)*1000) / 10
		}
		percentages[c] = pct
		ranking = append(ranking, entity.RankingEntry{Profile: c, Percentage: pct, Count: counts[c]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Percentage > ranking[j].Percentage
	})

	comparison := make(map[entity.Category]entity.ComparisonEntry, 4)
	for _, c := range entity.Categories() {
		comparison[c] = entity.ComparisonEntry{
			UserPercentage: percentages[c],
			GeneralAverage: mockAverages[c],
		}
	}

	return &entity.ProfileAnalysisResult{
		Analysis: &entity.ProfileAnalysis{
			Percentages:    percentages,
			Ranking:        ranking,
			Classification: classify(ranking),
			Description:    "Perfil gerado localmente a partir das suas respostas.",
			BalanceScore:   balanceScore(percentages),
		},
		Recommendations: &entity.Recommendations{
			Strengths:         []string{"Autoconhecimento", "Consistência nas escolhas"},
			DevelopmentAreas:  []string{"Flexibilidade entre estilos"},
			CareerSuggestions: []string{"Gestão de projetos", "Consultoria"},
			ImprovementTips:   []string{"Peça feedback periódico ao seu time"},
		},
		Comparison: comparison,
	}
}

func classify(ranking []entity.RankingEntry) entity.Classification {
	if len(ranking) == 0 || ranking[0].Percentage == 0 {
		return entity.Classification{Type: entity.ClassificationIndefinido}
	}

	primary := ranking[0]
	cls := entity.Classification{Primary: primary.Profile}
	switch {
	case primary.Percentage >= 50:
		cls.Type = entity.ClassificationDominante
	case primary.Percentage-ranking[len(ranking)-1].Percentage <= 10:
		cls.Type = entity.ClassificationEquilibrado
	default:
		cls.Type = entity.ClassificationHibrido
		secondary := ranking[1].Profile
		cls.Secondary = &secondary
	}
	return cls
}

// balanceScore is 100 for an even spread and 0 when one category holds everything
func balanceScore(percentages map[entity.Category]float64) float64 {
	const even = 25.0
	var deviation float64
	for _, c := range entity.Categories() {
		deviation += math.Abs(percentages[c] - even)
	}
	// maximum deviation is 75 + 3*25
	return math.Round((1-deviation/150)*1000) / 10
}
