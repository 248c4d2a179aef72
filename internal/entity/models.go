package entity

import (
	"fmt"
	"time"
)

// Category is one of the four behavioral profiles an answer option maps to
type Category string

const (
	CategoryExecutor    Category = "executor"
	CategoryPlanejador  Category = "planejador"
	CategoryAnalista    Category = "analista"
	CategoryComunicador Category = "comunicador"
)

// Categories returns the profile categories in canonical order
func Categories() []Category {
	return []Category{
		CategoryExecutor,
		CategoryPlanejador,
		CategoryAnalista,
		CategoryComunicador,
	}
}

func (c Category) Validate() error {
	switch c {
	case CategoryExecutor, CategoryPlanejador, CategoryAnalista, CategoryComunicador:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCategory, string(c))
	}
}

// DisplayName returns the label shown to candidates
func (c Category) DisplayName() string {
	switch c {
	case CategoryExecutor:
		return "Executor"
	case CategoryPlanejador:
		return "Planejador"
	case CategoryAnalista:
		return "Analista"
	case CategoryComunicador:
		return "Comunicador"
	default:
		return string(c)
	}
}

// Question is immutable once fetched from the question provider
type Question struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// AnswerOption is a labeled choice tagged with a profile category
type AnswerOption struct {
	Value Category `json:"value"`
	Label string   `json:"label"`
}

// AnswerMap maps question id to the selected option's category
type AnswerMap map[int]Category

// Clone returns an independent copy of the map
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SubmissionAnswer is a single entry of the submission wire format
type SubmissionAnswer struct {
	QuestionID   int    `json:"id_question"`
	AnswerOption string `json:"answer_option"`
}

// SubmissionPayload is the request body expected by the scoring service
type SubmissionPayload struct {
	Answers []SubmissionAnswer `json:"answers"`
}

// ClassificationType is the server-computed profile shape
type ClassificationType string

const (
	ClassificationDominante   ClassificationType = "Dominante"
	ClassificationHibrido     ClassificationType = "Híbrido"
	ClassificationEquilibrado ClassificationType = "Equilibrado"
	ClassificationIndefinido  ClassificationType = "Indefinido"
)

type RankingEntry struct {
	Profile    Category `json:"profile"`
	Percentage float64  `json:"percentage"`
	Count      int      `json:"count"`
}

type Classification struct {
	Type      ClassificationType `json:"type"`
	Primary   Category           `json:"primary"`
	Secondary *Category          `json:"secondary,omitempty"`
	Tertiary  *Category          `json:"tertiary,omitempty"`
}

// ProfileAnalysis is computed entirely server-side
type ProfileAnalysis struct {
	Percentages    map[Category]float64 `json:"percentages"`
	Ranking        []RankingEntry       `json:"ranking"`
	Classification Classification       `json:"classification"`
	Description    string               `json:"description"`
	BalanceScore   float64              `json:"balance_score"`
}

type Recommendations struct {
	Strengths         []string `json:"strengths"`
	DevelopmentAreas  []string `json:"development_areas"`
	CareerSuggestions []string `json:"career_suggestions"`
	ImprovementTips   []string `json:"improvement_tips"`
}

type ComparisonEntry struct {
	UserPercentage float64 `json:"user_percentage"`
	GeneralAverage float64 `json:"general_average"`
}

// ProfileAnalysisResult is the profile result provider response
type ProfileAnalysisResult struct {
	Analysis        *ProfileAnalysis             `json:"analysis"`
	Recommendations *Recommendations             `json:"recommendations"`
	Comparison      map[Category]ComparisonEntry `json:"comparison"`
}

// Submission is a journal row written after a successful submit
type Submission struct {
	ID          string            `json:"id"`
	SessionID   string            `json:"session_id"`
	AnswerCount int               `json:"answer_count"`
	Payload     SubmissionPayload `json:"payload"`
	SubmittedAt time.Time         `json:"submitted_at"`
}
