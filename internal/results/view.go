package results

import (
	"fmt"
	"math"
	"sort"

	"github.com/futig/behavior-profile/internal/entity"
)

var categoryColors = map[entity.Category]string{
	entity.CategoryExecutor:    "#ef4444",
	entity.CategoryPlanejador:  "#3b82f6",
	entity.CategoryAnalista:    "#10b981",
	entity.CategoryComunicador: "#f59e0b",
}

// Recommendation tab keys
const (
	TabStrengths         = "strengths"
	TabDevelopmentAreas  = "development_areas"
	TabCareerSuggestions = "career_suggestions"
	TabImprovementTips   = "improvement_tips"
)

// Slice is one category of the distribution chart
type Slice struct {
	Category entity.Category `json:"category"`
	Name     string          `json:"name"`
	Value    int             `json:"value"`
	Color    string          `json:"color"`
}

// ComparisonRow compares the user against the general average
type ComparisonRow struct {
	Category   entity.Category `json:"category"`
	Name       string          `json:"name"`
	User       int             `json:"user"`
	Average    int             `json:"average"`
	Difference int             `json:"difference"`
}

type RecommendationTab struct {
	Key    string   `json:"key"`
	Title  string   `json:"title"`
	Badges []string `json:"badges"`
}

type ClassificationView struct {
	Type           entity.ClassificationType `json:"type"`
	Primary        string                    `json:"primary"`
	Secondary      string                    `json:"secondary,omitempty"`
	Tertiary       string                    `json:"tertiary,omitempty"`
	PrimaryColor   string                    `json:"primary_color"`
	SecondaryColor string                    `json:"secondary_color,omitempty"`
}

// ProfileView is everything the result screen renders
type ProfileView struct {
	Classification  ClassificationView  `json:"classification"`
	Description     string              `json:"description"`
	BalanceScore    int                 `json:"balance_score"`
	Distribution    []Slice             `json:"distribution"`
	Comparison      []ComparisonRow     `json:"comparison"`
	Recommendations []RecommendationTab `json:"recommendations"`
}

// Build derives the result view. An absent analysis or incomplete percentages
// is a shape mismatch; missing comparison or recommendations yield empty sections.
func Build(result *entity.ProfileAnalysisResult) (*ProfileView, error) {
	if result == nil || result.Analysis == nil {
		return nil, fmt.Errorf("%w: analysis is missing", entity.ErrResultShapeMismatch)
	}
	analysis := result.Analysis

	if err := validatePercentages(analysis.Percentages); err != nil {
		return nil, err
	}
	if !isPercentage(analysis.BalanceScore) {
		return nil, fmt.Errorf("%w: balance score %v", entity.ErrResultShapeMismatch, analysis.BalanceScore)
	}

	view := &ProfileView{
		Classification:  buildClassification(analysis.Classification),
		Description:     analysis.Description,
		BalanceScore:    round(analysis.BalanceScore),
		Distribution:    buildDistribution(analysis.Percentages),
		Comparison:      buildComparison(result.Comparison),
		Recommendations: buildRecommendations(result.Recommendations),
	}

	return view, nil
}

func validatePercentages(percentages map[entity.Category]float64) error {
	if percentages == nil {
		return fmt.Errorf("%w: percentages are missing", entity.ErrResultShapeMismatch)
	}
	for _, c := range entity.Categories() {
		value, ok := percentages[c]
		if !ok {
			return fmt.Errorf("%w: percentage for %s is missing", entity.ErrResultShapeMismatch, c)
		}
		if !isPercentage(value) {
			return fmt.Errorf("%w: percentage for %s is %v", entity.ErrResultShapeMismatch, c, value)
		}
	}
	return nil
}

func isPercentage(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}

func round(v float64) int {
	return int(math.Round(v))
}

// Color returns the chart color of a category
func Color(c entity.Category) string {
	return categoryColors[c]
}

func buildDistribution(percentages map[entity.Category]float64) []Slice {
	categories := entity.Categories()
	sort.SliceStable(categories, func(i, j int) bool {
		return percentages[categories[i]] > percentages[categories[j]]
	})

	slices := make([]Slice, 0, len(categories))
	for _, c := range categories {
		slices = append(slices, Slice{
			Category: c,
			Name:     c.DisplayName(),
			Value:    round(percentages[c]),
			Color:    Color(c),
		})
	}
	return slices
}

func buildComparison(comparison map[entity.Category]entity.ComparisonEntry) []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(comparison))
	for _, c := range entity.Categories() {
		entry, ok := comparison[c]
		if !ok {
			continue
		}
		user := round(entry.UserPercentage)
		average := round(entry.GeneralAverage)
		rows = append(rows, ComparisonRow{
			Category:   c,
			Name:       c.DisplayName(),
			User:       user,
			Average:    average,
			Difference: user - average,
		})
	}
	return rows
}

func buildRecommendations(rec *entity.Recommendations) []RecommendationTab {
	if rec == nil {
		rec = &entity.Recommendations{}
	}
	return []RecommendationTab{
		{Key: TabStrengths, Title: "Pontos Fortes", Badges: badges(rec.Strengths)},
		{Key: TabDevelopmentAreas, Title: "Áreas de Desenvolvimento", Badges: badges(rec.DevelopmentAreas)},
		{Key: TabCareerSuggestions, Title: "Sugestões de Carreira", Badges: badges(rec.CareerSuggestions)},
		{Key: TabImprovementTips, Title: "Dicas de Melhoria", Badges: badges(rec.ImprovementTips)},
	}
}

func badges(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func buildClassification(c entity.Classification) ClassificationView {
	view := ClassificationView{
		Type:         c.Type,
		Primary:      c.Primary.DisplayName(),
		PrimaryColor: Color(c.Primary),
	}
	if c.Secondary != nil {
		view.Secondary = c.Secondary.DisplayName()
		view.SecondaryColor = Color(*c.Secondary)
	}
	if c.Tertiary != nil {
		view.Tertiary = c.Tertiary.DisplayName()
	}
	return view
}

// Tab returns the recommendation tab with the given key
func (v *ProfileView) Tab(key string) (RecommendationTab, bool) {
	for _, tab := range v.Recommendations {
		if tab.Key == key {
			return tab, true
		}
	}
	return RecommendationTab{}, false
}
