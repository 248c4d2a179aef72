package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/behavior-profile/internal/results"
)

// ProfileDocument lays out the result view as an exportable report
func ProfileDocument(view *results.ProfileView) *Document {
	doc := &Document{Title: baseTitle}

	summary := Section{Heading: "Resumo"}
	summary.Paragraphs = append(summary.Paragraphs, classificationLine(view.Classification))
	if view.Description != "" {
		summary.Paragraphs = append(summary.Paragraphs, view.Description)
	}
	summary.Paragraphs = append(summary.Paragraphs, fmt.Sprintf("Índice de equilíbrio: %d/100", view.BalanceScore))
	doc.Sections = append(doc.Sections, summary)

	distribution := Section{Heading: "Distribuição do perfil"}
	for _, s := range view.Distribution {
		distribution.Items = append(distribution.Items, fmt.Sprintf("%s: %d%%", s.Name, s.Value))
	}
	doc.Sections = append(doc.Sections, distribution)

	if len(view.Comparison) > 0 {
		comparison := Section{Heading: "Comparação com a média geral"}
		for _, row := range view.Comparison {
			comparison.Items = append(comparison.Items, fmt.Sprintf("%s: você %d%%, média %d%% (%s)",
				row.Name, row.User, row.Average, signed(row.Difference)))
		}
		doc.Sections = append(doc.Sections, comparison)
	}

	for _, tab := range view.Recommendations {
		if len(tab.Badges) == 0 {
			continue
		}
		doc.Sections = append(doc.Sections, Section{Heading: tab.Title, Items: tab.Badges})
	}

	return doc
}

func classificationLine(c results.ClassificationView) string {
	names := []string{c.Primary}
	if c.Secondary != "" {
		names = append(names, c.Secondary)
	}
	if c.Tertiary != "" {
		names = append(names, c.Tertiary)
	}
	if c.Primary == "" {
		return fmt.Sprintf("Classificação: %s", c.Type)
	}
	return fmt.Sprintf("Classificação: %s (%s)", c.Type, strings.Join(names, ", "))
}

func signed(v int) string {
	if v > 0 {
		return fmt.Sprintf("+%d", v)
	}
	return fmt.Sprintf("%d", v)
}
