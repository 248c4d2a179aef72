// Package catalog holds the static answer options of the behavioral profile questionnaire.
package catalog

import (
	"fmt"

	"github.com/futig/behavior-profile/internal/entity"
)

// Catalog is an immutable lookup table from question id to its answer options
type Catalog struct {
	options map[int][]entity.AnswerOption
}

// New builds a catalog from the given table. The table is copied.
func New(table map[int][]entity.AnswerOption) *Catalog {
	options := make(map[int][]entity.AnswerOption, len(table))
	for id, opts := range table {
		options[id] = append([]entity.AnswerOption(nil), opts...)
	}
	return &Catalog{options: options}
}

// Default returns the catalog shipped with the questionnaire
func Default() *Catalog {
	return New(defaultOptions)
}

// Lookup returns the options for a question. A miss returns an empty, non-nil
// slice and false so callers can render a "no options available" state.
func (c *Catalog) Lookup(questionID int) ([]entity.AnswerOption, bool) {
	opts, ok := c.options[questionID]
	if !ok || len(opts) == 0 {
		return []entity.AnswerOption{}, false
	}
	return append([]entity.AnswerOption(nil), opts...), true
}

// Has reports whether the catalog has options for the question
func (c *Catalog) Has(questionID int) bool {
	_, ok := c.Lookup(questionID)
	return ok
}

// Len returns the number of questions covered by the catalog
func (c *Catalog) Len() int {
	return len(c.options)
}

// Validate checks that every entry exposes exactly one option per category
func (c *Catalog) Validate() error {
	for id, opts := range c.options {
		if err := validateEntry(opts); err != nil {
			return fmt.Errorf("question %d: %w", id, err)
		}
	}
	return nil
}

func validateEntry(opts []entity.AnswerOption) error {
	categories := entity.Categories()
	if len(opts) != len(categories) {
		return fmt.Errorf("expected %d options, got %d", len(categories), len(opts))
	}

	seen := make(map[entity.Category]bool, len(opts))
	for _, opt := range opts {
		if err := opt.Value.Validate(); err != nil {
			return err
		}
		if seen[opt.Value] {
			return fmt.Errorf("duplicate option for category %q", opt.Value)
		}
		if opt.Label == "" {
			return fmt.Errorf("empty label for category %q", opt.Value)
		}
		seen[opt.Value] = true
	}

	return nil
}
