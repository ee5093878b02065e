// Package assessment scores DISC questionnaires. It is a leaf: it holds no
// session state and never sees out-of-range weights.
package assessment

import "teamsort/internal/domain"

const (
	// MinWeight and MaxWeight bound every answer weight.
	MinWeight = 1
	MaxWeight = 5
)

// Question is one prompt tagged with the axis its weight feeds.
type Question struct {
	ID     int          `json:"id" yaml:"id"`
	Axis   domain.Trait `json:"axis" yaml:"axis"`
	Prompt string       `json:"prompt" yaml:"prompt"`
}

// Bank is the fixed ordered question list for every assessment run.
type Bank struct {
	Questions []Question `json:"questions" yaml:"questions"`
}

// Len is the number of answers an assessment needs.
func (b Bank) Len() int { return len(b.Questions) }

// At returns the question at position i.
func (b Bank) At(i int) (Question, bool) {
	if i < 0 || i >= len(b.Questions) {
		return Question{}, false
	}
	return b.Questions[i], true
}

// Answer is a single weighted response. It is consumed immediately by an
// Accumulator and not retained.
type Answer struct {
	QuestionID int
	Axis       domain.Trait
	Weight     int
}

// Result is the outcome of a completed assessment.
type Result struct {
	Trait  domain.Trait  `json:"trait"`
	Scores domain.Scores `json:"scores"`
}
