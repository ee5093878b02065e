package handler

import (
	"teamsort/internal/assessment"
	"teamsort/internal/domain"
)

// QuestionsResponse lists the question bank for renderers that preload it.
type QuestionsResponse struct {
	Total     int                `json:"total"`
	MinWeight int                `json:"min_weight"`
	MaxWeight int                `json:"max_weight"`
	Questions []QuestionResponse `json:"questions"`
}

type QuestionResponse struct {
	ID     int    `json:"id"`
	Prompt string `json:"prompt"`
}

// CategoriesResponse lists the selectable intake categories.
type CategoriesResponse struct {
	Categories []domain.CategoryOption `json:"categories"`
}

func FromBank(bank assessment.Bank) *QuestionsResponse {
	questions := make([]QuestionResponse, 0, bank.Len())
	for _, q := range bank.Questions {
		questions = append(questions, QuestionResponse{ID: q.ID, Prompt: q.Prompt})
	}
	return &QuestionsResponse{
		Total:     bank.Len(),
		MinWeight: assessment.MinWeight,
		MaxWeight: assessment.MaxWeight,
		Questions: questions,
	}
}
