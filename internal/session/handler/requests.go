package handler

import (
	"strings"

	"teamsort/internal/assessment"
	"teamsort/internal/session/models"
	dErrors "teamsort/pkg/domain-errors"
)

// IntakeRequest is the HTTP request body for POST /session/intake.
type IntakeRequest struct {
	Name              string `json:"name"`
	PrimaryCategory   string `json:"primary_category"`
	SecondaryCategory string `json:"secondary_category"`
}

func (r *IntakeRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.PrimaryCategory = strings.ToLower(strings.TrimSpace(r.PrimaryCategory))
	r.SecondaryCategory = strings.ToLower(strings.TrimSpace(r.SecondaryCategory))
}

// Validate only bounds sizes; field rules live in the session so a bad form
// leaves the session in intake.
func (r *IntakeRequest) Validate() error {
	if len(r.Name) > 100 {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 100 characters")
	}
	return nil
}

func (r *IntakeRequest) Input() models.IntakeInput {
	return models.IntakeInput{
		Name:              r.Name,
		PrimaryCategory:   r.PrimaryCategory,
		SecondaryCategory: r.SecondaryCategory,
	}
}

// AnswerRequest is the HTTP request body for POST /session/answers.
type AnswerRequest struct {
	Weight *int `json:"weight"`
}

func (r *AnswerRequest) Normalize() {}

func (r *AnswerRequest) Validate() error {
	if r.Weight == nil {
		return dErrors.New(dErrors.CodeValidation, "weight is required")
	}
	return assessment.ValidateWeight(*r.Weight)
}
