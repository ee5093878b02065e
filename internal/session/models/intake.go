package models

import (
	"strings"

	"teamsort/internal/domain"
	dErrors "teamsort/pkg/domain-errors"
)

// IntakeInput is the raw intake form as entered by the respondent.
type IntakeInput struct {
	Name              string
	PrimaryCategory   string
	SecondaryCategory string
}

// Draft validates the form and returns the normalized draft. Every failure
// is a CodeValidation error.
func (in IntakeInput) Draft() (domain.Draft, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Draft{}, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	primary, err := domain.ParseCategory(strings.TrimSpace(in.PrimaryCategory))
	if err != nil {
		return domain.Draft{}, dErrors.Wrap(err, dErrors.CodeValidation, "primary category is required")
	}
	secondary, err := domain.ParseCategory(strings.TrimSpace(in.SecondaryCategory))
	if err != nil {
		return domain.Draft{}, dErrors.Wrap(err, dErrors.CodeValidation, "secondary category is required")
	}
	return domain.Draft{
		Name:              name,
		PrimaryCategory:   primary,
		SecondaryCategory: secondary,
	}, nil
}
