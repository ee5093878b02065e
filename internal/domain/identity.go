package domain

import (
	id "teamsort/pkg/domain"
	dErrors "teamsort/pkg/domain-errors"
)

// Identity is one assessed individual. Once appended to a roster it is never
// mutated; components that hold one hold a copy.
type Identity struct {
	ID                id.IdentityID `json:"id"`
	Name              string        `json:"name"`
	PrimaryCategory   Category      `json:"primary_category"`
	SecondaryCategory Category      `json:"secondary_category"`
	Trait             Trait         `json:"trait"`
	Scores            Scores        `json:"scores"`
}

// Draft is the in-flight record built during intake, before scoring.
type Draft struct {
	Name              string   `json:"name"`
	PrimaryCategory   Category `json:"primary_category"`
	SecondaryCategory Category `json:"secondary_category"`
}

// NewIdentity completes a draft with its scoring outcome. The trait must be
// the dominant axis of scores.
func NewIdentity(draft Draft, trait Trait, scores Scores) (Identity, error) {
	if draft.Name == "" {
		return Identity{}, dErrors.New(dErrors.CodeInvariantViolation, "identity name cannot be empty")
	}
	if !draft.PrimaryCategory.IsValid() || !draft.SecondaryCategory.IsValid() {
		return Identity{}, dErrors.New(dErrors.CodeInvariantViolation, "identity categories must be set")
	}
	if !trait.IsValid() {
		return Identity{}, dErrors.New(dErrors.CodeInvariantViolation, "identity trait must be set")
	}
	if trait != scores.Dominant() {
		return Identity{}, dErrors.New(dErrors.CodeInvariantViolation, "identity trait must match dominant score")
	}
	return Identity{
		ID:                id.NewIdentityID(),
		Name:              draft.Name,
		PrimaryCategory:   draft.PrimaryCategory,
		SecondaryCategory: draft.SecondaryCategory,
		Trait:             trait,
		Scores:            scores,
	}, nil
}

// CloneRoster copies a roster slice so callers cannot alias session state.
func CloneRoster(roster []Identity) []Identity {
	if roster == nil {
		return nil
	}
	out := make([]Identity, len(roster))
	copy(out, roster)
	return out
}
