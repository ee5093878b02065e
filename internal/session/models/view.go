package models

import (
	"time"

	"teamsort/internal/domain"
)

// View is the read-only picture handed to the presentation layer. Every
// slice in it is a copy.
type View struct {
	SessionID   string            `json:"session_id"`
	Step        Step              `json:"step"`
	Intents     []Intent          `json:"intents"`
	Roster      []domain.Identity `json:"roster"`
	Groups      domain.Partition  `json:"groups"`
	Finalized   bool              `json:"finalized"`
	FinalizedAt *time.Time        `json:"finalized_at,omitempty"`
	Draft       *domain.Draft     `json:"draft,omitempty"`
	Question    *QuestionView     `json:"question,omitempty"`
	Pending     *PendingView      `json:"pending,omitempty"`
}

// QuestionView describes the question awaiting an answer. The axis is not
// exposed to the respondent.
type QuestionView struct {
	ID     int    `json:"id"`
	Number int    `json:"number"`
	Total  int    `json:"total"`
	Prompt string `json:"prompt"`
}

// PendingView is the scored individual waiting for the reveal.
type PendingView struct {
	Identity  domain.Identity `json:"identity"`
	Narration []string        `json:"narration"`
	RevealAt  *time.Time      `json:"reveal_at,omitempty"`
}

// DashboardStats summarizes the roster for the operator dashboard.
type DashboardStats struct {
	RosterSize        int                `json:"roster_size"`
	GroupCount        int                `json:"group_count"`
	Finalized         bool               `json:"finalized"`
	CanFinalize       bool               `json:"can_finalize"`
	TraitDistribution domain.TraitCounts `json:"trait_distribution"`
	Groups            []GroupStats       `json:"groups"`
}

// GroupStats is one group's size and trait mix.
type GroupStats struct {
	ID       domain.GroupID     `json:"id"`
	Name     string             `json:"name"`
	Size     int                `json:"size"`
	TraitMix domain.TraitCounts `json:"trait_mix"`
}
