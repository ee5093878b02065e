package service

import (
	"teamsort/internal/domain"
	"teamsort/internal/session/models"
)

func (c *Controller) viewLocked() models.View {
	s := c.state
	view := models.View{
		SessionID: s.SessionID.String(),
		Step:      s.Step,
		Intents:   s.Step.Intents(),
		Roster:    domain.CloneRoster(s.Roster),
		Groups:    s.Partition.Clone(),
		Finalized: s.Finalized,
	}
	if s.FinalizedAt != nil {
		at := *s.FinalizedAt
		view.FinalizedAt = &at
	}
	if s.Draft != nil {
		draft := *s.Draft
		view.Draft = &draft
	}
	if s.Step == models.StepAssessment && c.acc != nil {
		if q, ok := c.acc.Current(); ok {
			view.Question = &models.QuestionView{
				ID:     q.ID,
				Number: c.acc.Answered() + 1,
				Total:  c.bank.Len(),
				Prompt: q.Prompt,
			}
		}
	}
	if s.Pending != nil {
		pending := &models.PendingView{
			Identity:  *s.Pending,
			Narration: models.Narration(*s.Pending),
		}
		if s.RevealAt != nil {
			at := *s.RevealAt
			pending.RevealAt = &at
		}
		view.Pending = pending
	}
	return view
}
