package audit

import (
	"context"
	"time"

	id "teamsort/pkg/domain"
)

// Action names a recorded session event.
type Action string

const (
	ActionIntakeSubmitted    Action = "intake_submitted"
	ActionIndividualScored   Action = "individual_scored"
	ActionRosterPartitioned  Action = "roster_partitioned"
	ActionSessionFinalized   Action = "session_finalized"
	ActionFinalizeFailed     Action = "finalize_failed"
	ActionTransitionRejected Action = "transition_rejected"
	ActionSessionAbandoned   Action = "session_abandoned"
)

// Event is emitted from the session service to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp  time.Time     `json:"timestamp"`
	SessionID  id.SessionID  `json:"session_id"`
	Action     Action        `json:"action"`
	IdentityID id.IdentityID `json:"identity_id,omitzero"`
	Step       string        `json:"step,omitempty"`
	Intent     string        `json:"intent,omitempty"`
	Trait      string        `json:"trait,omitempty"`
	RosterSize int           `json:"roster_size,omitempty"`
	Reason     string        `json:"reason,omitempty"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
