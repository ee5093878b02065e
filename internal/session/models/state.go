package models

import (
	"time"

	"teamsort/internal/domain"
	id "teamsort/pkg/domain"
	dErrors "teamsort/pkg/domain-errors"
)

// State is the full in-memory session. Only the session service mutates it.
//
// Invariants:
//   - Roster is in intake order and each identity appears once
//   - Partition covers Roster exactly (rebuilt on every roster change until
//     Finalized)
//   - Draft is set only in intake, assessment and distributing
//   - Pending is set only in distributing
//   - Finalized never reverts to false
type State struct {
	SessionID   id.SessionID
	Step        Step
	Roster      []domain.Identity
	Partition   domain.Partition
	Finalized   bool
	FinalizedAt *time.Time
	Draft       *domain.Draft
	Pending     *domain.Identity
	RevealAt    *time.Time
}

// NewState starts a session at the welcome step with an empty partition of
// groupCount groups.
func NewState(sessionID id.SessionID, groupCount int) *State {
	return &State{
		SessionID: sessionID,
		Step:      StepWelcome,
		Roster:    []domain.Identity{},
		Partition: domain.NewEmptyPartition(groupCount),
	}
}

// CanFinalize checks the finalize guard: a non-empty roster that has not
// been finalized yet.
func (s *State) CanFinalize() error {
	if s.Finalized {
		return dErrors.New(dErrors.CodeConflict, "session is already finalized")
	}
	if len(s.Roster) == 0 {
		return dErrors.New(dErrors.CodeConflict, "cannot finalize an empty roster")
	}
	return nil
}

// ApplyFinalization freezes the session. Call CanFinalize first.
func (s *State) ApplyFinalization(now time.Time) {
	s.Finalized = true
	s.FinalizedAt = &now
}

// CanAcceptIntake rejects new individuals once the partition is frozen.
func (s *State) CanAcceptIntake() error {
	if s.Finalized {
		return dErrors.New(dErrors.CodeConflict, "session is finalized; no further individuals can be added")
	}
	return nil
}

// ApplyReveal appends the pending identity to the roster and installs the
// new partition.
func (s *State) ApplyReveal(partition domain.Partition) {
	if s.Pending != nil {
		s.Roster = append(s.Roster, *s.Pending)
	}
	s.Partition = partition
	s.Pending = nil
	s.Draft = nil
	s.RevealAt = nil
}

// ClearInFlight drops the draft and any identity awaiting reveal.
func (s *State) ClearInFlight() {
	s.Draft = nil
	s.Pending = nil
	s.RevealAt = nil
}

// Snapshot copies the finalized result for persistence.
func (s *State) Snapshot() *Snapshot {
	snap := &Snapshot{
		SessionID: s.SessionID,
		Groups:    s.Partition.Clone(),
		Roster:    domain.CloneRoster(s.Roster),
	}
	if s.FinalizedAt != nil {
		snap.FinalizedAt = *s.FinalizedAt
	}
	return snap
}
