package models

import (
	"encoding/json"
	"fmt"
	"time"

	"teamsort/internal/domain"
	id "teamsort/pkg/domain"
)

// The two fixed keys the finalized result is written under.
const (
	KeyGroups = "finalized_groups"
	KeyRoster = "finalized_roster"
)

// Snapshot is the finalized roster and partition handed to persistence.
type Snapshot struct {
	SessionID   id.SessionID      `json:"session_id"`
	Groups      domain.Partition  `json:"groups"`
	Roster      []domain.Identity `json:"roster"`
	FinalizedAt time.Time         `json:"finalized_at"`
}

// Encode serializes the snapshot into its two key-value entries.
func (s *Snapshot) Encode() (groups []byte, roster []byte, err error) {
	groups, err = json.Marshal(s.Groups)
	if err != nil {
		return nil, nil, fmt.Errorf("encode groups: %w", err)
	}
	roster, err = json.Marshal(s.Roster)
	if err != nil {
		return nil, nil, fmt.Errorf("encode roster: %w", err)
	}
	return groups, roster, nil
}

// DecodeSnapshot rebuilds a snapshot from its two stored entries.
func DecodeSnapshot(groups, roster []byte) (*Snapshot, error) {
	snap := &Snapshot{}
	if err := json.Unmarshal(groups, &snap.Groups); err != nil {
		return nil, fmt.Errorf("decode groups: %w", err)
	}
	if err := json.Unmarshal(roster, &snap.Roster); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return snap, nil
}
