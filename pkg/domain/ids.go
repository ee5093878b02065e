// Package domain holds typed identifiers shared across modules. Typed IDs keep
// an identity id from being passed where a session id is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "teamsort/pkg/domain-errors"
)

// IdentityID identifies one assessed individual.
type IdentityID uuid.UUID

// SessionID identifies one evaluator session.
type SessionID uuid.UUID

// NewIdentityID returns a random identity id.
func NewIdentityID() IdentityID { return IdentityID(uuid.New()) }

// NewSessionID returns a random session id.
func NewSessionID() SessionID { return SessionID(uuid.New()) }

// ParseIdentityID validates s as a non-nil UUID.
func ParseIdentityID(s string) (IdentityID, error) {
	u, err := parseUUID(s, "identity")
	return IdentityID(u), err
}

// ParseSessionID validates s as a non-nil UUID.
func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s, "session")
	return SessionID(u), err
}

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id must not be nil")
	}
	return u, nil
}

func (id IdentityID) String() string { return uuid.UUID(id).String() }
func (id IdentityID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id IdentityID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *IdentityID) UnmarshalText(b []byte) error {
	parsed, err := ParseIdentityID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id SessionID) String() string { return uuid.UUID(id).String() }
func (id SessionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id SessionID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *SessionID) UnmarshalText(b []byte) error {
	parsed, err := ParseSessionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
