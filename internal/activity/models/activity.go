package models

import (
	"slices"
	"strings"

	dErrors "mergington/pkg/domain-errors"
)

// Activity is the aggregate for one extracurricular offering.
//
// Invariants:
//   - Name is non-empty and serves as the unique registry key
//   - Participants contains each email at most once, in signup order
//   - MaxParticipants is informational only; rosters may exceed it
//
// The full set of activities is seeded at startup and never grows or shrinks
// at runtime; only Participants mutates.
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// NewActivity constructs an Activity, validating invariants.
func NewActivity(name, description, schedule string, maxParticipants int, participants []string) (*Activity, error) {
	if strings.TrimSpace(name) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "activity name is required")
	}
	if maxParticipants < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "max participants cannot be negative")
	}

	a := &Activity{
		Name:            name,
		Description:     description,
		Schedule:        schedule,
		MaxParticipants: maxParticipants,
	}
	for _, email := range participants {
		if a.HasParticipant(email) {
			return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "duplicate participant %s", email)
		}
		a.Participants = append(a.Participants, email)
	}
	return a, nil
}

// HasParticipant reports whether email is already on the roster.
func (a *Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// AddParticipant appends email to the roster. Callers check membership first;
// the duplicate guard here keeps the invariant even on misuse.
func (a *Activity) AddParticipant(email string) error {
	if a.HasParticipant(email) {
		return dErrors.New(dErrors.CodeInvariantViolation, "participant already on roster")
	}
	a.Participants = append(a.Participants, email)
	return nil
}

// RemoveParticipant deletes email from the roster, preserving order of the
// remaining entries. Returns false when email was not present.
func (a *Activity) RemoveParticipant(email string) bool {
	idx := slices.Index(a.Participants, email)
	if idx < 0 {
		return false
	}
	a.Participants = slices.Delete(a.Participants, idx, idx+1)
	return true
}

// Clone returns a deep copy so stores can hand out records without exposing
// their internal state to handlers.
func (a *Activity) Clone() *Activity {
	clone := *a
	clone.Participants = slices.Clone(a.Participants)
	return &clone
}
