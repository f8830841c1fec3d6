package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxVoterIDLength bounds the voter identity accepted from a client. Stores
// may size their session column to it.
const MaxVoterIDLength = 64

// Vote is one persisted choice of a voter for a category.
type Vote struct {
	ID         uuid.UUID `json:"id"`
	SessionID  string    `json:"session_id"`
	CategoryID string    `json:"category_id"`
	NomineeID  string    `json:"nominee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// VoteFilter narrows a select on the vote table. Zero values match everything.
type VoteFilter struct {
	SessionID  string
	CategoryID string
	NomineeID  string
	Limit      int
}

// Matches reports whether the vote satisfies every non-empty field of the filter.
func (f VoteFilter) Matches(v Vote) bool {
	if f.SessionID != "" && v.SessionID != f.SessionID {
		return false
	}
	if f.CategoryID != "" && v.CategoryID != f.CategoryID {
		return false
	}
	if f.NomineeID != "" && v.NomineeID != f.NomineeID {
		return false
	}
	return true
}

type Eligibility struct {
	CanVote bool `json:"can_vote"`
}

type SubmitResult struct {
	SessionID string `json:"session_id"`
	Votes     []Vote `json:"votes"`
}
