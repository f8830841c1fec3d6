// Package ballot holds the per-voter voting flow as an explicit state machine.
//
// A State walks through the catalog one category at a time. Reduce applies a
// named Action and returns the next State; it never mutates its input, so a
// caller can keep the previous state when a transition is rejected.
//
//	intro --START--> voting --NEXT (last)--> summary --SUBMIT--> submitting
//	                   ^  \--PREV--/            |                    |
//	                   \-------PREV------------/       SUBMIT_SUCCEEDED / ALREADY_VOTED
//	                                                                 v
//	                                                              voted
package ballot

import (
	"fmt"
	"maps"

	"github.com/vncsmyrnk/awardvote/internal/core/domain"
)

type Phase string

const (
	PhaseIntro   Phase = "intro"
	PhaseVoting  Phase = "voting"
	PhaseSummary Phase = "summary"
	PhaseVoted   Phase = "voted"
)

type ActionType string

const (
	ActionStart           ActionType = "START"
	ActionSelect          ActionType = "SELECT"
	ActionNext            ActionType = "NEXT"
	ActionPrev            ActionType = "PREV"
	ActionSubmit          ActionType = "SUBMIT"
	ActionRestart         ActionType = "RESTART"
	ActionSubmitSucceeded ActionType = "SUBMIT_SUCCEEDED"
	ActionSubmitFailed    ActionType = "SUBMIT_FAILED"
	ActionAlreadyVoted    ActionType = "ALREADY_VOTED"
	ActionEligibility     ActionType = "ELIGIBILITY"
)

type Notice string

const (
	NoticeNone             Notice = ""
	NoticeSubmitted        Notice = "submitted"
	NoticeAlreadyVoted     Notice = "already_voted"
	NoticeSubmitFailed     Notice = "submit_failed"
	NoticeStoreUnavailable Notice = "store_unavailable"
)

type Action struct {
	Type       ActionType `json:"type"`
	CategoryID string     `json:"category_id,omitempty"`
	NomineeID  string     `json:"nominee_id,omitempty"`
	CanVote    bool       `json:"can_vote,omitempty"`
	Notice     Notice     `json:"notice,omitempty"`
}

func Start() Action   { return Action{Type: ActionStart} }
func Next() Action    { return Action{Type: ActionNext} }
func Prev() Action    { return Action{Type: ActionPrev} }
func Submit() Action  { return Action{Type: ActionSubmit} }
func Restart() Action { return Action{Type: ActionRestart} }

func Select(categoryID, nomineeID string) Action {
	return Action{Type: ActionSelect, CategoryID: categoryID, NomineeID: nomineeID}
}

func Eligibility(canVote bool) Action {
	return Action{Type: ActionEligibility, CanVote: canVote}
}

type State struct {
	Phase      Phase             `json:"phase"`
	Index      int               `json:"index"`
	Votes      map[string]string `json:"votes"`
	CanVote    bool              `json:"can_vote"`
	Submitting bool              `json:"submitting"`
	Notice     Notice            `json:"notice,omitempty"`
}

// New returns the intro state. Voters are assumed eligible until an
// ELIGIBILITY action says otherwise.
func New() State {
	return State{Phase: PhaseIntro, Votes: map[string]string{}, CanVote: true}
}

// Reduce applies action to s over the given ordered categories.
func Reduce(categories []domain.Category, s State, action Action) (State, error) {
	next := s
	next.Votes = maps.Clone(s.Votes)
	if next.Votes == nil {
		next.Votes = map[string]string{}
	}

	switch action.Type {
	case ActionEligibility:
		next.CanVote = action.CanVote
		if !action.CanVote {
			next.Phase = PhaseVoted
			next.Index = 0
			next.Votes = map[string]string{}
		}
		return next, nil

	case ActionStart:
		if s.Phase != PhaseIntro || !s.CanVote || len(categories) == 0 {
			return s, invalid(action, s)
		}
		next.Phase = PhaseVoting
		next.Index = 0
		next.Notice = NoticeNone
		return next, nil

	case ActionSelect:
		current, ok := currentCategory(categories, s)
		if !ok {
			return s, invalid(action, s)
		}
		if action.CategoryID != current.ID {
			return s, fmt.Errorf("%w: category %q is not the current one", domain.ErrInvalidSelection, action.CategoryID)
		}
		if _, ok := current.Nominee(action.NomineeID); !ok {
			return s, fmt.Errorf("%w: nominee %q", domain.ErrInvalidSelection, action.NomineeID)
		}
		next.Votes[current.ID] = action.NomineeID
		return next, nil

	case ActionNext:
		current, ok := currentCategory(categories, s)
		if !ok {
			return s, invalid(action, s)
		}
		if _, ok := s.Votes[current.ID]; !ok {
			return s, fmt.Errorf("%w: select a nominee first", domain.ErrInvalidSelection)
		}
		if s.Index < len(categories)-1 {
			next.Index++
		} else {
			next.Phase = PhaseSummary
		}
		return next, nil

	case ActionPrev:
		switch s.Phase {
		case PhaseVoting:
			if s.Index > 0 {
				next.Index--
			}
			return next, nil
		case PhaseSummary:
			if s.Submitting {
				return s, invalid(action, s)
			}
			next.Phase = PhaseVoting
			next.Index = len(categories) - 1
			return next, nil
		}
		return s, invalid(action, s)

	case ActionSubmit:
		if s.Submitting {
			return s, domain.ErrSubmissionInFlight
		}
		if s.Phase != PhaseSummary {
			return s, invalid(action, s)
		}
		if len(s.Votes) == 0 {
			return s, domain.ErrNoVotes
		}
		next.Submitting = true
		next.Notice = NoticeNone
		return next, nil

	case ActionSubmitSucceeded:
		if !s.Submitting {
			return s, invalid(action, s)
		}
		next = restarted(next)
		next.Phase = PhaseVoted
		next.CanVote = false
		next.Notice = NoticeSubmitted
		return next, nil

	case ActionAlreadyVoted:
		next = restarted(next)
		next.Phase = PhaseVoted
		next.CanVote = false
		next.Notice = NoticeAlreadyVoted
		return next, nil

	case ActionSubmitFailed:
		if !s.Submitting {
			return s, invalid(action, s)
		}
		// Selections survive so the voter can retry.
		next.Submitting = false
		next.Notice = action.Notice
		if next.Notice == NoticeNone {
			next.Notice = NoticeSubmitFailed
		}
		return next, nil

	case ActionRestart:
		if s.Submitting {
			return s, domain.ErrSubmissionInFlight
		}
		if s.Phase == PhaseVoted {
			return s, invalid(action, s)
		}
		return restarted(next), nil
	}

	return s, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidTransition, action.Type)
}

func currentCategory(categories []domain.Category, s State) (domain.Category, bool) {
	if s.Phase != PhaseVoting || s.Index < 0 || s.Index >= len(categories) {
		return domain.Category{}, false
	}
	return categories[s.Index], true
}

func restarted(s State) State {
	s.Phase = PhaseIntro
	s.Index = 0
	s.Votes = map[string]string{}
	s.Submitting = false
	s.Notice = NoticeNone
	return s
}

func invalid(action Action, s State) error {
	return fmt.Errorf("%w: %s during %s", domain.ErrInvalidTransition, action.Type, s.Phase)
}
