package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/vncsmyrnk/awardvote/internal/core/ballot"
	"github.com/vncsmyrnk/awardvote/internal/core/domain"
	"github.com/vncsmyrnk/awardvote/internal/core/ports"
)

type ballotSession struct {
	state    ballot.State
	lastSeen time.Time
}

// ballotService keeps one in-memory voting flow per voter identity. Sessions
// are not persisted: a restart sends every voter back to the intro screen.
type ballotService struct {
	catalog ports.Catalog
	votes   ports.VoteService
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*ballotSession
}

func NewBallotService(catalog ports.Catalog, votes ports.VoteService, ttl time.Duration, logger *slog.Logger) ports.BallotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ballotService{
		catalog:  catalog,
		votes:    votes,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*ballotSession),
	}
}

// Get returns the voter's flow, running the eligibility check when the
// session is new.
func (s *ballotService) Get(ctx context.Context, identity string) (ballot.State, error) {
	if identity == "" {
		return ballot.State{}, domain.ErrMissingIdentity
	}

	s.mu.Lock()
	session, ok := s.session(identity)
	if ok {
		state := session.state
		s.mu.Unlock()
		return state, nil
	}
	s.mu.Unlock()

	eligibility := s.votes.CheckEligibility(ctx, identity)

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.session(identity); ok {
		return session.state, nil
	}
	state, _ := ballot.Reduce(s.catalog.Categories(), ballot.New(), ballot.Eligibility(eligibility.CanVote))
	s.sessions[identity] = &ballotSession{state: state, lastSeen: s.now()}
	return state, nil
}

// Dispatch applies action to the voter's flow. SUBMIT also runs the
// submission and folds its outcome back into the state.
func (s *ballotService) Dispatch(ctx context.Context, identity string, action ballot.Action) (ballot.State, error) {
	if _, err := s.Get(ctx, identity); err != nil {
		return ballot.State{}, err
	}

	switch action.Type {
	case ballot.ActionSelect, ballot.ActionNext, ballot.ActionPrev,
		ballot.ActionStart, ballot.ActionRestart, ballot.ActionSubmit:
	default:
		return s.current(identity), domain.ErrInvalidTransition
	}

	state, err := s.apply(identity, action)
	if err != nil || action.Type != ballot.ActionSubmit {
		return state, err
	}

	// The submitting flag is set under the lock, so a second SUBMIT for the
	// same identity is rejected until this one settles.
	result, submitErr := s.votes.Submit(ctx, identity, state.Votes)

	var outcome ballot.Action
	switch {
	case submitErr == nil:
		outcome = ballot.Action{Type: ballot.ActionSubmitSucceeded}
	case errors.Is(submitErr, domain.ErrAlreadyVoted):
		outcome = ballot.Action{Type: ballot.ActionAlreadyVoted}
	case errors.Is(submitErr, domain.ErrStoreUnavailable):
		outcome = ballot.Action{Type: ballot.ActionSubmitFailed, Notice: ballot.NoticeStoreUnavailable}
	default:
		outcome = ballot.Action{Type: ballot.ActionSubmitFailed}
	}

	state, err = s.apply(identity, outcome)
	if err != nil {
		return state, err
	}
	if result != nil {
		s.logger.InfoContext(ctx, "ballot submitted", "session_id", identity, "categories", len(result.Votes))
	}
	return state, submitErr
}

func (s *ballotService) apply(identity string, action ballot.Action) (ballot.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.session(identity)
	if !ok {
		session = &ballotSession{state: ballot.New()}
		s.sessions[identity] = session
	}
	next, err := ballot.Reduce(s.catalog.Categories(), session.state, action)
	if err != nil {
		return session.state, err
	}
	session.state = next
	session.lastSeen = s.now()
	return next, nil
}

func (s *ballotService) current(identity string) ballot.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.session(identity); ok {
		return session.state
	}
	return ballot.New()
}

// session looks up a live session and drops expired ones. Callers hold s.mu.
func (s *ballotService) session(identity string) (*ballotSession, bool) {
	s.evictExpired()
	session, ok := s.sessions[identity]
	return session, ok
}

func (s *ballotService) evictExpired() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, session := range s.sessions {
		// A session in the middle of a submit is never evicted.
		if session.lastSeen.Before(cutoff) && !session.state.Submitting {
			delete(s.sessions, id)
		}
	}
}
