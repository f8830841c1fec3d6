package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/awardvote/internal/core/domain"
	"github.com/vncsmyrnk/awardvote/internal/core/ports"
)

type voteService struct {
	store  ports.VoteStore
	logger *slog.Logger
	now    func() time.Time
}

func NewVoteService(store ports.VoteStore, logger *slog.Logger) ports.VoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &voteService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// CheckEligibility fails open: when the store cannot be reached the voter is
// treated as eligible and the error is only logged. Submit re-checks and
// fails closed.
func (s *voteService) CheckEligibility(ctx context.Context, identity string) domain.Eligibility {
	if identity == "" {
		return domain.Eligibility{CanVote: true}
	}

	hasVoted, err := s.hasVoted(ctx, identity)
	if err != nil {
		s.logger.ErrorContext(ctx, "eligibility check failed, allowing vote", "session_id", identity, "error", err)
		return domain.Eligibility{CanVote: true}
	}
	return domain.Eligibility{CanVote: !hasVoted}
}

// Submit re-checks eligibility and inserts one row per category in a single
// bulk insert. The re-check and the insert are not atomic, so two concurrent
// submissions for the same identity can both succeed.
func (s *voteService) Submit(ctx context.Context, identity string, votes map[string]string) (*domain.SubmitResult, error) {
	if identity == "" {
		return nil, domain.ErrMissingIdentity
	}
	if len(votes) == 0 {
		return nil, domain.ErrNoVotes
	}

	hasVoted, err := s.hasVoted(ctx, identity)
	if err != nil {
		s.logger.ErrorContext(ctx, "submission re-check failed", "session_id", identity, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	if hasVoted {
		return nil, domain.ErrAlreadyVoted
	}

	rows := s.buildRows(identity, votes)
	if err := s.store.Insert(ctx, rows); err != nil {
		s.logger.ErrorContext(ctx, "failed to insert votes", "session_id", identity, "rows", len(rows), "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrSubmissionFailed, err)
	}

	s.logger.InfoContext(ctx, "votes submitted", "session_id", identity, "rows", len(rows))
	return &domain.SubmitResult{SessionID: identity, Votes: rows}, nil
}

func (s *voteService) hasVoted(ctx context.Context, identity string) (bool, error) {
	rows, err := s.store.Select(ctx, domain.VoteFilter{SessionID: identity, Limit: 1})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (s *voteService) buildRows(identity string, votes map[string]string) []domain.Vote {
	categoryIDs := make([]string, 0, len(votes))
	for categoryID := range votes {
		categoryIDs = append(categoryIDs, categoryID)
	}
	sort.Strings(categoryIDs)

	now := s.now().UTC()
	rows := make([]domain.Vote, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		rows = append(rows, domain.Vote{
			ID:         uuid.New(),
			SessionID:  identity,
			CategoryID: categoryID,
			NomineeID:  votes[categoryID],
			CreatedAt:  now,
		})
	}
	return rows
}
