package ports

import (
	"context"

	"github.com/vncsmyrnk/awardvote/internal/core/domain"
)

// VoteStore is the append-only vote table. Implementations only need insert
// and filtered select; no transactions are assumed beyond a single Insert call.
type VoteStore interface {
	Insert(ctx context.Context, votes []domain.Vote) error
	Select(ctx context.Context, filter domain.VoteFilter) ([]domain.Vote, error)
}

type VoteService interface {
	CheckEligibility(ctx context.Context, identity string) domain.Eligibility
	Submit(ctx context.Context, identity string, votes map[string]string) (*domain.SubmitResult, error)
}
