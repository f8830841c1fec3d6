package ports

import (
	"context"

	"github.com/vncsmyrnk/awardvote/internal/core/ballot"
)

type BallotService interface {
	Get(ctx context.Context, identity string) (ballot.State, error)
	Dispatch(ctx context.Context, identity string, action ballot.Action) (ballot.State, error)
}
