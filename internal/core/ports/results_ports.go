package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/awardvote/internal/core/domain"
	"github.com/vncsmyrnk/awardvote/internal/core/gate"
)

type ResultsService interface {
	Status(now time.Time) gate.Status
	Results(ctx context.Context) ([]domain.CategoryResults, error)
}
