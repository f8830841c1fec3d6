package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vncsmyrnk/awardvote/internal/core/domain"
	"github.com/vncsmyrnk/awardvote/internal/core/gate"
	"github.com/vncsmyrnk/awardvote/internal/core/ports"
)

type resultsService struct {
	store     ports.VoteStore
	catalog   ports.Catalog
	releaseAt time.Time
	logger    *slog.Logger
}

func NewResultsService(store ports.VoteStore, catalog ports.Catalog, releaseAt time.Time, logger *slog.Logger) ports.ResultsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &resultsService{
		store:     store,
		catalog:   catalog,
		releaseAt: releaseAt,
		logger:    logger,
	}
}

func (s *resultsService) Status(now time.Time) gate.Status {
	return gate.Evaluate(now, s.releaseAt)
}

// Results scans the whole vote table and tallies it in memory.
func (s *resultsService) Results(ctx context.Context) ([]domain.CategoryResults, error) {
	votes, err := s.store.Select(ctx, domain.VoteFilter{})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load votes for results", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	return alignWithCatalog(s.catalog.Categories(), ComputeResults(votes)), nil
}

// alignWithCatalog orders results like the catalog, gives categories without
// votes a zero total and lists catalog nominees that got no votes after the
// voted ones. Results for categories missing from the catalog are kept last.
func alignWithCatalog(categories []domain.Category, computed []domain.CategoryResults) []domain.CategoryResults {
	byID := make(map[string]domain.CategoryResults, len(computed))
	for _, res := range computed {
		byID[res.CategoryID] = res
	}

	aligned := make([]domain.CategoryResults, 0, len(categories)+len(computed))
	for _, category := range categories {
		res, ok := byID[category.ID]
		if !ok {
			res = domain.CategoryResults{CategoryID: category.ID, Votes: []domain.NomineeCount{}}
		}
		delete(byID, category.ID)

		seen := make(map[string]bool, len(res.Votes))
		for _, v := range res.Votes {
			seen[v.NomineeID] = true
		}
		for _, nominee := range category.Nominees {
			if !seen[nominee.ID] {
				res.Votes = append(res.Votes, domain.NomineeCount{NomineeID: nominee.ID})
			}
		}
		aligned = append(aligned, res)
	}

	for _, res := range computed {
		if _, orphan := byID[res.CategoryID]; orphan {
			aligned = append(aligned, res)
		}
	}
	return aligned
}
