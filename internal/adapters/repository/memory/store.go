// Package memory keeps votes in process memory for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vncsmyrnk/awardvote/internal/core/domain"
)

type Store struct {
	mu    sync.RWMutex
	votes []domain.Vote
	ids   map[string]struct{}
}

func New() *Store {
	return &Store{ids: make(map[string]struct{})}
}

// Insert rejects the whole batch when any id is already present.
func (s *Store) Insert(ctx context.Context, votes []domain.Vote) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[string]struct{}, len(votes))
	for _, v := range votes {
		id := v.ID.String()
		if _, dup := s.ids[id]; dup {
			return fmt.Errorf("duplicate vote id %s", id)
		}
		if _, dup := batch[id]; dup {
			return fmt.Errorf("duplicate vote id %s", id)
		}
		batch[id] = struct{}{}
	}
	for id := range batch {
		s.ids[id] = struct{}{}
	}
	s.votes = append(s.votes, votes...)
	return nil
}

func (s *Store) Select(ctx context.Context, filter domain.VoteFilter) ([]domain.Vote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Vote{}
	for _, v := range s.votes {
		if !filter.Matches(v) {
			continue
		}
		out = append(out, v)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}
