package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/vncsmyrnk/awardvote/internal/core/domain"
)

var errStoreDown = errors.New("connection refused")

type fakeStore struct {
	mu        sync.Mutex
	votes     []domain.Vote
	selectErr error
	insertErr error
	inserts   int
}

func (f *fakeStore) Insert(_ context.Context, votes []domain.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.votes = append(f.votes, votes...)
	return nil
}

func (f *fakeStore) Select(_ context.Context, filter domain.VoteFilter) ([]domain.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	var out []domain.Vote
	for _, v := range f.votes {
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

type fakeCatalog []domain.Category

func (c fakeCatalog) Categories() []domain.Category { return c }

func (c fakeCatalog) Category(id string) (domain.Category, bool) {
	for _, category := range c {
		if category.ID == id {
			return category, true
		}
	}
	return domain.Category{}, false
}

var testCatalog = fakeCatalog{
	{ID: "best-song", Name: "Best Song", Nominees: []domain.Nominee{{ID: "song-a"}, {ID: "song-b"}}},
	{ID: "best-clip", Name: "Best Clip", Nominees: []domain.Nominee{{ID: "clip-a"}, {ID: "clip-b"}}},
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func vote(session, category, nominee string) domain.Vote {
	return domain.Vote{SessionID: session, CategoryID: category, NomineeID: nominee}
}
