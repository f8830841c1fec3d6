package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/awardvote/internal/core/domain"
)

func newVote(session, category, nominee string) domain.Vote {
	return domain.Vote{ID: uuid.New(), SessionID: session, CategoryID: category, NomineeID: nominee}
}

func TestStoreFilters(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, []domain.Vote{
		newVote("u1", "best-song", "song-a"),
		newVote("u1", "best-clip", "clip-a"),
		newVote("u2", "best-song", "song-a"),
	}))

	all, err := store.Select(ctx, domain.VoteFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := store.Select(ctx, domain.VoteFilter{SessionID: "u1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "best-song", limited[0].CategoryID)

	songA, err := store.Select(ctx, domain.VoteFilter{CategoryID: "best-song", NomineeID: "song-a"})
	require.NoError(t, err)
	assert.Len(t, songA, 2)

	none, err := store.Select(ctx, domain.VoteFilter{SessionID: "u3"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestStoreRejectsDuplicateBatch(t *testing.T) {
	store := New()
	ctx := context.Background()
	dup := newVote("u1", "best-song", "song-a")

	require.Error(t, store.Insert(ctx, []domain.Vote{newVote("u1", "best-clip", "clip-a"), dup, dup}))

	all, err := store.Select(ctx, domain.VoteFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStoreHonoursContext(t *testing.T) {
	store := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Insert(ctx, []domain.Vote{newVote("u1", "best-song", "song-a")}), context.Canceled)
	_, err := store.Select(ctx, domain.VoteFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
