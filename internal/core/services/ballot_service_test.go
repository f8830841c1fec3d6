package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/awardvote/internal/core/ballot"
	"github.com/vncsmyrnk/awardvote/internal/core/domain"
)

func newBallotService(store *fakeStore) *ballotService {
	votes := NewVoteService(store, nil)
	return NewBallotService(testCatalog, votes, time.Hour, nil).(*ballotService)
}

func walkToSummary(t *testing.T, svc *ballotService, identity string) {
	t.Helper()
	ctx := context.Background()
	steps := []ballot.Action{
		ballot.Start(),
		ballot.Select("best-song", "song-a"),
		ballot.Next(),
		ballot.Select("best-clip", "clip-b"),
		ballot.Next(),
	}
	for _, step := range steps {
		_, err := svc.Dispatch(ctx, identity, step)
		require.NoError(t, err, step.Type)
	}
}

func TestBallotGetSeedsEligibility(t *testing.T) {
	store := &fakeStore{votes: []domain.Vote{vote("voted", "best-song", "song-a")}}
	svc := newBallotService(store)
	ctx := context.Background()

	fresh, err := svc.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, ballot.PhaseIntro, fresh.Phase)
	assert.True(t, fresh.CanVote)

	voted, err := svc.Get(ctx, "voted")
	require.NoError(t, err)
	assert.Equal(t, ballot.PhaseVoted, voted.Phase)
	assert.False(t, voted.CanVote)
}

func TestBallotGetRequiresIdentity(t *testing.T) {
	svc := newBallotService(&fakeStore{})

	_, err := svc.Get(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrMissingIdentity)
}

func TestBallotSubmitSucceeds(t *testing.T) {
	store := &fakeStore{}
	svc := newBallotService(store)
	walkToSummary(t, svc, "voter")

	state, err := svc.Dispatch(context.Background(), "voter", ballot.Submit())
	require.NoError(t, err)

	assert.Equal(t, ballot.PhaseVoted, state.Phase)
	assert.Equal(t, ballot.NoticeSubmitted, state.Notice)
	assert.False(t, state.CanVote)
	assert.False(t, state.Submitting)
	assert.Empty(t, state.Votes)
	assert.Len(t, store.votes, 2)

	again, err := svc.Get(context.Background(), "voter")
	require.NoError(t, err)
	assert.Equal(t, ballot.PhaseVoted, again.Phase)
}

func TestBallotSubmitAlreadyVoted(t *testing.T) {
	store := &fakeStore{}
	svc := newBallotService(store)
	walkToSummary(t, svc, "voter")
	store.votes = append(store.votes, vote("voter", "best-song", "song-b"))

	state, err := svc.Dispatch(context.Background(), "voter", ballot.Submit())

	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
	assert.Equal(t, ballot.PhaseVoted, state.Phase)
	assert.Equal(t, ballot.NoticeAlreadyVoted, state.Notice)
	assert.Len(t, store.votes, 1)
}

func TestBallotSubmitStoreUnavailableKeepsSelections(t *testing.T) {
	store := &fakeStore{}
	svc := newBallotService(store)
	walkToSummary(t, svc, "voter")
	store.selectErr = errStoreDown

	state, err := svc.Dispatch(context.Background(), "voter", ballot.Submit())

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, ballot.PhaseSummary, state.Phase)
	assert.Equal(t, ballot.NoticeStoreUnavailable, state.Notice)
	assert.False(t, state.Submitting)
	assert.Equal(t, map[string]string{"best-song": "song-a", "best-clip": "clip-b"}, state.Votes)
}

func TestBallotSubmitInsertFailureAllowsRetry(t *testing.T) {
	store := &fakeStore{}
	svc := newBallotService(store)
	walkToSummary(t, svc, "voter")
	store.insertErr = errStoreDown
	ctx := context.Background()

	state, err := svc.Dispatch(ctx, "voter", ballot.Submit())
	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
	assert.Equal(t, ballot.NoticeSubmitFailed, state.Notice)

	store.insertErr = nil
	state, err = svc.Dispatch(ctx, "voter", ballot.Submit())
	require.NoError(t, err)
	assert.Equal(t, ballot.PhaseVoted, state.Phase)
}

func TestBallotRejectsInternalActions(t *testing.T) {
	svc := newBallotService(&fakeStore{})

	state, err := svc.Dispatch(context.Background(), "voter", ballot.Action{Type: ballot.ActionSubmitSucceeded})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, ballot.PhaseIntro, state.Phase)
}

func TestBallotInvalidTransitionKeepsState(t *testing.T) {
	svc := newBallotService(&fakeStore{})
	ctx := context.Background()

	_, err := svc.Dispatch(ctx, "voter", ballot.Start())
	require.NoError(t, err)

	state, err := svc.Dispatch(ctx, "voter", ballot.Next())
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Equal(t, ballot.PhaseVoting, state.Phase)
	assert.Equal(t, 0, state.Index)
}

func TestBallotSessionsExpire(t *testing.T) {
	svc := newBallotService(&fakeStore{})
	now := time.Date(2025, time.December, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := svc.Dispatch(ctx, "voter", ballot.Start())
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	state, err := svc.Get(ctx, "voter")
	require.NoError(t, err)
	assert.Equal(t, ballot.PhaseIntro, state.Phase)
}
