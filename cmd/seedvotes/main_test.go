package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vncsmyrnk/awardvote/internal/core/domain"
)

func TestRandomBallot(t *testing.T) {
	categories := []domain.Category{
		{ID: "best-song", Nominees: []domain.Nominee{{ID: "song-a"}, {ID: "song-b"}}},
		{ID: "best-clip", Nominees: []domain.Nominee{{ID: "clip-a"}}},
	}

	full := randomBallot(categories, 0)
	assert.Len(t, full, 2)
	assert.Contains(t, []string{"song-a", "song-b"}, full["best-song"])
	assert.Equal(t, "clip-a", full["best-clip"])

	assert.Empty(t, randomBallot(categories, 1))
}
