package services

import (
	"math"
	"sort"

	"github.com/vncsmyrnk/awardvote/internal/core/domain"
)

// ComputeResults groups votes by category and nominee and counts them.
// Categories and nominees keep the order in which they first appear; within a
// category nominees are sorted by count descending and ties keep that
// first-seen order.
func ComputeResults(votes []domain.Vote) []domain.CategoryResults {
	var order []string
	byCategory := make(map[string]*domain.CategoryResults)
	nomineeIndex := make(map[string]map[string]int)

	for _, v := range votes {
		res, ok := byCategory[v.CategoryID]
		if !ok {
			res = &domain.CategoryResults{CategoryID: v.CategoryID, Votes: []domain.NomineeCount{}}
			byCategory[v.CategoryID] = res
			nomineeIndex[v.CategoryID] = make(map[string]int)
			order = append(order, v.CategoryID)
		}

		idx, ok := nomineeIndex[v.CategoryID][v.NomineeID]
		if !ok {
			idx = len(res.Votes)
			nomineeIndex[v.CategoryID][v.NomineeID] = idx
			res.Votes = append(res.Votes, domain.NomineeCount{NomineeID: v.NomineeID})
		}
		res.Votes[idx].Count++
		res.Total++
	}

	results := make([]domain.CategoryResults, 0, len(order))
	for _, categoryID := range order {
		res := *byCategory[categoryID]
		finalize(&res)
		results = append(results, res)
	}
	return results
}

// Percentage rounds count/total to a whole percent. Rounding is per nominee,
// so the percentages of a category need not add up to exactly 100.
func Percentage(count, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

func finalize(res *domain.CategoryResults) {
	sort.SliceStable(res.Votes, func(i, j int) bool {
		return res.Votes[i].Count > res.Votes[j].Count
	})
	for i := range res.Votes {
		res.Votes[i].Percentage = Percentage(res.Votes[i].Count, res.Total)
	}
}
