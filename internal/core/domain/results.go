package domain

type NomineeCount struct {
	NomineeID  string `json:"nominee_id"`
	Count      int64  `json:"count"`
	Percentage int    `json:"percentage"`
}

type CategoryResults struct {
	CategoryID string         `json:"category_id"`
	Votes      []NomineeCount `json:"votes"`
	Total      int64          `json:"total"`
}

// Winner returns the leading nominee. A category without votes has no winner.
func (r CategoryResults) Winner() (NomineeCount, bool) {
	if r.Total == 0 || len(r.Votes) == 0 {
		return NomineeCount{}, false
	}
	return r.Votes[0], true
}
