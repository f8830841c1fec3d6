package domain

import "errors"

var (
	ErrAlreadyVoted       = errors.New("voter has already voted")
	ErrNoVotes            = errors.New("no votes to submit")
	ErrStoreUnavailable   = errors.New("vote store unavailable")
	ErrSubmissionFailed   = errors.New("vote submission failed")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrInvalidSelection   = errors.New("invalid selection for this category")
	ErrInvalidTransition  = errors.New("action not allowed in the current state")
	ErrMissingIdentity    = errors.New("voter identity is required")
	ErrResultsLocked      = errors.New("results are not released yet")
	ErrCategoryNotFound   = errors.New("category not found")
)
