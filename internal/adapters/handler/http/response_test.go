package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vncsmyrnk/awardvote/internal/core/domain"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err       error
		status    int
		retryable bool
	}{
		{domain.ErrAlreadyVoted, http.StatusConflict, false},
		{domain.ErrNoVotes, http.StatusBadRequest, false},
		{fmt.Errorf("%w: nominee %q", domain.ErrInvalidSelection, "x"), http.StatusBadRequest, false},
		{domain.ErrSubmissionInFlight, http.StatusConflict, false},
		{fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, errors.New("timeout")), http.StatusServiceUnavailable, true},
		{fmt.Errorf("%w: %w", domain.ErrSubmissionFailed, errors.New("boom")), http.StatusServiceUnavailable, true},
		{domain.ErrResultsLocked, http.StatusForbidden, false},
		{errors.New("something else"), http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		status, body := errorStatus(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.retryable, body.Retryable, tc.err.Error())
	}

	_, body := errorStatus(domain.ErrAlreadyVoted)
	assert.Equal(t, "already_voted", body.Status)

	_, body = errorStatus(errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal server error", body.Error)
}
