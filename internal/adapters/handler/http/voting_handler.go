package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/awardvote/internal/core/ballot"
	"github.com/vncsmyrnk/awardvote/internal/core/ports"
)

type VotingHandler struct {
	votes   ports.VoteService
	ballots ports.BallotService
}

func NewVotingHandler(votes ports.VoteService, ballots ports.BallotService) *VotingHandler {
	return &VotingHandler{
		votes:   votes,
		ballots: ballots,
	}
}

type submitVotesRequest struct {
	Votes map[string]string `json:"votes"`
}

type selectRequest struct {
	CategoryID string `json:"category_id"`
	NomineeID  string `json:"nominee_id"`
}

// Eligibility godoc
// @Summary      Checks whether the current voter may still vote
// @Description  Never fails: when the vote store cannot be reached the voter is reported as eligible.
// @Tags         voting
// @Produce      json
// @Success      200  {object}  domain.Eligibility
// @Router       /voting/eligibility [get]
func (h *VotingHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.votes.CheckEligibility(r.Context(), voterID(r)))
}

// SubmitVotes godoc
// @Summary      Submits one vote per category
// @Tags         voting
// @Accept       json
// @Produce      json
// @Success      201  {object}  domain.SubmitResult
// @Failure      400
// @Failure      409
// @Failure      503
// @Router       /votes [post]
func (h *VotingHandler) SubmitVotes(w http.ResponseWriter, r *http.Request) {
	var req submitVotesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.votes.Submit(r.Context(), voterID(r), req.Votes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *VotingHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	state, err := h.ballots.Get(r.Context(), voterID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// BallotAction godoc
// @Summary      Applies a step of the voting flow
// @Description  Actions are start, select, next, prev, submit and restart. select takes {"category_id","nominee_id"}.
// @Tags         voting
// @Accept       json
// @Produce      json
// @Param        action  path  string  true  "flow action"
// @Success      200
// @Failure      400
// @Failure      404
// @Failure      409
// @Failure      503
// @Router       /voting/ballot/{action} [post]
func (h *VotingHandler) BallotAction(w http.ResponseWriter, r *http.Request) {
	var action ballot.Action
	switch chi.URLParam(r, "action") {
	case "start":
		action = ballot.Start()
	case "next":
		action = ballot.Next()
	case "prev":
		action = ballot.Prev()
	case "submit":
		action = ballot.Submit()
	case "restart":
		action = ballot.Restart()
	case "select":
		var req selectRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		action = ballot.Select(req.CategoryID, req.NomineeID)
	default:
		writeError(w, http.StatusNotFound, "unknown ballot action")
		return
	}

	state, err := h.ballots.Dispatch(r.Context(), voterID(r), action)
	if err != nil {
		status, body := errorStatus(err)
		if status == http.StatusInternalServerError {
			writeServiceError(w, r, err)
			return
		}
		if state.Phase != "" {
			body.State = &state
		}
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
