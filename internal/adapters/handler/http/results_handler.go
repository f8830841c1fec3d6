package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vncsmyrnk/awardvote/internal/core/domain"
	"github.com/vncsmyrnk/awardvote/internal/core/gate"
	"github.com/vncsmyrnk/awardvote/internal/core/ports"
)

type ResultsHandler struct {
	service  ports.ResultsService
	interval time.Duration
	now      func() time.Time
}

func NewResultsHandler(service ports.ResultsService, countdownInterval time.Duration) *ResultsHandler {
	return &ResultsHandler{
		service:  service,
		interval: countdownInterval,
		now:      time.Now,
	}
}

type categoryResultsView struct {
	domain.CategoryResults
	Winner *domain.NomineeCount `json:"winner,omitempty"`
}

type resultsResponse struct {
	Results []categoryResultsView `json:"results"`
}

// Status godoc
// @Summary      Reports whether results are released
// @Tags         results
// @Produce      json
// @Success      200  {object}  gate.Status
// @Router       /results/status [get]
func (h *ResultsHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Status(h.now()))
}

// GetResults godoc
// @Summary      Aggregated results per category
// @Description  Forbidden until the release moment; the body then carries the countdown.
// @Tags         results
// @Produce      json
// @Success      200
// @Failure      403
// @Failure      503
// @Router       /results [get]
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	status := h.service.Status(h.now())
	if !status.Released {
		writeJSON(w, http.StatusForbidden, errorResponse{
			Error: domain.ErrResultsLocked.Error(),
			Gate:  &status,
		})
		return
	}

	results, err := h.service.Results(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]categoryResultsView, 0, len(results))
	for _, res := range results {
		view := categoryResultsView{CategoryResults: res}
		if winner, ok := res.Winner(); ok {
			view.Winner = &winner
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, resultsResponse{Results: views})
}

// Countdown streams the gate status as server-sent events until the results
// are released or the client goes away.
func (h *ResultsHandler) Countdown(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	release := h.service.Status(h.now()).ReleaseAt
	poller := gate.NewPoller(release, h.interval, h.now)
	defer poller.Stop()

	poller.Start(r.Context(), func(status gate.Status) {
		data, err := json.Marshal(status)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to encode countdown", "error", err)
			return
		}
		event := "countdown"
		if status.Released {
			event = "released"
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
	})

	select {
	case <-poller.Done():
	case <-r.Context().Done():
	}
}
