// Package rest talks to a hosted vote table over the PostgREST protocol, as
// exposed by Supabase under /rest/v1.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vncsmyrnk/awardvote/internal/core/domain"
)

const (
	votesPath     = "/rest/v1/votes"
	selectColumns = "id,session_id,category_id,nominee_id,created_at"
	maxErrorBody  = 4 << 10
	pageSize      = 1000
)

type Store struct {
	baseURL  string
	key      string
	client   *http.Client
	pageSize int
}

// New builds a store for baseURL, authenticating every request with key.
// A nil client falls back to one with a 10s timeout.
func New(baseURL, key string, client *http.Client) *Store {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Store{
		baseURL:  strings.TrimRight(baseURL, "/"),
		key:      key,
		client:   client,
		pageSize: pageSize,
	}
}

type voteRow struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	CategoryID string    `json:"category_id"`
	NomineeID  string    `json:"nominee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Insert posts all rows in one request. PostgREST runs a bulk insert as a
// single statement.
func (s *Store) Insert(ctx context.Context, votes []domain.Vote) error {
	if len(votes) == 0 {
		return nil
	}
	rows := make([]voteRow, 0, len(votes))
	for _, v := range votes {
		rows = append(rows, voteRow{
			ID:         v.ID.String(),
			SessionID:  v.SessionID,
			CategoryID: v.CategoryID,
			NomineeID:  v.NomineeID,
			CreatedAt:  v.CreatedAt.UTC(),
		})
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode votes: %w", err)
	}

	req, err := s.newRequest(ctx, http.MethodPost, s.baseURL+votesPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("insert votes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusError("insert votes", resp)
	}
	return nil
}

// Select pages through the table when no limit is set, since PostgREST caps
// each response at the server's max-rows. Paging stops at the first empty page.
func (s *Store) Select(ctx context.Context, filter domain.VoteFilter) ([]domain.Vote, error) {
	q := selectQuery(filter)
	if filter.Limit > 0 {
		return s.selectPage(ctx, q)
	}

	var votes []domain.Vote
	for {
		q.Set("limit", strconv.Itoa(s.pageSize))
		q.Set("offset", strconv.Itoa(len(votes)))
		page, err := s.selectPage(ctx, q)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		votes = append(votes, page...)
	}
	if votes == nil {
		votes = []domain.Vote{}
	}
	return votes, nil
}

func (s *Store) selectPage(ctx context.Context, q url.Values) ([]domain.Vote, error) {
	req, err := s.newRequest(ctx, http.MethodGet, s.baseURL+votesPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("select votes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, statusError("select votes", resp)
	}

	var rows []voteRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode votes: %w", err)
	}

	votes := make([]domain.Vote, 0, len(rows))
	for _, row := range rows {
		v, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, nil
}

func (s *Store) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if s.key != "" {
		req.Header.Set("apikey", s.key)
		req.Header.Set("Authorization", "Bearer "+s.key)
	}
	return req, nil
}

func selectQuery(filter domain.VoteFilter) url.Values {
	q := url.Values{}
	q.Set("select", selectColumns)
	if filter.SessionID != "" {
		q.Set("session_id", "eq."+filter.SessionID)
	}
	if filter.CategoryID != "" {
		q.Set("category_id", "eq."+filter.CategoryID)
	}
	if filter.NomineeID != "" {
		q.Set("nominee_id", "eq."+filter.NomineeID)
	}
	q.Set("order", "created_at.asc,id.asc")
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	return q
}

func (r voteRow) toDomain() (domain.Vote, error) {
	v := domain.Vote{
		SessionID:  r.SessionID,
		CategoryID: r.CategoryID,
		NomineeID:  r.NomineeID,
		CreatedAt:  r.CreatedAt.UTC(),
	}
	if err := v.ID.UnmarshalText([]byte(r.ID)); err != nil {
		return domain.Vote{}, fmt.Errorf("invalid vote id %q: %w", r.ID, err)
	}
	return v, nil
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
}
