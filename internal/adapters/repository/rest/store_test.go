package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/awardvote/internal/core/domain"
)

// fakePostgREST keeps rows in memory and understands the eq./limit/offset
// subset the store sends. A non-zero maxRows caps every response the way
// PostgREST's max-rows setting does.
type fakePostgREST struct {
	mu      sync.Mutex
	rows    []voteRow
	fail    bool
	maxRows int
	gets    int
}

func (f *fakePostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != votesPath || r.Header.Get("apikey") != "secret" || r.Header.Get("Authorization") != "Bearer secret" {
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	if f.fail {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPost:
		var rows []voteRow
		if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.rows = append(f.rows, rows...)
		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		f.gets++
		q := r.URL.Query()
		matched := []voteRow{}
		for _, row := range f.rows {
			if v := q.Get("session_id"); v != "" && "eq."+row.SessionID != v {
				continue
			}
			if v := q.Get("category_id"); v != "" && "eq."+row.CategoryID != v {
				continue
			}
			if v := q.Get("nominee_id"); v != "" && "eq."+row.NomineeID != v {
				continue
			}
			matched = append(matched, row)
		}
		offset, _ := strconv.Atoi(q.Get("offset"))
		if offset > len(matched) {
			offset = len(matched)
		}
		out := matched[offset:]
		if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit < len(out) {
			out = out[:limit]
		}
		if f.maxRows > 0 && f.maxRows < len(out) {
			out = out[:f.maxRows]
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newVote(session, category, nominee string) domain.Vote {
	return domain.Vote{
		ID:         uuid.New(),
		SessionID:  session,
		CategoryID: category,
		NomineeID:  nominee,
		CreatedAt:  time.Date(2025, time.December, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStoreInsertAndSelect(t *testing.T) {
	server := httptest.NewServer(&fakePostgREST{})
	defer server.Close()
	store := New(server.URL+"/", "secret", server.Client())
	ctx := context.Background()
	first := newVote("user 1&x", "best-song", "song-a")

	require.NoError(t, store.Insert(ctx, []domain.Vote{first, newVote("u2", "best-song", "song-b")}))

	all, err := store.Select(ctx, domain.VoteFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first, all[0])

	mine, err := store.Select(ctx, domain.VoteFilter{SessionID: "user 1&x", Limit: 1})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	none, err := store.Select(ctx, domain.VoteFilter{NomineeID: "song-z"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStoreSelectPagesPastServerCap(t *testing.T) {
	fake := &fakePostgREST{maxRows: 2}
	server := httptest.NewServer(fake)
	defer server.Close()
	store := New(server.URL, "secret", server.Client())
	ctx := context.Background()

	var votes []domain.Vote
	for i := 0; i < 5; i++ {
		votes = append(votes, newVote("u"+strconv.Itoa(i), "best-song", "song-a"))
	}
	require.NoError(t, store.Insert(ctx, votes))

	all, err := store.Select(ctx, domain.VoteFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, v := range all {
		assert.Equal(t, votes[i].ID, v.ID)
	}
	assert.Equal(t, 4, fake.gets)

	limited, err := store.Select(ctx, domain.VoteFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStoreSurfacesErrors(t *testing.T) {
	server := httptest.NewServer(&fakePostgREST{fail: true})
	defer server.Close()
	store := New(server.URL, "secret", server.Client())
	ctx := context.Background()

	err := store.Insert(ctx, []domain.Vote{newVote("u1", "best-song", "song-a")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	_, err = store.Select(ctx, domain.VoteFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestStoreRejectsWrongKey(t *testing.T) {
	server := httptest.NewServer(&fakePostgREST{})
	defer server.Close()
	store := New(server.URL, "wrong", server.Client())

	_, err := store.Select(context.Background(), domain.VoteFilter{})

	assert.Error(t, err)
}

func TestStoreHonoursContext(t *testing.T) {
	store := New("http://192.0.2.1", "secret", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Select(ctx, domain.VoteFilter{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelectQuery(t *testing.T) {
	q := selectQuery(domain.VoteFilter{SessionID: "u1", Limit: 1})

	assert.Equal(t, "eq.u1", q.Get("session_id"))
	assert.Equal(t, "1", q.Get("limit"))
	assert.Equal(t, selectColumns, q.Get("select"))
	assert.Empty(t, q.Get("category_id"))
}
