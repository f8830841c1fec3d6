package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vncsmyrnk/awardvote/internal/core/domain"
	"github.com/vncsmyrnk/awardvote/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteStore {
	return &voteRepository{
		db: db,
	}
}

// Insert writes all rows with one multi-row INSERT, so they land together or
// not at all.
func (r *voteRepository) Insert(ctx context.Context, votes []domain.Vote) error {
	if len(votes) == 0 {
		return nil
	}

	var query strings.Builder
	query.WriteString("INSERT INTO votes (id, session_id, category_id, nominee_id, created_at) VALUES ")
	args := make([]any, 0, len(votes)*5)
	for i, v := range votes {
		if i > 0 {
			query.WriteString(", ")
		}
		n := i * 5
		fmt.Fprintf(&query, "($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, v.ID, v.SessionID, v.CategoryID, v.NomineeID, v.CreatedAt)
	}

	if _, err := r.db.ExecContext(ctx, query.String(), args...); err != nil {
		return fmt.Errorf("failed to insert votes: %w", err)
	}
	return nil
}

func (r *voteRepository) Select(ctx context.Context, filter domain.VoteFilter) ([]domain.Vote, error) {
	query, args := selectQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select votes: %w", err)
	}
	defer rows.Close()

	votes := []domain.Vote{}
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.ID, &v.SessionID, &v.CategoryID, &v.NomineeID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return votes, nil
}

func selectQuery(filter domain.VoteFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("session_id", filter.SessionID)
	add("category_id", filter.CategoryID)
	add("nominee_id", filter.NomineeID)

	query := "SELECT id, session_id, category_id, nominee_id, created_at FROM votes"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return query, args
}
