// Package sqlite stores votes in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vncsmyrnk/awardvote/internal/core/domain"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open opens the database at path and applies the embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Insert(ctx context.Context, votes []domain.Vote) error {
	if len(votes) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(votes))
	args := make([]any, 0, len(votes)*5)
	for _, v := range votes {
		placeholders = append(placeholders, "(?, ?, ?, ?, ?)")
		args = append(args, v.ID.String(), v.SessionID, v.CategoryID, v.NomineeID, v.CreatedAt.UTC().UnixMilli())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO votes (id, session_id, category_id, nominee_id, created_at) VALUES " + strings.Join(placeholders, ", ")
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert votes: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit votes: %w", err)
	}
	return nil
}

func (s *Store) Select(ctx context.Context, filter domain.VoteFilter) ([]domain.Vote, error) {
	var (
		conditions []string
		args       []any
	)
	for _, f := range []struct{ column, value string }{
		{"session_id", filter.SessionID},
		{"category_id", filter.CategoryID},
		{"nominee_id", filter.NomineeID},
	} {
		if f.value != "" {
			conditions = append(conditions, f.column+" = ?")
			args = append(args, f.value)
		}
	}

	query := "SELECT id, session_id, category_id, nominee_id, created_at FROM votes"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at, rowid"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select votes: %w", err)
	}
	defer rows.Close()

	votes := []domain.Vote{}
	for rows.Next() {
		var (
			v         domain.Vote
			createdAt int64
		)
		if err := rows.Scan(&v.ID, &v.SessionID, &v.CategoryID, &v.NomineeID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		v.CreatedAt = time.UnixMilli(createdAt).UTC()
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}
	return votes, nil
}
