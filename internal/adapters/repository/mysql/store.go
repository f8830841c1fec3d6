// Package mysql stores votes in MySQL through gorm.
package mysql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/awardvote/internal/core/domain"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const insertBatchSize = 100

type voteModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	SessionID  string    `gorm:"size:64;not null;index:idx_votes_session_id"` // domain.MaxVoterIDLength
	CategoryID string    `gorm:"size:128;not null;index:idx_votes_category_nominee,priority:1"`
	NomineeID  string    `gorm:"size:128;not null;index:idx_votes_category_nominee,priority:2"`
	CreatedAt  time.Time `gorm:"not null;precision:3"`
}

func (voteModel) TableName() string { return "votes" }

func voteModelFromDomain(v domain.Vote) voteModel {
	return voteModel{
		ID:         v.ID.String(),
		SessionID:  v.SessionID,
		CategoryID: v.CategoryID,
		NomineeID:  v.NomineeID,
		CreatedAt:  v.CreatedAt.UTC(),
	}
}

func (m voteModel) toDomain() (domain.Vote, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return domain.Vote{}, fmt.Errorf("invalid vote id %q: %w", m.ID, err)
	}
	return domain.Vote{
		ID:         id,
		SessionID:  m.SessionID,
		CategoryID: m.CategoryID,
		NomineeID:  m.NomineeID,
		CreatedAt:  m.CreatedAt.UTC(),
	}, nil
}

type Store struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the votes table. The DSN must set
// parseTime=true.
func Open(ctx context.Context, dsn string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.New(
			slog.NewLogLogger(log.Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             2 * time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// migrate creates or updates the votes table, closing the pool on failure.
func migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&voteModel{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return fmt.Errorf("migrate votes: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Insert(ctx context.Context, votes []domain.Vote) error {
	if len(votes) == 0 {
		return nil
	}
	rows := make([]voteModel, 0, len(votes))
	for _, v := range votes {
		rows = append(rows, voteModelFromDomain(v))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, insertBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("insert votes: %w", err)
	}
	return nil
}

func (s *Store) Select(ctx context.Context, filter domain.VoteFilter) ([]domain.Vote, error) {
	query := s.db.WithContext(ctx).Model(&voteModel{})
	if filter.SessionID != "" {
		query = query.Where("session_id = ?", filter.SessionID)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.NomineeID != "" {
		query = query.Where("nominee_id = ?", filter.NomineeID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []voteModel
	if err := query.Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select votes: %w", err)
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
