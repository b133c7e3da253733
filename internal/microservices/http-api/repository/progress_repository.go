package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type progressRepository struct {
	db *gorm.DB
}

type ProgressRepository interface {
	Upsert(ctx context.Context, progress *models.ReadingProgress, now time.Time) (created bool, err error)
	Get(ctx context.Context, userID string, bookID int64) (*models.ReadingProgress, error)
	ListByUser(ctx context.Context, userID string) ([]models.ReadingProgress, error)
	CountByUser(ctx context.Context, userID string, minProgress int) (int64, error)
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

const upsertProgressSQL = `
INSERT INTO reading_progress (user_id, book_id, progress, version, updated_at)
VALUES (?, ?, ?, 1, ?)
ON CONFLICT (user_id, book_id) DO UPDATE
SET progress = EXCLUDED.progress,
    updated_at = EXCLUDED.updated_at,
    version = reading_progress.version + 1
RETURNING id, version, (xmax = 0) AS inserted`

type upsertedProgress struct {
	ID       int64
	Version  int64
	Inserted bool
}

// Upsert stores the user's progress for a book as of now, reporting whether a new record was created.
// A single INSERT .. ON CONFLICT statement decides creation, so two racing first writes see exactly
// one created=true. The row version is bumped on every write and copied back into progress.
func (r *progressRepository) Upsert(ctx context.Context, progress *models.ReadingProgress, now time.Time) (bool, error) {
	var row upsertedProgress
	if err := r.db.WithContext(ctx).
		Raw(upsertProgressSQL, progress.UserID, progress.BookID, progress.Progress, now).
		Scan(&row).Error; err != nil {
		return false, fmt.Errorf("upsert progress: %w", err)
	}

	progress.ID = row.ID
	progress.Version = row.Version
	progress.UpdatedAt = now
	return row.Inserted, nil
}

// Get returns nil, nil when the user has no progress on the book yet.
func (r *progressRepository) Get(ctx context.Context, userID string, bookID int64) (*models.ReadingProgress, error) {
	var progress models.ReadingProgress

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No progress yet
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	return &progress, nil
}

func (r *progressRepository) ListByUser(ctx context.Context, userID string) ([]models.ReadingProgress, error) {
	var progress []models.ReadingProgress

	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&progress).Error; err != nil {
		return nil, fmt.Errorf("get user progress: %w", err)
	}

	return progress, nil
}

// CountByUser counts the user's progress records at or above minProgress percent.
func (r *progressRepository) CountByUser(ctx context.Context, userID string, minProgress int) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ReadingProgress{}).
		Where("user_id = ? AND progress >= ?", userID, minProgress).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count progress: %w", err)
	}
	return count, nil
}
