package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookhub/internal/metrics"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
)

const (
	MinProgress = 0
	MaxProgress = 100
)

// ProgressCache is the read-through cache in front of the progress table.
// Put must ignore a record whose Version is behind the cached one.
// *repository.ProgressCache implements it, including as a nil pointer.
type ProgressCache interface {
	Get(ctx context.Context, userID string, bookID int64) (*models.ReadingProgress, error)
	Put(ctx context.Context, p *models.ReadingProgress) error
	Delete(ctx context.Context, userID string, bookID int64) error
}

type ProgressService interface {
	// Upsert returns created=true when this was the first record for the (user, book) pair.
	Upsert(ctx context.Context, viewer Viewer, bookID int64, progress int, now time.Time) (*models.ReadingProgress, bool, error)
	Get(ctx context.Context, viewer Viewer, bookID int64) (*models.ReadingProgress, error)
	List(ctx context.Context, viewer Viewer) ([]models.ReadingProgress, error)
}

type progressService struct {
	repo    repository.ProgressRepository
	books   repository.BookRepository
	cache   ProgressCache
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewProgressService(
	repo repository.ProgressRepository,
	books repository.BookRepository,
	cache ProgressCache,
	m *metrics.Metrics,
	log *slog.Logger,
) ProgressService {
	return &progressService{
		repo:    repo,
		books:   books,
		cache:   cache,
		metrics: m,
		log:     log,
	}
}

// Upsert writes PostgreSQL first; the cache is refreshed afterwards and a cache failure is only logged.
// When the refresh fails the cached entry is dropped so readers do not see the previous value.
func (s *progressService) Upsert(ctx context.Context, viewer Viewer, bookID int64, progress int, now time.Time) (*models.ReadingProgress, bool, error) {
	if viewer.IsAnonymous() {
		return nil, false, ErrUnauthorized
	}
	if progress < MinProgress || progress > MaxProgress {
		return nil, false, fmt.Errorf("%w: progress must be between %d and %d, got %d", ErrValidation, MinProgress, MaxProgress, progress)
	}
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, false, notFound(err, "book %d", bookID)
	}

	record := &models.ReadingProgress{
		UserID:   viewer.UserID,
		BookID:   bookID,
		Progress: progress,
	}
	created, err := s.repo.Upsert(ctx, record, now)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.Put(ctx, record); err != nil {
		s.log.WarnContext(ctx, "progress_cache_put_failed",
			"user_id", viewer.UserID,
			"book_id", bookID,
			"error", err,
		)
		if err := s.cache.Delete(ctx, viewer.UserID, bookID); err != nil {
			s.log.WarnContext(ctx, "progress_cache_delete_failed", "user_id", viewer.UserID, "book_id", bookID, "error", err)
		}
	}
	return record, created, nil
}

// Get serves from the cache when it can and falls back to PostgreSQL.
func (s *progressService) Get(ctx context.Context, viewer Viewer, bookID int64) (*models.ReadingProgress, error) {
	if viewer.IsAnonymous() {
		return nil, ErrUnauthorized
	}

	cached, err := s.cache.Get(ctx, viewer.UserID, bookID)
	if err != nil {
		s.log.WarnContext(ctx, "progress_cache_get_failed", "user_id", viewer.UserID, "book_id", bookID, "error", err)
	}
	if cached != nil {
		s.metrics.ProgressCacheLookup(true)
		return cached, nil
	}
	s.metrics.ProgressCacheLookup(false)

	record, err := s.repo.Get(ctx, viewer.UserID, bookID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: no progress for book %d", ErrNotFound, bookID)
	}
	if err := s.cache.Put(ctx, record); err != nil {
		s.log.WarnContext(ctx, "progress_cache_put_failed", "user_id", viewer.UserID, "book_id", bookID, "error", err)
	}
	return record, nil
}

func (s *progressService) List(ctx context.Context, viewer Viewer) ([]models.ReadingProgress, error) {
	if viewer.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, viewer.UserID)
}
