package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bookhub/internal/metrics"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

const (
	MinRating        = 1
	MaxRating        = 5
	maxReviewContent = 5000
)

// ReviewOutcome is the stored review and the book aggregate as committed with it.
type ReviewOutcome struct {
	Review  models.Review
	Book    models.Book
	Created bool
}

type ReviewService interface {
	Submit(ctx context.Context, viewer Viewer, bookID int64, rating int, content string, now time.Time) (*ReviewOutcome, error)
	Delete(ctx context.Context, viewer Viewer, bookID int64) (*models.Book, error)
	// ListForBook answers ErrNotFound for a book the viewer may not see.
	ListForBook(ctx context.Context, viewer Viewer, bookID int64, now time.Time) ([]models.Review, error)
	ListForUser(ctx context.Context, viewer Viewer) ([]models.Review, error)
	Like(ctx context.Context, viewer Viewer, reviewID int64) (int, error)
	Dislike(ctx context.Context, viewer Viewer, reviewID int64) (int, error)
}

type reviewService struct {
	reviews     repository.ReviewRepository
	books       repository.BookRepository
	memberships repository.MembershipRepository
	metrics     *metrics.Metrics
	log         *slog.Logger
}

func NewReviewService(
	reviews repository.ReviewRepository,
	books repository.BookRepository,
	memberships repository.MembershipRepository,
	m *metrics.Metrics,
	log *slog.Logger,
) ReviewService {
	return &reviewService{reviews: reviews, books: books, memberships: memberships, metrics: m, log: log}
}

// Submit creates or overwrites the viewer's review of the book and returns the recomputed aggregate.
// A premium-only book cannot be reviewed without premium access at now.
func (s *reviewService) Submit(ctx context.Context, viewer Viewer, bookID int64, rating int, content string, now time.Time) (*ReviewOutcome, error) {
	if viewer.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	if rating < MinRating || rating > MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d, got %d", ErrValidation, MinRating, MaxRating, rating)
	}
	content = strings.TrimSpace(content)
	if len(content) > maxReviewContent {
		return nil, fmt.Errorf("%w: content exceeds %d bytes", ErrValidation, maxReviewContent)
	}
	if _, err := visibleBook(ctx, s.books, s.memberships, viewer, bookID, now); err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:  viewer.UserID,
		BookID:  bookID,
		Rating:  rating,
		Content: content,
	}
	book, created, err := s.reviews.Submit(ctx, review)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: book %d", ErrNotFound, bookID)
		}
		s.log.ErrorContext(ctx, "review_submit_failed", "user_id", viewer.UserID, "book_id", bookID, "error", err)
		return nil, err
	}

	s.metrics.ReviewSubmitted(created)
	s.log.InfoContext(ctx, "review_submitted",
		"user_id", viewer.UserID,
		"book_id", bookID,
		"created", created,
		"rating", book.Rating,
		"review_count", book.ReviewCount,
	)
	return &ReviewOutcome{Review: *review, Book: *book, Created: created}, nil
}

func (s *reviewService) Delete(ctx context.Context, viewer Viewer, bookID int64) (*models.Book, error) {
	if viewer.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	book, err := s.reviews.Delete(ctx, viewer.UserID, bookID)
	if err != nil {
		return nil, notFound(err, "review of book %d", bookID)
	}
	return book, nil
}

func (s *reviewService) ListForBook(ctx context.Context, viewer Viewer, bookID int64, now time.Time) ([]models.Review, error) {
	if _, err := visibleBook(ctx, s.books, s.memberships, viewer, bookID, now); err != nil {
		return nil, err
	}
	return s.reviews.ListByBook(ctx, bookID)
}

func (s *reviewService) ListForUser(ctx context.Context, viewer Viewer) ([]models.Review, error) {
	if viewer.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	return s.reviews.ListByUser(ctx, viewer.UserID)
}

func (s *reviewService) Like(ctx context.Context, viewer Viewer, reviewID int64) (int, error) {
	return s.react(ctx, viewer, reviewID, repository.ReactionLike)
}

func (s *reviewService) Dislike(ctx context.Context, viewer Viewer, reviewID int64) (int, error) {
	return s.react(ctx, viewer, reviewID, repository.ReactionDislike)
}

func (s *reviewService) react(ctx context.Context, viewer Viewer, reviewID int64, reaction repository.Reaction) (int, error) {
	if viewer.IsAnonymous() {
		return 0, ErrUnauthorized
	}
	n, err := s.reviews.IncrementReaction(ctx, reviewID, reaction)
	if err != nil {
		return 0, notFound(err, "review %d", reviewID)
	}
	return n, nil
}
