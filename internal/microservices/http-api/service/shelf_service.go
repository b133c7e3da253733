package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bookhub/internal/entitlement"
	"bookhub/internal/metrics"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// ShelfView is a user's shelf together with the capacity their membership grants right now.
type ShelfView struct {
	Entries  []models.ShelfEntry
	Capacity entitlement.Capacity
}

type ShelfService interface {
	// Add returns created=false when the book was already on the shelf.
	Add(ctx context.Context, viewer Viewer, bookID int64, now time.Time) (created bool, err error)
	// Remove returns removed=false when there was nothing to remove.
	Remove(ctx context.Context, viewer Viewer, bookID int64) (removed bool, err error)
	List(ctx context.Context, viewer Viewer, now time.Time) (*ShelfView, error)
}

type shelfService struct {
	shelves     repository.ShelfRepository
	memberships repository.MembershipRepository
	metrics     *metrics.Metrics
	log         *slog.Logger
}

func NewShelfService(
	shelves repository.ShelfRepository,
	memberships repository.MembershipRepository,
	m *metrics.Metrics,
	log *slog.Logger,
) ShelfService {
	return &shelfService{shelves: shelves, memberships: memberships, metrics: m, log: log}
}

func (s *shelfService) Add(ctx context.Context, viewer Viewer, bookID int64, now time.Time) (bool, error) {
	if viewer.IsAnonymous() {
		return false, ErrUnauthorized
	}

	// evaluated inside the shelf transaction, against the profile read under the user lock
	rules := repository.ShelfRules{
		Visible: func(book *models.Book, profile *models.MembershipProfile) bool {
			return !book.IsPremiumOnly || entitlement.HasPremiumAccess(profile, now)
		},
		Admit: func(profile *models.MembershipProfile, count int64) error {
			capacity := entitlement.ShelfCapacity(entitlement.HasPremiumAccess(profile, now))
			if !capacity.Allows(count) {
				return fmt.Errorf("%w: shelf holds %d of %s books", ErrCapacityExceeded, count, capacity)
			}
			return nil
		},
	}

	created, err := s.shelves.Add(ctx, viewer.UserID, bookID, rules)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return false, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.metrics.ShelfAdd(metrics.ShelfBookMissing)
		return false, fmt.Errorf("%w: book %d", ErrNotFound, bookID)
	case errors.Is(err, ErrCapacityExceeded):
		s.metrics.ShelfAdd(metrics.ShelfCapacityDenied)
		s.log.InfoContext(ctx, "shelf_capacity_exceeded", "user_id", viewer.UserID, "book_id", bookID)
		return false, err
	case err != nil:
		return false, err
	}

	if created {
		s.metrics.ShelfAdd(metrics.ShelfAdded)
	} else {
		s.metrics.ShelfAdd(metrics.ShelfAlreadyPresent)
	}
	return created, nil
}

func (s *shelfService) Remove(ctx context.Context, viewer Viewer, bookID int64) (bool, error) {
	if viewer.IsAnonymous() {
		return false, ErrUnauthorized
	}
	return s.shelves.Remove(ctx, viewer.UserID, bookID)
}

func (s *shelfService) List(ctx context.Context, viewer Viewer, now time.Time) (*ShelfView, error) {
	if viewer.IsAnonymous() {
		return nil, ErrUnauthorized
	}

	entries, err := s.shelves.List(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	premium, err := premiumAccess(ctx, s.memberships, viewer, now)
	if err != nil {
		return nil, err
	}

	return &ShelfView{
		Entries:  entries,
		Capacity: entitlement.ShelfCapacity(premium),
	}, nil
}
