package service

import (
	"context"
	"fmt"
	"time"

	"bookhub/internal/entitlement"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
)

// premiumAccess loads the viewer's membership and evaluates it against now.
// Anonymous viewers never have premium access and cost no query.
func premiumAccess(ctx context.Context, memberships repository.MembershipRepository, viewer Viewer, now time.Time) (bool, error) {
	if viewer.IsAnonymous() {
		return false, nil
	}
	profile, err := memberships.FindByUserID(ctx, viewer.UserID)
	if err != nil {
		return false, err
	}
	return entitlement.HasPremiumAccess(profile, now), nil
}

// visibleBook loads a book the viewer may see. A premium-only book is reported as
// ErrNotFound to a viewer without premium access, so its existence is not revealed.
func visibleBook(
	ctx context.Context,
	books repository.BookRepository,
	memberships repository.MembershipRepository,
	viewer Viewer,
	id int64,
	now time.Time,
) (*models.Book, error) {
	book, err := books.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "book %d", id)
	}
	if !book.IsPremiumOnly {
		return book, nil
	}

	premium, err := premiumAccess(ctx, memberships, viewer, now)
	if err != nil {
		return nil, err
	}
	if !premium {
		return nil, fmt.Errorf("%w: book %d", ErrNotFound, id)
	}
	return book, nil
}
