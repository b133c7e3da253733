package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"bookhub/internal/entitlement"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
)

// halfReadThreshold is the progress from which a book counts as "half read" in the stats.
const halfReadThreshold = 50

var allowedGenders = map[string]bool{"": true, "male": true, "female": true, "other": true}

// Profile is the caller's account, membership and what that membership grants today.
type Profile struct {
	User          models.User
	Membership    *models.MembershipProfile
	PremiumActive bool
	ShelfCapacity entitlement.Capacity
}

// ReadingStats summarises a user's activity.
type ReadingStats struct {
	ShelfCount    int64
	ProgressCount int64
	HalfReadCount int64
	ReviewCount   int64
	AverageRating float64
}

type ProfileService interface {
	Me(ctx context.Context, viewer Viewer, now time.Time) (*Profile, error)
	UpdateProfile(ctx context.Context, viewer Viewer, changes repository.ProfileChanges) (*models.MembershipProfile, error)
	Stats(ctx context.Context, viewer Viewer) (*ReadingStats, error)
	SetMembership(ctx context.Context, userID string, isPremium bool, expiry *time.Time) (*models.MembershipProfile, error)
}

type profileService struct {
	users       repository.UserRepository
	memberships repository.MembershipRepository
	shelves     repository.ShelfRepository
	progress    repository.ProgressRepository
	reviews     repository.ReviewRepository
}

func NewProfileService(
	users repository.UserRepository,
	memberships repository.MembershipRepository,
	shelves repository.ShelfRepository,
	progress repository.ProgressRepository,
	reviews repository.ReviewRepository,
) ProfileService {
	return &profileService{
		users:       users,
		memberships: memberships,
		shelves:     shelves,
		progress:    progress,
		reviews:     reviews,
	}
}

func (s *profileService) Me(ctx context.Context, viewer Viewer, now time.Time) (*Profile, error) {
	if viewer.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, viewer.UserID)
	if err != nil {
		return nil, notFound(err, "user %s", viewer.UserID)
	}

	premium := entitlement.HasPremiumAccess(user.Profile, now)
	return &Profile{
		User:          *user,
		Membership:    user.Profile,
		PremiumActive: premium,
		ShelfCapacity: entitlement.ShelfCapacity(premium),
	}, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, viewer Viewer, changes repository.ProfileChanges) (*models.MembershipProfile, error) {
	if viewer.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	if changes.Gender != nil {
		g := strings.ToLower(strings.TrimSpace(*changes.Gender))
		if !allowedGenders[g] {
			return nil, fmt.Errorf("%w: gender must be male, female or other", ErrValidation)
		}
		changes.Gender = &g
	}
	if changes.Interests != nil {
		changes.Interests = normalizeInterests(changes.Interests)
	}

	profile, err := s.memberships.UpdateProfile(ctx, viewer.UserID, changes)
	if err != nil {
		return nil, notFound(err, "profile of user %s", viewer.UserID)
	}
	return profile, nil
}

func (s *profileService) Stats(ctx context.Context, viewer Viewer) (*ReadingStats, error) {
	if viewer.IsAnonymous() {
		return nil, ErrUnauthorized
	}

	shelfCount, err := s.shelves.Count(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	progressCount, err := s.progress.CountByUser(ctx, viewer.UserID, MinProgress)
	if err != nil {
		return nil, err
	}
	halfRead, err := s.progress.CountByUser(ctx, viewer.UserID, halfReadThreshold)
	if err != nil {
		return nil, err
	}
	reviewCount, avg, err := s.reviews.UserSummary(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}

	return &ReadingStats{
		ShelfCount:    shelfCount,
		ProgressCount: progressCount,
		HalfReadCount: halfRead,
		ReviewCount:   reviewCount,
		AverageRating: math.Round(avg*10) / 10,
	}, nil
}

// SetMembership is the administrative write of a user's premium state.
func (s *profileService) SetMembership(ctx context.Context, userID string, isPremium bool, expiry *time.Time) (*models.MembershipProfile, error) {
	if isPremium && expiry == nil {
		return nil, fmt.Errorf("%w: premium membership needs an expiry date", ErrValidation)
	}
	profile, err := s.memberships.SetMembership(ctx, userID, isPremium, expiry)
	if err != nil {
		return nil, notFound(err, "user %s", userID)
	}
	return profile, nil
}

func normalizeInterests(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, i := range in {
		i = strings.TrimSpace(i)
		if i == "" || seen[strings.ToLower(i)] {
			continue
		}
		seen[strings.ToLower(i)] = true
		out = append(out, i)
	}
	return out
}
