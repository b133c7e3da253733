package service

import (
	"context"
	"testing"
	"time"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type profileFixture struct {
	users       *MockUserRepository
	memberships *MockMembershipRepository
	shelves     *MockShelfRepository
	progress    *MockProgressRepository
	reviews     *MockReviewRepository
	svc         ProfileService
}

func newProfileFixture() *profileFixture {
	f := &profileFixture{
		users:       new(MockUserRepository),
		memberships: new(MockMembershipRepository),
		shelves:     new(MockShelfRepository),
		progress:    new(MockProgressRepository),
		reviews:     new(MockReviewRepository),
	}
	f.svc = NewProfileService(f.users, f.memberships, f.shelves, f.progress, f.reviews)
	return f
}

func TestMe_ReflectsMembershipOnTheDay(t *testing.T) {
	now := time.Date(2026, 5, 20, 8, 0, 0, 0, time.UTC)
	user := &models.User{
		ID:       "u-1",
		Username: "reader",
		Profile:  &models.MembershipProfile{UserID: "u-1", IsPremium: true, PremiumExpiry: dateOf(now.AddDate(0, 0, 1))},
	}

	f := newProfileFixture()
	f.users.On("FindByID", mock.Anything, "u-1").Return(user, nil)

	p, err := f.svc.Me(context.Background(), UserViewer("u-1"), now)
	require.NoError(t, err)
	assert.True(t, p.PremiumActive)
	assert.True(t, p.ShelfCapacity.IsUnlimited())

	p, err = f.svc.Me(context.Background(), UserViewer("u-1"), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, p.PremiumActive)
	limit, bounded := p.ShelfCapacity.Limit()
	assert.True(t, bounded)
	assert.Equal(t, 10, limit)
}

func TestMe_UnknownUser(t *testing.T) {
	f := newProfileFixture()
	f.users.On("FindByID", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.Me(context.Background(), UserViewer("ghost"), time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile_NormalizesInput(t *testing.T) {
	f := newProfileFixture()
	gender := " Female "
	f.memberships.On("UpdateProfile", mock.Anything, "u-1", mock.MatchedBy(func(c repository.ProfileChanges) bool {
		return c.Gender != nil && *c.Gender == "female" &&
			assert.ObjectsAreEqual([]string{"Fantasy", "history"}, c.Interests)
	})).Return(&models.MembershipProfile{UserID: "u-1"}, nil).Once()

	_, err := f.svc.UpdateProfile(context.Background(), UserViewer("u-1"), repository.ProfileChanges{
		Gender:    &gender,
		Interests: []string{"Fantasy", " ", "fantasy", "history "},
	})

	require.NoError(t, err)
	f.memberships.AssertExpectations(t)
}

func TestUpdateProfile_RejectsUnknownGender(t *testing.T) {
	f := newProfileFixture()
	gender := "robot"

	_, err := f.svc.UpdateProfile(context.Background(), UserViewer("u-1"), repository.ProfileChanges{Gender: &gender})

	assert.ErrorIs(t, err, ErrValidation)
	f.memberships.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestStats(t *testing.T) {
	f := newProfileFixture()
	f.shelves.On("Count", mock.Anything, "u-1").Return(int64(4), nil)
	f.progress.On("CountByUser", mock.Anything, "u-1", 0).Return(int64(3), nil)
	f.progress.On("CountByUser", mock.Anything, "u-1", 50).Return(int64(2), nil)
	f.reviews.On("UserSummary", mock.Anything, "u-1").Return(int64(3), 11.0/3.0, nil)

	stats, err := f.svc.Stats(context.Background(), UserViewer("u-1"))

	require.NoError(t, err)
	assert.Equal(t, &ReadingStats{
		ShelfCount:    4,
		ProgressCount: 3,
		HalfReadCount: 2,
		ReviewCount:   3,
		AverageRating: 3.7,
	}, stats)
}

func TestSetMembership(t *testing.T) {
	t.Run("premium needs an expiry", func(t *testing.T) {
		f := newProfileFixture()
		_, err := f.svc.SetMembership(context.Background(), "u-1", true, nil)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("downgrade without expiry", func(t *testing.T) {
		f := newProfileFixture()
		f.memberships.On("SetMembership", mock.Anything, "u-1", false, (*time.Time)(nil)).
			Return(&models.MembershipProfile{UserID: "u-1"}, nil).Once()

		p, err := f.svc.SetMembership(context.Background(), "u-1", false, nil)
		require.NoError(t, err)
		assert.False(t, p.IsPremium)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newProfileFixture()
		expiry := dateOf(time.Now().AddDate(0, 1, 0))
		f.memberships.On("SetMembership", mock.Anything, "ghost", true, expiry).Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := f.svc.SetMembership(context.Background(), "ghost", true, expiry)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
