package entitlement

import (
	"encoding/json"
	"testing"
	"time"

	"bookhub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func TestHasPremiumAccess(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
	today := datePtr(now)
	tomorrow := datePtr(now.AddDate(0, 0, 1))
	yesterday := datePtr(now.AddDate(0, 0, -1))

	tests := []struct {
		name    string
		profile *models.MembershipProfile
		want    bool
	}{
		{"no profile", nil, false},
		{"not premium", &models.MembershipProfile{IsPremium: false, PremiumExpiry: tomorrow}, false},
		{"premium without expiry", &models.MembershipProfile{IsPremium: true}, false},
		{"expires today", &models.MembershipProfile{IsPremium: true, PremiumExpiry: today}, false},
		{"expired yesterday", &models.MembershipProfile{IsPremium: true, PremiumExpiry: yesterday}, false},
		{"expires tomorrow", &models.MembershipProfile{IsPremium: true, PremiumExpiry: tomorrow}, true},
		{"expires next year", &models.MembershipProfile{IsPremium: true, PremiumExpiry: datePtr(now.AddDate(1, 0, 0))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPremiumAccess(tt.profile, now))
		})
	}
}

func TestHasPremiumAccess_LapsesAtStartOfExpiryDay(t *testing.T) {
	expiry := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	profile := &models.MembershipProfile{IsPremium: true, PremiumExpiry: &expiry}

	lastMinute := time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)
	firstMinute := time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)

	assert.True(t, HasPremiumAccess(profile, lastMinute))
	assert.False(t, HasPremiumAccess(profile, firstMinute))
}

func TestHasPremiumAccess_UsesCallerCalendarDate(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	expiry := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	profile := &models.MembershipProfile{IsPremium: true, PremiumExpiry: &expiry}

	// 2026-03-14 20:00 UTC is already 2026-03-15 in UTC+8
	now := time.Date(2026, 3, 15, 4, 0, 0, 0, loc)
	assert.False(t, HasPremiumAccess(profile, now))
}

func TestShelfCapacity(t *testing.T) {
	standard := ShelfCapacity(false)
	limit, bounded := standard.Limit()
	assert.True(t, bounded)
	assert.Equal(t, StandardShelfLimit, limit)
	assert.True(t, standard.Allows(9))
	assert.False(t, standard.Allows(10))
	assert.False(t, standard.Allows(11))

	premium := ShelfCapacity(true)
	_, bounded = premium.Limit()
	assert.False(t, bounded)
	assert.True(t, premium.IsUnlimited())
	assert.True(t, premium.Allows(10_000))
}

func TestCapacity_JSON(t *testing.T) {
	b, err := json.Marshal(ShelfCapacity(false))
	require.NoError(t, err)
	assert.JSONEq(t, `10`, string(b))

	b, err = json.Marshal(ShelfCapacity(true))
	require.NoError(t, err)
	assert.JSONEq(t, `"unlimited"`, string(b))

	var c Capacity
	require.NoError(t, json.Unmarshal([]byte(`"unlimited"`), &c))
	assert.True(t, c.IsUnlimited())

	require.NoError(t, json.Unmarshal([]byte(`3`), &c))
	assert.Equal(t, "3", c.String())

	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &c))
}
