// Package entitlement decides what a membership grants at a point in time.
//
// Nothing here is cached: callers evaluate once per request with the request's clock,
// because a premium membership can lapse between two requests of the same session.
package entitlement

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"bookhub/internal/microservices/http-api/models"
)

// StandardShelfLimit is the maximum number of shelf entries without premium access.
const StandardShelfLimit = 10

const unlimitedLabel = "unlimited"

// HasPremiumAccess reports whether the profile grants premium access on now's calendar date.
// Access requires IsPremium and an expiry date strictly after today: on the expiry date itself
// access is already gone. A nil profile (no membership record) is non-premium.
func HasPremiumAccess(profile *models.MembershipProfile, now time.Time) bool {
	if profile == nil || !profile.IsPremium || profile.PremiumExpiry == nil {
		return false
	}
	return civilDate(*profile.PremiumExpiry).After(civilDate(now))
}

// civilDate drops the clock and the zone, keeping the calendar date as seen in t's own location.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Capacity is a shelf size limit. The zero value is a limit of zero entries.
type Capacity struct {
	limit     int
	unlimited bool
}

func Limited(n int) Capacity {
	return Capacity{limit: n}
}

func Unlimited() Capacity {
	return Capacity{unlimited: true}
}

// ShelfCapacity returns the shelf limit for the given access level.
func ShelfCapacity(hasPremium bool) Capacity {
	if hasPremium {
		return Unlimited()
	}
	return Limited(StandardShelfLimit)
}

func (c Capacity) IsUnlimited() bool { return c.unlimited }

// Limit returns the entry limit and false when the capacity is unlimited.
func (c Capacity) Limit() (int, bool) {
	if c.unlimited {
		return 0, false
	}
	return c.limit, true
}

// Allows reports whether one more entry fits on a shelf currently holding count entries.
func (c Capacity) Allows(count int64) bool {
	return c.unlimited || count < int64(c.limit)
}

func (c Capacity) String() string {
	if c.unlimited {
		return unlimitedLabel
	}
	return strconv.Itoa(c.limit)
}

// MarshalJSON encodes the capacity as an integer, or as "unlimited".
func (c Capacity) MarshalJSON() ([]byte, error) {
	if c.unlimited {
		return json.Marshal(unlimitedLabel)
	}
	return json.Marshal(c.limit)
}

func (c *Capacity) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		if label != unlimitedLabel {
			return errors.New("entitlement: capacity must be an integer or \"unlimited\"")
		}
		*c = Unlimited()
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Limited(n)
	return nil
}
