package models

import "time"

// MembershipProfile holds the premium membership state and the public profile of a user.
// PremiumExpiry is a calendar date; see entitlement.HasPremiumAccess for how it is compared.
type MembershipProfile struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        string     `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	IsPremium     bool       `gorm:"not null;default:false" json:"is_premium"`
	PremiumExpiry *time.Time `gorm:"type:date" json:"premium_expiry,omitempty"`
	Avatar        string     `gorm:"size:500" json:"avatar"`
	Bio           string     `gorm:"size:500" json:"bio"`
	Gender        string     `gorm:"size:10" json:"gender"`
	Interests     []string   `gorm:"serializer:json" json:"interests"`
	CreatedAt     time.Time  `json:"member_since"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (MembershipProfile) TableName() string {
	return "membership_profiles"
}
