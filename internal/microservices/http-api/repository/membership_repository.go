package repository

import (
	"context"
	"fmt"
	"time"

	"bookhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// ProfileChanges carries the user-editable profile fields; nil fields are left untouched.
type ProfileChanges struct {
	Avatar    *string
	Bio       *string
	Gender    *string
	Interests []string
}

type MembershipRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.MembershipProfile, error)
	SetMembership(ctx context.Context, userID string, isPremium bool, expiry *time.Time) (*models.MembershipProfile, error)
	UpdateProfile(ctx context.Context, userID string, changes ProfileChanges) (*models.MembershipProfile, error)
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// FindByUserID returns nil, nil when the user has no membership record.
func (r *membershipRepository) FindByUserID(ctx context.Context, userID string) (*models.MembershipProfile, error) {
	var profiles []models.MembershipProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("find membership: %w", err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

// SetMembership writes the premium flag and expiry, creating the profile for users that predate it.
// It returns gorm.ErrRecordNotFound when the user does not exist.
func (r *membershipRepository) SetMembership(ctx context.Context, userID string, isPremium bool, expiry *time.Time) (*models.MembershipProfile, error) {
	var profile models.MembershipProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Where(models.MembershipProfile{UserID: userID}).
			Attrs(models.MembershipProfile{Interests: []string{}}).
			FirstOrCreate(&profile).Error; err != nil {
			return fmt.Errorf("load membership: %w", err)
		}
		return tx.Model(&profile).Updates(map[string]any{
			"is_premium":     isPremium,
			"premium_expiry": expiry,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	profile.IsPremium = isPremium
	profile.PremiumExpiry = expiry
	return &profile, nil
}

func (r *membershipRepository) UpdateProfile(ctx context.Context, userID string, changes ProfileChanges) (*models.MembershipProfile, error) {
	var profile models.MembershipProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			return err
		}
		if changes.Avatar != nil {
			profile.Avatar = *changes.Avatar
		}
		if changes.Bio != nil {
			profile.Bio = *changes.Bio
		}
		if changes.Gender != nil {
			profile.Gender = *changes.Gender
		}
		if changes.Interests != nil {
			profile.Interests = changes.Interests
		}
		return tx.Model(&profile).
			Select("avatar", "bio", "gender", "interests").
			Updates(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
