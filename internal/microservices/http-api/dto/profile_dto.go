package dto

import (
	"time"

	"bookhub/internal/entitlement"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/microservices/http-api/service"
)

type UpdateProfileRequest struct {
	Avatar    *string  `json:"avatar" binding:"omitempty,url,max=500"`
	Bio       *string  `json:"bio" binding:"omitempty,max=500"`
	Gender    *string  `json:"gender" binding:"omitempty,max=10"`
	Interests []string `json:"interests" binding:"omitempty,max=20,dive,max=50"`
}

// SetMembershipRequest: premium_expiry is a calendar date, required when is_premium is true.
type SetMembershipRequest struct {
	IsPremium     *bool   `json:"is_premium" binding:"required"`
	PremiumExpiry *string `json:"premium_expiry" binding:"omitempty,datetime=2006-01-02"`
}

type MembershipResponse struct {
	IsPremium     bool                 `json:"is_premium"`
	PremiumExpiry *string              `json:"premium_expiry"`
	PremiumActive bool                 `json:"premium_active"`
	ShelfCapacity entitlement.Capacity `json:"shelf_capacity"`
	MemberSince   time.Time            `json:"member_since"`
}

type ProfileResponse struct {
	UserID     string             `json:"user_id"`
	Username   string             `json:"username"`
	Email      string             `json:"email"`
	Role       string             `json:"role"`
	Avatar     string             `json:"avatar"`
	Bio        string             `json:"bio"`
	Gender     string             `json:"gender"`
	Interests  []string           `json:"interests"`
	Membership MembershipResponse `json:"membership"`
	LastLogin  *time.Time         `json:"last_login,omitempty"`
}

type StatsResponse struct {
	ShelfCount    int64   `json:"shelf_count"`
	ProgressCount int64   `json:"progress_count"`
	HalfReadCount int64   `json:"half_read_count"`
	ReviewCount   int64   `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

func (d UpdateProfileRequest) ToChanges() repository.ProfileChanges {
	return repository.ProfileChanges{
		Avatar:    d.Avatar,
		Bio:       d.Bio,
		Gender:    d.Gender,
		Interests: d.Interests,
	}
}

// Expiry parses PremiumExpiry; nil when absent.
func (d SetMembershipRequest) Expiry() (*time.Time, error) {
	if d.PremiumExpiry == nil {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, *d.PremiumExpiry)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func NewProfileResponse(p *service.Profile) ProfileResponse {
	resp := ProfileResponse{
		UserID:    p.User.ID,
		Username:  p.User.Username,
		Email:     p.User.Email,
		Role:      p.User.Role,
		Interests: []string{},
		LastLogin: p.User.LastLogin,
		Membership: MembershipResponse{
			PremiumActive: p.PremiumActive,
			ShelfCapacity: p.ShelfCapacity,
		},
	}
	if m := p.Membership; m != nil {
		resp.Avatar = m.Avatar
		resp.Bio = m.Bio
		resp.Gender = m.Gender
		if m.Interests != nil {
			resp.Interests = m.Interests
		}
		resp.Membership.IsPremium = m.IsPremium
		resp.Membership.PremiumExpiry = formatDate(m.PremiumExpiry)
		resp.Membership.MemberSince = m.CreatedAt
	}
	return resp
}

func NewStatsResponse(s *service.ReadingStats) StatsResponse {
	return StatsResponse{
		ShelfCount:    s.ShelfCount,
		ProgressCount: s.ProgressCount,
		HalfReadCount: s.HalfReadCount,
		ReviewCount:   s.ReviewCount,
		AverageRating: s.AverageRating,
	}
}
