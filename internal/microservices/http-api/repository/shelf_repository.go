package repository

import (
	"context"
	"errors"
	"fmt"

	"bookhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CapacityCheck decides whether one more entry may be added to a shelf holding count entries.
// profile is nil when the user has no membership record. A non-nil error aborts the add.
type CapacityCheck func(profile *models.MembershipProfile, count int64) error

// ShelfRules are evaluated inside the add transaction against the membership read under the
// user lock.
type ShelfRules struct {
	// Visible reports whether the user may see the book. A nil Visible shows every book.
	Visible func(book *models.Book, profile *models.MembershipProfile) bool
	Admit   CapacityCheck
}

type ShelfRepository interface {
	Add(ctx context.Context, userID string, bookID int64, rules ShelfRules) (created bool, err error)
	Remove(ctx context.Context, userID string, bookID int64) (removed bool, err error)
	List(ctx context.Context, userID string) ([]models.ShelfEntry, error)
	BookIDs(ctx context.Context, userID string) ([]int64, error)
	Count(ctx context.Context, userID string) (int64, error)
}

type shelfRepository struct {
	db *gorm.DB
}

func NewShelfRepository(db *gorm.DB) ShelfRepository {
	return &shelfRepository{db: db}
}

// Add inserts a (user, book) entry. It returns gorm.ErrRecordNotFound when the book does not
// exist or rules.Visible hides it, ErrUserNotFound when the user row is gone, created=false when
// the entry is already present, and rules.Admit's error when it refuses the insert.
//
// The user row is locked FOR UPDATE for the whole transaction, so concurrent adds by the same
// user run one after the other and each sees the count left by the previous one.
func (r *shelfRepository) Add(ctx context.Context, userID string, bookID int64, rules ShelfRules) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.Select("id", "is_premium_only").First(&book, bookID).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var profiles []models.MembershipProfile
		if err := tx.Where("user_id = ?", userID).Limit(1).Find(&profiles).Error; err != nil {
			return fmt.Errorf("load membership: %w", err)
		}
		var profile *models.MembershipProfile
		if len(profiles) > 0 {
			profile = &profiles[0]
		}
		if rules.Visible != nil && !rules.Visible(&book, profile) {
			return gorm.ErrRecordNotFound
		}

		var existing int64
		if err := tx.Model(&models.ShelfEntry{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check shelf entry: %w", err)
		}
		if existing > 0 {
			return nil
		}

		var count int64
		if err := tx.Model(&models.ShelfEntry{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("count shelf: %w", err)
		}

		if rules.Admit != nil {
			if err := rules.Admit(profile, count); err != nil {
				return err
			}
		}

		entry := &models.ShelfEntry{UserID: userID, BookID: bookID}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("add to shelf: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *shelfRepository) Remove(ctx context.Context, userID string, bookID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.ShelfEntry{})

	if result.Error != nil {
		return false, fmt.Errorf("remove from shelf: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *shelfRepository) List(ctx context.Context, userID string) ([]models.ShelfEntry, error) {
	var entries []models.ShelfEntry

	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Order("id DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list shelf: %w", err)
	}

	return entries, nil
}

func (r *shelfRepository) BookIDs(ctx context.Context, userID string) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.ShelfEntry{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("book_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("shelf book ids: %w", err)
	}
	return ids, nil
}

func (r *shelfRepository) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ShelfEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
