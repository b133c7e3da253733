package repository

import (
	"context"
	"fmt"

	"bookhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	Submit(ctx context.Context, review *models.Review) (book *models.Book, created bool, err error)
	Delete(ctx context.Context, userID string, bookID int64) (*models.Book, error)
	ListByBook(ctx context.Context, bookID int64) ([]models.Review, error)
	ListByUser(ctx context.Context, userID string) ([]models.Review, error)
	GenresReviewedAmong(ctx context.Context, userID string, bookIDs []int64) ([]string, error)
	IncrementReaction(ctx context.Context, reviewID int64, reaction Reaction) (int, error)
	UserSummary(ctx context.Context, userID string) (count int64, average float64, err error)
}

// Reaction is a review counter column.
type Reaction string

const (
	ReactionLike    Reaction = "likes"
	ReactionDislike Reaction = "dislikes"
)

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Submit creates the user's review of the book or overwrites its rating and content in place,
// then recomputes the book aggregate, all in one transaction. The book row is locked FOR UPDATE
// first, so submissions for the same book are serialised and no aggregate update is lost.
// It returns gorm.ErrRecordNotFound when the book does not exist.
func (r *reviewRepository) Submit(ctx context.Context, review *models.Review) (*models.Book, bool, error) {
	var book models.Book
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&book, review.BookID).Error; err != nil {
			return err
		}

		var existing []models.Review
		if err := tx.Where("user_id = ? AND book_id = ?", review.UserID, review.BookID).
			Limit(1).
			Find(&existing).Error; err != nil {
			return fmt.Errorf("find review: %w", err)
		}

		if len(existing) > 0 {
			current := existing[0]
			if err := tx.Model(&current).Updates(map[string]any{
				"rating":  review.Rating,
				"content": review.Content,
			}).Error; err != nil {
				return fmt.Errorf("update review: %w", err)
			}
			current.Rating = review.Rating
			current.Content = review.Content
			*review = current
		} else {
			if err := tx.Create(review).Error; err != nil {
				return fmt.Errorf("create review: %w", err)
			}
			created = true
		}

		return recomputeAggregate(tx, &book)
	})
	if err != nil {
		return nil, false, err
	}
	return &book, created, nil
}

// Delete removes the user's review of the book and recomputes the aggregate in the same transaction.
// It returns gorm.ErrRecordNotFound when the book or the review does not exist.
func (r *reviewRepository) Delete(ctx context.Context, userID string, bookID int64) (*models.Book, error) {
	var book models.Book

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&book, bookID).Error; err != nil {
			return err
		}

		result := tx.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&models.Review{})
		if result.Error != nil {
			return fmt.Errorf("delete review: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return recomputeAggregate(tx, &book)
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// recomputeAggregate rereads every rating of the book inside tx and stores mean and count.
func recomputeAggregate(tx *gorm.DB, book *models.Book) error {
	var ratings []int
	if err := tx.Model(&models.Review{}).
		Where("book_id = ?", book.ID).
		Order("id ASC").
		Pluck("rating", &ratings).Error; err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}

	mean, count := Aggregate(ratings)
	if err := tx.Model(book).Updates(map[string]any{
		"rating":       mean,
		"review_count": count,
	}).Error; err != nil {
		return fmt.Errorf("update book aggregate: %w", err)
	}
	book.Rating = mean
	book.ReviewCount = count
	return nil
}

// Aggregate returns the arithmetic mean and the number of ratings. No ratings gives (0, 0).
// Ratings are summed as integers, so the same multiset always yields the same float.
func Aggregate(ratings []int) (float64, int64) {
	if len(ratings) == 0 {
		return 0, 0
	}
	var sum int64
	for _, r := range ratings {
		sum += int64(r)
	}
	n := int64(len(ratings))
	return float64(sum) / float64(n), n
}

func (r *reviewRepository) ListByBook(ctx context.Context, bookID int64) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list book reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	return reviews, nil
}

// GenresReviewedAmong returns the distinct genres of the given books that the user has reviewed.
func (r *reviewRepository) GenresReviewedAmong(ctx context.Context, userID string, bookIDs []int64) ([]string, error) {
	var genres []string
	if len(bookIDs) == 0 {
		return genres, nil
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Joins("JOIN books ON books.id = reviews.book_id").
		Where("reviews.user_id = ? AND reviews.book_id IN ?", userID, bookIDs).
		Distinct().
		Order("books.genre ASC").
		Pluck("books.genre", &genres).Error; err != nil {
		return nil, fmt.Errorf("reviewed genres: %w", err)
	}
	return genres, nil
}

// IncrementReaction bumps a counter atomically and returns its new value.
func (r *reviewRepository) IncrementReaction(ctx context.Context, reviewID int64, reaction Reaction) (int, error) {
	column := string(reaction)
	if reaction != ReactionLike && reaction != ReactionDislike {
		return 0, fmt.Errorf("unknown reaction %q", reaction)
	}

	var updated []models.Review
	result := r.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: column}}}).
		Where("id = ?", reviewID).
		Update(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return 0, fmt.Errorf("increment %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 || len(updated) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	if reaction == ReactionLike {
		return updated[0].Likes, nil
	}
	return updated[0].Dislikes, nil
}

// UserSummary returns how many reviews the user wrote and the mean of their ratings.
func (r *reviewRepository) UserSummary(ctx context.Context, userID string) (int64, float64, error) {
	var ratings []int
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("user_id = ?", userID).
		Pluck("rating", &ratings).Error; err != nil {
		return 0, 0, fmt.Errorf("user review summary: %w", err)
	}
	mean, count := Aggregate(ratings)
	return count, mean, nil
}
