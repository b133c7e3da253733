package repository

import (
	"context"
	"fmt"
	"strings"

	"bookhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type BookRepository interface {
	Find(ctx context.Context, filter BookFilter) ([]models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	TopByHeat(ctx context.Context, limit int) ([]models.Book, error)
	TopRatedInGenres(ctx context.Context, genres []string, excludeIDs []int64, limit int) ([]models.Book, error)
	Create(ctx context.Context, book *models.Book, categoryIDs []int64) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int64) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Find applies the catalogue filter and ordering.
// Example: search "dune herbert" ->
//
//	WHERE (title ILIKE '%dune%' OR author ILIKE '%dune%' OR ...) AND (title ILIKE '%herbert%' OR ...)
func (r *bookRepository) Find(ctx context.Context, filter BookFilter) ([]models.Book, error) {
	db := r.db.WithContext(ctx).Model(&models.Book{})

	if category := filter.category(); category != "" {
		inCategory := r.db.Table("book_categories").
			Select("book_categories.book_id").
			Joins("JOIN categories ON categories.id = book_categories.category_id").
			Where("categories.slug = ?", category)
		db = db.Where("books.genre = ? OR books.id IN (?)", category, inCategory)
	}

	if tokens := filter.searchTokens(); len(tokens) > 0 {
		clauses := make([]string, 0, len(tokens))
		args := make([]interface{}, 0, len(tokens)*4)
		for _, t := range tokens {
			p := likePattern(t)
			clauses = append(clauses, "(books.title ILIKE ? OR books.author ILIKE ? OR books.genre ILIKE ? OR books.description ILIKE ?)")
			args = append(args, p, p, p, p)
		}
		db = db.Where(strings.Join(clauses, " AND "), args...)
	}

	if filter.PremiumOnly != nil {
		db = db.Where("books.is_premium_only = ?", *filter.PremiumOnly)
	}
	if filter.ExcludePremiumOnly {
		db = db.Where("books.is_premium_only = ?", false)
	}

	for _, o := range filter.Sort.clauses() {
		db = db.Order(o)
	}

	var list []models.Book
	if err := db.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	return list, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).Preload("Categories").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepository) TopByHeat(ctx context.Context, limit int) ([]models.Book, error) {
	var list []models.Book
	if err := r.db.WithContext(ctx).
		Order("heat DESC").
		Order("id ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("top books by heat: %w", err)
	}
	return list, nil
}

func (r *bookRepository) TopRatedInGenres(ctx context.Context, genres []string, excludeIDs []int64, limit int) ([]models.Book, error) {
	var list []models.Book
	if len(genres) == 0 {
		return list, nil
	}
	db := r.db.WithContext(ctx).Where("genre IN ?", genres)
	if len(excludeIDs) > 0 {
		db = db.Where("id NOT IN ?", excludeIDs)
	}
	if err := db.Order("rating DESC").Order("id ASC").Limit(limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("top rated books in genres: %w", err)
	}
	return list, nil
}

// Create inserts the book and links the given categories in one transaction.
func (r *bookRepository) Create(ctx context.Context, book *models.Book, categoryIDs []int64) error {
	// derived fields start empty whatever the caller passed
	book.Rating = 0
	book.ReviewCount = 0

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories").Create(book).Error; err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		categories := make([]models.Category, 0, len(categoryIDs))
		for _, id := range categoryIDs {
			categories = append(categories, models.Category{ID: id})
		}
		if err := tx.Model(book).Association("Categories").Append(&categories); err != nil {
			return fmt.Errorf("append categories: %w", err)
		}
		return nil
	})
}

// Update writes the descriptive columns. rating and review_count are never written here,
// so a concurrent review transaction cannot be overwritten by a stale copy.
func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	result := r.db.WithContext(ctx).
		Model(book).
		Select("title", "author", "genre", "description", "cover_url", "publisher",
			"publish_date", "pages", "isbn", "reading_count", "heat", "is_premium_only").
		Updates(book)
	if result.Error != nil {
		return fmt.Errorf("update book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
