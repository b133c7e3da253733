package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// PopularLimit is the size of the popularity list and of every recommendation list.
const PopularLimit = 10

// BookQuery is a catalogue listing request as received from the client.
type BookQuery struct {
	Category    string
	Search      string
	Sort        string
	PremiumOnly *bool
}

type CatalogService interface {
	ListBooks(ctx context.Context, viewer Viewer, q BookQuery, now time.Time) ([]models.Book, error)
	GetBook(ctx context.Context, viewer Viewer, id int64, now time.Time) (*models.Book, error)
	Popular(ctx context.Context) ([]models.Book, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, slug string) (*models.Category, error)

	BookForEdit(ctx context.Context, id int64) (*models.Book, error)
	CreateBook(ctx context.Context, book *models.Book, categoryIDs []int64) error
	UpdateBook(ctx context.Context, book *models.Book) error
	DeleteBook(ctx context.Context, id int64) error
	CreateCategory(ctx context.Context, c *models.Category) error
}

// ProgressEvictor drops cached reading progress for a book.
// *repository.ProgressCache implements it, including as a nil pointer.
type ProgressEvictor interface {
	EvictBook(ctx context.Context, bookID int64) error
}

type catalogService struct {
	books       repository.BookRepository
	categories  repository.CategoryRepository
	memberships repository.MembershipRepository
	progress    ProgressEvictor
	log         *slog.Logger
}

// NewCatalogService builds the catalogue service. progress may be nil when nothing caches progress.
func NewCatalogService(
	books repository.BookRepository,
	categories repository.CategoryRepository,
	memberships repository.MembershipRepository,
	progress ProgressEvictor,
	log *slog.Logger,
) CatalogService {
	return &catalogService{
		books:       books,
		categories:  categories,
		memberships: memberships,
		progress:    progress,
		log:         log,
	}
}

// ListBooks applies the category and search predicates, then hides premium-only books
// from viewers without premium access. An unknown sort field falls back to catalogue order.
func (s *catalogService) ListBooks(ctx context.Context, viewer Viewer, q BookQuery, now time.Time) ([]models.Book, error) {
	premium, err := premiumAccess(ctx, s.memberships, viewer, now)
	if err != nil {
		return nil, err
	}

	order, ok := repository.ParseSort(q.Sort)
	if !ok {
		s.log.DebugContext(ctx, "sort_ignored", "sort", q.Sort)
	}

	return s.books.Find(ctx, repository.BookFilter{
		Category:           q.Category,
		Search:             q.Search,
		PremiumOnly:        q.PremiumOnly,
		ExcludePremiumOnly: !premium,
		Sort:               order,
	})
}

// GetBook hides premium-only books from viewers without access behind ErrNotFound.
func (s *catalogService) GetBook(ctx context.Context, viewer Viewer, id int64, now time.Time) (*models.Book, error) {
	return visibleBook(ctx, s.books, s.memberships, viewer, id, now)
}

func (s *catalogService) Popular(ctx context.Context) ([]models.Book, error) {
	return s.books.TopByHeat(ctx, PopularLimit)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *catalogService) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	c, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "category %q", slug)
	}
	return c, nil
}

// BookForEdit loads a book regardless of entitlement, for catalogue maintenance.
func (s *catalogService) BookForEdit(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "book %d", id)
	}
	return book, nil
}

func (s *catalogService) CreateBook(ctx context.Context, book *models.Book, categoryIDs []int64) error {
	if err := validateBook(book); err != nil {
		return err
	}
	if err := s.books.Create(ctx, book, categoryIDs); err != nil {
		if repository.IsUniqueViolation(err) {
			return fmt.Errorf("%w: isbn %s", ErrConflict, derefString(book.ISBN))
		}
		return err
	}
	s.log.InfoContext(ctx, "book_created", "book_id", book.ID, "premium_only", book.IsPremiumOnly)
	return nil
}

func (s *catalogService) UpdateBook(ctx context.Context, book *models.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	if err := s.books.Update(ctx, book); err != nil {
		if repository.IsUniqueViolation(err) {
			return fmt.Errorf("%w: isbn %s", ErrConflict, derefString(book.ISBN))
		}
		return notFound(err, "book %d", book.ID)
	}
	return nil
}

func (s *catalogService) DeleteBook(ctx context.Context, id int64) error {
	if err := s.books.Delete(ctx, id); err != nil {
		return notFound(err, "book %d", id)
	}
	s.log.InfoContext(ctx, "book_deleted", "book_id", id)

	// Progress rows went with the book; cached copies must follow.
	if s.progress != nil {
		if err := s.progress.EvictBook(ctx, id); err != nil {
			s.log.WarnContext(ctx, "progress_cache_evict_failed", "book_id", id, "error", err)
		}
	}
	return nil
}

func (s *catalogService) CreateCategory(ctx context.Context, c *models.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Slug = strings.ToLower(strings.TrimSpace(c.Slug))
	if c.Name == "" || c.Slug == "" {
		return fmt.Errorf("%w: category name and slug are required", ErrValidation)
	}
	if c.Slug == "all" {
		return fmt.Errorf("%w: slug \"all\" is reserved", ErrValidation)
	}
	if err := s.categories.Create(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return fmt.Errorf("%w: category %q", ErrConflict, c.Slug)
		}
		return err
	}
	return nil
}

func validateBook(b *models.Book) error {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Genre = strings.TrimSpace(b.Genre)
	switch {
	case b.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case b.Author == "":
		return fmt.Errorf("%w: author is required", ErrValidation)
	case b.Genre == "":
		return fmt.Errorf("%w: genre is required", ErrValidation)
	case b.Heat < 0 || b.ReadingCount < 0 || b.Pages < 0:
		return fmt.Errorf("%w: counters must not be negative", ErrValidation)
	}
	if b.ISBN != nil && strings.TrimSpace(*b.ISBN) == "" {
		b.ISBN = nil
	}
	return nil
}

// notFound maps gorm.ErrRecordNotFound to ErrNotFound and passes other errors through.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
	}
	return err
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
