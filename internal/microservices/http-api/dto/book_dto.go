package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ListBooksQuery is bound from GET /api/books query parameters.
type ListBooksQuery struct {
	Category    string `form:"category"`
	Search      string `form:"search" binding:"max=200"`
	Sort        string `form:"sort"`
	PremiumOnly *bool  `form:"premium_only"`
}

// CreateBookRequest used for POST /api/admin/books
type CreateBookRequest struct {
	Title         string  `json:"title" binding:"required,max=200"`
	Author        string  `json:"author" binding:"required,max=100"`
	Genre         string  `json:"genre" binding:"required,max=50"`
	Description   string  `json:"description"`
	CoverURL      string  `json:"cover_url" binding:"omitempty,url,max=500"`
	Publisher     string  `json:"publisher" binding:"max=100"`
	PublishDate   string  `json:"publish_date" binding:"omitempty,datetime=2006-01-02"`
	Pages         int     `json:"pages" binding:"min=0"`
	ISBN          *string `json:"isbn" binding:"omitempty,isbn"`
	Heat          int64   `json:"heat" binding:"min=0"`
	IsPremiumOnly bool    `json:"is_premium_only"`
	CategoryIDs   []int64 `json:"category_ids" binding:"omitempty,dive,gt=0"`
}

// UpdateBookRequest used for PUT /api/admin/books/:book_id (partial updates allowed)
type UpdateBookRequest struct {
	Title         *string `json:"title" binding:"omitempty,min=1,max=200"`
	Author        *string `json:"author" binding:"omitempty,min=1,max=100"`
	Genre         *string `json:"genre" binding:"omitempty,min=1,max=50"`
	Description   *string `json:"description"`
	CoverURL      *string `json:"cover_url" binding:"omitempty,url,max=500"`
	Publisher     *string `json:"publisher" binding:"omitempty,max=100"`
	PublishDate   *string `json:"publish_date" binding:"omitempty,datetime=2006-01-02"`
	Pages         *int    `json:"pages" binding:"omitempty,min=0"`
	ISBN          *string `json:"isbn" binding:"omitempty,isbn"`
	ReadingCount  *int64  `json:"reading_count" binding:"omitempty,min=0"`
	Heat          *int64  `json:"heat" binding:"omitempty,min=0"`
	IsPremiumOnly *bool   `json:"is_premium_only"`
}

// BookSummary is the list shape of a book.
type BookSummary struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Genre         string  `json:"genre"`
	CoverURL      string  `json:"cover_url"`
	Rating        float64 `json:"rating"`
	ReviewCount   int64   `json:"review_count"`
	Heat          int64   `json:"heat"`
	IsPremiumOnly bool    `json:"is_premium_only"`
}

// BookDetail is the single-book shape.
type BookDetail struct {
	BookSummary
	Description  string             `json:"description"`
	Publisher    string             `json:"publisher"`
	PublishDate  *string            `json:"publish_date"`
	Pages        int                `json:"pages"`
	ISBN         *string            `json:"isbn"`
	ReadingCount int64              `json:"reading_count"`
	Categories   []CategoryResponse `json:"categories"`
	CreatedAt    time.Time          `json:"created_at"`
}

type BookListResponse struct {
	Items []BookSummary `json:"items"`
	Total int           `json:"total"`
}

// BookAggregate is the derived rating state of a book.
type BookAggregate struct {
	BookID      int64   `json:"book_id"`
	Rating      float64 `json:"rating"`
	ReviewCount int64   `json:"review_count"`
}

// Converters

// ToModel fails only on a malformed publish date; binding has usually caught it already.
func (d CreateBookRequest) ToModel() (models.Book, error) {
	b := models.Book{
		Title:         d.Title,
		Author:        d.Author,
		Genre:         d.Genre,
		Description:   d.Description,
		CoverURL:      d.CoverURL,
		Publisher:     d.Publisher,
		Pages:         d.Pages,
		ISBN:          d.ISBN,
		Heat:          d.Heat,
		IsPremiumOnly: d.IsPremiumOnly,
	}
	if d.PublishDate != "" {
		t, err := time.Parse(DateLayout, d.PublishDate)
		if err != nil {
			return models.Book{}, err
		}
		b.PublishDate = &t
	}
	return b, nil
}

func (d UpdateBookRequest) ApplyTo(b *models.Book) error {
	if d.Title != nil {
		b.Title = *d.Title
	}
	if d.Author != nil {
		b.Author = *d.Author
	}
	if d.Genre != nil {
		b.Genre = *d.Genre
	}
	if d.Description != nil {
		b.Description = *d.Description
	}
	if d.CoverURL != nil {
		b.CoverURL = *d.CoverURL
	}
	if d.Publisher != nil {
		b.Publisher = *d.Publisher
	}
	if d.PublishDate != nil {
		t, err := time.Parse(DateLayout, *d.PublishDate)
		if err != nil {
			return err
		}
		b.PublishDate = &t
	}
	if d.Pages != nil {
		b.Pages = *d.Pages
	}
	if d.ISBN != nil {
		b.ISBN = d.ISBN
	}
	if d.ReadingCount != nil {
		b.ReadingCount = *d.ReadingCount
	}
	if d.Heat != nil {
		b.Heat = *d.Heat
	}
	if d.IsPremiumOnly != nil {
		b.IsPremiumOnly = *d.IsPremiumOnly
	}
	return nil
}

func NewBookSummary(b models.Book) BookSummary {
	return BookSummary{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		CoverURL:      b.CoverURL,
		Rating:        b.Rating,
		ReviewCount:   b.ReviewCount,
		Heat:          b.Heat,
		IsPremiumOnly: b.IsPremiumOnly,
	}
}

func NewBookList(books []models.Book) BookListResponse {
	items := make([]BookSummary, 0, len(books))
	for _, b := range books {
		items = append(items, NewBookSummary(b))
	}
	return BookListResponse{Items: items, Total: len(items)}
}

func NewBookDetail(b models.Book) BookDetail {
	categories := make([]CategoryResponse, 0, len(b.Categories))
	for _, c := range b.Categories {
		categories = append(categories, NewCategoryResponse(c))
	}
	return BookDetail{
		BookSummary:  NewBookSummary(b),
		Description:  b.Description,
		Publisher:    b.Publisher,
		PublishDate:  formatDate(b.PublishDate),
		Pages:        b.Pages,
		ISBN:         b.ISBN,
		ReadingCount: b.ReadingCount,
		Categories:   categories,
		CreatedAt:    b.CreatedAt,
	}
}

func NewBookAggregate(b models.Book) BookAggregate {
	return BookAggregate{BookID: b.ID, Rating: b.Rating, ReviewCount: b.ReviewCount}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
