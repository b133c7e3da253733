package dto

import (
	"time"

	"bookhub/internal/entitlement"
	"bookhub/internal/microservices/http-api/models"
)

const (
	ShelfStatusAdded          = "added"
	ShelfStatusAlreadyOnShelf = "already_on_shelf"
)

// AddToShelfRequest: payload to add a book to the caller's shelf
type AddToShelfRequest struct {
	BookID int64 `json:"book_id" binding:"required,gt=0"`
}

// ShelfAddResponse reports whether the add created an entry or found one.
type ShelfAddResponse struct {
	BookID int64  `json:"book_id"`
	Status string `json:"status"`
}

// ShelfRemoveResponse: Removed is false when the book was not on the shelf.
type ShelfRemoveResponse struct {
	BookID  int64 `json:"book_id"`
	Removed bool  `json:"removed"`
}

type ShelfEntryResponse struct {
	ID      int64       `json:"id"`
	BookID  int64       `json:"book_id"`
	Book    BookSummary `json:"book"`
	AddedAt time.Time   `json:"added_at"`
}

// ShelfListResponse carries the capacity in force at request time, a number or "unlimited".
type ShelfListResponse struct {
	Items    []ShelfEntryResponse `json:"items"`
	Total    int                  `json:"total"`
	Capacity entitlement.Capacity `json:"capacity"`
}

func NewShelfAddResponse(bookID int64, created bool) ShelfAddResponse {
	status := ShelfStatusAlreadyOnShelf
	if created {
		status = ShelfStatusAdded
	}
	return ShelfAddResponse{BookID: bookID, Status: status}
}

func NewShelfList(entries []models.ShelfEntry, capacity entitlement.Capacity) ShelfListResponse {
	items := make([]ShelfEntryResponse, 0, len(entries))
	for _, e := range entries {
		item := ShelfEntryResponse{ID: e.ID, BookID: e.BookID, AddedAt: e.AddedAt}
		if e.Book != nil {
			item.Book = NewBookSummary(*e.Book)
		}
		items = append(items, item)
	}
	return ShelfListResponse{Items: items, Total: len(items), Capacity: capacity}
}
