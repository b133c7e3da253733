package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
)

// DTOs for progress-related operations in HTTP API

// UpdateProgressRequest: progress range is checked by the service.
type UpdateProgressRequest struct {
	BookID   int64 `json:"book_id" binding:"required,gt=0"`
	Progress *int  `json:"progress" binding:"required"`
}

type ProgressResponse struct {
	BookID    int64        `json:"book_id"`
	Progress  int          `json:"progress"`
	UpdatedAt time.Time    `json:"updated_at"`
	Book      *BookSummary `json:"book,omitempty"`
}

// ProgressUpsertResponse: Created is true on the first record for the book.
type ProgressUpsertResponse struct {
	Created  bool             `json:"created"`
	Progress ProgressResponse `json:"progress"`
}

type ProgressListResponse struct {
	Items []ProgressResponse `json:"items"`
	Total int                `json:"total"`
}

func NewProgressResponse(p models.ReadingProgress) ProgressResponse {
	resp := ProgressResponse{BookID: p.BookID, Progress: p.Progress, UpdatedAt: p.UpdatedAt}
	if p.Book != nil {
		s := NewBookSummary(*p.Book)
		resp.Book = &s
	}
	return resp
}

func NewProgressList(list []models.ReadingProgress) ProgressListResponse {
	items := make([]ProgressResponse, 0, len(list))
	for _, p := range list {
		items = append(items, NewProgressResponse(p))
	}
	return ProgressListResponse{Items: items, Total: len(items)}
}
