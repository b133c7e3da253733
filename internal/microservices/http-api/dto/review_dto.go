package dto

import (
	"time"

	"bookhub/internal/microservices/http-api/models"
)

// SubmitReviewRequest: rating range is checked by the service so the error kind stays uniform.
type SubmitReviewRequest struct {
	Rating  *int   `json:"rating" binding:"required"`
	Content string `json:"content"`
}

type ReviewResponse struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"book_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	BookTitle string    `json:"book_title,omitempty"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewSubmitResponse is the stored review with the aggregate committed alongside it.
type ReviewSubmitResponse struct {
	Created bool           `json:"created"`
	Review  ReviewResponse `json:"review"`
	Book    BookAggregate  `json:"book"`
}

type ReviewListResponse struct {
	Items []ReviewResponse `json:"items"`
	Total int              `json:"total"`
}

// ReactionResponse is the counter value after a like or dislike.
type ReactionResponse struct {
	ReviewID int64 `json:"review_id"`
	Likes    *int  `json:"likes,omitempty"`
	Dislikes *int  `json:"dislikes,omitempty"`
}

func NewReviewResponse(r models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:        r.ID,
		BookID:    r.BookID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Content:   r.Content,
		Likes:     r.Likes,
		Dislikes:  r.Dislikes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User != nil {
		resp.Username = r.User.Username
	}
	if r.Book != nil {
		resp.BookTitle = r.Book.Title
	}
	return resp
}

func NewReviewList(reviews []models.Review) ReviewListResponse {
	items := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, NewReviewResponse(r))
	}
	return ReviewListResponse{Items: items, Total: len(items)}
}
