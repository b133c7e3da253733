package handler

import (
	"net/http"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// RegisterBookRoutes mounts the per-book review routes; reading is public.
func (h *ReviewHandler) RegisterBookRoutes(public, authed *gin.RouterGroup) {
	public.GET("/:book_id/reviews", h.ListForBook)
	authed.POST("/:book_id/reviews", h.Submit)
	authed.DELETE("/:book_id/reviews", h.Delete)
}

func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:review_id/like", h.Like)
	rg.POST("/:review_id/dislike", h.Dislike)
}

// Submit creates or replaces the caller's review: 201 when created, 200 when replaced
func (h *ReviewHandler) Submit(c *gin.Context) {
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}
	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	outcome, err := h.svc.Submit(ctx, middleware.Viewer(c), bookID, *req.Rating, req.Content, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if outcome.Created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.ReviewSubmitResponse{
		Created: outcome.Created,
		Review:  dto.NewReviewResponse(outcome.Review),
		Book:    dto.NewBookAggregate(outcome.Book),
	})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	book, err := h.svc.Delete(ctx, middleware.Viewer(c), bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookAggregate(*book))
}

func (h *ReviewHandler) ListForBook(c *gin.Context) {
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	reviews, err := h.svc.ListForBook(ctx, middleware.Viewer(c), bookID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReviewList(reviews))
}

func (h *ReviewHandler) Like(c *gin.Context) {
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	n, err := h.svc.Like(ctx, middleware.Viewer(c), reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReactionResponse{ReviewID: reviewID, Likes: &n})
}

func (h *ReviewHandler) Dislike(c *gin.Context) {
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	n, err := h.svc.Dislike(ctx, middleware.Viewer(c), reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReactionResponse{ReviewID: reviewID, Dislikes: &n})
}
