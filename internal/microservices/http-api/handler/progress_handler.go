package handler

import (
	"net/http"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	svc service.ProgressService
}

func NewProgressHandler(svc service.ProgressService) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

func (h *ProgressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:book_id", h.Get)
	rg.PUT("", h.Upsert)
}

// Upsert the caller's progress on a book: 201 for the first record, 200 after that
func (h *ProgressHandler) Upsert(c *gin.Context) {
	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	record, created, err := h.svc.Upsert(ctx, middleware.Viewer(c), req.BookID, *req.Progress, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.ProgressUpsertResponse{Created: created, Progress: dto.NewProgressResponse(*record)})
}

func (h *ProgressHandler) Get(c *gin.Context) {
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	record, err := h.svc.Get(ctx, middleware.Viewer(c), bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProgressResponse(*record))
}

func (h *ProgressHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	list, err := h.svc.List(ctx, middleware.Viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProgressList(list))
}
