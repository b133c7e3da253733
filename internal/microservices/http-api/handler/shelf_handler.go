package handler

import (
	"net/http"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ShelfHandler struct {
	svc service.ShelfService
}

func NewShelfHandler(svc service.ShelfService) *ShelfHandler {
	return &ShelfHandler{svc: svc}
}

func (h *ShelfHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Add)
	rg.DELETE("/:book_id", h.Remove)
}

// Add a book to the caller's shelf: 201 when added, 200 when it was already there
func (h *ShelfHandler) Add(c *gin.Context) {
	var req dto.AddToShelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	created, err := h.svc.Add(ctx, middleware.Viewer(c), req.BookID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.NewShelfAddResponse(req.BookID, created))
}

// Remove a book from the shelf; removing an absent book answers 200 with removed=false
func (h *ShelfHandler) Remove(c *gin.Context) {
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	removed, err := h.svc.Remove(ctx, middleware.Viewer(c), bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ShelfRemoveResponse{BookID: bookID, Removed: removed})
}

func (h *ShelfHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	view, err := h.svc.List(ctx, middleware.Viewer(c), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewShelfList(view.Entries, view.Capacity))
}
