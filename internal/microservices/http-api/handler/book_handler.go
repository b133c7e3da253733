package handler

import (
	"net/http"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	catalog         service.CatalogService
	recommendations service.RecommendationService
}

func NewBookHandler(catalog service.CatalogService, recommendations service.RecommendationService) *BookHandler {
	return &BookHandler{catalog: catalog, recommendations: recommendations}
}

// RegisterRoutes expects OptionalAuth on rg; /recommended checks for a user itself.
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/popular", h.Popular)
	rg.GET("/recommended", h.Recommended)
	rg.GET("/:book_id", h.Get)
}

func (h *BookHandler) RegisterCategoryRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListCategories)
	rg.GET("/:slug", h.GetCategory)
}

// List books visible to the caller
func (h *BookHandler) List(c *gin.Context) {
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	books, err := h.catalog.ListBooks(ctx, middleware.Viewer(c), service.BookQuery{
		Category:    q.Category,
		Search:      q.Search,
		Sort:        q.Sort,
		PremiumOnly: q.PremiumOnly,
	}, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBookList(books))
}

func (h *BookHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	book, err := h.catalog.GetBook(ctx, middleware.Viewer(c), id, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookDetail(*book))
}

// Popular is the top of the catalogue by heat, the same for every caller.
func (h *BookHandler) Popular(c *gin.Context) {
	ctx := c.Request.Context()

	books, err := h.catalog.Popular(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookList(books))
}

func (h *BookHandler) Recommended(c *gin.Context) {
	ctx := c.Request.Context()

	books, err := h.recommendations.Recommend(ctx, middleware.Viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookList(books))
}

func (h *BookHandler) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()

	list, err := h.catalog.ListCategories(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryList(list))
}

func (h *BookHandler) GetCategory(c *gin.Context) {
	ctx := c.Request.Context()

	category, err := h.catalog.GetCategory(ctx, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryResponse(*category))
}
