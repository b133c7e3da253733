package handler

import (
	"net/http"
	"time"

	"bookhub/internal/entitlement"
	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves catalogue maintenance and membership changes; mount behind RequireAdmin.
type AdminHandler struct {
	catalog  service.CatalogService
	profiles service.ProfileService
}

func NewAdminHandler(catalog service.CatalogService, profiles service.ProfileService) *AdminHandler {
	return &AdminHandler{catalog: catalog, profiles: profiles}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/books", h.CreateBook)
	rg.PUT("/books/:book_id", h.UpdateBook)
	rg.DELETE("/books/:book_id", h.DeleteBook)
	rg.POST("/categories", h.CreateCategory)
	rg.PUT("/users/:user_id/membership", h.SetMembership)
}

func (h *AdminHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := req.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid publish_date"})
		return
	}

	ctx := c.Request.Context()

	if err := h.catalog.CreateBook(ctx, &book, req.CategoryIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewBookDetail(book))
}

// UpdateBook loads the book, applies the partial update and writes the descriptive fields back.
func (h *AdminHandler) UpdateBook(c *gin.Context) {
	id, ok := paramID(c, "book_id")
	if !ok {
		return
	}
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	book, err := h.catalog.BookForEdit(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := req.ApplyTo(book); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid publish_date"})
		return
	}
	if err := h.catalog.UpdateBook(ctx, book); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookDetail(*book))
}

func (h *AdminHandler) DeleteBook(c *gin.Context) {
	id, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if err := h.catalog.DeleteBook(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	category := req.ToModel()
	if err := h.catalog.CreateCategory(ctx, &category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCategoryResponse(category))
}

func (h *AdminHandler) SetMembership(c *gin.Context) {
	userID := c.Param("user_id")
	var req dto.SetMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	expiry, err := req.Expiry()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid premium_expiry"})
		return
	}

	ctx := c.Request.Context()

	profile, err := h.profiles.SetMembership(ctx, userID, *req.IsPremium, expiry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, membershipResponse(profile, time.Now()))
}

func membershipResponse(p *models.MembershipProfile, now time.Time) dto.MembershipResponse {
	premium := entitlement.HasPremiumAccess(p, now)
	resp := dto.MembershipResponse{
		IsPremium:     p.IsPremium,
		PremiumActive: premium,
		ShelfCapacity: entitlement.ShelfCapacity(premium),
		MemberSince:   p.CreatedAt,
	}
	if p.PremiumExpiry != nil {
		s := p.PremiumExpiry.Format(dto.DateLayout)
		resp.PremiumExpiry = &s
	}
	return resp
}
