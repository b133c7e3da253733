package handler

import (
	"net/http"
	"time"

	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profiles service.ProfileService
	reviews  service.ReviewService
}

func NewProfileHandler(profiles service.ProfileService, reviews service.ReviewService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, reviews: reviews}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Me)
	rg.PATCH("", h.Update)
	rg.GET("/stats", h.Stats)
	rg.GET("/reviews", h.Reviews)
}

func (h *ProfileHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	profile, err := h.profiles.Me(ctx, middleware.Viewer(c), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileResponse(profile))
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	viewer := middleware.Viewer(c)
	if _, err := h.profiles.UpdateProfile(ctx, viewer, req.ToChanges()); err != nil {
		respondError(c, err)
		return
	}
	profile, err := h.profiles.Me(ctx, viewer, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileResponse(profile))
}

func (h *ProfileHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.profiles.Stats(ctx, middleware.Viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStatsResponse(stats))
}

func (h *ProfileHandler) Reviews(c *gin.Context) {
	ctx := c.Request.Context()

	reviews, err := h.reviews.ListForUser(ctx, middleware.Viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReviewList(reviews))
}
