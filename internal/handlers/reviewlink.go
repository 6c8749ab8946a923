package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/requestdata"
	"github.com/brandvault/brandvault-backend/internal/services"
)

type ReviewLinkHandler struct {
	log           *logger.Logger
	reviewService services.ReviewService
}

func NewReviewLinkHandler(log *logger.Logger, reviewService services.ReviewService) *ReviewLinkHandler {
	return &ReviewLinkHandler{
		log:           log.With("handler", "ReviewLinkHandler"),
		reviewService: reviewService,
	}
}

type createReviewLinkRequest struct {
	WorkspaceID   string `json:"workspace_id" binding:"required"`
	ExpiresInDays int    `json:"expires_in_days"`
}

func (h *ReviewLinkHandler) Create(c *gin.Context) {
	var req createReviewLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workspace_id is required"})
		return
	}
	workspaceID, err := uuid.Parse(req.WorkspaceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace_id"})
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	link, err := h.reviewService.CreateLink(c.Request.Context(), services.CreateReviewLinkInput{
		WorkspaceID:   workspaceID,
		ExpiresInDays: req.ExpiresInDays,
		CreatedByID:   rd.UserID,
	})
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *ReviewLinkHandler) ListByWorkspace(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Query("workspace_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workspace_id query parameter is required"})
		return
	}
	links, err := h.reviewService.ListLinks(c.Request.Context(), workspaceID)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

type updateReviewLinkRequest struct {
	ExpiresInDays *int  `json:"expires_in_days"`
	IsActive      *bool `json:"is_active"`
}

func (h *ReviewLinkHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review link id"})
		return
	}
	var req updateReviewLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	link, err := h.reviewService.UpdateLink(c.Request.Context(), id, services.UpdateReviewLinkInput{
		ExpiresInDays: req.ExpiresInDays,
		IsActive:      req.IsActive,
	})
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *ReviewLinkHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review link id"})
		return
	}
	link, err := h.reviewService.DeactivateLink(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *ReviewLinkHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review link id"})
		return
	}
	if err := h.reviewService.DeleteLink(c.Request.Context(), id); err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
