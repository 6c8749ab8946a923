package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/services"
)

// ReviewHandler is the anonymous surface: every route is gated by the review
// token in the URL, nothing else.
type ReviewHandler struct {
	log           *logger.Logger
	reviewService services.ReviewService
}

func NewReviewHandler(log *logger.Logger, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		log:           log.With("handler", "ReviewHandler"),
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.GetPublicReview(c.Request.Context(), c.Param("token"))
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) GetAsset(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	asset, err := h.reviewService.GetPublicAsset(c.Request.Context(), c.Param("token"), assetID)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

type publicCommentRequest struct {
	AuthorName string `json:"author_name" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

func (h *ReviewHandler) CreateComment(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	var req publicCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "author_name and content are required"})
		return
	}
	comment, err := h.reviewService.CreateClientComment(c.Request.Context(), c.Param("token"), assetID, req.AuthorName, req.Content)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

type publicApprovalRequest struct {
	ActionType string  `json:"action_type" binding:"required"`
	Comment    *string `json:"comment"`
	DoneByName string  `json:"done_by_name" binding:"required"`
}

func (h *ReviewHandler) CreateApproval(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	var req publicApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action_type and done_by_name are required"})
		return
	}
	action, err := h.reviewService.CreateClientApproval(c.Request.Context(), c.Param("token"), assetID, req.ActionType, req.Comment, req.DoneByName)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, action)
}

// Download streams the current version, or an explicit one via ?version=N.
func (h *ReviewHandler) Download(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	versionNumber, err := optionalVersionQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version query parameter"})
		return
	}
	h.streamVersion(c, assetID, versionNumber)
}

// DownloadVersion streams the version named in the path.
func (h *ReviewHandler) DownloadVersion(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	n, err := versionPathParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version number"})
		return
	}
	h.streamVersion(c, assetID, &n)
}

func (h *ReviewHandler) streamVersion(c *gin.Context, assetID uuid.UUID, versionNumber *int) {
	download, err := h.reviewService.DownloadPublicVersion(c.Request.Context(), c.Param("token"), assetID, versionNumber)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	defer download.Content.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.DataFromReader(http.StatusOK, download.Size, download.ContentType, download.Content, nil)
}
