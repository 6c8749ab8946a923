package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/requestdata"
	"github.com/brandvault/brandvault-backend/internal/services"
	"github.com/brandvault/brandvault-backend/internal/types"
)

type AssetHandler struct {
	log             *logger.Logger
	assetService    services.AssetService
	ledger          services.VersionLedgerService
	approvalService services.ApprovalService
}

func NewAssetHandler(
	log *logger.Logger,
	assetService services.AssetService,
	ledger services.VersionLedgerService,
	approvalService services.ApprovalService,
) *AssetHandler {
	return &AssetHandler{
		log:             log.With("handler", "AssetHandler"),
		assetService:    assetService,
		ledger:          ledger,
		approvalService: approvalService,
	}
}

func (h *AssetHandler) Upload(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	workspaceID, err := uuid.Parse(c.PostForm("workspace_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace_id"})
		return
	}
	name := c.PostForm("name")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if name == "" {
		name = fileHeader.Filename
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	asset, err := h.assetService.Upload(c.Request.Context(), services.UploadAssetInput{
		WorkspaceID:  workspaceID,
		Name:         name,
		Filename:     fileHeader.Filename,
		Size:         fileHeader.Size,
		Content:      file,
		UploadedByID: rd.UserID,
	})
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) UploadVersion(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	version, err := h.assetService.UploadVersion(c.Request.Context(), services.UploadVersionInput{
		AssetID:      assetID,
		Filename:     fileHeader.Filename,
		Size:         fileHeader.Size,
		Content:      file,
		UploadedByID: rd.UserID,
	})
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, version)
}

func (h *AssetHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	asset, err := h.assetService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) ListByWorkspace(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Query("workspace_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workspace_id query parameter is required"})
		return
	}
	assets, err := h.assetService.ListByWorkspace(c.Request.Context(), workspaceID)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

type updateAssetRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

func (h *AssetHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	var req updateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	asset, err := h.assetService.Update(c.Request.Context(), id, services.UpdateAssetInput{
		Name:   req.Name,
		Status: req.Status,
	})
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	if err := h.assetService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AssetHandler) ListVersions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	versions, err := h.ledger.List(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

// Download streams the current version, or an explicit one via ?version=N.
func (h *AssetHandler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	versionNumber, err := optionalVersionQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version query parameter"})
		return
	}
	h.streamVersion(c, id, versionNumber)
}

// DownloadVersion streams the version named in the path.
func (h *AssetHandler) DownloadVersion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	n, err := versionPathParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version number"})
		return
	}
	h.streamVersion(c, id, &n)
}

func (h *AssetHandler) streamVersion(c *gin.Context, id uuid.UUID, versionNumber *int) {
	download, err := h.assetService.Download(c.Request.Context(), id, versionNumber)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	defer download.Content.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.DataFromReader(http.StatusOK, download.Size, download.ContentType, download.Content, nil)
}

type createCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *AssetHandler) CreateComment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	comment, err := h.approvalService.RecordComment(c.Request.Context(), id, nil, services.RecordCommentInput{
		AuthorName: rd.UserName,
		AuthorType: types.AuthorTypeAgency,
		Content:    req.Content,
	})
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *AssetHandler) ListComments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	comments, err := h.approvalService.ListComments(c.Request.Context(), id, nil)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

type createApprovalRequest struct {
	ActionType string  `json:"action_type" binding:"required"`
	Comment    *string `json:"comment"`
}

func (h *AssetHandler) CreateApproval(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	var req createApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action_type is required"})
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	action, err := h.approvalService.RecordApproval(c.Request.Context(), id, nil, services.RecordApprovalInput{
		ActionType: req.ActionType,
		Comment:    req.Comment,
		DoneByName: rd.UserName,
		DoneByType: types.AuthorTypeAgency,
	})
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, action)
}

func (h *AssetHandler) ListApprovals(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	approvals, err := h.approvalService.ListApprovals(c.Request.Context(), id, nil)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, approvals)
}

func optionalVersionQuery(c *gin.Context) (*int, error) {
	raw := c.Query("version")
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return nil, fmt.Errorf("invalid version %q", raw)
	}
	return &n, nil
}

func versionPathParam(c *gin.Context) (int, error) {
	raw := c.Param("versionNumber")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid version %q", raw)
	}
	return n, nil
}
