package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/realtime"
	"github.com/brandvault/brandvault-backend/internal/requestdata"
	"github.com/brandvault/brandvault-backend/internal/services"
)

type RealtimeHandler struct {
	log     *logger.Logger
	hub     *realtime.SSEHub
	gateway services.TokenGatewayService

	mu      sync.Mutex
	clients map[uuid.UUID]*realtime.SSEClient
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, gateway services.TokenGatewayService) *RealtimeHandler {
	return &RealtimeHandler{
		log:     log.With("handler", "RealtimeHandler"),
		hub:     hub,
		gateway: gateway,
		clients: make(map[uuid.UUID]*realtime.SSEClient),
	}
}

// Stream opens the agency SSE connection. One connection per user; a
// reconnect replaces the previous one so stale tabs do not leak clients.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	client := h.hub.NewSSEClient(rd.UserID)

	h.mu.Lock()
	if prev, ok := h.clients[rd.UserID]; ok {
		h.hub.CloseClient(prev)
	}
	h.clients[rd.UserID] = client
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		if h.clients[rd.UserID] == client {
			delete(h.clients, rd.UserID)
		}
		h.mu.Unlock()
		h.hub.RemoveClient(client)
	}()

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}

type joinChannelRequest struct {
	WorkspaceID string `json:"workspace_id" binding:"required"`
}

func (h *RealtimeHandler) Join(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req joinChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workspace_id is required"})
		return
	}
	workspaceID, err := uuid.Parse(req.WorkspaceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace_id"})
		return
	}

	h.mu.Lock()
	client, ok := h.clients[rd.UserID]
	h.mu.Unlock()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no active stream for this user"})
		return
	}

	h.hub.AddChannel(client, realtime.WorkspaceChannel(workspaceID))
	c.JSON(http.StatusOK, gin.H{"joined": realtime.WorkspaceChannel(workspaceID)})
}

func (h *RealtimeHandler) Leave(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req joinChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workspace_id is required"})
		return
	}
	workspaceID, err := uuid.Parse(req.WorkspaceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace_id"})
		return
	}

	h.mu.Lock()
	client, ok := h.clients[rd.UserID]
	h.mu.Unlock()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no active stream for this user"})
		return
	}

	h.hub.RemoveChannel(client, realtime.WorkspaceChannel(workspaceID))
	c.JSON(http.StatusOK, gin.H{"left": realtime.WorkspaceChannel(workspaceID)})
}

// PublicStream opens an SSE connection for an anonymous reviewer. The token
// scopes the subscription to exactly one workspace channel.
func (h *RealtimeHandler) PublicStream(c *gin.Context) {
	scope, err := h.gateway.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	client := h.hub.NewSSEClient(uuid.Nil)
	h.hub.AddChannel(client, realtime.WorkspaceChannel(scope.WorkspaceID))
	defer h.hub.RemoveClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
