package priceboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the price boards over HTTP and websocket.
type Handler struct {
	service *Service
	hub     *Hub
	logger  *zap.Logger
}

func NewHandler(service *Service, hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		logger:  logger,
	}
}

// RegisterRoutes registers price board routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	board := router.Group("/priceboard")
	{
		board.GET("", h.getBoard)
		board.GET("/ws", h.subscribe)
	}
}

// getBoard handles GET /api/v1/priceboard.
func (h *Handler) getBoard(c *gin.Context) {
	snapshot, err := h.service.Current(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load price board", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// subscribe handles GET /api/v1/priceboard/ws.
func (h *Handler) subscribe(c *gin.Context) {
	if err := h.hub.HandleConnection(c.Writer, c.Request); err != nil {
		h.logger.Error("Failed to upgrade board subscription", zap.Error(err))
	}
}
