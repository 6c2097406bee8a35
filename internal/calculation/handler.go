package calculation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the freight rate engine over HTTP.
type Handler struct {
	engine *Engine
	logger *zap.Logger
}

func NewHandler(engine *Engine, logger *zap.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

// RegisterRoutes registers calculation routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	calc := router.Group("/calculation")
	{
		calc.POST("/freight", h.calculateFreight)
	}
}

// calculateFreight handles POST /api/v1/calculation/freight.
//
// Status convention: an incomplete request still answers 200 with a
// zero-rate body carrying an `error` field - the dashboard checks that field
// and existing callers depend on it. Only lookup and computation faults use
// 500.
func (h *Handler) calculateFreight(c *gin.Context) {
	var req CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.engine.Calculate(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("freight calculation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
