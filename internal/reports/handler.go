package reports

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"charterdesk/broker-portal/broker-portal-backend/internal/calculation"
)

// Handler exposes freight curve exports over HTTP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers export routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	calc := router.Group("/calculation")
	{
		calc.POST("/freight/export", h.exportFreightCurve)
	}
}

// exportFreightCurve handles POST /api/v1/calculation/freight/export.
// The body is the same CalculationRequest the engine endpoint takes; the
// format query parameter selects xlsx (default) or pdf.
func (h *Handler) exportFreightCurve(c *gin.Context) {
	var req calculation.CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format := c.DefaultQuery("format", FormatExcel)

	exp, err := h.service.ExportFreightCurve(c.Request.Context(), &req, format)
	if errors.Is(err, ErrNotExportable) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("Failed to export freight curve", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exp.FileName+`"`)
	if exp.StorageKey != "" {
		c.Header("X-Export-Storage-Key", exp.StorageKey)
	}
	c.Data(http.StatusOK, exp.ContentType, exp.Data)
}
