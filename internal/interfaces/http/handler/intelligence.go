package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thca-multistore/backend/internal/application/intelligence"
	"github.com/thca-multistore/backend/internal/infrastructure/logger"
)

// IntelligenceHandler serves the business intelligence dashboard endpoint.
type IntelligenceHandler struct {
	BaseHandler
	service *intelligence.Service
}

func NewIntelligenceHandler(service *intelligence.Service) *IntelligenceHandler {
	return &IntelligenceHandler{service: service}
}

// GetBusinessMetrics returns aggregated metrics across all storefronts.
// Data source failures degrade to all-zero metrics rather than an error so
// the dashboard always renders.
//
// @Summary Get business intelligence metrics
// @Tags business
// @Produce json
// @Param timeframe query string false "Reporting window" Enums(today, yesterday, 7d, 14d, 30d, 90d, 1y) default(30d)
// @Success 200 {object} intelligence.BusinessMetrics
// @Failure 500 {object} map[string]string
// @Router /admin/business/intelligence [get]
func (h *IntelligenceHandler) GetBusinessMetrics(c *gin.Context) {
	if h.service == nil {
		logger.FromGin(c).Error("intelligence service not configured")
		h.InternalError(c, "Failed to fetch business metrics")
		return
	}

	timeframe := intelligence.Timeframe(c.Query("timeframe")).Normalize()
	metrics := h.service.BusinessMetrics(c.Request.Context(), timeframe)

	logger.FromGin(c).Debug("business metrics served",
		zap.String("timeframe", string(timeframe)),
		zap.Int("stores", len(metrics.StoreComparison)))
	h.OK(c, metrics)
}
