package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/thca-multistore/backend/internal/application/store"
	"github.com/thca-multistore/backend/internal/domain/commerce"
	"github.com/thca-multistore/backend/internal/infrastructure/logger"
)

// StoreHandler serves the store directory and compliance endpoints.
type StoreHandler struct {
	BaseHandler
	service *store.Service
}

func NewStoreHandler(service *store.Service) *StoreHandler {
	return &StoreHandler{service: service}
}

// ListStores returns all storefronts with their publishable keys.
//
// @Summary List storefronts
// @Tags business
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]string
// @Router /admin/business/stores [get]
func (h *StoreHandler) ListStores(c *gin.Context) {
	stores, err := h.service.ListStores(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("failed to list stores", zap.Error(err))
		h.InternalError(c, "Failed to fetch stores")
		return
	}
	h.OK(c, gin.H{"stores": stores})
}

type updateStoreStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// UpdateStoreStatus enables or disables a storefront.
//
// @Summary Activate or deactivate a storefront
// @Tags compliance
// @Accept json
// @Produce json
// @Param id path string true "Sales channel ID"
// @Param request body updateStoreStatusRequest true "Status update"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/compliance/stores/{id} [patch]
func (h *StoreHandler) UpdateStoreStatus(c *gin.Context) {
	var req updateStoreStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "isActive is required")
		return
	}

	storeID := c.Param("id")
	if err := h.service.SetStoreActive(c.Request.Context(), storeID, *req.IsActive); err != nil {
		if errors.Is(err, commerce.ErrChannelNotFound) {
			h.NotFound(c, "Store not found")
			return
		}
		logger.FromGin(c).Error("failed to update store status",
			zap.String("store_id", storeID), zap.Error(err))
		h.InternalError(c, "Failed to update store status")
		return
	}
	h.OK(c, gin.H{"storeId": storeID, "isActive": *req.IsActive})
}

// GetBusinessConfig returns the compliance configuration.
//
// @Summary Get business compliance configuration
// @Tags compliance
// @Produce json
// @Success 200 {object} store.BusinessConfig
// @Failure 500 {object} map[string]string
// @Router /admin/compliance/config [get]
func (h *StoreHandler) GetBusinessConfig(c *gin.Context) {
	cfg, err := h.service.GetConfig(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("failed to load business config", zap.Error(err))
		h.InternalError(c, "Failed to fetch business config")
		return
	}
	h.OK(c, cfg)
}

// SaveBusinessConfig validates and persists the compliance configuration.
//
// @Summary Save business compliance configuration
// @Tags compliance
// @Accept json
// @Produce json
// @Param request body store.BusinessConfig true "Business configuration"
// @Success 200 {object} store.BusinessConfig
// @Failure 400 {object} map[string]string
// @Router /admin/compliance/config [post]
func (h *StoreHandler) SaveBusinessConfig(c *gin.Context) {
	var cfg store.BusinessConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.BadRequest(c, "Invalid business config payload")
		return
	}

	saved, err := h.service.SaveConfig(c.Request.Context(), cfg)
	if err != nil {
		if errors.Is(err, commerce.ErrStoreNotFound) {
			h.NotFound(c, "Store not found")
			return
		}
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			logger.FromGin(c).Warn("business config rejected", zap.Error(err))
			h.BadRequest(c, "Invalid business config")
			return
		}
		logger.FromGin(c).Error("failed to save business config", zap.Error(err))
		h.InternalError(c, "Failed to save business config")
		return
	}
	h.OK(c, saved)
}

// GetComplianceMetrics returns the compliance dashboard statistics.
//
// @Summary Get compliance metrics
// @Tags compliance
// @Produce json
// @Success 200 {object} store.ComplianceMetrics
// @Failure 500 {object} map[string]string
// @Router /admin/compliance/metrics [get]
func (h *StoreHandler) GetComplianceMetrics(c *gin.Context) {
	metrics, err := h.service.Metrics(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("failed to compute compliance metrics", zap.Error(err))
		h.InternalError(c, "Failed to fetch compliance metrics")
		return
	}
	h.OK(c, metrics)
}
