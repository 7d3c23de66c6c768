package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appemail "github.com/thca-multistore/backend/internal/application/email"
	"github.com/thca-multistore/backend/internal/domain/notification"
	"github.com/thca-multistore/backend/internal/infrastructure/logger"
)

// EmailHandler serves the email operations center endpoints. The service is
// nil when no provider API key is configured; endpoints then respond 503.
type EmailHandler struct {
	BaseHandler
	service *appemail.Service
}

func NewEmailHandler(service *appemail.Service) *EmailHandler {
	return &EmailHandler{service: service}
}

func (h *EmailHandler) ready(c *gin.Context) bool {
	if h.service == nil {
		h.ServiceUnavailable(c, "Email provider not configured")
		return false
	}
	return true
}

// SendTest sends a template test email to the given address.
//
// @Summary Send a test email
// @Tags email
// @Accept json
// @Produce json
// @Param request body email.TestEmailRequest true "Test email request"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/email/test [post]
func (h *EmailHandler) SendTest(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req appemail.TestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "template and to are required")
		return
	}

	record, err := h.service.SendTest(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appemail.ErrInvalidRecipient):
			h.BadRequest(c, "Invalid email address format")
		case errors.Is(err, notification.ErrTemplateNotFound):
			h.BadRequest(c, "Unknown template: "+req.Template)
		default:
			logger.FromGin(c).Error("test email failed",
				zap.String("template", req.Template), zap.Error(err))
			h.InternalError(c, "Failed to send test email")
		}
		return
	}

	h.OK(c, gin.H{
		"success":   true,
		"messageId": record.ID,
		"to":        record.To,
		"subject":   record.Subject,
	})
}

// GetAnalytics returns delivery statistics from the in-process log.
//
// @Summary Get email delivery analytics
// @Tags email
// @Produce json
// @Success 200 {object} email.Analytics
// @Router /admin/email/analytics [get]
func (h *EmailHandler) GetAnalytics(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	h.OK(c, h.service.DeliveryAnalytics())
}

// ListTemplates returns the built-in template catalog.
//
// @Summary List email templates
// @Tags email
// @Produce json
// @Success 200 {object} map[string]any
// @Router /admin/email/templates [get]
func (h *EmailHandler) ListTemplates(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	h.OK(c, gin.H{"templates": h.service.Templates()})
}

// PreviewTemplate renders a template with sample data.
//
// @Summary Preview an email template
// @Tags email
// @Produce html
// @Param template query string true "Template name"
// @Param store_name query string false "Store name for sample data"
// @Success 200 {string} string "Rendered HTML"
// @Failure 400 {object} map[string]string
// @Router /admin/email/templates/preview [get]
func (h *EmailHandler) PreviewTemplate(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	name := c.Query("template")
	if name == "" {
		h.BadRequest(c, "template query parameter is required")
		return
	}

	html, err := h.service.Preview(name, c.Query("store_name"))
	if err != nil {
		if errors.Is(err, notification.ErrTemplateNotFound) {
			h.BadRequest(c, "Unknown template: "+name)
			return
		}
		logger.FromGin(c).Error("template preview failed",
			zap.String("template", name), zap.Error(err))
		h.InternalError(c, "Failed to render template")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(200, html)
}
