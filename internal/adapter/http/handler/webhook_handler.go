package handler

import (
	"payment-webhook-relay/internal/adapter/http/dto"
	"payment-webhook-relay/internal/adapter/http/middleware"
	"payment-webhook-relay/internal/core/domain"
	"payment-webhook-relay/internal/core/ports"
	"payment-webhook-relay/pkg/apperror"
	"payment-webhook-relay/pkg/response"

	"github.com/gin-gonic/gin"
)

// WebhookHandler handles merchant webhook registration endpoints.
type WebhookHandler struct {
	registrySvc ports.RegistryService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(registrySvc ports.RegistryService) *WebhookHandler {
	return &WebhookHandler{registrySvc: registrySvc}
}

// Register handles PUT /api/v1/webhooks. Registration is an upsert: a
// second call replaces the merchant's previous endpoint.
func (h *WebhookHandler) Register(c *gin.Context) {
	merchantID := c.GetString(middleware.CtxMerchantID)

	var req dto.RegisterWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.TrimStruct(&req)

	reg, err := h.registrySvc.Register(c.Request.Context(), &domain.WebhookRegistration{
		MerchantID: merchantID,
		URL:        req.URL,
		Secret:     req.Secret,
		Events:     req.Events,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WebhookResponse{
		MerchantID: reg.MerchantID,
		URL:        reg.URL,
		Secret:     reg.Secret,
		Events:     reg.Events,
	})
}

// Delete handles DELETE /api/v1/webhooks.
func (h *WebhookHandler) Delete(c *gin.Context) {
	merchantID := c.GetString(middleware.CtxMerchantID)

	if err := h.registrySvc.Delete(c.Request.Context(), merchantID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "webhook registration deleted"})
}

// Get handles GET /api/v1/webhooks.
func (h *WebhookHandler) Get(c *gin.Context) {
	merchantID := c.GetString(middleware.CtxMerchantID)

	reg, err := h.registrySvc.Get(c.Request.Context(), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if reg == nil {
		response.Error(c, apperror.ErrRegistrationNotFound())
		return
	}

	response.OK(c, dto.WebhookResponse{
		MerchantID: reg.MerchantID,
		URL:        reg.URL,
		Secret:     reg.Secret,
		Events:     reg.Events,
	})
}
