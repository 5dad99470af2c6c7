package handler

import (
	"payment-webhook-relay/internal/adapter/http/dto"
	"payment-webhook-relay/internal/adapter/http/middleware"
	"payment-webhook-relay/internal/core/ports"
	"payment-webhook-relay/pkg/apperror"
	"payment-webhook-relay/pkg/response"

	"github.com/gin-gonic/gin"
)

// CallbackHandler verifies signatures on payloads a merchant received,
// so merchant backends can check authenticity without reimplementing the
// HMAC scheme.
type CallbackHandler struct {
	registrations ports.RegistrationStore
	encSvc        ports.EncryptionService
	sigSvc        ports.SignatureService
}

// NewCallbackHandler creates a new CallbackHandler.
func NewCallbackHandler(
	registrations ports.RegistrationStore,
	encSvc ports.EncryptionService,
	sigSvc ports.SignatureService,
) *CallbackHandler {
	return &CallbackHandler{
		registrations: registrations,
		encSvc:        encSvc,
		sigSvc:        sigSvc,
	}
}

// Verify handles POST /api/v1/callbacks/verify. A mismatch is reported
// as DLV_001 rather than a soft false, so misconfigured clients fail
// loudly.
func (h *CallbackHandler) Verify(c *gin.Context) {
	merchantID := c.GetString(middleware.CtxMerchantID)

	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	reg, err := h.registrations.Get(c.Request.Context(), merchantID)
	if err != nil {
		response.Error(c, apperror.ErrStorageFailure(err))
		return
	}
	if reg == nil {
		response.Error(c, apperror.ErrRegistrationNotFound())
		return
	}

	secret, err := h.encSvc.Decrypt(reg.Secret)
	if err != nil {
		response.Error(c, apperror.ErrEncryptionFailure(err))
		return
	}

	if !h.sigSvc.Verify(secret, req.Payload, req.Signature) {
		response.Error(c, apperror.ErrInvalidSignature())
		return
	}
	response.OK(c, dto.VerifyResponse{Valid: true})
}
