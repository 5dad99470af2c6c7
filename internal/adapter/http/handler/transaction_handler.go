package handler

import (
	"strconv"

	"payment-webhook-relay/internal/adapter/http/dto"
	"payment-webhook-relay/internal/adapter/http/middleware"
	"payment-webhook-relay/internal/core/ports"
	"payment-webhook-relay/pkg/apperror"
	"payment-webhook-relay/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	defaultDeliveryLogLimit = 50
	maxDeliveryLogLimit     = 500
)

// TransactionHandler serves transaction state and delivery audit reads.
type TransactionHandler struct {
	states ports.TxnStateStore
	logs   ports.DeliveryLogStore
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(states ports.TxnStateStore, logs ports.DeliveryLogStore) *TransactionHandler {
	return &TransactionHandler{states: states, logs: logs}
}

// GetState handles GET /api/v1/transactions/:id. Another merchant's
// transaction is indistinguishable from an unknown one.
func (h *TransactionHandler) GetState(c *gin.Context) {
	merchantID := c.GetString(middleware.CtxMerchantID)
	txnID := c.Param("id")

	state, err := h.states.Get(c.Request.Context(), txnID)
	if err != nil {
		response.Error(c, apperror.ErrStorageFailure(err))
		return
	}
	if state == nil || state.MerchantID != merchantID {
		response.Error(c, apperror.ErrTransactionNotFound())
		return
	}

	response.OK(c, dto.TransactionResponse{
		TransactionID: state.TransactionID,
		MerchantID:    state.MerchantID,
		Status:        string(state.Status),
		Amount:        state.LastEvent.Amount,
		Currency:      state.LastEvent.Currency,
		UpdatedAt:     state.UpdatedAt,
	})
}

// ListDeliveries handles GET /api/v1/transactions/:id/deliveries,
// newest attempt first.
func (h *TransactionHandler) ListDeliveries(c *gin.Context) {
	merchantID := c.GetString(middleware.CtxMerchantID)
	txnID := c.Param("id")

	state, err := h.states.Get(c.Request.Context(), txnID)
	if err != nil {
		response.Error(c, apperror.ErrStorageFailure(err))
		return
	}
	if state == nil || state.MerchantID != merchantID {
		response.Error(c, apperror.ErrTransactionNotFound())
		return
	}

	limit := defaultDeliveryLogLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.Error(c, apperror.Validation("limit must be a positive integer"))
			return
		}
		if n > maxDeliveryLogLimit {
			n = maxDeliveryLogLimit
		}
		limit = n
	}

	entries, err := h.logs.ListByTransaction(c.Request.Context(), txnID, limit)
	if err != nil {
		response.Error(c, apperror.ErrStorageFailure(err))
		return
	}

	out := make([]dto.DeliveryLogEntryResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		out = append(out, dto.DeliveryLogEntryResponse{
			ID:           e.ID.String(),
			Attempt:      e.Attempt,
			HTTPStatus:   e.HTTPStatus,
			ResponseBody: e.ResponseBody,
			Error:        e.Error,
			Succeeded:    e.Succeeded(),
			Timestamp:    e.Timestamp,
		})
	}
	response.OK(c, out)
}
