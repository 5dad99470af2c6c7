package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New("REG_001", "Webhook URL must be an absolute http(s) URL", http.StatusBadRequest)
	assert.Equal(t, "[REG_001] Webhook URL must be an absolute http(s) URL", e.Error())

	wrapped := Wrap("SYS_001", "Storage failure", http.StatusInternalServerError, errors.New("conn refused"))
	assert.Equal(t, "[SYS_001] Storage failure: conn refused", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("redis down")
	e := ErrStorageFailure(inner)
	assert.ErrorIs(t, e, inner)

	// errors.As resolves through fmt wrapping too.
	doubled := fmt.Errorf("persisting state: %w", e)
	var appErr *AppError
	assert.True(t, errors.As(doubled, &appErr))
	assert.Equal(t, "SYS_001", appErr.Code)
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		err    *AppError
		code   string
		status int
	}{
		{ErrInvalidWebhookURL(), "REG_001", http.StatusBadRequest},
		{ErrSecretTooShort(), "REG_002", http.StatusBadRequest},
		{ErrRegistrationNotFound(), "REG_003", http.StatusNotFound},
		{ErrSchemaValidation(errors.New("bad status")), "EVT_001", http.StatusBadRequest},
		{ErrTransactionNotFound(), "EVT_002", http.StatusNotFound},
		{ErrInvalidSignature(), "DLV_001", http.StatusUnauthorized},
		{ErrStorageFailure(errors.New("io")), "SYS_001", http.StatusInternalServerError},
		{InternalError(errors.New("panic: boom")), "SYS_001", http.StatusInternalServerError},
		{ErrEncryptionFailure(errors.New("bad key")), "SYS_002", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
		assert.Equal(t, tt.status, tt.err.HTTPStatus)
	}
}
