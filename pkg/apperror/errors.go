package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Webhook Registration (REG) ----

func ErrInvalidWebhookURL() *AppError {
	return New("REG_001", "Webhook URL must be an absolute http(s) URL", http.StatusBadRequest)
}

func ErrSecretTooShort() *AppError {
	return New("REG_002", "Webhook secret must be at least 16 characters", http.StatusBadRequest)
}

func ErrRegistrationNotFound() *AppError {
	return New("REG_003", "No webhook registration for merchant", http.StatusNotFound)
}

// ErrMissingMerchantID rejects requests lacking the merchant identity
// header the upstream gateway sets after authentication.
func ErrMissingMerchantID() *AppError {
	return New("REG_004", "Missing merchant identity header", http.StatusUnauthorized)
}

// ---- Event & Transaction Reads (EVT) ----

func ErrSchemaValidation(err error) *AppError {
	return Wrap("EVT_001", "Event does not conform to the PaymentEvent schema", http.StatusBadRequest, err)
}

func ErrTransactionNotFound() *AppError {
	return New("EVT_002", "Transaction not found", http.StatusNotFound)
}

// ---- Delivery & Signatures (DLV) ----

func ErrInvalidSignature() *AppError {
	return New("DLV_001", "Signature does not match payload", http.StatusUnauthorized)
}

// ---- System & Infrastructure (SYS) ----

func ErrStorageFailure(err error) *AppError {
	return Wrap("SYS_001", "Storage failure", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_002", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a generic bad-request validation error.
func Validation(message string) *AppError {
	return New("REG_000", message, http.StatusBadRequest)
}
