package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"payment-webhook-relay/internal/adapter/http/dto"
	"payment-webhook-relay/internal/adapter/http/middleware"
	"payment-webhook-relay/internal/core/domain"
	"payment-webhook-relay/internal/core/ports/mocks"
	"payment-webhook-relay/pkg/apperror"
	"payment-webhook-relay/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxMerchantID, "m1")
	return c, w
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "missing data field in %s", w.Body.String())
	return data
}

// --- Webhook Handler Tests ---

func TestWebhookRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockRegistryService(ctrl)
	h := NewWebhookHandler(mockSvc)

	mockSvc.EXPECT().Register(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, reg *domain.WebhookRegistration) (*domain.WebhookRegistration, error) {
			assert.Equal(t, "m1", reg.MerchantID)
			assert.Equal(t, "https://shop.example.com/webhooks", reg.URL)
			out := *reg
			out.Secret = "********cdef"
			out.Events = domain.DefaultEventTypes()
			return &out, nil
		})

	body, _ := json.Marshal(dto.RegisterWebhookRequest{
		URL:    "  https://shop.example.com/webhooks  ",
		Secret: "0123456789abcdef",
	})
	c, w := testContext(t, http.MethodPut, "/api/v1/webhooks", body)

	h.Register(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "m1", data["merchant_id"])
	assert.Equal(t, "********cdef", data["secret"])
	assert.Len(t, data["events"], 3)
}

func TestWebhookRegister_BindingError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWebhookHandler(mocks.NewMockRegistryService(ctrl))

	c, w := testContext(t, http.MethodPut, "/api/v1/webhooks", []byte("{}"))
	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookRegister_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockRegistryService(ctrl)
	h := NewWebhookHandler(mockSvc)

	mockSvc.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInvalidWebhookURL())

	body, _ := json.Marshal(dto.RegisterWebhookRequest{URL: "ftp://nope", Secret: "0123456789abcdef"})
	c, w := testContext(t, http.MethodPut, "/api/v1/webhooks", body)

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "REG_001", resp["error_code"])
}

func TestWebhookGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockRegistryService(ctrl)
	h := NewWebhookHandler(mockSvc)

	mockSvc.EXPECT().Get(gomock.Any(), "m1").Return(nil, nil)

	c, w := testContext(t, http.MethodGet, "/api/v1/webhooks", nil)
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "REG_003", resp["error_code"])
}

func TestWebhookDelete_OK(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockRegistryService(ctrl)
	h := NewWebhookHandler(mockSvc)

	mockSvc.EXPECT().Delete(gomock.Any(), "m1").Return(nil)

	c, w := testContext(t, http.MethodDelete, "/api/v1/webhooks", nil)
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// --- Transaction Handler Tests ---

func testState() *domain.TxnState {
	return &domain.TxnState{
		TransactionID: "TXN1",
		MerchantID:    "m1",
		Status:        domain.StatusCompleted,
		UpdatedAt:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		LastEvent: domain.PaymentEvent{
			TransactionID: "TXN1",
			MerchantID:    "m1",
			Status:        domain.StatusCompleted,
			Amount:        100,
			Currency:      "GHS",
			OccurredAt:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestGetTransaction_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	states := mocks.NewMockTxnStateStore(ctrl)
	logs := mocks.NewMockDeliveryLogStore(ctrl)
	h := NewTransactionHandler(states, logs)

	states.EXPECT().Get(gomock.Any(), "TXN1").Return(testState(), nil)

	c, w := testContext(t, http.MethodGet, "/api/v1/transactions/TXN1", nil)
	c.Params = gin.Params{{Key: "id", Value: "TXN1"}}
	h.GetState(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "TXN1", data["transaction_id"])
	assert.Equal(t, "completed", data["status"])
	assert.Equal(t, float64(100), data["amount"])
}

func TestGetTransaction_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	states := mocks.NewMockTxnStateStore(ctrl)
	h := NewTransactionHandler(states, mocks.NewMockDeliveryLogStore(ctrl))

	states.EXPECT().Get(gomock.Any(), "UNKNOWN").Return(nil, nil)

	c, w := testContext(t, http.MethodGet, "/api/v1/transactions/UNKNOWN", nil)
	c.Params = gin.Params{{Key: "id", Value: "UNKNOWN"}}
	h.GetState(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "EVT_002", resp["error_code"])
}

func TestGetTransaction_OtherMerchantLooksAbsent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	states := mocks.NewMockTxnStateStore(ctrl)
	h := NewTransactionHandler(states, mocks.NewMockDeliveryLogStore(ctrl))

	other := testState()
	other.MerchantID = "someone-else"
	states.EXPECT().Get(gomock.Any(), "TXN1").Return(other, nil)

	c, w := testContext(t, http.MethodGet, "/api/v1/transactions/TXN1", nil)
	c.Params = gin.Params{{Key: "id", Value: "TXN1"}}
	h.GetState(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListDeliveries_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	states := mocks.NewMockTxnStateStore(ctrl)
	logs := mocks.NewMockDeliveryLogStore(ctrl)
	h := NewTransactionHandler(states, logs)

	status := 200
	states.EXPECT().Get(gomock.Any(), "TXN1").Return(testState(), nil)
	logs.EXPECT().ListByTransaction(gomock.Any(), "TXN1", defaultDeliveryLogLimit).Return([]domain.DeliveryLogEntry{
		{
			ID:            uuid.New(),
			TransactionID: "TXN1",
			MerchantID:    "m1",
			Attempt:       1,
			HTTPStatus:    &status,
			Timestamp:     time.Now().UTC(),
		},
	}, nil)

	c, w := testContext(t, http.MethodGet, "/api/v1/transactions/TXN1/deliveries", nil)
	c.Params = gin.Params{{Key: "id", Value: "TXN1"}}
	h.ListDeliveries(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	entries := resp["data"].([]interface{})
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]interface{})
	assert.Equal(t, float64(1), entry["attempt"])
	assert.Equal(t, true, entry["succeeded"])
}

func TestListDeliveries_BadLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	states := mocks.NewMockTxnStateStore(ctrl)
	h := NewTransactionHandler(states, mocks.NewMockDeliveryLogStore(ctrl))

	states.EXPECT().Get(gomock.Any(), "TXN1").Return(testState(), nil)

	c, w := testContext(t, http.MethodGet, "/api/v1/transactions/TXN1/deliveries?limit=bogus", nil)
	c.Params = gin.Params{{Key: "id", Value: "TXN1"}}
	h.ListDeliveries(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Callback Handler Tests ---

func TestVerify_Valid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registrations := mocks.NewMockRegistrationStore(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	sigSvc := mocks.NewMockSignatureService(ctrl)
	h := NewCallbackHandler(registrations, encSvc, sigSvc)

	registrations.EXPECT().Get(gomock.Any(), "m1").Return(&domain.WebhookRegistration{
		MerchantID: "m1",
		URL:        "https://shop.example.com/webhooks",
		Secret:     "ciphertext",
		Events:     []string{"payment.completed"},
	}, nil)
	encSvc.EXPECT().Decrypt("ciphertext").Return("plain-secret", nil)
	sigSvc.EXPECT().Verify("plain-secret", `{"x":1}`, "goodsig").Return(true)

	body, _ := json.Marshal(dto.VerifyRequest{Payload: `{"x":1}`, Signature: "goodsig"})
	c, w := testContext(t, http.MethodPost, "/api/v1/callbacks/verify", body)
	h.Verify(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, true, data["valid"])
}

func TestVerify_InvalidSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registrations := mocks.NewMockRegistrationStore(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	sigSvc := mocks.NewMockSignatureService(ctrl)
	h := NewCallbackHandler(registrations, encSvc, sigSvc)

	registrations.EXPECT().Get(gomock.Any(), "m1").Return(&domain.WebhookRegistration{
		MerchantID: "m1", URL: "https://shop.example.com/webhooks", Secret: "ciphertext",
	}, nil)
	encSvc.EXPECT().Decrypt("ciphertext").Return("plain-secret", nil)
	sigSvc.EXPECT().Verify("plain-secret", `{"x":1}`, "badsig").Return(false)

	body, _ := json.Marshal(dto.VerifyRequest{Payload: `{"x":1}`, Signature: "badsig"})
	c, w := testContext(t, http.MethodPost, "/api/v1/callbacks/verify", body)
	h.Verify(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DLV_001", resp["error_code"])
}

func TestVerify_NoRegistration(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registrations := mocks.NewMockRegistrationStore(ctrl)
	h := NewCallbackHandler(registrations, mocks.NewMockEncryptionService(ctrl), mocks.NewMockSignatureService(ctrl))

	registrations.EXPECT().Get(gomock.Any(), "m1").Return(nil, nil)

	body, _ := json.Marshal(dto.VerifyRequest{Payload: `{"x":1}`, Signature: "sig"})
	c, w := testContext(t, http.MethodPost, "/api/v1/callbacks/verify", body)
	h.Verify(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Router Tests ---

type fakeChecker struct {
	name string
	err  error
}

func (f *fakeChecker) Ping(context.Context) error { return f.err }
func (f *fakeChecker) Name() string               { return f.name }

func testRouter(t *testing.T, ctrl *gomock.Controller, checkers ...*fakeChecker) *gin.Engine {
	t.Helper()
	deps := RouterDeps{
		RegistrySvc:       mocks.NewMockRegistryService(ctrl),
		StateStore:        mocks.NewMockTxnStateStore(ctrl),
		DeliveryLogs:      mocks.NewMockDeliveryLogStore(ctrl),
		RegistrationStore: mocks.NewMockRegistrationStore(ctrl),
		EncSvc:            mocks.NewMockEncryptionService(ctrl),
		SigSvc:            mocks.NewMockSignatureService(ctrl),
		Logger:            logger.Nop(),
	}
	for _, c := range checkers {
		deps.HealthCheckers = append(deps.HealthCheckers, c)
	}
	return SetupRouter(deps)
}

func TestRouter_MissingMerchantHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := testRouter(t, ctrl)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/webhooks", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "REG_004", resp["error_code"])
}

func TestRouter_HealthDegraded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := testRouter(t, ctrl,
		&fakeChecker{name: "postgresql"},
		&fakeChecker{name: "redis", err: errors.New("connection refused")},
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
}

func TestRouter_HealthOK(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := testRouter(t, ctrl, &fakeChecker{name: "postgresql"}, &fakeChecker{name: "redis"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
