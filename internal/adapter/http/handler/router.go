package handler

import (
	"net/http"

	"payment-webhook-relay/internal/adapter/http/middleware"
	"payment-webhook-relay/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	RegistrySvc       ports.RegistryService
	StateStore        ports.TxnStateStore
	DeliveryLogs      ports.DeliveryLogStore
	RegistrationStore ports.RegistrationStore
	EncSvc            ports.EncryptionService
	SigSvc            ports.SignatureService
	HealthCheckers    []ports.HealthChecker
	MetricsHandler    http.Handler // nil = metrics endpoint disabled
	Logger            zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
// Authentication lives in the upstream gateway; the API trusts the
// X-Merchant-Id header it injects.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	// API v1 routes, all merchant-scoped
	v1 := r.Group("/api/v1", middleware.TrustedMerchant())

	webhookHandler := NewWebhookHandler(deps.RegistrySvc)
	webhooks := v1.Group("/webhooks")
	{
		webhooks.PUT("", webhookHandler.Register)
		webhooks.DELETE("", webhookHandler.Delete)
		webhooks.GET("", webhookHandler.Get)
	}

	txnHandler := NewTransactionHandler(deps.StateStore, deps.DeliveryLogs)
	transactions := v1.Group("/transactions")
	{
		transactions.GET("/:id", txnHandler.GetState)
		transactions.GET("/:id/deliveries", txnHandler.ListDeliveries)
	}

	callbackHandler := NewCallbackHandler(deps.RegistrationStore, deps.EncSvc, deps.SigSvc)
	callbacks := v1.Group("/callbacks")
	{
		callbacks.POST("/verify", callbackHandler.Verify)
	}

	return r
}
