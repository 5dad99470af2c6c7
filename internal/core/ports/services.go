package ports

import (
	"context"

	"payment-webhook-relay/internal/core/domain"
)

// SignatureService handles HMAC-SHA256 signing and verification of
// webhook payloads.
type SignatureService interface {
	// Sign returns the lowercase hex HMAC-SHA256 of payload.
	Sign(secret string, payload string) string
	// Verify recomputes the signature and compares in constant time.
	Verify(secret string, payload string, signature string) bool
}

// EncryptionService handles AES-256-GCM encryption of registration
// secrets at rest.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// RegistryService manages merchant webhook registrations.
type RegistryService interface {
	// Register validates and upserts a registration (last write wins).
	// The returned copy carries a masked secret.
	Register(ctx context.Context, reg *domain.WebhookRegistration) (*domain.WebhookRegistration, error)
	// Delete removes the merchant's registration; idempotent.
	Delete(ctx context.Context, merchantID string) error
	// Get returns the registration with a masked secret, or nil, nil.
	Get(ctx context.Context, merchantID string) (*domain.WebhookRegistration, error)
}

// DeliveryService delivers one event to one registration's endpoint with
// at-least-once semantics and bounded effort.
type DeliveryService interface {
	// Deliver returns nil once an attempt receives a 2xx response and
	// ErrDeliveryExhausted after the attempt budget is spent.
	Deliver(ctx context.Context, reg *domain.WebhookRegistration, event *domain.PaymentEvent) error
}

// DeliveryDispatcher hands a matched (registration, event) pair to the
// delivery workers. Dispatch blocks while the merchant's queue is full.
type DeliveryDispatcher interface {
	Dispatch(ctx context.Context, reg *domain.WebhookRegistration, event *domain.PaymentEvent) error
}

// EventHandler processes one raw message from the event log.
type EventHandler interface {
	// HandleMessage returns an error only when processing must not be
	// committed (storage failures); malformed events are dropped.
	HandleMessage(ctx context.Context, topic string, payload []byte) error
}
