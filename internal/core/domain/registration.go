package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// MinSecretLength is the minimum length of a webhook signing secret.
const MinSecretLength = 16

// Registration validation failures.
var (
	ErrInvalidURL     = errors.New("url must be an absolute http(s) URL")
	ErrSecretTooShort = fmt.Errorf("secret must be at least %d characters", MinSecretLength)
)

// DefaultEventTypes is the subscription set applied when a registration
// does not name one.
func DefaultEventTypes() []string {
	return []string{
		EventTypePrefix + string(StatusCompleted),
		EventTypePrefix + string(StatusFailed),
		EventTypePrefix + string(StatusRefunded),
	}
}

// WebhookRegistration is a merchant's configured delivery endpoint.
// At most one is active per merchant; registration is last-write-wins.
//
// Secret holds the AES-256-GCM ciphertext once the registration has been
// persisted; only the delivery path decrypts it.
type WebhookRegistration struct {
	MerchantID string   `json:"merchant_id"`
	URL        string   `json:"url"`
	Secret     string   `json:"secret"`
	Events     []string `json:"events"`
}

// ApplyDefaults fills the subscription set when none was provided.
func (r *WebhookRegistration) ApplyDefaults() {
	if len(r.Events) == 0 {
		r.Events = DefaultEventTypes()
	}
}

// Validate checks URL and secret constraints. It is called before the
// secret is encrypted, so Secret is still plaintext here.
func (r *WebhookRegistration) Validate() error {
	if r.MerchantID == "" {
		return fmt.Errorf("merchant id is required")
	}
	u, err := url.Parse(r.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidURL
	}
	if len(r.Secret) < MinSecretLength {
		return ErrSecretTooShort
	}
	return nil
}

// Subscribes reports whether the registration subscribes to eventType.
func (r *WebhookRegistration) Subscribes(eventType string) bool {
	for _, e := range r.Events {
		if e == eventType {
			return true
		}
	}
	return false
}

// MaskedSecret returns a redacted form of the plaintext secret, safe to
// log or return to callers.
func MaskedSecret(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", 8) + secret[len(secret)-4:]
}
