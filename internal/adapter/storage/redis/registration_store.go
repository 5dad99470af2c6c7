package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"payment-webhook-relay/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// RegistrationStore implements ports.RegistrationStore on Redis. One JSON
// value per merchant under "webhook:{merchantId}", no TTL: registrations
// live until explicitly deleted.
type RegistrationStore struct {
	client *goredis.Client
	prefix string
}

// NewRegistrationStore creates a Redis-backed registration store.
func NewRegistrationStore(client *goredis.Client) *RegistrationStore {
	return &RegistrationStore{
		client: client,
		prefix: "webhook:",
	}
}

// Set stores or overwrites the merchant's registration.
func (s *RegistrationStore) Set(ctx context.Context, reg *domain.WebhookRegistration) error {
	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshaling registration: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+reg.MerchantID, data, 0).Err(); err != nil {
		return fmt.Errorf("redis registration set: %w", err)
	}
	return nil
}

// Get retrieves a registration by merchant id.
// Returns nil, nil if the merchant has no registration.
func (s *RegistrationStore) Get(ctx context.Context, merchantID string) (*domain.WebhookRegistration, error) {
	data, err := s.client.Get(ctx, s.prefix+merchantID).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis registration get: %w", err)
	}

	var reg domain.WebhookRegistration
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("unmarshaling registration: %w", err)
	}
	return &reg, nil
}

// Delete removes the merchant's registration. Deleting a missing key is
// not an error.
func (s *RegistrationStore) Delete(ctx context.Context, merchantID string) error {
	if err := s.client.Del(ctx, s.prefix+merchantID).Err(); err != nil {
		return fmt.Errorf("redis registration delete: %w", err)
	}
	return nil
}
