package service

import (
	"context"
	"errors"

	"payment-webhook-relay/internal/core/domain"
	"payment-webhook-relay/internal/core/ports"
	"payment-webhook-relay/pkg/apperror"

	"github.com/rs/zerolog"
)

// registryService implements ports.RegistryService. Secrets are encrypted
// before they reach the store and masked before they leave this service.
type registryService struct {
	store  ports.RegistrationStore
	encSvc ports.EncryptionService
	log    zerolog.Logger
}

// NewRegistryService creates the webhook registry service.
func NewRegistryService(store ports.RegistrationStore, encSvc ports.EncryptionService, log zerolog.Logger) ports.RegistryService {
	return &registryService{store: store, encSvc: encSvc, log: log}
}

// Register validates and upserts a registration. Re-registration is not an
// error: the previous registration is overwritten unconditionally.
func (s *registryService) Register(ctx context.Context, reg *domain.WebhookRegistration) (*domain.WebhookRegistration, error) {
	reg.ApplyDefaults()
	if err := reg.Validate(); err != nil {
		switch {
		case errors.Is(err, domain.ErrSecretTooShort):
			return nil, apperror.ErrSecretTooShort()
		case errors.Is(err, domain.ErrInvalidURL):
			return nil, apperror.ErrInvalidWebhookURL()
		default:
			return nil, apperror.Validation(err.Error())
		}
	}

	plaintext := reg.Secret
	enc, err := s.encSvc.Encrypt(plaintext)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}

	stored := &domain.WebhookRegistration{
		MerchantID: reg.MerchantID,
		URL:        reg.URL,
		Secret:     enc,
		Events:     reg.Events,
	}
	if err := s.store.Set(ctx, stored); err != nil {
		return nil, apperror.ErrStorageFailure(err)
	}

	s.log.Info().
		Str("merchant_id", reg.MerchantID).
		Str("url", reg.URL).
		Strs("events", reg.Events).
		Msg("webhook registration upserted")

	return &domain.WebhookRegistration{
		MerchantID: reg.MerchantID,
		URL:        reg.URL,
		Secret:     domain.MaskedSecret(plaintext),
		Events:     reg.Events,
	}, nil
}

// Delete removes the merchant's registration. Deleting a merchant that
// never registered succeeds.
func (s *registryService) Delete(ctx context.Context, merchantID string) error {
	if err := s.store.Delete(ctx, merchantID); err != nil {
		return apperror.ErrStorageFailure(err)
	}
	s.log.Info().Str("merchant_id", merchantID).Msg("webhook registration deleted")
	return nil
}

// Get returns the registration with a masked secret, or nil, nil when the
// merchant has none configured.
func (s *registryService) Get(ctx context.Context, merchantID string) (*domain.WebhookRegistration, error) {
	reg, err := s.store.Get(ctx, merchantID)
	if err != nil {
		return nil, apperror.ErrStorageFailure(err)
	}
	if reg == nil {
		return nil, nil
	}

	secret, err := s.encSvc.Decrypt(reg.Secret)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}
	reg.Secret = domain.MaskedSecret(secret)
	return reg, nil
}
