package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"payment-webhook-relay/internal/core/domain"
	"payment-webhook-relay/internal/core/ports"
	"payment-webhook-relay/internal/metrics"
	"payment-webhook-relay/pkg/apperror"

	"github.com/rs/zerolog"
)

// consumerService implements ports.EventHandler. Per message:
// validate -> persist state -> registry lookup -> subscription filter ->
// dispatch to the delivery workers.
//
// Malformed events are logged and dropped (no dead-letter queue); storage
// failures propagate so the message is not committed and gets redelivered.
type consumerService struct {
	states   ports.TxnStateStore
	registry ports.RegistrationStore
	dispatch ports.DeliveryDispatcher
	metrics  *metrics.Metrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewConsumerService creates the event consumer.
func NewConsumerService(
	states ports.TxnStateStore,
	registry ports.RegistrationStore,
	dispatch ports.DeliveryDispatcher,
	m *metrics.Metrics,
	log zerolog.Logger,
) ports.EventHandler {
	return &consumerService{
		states:   states,
		registry: registry,
		dispatch: dispatch,
		metrics:  m,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// HandleMessage processes one raw message from the event log.
func (s *consumerService) HandleMessage(ctx context.Context, topic string, payload []byte) error {
	var event domain.PaymentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.metrics.EventsConsumed.WithLabelValues(topic, metrics.ResultInvalid).Inc()
		s.log.Warn().Err(err).Str("topic", topic).Msg("dropping malformed event")
		return nil
	}
	if err := event.Validate(); err != nil {
		s.metrics.EventsConsumed.WithLabelValues(topic, metrics.ResultInvalid).Inc()
		s.log.Warn().Err(apperror.ErrSchemaValidation(err)).
			Str("topic", topic).
			Str("transaction_id", event.TransactionID).
			Msg("dropping event failing schema validation")
		return nil
	}

	// State must be durably recorded before any delivery decision.
	state := domain.NewTxnState(event, s.now())
	if err := s.states.Persist(ctx, state); err != nil {
		s.metrics.EventsConsumed.WithLabelValues(topic, metrics.ResultStorageError).Inc()
		return fmt.Errorf("persisting transaction state: %w", err)
	}

	reg, err := s.registry.Get(ctx, event.MerchantID)
	if err != nil {
		s.metrics.EventsConsumed.WithLabelValues(topic, metrics.ResultStorageError).Inc()
		return fmt.Errorf("looking up registration: %w", err)
	}
	if reg == nil {
		// The common case for merchants without webhooks configured.
		s.metrics.EventsConsumed.WithLabelValues(topic, metrics.ResultOK).Inc()
		s.metrics.DeliveriesSkipped.WithLabelValues(metrics.SkipNoRegistration).Inc()
		s.log.Debug().
			Str("merchant_id", event.MerchantID).
			Str("transaction_id", event.TransactionID).
			Msg("no registration, delivery skipped")
		return nil
	}
	if !reg.Subscribes(event.EventType()) {
		s.metrics.EventsConsumed.WithLabelValues(topic, metrics.ResultOK).Inc()
		s.metrics.DeliveriesSkipped.WithLabelValues(metrics.SkipNotSubscribed).Inc()
		s.log.Debug().
			Str("merchant_id", event.MerchantID).
			Str("event_type", event.EventType()).
			Msg("event type not subscribed, delivery skipped")
		return nil
	}

	// Acceptance means queued for delivery, not delivered: the offset is
	// committed once this returns. Graceful shutdown drains the queue; a
	// hard crash can lose queued deliveries, which the absence of audit
	// log entries for a recorded state makes visible.
	if err := s.dispatch.Dispatch(ctx, reg, &event); err != nil {
		return fmt.Errorf("dispatching delivery: %w", err)
	}
	s.metrics.EventsConsumed.WithLabelValues(topic, metrics.ResultOK).Inc()
	return nil
}
