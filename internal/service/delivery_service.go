package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"payment-webhook-relay/internal/core/domain"
	"payment-webhook-relay/internal/core/ports"
	"payment-webhook-relay/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Webhook request headers.
const (
	HeaderSignature     = "X-Webhook-Signature"
	HeaderEventType     = "X-Event-Type"
	HeaderTransactionID = "X-Transaction-Id"
)

// maxResponseCapture caps the response body stored in the delivery log.
const maxResponseCapture = 4 << 10

// ErrDeliveryExhausted is returned after the attempt budget is spent
// without a 2xx response. The caller does not retry further; the delivery
// log is the recovery path.
var ErrDeliveryExhausted = errors.New("delivery: all attempts exhausted")

// HTTPClient is the outbound HTTP seam, satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DeliveryConfig bounds one delivery cycle.
type DeliveryConfig struct {
	MaxAttempts int           // total HTTP attempts per delivery
	Timeout     time.Duration // per-attempt timeout
	BackoffBase time.Duration // delay after the first failed attempt
	BackoffCap  time.Duration // ceiling on the doubling schedule
}

// Backoff returns the delay inserted after a failed attempt (1-based):
// base·2^(attempt-1), capped.
func (c DeliveryConfig) Backoff(attempt int) time.Duration {
	d := c.BackoffBase << (attempt - 1)
	if d > c.BackoffCap || d <= 0 {
		d = c.BackoffCap
	}
	return d
}

// deliveryService implements ports.DeliveryService.
type deliveryService struct {
	logs       ports.DeliveryLogStore
	encSvc     ports.EncryptionService
	sigSvc     ports.SignatureService
	httpClient HTTPClient
	cfg        DeliveryConfig
	metrics    *metrics.Metrics
	log        zerolog.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewDeliveryService creates the webhook delivery engine.
func NewDeliveryService(
	logs ports.DeliveryLogStore,
	encSvc ports.EncryptionService,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	cfg DeliveryConfig,
	m *metrics.Metrics,
	log zerolog.Logger,
) ports.DeliveryService {
	return &deliveryService{
		logs:       logs,
		encSvc:     encSvc,
		sigSvc:     sigSvc,
		httpClient: httpClient,
		cfg:        cfg,
		metrics:    m,
		log:        log,
		sleep:      sleepCtx,
	}
}

// Deliver signs and POSTs the event to the registration's endpoint,
// retrying with exponential backoff. Every attempt is appended to the
// delivery log. At-least-once: a 2xx ends the cycle, exhaustion returns
// ErrDeliveryExhausted.
func (s *deliveryService) Deliver(ctx context.Context, reg *domain.WebhookRegistration, event *domain.PaymentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	secret, err := s.encSvc.Decrypt(reg.Secret)
	if err != nil {
		return fmt.Errorf("decrypting webhook secret: %w", err)
	}
	signature := s.sigSvc.Sign(secret, string(body))

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		start := time.Now()
		status, respBody, attemptErr := s.attempt(ctx, reg.URL, body, signature, event)
		elapsed := time.Since(start)

		s.metrics.DeliveriesAttempted.Inc()
		s.metrics.AttemptDuration.Observe(elapsed.Seconds())
		s.appendLog(ctx, event, attempt, status, respBody, attemptErr)

		if status != nil && *status >= 200 && *status < 300 {
			s.metrics.DeliveriesSucceeded.Inc()
			s.log.Info().
				Str("transaction_id", event.TransactionID).
				Str("merchant_id", event.MerchantID).
				Int("attempt", attempt).
				Int("status", *status).
				Dur("latency", elapsed).
				Msg("webhook delivered")
			return nil
		}

		logEvt := s.log.Warn().
			Str("transaction_id", event.TransactionID).
			Str("merchant_id", event.MerchantID).
			Int("attempt", attempt)
		if attemptErr != nil {
			logEvt = logEvt.Err(attemptErr)
		} else if status != nil {
			logEvt = logEvt.Int("status", *status)
		}
		logEvt.Msg("webhook attempt failed")

		if attempt < s.cfg.MaxAttempts {
			if err := s.sleep(ctx, s.cfg.Backoff(attempt)); err != nil {
				return err
			}
		}
	}

	s.metrics.DeliveriesFailed.Inc()
	s.log.Error().
		Str("transaction_id", event.TransactionID).
		Str("merchant_id", event.MerchantID).
		Int("attempts", s.cfg.MaxAttempts).
		Msg("webhook delivery exhausted")
	return ErrDeliveryExhausted
}

// attempt issues one POST. Returns the HTTP status (nil on transport
// failure), the captured response body and the transport error, if any.
func (s *deliveryService) attempt(ctx context.Context, url string, body []byte, signature string, event *domain.PaymentEvent) (*int, string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderSignature, signature)
	req.Header.Set(HeaderEventType, event.EventType())
	req.Header.Set(HeaderTransactionID, event.TransactionID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	// Best-effort body capture; the status code alone decides the outcome.
	captured, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseCapture))
	status := resp.StatusCode
	return &status, string(captured), nil
}

// appendLog records one attempt in the audit trail. Audit failures are
// logged, not escalated: the attempt outcome already drove the retry
// decision.
func (s *deliveryService) appendLog(ctx context.Context, event *domain.PaymentEvent, attempt int, status *int, respBody string, attemptErr error) {
	entry := &domain.DeliveryLogEntry{
		ID:            uuid.New(),
		TransactionID: event.TransactionID,
		MerchantID:    event.MerchantID,
		Attempt:       attempt,
		HTTPStatus:    status,
		Timestamp:     time.Now().UTC(),
	}
	if respBody != "" {
		entry.ResponseBody = &respBody
	}
	if attemptErr != nil {
		msg := attemptErr.Error()
		entry.Error = &msg
	}

	if err := s.logs.Append(ctx, entry); err != nil {
		s.log.Error().Err(err).
			Str("transaction_id", event.TransactionID).
			Int("attempt", attempt).
			Msg("failed to append delivery log entry")
	}
}

// sleepCtx sleeps for d, returning early with the context error when the
// context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
