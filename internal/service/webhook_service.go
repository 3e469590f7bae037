package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Wait before each retry of a failed delivery.
var webhookRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	2 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
}

const (
	webhookRequestTimeout = 10 * time.Second
	webhookSecretBytes    = 32
	minWebhookSecretLen   = 16
	maxWebhookSecretLen   = 128
	maxWebhookURLLen      = 512
	defaultDeliveryLimit  = 50
	maxDeliveryLimit      = 200
	maxResponseDrain      = 64 << 10
)

// Headers set on every delivery.
const (
	HeaderWebhookSignature = "X-Webhook-Signature"
	HeaderWebhookTimestamp = "X-Webhook-Timestamp"
	HeaderWebhookEvent     = "X-Webhook-Event"
	HeaderWebhookDelivery  = "X-Webhook-Delivery"
)

// WebhookPayload is the JSON body POSTed to a merchant endpoint.
type WebhookPayload struct {
	DeliveryID uuid.UUID        `json:"delivery_id"`
	EventID    uuid.UUID        `json:"event_id"`
	EventType  domain.EventType `json:"event_type"`
	Merchant   string           `json:"merchant"`
	OccurredAt time.Time        `json:"occurred_at"`
	Data       json.RawMessage  `json:"data"`
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookServiceImpl implements ports.WebhookService. Deliveries run in the
// background and are retried on the webhookRetryIntervals schedule.
type WebhookServiceImpl struct {
	repo       ports.WebhookRepository
	encSvc     ports.EncryptionService
	sigSvc     ports.SignatureService
	httpClient HTTPClient
	log        zerolog.Logger
	now        func() time.Time
	retries    []time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWebhookService creates a new webhook service.
func NewWebhookService(
	repo ports.WebhookRepository,
	encSvc ports.EncryptionService,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	log zerolog.Logger,
) *WebhookServiceImpl {
	ctx, cancel := context.WithCancel(context.Background())
	return &WebhookServiceImpl{
		repo:       repo,
		encSvc:     encSvc,
		sigSvc:     sigSvc,
		httpClient: httpClient,
		log:        log.With().Str("component", "webhooks").Logger(),
		now:        systemClock,
		retries:    webhookRetryIntervals,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SetEndpoint registers or replaces the merchant's endpoint and returns the
// signing secret once.
func (s *WebhookServiceImpl) SetEndpoint(ctx context.Context, req ports.SetWebhookRequest) (*ports.WebhookEndpointView, error) {
	if err := validPrincipal(req.Merchant); err != nil {
		return nil, err
	}
	if err := validWebhookURL(req.URL); err != nil {
		return nil, err
	}

	secret := req.Secret
	if secret == "" {
		buf := make([]byte, webhookSecretBytes)
		if _, err := rand.Read(buf); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("generate webhook secret: %w", err))
		}
		secret = "whsec_" + hex.EncodeToString(buf)
	} else if len(secret) < minWebhookSecretLen || len(secret) > maxWebhookSecretLen {
		return nil, apperror.Validation(fmt.Sprintf("webhook secret must be %d to %d characters", minWebhookSecretLen, maxWebhookSecretLen))
	}

	secretEnc, err := s.encSvc.Encrypt(secret)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("encrypt webhook secret: %w", err))
	}

	now := s.now()
	ep, err := s.repo.GetEndpoint(ctx, req.Merchant)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get webhook endpoint: %w", err))
	}
	if ep == nil {
		ep = &domain.WebhookEndpoint{Merchant: req.Merchant, CreatedAt: now}
	}
	ep.URL = req.URL
	ep.SecretEnc = secretEnc
	ep.Active = true
	ep.UpdatedAt = now

	if err := s.repo.UpsertEndpoint(ctx, ep); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save webhook endpoint: %w", err))
	}

	s.log.Info().Str("merchant", ep.Merchant).Str("url", ep.URL).Msg("webhook endpoint saved")
	return &ports.WebhookEndpointView{Endpoint: ep, Secret: secret}, nil
}

// GetEndpoint returns the merchant's endpoint without its secret.
func (s *WebhookServiceImpl) GetEndpoint(ctx context.Context, merchant string) (*ports.WebhookEndpointView, error) {
	ep, err := s.repo.GetEndpoint(ctx, merchant)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get webhook endpoint: %w", err))
	}
	if ep == nil {
		return nil, apperror.ErrNotFound("webhook endpoint")
	}
	return &ports.WebhookEndpointView{Endpoint: ep}, nil
}

// ListDeliveries returns the merchant's delivery log, newest first.
func (s *WebhookServiceImpl) ListDeliveries(ctx context.Context, merchant string, limit int) ([]domain.WebhookDelivery, error) {
	if limit <= 0 {
		limit = defaultDeliveryLimit
	}
	if limit > maxDeliveryLimit {
		limit = maxDeliveryLimit
	}
	out, err := s.repo.ListDeliveries(ctx, merchant, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list webhook deliveries: %w", err))
	}
	return out, nil
}

// Notify implements ports.EventNotifier. Merchant-facing events are queued
// for delivery to the merchant's endpoint; everything else is ignored.
func (s *WebhookServiceImpl) Notify(ctx context.Context, evt *domain.Event) {
	if !domain.MerchantEvents[evt.Type] {
		return
	}
	var subject struct {
		Merchant string `json:"merchant"`
	}
	if err := json.Unmarshal(evt.Data, &subject); err != nil || subject.Merchant == "" {
		s.log.Warn().Str("event_id", evt.ID.String()).Str("type", string(evt.Type)).Msg("webhook: event names no merchant")
		return
	}

	ep, err := s.repo.GetEndpoint(ctx, subject.Merchant)
	if err != nil {
		s.log.Error().Err(err).Str("merchant", subject.Merchant).Msg("webhook: failed to fetch endpoint")
		return
	}
	if ep == nil || !ep.Active {
		s.log.Debug().Str("merchant", subject.Merchant).Msg("webhook: no endpoint configured, skipping")
		return
	}

	secret, err := s.encSvc.Decrypt(ep.SecretEnc)
	if err != nil {
		s.log.Error().Err(err).Str("merchant", ep.Merchant).Msg("webhook: failed to decrypt secret")
		return
	}

	now := s.now()
	delivery := &domain.WebhookDelivery{
		ID:        uuid.New(),
		EventID:   evt.ID,
		EventType: evt.Type,
		Merchant:  ep.Merchant,
		URL:       ep.URL,
		Status:    domain.WebhookStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	body, err := json.Marshal(WebhookPayload{
		DeliveryID: delivery.ID,
		EventID:    evt.ID,
		EventType:  evt.Type,
		Merchant:   ep.Merchant,
		OccurredAt: evt.OccurredAt,
		Data:       evt.Data,
	})
	if err != nil {
		s.log.Error().Err(err).Str("event_id", evt.ID.String()).Msg("webhook: failed to marshal payload")
		return
	}
	delivery.Payload = string(body)

	if err := s.repo.CreateDelivery(ctx, delivery); err != nil {
		s.log.Warn().Err(err).Str("delivery_id", delivery.ID.String()).Msg("webhook: failed to log delivery")
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.deliverWithRetries(delivery, secret, body)
	}()
}

// Close abandons pending retries and waits for in-flight deliveries.
func (s *WebhookServiceImpl) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *WebhookServiceImpl) deliverWithRetries(d *domain.WebhookDelivery, secret string, body []byte) {
	log := s.log.With().
		Str("delivery_id", d.ID.String()).
		Str("merchant", d.Merchant).
		Str("type", string(d.EventType)).
		Logger()

	for attempt := 0; attempt <= len(s.retries); attempt++ {
		if attempt > 0 {
			t := time.NewTimer(s.retries[attempt-1])
			select {
			case <-s.ctx.Done():
				t.Stop()
				s.finish(d, domain.WebhookStatusFailed, "abandoned at shutdown")
				log.Warn().Int("attempt", attempt).Msg("webhook: retries abandoned at shutdown")
				return
			case <-t.C:
			}
		}
		d.Attempt = attempt + 1

		status, err := s.post(d, secret, body)
		if status != 0 {
			d.HTTPStatus = &status
		}
		if err == nil && status >= 200 && status < 300 {
			s.finish(d, domain.WebhookStatusDelivered, "")
			log.Info().Int("attempt", d.Attempt).Int("status", status).Msg("webhook: delivered")
			return
		}

		msg := fmt.Sprintf("non-2xx response: %d", status)
		if err != nil {
			msg = err.Error()
		}
		d.LastError = &msg
		d.UpdatedAt = s.now()
		if uerr := s.repo.UpdateDelivery(s.ctx, d); uerr != nil {
			log.Warn().Err(uerr).Msg("webhook: failed to update delivery log")
		}
		log.Warn().Int("attempt", d.Attempt).Str("error", msg).Msg("webhook: delivery failed")
	}

	s.finish(d, domain.WebhookStatusFailed, "")
	log.Error().Int("attempts", d.Attempt).Msg("webhook: all retry attempts exhausted")
}

// post sends one attempt and returns the HTTP status, or 0 when no response
// was received.
func (s *WebhookServiceImpl) post(d *domain.WebhookDelivery, secret string, body []byte) (int, error) {
	ctx, cancel := context.WithTimeout(s.ctx, webhookRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	ts := s.now().Unix()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderWebhookEvent, string(d.EventType))
	req.Header.Set(HeaderWebhookDelivery, d.ID.String())
	req.Header.Set(HeaderWebhookTimestamp, strconv.FormatInt(ts, 10))
	req.Header.Set(HeaderWebhookSignature, s.sigSvc.Sign(secret, WebhookSignedContent(ts, body)))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseDrain))
	return resp.StatusCode, nil
}

func (s *WebhookServiceImpl) finish(d *domain.WebhookDelivery, status domain.WebhookStatus, reason string) {
	d.Status = status
	if status == domain.WebhookStatusDelivered {
		d.LastError = nil
	} else if reason != "" {
		d.LastError = &reason
	}
	d.UpdatedAt = s.now()
	// The service context may already be cancelled at shutdown.
	if err := s.repo.UpdateDelivery(context.WithoutCancel(s.ctx), d); err != nil {
		s.log.Warn().Err(err).Str("delivery_id", d.ID.String()).Msg("webhook: failed to update delivery log")
	}
}

func validWebhookURL(raw string) error {
	if raw == "" || len(raw) > maxWebhookURLLen {
		return apperror.Validation(fmt.Sprintf("webhook url is required and at most %d characters", maxWebhookURLLen))
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperror.Validation("webhook url must be an absolute http or https URL")
	}
	return nil
}
