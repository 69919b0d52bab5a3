package formdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"exam-portal/internal/cache"
	"exam-portal/internal/domain"
	"exam-portal/internal/platform/config"
	"exam-portal/internal/platform/metrics"
	"exam-portal/internal/upstream"
	"exam-portal/pkg/platform/sentinel"
)

const (
	// domainLabel tags metrics; contextLabel appears in sanitized messages.
	domainLabel  = "formdata"
	contextLabel = "form data"

	subtypeBase = "base"
)

// Service orchestrates form-data lookups: cache read, retried upstream
// fetch, transform, cache write-back. All failure paths terminate in a
// structured envelope; nothing here returns an error to the caller.
type Service struct {
	client     *upstream.Client
	retrier    *upstream.Retrier
	classifier *upstream.Classifier
	cache      cache.Store
	cfg        config.Domain
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics wires the prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates the form-data service. The cache store is required even for
// redis-less deployments; pass a MemoryStore there.
func New(client *upstream.Client, retrier *upstream.Retrier, classifier *upstream.Classifier, store cache.Store, cfg config.Domain, opts ...Option) (*Service, error) {
	if client == nil || retrier == nil || classifier == nil {
		return nil, errors.New("upstream client, retrier and classifier are required")
	}
	if store == nil {
		return nil, errors.New("cache store is required")
	}
	svc := &Service{
		client:     client,
		retrier:    retrier,
		classifier: classifier,
		cache:      store,
		cfg:        cfg,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Fetch returns the normalized form record for a registration number.
// Cached=true on the envelope means no upstream call was made.
func (s *Service) Fetch(ctx context.Context, registrationNumber string) domain.Envelope[StudentFormData] {
	key := domain.RegistrationKey(registrationNumber)
	if key.IsZero() {
		return domain.Fail[StudentFormData](string(upstream.CodeBadRequest), "Registration number is required.")
	}

	cacheKey := cache.Key(s.cfg.CachePrefix, subtypeBase, key.String())
	if record, ok := s.fromCache(ctx, cacheKey); ok {
		s.metrics.IncCacheHit(domainLabel)
		return domain.OK(record, true)
	}
	s.metrics.IncCacheMiss(domainLabel)

	requestURL := s.requestURL(key.String())
	var body []byte
	start := time.Now()
	err := s.retrier.Do(ctx, domainLabel, func() error {
		var callErr error
		body, callErr = s.client.Get(ctx, requestURL)
		return callErr
	})
	s.metrics.ObserveUpstreamRequest(domainLabel, time.Since(start))
	if err != nil {
		cls := s.classifier.Classify(ctx, err, contextLabel, key.String())
		s.metrics.IncUpstreamError(domainLabel, string(cls.Code))
		return domain.Fail[StudentFormData](string(cls.Code), cls.Message)
	}

	var outer struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
		Message string         `json:"message"`
	}
	if err := json.Unmarshal(body, &outer); err != nil {
		cls := s.classifier.Classify(ctx, fmt.Errorf("decode upstream response: %w", err), contextLabel, key.String())
		s.metrics.IncUpstreamError(domainLabel, string(cls.Code))
		return domain.Fail[StudentFormData](string(cls.Code), cls.Message)
	}
	if !outer.Success || outer.Data == nil {
		// Upstream answered but reported failure itself. Not a transport
		// error: it bypasses the classifier and is never cached.
		message := outer.Message
		if message == "" {
			message = "No record found for the given details."
		}
		return domain.Fail[StudentFormData]("", message)
	}

	record := Transform(outer.Data)
	s.toCache(ctx, cacheKey, record)

	return domain.OK(record, false)
}

// Invalidate drops the cached entry for a registration number. Best-effort:
// a cache failure is logged and swallowed, the next Fetch simply goes
// upstream.
func (s *Service) Invalidate(ctx context.Context, registrationNumber string) {
	key := domain.RegistrationKey(registrationNumber)
	if key.IsZero() {
		return
	}
	cacheKey := cache.Key(s.cfg.CachePrefix, subtypeBase, key.String())
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed",
			"domain", domainLabel, "key", cacheKey, "error", err.Error())
	}
}

func (s *Service) fromCache(ctx context.Context, cacheKey string) (*StudentFormData, bool) {
	payload, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			// Cache trouble is advisory; carry on to upstream.
			s.logger.WarnContext(ctx, "cache read failed",
				"domain", domainLabel, "key", cacheKey, "error", err.Error())
		}
		return nil, false
	}
	var record StudentFormData
	if err := json.Unmarshal(payload, &record); err != nil {
		s.logger.WarnContext(ctx, "discarding undecodable cache entry",
			"domain", domainLabel, "key", cacheKey, "error", err.Error())
		return nil, false
	}
	return &record, true
}

func (s *Service) toCache(ctx context.Context, cacheKey string, record *StudentFormData) {
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.WarnContext(ctx, "cache encode failed",
			"domain", domainLabel, "key", cacheKey, "error", err.Error())
		return
	}
	if err := s.cache.Set(ctx, cacheKey, payload, s.cfg.CacheTTL); err != nil {
		s.logger.WarnContext(ctx, "cache write failed",
			"domain", domainLabel, "key", cacheKey, "error", err.Error())
	}
}

func (s *Service) requestURL(registrationNumber string) string {
	return fmt.Sprintf("%s/%s?hash=%s",
		strings.TrimSuffix(s.cfg.BaseURL, "/"),
		url.PathEscape(registrationNumber),
		url.QueryEscape(s.cfg.Hash),
	)
}
