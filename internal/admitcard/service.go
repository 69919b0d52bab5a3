package admitcard

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
	domainLabel  = "admitcard"
	contextLabel = "admit card"
)

// Service orchestrates admit-card lookups for both upstream variants.
//
// When the request carries a rollCode+rollNumber pair the dedicated POST
// endpoint is authoritative: it returns the raw record directly, without an
// outer success envelope. With only a registration number the service falls
// back to the form-data-shaped GET endpoint, whose records carry no exam
// date/time/shift. Normalized results cache per sub-type (theory,
// practical); the raw roll-variant record caches under the base sub-type so
// the sibling sub-type can be derived without a second upstream call.
type Service struct {
	client     *upstream.Client
	retrier    *upstream.Retrier
	classifier *upstream.Classifier
	cache      cache.Store
	cfg        config.AdmitCard
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

// New creates the admit-card service.
func New(client *upstream.Client, retrier *upstream.Retrier, classifier *upstream.Classifier, store cache.Store, cfg config.AdmitCard, opts ...Option) (*Service, error) {
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

// FetchTheory returns the theory admit card for the request.
func (s *Service) FetchTheory(ctx context.Context, req Request) domain.Envelope[AdmitCardData] {
	return s.fetch(ctx, req, SubtypeTheory)
}

// FetchPractical returns the practical admit card for the request.
func (s *Service) FetchPractical(ctx context.Context, req Request) domain.Envelope[AdmitCardData] {
	return s.fetch(ctx, req, SubtypePractical)
}

func (s *Service) fetch(ctx context.Context, req Request, subtype Subtype) domain.Envelope[AdmitCardData] {
	key := req.LookupKey()
	if key.IsZero() {
		// No identifier resolvable: synthetic failure, zero cache or
		// upstream traffic.
		return domain.Fail[AdmitCardData](string(upstream.CodeBadRequest),
			"Either registration number or roll code and roll number are required.")
	}

	cacheKey := s.key(subtype, key)
	if record, ok := s.normalizedFromCache(ctx, cacheKey); ok {
		s.metrics.IncCacheHit(domainLabel)
		return domain.OK(record, true)
	}
	s.metrics.IncCacheMiss(domainLabel)

	// A cached base record lets us derive this sub-type without going
	// upstream again.
	if raw, ok := s.rawFromCache(ctx, s.key(SubtypeBase, key)); ok {
		record := Transform(raw, subtype)
		s.writeCache(ctx, cacheKey, record)
		return domain.OK(record, true)
	}

	var (
		raw      map[string]any
		envelope *domain.Envelope[AdmitCardData]
	)
	if req.HasRollPair() {
		raw, envelope = s.fetchRollVariant(ctx, req, key)
	} else {
		raw, envelope = s.fetchRegistrationVariant(ctx, key)
	}
	if envelope != nil {
		return *envelope
	}

	record := Transform(raw, subtype)
	s.writeCache(ctx, cacheKey, record)

	return domain.OK(record, false)
}

// fetchRollVariant POSTs to the dedicated admit-card endpoint. The response
// is the raw record itself; an empty object means the upstream has nothing
// for these details. The raw record is cached under the base sub-type.
func (s *Service) fetchRollVariant(ctx context.Context, req Request, key domain.LookupKey) (map[string]any, *domain.Envelope[AdmitCardData]) {
	endpoint := fmt.Sprintf("%s/%s", strings.TrimSuffix(s.cfg.BaseURL, "/"), s.cfg.Endpoint)
	payload := map[string]string{
		"registrationNumber": req.RegistrationNumber,
		"rollCode":           req.RollCode,
		"rollNumber":         req.RollNumber,
	}

	var body []byte
	start := time.Now()
	err := s.retrier.Do(ctx, domainLabel, func() error {
		var callErr error
		body, callErr = s.client.PostJSON(ctx, endpoint, payload)
		return callErr
	})
	s.metrics.ObserveUpstreamRequest(domainLabel, time.Since(start))
	if err != nil {
		return nil, s.classified(ctx, err, key)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, s.classified(ctx, fmt.Errorf("decode upstream response: %w", err), key)
	}
	if len(raw) == 0 {
		env := domain.Fail[AdmitCardData]("", "No admit card found for the given details.")
		return nil, &env
	}

	s.writeRawCache(ctx, s.key(SubtypeBase, key), raw)
	return raw, nil
}

// fetchRegistrationVariant GETs the form-data-shaped endpoint and unwraps
// its outer success envelope.
func (s *Service) fetchRegistrationVariant(ctx context.Context, key domain.LookupKey) (map[string]any, *domain.Envelope[AdmitCardData]) {
	requestURL := fmt.Sprintf("%s/%s?hash=%s",
		strings.TrimSuffix(s.cfg.BaseURL, "/"),
		url.PathEscape(key.String()),
		url.QueryEscape(s.cfg.Hash),
	)

	var body []byte
	start := time.Now()
	err := s.retrier.Do(ctx, domainLabel, func() error {
		var callErr error
		body, callErr = s.client.Get(ctx, requestURL)
		return callErr
	})
	s.metrics.ObserveUpstreamRequest(domainLabel, time.Since(start))
	if err != nil {
		return nil, s.classified(ctx, err, key)
	}

	var outer struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
		Message string         `json:"message"`
	}
	if err := json.Unmarshal(body, &outer); err != nil {
		return nil, s.classified(ctx, fmt.Errorf("decode upstream response: %w", err), key)
	}
	if !outer.Success || outer.Data == nil {
		message := outer.Message
		if message == "" {
			message = "No admit card found for the given details."
		}
		env := domain.Fail[AdmitCardData]("", message)
		return nil, &env
	}
	return outer.Data, nil
}

// Invalidate drops every cached sub-type for an identifier. The identifier
// may be a full lookup key or a prefix of one (a bare roll code clears all
// roll numbers under it). Best-effort, never fails the caller.
func (s *Service) Invalidate(ctx context.Context, identifier string) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return
	}
	prefixes := []string{
		cache.Key(s.cfg.CachePrefix, string(SubtypeBase), identifier),
		cache.Key(s.cfg.CachePrefix, string(SubtypeTheory), identifier),
		cache.Key(s.cfg.CachePrefix, string(SubtypePractical), identifier),
	}
	if err := s.cache.DeleteByPrefix(ctx, prefixes...); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed",
			"domain", domainLabel, "identifier", identifier, "error", err.Error())
	}
}

func (s *Service) key(subtype Subtype, key domain.LookupKey) string {
	return cache.Key(s.cfg.CachePrefix, string(subtype), key.String())
}

func (s *Service) classified(ctx context.Context, err error, key domain.LookupKey) *domain.Envelope[AdmitCardData] {
	cls := s.classifier.Classify(ctx, err, contextLabel, key.String())
	s.metrics.IncUpstreamError(domainLabel, string(cls.Code))
	env := domain.Fail[AdmitCardData](string(cls.Code), cls.Message)
	return &env
}

func (s *Service) normalizedFromCache(ctx context.Context, cacheKey string) (*AdmitCardData, bool) {
	payload, ok := s.readCache(ctx, cacheKey)
	if !ok {
		return nil, false
	}
	var record AdmitCardData
	if err := json.Unmarshal(payload, &record); err != nil {
		s.logger.WarnContext(ctx, "discarding undecodable cache entry",
			"domain", domainLabel, "key", cacheKey, "error", err.Error())
		return nil, false
	}
	return &record, true
}

func (s *Service) rawFromCache(ctx context.Context, cacheKey string) (map[string]any, bool) {
	payload, ok := s.readCache(ctx, cacheKey)
	if !ok {
		return nil, false
	}
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil || len(raw) == 0 {
		return nil, false
	}
	return raw, true
}

func (s *Service) readCache(ctx context.Context, cacheKey string) ([]byte, bool) {
	payload, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "cache read failed",
				"domain", domainLabel, "key", cacheKey, "error", err.Error())
		}
		return nil, false
	}
	return payload, true
}

func (s *Service) writeCache(ctx context.Context, cacheKey string, record *AdmitCardData) {
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

func (s *Service) writeRawCache(ctx context.Context, cacheKey string, raw map[string]any) {
	payload, err := json.Marshal(raw)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, payload, s.cfg.CacheTTL); err != nil {
		s.logger.WarnContext(ctx, "cache write failed",
			"domain", domainLabel, "key", cacheKey, "error", err.Error())
	}
}
