package httptransport

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"exam-portal/internal/admitcard"
	"exam-portal/internal/cache"
	"exam-portal/internal/formdata"
	"exam-portal/internal/platform/config"
	"exam-portal/internal/upstream"
)

// HandlerSuite wires real services against a stubbed upstream; handler
// tests validate HTTP concerns only (routing, parsing, status mapping).
type HandlerSuite struct {
	suite.Suite
	upstreamSrv *httptest.Server
	router      http.Handler
	store       *cache.MemoryStore
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.upstreamSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/admit-card":
			w.Write([]byte(`{"StudentDetails":{"StudentName":"Ravi"},"SubjectDetails":[{"SubjectName":"Hindi"}]}`))
		case strings.HasPrefix(r.URL.Path, "/MISSING"):
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"message":"no record"}`))
		default:
			w.Write([]byte(`{"success":true,"data":{"studentName":"Ravi"}}`))
		}
	}))

	ucfg := config.Upstream{
		Timeout:       2 * time.Second,
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
		UserAgent:     "exam-portal-test",
	}
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	client := upstream.NewClient(ucfg)
	retrier := upstream.NewRetrier(ucfg, upstream.WithRetryLogger(log))
	classifier := upstream.NewClassifier(log)
	s.store = cache.NewMemoryStore()

	formDataSvc, err := formdata.New(client, retrier, classifier, s.store,
		config.Domain{BaseURL: s.upstreamSrv.URL, Hash: "h", CacheTTL: time.Minute, CachePrefix: "formdata"},
		formdata.WithLogger(log))
	require.NoError(s.T(), err)

	admitCardSvc, err := admitcard.New(client, retrier, classifier, s.store,
		config.AdmitCard{
			Domain:   config.Domain{BaseURL: s.upstreamSrv.URL, Hash: "h", CacheTTL: time.Minute, CachePrefix: "admitcard"},
			Endpoint: "admit-card",
		},
		admitcard.WithLogger(log))
	require.NoError(s.T(), err)

	r := chi.NewRouter()
	New(formDataSvc, admitCardSvc, log).Register(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.upstreamSrv.Close()
}

func (s *HandlerSuite) do(method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) TestGetFormData() {
	w := s.do(http.MethodGet, "/api/students/R123/form-data", "")

	s.Equal(http.StatusOK, w.Code)

	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
		Cached  bool           `json:"cached"`
	}
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&envelope))
	s.True(envelope.Success)
	s.False(envelope.Cached)
	s.Equal("Ravi", envelope.Data["studentName"])
}

func (s *HandlerSuite) TestGetFormDataCachedOnSecondCall() {
	s.do(http.MethodGet, "/api/students/R123/form-data", "")
	w := s.do(http.MethodGet, "/api/students/R123/form-data", "")

	var envelope struct {
		Cached bool `json:"cached"`
	}
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&envelope))
	s.True(envelope.Cached)
}

func (s *HandlerSuite) TestGetFormDataNotFound() {
	w := s.do(http.MethodGet, "/api/students/MISSING1/form-data", "")

	s.Equal(http.StatusNotFound, w.Code)

	var envelope struct {
		Success   bool   `json:"success"`
		ErrorCode string `json:"errorCode"`
		Message   string `json:"message"`
	}
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&envelope))
	s.False(envelope.Success)
	s.Equal("NOT_FOUND", envelope.ErrorCode)
	s.Equal("no record", envelope.Message)
}

func (s *HandlerSuite) TestInvalidateFormData() {
	s.do(http.MethodGet, "/api/students/R123/form-data", "")

	w := s.do(http.MethodDelete, "/api/students/R123/form-data/cache", "")
	s.Equal(http.StatusNoContent, w.Code)

	after := s.do(http.MethodGet, "/api/students/R123/form-data", "")
	var envelope struct {
		Cached bool `json:"cached"`
	}
	s.Require().NoError(json.NewDecoder(after.Body).Decode(&envelope))
	s.False(envelope.Cached)
}

func (s *HandlerSuite) TestPostTheoryAdmitCard() {
	w := s.do(http.MethodPost, "/api/admit-cards/theory", `{"rollCode":"42011","rollNumber":"190042"}`)

	s.Equal(http.StatusOK, w.Code)

	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&envelope))
	s.True(envelope.Success)
	s.Equal("Ravi", envelope.Data["studentName"])
}

func (s *HandlerSuite) TestPostAdmitCardInvalidJSON() {
	w := s.do(http.MethodPost, "/api/admit-cards/theory", `{not json`)

	s.Equal(http.StatusBadRequest, w.Code)

	var body map[string]string
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
	s.Equal("bad_request", body["error"])
}

func (s *HandlerSuite) TestPostAdmitCardMissingIdentifiers() {
	w := s.do(http.MethodPost, "/api/admit-cards/practical", `{}`)

	s.Equal(http.StatusBadRequest, w.Code)

	var envelope struct {
		Success   bool   `json:"success"`
		ErrorCode string `json:"errorCode"`
	}
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&envelope))
	s.False(envelope.Success)
	s.Equal("BAD_REQUEST", envelope.ErrorCode)
}

func (s *HandlerSuite) TestInvalidateAdmitCard() {
	s.do(http.MethodPost, "/api/admit-cards/theory", `{"rollCode":"42011","rollNumber":"190042"}`)

	w := s.do(http.MethodDelete, "/api/admit-cards/42011-190042/cache", "")
	s.Equal(http.StatusNoContent, w.Code)
	s.Equal(0, s.store.Len())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		success bool
		code    string
		want    int
	}{
		{true, "", http.StatusOK},
		{false, "", http.StatusOK}, // upstream-reported failure
		{false, "NOT_FOUND", http.StatusNotFound},
		{false, "BAD_REQUEST", http.StatusBadRequest},
		{false, "UNAUTHORIZED", http.StatusBadGateway},
		{false, "SERVER_ERROR", http.StatusBadGateway},
		{false, "API_ERROR", http.StatusBadGateway},
		{false, "UNAVAILABLE", http.StatusBadGateway},
		{false, "TIMEOUT", http.StatusGatewayTimeout},
		{false, "UNKNOWN_ERROR", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.success, tt.code); got != tt.want {
			t.Fatalf("statusFor(%v, %q) = %d, want %d", tt.success, tt.code, got, tt.want)
		}
	}
}
