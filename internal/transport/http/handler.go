// Package httptransport is the thin HTTP layer over the integration
// services. Handlers decode and validate requests, delegate to a domain
// service, and write the service's envelope; no business logic lives here.
package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"exam-portal/internal/admitcard"
	"exam-portal/internal/domain"
	"exam-portal/internal/formdata"
	"exam-portal/internal/platform/middleware"
	"exam-portal/internal/upstream"
	dErrors "exam-portal/pkg/domain-errors"
	"exam-portal/pkg/platform/httputil"
)

// FormDataService is the downstream form-data interface.
type FormDataService interface {
	Fetch(ctx context.Context, registrationNumber string) domain.Envelope[formdata.StudentFormData]
	Invalidate(ctx context.Context, registrationNumber string)
}

// AdmitCardService is the downstream admit-card interface.
type AdmitCardService interface {
	FetchTheory(ctx context.Context, req admitcard.Request) domain.Envelope[admitcard.AdmitCardData]
	FetchPractical(ctx context.Context, req admitcard.Request) domain.Envelope[admitcard.AdmitCardData]
	Invalidate(ctx context.Context, identifier string)
}

// Handler exposes the integration layer's downstream interface over HTTP.
type Handler struct {
	logger    *slog.Logger
	formData  FormDataService
	admitCard AdmitCardService
}

// New creates a Handler.
func New(formData FormDataService, admitCard AdmitCardService, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		formData:  formData,
		admitCard: admitCard,
	}
}

// Register mounts all student-data routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/students/{registrationNumber}/form-data", h.handleFormData)
	r.Delete("/api/students/{registrationNumber}/form-data/cache", h.handleFormDataInvalidate)
	r.Post("/api/admit-cards/theory", h.handleAdmitCard(h.admitCard.FetchTheory))
	r.Post("/api/admit-cards/practical", h.handleAdmitCard(h.admitCard.FetchPractical))
	r.Delete("/api/admit-cards/{identifier}/cache", h.handleAdmitCardInvalidate)
}

func (h *Handler) handleFormData(w http.ResponseWriter, r *http.Request) {
	registrationNumber := chi.URLParam(r, "registrationNumber")
	envelope := h.formData.Fetch(r.Context(), registrationNumber)
	writeEnvelope(w, envelope.Success, envelope.Code, envelope)
}

func (h *Handler) handleFormDataInvalidate(w http.ResponseWriter, r *http.Request) {
	h.formData.Invalidate(r.Context(), chi.URLParam(r, "registrationNumber"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAdmitCard(fetch func(context.Context, admitcard.Request) domain.Envelope[admitcard.AdmitCardData]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req admitcard.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.WarnContext(ctx, "invalid admit-card request",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}

		envelope := fetch(ctx, req)
		writeEnvelope(w, envelope.Success, envelope.Code, envelope)
	}
}

func (h *Handler) handleAdmitCardInvalidate(w http.ResponseWriter, r *http.Request) {
	h.admitCard.Invalidate(r.Context(), chi.URLParam(r, "identifier"))
	w.WriteHeader(http.StatusNoContent)
}

// writeEnvelope maps the envelope classification onto an HTTP status. A
// failure the upstream itself reported (empty code) is still a well-formed
// 200 answer from this layer's point of view.
func writeEnvelope(w http.ResponseWriter, success bool, code string, envelope any) {
	httputil.WriteJSON(w, statusFor(success, code), envelope)
}

func statusFor(success bool, code string) int {
	if success || code == "" {
		return http.StatusOK
	}
	switch upstream.Code(code) {
	case upstream.CodeNotFound:
		return http.StatusNotFound
	case upstream.CodeBadRequest:
		return http.StatusBadRequest
	case upstream.CodeUnauthorized, upstream.CodeServerError, upstream.CodeUnavailable, upstream.CodeAPIError:
		return http.StatusBadGateway
	case upstream.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
