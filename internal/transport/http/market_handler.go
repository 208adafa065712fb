package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "estatepulse/internal/errors"
	custommw "estatepulse/internal/middleware"
	"estatepulse/internal/services"
	apiv1 "estatepulse/pkg/contracts/api/v1"
)

// MarketHandler handles dataset upload and market analysis requests.
type MarketHandler struct {
	service        MarketServiceInterface
	validator      *custommw.RequestValidator
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
}

// NewMarketHandler creates a market handler with RFC 7807 error handling.
func NewMarketHandler(service MarketServiceInterface, validator *custommw.RequestValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64) *MarketHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}
	return &MarketHandler{
		service:        service,
		validator:      validator,
		logger:         logger.With(slog.String("component", "market_handler")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the market routes with proper Chi patterns.
func (h *MarketHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/analyze", h.Analyze)
	r.Post("/upload", h.Upload)

	return r
}

// Analyze handles POST /api/analyze. The query arrives either as a JSON
// body {"area": "..."} or as a form field named area.
func (h *MarketHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	reqID := custommw.GetReqID(r.Context())

	req, err := h.decodeAnalyzeRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if strings.TrimSpace(req.Area) == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingQuery)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "analyzing market query",
		slog.String("request_id", reqID),
		slog.String("area", req.Area),
	)

	result, err := h.service.Analyze(r.Context(), req.Area)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "analysis failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)

		// Map service errors to API errors
		switch {
		case errors.Is(err, services.ErrEmptyQuery):
			h.errorHandler.HandleError(w, r, apierrors.ErrMissingQuery)
		case errors.Is(err, services.ErrNoDataset):
			h.errorHandler.HandleError(w, r, apierrors.ErrNoData)
		case errors.Is(err, services.ErrNoLocationMatch):
			h.errorHandler.HandleError(w, r, apierrors.NoLocationMatchError(strings.ToLower(strings.TrimSpace(req.Area))))
		default:
			h.errorHandler.HandleError(w, r, err)
		}
		return
	}

	render.JSON(w, r, result)
}

// Upload handles POST /api/upload with a single multipart file field.
func (h *MarketHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reqID := custommw.GetReqID(r.Context())

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.logger.WarnContext(r.Context(), "invalid multipart body",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
		return
	}
	defer file.Close()

	h.logger.InfoContext(r.Context(), "processing dataset upload",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
	)

	if err := h.service.Upload(r.Context(), header.Filename, file); err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFile):
			h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
		case errors.Is(err, services.ErrInvalidFileType):
			h.errorHandler.HandleError(w, r, apierrors.ErrInvalidFileType)
		default:
			h.errorHandler.HandleError(w, r, apierrors.DatasetParseError(err))
		}
		return
	}

	render.JSON(w, r, apiv1.UploadResponse{Message: "File uploaded successfully."})
}

// decodeAnalyzeRequest accepts JSON and form encodings of the analyze
// request.
func (h *MarketHandler) decodeAnalyzeRequest(r *http.Request) (*apiv1.AnalyzeRequest, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		var req apiv1.AnalyzeRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			return nil, apierrors.InvalidRequestWithError(err)
		}
		return &req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}
	return &apiv1.AnalyzeRequest{Area: r.PostFormValue("area")}, nil
}
