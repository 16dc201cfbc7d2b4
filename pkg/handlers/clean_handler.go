package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dedupkit/dedup-engine/pkg/apperrors"
	"github.com/dedupkit/dedup-engine/pkg/models"
	"github.com/dedupkit/dedup-engine/pkg/services"
)

// defaultRunListLimit caps GET /api/runs when no limit parameter is given.
const defaultRunListLimit = 20

// CleanResponse is the response for POST /api/clean.
type CleanResponse struct {
	RunID       string         `json:"run_id"`
	DownloadURL string         `json:"download_url"`
	Filename    string         `json:"filename"`
	Report      *models.Report `json:"report"`
}

// CleanHandler handles spreadsheet upload, cleaning and download requests.
type CleanHandler struct {
	service        services.CleanService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewCleanHandler creates a new CleanHandler.
func NewCleanHandler(service services.CleanService, maxUploadBytes int64, logger *zap.Logger) *CleanHandler {
	return &CleanHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// RegisterRoutes registers the clean handler's routes on the given mux.
func (h *CleanHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/clean", h.Clean)
	mux.HandleFunc("GET /api/runs", h.ListRuns)
	mux.HandleFunc("GET /api/runs/{id}", h.GetRun)
	mux.HandleFunc("GET /api/runs/{id}/download", h.Download)
}

// Clean handles POST /api/clean.
// Accepts a multipart upload under the "file" field, deduplicates it and
// returns the run report plus the URL the cleaned file can be fetched from.
func (h *CleanHandler) Clean(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			if err := ErrorResponse(w, http.StatusRequestEntityTooLarge, "file_too_large",
				fmt.Sprintf("Upload exceeds the %d byte limit", h.maxUploadBytes)); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_upload",
			`Expected a multipart upload with a "file" field`); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	defer file.Close()

	result, err := h.service.Clean(r.Context(), header.Filename, file)
	if err != nil {
		h.writeCleanError(w, header.Filename, err)
		return
	}

	response := CleanResponse{
		RunID:       result.Run.ID.String(),
		DownloadURL: "/api/runs/" + result.Run.ID.String() + "/download",
		Filename:    result.Filename,
		Report:      result.Report,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *CleanHandler) writeCleanError(w http.ResponseWriter, filename string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrIdentifierColumnNotFound):
		// The error text carries the available column names so operators
		// can extend the candidate lists.
		if err := ErrorResponse(w, http.StatusUnprocessableEntity, "identifier_column_not_found", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		if err := ErrorResponse(w, http.StatusBadRequest, "unsupported_format",
			"Only .xlsx, .xlsm and .csv files are supported"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	case errors.Is(err, apperrors.ErrEmptyTable):
		if err := ErrorResponse(w, http.StatusBadRequest, "empty_file",
			"The file has no header row"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	default:
		h.logger.Error("Failed to clean spreadsheet",
			zap.String("filename", filename),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error",
			"Failed to process the file"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	}
}

// Download handles GET /api/runs/{id}/download.
// Streams the cleaned spreadsheet produced by a previous clean request.
func (h *CleanHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := h.runID(w, r)
	if !ok {
		return
	}

	result, err := h.service.GetResult(id)
	if err != nil {
		if err := ErrorResponse(w, http.StatusNotFound, "not_found",
			"Result not found or expired; re-run the cleaning"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	if _, err := w.Write(result.Data); err != nil {
		h.logger.Error("Failed to stream cleaned file",
			zap.String("run_id", id.String()),
			zap.Error(err))
	}
}

// GetRun handles GET /api/runs/{id}.
func (h *CleanHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, ok := h.runID(w, r)
	if !ok {
		return
	}

	run, err := h.service.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrRunNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Cleaning run not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to get cleaning run", zap.String("run_id", id.String()), zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to get cleaning run"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, run); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListRuns handles GET /api/runs.
func (h *CleanHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		limit = parsed
	}

	runs, err := h.service.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list cleaning runs", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list cleaning runs"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if runs == nil {
		runs = []*models.CleaningRun{}
	}
	if err := WriteJSON(w, http.StatusOK, runs); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *CleanHandler) runID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_run_id", "Run ID must be a UUID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}
