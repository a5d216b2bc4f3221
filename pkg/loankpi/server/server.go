// Package server exposes the reports and the upload endpoint over HTTP.
package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ukaji3/loankpi-go/pkg/loankpi"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/ingest"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/models"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/output"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
)

// MaxUploadBytes bounds the JSON body of an upload request.
const MaxUploadBytes = 64 << 20

// IngestRequest is the body of POST /api/ingest.
type IngestRequest struct {
	Filename string `json:"filename"`
	// FileData is the workbook encoded as standard base64.
	FileData string `json:"file_data"`
}

// Handler holds dependencies for the API endpoints.
type Handler struct {
	Engine *loankpi.Engine
	Ingest *ingest.Service
	Log    *slog.Logger
}

// NewHandler creates a new handler. If log is nil, slog.Default() is used.
func NewHandler(engine *loankpi.Engine, svc *ingest.Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{Engine: engine, Ingest: svc, Log: log}
}

// Routes returns the API mux wrapped with CORS headers and request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reports", h.HandleReports)
	mux.HandleFunc("GET /api/ingest/pending", h.HandlePending)
	mux.HandleFunc("POST /api/ingest", h.HandleIngest)
	mux.HandleFunc("GET /api/{report}", h.HandleReport)
	return h.logRequests(cors(mux))
}

// HandleReports lists the available reports.
func (h *Handler) HandleReports(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Engine.Reports())
}

// HandleReport runs the report named in the path.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("report")
	out, err := h.Engine.Run(name)
	if err != nil {
		h.writeError(w, name, err)
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

// HandleIngest stores an uploaded workbook.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxUploadBytes)).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}
	if req.Filename == "" || req.FileData == "" {
		h.writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "missing filename or file_data"})
		return
	}
	payload, err := base64.StdEncoding.DecodeString(req.FileData)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "file_data is not base64", Details: err.Error()})
		return
	}

	res, err := h.Ingest.Ingest(req.Filename, payload)
	if err != nil {
		h.writeError(w, "", err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// HandlePending lists uploads waiting in the inbox.
func (h *Handler) HandlePending(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Ingest.Pending())
}

// StatusFor maps an error to the HTTP status reported to clients.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, loankpi.ErrUnknownReport), errors.Is(err, parser.ErrSheetNotFound):
		return http.StatusNotFound
	case errors.Is(err, parser.ErrColumnNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ingest.ErrEmptyPayload),
		errors.Is(err, ingest.ErrMissingFilename),
		errors.Is(err, ingest.ErrInvalidWorkbook):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody builds the structured error body for err.
func ErrorBody(report string, err error) models.ErrorResponse {
	resp := models.ErrorResponse{Report: report, Details: err.Error()}
	var notFound *parser.SheetNotFoundError
	switch {
	case errors.Is(err, loankpi.ErrUnknownReport):
		resp.Error = "unknown report"
	case errors.As(err, &notFound):
		resp.Error = "sheet not found"
		resp.AvailableSheets = notFound.Available
	case errors.Is(err, parser.ErrColumnNotFound):
		resp.Error = "column not found"
	case errors.Is(err, parser.ErrFileUnavailable):
		resp.Error = "workbook unavailable"
	case StatusFor(err) == http.StatusBadRequest:
		resp.Error = "invalid upload"
	default:
		resp.Error = "internal error"
	}
	return resp
}

func (h *Handler) writeError(w http.ResponseWriter, report string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.Log.Error("request failed", "report", report, "error", err)
	}
	h.writeJSON(w, status, ErrorBody(report, err))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := output.WriteJSON(w, v, false); err != nil {
		h.Log.Warn("failed to write response", "error", err)
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.Log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start),
		)
	})
}
