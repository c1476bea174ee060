package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dnamatch/internal/api"
	"dnamatch/internal/domain"
	"dnamatch/internal/fasta"
	"dnamatch/internal/logging"
	"dnamatch/internal/metrics"
	"dnamatch/internal/population"
	"dnamatch/internal/ports"
)

// DefaultMaxUploadBytes bounds a multipart request body.
const DefaultMaxUploadBytes = 10 << 20

// Server implements api.ServerInterface.
type Server struct {
	comparer   ports.Comparer
	identifier ports.Identifier
	missing    ports.MissingPersonFinder
	metrics    *metrics.Metrics
	logger     *slog.Logger
	maxUpload  int64
}

var _ api.ServerInterface = (*Server)(nil)

func New(comparer ports.Comparer, identifier ports.Identifier, missing ports.MissingPersonFinder, m *metrics.Metrics, logger *slog.Logger, maxUpload int64) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &Server{comparer: comparer, identifier: identifier, missing: missing, metrics: m, logger: logger, maxUpload: maxUpload}
}

// Routes returns a chi.Router mounting the API handlers and /metrics.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	api.HandlerWithOptions(s, api.ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Message: err.Error(), StatusCode: http.StatusBadRequest})
		},
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

func (s *Server) GetHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

func (s *Server) PostCompare(w http.ResponseWriter, r *http.Request) {
	if !s.parseUpload(w, r) {
		return
	}
	a, stateA := s.readSequence(r, "file_a")
	b, stateB := s.readSequence(r, "file_b")
	if stateA == uploadMissing || stateB == uploadMissing {
		writeJSON(w, http.StatusUnauthorized, api.ErrorResponse{Message: "Please upload a file for both DNA sequences.", StatusCode: http.StatusUnauthorized})
		return
	}
	if stateA == uploadEmpty || stateB == uploadEmpty {
		writeJSON(w, http.StatusUnauthorized, api.ErrorResponse{Message: "Please upload non-empty files for both DNA sequences.", StatusCode: http.StatusUnauthorized})
		return
	}
	resp, err := s.comparer.Compare(r.Context(), a, b)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, resp.StatusCode, resp)
}

func (s *Server) PostIdentify(w http.ResponseWriter, r *http.Request, params api.PostIdentifyParams) {
	if !s.parseUpload(w, r) {
		return
	}
	query, state := s.readSequence(r, "file")
	if !s.checkSingleUpload(w, state) {
		return
	}
	status := r.FormValue("status")
	if params.Status != nil {
		status = *params.Status
	}
	resp, err := s.identifier.Identify(r.Context(), query, status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, resp.StatusCode, resp)
}

func (s *Server) PostMissing(w http.ResponseWriter, r *http.Request) {
	if !s.parseUpload(w, r) {
		return
	}
	query, state := s.readSequence(r, "file")
	if !s.checkSingleUpload(w, state) {
		return
	}
	resp, err := s.missing.Search(r.Context(), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, resp.StatusCode, resp)
}

type uploadState int

const (
	uploadOK uploadState = iota
	uploadMissing
	uploadEmpty
)

func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, api.ErrorResponse{Message: "Uploaded file is too large.", StatusCode: http.StatusRequestEntityTooLarge})
			return false
		}
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Message: "Malformed upload.", StatusCode: http.StatusBadRequest})
		return false
	}
	return true
}

// readSequence extracts the sequence of the named upload. An upload with no
// sequence data (empty, or headers only) counts as empty.
func (s *Server) readSequence(r *http.Request, field string) (string, uploadState) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return "", uploadMissing
	}
	fh := r.MultipartForm.File[field][0]
	if fh.Filename == "" || fh.Size == 0 {
		return "", uploadEmpty
	}
	seq, err := extract(fh)
	if err != nil {
		s.logger.Warn("read upload failed", logging.String("field", field), logging.Error(err))
		return "", uploadEmpty
	}
	if seq == "" {
		return "", uploadEmpty
	}
	return seq, uploadOK
}

func extract(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return fasta.Extract(f, domain.MaxSequenceLength)
}

func (s *Server) checkSingleUpload(w http.ResponseWriter, state uploadState) bool {
	switch state {
	case uploadMissing:
		writeJSON(w, http.StatusUnauthorized, api.ErrorResponse{Message: "Please upload a file of DNA sequences.", StatusCode: http.StatusUnauthorized})
		return false
	case uploadEmpty:
		writeJSON(w, http.StatusUnauthorized, api.ErrorResponse{Message: "Please upload a non-empty file for the DNA sequence.", StatusCode: http.StatusUnauthorized})
		return false
	}
	return true
}

// writeError maps service errors onto the response codes clients expect.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := http.StatusInternalServerError, "Internal server error."
	var (
		fe *domain.InvalidFilterError
		ue *domain.UpstreamFetchError
	)
	switch {
	case errors.Is(err, domain.ErrInput):
		code, msg = http.StatusUnauthorized, "Please upload a non-empty file for the DNA sequence."
	case errors.As(err, &fe):
		code, msg = http.StatusBadRequest, "Invalid status. Please select one of: 'missing', 'acknowledged', 'crime', 'disaster' or 'all' to search in all database."
	case errors.As(err, &ue):
		code, msg = http.StatusUnauthorized, ue.Err.Error()
	case errors.Is(err, population.ErrLimit):
		code, msg = http.StatusServiceUnavailable, "Population is too large to search."
	case errors.Is(err, context.DeadlineExceeded):
		code, msg = http.StatusGatewayTimeout, "Search timed out."
	case errors.Is(err, context.Canceled):
		return
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			logging.String("path", r.URL.Path),
			logging.String("request_id", middleware.GetReqID(r.Context())),
			logging.Error(err),
		)
	}
	writeJSON(w, code, api.ErrorResponse{Message: msg, StatusCode: code})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
