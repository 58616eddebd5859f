package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qrsafe/internal/domain"
)

const maxBodyBytes = 64 << 10

// Verifier is the verification surface served over HTTP.
type Verifier interface {
	CheckCurated(ctx context.Context, rawURL string) (domain.CuratedVerdict, error)
	CheckIntelligence(ctx context.Context, rawURL string) (domain.SafetyVerdict, error)
	CheckCombined(ctx context.Context, rawURL string) (domain.CombinedResult, error)
}

// Pinger reports curated store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	verifier       Verifier
	store          Pinger
	metrics        http.Handler
	allowedOrigins []string
	logger         *slog.Logger
}

// New builds the server. metricsHandler may be nil to serve the default
// prometheus registry; an empty allowedOrigins allows every origin.
func New(verifier Verifier, store Pinger, metricsHandler http.Handler, allowedOrigins []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &Server{
		verifier:       verifier,
		store:          store,
		metrics:        metricsHandler,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

type checkRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Routes returns the chi router with middleware and all endpoints mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", s.metrics)

	r.Route("/api", func(r chi.Router) {
		r.Post("/check-url-in-db", s.checkCurated)
		r.Post("/check-url-with-openai", s.checkIntelligence)
		r.Post("/check-url", s.checkCombined)
	})
	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) checkCurated(w http.ResponseWriter, r *http.Request) {
	url, ok := s.decodeURL(w, r)
	if !ok {
		return
	}
	v, err := s.verifier.CheckCurated(r.Context(), url)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) checkIntelligence(w http.ResponseWriter, r *http.Request) {
	url, ok := s.decodeURL(w, r)
	if !ok {
		return
	}
	v, err := s.verifier.CheckIntelligence(r.Context(), url)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) checkCombined(w http.ResponseWriter, r *http.Request) {
	url, ok := s.decodeURL(w, r)
	if !ok {
		return
	}
	res, err := s.verifier.CheckCombined(r.Context(), url)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decodeURL reads {"url": "..."}; malformed bodies are treated as a
// missing URL.
func (s *Server) decodeURL(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req checkRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, domain.ErrURLRequired)
		return "", false
	}
	return req.URL, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: verr.Message})
	case domain.IsStorage(err):
		s.logger.ErrorContext(r.Context(), "curated store failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.WarnContext(r.Context(), "check aborted", "error", err)
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Detail: "Request timed out"})
	default:
		s.logger.ErrorContext(r.Context(), "check failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
