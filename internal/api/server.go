package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/manuelbieri/shelegia-motta-2021/internal/store"
	"github.com/manuelbieri/shelegia-motta-2021/internal/sweep"
)

// Server handles HTTP requests
type Server struct {
	db      store.DB
	sweeper *sweep.Sweeper
	logger  *zap.Logger
}

// NewServer creates a new API server. A nil logger disables request logging.
// A nil db serves sweeps without recording them; the /runs endpoints then
// answer 503.
func NewServer(db store.DB, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		db:      db,
		sweeper: sweep.NewSweeper(),
		logger:  logger,
	}
}

// Routes sets up the HTTP routes
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Heartbeat("/health"))
	r.Use(corsMiddleware)

	// Routes
	r.Get("/models", s.handleListModels)
	r.Get("/models/{id}/thresholds", s.handleThresholds)
	r.Get("/models/{id}/payoffs", s.handlePayoffs)
	r.Get("/models/{id}/plot.svg", s.handlePlotSVG)
	r.Post("/choice", s.handleChoice)
	r.Post("/sweep", s.handleSweep)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{id}", s.handleGetRun)
	r.Get("/runs/{id}/cells", s.handleGetCells)

	return r
}

// requestLogger logs request completion with structured fields
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request_completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Int("bytes_written", ww.BytesWritten()),
		)
	})
}

// corsMiddleware handles CORS headers for development
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a structured error response
func (s *Server) writeError(w http.ResponseWriter, status int, errType, message string, details map[string]interface{}) {
	s.writeJSON(w, status, ErrorResponse{
		Type:    errType,
		Message: message,
		Details: details,
	})
}
