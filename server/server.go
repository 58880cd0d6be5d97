package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"metronome/config"
	"metronome/core/measure"
	"metronome/logger"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Server is the display caller: it renders measures on request and hands them to
// a browser. Each request renders into its own directory.
type Server struct {
	mu       sync.RWMutex
	cfg      *config.Config
	renderer *measure.Renderer
}

// New builds a Server from cfg.
func New(cfg *config.Config) (*Server, error) {
	s := &Server{}
	if err := s.Reload(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload swaps in a new configuration. Requests already running keep the old one.
func (s *Server) Reload(cfg *config.Config) error {
	r, err := measure.FromConfig(cfg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg, s.renderer = cfg, r
	s.mu.Unlock()
	return nil
}

func (s *Server) current() (*config.Config, *measure.Renderer) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.renderer
}

// Router wires every endpoint onto a gorilla/mux router.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(requestLogger)
	router.Use(cors)

	// OPTIONS must match a route for the CORS middleware to answer preflights
	get := func(path string, h http.HandlerFunc) {
		router.HandleFunc(path, h).Methods(http.MethodGet, http.MethodHead, http.MethodOptions)
	}
	get("/", s.IndexHandler)
	get("/health", HealthHandler)
	get("/api/tempo", TempoHandler)
	get("/api/measure", s.MeasureHandler)
	get("/api/measure/audio.wav", s.AudioHandler)
	get("/api/measure/animation.svg", s.AnimationHandler)
	return router
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

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

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info("request",
			logger.String("requestId", id),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rec.status),
			logger.Duration("elapsed", time.Since(start)))
	})
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg, _ := s.current()
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
