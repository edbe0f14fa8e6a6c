package relay

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/zhengjr9/gemini-relay/internal/chat"
	"github.com/zhengjr9/gemini-relay/internal/config"
	"github.com/zhengjr9/gemini-relay/internal/gemini"
)

// Server is the relay HTTP server.
type Server struct {
	httpServer *http.Server
}

// New constructs a Server from the given config.
func New(cfg *config.Config) *Server {
	client := gemini.NewClient(cfg.UpstreamURL, cfg.RequestTimeout, cfg.ProxyURL)
	resolver := gemini.NewResolver(client, cfg.APIKey, cfg.APIVersions, cfg.Models)
	chatHandler := chat.NewHandler(resolver)

	router := mux.NewRouter()
	router.HandleFunc("/", handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	router.Handle("/chat", chatHandler).Methods(http.MethodPost)

	// First registered is outermost: recovery wraps everything.
	router.Use(recoveryMiddleware, requestIDMiddleware, loggingMiddleware)

	// There is no overall deadline across the candidate sweep, so the write
	// timeout must cover a full sweep at the per-candidate timeout.
	sweepBudget := time.Duration(len(cfg.APIVersions)*len(cfg.Models)) * cfg.RequestTimeout

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: sweepBudget + 10*time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start begins listening and blocks until the server is stopped.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Handler returns the underlying http.Handler (for use in tests with httptest.NewServer).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}
