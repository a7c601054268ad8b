// Package signproxy implements the HTTP surface of the signing proxy: a
// service that resolves an access key ID to credentials and runs one of
// the registered signers against a caller-supplied request description,
// rather than requiring the caller to embed secret key material itself.
package signproxy

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-sigkit/internal/credentials"
	"github.com/prn-tf/alexander-sigkit/internal/signer"
)

// Server holds the collaborators the signing endpoints need.
type Server struct {
	registry       *signer.Registry
	resolver       *credentials.Resolver
	identityCache  signer.IdentityCache
	defaultRegion  string
	defaultService string
	logger         zerolog.Logger
}

// Config configures a Server.
type Config struct {
	Registry       *signer.Registry
	Resolver       *credentials.Resolver
	IdentityCache  signer.IdentityCache
	DefaultRegion  string
	DefaultService string
	Logger         zerolog.Logger
}

// NewServer builds a Server.
func NewServer(cfg Config) *Server {
	return &Server{
		registry:       cfg.Registry,
		resolver:       cfg.Resolver,
		identityCache:  cfg.IdentityCache,
		defaultRegion:  cfg.DefaultRegion,
		defaultService: cfg.DefaultService,
		logger:         cfg.Logger.With().Str("component", "signproxy").Logger(),
	}
}

// Router builds the chi router exposing the signing endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sign", s.handleSign)
		r.Post("/presign", s.handlePresign)
		r.Post("/presign-post", s.handlePresignPost)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// requestLogger logs each request at debug level, in the teacher's
// zerolog.With()-chained style, without ever logging request bodies
// (which may carry secret-bearing headers).
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request handled")
	})
}
