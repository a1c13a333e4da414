// Package api provides the HTTP API server and handlers for TopTen.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/toptenapp/topten-server/internal/http/response"
	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/metrics"
	"github.com/toptenapp/topten-server/internal/validation"
)

// Options configures the HTTP surface.
type Options struct {
	Version     string
	CORSOrigins []string

	// SuggestPerMinute and SuggestBurst limit suggestion lookups per client IP.
	SuggestPerMinute  int // default: 120
	SuggestBurst      int // default: 20
	SuggestMaxClients int // default: 10000

	// TrustProxyHeaders takes the client IP from X-Forwarded-For or X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services  *Services
	router    chi.Router
	api       huma.API
	validator *validation.Validator
	metrics   *metrics.Metrics
	logger    *slog.Logger

	suggestLimiter *RateLimiter
	trustProxy     bool
}

// NewServer creates a new HTTP server with all routes configured.
// m may be nil, in which case /metrics is not mounted.
func NewServer(services *Services, m *metrics.Metrics, log *slog.Logger, opts Options) *Server {
	if log == nil {
		log = logger.Discard()
	}
	if services == nil {
		services = &Services{}
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.SuggestPerMinute <= 0 {
		opts.SuggestPerMinute = 120
	}
	if opts.SuggestBurst <= 0 {
		opts.SuggestBurst = 20
	}
	if opts.SuggestMaxClients <= 0 {
		opts.SuggestMaxClients = 10000
	}

	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(requestLogger(log, m))
	router.Use(recoverer(log))
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", RequestIDHeader},
			ExposedHeaders:   []string{RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", log)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "method not allowed", log)
	})

	if m != nil {
		router.Handle("/metrics", m.Handler())
	}

	humaConfig := huma.DefaultConfig("TopTen API", opts.Version)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		services:       services,
		router:         router,
		api:            api,
		validator:      validation.New(),
		metrics:        m,
		logger:         log,
		suggestLimiter: NewRateLimiter(opts.SuggestPerMinute, time.Minute, opts.SuggestBurst, opts.SuggestMaxClients),
		trustProxy:     opts.TrustProxyHeaders,
	}
	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerListRoutes()
	s.registerCommunityRoutes()
	s.registerSuggestionRoutes()
	s.registerFeaturedRoutes()
	s.registerSettingsRoutes()
	s.registerLocationRoutes()
	s.registerSearchRoutes()
	s.registerCategoryRoutes()
}

// withHTTPMiddleware runs a plain net/http middleware in front of one huma operation.
func withHTTPMiddleware(mw func(http.Handler) http.Handler) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		r, w := humachi.Unwrap(ctx)
		mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			next(huma.WithContext(ctx, r.Context()))
		})).ServeHTTP(w, r)
	}
}
