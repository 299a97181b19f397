package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"findata-api/internal/config"
	"findata-api/internal/storage"
)

// Stores bundles the persistence interfaces the handlers depend on.
type Stores struct {
	Series       storage.SeriesStore
	Lookups      storage.LookupStore
	Observations storage.ObservationStore
	Dependencies storage.DependencyStore
}

// Options holds server construction parameters.
type Options struct {
	Config *config.Config
	Log    zerolog.Logger
	Stores Stores

	// PingDB verifies primary database connectivity for the health check.
	PingDB func(ctx context.Context) error
	// PingClickHouse is nil when the ClickHouse backend is not configured.
	PingClickHouse func(ctx context.Context) error
}

// Server is the REST API listener.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	cfg    *config.Config
	stores Stores

	pingDB         func(ctx context.Context) error
	pingClickHouse func(ctx context.Context) error
}

// New creates a new HTTP server.
func New(opts Options) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		log:            opts.Log.With().Str("component", "server").Logger(),
		cfg:            opts.Config,
		stores:         opts.Stores,
		pingDB:         opts.PingDB,
		pingClickHouse: opts.PingClickHouse,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         opts.Config.ListenAddr(),
		Handler:      s.router,
		ReadTimeout:  opts.Config.HTTP.ReadTimeout,
		WriteTimeout: opts.Config.HTTP.WriteTimeout,
		IdleTimeout:  opts.Config.HTTP.IdleTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.StripSlashes)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(s.cfg.HTTP.RequestTimeout))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.HTTP.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.handleRoot)
		r.Get("/health", s.handleHealth)

		r.Route("/meta-series", func(r chi.Router) {
			r.Get("/", s.handleListSeries)
			r.Post("/", s.handleCreateSeries)
			r.Get("/{seriesID}", s.handleGetSeries)
			r.Put("/{seriesID}", s.handleUpdateSeries)
			r.Delete("/{seriesID}", s.handleDeleteSeries)
		})

		r.Route("/value-data", func(r chi.Router) {
			r.Get("/", s.handleListValueData)
			r.Post("/", s.handleUpsertValueData)
			r.Get("/derived", s.handleListDerivedValueData)
			r.Get("/{seriesID}/{observationDate}", s.handleGetValueData)
			r.Put("/{seriesID}/{observationDate}", s.handleUpdateValueData)
		})

		r.Route("/lookup", func(r chi.Router) {
			r.Get("/asset-classes", s.handleListAssetClasses)
			r.Post("/asset-classes", s.handleCreateAssetClass)
			r.Get("/asset-classes/{assetClassID}", s.handleGetAssetClass)
			r.Get("/product-types", s.handleListProductTypes)
			r.Post("/product-types", s.handleCreateProductType)
			r.Get("/product-types/{productTypeID}", s.handleGetProductType)
		})

		r.Route("/dependencies", func(r chi.Router) {
			r.Get("/dependencies", s.handleListDependencies)
			r.Post("/dependencies", s.handleCreateDependency)
			r.Get("/calculations", s.handleListCalculations)
			r.Post("/calculations", s.handleCreateCalculation)
			r.Get("/calculations/{calculationID}", s.handleGetCalculation)
		})
	})
}

// Router exposes the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
