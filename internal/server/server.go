// Package server exposes the engine over HTTP: resolution, schema parsing,
// request building, workflow mapping validation, result normalization and
// invocation, plus health, metrics and Swagger endpoints. It can run as a
// plain HTTP server or inside a Dapr HTTP service.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"abilityctl/internal/catalog"
	"abilityctl/internal/config"
	"abilityctl/internal/invoke"
	"abilityctl/internal/metrics"
	_ "abilityctl/internal/server/docs"
	"abilityctl/pkg/logging"

	daprd "github.com/dapr/go-sdk/service/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const shutdownTimeout = 10 * time.Second

// Server serves the engine's HTTP API.
type Server struct {
	cfg     config.ServerConfig
	catalog catalog.Store
	orch    *invoke.Orchestrator
	metrics *metrics.Recorder
}

// New creates a server.
func New(cfg config.ServerConfig, store catalog.Store, orch *invoke.Orchestrator, rec *metrics.Recorder) *Server {
	return &Server{cfg: cfg, catalog: store, orch: orch, metrics: rec}
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Router builds the route table.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", s.metrics.Handler())
	r.Handle("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)
		r.Post("/schema/parse", s.handleSchemaParse)
		r.Post("/requests/build", s.handleBuild)
		r.Post("/workflows/validate", s.handleWorkflowValidate)
		r.Post("/results/normalize", s.handleNormalize)

		r.Route("/abilities", func(r chi.Router) {
			r.Get("/", s.handleListAbilities)
			r.Get("/{id}/executors", s.handleAbilityExecutors)
			r.Get("/{id}/issues", s.handleAbilityIssues)
			r.Get("/{id}/invocations", s.handleAbilityInvocations)
			r.Post("/{id}/invoke", s.handleInvoke)
		})
	})
	return r
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.Dapr {
		return s.startDapr(ctx)
	}

	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server", "Listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logging.Info("Server", "Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) startDapr(ctx context.Context) error {
	svc := daprd.NewServiceWithMux(s.Addr(), s.Router())
	go func() {
		<-ctx.Done()
		logging.Info("Server", "Stopping Dapr service")
		if err := svc.GracefulStop(); err != nil {
			logging.Warn("Server", "Dapr service stop: %v", err)
		}
	}()

	logging.Info("Server", "Listening on %s as a Dapr service", s.Addr())
	if err := svc.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestLogger logs each request through the process logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.Debug("Server", "%s %s %d %dB %s [%s]", r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(),
			time.Since(start).Round(time.Millisecond), middleware.GetReqID(r.Context()))
	})
}
