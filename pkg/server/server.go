// Package server ties the reservation engine, its telnet listeners and the
// optional Prometheus endpoint into one runnable unit. The commands in
// cmd/bookerd build a Server from the loaded configuration and drive it with
// a signal-cancelled context.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bookerd/bookerd/internal/logger"
	"github.com/bookerd/bookerd/pkg/adapter"
	"github.com/bookerd/bookerd/pkg/adapter/telnet"
	"github.com/bookerd/bookerd/pkg/booking"
	"github.com/bookerd/bookerd/pkg/config"
	"github.com/bookerd/bookerd/pkg/metrics"
	prommetrics "github.com/bookerd/bookerd/pkg/metrics/prometheus"
)

// metricsShutdownTimeout bounds the metrics endpoint drain during shutdown.
const metricsShutdownTimeout = 5 * time.Second

// Server runs one reservation engine behind one or more telnet listeners.
//
// The engine and its catalog are loaded at construction time; a server that
// failed to load never opens a listener, so partially loaded state is never
// exposed to clients.
type Server struct {
	cfg      *config.Config
	engine   *booking.Engine
	adapters []*telnet.Adapter

	// metricsSrv is nil when metrics are disabled
	metricsSrv *http.Server
}

// New builds a Server from a loaded configuration: engine, catalog, one
// telnet adapter per configured listener and (when enabled) the metrics
// endpoint.
func New(cfg *config.Config) (*Server, error) {
	engine := booking.New()

	catalog, err := cfg.LoadCatalog()
	if err != nil {
		return nil, err
	}
	if err := engine.Load(catalog); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}
	sm := prommetrics.NewSessionMetrics()
	bm := prommetrics.NewBookingMetrics()

	// One limiter for all listeners: max_connections caps the process, not
	// each listener
	admission := adapter.NewAdmissionLimiter(cfg.Server.MaxConnections)

	adapters := make([]*telnet.Adapter, 0, len(cfg.Server.Listeners))
	for _, l := range cfg.Server.Listeners {
		a := telnet.New(telnet.Config{
			BindAddress:        l.Bind,
			Port:               l.Port,
			MaxConnections:     cfg.Server.MaxConnections,
			Admission:          admission,
			ShutdownTimeout:    cfg.Server.ShutdownTimeout,
			MetricsLogInterval: cfg.Server.MetricsLogInterval,
		}, sm, bm)
		a.SetEngine(engine)
		adapters = append(adapters, a)
	}

	s := &Server{
		cfg:      cfg,
		engine:   engine,
		adapters: adapters,
	}

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		s.metricsSrv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return s, nil
}

// Engine returns the shared reservation engine.
func (s *Server) Engine() *booking.Engine {
	return s.engine
}

// ListenerAddrs returns the bound address of every listener. It blocks until
// all listeners are ready, so callers can dial right after Serve started.
func (s *Server) ListenerAddrs() []string {
	addrs := make([]string, 0, len(s.adapters))
	for _, a := range s.adapters {
		addrs = append(addrs, a.GetListenerAddr())
	}
	return addrs
}

// Serve runs every listener and the metrics endpoint until the context is
// cancelled or one of them fails. Cancellation triggers each adapter's
// graceful shutdown (stop accepting, interrupt pending reads, drain sessions
// up to the configured timeout); Serve returns once every component has
// stopped.
func (s *Server) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, a := range s.adapters {
		g.Go(func() error {
			return a.Serve(gctx)
		})
	}

	if s.metricsSrv != nil {
		logger.Info("Metrics endpoint listening", "address", s.metricsSrv.Addr)
		g.Go(func() error {
			err := s.metricsSrv.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			return s.metricsSrv.Shutdown(shutdownCtx)
		})
	}

	logger.Info("Reservation server running",
		"listeners", len(s.adapters),
		"movies", len(s.engine.Catalog()))

	return g.Wait()
}
