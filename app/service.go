// Package app wires the session store, the API handlers and the metrics
// pipeline into a runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/zoepiqian/bufferplan/api/entry"
	"github.com/zoepiqian/bufferplan/api/report"
	"github.com/zoepiqian/bufferplan/api/upload"
	"github.com/zoepiqian/bufferplan/config"
	"github.com/zoepiqian/bufferplan/core/session"
	"github.com/zoepiqian/bufferplan/infra/logger"
	"github.com/zoepiqian/bufferplan/infra/metrics"
	"github.com/zoepiqian/bufferplan/internal/eventbus"
)

// Service orchestrates the HTTP API and the metrics recorder.
type Service struct {
	Store *session.MemoryStore

	cfg      *config.Config
	bus      *eventbus.Bus
	recorder *metrics.Recorder
	mux      *http.ServeMux
	log      logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	bus := eventbus.New()
	store := session.NewMemoryStore(cfg.Planning.Planners, cfg.Planning.Clients, bus)

	var sinks []metrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken,
			cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink metrics.Sink = metrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	mux := http.NewServeMux()
	upload.NewHandler(store, cfg.HTTP.MaxUploadBytes, logger.New("upload")).Register(mux)
	entry.NewBatchHandler(store, logger.New("batch")).Register(mux)
	entry.NewSplitHandler(store, entry.SplitDefaults{
		Total: cfg.Planning.DefaultSplitTotal,
		Size:  cfg.Planning.DefaultSplitSize,
	}, logger.New("split")).Register(mux)
	report.NewHandler(store, report.Meta{
		Planners:          store.Planners(),
		Clients:           store.Clients(),
		DefaultSplitTotal: cfg.Planning.DefaultSplitTotal,
		DefaultSplitSize:  cfg.Planning.DefaultSplitSize,
	}, logger.New("report")).Register(mux)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Service{
		Store:    store,
		cfg:      cfg,
		bus:      bus,
		recorder: metrics.NewRecorder(bus, sink, logger.New("metrics")),
		mux:      mux,
		log:      logg,
	}, nil
}

// Handler exposes the API mux, mainly for tests.
func (s *Service) Handler() http.Handler { return s.mux }

// Run serves the API until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	go s.recorder.Run(ctx)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         s.cfg.HTTP.Addr,
		Handler:      s.mux,
		ReadTimeout:  time.Duration(s.cfg.HTTP.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.HTTP.WriteTimeoutSeconds) * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}
