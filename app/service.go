package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apianalysis "github.com/kilianp07/rentalfriction/api/analysis"
	apipricing "github.com/kilianp07/rentalfriction/api/pricing"
	"github.com/kilianp07/rentalfriction/config"
	"github.com/kilianp07/rentalfriction/core/analysis"
	"github.com/kilianp07/rentalfriction/core/events"
	coremetrics "github.com/kilianp07/rentalfriction/core/metrics"
	coremonitoring "github.com/kilianp07/rentalfriction/core/monitoring"
	"github.com/kilianp07/rentalfriction/core/pricing"
	"github.com/kilianp07/rentalfriction/core/pricing/journal"
	"github.com/kilianp07/rentalfriction/infra/logger"
	"github.com/kilianp07/rentalfriction/infra/metrics"
	"github.com/kilianp07/rentalfriction/infra/monitoring"
	"github.com/kilianp07/rentalfriction/internal/eventbus"
)

// Service serves the analysis and pricing APIs from one HTTP listener.
type Service struct {
	Analyzer  *analysis.Analyzer
	Predictor pricing.Predictor

	cfg   *config.Config
	sink  coremetrics.MetricsSink
	bus   *eventbus.TypedBus[events.PredictionEvent]
	store journal.Store
	log   logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logg := logger.New("service")
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, err
	}
	coremonitoring.Init(mon)
	sink, err := NewMetricsSink(cfg)
	if err != nil {
		return nil, err
	}
	pred, err := NewPredictor(cfg.Pricing)
	if err != nil {
		return nil, err
	}
	var store journal.Store
	if cfg.Journal.Enabled() {
		if store, err = journal.Open(cfg.Journal.Backend, cfg.Journal.Path); err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
	}
	return &Service{
		Analyzer:  NewAnalyzer(cfg, sink),
		Predictor: pred,
		cfg:       cfg,
		sink:      sink,
		bus:       eventbus.NewTyped[events.PredictionEvent](cfg.Journal.Buffer),
		store:     store,
		log:       logg,
	}, nil
}

// Handler returns the HTTP routes of the service.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	apianalysis.Register(mux, s.Analyzer, s.cfg.Server.AdminToken)
	apipricing.Register(mux, s.Predictor, s.bus, s.store, s.cfg.Journal.Token)
	return withRecovery(mux, logger.New("http"))
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	var consumers []<-chan struct{}
	if s.store != nil {
		consumers = append(consumers, journal.StartRecorder(s.bus, s.store, logger.New("journal")))
	}
	consumers = append(consumers, metrics.StartPredictionCollector(s.bus, s.sink))
	defer func() {
		s.bus.Close()
		for _, done := range consumers {
			<-done
		}
		if n := s.bus.Dropped(); n > 0 {
			s.log.Warnf("%d prediction events were dropped", n)
		}
	}()

	stopSchedule, err := s.startReloadSchedule(ctx)
	if err != nil {
		return err
	}
	defer stopSchedule()

	if addr := s.cfg.Metrics.PrometheusAddress; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.cfg.Server.Preload {
		if err := s.Analyzer.Warm(ctx); err != nil {
			s.log.Warnf("dataset preload failed, will retry on first query: %v", err)
		}
	}

	srv := &http.Server{
		Addr:         s.cfg.Server.Address,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout(),
		WriteTimeout: s.cfg.Server.WriteTimeout(),
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Infow("http server listening", map[string]any{
			"address": srv.Addr,
			"dataset": s.Analyzer.Source().ID(),
			"pricing": s.cfg.Pricing.Mode,
		})
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.log.Infof("http server stopped")
	return nil
}

// Close releases resources held by the service and flushes pending error
// reports.
func (s *Service) Close() error {
	coremonitoring.Flush(2 * time.Second)
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
