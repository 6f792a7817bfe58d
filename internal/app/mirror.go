package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/estecon/estecon-client/internal/config"
	"github.com/estecon/estecon-client/internal/logger"
	"github.com/estecon/estecon-client/internal/storage"
	"github.com/estecon/estecon-client/internal/syncer"
	"github.com/estecon/estecon-client/pkg/endpoints"
	"github.com/estecon/estecon-client/pkg/fetcher"
	"github.com/estecon/estecon-client/pkg/httpclient"
	"github.com/estecon/estecon-client/pkg/publishers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mirror represents the endpoint mirror runtime. It manages the sync loop,
// coordinating between the endpoint registry, the sync service, and
// publishers. It also owns storage and the optional metrics listener.
type Mirror struct {
	cfg          *config.Config
	endpointReg  *endpoints.Registry
	fanout       *publishers.Fanout
	syncService  *syncer.Service
	syncInterval time.Duration
	log          logger.Logger
	store        storage.Store
	metricsSrv   *http.Server
}

// NewMirror builds a mirror runtime from config files.
func NewMirror(ctx context.Context, cfg *config.Config, log logger.Logger) (*Mirror, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	endpointReg, err := endpoints.LoadRegistry(cfg.EndpointsFile)
	if err != nil {
		return nil, fmt.Errorf("load endpoints registry: %w", err)
	}
	all := endpointReg.All()
	endpointIDs := make([]string, 0, len(all))
	for _, e := range all {
		endpointIDs = append(endpointIDs, e.ID)
	}
	log.InfoObj("endpoints registry loaded", "endpoints_meta", map[string]any{
		"count":   len(all),
		"ids":     endpointIDs,
		"enabled": len(endpointReg.Enabled()),
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.DefaultBuilders().BuildAll(ctx, enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	df, metricsSrv, err := buildFetcher(cfg, log)
	if err != nil {
		_ = fanout.Close()
		return nil, err
	}

	storeOpts := storage.Options{
		TTL:             cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"ttl_seconds":              int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	svc := syncer.NewService(df, fanout, store, log, syncer.Options{
		RequestDelay: cfg.SyncRequestDelay,
		URLFor:       func(endpoint string) string { return cfg.APIBaseURL + endpoint },
	})

	return &Mirror{
		cfg:          cfg,
		endpointReg:  endpointReg,
		fanout:       fanout,
		syncService:  svc,
		syncInterval: cfg.SyncInterval,
		log:          log,
		store:        store,
		metricsSrv:   metricsSrv,
	}, nil
}

// buildFetcher stacks the logging and metrics adapters on the base fetcher.
func buildFetcher(cfg *config.Config, log logger.Logger) (fetcher.DataFetcher, *http.Server, error) {
	var transport httpclient.Client
	if z, ok := log.(*logger.ZapLogger); ok {
		transport = httpclient.NewRestyClient(httpclient.WithLogger(z.Sugared()))
	}

	base, err := fetcher.New(cfg.APIBaseURL, transport)
	if err != nil {
		return nil, nil, fmt.Errorf("init fetcher: %w", err)
	}
	var df fetcher.DataFetcher = fetcher.NewLogged(base, log)

	if cfg.MetricsAddr == "" {
		return df, nil, nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := fetcher.NewMetrics(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("init metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return fetcher.NewInstrumented(df, m), srv, nil
}

// Run starts the sync loop until the context is cancelled.
func (m *Mirror) Run(ctx context.Context) error {
	if m == nil || m.syncService == nil {
		return fmt.Errorf("mirror is not initialized")
	}
	defer m.shutdown()
	m.serveMetrics()

	eps := m.endpointReg.Enabled()
	if len(eps) == 0 {
		m.log.WarnObj("no endpoints enabled; mirror idle", "endpoints_file", m.cfg.EndpointsFile)
		<-ctx.Done()
		return nil
	}

	m.log.InfoObj("mirror loop starting", "mirror_state", map[string]any{
		"base_url":         m.cfg.APIBaseURL,
		"endpoints_count":  len(eps),
		"publishers_count": m.fanout.Size(),
		"sync_interval":    m.syncInterval.String(),
	})

	if err := m.runOnce(ctx, eps); err != nil {
		m.log.ErrorObj("initial sync failed", "error", err)
	}

	ticker := time.NewTicker(m.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.InfoObj("mirror loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := m.runOnce(ctx, eps); err != nil {
				m.log.ErrorObj("scheduled sync failed", "error", err)
			}
		}
	}
}

// runOnce performs a single sync pass across all enabled endpoints.
func (m *Mirror) runOnce(ctx context.Context, eps []endpoints.Endpoint) error {
	start := time.Now()
	m.log.InfoObj("sync started", "sync_meta", map[string]any{
		"endpoints_count": len(eps),
		"started_at":      start.UTC(),
	})
	res, err := m.syncService.Run(ctx, eps)
	m.log.InfoObj("sync completed", "sync_meta", map[string]any{
		"endpoints_count": len(eps),
		"fetched":         res.Fetched,
		"unchanged":       res.Unchanged,
		"published":       res.Published,
		"failed":          res.Failed,
		"elapsed_ms":      time.Since(start).Milliseconds(),
	})
	return err
}

func (m *Mirror) serveMetrics() {
	if m.metricsSrv == nil {
		return
	}
	go func() {
		if err := m.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.ErrorObj("metrics server failed", "error", err)
		}
	}()
	m.log.InfoObj("metrics server listening", "metrics_addr", m.metricsSrv.Addr)
}

// shutdown releases the metrics listener, publishers and storage, logging any errors encountered.
func (m *Mirror) shutdown() {
	if m.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.metricsSrv.Shutdown(ctx); err != nil {
			m.log.ErrorObj("metrics server shutdown failed", "error", err)
		}
	}
	if err := m.fanout.Close(); err != nil {
		m.log.ErrorObj("publishers close failed", "error", err)
	}
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			m.log.ErrorObj("storage close failed", "error", err)
		}
	}
}
