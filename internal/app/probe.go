package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-api-relay/internal/config"
	"github.com/samvad-hq/samvad-api-relay/internal/logger"
	"github.com/samvad-hq/samvad-api-relay/internal/probe"
	"github.com/samvad-hq/samvad-api-relay/internal/storage"
	"github.com/samvad-hq/samvad-api-relay/pkg/notify"
	"github.com/samvad-hq/samvad-api-relay/pkg/relay"
)

// Probe represents the endpoint probe runtime. It manages the check loop,
// coordinating targets, the relay client, and notifiers. It also handles
// storage initialization and cleanup.
type Probe struct {
	cfg       *config.Config
	targetReg *probe.Registry
	fanout    *notify.Fanout
	service   *probe.Service
	interval  time.Duration
	log       logger.Logger
	store     storage.Store
}

// NewProbe builds a probe runtime from config files.
func NewProbe(ctx context.Context, cfg *config.Config, log logger.Logger) (*Probe, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base_url is required")
	}

	targetReg, err := probe.LoadTargets(cfg.TargetsFile)
	if err != nil {
		return nil, fmt.Errorf("load targets registry: %w", err)
	}
	targetList := targetReg.All()
	targetIDs := make([]string, 0, len(targetList))
	for _, t := range targetList {
		targetIDs = append(targetIDs, t.ID)
	}
	log.InfoObj("targets registry loaded", "targets_meta", map[string]any{
		"count": len(targetIDs),
		"ids":   targetIDs,
	})

	notifierReg, err := notify.LoadRegistry(cfg.NotifiersFile)
	if err != nil {
		return nil, fmt.Errorf("load notifiers registry: %w", err)
	}

	enabledNotifiers := notifierReg.Enabled()
	if len(enabledNotifiers) == 0 {
		return nil, fmt.Errorf("no notifiers configured")
	}

	sinkRegistry := notify.DefaultRegistry()
	sinks, err := notify.BuildAll(ctx, sinkRegistry, enabledNotifiers, log)
	if err != nil {
		return nil, fmt.Errorf("build notifiers: %w", err)
	}
	fanout := notify.NewFanout(sinks)
	notifierSummaries := make([]map[string]string, 0, len(enabledNotifiers))
	for _, ncfg := range enabledNotifiers {
		notifierSummaries = append(notifierSummaries, map[string]string{
			"id":   ncfg.ID,
			"type": ncfg.Type,
		})
	}
	log.InfoObj("notifiers registry loaded", "notifiers_meta", map[string]any{
		"count":     len(notifierSummaries),
		"notifiers": notifierSummaries,
	})

	storeOpts := storage.Options{
		NoticeTTL:       cfg.NoticeTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"notice_ttl_seconds":       int(cfg.NoticeTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	throttled := notify.NewThrottled(fanout, store, log)

	client := relay.New(relay.Config{
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.Timeout,
		NoticeDuration: cfg.NoticeDuration,
	},
		relay.WithSink(throttled),
		relay.WithCredentials(credentialsFromConfig(cfg)),
		relay.WithSaver(relay.DirSaver{Dir: cfg.DownloadDir}),
		relay.WithLogger(log),
	)

	service := probe.NewService(client, throttled, log)

	return &Probe{
		cfg:       cfg,
		targetReg: targetReg,
		fanout:    fanout,
		service:   service,
		interval:  cfg.ProbeInterval,
		log:       log,
		store:     store,
	}, nil
}

// credentialsFromConfig builds the client credential source; calls stay
// anonymous when no token or tenant is configured.
func credentialsFromConfig(cfg *config.Config) relay.CredentialSource {
	if cfg.APIToken == "" && cfg.TenantID == "" {
		return relay.AnonymousSource{}
	}
	return relay.StaticSource{APIToken: cfg.APIToken, Tenant: cfg.TenantID}
}

// Run starts the check loop until the context is cancelled.
func (p *Probe) Run(ctx context.Context) error {
	if p == nil || p.service == nil {
		return fmt.Errorf("probe is not initialized")
	}
	defer p.close()

	targets := p.targetReg.All()
	if len(targets) == 0 {
		p.log.WarnObj("no targets configured; probe idle", "targets_file", p.cfg.TargetsFile)
		<-ctx.Done()
		return ctx.Err()
	}

	p.log.InfoObj("probe loop starting", "probe_state", map[string]any{
		"targets_count":   len(targets),
		"notifiers_count": p.fanout.Size(),
		"probe_interval":  p.interval.String(),
	})

	if err := p.runOnce(ctx, targets); err != nil {
		p.log.ErrorObj("initial probe pass failed", "error", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.InfoObj("probe loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := p.runOnce(ctx, targets); err != nil {
				p.log.ErrorObj("scheduled probe pass failed", "error", err)
			}
		}
	}
}

// runOnce performs a single probe pass across all targets.
func (p *Probe) runOnce(ctx context.Context, targets []probe.Target) error {
	start := time.Now()
	p.log.InfoObj("probe pass started", "probe_meta", map[string]any{
		"targets_count": len(targets),
		"started_at":    start.UTC(),
	})

	statuses, err := p.service.Run(ctx, targets)

	healthy := 0
	for _, st := range statuses {
		if st.Healthy {
			healthy++
		}
	}
	p.log.InfoObj("probe pass completed", "probe_meta", map[string]any{
		"targets_count": len(targets),
		"healthy_count": healthy,
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return err
}

// close releases the storage backend and notifier connections, logging any
// errors encountered.
func (p *Probe) close() {
	if p == nil {
		return
	}
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			p.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if p.fanout != nil {
		if err := p.fanout.Close(); err != nil {
			p.log.ErrorObj("notifier close failed", "error", err)
		}
	}
}
