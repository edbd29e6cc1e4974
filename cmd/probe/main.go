package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-api-relay/internal/app"
	"github.com/samvad-hq/samvad-api-relay/internal/config"
	"github.com/samvad-hq/samvad-api-relay/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "probe start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Close()

	// The config carries credentials, so log selected fields only.
	log.InfoObj("probe starting", "config", map[string]any{
		"app_name":       cfg.AppName,
		"env":            cfg.Env,
		"log_level":      cfg.LogLevel,
		"base_url":       cfg.BaseURL,
		"timeout_ms":     cfg.Timeout.Milliseconds(),
		"targets_file":   cfg.TargetsFile,
		"notifiers_file": cfg.NotifiersFile,
		"probe_interval": cfg.ProbeInterval.String(),
		"storage_type":   cfg.StorageType,
		"has_api_token":  cfg.APIToken != "",
		"tenant_id":      cfg.TenantID,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prb, err := app.NewProbe(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize probe", "error", err)
		return err
	}

	if err := prb.Run(ctx); err != nil {
		return fmt.Errorf("probe run: %w", err)
	}

	return nil
}
