// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/signplot/signplot/internal/config"
	"github.com/signplot/signplot/internal/economy"
	"github.com/signplot/signplot/internal/intent"
	"github.com/signplot/signplot/internal/lang"
	"github.com/signplot/signplot/internal/logging"
	"github.com/signplot/signplot/internal/observability"
	"github.com/signplot/signplot/internal/purchase"
	"github.com/signplot/signplot/internal/quota"
	"github.com/signplot/signplot/internal/region"
	"github.com/signplot/signplot/internal/schedule"
	"github.com/signplot/signplot/internal/sign"
	"github.com/signplot/signplot/internal/store"
	"github.com/signplot/signplot/internal/world"
)

// tickInterval matches the host game's 20 ticks per second.
const tickInterval = 50 * time.Millisecond

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the sale service",
		Long: `Start the sale service: connect to the region/account store, wire the
purchase engine and sign protocol, and expose metrics and health endpoints.`,
		RunE: runServe,
	}

	cmd.Flags().String("log.format", "text", "log format (json or text)")
	cmd.Flags().String("log.level", "info", "minimum log level")
	cmd.Flags().String("database.url", "", "postgres connection string (empty runs in-memory)")
	cmd.Flags().String("observability.addr", "", "metrics/health listen address (empty disables)")

	return cmd
}

// services holds the wired sale machinery for one process.
type services struct {
	Handler  *sign.Handler
	Engine   *purchase.Engine
	Sync     *sign.Synchronizer
	Ticks    *schedule.TickQueue
	Writes   *intent.WriteIntents
	Pending  *intent.MessageIntents
	Grants   *quota.StaticGrants
	Notifier *purchase.MemoryNotifier
	World    *world.MemoryWorld
	Registry region.Registry
	Ledger   economy.Ledger

	pool *pgxpool.Pool
}

// Close releases everything buildServices started.
func (s *services) Close() {
	s.Writes.Close()
	if s.pool != nil {
		s.pool.Close()
	}
}

// buildServices wires the sale machinery from the configuration. With a
// database URL the region registry and account ledger run on PostgreSQL;
// without one they run in process. Metrics land on the given registry
// when it is non-nil.
func buildServices(ctx context.Context, cfg *config.Config, obs *observability.Server) (*services, error) {
	s := &services{
		Ticks:    schedule.NewTickQueue(),
		Grants:   quota.NewStaticGrants(),
		Notifier: purchase.NewMemoryNotifier(),
		World:    world.NewMemoryWorld(),
	}

	if obs != nil {
		s.Writes = intent.NewWriteIntentsWithRegistry(intent.WriteIntentsConfig{}, obs.Registry())
		s.Pending = intent.NewMessageIntentsWithRegistry(intent.MessageIntentsConfig{}, obs.Registry())
	} else {
		s.Writes = intent.NewWriteIntents(intent.WriteIntentsConfig{})
		s.Pending = intent.NewMessageIntents(intent.MessageIntentsConfig{})
	}

	if cfg.Database.URL != "" {
		pool, err := store.Connect(ctx, cfg.Database.URL)
		if err != nil {
			s.Writes.Close()
			return nil, err
		}
		s.pool = pool
		s.Registry = store.NewPostgresRegionRepository(pool)
		s.Ledger = store.NewPostgresAccountLedger(pool)
	} else {
		s.Registry = region.NewMemoryRegistry()
		s.Ledger = economy.NewMemoryLedger()
	}

	catalog := lang.NewCatalog(cfg.Lang)
	templates := cfg.Templates()
	checker := quota.NewChecker(s.Grants, s.Registry, cfg.QuotaConfig())

	s.Sync = sign.NewSynchronizer(s.World, templates, s.Notifier, slog.Default())

	s.Engine = purchase.NewEngine(purchase.EngineConfig{
		Ledger:    s.Ledger,
		Registry:  s.Registry,
		Quota:     checker,
		Pending:   s.Pending,
		Notifier:  s.Notifier,
		Catalog:   catalog,
		Refresher: s.Sync,
		Granter:   s.Grants,
		Tax: purchase.TaxConfig{
			Fixed:     cfg.Tax.Fixed,
			ShareRate: cfg.Tax.Share,
		},
		UpdateSignsOnSale: cfg.Sign.UpdateAllOnSale,
	})

	s.Handler = sign.NewHandler(sign.HandlerConfig{
		Engine:          s.Engine,
		Writes:          s.Writes,
		Grants:          s.Grants,
		Registry:        s.Registry,
		Sync:            s.Sync,
		Ticks:           s.Ticks,
		Templates:       templates,
		Catalog:         catalog,
		Notifier:        s.Notifier,
		UpdateAllOnSale: cfg.Sign.UpdateAllOnSale,
	})

	return s, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(resolveConfigFile(), cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("signplot", version, cfg.Log.Format, cfg.Log.Level)

	slog.Info("starting sale service",
		"log_format", cfg.Log.Format,
		"database", cfg.Database.URL != "",
		"metrics_addr", cfg.Observability.Addr,
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var ready atomic.Bool
	var obs *observability.Server
	if cfg.Observability.Addr != "" {
		obs = observability.NewServer(cfg.Observability.Addr, ready.Load)
	}

	svc, err := buildServices(ctx, cfg, obs)
	if err != nil {
		return err
	}
	defer svc.Close()

	if obs != nil {
		obsErrChan, err := obs.Start()
		if err != nil {
			return err
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		slog.Info("observability server started", "addr", obs.Addr())
	}

	ready.Store(true)
	cmd.Println("Sale service started")
	slog.Info("sale service ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ticker.C:
			svc.Ticks.Drain()
		case sig := <-sigChan:
			slog.Info("received shutdown signal", "signal", sig)
			break loop
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down")
			break loop
		}
	}

	slog.Info("shutting down...")
	ready.Store(false)

	// Run deferred sign work before the queue is abandoned.
	svc.Ticks.Drain()

	if obs != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// monitorServerErrors cancels the context when a background server fails,
// so one dead listener takes the whole process through graceful shutdown.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
