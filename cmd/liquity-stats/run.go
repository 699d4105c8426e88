package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielattilasimon/lqty-circulating-supply/internal/chain"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/config"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/deployment"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/liquity"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/runner"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/stats"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/storage"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/storage/postgres"
)

func runSnapshots(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRun(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.Deployment == "" {
		return fmt.Errorf("deployment path is required")
	}
	if cfg.Out == "" && cfg.PGDSN == "" {
		return fmt.Errorf("an output path or pg dsn is required")
	}

	dep, err := deployment.Load(cfg.Deployment)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	var sinks []storage.Storage
	if cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.Out))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if last, ok, err := store.LatestBlock(ctx); err != nil {
			return fmt.Errorf("load latest snapshot: %w", err)
		} else if ok {
			logger.Info("postgres has snapshots", zap.Uint64("latest_block", last))
		}
		sinks = append(sinks, store)
	}

	reader := liquity.NewReader(chainClient)
	fetch := func(ctx context.Context, ref model.BlockRef) (model.StatsRecord, error) {
		return stats.FetchStats(ctx, reader, dep, ref)
	}

	r := runner.NewRunner(runner.Config{
		FromBlock:         cfg.FromBlock,
		ToBlock:           cfg.ToBlock,
		Step:              cfg.Step,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointScope:   dep.BoldToken.Hex(),
		CheckpointEnabled: cfg.CheckpointEnabled,
		MaxRetries:        cfg.MaxRetries,
		RetryBackoff:      cfg.RetryBackoff,
	}, chainClient, fetch, sinks, logger)

	logger.Info("run start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("deployment", cfg.Deployment),
		zap.Int("branches", len(dep.Branches)),
		zap.Uint64("from", cfg.FromBlock),
		zap.Uint64("to", cfg.ToBlock),
		zap.Uint64("step", cfg.Step),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
	)

	return r.Run(ctx)
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
