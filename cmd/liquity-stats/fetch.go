package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielattilasimon/lqty-circulating-supply/internal/chain"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/config"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/deployment"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/liquity"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/stats"
)

func runFetch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFetch(cfgFile, cmd.Flags())
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

	ref, err := model.ParseBlockRef(cfg.Block)
	if err != nil {
		return err
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

	ref, err = chainClient.PinRef(ctx, ref)
	if err != nil {
		return err
	}

	logger.Debug("fetch start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("block", ref.String()),
		zap.Int("branches", len(dep.Branches)),
	)

	record, err := stats.FetchStats(ctx, liquity.NewReader(chainClient), dep, ref)
	if err != nil {
		return fmt.Errorf("fetch stats at %s: %w", ref, err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	data = append(data, '\n')

	if cfg.Out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(cfg.Out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	if err := os.WriteFile(cfg.Out, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logger.Info("fetch complete", zap.String("block", ref.String()), zap.String("out", cfg.Out))
	return nil
}
