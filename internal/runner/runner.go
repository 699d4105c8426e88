package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/storage"
)

// Config holds runtime settings for the snapshot runner.
type Config struct {
	FromBlock         uint64
	ToBlock           uint64
	Step              uint64
	CheckpointPath    string
	CheckpointScope   string
	CheckpointEnabled bool
	MaxRetries        int
	RetryBackoff      time.Duration
}

// ChainReader resolves block heights and timestamps.
type ChainReader interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	BlockTimestamp(ctx context.Context, number uint64) (uint64, error)
}

// FetchFunc computes the stats record at a block reference.
type FetchFunc func(ctx context.Context, ref model.BlockRef) (model.StatsRecord, error)

// Runner samples stats snapshots over a block range and writes them to sinks.
type Runner struct {
	cfg        Config
	chain      ChainReader
	fetch      FetchFunc
	sinks      []storage.Storage
	logger     *zap.Logger
	checkpoint *CheckpointStore
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg Config, chainReader ChainReader, fetch FetchFunc, sinks []storage.Storage, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		chain:      chainReader,
		fetch:      fetch,
		sinks:      sinks,
		logger:     logger,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointScope, cfg.CheckpointEnabled),
	}
}

// Run snapshots every sampled block. A zero ToBlock means the current head;
// a zero FromBlock means only ToBlock is sampled.
func (r *Runner) Run(ctx context.Context) error {
	if r.chain == nil {
		return fmt.Errorf("chain reader is nil")
	}
	if r.fetch == nil {
		return fmt.Errorf("fetch func is nil")
	}
	if len(r.sinks) == 0 {
		return fmt.Errorf("at least one sink is required")
	}
	if r.cfg.Step == 0 {
		return fmt.Errorf("step must be greater than zero")
	}

	to := r.cfg.ToBlock
	if to == 0 {
		err := r.retry("latest block").do(ctx, func(ctx context.Context) error {
			var err error
			to, err = r.chain.LatestBlockNumber(ctx)
			return err
		})
		if err != nil {
			return fmt.Errorf("get latest block: %w", err)
		}
	}
	from := r.cfg.FromBlock
	if from == 0 {
		from = to
	}
	if from > to {
		return fmt.Errorf("from block %d is after to block %d", from, to)
	}

	blocks, err := SampleBlocks(from, to, r.cfg.Step)
	if err != nil {
		return err
	}

	cp, resumed, err := r.checkpoint.Load()
	if err != nil {
		return err
	}
	if resumed {
		r.logger.Info("resume from checkpoint", zap.Uint64("last_snapshot", cp.LastSnapshotBlock))
	}

	var stored int
	for _, block := range blocks {
		if resumed && block <= cp.LastSnapshotBlock {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		snapshot, err := r.snapshotAt(ctx, block)
		if err != nil {
			return fmt.Errorf("snapshot at %d: %w", block, err)
		}

		for _, sink := range r.sinks {
			if err := sink.PutSnapshot(ctx, snapshot); err != nil {
				return fmt.Errorf("store snapshot at %d: %w", block, err)
			}
		}

		if err := r.checkpoint.Save(block); err != nil {
			return err
		}
		stored++

		r.logger.Info("snapshot stored",
			zap.Uint64("block", block),
			zap.Uint64("block_timestamp", snapshot.BlockTimestamp),
			zap.String("total_bold_supply", snapshot.Stats.TotalBoldSupply),
			zap.String("total_value_locked", snapshot.Stats.TotalValueLocked),
			zap.String("max_sp_apy", snapshot.Stats.MaxSPAPY),
			zap.Int("branches", len(snapshot.Stats.Branch)),
		)
	}

	r.logger.Info("run complete", zap.Int("snapshots", stored), zap.Uint64("from", from), zap.Uint64("to", to))
	return nil
}

// snapshotAt pins the read to a block number so every retry observes the
// same state.
func (r *Runner) snapshotAt(ctx context.Context, block uint64) (model.Snapshot, error) {
	var record model.StatsRecord
	err := r.retry("fetch stats").do(ctx, func(ctx context.Context) error {
		var err error
		record, err = r.fetch(ctx, model.AtNumber(block))
		return err
	})
	if err != nil {
		return model.Snapshot{}, err
	}

	var ts uint64
	err = r.retry("block timestamp").do(ctx, func(ctx context.Context) error {
		var err error
		ts, err = r.chain.BlockTimestamp(ctx, block)
		return err
	})
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("block timestamp: %w", err)
	}

	return model.Snapshot{
		BlockNumber:    block,
		BlockTimestamp: ts,
		Stats:          record,
		IngestedAt:     time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}

func (r *Runner) retry(op string) retryPolicy {
	return retryPolicy{
		maxRetries: r.cfg.MaxRetries,
		baseDelay:  r.cfg.RetryBackoff,
		onRetry: func(attempt int, err error) {
			r.logger.Warn(op+" failed", zap.Int("attempt", attempt), zap.Error(err))
		},
	}
}
