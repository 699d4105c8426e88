package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
)

// Store provides Postgres persistence for stats snapshots. Decimal strings
// are written into NUMERIC columns; "NaN" is a valid NUMERIC value.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutSnapshot upserts the protocol row and all branch rows of a snapshot in
// one transaction.
func (s *Store) PutSnapshot(ctx context.Context, snapshot model.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := snapshotBatch(snapshot)

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("upsert snapshot %d: %w", snapshot.BlockNumber, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return tx.Commit(ctx)
}

// snapshotBatch queues the protocol upsert followed by a full replacement of
// the block's branch rows.
func snapshotBatch(snapshot model.Snapshot) *pgx.Batch {
	stats := snapshot.Stats
	blockTime := time.Unix(int64(snapshot.BlockTimestamp), 0).UTC()

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO protocol_snapshots (
			block_number, block_time, total_bold_supply, total_debt_pending, total_coll_value,
			total_sp_deposits, total_value_locked, max_sp_apy, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now(),now())
		ON CONFLICT (block_number)
		DO UPDATE SET
			block_time = EXCLUDED.block_time,
			total_bold_supply = EXCLUDED.total_bold_supply,
			total_debt_pending = EXCLUDED.total_debt_pending,
			total_coll_value = EXCLUDED.total_coll_value,
			total_sp_deposits = EXCLUDED.total_sp_deposits,
			total_value_locked = EXCLUDED.total_value_locked,
			max_sp_apy = EXCLUDED.max_sp_apy,
			updated_at = now()
	`,
		int64(snapshot.BlockNumber),
		blockTime,
		stats.TotalBoldSupply,
		stats.TotalDebtPending,
		stats.TotalCollValue,
		stats.TotalSPDeposits,
		stats.TotalValueLocked,
		stats.MaxSPAPY,
	)

	// branches are replaced as a set so symbols that disappeared leave no rows
	batch.Queue(`DELETE FROM branch_snapshots WHERE block_number = $1`, int64(snapshot.BlockNumber))

	for symbol, b := range stats.Branch {
		batch.Queue(`
			INSERT INTO branch_snapshots (
				block_number, coll_symbol, coll_active, coll_default, coll_price, sp_deposits,
				interest_accrual_1y, interest_pending, batch_management_fees_pending, debt_pending,
				coll_value, sp_apy, value_locked, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now(),now())
			ON CONFLICT (block_number, coll_symbol)
			DO UPDATE SET
				coll_active = EXCLUDED.coll_active,
				coll_default = EXCLUDED.coll_default,
				coll_price = EXCLUDED.coll_price,
				sp_deposits = EXCLUDED.sp_deposits,
				interest_accrual_1y = EXCLUDED.interest_accrual_1y,
				interest_pending = EXCLUDED.interest_pending,
				batch_management_fees_pending = EXCLUDED.batch_management_fees_pending,
				debt_pending = EXCLUDED.debt_pending,
				coll_value = EXCLUDED.coll_value,
				sp_apy = EXCLUDED.sp_apy,
				value_locked = EXCLUDED.value_locked,
				updated_at = now()
		`,
			int64(snapshot.BlockNumber),
			symbol,
			b.CollActive,
			b.CollDefault,
			b.CollPrice,
			b.SPDeposits,
			b.InterestAccrual1y,
			b.InterestPending,
			b.BatchManagementFeesPending,
			b.DebtPending,
			b.CollValue,
			b.SPAPY,
			b.ValueLocked,
		)
	}

	return batch
}

// LatestBlock returns the highest stored snapshot block.
func (s *Store) LatestBlock(ctx context.Context) (uint64, bool, error) {
	var block int64
	row := s.pool.QueryRow(ctx, `SELECT block_number FROM protocol_snapshots ORDER BY block_number DESC LIMIT 1`)
	if err := row.Scan(&block); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(block), true, nil
}
