package storage

import (
	"context"

	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
)

// Storage defines a sink for stats snapshots.
type Storage interface {
	PutSnapshot(ctx context.Context, snapshot model.Snapshot) error
}
