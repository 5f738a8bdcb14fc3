// Package storage defines persistence for ingested evidence batches.
// Generated reports are never persisted; analysis always re-runs on demand.
package storage

import (
	"context"

	"github.com/forensica/triage/internal/models"
)

// Storage defines evidence-batch persistence operations.
type Storage interface {
	CreateBatch(ctx context.Context, batch *models.Batch) error
	GetBatch(ctx context.Context, id string) (*models.Batch, error)
	ListBatches(ctx context.Context, offset, limit int) ([]*models.Batch, error)
	DeleteBatch(ctx context.Context, id string) error
	CountBatches(ctx context.Context) (int64, error)

	Close() error
}
