package repositories

import (
	"context"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

// SnapshotSource fetches a full catalog and inventory snapshot from a backing store
type SnapshotSource interface {
	Fetch(ctx context.Context) (*entities.Snapshot, error)
	Name() string
}
