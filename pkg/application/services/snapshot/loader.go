// Package snapshot pulls a full catalog and inventory snapshot from a source and
// publishes it to the repositories.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/truongquocminh/bloodbank/pkg/domain/repositories"
	"github.com/truongquocminh/bloodbank/pkg/domain/services"
	"github.com/truongquocminh/bloodbank/pkg/infrastructure/events"
)

// LoadResult describes a published snapshot
type LoadResult struct {
	SnapshotID  string
	Source      string
	BloodTypes  int
	Components  int
	Units       int
	Extractions int
	Validation  *services.CatalogValidationResult
	Elapsed     time.Duration
}

// Loader fetches snapshots and replaces repository contents wholesale.
// The repositories are only touched once the source returned a complete snapshot.
type Loader struct {
	source     repositories.SnapshotSource
	catalog    repositories.CatalogRepository
	inventory  repositories.InventoryRepository
	eventStore events.EventStore
	logger     *zap.Logger
}

// NewLoader creates a snapshot loader. eventStore may be nil.
func NewLoader(
	source repositories.SnapshotSource,
	catalog repositories.CatalogRepository,
	inventory repositories.InventoryRepository,
	eventStore events.EventStore,
	logger *zap.Logger,
) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		source:     source,
		catalog:    catalog,
		inventory:  inventory,
		eventStore: eventStore,
		logger:     logger,
	}
}

// Load fetches a snapshot, validates the catalog and publishes it. Validation
// findings are logged and recorded but never block the load.
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	started := time.Now()
	sourceName := l.source.Name()

	snap, err := l.source.Fetch(ctx)
	if err != nil {
		l.logger.Error("Failed to fetch snapshot", zap.String("source", sourceName), zap.Error(err))
		l.publish(events.NewSnapshotFailedEvent(sourceName, err))
		return nil, fmt.Errorf("fetch snapshot from %s: %w", sourceName, err)
	}

	snapshotID := uuid.NewString()
	validation := services.ValidateCatalog(snap.BloodTypes, snap.Components)
	if !validation.Clean() {
		for _, warning := range validation.Warnings {
			l.logger.Warn("Catalog inconsistency", zap.String("snapshot_id", snapshotID), zap.String("warning", warning))
		}
		l.publish(events.NewCatalogWarningsEvent(snapshotID, validation.Warnings))
	}

	if err := l.catalog.Load(snap.BloodTypes, snap.Components); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if l.inventory != nil {
		if err := l.inventory.LoadUnits(snap.Units); err != nil {
			return nil, fmt.Errorf("load inventory units: %w", err)
		}
		if err := l.inventory.LoadExtractions(snap.Extractions); err != nil {
			return nil, fmt.Errorf("load extraction records: %w", err)
		}
	}

	result := &LoadResult{
		SnapshotID:  snapshotID,
		Source:      sourceName,
		BloodTypes:  len(snap.BloodTypes),
		Components:  len(snap.Components),
		Units:       len(snap.Units),
		Extractions: len(snap.Extractions),
		Validation:  validation,
		Elapsed:     time.Since(started),
	}

	l.publish(events.NewSnapshotLoadedEvent(events.SnapshotLoaded{
		SnapshotID:  result.SnapshotID,
		Source:      result.Source,
		BloodTypes:  result.BloodTypes,
		Components:  result.Components,
		Units:       result.Units,
		Extractions: result.Extractions,
		Elapsed:     result.Elapsed,
	}))

	l.logger.Info("Snapshot loaded",
		zap.String("snapshot_id", snapshotID),
		zap.String("source", sourceName),
		zap.Int("blood_types", result.BloodTypes),
		zap.Int("components", result.Components),
		zap.Int("inventory_units", result.Units),
		zap.Int("warnings", len(validation.Warnings)),
	)

	return result, nil
}

func (l *Loader) publish(event events.Event) {
	if l.eventStore == nil {
		return
	}
	if err := l.eventStore.AppendEvent(events.SnapshotStream, event); err != nil {
		l.logger.Warn("Failed to publish event", zap.String("event_type", event.Type()), zap.Error(err))
	}
}
