package memory

import (
	"sort"
	"sync/atomic"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
	"github.com/truongquocminh/bloodbank/pkg/domain/repositories"
)

type unitSnapshot struct {
	units []entities.InventoryUnit
	index map[entities.InventoryUnitID]int
}

// InventoryRepository provides in-memory inventory storage. Units and extraction
// records are replaced independently, each with a single pointer swap.
type InventoryRepository struct {
	units       atomic.Pointer[unitSnapshot]
	extractions atomic.Pointer[[]entities.ExtractionRecord]
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// LoadUnits replaces all inventory units
func (r *InventoryRepository) LoadUnits(units []entities.InventoryUnit) error {
	snap := &unitSnapshot{
		units: make([]entities.InventoryUnit, len(units)),
		index: make(map[entities.InventoryUnitID]int, len(units)),
	}
	copy(snap.units, units)
	for i, unit := range snap.units {
		if _, exists := snap.index[unit.ID]; !exists {
			snap.index[unit.ID] = i
		}
	}

	r.units.Store(snap)
	return nil
}

// LoadExtractions replaces all extraction records
func (r *InventoryRepository) LoadExtractions(records []entities.ExtractionRecord) error {
	snapshot := make([]entities.ExtractionRecord, len(records))
	for i, record := range records {
		clone := record
		clone.Units = append([]entities.ExtractedUnit(nil), record.Units...)
		snapshot[i] = clone
	}
	r.extractions.Store(&snapshot)
	return nil
}

// FindUnit returns the inventory unit with the given id
func (r *InventoryRepository) FindUnit(id entities.InventoryUnitID) (*entities.InventoryUnit, bool) {
	snap := r.units.Load()
	if snap == nil {
		return nil, false
	}
	position, exists := snap.index[id]
	if !exists {
		return nil, false
	}
	unit := snap.units[position]
	return &unit, true
}

// Units returns a copy of all inventory units in load order
func (r *InventoryRepository) Units() ([]entities.InventoryUnit, error) {
	snap := r.units.Load()
	if snap == nil {
		return nil, repositories.ErrNotLoaded
	}
	result := make([]entities.InventoryUnit, len(snap.units))
	copy(result, snap.units)
	return result, nil
}

// UnitsByExpiry returns the units sorted by expiry date, earliest first
func (r *InventoryRepository) UnitsByExpiry() ([]entities.InventoryUnit, error) {
	units, err := r.Units()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(units, func(i, j int) bool {
		return units[i].ExpiryDate.Before(units[j].ExpiryDate)
	})
	return units, nil
}

// Extractions returns a copy of all extraction records. An inventory loaded without
// extraction records reports none rather than an error.
func (r *InventoryRepository) Extractions() ([]entities.ExtractionRecord, error) {
	records := r.extractions.Load()
	if records == nil {
		if r.units.Load() == nil {
			return nil, repositories.ErrNotLoaded
		}
		return []entities.ExtractionRecord{}, nil
	}
	result := make([]entities.ExtractionRecord, len(*records))
	copy(result, *records)
	return result, nil
}
