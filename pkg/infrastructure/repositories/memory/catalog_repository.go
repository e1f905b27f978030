package memory

import (
	"sync/atomic"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
	"github.com/truongquocminh/bloodbank/pkg/domain/repositories"
)

// catalogSnapshot is immutable once published
type catalogSnapshot struct {
	bloodTypes     []entities.BloodType
	components     []entities.BloodComponent
	typeIndex      map[entities.BloodTypeID]int
	componentIndex map[entities.ComponentID]int
}

// CatalogRepository provides in-memory catalog storage. Each Load publishes a new
// snapshot with a single pointer swap, so readers see either the old or the new
// catalog, never a mix.
type CatalogRepository struct {
	snapshot atomic.Pointer[catalogSnapshot]
}

// NewCatalogRepository creates a new in-memory catalog repository
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{}
}

// Verify interface compliance
var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// Load replaces the catalog with the given blood types and components.
// When ids repeat, the first occurrence wins lookups.
func (r *CatalogRepository) Load(bloodTypes []entities.BloodType, components []entities.BloodComponent) error {
	snap := &catalogSnapshot{
		bloodTypes:     make([]entities.BloodType, len(bloodTypes)),
		components:     make([]entities.BloodComponent, len(components)),
		typeIndex:      make(map[entities.BloodTypeID]int, len(bloodTypes)),
		componentIndex: make(map[entities.ComponentID]int, len(components)),
	}

	for i, bt := range bloodTypes {
		snap.bloodTypes[i] = cloneBloodType(bt)
		if _, exists := snap.typeIndex[bt.ID]; !exists {
			snap.typeIndex[bt.ID] = i
		}
	}
	for i, c := range components {
		snap.components[i] = c
		if _, exists := snap.componentIndex[c.ComponentID]; !exists {
			snap.componentIndex[c.ComponentID] = i
		}
	}

	r.snapshot.Store(snap)
	return nil
}

// Loaded reports whether a snapshot has been published
func (r *CatalogRepository) Loaded() bool {
	return r.snapshot.Load() != nil
}

// FindBloodType returns the blood type with the given id
func (r *CatalogRepository) FindBloodType(id entities.BloodTypeID) (*entities.BloodType, bool) {
	snap := r.snapshot.Load()
	if snap == nil {
		return nil, false
	}
	index, exists := snap.typeIndex[id]
	if !exists {
		return nil, false
	}
	bt := cloneBloodType(snap.bloodTypes[index])
	return &bt, true
}

// FindComponent returns the component with the given id
func (r *CatalogRepository) FindComponent(id entities.ComponentID) (*entities.BloodComponent, bool) {
	snap := r.snapshot.Load()
	if snap == nil {
		return nil, false
	}
	index, exists := snap.componentIndex[id]
	if !exists {
		return nil, false
	}
	c := snap.components[index]
	return &c, true
}

// BloodTypes returns a copy of all blood types in load order
func (r *CatalogRepository) BloodTypes() ([]entities.BloodType, error) {
	snap := r.snapshot.Load()
	if snap == nil {
		return nil, repositories.ErrNotLoaded
	}
	bloodTypes := make([]entities.BloodType, len(snap.bloodTypes))
	for i, bt := range snap.bloodTypes {
		bloodTypes[i] = cloneBloodType(bt)
	}
	return bloodTypes, nil
}

// Components returns a copy of all components in load order
func (r *CatalogRepository) Components() ([]entities.BloodComponent, error) {
	snap := r.snapshot.Load()
	if snap == nil {
		return nil, repositories.ErrNotLoaded
	}
	components := make([]entities.BloodComponent, len(snap.components))
	copy(components, snap.components)
	return components, nil
}

func cloneBloodType(bt entities.BloodType) entities.BloodType {
	clone := bt
	clone.Components = append([]entities.ComponentRef(nil), bt.Components...)
	clone.CanDonateTo = append([]entities.BloodTypeID(nil), bt.CanDonateTo...)
	clone.CanReceiveFrom = append([]entities.BloodTypeID(nil), bt.CanReceiveFrom...)
	return clone
}
