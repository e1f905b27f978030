package repositories

import (
	"errors"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

// ErrNotLoaded is returned when a repository is read before any snapshot was loaded
var ErrNotLoaded = errors.New("snapshot not loaded")

// CatalogRepository provides access to the blood type and component catalogs.
// Load replaces the whole snapshot; there is no incremental merge.
type CatalogRepository interface {
	Load(bloodTypes []entities.BloodType, components []entities.BloodComponent) error
	FindBloodType(id entities.BloodTypeID) (*entities.BloodType, bool)
	FindComponent(id entities.ComponentID) (*entities.BloodComponent, bool)
	BloodTypes() ([]entities.BloodType, error)
	Components() ([]entities.BloodComponent, error)
}
