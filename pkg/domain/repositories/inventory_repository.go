package repositories

import "github.com/truongquocminh/bloodbank/pkg/domain/entities"

// InventoryRepository provides access to inventory units and extraction records
type InventoryRepository interface {
	LoadUnits(units []entities.InventoryUnit) error
	LoadExtractions(records []entities.ExtractionRecord) error
	FindUnit(id entities.InventoryUnitID) (*entities.InventoryUnit, bool)
	Units() ([]entities.InventoryUnit, error)
	Extractions() ([]entities.ExtractionRecord, error)
}
