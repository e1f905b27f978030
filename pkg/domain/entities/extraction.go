package entities

import "time"

// ExtractionID is the unique identifier of an extraction record
type ExtractionID int64

// ExtractedUnit is the volume drawn from a single inventory unit
type ExtractedUnit struct {
	InventoryUnitID InventoryUnitID `json:"inventoryUnitId"`
	Volume          Milliliters     `json:"volume"`
}

// ExtractionRecord references the inventory units drawn for one extraction
type ExtractionRecord struct {
	ID          ExtractionID    `json:"id"`
	Units       []ExtractedUnit `json:"units"`
	ExtractedAt time.Time       `json:"extractedAt"`
}

// TotalVolume returns the summed volume across all referenced units
func (e *ExtractionRecord) TotalVolume() Milliliters {
	var total Milliliters
	for _, unit := range e.Units {
		total += unit.Volume
	}
	return total
}
