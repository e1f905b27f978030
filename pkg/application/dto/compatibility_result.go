package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

// CompatibilityStats summarizes a compatibility cross-product
type CompatibilityStats struct {
	Mode              string `json:"mode"`
	TotalCombinations int    `json:"totalCombinations"`
	TotalCompatible   int    `json:"totalCompatible"`
	Rate              int    `json:"rate"` // percent, rounded
}

// MatrixAxis labels a row or column of a matrix
type MatrixAxis struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// Matrix is the rendered compatibility grid: Cells[row][column]
type Matrix struct {
	Kind    string             `json:"kind"`
	Rows    []MatrixAxis       `json:"rows"`
	Columns []MatrixAxis       `json:"columns"`
	Cells   [][]bool           `json:"cells"`
	Stats   CompatibilityStats `json:"stats"`
}

// StockCounts holds unit counts per stock badge
type StockCounts struct {
	Danger  int `json:"danger"`
	Warning int `json:"warning"`
	Normal  int `json:"normal"`
}

// ExpiryCounts holds unit counts per expiry badge
type ExpiryCounts struct {
	Expired      int `json:"expired"`
	ExpiringSoon int `json:"expiringSoon"`
	Valid        int `json:"valid"`
	Unknown      int `json:"unknown"`
}

// UnitStatus is a classified inventory unit row
type UnitStatus struct {
	Unit            entities.InventoryUnit `json:"unit"`
	BloodTypeName   string                 `json:"bloodTypeName"`
	ComponentName   string                 `json:"componentName"`
	StockLevel      entities.StockLevel    `json:"stockLevel"`
	ExpiryStatus    entities.ExpiryStatus  `json:"expiryStatus"`
	DaysUntilExpiry *int                   `json:"daysUntilExpiry,omitempty"`
}

// BloodTypeTotal is the stock held for one blood type
type BloodTypeTotal struct {
	BloodTypeID   entities.BloodTypeID `json:"bloodTypeId"`
	BloodTypeName string               `json:"bloodTypeName"`
	Units         int                  `json:"units"`
	Quantity      entities.Milliliters `json:"quantity"`
}

// InventorySummary aggregates the inventory snapshot for stats cards and alerts
type InventorySummary struct {
	GeneratedAt     time.Time            `json:"generatedAt"`
	TotalUnits      int                  `json:"totalUnits"`
	DepletedUnits   int                  `json:"depletedUnits"`
	TotalQuantity   entities.Milliliters `json:"totalQuantity"`
	LowStockCount   int                  `json:"lowStockCount"`
	Stock           StockCounts          `json:"stock"`
	Expiry          ExpiryCounts         `json:"expiry"`
	ByBloodType     []BloodTypeTotal     `json:"byBloodType"`
	Units           []UnitStatus         `json:"units"`
	Extractions     int                  `json:"extractions"`
	ExtractedVolume entities.Milliliters `json:"extractedVolume"`
	ExtractedLiters decimal.Decimal      `json:"extractedLiters"`
}
