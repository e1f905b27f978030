package entities

import (
	"fmt"
	"time"
)

// InventoryUnitID is the unique identifier of an inventory unit
type InventoryUnitID int64

// Milliliters represents a blood volume in ml
type Milliliters int64

// DefaultShelfLifeDays is the whole-blood shelf life applied when no expiry date is supplied
const DefaultShelfLifeDays = 35

// DefaultExpiryDate returns the expiry date of a unit added at the given date
func DefaultExpiryDate(addedDate time.Time) time.Time {
	return addedDate.AddDate(0, 0, DefaultShelfLifeDays)
}

// InventoryUnit represents a quantity of one blood type/component pair in stock
type InventoryUnit struct {
	ID               InventoryUnitID `json:"id"`
	BloodTypeID      BloodTypeID     `json:"bloodTypeId"`
	BloodComponentID ComponentID     `json:"bloodComponentId"`
	Quantity         Milliliters     `json:"quantity"`
	AddedDate        time.Time       `json:"addedDate"`
	ExpiryDate       time.Time       `json:"expiryDate"`
}

// NewInventoryUnit creates a validated InventoryUnit. A zero expiryDate defaults to
// addedDate plus DefaultShelfLifeDays.
func NewInventoryUnit(
	id InventoryUnitID,
	bloodTypeID BloodTypeID,
	componentID ComponentID,
	quantity Milliliters,
	addedDate time.Time,
	expiryDate time.Time,
) (*InventoryUnit, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative, got %d", quantity)
	}
	if addedDate.IsZero() {
		return nil, fmt.Errorf("added date cannot be empty")
	}
	if expiryDate.IsZero() {
		expiryDate = DefaultExpiryDate(addedDate)
	}
	if !expiryDate.After(addedDate) {
		return nil, fmt.Errorf("expiry date %s must be after added date %s",
			expiryDate.Format(time.DateOnly), addedDate.Format(time.DateOnly))
	}

	return &InventoryUnit{
		ID:               id,
		BloodTypeID:      bloodTypeID,
		BloodComponentID: componentID,
		Quantity:         quantity,
		AddedDate:        addedDate,
		ExpiryDate:       expiryDate,
	}, nil
}

// Depleted reports whether the unit has no remaining quantity
func (u *InventoryUnit) Depleted() bool {
	return u.Quantity == 0
}
