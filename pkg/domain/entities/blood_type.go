package entities

// BloodTypeID is the unique identifier of a blood type
type BloodTypeID int64

// ComponentID is the unique identifier of a blood component
type ComponentID int64

// ComponentRef is the denormalized {componentId, componentName} pair carried by a blood type
type ComponentRef struct {
	ComponentID   ComponentID `json:"componentId"`
	ComponentName string      `json:"componentName"`
}

// BloodType represents an ABO/Rh classification with its compatibility adjacency
type BloodType struct {
	ID             BloodTypeID    `json:"id"`
	TypeName       string         `json:"typeName"`
	Components     []ComponentRef `json:"components"`
	CanDonateTo    []BloodTypeID  `json:"canDonateTo"`
	CanReceiveFrom []BloodTypeID  `json:"canReceiveFrom"`
}

// HasComponent reports whether the component id appears in the type's component list.
// Identity is by id only; names are display data.
func (b *BloodType) HasComponent(id ComponentID) bool {
	for _, ref := range b.Components {
		if ref.ComponentID == id {
			return true
		}
	}
	return false
}

// DonatesTo reports whether the recipient id appears in CanDonateTo
func (b *BloodType) DonatesTo(id BloodTypeID) bool {
	for _, target := range b.CanDonateTo {
		if target == id {
			return true
		}
	}
	return false
}

// ReceivesFrom reports whether the donor id appears in CanReceiveFrom
func (b *BloodType) ReceivesFrom(id BloodTypeID) bool {
	for _, source := range b.CanReceiveFrom {
		if source == id {
			return true
		}
	}
	return false
}

// BloodComponent represents a separable fraction of whole blood
type BloodComponent struct {
	ComponentID   ComponentID `json:"componentId"`
	ComponentName string      `json:"componentName"`
}

// Ref returns the component as a ComponentRef
func (c BloodComponent) Ref() ComponentRef {
	return ComponentRef{ComponentID: c.ComponentID, ComponentName: c.ComponentName}
}
