package entities

// Snapshot is a complete read-only copy of the backing catalog and inventory
type Snapshot struct {
	BloodTypes  []BloodType        `json:"bloodTypes"`
	Components  []BloodComponent   `json:"components"`
	Units       []InventoryUnit    `json:"inventoryUnits"`
	Extractions []ExtractionRecord `json:"extractions"`
}

// DeriveComponentRefs fills each blood type's Components from a type -> component
// join table. Pairs naming an unknown component keep the id with an empty name.
func DeriveComponentRefs(bloodTypes []BloodType, components []BloodComponent, pairs map[BloodTypeID][]ComponentID) {
	names := make(map[ComponentID]string, len(components))
	for _, c := range components {
		if _, exists := names[c.ComponentID]; !exists {
			names[c.ComponentID] = c.ComponentName
		}
	}

	for i := range bloodTypes {
		ids := pairs[bloodTypes[i].ID]
		refs := make([]ComponentRef, 0, len(ids))
		for _, id := range ids {
			refs = append(refs, ComponentRef{ComponentID: id, ComponentName: names[id]})
		}
		bloodTypes[i].Components = refs
	}
}
