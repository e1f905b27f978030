package testing

import (
	"time"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
	"github.com/truongquocminh/bloodbank/pkg/infrastructure/repositories/memory"
)

// Component ids of the ABO test catalog
const (
	WholeBlood entities.ComponentID = 1
	RedCells   entities.ComponentID = 2
	Plasma     entities.ComponentID = 3
	Platelets  entities.ComponentID = 4
)

// Blood type ids of the ABO test catalog
const (
	ONeg  entities.BloodTypeID = 1
	OPos  entities.BloodTypeID = 2
	ANeg  entities.BloodTypeID = 3
	APos  entities.BloodTypeID = 4
	BNeg  entities.BloodTypeID = 5
	BPos  entities.BloodTypeID = 6
	ABNeg entities.BloodTypeID = 7
	ABPos entities.BloodTypeID = 8
)

// BuildABOComponents returns the four components of the test catalog
func BuildABOComponents() []entities.BloodComponent {
	return []entities.BloodComponent{
		{ComponentID: WholeBlood, ComponentName: "WHOLE_BLOOD"},
		{ComponentID: RedCells, ComponentName: "RED_CELLS"},
		{ComponentID: Plasma, ComponentName: "PLASMA"},
		{ComponentID: Platelets, ComponentName: "PLATELETS"},
	}
}

// BuildABOCatalog builds the eight ABO/Rh types with red cell donation rules.
// 27 of 64 donor/recipient pairs and 28 of 32 type/component pairs are compatible.
// CanReceiveFrom is the exact inverse of CanDonateTo.
func BuildABOCatalog() ([]entities.BloodType, []entities.BloodComponent) {
	components := BuildABOComponents()
	byID := make(map[entities.ComponentID]entities.BloodComponent, len(components))
	for _, c := range components {
		byID[c.ComponentID] = c
	}
	refs := func(ids ...entities.ComponentID) []entities.ComponentRef {
		result := make([]entities.ComponentRef, len(ids))
		for i, id := range ids {
			result[i] = byID[id].Ref()
		}
		return result
	}

	bloodTypes := []entities.BloodType{
		{ID: ONeg, TypeName: "O_NEG", Components: refs(WholeBlood, RedCells, Plasma, Platelets), CanDonateTo: []entities.BloodTypeID{ONeg, OPos, ANeg, APos, BNeg, BPos, ABNeg, ABPos}},
		{ID: OPos, TypeName: "O_POS", Components: refs(WholeBlood, RedCells, Plasma), CanDonateTo: []entities.BloodTypeID{OPos, APos, BPos, ABPos}},
		{ID: ANeg, TypeName: "A_NEG", Components: refs(WholeBlood, RedCells, Plasma), CanDonateTo: []entities.BloodTypeID{ANeg, APos, ABNeg, ABPos}},
		{ID: APos, TypeName: "A_POS", Components: refs(WholeBlood, RedCells, Plasma, Platelets), CanDonateTo: []entities.BloodTypeID{APos, ABPos}},
		{ID: BNeg, TypeName: "B_NEG", Components: refs(WholeBlood, RedCells, Plasma), CanDonateTo: []entities.BloodTypeID{BNeg, BPos, ABNeg, ABPos}},
		{ID: BPos, TypeName: "B_POS", Components: refs(WholeBlood, RedCells, Plasma, Platelets), CanDonateTo: []entities.BloodTypeID{BPos, ABPos}},
		{ID: ABNeg, TypeName: "AB_NEG", Components: refs(WholeBlood, RedCells, Plasma), CanDonateTo: []entities.BloodTypeID{ABNeg, ABPos}},
		{ID: ABPos, TypeName: "AB_POS", Components: refs(WholeBlood, RedCells, Plasma, Platelets), CanDonateTo: []entities.BloodTypeID{ABPos}},
	}

	for i := range bloodTypes {
		for _, donor := range bloodTypes {
			if donor.DonatesTo(bloodTypes[i].ID) {
				bloodTypes[i].CanReceiveFrom = append(bloodTypes[i].CanReceiveFrom, donor.ID)
			}
		}
	}

	return bloodTypes, components
}

// BuildInventoryUnits builds one unit per stock and expiry bucket relative to now:
// danger/expired, warning/expiring soon, normal/valid, low-stock/valid and a depleted unit.
func BuildInventoryUnits(now time.Time) []entities.InventoryUnit {
	return []entities.InventoryUnit{
		{ID: 1, BloodTypeID: ONeg, BloodComponentID: RedCells, Quantity: 8, AddedDate: now.AddDate(0, 0, -40), ExpiryDate: now.AddDate(0, 0, -5)},
		{ID: 2, BloodTypeID: APos, BloodComponentID: Plasma, Quantity: 25, AddedDate: now.AddDate(0, 0, -30), ExpiryDate: now.AddDate(0, 0, 5)},
		{ID: 3, BloodTypeID: APos, BloodComponentID: WholeBlood, Quantity: 450, AddedDate: now.AddDate(0, 0, -1), ExpiryDate: now.AddDate(0, 0, 34)},
		{ID: 4, BloodTypeID: BPos, BloodComponentID: Platelets, Quantity: 4, AddedDate: now.AddDate(0, 0, -2), ExpiryDate: now.AddDate(0, 0, 33)},
		{ID: 5, BloodTypeID: ABPos, BloodComponentID: Plasma, Quantity: 0, AddedDate: now.AddDate(0, 0, -3), ExpiryDate: now.AddDate(0, 0, 32)},
	}
}

// BuildExtractions builds two extraction records drawing 300ml and 150ml
func BuildExtractions(now time.Time) []entities.ExtractionRecord {
	return []entities.ExtractionRecord{
		{ID: 1, ExtractedAt: now.AddDate(0, 0, -1), Units: []entities.ExtractedUnit{{InventoryUnitID: 3, Volume: 200}, {InventoryUnitID: 2, Volume: 100}}},
		{ID: 2, ExtractedAt: now, Units: []entities.ExtractedUnit{{InventoryUnitID: 3, Volume: 150}}},
	}
}

// BuildRepositories loads the ABO catalog and inventory into fresh memory repositories
func BuildRepositories(now time.Time) (*memory.CatalogRepository, *memory.InventoryRepository) {
	catalogRepo := memory.NewCatalogRepository()
	inventoryRepo := memory.NewInventoryRepository()

	bloodTypes, components := BuildABOCatalog()
	if err := catalogRepo.Load(bloodTypes, components); err != nil {
		panic(err)
	}
	if err := inventoryRepo.LoadUnits(BuildInventoryUnits(now)); err != nil {
		panic(err)
	}
	if err := inventoryRepo.LoadExtractions(BuildExtractions(now)); err != nil {
		panic(err)
	}

	return catalogRepo, inventoryRepo
}
