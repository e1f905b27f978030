package services

import (
	"testing"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

func TestValidateCatalog_CleanCatalog(t *testing.T) {
	bloodTypes := []entities.BloodType{
		{
			ID:             1,
			TypeName:       "O_NEG",
			Components:     []entities.ComponentRef{{ComponentID: 10, ComponentName: "PLASMA"}},
			CanDonateTo:    []entities.BloodTypeID{1, 2},
			CanReceiveFrom: []entities.BloodTypeID{1},
		},
		{
			ID:             2,
			TypeName:       "A_POS",
			CanDonateTo:    []entities.BloodTypeID{2},
			CanReceiveFrom: []entities.BloodTypeID{1, 2},
		},
	}
	components := []entities.BloodComponent{{ComponentID: 10, ComponentName: "PLASMA"}}

	result := ValidateCatalog(bloodTypes, components)

	if !result.Clean() {
		t.Errorf("Expected clean catalog, got warnings: %v", result.Warnings)
	}
}

func TestValidateCatalog_DanglingReferences(t *testing.T) {
	bloodTypes := []entities.BloodType{
		{
			ID:             1,
			TypeName:       "O_NEG",
			Components:     []entities.ComponentRef{{ComponentID: 42, ComponentName: "GHOST"}},
			CanDonateTo:    []entities.BloodTypeID{999},
			CanReceiveFrom: []entities.BloodTypeID{888},
		},
	}

	result := ValidateCatalog(bloodTypes, nil)

	if len(result.DanglingDonateTo) != 1 || result.DanglingDonateTo[0].Recipient != 999 {
		t.Errorf("Expected dangling donate-to 999, got %v", result.DanglingDonateTo)
	}
	if len(result.DanglingReceiveFrom) != 1 || result.DanglingReceiveFrom[0].Donor != 888 {
		t.Errorf("Expected dangling receive-from 888, got %v", result.DanglingReceiveFrom)
	}
	if len(result.DanglingComponents) != 1 || result.DanglingComponents[0].ComponentID != 42 {
		t.Errorf("Expected dangling component 42, got %v", result.DanglingComponents)
	}
	if len(result.Warnings) != 3 {
		t.Errorf("Expected 3 warnings, got %d: %v", len(result.Warnings), result.Warnings)
	}
}

func TestValidateCatalog_AdjacencyDrift(t *testing.T) {
	// 1 donates to 2 but 2 does not list 1; 2 lists 3 as a donor but 3 does not donate to 2
	bloodTypes := []entities.BloodType{
		{ID: 1, TypeName: "O_NEG", CanDonateTo: []entities.BloodTypeID{2}},
		{ID: 2, TypeName: "A_POS", CanReceiveFrom: []entities.BloodTypeID{3}},
		{ID: 3, TypeName: "B_POS"},
	}

	result := ValidateCatalog(bloodTypes, nil)

	if len(result.MissingReceiveFrom) != 1 || result.MissingReceiveFrom[0] != (TypeLink{Donor: 1, Recipient: 2}) {
		t.Errorf("Expected missing receive-from link 1->2, got %v", result.MissingReceiveFrom)
	}
	if len(result.MissingDonateTo) != 1 || result.MissingDonateTo[0] != (TypeLink{Donor: 3, Recipient: 2}) {
		t.Errorf("Expected missing donate-to link 3->2, got %v", result.MissingDonateTo)
	}
	if result.Clean() {
		t.Error("Expected drift to be reported")
	}
}

func TestValidateCatalog_DuplicateIDs(t *testing.T) {
	bloodTypes := []entities.BloodType{
		{ID: 1, TypeName: "O_NEG"},
		{ID: 1, TypeName: "O_NEG_COPY"},
	}
	components := []entities.BloodComponent{
		{ComponentID: 10, ComponentName: "PLASMA"},
		{ComponentID: 10, ComponentName: "PLASMA"},
	}

	result := ValidateCatalog(bloodTypes, components)

	if len(result.DuplicateTypeIDs) != 1 || result.DuplicateTypeIDs[0] != 1 {
		t.Errorf("Expected duplicate type id 1, got %v", result.DuplicateTypeIDs)
	}
	if len(result.DuplicateComponentIDs) != 1 || result.DuplicateComponentIDs[0] != 10 {
		t.Errorf("Expected duplicate component id 10, got %v", result.DuplicateComponentIDs)
	}
}
