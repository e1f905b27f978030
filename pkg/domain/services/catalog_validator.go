package services

import (
	"fmt"
	"sort"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

// TypeLink is a directed donor -> recipient pair
type TypeLink struct {
	Donor     entities.BloodTypeID
	Recipient entities.BloodTypeID
}

// ComponentLink is a blood type -> component reference
type ComponentLink struct {
	BloodTypeID entities.BloodTypeID
	ComponentID entities.ComponentID
}

// CatalogValidationResult contains the findings of a catalog scan.
// Findings are warnings: the engine skips dangling references at query time.
type CatalogValidationResult struct {
	DanglingDonateTo      []TypeLink
	DanglingReceiveFrom   []TypeLink
	DanglingComponents    []ComponentLink
	DuplicateTypeIDs      []entities.BloodTypeID
	DuplicateComponentIDs []entities.ComponentID
	// MissingReceiveFrom lists donor -> recipient links where the recipient does not list the donor
	MissingReceiveFrom []TypeLink
	// MissingDonateTo lists links present only on the recipient side
	MissingDonateTo []TypeLink
	Warnings        []string
}

// Clean reports whether the scan found nothing
func (r *CatalogValidationResult) Clean() bool {
	return len(r.Warnings) == 0
}

// ValidateCatalog scans a catalog snapshot for dangling ids, duplicate ids and drift
// between CanDonateTo and CanReceiveFrom.
func ValidateCatalog(bloodTypes []entities.BloodType, components []entities.BloodComponent) *CatalogValidationResult {
	result := &CatalogValidationResult{
		DanglingDonateTo:      make([]TypeLink, 0),
		DanglingReceiveFrom:   make([]TypeLink, 0),
		DanglingComponents:    make([]ComponentLink, 0),
		DuplicateTypeIDs:      make([]entities.BloodTypeID, 0),
		DuplicateComponentIDs: make([]entities.ComponentID, 0),
		MissingReceiveFrom:    make([]TypeLink, 0),
		MissingDonateTo:       make([]TypeLink, 0),
		Warnings:              make([]string, 0),
	}

	typesByID := make(map[entities.BloodTypeID]*entities.BloodType, len(bloodTypes))
	for i := range bloodTypes {
		bt := &bloodTypes[i]
		if _, exists := typesByID[bt.ID]; exists {
			result.DuplicateTypeIDs = append(result.DuplicateTypeIDs, bt.ID)
			continue
		}
		typesByID[bt.ID] = bt
	}

	componentIDs := make(map[entities.ComponentID]bool, len(components))
	for _, c := range components {
		if componentIDs[c.ComponentID] {
			result.DuplicateComponentIDs = append(result.DuplicateComponentIDs, c.ComponentID)
			continue
		}
		componentIDs[c.ComponentID] = true
	}

	for _, bt := range orderedTypes(typesByID) {
		for _, target := range bt.CanDonateTo {
			recipient, exists := typesByID[target]
			if !exists {
				result.DanglingDonateTo = append(result.DanglingDonateTo, TypeLink{Donor: bt.ID, Recipient: target})
				continue
			}
			if !recipient.ReceivesFrom(bt.ID) {
				result.MissingReceiveFrom = append(result.MissingReceiveFrom, TypeLink{Donor: bt.ID, Recipient: target})
			}
		}

		for _, source := range bt.CanReceiveFrom {
			donor, exists := typesByID[source]
			if !exists {
				result.DanglingReceiveFrom = append(result.DanglingReceiveFrom, TypeLink{Donor: source, Recipient: bt.ID})
				continue
			}
			if !donor.DonatesTo(bt.ID) {
				result.MissingDonateTo = append(result.MissingDonateTo, TypeLink{Donor: source, Recipient: bt.ID})
			}
		}

		for _, ref := range bt.Components {
			if !componentIDs[ref.ComponentID] {
				result.DanglingComponents = append(result.DanglingComponents, ComponentLink{BloodTypeID: bt.ID, ComponentID: ref.ComponentID})
			}
		}
	}

	if len(result.DuplicateTypeIDs) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Duplicate blood type ids: %v", result.DuplicateTypeIDs))
	}
	if len(result.DuplicateComponentIDs) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Duplicate component ids: %v", result.DuplicateComponentIDs))
	}
	for _, link := range result.DanglingDonateTo {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Blood type %d donates to unknown type %d", link.Donor, link.Recipient))
	}
	for _, link := range result.DanglingReceiveFrom {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Blood type %d receives from unknown type %d", link.Recipient, link.Donor))
	}
	for _, link := range result.DanglingComponents {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Blood type %d references unknown component %d", link.BloodTypeID, link.ComponentID))
	}
	if len(result.MissingReceiveFrom) > 0 || len(result.MissingDonateTo) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"canDonateTo/canReceiveFrom out of sync: %d links missing on recipient side, %d on donor side",
			len(result.MissingReceiveFrom), len(result.MissingDonateTo)))
	}

	return result
}

// orderedTypes returns the unique types sorted by id so findings are deterministic
func orderedTypes(typesByID map[entities.BloodTypeID]*entities.BloodType) []*entities.BloodType {
	ordered := make([]*entities.BloodType, 0, len(typesByID))
	for _, bt := range typesByID {
		ordered = append(ordered, bt)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}
