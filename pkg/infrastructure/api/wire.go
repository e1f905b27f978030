package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
	"github.com/truongquocminh/bloodbank/pkg/domain/services"
	"github.com/truongquocminh/bloodbank/pkg/infrastructure/codec"
)

// page is the list envelope used by the backing service
type page struct {
	Content    json.RawMessage `json:"content"`
	TotalPages int             `json:"totalPages"`
	Number     int             `json:"number"`
}

// decodePage accepts either the paginated envelope or a bare JSON array. A bare
// array is treated as the only page.
func decodePage[T any](body []byte) ([]T, int, error) {
	trimmed := bytes.TrimSpace(body)
	items := make([]T, 0)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, fmt.Errorf("failed to decode list: %w", err)
		}
		return items, 1, nil
	}

	var envelope page
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, 0, fmt.Errorf("failed to decode page envelope: %w", err)
	}
	if len(envelope.Content) > 0 && string(envelope.Content) != "null" {
		if err := json.Unmarshal(envelope.Content, &items); err != nil {
			return nil, 0, fmt.Errorf("failed to decode page content: %w", err)
		}
	}
	return items, envelope.TotalPages, nil
}

type componentRefDTO struct {
	ComponentID   int64  `json:"componentId"`
	ComponentName string `json:"componentName"`
}

type bloodTypeDTO struct {
	ID             int64             `json:"id"`
	TypeName       string            `json:"typeName"`
	Components     []componentRefDTO `json:"components"`
	CanDonateTo    string            `json:"canDonateTo"`
	CanReceiveFrom string            `json:"canReceiveFrom"`
}

func (d bloodTypeDTO) toEntity() entities.BloodType {
	refs := make([]entities.ComponentRef, len(d.Components))
	for i, c := range d.Components {
		refs[i] = entities.ComponentRef{ComponentID: entities.ComponentID(c.ComponentID), ComponentName: c.ComponentName}
	}
	return entities.BloodType{
		ID:             entities.BloodTypeID(d.ID),
		TypeName:       d.TypeName,
		Components:     refs,
		CanDonateTo:    codec.ParseBloodTypeIDs(d.CanDonateTo),
		CanReceiveFrom: codec.ParseBloodTypeIDs(d.CanReceiveFrom),
	}
}

type componentDTO struct {
	ComponentID   int64  `json:"componentId"`
	ComponentName string `json:"componentName"`
}

func (d componentDTO) toEntity() entities.BloodComponent {
	return entities.BloodComponent{ComponentID: entities.ComponentID(d.ComponentID), ComponentName: d.ComponentName}
}

type inventoryUnitDTO struct {
	ID               int64  `json:"id"`
	BloodTypeID      int64  `json:"bloodTypeId"`
	BloodComponentID int64  `json:"bloodComponentId"`
	Quantity         int64  `json:"quantity"`
	AddedDate        string `json:"addedDate"`
	ExpiryDate       string `json:"expiryDate"`
}

// toEntity never fails: an unparseable expiry date stays zero and classifies as
// unknown, and a missing one falls back to the default shelf life.
func (d inventoryUnitDTO) toEntity() entities.InventoryUnit {
	added, _ := services.ParseDate(d.AddedDate)
	expiry, ok := services.ParseDate(d.ExpiryDate)
	if !ok && d.ExpiryDate == "" && !added.IsZero() {
		expiry = entities.DefaultExpiryDate(added)
	}
	return entities.InventoryUnit{
		ID:               entities.InventoryUnitID(d.ID),
		BloodTypeID:      entities.BloodTypeID(d.BloodTypeID),
		BloodComponentID: entities.ComponentID(d.BloodComponentID),
		Quantity:         entities.Milliliters(d.Quantity),
		AddedDate:        added,
		ExpiryDate:       expiry,
	}
}

type extractedUnitDTO struct {
	InventoryUnitID int64 `json:"inventoryUnitId"`
	Volume          int64 `json:"volume"`
}

type extractionDTO struct {
	ID          int64              `json:"id"`
	ExtractedAt string             `json:"extractedAt"`
	Units       []extractedUnitDTO `json:"units"`
}

func (d extractionDTO) toEntity() entities.ExtractionRecord {
	extractedAt, _ := services.ParseDate(d.ExtractedAt)
	units := make([]entities.ExtractedUnit, len(d.Units))
	for i, u := range d.Units {
		units[i] = entities.ExtractedUnit{InventoryUnitID: entities.InventoryUnitID(u.InventoryUnitID), Volume: entities.Milliliters(u.Volume)}
	}
	return entities.ExtractionRecord{ID: entities.ExtractionID(d.ID), ExtractedAt: extractedAt, Units: units}
}
