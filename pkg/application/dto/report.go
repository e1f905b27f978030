package dto

import (
	"time"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

// QuerySummary echoes the filters a report was generated with
type QuerySummary struct {
	SearchTerm      string               `json:"searchTerm,omitempty"`
	BloodTypeFilter entities.BloodTypeID `json:"bloodTypeFilter,omitempty"`
	ComponentFilter entities.ComponentID `json:"componentFilter,omitempty"`
}

// BloodTypeLookup lists everything compatible with a single blood type
type BloodTypeLookup struct {
	BloodType  entities.BloodType        `json:"bloodType"`
	Components []entities.BloodComponent `json:"components"`
	Recipients []entities.BloodType      `json:"recipients"`
	Donors     []entities.BloodType      `json:"donors"`
}

// Report bundles the sections requested on the command line. Nil sections were not requested.
type Report struct {
	SnapshotID        string            `json:"snapshotId"`
	Source            string            `json:"source"`
	GeneratedAt       time.Time         `json:"generatedAt"`
	Query             QuerySummary      `json:"query"`
	Warnings          []string          `json:"warnings,omitempty"`
	Lookup            *BloodTypeLookup  `json:"lookup,omitempty"`
	ComponentMatrix   *Matrix           `json:"componentMatrix,omitempty"`
	TransfusionMatrix *Matrix           `json:"transfusionMatrix,omitempty"`
	Inventory         *InventorySummary `json:"inventory,omitempty"`
}
