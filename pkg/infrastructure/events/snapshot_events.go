package events

import "time"

// SnapshotStream is the stream every snapshot lifecycle event is appended to
const SnapshotStream = "snapshot"

const (
	SnapshotLoadedEvent  = "snapshot.loaded"
	SnapshotFailedEvent  = "snapshot.failed"
	CatalogWarningsEvent = "catalog.warnings"
)

type SnapshotLoaded struct {
	SnapshotID  string        `json:"snapshot_id"`
	Source      string        `json:"source"`
	BloodTypes  int           `json:"blood_types"`
	Components  int           `json:"components"`
	Units       int           `json:"inventory_units"`
	Extractions int           `json:"extractions"`
	Elapsed     time.Duration `json:"elapsed"`
}

type SnapshotFailed struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

type CatalogWarnings struct {
	SnapshotID string   `json:"snapshot_id"`
	Warnings   []string `json:"warnings"`
}

func NewSnapshotLoadedEvent(loaded SnapshotLoaded) Event {
	return NewEvent(SnapshotLoadedEvent, SnapshotStream, loaded)
}

func NewSnapshotFailedEvent(source string, err error) Event {
	return NewEvent(SnapshotFailedEvent, SnapshotStream, SnapshotFailed{Source: source, Error: err.Error()})
}

func NewCatalogWarningsEvent(snapshotID string, warnings []string) Event {
	return NewEvent(CatalogWarningsEvent, SnapshotStream, CatalogWarnings{SnapshotID: snapshotID, Warnings: warnings})
}
