package csv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
	"github.com/truongquocminh/bloodbank/pkg/domain/repositories"
)

// File names expected in a snapshot directory
const (
	BloodTypesFile     = "blood_types.csv"
	ComponentsFile     = "blood_components.csv"
	TypeComponentsFile = "blood_type_components.csv"
	InventoryFile      = "inventory.csv"
	ExtractionsFile    = "extractions.csv"
)

// DirSource reads a snapshot from a directory of CSV files. Only the blood type
// and component files are required.
type DirSource struct {
	dir    string
	loader *Loader
}

// NewDirSource creates a snapshot source over dir
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir, loader: NewLoader()}
}

// Verify interface compliance
var _ repositories.SnapshotSource = (*DirSource)(nil)

// Name identifies the source in logs and events
func (s *DirSource) Name() string {
	return "csv:" + s.dir
}

// Fetch loads every file of the directory into a snapshot
func (s *DirSource) Fetch(ctx context.Context) (*entities.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bloodTypes, err := s.loader.LoadBloodTypes(s.path(BloodTypesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load blood types: %w", err)
	}
	components, err := s.loader.LoadComponents(s.path(ComponentsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load components: %w", err)
	}

	snapshot := &entities.Snapshot{
		BloodTypes:  bloodTypes,
		Components:  components,
		Units:       []entities.InventoryUnit{},
		Extractions: []entities.ExtractionRecord{},
	}

	if s.exists(TypeComponentsFile) {
		pairs, err := s.loader.LoadTypeComponents(s.path(TypeComponentsFile))
		if err != nil {
			return nil, fmt.Errorf("failed to load blood type components: %w", err)
		}
		entities.DeriveComponentRefs(snapshot.BloodTypes, snapshot.Components, pairs)
	}

	if s.exists(InventoryFile) {
		if snapshot.Units, err = s.loader.LoadInventory(s.path(InventoryFile)); err != nil {
			return nil, fmt.Errorf("failed to load inventory: %w", err)
		}
	}

	if s.exists(ExtractionsFile) {
		if snapshot.Extractions, err = s.loader.LoadExtractions(s.path(ExtractionsFile)); err != nil {
			return nil, fmt.Errorf("failed to load extractions: %w", err)
		}
	}

	return snapshot, nil
}

func (s *DirSource) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *DirSource) exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return !errors.Is(err, fs.ErrNotExist)
}
