package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
	"github.com/truongquocminh/bloodbank/pkg/domain/services"
	"github.com/truongquocminh/bloodbank/pkg/infrastructure/codec"
)

// Loader handles loading catalog and inventory data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadBloodTypes loads blood types from a CSV file. Components are left empty and
// are derived from the join table.
func (l *Loader) LoadBloodTypes(filename string) ([]entities.BloodType, error) {
	expectedHeader := []string{"id", "type_name", "can_donate_to", "can_receive_from"}
	records, err := readRecords(filename, "blood types", expectedHeader)
	if err != nil {
		return nil, err
	}

	bloodTypes := make([]entities.BloodType, 0, len(records))
	for i, record := range records {
		id, err := parseID(record[0], "id")
		if err != nil {
			return nil, fmt.Errorf("blood types CSV row %d: %w", i+2, err)
		}

		bloodTypes = append(bloodTypes, entities.BloodType{
			ID:             entities.BloodTypeID(id),
			TypeName:       strings.TrimSpace(record[1]),
			Components:     []entities.ComponentRef{},
			CanDonateTo:    codec.ParseBloodTypeIDs(record[2]),
			CanReceiveFrom: codec.ParseBloodTypeIDs(record[3]),
		})
	}

	return bloodTypes, nil
}

// LoadComponents loads the component catalog from a CSV file
func (l *Loader) LoadComponents(filename string) ([]entities.BloodComponent, error) {
	expectedHeader := []string{"component_id", "component_name"}
	records, err := readRecords(filename, "components", expectedHeader)
	if err != nil {
		return nil, err
	}

	components := make([]entities.BloodComponent, 0, len(records))
	for i, record := range records {
		id, err := parseID(record[0], "component_id")
		if err != nil {
			return nil, fmt.Errorf("components CSV row %d: %w", i+2, err)
		}

		components = append(components, entities.BloodComponent{
			ComponentID:   entities.ComponentID(id),
			ComponentName: strings.TrimSpace(record[1]),
		})
	}

	return components, nil
}

// LoadTypeComponents loads the blood type -> component join table. Repeated pairs
// are kept once.
func (l *Loader) LoadTypeComponents(filename string) (map[entities.BloodTypeID][]entities.ComponentID, error) {
	expectedHeader := []string{"type_id", "component_id"}
	records, err := readRecords(filename, "blood type components", expectedHeader)
	if err != nil {
		return nil, err
	}

	pairs := make(map[entities.BloodTypeID][]entities.ComponentID)
	seen := make(map[services.ComponentLink]bool)
	for i, record := range records {
		typeID, err := parseID(record[0], "type_id")
		if err != nil {
			return nil, fmt.Errorf("blood type components CSV row %d: %w", i+2, err)
		}
		componentID, err := parseID(record[1], "component_id")
		if err != nil {
			return nil, fmt.Errorf("blood type components CSV row %d: %w", i+2, err)
		}

		key := services.ComponentLink{BloodTypeID: entities.BloodTypeID(typeID), ComponentID: entities.ComponentID(componentID)}
		if seen[key] {
			continue
		}
		seen[key] = true
		pairs[key.BloodTypeID] = append(pairs[key.BloodTypeID], key.ComponentID)
	}

	return pairs, nil
}

// LoadInventory loads inventory units from a CSV file. An empty expiry_date defaults
// to the standard shelf life from added_date.
func (l *Loader) LoadInventory(filename string) ([]entities.InventoryUnit, error) {
	expectedHeader := []string{"id", "blood_type_id", "blood_component_id", "quantity", "added_date", "expiry_date"}
	records, err := readRecords(filename, "inventory", expectedHeader)
	if err != nil {
		return nil, err
	}

	units := make([]entities.InventoryUnit, 0, len(records))
	for i, record := range records {
		unit, err := parseInventoryUnit(record)
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}
		units = append(units, *unit)
	}

	return units, nil
}

// LoadExtractions loads extraction records from a CSV file with one row per drawn
// unit. Rows sharing an extraction_id are grouped in first-seen order.
func (l *Loader) LoadExtractions(filename string) ([]entities.ExtractionRecord, error) {
	expectedHeader := []string{"extraction_id", "inventory_unit_id", "volume", "extracted_at"}
	records, err := readRecords(filename, "extractions", expectedHeader)
	if err != nil {
		return nil, err
	}

	var extractions []entities.ExtractionRecord
	positions := make(map[entities.ExtractionID]int)
	for i, record := range records {
		extractionID, err := parseID(record[0], "extraction_id")
		if err != nil {
			return nil, fmt.Errorf("extractions CSV row %d: %w", i+2, err)
		}
		unitID, err := parseID(record[1], "inventory_unit_id")
		if err != nil {
			return nil, fmt.Errorf("extractions CSV row %d: %w", i+2, err)
		}
		volume, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
		if err != nil || volume < 0 {
			return nil, fmt.Errorf("extractions CSV row %d: invalid volume: %s", i+2, record[2])
		}

		id := entities.ExtractionID(extractionID)
		position, exists := positions[id]
		if !exists {
			extractedAt, ok := services.ParseDate(record[3])
			if !ok && strings.TrimSpace(record[3]) != "" {
				return nil, fmt.Errorf("extractions CSV row %d: invalid extracted_at format: %s", i+2, record[3])
			}
			extractions = append(extractions, entities.ExtractionRecord{ID: id, ExtractedAt: extractedAt})
			position = len(extractions) - 1
			positions[id] = position
		}

		extractions[position].Units = append(extractions[position].Units, entities.ExtractedUnit{
			InventoryUnitID: entities.InventoryUnitID(unitID),
			Volume:          entities.Milliliters(volume),
		})
	}

	if extractions == nil {
		extractions = []entities.ExtractionRecord{}
	}
	return extractions, nil
}

// Helper functions for parsing CSV records

// readRecords returns the data rows of a CSV file after checking its header and
// column counts. A header-only file yields no rows.
func readRecords(filename, name string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", name, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", name, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", name)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", name, expectedHeader, header)
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", name, i+2, len(expectedHeader), len(record))
		}
	}

	return rows, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		// Excel writes a BOM in front of the first column
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(actual[i], "\ufeff"))) != col {
			return false
		}
	}

	return true
}

func parseID(raw, column string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, raw)
	}
	return id, nil
}

func parseInventoryUnit(record []string) (*entities.InventoryUnit, error) {
	id, err := parseID(record[0], "id")
	if err != nil {
		return nil, err
	}
	bloodTypeID, err := parseID(record[1], "blood_type_id")
	if err != nil {
		return nil, err
	}
	componentID, err := parseID(record[2], "blood_component_id")
	if err != nil {
		return nil, err
	}

	quantity, err := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %s", record[3])
	}

	addedDate, ok := services.ParseDate(record[4])
	if !ok {
		return nil, fmt.Errorf("invalid added_date format: %s (expected YYYY-MM-DD or RFC3339)", record[4])
	}

	// an empty expiry_date is left zero and defaulted by NewInventoryUnit
	var expiryDate time.Time
	if strings.TrimSpace(record[5]) != "" {
		if expiryDate, ok = services.ParseDate(record[5]); !ok {
			return nil, fmt.Errorf("invalid expiry_date format: %s (expected YYYY-MM-DD or RFC3339)", record[5])
		}
	}

	return entities.NewInventoryUnit(
		entities.InventoryUnitID(id),
		entities.BloodTypeID(bloodTypeID),
		entities.ComponentID(componentID),
		entities.Milliliters(quantity),
		addedDate,
		expiryDate,
	)
}
