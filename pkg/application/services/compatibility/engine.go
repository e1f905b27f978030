// Package compatibility answers blood type/component and donor/recipient
// compatibility questions over a loaded catalog. The Engine holds no catalog
// state of its own; every operation is a function of its arguments.
package compatibility

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/truongquocminh/bloodbank/pkg/application/dto"
	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

// Mode selects the cross-product used by ComputeStats
type Mode int

const (
	// ModeComponent counts blood type x component pairs
	ModeComponent Mode = iota
	// ModeBloodType counts donor x recipient pairs
	ModeBloodType
)

// String method for Mode enum
func (m Mode) String() string {
	switch m {
	case ModeComponent:
		return "component"
	case ModeBloodType:
		return "bloodtype"
	default:
		return "unknown"
	}
}

// ParseMode parses "component" or "bloodtype"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "component":
		return ModeComponent, nil
	case "bloodtype", "blood_type", "transfusion":
		return ModeBloodType, nil
	default:
		return ModeComponent, fmt.Errorf("invalid compatibility mode: %s (expected: component or bloodtype)", s)
	}
}

// Query narrows the catalog to what is in view. Zero ids mean no filter.
type Query struct {
	SearchTerm      string
	BloodTypeFilter entities.BloodTypeID
	ComponentFilter entities.ComponentID
}

// Engine evaluates compatibility predicates and statistics
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a compatibility engine
func NewEngine(logger *zap.Logger) Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Engine{logger: logger}
}

// IsComponentCompatible reports whether the component appears in the blood type's component list.
// Identity is by component id; names are ignored.
func (e Engine) IsComponentCompatible(bloodType entities.BloodType, component entities.BloodComponent) bool {
	return bloodType.HasComponent(component.ComponentID)
}

// IsBloodTypeCompatible reports whether donor may donate to recipient. The relation is
// directional: IsBloodTypeCompatible(a, b) says nothing about IsBloodTypeCompatible(b, a).
func (e Engine) IsBloodTypeCompatible(donor, recipient entities.BloodType) bool {
	return donor.DonatesTo(recipient.ID)
}

// ComputeStats counts compatible pairs over the full cross-product selected by mode.
// Self pairs are included in blood type mode.
func (e Engine) ComputeStats(bloodTypes []entities.BloodType, components []entities.BloodComponent, mode Mode) dto.CompatibilityStats {
	stats := dto.CompatibilityStats{Mode: mode.String()}

	switch mode {
	case ModeComponent:
		stats.TotalCombinations = len(bloodTypes) * len(components)
		for _, bt := range bloodTypes {
			for _, c := range components {
				if e.IsComponentCompatible(bt, c) {
					stats.TotalCompatible++
				}
			}
		}
	case ModeBloodType:
		stats.TotalCombinations = len(bloodTypes) * len(bloodTypes)
		for _, donor := range bloodTypes {
			for _, recipient := range bloodTypes {
				if e.IsBloodTypeCompatible(donor, recipient) {
					stats.TotalCompatible++
				}
			}
		}
	}

	stats.Rate = compatibilityRate(stats.TotalCompatible, stats.TotalCombinations)

	e.logger.Debug("computed compatibility stats",
		zap.String("mode", stats.Mode),
		zap.Int("total_combinations", stats.TotalCombinations),
		zap.Int("total_compatible", stats.TotalCompatible),
		zap.Int("rate", stats.Rate),
	)

	return stats
}

// FilterByQuery returns the blood types and components in view. The search term is a
// case-insensitive substring of TypeName for types and of ComponentName for components;
// id filters match exactly. All conditions must hold.
func (e Engine) FilterByQuery(
	bloodTypes []entities.BloodType,
	components []entities.BloodComponent,
	query Query,
) ([]entities.BloodType, []entities.BloodComponent) {
	term := strings.ToLower(strings.TrimSpace(query.SearchTerm))

	filteredTypes := make([]entities.BloodType, 0, len(bloodTypes))
	for _, bt := range bloodTypes {
		if term != "" && !strings.Contains(strings.ToLower(bt.TypeName), term) {
			continue
		}
		if query.BloodTypeFilter != 0 && bt.ID != query.BloodTypeFilter {
			continue
		}
		filteredTypes = append(filteredTypes, bt)
	}

	filteredComponents := make([]entities.BloodComponent, 0, len(components))
	for _, c := range components {
		if term != "" && !strings.Contains(strings.ToLower(c.ComponentName), term) {
			continue
		}
		if query.ComponentFilter != 0 && c.ComponentID != query.ComponentFilter {
			continue
		}
		filteredComponents = append(filteredComponents, c)
	}

	return filteredTypes, filteredComponents
}

// CompatibleComponents returns the components, in catalog order, compatible with the blood type
func (e Engine) CompatibleComponents(bloodType entities.BloodType, components []entities.BloodComponent) []entities.BloodComponent {
	result := make([]entities.BloodComponent, 0)
	for _, c := range components {
		if e.IsComponentCompatible(bloodType, c) {
			result = append(result, c)
		}
	}
	return result
}

// Recipients returns the types, in catalog order, the donor may donate to.
// Ids in CanDonateTo with no matching type are skipped.
func (e Engine) Recipients(donor entities.BloodType, bloodTypes []entities.BloodType) []entities.BloodType {
	result := make([]entities.BloodType, 0)
	for _, recipient := range bloodTypes {
		if e.IsBloodTypeCompatible(donor, recipient) {
			result = append(result, recipient)
		}
	}
	return result
}

// Donors returns the types, in catalog order, whose CanDonateTo lists the recipient.
// CanReceiveFrom is not consulted.
func (e Engine) Donors(recipient entities.BloodType, bloodTypes []entities.BloodType) []entities.BloodType {
	result := make([]entities.BloodType, 0)
	for _, donor := range bloodTypes {
		if e.IsBloodTypeCompatible(donor, recipient) {
			result = append(result, donor)
		}
	}
	return result
}

func compatibilityRate(compatible, total int) int {
	if total == 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(compatible)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(0)
	return int(rate.IntPart())
}
