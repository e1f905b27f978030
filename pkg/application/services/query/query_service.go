// Package query is the read surface consumers use against a loaded snapshot.
package query

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/truongquocminh/bloodbank/pkg/application/dto"
	"github.com/truongquocminh/bloodbank/pkg/application/services/compatibility"
	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
	"github.com/truongquocminh/bloodbank/pkg/domain/repositories"
	"github.com/truongquocminh/bloodbank/pkg/domain/services"
)

// UnknownName is displayed when an inventory unit references an id missing from the catalog
const UnknownName = "Unknown"

// QueryService answers compatibility and stock questions over the repositories.
// Lookup misses yield empty results; reading before a snapshot is loaded yields
// repositories.ErrNotLoaded.
type QueryService struct {
	catalog   repositories.CatalogRepository
	inventory repositories.InventoryRepository
	engine    compatibility.Engine
	logger    *zap.Logger
}

// NewQueryService creates a query service. inventory may be nil when only
// catalog queries are needed.
func NewQueryService(
	catalog repositories.CatalogRepository,
	inventory repositories.InventoryRepository,
	logger *zap.Logger,
) *QueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{
		catalog:   catalog,
		inventory: inventory,
		engine:    compatibility.NewEngine(logger),
		logger:    logger,
	}
}

// Engine returns the compatibility engine used by the service
func (s *QueryService) Engine() compatibility.Engine {
	return s.engine
}

// ListCompatibleComponents returns the components compatible with a blood type
func (s *QueryService) ListCompatibleComponents(ctx context.Context, bloodTypeID entities.BloodTypeID) ([]entities.BloodComponent, error) {
	components, err := s.catalog.Components()
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	bloodType, found := s.catalog.FindBloodType(bloodTypeID)
	if !found {
		s.logger.Debug("blood type not in catalog", zap.Int64("blood_type_id", int64(bloodTypeID)))
		return []entities.BloodComponent{}, nil
	}
	return s.engine.CompatibleComponents(*bloodType, components), nil
}

// ListCompatibleRecipients returns the types a donor type may donate to
func (s *QueryService) ListCompatibleRecipients(ctx context.Context, donorTypeID entities.BloodTypeID) ([]entities.BloodType, error) {
	bloodTypes, err := s.catalog.BloodTypes()
	if err != nil {
		return nil, fmt.Errorf("list blood types: %w", err)
	}
	donor, found := s.catalog.FindBloodType(donorTypeID)
	if !found {
		s.logger.Debug("donor type not in catalog", zap.Int64("blood_type_id", int64(donorTypeID)))
		return []entities.BloodType{}, nil
	}
	return s.engine.Recipients(*donor, bloodTypes), nil
}

// ListCompatibleDonors returns the types that may donate to a recipient type, derived
// from every type's CanDonateTo list
func (s *QueryService) ListCompatibleDonors(ctx context.Context, recipientTypeID entities.BloodTypeID) ([]entities.BloodType, error) {
	bloodTypes, err := s.catalog.BloodTypes()
	if err != nil {
		return nil, fmt.Errorf("list blood types: %w", err)
	}
	recipient, found := s.catalog.FindBloodType(recipientTypeID)
	if !found {
		s.logger.Debug("recipient type not in catalog", zap.Int64("blood_type_id", int64(recipientTypeID)))
		return []entities.BloodType{}, nil
	}
	return s.engine.Donors(*recipient, bloodTypes), nil
}

// ClassifyStock maps a quantity to its stock badge
func (s *QueryService) ClassifyStock(quantity entities.Milliliters) entities.StockLevel {
	return services.ClassifyStock(quantity)
}

// ClassifyExpiry maps an expiry date to its expiry badge
func (s *QueryService) ClassifyExpiry(expiry, now time.Time) entities.ExpiryStatus {
	return services.ClassifyExpiry(expiry, now)
}

// InView applies the query to the catalog
func (s *QueryService) InView(ctx context.Context, q compatibility.Query) ([]entities.BloodType, []entities.BloodComponent, error) {
	bloodTypes, err := s.catalog.BloodTypes()
	if err != nil {
		return nil, nil, fmt.Errorf("list blood types: %w", err)
	}
	components, err := s.catalog.Components()
	if err != nil {
		return nil, nil, fmt.Errorf("list components: %w", err)
	}
	types, comps := s.engine.FilterByQuery(bloodTypes, components, q)
	return types, comps, nil
}

// Stats computes compatibility statistics over the catalog subset in view
func (s *QueryService) Stats(ctx context.Context, q compatibility.Query, mode compatibility.Mode) (dto.CompatibilityStats, error) {
	types, comps, err := s.InView(ctx, q)
	if err != nil {
		return dto.CompatibilityStats{}, err
	}
	return s.engine.ComputeStats(types, comps, mode), nil
}

// ComponentMatrix renders the type x component matrix for the subset in view
func (s *QueryService) ComponentMatrix(ctx context.Context, q compatibility.Query) (dto.Matrix, error) {
	types, comps, err := s.InView(ctx, q)
	if err != nil {
		return dto.Matrix{}, err
	}
	return s.engine.ComponentMatrix(types, comps), nil
}

// TransfusionMatrix renders the donor x recipient matrix for the subset in view
func (s *QueryService) TransfusionMatrix(ctx context.Context, q compatibility.Query) (dto.Matrix, error) {
	types, _, err := s.InView(ctx, q)
	if err != nil {
		return dto.Matrix{}, err
	}
	return s.engine.TransfusionMatrix(types), nil
}

// InventorySummary classifies every unit and aggregates the stats card totals.
// The low-stock count uses services.LowStockCountThreshold, not the danger badge cutoff.
func (s *QueryService) InventorySummary(ctx context.Context, now time.Time) (*dto.InventorySummary, error) {
	if s.inventory == nil {
		return nil, fmt.Errorf("inventory repository not configured")
	}
	units, err := s.inventory.Units()
	if err != nil {
		return nil, fmt.Errorf("list inventory units: %w", err)
	}
	records, err := s.inventory.Extractions()
	if err != nil {
		return nil, fmt.Errorf("list extraction records: %w", err)
	}

	summary := &dto.InventorySummary{
		GeneratedAt: now,
		TotalUnits:  len(units),
		ByBloodType: make([]dto.BloodTypeTotal, 0),
		Units:       make([]dto.UnitStatus, 0, len(units)),
	}

	totals := make(map[entities.BloodTypeID]*dto.BloodTypeTotal)
	for _, unit := range units {
		status := s.classifyUnit(unit, now)
		summary.Units = append(summary.Units, status)

		summary.TotalQuantity += unit.Quantity
		if unit.Depleted() {
			summary.DepletedUnits++
		}
		if services.IsLowStock(unit.Quantity) {
			summary.LowStockCount++
		}

		switch status.StockLevel {
		case entities.StockDanger:
			summary.Stock.Danger++
		case entities.StockWarning:
			summary.Stock.Warning++
		default:
			summary.Stock.Normal++
		}

		switch status.ExpiryStatus {
		case entities.ExpiryExpired:
			summary.Expiry.Expired++
		case entities.ExpiryExpiringSoon:
			summary.Expiry.ExpiringSoon++
		case entities.ExpiryValid:
			summary.Expiry.Valid++
		default:
			summary.Expiry.Unknown++
		}

		total, exists := totals[unit.BloodTypeID]
		if !exists {
			total = &dto.BloodTypeTotal{BloodTypeID: unit.BloodTypeID, BloodTypeName: status.BloodTypeName}
			totals[unit.BloodTypeID] = total
		}
		total.Units++
		total.Quantity += unit.Quantity
	}

	for _, total := range totals {
		summary.ByBloodType = append(summary.ByBloodType, *total)
	}
	sort.Slice(summary.ByBloodType, func(i, j int) bool {
		return summary.ByBloodType[i].BloodTypeID < summary.ByBloodType[j].BloodTypeID
	})

	summary.Extractions = len(records)
	for _, record := range records {
		summary.ExtractedVolume += record.TotalVolume()
	}
	summary.ExtractedLiters = decimal.NewFromInt(int64(summary.ExtractedVolume)).Div(decimal.NewFromInt(1000))

	s.logger.Debug("computed inventory summary",
		zap.Int("units", summary.TotalUnits),
		zap.Int("low_stock", summary.LowStockCount),
		zap.Int("expired", summary.Expiry.Expired),
		zap.Int("expiring_soon", summary.Expiry.ExpiringSoon),
	)

	return summary, nil
}

func (s *QueryService) classifyUnit(unit entities.InventoryUnit, now time.Time) dto.UnitStatus {
	status := dto.UnitStatus{
		Unit:          unit,
		BloodTypeName: UnknownName,
		ComponentName: UnknownName,
		StockLevel:    services.ClassifyStock(unit.Quantity),
		ExpiryStatus:  services.ClassifyExpiry(unit.ExpiryDate, now),
	}
	if bt, found := s.catalog.FindBloodType(unit.BloodTypeID); found {
		status.BloodTypeName = bt.TypeName
	}
	if c, found := s.catalog.FindComponent(unit.BloodComponentID); found {
		status.ComponentName = c.ComponentName
	}
	if !unit.ExpiryDate.IsZero() {
		days := services.DaysUntilExpiry(unit.ExpiryDate, now)
		status.DaysUntilExpiry = &days
	}
	return status
}
