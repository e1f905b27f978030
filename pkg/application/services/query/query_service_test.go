package query

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/truongquocminh/bloodbank/pkg/application/services/compatibility"
	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
	"github.com/truongquocminh/bloodbank/pkg/domain/repositories"
	"github.com/truongquocminh/bloodbank/pkg/infrastructure/codec"
	"github.com/truongquocminh/bloodbank/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/truongquocminh/bloodbank/pkg/infrastructure/testing"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestService() *QueryService {
	catalogRepo, inventoryRepo := testhelpers.BuildRepositories(fixedNow)
	return NewQueryService(catalogRepo, inventoryRepo, nil)
}

func ids(types []entities.BloodType) []entities.BloodTypeID {
	result := make([]entities.BloodTypeID, len(types))
	for i, bt := range types {
		result[i] = bt.ID
	}
	return result
}

func TestQueryService_ListCompatibleComponents(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	components, err := svc.ListCompatibleComponents(ctx, testhelpers.APos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(components) != 4 {
		t.Errorf("Expected 4 components for A_POS, got %d", len(components))
	}

	missing, err := svc.ListCompatibleComponents(ctx, 999)
	if err != nil {
		t.Fatalf("Expected lookup miss without error, got %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("Expected no components for unknown type, got %v", missing)
	}
}

func TestQueryService_RecipientsAndDonors(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	recipients, err := svc.ListCompatibleRecipients(ctx, testhelpers.ONeg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(recipients) != 8 {
		t.Errorf("Expected O_NEG to donate to all 8 types, got %d", len(recipients))
	}

	donors, err := svc.ListCompatibleDonors(ctx, testhelpers.ONeg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ids(donors), []entities.BloodTypeID{testhelpers.ONeg}) {
		t.Errorf("Expected only O_NEG to donate to O_NEG, got %v", ids(donors))
	}

	donors, err = svc.ListCompatibleDonors(ctx, testhelpers.ABPos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(donors) != 8 {
		t.Errorf("Expected every type to donate to AB_POS, got %d", len(donors))
	}
}

func TestQueryService_DanglingRecipientIsExcluded(t *testing.T) {
	catalogRepo := memory.NewCatalogRepository()
	bloodTypes := []entities.BloodType{
		{ID: 1, TypeName: "O_NEG", CanDonateTo: codec.ParseBloodTypeIDs("999")},
		{ID: 2, TypeName: "A_POS", CanDonateTo: codec.ParseBloodTypeIDs("2, 999 ,x")},
	}
	if err := catalogRepo.Load(bloodTypes, nil); err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	svc := NewQueryService(catalogRepo, nil, nil)

	recipients, err := svc.ListCompatibleRecipients(context.Background(), 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(recipients) != 0 {
		t.Errorf("Expected no recipients, got %v", ids(recipients))
	}

	recipients, err = svc.ListCompatibleRecipients(context.Background(), 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ids(recipients), []entities.BloodTypeID{2}) {
		t.Errorf("Expected only A_POS, got %v", ids(recipients))
	}
}

func TestQueryService_ReadBeforeLoad(t *testing.T) {
	svc := NewQueryService(memory.NewCatalogRepository(), memory.NewInventoryRepository(), nil)
	ctx := context.Background()

	if _, err := svc.ListCompatibleRecipients(ctx, 1); !errors.Is(err, repositories.ErrNotLoaded) {
		t.Errorf("Expected ErrNotLoaded, got %v", err)
	}
	if _, err := svc.Stats(ctx, compatibility.Query{}, compatibility.ModeComponent); !errors.Is(err, repositories.ErrNotLoaded) {
		t.Errorf("Expected ErrNotLoaded from Stats, got %v", err)
	}
	if _, err := svc.InventorySummary(ctx, fixedNow); !errors.Is(err, repositories.ErrNotLoaded) {
		t.Errorf("Expected ErrNotLoaded from InventorySummary, got %v", err)
	}
}

func TestQueryService_ReloadIsDeterministic(t *testing.T) {
	catalogRepo := memory.NewCatalogRepository()
	svc := NewQueryService(catalogRepo, nil, nil)
	ctx := context.Background()

	type observation struct {
		recipients []entities.BloodTypeID
		donors     []entities.BloodTypeID
		rate       int
	}
	observe := func() observation {
		recipients, err := svc.ListCompatibleRecipients(ctx, testhelpers.ANeg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		donors, err := svc.ListCompatibleDonors(ctx, testhelpers.ABNeg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		stats, err := svc.Stats(ctx, compatibility.Query{}, compatibility.ModeBloodType)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		return observation{ids(recipients), ids(donors), stats.Rate}
	}

	bloodTypes, components := testhelpers.BuildABOCatalog()
	if err := catalogRepo.Load(bloodTypes, components); err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	first := observe()

	bloodTypes, components = testhelpers.BuildABOCatalog()
	if err := catalogRepo.Load(bloodTypes, components); err != nil {
		t.Fatalf("Failed to reload catalog: %v", err)
	}
	second := observe()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results after reload, got %+v and %+v", first, second)
	}
}

func TestQueryService_StatsUseFilteredView(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	q := compatibility.Query{SearchTerm: "pos"}

	stats, err := svc.Stats(ctx, q, compatibility.ModeBloodType)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	matrix, err := svc.TransfusionMatrix(ctx, q)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// O_POS->{O,A,B,AB}_POS, A_POS->{A,AB}_POS, B_POS->{B,AB}_POS, AB_POS->AB_POS
	if stats.TotalCombinations != 16 || stats.TotalCompatible != 9 {
		t.Errorf("Expected 9 of 16, got %+v", stats)
	}
	if matrix.Stats != stats {
		t.Errorf("Expected matrix stats %+v to match %+v", matrix.Stats, stats)
	}
}

func TestQueryService_InventorySummary(t *testing.T) {
	svc := newTestService()

	summary, err := svc.InventorySummary(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if summary.TotalUnits != 5 {
		t.Errorf("Expected 5 units, got %d", summary.TotalUnits)
	}
	if summary.TotalQuantity != 487 {
		t.Errorf("Expected 487ml, got %d", summary.TotalQuantity)
	}
	if summary.Stock.Danger != 3 || summary.Stock.Warning != 1 || summary.Stock.Normal != 1 {
		t.Errorf("Unexpected stock counts: %+v", summary.Stock)
	}
	// 8ml is a danger badge but above the aggregate cutoff
	if summary.LowStockCount != 2 {
		t.Errorf("Expected 2 low-stock units, got %d", summary.LowStockCount)
	}
	if summary.DepletedUnits != 1 {
		t.Errorf("Expected 1 depleted unit, got %d", summary.DepletedUnits)
	}
	if summary.Expiry.Expired != 1 || summary.Expiry.ExpiringSoon != 1 || summary.Expiry.Valid != 3 || summary.Expiry.Unknown != 0 {
		t.Errorf("Unexpected expiry counts: %+v", summary.Expiry)
	}
	if len(summary.ByBloodType) != 4 || summary.ByBloodType[1].BloodTypeName != "A_POS" || summary.ByBloodType[1].Quantity != 475 {
		t.Errorf("Unexpected blood type totals: %+v", summary.ByBloodType)
	}
	if summary.Extractions != 2 || summary.ExtractedVolume != 450 {
		t.Errorf("Expected 2 extractions of 450ml, got %d of %d", summary.Extractions, summary.ExtractedVolume)
	}
	if !summary.ExtractedLiters.Equal(decimal.RequireFromString("0.45")) {
		t.Errorf("Expected 0.45 litres, got %s", summary.ExtractedLiters)
	}
}

func TestQueryService_InventorySummary_UnknownReferences(t *testing.T) {
	catalogRepo := memory.NewCatalogRepository()
	if err := catalogRepo.Load(nil, nil); err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	inventoryRepo := memory.NewInventoryRepository()
	units := []entities.InventoryUnit{{ID: 1, BloodTypeID: 42, BloodComponentID: 7, Quantity: 100}}
	if err := inventoryRepo.LoadUnits(units); err != nil {
		t.Fatalf("Failed to load units: %v", err)
	}
	svc := NewQueryService(catalogRepo, inventoryRepo, nil)

	summary, err := svc.InventorySummary(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	row := summary.Units[0]
	if row.BloodTypeName != UnknownName || row.ComponentName != UnknownName {
		t.Errorf("Expected unknown names, got %q/%q", row.BloodTypeName, row.ComponentName)
	}
	if row.ExpiryStatus != entities.ExpiryUnknown || row.DaysUntilExpiry != nil {
		t.Errorf("Expected unknown expiry without days, got %s", row.ExpiryStatus)
	}
	if summary.Expiry.Unknown != 1 {
		t.Errorf("Expected 1 unknown expiry, got %d", summary.Expiry.Unknown)
	}
}

func TestQueryService_Classifiers(t *testing.T) {
	svc := newTestService()

	if svc.ClassifyStock(11) != entities.StockWarning {
		t.Error("Expected 11 to classify as warning")
	}
	if svc.ClassifyExpiry(fixedNow, fixedNow) != entities.ExpiryExpired {
		t.Error("Expected expiry at now to classify as expired")
	}
}
