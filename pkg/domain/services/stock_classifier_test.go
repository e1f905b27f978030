package services

import (
	"testing"
	"time"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

func TestClassifyStock_Boundaries(t *testing.T) {
	testCases := []struct {
		quantity entities.Milliliters
		want     entities.StockLevel
	}{
		{0, entities.StockDanger},
		{10, entities.StockDanger},
		{11, entities.StockWarning},
		{30, entities.StockWarning},
		{31, entities.StockNormal},
		{450, entities.StockNormal},
	}

	for _, tc := range testCases {
		if got := ClassifyStock(tc.quantity); got != tc.want {
			t.Errorf("ClassifyStock(%d) = %s, want %s", tc.quantity, got, tc.want)
		}
	}
}

func TestIsLowStock_UsesAggregateCutoff(t *testing.T) {
	if !IsLowStock(5) {
		t.Error("Expected 5 to count as low stock")
	}
	if IsLowStock(6) {
		t.Error("Expected 6 not to count as low stock")
	}
	// 8 is a danger badge but not part of the aggregate low-stock count
	if ClassifyStock(8) != entities.StockDanger || IsLowStock(8) {
		t.Error("Expected the badge and aggregate cutoffs to stay independent")
	}
}

func TestClassifyExpiry_DefaultShelfLifeBoundaries(t *testing.T) {
	added := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	expiry := entities.DefaultExpiryDate(added)

	testCases := []struct {
		name string
		now  time.Time
		want entities.ExpiryStatus
	}{
		{"at expiry instant", added.AddDate(0, 0, 35), entities.ExpiryExpired},
		{"after expiry", added.AddDate(0, 0, 40), entities.ExpiryExpired},
		{"seven days before", added.AddDate(0, 0, 28), entities.ExpiryExpiringSoon},
		{"eight days before", added.AddDate(0, 0, 27), entities.ExpiryValid},
		{"on intake", added, entities.ExpiryValid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyExpiry(expiry, tc.now); got != tc.want {
				t.Errorf("ClassifyExpiry = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestClassifyExpiry_SameDayIsNotTomorrow(t *testing.T) {
	expiry := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	now := time.Date(2024, 6, 1, 0, 5, 0, 0, time.UTC)

	if got := DaysUntilExpiry(expiry, now); got != 0 {
		t.Errorf("Expected 0 days until a same-day expiry, got %d", got)
	}
	if got := ClassifyExpiry(expiry, now); got != entities.ExpiryExpiringSoon {
		t.Errorf("Expected expiringSoon, got %s", got)
	}

	lateNow := time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC)
	earlyExpiry := time.Date(2024, 6, 1, 0, 1, 0, 0, time.UTC)
	if got := DaysUntilExpiry(earlyExpiry, lateNow); got != 1 {
		t.Errorf("Expected 1 day across midnight, got %d", got)
	}
}

func TestClassifyExpiry_NegativeDays(t *testing.T) {
	expiry := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 4, 12, 0, 0, 0, time.UTC)

	if got := DaysUntilExpiry(expiry, now); got != -3 {
		t.Errorf("Expected -3 days, got %d", got)
	}
	if got := ClassifyExpiry(expiry, now); got != entities.ExpiryExpired {
		t.Errorf("Expected expired, got %s", got)
	}
}

func TestClassifyExpiry_Unknown(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	if got := ClassifyExpiry(time.Time{}, now); got != entities.ExpiryUnknown {
		t.Errorf("Expected unknown for zero time, got %s", got)
	}

	for _, raw := range []string{"", "   ", "not-a-date", "31/12/2024"} {
		if got := ClassifyExpiryString(raw, now); got != entities.ExpiryUnknown {
			t.Errorf("ClassifyExpiryString(%q) = %s, want unknown", raw, got)
		}
	}
}

func TestClassifyExpiryString_Layouts(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		raw  string
		want entities.ExpiryStatus
	}{
		{"2024-06-05", entities.ExpiryExpiringSoon},
		{"2024-06-05T08:00:00", entities.ExpiryExpiringSoon},
		{"2024-07-05T08:00:00Z", entities.ExpiryValid},
		{"2024-05-30 08:00:00", entities.ExpiryExpired},
	}

	for _, tc := range testCases {
		if got := ClassifyExpiryString(tc.raw, now); got != tc.want {
			t.Errorf("ClassifyExpiryString(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}
