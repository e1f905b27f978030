package services

import (
	"strings"
	"time"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

const (
	// DangerStockThreshold is the inclusive upper bound of the danger badge
	DangerStockThreshold entities.Milliliters = 10
	// WarningStockThreshold is the inclusive upper bound of the warning badge
	WarningStockThreshold entities.Milliliters = 30
	// LowStockCountThreshold is the inclusive cutoff used by aggregate low-stock counts.
	// It differs from DangerStockThreshold; both cutoffs are kept as observed.
	LowStockCountThreshold entities.Milliliters = 5
	// ExpiringSoonDays is the inclusive window, in calendar days, of the expiring-soon badge
	ExpiringSoonDays = 7
)

var expiryLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateTime,
	time.DateOnly,
}

// ClassifyStock maps a quantity to its stock badge
func ClassifyStock(quantity entities.Milliliters) entities.StockLevel {
	switch {
	case quantity <= DangerStockThreshold:
		return entities.StockDanger
	case quantity <= WarningStockThreshold:
		return entities.StockWarning
	default:
		return entities.StockNormal
	}
}

// IsLowStock reports whether a quantity counts toward aggregate low-stock totals
func IsLowStock(quantity entities.Milliliters) bool {
	return quantity <= LowStockCountThreshold
}

// DaysUntilExpiry returns the number of calendar days between now and expiry.
// Both instants are truncated to midnight of their own calendar date first, so a
// unit expiring later today is 0 days away.
func DaysUntilExpiry(expiry, now time.Time) int {
	e := midnight(expiry)
	n := midnight(now)
	return int(e.Sub(n).Hours() / 24)
}

// ClassifyExpiry maps an expiry date to its expiry badge. A zero expiry is unknown.
// A unit is expired once now reaches the expiry instant.
func ClassifyExpiry(expiry, now time.Time) entities.ExpiryStatus {
	if expiry.IsZero() {
		return entities.ExpiryUnknown
	}
	if !now.Before(expiry) {
		return entities.ExpiryExpired
	}
	if DaysUntilExpiry(expiry, now) <= ExpiringSoonDays {
		return entities.ExpiryExpiringSoon
	}
	return entities.ExpiryValid
}

// ClassifyExpiryString parses a raw expiry date and classifies it.
// Empty or unparseable input is unknown.
func ClassifyExpiryString(raw string, now time.Time) entities.ExpiryStatus {
	expiry, ok := ParseDate(raw)
	if !ok {
		return entities.ExpiryUnknown
	}
	return ClassifyExpiry(expiry, now)
}

// ParseDate parses the date formats accepted from the backing service
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// midnight returns the calendar date of t at 00:00 UTC
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
