// Package codec converts between the comma-separated id lists used by the
// backing service and the typed id slices used by the domain.
package codec

import (
	"strconv"
	"strings"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

// ParseBloodTypeIDs parses a list such as "2, 3 ,4". Tokens are trimmed, and empty
// or non-numeric tokens are skipped. Repeated ids are kept once, in first-seen order.
func ParseBloodTypeIDs(raw string) []entities.BloodTypeID {
	ids := make([]entities.BloodTypeID, 0)
	if strings.TrimSpace(raw) == "" {
		return ids
	}

	seen := make(map[entities.BloodTypeID]bool)
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		value, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			continue
		}
		id := entities.BloodTypeID(value)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// FormatBloodTypeIDs renders ids in the service representation, e.g. "1,2,3"
func FormatBloodTypeIDs(ids []entities.BloodTypeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(int64(id), 10)
	}
	return strings.Join(parts, ",")
}
