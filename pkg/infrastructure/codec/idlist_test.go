package codec

import (
	"reflect"
	"testing"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

func TestParseBloodTypeIDs(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want []entities.BloodTypeID
	}{
		{"plain", "2,3,4", []entities.BloodTypeID{2, 3, 4}},
		{"stray whitespace", "2, 3 ,4", []entities.BloodTypeID{2, 3, 4}},
		{"empty", "", []entities.BloodTypeID{}},
		{"blank", "   ", []entities.BloodTypeID{}},
		{"malformed tokens skipped", "1,abc,,3x, 5", []entities.BloodTypeID{1, 5}},
		{"duplicates collapsed", "1,1, 2,1", []entities.BloodTypeID{1, 2}},
		{"trailing comma", "7,", []entities.BloodTypeID{7}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseBloodTypeIDs(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseBloodTypeIDs(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestFormatBloodTypeIDs(t *testing.T) {
	if got := FormatBloodTypeIDs([]entities.BloodTypeID{1, 2, 3}); got != "1,2,3" {
		t.Errorf("Expected \"1,2,3\", got %q", got)
	}
	if got := FormatBloodTypeIDs(nil); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
	if got := FormatBloodTypeIDs(ParseBloodTypeIDs(" 4 , 9")); got != "4,9" {
		t.Errorf("Expected \"4,9\", got %q", got)
	}
}
