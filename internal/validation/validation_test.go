package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateLocation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"empty", "", "", ErrLocationEmpty},
		{"whitespace", " \t ", "", ErrLocationEmpty},
		{"too short", "x", "", ErrLocationTooShort},
		{"too long", strings.Repeat("a", 101), "", ErrLocationTooLong},
		{"slash", "Morang/Nepal", "", ErrLocationInvalidChars},
		{"percent", "Morang%", "", ErrLocationInvalidChars},
		{"default location", "Morang, Nepal", "Morang, Nepal", nil},
		{"trimmed", "  Kathmandu  ", "Kathmandu", nil},
		{"devanagari", "मोरङ", "मोरङ", nil},
		{"hyphen and digits", "Ward-12", "Ward-12", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateLocation(tc.input, 2, 100)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateLocation() err = %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantErr    error
	}{
		{"both empty", "", "", nil},
		{"start only", "2024-01-01", "", nil},
		{"valid range", "2024-01-01", "2024-01-31", nil},
		{"same day", "2024-03-05", "2024-03-05", nil},
		{"inverted", "2024-02-01", "2024-01-01", ErrDateRangeInverted},
		{"bad start", "01/01/2024", "2024-01-31", ErrInvalidDate},
		{"bad end", "2024-01-01", "2024-13-01", ErrInvalidDate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDateRange(tc.start, tc.end)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateGranularityAndPeriod(t *testing.T) {
	for _, g := range append([]string{""}, Granularities...) {
		if err := ValidateGranularity(g); err != nil {
			t.Errorf("ValidateGranularity(%q) = %v", g, err)
		}
	}
	if err := ValidateGranularity("hourly"); !errors.Is(err, ErrInvalidGranularity) {
		t.Errorf("ValidateGranularity(hourly) = %v, want ErrInvalidGranularity", err)
	}
	for _, p := range append([]string{""}, Periods...) {
		if err := ValidatePeriod(p); err != nil {
			t.Errorf("ValidatePeriod(%q) = %v", p, err)
		}
	}
	if err := ValidatePeriod("1y"); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("ValidatePeriod(1y) = %v, want ErrInvalidPeriod", err)
	}
}

func TestNumericBounds(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(int) error
		value   int
		wantErr bool
	}{
		{"hours 24", ValidateHours, 24, false},
		{"hours 168", ValidateHours, 168, false},
		{"hours 0", ValidateHours, 0, true},
		{"hours 169", ValidateHours, 169, true},
		{"days 7", ValidateDays, 7, false},
		{"days 17", ValidateDays, 17, true},
		{"month 1", ValidateMonthNumber, 1, false},
		{"month 12", ValidateMonthNumber, 12, false},
		{"month 13", ValidateMonthNumber, 13, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fn(tc.value)
			if tc.wantErr && !errors.Is(err, ErrOutOfRange) {
				t.Errorf("error = %v, want ErrOutOfRange", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID(1); err != nil {
		t.Errorf("ValidateID(1) = %v", err)
	}
	for _, id := range []int64{0, -4} {
		if err := ValidateID(id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("ValidateID(%d) = %v, want ErrInvalidID", id, err)
		}
	}
}
