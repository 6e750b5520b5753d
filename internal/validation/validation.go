package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// DateLayout is the backend's date format for start_date/end_date.
const DateLayout = "2006-01-02"

var (
	ErrLocationEmpty        = errors.New("location is required")
	ErrLocationTooShort     = errors.New("location too short")
	ErrLocationTooLong      = errors.New("location too long")
	ErrLocationInvalidChars = errors.New("location contains invalid characters")

	ErrInvalidDate        = errors.New("invalid date")
	ErrDateRangeInverted  = errors.New("start date is after end date")
	ErrInvalidGranularity = errors.New("invalid granularity")
	ErrInvalidPeriod      = errors.New("invalid period")
	ErrOutOfRange         = errors.New("value out of range")
	ErrInvalidID          = errors.New("invalid id")
)

// Accepted values for the history granularity and analytics period parameters.
var (
	Granularities = []string{"daily", "weekly", "monthly"}
	Periods       = []string{"7d", "30d", "90d", "365d"}
)

// Bounds for numeric fetch parameters.
const (
	MinHours = 1
	MaxHours = 168
	MinDays  = 1
	MaxDays  = 16
)

// ValidateLocation trims the input, enforces length bounds (minLen, maxLen in runes),
// and restricts to letters (Unicode), digits, space, comma, hyphen.
func ValidateLocation(input string, minLen, maxLen int) (string, error) {
	s := strings.TrimSpace(input)
	r := []rune(s)
	n := len(r)
	if n == 0 {
		return "", ErrLocationEmpty
	}
	if minLen > 0 && n < minLen {
		return "", ErrLocationTooShort
	}
	if maxLen > 0 && n > maxLen {
		return "", ErrLocationTooLong
	}
	for _, c := range r {
		if !isAllowedLocationRune(c) {
			return "", ErrLocationInvalidChars
		}
	}
	return s, nil
}

func isAllowedLocationRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) {
		return true
	}
	switch r {
	case ' ', ',', '-':
		return true
	}
	return false
}

// ValidateDateRange parses start and end as YYYY-MM-DD and rejects start after end.
// Either side may be empty, leaving the backend default for that bound.
func ValidateDateRange(start, end string) error {
	var s, e time.Time
	var err error
	if start != "" {
		if s, err = time.Parse(DateLayout, start); err != nil {
			return fmt.Errorf("%w: start_date %q", ErrInvalidDate, start)
		}
	}
	if end != "" {
		if e, err = time.Parse(DateLayout, end); err != nil {
			return fmt.Errorf("%w: end_date %q", ErrInvalidDate, end)
		}
	}
	if start != "" && end != "" && s.After(e) {
		return fmt.Errorf("%w: %s > %s", ErrDateRangeInverted, start, end)
	}
	return nil
}

// ValidateGranularity accepts an empty value (backend default) or one of Granularities.
func ValidateGranularity(g string) error {
	if g == "" || contains(Granularities, g) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidGranularity, g)
}

// ValidatePeriod accepts an empty value or one of Periods.
func ValidatePeriod(p string) error {
	if p == "" || contains(Periods, p) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidPeriod, p)
}

func ValidateHours(h int) error {
	return inRange("hours", h, MinHours, MaxHours)
}

func ValidateDays(d int) error {
	return inRange("days", d, MinDays, MaxDays)
}

// ValidateMonthNumber accepts calendar month numbers 1..12.
func ValidateMonthNumber(m int) error {
	return inRange("month", m, 1, 12)
}

// ValidateID rejects non-positive backend ids.
func ValidateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return nil
}

func inRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrOutOfRange, name, lo, hi, v)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
