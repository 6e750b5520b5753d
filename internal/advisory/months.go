package advisory

import (
	"cmp"
	"slices"
	"strings"

	"github.com/kjstillabower/krishi-dashboard/internal/models"
)

// Month confidence filter values.
const (
	ConfidenceFilterHigh   = "high"
	ConfidenceFilterMedium = "medium"
	ConfidenceFilterLow    = "low"
	ConfidenceFilterNone   = "none"
)

// MonthFilter selects months. Empty or "all" fields match everything.
type MonthFilter struct {
	Search         string
	Season         string
	HasWeatherData string
	Confidence     string
}

func FilterMonths(months []models.NepaliMonth, f MonthFilter) []models.NepaliMonth {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.NepaliMonth, 0, len(months))
	for _, m := range months {
		if term != "" && !containsFold(term, m.NepaliName, m.EnglishName, m.AgriculturalActivities) {
			continue
		}
		if active(f.Season) && m.SeasonType != f.Season {
			continue
		}
		if !matchYesNo(f.HasWeatherData, m.WeatherDataSource != models.SourceNone) {
			continue
		}
		if !matchConfidence(f.Confidence, m.DataConfidence) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchConfidence(filter string, c float64) bool {
	switch filter {
	case ConfidenceFilterHigh:
		return c >= 80
	case ConfidenceFilterMedium:
		return c >= 50 && c < 80
	case ConfidenceFilterLow:
		return c < 50
	case ConfidenceFilterNone:
		return c <= 0
	}
	return true
}

// Month sort keys.
const (
	SortMonthNumber    = "month_number"
	SortEnglishName    = "english_name"
	SortAvgTemperature = "avg_temperature"
	SortDataConfidence = "data_confidence"
)

// SortMonths returns a sorted copy. Unknown keys keep the input order.
func SortMonths(months []models.NepaliMonth, by string, desc bool) []models.NepaliMonth {
	out := slices.Clone(months)
	var compare func(a, b models.NepaliMonth) int
	switch by {
	case SortMonthNumber:
		compare = func(a, b models.NepaliMonth) int { return cmp.Compare(a.MonthNumber, b.MonthNumber) }
	case SortEnglishName:
		compare = func(a, b models.NepaliMonth) int { return strings.Compare(a.EnglishName, b.EnglishName) }
	case SortAvgTemperature:
		compare = func(a, b models.NepaliMonth) int { return cmp.Compare(a.AvgTemperature, b.AvgTemperature) }
	case SortDataConfidence:
		compare = func(a, b models.NepaliMonth) int { return cmp.Compare(a.DataConfidence, b.DataConfidence) }
	default:
		return out
	}
	slices.SortStableFunc(out, directed(compare, desc))
	return out
}

type MonthStats struct {
	Total           int `json:"total"`
	WithWeatherData int `json:"withWeatherData"`
	HighConfidence  int `json:"highConfidence"`
	NeedsData       int `json:"needsData"`
}

func SummarizeMonths(months []models.NepaliMonth) MonthStats {
	st := MonthStats{Total: len(months)}
	for _, m := range months {
		if m.WeatherDataSource == models.SourceNone {
			st.NeedsData++
		} else {
			st.WithWeatherData++
		}
		if m.DataConfidence >= 80 {
			st.HighConfidence++
		}
	}
	return st
}
