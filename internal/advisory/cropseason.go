package advisory

import (
	"cmp"
	"slices"
	"strings"

	"github.com/kjstillabower/krishi-dashboard/internal/models"
)

const monthsPerYear = 12

// SeasonProgress returns how far current is through the inclusive month window
// [start, end] as a percentage in [0,100]. A window with start > end wraps
// through the new year. Months outside the window, or unknown months (< 1),
// yield 0.
func SeasonProgress(start, end, current int) float64 {
	if start < 1 || end < 1 || current < 1 {
		return 0
	}
	var total, elapsed int
	switch {
	case current >= start && current <= end:
		total = end - start + 1
		elapsed = current - start + 1
	case start > end && (current >= start || current <= end):
		total = monthsPerYear - start + 1 + end
		if current >= start {
			elapsed = current - start + 1
		} else {
			elapsed = monthsPerYear - start + 1 + current
		}
	default:
		return 0
	}
	return min(100, max(0, float64(elapsed)/float64(total)*100))
}

// CropSeasonProgress is SeasonProgress for a crop season and the current month.
// Missing month references yield 0.
func CropSeasonProgress(s models.CropSeason, current *models.NepaliMonth) float64 {
	if current == nil || s.StartMonth == nil || s.EndMonth == nil {
		return 0
	}
	return SeasonProgress(s.StartMonth.MonthNumber, s.EndMonth.MonthNumber, current.MonthNumber)
}

// InSeason reports whether current falls inside the inclusive window, wrapping
// when start > end.
func InSeason(start, end, current int) bool {
	if start <= end {
		return current >= start && current <= end
	}
	return current >= start || current <= end
}

// WaterRequirementStatus bands a season's water requirement in mm.
func WaterRequirementStatus(mm float64) Label {
	switch {
	case mm > 400:
		return Label{"Very High", ColorBlue}
	case mm > 300:
		return Label{"High", ColorSkyBlue}
	case mm > 200:
		return Label{"Medium", ColorGreen}
	case mm > 100:
		return Label{"Low", ColorOrange}
	}
	return Label{"Very Low", ColorCoral}
}

// YieldPotential bands the midpoint of the expected yield range (t/ha).
func YieldPotential(minYield, maxYield float64) Label {
	avg := (minYield + maxYield) / 2
	switch {
	case avg > 5:
		return Label{"Excellent", ColorGreen}
	case avg > 3:
		return Label{"Good", ColorLightGreen}
	case avg > 2:
		return Label{"Average", ColorOrange}
	case avg > 1:
		return Label{"Below Average", ColorDeepOrange}
	}
	return Label{"Poor", ColorRed}
}

// CropProfile is the static temperature range and water need for a crop family.
type CropProfile struct {
	TempRange string `json:"tempRange"`
	WaterNeed string `json:"waterNeed"`
}

var cropProfiles = map[string]CropProfile{
	"Rice":       {"20-35°C", "High"},
	"Maize":      {"18-32°C", "Medium"},
	"Wheat":      {"12-25°C", "Medium"},
	"Vegetables": {"15-30°C", "High"},
	"Fruits":     {"10-28°C", "Medium"},
}

func CropInfo(crop string) CropProfile {
	if p, ok := cropProfiles[crop]; ok {
		return p
	}
	return CropProfile{"15-30°C", "Medium"}
}

// CropSeasonFilter selects crop seasons. Empty or "all" fields match everything.
// HasWeather takes "yes" or "no".
type CropSeasonFilter struct {
	Search     string
	SeasonType string
	Crop       string
	Region     string
	HasWeather string
}

// FilterCropSeasons returns the seasons matching f in their original order.
func FilterCropSeasons(seasons []models.CropSeason, f CropSeasonFilter) []models.CropSeason {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.CropSeason, 0, len(seasons))
	for _, s := range seasons {
		if term != "" && !containsFold(term, s.Name, s.NepaliName, s.Description) && !anyContainsFold(term, s.PrimaryCrops) {
			continue
		}
		if active(f.SeasonType) && s.SeasonType != f.SeasonType {
			continue
		}
		if active(f.Crop) && !slices.Contains(s.PrimaryCrops, f.Crop) && !slices.Contains(s.SecondaryCrops, f.Crop) {
			continue
		}
		// Seasons without a region list are not excluded by a region filter.
		if active(f.Region) && s.SuitableRegions != nil && !slices.Contains(s.SuitableRegions, f.Region) {
			continue
		}
		if !matchYesNo(f.HasWeather, s.WeatherAutoFilled) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Crop season sort keys.
const (
	SortStartMonth       = "start_month"
	SortName             = "name"
	SortDuration         = "duration"
	SortWaterRequirement = "water_requirement"
	SortExpectedYield    = "expected_yield"
)

// SortCropSeasons returns a sorted copy. Unknown keys keep the input order.
func SortCropSeasons(seasons []models.CropSeason, by string, desc bool) []models.CropSeason {
	out := slices.Clone(seasons)
	var compare func(a, b models.CropSeason) int
	switch by {
	case SortStartMonth:
		compare = func(a, b models.CropSeason) int { return cmp.Compare(monthNumber(a.StartMonth), monthNumber(b.StartMonth)) }
	case SortName:
		compare = func(a, b models.CropSeason) int { return strings.Compare(a.Name, b.Name) }
	case SortDuration:
		compare = func(a, b models.CropSeason) int { return cmp.Compare(a.DurationDays, b.DurationDays) }
	case SortWaterRequirement:
		compare = func(a, b models.CropSeason) int { return cmp.Compare(a.WaterRequirementMM, b.WaterRequirementMM) }
	case SortExpectedYield:
		compare = func(a, b models.CropSeason) int {
			return cmp.Compare(a.ExpectedYieldMin+a.ExpectedYieldMax, b.ExpectedYieldMin+b.ExpectedYieldMax)
		}
	default:
		return out
	}
	slices.SortStableFunc(out, directed(compare, desc))
	return out
}

// CropSeasonStats summarizes a crop season list against the current month.
type CropSeasonStats struct {
	Total       int `json:"total"`
	WithWeather int `json:"withWeather"`
	Current     int `json:"current"`
}

func SummarizeCropSeasons(seasons []models.CropSeason, current *models.NepaliMonth) CropSeasonStats {
	st := CropSeasonStats{Total: len(seasons)}
	for _, s := range seasons {
		if s.WeatherAutoFilled {
			st.WithWeather++
		}
		if current != nil && s.StartMonth != nil && s.EndMonth != nil &&
			InSeason(s.StartMonth.MonthNumber, s.EndMonth.MonthNumber, current.MonthNumber) {
			st.Current++
		}
	}
	return st
}

func monthNumber(r *models.MonthRef) int {
	if r == nil {
		return 0
	}
	return r.MonthNumber
}

func directed[T any](compare func(a, b T) int, desc bool) func(a, b T) int {
	if !desc {
		return compare
	}
	return func(a, b T) int { return compare(b, a) }
}

func active(filter string) bool {
	return filter != "" && filter != "all"
}

func matchYesNo(filter string, v bool) bool {
	switch filter {
	case "yes":
		return v
	case "no":
		return !v
	}
	return true
}

func containsFold(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func anyContainsFold(term string, items []string) bool {
	return containsFold(term, items...)
}
