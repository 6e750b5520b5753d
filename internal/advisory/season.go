package advisory

import (
	"github.com/kjstillabower/krishi-dashboard/internal/models"
)

// Season types used by months and crop seasons.
const (
	SeasonSummer  = "summer"
	SeasonMonsoon = "monsoon"
	SeasonAutumn  = "autumn"
	SeasonWinter  = "winter"
	SeasonSpring  = "spring"
)

// Recommendation priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

// Recommendation is one prioritized piece of advice.
type Recommendation struct {
	Text     string `json:"text"`
	Priority string `json:"priority"`
}

// PestManagement lists the pests and measures for a season.
type PestManagement struct {
	CommonPests       []string `json:"commonPests"`
	ControlMeasures   []string `json:"controlMeasures"`
	PreventiveActions []string `json:"preventiveActions"`
}

// MonthAdvisory is the full advisory for one month. The detail sections are nil
// when the month is missing or has no weather data.
type MonthAdvisory struct {
	Severity        string           `json:"severity"`
	Title           string           `json:"title"`
	Message         string           `json:"message"`
	Alerts          []ConditionAlert `json:"alerts,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	WaterAdvice     *WaterAdvice     `json:"waterAdvice,omitempty"`
	PestManagement  *PestManagement  `json:"pestManagement,omitempty"`
}

// BuildMonthAdvisory derives the advisory for m. A nil month or one whose weather
// source is "none" yields a short notice instead of recommendations.
func BuildMonthAdvisory(m *models.NepaliMonth) MonthAdvisory {
	if m == nil {
		return MonthAdvisory{
			Severity: SeverityInfo,
			Title:    "No Month Selected",
			Message:  "Select a month to view agricultural advisory",
		}
	}
	if m.WeatherDataSource == models.SourceNone {
		return MonthAdvisory{
			Severity: SeverityWarning,
			Title:    "Limited Data Available",
			Message:  "Weather data is not available for advisory generation",
		}
	}

	a := EvaluateAlerts(m.AvgTemperature, m.TotalRainfall, m.AvgHumidity)
	water := MonthWaterAdvice(m.TotalRainfall, m.AvgTemperature)
	pests := SeasonPests(m.SeasonType)
	return MonthAdvisory{
		Severity:        a.Severity,
		Title:           SeasonAdvisoryTitle(m.SeasonType),
		Message:         a.Message,
		Alerts:          a.Alerts,
		Recommendations: Recommendations(m.AvgTemperature, m.TotalRainfall, m.SeasonType),
		WaterAdvice:     &water,
		PestManagement:  &pests,
	}
}

func SeasonAdvisoryTitle(seasonType string) string {
	switch seasonType {
	case SeasonSummer:
		return "Summer Crop Management"
	case SeasonMonsoon:
		return "Monsoon Season Preparation"
	case SeasonAutumn:
		return "Autumn Harvest Planning"
	case SeasonWinter:
		return "Winter Crop Protection"
	case SeasonSpring:
		return "Spring Planting Guidance"
	}
	return "Agricultural Advisory"
}

var seasonRecommendations = map[string][]Recommendation{
	SeasonSummer: {
		{"Start summer vegetable planting", PriorityMedium},
		{"Implement pest control measures", PriorityHigh},
	},
	SeasonMonsoon: {
		{"Prepare for paddy transplantation", PriorityHigh},
		{"Ensure proper drainage systems", PriorityHigh},
	},
	SeasonAutumn: {
		{"Harvest summer crops", PriorityMedium},
		{"Prepare land for winter crops", PriorityMedium},
	},
	SeasonWinter: {
		{"Protect crops from frost", PriorityHigh},
		{"Plant winter vegetables", PriorityMedium},
	},
	SeasonSpring: {
		{"Start fruit tree maintenance", PriorityMedium},
		{"Begin spring planting", PriorityHigh},
	},
}

// Recommendations lists temperature advice, then rainfall advice, then the
// season's fixed pair.
func Recommendations(temp, rainfall float64, seasonType string) []Recommendation {
	var recs []Recommendation
	if temp > 30 {
		recs = append(recs, Recommendation{"Focus on heat-tolerant crops like maize, millet, and cotton", PriorityHigh})
	}
	if temp >= 20 && temp <= 30 {
		recs = append(recs, Recommendation{"Ideal conditions for vegetables and most field crops", PriorityMedium})
	}
	if temp < 15 {
		recs = append(recs, Recommendation{"Suitable for cool-season crops like wheat, barley, and potatoes", PriorityHigh})
	}
	if rainfall > 200 {
		recs = append(recs, Recommendation{"Good for paddy cultivation and water-intensive crops", PriorityMedium})
	}
	if rainfall < 100 {
		recs = append(recs, Recommendation{"Consider drought-resistant crops and efficient irrigation", PriorityHigh})
	}
	return append(recs, seasonRecommendations[seasonType]...)
}

var (
	seasonPests = map[string][]string{
		SeasonSummer:  {"Aphids", "Whiteflies", "Mites", "Cutworms"},
		SeasonMonsoon: {"Rice stem borers", "Leaf folders", "Brown plant hoppers", "Blight"},
		SeasonAutumn:  {"Pod borers", "Stem borers", "Thrips", "Rust"},
		SeasonWinter:  {"Aphids", "Cabbage worms", "Mildew", "Rodents"},
		SeasonSpring:  {"Caterpillars", "Beetles", "Mites", "Leaf miners"},
	}
	seasonControls = map[string][]string{
		SeasonSummer: {
			"Use yellow sticky traps",
			"Apply neem-based insecticides",
			"Introduce beneficial insects",
			"Maintain field sanitation",
		},
		SeasonMonsoon: {
			"Ensure proper drainage",
			"Use resistant varieties",
			"Apply preventive fungicides",
			"Monitor field regularly",
		},
		SeasonWinter: {
			"Use row covers",
			"Apply horticultural oils",
			"Practice crop rotation",
			"Maintain clean cultivation",
		},
	}
	defaultControls = []string{
		"Regular monitoring",
		"Integrated pest management",
		"Use of resistant varieties",
		"Proper field sanitation",
	}
)

func SeasonPests(seasonType string) PestManagement {
	pests, ok := seasonPests[seasonType]
	if !ok {
		pests = []string{"Varies by crop and region"}
	}
	controls, ok := seasonControls[seasonType]
	if !ok {
		controls = defaultControls
	}
	return PestManagement{
		CommonPests:     append([]string(nil), pests...),
		ControlMeasures: append([]string(nil), controls...),
		PreventiveActions: []string{
			"Crop rotation",
			"Companion planting",
			"Soil health management",
			"Timely harvesting",
		},
	}
}
