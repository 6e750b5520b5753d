package advisory

import "github.com/kjstillabower/krishi-dashboard/internal/models"

// Confidence labels.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
	ConfidenceNone   = "No Data"
)

// ConfidenceLabel bands a month's data confidence. Source "none" (or no source)
// means no data regardless of the number; any other source with confidence below
// 50, zero included, is Low.
func ConfidenceLabel(confidence float64, source string) Label {
	if source == "" || source == models.SourceNone {
		return Label{Label: ConfidenceNone, Color: ColorRed}
	}
	switch {
	case confidence >= 80:
		return Label{Label: ConfidenceHigh, Color: ColorGreen}
	case confidence >= 50:
		return Label{Label: ConfidenceMedium, Color: ColorOrange}
	default:
		return Label{Label: ConfidenceLow, Color: ColorRed}
	}
}

// DataQuality is the long-form confidence description shown on a month summary.
type DataQuality struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

func MonthDataQuality(m models.NepaliMonth) DataQuality {
	l := ConfidenceLabel(m.DataConfidence, m.WeatherDataSource)
	switch l.Label {
	case ConfidenceNone:
		return DataQuality{"No Weather Data", l.Color, "No weather data available for this month"}
	case ConfidenceHigh:
		return DataQuality{"High Confidence", l.Color, "Weather data is highly reliable"}
	case ConfidenceMedium:
		return DataQuality{"Medium Confidence", l.Color, "Weather data is moderately reliable"}
	}
	return DataQuality{"Low Confidence", l.Color, "Weather data reliability is low"}
}
