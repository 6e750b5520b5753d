package advisory

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/kjstillabower/krishi-dashboard/internal/models"
)

// Alert list filter values other than alert types.
const (
	AlertFilterAll      = "all"
	AlertFilterActive   = "active"
	AlertFilterInactive = "inactive"
)

var severityRank = map[string]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
}

// SeverityColor maps an alert severity to its colour.
func SeverityColor(severity string) string {
	switch severity {
	case SeverityLow:
		return ColorGreen
	case SeverityMedium:
		return ColorOrange
	case SeverityHigh:
		return ColorRed
	case SeverityCritical:
		return ColorPurple
	}
	return ColorGrey
}

// AlertTypeColor maps a backend alert type to its colour.
func AlertTypeColor(alertType string) string {
	switch alertType {
	case "frost":
		return ColorSkyBlue
	case "heat":
		return ColorCoral
	case "rain":
		return ColorBlue
	case "wind":
		return ColorTeal
	case "drought":
		return ColorOrange
	case "irrigation":
		return ColorPurple
	}
	return ColorGrey
}

// FilterAlerts keeps all, active or inactive alerts, or those whose alert_type
// or severity equals filter.
func FilterAlerts(alerts []models.Alert, filter string) []models.Alert {
	out := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		switch filter {
		case "", AlertFilterAll:
		case AlertFilterActive:
			if !a.IsActive {
				continue
			}
		case AlertFilterInactive:
			if a.IsActive {
				continue
			}
		default:
			if a.AlertType != filter && a.Severity != filter {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// SortAlerts returns a copy ordered by severity (critical first), then by start
// time with the most recent first. Unknown severities rank below low.
func SortAlerts(alerts []models.Alert) []models.Alert {
	out := slices.Clone(alerts)
	slices.SortStableFunc(out, func(a, b models.Alert) int {
		if d := severityRank[b.Severity] - severityRank[a.Severity]; d != 0 {
			return d
		}
		return parseTime(b.StartTime).Compare(parseTime(a.StartTime))
	})
	return out
}

type AlertStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

func SummarizeAlerts(alerts []models.Alert) AlertStats {
	st := AlertStats{Total: len(alerts)}
	for _, a := range alerts {
		if a.IsActive {
			st.Active++
		}
		switch a.Severity {
		case SeverityCritical:
			st.Critical++
		case SeverityHigh:
			st.High++
		case SeverityMedium:
			st.Medium++
		case SeverityLow:
			st.Low++
		}
	}
	return st
}

// FormatDuration renders end-start in the largest whole unit: minutes under an
// hour, hours under a day, days otherwise. Values are rounded half away from zero.
func FormatDuration(start, end time.Time) string {
	d := end.Sub(start)
	hours := math.Round(d.Hours())
	switch {
	case hours < 1:
		return fmt.Sprintf("%d minutes", int64(math.Round(d.Minutes())))
	case hours < 24:
		return fmt.Sprintf("%d hours", int64(hours))
	}
	return fmt.Sprintf("%d days", int64(math.Round(hours/24)))
}

var alertTypeRecommendations = map[string][]string{
	"frost": {
		"Cover sensitive plants with frost cloth",
		"Water plants before frost to insulate roots",
		"Move potted plants indoors",
		"Apply mulch to protect plant roots",
	},
	"heat": {
		"Water plants deeply in the morning",
		"Provide shade for sensitive plants",
		"Mulch to retain soil moisture",
		"Avoid fertilizing during heat stress",
	},
	"rain": {
		"Ensure proper drainage in garden beds",
		"Harvest ripe produce before heavy rain",
		"Check for soil erosion",
		"Cover young plants if rain is too heavy",
	},
	"wind": {
		"Stake tall plants and young trees",
		"Secure greenhouse covers and shade cloth",
		"Harvest ripe fruits before wind damage",
		"Check irrigation systems for damage",
	},
	"drought": {
		"Implement drip irrigation system",
		"Mulch heavily to retain moisture",
		"Water early morning or late evening",
		"Consider drought-resistant crops",
	},
	"irrigation": {
		"Check soil moisture levels regularly",
		"Adjust irrigation schedule as needed",
		"Monitor plant health indicators",
		"Consider rainwater harvesting",
	},
}

// AlertRecommendations returns the advice list for an alert type.
func AlertRecommendations(alertType string) []string {
	if recs, ok := alertTypeRecommendations[alertType]; ok {
		return slices.Clone(recs)
	}
	return []string{
		"Monitor weather conditions",
		"Check local advisories",
		"Take necessary precautions",
	}
}

// parseTime accepts RFC 3339 timestamps and bare dates. Unparseable values sort
// as the zero time.
func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
