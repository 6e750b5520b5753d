package advisory

import "fmt"

// Condition alert types raised from monthly averages.
const (
	AlertHeatStress   = "heat_stress"
	AlertFrost        = "frost"
	AlertHeavyRain    = "heavy_rain"
	AlertDrought      = "drought"
	AlertHighHumidity = "high_humidity"
)

// Severities used by condition alerts and the overall assessment.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// ConditionAlert is one triggered threshold on a month's averages.
type ConditionAlert struct {
	Type            string   `json:"type"`
	Severity        string   `json:"severity"`
	Title           string   `json:"title"`
	Message         string   `json:"message"`
	Recommendations []string `json:"recommendations"`
}

// Assessment is the set of triggered alerts plus the overall severity and message.
type Assessment struct {
	Severity string           `json:"severity"`
	Message  string           `json:"message"`
	Alerts   []ConditionAlert `json:"alerts"`
}

var (
	heatStressAlert = ConditionAlert{
		Type:     AlertHeatStress,
		Severity: SeverityHigh,
		Title:    "Heat Stress Alert",
		Message:  "High temperatures may stress crops. Increase irrigation frequency and consider shade management.",
		Recommendations: []string{
			"Water crops early morning or late evening",
			"Use mulch to retain soil moisture",
			"Consider temporary shade structures",
			"Monitor for pest outbreaks",
		},
	}
	frostAlert = ConditionAlert{
		Type:     AlertFrost,
		Severity: SeverityMedium,
		Title:    "Frost Risk",
		Message:  "Low temperatures may damage sensitive crops. Take protective measures.",
		Recommendations: []string{
			"Cover sensitive plants overnight",
			"Use frost blankets or row covers",
			"Water soil before frost (helps retain heat)",
			"Avoid fertilizing during cold periods",
		},
	}
	heavyRainAlert = ConditionAlert{
		Type:     AlertHeavyRain,
		Severity: SeverityHigh,
		Title:    "Heavy Rainfall Expected",
		Message:  "Excessive rainfall may cause waterlogging and nutrient leaching.",
		Recommendations: []string{
			"Ensure proper drainage in fields",
			"Delay fertilizer application",
			"Monitor for fungal diseases",
			"Consider rainwater harvesting",
		},
	}
	droughtAlert = ConditionAlert{
		Type:     AlertDrought,
		Severity: SeverityHigh,
		Title:    "Drought Conditions",
		Message:  "Low rainfall with high temperatures increases water stress.",
		Recommendations: []string{
			"Implement drip irrigation",
			"Use drought-resistant crop varieties",
			"Reduce planting density",
			"Apply water-retaining polymers",
		},
	}
	highHumidityAlert = ConditionAlert{
		Type:     AlertHighHumidity,
		Severity: SeverityMedium,
		Title:    "High Humidity Alert",
		Message:  "High humidity increases risk of fungal diseases.",
		Recommendations: []string{
			"Ensure proper spacing for air circulation",
			"Apply preventive fungicides",
			"Water at soil level, not foliage",
			"Monitor for mildew and rust",
		},
	}
)

// EvaluateAlerts checks each threshold independently; several alerts may fire for
// the same month. The returned alerts never share slices with package state.
func EvaluateAlerts(temp, rainfall, humidity float64) Assessment {
	var alerts []ConditionAlert
	add := func(a ConditionAlert) {
		a.Recommendations = append([]string(nil), a.Recommendations...)
		alerts = append(alerts, a)
	}
	if temp > 35 {
		add(heatStressAlert)
	}
	if temp < 5 {
		add(frostAlert)
	}
	if rainfall > 300 {
		add(heavyRainAlert)
	}
	if rainfall < 50 && temp > 25 {
		add(droughtAlert)
	}
	if humidity > 80 {
		add(highHumidityAlert)
	}

	a := Assessment{Severity: SeverityInfo, Alerts: alerts}
	for _, al := range alerts {
		if al.Severity == SeverityHigh {
			a.Severity = SeverityHigh
			break
		}
		if al.Severity == SeverityMedium {
			a.Severity = SeverityMedium
		}
	}
	if len(alerts) > 0 {
		a.Message = fmt.Sprintf("%d weather alerts require attention", len(alerts))
	} else {
		a.Message = "Favorable conditions for most agricultural activities"
		a.Alerts = []ConditionAlert{}
	}
	return a
}
