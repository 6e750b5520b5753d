package advisory

import (
	"math"
	"strconv"
)

// Irrigation frequency bands.
const (
	FrequencySupplemental = "Supplemental only"
	FrequencyWeekly       = "Every 5-7 days"
	FrequencyTwiceWeekly  = "Every 3-4 days"
	FrequencyFrequent     = "Every 2-3 days"
)

// heatFactor scales the additional water when the month is hot.
const heatFactor = 1.2

// WaterAdvice is the irrigation recommendation for a month.
type WaterAdvice struct {
	IrrigationFrequency string   `json:"irrigationFrequency"`
	AdditionalWaterMM   float64  `json:"additionalWaterMm"`
	HeatAdjusted        bool     `json:"heatAdjusted"`
	WaterRequirement    string   `json:"waterRequirement"`
	EfficiencyTips      []string `json:"efficiencyTips"`
}

// IrrigationAdvice bands monthly rainfall (mm) into an irrigation frequency and the
// additional water needed, max(0, threshold - rainfall) with thresholds 200/250/300.
// Temperatures above 30 raise the additional water by 20%.
func IrrigationAdvice(rainfall, temp float64) WaterAdvice {
	adv := WaterAdvice{
		EfficiencyTips: []string{
			"Use drip irrigation for water-intensive crops",
			"Water during early morning or late evening",
			"Apply mulch to reduce evaporation",
			"Monitor soil moisture regularly",
		},
	}

	switch {
	case rainfall > 300:
		adv.IrrigationFrequency = FrequencySupplemental
	case rainfall > 150:
		adv.IrrigationFrequency = FrequencyWeekly
		adv.AdditionalWaterMM = math.Max(0, 200-rainfall)
	case rainfall > 50:
		adv.IrrigationFrequency = FrequencyTwiceWeekly
		adv.AdditionalWaterMM = math.Max(0, 250-rainfall)
	default:
		adv.IrrigationFrequency = FrequencyFrequent
		adv.AdditionalWaterMM = math.Max(0, 300-rainfall)
	}

	if rainfall > 300 {
		adv.WaterRequirement = "Minimal additional water needed"
	} else {
		adv.WaterRequirement = formatMM(adv.AdditionalWaterMM) + " mm/month additional"
	}
	if temp > 30 {
		adv.HeatAdjusted = true
		adv.AdditionalWaterMM *= heatFactor
		adv.WaterRequirement += " (Increase by 20% due to heat)"
	}
	return adv
}

// MonthWaterAdvice applies the month defaults: missing rainfall is 0, missing
// temperature is 25.
func MonthWaterAdvice(rainfall, temp float64) WaterAdvice {
	if temp == 0 {
		temp = 25
	}
	return IrrigationAdvice(rainfall, temp)
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
