package advisory

import "github.com/kjstillabower/krishi-dashboard/internal/models"

// PredictionDelta returns actual minus predicted day temperature, or false when
// the day has not been observed yet.
func PredictionDelta(p models.Prediction) (float64, bool) {
	if p.ActualTempDay == nil {
		return 0, false
	}
	return *p.ActualTempDay - p.PredictedTempDay, true
}
