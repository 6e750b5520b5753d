package degraded

import (
	"time"

	"github.com/kjstillabower/krishi-dashboard/internal/traffic"
)

// RecordSuccess records a fetch operation whose backend call succeeded.
func RecordSuccess() {
	traffic.RecordSuccess()
}

// RecordError records a fetch operation whose backend call failed.
func RecordError() {
	traffic.RecordError()
}

// ErrorRate returns (errorCount, totalCount) within the window. totalCount = successes + errors.
func ErrorRate(window time.Duration) (errors, total int) {
	return traffic.ErrorRate(window)
}

// IsDegraded reports whether the backend error rate in window is at or above thresholdPct.
// Fewer than minSamples outcomes never count as degraded.
func IsDegraded(window time.Duration, thresholdPct float64, minSamples int) bool {
	errs, total := ErrorRate(window)
	if total == 0 || total < minSamples {
		return false
	}
	return float64(errs)/float64(total)*100 >= thresholdPct
}

// Reset clears all recorded data. For tests only.
func Reset() {
	traffic.Reset()
}
