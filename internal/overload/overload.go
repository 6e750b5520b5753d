package overload

import (
	"time"

	"github.com/kjstillabower/krishi-dashboard/internal/traffic"
)

// RecordDenial records a local API request rejected by the rate limiter.
func RecordDenial() {
	traffic.RecordDenied()
}

// RequestCount returns backend outcomes plus local denials within window.
func RequestCount(window time.Duration) int {
	return traffic.RequestCount(window)
}

// DenialCount returns local denials within window.
func DenialCount(window time.Duration) int {
	return traffic.DenialCount(window)
}

// DenialRatio returns denials as a percentage of RequestCount, 0 when idle.
func DenialRatio(window time.Duration) float64 {
	total := RequestCount(window)
	if total == 0 {
		return 0
	}
	return float64(DenialCount(window)) / float64(total) * 100
}

// Reset clears all recorded data. For tests only.
func Reset() {
	traffic.Reset()
}
