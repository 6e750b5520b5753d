package degraded

import (
	"testing"
	"time"
)

func TestErrorRate_Empty(t *testing.T) {
	Reset()
	errors, total := ErrorRate(1 * time.Minute)
	if errors != 0 || total != 0 {
		t.Errorf("ErrorRate() = (%d, %d), want (0, 0)", errors, total)
	}
}

func TestRecordSuccess_AndError_ErrorRate(t *testing.T) {
	Reset()
	RecordSuccess()
	RecordSuccess()
	RecordError()
	errors, total := ErrorRate(1 * time.Minute)
	if errors != 1 || total != 3 {
		t.Errorf("ErrorRate() = (%d, %d), want (1, 3)", errors, total)
	}
}

func TestIsDegraded(t *testing.T) {
	tests := []struct {
		name       string
		successes  int
		errors     int
		threshold  float64
		minSamples int
		want       bool
	}{
		{"no traffic", 0, 0, 50, 1, false},
		{"below min samples", 0, 2, 50, 3, false},
		{"below threshold", 3, 1, 50, 1, false},
		{"at threshold", 2, 2, 50, 1, true},
		{"all errors", 0, 5, 50, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			for i := 0; i < tt.successes; i++ {
				RecordSuccess()
			}
			for i := 0; i < tt.errors; i++ {
				RecordError()
			}
			if got := IsDegraded(time.Minute, tt.threshold, tt.minSamples); got != tt.want {
				t.Errorf("IsDegraded() = %v, want %v", got, tt.want)
			}
		})
	}
}
