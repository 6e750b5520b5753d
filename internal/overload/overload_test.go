package overload

import (
	"testing"
	"time"

	"github.com/kjstillabower/krishi-dashboard/internal/traffic"
)

func TestRequestCount_Empty(t *testing.T) {
	Reset()
	if n := RequestCount(time.Minute); n != 0 {
		t.Errorf("RequestCount() = %d, want 0", n)
	}
}

func TestRecordDenial_AndCount(t *testing.T) {
	Reset()
	RecordDenial()
	RecordDenial()
	if n := DenialCount(time.Minute); n != 2 {
		t.Errorf("DenialCount() = %d, want 2", n)
	}
}

func TestDenialRatio(t *testing.T) {
	Reset()
	if r := DenialRatio(time.Minute); r != 0 {
		t.Errorf("DenialRatio() idle = %v, want 0", r)
	}
	traffic.RecordSuccess()
	traffic.RecordSuccess()
	traffic.RecordError()
	RecordDenial()
	if r := DenialRatio(time.Minute); r != 25 {
		t.Errorf("DenialRatio() = %v, want 25", r)
	}
}

func TestReset_ClearsBoth(t *testing.T) {
	Reset()
	traffic.RecordSuccess()
	RecordDenial()
	Reset()
	if n := RequestCount(time.Minute); n != 0 {
		t.Errorf("RequestCount() after Reset = %d, want 0", n)
	}
	if n := DenialCount(time.Minute); n != 0 {
		t.Errorf("DenialCount() after Reset = %d, want 0", n)
	}
}
