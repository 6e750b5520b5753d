package traffic

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// retention bounds how far back any window query can look.
const retention = 5 * time.Minute

var defaultTracker = NewTracker(clockwork.NewRealClock())

// RecordSuccess records a successful backend call.
func RecordSuccess() {
	defaultTracker.RecordSuccess()
}

// RecordError records a failed backend call (non-2xx, network failure, timeout).
func RecordError() {
	defaultTracker.RecordError()
}

// RecordDenied records a local API rate-limit denial (429).
func RecordDenied() {
	defaultTracker.RecordDenied()
}

// RequestCount returns the number of outcomes (success + error + denied) within the window.
func RequestCount(window time.Duration) int {
	return defaultTracker.RequestCount(window)
}

// DenialCount returns the number of denials within the window.
func DenialCount(window time.Duration) int {
	return defaultTracker.DenialCount(window)
}

// ErrorRate returns (errorCount, totalCount) within the window. totalCount = successes + errors (denied excluded).
func ErrorRate(window time.Duration) (errors, total int) {
	return defaultTracker.ErrorRate(window)
}

// Reset clears all recorded outcomes. For tests only.
func Reset() {
	defaultTracker.Reset()
}

// Outcome classifies one recorded event.
type Outcome uint8

const (
	OutcomeSuccess Outcome = iota
	OutcomeError
	OutcomeDenied
)

type event struct {
	at      time.Time
	outcome Outcome
}

// Tracker keeps a time-ordered log of outcomes for the last retention period.
// Overload reads denials from it; degraded reads backend successes and errors.
type Tracker struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	events []event
}

// NewTracker returns an empty Tracker reading time from clock.
func NewTracker(clock clockwork.Clock) *Tracker {
	return &Tracker{clock: clock}
}

func (t *Tracker) RecordSuccess() { t.Record(OutcomeSuccess) }

func (t *Tracker) RecordError() { t.Record(OutcomeError) }

func (t *Tracker) RecordDenied() { t.Record(OutcomeDenied) }

// Record appends one outcome stamped with the tracker's clock.
func (t *Tracker) Record(o Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now()
	t.events = append(t.events, event{at: now, outcome: o})
	t.pruneLocked(now)
}

// counts tallies outcomes at or after now-window.
func (t *Tracker) counts(window time.Duration) (tally [3]int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.clock.Now().Add(-window)
	for i := len(t.events) - 1; i >= 0 && !t.events[i].at.Before(cutoff); i-- {
		tally[t.events[i].outcome]++
	}
	return tally
}

// RequestCount returns every outcome (success, error and denied) within window.
func (t *Tracker) RequestCount(window time.Duration) int {
	c := t.counts(window)
	return c[OutcomeSuccess] + c[OutcomeError] + c[OutcomeDenied]
}

func (t *Tracker) DenialCount(window time.Duration) int {
	return t.counts(window)[OutcomeDenied]
}

// ErrorRate returns (errorCount, totalCount) within window. Denials are
// excluded; they say nothing about backend health.
func (t *Tracker) ErrorRate(window time.Duration) (errors, total int) {
	c := t.counts(window)
	return c[OutcomeError], c[OutcomeError] + c[OutcomeSuccess]
}

func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}

// pruneLocked drops events older than retention. Caller holds mu.
func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-retention)
	i := 0
	for i < len(t.events) && t.events[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		t.events = append(t.events[:0], t.events[i:]...)
	}
}
