package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/kjstillabower/krishi-dashboard/internal/client"
	"github.com/kjstillabower/krishi-dashboard/internal/degraded"
	"github.com/kjstillabower/krishi-dashboard/internal/observability"
)

// Policy decides which of several overlapping responses a container keeps.
type Policy string

const (
	// PolicyArrival applies every response in completion order; the last to complete wins.
	PolicyArrival Policy = "arrival"
	// PolicyLatest applies only the response to the most recently issued request.
	PolicyLatest Policy = "latest"
)

// ParsePolicy maps a config value to a Policy. Empty means PolicyArrival.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyArrival:
		return PolicyArrival, nil
	case PolicyLatest:
		return PolicyLatest, nil
	}
	return "", fmt.Errorf("unknown store policy %q (want arrival or latest)", s)
}

// Fetch outcomes recorded per operation.
const (
	outcomeSuccess   = "success"
	outcomeFailure   = "failure"
	outcomeDiscarded = "discarded"
)

// FetchState is the loading/error/timestamp triple every container carries.
// A non-empty Error is authoritative even when stale data is still present.
type FetchState struct {
	Loading     bool       `json:"loading"`
	Error       string     `json:"error,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// Snapshot is a point-in-time copy of a container.
type Snapshot[S any] struct {
	Data  S          `json:"data"`
	Fetch FetchState `json:"fetch"`
}

// Options configure every container built by a Store.
type Options struct {
	Clock  clockwork.Clock
	Policy Policy
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Policy == "" {
		o.Policy = PolicyArrival
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Container holds one domain's data and fetch state behind a mutex. Mutators replace
// slices and pointers rather than editing them in place, so a Snapshot stays valid
// after the lock is released.
type Container[S any] struct {
	domain string
	clock  clockwork.Clock
	policy Policy
	logger *zap.Logger

	mu     sync.RWMutex
	data   S
	fetch  FetchState
	issued map[string]uint64
}

// NewContainer creates a container for domain holding initial.
func NewContainer[S any](domain string, initial S, opts Options) *Container[S] {
	opts = opts.withDefaults()
	return &Container[S]{
		domain: domain,
		clock:  opts.Clock,
		policy: opts.Policy,
		logger: opts.Logger.With(zap.String("domain", domain)),
		data:   initial,
		issued: make(map[string]uint64),
	}
}

// Ticket identifies one dispatched request. Requests sharing a key compete under
// PolicyLatest; requests with different keys never discard each other.
type Ticket struct {
	key string
	gen uint64
}

// Begin enters the loading state and clears any previous error.
func (c *Container[S]) Begin(key string) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued[key]++
	c.fetch.Loading = true
	c.fetch.Error = ""
	return Ticket{key: key, gen: c.issued[key]}
}

// current reports whether t may settle the container under the configured policy.
func (c *Container[S]) current(t Ticket) bool {
	return c.policy != PolicyLatest || t.gen == c.issued[t.key]
}

// Succeed applies mutate, clears loading and stamps LastUpdated.
// It returns false when the policy discarded the response.
func (c *Container[S]) Succeed(t Ticket, mutate func(*S)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(t) {
		return false
	}
	if mutate != nil {
		mutate(&c.data)
	}
	now := c.clock.Now()
	c.fetch.Loading = false
	c.fetch.Error = ""
	c.fetch.LastUpdated = &now
	return true
}

// Fail records msg and clears loading. Data is left as it was.
func (c *Container[S]) Fail(t Ticket, msg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(t) {
		return false
	}
	c.fetch.Loading = false
	c.fetch.Error = msg
	return true
}

// Update applies a local mutation without touching fetch state.
func (c *Container[S]) Update(mutate func(*S)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mutate(&c.data)
}

// Reset replaces data and fetch state with their initial values.
func (c *Container[S]) Reset(initial S) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = initial
	c.fetch = FetchState{}
}

func (c *Container[S]) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetch.Error = ""
}

func (c *Container[S]) Snapshot() Snapshot[S] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot[S]{Data: c.data, Fetch: c.fetch}
}

// Data returns the current data without fetch state.
func (c *Container[S]) Data() S {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

func (c *Container[S]) Domain() string {
	return c.domain
}

// failMessage renders an operation error as the string stored on the container.
type failMessage func(err error) string

func defaultMessage(err error) string {
	return client.Message(err)
}

// run is the shared fetch operation: Begin, one call, then Succeed or Fail.
// The call's error is returned unchanged so callers can inspect it.
func run[S, T any](ctx context.Context, c *Container[S], op string, call func(context.Context) (T, error), apply func(*S, T)) (T, error) {
	return runWith(ctx, c, op, op, defaultMessage, call, apply)
}

func runWith[S, T any](ctx context.Context, c *Container[S], op, key string, msg failMessage, call func(context.Context) (T, error), apply func(*S, T)) (T, error) {
	ticket := c.Begin(key)
	start := c.clock.Now()

	v, err := call(ctx)
	if err != nil {
		degraded.RecordError()
		message := ""
		if msg != nil {
			message = msg(err)
		}
		if !c.Fail(ticket, message) {
			observability.RecordFetch(c.domain, op, outcomeDiscarded)
			c.logger.Debug("stale failure discarded", zap.String("operation", op))
			return v, err
		}
		observability.RecordFetch(c.domain, op, outcomeFailure)
		c.logger.Warn("fetch failed",
			zap.String("operation", op),
			zap.String("category", string(client.CategorizeError(err))),
			zap.Error(err),
		)
		return v, err
	}

	degraded.RecordSuccess()
	var mutate func(*S)
	if apply != nil {
		mutate = func(s *S) { apply(s, v) }
	}
	if !c.Succeed(ticket, mutate) {
		observability.RecordFetch(c.domain, op, outcomeDiscarded)
		c.logger.Debug("stale response discarded", zap.String("operation", op))
		return v, nil
	}
	observability.RecordFetch(c.domain, op, outcomeSuccess)
	c.logger.Debug("fetch settled",
		zap.String("operation", op),
		zap.Duration("duration", c.clock.Since(start)),
	)
	return v, nil
}
