package store

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	N int
}

func newCounter(policy Policy) (*Container[counter], *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 4, 14, 6, 0, 0, 0, time.UTC))
	return NewContainer("test", counter{}, Options{Clock: clock, Policy: policy}), clock
}

func TestContainer_StateMachine(t *testing.T) {
	c, clock := newCounter(PolicyArrival)

	snap := c.Snapshot()
	assert.False(t, snap.Fetch.Loading)
	assert.Empty(t, snap.Fetch.Error)
	assert.Nil(t, snap.Fetch.LastUpdated)

	tk := c.Begin("op")
	assert.True(t, c.Snapshot().Fetch.Loading)

	require.True(t, c.Succeed(tk, func(s *counter) { s.N = 5 }))
	snap = c.Snapshot()
	assert.False(t, snap.Fetch.Loading)
	assert.Equal(t, 5, snap.Data.N)
	require.NotNil(t, snap.Fetch.LastUpdated)
	assert.Equal(t, clock.Now(), *snap.Fetch.LastUpdated)

	tk = c.Begin("op")
	require.True(t, c.Fail(tk, "boom"))
	snap = c.Snapshot()
	assert.False(t, snap.Fetch.Loading)
	assert.Equal(t, "boom", snap.Fetch.Error)
	assert.Equal(t, 5, snap.Data.N, "failure must leave data untouched")

	c.Begin("op")
	assert.Empty(t, c.Snapshot().Fetch.Error, "dispatch clears the previous error")
}

func TestContainer_ClearErrorAndReset(t *testing.T) {
	c, _ := newCounter(PolicyArrival)
	tk := c.Begin("op")
	c.Fail(tk, "bad")
	c.Update(func(s *counter) { s.N = 3 })

	c.ClearError()
	snap := c.Snapshot()
	assert.Empty(t, snap.Fetch.Error)
	assert.Equal(t, 3, snap.Data.N)

	c.Reset(counter{})
	assert.Equal(t, Snapshot[counter]{}, c.Snapshot())
}

func TestContainer_ArrivalPolicy_LastToCompleteWins(t *testing.T) {
	c, _ := newCounter(PolicyArrival)
	first := c.Begin("op")
	second := c.Begin("op")

	require.True(t, c.Succeed(second, func(s *counter) { s.N = 2 }))
	require.True(t, c.Succeed(first, func(s *counter) { s.N = 1 }))
	assert.Equal(t, 1, c.Data().N, "older response completing last overwrites newer one")
}

func TestContainer_LatestPolicy_DiscardsStale(t *testing.T) {
	c, _ := newCounter(PolicyLatest)
	first := c.Begin("op")
	second := c.Begin("op")

	require.True(t, c.Succeed(second, func(s *counter) { s.N = 2 }))
	assert.False(t, c.Succeed(first, func(s *counter) { s.N = 1 }))
	assert.False(t, c.Fail(first, "late failure"))

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Data.N)
	assert.Empty(t, snap.Fetch.Error)
}

func TestContainer_LatestPolicy_KeysAreIndependent(t *testing.T) {
	c, _ := newCounter(PolicyLatest)
	a := c.Begin("auto_fill:1")
	b := c.Begin("auto_fill:2")

	assert.True(t, c.Succeed(a, func(s *counter) { s.N++ }))
	assert.True(t, c.Succeed(b, func(s *counter) { s.N++ }))
	assert.Equal(t, 2, c.Data().N)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyArrival, false},
		{"arrival", PolicyArrival, false},
		{"latest", PolicyLatest, false},
		{"newest", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
