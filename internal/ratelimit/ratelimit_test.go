package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when the governor sleeps.
type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	jumped time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

func newTestGovernor(rpm int) (*Governor, *fakeClock) {
	clk := &fakeClock{now: time.Unix(1000, 0)}
	g := New(rpm)
	g.now = clk.Now
	g.sleep = clk.Sleep
	return g, clk
}

func TestWaitFirstCallDoesNotSleep(t *testing.T) {
	g, clk := newTestGovernor(60)

	g.Wait()

	assert.Empty(t, clk.slept)
}

func TestWaitEnforcesMinimumInterval(t *testing.T) {
	tests := []struct {
		name string
		rpm  int
		want time.Duration
	}{
		{name: "60 rpm gives one second", rpm: 60, want: time.Second},
		{name: "120 rpm gives half a second", rpm: 120, want: 500 * time.Millisecond},
		{name: "6 rpm gives ten seconds", rpm: 6, want: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, clk := newTestGovernor(tt.rpm)

			g.Wait()
			before := clk.now
			g.Wait()

			require.Len(t, clk.slept, 1)
			assert.Equal(t, tt.want, clk.slept[0])
			assert.GreaterOrEqual(t, clk.now.Sub(before), tt.want)
		})
	}
}

func TestWaitSkipsSleepAfterLongGap(t *testing.T) {
	g, clk := newTestGovernor(60)

	g.Wait()
	clk.now = clk.now.Add(5 * time.Second)
	g.Wait()

	assert.Empty(t, clk.slept)
}

func TestWaitSleepsOnlyRemainingTime(t *testing.T) {
	g, clk := newTestGovernor(60)

	g.Wait()
	clk.now = clk.now.Add(400 * time.Millisecond)
	g.Wait()

	require.Len(t, clk.slept, 1)
	assert.Equal(t, 600*time.Millisecond, clk.slept[0])
}

func TestNewRejectsNonPositiveRPM(t *testing.T) {
	g := New(0)
	assert.Equal(t, time.Second, g.Delay())

	g = New(-5)
	assert.Equal(t, time.Second, g.Delay())
}
