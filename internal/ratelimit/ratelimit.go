package ratelimit

import "time"

// Governor enforces a minimum interval between successive calls against one
// API target. Single-threaded sequential use only; the pipeline never shares
// a Governor across goroutines.
type Governor struct {
	delay    time.Duration
	lastCall time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// New returns a Governor allowing at most rpm requests per minute.
func New(rpm int) *Governor {
	if rpm <= 0 {
		rpm = 60
	}
	return &Governor{
		delay: time.Minute / time.Duration(rpm),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Wait blocks until at least 60/rpm seconds have elapsed since the last
// permitted call, then records the new call time.
func (g *Governor) Wait() {
	if !g.lastCall.IsZero() {
		elapsed := g.now().Sub(g.lastCall)
		if elapsed < g.delay {
			g.sleep(g.delay - elapsed)
		}
	}
	g.lastCall = g.now()
}

// Delay reports the configured minimum interval between calls.
func (g *Governor) Delay() time.Duration {
	return g.delay
}
