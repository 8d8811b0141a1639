package retry

import (
	"math/rand"
	"time"
)

// Policy describes a bounded exponential backoff. The TransfereGov requester
// uses Delay directly as a precondition loop around throttling responses
// (no jitter); everything else wraps fallible calls with Do (jittered).
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool

	sleep func(time.Duration)
	rand  func() float64
}

// Default matches the upstream clients' historical settings: five attempts,
// one second base, one minute cap.
func Default() Policy {
	return Policy{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    time.Minute,
	}
}

// Delay computes the backoff for a zero-based attempt index:
// min(base * 2^attempt, max), multiplied by a uniform factor in [0.5, 1.5)
// when jitter is enabled.
func (p Policy) Delay(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt)
	if d > p.MaxDelay || d <= 0 {
		d = p.MaxDelay
	}
	if p.Jitter {
		r := rand.Float64
		if p.rand != nil {
			r = p.rand
		}
		d = time.Duration(float64(d) * (0.5 + r()))
	}
	return d
}

// Do runs op until it succeeds or MaxAttempts is exhausted, sleeping
// Delay(attempt) between failures. The last error is surfaced; a nil return
// means exactly one of the attempts succeeded.
func (p Policy) Do(op func() error) error {
	sleep := time.Sleep
	if p.sleep != nil {
		sleep = p.sleep
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if attempt < p.MaxAttempts-1 {
			sleep(p.Delay(attempt))
		}
	}
	return lastErr
}
