package app

import (
	"time"

	"github.com/jpillora/backoff"
)

// backoffThreshold is the number of consecutive failed cycles before the
// delay starts doubling.
const backoffThreshold = 3

// PollBackoff controls the delay between poll cycles. The delay stays at the
// base interval until backoffThreshold consecutive cycles have failed; from
// then on every further failed cycle doubles it, capped at max. The error
// counter is not reset by doubling, only by a successful cycle, which also
// snaps the delay back to base.
type PollBackoff struct {
	base      time.Duration
	threshold int
	errors    int
	current   time.Duration
	curve     *backoff.Backoff
}

func NewPollBackoff(base, max time.Duration) *PollBackoff {
	if max < base {
		max = base
	}
	p := &PollBackoff{
		base:      base,
		threshold: backoffThreshold,
		curve: &backoff.Backoff{
			Min:    base,
			Max:    max,
			Factor: 2,
		},
	}
	p.reset()
	return p
}

func (p *PollBackoff) reset() {
	p.errors = 0
	p.curve.Reset()
	// Consume the base step so the first escalation lands on base*2.
	p.current = p.curve.Duration()
}

// Success records a clean cycle: counter to zero, delay to base.
func (p *PollBackoff) Success() {
	p.reset()
}

// Failure records a failed cycle and escalates the delay once the threshold
// of consecutive failures is reached.
func (p *PollBackoff) Failure() {
	p.errors++
	if p.errors >= p.threshold {
		p.current = p.curve.Duration()
	}
}

// Delay returns the current inter-cycle delay. Always within [base, max].
func (p *PollBackoff) Delay() time.Duration {
	return p.current
}

// Errors returns the consecutive failed cycle count.
func (p *PollBackoff) Errors() int {
	return p.errors
}
