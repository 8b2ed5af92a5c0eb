package app

import "time"

// Tick is one countdown step. Expired is set on the single tick that reaches zero.
type Tick struct {
	Token     uint64
	Remaining time.Duration
	Expired   bool
}

// Countdown is the per-question timer. It decrements on a fixed interval,
// reports exactly one expiring tick and then stops itself.
type Countdown struct {
	interval  time.Duration
	remaining time.Duration
	sinceTick time.Duration
	token     uint64
	running   bool
}

func NewCountdown(interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{interval: interval}
}

// Start replaces any running countdown. token identifies the question the
// countdown belongs to.
func (c *Countdown) Start(limit time.Duration, token uint64) {
	c.remaining = limit
	c.sinceTick = 0
	c.token = token
	c.running = limit > 0
}

func (c *Countdown) Stop() {
	c.running = false
	c.sinceTick = 0
}

func (c *Countdown) Running() bool { return c.running }

func (c *Countdown) Remaining() time.Duration { return c.remaining }

func (c *Countdown) Token() uint64 { return c.token }

// Advance moves the countdown forward by dt and returns the ticks that fired.
func (c *Countdown) Advance(dt time.Duration) []Tick {
	if !c.running {
		return nil
	}
	c.sinceTick += dt
	var ticks []Tick
	for c.running && c.sinceTick >= c.interval {
		c.sinceTick -= c.interval
		c.remaining -= c.interval
		if c.remaining <= 0 {
			c.remaining = 0
			c.running = false
			c.sinceTick = 0
			ticks = append(ticks, Tick{Token: c.token, Expired: true})
			break
		}
		ticks = append(ticks, Tick{Token: c.token, Remaining: c.remaining})
	}
	return ticks
}
