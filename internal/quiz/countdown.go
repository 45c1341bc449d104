package quiz

import "time"

// TickInterval is the wall-clock length of one countdown unit.
const TickInterval = time.Second

// Countdown is the per-question timer. It never schedules anything itself:
// the owner delivers ticks, each carrying the token returned by Arm. Ticks
// for an earlier arming, or after Disarm, are ignored, so a late tick can
// never touch a question that is no longer current.
type Countdown struct {
	limit     int
	remaining int
	armed     bool
	token     uint64
}

// NewCountdown creates a disarmed countdown of limit ticks.
func NewCountdown(limit int) Countdown {
	if limit < 1 {
		limit = 1
	}
	return Countdown{limit: limit, remaining: limit}
}

// Arm restarts the countdown from the limit and returns the token that
// subsequent ticks must carry. Tokens are never zero.
func (c *Countdown) Arm() uint64 {
	c.token++
	c.remaining = c.limit
	c.armed = true
	return c.token
}

// Disarm stops the countdown. Pending ticks become no-ops.
func (c *Countdown) Disarm() {
	c.armed = false
}

// Tick consumes one unit for the arming identified by token. expired is
// true when this tick brought the countdown to zero; live is true while
// further ticks are wanted.
func (c *Countdown) Tick(token uint64) (expired, live bool) {
	if !c.armed || token != c.token {
		return false, false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.armed = false
		return true, false
	}
	return false, true
}

func (c *Countdown) Armed() bool { return c.armed }
func (c *Countdown) Remaining() int { return c.remaining }
func (c *Countdown) Limit() int { return c.limit }
func (c *Countdown) Token() uint64 { return c.token }
