package gateway

import "time"

// pacer enforces a minimum spacing between outbound requests derived from a
// requests-per-minute budget. The budget is set deliberately below GitHub's
// documented search limit so a run never trips the primary limit at all.
// The clock and sleep functions are injectable so tests can run instantly.
type pacer struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(time.Duration)
}

func newPacer(requestsPerMinute int) *pacer {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	return &pacer{
		interval: time.Minute / time.Duration(requestsPerMinute),
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// wait blocks until at least one interval has passed since the previous
// call, then marks the current request. The first call never blocks.
func (p *pacer) wait() {
	if !p.last.IsZero() {
		if elapsed := p.now().Sub(p.last); elapsed < p.interval {
			p.sleep(p.interval - elapsed)
		}
	}
	p.last = p.now()
}
