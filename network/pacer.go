package network

import "time"

// SendPacer rations outbound position samples to the configured network
// rate regardless of the tick rate.
type SendPacer struct {
	interval time.Duration
	next     time.Time
}

// NewSendPacer builds a pacer emitting at most ratePerSec times per second.
// A non-positive rate means every call is due.
func NewSendPacer(ratePerSec float64) *SendPacer {
	p := &SendPacer{}
	if ratePerSec > 0 {
		p.interval = time.Duration(float64(time.Second) / ratePerSec)
	}
	return p
}

// Due reports whether an emission is allowed now, and if so starts the next
// interval. The schedule restarts from now, so a long hitch does not cause
// a burst of catch-up sends.
func (p *SendPacer) Due(now time.Time) bool {
	if now.Before(p.next) {
		return false
	}
	p.next = now.Add(p.interval)
	return true
}
