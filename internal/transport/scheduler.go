package transport

import "time"

// Token identifies one run of the frame-advance loop. Ticks carrying an
// older token are ignored, which is how a pending tick is cancelled.
type Token struct {
	gen uint64
}

// Scheduler tracks the single frame-advance loop of a transport.
type Scheduler struct {
	gen    uint64
	active bool
	last   time.Time
	acc    time.Duration
}

// Start invalidates any running loop before opening a new one.
func (s *Scheduler) Start(now time.Time) Token {
	s.gen++
	s.active = true
	s.last = now
	s.acc = 0
	return Token{gen: s.gen}
}

func (s *Scheduler) Stop() {
	s.gen++
	s.active = false
	s.acc = 0
}

// Pending is 1 while a loop is live and 0 otherwise.
func (s *Scheduler) Pending() int {
	if s.active {
		return 1
	}
	return 0
}

func (s *Scheduler) Live(tok Token) bool {
	return s.active && tok.gen == s.gen
}

// advance converts elapsed wall time into whole frames, carrying the
// remainder to the next tick.
func (s *Scheduler) advance(tok Token, now time.Time, rate float64, fps int) (int, bool) {
	if !s.Live(tok) {
		return 0, false
	}
	elapsed := now.Sub(s.last)
	s.last = now
	if elapsed <= 0 || fps <= 0 {
		return 0, true
	}
	s.acc += time.Duration(float64(elapsed) * rate)
	frame := time.Second / time.Duration(fps)
	n := int(s.acc / frame)
	s.acc -= time.Duration(n) * frame
	return n, true
}

// Interval is the tick period for the given fps.
func Interval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}
