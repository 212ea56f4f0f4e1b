package main

import "time"

type Timer struct {
	startTime time.Time
}

func makeTimer() Timer {
	timer := Timer{}
	timer.start()
	return timer
}

func (t *Timer) start() {
	t.startTime = time.Now()
}

// Returns the time since the last tick (or start) and restarts the timer
func (t *Timer) tick() time.Duration {
	now := time.Now()
	elapsed := now.Sub(t.startTime)
	t.startTime = now
	return elapsed
}

// Exponential moving average so the numbers on screen aren't super spazzy
type movingAverage struct {
	seconds float64
	primed  bool
}

func (m *movingAverage) add(d time.Duration) {
	if !m.primed {
		m.seconds = d.Seconds()
		m.primed = true
		return
	}
	m.seconds = m.seconds*0.9 + d.Seconds()*0.1
}

func (m *movingAverage) String() string {
	return time.Duration(m.seconds * float64(time.Second)).Round(10 * time.Microsecond).String()
}
