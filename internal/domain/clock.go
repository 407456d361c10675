package domain

import "time"

// Clock abstracts "now" so the gate, lifecycle rules and revenue periods can
// be tested against a fixed time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RealClock returns the system clock.
func RealClock() Clock { return realClock{} }
