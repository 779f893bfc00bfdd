package session

import "time"

// Timer is a handle to a pending callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. The countdown is built from these one-shot
// callbacks, each armed only after the previous one ran.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type SystemScheduler struct{}

func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
