package assessment

import "time"

// Task is a scheduled callback that can be cancelled before it runs
type Task interface {
	// Cancel stops the task and reports whether it was still pending
	Cancel() bool
}

// Scheduler runs a callback once after a delay
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Task
}

// TimerScheduler schedules callbacks on runtime timers
type TimerScheduler struct{}

func (TimerScheduler) Schedule(delay time.Duration, fn func()) Task {
	return timerTask{timer: time.AfterFunc(delay, fn)}
}

type timerTask struct {
	timer *time.Timer
}

func (t timerTask) Cancel() bool {
	return t.timer.Stop()
}
