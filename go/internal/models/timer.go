package models

import "time"

// TimerStatus is the state of the match clock.
type TimerStatus string

const (
	TimerStopped TimerStatus = "stopped"
	TimerRunning TimerStatus = "running"
	TimerPaused  TimerStatus = "paused"
)

// TimerState is the clock projection of a Game, fetchable on its own.
type TimerState struct {
	CurrentPeriod   int         `json:"current_period"`
	NumberOfPeriods int         `json:"number_of_periods"`
	TimeRemaining   int         `json:"time_remaining"` // seconds, never negative
	TimerState      TimerStatus `json:"timer_state"`
	PeriodDuration  int         `json:"period_duration"` // seconds
	ServerTime      time.Time   `json:"server_time"`
}

// Running reports whether the match clock is counting down.
func (t TimerState) Running() bool {
	return t.TimerState == TimerRunning
}
