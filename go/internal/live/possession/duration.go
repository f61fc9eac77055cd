package possession

import "time"

// DurationClock measures how long the active possession has been in play.
// Time spent while the match timer is not running is excluded.
type DurationClock struct {
	startedAt   time.Time
	totalPaused time.Duration
	pausedAt    time.Time
	running     bool
	tracking    bool
}

// Start begins tracking a possession that started at startedAt.
func (d *DurationClock) Start(startedAt time.Time, running bool, now time.Time) {
	*d = DurationClock{
		startedAt: startedAt,
		running:   running,
		tracking:  true,
	}
	if !running {
		d.pausedAt = now
	}
}

// Reset stops tracking. Duration reads zero until the next Start.
func (d *DurationClock) Reset() {
	*d = DurationClock{}
}

// Tracking reports whether a possession is being timed.
func (d *DurationClock) Tracking() bool {
	return d.tracking
}

// StartedAt returns the start of the tracked possession.
func (d *DurationClock) StartedAt() time.Time {
	return d.startedAt
}

// SetRunning freezes or resumes the clock. The paused interval is
// accumulated on resume.
func (d *DurationClock) SetRunning(running bool, now time.Time) {
	if d.running == running {
		return
	}
	d.running = running
	if !d.tracking {
		return
	}
	if running {
		d.totalPaused += now.Sub(d.pausedAt)
		d.pausedAt = time.Time{}
		return
	}
	d.pausedAt = now
}

// Duration returns the in-play time of the possession at now.
func (d *DurationClock) Duration(now time.Time) time.Duration {
	if !d.tracking {
		return 0
	}
	end := now
	if !d.running {
		end = d.pausedAt
	}
	elapsed := end.Sub(d.startedAt) - d.totalPaused
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
