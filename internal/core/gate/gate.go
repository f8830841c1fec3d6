// Package gate hides results until a release instant and renders the
// countdown shown while they are locked.
package gate

import (
	"fmt"
	"strings"
	"time"
)

const (
	day = 24 * time.Hour
)

type Remaining struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

type Status struct {
	Released  bool      `json:"released"`
	ReleaseAt time.Time `json:"release_at"`
	Remaining Remaining `json:"remaining"`
	Countdown string    `json:"countdown,omitempty"`
}

func IsReleased(now, release time.Time) bool {
	return !now.Before(release)
}

// Countdown splits the time left until release using floor division. It is
// zero once the release instant has passed.
func Countdown(now, release time.Time) Remaining {
	diff := release.Sub(now)
	if diff <= 0 {
		return Remaining{}
	}
	return Remaining{
		Days:    int64(diff / day),
		Hours:   int64(diff % day / time.Hour),
		Minutes: int64(diff % time.Hour / time.Minute),
		Seconds: int64(diff % time.Minute / time.Second),
	}
}

// FormatCountdown renders "1d 0h 3m 4s". A unit appears once any larger unit
// is non-zero; seconds always appear.
func FormatCountdown(r Remaining) string {
	var b strings.Builder
	if r.Days > 0 {
		fmt.Fprintf(&b, "%dd ", r.Days)
	}
	if r.Hours > 0 || r.Days > 0 {
		fmt.Fprintf(&b, "%dh ", r.Hours)
	}
	if r.Minutes > 0 || r.Hours > 0 || r.Days > 0 {
		fmt.Fprintf(&b, "%dm ", r.Minutes)
	}
	fmt.Fprintf(&b, "%ds", r.Seconds)
	return b.String()
}

func Evaluate(now, release time.Time) Status {
	if IsReleased(now, release) {
		return Status{Released: true, ReleaseAt: release}
	}
	remaining := Countdown(now, release)
	return Status{
		ReleaseAt: release,
		Remaining: remaining,
		Countdown: FormatCountdown(remaining),
	}
}
