package games

import (
	"time"

	"github.com/albapepper/scoracle-props/internal/provider/oddsapi"
)

// Window modes.
const (
	ModePreseasonUpcoming = "PRESEASON_UPCOMING"
	ModeWeek1Locked       = "WEEK_1_LOCKED"
	ModeRolling7D         = "ROLLING_7D"
)

const day = 24 * time.Hour

// Window is a half-open kickoff range [Start, End).
type Window struct {
	Mode  string    `json:"mode"`
	Start time.Time `json:"startISO"`
	End   time.Time `json:"endISO"`
}

// Contains reports whether t falls in the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Season holds the week-1 boundaries the windows are anchored to.
type Season struct {
	Week1Start time.Time
	Week1End   time.Time
}

// PreseasonWindow runs from yesterday until week 1 or four weeks out,
// whichever is sooner.
func (s Season) PreseasonWindow(now time.Time) Window {
	end := now.Add(28 * day)
	if s.Week1Start.Before(end) {
		end = s.Week1Start
	}
	return Window{Mode: ModePreseasonUpcoming, Start: now.Add(-day), End: end}
}

// Week1Window is the locked week-1 window.
func (s Season) Week1Window() Window {
	return Window{Mode: ModeWeek1Locked, Start: s.Week1Start, End: s.Week1End}
}

// WindowFor picks the listing window for a request mode.
func (s Season) WindowFor(mode string, now time.Time) Window {
	switch {
	case oddsapi.SportForMode(mode) == oddsapi.SportNFLPreseason:
		return s.PreseasonWindow(now)
	case now.Before(s.Week1Start):
		return s.Week1Window()
	default:
		return Window{Mode: ModeRolling7D, Start: now, End: now.Add(7 * day)}
	}
}
