package intelligence

import "time"

// Timeframe is an enumerated dashboard window selector.
type Timeframe string

const (
	TimeframeToday     Timeframe = "today"
	TimeframeYesterday Timeframe = "yesterday"
	Timeframe7D        Timeframe = "7d"
	Timeframe14D       Timeframe = "14d"
	Timeframe30D       Timeframe = "30d"
	Timeframe90D       Timeframe = "90d"
	Timeframe1Y        Timeframe = "1y"
)

// ReferenceLocation is the fixed timezone all windows are resolved in, so
// "today" and "yesterday" are wall-clock-stable regardless of server locale.
var ReferenceLocation = mustLocation("America/Chicago")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Window is a half-open [Start, End) time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Normalize maps any unrecognized selector to the 30-day default.
// A bad timeframe is never an error.
func (t Timeframe) Normalize() Timeframe {
	switch t {
	case TimeframeToday, TimeframeYesterday, Timeframe7D, Timeframe14D,
		Timeframe30D, Timeframe90D, Timeframe1Y:
		return t
	default:
		return Timeframe30D
	}
}

// ResolveWindows computes the current reporting window and the baseline
// window used for growth comparison, both in ReferenceLocation.
//
// "today" and "yesterday" both compare against the prior calendar day rather
// than a floating equal-length window, keeping day-over-day comparisons
// calendar-aligned. All other selectors use an equal-duration window ending
// exactly where the current window begins.
func ResolveWindows(t Timeframe, now time.Time) (current, previous Window) {
	now = now.In(ReferenceLocation)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, ReferenceLocation)

	switch t.Normalize() {
	case TimeframeToday:
		current = Window{Start: midnight, End: now}
		previous = Window{Start: midnight.AddDate(0, 0, -1), End: midnight}
		return current, previous
	case TimeframeYesterday:
		current = Window{Start: midnight.AddDate(0, 0, -1), End: midnight}
		previous = Window{Start: midnight.AddDate(0, 0, -2), End: midnight.AddDate(0, 0, -1)}
		return current, previous
	case Timeframe7D:
		current = Window{Start: now.AddDate(0, 0, -7), End: now}
	case Timeframe14D:
		current = Window{Start: now.AddDate(0, 0, -14), End: now}
	case Timeframe90D:
		current = Window{Start: now.AddDate(0, 0, -90), End: now}
	case Timeframe1Y:
		current = Window{Start: now.AddDate(-1, 0, 0), End: now}
	default:
		current = Window{Start: now.AddDate(0, 0, -30), End: now}
	}

	previous = Window{Start: current.Start.Add(-current.Duration()), End: current.Start}
	return current, previous
}
