package domain

import "time"

// Window is one rung of the EMI lead-time ladder
type Window struct {
	Hours int
	Label string
}

// Lead returns the window offset as a duration
func (w Window) Lead() time.Duration {
	return time.Duration(w.Hours) * time.Hour
}

// Ladder is an ordered, widest-first sequence of windows
type Ladder []Window

// DefaultLadder returns a fresh copy of the standard EMI reminder ladder:
// 15 days, 7 days, 1 day, 12 hours, 4 hours and 1 hour before the due date.
func DefaultLadder() Ladder {
	return Ladder{
		{Hours: 15 * 24, Label: "15 days before"},
		{Hours: 7 * 24, Label: "7 days before"},
		{Hours: 24, Label: "1 day before"},
		{Hours: 12, Label: "12 hours before"},
		{Hours: 4, Label: "4 hours before"},
		{Hours: 1, Label: "1 hour before"},
	}
}

// Match returns the first window whose [lead-tolerance, lead+tolerance]
// range contains untilDue.
func (l Ladder) Match(untilDue, tolerance time.Duration) (Window, bool) {
	for _, w := range l {
		lead := w.Lead()
		if untilDue >= lead-tolerance && untilDue <= lead+tolerance {
			return w, true
		}
	}
	return Window{}, false
}
