package domain

import "time"

// ScheduleSuggestion recommends placing a task into a slot on a date.
type ScheduleSuggestion struct {
	Date     time.Time
	TimeSlot TimeSlot
	Reason   string
	Score    int
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day, ignoring time of day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
