package model

import "time"

// TimeSlot is a candidate appointment start with a fixed duration. Start is
// always UTC.
type TimeSlot struct {
	Start    time.Time
	Duration time.Duration
}

// End returns the exclusive end of the slot.
func (s TimeSlot) End() time.Time {
	return s.Start.Add(s.Duration)
}

// BusyInterval is a half-open [Start, End) range taken on the calendar.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !(!aEnd.After(bStart) || !bEnd.After(aStart))
}

// Overlaps reports whether the slot intersects b.
func (s TimeSlot) Overlaps(b BusyInterval) bool {
	return Overlaps(s.Start, s.End(), b.Start, b.End)
}

// GroupSlotsByDate groups slot starts as RFC 3339 UTC strings under their
// UTC calendar date.
func GroupSlotsByDate(slots []TimeSlot) map[string][]string {
	grouped := make(map[string][]string)
	for _, s := range slots {
		start := s.Start.UTC()
		key := start.Format(time.DateOnly)
		grouped[key] = append(grouped[key], start.Format(time.RFC3339))
	}
	return grouped
}
