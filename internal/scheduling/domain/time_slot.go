package domain

// DefaultSlotMinutes is the slot granularity used when none is configured.
const DefaultSlotMinutes = 30

// TimeSlot is a fixed-length candidate interval within a single day.
type TimeSlot struct {
	StartTime TimeOfDay
	EndTime   TimeOfDay
	IsPeak    bool
}

// DurationMinutes returns the slot length in minutes.
func (s TimeSlot) DurationMinutes() int {
	return s.EndTime.Minutes() - s.StartTime.Minutes()
}

// Overlaps reports whether the slot overlaps the window [start, end).
func (s TimeSlot) Overlaps(start, end TimeOfDay) bool {
	return IntervalsOverlap(s.StartTime, s.EndTime, start, end)
}

// String formats the slot as "HH:MM-HH:MM".
func (s TimeSlot) String() string {
	return s.StartTime.String() + "-" + s.EndTime.String()
}

// GenerateSlots splits [dayStart, dayEnd] into consecutive slots of durationMinutes.
// A trailing partial slot is never emitted. An inverted or empty window yields no slots.
func GenerateSlots(dayStart, dayEnd TimeOfDay, durationMinutes int) []TimeSlot {
	slots := make([]TimeSlot, 0)
	if durationMinutes <= 0 || !dayStart.IsBefore(dayEnd) {
		return slots
	}

	for cursor := dayStart; cursor.Minutes()+durationMinutes <= dayEnd.Minutes(); {
		// dayEnd is a valid TimeOfDay, so the end of an accepted slot is always in range.
		end, err := cursor.AddMinutes(durationMinutes)
		if err != nil {
			break
		}
		slots = append(slots, TimeSlot{StartTime: cursor, EndTime: end})
		cursor = end
	}

	return slots
}

// MarkPeak returns a copy of slots with IsPeak set for every slot whose start lies
// within [peakStart, peakEnd], inclusive at both ends.
func MarkPeak(slots []TimeSlot, peakStart, peakEnd TimeOfDay) []TimeSlot {
	marked := make([]TimeSlot, len(slots))
	for i, slot := range slots {
		slot.IsPeak = !slot.StartTime.IsBefore(peakStart) && !slot.StartTime.IsAfter(peakEnd)
		marked[i] = slot
	}
	return marked
}
