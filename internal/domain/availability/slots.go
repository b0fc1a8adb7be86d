package availability

// Slot is a fixed-duration bookable sub-interval of a window. Derived, never
// stored.
type Slot struct {
	start           TimeOfDay
	end             TimeOfDay
	durationMinutes int
}

func (s Slot) Start() TimeOfDay     { return s.start }
func (s Slot) End() TimeOfDay       { return s.end }
func (s Slot) DurationMinutes() int { return s.durationMinutes }

// GenerateSlots tiles a window with contiguous slots of durationMinutes,
// starting at the window start. A slot is emitted only when its full duration
// fits before the window end; a slot ending exactly at the window end is
// included, a partial trailing slot never is.
//
// Windows with missing or malformed times generate no slots rather than
// failing: availability rows come from externally supplied data and an
// unusable window is simply not offered.
func GenerateSlots(w *Window, durationMinutes int) []Slot {
	if w == nil || durationMinutes <= 0 {
		return nil
	}
	start, end := w.Start(), w.End()
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return nil
	}

	var slots []Slot
	for cur := start.Minutes(); cur+durationMinutes <= end.Minutes(); cur += durationMinutes {
		slotStart, _ := TimeOfDayFromMinutes(cur)
		slotEnd, _ := TimeOfDayFromMinutes(cur + durationMinutes)
		slots = append(slots, Slot{
			start:           slotStart,
			end:             slotEnd,
			durationMinutes: durationMinutes,
		})
	}
	return slots
}
