package availability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
)

const minutesPerDay = 24 * 60

// TimeOfDay is a clock time within one calendar day, normalized to minutes
// since midnight. Availability rows arrive as "HH:MM:SS" strings from
// external sources; keeping the internal representation numeric means slot
// matching never depends on string formatting.
type TimeOfDay struct {
	minutes int
	valid   bool
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: hour*60 + minute, valid: true}, nil
}

// ParseTimeOfDay accepts "HH:MM:SS" and "HH:MM". Seconds are truncated:
// consultation times are minute-grained.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	if len(parts) == 3 {
		sec, secErr := strconv.Atoi(parts[2])
		if secErr != nil || sec < 0 || sec > 59 {
			return TimeOfDay{}, ErrInvalidTimeOfDay
		}
	}

	return NewTimeOfDay(hour, minute)
}

// TimeOfDayFromMinutes reconstructs a value from its canonical integer form.
func TimeOfDayFromMinutes(minutes int) (TimeOfDay, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: minutes, valid: true}, nil
}

func (t TimeOfDay) IsZero() bool {
	return !t.valid
}

func (t TimeOfDay) Minutes() int {
	return t.minutes
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.minutes < other.minutes
}

func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.valid == other.valid && t.minutes == other.minutes
}

// String renders the canonical zero-padded "HH:MM:SS" form used at the
// presentation boundary.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:00", t.minutes/60, t.minutes%60)
}
