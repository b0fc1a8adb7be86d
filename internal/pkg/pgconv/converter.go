package pgconv

import (
	"time"

	"psyconnect/internal/domain/availability"

	"github.com/jackc/pgx/v5/pgtype"
)

// TimeOfDayToPg converts a domain time-of-day to the TIME column encoding
// (microseconds since midnight).
func TimeOfDayToPg(t availability.TimeOfDay) pgtype.Time {
	if t.IsZero() {
		return pgtype.Time{}
	}
	return pgtype.Time{
		Microseconds: int64(t.Minutes()) * 60 * 1_000_000,
		Valid:        true,
	}
}

// TimeOfDayFromPg converts a TIME column value back to the domain form.
// Invalid or out-of-range values come back as the zero TimeOfDay, which the
// slot generator treats as "no slots" rather than an error.
func TimeOfDayFromPg(t pgtype.Time) availability.TimeOfDay {
	if !t.Valid {
		return availability.TimeOfDay{}
	}
	tod, err := availability.TimeOfDayFromMinutes(int(t.Microseconds / (60 * 1_000_000)))
	if err != nil {
		return availability.TimeOfDay{}
	}
	return tod
}

func DateToPg(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}

func DateFromPg(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return d.Time
}

func TimeFromPg(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}
