package domain

import (
	"fmt"
	"time"
)

// Period is one evaluation cycle. Cycles run from the 26th of one month
// through the 25th of the next; an anchor date on or after the 26th
// belongs to the cycle that starts that month.
type Period struct {
	Start time.Time
	End   time.Time
}

const anchorLayout = "2006-01-02"

// PeriodFromAnchor resolves the cycle containing the anchor date.
func PeriodFromAnchor(anchorISO string) (Period, error) {
	anchor, err := time.ParseInLocation(anchorLayout, anchorISO, time.Local)
	if err != nil {
		return Period{}, fmt.Errorf("invalid anchor date %q: %w", anchorISO, err)
	}

	year, month, day := anchor.Year(), anchor.Month(), anchor.Day()
	var start, end time.Time
	if day >= 26 {
		start = time.Date(year, month, 26, 0, 0, 0, 0, time.Local)
		end = time.Date(year, month+1, 25, 23, 59, 59, 0, time.Local)
	} else {
		start = time.Date(year, month-1, 26, 0, 0, 0, 0, time.Local)
		end = time.Date(year, month, 25, 23, 59, 59, 0, time.Local)
	}
	return Period{Start: start, End: end}, nil
}

// ShiftAnchor moves an anchor into the previous (-1) or next (+1) cycle
// and returns the new anchor date.
func ShiftAnchor(anchorISO string, direction int) (string, error) {
	period, err := PeriodFromAnchor(anchorISO)
	if err != nil {
		return "", err
	}
	shifted := period.Start
	if direction < 0 {
		shifted = shifted.AddDate(0, 0, -1)
	} else {
		shifted = shifted.AddDate(0, 0, 35)
	}
	return shifted.Format(anchorLayout), nil
}

// Contains reports whether a calendar date (YYYY-MM-DD) falls inside the
// period.
func (p Period) Contains(dateISO string) bool {
	d, err := time.ParseInLocation(anchorLayout, dateISO, time.Local)
	if err != nil {
		return false
	}
	return !d.Before(p.Start) && !d.After(p.End)
}
