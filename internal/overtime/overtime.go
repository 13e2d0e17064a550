// Package overtime defines clock-in/out events and the pairing engine
// that turns them into duration-bearing intervals.
package overtime

import (
	"math"
	"time"
)

// Type distinguishes a clock-in from a clock-out.
type Type string

const (
	TypeStart Type = "START"
	TypeEnd   Type = "END"
)

// Log is one overtime event. PairID links the two ends of an interval
// once matched; DurationMinutes is fixed at pairing time and present on
// both ends.
type Log struct {
	ID              string `json:"id"`
	DateISO         string `json:"dateISO"`
	TimeHHMM        string `json:"timeHHmm"`
	Type            Type   `json:"type"`
	Notes           string `json:"notes,omitempty"`
	PairID          string `json:"pairId,omitempty"`
	DurationMinutes *int   `json:"durationMinutes,omitempty"`
}

// Open reports whether the event is a clock-in still waiting for its end.
func (l Log) Open() bool {
	return l.Type == TypeStart && l.PairID == ""
}

// Pair matches a new END event against the set of existing events. A
// same-day open START is preferred; failing that, the most recently
// added open START on any date (a shift the technician forgot to close).
// With no open START at all the END stays unpaired, which is a valid
// terminal state, not an error.
//
// On a match the START is mutated in place: it receives the END's id as
// PairID and the computed duration. The returned copy of the END carries
// the START's id and the same duration.
func Pair(newLog Log, existing []*Log) Log {
	if newLog.Type != TypeEnd {
		return newLog
	}

	var match *Log
	for _, l := range existing {
		if l.Open() && l.DateISO == newLog.DateISO {
			match = l
			break
		}
	}
	if match == nil {
		for i := len(existing) - 1; i >= 0; i-- {
			if existing[i].Open() {
				match = existing[i]
				break
			}
		}
	}
	if match == nil {
		return newLog
	}

	minutes, ok := elapsedMinutes(*match, newLog)
	if !ok {
		return newLog
	}

	match.PairID = newLog.ID
	match.DurationMinutes = &minutes

	paired := newLog
	paired.PairID = match.ID
	duration := minutes
	paired.DurationMinutes = &duration
	return paired
}

func elapsedMinutes(start, end Log) (int, bool) {
	startAt, err := eventTime(start)
	if err != nil {
		return 0, false
	}
	endAt, err := eventTime(end)
	if err != nil {
		return 0, false
	}

	diff := endAt.Sub(startAt)
	if diff < 0 {
		// Shift crossed midnight without an explicit date increment.
		diff += 24 * time.Hour
	}
	return int(math.Round(diff.Minutes())), true
}

func eventTime(l Log) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04", l.DateISO+"T"+l.TimeHHMM, time.Local)
}
