// Package recurrence decides whether a chore is currently performable given
// its frequency and last completion. All functions are pure; callers inject
// the current time.
package recurrence

import (
	"time"

	"github.com/dukerupert/chorequest/internal/model"
)

const fortnight = 14 * 24 * time.Hour

// IsAvailable reports whether the chore can be performed at now.
//
// A chore with no completion is available, except One-off chores which are
// available only before their first completion and never again after it.
// Unrecognized frequencies are unavailable.
func IsAvailable(chore model.Chore, now time.Time) bool {
	if chore.LastCompleted == nil {
		if chore.Frequency == model.FreqSpecificDate {
			return availableOnSpecificDate(chore, now)
		}
		return chore.Frequency.Valid()
	}
	last := *chore.LastCompleted

	switch chore.Frequency {
	case model.FreqDaily, model.FreqPrayer:
		return last.Before(startOfDay(now))
	case model.FreqWeekly:
		return last.Before(startOfWeek(now))
	case model.FreqFortnightly:
		// Rolling window, not calendar-aligned.
		return now.Sub(last) >= fortnight
	case model.FreqSpecificDate:
		if chore.SpecificDate == nil {
			return true
		}
		return sameDay(now, *chore.SpecificDate) && last.Before(startOfDay(*chore.SpecificDate))
	case model.FreqOneOff:
		return false
	default:
		return false
	}
}

func availableOnSpecificDate(chore model.Chore, now time.Time) bool {
	if chore.SpecificDate == nil {
		return true
	}
	return sameDay(now, *chore.SpecificDate)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns local midnight of the most recent Sunday.
func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}
