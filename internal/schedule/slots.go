// Package schedule computes bookable start times by intersecting a
// professional's availability windows with existing appointments.
package schedule

import (
	"sort"

	"github.com/agendou/agendou-api/internal/domain"
)

// AvailableStartTimes returns the HH:MM start times at which a service of the
// given duration fits inside one of the windows without overlapping any
// non-cancelled booked appointment. Candidates step by the service duration
// from each window's start; the last valid start is the one where
// start+duration still fits the window. Output is ascending and deduplicated.
// An empty result is the normal fully-booked / nothing-configured case, not
// an error.
func AvailableStartTimes(windows []domain.AvailabilityWindow, booked []domain.BookedAppointment, durationMinutes int) []string {
	times := []string{}
	if durationMinutes <= 0 {
		return times
	}

	seen := map[int]bool{}
	starts := []int{}

	for _, w := range windows {
		if !w.Active {
			continue
		}
		for start := w.StartMinute; start+durationMinutes <= w.EndMinute; start += durationMinutes {
			if seen[start] {
				continue
			}
			if overlapsAny(start, durationMinutes, booked) {
				continue
			}
			seen[start] = true
			starts = append(starts, start)
		}
	}

	sort.Ints(starts)
	for _, s := range starts {
		times = append(times, domain.FormatMinute(s))
	}
	return times
}

func overlapsAny(start, duration int, booked []domain.BookedAppointment) bool {
	end := start + duration
	for _, b := range booked {
		if b.Status == domain.AppointmentCancelled {
			continue
		}
		bStart, err := domain.MinuteOfDay(b.Time)
		if err != nil {
			continue
		}
		bEnd := bStart + b.DurationMinutes
		if start < bEnd && bStart < end {
			return true
		}
	}
	return false
}
