package domain

import (
	"fmt"
	"time"
)

// AvailabilityWindow is an open range a professional can be booked within on a
// single calendar date. Offsets are minutes from midnight, local to the
// business; dates travel as YYYY-MM-DD strings and are never converted through
// a timezone, so a calendar day can't roll over to an adjacent one.
type AvailabilityWindow struct {
	ID             int64     `json:"id"`
	ProfessionalID int64     `json:"professional_id"`
	BusinessID     int64     `json:"business_id"`
	Date           string    `json:"date"`
	StartMinute    int       `json:"start_minute"`
	EndMinute      int       `json:"end_minute"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

type AvailabilityRequest struct {
	Date        string `json:"date"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil && len(s) == 10
}

// ValidTime reports whether s is a well-formed HH:MM time of day.
func ValidTime(s string) bool {
	_, err := MinuteOfDay(s)
	return err == nil
}

// MinuteOfDay converts an HH:MM string to minutes from midnight.
func MinuteOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinute converts minutes from midnight to an HH:MM string.
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
