package domain_test

import (
	"testing"

	"github.com/agendou/agendou-api/internal/domain"
)

func TestValidDate(t *testing.T) {
	valid := []string{"2025-06-15", "1999-01-01", "2025-12-31"}
	for _, d := range valid {
		if !domain.ValidDate(d) {
			t.Errorf("expected %q to be valid", d)
		}
	}

	invalid := []string{"", "2025-6-15", "15/06/2025", "2025-13-01", "2025-02-30", "2025-06-15T10:00"}
	for _, d := range invalid {
		if domain.ValidDate(d) {
			t.Errorf("expected %q to be invalid", d)
		}
	}
}

func TestMinuteOfDay(t *testing.T) {
	m, err := domain.MinuteOfDay("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != 9*60+30 {
		t.Errorf("expected 570, got %d", m)
	}

	if _, err := domain.MinuteOfDay("9:30am"); err == nil {
		t.Error("expected an error for a non HH:MM value")
	}
}

func TestFormatMinute(t *testing.T) {
	cases := map[int]string{
		0:          "00:00",
		9*60 + 5:   "09:05",
		23*60 + 59: "23:59",
	}
	for minute, want := range cases {
		if got := domain.FormatMinute(minute); got != want {
			t.Errorf("FormatMinute(%d) = %q, want %q", minute, got, want)
		}
	}
}
