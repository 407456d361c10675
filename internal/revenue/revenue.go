// Package revenue folds a professional's completed appointments into totals
// grouped by service, calendar date and month.
package revenue

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agendou/agendou-api/internal/domain"
)

type LineItem struct {
	AppointmentID int64  `json:"appointment_id"`
	ServiceName   string `json:"service_name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	PriceCents    int64  `json:"price_cents"`
}

type ServiceTotal struct {
	ServiceName string `json:"service_name"`
	Count       int    `json:"count"`
	TotalCents  int64  `json:"total_cents"`
}

type DateTotal struct {
	Date       string `json:"date"`
	Count      int    `json:"count"`
	TotalCents int64  `json:"total_cents"`
}

// MonthTotal groups by MM/YYYY.
type MonthTotal struct {
	Month      string `json:"month"`
	Count      int    `json:"count"`
	TotalCents int64  `json:"total_cents"`
}

type Summary struct {
	TotalCents int64          `json:"total_cents"`
	Count      int            `json:"count"`
	ByService  []ServiceTotal `json:"by_service"`
	ByDate     []DateTotal    `json:"by_date"`
	ByMonth    []MonthTotal   `json:"by_month"`
	Items      []LineItem     `json:"items"`
}

// Summarize aggregates DONE appointments with date >= periodStart. Dates are
// YYYY-MM-DD strings, so the period cutoff is a plain string comparison.
func Summarize(appointments []domain.BookedAppointment, periodStart string) Summary {
	s := Summary{
		ByService: []ServiceTotal{},
		ByDate:    []DateTotal{},
		ByMonth:   []MonthTotal{},
		Items:     []LineItem{},
	}

	byService := map[string]*ServiceTotal{}
	byDate := map[string]*DateTotal{}
	byMonth := map[string]*MonthTotal{}

	for _, a := range appointments {
		if a.Status != domain.AppointmentDone || a.Date < periodStart {
			continue
		}

		s.TotalCents += a.PriceCents
		s.Count++
		s.Items = append(s.Items, LineItem{
			AppointmentID: a.ID,
			ServiceName:   a.ServiceName,
			Date:          a.Date,
			Time:          a.Time,
			PriceCents:    a.PriceCents,
		})

		if t, ok := byService[a.ServiceName]; ok {
			t.Count++
			t.TotalCents += a.PriceCents
		} else {
			byService[a.ServiceName] = &ServiceTotal{ServiceName: a.ServiceName, Count: 1, TotalCents: a.PriceCents}
		}

		if t, ok := byDate[a.Date]; ok {
			t.Count++
			t.TotalCents += a.PriceCents
		} else {
			byDate[a.Date] = &DateTotal{Date: a.Date, Count: 1, TotalCents: a.PriceCents}
		}

		month := monthKey(a.Date)
		if t, ok := byMonth[month]; ok {
			t.Count++
			t.TotalCents += a.PriceCents
		} else {
			byMonth[month] = &MonthTotal{Month: month, Count: 1, TotalCents: a.PriceCents}
		}
	}

	for _, t := range byService {
		s.ByService = append(s.ByService, *t)
	}
	sort.Slice(s.ByService, func(i, j int) bool { return s.ByService[i].ServiceName < s.ByService[j].ServiceName })

	for _, t := range byDate {
		s.ByDate = append(s.ByDate, *t)
	}
	sort.Slice(s.ByDate, func(i, j int) bool { return s.ByDate[i].Date < s.ByDate[j].Date })

	for _, t := range byMonth {
		s.ByMonth = append(s.ByMonth, *t)
	}
	// MM/YYYY strings misorder across year boundaries, so sort numerically.
	sort.Slice(s.ByMonth, func(i, j int) bool {
		yi, mi := splitMonth(s.ByMonth[i].Month)
		yj, mj := splitMonth(s.ByMonth[j].Month)
		if yi != yj {
			return yi < yj
		}
		return mi < mj
	})

	sort.Slice(s.Items, func(i, j int) bool {
		if s.Items[i].Date != s.Items[j].Date {
			return s.Items[i].Date < s.Items[j].Date
		}
		return s.Items[i].Time < s.Items[j].Time
	})

	return s
}

// PeriodStart maps a period shorthand to its first included date.
// day -> start of the current day, month -> first of the current month,
// year -> Jan 1 of the current year, all (or anything else) -> the epoch.
func PeriodStart(period string, now time.Time) string {
	switch period {
	case "day", "dia":
		return now.Format("2006-01-02")
	case "month", "mes":
		return fmt.Sprintf("%04d-%02d-01", now.Year(), int(now.Month()))
	case "year", "ano":
		return fmt.Sprintf("%04d-01-01", now.Year())
	default:
		return "1970-01-01"
	}
}

func monthKey(date string) string {
	// date is YYYY-MM-DD
	if len(date) < 7 {
		return date
	}
	return date[5:7] + "/" + date[0:4]
}

func splitMonth(month string) (year, m int) {
	parts := strings.SplitN(month, "/", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	m, _ = strconv.Atoi(parts[0])
	year, _ = strconv.Atoi(parts[1])
	return year, m
}
