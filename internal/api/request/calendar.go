package request

import (
	"fmt"
	"time"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/apperrors"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// ParseCalendarRange resolves the calendar query parameters to an inclusive
// day range in UTC. Exactly one form may be used:
//   - date: a single day (YYYY-MM-DD)
//   - month: a whole month (YYYY-MM)
//   - start and end: an explicit range (YYYY-MM-DD), start not after end
//
// With no parameters the month containing now is used.
func ParseCalendarRange(dateParam, monthParam, startParam, endParam string, now time.Time) (time.Time, time.Time, error) {
	forms := 0
	for _, set := range []bool{dateParam != "", monthParam != "", startParam != "" || endParam != ""} {
		if set {
			forms++
		}
	}
	if forms > 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: use only one of date, month or start/end", apperrors.ErrInvalidDateRange)
	}

	switch {
	case dateParam != "":
		day, err := time.Parse(dayLayout, dateParam)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", dateParam)
		}
		return day, day, nil

	case monthParam != "":
		month, err := time.Parse(monthLayout, monthParam)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: expected YYYY-MM", monthParam)
		}
		return monthBounds(month)

	case startParam != "" || endParam != "":
		if startParam == "" || endParam == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start and end are both required", apperrors.ErrInvalidDateRange)
		}
		start, err := time.Parse(dayLayout, startParam)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start %q: expected YYYY-MM-DD", startParam)
		}
		end, err := time.Parse(dayLayout, endParam)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end %q: expected YYYY-MM-DD", endParam)
		}
		if start.After(end) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start %s is after end %s", apperrors.ErrInvalidDateRange, startParam, endParam)
		}
		return start, end, nil

	default:
		y, m, _ := now.UTC().Date()
		return monthBounds(time.Date(y, m, 1, 0, 0, 0, 0, time.UTC))
	}
}

func monthBounds(first time.Time) (time.Time, time.Time, error) {
	return first, first.AddDate(0, 1, -1), nil
}
