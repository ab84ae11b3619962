package domain

import (
	"fmt"
	"math"
	"time"
)

// Zone-less layouts are read in the process-local zone.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 timestamps and the common zone-less layouts.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrInvalidDocument, s)
}

// DayWindow returns the inclusive window from the given date up to
// 23:59:59.999 of the same local calendar day. A date without a time of day
// therefore covers the whole day.
func DayWindow(s string) (from, to time.Time, err error) {
	from, err = ParseDate(s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from = from.In(time.Local)
	y, m, d := from.Date()
	to = time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.Local)
	return from, to, nil
}

// NormalizeDates converts the date fields of p into time values so the store can
// range-filter and sort on them. Null values are left alone.
func NormalizeDates(p Project) error {
	for _, field := range []string{FieldStartDate, FieldDate} {
		v, ok := p[field]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case time.Time:
		case string:
			t, err := ParseDate(x)
			if err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
			p[field] = t
		case float64:
			t, err := fromEpochMillis(x)
			if err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
			p[field] = t
		default:
			return fmt.Errorf("%w: %s must be a date", ErrInvalidDocument, field)
		}
	}
	return nil
}

// fromEpochMillis reads epoch milliseconds, as JavaScript clients send
// Date.now(). Years outside 0..9999 cannot be rendered as JSON.
func fromEpochMillis(ms float64) (time.Time, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < math.MinInt64 || ms >= math.MaxInt64 {
		return time.Time{}, fmt.Errorf("%w: epoch millis %v out of range", ErrInvalidDocument, ms)
	}
	t := time.UnixMilli(int64(ms))
	if y := t.Year(); y < 0 || y > 9999 {
		return time.Time{}, fmt.Errorf("%w: epoch millis %v out of range", ErrInvalidDocument, ms)
	}
	return t, nil
}
