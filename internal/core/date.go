package core

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date at UTC day granularity. The zero value means
// "no date" (unparseable or absent inputs both end up here).
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// ISO formats the date as YYYY-MM-DD using UTC components.
func (d Date) ISO() string {
	return d.Time.UTC().Format("2006-01-02")
}

// MonthKey returns the calendar month the date falls in.
func (d Date) MonthKey() MonthKey {
	u := d.Time.UTC()
	return MonthKey{Year: u.Year(), Month: u.Month()}
}

// serialEpoch is the day-zero of spreadsheet serial date numbering.
// 1899-12-30 rather than 1899-12-31 because the original 1900 numbering
// counts a leap day that never existed.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// fallbackLayouts are tried last, mirroring the loose parsing uploads get
// in practice (exported files mix locales and time-of-day suffixes).
var fallbackLayouts = []string{
	time.RFC3339,
	"2006/01/02",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// NormalizeDate converts a heterogeneous scalar (spreadsheet serial number,
// ISO string, D/M/Y or D-M-Y string) into a canonical UTC calendar date.
// The second return is false when the value is unparseable; callers skip
// the record instead of failing the whole file.
func NormalizeDate(v any) (Date, bool) {
	switch x := v.(type) {
	case nil:
		return Date{}, false
	case float64:
		return fromSerial(x)
	case float32:
		return fromSerial(float64(x))
	case int:
		return fromSerial(float64(x))
	case int64:
		return fromSerial(float64(x))
	case string:
		return normalizeDateString(x)
	case time.Time:
		if x.IsZero() {
			return Date{}, false
		}
		return DateOf(x), true
	default:
		return Date{}, false
	}
}

func fromSerial(serial float64) (Date, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial <= 0 {
		return Date{}, false
	}
	// Round to the nearest whole day so fractional-day noise around
	// midnight cannot truncate to the wrong date.
	days := int(math.Round(serial))
	return DateOf(serialEpoch.AddDate(0, 0, days)), true
}

func normalizeDateString(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}

	// Raw cell values from workbooks arrive as numeric strings.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(serial)
	}

	// ISO calendar date, ignoring any time-of-day suffix.
	if isISOPrefix(s) {
		t, err := time.Parse("2006-01-02", s[:10])
		if err != nil {
			return Date{}, false
		}
		return DateOf(t), true
	}

	// Exactly three numeric parts separated by - or / are read as
	// day-month-year when the last part is a plausible 4-digit year.
	if d, ok := fromDayMonthYear(s); ok {
		return d, true
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true
		}
	}
	return Date{}, false
}

func isISOPrefix(s string) bool {
	if len(s) < 10 {
		return false
	}
	for i := 0; i < 10; i++ {
		switch {
		case i == 4 || i == 7:
			if s[i] != '-' {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}

func fromDayMonthYear(s string) (Date, bool) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '/' })
	if len(parts) != 3 {
		return Date{}, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Date{}, false
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	if year <= 1900 || len(strings.TrimSpace(parts[2])) != 4 {
		return Date{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, false
	}
	return NewDate(year, time.Month(month), day), true
}
