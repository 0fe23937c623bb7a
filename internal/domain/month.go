package domain

import (
	"fmt"
	"time"
)

// Month identifies a calendar month. The zero value is invalid; construct
// via NewMonth, ParseMonth or MonthOf.
type Month struct {
	Year int
	Mon  time.Month
}

// NewMonth creates a Month from a year and a calendar month.
func NewMonth(year int, mon time.Month) Month {
	return Month{Year: year, Mon: mon}
}

// MonthOf truncates a timestamp to its calendar month (UTC).
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Mon: u.Month()}
}

// ParseMonth parses "YYYY-MM" or a full "YYYY-MM-DD" date, truncating the
// latter to its month.
func ParseMonth(s string) (Month, error) {
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return MonthOf(t), nil
		}
	}
	return Month{}, fmt.Errorf("invalid month %q: want YYYY-MM or YYYY-MM-DD", s)
}

// IsZero reports whether m is the zero value.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Mon == 0
}

// Next returns the immediately following calendar month, irrespective of
// day-of-month or month length.
func (m Month) Next() Month {
	if m.Mon == time.December {
		return Month{Year: m.Year + 1, Mon: time.January}
	}
	return Month{Year: m.Year, Mon: m.Mon + 1}
}

// Prev returns the immediately preceding calendar month. It fails when m
// has no calendar predecessor.
func (m Month) Prev() (Month, error) {
	if m.Year <= 1 && m.Mon == time.January {
		return Month{}, fmt.Errorf("month %s has no calendar predecessor", m)
	}
	if m.Mon == time.January {
		return Month{Year: m.Year - 1, Mon: time.December}, nil
	}
	return Month{Year: m.Year, Mon: m.Mon - 1}, nil
}

// Before reports whether m is strictly earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Mon < other.Mon
}

// After reports whether m is strictly later than other.
func (m Month) After(other Month) bool {
	return other.Before(m)
}

// Time returns the first day of the month at midnight UTC.
func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, time.UTC)
}

// String formats the month as "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}
