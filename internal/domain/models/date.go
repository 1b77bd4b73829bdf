package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates (ISO-8601, no time of day).
const DateLayout = "2006-01-02"

// ErrMalformedDate is returned when a date string is not a valid calendar date.
// It is the only input error the report operations propagate to their callers.
var ErrMalformedDate = errors.New("malformed date")

// Date is a calendar date without a time-of-day component.
//
// The underlying time is always normalized to midnight UTC so that two Dates
// for the same day compare equal with ==, Before and After.
type Date struct {
	t time.Time
}

// NewDate builds a Date from its year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string into a Date.
//
// Errors wrap ErrMalformedDate so callers can branch with errors.Is.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrMalformedDate, s)
	}
	return Date{t: t}, nil
}

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time { return d.t }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) After(o Date) bool { return d.t.After(o.t) }

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

func (d Date) String() string { return d.t.Format(DateLayout) }

// MarshalJSON renders the date as "YYYY-MM-DD", or null for the zero Date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" and, for upstreams that serialize full
// timestamps, an RFC 3339 value whose date part is kept.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	if len(s) > len(DateLayout) {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			*d = DateOf(ts)
			return nil
		}
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = DateOf(v)
	case string:
		return d.UnmarshalJSON([]byte(v))
	case []byte:
		return d.UnmarshalJSON(v)
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.t, nil
}

// DateRange is an inclusive [Start, End] window of calendar dates.
type DateRange struct {
	Start Date
	End   Date
}

// ParseDateRange parses both bounds. A range whose start is after its end is
// valid and simply contains no dates.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("start: %w", err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("end: %w", err)
	}
	return DateRange{Start: s, End: e}, nil
}

// Contains reports whether d >= Start and d <= End.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}
