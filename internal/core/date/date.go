// Package date holds a calendar date without a time component and the
// calendar-month helpers used by reporting.
package date

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	Layout      = "2006-01-02"
	MonthLayout = "Jan 2006"
)

// Date is a calendar day. The embedded time is always midnight UTC.
type Date struct {
	time.Time
}

func New(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Of returns the calendar day t falls on in t's own location.
func Of(t time.Time) Date {
	y, m, d := t.Date()
	return New(y, m, d)
}

func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Of(t), nil
}

func (d Date) String() string {
	return d.Format(Layout)
}

// Next is the following calendar day.
func (d Date) Next() Date {
	return Date{Time: d.AddDate(0, 0, 1)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid date %s: expected a YYYY-MM-DD string", data)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ValidMonth reports whether month is 1..12.
func ValidMonth(month int) bool {
	return month >= 1 && month <= 12
}

// MonthStart is the first day of the given month.
func MonthStart(year int, month time.Month) Date {
	return New(year, month, 1)
}

// MonthRange returns the half-open window [first day, first day of next month).
func MonthRange(year int, month time.Month) (Date, Date) {
	start := MonthStart(year, month)
	return start, Date{Time: start.AddDate(0, 1, 0)}
}

// MonthsBefore returns the year and month that lies n calendar months before
// the month containing t. Working from the first of the month keeps
// AddDate from normalising e.g. March 31 minus one month into March 3.
func MonthsBefore(t time.Time, n int) (int, time.Month) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -n, 0)
	return first.Year(), first.Month()
}

// MonthLabel formats a month as "Jun 2025".
func MonthLabel(year int, month time.Month) string {
	return MonthStart(year, month).Format(MonthLayout)
}
