package data

import (
	"encoding/json"
	"time"
)

const DateFormat string = "2006-01-02"

// Date is a calendar date without a time component, it's serialized
// as YYYY-MM-DD
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateFromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateFormat)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateFormat))
}

func (d *Date) UnmarshalJSON(bytes []byte) error {
	var s string

	if string(bytes) == "null" {
		*d = Date{}
		return nil
	}
	if err := json.Unmarshal(bytes, &s); err != nil {
		return err
	}
	date, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = date
	return nil
}

// YearsBetween returns the number of whole years elapsed between two
// points in time regardless of their order
func YearsBetween(from, to time.Time) int {
	if from.After(to) {
		from, to = to, from
	}
	years := to.Year() - from.Year()
	if to.Month() < from.Month() ||
		(to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}
