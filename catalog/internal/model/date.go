package model

import (
	"errors"
	"strings"
	"time"
)

// Date is a calendar date encoded as YYYY-MM-DD.
type Date struct {
	time.Time `json:",inline"`
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ErrEmptyDate is returned for a blank date string.
var ErrEmptyDate = errors.New("date must be YYYY-MM-DD, got empty string")

func (d *Date) UnmarshalJSON(b []byte) (err error) {
	if string(b) == "null" {
		return nil
	}
	s := strings.Trim(string(b), "\"")
	if s == "" {
		return ErrEmptyDate
	}
	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = date
	return
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}
