// Package datemath implements the date arithmetic of the calculator:
// differences, weekdays, shifting, age, month calendars, leap years and
// working-day counts. All functions are pure and operate on civil dates.
package datemath

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ISOLayout is the only accepted textual date format.
const ISOLayout = "2006-01-02"

// DisplayLayout is the dd.mm.yyyy form shown to users.
const DisplayLayout = "02.01.2006"

// ErrInvalidArgument is returned for arguments outside their domain,
// such as month 13 or a range whose start is after its end.
var ErrInvalidArgument = errors.New("invalid argument")

var errFormat = errors.New("expected YYYY-MM-DD")

var isoPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateParseError reports a string that is not a valid ISO date.
type DateParseError struct {
	// Input is the offending string.
	Input string
	// Err is the cause.
	Err error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("parse date %q: %v", e.Input, e.Err)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// Value is anything a date can be taken from: an ISO string or a time.Time.
type Value interface {
	string | time.Time
}

// Parse converts an ISO YYYY-MM-DD string to a civil date at UTC midnight.
func Parse(s string) (time.Time, error) {
	if !isoPattern.MatchString(s) {
		return time.Time{}, &DateParseError{Input: s, Err: errFormat}
	}
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return time.Time{}, &DateParseError{Input: s, Err: err}
	}
	return t, nil
}

// toDate normalizes v to UTC midnight of its civil date.
func toDate[T Value](v T) (time.Time, error) {
	switch d := any(v).(type) {
	case string:
		return Parse(d)
	case time.Time:
		return civil(d), nil
	}
	panic("unreachable")
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayNumber counts days since the Unix epoch for a UTC midnight date.
func dayNumber(t time.Time) int64 {
	return t.Unix() / 86400
}
