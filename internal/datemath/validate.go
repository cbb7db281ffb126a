package datemath

import "time"

// IsValidFormat reports whether s looks like YYYY-MM-DD, without checking ranges.
func IsValidFormat(s string) bool {
	return isoPattern.MatchString(s)
}

// IsValidDate reports whether s is an existing calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// IsFuture reports whether s is a valid date after today.
func IsFuture(s string, today time.Time) bool {
	t, err := Parse(s)
	return err == nil && t.After(civil(today))
}

// IsPast reports whether s is a valid date before today.
func IsPast(s string, today time.Time) bool {
	t, err := Parse(s)
	return err == nil && t.Before(civil(today))
}
