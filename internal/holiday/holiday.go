// Package holiday computes public holidays: a fixed civil and religious table
// plus Orthodox Easter, which moves every year.
package holiday

import (
	"sort"
	"time"

	"github.com/atinyakov/GophDate/internal/datemath"
	"github.com/atinyakov/GophDate/internal/locale"
)

// Holiday is a dated holiday of a particular year.
type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

type monthDay struct {
	month time.Month
	day   int
}

var fixed = []struct {
	at  monthDay
	key locale.HolidayKey
}{
	{monthDay{time.January, 1}, locale.NewYear},
	{monthDay{time.January, 7}, locale.OrthodoxChristmas},
	{monthDay{time.March, 8}, locale.WomensDay},
	{monthDay{time.May, 1}, locale.LabourDay},
	{monthDay{time.May, 9}, locale.VictoryDay},
	{monthDay{time.June, 28}, locale.ConstitutionDay},
	{monthDay{time.August, 24}, locale.IndependenceDay},
	{monthDay{time.October, 14}, locale.DefendersDay},
	{monthDay{time.December, 25}, locale.CatholicChristmas},
}

// Calculator answers holiday questions with names in Locale.
type Calculator struct {
	Locale locale.Locale
}

// New returns a Calculator naming holidays in loc.
func New(loc locale.Locale) *Calculator {
	return &Calculator{Locale: loc}
}

// MovableHoliday returns the Gregorian date of Orthodox Easter in year.
//
// Easter is first found in the Julian calendar and then shifted by the
// Julian-Gregorian gap of that century: 13 days for 1900-2099, 14 for
// 2100-2199, 12 for 1800-1899.
func MovableHoliday(year int) time.Time {
	a := year % 19
	b := year % 4
	c := year % 7
	d := (19*a + 15) % 30
	e := (2*b + 4*c + 6*d + 6) % 7

	month, day := time.March, d+e+22
	if d+e >= 10 {
		month, day = time.April, d+e-9
	}
	return time.Date(year, month, day+julianOffset(year), 0, 0, 0, 0, time.UTC)
}

// julianOffset is the number of days the Julian calendar lags behind the
// Gregorian one between March 1 of a century year and the next.
func julianOffset(year int) int {
	return year/100 - year/400 - 2
}

// IsHoliday reports whether d is a holiday and returns its name.
func (c *Calculator) IsHoliday(d time.Time) (bool, string) {
	y, m, day := d.Date()
	for _, f := range fixed {
		if f.at.month == m && f.at.day == day {
			return true, c.Locale.Holiday(f.key)
		}
	}
	easter := MovableHoliday(y)
	if easter.Month() == m && easter.Day() == day {
		return true, c.Locale.Holiday(locale.OrthodoxEaster)
	}
	return false, ""
}

// Check parses an ISO date and reports whether it is a holiday.
func (c *Calculator) Check(s string) (bool, string, error) {
	d, err := datemath.Parse(s)
	if err != nil {
		return false, "", err
	}
	ok, name := c.IsHoliday(d)
	return ok, name, nil
}

// InYear lists every holiday of year sorted by date.
func (c *Calculator) InYear(year int) []Holiday {
	out := make([]Holiday, 0, len(fixed)+1)
	for _, f := range fixed {
		out = append(out, Holiday{
			Date: time.Date(year, f.at.month, f.at.day, 0, 0, 0, 0, time.UTC),
			Name: c.Locale.Holiday(f.key),
		})
	}
	out = append(out, Holiday{Date: MovableHoliday(year), Name: c.Locale.Holiday(locale.OrthodoxEaster)})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
