package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/atinyakov/GophDate/internal/datemath"
	"github.com/atinyakov/GophDate/internal/holiday"
	"github.com/atinyakov/GophDate/internal/locale"
	"github.com/atinyakov/GophDate/internal/models"
)

// NotSavedError is returned together with a valid result when the
// calculation succeeded but could not be added to the history.
type NotSavedError struct {
	Err error
}

func (e *NotSavedError) Error() string {
	return fmt.Sprintf("calculation not saved to history: %v", e.Err)
}

func (e *NotSavedError) Unwrap() error {
	return e.Err
}

// Calculator runs date calculations and records each successful one in the
// history of the calling user. When only the save fails, methods return the
// result along with a *NotSavedError.
type Calculator struct {
	gw       *Gateway
	loc      locale.Locale
	holidays *holiday.Calculator
}

// NewCalculator returns a Calculator that answers in loc and saves through gw.
func NewCalculator(gw *Gateway, loc locale.Locale) *Calculator {
	return &Calculator{gw: gw, loc: loc, holidays: holiday.New(loc)}
}

// Locale is the display language of results.
func (c *Calculator) Locale() locale.Locale {
	return c.loc
}

// Today is the current civil date.
func (c *Calculator) Today() time.Time {
	return c.gw.now()
}

func (c *Calculator) record(ctx context.Context, userID int64, typ, input, result string) error {
	if err := c.gw.SaveCalculation(ctx, userID, typ, input, result); err != nil {
		return &NotSavedError{Err: err}
	}
	return nil
}

func (c *Calculator) uk() bool {
	return c.loc == locale.Ukrainian
}

// Difference computes the distance between two ISO dates.
func (c *Calculator) Difference(ctx context.Context, userID int64, a, b string) (datemath.Diff, error) {
	d, err := datemath.Difference(a, b)
	if err != nil {
		return d, err
	}
	return d, c.record(ctx, userID, models.Difference, a+" - "+b, datemath.FormatDays(d.TotalDays, c.loc))
}

// Weekday names the day of the week of an ISO date.
func (c *Calculator) Weekday(ctx context.Context, userID int64, date string) (datemath.Weekday, error) {
	w, err := datemath.DayOfWeek(date, c.loc)
	if err != nil {
		return w, err
	}
	return w, c.record(ctx, userID, models.Weekday, date, w.Name)
}

// AddDays shifts an ISO date by n days; n may be negative.
func (c *Calculator) AddDays(ctx context.Context, userID int64, date string, n int) (datemath.Shifted, error) {
	s, err := datemath.AddDays(date, n, c.loc)
	if err != nil {
		return s, err
	}
	input := fmt.Sprintf("%s %+d days", date, n)
	if c.uk() {
		input = fmt.Sprintf("%s %+d днів", date, n)
	}
	return s, c.record(ctx, userID, models.Shift, input, s.NewDate)
}

// Age computes the age of someone born on birth as of today.
func (c *Calculator) Age(ctx context.Context, userID int64, birth string) (datemath.Age, error) {
	a, err := datemath.AgeAt(birth, c.Today())
	if err != nil {
		return a, err
	}
	return a, c.record(ctx, userID, models.AgeCalc, birth, datemath.FormatYears(a.Years, c.loc))
}

// Calendar lays out a month.
func (c *Calculator) Calendar(ctx context.Context, userID int64, year, month int) (datemath.Month, error) {
	m, err := datemath.CalendarMonth(year, month, c.loc)
	if err != nil {
		return m, err
	}
	return m, c.record(ctx, userID, models.Calendar, fmt.Sprintf("%d/%d", month, year), fmt.Sprintf("%s %d", m.Name, year))
}

// LeapYear reports whether year is a leap year.
func (c *Calculator) LeapYear(ctx context.Context, userID int64, year int) (bool, error) {
	leap := datemath.IsLeapYear(year)
	result := map[bool]string{true: "leap", false: "not leap"}
	if c.uk() {
		result = map[bool]string{true: "високосний", false: "не високосний"}
	}
	return leap, c.record(ctx, userID, models.LeapYear, strconv.Itoa(year), result[leap])
}

// WorkingDays counts weekdays and weekend days between two ISO dates inclusive.
func (c *Calculator) WorkingDays(ctx context.Context, userID int64, start, end string) (datemath.WorkDays, error) {
	w, err := datemath.WorkingDays(start, end)
	if err != nil {
		return w, err
	}
	result := fmt.Sprintf("%d working days", w.WorkingDays)
	if c.uk() {
		result = fmt.Sprintf("%d робочих днів", w.WorkingDays)
	}
	return w, c.record(ctx, userID, models.WorkingDays, start+" - "+end, result)
}

// CheckHoliday reports whether an ISO date is a holiday and names it.
func (c *Calculator) CheckHoliday(ctx context.Context, userID int64, date string) (bool, string, error) {
	ok, name, err := c.holidays.Check(date)
	if err != nil {
		return false, "", err
	}
	result := name
	if !ok {
		result = "not a holiday"
		if c.uk() {
			result = "не свято"
		}
	}
	return ok, name, c.record(ctx, userID, models.Holiday, date, result)
}

// Holidays lists the holidays of year in date order. Listings are not recorded.
func (c *Calculator) Holidays(year int) []holiday.Holiday {
	return c.holidays.InYear(year)
}
