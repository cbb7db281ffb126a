package datemath

import (
	"fmt"
	"time"

	"cloudeng.io/datetime"

	"github.com/atinyakov/GophDate/internal/locale"
)

// Diff is the distance between two dates.
//
// Years, Months and Days are an approximation using 365-day years and
// 30-day months. They do not follow real calendar boundaries: 2024-01-01 to
// 2025-01-01 is 366 days, reported as 1 year 0 months 1 day.
type Diff struct {
	TotalDays int `json:"total_days"`
	Years     int `json:"years"`
	Months    int `json:"months"`
	Days      int `json:"days"`
	Weeks     int `json:"weeks"`
}

// Difference returns the absolute distance between a and b.
func Difference[A, B Value](a A, b B) (Diff, error) {
	da, err := toDate(a)
	if err != nil {
		return Diff{}, err
	}
	db, err := toDate(b)
	if err != nil {
		return Diff{}, err
	}
	total := int(dayNumber(db) - dayNumber(da))
	if total < 0 {
		total = -total
	}
	return decompose(total), nil
}

func decompose(total int) Diff {
	rest := total % 365
	return Diff{
		TotalDays: total,
		Years:     total / 365,
		Months:    rest / 30,
		Days:      rest % 30,
		Weeks:     total / 7,
	}
}

// Weekday describes the day of the week of a date.
type Weekday struct {
	Name string `json:"day_name"`
	// Number is 1 for Monday through 7 for Sunday.
	Number    int  `json:"day_number"`
	IsWeekend bool `json:"is_weekend"`
}

// DayOfWeek returns the weekday of d with its name in loc.
func DayOfWeek[T Value](d T, loc locale.Locale) (Weekday, error) {
	t, err := toDate(d)
	if err != nil {
		return Weekday{}, err
	}
	return weekdayOf(t, loc), nil
}

func weekdayOf(t time.Time, loc locale.Locale) Weekday {
	wd := t.Weekday()
	return Weekday{
		Name:      loc.Weekday(wd),
		Number:    isoWeekday(wd),
		IsWeekend: wd == time.Saturday || wd == time.Sunday,
	}
}

func isoWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// Shifted is the result of moving a date by a number of days.
type Shifted struct {
	Date      time.Time `json:"-"`
	NewDate   string    `json:"new_date"`
	DayName   string    `json:"day_of_week"`
	Formatted string    `json:"formatted_date"`
}

// AddDays moves d by n days; negative n subtracts.
func AddDays[T Value](d T, n int, loc locale.Locale) (Shifted, error) {
	t, err := toDate(d)
	if err != nil {
		return Shifted{}, err
	}
	nt := t.AddDate(0, 0, n)
	return Shifted{
		Date:      nt,
		NewDate:   nt.Format(ISOLayout),
		DayName:   loc.Weekday(nt.Weekday()),
		Formatted: nt.Format(DisplayLayout),
	}, nil
}

// Age describes how old someone born on a given date is.
type Age struct {
	Years          int `json:"age_years"`
	DaysToBirthday int `json:"days_to_birthday"`
	TotalDaysLived int `json:"total_days_lived"`
}

// AgeAt computes the age on today of someone born on birth.
//
// A Feb 29 birthday is celebrated on Mar 1 in non-leap years, both for the
// year count and for the days until the next birthday. A birthday that falls
// on today yields DaysToBirthday == 0.
func AgeAt[A, B Value](birth A, today B) (Age, error) {
	b, err := toDate(birth)
	if err != nil {
		return Age{}, err
	}
	now, err := toDate(today)
	if err != nil {
		return Age{}, err
	}
	if b.After(now) {
		return Age{}, fmt.Errorf("%w: birth date %s is after %s",
			ErrInvalidArgument, b.Format(ISOLayout), now.Format(ISOLayout))
	}

	next := birthdayIn(b, now.Year())
	years := now.Year() - b.Year()
	if now.Before(next) {
		years--
	} else if next.Before(now) {
		next = birthdayIn(b, now.Year()+1)
	}

	return Age{
		Years:          years,
		DaysToBirthday: int(dayNumber(next) - dayNumber(now)),
		TotalDaysLived: int(dayNumber(now) - dayNumber(b)),
	}, nil
}

// birthdayIn returns the birthday of b in year; time.Date rolls Feb 29 into Mar 1.
func birthdayIn(b time.Time, year int) time.Time {
	return time.Date(year, b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
}

// Month is a rendered month calendar.
type Month struct {
	Year int `json:"year"`
	// Grid holds one row per week, Monday first; 0 marks cells outside the month.
	Grid        [][7]int `json:"calendar"`
	Name        string   `json:"month_name"`
	DaysInMonth int      `json:"days_in_month"`
}

// CalendarMonth renders month of year. month must be within 1..12.
func CalendarMonth(year, month int, loc locale.Locale) (Month, error) {
	if month < 1 || month > 12 {
		return Month{}, fmt.Errorf("%w: month %d outside 1..12", ErrInvalidArgument, month)
	}
	days := int(datetime.DaysInMonth(year, datetime.Month(month)))
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	var grid [][7]int
	var week [7]int
	col := isoWeekday(first.Weekday()) - 1
	for day := 1; day <= days; day++ {
		week[col] = day
		col++
		if col == 7 {
			grid = append(grid, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		grid = append(grid, week)
	}

	return Month{
		Year:        year,
		Grid:        grid,
		Name:        loc.Month(time.Month(month)),
		DaysInMonth: days,
	}, nil
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return datetime.IsLeap(year)
}

// WorkDays counts the days of an inclusive date range.
type WorkDays struct {
	WorkingDays int `json:"working_days"`
	WeekendDays int `json:"weekend_days"`
	TotalDays   int `json:"total_days"`
}

// WorkingDays counts Monday through Friday within [start, end], both ends
// included. A start after end is rejected rather than swapped.
func WorkingDays[A, B Value](start A, end B) (WorkDays, error) {
	s, err := toDate(start)
	if err != nil {
		return WorkDays{}, err
	}
	e, err := toDate(end)
	if err != nil {
		return WorkDays{}, err
	}
	if s.After(e) {
		return WorkDays{}, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidArgument, s.Format(ISOLayout), e.Format(ISOLayout))
	}

	total := int(dayNumber(e)-dayNumber(s)) + 1
	working := (total / 7) * 5
	wd := isoWeekday(s.Weekday())
	for i := 0; i < total%7; i++ {
		if (wd-1+i)%7 < 5 {
			working++
		}
	}
	return WorkDays{
		WorkingDays: working,
		WeekendDays: total - working,
		TotalDays:   total,
	}, nil
}
