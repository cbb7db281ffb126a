// Package locale holds the display names used by the date calculator.
package locale

import (
	"fmt"
	"strings"
	"time"
)

// Locale selects the language of weekday, month and holiday names.
type Locale string

const (
	// English is the default locale.
	English Locale = "en"
	// Ukrainian mirrors the names of the original desktop application.
	Ukrainian Locale = "uk"
)

// Parse maps a language tag such as "uk_UA" or "en-US" to a Locale.
func Parse(tag string) (Locale, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	switch {
	case tag == "":
		return English, nil
	case strings.HasPrefix(tag, "en"):
		return English, nil
	case strings.HasPrefix(tag, "uk"):
		return Ukrainian, nil
	}
	return "", fmt.Errorf("unsupported locale %q", tag)
}

var weekdays = map[Locale][7]string{
	English:   {"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
	Ukrainian: {"Понеділок", "Вівторок", "Середа", "Четвер", "П'ятниця", "Субота", "Неділя"},
}

// two-letter column heads of a month grid, Monday first
var weekdaysShort = map[Locale][7]string{
	English:   {"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"},
	Ukrainian: {"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Нд"},
}

var months = map[Locale][12]string{
	English: {"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	Ukrainian: {"Січень", "Лютий", "Березень", "Квітень", "Травень", "Червень",
		"Липень", "Серпень", "Вересень", "Жовтень", "Листопад", "Грудень"},
}

// genitive month forms, used in "8 березня 2024 року"
var monthsGenitive = [12]string{"січня", "лютого", "березня", "квітня", "травня", "червня",
	"липня", "серпня", "вересня", "жовтня", "листопада", "грудня"}

func (l Locale) normalize() Locale {
	if l == Ukrainian {
		return Ukrainian
	}
	return English
}

// Weekday returns the name of wd. Monday is the first day of the week.
func (l Locale) Weekday(wd time.Weekday) string {
	return weekdays[l.normalize()][(int(wd)+6)%7]
}

// WeekHeader returns short weekday names, Monday first.
func (l Locale) WeekHeader() [7]string {
	return weekdaysShort[l.normalize()]
}

// Month returns the nominative name of m.
func (l Locale) Month(m time.Month) string {
	return months[l.normalize()][m-1]
}

// MonthGenitive returns the form of m used inside a full date.
func (l Locale) MonthGenitive(m time.Month) string {
	if l.normalize() == Ukrainian {
		return monthsGenitive[m-1]
	}
	return months[English][m-1]
}

// HolidayKey identifies a holiday independently of its display name.
type HolidayKey string

// Holidays known to the calculator.
const (
	NewYear           HolidayKey = "new_year"
	OrthodoxChristmas HolidayKey = "orthodox_christmas"
	WomensDay         HolidayKey = "womens_day"
	LabourDay         HolidayKey = "labour_day"
	VictoryDay        HolidayKey = "victory_day"
	ConstitutionDay   HolidayKey = "constitution_day"
	IndependenceDay   HolidayKey = "independence_day"
	DefendersDay      HolidayKey = "defenders_day"
	CatholicChristmas HolidayKey = "catholic_christmas"
	OrthodoxEaster    HolidayKey = "orthodox_easter"
)

var holidays = map[Locale]map[HolidayKey]string{
	English: {
		NewYear:           "New Year",
		OrthodoxChristmas: "Orthodox Christmas",
		WomensDay:         "International Women's Day",
		LabourDay:         "Labour Day",
		VictoryDay:        "Victory Day",
		ConstitutionDay:   "Constitution Day",
		IndependenceDay:   "Independence Day",
		DefendersDay:      "Defenders Day",
		CatholicChristmas: "Catholic Christmas",
		OrthodoxEaster:    "Easter",
	},
	Ukrainian: {
		NewYear:           "Новий рік",
		OrthodoxChristmas: "Різдво Христове",
		WomensDay:         "Міжнародний жіночий день",
		LabourDay:         "День праці",
		VictoryDay:        "День перемоги",
		ConstitutionDay:   "День Конституції України",
		IndependenceDay:   "День незалежності України",
		DefendersDay:      "День захисника України",
		CatholicChristmas: "Католицьке Різдво",
		OrthodoxEaster:    "Великдень",
	},
}

// Holiday returns the display name of the holiday identified by key.
func (l Locale) Holiday(key HolidayKey) string {
	return holidays[l.normalize()][key]
}
