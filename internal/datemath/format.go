package datemath

import (
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/GophDate/internal/locale"
)

// FormatLong renders d as "8 March 2024", or "8 березня 2024 року" in Ukrainian.
func FormatLong(d time.Time, loc locale.Locale) string {
	s := fmt.Sprintf("%d %s %d", d.Day(), loc.MonthGenitive(d.Month()), d.Year())
	if loc == locale.Ukrainian {
		s += " року"
	}
	return s
}

// FormatRelative describes d relative to today ("tomorrow", "3 days ago", ...).
func FormatRelative(d, today time.Time, loc locale.Locale) string {
	diff := int(dayNumber(civil(d)) - dayNumber(civil(today)))
	uk := loc == locale.Ukrainian
	switch {
	case diff == 0 && uk:
		return "сьогодні"
	case diff == 0:
		return "today"
	case diff == 1 && uk:
		return "завтра"
	case diff == 1:
		return "tomorrow"
	case diff == -1 && uk:
		return "вчора"
	case diff == -1:
		return "yesterday"
	case diff > 1 && uk:
		return fmt.Sprintf("через %d днів", diff)
	case diff > 1:
		return fmt.Sprintf("in %d days", diff)
	case uk:
		return fmt.Sprintf("%d днів тому", -diff)
	}
	return fmt.Sprintf("%d days ago", -diff)
}

// plural forms: one, few (2-4), many.
type unit [3]string

var (
	ukYears  = unit{"рік", "роки", "років"}
	ukMonths = unit{"місяць", "місяці", "місяців"}
	ukDays   = unit{"день", "дні", "днів"}
	enYears  = unit{"year", "years", "years"}
	enMonths = unit{"month", "months", "months"}
	enDays   = unit{"day", "days", "days"}
)

func (u unit) format(n int) string {
	switch {
	case n == 1:
		return "1 " + u[0]
	case n > 1 && n < 5:
		return fmt.Sprintf("%d %s", n, u[1])
	}
	return fmt.Sprintf("%d %s", n, u[2])
}

// FormatDuration renders a day count with the same 365/30 decomposition as
// Difference, e.g. 400 days is "1 year 1 month 5 days".
func FormatDuration(days int, loc locale.Locale) string {
	y, m, d := enYears, enMonths, enDays
	if loc == locale.Ukrainian {
		y, m, d = ukYears, ukMonths, ukDays
	}
	if days == 0 {
		return d.format(0)
	}

	diff := decompose(days)
	var parts []string
	if diff.Years > 0 {
		parts = append(parts, y.format(diff.Years))
	}
	if diff.Months > 0 {
		parts = append(parts, m.format(diff.Months))
	}
	if diff.Days > 0 {
		parts = append(parts, d.format(diff.Days))
	}
	return strings.Join(parts, " ")
}

// FormatDays renders n with the plural form of "day" for loc.
func FormatDays(n int, loc locale.Locale) string {
	if loc == locale.Ukrainian {
		return ukDays.format(n)
	}
	return enDays.format(n)
}

// FormatYears renders n with the plural form of "year" for loc.
func FormatYears(n int, loc locale.Locale) string {
	if loc == locale.Ukrainian {
		return ukYears.format(n)
	}
	return enYears.format(n)
}
