// Package shell implements the interactive terminal front end of the date
// calculator.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/atinyakov/GophDate/internal/datemath"
	"github.com/atinyakov/GophDate/internal/holiday"
	"github.com/atinyakov/GophDate/internal/locale"
	"github.com/atinyakov/GophDate/internal/models"
	"github.com/atinyakov/GophDate/internal/service"
	"github.com/atinyakov/GophDate/internal/transfer"
)

// Calculations runs date calculations for a user.
type Calculations interface {
	Locale() locale.Locale
	Difference(ctx context.Context, userID int64, a, b string) (datemath.Diff, error)
	Weekday(ctx context.Context, userID int64, date string) (datemath.Weekday, error)
	AddDays(ctx context.Context, userID int64, date string, n int) (datemath.Shifted, error)
	Age(ctx context.Context, userID int64, birth string) (datemath.Age, error)
	Calendar(ctx context.Context, userID int64, year, month int) (datemath.Month, error)
	LeapYear(ctx context.Context, userID int64, year int) (bool, error)
	WorkingDays(ctx context.Context, userID int64, start, end string) (datemath.WorkDays, error)
	CheckHoliday(ctx context.Context, userID int64, date string) (bool, string, error)
	Holidays(year int) []holiday.Holiday
}

// History reads and imports the calculation history of a user.
type History interface {
	GetUserCalculations(ctx context.Context, userID int64) ([]models.Calculation, error)
	Statistics(ctx context.Context, userID int64) (service.Stats, error)
	ImportCalculations(ctx context.Context, userID int64, calcs []models.Calculation) (int, error)
}

const helpText = `Available commands:
  diff <date1> <date2>        difference between two dates
  weekday <date>              day of the week
  add <date> <days>           shift a date, days may be negative
  age <birth date>            age as of today
  calendar <year> <month>     month calendar
  leap <year>                 leap year check
  workdays <start> <end>      working and weekend days, both ends included
  holiday <date>              holiday check
  holidays <year>             holidays of a year
  history                     last calculations
  stats                       history statistics
  export <file.csv>           export history to CSV
  import <file.csv>           import history from CSV
  help                        this text
  exit                        leave
Dates are YYYY-MM-DD.`

// Shell reads commands line by line and prints results.
type Shell struct {
	calc    Calculations
	history History
	user    models.User
	in      *bufio.Scanner
	out     io.Writer
	num     *message.Printer
	// warning is printed after the output of the current command
	warning error
}

// New returns a Shell reading from in and writing to out. The session
// belongs to the guest until StartSession logs someone in.
func New(calc Calculations, history History, in io.Reader, out io.Writer) *Shell {
	tag := language.English
	if calc.Locale() == locale.Ukrainian {
		tag = language.Ukrainian
	}
	return &Shell{
		calc:    calc,
		history: history,
		user:    models.User{ID: models.GuestID},
		in:      bufio.NewScanner(in),
		out:     out,
		num:     message.NewPrinter(tag),
	}
}

// User is the owner of the session.
func (s *Shell) User() models.User {
	return s.user
}

// Run executes commands until "exit" or end of input.
func (s *Shell) Run(ctx context.Context) {
	for {
		fmt.Fprint(s.out, "gophdate> ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return
		}
		if !s.Exec(ctx, s.in.Text()) {
			return
		}
	}
}

// Exec runs one command line and reports whether the shell should go on.
// Errors are printed and never end the session.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return true
	}
	cmd, args := args[0], args[1:]

	var err error
	switch cmd {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "diff":
		err = s.difference(ctx, args)
	case "weekday":
		err = s.weekday(ctx, args)
	case "add":
		err = s.addDays(ctx, args)
	case "age":
		err = s.age(ctx, args)
	case "calendar":
		err = s.calendar(ctx, args)
	case "leap":
		err = s.leap(ctx, args)
	case "workdays":
		err = s.workingDays(ctx, args)
	case "holiday":
		err = s.checkHoliday(ctx, args)
	case "holidays":
		err = s.holidays(args)
	case "history":
		err = s.showHistory(ctx)
	case "stats":
		err = s.stats(ctx)
	case "export":
		err = s.export(ctx, args)
	case "import":
		err = s.importFile(ctx, args)
	case "exit", "quit":
		fmt.Fprintln(s.out, "Bye")
		return false
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	if s.warning != nil {
		fmt.Fprintf(s.out, "Warning: %v\n", s.warning)
		s.warning = nil
	}
	return true
}

// failed reports whether err stops the command. A calculation that only
// missed the history is kept and its error shown as a warning.
func (s *Shell) failed(err error) bool {
	var notSaved *service.NotSavedError
	if errors.As(err, &notSaved) {
		s.warning = notSaved
		return false
	}
	return err != nil
}

type usageError string

func (u usageError) Error() string {
	return "usage: " + string(u)
}

func intArg(s, usage string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, usageError(usage)
	}
	return n, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (s *Shell) difference(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("diff <date1> <date2>")
	}
	d, err := s.calc.Difference(ctx, s.user.ID, args[0], args[1])
	if s.failed(err) {
		return err
	}
	fmt.Fprintf(s.out, "Difference between %s and %s:\n", args[0], args[1])
	fmt.Fprintf(s.out, "  Total days: %d\n  Years: %d\n  Months: %d\n  Days: %d\n  Weeks: %d\n",
		d.TotalDays, d.Years, d.Months, d.Days, d.Weeks)
	fmt.Fprintf(s.out, "  Approximately: %s\n", datemath.FormatDuration(d.TotalDays, s.calc.Locale()))
	if d.TotalDays > 365 {
		fmt.Fprintf(s.out, "  That is about %.1f years\n", float64(d.TotalDays)/365)
	}
	return nil
}

func (s *Shell) weekday(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("weekday <date>")
	}
	w, err := s.calc.Weekday(ctx, s.user.ID, args[0])
	if s.failed(err) {
		return err
	}
	d, _ := datemath.Parse(args[0])
	fmt.Fprintf(s.out, "%s\n  Day of week: %s (%d)\n  Weekend: %s\n  Formatted: %s\n  Leap year: %s\n",
		datemath.FormatLong(d, s.calc.Locale()), w.Name, w.Number, yesNo(w.IsWeekend),
		d.Format(datemath.DisplayLayout), yesNo(datemath.IsLeapYear(d.Year())))
	return nil
}

func (s *Shell) addDays(ctx context.Context, args []string) error {
	const usage = "add <date> <days>"
	if len(args) != 2 {
		return usageError(usage)
	}
	n, err := intArg(args[1], usage)
	if err != nil {
		return err
	}
	r, err := s.calc.AddDays(ctx, s.user.ID, args[0], n)
	if s.failed(err) {
		return err
	}
	fmt.Fprintf(s.out, "New date: %s\n  Formatted: %s\n  Day of week: %s\n", r.NewDate, r.Formatted, r.DayName)
	return nil
}

func (s *Shell) age(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("age <birth date>")
	}
	a, err := s.calc.Age(ctx, s.user.ID, args[0])
	if s.failed(err) {
		return err
	}
	hours := a.TotalDaysLived * 24
	fmt.Fprintf(s.out, "Age: %s\n", datemath.FormatYears(a.Years, s.calc.Locale()))
	fmt.Fprintf(s.out, "  Days to next birthday: %d\n", a.DaysToBirthday)
	s.num.Fprintf(s.out, "  Days lived: %d\n  Hours lived: %d\n  Minutes lived: %d\n",
		a.TotalDaysLived, hours, hours*60)
	return nil
}

func (s *Shell) calendar(ctx context.Context, args []string) error {
	const usage = "calendar <year> <month>"
	if len(args) != 2 {
		return usageError(usage)
	}
	year, err := intArg(args[0], usage)
	if err != nil {
		return err
	}
	month, err := intArg(args[1], usage)
	if err != nil {
		return err
	}
	m, err := s.calc.Calendar(ctx, s.user.ID, year, month)
	if s.failed(err) {
		return err
	}

	fmt.Fprintf(s.out, "%s %d\n", m.Name, m.Year)
	head := s.calc.Locale().WeekHeader()
	fmt.Fprintln(s.out, strings.Join(head[:], "  "))
	for _, week := range m.Grid {
		cells := make([]string, len(week))
		for i, day := range week {
			cells[i] = "  "
			if day != 0 {
				cells[i] = fmt.Sprintf("%2d", day)
			}
		}
		fmt.Fprintln(s.out, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
	fmt.Fprintf(s.out, "Days in month: %d\nLeap year: %s\n", m.DaysInMonth, yesNo(datemath.IsLeapYear(year)))
	return nil
}

func (s *Shell) leap(ctx context.Context, args []string) error {
	const usage = "leap <year>"
	if len(args) != 1 {
		return usageError(usage)
	}
	year, err := intArg(args[0], usage)
	if err != nil {
		return err
	}
	leap, err := s.calc.LeapYear(ctx, s.user.ID, year)
	if s.failed(err) {
		return err
	}
	if leap {
		fmt.Fprintf(s.out, "%d is a leap year\n", year)
	} else {
		fmt.Fprintf(s.out, "%d is not a leap year\n", year)
	}
	return nil
}

func (s *Shell) workingDays(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("workdays <start> <end>")
	}
	w, err := s.calc.WorkingDays(ctx, s.user.ID, args[0], args[1])
	if s.failed(err) {
		return err
	}
	fmt.Fprintf(s.out, "Period %s to %s:\n  Working days (Mon-Fri): %d\n  Weekend days (Sat-Sun): %d\n  Total days: %d\n",
		args[0], args[1], w.WorkingDays, w.WeekendDays, w.TotalDays)
	fmt.Fprintf(s.out, "  Working share: %.1f%%\n", float64(w.WorkingDays)/float64(w.TotalDays)*100)
	if w.WorkingDays > 0 {
		s.num.Fprintf(s.out, "  Working hours (8 h/day): %d\n", w.WorkingDays*8)
	}
	return nil
}

func (s *Shell) checkHoliday(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("holiday <date>")
	}
	ok, name, err := s.calc.CheckHoliday(ctx, s.user.ID, args[0])
	if s.failed(err) {
		return err
	}
	if ok {
		fmt.Fprintf(s.out, "%s is a holiday: %s\n", args[0], name)
	} else {
		fmt.Fprintf(s.out, "%s is not a holiday\n", args[0])
	}
	return nil
}

func (s *Shell) holidays(args []string) error {
	const usage = "holidays <year>"
	if len(args) != 1 {
		return usageError(usage)
	}
	year, err := intArg(args[0], usage)
	if err != nil {
		return err
	}
	for _, h := range s.calc.Holidays(year) {
		fmt.Fprintf(s.out, "%s  %s\n", h.Date.Format(datemath.DisplayLayout), h.Name)
	}
	return nil
}

func (s *Shell) showHistory(ctx context.Context) error {
	if s.user.IsGuest() {
		fmt.Fprintln(s.out, "History is not available in guest mode. Log in to keep your calculations.")
		return nil
	}
	calcs, err := s.history.GetUserCalculations(ctx, s.user.ID)
	if err != nil {
		return err
	}
	if len(calcs) == 0 {
		fmt.Fprintln(s.out, "History is empty.")
		return nil
	}
	fmt.Fprintf(s.out, "Calculation history of %s:\n", s.user.Username)
	for i, c := range calcs {
		fmt.Fprintf(s.out, "%d. %s\n   Input: %s\n   Result: %s\n   Time: %s\n",
			i+1, c.Type, c.Input, c.Result, c.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (s *Shell) stats(ctx context.Context) error {
	st, err := s.history.Statistics(ctx, s.user.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Total calculations: %d\n", st.Total)
	if st.Total == 0 {
		return nil
	}
	fmt.Fprintf(s.out, "Most used: %s\n", st.MostUsed)
	for _, typ := range slices.Sorted(maps.Keys(st.ByType)) {
		fmt.Fprintf(s.out, "  %s: %d\n", typ, st.ByType[typ])
	}
	fmt.Fprintf(s.out, "Last calculation: %s\n", st.Last.Local().Format("2006-01-02 15:04:05"))
	return nil
}

func (s *Shell) export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("export <file.csv>")
	}
	calcs, err := s.history.GetUserCalculations(ctx, s.user.ID)
	if err != nil {
		return err
	}
	if err := transfer.ExportFile(args[0], calcs); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Exported %d calculations to %s\n", len(calcs), args[0])
	return nil
}

func (s *Shell) importFile(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("import <file.csv>")
	}
	if s.user.IsGuest() {
		fmt.Fprintln(s.out, "Import is not available in guest mode.")
		return nil
	}
	calcs, err := transfer.ImportFile(args[0])
	if err != nil {
		return err
	}
	n, err := s.history.ImportCalculations(ctx, s.user.ID, calcs)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Imported %d calculations\n", n)
	return nil
}
