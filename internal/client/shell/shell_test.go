package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/GophDate/internal/filestore"
	"github.com/atinyakov/GophDate/internal/locale"
	"github.com/atinyakov/GophDate/internal/service"
)

type fixture struct {
	gw   *service.Gateway
	calc *service.Calculator
	out  *bytes.Buffer
}

func newFixture(t *testing.T, loc locale.Locale) *fixture {
	at := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	store := filestore.New(t.TempDir(), "calculations_", ".json", 10)
	gw := service.NewGateway(store, 10, zap.NewNop(),
		service.WithHashCost(bcrypt.MinCost),
		service.WithClock(func() time.Time { return at }))
	return &fixture{gw: gw, calc: service.NewCalculator(gw, loc), out: &bytes.Buffer{}}
}

func (f *fixture) shell(input string) *Shell {
	return New(f.calc, f.gw, strings.NewReader(input), f.out)
}

func TestRun_GuestCommands(t *testing.T) {
	f := newFixture(t, locale.English)
	sh := f.shell(strings.Join([]string{
		"help",
		"diff 2024-01-01 2025-03-01",
		"weekday 2024-03-08",
		"add 2024-01-31 30",
		"age 1990-01-01",
		"leap 1900",
		"workdays 2024-01-01 2024-01-07",
		"holiday 2024-01-07",
		"holidays 2024",
		"history",
		"bogus",
		"",
		"exit",
		"weekday 2024-01-01",
	}, "\n"))
	require.NoError(t, sh.StartSession(context.Background(), f.gw, Guest, "", ""))
	sh.Run(context.Background())

	out := f.out.String()
	for _, want := range []string{
		"Available commands:",
		"Total days: 425",
		"That is about 1.2 years",
		"Day of week: Friday (5)",
		"8 March 2024",
		"New date: 2024-03-01",
		"Age: 34 years",
		"Days lived: 12,584",
		"1900 is not a leap year",
		"Working days (Mon-Fri): 5",
		"Working hours (8 h/day): 40",
		"2024-01-07 is a holiday: Orthodox Christmas",
		"05.05.2024  Easter",
		"History is not available in guest mode.",
		"Unknown command.",
		"Bye",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Monday", "commands after exit must not run")
}

func TestExec_Errors(t *testing.T) {
	f := newFixture(t, locale.English)
	sh := f.shell("")
	ctx := context.Background()

	for line, want := range map[string]string{
		"diff 2024-01-01":                "usage: diff <date1> <date2>",
		"add 2024-01-01 many":            "usage: add <date> <days>",
		"weekday 2024-02-30":             `parse date "2024-02-30"`,
		"calendar 2024 13":               "invalid argument",
		"workdays 2024-02-01 2024-01-01": "invalid argument",
		"age 2030-01-01":                 "invalid argument",
	} {
		f.out.Reset()
		assert.True(t, sh.Exec(ctx, line), line)
		assert.Contains(t, f.out.String(), "Error: "+want, line)
	}
}

type unsavedCalculations struct {
	Calculations
}

func (c unsavedCalculations) LeapYear(context.Context, int64, int) (bool, error) {
	return true, &service.NotSavedError{Err: errors.New("disk full")}
}

func TestExec_HistoryWarning(t *testing.T) {
	f := newFixture(t, locale.English)
	sh := New(unsavedCalculations{f.calc}, f.gw, strings.NewReader(""), f.out)
	ctx := context.Background()

	assert.True(t, sh.Exec(ctx, "leap 2024"))
	assert.Equal(t, "2024 is a leap year\nWarning: calculation not saved to history: disk full\n", f.out.String())

	f.out.Reset()
	assert.True(t, sh.Exec(ctx, "weekday 2024-01-01"))
	assert.NotContains(t, f.out.String(), "Warning")
}

func TestCalendar_Layout(t *testing.T) {
	f := newFixture(t, locale.English)
	sh := f.shell("")
	sh.Exec(context.Background(), "calendar 2024 2")

	want := "February 2024\n" +
		"Mo  Tu  We  Th  Fr  Sa  Su\n" +
		"             1   2   3   4\n" +
		" 5   6   7   8   9  10  11\n" +
		"12  13  14  15  16  17  18\n" +
		"19  20  21  22  23  24  25\n" +
		"26  27  28  29\n" +
		"Days in month: 29\nLeap year: yes\n"
	assert.Equal(t, want, f.out.String())
}

func TestCalendar_Ukrainian(t *testing.T) {
	f := newFixture(t, locale.Ukrainian)
	sh := f.shell("")
	sh.Exec(context.Background(), "calendar 2024 3")
	assert.True(t, strings.HasPrefix(f.out.String(), "Березень 2024\nПн  Вт  Ср  Чт  Пт  Сб  Нд\n"))
}

func TestSession_RegisterHistoryExportImport(t *testing.T) {
	f := newFixture(t, locale.English)
	ctx := context.Background()
	csvPath := filepath.Join(t.TempDir(), "history.csv")

	sh := f.shell("secret\n" + strings.Join([]string{
		"weekday 2024-01-01",
		"leap 2024",
		"history",
		"stats",
		"export " + csvPath,
		"import " + csvPath,
		"stats",
	}, "\n"))
	require.NoError(t, sh.StartSession(ctx, f.gw, Register, "alice", "alice@example.com"))
	assert.Equal(t, "alice", sh.User().Username)
	sh.Run(ctx)

	out := f.out.String()
	assert.Contains(t, out, "User registered.")
	assert.Contains(t, out, "Welcome, alice!")
	assert.Contains(t, out, "Calculation history of alice:")
	assert.Contains(t, out, "1. leap_year")
	assert.Contains(t, out, "Total calculations: 2")
	assert.Contains(t, out, "Exported 2 calculations")
	assert.Contains(t, out, "Imported 2 calculations")
	assert.Contains(t, out, "Total calculations: 4")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "type,input,result,date\n"))
}

func TestSession_Login(t *testing.T) {
	f := newFixture(t, locale.English)
	ctx := context.Background()
	require.NoError(t, f.gw.RegisterUser(ctx, "bob", "secret", ""))

	sh := f.shell("wrong\n")
	err := sh.StartSession(ctx, f.gw, Login, "bob", "")
	assert.ErrorIs(t, err, ErrLoginFailed)
	u := sh.User()
	assert.True(t, u.IsGuest())

	sh = f.shell("secret\n")
	require.NoError(t, sh.StartSession(ctx, f.gw, Login, "bob", ""))
	assert.Equal(t, "bob", sh.User().Username)
}

func TestSession_Errors(t *testing.T) {
	f := newFixture(t, locale.English)
	ctx := context.Background()

	assert.Error(t, f.shell("").StartSession(ctx, f.gw, Login, "", ""))
	assert.Error(t, f.shell("").StartSession(ctx, f.gw, "admin", "x", ""))
	assert.Error(t, f.shell("").StartSession(ctx, f.gw, Login, "bob", ""), "no password input")
	assert.ErrorIs(t, f.shell("abc\n").StartSession(ctx, f.gw, Register, "bob", ""), service.ErrInvalidInput)
}
