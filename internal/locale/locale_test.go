package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		tag  string
		want Locale
	}{
		{"", English},
		{"en", English},
		{"en-US", English},
		{"uk_UA", Ukrainian},
		{" UK ", Ukrainian},
	}
	for _, tc := range cases {
		got, err := Parse(tc.tag)
		require.NoError(t, err, tc.tag)
		assert.Equal(t, tc.want, got, tc.tag)
	}

	_, err := Parse("fr")
	assert.Error(t, err)
}

func TestWeekdayMondayFirst(t *testing.T) {
	assert.Equal(t, "Monday", English.Weekday(time.Monday))
	assert.Equal(t, "Sunday", English.Weekday(time.Sunday))
	assert.Equal(t, "Неділя", Ukrainian.Weekday(time.Sunday))
	assert.Equal(t, "Monday", Locale("").Weekday(time.Monday))
}

func TestMonthNames(t *testing.T) {
	assert.Equal(t, "March", English.Month(time.March))
	assert.Equal(t, "March", English.MonthGenitive(time.March))
	assert.Equal(t, "Березень", Ukrainian.Month(time.March))
	assert.Equal(t, "березня", Ukrainian.MonthGenitive(time.March))
}

func TestHolidayNames(t *testing.T) {
	assert.Equal(t, "New Year", English.Holiday(NewYear))
	assert.Equal(t, "Великдень", Ukrainian.Holiday(OrthodoxEaster))
}

func TestWeekHeader(t *testing.T) {
	assert.Equal(t, "Mo", English.WeekHeader()[0])
	assert.Equal(t, "Нд", Ukrainian.WeekHeader()[6])
}
