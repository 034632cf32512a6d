package quartzcron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.January, 31},
		{2025, time.February, 28},
		{2024, time.February, 29},
		{2000, time.February, 29},
		{1900, time.February, 28},
		{2025, time.April, 30},
		{2025, time.December, 31},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, LastDayOfMonth(tc.year, tc.month), "%d-%02d", tc.year, tc.month)
	}
}

func TestNearestWeekdayOfMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		day   int
		want  int
	}{
		{"weekday stays", 2025, time.January, 15, 15},
		{"saturday moves back", 2025, time.February, 15, 14},
		{"sunday moves forward", 2025, time.February, 16, 17},
		{"saturday the 1st moves to monday", 2025, time.February, 1, 3},
		{"sunday the last moves to friday", 2025, time.August, 31, 29},
		{"sunday the 30th of november", 2025, time.November, 30, 28},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NearestWeekdayOfMonth(tc.year, tc.month, tc.day))
		})
	}
}

func TestNthWeekdayOfMonth(t *testing.T) {
	tests := []struct {
		name    string
		month   time.Month
		nth     int
		weekday int
		want    int
		ok      bool
	}{
		{"second monday", time.January, 2, 2, 13, true},
		{"first wednesday is the 1st", time.January, 1, 4, 1, true},
		{"fifth friday exists", time.January, 5, 6, 31, true},
		{"no fifth friday in february", time.February, 5, 6, 0, false},
		{"fourth friday of february", time.February, 4, 6, 28, true},
		{"first sunday", time.February, 1, 1, 2, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NthWeekdayOfMonth(2025, tc.month, tc.nth, tc.weekday)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestLastWeekdayOfMonth(t *testing.T) {
	assert.Equal(t, 31, LastWeekdayOfMonth(2025, time.January, 6))
	assert.Equal(t, 23, LastWeekdayOfMonth(2025, time.February, 1))
	assert.Equal(t, 28, LastWeekdayOfMonth(2025, time.February, 6))
	assert.Equal(t, -1, LastWeekdayOfMonth(2025, time.February, 8))
}

func TestQuartzWeekday(t *testing.T) {
	assert.Equal(t, 4, quartzWeekday(2025, time.January, 1), "wednesday")
	assert.Equal(t, 1, quartzWeekday(2025, time.February, 2), "sunday")
	assert.Equal(t, 7, quartzWeekday(2025, time.February, 1), "saturday")
}
