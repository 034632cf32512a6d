package quartzcron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRange(t *testing.T) {
	hours := Hours.Bounds()
	tests := []struct {
		start, end int
		want       error
	}{
		{0, 23, nil},
		{9, 17, nil},
		{-1, 5, ErrOutOfRange},
		{5, 24, ErrOutOfRange},
		{5, 5, ErrStartGreaterThanEnd},
		{6, 5, ErrStartGreaterThanEnd},
		{30, 20, ErrStartGreaterThanEnd},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ValidateRange(tc.start, tc.end, hours), "%d-%d", tc.start, tc.end)
	}
}

func TestValidateStep(t *testing.T) {
	tests := []struct {
		field      Field
		from, step int
		want       error
	}{
		{Minutes, 0, 15, nil},
		{Minutes, 0, 59, nil},
		{Minutes, 0, 0, ErrOutOfRange},
		{Minutes, 0, 60, ErrOutOfRange},
		{Minutes, 60, 5, ErrOutOfRange},
		{DayOfMonth, 0, 5, ErrOutOfRange},
		{DayOfMonth, 1, 5, nil},
		{Year, 2025, 2, nil},
		{Year, 2025, 2100, ErrOutOfRange},
		{Year, 0, 1, ErrOutOfRange},
	}
	for _, tc := range tests {
		got := ValidateStep(tc.from, tc.step, tc.field.Bounds())
		assert.Equal(t, tc.want, got, "%s %d/%d", tc.field, tc.from, tc.step)
	}
}

func TestValidateList(t *testing.T) {
	minutes := Minutes.Bounds()
	all := make([]int, 61)
	for i := range all {
		all[i] = i
	}

	assert.NoError(t, ValidateList([]int{0, 30}, minutes))
	assert.Equal(t, ErrListEmpty, ValidateList(nil, minutes))
	assert.Equal(t, ErrListLengthExceeded, ValidateList(all, minutes))
	assert.NoError(t, ValidateList(all[:60], minutes))
	assert.Equal(t, ErrListNotSorted, ValidateList([]int{3, 2}, minutes))
	assert.Equal(t, ErrListNotSorted, ValidateList([]int{2, 2}, minutes))
	assert.Equal(t, ErrOutOfRange, ValidateList([]int{-1, 2}, minutes))
	assert.Equal(t, ErrOutOfRange, ValidateList([]int{2, 60}, minutes))
}

func TestValidateSpecialOperands(t *testing.T) {
	assert.NoError(t, ValidateDay(1))
	assert.NoError(t, ValidateDay(31))
	assert.Equal(t, ErrOutOfRange, ValidateDay(0))
	assert.Equal(t, ErrOutOfRange, ValidateDay(32))

	assert.NoError(t, ValidateDayOffset(0))
	assert.NoError(t, ValidateDayOffset(30))
	assert.Equal(t, ErrOutOfRange, ValidateDayOffset(31))
	assert.Equal(t, ErrOutOfRange, ValidateDayOffset(-1))

	assert.NoError(t, ValidateWeekday(1))
	assert.NoError(t, ValidateWeekday(7))
	assert.Equal(t, ErrOutOfRange, ValidateWeekday(0))
	assert.Equal(t, ErrOutOfRange, ValidateWeekday(8))

	assert.NoError(t, ValidateWeekNth(5))
	assert.Equal(t, ErrOutOfRange, ValidateWeekNth(0))
	assert.Equal(t, ErrOutOfRange, ValidateWeekNth(6))
}

func TestValidateModel(t *testing.T) {
	m := MustParse("0 0 12 ? * 2-6")
	assert.Empty(t, ValidateModel(m))

	m.Seconds = Step(0, 0)
	m.DayOfMonth = LastDay()
	assert.Equal(t, FieldErrors{
		Seconds:   ErrOutOfRange,
		DayOfWeek: ErrDayWeekConflict,
	}, ValidateModel(m))

	// A field that is itself invalid does not also report the conflict.
	m.DayOfWeek = LastWeekday(9)
	assert.Equal(t, ErrOutOfRange, ValidateModel(m)[DayOfWeek])
}

func TestValidateExpression(t *testing.T) {
	assert.NoError(t, ValidateExpression("0 0 12 * * ?"))
	assert.ErrorIs(t, ValidateExpression("0 0 12 * *"), ErrLength)

	errs := ValidateExpressions([]string{"0 0 12 * * ?", "bad", "0 0 12 ? * 9"})
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, 1)
	assert.Contains(t, errs, 2)
	assert.ErrorIs(t, errs[2], ErrOutOfRange)

	assert.NotNil(t, ValidateExpressions(nil))
}

func TestAnalyze(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	a := Analyze("0 0 12 * * ?", from, 2)
	require.True(t, a.Valid)
	assert.NoError(t, a.Error)
	assert.Empty(t, a.Errors)
	assert.Equal(t, "0 0 12 * * ? *", a.Expression)
	assert.Empty(t, a.Warnings)
	assert.Equal(t, []time.Time{
		time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC),
	}, a.NextRuns)

	a = Analyze("0 0 12 * *", from, 2)
	assert.False(t, a.Valid)
	assert.ErrorIs(t, a.Error, ErrLength)
	assert.Equal(t, ErrLength, a.Errors[Global])
	assert.Empty(t, a.NextRuns)
}

func TestAnalyzeWarnings(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		expr string
		warn bool
	}{
		{"0 0 0 1-15 * ?", false},
		{"0 0 0 29-31 * ?", true},
		{"0 0 0 1,15 * ?", false},
		{"0 0 0 15,30 * ?", true},
		{"0 0 0 30W * ?", true},
		{"0 0 0 15W * ?", false},
		{"0 0 0 L-28 * ?", true},
		{"0 0 0 L-3 * ?", false},
		{"0 0 0 ? * 2-6", false},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			a := Analyze(tc.expr, from, 1)
			require.True(t, a.Valid)
			assert.Equal(t, tc.warn, len(a.Warnings) > 0, "warnings: %v", a.Warnings)
		})
	}
}
