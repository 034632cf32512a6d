package quartzcron

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpressionModes(t *testing.T) {
	tests := []struct {
		expr  string
		field Field
		want  FieldModel
	}{
		{"0 0 12 * * ?", Year, Every()},
		{"0 0 12 * * ? *", DayOfMonth, Every()},
		{"0 0 12 * * ? *", Hours, List(12)},
		{"0 */5 * * * ?", Minutes, Step(0, 5)},
		{"0 10/5 * * * ?", Minutes, Step(10, 5)},
		{"0 0 0 */5 * ?", DayOfMonth, Step(0, 5)},
		{"0 0 0 * * ? 2025/2", Year, Step(2025, 2)},
		{"0 0 9-17 * * ?", Hours, Range(9, 17)},
		{"0 0,15,30,45 * * * ?", Minutes, List(0, 15, 30, 45)},
		{"0 0 0 ? jan-mar 1", Month, Range(1, 3)},
		{"0 0 0 ? JAN-MAR 1", DayOfWeek, List(1)},
		{"0 0 0 ? DEC *", Month, List(12)},
		{"0 0 0 ? * MON-FRI", DayOfWeek, Range(2, 6)},
		{"0 0 0 ? * MON", DayOfWeek, List(2)},
		{"0 0 0 ? * SUN,WED,SAT", DayOfWeek, List(1, 4, 7)},
		{"0 0 0 ? * ?", DayOfWeek, Unspecified()},
		{"0 0 0 * * ? ?", Year, Unspecified()},
		{"0 0 0 L * ?", DayOfMonth, LastDay()},
		{"0 0 0 L-3 * ?", DayOfMonth, LastDayOffset(3)},
		{"0 0 0 L-0 * ?", DayOfMonth, LastDayOffset(0)},
		{"0 0 0 15W * ?", DayOfMonth, NearestWeekday(15)},
		{"0 0 0 ? * 6L", DayOfWeek, LastWeekday(6)},
		{"0 0 0 ? * 6#3", DayOfWeek, NthWeekday(6, 3)},
		{"0 0 0 ? * 2#2 *", DayOfWeek, NthWeekday(2, 2)},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			res := ParseExpression(tc.expr)
			require.True(t, res.Valid(), "errors: %v", res.Errors)
			assert.Equal(t, AllFields, res.Parsed)
			got := res.Model.Get(tc.field)
			assert.True(t, got.Equal(tc.want), "%s: got %+v, want %+v", tc.field, got, tc.want)
		})
	}
}

func TestParseExpressionErrors(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		field Field
		code  ErrorCode
	}{
		{"blank", "", Global, ErrEmpty},
		{"whitespace", "   \t", Global, ErrEmpty},
		{"too few fields", "0 0 12 * *", Global, ErrLength},
		{"too many fields", "0 0 12 * * ? * *", Global, ErrLength},
		{"too long", "0 0 12 * * ? " + strings.Repeat(" ", MaxSpecLength), Global, ErrLength},
		{"day of month out of range", "0 0 12 32 * ? *", DayOfMonth, ErrOutOfRange},
		{"day conflict", "0 0 12 15 * 2 *", DayOfWeek, ErrDayWeekConflict},
		{"day conflict with L", "0 0 12 L * 6L *", DayOfWeek, ErrDayWeekConflict},
		{"letters", "a 0 12 * * ?", Seconds, ErrInvalidValue},
		{"range not integer", "0 0 5-a * * ?", Hours, ErrNotInteger},
		{"range blank start", "0 0 -5 * * ?", Hours, ErrEmpty},
		{"range reversed", "0 0 17-9 * * ?", Hours, ErrStartGreaterThanEnd},
		{"range empty", "0 0 9-9 * * ?", Hours, ErrStartGreaterThanEnd},
		{"range out of bounds", "0 0 9-25 * * ?", Hours, ErrOutOfRange},
		{"zero step", "0 0/0 * * * ?", Minutes, ErrOutOfRange},
		{"step too large", "0 0/60 * * * ?", Minutes, ErrOutOfRange},
		{"step not integer", "0 0/x * * * ?", Minutes, ErrNotInteger},
		{"list unsorted", "0 5,3 * * * ?", Minutes, ErrListNotSorted},
		{"list duplicate", "0 3,3 * * * ?", Minutes, ErrListNotSorted},
		{"list out of range", "0 3,60 * * * ?", Minutes, ErrOutOfRange},
		{"list blank item", "0 3,,5 * * * ?", Minutes, ErrEmpty},
		{"list too long", "0 0 0 ? 1,2,3,4,5,6,7,8,9,10,11,12,13 1", Month, ErrListLengthExceeded},
		{"hours unspecified", "0 0 ? * * ?", Hours, ErrInvalidValue},
		{"year too small", "0 0 0 * * ? 1969", Year, ErrOutOfRange},
		{"offset too large", "0 0 0 L-31 * ?", DayOfMonth, ErrOutOfRange},
		{"nearest weekday zero", "0 0 0 0W * ?", DayOfMonth, ErrOutOfRange},
		{"nearest weekday too large", "0 0 0 32W * ?", DayOfMonth, ErrOutOfRange},
		{"last weekday out of range", "0 0 0 ? * 8L", DayOfWeek, ErrOutOfRange},
		{"nth too large", "0 0 0 ? * 6#6", DayOfWeek, ErrOutOfRange},
		{"weekday step", "0 0 0 ? * */2", DayOfWeek, ErrInvalidValue},
		{"unknown name", "0 0 0 ? * MONDAY", DayOfWeek, ErrInvalidValue},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := ParseExpression(tc.expr)
			require.False(t, res.Valid())
			assert.Equal(t, tc.code, res.Errors[tc.field], "errors: %v", res.Errors)
		})
	}
}

func TestParseExpressionCollectsAllFields(t *testing.T) {
	res := ParseExpression("x 0 25 * 13 ? *")
	assert.Equal(t, FieldErrors{
		Seconds: ErrInvalidValue,
		Hours:   ErrOutOfRange,
		Month:   ErrOutOfRange,
	}, res.Errors)
	assert.True(t, res.Parsed.Has(Minutes))
	assert.False(t, res.Parsed.Has(Hours))
	assert.True(t, res.Model.Minutes.Equal(List(0)))
}

func TestParseExpressionConflictNeedsParsedDay(t *testing.T) {
	// A failed day of month does not also fail the day of week.
	res := ParseExpression("0 0 12 32 * 2 *")
	assert.Equal(t, FieldErrors{DayOfMonth: ErrOutOfRange}, res.Errors)
	assert.True(t, res.Model.DayOfWeek.Equal(List(2)))
}

func TestSixFieldsDefaultYear(t *testing.T) {
	six, err := Parse("0 0 12 * * ?")
	require.NoError(t, err)
	seven, err := Parse("0 0 12 * * ? *")
	require.NoError(t, err)
	if diff := cmp.Diff(seven, six); diff != "" {
		t.Errorf("model mismatch (-seven +six):\n%s", diff)
	}
}

func TestParseWhitespace(t *testing.T) {
	a := MustParse("0 0 12 * * ?")
	b := MustParse("  0\t0  12 *\n* ?  ")
	assert.Empty(t, cmp.Diff(a, b))
}

func TestParseError(t *testing.T) {
	_, err := Parse("0 0 25 32 * ? *")
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "0 0 25 32 * ? *", pe.Expression)
	assert.Equal(t, []Field{Hours, DayOfMonth}, pe.Errors.Ordered())
	assert.Equal(t, `quartzcron: invalid expression "0 0 25 32 * ? *": hours: OUT_OF_RANGE; dayOfMonth: OUT_OF_RANGE`, err.Error())

	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.False(t, errors.Is(err, ErrNotInteger))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, Hours, ve.Field)
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("nope") })
	assert.NotPanics(t, func() { MustParse("0 0 12 * * ?") })
}

func TestParseSchedule(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		name    string
		spec    string
		loc     *time.Location
		model   string
		wantErr error
	}{
		{name: "no prefix", spec: "0 30 8 ? * 2-6", model: "0 30 8 ? * 2-6 *"},
		{name: "TZ prefix", spec: "TZ=Europe/Berlin 0 30 8 ? * 2-6", loc: berlin, model: "0 30 8 ? * 2-6 *"},
		{name: "CRON_TZ prefix", spec: "CRON_TZ=UTC 0 0 * * * ?", loc: time.UTC, model: "0 0 * * * ? *"},
		{name: "leading space", spec: "  TZ=UTC 0 0 * * * ?", loc: time.UTC, model: "0 0 * * * ? *"},
		{name: "empty", spec: "", wantErr: ErrEmptySpec},
		{name: "too long", spec: strings.Repeat("0", MaxSpecLength+1), wantErr: ErrSpecTooLong},
		{name: "invalid expression", spec: "TZ=UTC 0 0 25 * * ?", wantErr: ErrOutOfRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := ParseSchedule(tc.spec)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.model, s.Model.String())
			if tc.loc == nil {
				assert.Nil(t, s.Location)
			} else {
				require.NotNil(t, s.Location)
				assert.Equal(t, tc.loc.String(), s.Location.String())
			}
		})
	}
}

func TestParseScheduleTimezoneErrors(t *testing.T) {
	for _, spec := range []string{
		"TZ=Nowhere/Special 0 0 * * * ?",
		"TZ=UTC",
		"TZ= 0 0 * * * ?",
	} {
		_, err := ParseSchedule(spec)
		assert.Error(t, err, spec)
	}
}
