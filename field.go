package quartzcron

import (
	"slices"
	"strconv"
	"strings"
)

// Field identifies one of the seven fields of a Quartz cron expression.
type Field int

// Fields in expression order.
const (
	Seconds Field = iota
	Minutes
	Hours
	DayOfMonth
	Month
	DayOfWeek
	Year
)

// Global keys errors that concern the expression as a whole rather than a
// single field (blank input, wrong token count).
const Global Field = -1

// Fields lists every field in expression order.
var Fields = []Field{Seconds, Minutes, Hours, DayOfMonth, Month, DayOfWeek, Year}

var fieldNames = [...]string{
	Seconds:    "seconds",
	Minutes:    "minutes",
	Hours:      "hours",
	DayOfMonth: "dayOfMonth",
	Month:      "month",
	DayOfWeek:  "dayOfWeek",
	Year:       "year",
}

func (f Field) String() string {
	if f == Global {
		return "global"
	}
	if f < Seconds || f > Year {
		return "unknown"
	}
	return fieldNames[f]
}

// ParseField resolves a field key such as "dayOfMonth" or "global".
func ParseField(name string) (Field, bool) {
	if name == "global" {
		return Global, true
	}
	for _, f := range Fields {
		if fieldNames[f] == name {
			return f, true
		}
	}
	return 0, false
}

// FieldSet is a set of fields stored as a bitmask.
type FieldSet uint8

// AllFields contains every field.
const AllFields FieldSet = 1<<(Year+1) - 1

// Has reports whether f is in the set.
func (s FieldSet) Has(f Field) bool {
	return f >= Seconds && f <= Year && s&(1<<f) != 0
}

// Add returns the set with f included. Values outside Seconds..Year leave
// the set unchanged.
func (s FieldSet) Add(f Field) FieldSet {
	if f < Seconds || f > Year {
		return s
	}
	return s | 1<<f
}

// Bounds is the inclusive range of values a field accepts.
type Bounds struct {
	Min, Max int
	// StepMin is the lower bound applied to both operands of a step
	// expression. It only differs from Min for the year.
	StepMin int
}

var fieldBounds = [...]Bounds{
	Seconds:    {Min: 0, Max: 59, StepMin: 0},
	Minutes:    {Min: 0, Max: 59, StepMin: 0},
	Hours:      {Min: 0, Max: 23, StepMin: 0},
	DayOfMonth: {Min: 1, Max: 31, StepMin: 1},
	Month:      {Min: 1, Max: 12, StepMin: 1},
	DayOfWeek:  {Min: 1, Max: 7, StepMin: 1},
	Year:       {Min: 1970, Max: 2099, StepMin: 1},
}

// Bounds returns the value range of the field. Day of month is capped at 31
// here; the real month length is applied during evaluation.
func (f Field) Bounds() Bounds {
	return fieldBounds[f]
}

// ListCapacity is the largest number of distinct values a list may hold.
func (f Field) ListCapacity() int {
	b := fieldBounds[f]
	return b.Max - b.Min + 1
}

// Mode is the discriminator of a FieldModel.
type Mode int

// Field modes. Not every mode is valid for every field: the calendar modes
// belong to day of month (LastDay, LastDayOffset, NearestWeekday) or day of
// week (NthWeekOfMonth, LastWeekdayOfMonth).
const (
	ModeEvery              Mode = iota // *
	ModeRange                          // 1-5
	ModeStep                           // */5, 1/5
	ModeList                           // 1,3,5
	ModeUnspecified                    // ?
	ModeLastDay                        // L
	ModeLastDayOffset                  // L-3
	ModeNearestWeekday                 // 15W
	ModeNthWeekOfMonth                 // 5#2
	ModeLastWeekdayOfMonth             // 5L
)

var modeNames = [...]string{
	ModeEvery:              "every",
	ModeRange:              "range",
	ModeStep:               "step",
	ModeList:               "list",
	ModeUnspecified:        "unspecified",
	ModeLastDay:            "lastDay",
	ModeLastDayOffset:      "lastDayOffset",
	ModeNearestWeekday:     "nearestWeekday",
	ModeNthWeekOfMonth:     "nthWeekOfMonth",
	ModeLastWeekdayOfMonth: "lastWeekdayOfMonth",
}

func (m Mode) String() string {
	if m < ModeEvery || m > ModeLastWeekdayOfMonth {
		return "unknown"
	}
	return modeNames[m]
}

// ParseMode resolves a mode name such as "nthWeekOfMonth".
func ParseMode(name string) (Mode, bool) {
	for m, n := range modeNames {
		if n == name {
			return Mode(m), true
		}
	}
	return 0, false
}

// common reports whether the mode is one of every, range, step or list.
func (m Mode) common() bool {
	return m <= ModeList
}

// FieldModel is the parsed constraint of one field. Mode selects which of the
// payload fields are meaningful; the others stay zero.
type FieldModel struct {
	Mode Mode

	Start, End int   // ModeRange
	From, Step int   // ModeStep
	Values     []int // ModeList
	Offset     int   // ModeLastDayOffset
	Day        int   // ModeNearestWeekday

	// WeekNth is the occurrence (1-5) for ModeNthWeekOfMonth. Weekday uses
	// Quartz numbering (1=Sunday) for ModeNthWeekOfMonth and
	// ModeLastWeekdayOfMonth.
	WeekNth int
	Weekday int
}

// Every matches any value.
func Every() FieldModel { return FieldModel{Mode: ModeEvery} }

// Range matches start <= v <= end.
func Range(start, end int) FieldModel { return FieldModel{Mode: ModeRange, Start: start, End: end} }

// Step matches from, from+step, from+2*step, ... up to the field maximum.
func Step(from, step int) FieldModel { return FieldModel{Mode: ModeStep, From: from, Step: step} }

// List matches any of the given values.
func List(values ...int) FieldModel { return FieldModel{Mode: ModeList, Values: values} }

// Unspecified leaves the field unconstrained ("?").
func Unspecified() FieldModel { return FieldModel{Mode: ModeUnspecified} }

// LastDay matches the last day of the month ("L").
func LastDay() FieldModel { return FieldModel{Mode: ModeLastDay} }

// LastDayOffset matches offset days before the last day of the month ("L-3").
func LastDayOffset(offset int) FieldModel {
	return FieldModel{Mode: ModeLastDayOffset, Offset: offset}
}

// NearestWeekday matches the weekday closest to day without leaving the
// month ("15W").
func NearestWeekday(day int) FieldModel { return FieldModel{Mode: ModeNearestWeekday, Day: day} }

// NthWeekday matches the nth occurrence of weekday in the month ("6#3" is
// the third Friday).
func NthWeekday(weekday, nth int) FieldModel {
	return FieldModel{Mode: ModeNthWeekOfMonth, Weekday: weekday, WeekNth: nth}
}

// LastWeekday matches the last occurrence of weekday in the month ("6L").
func LastWeekday(weekday int) FieldModel {
	return FieldModel{Mode: ModeLastWeekdayOfMonth, Weekday: weekday}
}

// Equal reports whether both models have the same mode and the same payload
// for that mode. List values are compared as sets.
func (fm FieldModel) Equal(other FieldModel) bool {
	if fm.Mode != other.Mode {
		return false
	}
	switch fm.Mode {
	case ModeRange:
		return fm.Start == other.Start && fm.End == other.End
	case ModeStep:
		return fm.From == other.From && fm.Step == other.Step
	case ModeList:
		return slices.Equal(sortedValues(fm.Values), sortedValues(other.Values))
	case ModeLastDayOffset:
		return fm.Offset == other.Offset
	case ModeNearestWeekday:
		return fm.Day == other.Day
	case ModeNthWeekOfMonth:
		return fm.WeekNth == other.WeekNth && fm.Weekday == other.Weekday
	case ModeLastWeekdayOfMonth:
		return fm.Weekday == other.Weekday
	default:
		return true
	}
}

func sortedValues(values []int) []int {
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}

// Model holds one FieldModel per field.
//
// At most one of DayOfMonth and DayOfWeek should be constrained; use
// SetDayOfMonth and SetDayOfWeek to keep that rule when editing a model.
type Model struct {
	Seconds    FieldModel
	Minutes    FieldModel
	Hours      FieldModel
	DayOfMonth FieldModel
	Month      FieldModel
	DayOfWeek  FieldModel
	Year       FieldModel
}

// DefaultModel returns "* * * * * ? *": every field is every, except day of
// week which is unspecified.
func DefaultModel() Model {
	return Model{
		Seconds:    Every(),
		Minutes:    Every(),
		Hours:      Every(),
		DayOfMonth: Every(),
		Month:      Every(),
		DayOfWeek:  Unspecified(),
		Year:       Every(),
	}
}

// Get returns the model of field f.
func (m *Model) Get(f Field) FieldModel {
	switch f {
	case Seconds:
		return m.Seconds
	case Minutes:
		return m.Minutes
	case Hours:
		return m.Hours
	case DayOfMonth:
		return m.DayOfMonth
	case Month:
		return m.Month
	case DayOfWeek:
		return m.DayOfWeek
	case Year:
		return m.Year
	}
	return FieldModel{}
}

// Set replaces the model of field f without enforcing any cross-field rule.
func (m *Model) Set(f Field, fm FieldModel) {
	switch f {
	case Seconds:
		m.Seconds = fm
	case Minutes:
		m.Minutes = fm
	case Hours:
		m.Hours = fm
	case DayOfMonth:
		m.DayOfMonth = fm
	case Month:
		m.Month = fm
	case DayOfWeek:
		m.DayOfWeek = fm
	case Year:
		m.Year = fm
	}
}

// SetDayOfMonth sets the day of month. A constrained day of month forces day
// of week to unspecified.
func (m *Model) SetDayOfMonth(fm FieldModel) {
	m.DayOfMonth = fm
	if fm.Mode != ModeUnspecified {
		m.DayOfWeek = Unspecified()
	}
}

// SetDayOfWeek sets the day of week. A constrained day of week forces day of
// month to unspecified.
func (m *Model) SetDayOfWeek(fm FieldModel) {
	m.DayOfWeek = fm
	if fm.Mode != ModeUnspecified {
		m.DayOfMonth = Unspecified()
	}
}

// Name to value tables for the month and day-of-week fields.
var (
	monthNames = map[string]int{
		"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
		"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
	}
	weekdayNames = map[string]int{
		"SUN": 1, "MON": 2, "TUE": 3, "WED": 4, "THU": 5, "FRI": 6, "SAT": 7,
	}
)

// resolveName replaces a three letter month or weekday abbreviation with its
// number. Other tokens are returned unchanged.
func resolveName(token string, f Field) string {
	var names map[string]int
	switch f {
	case Month:
		names = monthNames
	case DayOfWeek:
		names = weekdayNames
	default:
		return token
	}
	if v, ok := names[strings.ToUpper(strings.TrimSpace(token))]; ok {
		return strconv.Itoa(v)
	}
	return token
}
