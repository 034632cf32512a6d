package quartzcron

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// parseOperand converts one numeric operand of a token. Blank operands fail
// with ErrEmpty and anything that is not a base-10 integer with ErrNotInteger.
func parseOperand(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmpty
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrNotInteger
	}
	return n, nil
}

// ValidateRange checks a start-end range against the field bounds.
// The start must be strictly less than the end.
func ValidateRange(start, end int, b Bounds) error {
	if start < b.Min || end > b.Max {
		return ErrOutOfRange
	}
	if start >= end {
		return ErrStartGreaterThanEnd
	}
	return nil
}

// ValidateStep checks a from/step pair. Both operands must lie within
// [StepMin, Max], and the step must be positive.
func ValidateStep(from, step int, b Bounds) error {
	if from < b.StepMin || from > b.Max || step < b.StepMin || step > b.Max || step < 1 {
		return ErrOutOfRange
	}
	return nil
}

// ValidateList checks that values is a non-empty, strictly ascending list of
// in-range values no longer than the field can hold.
func ValidateList(values []int, b Bounds) error {
	if len(values) == 0 {
		return ErrListEmpty
	}
	if len(values) > b.Max-b.Min+1 {
		return ErrListLengthExceeded
	}
	lo, hi := values[0], values[0]
	for i, v := range values {
		if i > 0 && v <= values[i-1] {
			return ErrListNotSorted
		}
		lo, hi = min(lo, v), max(hi, v)
	}
	if lo < b.Min || hi > b.Max {
		return ErrOutOfRange
	}
	return nil
}

func validateInt(v, lo, hi int) error {
	if v < lo || v > hi {
		return ErrOutOfRange
	}
	return nil
}

// ValidateDay checks a day of month (1-31).
func ValidateDay(day int) error { return validateInt(day, 1, 31) }

// ValidateDayOffset checks the N of "L-N" (0-30).
func ValidateDayOffset(offset int) error { return validateInt(offset, 0, 30) }

// ValidateWeekday checks a Quartz weekday (1=Sunday .. 7=Saturday).
func ValidateWeekday(weekday int) error { return validateInt(weekday, 1, 7) }

// ValidateWeekNth checks the occurrence of "N#M" (1-5).
func ValidateWeekNth(nth int) error { return validateInt(nth, 1, 5) }

// allowedModes reports whether mode m may be used for field f.
func allowedModes(f Field, m Mode) bool {
	switch m {
	case ModeEvery, ModeRange, ModeList:
		return true
	case ModeStep:
		return f != DayOfWeek
	case ModeUnspecified:
		return f == DayOfMonth || f == DayOfWeek || f == Year
	case ModeLastDay, ModeLastDayOffset, ModeNearestWeekday:
		return f == DayOfMonth
	case ModeNthWeekOfMonth, ModeLastWeekdayOfMonth:
		return f == DayOfWeek
	}
	return false
}

// validateFieldModel returns every code the field model fails with.
func validateFieldModel(f Field, fm FieldModel) []ErrorCode {
	if !allowedModes(f, fm.Mode) {
		return []ErrorCode{ErrInvalidValue}
	}
	var err error
	switch fm.Mode {
	case ModeRange:
		err = ValidateRange(fm.Start, fm.End, f.Bounds())
	case ModeStep:
		err = ValidateStep(fm.From, fm.Step, f.Bounds())
	case ModeList:
		err = ValidateList(sortedValues(fm.Values), f.Bounds())
	case ModeLastDayOffset:
		err = ValidateDayOffset(fm.Offset)
	case ModeNearestWeekday:
		err = ValidateDay(fm.Day)
	case ModeLastWeekdayOfMonth:
		err = ValidateWeekday(fm.Weekday)
	case ModeNthWeekOfMonth:
		var codes []ErrorCode
		if err := ValidateWeekNth(fm.WeekNth); err != nil {
			codes = append(codes, err.(ErrorCode))
		}
		if err := ValidateWeekday(fm.Weekday); err != nil && len(codes) == 0 {
			codes = append(codes, err.(ErrorCode))
		}
		return codes
	}
	if err != nil {
		return []ErrorCode{err.(ErrorCode)}
	}
	return nil
}

// ValidateModel checks every field of m, plus the rule that day of month and
// day of week are not both constrained (reported on DayOfWeek).
func ValidateModel(m Model) FieldErrors {
	errs := FieldErrors{}
	for _, f := range Fields {
		if codes := validateFieldModel(f, m.Get(f)); len(codes) > 0 {
			errs[f] = codes[0]
		}
	}
	if _, failed := errs[DayOfWeek]; !failed &&
		m.DayOfMonth.Mode != ModeUnspecified && m.DayOfWeek.Mode != ModeUnspecified {
		errs[DayOfWeek] = ErrDayWeekConflict
	}
	return errs
}

// ValidateExpression validates a Quartz expression without evaluating it.
// It returns nil if the expression is valid, or a *ParseError.
//
// Example:
//
//	if err := quartzcron.ValidateExpression(userInput); err != nil {
//	    return fmt.Errorf("invalid cron expression: %w", err)
//	}
func ValidateExpression(expr string) error {
	return ParseExpression(expr).Err()
}

// ValidateExpressions validates several expressions at once and returns the
// errors keyed by index. If all expressions are valid the map is empty (not nil).
func ValidateExpressions(exprs []string) map[int]error {
	errs := make(map[int]error)
	for i, expr := range exprs {
		if err := ValidateExpression(expr); err != nil {
			errs[i] = err
		}
	}
	return errs
}

// Analysis contains detailed information about a Quartz expression.
type Analysis struct {
	// Valid indicates whether the expression parsed without errors.
	Valid bool

	// Error is the *ParseError when Valid is false.
	Error error

	// Errors holds the per-field codes, empty when valid.
	Errors FieldErrors

	// Model is the (possibly partial) parsed model.
	Model Model

	// Expression is the canonical 7-field form of a valid expression.
	Expression string

	// NextRuns are the upcoming activations after the analysis start time.
	NextRuns []time.Time

	// Warnings describe shapes whose next-run results are known to be
	// irregular. They don't make the expression invalid.
	Warnings []string
}

// Analyze parses expr and, when valid, computes its next n activations after
// from. It is meant for previews and configuration checks.
//
// Example:
//
//	a := quartzcron.Analyze("0 0 12 ? * 2-6 *", time.Now(), 5)
//	if !a.Valid {
//	    log.Printf("invalid: %v", a.Error)
//	}
func Analyze(expr string, from time.Time, n int) Analysis {
	res := ParseExpression(expr)
	a := Analysis{
		Errors: res.Errors,
		Model:  res.Model,
	}
	if err := res.Err(); err != nil {
		a.Error = err
		return a
	}
	a.Valid = true
	a.Expression = res.Model.String()
	a.Warnings = caveats(res.Model)
	a.NextRuns = NextN(from, res.Model, n)
	return a
}

// caveats lists the model shapes for which the search is known to produce
// skipped or shifted dates.
func caveats(m Model) []string {
	var warnings []string
	dom := m.DayOfMonth
	switch {
	case dom.Mode == ModeRange && dom.End > 28:
		warnings = append(warnings,
			"day-of-month range reaches past the 28th: short months may be skipped")
	case dom.Mode == ModeList && len(dom.Values) > 0 && slices.Max(dom.Values) > 28:
		warnings = append(warnings,
			"day-of-month list contains days past the 28th: short months roll into the next month")
	case dom.Mode == ModeNearestWeekday && dom.Day > 28:
		warnings = append(warnings,
			"nearest weekday of a day past the 28th may resolve into the following month")
	case dom.Mode == ModeLastDayOffset && dom.Offset > 27:
		warnings = append(warnings,
			"last-day offset does not exist in short months")
	}
	return warnings
}
