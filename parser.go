package quartzcron

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxSpecLength is the maximum allowed length for an expression or schedule
// spec. Longer input is rejected before it is split into fields.
const MaxSpecLength = 1024

// ParseResult is the outcome of ParseExpression. Fields that failed keep
// their zero FieldModel in Model and are absent from Parsed.
type ParseResult struct {
	Model  Model
	Parsed FieldSet
	Errors FieldErrors

	expression string
}

// Valid reports whether every field parsed.
func (r ParseResult) Valid() bool { return len(r.Errors) == 0 }

// Err returns a *ParseError describing every failed field, or nil.
func (r ParseResult) Err() error { return r.Errors.Err(r.expression) }

// ParseExpression parses a 6 or 7 field Quartz expression
// (seconds minutes hours day-of-month month day-of-week [year]).
//
// It never fails outright: each field is parsed independently and failures
// are collected in the result's Errors, keyed by field. Structural problems
// (blank input, wrong number of fields) are reported under Global and stop
// the parse. A missing year defaults to "*".
func ParseExpression(expr string) ParseResult {
	res := ParseResult{Errors: FieldErrors{}, expression: expr}

	if strings.TrimSpace(expr) == "" {
		res.Errors[Global] = ErrEmpty
		return res
	}
	if len(expr) > MaxSpecLength {
		res.Errors[Global] = ErrLength
		return res
	}

	tokens := strings.Fields(expr)
	if len(tokens) < 6 || len(tokens) > 7 {
		res.Errors[Global] = ErrLength
		return res
	}
	if len(tokens) == 6 {
		tokens = append(tokens, "*")
	}

	for i, f := range Fields {
		token := tokens[i]

		var (
			fm  FieldModel
			err error
		)
		switch f {
		case DayOfMonth:
			fm, err = parseDayOfMonth(token)
		case DayOfWeek:
			if res.Parsed.Has(DayOfMonth) && res.Model.DayOfMonth.Mode != ModeUnspecified && token != "?" {
				err = ErrDayWeekConflict
				break
			}
			fm, err = parseDayOfWeek(token)
		default:
			fm, err = parseCommon(token, f)
		}
		if err != nil {
			res.Errors[f] = toCode(err)
			continue
		}
		res.Model.Set(f, fm)
		res.Parsed = res.Parsed.Add(f)
	}
	return res
}

// Parse parses a Quartz expression into a Model. It returns a *ParseError
// if any field is invalid.
func Parse(expr string) (Model, error) {
	res := ParseExpression(expr)
	if err := res.Err(); err != nil {
		return Model{}, err
	}
	return res.Model, nil
}

// MustParse is like Parse but panics if the expression is invalid. It is
// meant for expressions that are compile-time constants.
func MustParse(expr string) Model {
	m, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseSchedule parses an expression that may be prefixed with a time zone,
// as in "TZ=Europe/Berlin 0 30 8 ? * 2-6". Without a prefix the schedule is
// evaluated in the location of the times passed to it.
func ParseSchedule(spec string) (*Schedule, error) {
	if len(spec) == 0 {
		return nil, ErrEmptySpec
	}
	if len(spec) > MaxSpecLength {
		return nil, fmt.Errorf("%w: %d > %d", ErrSpecTooLong, len(spec), MaxSpecLength)
	}
	loc, expr, err := parseTimezone(strings.TrimSpace(spec))
	if err != nil {
		return nil, err
	}
	m, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return &Schedule{Model: m, Location: loc}, nil
}

// parseTimezone extracts an optional TZ= or CRON_TZ= prefix. The returned
// location is nil when there is no prefix.
func parseTimezone(spec string) (*time.Location, string, error) {
	if !strings.HasPrefix(spec, "TZ=") && !strings.HasPrefix(spec, "CRON_TZ=") {
		return nil, spec, nil
	}

	i := strings.IndexAny(spec, " \t")
	if i == -1 {
		return nil, "", fmt.Errorf("quartzcron: missing fields after timezone in spec %q", spec)
	}

	eq := strings.Index(spec, "=")
	tzName := spec[eq+1 : i]
	if tzName == "" {
		return nil, "", fmt.Errorf("quartzcron: empty timezone in spec %q", spec)
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, "", fmt.Errorf("quartzcron: unknown time zone %q: %w", tzName, err)
	}
	return loc, strings.TrimSpace(spec[i:]), nil
}

func toCode(err error) ErrorCode {
	if code, ok := err.(ErrorCode); ok {
		return code
	}
	return ErrInvalidValue
}

// parseOperands parses the numeric operands of a single token. Like the
// validators, a non-integer operand is reported before a blank one.
func parseOperands(ops ...string) ([]int, error) {
	for _, op := range ops {
		if _, err := parseOperand(op); err == ErrNotInteger {
			return nil, ErrNotInteger
		}
	}
	out := make([]int, len(ops))
	for i, op := range ops {
		v, err := parseOperand(op)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseCommon handles the syntax shared by every field: ?, *, ranges, steps,
// lists and single values.
func parseCommon(token string, f Field) (FieldModel, error) {
	b := f.Bounds()

	switch {
	case token == "?":
		if f == DayOfMonth || f == DayOfWeek || f == Year {
			return Unspecified(), nil
		}
		return FieldModel{}, ErrInvalidValue

	case token == "*":
		return Every(), nil

	case strings.Contains(token, "-"):
		parts := strings.Split(token, "-")
		ops, err := parseOperands(resolveName(parts[0], f), resolveName(parts[1], f))
		if err != nil {
			return FieldModel{}, err
		}
		if err := ValidateRange(ops[0], ops[1], b); err != nil {
			return FieldModel{}, err
		}
		return Range(ops[0], ops[1]), nil

	case strings.Contains(token, "/") && f != DayOfWeek:
		parts := strings.Split(token, "/")
		from := parts[0]
		if from == "*" {
			from = strconv.Itoa(b.Min)
		}
		ops, err := parseOperands(from, parts[1])
		if err != nil {
			return FieldModel{}, err
		}
		if err := ValidateStep(ops[0], ops[1], b); err != nil {
			return FieldModel{}, err
		}
		if parts[0] == "*" {
			ops[0] = 0
		}
		return Step(ops[0], ops[1]), nil

	case strings.Contains(token, ","):
		return parseList(strings.Split(token, ","), f)
	}

	single := resolveName(token, f)
	if !isDigits(single) {
		return FieldModel{}, ErrInvalidValue
	}
	v, err := parseOperand(single)
	if err != nil {
		return FieldModel{}, err
	}
	if v < b.Min || v > b.Max {
		return FieldModel{}, ErrOutOfRange
	}
	return List(v), nil
}

func parseList(items []string, f Field) (FieldModel, error) {
	if len(items) > f.ListCapacity() {
		return FieldModel{}, ErrListLengthExceeded
	}
	values := make([]int, 0, len(items))
	for i, item := range items {
		ops, err := parseOperands(resolveName(item, f))
		if err != nil {
			return FieldModel{}, err
		}
		if i > 0 && ops[0] <= values[i-1] {
			return FieldModel{}, ErrListNotSorted
		}
		values = append(values, ops[0])
	}
	if err := ValidateList(values, f.Bounds()); err != nil {
		return FieldModel{}, err
	}
	return List(values...), nil
}

// parseDayOfMonth adds L, L-N and NW to the common syntax.
func parseDayOfMonth(token string) (FieldModel, error) {
	switch {
	case token == "L":
		return LastDay(), nil

	case strings.HasPrefix(token, "L-") && isDigits(token[2:]):
		offset, _ := strconv.Atoi(token[2:])
		if err := ValidateDayOffset(offset); err != nil {
			return FieldModel{}, err
		}
		return LastDayOffset(offset), nil

	case strings.HasSuffix(token, "W") && isDigits(token[:len(token)-1]):
		day, _ := strconv.Atoi(token[:len(token)-1])
		if err := ValidateDay(day); err != nil {
			return FieldModel{}, err
		}
		return NearestWeekday(day), nil
	}
	return parseCommon(token, DayOfMonth)
}

// parseDayOfWeek adds NL and N#M to the common syntax.
func parseDayOfWeek(token string) (FieldModel, error) {
	if strings.HasSuffix(token, "L") && isDigits(token[:len(token)-1]) {
		weekday, _ := strconv.Atoi(token[:len(token)-1])
		if err := ValidateWeekday(weekday); err != nil {
			return FieldModel{}, err
		}
		return LastWeekday(weekday), nil
	}

	if weekdayStr, nthStr, ok := strings.Cut(token, "#"); ok && isDigits(weekdayStr) && isDigits(nthStr) {
		weekday, _ := strconv.Atoi(weekdayStr)
		nth, _ := strconv.Atoi(nthStr)
		if err := ValidateWeekNth(nth); err != nil {
			return FieldModel{}, err
		}
		if err := ValidateWeekday(weekday); err != nil {
			return FieldModel{}, err
		}
		return NthWeekday(weekday, nth), nil
	}
	return parseCommon(token, DayOfWeek)
}
