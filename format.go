package quartzcron

import (
	"strconv"
	"strings"
)

// FieldResult is the formatted token of one field. Errors is empty when the
// field model is valid.
type FieldResult struct {
	Field      Field
	Expression string
	Errors     []ErrorCode
}

// FormatField renders a single field model and validates it. The token is
// produced even for an invalid model, alongside one or more error codes.
// Models with an unknown mode render as the empty string.
func FormatField(f Field, fm FieldModel) FieldResult {
	res := FieldResult{Field: f, Expression: fieldToken(f, fm)}

	check := fm
	if fm.Mode == ModeStep && fm.From == 0 && f.Bounds().StepMin > 0 {
		// "*/n" is stored with From 0; validate it as starting at the minimum.
		check.From = f.Bounds().Min
	}
	res.Errors = validateFieldModel(f, check)
	return res
}

func fieldToken(f Field, fm FieldModel) string {
	switch fm.Mode {
	case ModeUnspecified:
		return "?"
	case ModeEvery:
		return "*"
	case ModeRange:
		return strconv.Itoa(fm.Start) + "-" + strconv.Itoa(fm.End)
	case ModeStep:
		from := strconv.Itoa(fm.From)
		if fm.From == 0 && f.Bounds().StepMin > 0 {
			from = "*"
		}
		return from + "/" + strconv.Itoa(fm.Step)
	case ModeList:
		values := sortedValues(fm.Values)
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = strconv.Itoa(v)
		}
		return strings.Join(parts, ",")
	case ModeNearestWeekday:
		return strconv.Itoa(fm.Day) + "W"
	case ModeLastDayOffset:
		return "L-" + strconv.Itoa(fm.Offset)
	case ModeNthWeekOfMonth:
		return strconv.Itoa(fm.Weekday) + "#" + strconv.Itoa(fm.WeekNth)
	case ModeLastDay:
		return "L"
	case ModeLastWeekdayOfMonth:
		return strconv.Itoa(fm.Weekday) + "L"
	}
	return ""
}

// FormatFields renders every field of m in expression order.
func FormatFields(m Model) []FieldResult {
	out := make([]FieldResult, len(Fields))
	for i, f := range Fields {
		out[i] = FormatField(f, m.Get(f))
	}
	return out
}

// Format renders m as a 7-field expression. The expression is always
// returned; if any field is invalid a *ParseError carrying it and the first
// code of every failing field is returned too.
// The day of month / day of week rule is not checked here; see ValidateModel.
func Format(m Model) (string, error) {
	results := FormatFields(m)
	errs := FieldErrors{}
	tokens := make([]string, len(results))
	for i, r := range results {
		tokens[i] = r.Expression
		if len(r.Errors) > 0 {
			errs[r.Field] = r.Errors[0]
		}
	}
	s := strings.Join(tokens, " ")
	return s, errs.Err(s)
}

// String returns the canonical 7-field expression, or a description of the
// first error when the model is invalid.
func (m Model) String() string {
	s, err := Format(m)
	if err != nil {
		return "invalid(" + err.Error() + ")"
	}
	return s
}
