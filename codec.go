package quartzcron

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Field models are exchanged as objects tagged by mode, for example
// {"mode":"range","start":1,"end":5} or {"mode":"nthWeekOfMonth",
// "weekdayNth":6,"weekNth":3}.
type fieldModelWire struct {
	Mode       string `json:"mode" yaml:"mode"`
	Start      *int   `json:"start,omitempty" yaml:"start,omitempty"`
	End        *int   `json:"end,omitempty" yaml:"end,omitempty"`
	From       *int   `json:"from,omitempty" yaml:"from,omitempty"`
	Step       *int   `json:"step,omitempty" yaml:"step,omitempty"`
	Values     *[]int `json:"values,omitempty" yaml:"values,omitempty,flow"`
	Offset     *int   `json:"offset,omitempty" yaml:"offset,omitempty"`
	Day        *int   `json:"day,omitempty" yaml:"day,omitempty"`
	WeekNth    *int   `json:"weekNth,omitempty" yaml:"weekNth,omitempty"`
	WeekdayNth *int   `json:"weekdayNth,omitempty" yaml:"weekdayNth,omitempty"`
	Weekday    *int   `json:"weekday,omitempty" yaml:"weekday,omitempty"`
}

func intPtr(v int) *int { return &v }

func (fm FieldModel) wire() fieldModelWire {
	w := fieldModelWire{Mode: fm.Mode.String()}
	switch fm.Mode {
	case ModeRange:
		w.Start, w.End = intPtr(fm.Start), intPtr(fm.End)
	case ModeStep:
		w.From, w.Step = intPtr(fm.From), intPtr(fm.Step)
	case ModeList:
		values := fm.Values
		if values == nil {
			values = []int{}
		}
		w.Values = &values
	case ModeLastDayOffset:
		w.Offset = intPtr(fm.Offset)
	case ModeNearestWeekday:
		w.Day = intPtr(fm.Day)
	case ModeNthWeekOfMonth:
		w.WeekNth, w.WeekdayNth = intPtr(fm.WeekNth), intPtr(fm.Weekday)
	case ModeLastWeekdayOfMonth:
		w.Weekday = intPtr(fm.Weekday)
	}
	return w
}

// payload gives access to the keys of an encoded field model independently
// of the encoding.
type payload interface {
	int(key string) (int, error)
	ints(key string) ([]int, error)
}

// decodeFieldModel builds a FieldModel from its mode name and payload. The
// returned error is an ErrorCode.
func decodeFieldModel(mode string, p payload) (FieldModel, error) {
	m, ok := ParseMode(mode)
	if !ok {
		return FieldModel{}, ErrInvalidValue
	}
	fm := FieldModel{Mode: m}

	var err error
	read := func(key string, dst *int) {
		if err == nil {
			*dst, err = p.int(key)
		}
	}
	switch m {
	case ModeRange:
		read("start", &fm.Start)
		read("end", &fm.End)
	case ModeStep:
		read("from", &fm.From)
		read("step", &fm.Step)
	case ModeList:
		fm.Values, err = p.ints("values")
	case ModeLastDayOffset:
		read("offset", &fm.Offset)
	case ModeNearestWeekday:
		read("day", &fm.Day)
	case ModeNthWeekOfMonth:
		read("weekNth", &fm.WeekNth)
		read("weekdayNth", &fm.Weekday)
	case ModeLastWeekdayOfMonth:
		read("weekday", &fm.Weekday)
	}
	if err != nil {
		return FieldModel{}, err
	}
	return fm, nil
}

type jsonPayload map[string]json.RawMessage

func (p jsonPayload) int(key string) (int, error) {
	var v int
	raw, ok := p[key]
	if !ok || json.Unmarshal(raw, &v) != nil {
		return 0, ErrNotInteger
	}
	return v, nil
}

func (p jsonPayload) ints(key string) ([]int, error) {
	raw := bytes.TrimSpace(p[key])
	if len(raw) == 0 || raw[0] != '[' {
		return nil, ErrNotList
	}
	var v []int
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, ErrNotInteger
	}
	return v, nil
}

type yamlPayload map[string]*yaml.Node

func (p yamlPayload) int(key string) (int, error) {
	var v int
	n, ok := p[key]
	if !ok || n.Kind != yaml.ScalarNode || n.Decode(&v) != nil {
		return 0, ErrNotInteger
	}
	return v, nil
}

func (p yamlPayload) ints(key string) ([]int, error) {
	n, ok := p[key]
	if !ok || n.Kind != yaml.SequenceNode {
		return nil, ErrNotList
	}
	var v []int
	if err := n.Decode(&v); err != nil {
		return nil, ErrNotInteger
	}
	return v, nil
}

// MarshalJSON implements json.Marshaler.
func (fm FieldModel) MarshalJSON() ([]byte, error) {
	return json.Marshal(fm.wire())
}

// UnmarshalJSON implements json.Unmarshaler. Decoding errors are ErrorCode
// values: ErrInvalidValue for an unknown mode, ErrNotInteger for a missing
// or non-integer payload, ErrNotList when values is not an array.
func (fm *FieldModel) UnmarshalJSON(data []byte) error {
	var p jsonPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ErrInvalidValue
	}
	var mode string
	if err := json.Unmarshal(p["mode"], &mode); err != nil {
		return ErrInvalidValue
	}
	v, err := decodeFieldModel(mode, p)
	if err != nil {
		return err
	}
	*fm = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (fm FieldModel) MarshalYAML() (interface{}, error) {
	return fm.wire(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler with the same error codes as
// UnmarshalJSON.
func (fm *FieldModel) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return ErrInvalidValue
	}
	p := yamlPayload{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		p[value.Content[i].Value] = value.Content[i+1]
	}
	var mode string
	if n, ok := p["mode"]; !ok || n.Decode(&mode) != nil {
		return ErrInvalidValue
	}
	v, err := decodeFieldModel(mode, p)
	if err != nil {
		return err
	}
	*fm = v
	return nil
}

// modelWire gives Model its field names on the wire.
type modelWire struct {
	Seconds    FieldModel `json:"seconds" yaml:"seconds"`
	Minutes    FieldModel `json:"minutes" yaml:"minutes"`
	Hours      FieldModel `json:"hours" yaml:"hours"`
	DayOfMonth FieldModel `json:"dayOfMonth" yaml:"dayOfMonth"`
	Month      FieldModel `json:"month" yaml:"month"`
	DayOfWeek  FieldModel `json:"dayOfWeek" yaml:"dayOfWeek"`
	Year       FieldModel `json:"year" yaml:"year"`
}

// MarshalJSON implements json.Marshaler.
func (m Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(modelWire(m))
}

// fieldDecodeError turns a FieldModel decoding error into a
// *ValidationError for field f.
func fieldDecodeError(f Field, err error) error {
	var code ErrorCode
	if !errors.As(err, &code) {
		code = ErrInvalidValue
	}
	return &ValidationError{Field: f, Code: code}
}

// UnmarshalJSON implements json.Unmarshaler. Fields missing from the object
// keep their DefaultModel value. A field that fails to decode is reported
// as a *ValidationError.
func (m *Model) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("quartzcron: decode model: %w", err)
	}
	out := DefaultModel()
	for _, f := range Fields {
		data, ok := raw[f.String()]
		if !ok {
			continue
		}
		var fm FieldModel
		if err := fm.UnmarshalJSON(data); err != nil {
			return fieldDecodeError(f, err)
		}
		out.Set(f, fm)
	}
	*m = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m Model) MarshalYAML() (interface{}, error) {
	return modelWire(m), nil
}

// UnmarshalYAML implements yaml.Unmarshaler like UnmarshalJSON.
func (m *Model) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("quartzcron: decode model: expected a mapping, got %s", value.Tag)
	}
	out := DefaultModel()
	for i := 0; i+1 < len(value.Content); i += 2 {
		f, ok := ParseField(value.Content[i].Value)
		if !ok || f == Global {
			continue
		}
		var fm FieldModel
		if err := fm.UnmarshalYAML(value.Content[i+1]); err != nil {
			return fieldDecodeError(f, err)
		}
		out.Set(f, fm)
	}
	*m = out
	return nil
}

// Expression is a Quartz expression held in a configuration file. Decoding
// anything but a string fails with ErrNotString.
type Expression string

// Model parses the expression.
func (e Expression) Model() (Model, error) {
	return Parse(string(e))
}

// Validate reports whether the expression parses.
func (e Expression) Validate() error {
	return ValidateExpression(string(e))
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Expression) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return &ValidationError{Field: Global, Code: ErrNotString}
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &ValidationError{Field: Global, Code: ErrNotString}
	}
	*e = Expression(s)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Expression) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!str" {
		return &ValidationError{Field: Global, Code: ErrNotString, Value: value.Value}
	}
	*e = Expression(value.Value)
	return nil
}
