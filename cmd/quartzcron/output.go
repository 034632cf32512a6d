package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/netresearch/go-quartzcron"
)

var (
	colorError = color.New(color.FgRed).SprintFunc()
	colorOK    = color.New(color.FgGreen).SprintFunc()
	colorWarn  = color.New(color.FgYellow).SprintFunc()
	colorKey   = color.New(color.Bold).SprintFunc()
)

// render writes data as JSON or YAML, or calls human for the text format.
func (a *app) render(w io.Writer, data interface{}, human func(io.Writer)) error {
	switch format := a.v.GetString("output"); format {
	case "json":
		b, err := json.MarshalIndent(data, "", "    ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		human(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// errorMap keys field errors by field name.
func errorMap(errs quartzcron.FieldErrors) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string]string, len(errs))
	for f, code := range errs {
		out[f.String()] = string(code)
	}
	return out
}

func printErrors(w io.Writer, errs quartzcron.FieldErrors) {
	for _, f := range errs.Ordered() {
		code := errs[f]
		fmt.Fprintf(w, "%-12s %s  %s\n", f.String()+":", colorError(string(code)), code.Message())
	}
}

// timeValue is a pflag.Value for RFC3339 instants.
type timeValue time.Time

var _ pflag.Value = (*timeValue)(nil)

func (v *timeValue) String() string {
	if v == nil || time.Time(*v).IsZero() {
		return ""
	}
	return time.Time(*v).Format(time.RFC3339)
}

func (v *timeValue) Set(s string) error {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*v = timeValue(t)
	return nil
}

func (v *timeValue) Type() string { return "time" }

// instant returns the flag value in loc, or now when the flag is unset.
func (a *app) instant(v *timeValue, loc *time.Location) time.Time {
	if t := time.Time(*v); !t.IsZero() {
		return t.In(loc)
	}
	return a.now().In(loc)
}
