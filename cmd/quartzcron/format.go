package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/netresearch/go-quartzcron"
)

type formatOutput struct {
	Expression string              `json:"expression,omitempty" yaml:"expression,omitempty"`
	Valid      bool                `json:"valid" yaml:"valid"`
	Fields     []formatFieldOutput `json:"fields" yaml:"fields"`
	Errors     map[string]string   `json:"errors,omitempty" yaml:"errors,omitempty"`
}

type formatFieldOutput struct {
	Field      string   `json:"field" yaml:"field"`
	Expression string   `json:"expression,omitempty" yaml:"expression,omitempty"`
	Errors     []string `json:"errors,omitempty" yaml:"errors,omitempty,flow"`
}

func newFormatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "format [FILE|-]",
		Short: "Render a JSON or YAML field model as an expression",
		Long: `Reads a model such as

  {"hours": {"mode": "range", "start": 9, "end": 17},
   "dayOfMonth": {"mode": "unspecified"},
   "dayOfWeek": {"mode": "list", "values": [2, 4, 6]}}

from FILE or standard input and prints the expression it stands for. Fields
that are left out keep the default "* * * * * ? *".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			m, err := decodeModel(data)
			if err != nil {
				return err
			}

			out := formatOutput{Valid: true}
			for _, r := range quartzcron.FormatFields(m) {
				fo := formatFieldOutput{Field: r.Field.String(), Expression: r.Expression}
				for _, code := range r.Errors {
					fo.Errors = append(fo.Errors, string(code))
				}
				if len(r.Errors) > 0 {
					out.Valid = false
				}
				out.Fields = append(out.Fields, fo)
			}
			errs := quartzcron.ValidateModel(m)
			out.Errors = errorMap(errs)
			if len(errs) > 0 {
				out.Valid = false
			}
			if out.Valid {
				out.Expression = m.String()
			}
			a.log.Debug().Bool("valid", out.Valid).Msg("formatted model")

			err = a.render(cmd.OutOrStdout(), out, func(w io.Writer) {
				if out.Valid {
					fmt.Fprintln(w, out.Expression)
					return
				}
				printErrors(w, errs)
			})
			if err != nil {
				return err
			}
			if !out.Valid {
				return errSilent
			}
			return nil
		},
	}
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}

// decodeModel accepts JSON objects and YAML documents.
func decodeModel(data []byte) (quartzcron.Model, error) {
	var m quartzcron.Model
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return m, fmt.Errorf("decode json model: %w", err)
		}
		return m, nil
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode yaml model: %w", err)
	}
	return m, nil
}
