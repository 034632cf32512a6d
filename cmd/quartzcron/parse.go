package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/netresearch/go-quartzcron"
)

type parseOutput struct {
	Expression string            `json:"expression" yaml:"expression"`
	Valid      bool              `json:"valid" yaml:"valid"`
	Canonical  string            `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Model      *quartzcron.Model `json:"model,omitempty" yaml:"model,omitempty"`
	Errors     map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse EXPRESSION...",
		Short: "Parse an expression and show its field model",
		Example: `  quartzcron parse "0 0 12 ? * 2-6 *"
  quartzcron parse -o json 0 15 10 L '*' '?'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := expression(args)
			res := quartzcron.ParseExpression(expr)
			a.log.Debug().Str("expression", expr).Int("errors", len(res.Errors)).Msg("parsed")

			out := parseOutput{Expression: expr, Valid: res.Valid(), Errors: errorMap(res.Errors)}
			if out.Valid {
				m := res.Model
				out.Model = &m
				out.Canonical = m.String()
			}
			err := a.render(cmd.OutOrStdout(), out, func(w io.Writer) {
				if !out.Valid {
					printErrors(w, res.Errors)
					return
				}
				fmt.Fprintf(w, "%s %s\n", colorKey("canonical:"), out.Canonical)
				for _, r := range quartzcron.FormatFields(res.Model) {
					fm := res.Model.Get(r.Field)
					fmt.Fprintf(w, "  %-11s %-8s %s\n", r.Field.String()+":", r.Expression, fm.Mode)
				}
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

type analyzeOutput struct {
	Expression string            `json:"expression" yaml:"expression"`
	Valid      bool              `json:"valid" yaml:"valid"`
	Canonical  string            `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Errors     map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings   []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	NextRuns   []time.Time       `json:"nextRuns,omitempty" yaml:"nextRuns,omitempty"`
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var after timeValue
	cmd := &cobra.Command{
		Use:   "analyze EXPRESSION...",
		Short: "Validate an expression, preview its next runs and list caveats",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.location()
			if err != nil {
				return err
			}
			expr := expression(args)
			res := quartzcron.Analyze(expr, a.instant(&after, loc), a.count(cmd))
			out := analyzeOutput{
				Expression: expr,
				Valid:      res.Valid,
				Canonical:  res.Expression,
				Errors:     errorMap(res.Errors),
				Warnings:   res.Warnings,
				NextRuns:   res.NextRuns,
			}
			err = a.render(cmd.OutOrStdout(), out, func(w io.Writer) {
				if !res.Valid {
					printErrors(w, res.Errors)
					return
				}
				fmt.Fprintf(w, "%s %s\n", colorOK("valid:"), res.Expression)
				for _, warning := range res.Warnings {
					fmt.Fprintf(w, "%s %s\n", colorWarn("warning:"), warning)
				}
				for _, t := range res.NextRuns {
					fmt.Fprintln(w, t.Format(time.RFC3339))
				}
			})
			if err != nil {
				return err
			}
			if !res.Valid {
				return errSilent
			}
			return nil
		},
	}
	cmd.Flags().Var(&after, "after", "preview runs after this RFC3339 time (default now)")
	cmd.Flags().IntP("count", "n", 5, "number of runs to preview")
	return cmd
}
