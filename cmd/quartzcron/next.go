package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/netresearch/go-quartzcron"
)

var errNoMatch = errors.New("time does not match the expression")

// schedule parses the arguments. Expressions without a TZ= prefix are bound
// to the configured time zone.
func (a *app) schedule(args []string) (*quartzcron.Schedule, *time.Location, error) {
	loc, err := a.location()
	if err != nil {
		return nil, nil, err
	}
	s, err := quartzcron.ParseSchedule(expression(args))
	if err != nil {
		return nil, nil, err
	}
	if s.Location == nil {
		s.Location = loc
	}
	return s, s.Location, nil
}

type nextOutput struct {
	Expression string      `json:"expression" yaml:"expression"`
	After      time.Time   `json:"after" yaml:"after"`
	Runs       []time.Time `json:"runs" yaml:"runs"`
}

func newNextCmd(a *app) *cobra.Command {
	var after, until timeValue
	cmd := &cobra.Command{
		Use:   "next EXPRESSION...",
		Short: "Print the next activation times of an expression",
		Example: `  quartzcron next -n 3 "0 0 0 L * ? *"
  quartzcron next --after 2025-01-01T00:00:00Z "TZ=Asia/Tokyo 0 30 4 * * ?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, loc, err := a.schedule(args)
			if err != nil {
				return err
			}
			from := a.instant(&after, loc)
			n := a.count(cmd)
			var runs []time.Time
			if end := time.Time(until); !end.IsZero() {
				runs = quartzcron.Between(s, from, end.In(loc), n)
			} else {
				runs = s.NextN(from, n)
			}
			a.log.Debug().Str("schedule", s.String()).Int("requested", n).Int("found", len(runs)).Msg("computed next runs")

			out := nextOutput{Expression: s.String(), After: from, Runs: runs}
			if out.Runs == nil {
				out.Runs = []time.Time{}
			}
			return a.render(cmd.OutOrStdout(), out, func(w io.Writer) {
				for _, t := range runs {
					fmt.Fprintln(w, t.Format(time.RFC3339))
				}
				if len(runs) < n && time.Time(until).IsZero() {
					fmt.Fprintln(w, colorWarn(fmt.Sprintf("no more activations after %d run(s)", len(runs))))
				}
			})
		},
	}
	cmd.Flags().Var(&after, "after", "compute runs after this RFC3339 time (default now)")
	cmd.Flags().Var(&until, "until", "only print runs before this RFC3339 time")
	cmd.Flags().IntP("count", "n", 5, "number of runs to print")
	return cmd
}

type matchOutput struct {
	Expression string    `json:"expression" yaml:"expression"`
	Time       time.Time `json:"time" yaml:"time"`
	Match      bool      `json:"match" yaml:"match"`
}

func newMatchCmd(a *app) *cobra.Command {
	var at timeValue
	cmd := &cobra.Command{
		Use:   "match EXPRESSION...",
		Short: "Check whether a time is an activation of an expression",
		Long:  "Exits with status 1 when the time does not match.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, loc, err := a.schedule(args)
			if err != nil {
				return err
			}
			t := a.instant(&at, loc)
			out := matchOutput{Expression: s.String(), Time: t, Match: s.Matches(t)}
			err = a.render(cmd.OutOrStdout(), out, func(w io.Writer) {
				if out.Match {
					fmt.Fprintf(w, "%s %s\n", colorOK("match:"), t.Format(time.RFC3339))
					return
				}
				fmt.Fprintf(w, "%s %s\n", colorError("no match:"), t.Format(time.RFC3339))
			})
			if err != nil {
				return err
			}
			if !out.Match {
				return errNoMatch
			}
			return nil
		},
	}
	cmd.Flags().Var(&at, "at", "time to check, RFC3339 (default now)")
	return cmd
}
