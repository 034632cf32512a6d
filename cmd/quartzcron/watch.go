package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/netresearch/go-quartzcron"
)

// jobFile is the format of the --file argument:
//
//	jobs:
//	  - name: report
//	    expression: "0 0 6 ? * 2-6"
//	  - name: cleanup
//	    expression: "TZ=Europe/Berlin 0 30 3 L * ?"
type jobFile struct {
	Jobs []jobSpec `yaml:"jobs"`
}

type jobSpec struct {
	Name       string                `yaml:"name"`
	Expression quartzcron.Expression `yaml:"expression"`
}

func loadJobFile(path string) ([]jobSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f jobFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i, j := range f.Jobs {
		if j.Name == "" {
			f.Jobs[i].Name = fmt.Sprintf("job-%d", i+1)
		}
	}
	return f.Jobs, nil
}

// firedJob logs every activation.
type firedJob struct {
	name string
	log  zerolog.Logger
	now  func() time.Time
}

func (j firedJob) Run() {
	j.log.Info().Str("job", j.name).Time("at", j.now()).Msg("fired")
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		jobsPath    string
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "watch [EXPRESSION...]",
		Short: "Run expressions as a scheduler and log every activation",
		Long: `Runs until interrupted. Jobs come from the arguments (one job named
"cli") and from a YAML file given with --file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var jobs []jobSpec
			if len(args) > 0 {
				jobs = append(jobs, jobSpec{Name: "cli", Expression: quartzcron.Expression(expression(args))})
			}
			if jobsPath != "" {
				fromFile, err := loadJobFile(jobsPath)
				if err != nil {
					return err
				}
				jobs = append(jobs, fromFile...)
			}
			if len(jobs) == 0 {
				return errors.New("nothing to watch: pass an expression or --file")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, jobs, metricsAddr)
		},
	}
	cmd.Flags().StringVarP(&jobsPath, "file", "f", "", "YAML file with named jobs")
	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

// watch schedules jobs and blocks until ctx is done.
func (a *app) watch(ctx context.Context, jobs []jobSpec, metricsAddr string) error {
	loc, err := a.location()
	if err != nil {
		return err
	}
	logger := quartzcron.NewZerologLogger(a.log)
	opts := []quartzcron.Option{
		quartzcron.WithLocation(loc),
		quartzcron.WithLogger(logger),
		quartzcron.WithChain(quartzcron.Recover(logger), quartzcron.SkipIfStillRunning(logger)),
	}

	var srv *http.Server
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		hooks, err := quartzcron.NewPrometheusHooks(reg)
		if err != nil {
			return err
		}
		opts = append(opts, quartzcron.WithObservability(hooks))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	c := quartzcron.New(opts...)
	for _, j := range jobs {
		job := firedJob{name: j.Name, log: a.log, now: a.now}
		if _, err := c.AddJob(string(j.Expression), job, quartzcron.WithName(j.Name)); err != nil {
			return fmt.Errorf("job %s: %w", j.Name, err)
		}
	}

	if srv != nil {
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error().Err(err).Str("addr", metricsAddr).Msg("metrics server")
			}
		}()
		a.log.Info().Str("addr", metricsAddr).Msg("serving metrics")
	}

	c.Start()
	for _, e := range c.Entries() {
		a.log.Info().Str("job", e.Name).Time("next", e.Next).Msg("scheduled")
	}

	<-ctx.Done()
	a.log.Info().Msg("stopping")
	c.StopAndWait()
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
	return nil
}
