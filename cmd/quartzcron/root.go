package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// errSilent makes the command exit 1 without printing anything more. It is
// used when the output already tells what went wrong.
var errSilent = errors.New("")

// app holds the state shared by all subcommands.
type app struct {
	v   *viper.Viper
	log zerolog.Logger
	now func() time.Time

	// logFile is the rotating log file, when log.file is set.
	logFile *lumberjack.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), now: time.Now, log: zerolog.Nop()}
	var configFile string

	root := &cobra.Command{
		Use:           "quartzcron",
		Short:         "Parse, format and evaluate Quartz cron expressions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.loadConfig(configFile); err != nil {
				return err
			}
			return a.configureLogging(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.closeLog()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", `config file (default "$HOME/.quartzcron.yaml")`)
	pf.String("tz", "", "time zone to evaluate expressions in (default local)")
	pf.StringP("output", "o", "text", "output format text|json|yaml")
	pf.Bool("debug", false, "show debug log")

	_ = a.v.BindPFlag("timezone", pf.Lookup("tz"))
	_ = a.v.BindPFlag("output", pf.Lookup("output"))
	_ = a.v.BindPFlag("log.debug", pf.Lookup("debug"))
	a.v.SetDefault("count", 5)
	a.v.SetDefault("log.level", "info")
	a.v.SetDefault("log.json", false)
	a.v.SetDefault("log.max_size", 10)
	a.v.SetDefault("log.max_backups", 3)
	a.v.SetDefault("log.max_age", 28)

	root.AddCommand(
		newParseCmd(a),
		newFormatCmd(a),
		newNextCmd(a),
		newMatchCmd(a),
		newAnalyzeCmd(a),
		newWatchCmd(a),
	)
	return root
}

// loadConfig reads the config file and QUARTZCRON_* environment variables.
// A missing default config file is not an error.
func (a *app) loadConfig(configFile string) error {
	a.v.SetEnvPrefix("QUARTZCRON")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if configFile != "" {
		a.v.SetConfigFile(configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", configFile, err)
		}
		return nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	a.v.AddConfigPath(home)
	a.v.SetConfigName(".quartzcron")
	a.v.SetConfigType("yaml")
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func (a *app) configureLogging(w io.Writer) error {
	level, err := zerolog.ParseLevel(a.v.GetString("log.level"))
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if a.v.GetBool("log.debug") {
		level = zerolog.DebugLevel
	}
	if !a.v.GetBool("log.json") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !isTerminal(w)}
	}
	writers := []io.Writer{w}
	if file := a.v.GetString("log.file"); file != "" {
		a.logFile = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    a.v.GetInt("log.max_size"), // megabytes
			MaxBackups: a.v.GetInt("log.max_backups"),
			MaxAge:     a.v.GetInt("log.max_age"), // days
		}
		writers = append(writers, a.logFile)
	}
	a.log = zerolog.New(io.MultiWriter(writers...)).Level(level).With().Timestamp().Logger()
	return nil
}

func (a *app) closeLog() error {
	if a.logFile == nil {
		return nil
	}
	return a.logFile.Close()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && isatty.IsTerminal(f.Fd())
}

// location returns the configured time zone, time.Local by default.
func (a *app) location() (*time.Location, error) {
	tz := a.v.GetString("timezone")
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", tz, err)
	}
	return loc, nil
}

// count returns the -n flag when given, the configured count otherwise.
func (a *app) count(cmd *cobra.Command) int {
	if cmd.Flags().Changed("count") {
		n, _ := cmd.Flags().GetInt("count")
		return n
	}
	return a.v.GetInt("count")
}

// expression joins the positional arguments, so that both
// `quartzcron next "0 0 12 * * ?"` and `quartzcron next 0 0 12 '*' '*' '?'`
// work.
func expression(args []string) string {
	return strings.Join(args, " ")
}
