package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/rhartert/lsroute/config"
	"github.com/rhartert/lsroute/session"
	"github.com/spf13/cobra"
)

// exitFailure is the exit code of a failed load, build or path command.
const exitFailure = -1

// failure marks errors that happen while running a command, as opposed to
// usage errors reported by cobra.
type failure struct {
	err error
}

func (f failure) Error() string { return f.err.Error() }
func (f failure) Unwrap() error { return f.err }

func fail(err error) error {
	if err == nil {
		return nil
	}
	return failure{err}
}

// app holds what every command needs once flags have been parsed.
type app struct {
	configPath string
	verbose    bool
	overrides  config.Config // flag values, applied only when set

	cfg      config.Config
	log      *slog.Logger
	closeLog func() error
	logOut   io.Writer
}

func (a *app) session(file string) (*session.Session, error) {
	return session.Load(file, a.cfg, a.log)
}

func newRootCmd(logOut io.Writer) (*cobra.Command, *app) {
	a := &app{logOut: logOut}

	rootCmd := &cobra.Command{
		Use:   "lsroute",
		Short: "Link-state routing table simulator",
		Long: `lsroute builds the link-state packets of a small network of routers from a
cost matrix file, and computes the routing table of each router with Dijkstra's
algorithm, using the tentative and confirmed lists of link-state protocols.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return a.init(cmd)
		},
	}
	rootCmd.SilenceErrors = true

	rootCmd.AddGroup(&cobra.Group{
		ID:    "routing",
		Title: "Routing Commands",
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output")
	flags.StringVarP(&a.overrides.Output, "output", "o", "", "Output format (text or yaml)")
	flags.StringVar(&a.overrides.Frontier, "frontier", "", "Tentative route selection (scan or heap)")
	flags.StringVar(&a.overrides.NoLink, "no-link", "", "Costs meaning no link (zero-or-negative, strict or zero)")
	flags.IntVar(&a.overrides.Workers, "workers", 0, "Number of routing tables computed in parallel")

	rootCmd.AddCommand(
		newLSPCmd(a),
		newTableCmd(a),
		newPathCmd(a),
		newMenuCmd(a),
	)
	return rootCmd, a
}

// init loads the configuration, applies flag overrides and sets up logging.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = a.overrides.Output
	}
	if cmd.Flags().Changed("frontier") {
		cfg.Frontier = a.overrides.Frontier
	}
	if cmd.Flags().Changed("no-link") {
		cfg.NoLink = a.overrides.NoLink
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = a.overrides.Workers
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.log, a.closeLog, err = newLogger(a.logOut, cfg)
	return err
}

// execute runs the command line and returns the process exit code.
func execute(args []string) int {
	rootCmd, a := newRootCmd(os.Stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if a.closeLog != nil {
		if cerr := a.closeLog(); err == nil {
			err = cerr
		}
	}
	return exitCode(rootCmd, err)
}

func exitCode(cmd *cobra.Command, err error) int {
	if err == nil {
		return 0
	}
	cmd.PrintErrln("Error:", err)
	var f failure
	if errors.As(err, &f) {
		return exitFailure
	}
	return 1
}

// parseRouter parses a router id given on the command line.
func parseRouter(s string) (int, error) {
	r, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid router id %q", s)
	}
	return r, nil
}
