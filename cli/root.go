// Package cli implements the portalctl commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-portal-client/api"
	"github.com/jrsteele09/go-portal-client/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// app is the state shared by every command of one invocation.
type app struct {
	configFile string
	verbose    bool
	output     string

	cfg      config.Config
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *api.Metrics
}

func NewRootCommand() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:               "portalctl",
		Short:             "Command line client for the portal API",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.reportMetrics,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.banner(cmd)
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config-file", "f", "", "config file (yaml, json or toml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.StringVarP(&a.output, "output", "o", outputText, "output format: text, json or yaml")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.registerCmd(),
		a.usersCmd(),
		a.tasksCmd(),
		a.redirectCmd(),
		a.routesCmd(),
		a.ssoCmd(),
	)
	return root
}

// Execute runs portalctl until completion or SIGINT/SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	switch a.output {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}

	cfg, err := config.NewFromFile(a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if a.verbose {
		level = zerolog.DebugLevel
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().
		Logger()
	log.Logger = a.logger

	a.registry = prometheus.NewRegistry()
	a.metrics, err = api.NewMetrics(a.registry)
	return err
}

// reportMetrics logs the per-operation request counters when running verbose.
func (a *app) reportMetrics(_ *cobra.Command, _ []string) {
	if !a.verbose || a.registry == nil {
		return
	}
	families, err := a.registry.Gather()
	if err != nil {
		log.Err(err).Msg("Failed to gather metrics")
		return
	}
	for _, family := range families {
		if family.GetName() != "portal_client_requests_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			event := a.logger.Debug()
			for _, label := range m.GetLabel() {
				event = event.Str(label.GetName(), label.GetValue())
			}
			event.Float64("count", m.GetCounter().GetValue()).Msg("api requests")
		}
	}
}

func (a *app) banner(cmd *cobra.Command) {
	name := "Portal"
	if a.cfg != nil && a.cfg.GetAppName() != "" {
		name = a.cfg.GetAppName()
	}
	fmt.Fprintln(cmd.OutOrStdout(), figure.NewFigure(name, "cybermedium", true).String())
}
