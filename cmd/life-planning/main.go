package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/life-planning/internal/config"
	"github.com/iwvelando/life-planning/internal/server"
	"github.com/iwvelando/life-planning/internal/simulation"
	"github.com/iwvelando/life-planning/pkg/constants"
	"github.com/iwvelando/life-planning/pkg/output"
	"github.com/iwvelando/life-planning/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type simulateOptions struct {
	configPath   string
	outputFormat string
	summary      bool
}

type serveOptions struct {
	configPath    string
	address       string
	maxUploadSize string
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "life-planning",
		Short: "Simulate income, deductions and social insurance premiums year by year",
		Long: `life-planning projects a person's salary, employment income deduction,
standard monthly remuneration grade and social insurance premiums for every
calendar year in a range.

Run a simulation file from the command line with "simulate" or expose the
simulation over HTTP with "serve".`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(
		newSimulateCmd(&logLevel),
		newServeCmd(&logLevel),
		newVersionCmd(),
	)
	return rootCmd
}

func newSimulateCmd(logLevel *string) *cobra.Command {
	opts := simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a simulation file and print the yearly table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, opts, *logLevel)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to simulation file")
	cmd.Flags().StringVar(&opts.outputFormat, "output", "", "type of output override: pretty, csv, json, yaml")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "append range totals to the output")
	return cmd
}

func runSimulate(cmd *cobra.Command, opts simulateOptions, logLevel string) error {
	conf, err := config.LoadConfiguration(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
	}

	logger, err := config.NewLogger(conf.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.runSimulate"),
		)
	}

	req, err := conf.Request()
	if err != nil {
		return fmt.Errorf("invalid simulation file: %w", err)
	}

	records, err := simulation.NewEngine(logger, conf.SimulationLimits()).Simulate(req)
	if err != nil {
		return fmt.Errorf("failed to run simulation: %w", err)
	}

	var summary *simulation.Summary
	if opts.summary || conf.Output.Summary {
		s := simulation.Summarize(records)
		summary = &s
	}

	return output.Write(cmd.OutOrStdout(), outputFormat, records, summary)
}

func newServeCmd(logLevel *string) *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, *logLevel)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&opts.address, "address", "", "listen address override")
	cmd.Flags().StringVar(&opts.maxUploadSize, "max-upload-size", "", "maximum request body size override (e.g. 64K, 1M)")
	return cmd
}

func runServe(ctx context.Context, opts serveOptions, logLevel string) error {
	cfg, err := server.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.address != "" {
		cfg.Address = opts.address
	}
	if opts.maxUploadSize != "" {
		size, err := server.ParseSize(opts.maxUploadSize)
		if err != nil {
			return err
		}
		cfg.SetUploadSizeBytes(size)
	}

	logger, err := config.NewLogger(cfg.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("starting server",
		zap.String("op", "main.runServe"),
		zap.String("address", cfg.Address),
		zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
		zap.String("version", version),
	)

	handler := server.NewHandler(logger, cfg.UploadSizeBytes(), version, cfg.SimulationLimits())
	return server.Run(ctx, cfg, handler, logger)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
