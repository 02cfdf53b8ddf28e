package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"srcfix/internal/config"
	"srcfix/internal/logging"
)

const version = "0.3.0"

// Exit code returned when --fail-on-changes finds pending rewrites.
const exitPendingChanges = 3

type exitCodeError struct {
	code int
	err  error
}

func (e exitCodeError) Error() string {
	if e.err == nil {
		return "command failed"
	}
	return e.err.Error()
}

func (e exitCodeError) Unwrap() error {
	return e.err
}

func (e exitCodeError) ExitCode() int {
	if e.code <= 0 {
		return 1
	}
	return e.code
}

type cli struct {
	root *cobra.Command

	configPath string
	logLevel   string
	logJSON    bool
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newCLI() *cli {
	c := &cli{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "srcfix",
		Short:         "Maintenance passes for the Hohma Swift source tree",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `srcfix bundles the maintenance passes used on the Hohma iOS app:

  replace-prints  rewrite print(...) calls into AppLogger calls
  fix-logger      repair AppLogger calls damaged by an earlier rewrite
  sync-email      copy SUPPORT_EMAIL from Info.plist into the legal documents

Settings come from .srcfix.yaml in the working directory (or --config).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(logging.Options{Level: c.logLevel, Verbose: c.verbose, JSON: c.logJSON})
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logger
			c.logger.Debug("config loaded", zap.String("source_dir", cfg.SourceDir), zap.String("receiver", cfg.Logger.Receiver))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to config file (default ./"+config.DefaultFileName+" if present)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug|info|warn|error (default warn)")
	flags.BoolVar(&c.logJSON, "log-json", false, "emit logs as JSON")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.newReplacePrintsCmd(),
		c.newFixLoggerCmd(),
		c.newSyncEmailCmd(),
	)
	c.root = root
	return c
}

func (c *cli) Run(args []string) error {
	c.root.SetArgs(args)
	return c.root.Execute()
}
