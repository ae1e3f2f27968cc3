// Package cli implements the vent command line.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/vent/internal/config"
	"github.com/dshills/vent/internal/logging"
)

// Version information (set via ldflags during build).
var (
	Version = "dev"
	Commit  = "unknown"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "vent",
		Short: "vent - event binding for HTML documents",
		Long: `vent loads an HTML document, runs a Lua script that binds and triggers
events on its elements, and optionally routes terminal input to them.`,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the error
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.LogLevel {
			case "", "debug", "info", "warn", "error":
				return nil
			default:
				return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a TOML or YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewEventsCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vent %s (%s)\n", Version, Commit)
		},
	}
}

// loadConfig reads the configured file, or returns defaults when none is set.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	if o.ConfigPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newLogger builds a logger writing to w at the effective level.
func (o *RootOptions) newLogger(cfg *config.Config, w io.Writer) *logging.Logger {
	level := cfg.LogLevel()
	if o.LogLevel != "" {
		level = logging.ParseLevel(o.LogLevel)
	}
	return logging.New(logging.Config{
		Level:  level,
		Output: w,
		Prefix: "vent",
	})
}
