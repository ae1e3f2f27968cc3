package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/vent/internal/config"
	"github.com/dshills/vent/internal/dom"
	"github.com/dshills/vent/internal/logging"
	"github.com/dshills/vent/internal/script"
	"github.com/dshills/vent/internal/termhost"
	"github.com/dshills/vent/internal/vent"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	Interactive bool
	Watch       bool
	Regions     string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <page.html> <script.lua>",
		Short: "Run a Lua script against an HTML document",
		Long: `Run parses the document, exposes it to the script through the vent
global and executes the script. With --interactive the elements matching
--regions are laid out one per row and terminal input is delivered to them
until Escape or Ctrl-C.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, rootOpts, opts, args[0], args[1])
		},
	}

	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "route terminal input to the document")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "reload dispatch settings when the config file changes")
	cmd.Flags().StringVar(&opts.Regions, "regions", "a, button, li", "selector for elements given screen regions")

	return cmd
}

func runScript(cmd *cobra.Command, rootOpts *RootOptions, opts *RunOptions, pagePath, scriptPath string) error {
	cfg, err := rootOpts.loadConfig()
	if err != nil {
		return err
	}
	logger := rootOpts.newLogger(cfg, cmd.ErrOrStderr())

	f, err := os.Open(pagePath)
	if err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	doc, err := dom.Parse(f)
	f.Close()
	if err != nil {
		return err
	}

	engineOpts := append(cfg.EngineOptions(),
		vent.WithResolver(doc),
		vent.WithMatchFunc(doc.Match),
		vent.WithLogger(logger),
	)
	engine := vent.New(engineOpts...)
	defer engine.Close()

	if opts.Watch && rootOpts.ConfigPath != "" {
		w, err := config.NewWatcher(rootOpts.ConfigPath,
			config.WithWatcherLogger(logger),
			config.OnChange(func(next *config.Config) {
				next.Apply(engine)
				if rootOpts.LogLevel == "" {
					logger.SetLevel(next.LogLevel())
				}
			}),
		)
		if err != nil {
			return fmt.Errorf("watching config: %w", err)
		}
		defer w.Close()
	}

	rt := script.New(engine,
		script.WithCallStackSize(cfg.Script.CallStackSize),
		script.WithOutput(cmd.OutOrStdout()),
		script.WithLogger(logger),
	)
	defer rt.Close()

	if err := rt.DoFile(scriptPath); err != nil {
		return err
	}

	if !opts.Interactive {
		return nil
	}
	return runInteractive(doc, engine, opts.Regions, logger)
}

func runInteractive(doc *dom.Document, engine *vent.Engine, regions string, logger *logging.Logger) error {
	host, err := termhost.NewTerminal(engine, doc.Root(), termhost.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("creating terminal: %w", err)
	}
	if err := host.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer host.Shutdown()

	width, _ := host.Screen().Size()
	for i, el := range doc.QuerySelectorAll(regions) {
		label := el.Text()
		if label == "" {
			label = el.String()
		}
		host.AddRegion(termhost.Rect{X: 0, Y: i, Width: width, Height: 1}, el, label)
	}
	host.Draw()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = host.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
