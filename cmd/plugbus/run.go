package main

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/plugbus/pkg/bus"
	"github.com/go-go-golems/plugbus/pkg/dispatch"
	"github.com/go-go-golems/plugbus/pkg/host"
	"github.com/go-go-golems/plugbus/pkg/tui"
	"github.com/go-go-golems/plugbus/pkg/tui/models"
)

type runFlags struct {
	manifestPath string
	logFile      string
}

func addRunFlags(fs *pflag.FlagSet, flags *runFlags) {
	fs.StringVar(&flags.manifestPath, "plugins", "plugins.yaml", "plugin manifest path")
	fs.StringVar(&flags.logFile, "log-file", "", "write logs to this file (the TUI owns the terminal)")
}

func newRunCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the UI and the plugin host side by side",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBridge(cmd.Context(), flags)
		},
	}
	addRunFlags(cmd.Flags(), flags)
	return cmd
}

func newLogger(flags *runFlags) (zerolog.Logger, func(), error) {
	var w io.Writer = io.Discard
	cleanup := func() {}
	if flags.logFile != "" {
		f, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), cleanup, errors.Wrap(err, "open log file")
		}
		w = zerolog.ConsoleWriter{Out: f, NoColor: true}
		cleanup = func() { _ = f.Close() }
	}
	logger := zerolog.New(w).With().Timestamp().Logger()
	return logger, cleanup, nil
}

func runBridge(ctx context.Context, flags *runFlags) error {
	logger, cleanup, err := newLogger(flags)
	if err != nil {
		return err
	}
	defer cleanup()

	manifest, err := host.LoadManifest(flags.manifestPath)
	if err != nil {
		return err
	}

	b := bus.New(logger)
	defer func() { _ = b.Close() }()

	program := tea.NewProgram(models.NewAppModel(), tea.WithAltScreen())

	// UI side: the single plugin_event subscription plus the
	// uncorrelated toast and settings listeners.
	presenter := tui.NewProgramPresenter(program)
	dispatcher, err := dispatch.New(dispatch.Options{
		Bus:    b,
		Text:   presenter,
		Form:   presenter,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := dispatcher.Start(ctx); err != nil {
		return err
	}
	defer dispatcher.Stop()

	unsubToasts, err := tui.SubscribeToasts(b, program)
	if err != nil {
		return err
	}
	defer unsubToasts()
	unsubSettings, err := tui.SubscribeSettings(b, program)
	if err != nil {
		return err
	}
	defer unsubSettings()

	// Host side: the await-reply client and the JS plugin runtime.
	client := host.NewClient(b, logger)
	runtime := host.NewRuntime(client, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := program.Run()
		// The UI quitting takes the host down with it.
		runtime.Terminate()
		client.Terminate(errors.New("ui exited"))
		cancel()
		return errors.Wrap(err, "run ui")
	})

	g.Go(func() error {
		failures := runtime.InitializeAll(gctx, manifest)
		logger.Info().Int("plugins", len(manifest.Plugins)).Int("failures", len(failures)).
			Msg("plugin initialization finished")
		return nil
	})

	return g.Wait()
}
