// cmd/bakar/main.go
//
// This is the entry point for the bakar till.
// Running `bakar` opens the till in the alternate screen. The working
// directory (or --dir, or BAKAR_HOME) holds the .bakar/ folder with the
// config and the logs.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kingrea/bakar/internal/config"
	"github.com/kingrea/bakar/internal/logbook"
	"github.com/kingrea/bakar/internal/logging"
	"github.com/kingrea/bakar/internal/settings"
	"github.com/kingrea/bakar/internal/till"
	"github.com/kingrea/bakar/internal/tui"
)

var (
	projectDirFlag string
	verbose        bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bakar",
		Short: "BAKAR PS & CAFÉ till",
		Long: `bakar runs the café counter: device timers for the movie rooms and
consoles, café invoices, the price list, drawer withdrawals and the daily
report. Everything lives in memory for the session.

Run without arguments to open the till.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTill(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&projectDirFlag, "dir", "", "project directory holding .bakar/ (default: $BAKAR_HOME or the working directory)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "write debug entries to the process log")

	root.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create .bakar/ with a default config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ResolveProjectDir(projectDirFlag)
			if err != nil {
				return err
			}
			if err := config.InitDir(dir); err != nil {
				return err
			}
			cmd.Printf("Initialized %s\n", dir)
			return nil
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ResolveProjectDir(projectDirFlag)
			if err != nil {
				return err
			}
			cfg, err := config.NewConfig(dir)
			if err != nil {
				return err
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			cmd.Print(string(data))
			return nil
		},
	})
	return root
}

func runTill(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	dir, err := config.ResolveProjectDir(projectDirFlag)
	if err != nil {
		return err
	}
	if err := config.InitDir(dir); err != nil {
		return fmt.Errorf("initializing .bakar directory: %w", err)
	}
	cfg, err := config.NewConfig(dir)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.ProcessLogPath(), verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	journal, err := logbook.New(cfg.JournalPath())
	if err != nil {
		return err
	}
	defer journal.Close()

	st, err := settings.New(cfg.Project.CafeName, cfg.Project.Currency.Label, cfg.Project.Passcode)
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	format, err := cfg.Formatter()
	if err != nil {
		return err
	}
	t, err := till.New(cfg.DeviceSpecs(), st, till.WithJournal(journal), till.WithFormatter(format))
	if err != nil {
		return err
	}
	logger.Info("till started", zap.String("dir", dir), zap.Int("devices", len(cfg.DeviceSpecs())))

	// tea.NewProgram creates a new bubbletea application
	// tui.NewApp returns our main application model
	p := tea.NewProgram(
		tui.NewApp(t, tui.FromConfig(cfg), tui.WithLogger(logger)),
		tea.WithAltScreen(), // Use alternate screen buffer (like vim does)
		tea.WithContext(ctx),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
	g.Go(func() error {
		w := config.NewWatcher(dir, logger, func(c *config.Config) {
			p.Send(tui.ConfigReloaded(c))
		})
		if err := w.Run(gctx); err != nil {
			logger.Warn("config watcher stopped", zap.Error(err))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	logger.Info("till closed")
	return nil
}
