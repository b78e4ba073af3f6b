// cfsedit is a terminal editor for CFS save databases. Run with a save
// file to open the interactive editor, or use the subcommands for
// scripted export, batch edits, logo changes and statistics.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cfsedit/cmd/cfsedit/ui"
	"cfsedit/internal/config"
	"cfsedit/internal/logging"
	"cfsedit/internal/session"
	"cfsedit/internal/store"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger for non-interactive subcommands
	logger *zap.Logger

	cfg *config.Config
)

// rootCmd opens the interactive editor.
var rootCmd = &cobra.Command{
	Use:   "cfsedit [save.db]",
	Short: "cfsedit - CFS save database team editor",
	Long: `cfsedit edits the team data inside a CFS save database: wealth,
supporters, stadiums, staff abilities and more, with filtering, batch
edits, CSV export and logo replacement.

Run with a save file to open the interactive editor. The save is a plain
SQLite file; back it up before editing.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.Load(configPath)
		} else {
			cfg, err = config.LoadDefault()
		}
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		home, _ := os.UserHomeDir()
		if err := logging.Initialize(home); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		// The interactive editor owns the terminal; zap is for the
		// scripted subcommands only.
		if cmd == cmd.Root() {
			return nil
		}
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEditor(args[0])
	},
}

func runEditor(dbPath string) error {
	ctx := context.Background()
	st, err := store.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	return ui.Run(session.New(st), *cfg)
}

// openStore opens the save for a scripted subcommand with signal-aware
// cancellation.
func openStore(dbPath string) (*store.Store, context.Context, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	st, err := store.Open(ctx, dbPath)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return st, ctx, cancel, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.cfsedit/config.yaml)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(logoCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
