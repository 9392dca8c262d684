// Package commands implements the surfaced command line interface.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	surface "github.com/kitchenlab/surface"
	"github.com/kitchenlab/surface/internal/config"
)

var cfg *config.Config

// Execute runs the surfaced CLI.
func Execute() error {
	root := &cobra.Command{
		Use:           "surfaced",
		Short:         "Kitchen surface configurator service",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			level, err := parseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			surface.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
			return nil
		},
	}

	root.AddCommand(serveCmd(), renderCmd(), versionCmd())
	return root.Execute()
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the surfaced version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("surfaced", surface.Version)
		},
	}
}
