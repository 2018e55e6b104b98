package main

import (
	"github.com/spf13/cobra"

	"github.com/Faultbox/spriteforge/internal/config"
	"github.com/Faultbox/spriteforge/internal/logger"
	"github.com/Faultbox/spriteforge/pkg/version"
)

var (
	cfgPath  string
	logLevel string

	cfg *config.Config
)

// NewCommand builds the spriteforge command tree.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "spriteforge",
		Short:         "spriteforge renders animated 3D models into sprite frames and sheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&cfgPath, "config", "c", "", "config file path (default: standard locations)")
	globalFlags.StringVarP(&logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		NewExportCommand(),
		NewCalibrateCommand(),
		NewSheetCommand(),
		NewVersionCommand(),
	)

	return cmd
}

// NewVersionCommand prints the build version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("spriteforge %s (%s)\n", version.Version, version.GitCommit)
		},
	}
}
