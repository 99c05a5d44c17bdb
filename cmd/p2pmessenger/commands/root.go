package commands

import (
	"os"

	"github.com/spf13/cobra"

	"p2pmessenger/internal/app"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	appCtx     *app.App
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "p2pmessenger",
		Short:        "Two-peer encrypted chat over TCP",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfigPath(); err != nil {
				return err
			}
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if logFormat != "" {
				cfg.Log.Format = logFormat
			}
			appCtx, err = app.New(cfg, os.Stderr)
			return err
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/p2pmessenger/p2pmessenger.toml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(listenCmd(), dialCmd(), configCmd())
	return root
}

func resolveConfigPath() error {
	if configPath != "" {
		return nil
	}
	p, err := app.DefaultConfigPath()
	if err != nil {
		return err
	}
	configPath = p
	return nil
}
