package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ezoic/reportrabbit/internal/config"
	"github.com/ezoic/reportrabbit/pkg/log"
)

var version = "dev"

// rootOptions is shared by every subcommand. cfg is populated by the root
// command's PersistentPreRunE before any subcommand runs.
type rootOptions struct {
	logLevel   string
	configPath string
	cfg        *config.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "reportrabbit",
		Short: "Reportrabbit - evaluation metrics for model predictions",
		Long: `Reportrabbit scores model predictions against ground truth.

It reads datasets (CSV, JSON or YAML, optionally gzip-compressed) holding a
ground-truth column and a prediction column, and reports classification
metrics (accuracy, precision, recall, F1) or regression metrics (MAE, MAPE,
MSE, RMSE, Pearson R, R²).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel,
		"Log level: trace, debug, info, warn, error or disabled")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"Path to a config file (default: nearest "+config.FileName+")")

	cmd.AddCommand(newClassifyCommand(opts))
	cmd.AddCommand(newRegressCommand(opts))
	cmd.AddCommand(newPlotCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// setup loads configuration and installs the logger. Flags win over the
// config file.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	log.SetupLogger(cfg.LogLevel)

	if cfg.Source != "" {
		log.GetLoggerWithName("cli").Debug("Config loaded", log.FileKey, cfg.Source)
	}
	o.cfg = cfg
	return nil
}
