package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ezoic/reportrabbit/internal/config"
	"github.com/ezoic/reportrabbit/internal/dataset"
	"github.com/ezoic/reportrabbit/internal/report"
)

func newPlotCommand(opts *rootOptions) *cobra.Command {
	var (
		out     string
		title   string
		trueCol string
		predCol string
	)

	cmd := &cobra.Command{
		Use:   "plot <file>",
		Short: "Save a parity plot of predictions against ground truth",
		Long: `Draw every (y_true, y_pred) pair as a point together with the y = x line.

The image format follows the extension of --out (png, svg, pdf, ...).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *opts.cfg
			if cmd.Flags().Changed("out") {
				cfg.Output.Plot = out
			}
			if cmd.Flags().Changed("true-col") {
				cfg.Columns.True = trueCol
			}
			if cmd.Flags().Changed("pred-col") {
				cfg.Columns.Pred = predCol
			}
			if title == "" {
				title = filepath.Base(args[0])
			}

			frame, err := dataset.Load(args[0])
			if err != nil {
				return err
			}
			yTrue, err := frame.Column(cfg.Columns.True)
			if err != nil {
				return err
			}
			yPred, err := frame.Column(cfg.Columns.Pred)
			if err != nil {
				return err
			}

			if err := report.ParityPlot(cfg.Output.Plot, title, yTrue, yPred); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plot saved to %s\n", cfg.Output.Plot)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", config.DefaultPlotPath, "Output image path")
	cmd.Flags().StringVar(&title, "title", "", "Plot title (default: the file name)")
	cmd.Flags().StringVar(&trueCol, "true-col", config.DefaultTrueColumn, "Column holding ground truth")
	cmd.Flags().StringVar(&predCol, "pred-col", config.DefaultPredColumn, "Column holding predictions")

	return cmd
}
