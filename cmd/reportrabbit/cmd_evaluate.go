package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ezoic/reportrabbit/internal/config"
	"github.com/ezoic/reportrabbit/internal/dataset"
	"github.com/ezoic/reportrabbit/internal/report"
	"github.com/ezoic/reportrabbit/metrics"
	"github.com/ezoic/reportrabbit/pkg/log"
)

// evalFlags holds the flags shared by classify and regress. Zero values mean
// "use the config file".
type evalFlags struct {
	trueCol   string
	predCol   string
	weightCol string
	format    string
	workers   int
}

func (f *evalFlags) register(cmd *cobra.Command, withWeight bool) {
	cmd.Flags().StringVar(&f.trueCol, "true-col", config.DefaultTrueColumn, "Column holding ground truth")
	cmd.Flags().StringVar(&f.predCol, "pred-col", config.DefaultPredColumn, "Column holding predictions")
	if withWeight {
		cmd.Flags().StringVar(&f.weightCol, "weight-col", "", "Column holding sample weights (MSE and RMSE only)")
	}
	cmd.Flags().StringVarP(&f.format, "format", "f", config.DefaultFormat, "Output format: text, json or yaml")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", config.DefaultWorkers, "Number of files evaluated concurrently")
}

// resolve overlays explicitly set flags on the loaded config.
func (f *evalFlags) resolve(cmd *cobra.Command, base *config.Config) (config.Config, error) {
	c := *base
	flags := cmd.Flags()
	if flags.Changed("true-col") {
		c.Columns.True = f.trueCol
	}
	if flags.Changed("pred-col") {
		c.Columns.Pred = f.predCol
	}
	if flags.Lookup("weight-col") != nil && flags.Changed("weight-col") {
		c.Columns.Weight = f.weightCol
	}
	if flags.Changed("format") {
		c.Output.Format = f.format
	}
	if flags.Changed("workers") {
		c.Workers = f.workers
	}
	return c, c.Validate()
}

func newClassifyCommand(opts *rootOptions) *cobra.Command {
	flags := &evalFlags{}
	cmd := &cobra.Command{
		Use:   "classify <file> [file ...]",
		Short: "Report accuracy, precision, recall and F1",
		Long: `Evaluate classification predictions in one or more dataset files.

Labels may be numbers or strings. Accuracy compares labels exactly; precision,
recall and F1 treat any nonzero numeric label as the positive class.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, opts, flags, report.TaskClassification, args)
		},
	}
	flags.register(cmd, false)
	return cmd
}

func newRegressCommand(opts *rootOptions) *cobra.Command {
	flags := &evalFlags{}
	cmd := &cobra.Command{
		Use:   "regress <file> [file ...]",
		Short: "Report MAE, MAPE, MSE, RMSE, Pearson R and R²",
		Long: `Evaluate regression predictions in one or more dataset files.

MAPE is reported as a ratio and left undefined when the ground truth contains
zeros; R² is left undefined for fewer than two samples. Sample weights, when
given, apply to MSE and RMSE.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, opts, flags, report.TaskRegression, args)
		},
	}
	flags.register(cmd, true)
	return cmd
}

func runEvaluate(cmd *cobra.Command, opts *rootOptions, flags *evalFlags, task string, files []string) error {
	cfg, err := flags.resolve(cmd, opts.cfg)
	if err != nil {
		return err
	}

	results, err := evaluateFiles(cmd.Context(), task, files, cfg)
	if err != nil {
		return err
	}

	if err := report.Render(cmd.OutOrStdout(), cfg.Output.Format, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	if failed > 0 {
		return &EvaluationFailedError{Failed: failed, Total: len(results)}
	}
	return nil
}

// evaluateFiles scores every file with at most cfg.Workers in flight.
// Results keep the order of files. A file that fails to load or score is
// recorded in its Result; only cancellation aborts the batch.
func evaluateFiles(ctx context.Context, task string, files []string, cfg config.Config) ([]report.Result, error) {
	results := make([]report.Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = evaluateFile(task, path, cfg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "evaluation interrupted")
	}
	return results, nil
}

func evaluateFile(task, path string, cfg config.Config) report.Result {
	result := report.Result{File: path, Task: task}
	logger := log.GetLoggerWithName("cli").With(log.FileKey, path)

	if err := scoreFile(&result, path, cfg); err != nil {
		logger.Warn("Evaluation failed", log.ErrorKey, err.Error())
		result.Error = err.Error()
		return result
	}
	logger.Info("Evaluation completed", log.MetricKey, task)
	return result
}

func scoreFile(result *report.Result, path string, cfg config.Config) error {
	frame, err := dataset.Load(path)
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

	switch result.Task {
	case report.TaskClassification:
		summary, err := metrics.ClassificationReport(yTrue, yPred)
		if err != nil {
			return err
		}
		result.Classification = &summary
	case report.TaskRegression:
		var opts []metrics.Option
		if cfg.Columns.Weight != "" {
			w, err := frame.Column(cfg.Columns.Weight)
			if err != nil {
				return err
			}
			opts = append(opts, metrics.WithSampleWeight(w))
		}
		summary, err := metrics.RegressionReport(yTrue, yPred, opts...)
		if err != nil {
			return err
		}
		result.Regression = &summary
	default:
		return errors.Newf("unknown task %q", result.Task)
	}
	return nil
}
