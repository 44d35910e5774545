// Package report renders evaluation results for the reportrabbit CLI.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/ezoic/reportrabbit/metrics"
)

// Task names.
const (
	TaskClassification = "classification"
	TaskRegression     = "regression"
)

// Result is the outcome of evaluating one dataset file. Exactly one of
// Classification, Regression or Error is set.
type Result struct {
	File           string                         `json:"file" yaml:"file"`
	Task           string                         `json:"task" yaml:"task"`
	Classification *metrics.ClassificationSummary `json:"classification,omitempty" yaml:"classification,omitempty"`
	Regression     *metrics.RegressionSummary     `json:"regression,omitempty" yaml:"regression,omitempty"`
	Error          string                         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the evaluation of this file failed.
func (r Result) Failed() bool {
	return r.Error != ""
}

// Render writes results to w in the given format: text, json or yaml.
func Render(w io.Writer, format string, results []Result) error {
	switch format {
	case "text", "":
		return renderText(w, results)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(results), "encoding json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return errors.Wrap(enc.Close(), "encoding yaml")
	default:
		return errors.Newf("unknown output format %q", format)
	}
}

func renderText(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		switch {
		case r.Failed():
			fmt.Fprintf(tw, "%s (%s)\n", r.File, r.Task)
			fmt.Fprintf(tw, "  error:\t%s\n", r.Error)
		case r.Classification != nil:
			c := r.Classification
			fmt.Fprintf(tw, "%s (%s, n=%d)\n", r.File, r.Task, c.NSamples)
			row(tw, "accuracy", c.Accuracy)
			row(tw, "precision", c.Precision)
			row(tw, "recall", c.Recall)
			row(tw, "f1", c.F1)
			fmt.Fprintf(tw, "  confusion:\ttp=%d fp=%d fn=%d tn=%d\n",
				c.Confusion.TruePositives, c.Confusion.FalsePositives,
				c.Confusion.FalseNegatives, c.Confusion.TrueNegatives)
		case r.Regression != nil:
			g := r.Regression
			fmt.Fprintf(tw, "%s (%s, n=%d)\n", r.File, r.Task, g.NSamples)
			row(tw, "mae", g.MAE)
			optionalRow(tw, "mape", g.MAPE)
			row(tw, "mse", g.MSE)
			row(tw, "rmse", g.RMSE)
			row(tw, "r", g.R)
			optionalRow(tw, "r2", g.R2)
			for _, n := range g.Notes {
				fmt.Fprintf(tw, "  note:\t%s\n", strings.TrimPrefix(n, "reportrabbit: "))
			}
		}
	}
	return errors.Wrap(tw.Flush(), "writing report")
}

func row(w io.Writer, name string, v float64) {
	fmt.Fprintf(w, "  %s:\t%.4f\n", name, v)
}

func optionalRow(w io.Writer, name string, v *float64) {
	if v == nil {
		fmt.Fprintf(w, "  %s:\tundefined\n", name)
		return
	}
	row(w, name, *v)
}
