package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/cockroachdb/errors"

	rabbitErrors "github.com/ezoic/reportrabbit/pkg/errors"
	"github.com/ezoic/reportrabbit/pkg/log"
)

// ClassificationSummary collects every classification metric for one dataset.
type ClassificationSummary struct {
	NSamples  int             `json:"n_samples" yaml:"n_samples"`
	Accuracy  float64         `json:"accuracy" yaml:"accuracy"`
	Precision float64         `json:"precision" yaml:"precision"`
	Recall    float64         `json:"recall" yaml:"recall"`
	F1        float64         `json:"f1" yaml:"f1"`
	Confusion ConfusionCounts `json:"confusion" yaml:"confusion"`
}

// RegressionSummary collects every regression metric for one dataset.
// MAPE and R2 are nil when undefined for the input; Notes says why.
type RegressionSummary struct {
	NSamples int      `json:"n_samples" yaml:"n_samples"`
	MAE      float64  `json:"mae" yaml:"mae"`
	MAPE     *float64 `json:"mape,omitempty" yaml:"mape,omitempty"`
	MSE      float64  `json:"mse" yaml:"mse"`
	RMSE     float64  `json:"rmse" yaml:"rmse"`
	R        float64  `json:"r" yaml:"r"`
	R2       *float64 `json:"r2,omitempty" yaml:"r2,omitempty"`
	Notes    []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// ClassificationReport evaluates accuracy, precision, recall and F1 in one call.
func ClassificationReport(yTrue, yPred interface{}) (ClassificationSummary, error) {
	start := time.Now()

	c, err := Confusion(yTrue, yPred)
	if err != nil {
		return ClassificationSummary{}, err
	}
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return ClassificationSummary{}, err
	}

	summary := ClassificationSummary{
		NSamples:  c.Total(),
		Accuracy:  acc,
		Precision: c.Precision(),
		Recall:    c.Recall(),
		F1:        c.F1(),
		Confusion: c,
	}

	log.GetLoggerWithName("metrics").Debug("Evaluation completed",
		log.OperationKey, log.OperationEvaluate,
		log.MetricKey, "classification",
		log.SamplesKey, summary.NSamples,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return summary, nil
}

// RegressionReport evaluates MAE, MAPE, MSE, RMSE, Pearson R and R² in one call.
// Sample weights, if given, apply to MSE and RMSE only.
//
// Inputs must satisfy the strictest contract among the metrics (MAE's:
// identical shapes, all finite). An undefined MAPE or R² does not fail the
// report; the field is left nil and a note is recorded. The same applies when
// either of them overflows. A required metric that overflows float64 fails the
// report with ErrUndefinedMetric.
func RegressionReport(yTrue, yPred interface{}, opts ...Option) (RegressionSummary, error) {
	start := time.Now()
	var summary RegressionSummary

	mae, err := MAE(yTrue, yPred)
	if err != nil {
		return RegressionSummary{}, err
	}
	summary.MAE = mae

	mape, err := MAPE(yTrue, yPred)
	switch {
	case err == nil:
		summary.MAPE = &mape
	case errors.Is(err, rabbitErrors.ErrUndefinedMetric):
		summary.Notes = append(summary.Notes, err.Error())
	default:
		return RegressionSummary{}, err
	}

	se, err := MSERMSE(yTrue, yPred, opts...)
	if err != nil {
		return RegressionSummary{}, err
	}
	summary.MSE, summary.RMSE = se.MSE, se.RMSE

	r, err := PearsonR(yTrue, yPred)
	if err != nil {
		return RegressionSummary{}, err
	}
	summary.R = r

	r2, err := R2Score(yTrue, yPred)
	if err != nil {
		return RegressionSummary{}, err
	}
	if r2.Defined() {
		summary.R2 = &r2.Value
	} else {
		summary.Notes = append(summary.Notes, r2.Advisory.Error())
	}

	for _, m := range []struct {
		name  string
		value float64
	}{
		{"MAE", summary.MAE},
		{"MSE", summary.MSE},
		{"RMSE", summary.RMSE},
		{"PearsonR", summary.R},
	} {
		if !isFinite(m.value) {
			return RegressionSummary{}, rabbitErrors.NewUndefinedMetricError(m.name, outOfRange(m.value))
		}
	}
	if summary.MAPE != nil && !isFinite(*summary.MAPE) {
		summary.Notes = append(summary.Notes, rabbitErrors.NewUndefinedMetricError("MAPE", outOfRange(*summary.MAPE)).Error())
		summary.MAPE = nil
	}
	if summary.R2 != nil && !isFinite(*summary.R2) {
		summary.Notes = append(summary.Notes, rabbitErrors.NewUndefinedMetricError("R2Score", outOfRange(*summary.R2)).Error())
		summary.R2 = nil
	}

	yt, _, err := asFlatArrays(yTrue, yPred)
	if err != nil {
		return RegressionSummary{}, err
	}
	summary.NSamples = yt.Size()

	log.GetLoggerWithName("metrics").Debug("Evaluation completed",
		log.OperationKey, log.OperationEvaluate,
		log.MetricKey, "regression",
		log.SamplesKey, summary.NSamples,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return summary, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func outOfRange(v float64) string {
	return fmt.Sprintf("result %v is outside the float64 range", v)
}
