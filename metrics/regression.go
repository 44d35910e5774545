// Package metrics provides evaluation metrics comparing predictions with ground truth.
//
// Classification Metrics (any nonzero label counts as positive):
//   - Accuracy: fraction of exactly matching labels
//   - Precision, Recall, F1: derived from ConfusionCounts
//
// Regression Metrics:
//   - MAE: Mean Absolute Error
//   - MAPE: Mean Absolute Percentage Error, returned as a ratio (MAPEPercent scales by 100)
//   - MSE, RMSE, MSERMSE: (weighted) squared error
//   - PearsonR: Pearson correlation coefficient
//   - R2Score: coefficient of determination
//   - ExplainedVarianceScore: proportion of variance explained
//
// Every function accepts array-like inputs (slices of any numeric type,
// numeric strings, nested slices, gonum vectors and matrices) which are
// normalized by core/tensor before use. Invalid input yields an error whose
// kind is one of the sentinels in pkg/errors; degenerate but valid input
// yields a documented sentinel value instead.
//
// Example usage:
//
//	mse, err := metrics.MSE([]float64{3, -0.5, 2, 7}, []float64{2.5, 0, 2, 8})
//	r2, err := metrics.R2Score(yTrue, yPred)
//	if r2.Advisory != nil {
//	    // fewer than two samples; r2.Value is NaN
//	}
//
// All functions are pure and safe for concurrent use.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/reportrabbit/core/tensor"
	rabbitErrors "github.com/ezoic/reportrabbit/pkg/errors"
)

// SquaredError holds both squared-error metrics computed from one validation pass.
type SquaredError struct {
	MSE  float64 `json:"mse" yaml:"mse"`
	RMSE float64 `json:"rmse" yaml:"rmse"`
}

// absoluteInputs applies the MAE/MAPE contract: identical shapes, non-empty,
// all finite.
func absoluteInputs(op string, yTrue, yPred interface{}) (*tensor.Tensor, *tensor.Tensor, error) {
	yt, yp, err := asArrays(yTrue, yPred)
	if err != nil {
		return nil, nil, err
	}
	if err := checkSameShape(op, yt, yp); err != nil {
		return nil, nil, err
	}
	if err := checkNotEmpty(op, "Input arrays cannot be empty.", yt); err != nil {
		return nil, nil, err
	}
	if err := checkFinite(op, yt, yp); err != nil {
		return nil, nil, err
	}
	return yt, yp, nil
}

// MAE calculates the Mean Absolute Error between true and predicted values.
//
// MAE measures the average absolute differences between predictions and actual
// values. MAE is more robust to outliers compared to MSE as it doesn't square
// the differences.
//
// Unlike the squared-error metrics, MAE requires both inputs to have exactly
// the same shape: a vector of length 3 and a 3×1 column are rejected.
//
// Errors:
//   - ErrShape: if yTrue and yPred have different shapes
//   - ErrEmptyInput: if the inputs are empty
//   - ErrNonFinite: if any value is NaN or infinite
//   - ErrTypeConversion: if any value is not numeric
//
// Example:
//
//	mae, err := metrics.MAE([]float64{1, 2, 3}, []float64{2, 2, 4})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("MAE: %.4f\n", mae) // MAE: 0.6667
func MAE(yTrue, yPred interface{}) (float64, error) {
	yt, yp, err := absoluteInputs("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	residuals := make([]float64, yt.Size())
	floats.SubTo(residuals, yt.RawData(), yp.RawData())
	return floats.Norm(residuals, 1) / float64(len(residuals)), nil
}

// MAPE calculates the Mean Absolute Percentage Error as a ratio.
//
// MAPE = (1/n) * Σ|(yTrue - yPred) / yTrue|. The result is a fraction, not a
// percentage: 0.05 means 5%. Use MAPEPercent for the scaled value.
//
// Errors:
//   - ErrUndefinedMetric: if any yTrue value is exactly zero
//   - plus every error MAE can return
//
// Example:
//
//	mape, _ := metrics.MAPE([]float64{100, 200, 300}, []float64{90, 210, 330})
//	fmt.Printf("%.4f\n", mape) // 0.0833
func MAPE(yTrue, yPred interface{}) (float64, error) {
	yt, yp, err := absoluteInputs("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	t, p := yt.RawData(), yp.RawData()
	ratios := make([]float64, len(t))
	for i := range t {
		if t[i] == 0 {
			return 0, rabbitErrors.NewUndefinedMetricError("MAPE",
				"MAPE is undefined when y_true contains zero values")
		}
		ratios[i] = math.Abs((t[i] - p[i]) / t[i])
	}
	return stat.Mean(ratios, nil), nil
}

// MAPEPercent returns MAPE multiplied by 100.
func MAPEPercent(yTrue, yPred interface{}) (float64, error) {
	mape, err := MAPE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return mape * 100, nil
}

// squaredInputs flattens both inputs (and the optional weights) to 1-D and
// checks that they describe the same samples.
func squaredInputs(op string, yTrue, yPred interface{}, o *options) (t, p, w []float64, err error) {
	yt, yp, err := asFlatArrays(yTrue, yPred)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := checkNotEmpty(op, "y_true must not be empty.", yt); err != nil {
		return nil, nil, nil, err
	}
	if err := checkNotEmpty(op, "y_pred must not be empty.", yp); err != nil {
		return nil, nil, nil, err
	}
	if err := checkSameLength(op, "Input lengths must match.", yt.Size(), yp.Size()); err != nil {
		return nil, nil, nil, err
	}

	if o.sampleWeight != nil {
		sw, err := tensor.FromAny(o.sampleWeight, sampleWeightName)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := checkNotEmpty(op, "sample_weight must not be empty.", sw); err != nil {
			return nil, nil, nil, err
		}
		if err := checkSameLength(op, "sample_weight must have the same length as y_true and y_pred.",
			yt.Size(), sw.Size()); err != nil {
			return nil, nil, nil, err
		}
		if i, ok := sw.CheckFinite(); !ok {
			return nil, nil, nil, rabbitErrors.NewNonFiniteError(op, sampleWeightName, i, sw.At(i))
		}
		w = sw.RawData()
	}
	return yt.RawData(), yp.RawData(), w, nil
}

// MSE calculates the Mean Squared Error between true and predicted values.
//
// MSE measures the average squared differences between predictions and actual
// values. With WithSampleWeight the mean is weighted:
// MSE = Σ wᵢ·(yTrueᵢ - yPredᵢ)² / Σ wᵢ.
//
// Multi-dimensional inputs are flattened; only the number of samples must
// agree.
//
// Errors:
//   - ErrEmptyInput: if any input is empty
//   - ErrLengthMismatch: if the sample counts differ
//   - ErrShape: if any input is a scalar
//   - ErrTypeConversion: if any value is not numeric
//   - ErrUndefinedMetric: if the sample weights sum to zero
//
// Example:
//
//	mse, err := metrics.MSE([]int{1, 2, 3}, []int{1, 2, 4},
//	    metrics.WithSampleWeight([]int{1, 1, 2}))
//	// mse == 0.5
func MSE(yTrue, yPred interface{}, opts ...Option) (float64, error) {
	t, p, w, err := squaredInputs("MSE", yTrue, yPred, newOptions(opts))
	if err != nil {
		return 0, err
	}

	squared := make([]float64, len(t))
	floats.SubTo(squared, t, p)
	floats.Mul(squared, squared)

	if w != nil && floats.Sum(w) == 0 {
		return 0, rabbitErrors.NewUndefinedMetricError("MSE", "sample weights sum to zero")
	}
	return stat.Mean(squared, w), nil
}

// RMSE calculates the Root Mean Squared Error, the square root of MSE.
//
// RMSE is expressed in the same units as the target. It accepts the same
// options and returns the same errors as MSE.
func RMSE(yTrue, yPred interface{}, opts ...Option) (float64, error) {
	mse, err := MSE(yTrue, yPred, opts...)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MSERMSE returns MSE and RMSE together. The values are identical to calling
// MSE and RMSE separately with the same arguments.
//
// Example:
//
//	se, _ := metrics.MSERMSE([]float64{3, -0.5, 2, 7}, []float64{2.5, 0, 2, 8})
//	fmt.Printf("%.3f %.4f\n", se.MSE, se.RMSE) // 0.375 0.6124
func MSERMSE(yTrue, yPred interface{}, opts ...Option) (SquaredError, error) {
	mse, err := MSE(yTrue, yPred, opts...)
	if err != nil {
		return SquaredError{}, err
	}
	return SquaredError{MSE: mse, RMSE: math.Sqrt(mse)}, nil
}

// ExplainedVarianceScore calculates the explained variance regression score.
//
// Explained variance = 1 - Var(yTrue - yPred) / Var(yTrue). Unlike R², it
// ignores a systematic offset in the predictions. When yTrue has no variance
// the score is 0.0, matching R2Score.
func ExplainedVarianceScore(yTrue, yPred interface{}) (float64, error) {
	t, p, _, err := squaredInputs("ExplainedVarianceScore", yTrue, yPred, &options{})
	if err != nil {
		return 0, err
	}

	// A single sample has no variance.
	if len(t) < 2 {
		return 0.0, nil
	}

	residuals := make([]float64, len(t))
	floats.SubTo(residuals, t, p)

	// The n-1 normalization cancels in the ratio.
	varYTrue := stat.Variance(t, nil)
	if varYTrue == 0 {
		return 0.0, nil
	}
	return 1 - stat.Variance(residuals, nil)/varYTrue, nil
}
