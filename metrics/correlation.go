package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/reportrabbit/core/tensor"
	rabbitErrors "github.com/ezoic/reportrabbit/pkg/errors"
)

// Score is a metric value together with an optional advisory. A non-nil
// Advisory means the value is a sentinel (NaN) rather than a measurement.
type Score struct {
	Value    float64
	Advisory *rabbitErrors.UndefinedMetricWarning
}

// Defined reports whether the score carries a real value.
func (s Score) Defined() bool {
	return s.Advisory == nil
}

// PearsonR calculates the Pearson correlation coefficient between true and
// predicted values.
//
//	R = Σ(t - mean(t))·(p - mean(p)) / sqrt(Σ(t - mean(t))² · Σ(p - mean(p))²)
//
// If either input is constant the denominator is zero and PearsonR returns
// 0.0 instead of NaN. The result does not depend on the scale of the inputs.
//
// Errors:
//   - ErrTypeConversion: if an input is not a sequence or holds non-numeric values
//   - ErrLengthMismatch: if the inputs have different lengths
//   - ErrEmptyInput: if the inputs are empty
//
// Example:
//
//	r, _ := metrics.PearsonR([]float64{1, 2, 3}, []float64{3, 2, 1})
//	fmt.Println(r) // -1
func PearsonR(yTrue, yPred interface{}) (float64, error) {
	if !tensor.IsSequence(yTrue) {
		return 0, rabbitErrors.NewTypeError("PearsonR", yTrueName, -1, yTrue, nil)
	}
	if !tensor.IsSequence(yPred) {
		return 0, rabbitErrors.NewTypeError("PearsonR", yPredName, -1, yPred, nil)
	}

	yt, yp, err := asFlatArrays(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if err := checkSameLength("PearsonR", msgLengthMismatch, yt.Size(), yp.Size()); err != nil {
		return 0, err
	}
	if err := checkNotEmpty("PearsonR", msgEmptyInput, yt); err != nil {
		return 0, err
	}

	t, p := yt.RawData(), yp.RawData()
	meanT := stat.Mean(t, nil)
	meanP := stat.Mean(p, nil)

	scaleT := maxAbsDeviation(t, meanT)
	scaleP := maxAbsDeviation(p, meanP)
	if scaleT == 0 || scaleP == 0 {
		return 0.0, nil
	}

	// Deviations are scaled into [-1, 1] so the sums stay representable
	// at any input magnitude.
	var sxy, sxx, syy float64
	for i := range t {
		dt := (t[i] - meanT) / scaleT
		dp := (p[i] - meanP) / scaleP
		sxy += dt * dp
		sxx += dt * dt
		syy += dp * dp
	}

	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r)), nil
}

func maxAbsDeviation(x []float64, mean float64) float64 {
	var m float64
	for _, v := range x {
		m = math.Max(m, math.Abs(v-mean))
	}
	return m
}

// R2Score calculates the coefficient of determination (R²).
//
// R² = 1 - SSres/SStot with SStot = Σ(t - mean(t))² and SSres = Σ(t - p)².
// Values range from negative infinity to 1; 0 means the predictions are no
// better than the mean of yTrue.
//
// Degenerate input is not an error:
//   - fewer than two samples: Value is NaN and Advisory explains why; the
//     advisory is also logged at warn level
//   - constant yTrue (SStot = 0): Value is 0.0
//
// Errors:
//   - ErrLengthMismatch: if the inputs have different lengths
//   - ErrEmptyInput: if the inputs are empty
//   - ErrTypeConversion / ErrShape: if an input is not a numeric sequence
//
// Example:
//
//	r2, err := metrics.R2Score([]float64{1, 2, 3}, []float64{2, 2, 2})
//	// r2.Value == 0
func R2Score(yTrue, yPred interface{}) (Score, error) {
	yt, yp, err := asFlatArrays(yTrue, yPred)
	if err != nil {
		return Score{}, err
	}
	if err := checkSameLength("R2Score", msgLengthMismatch, yt.Size(), yp.Size()); err != nil {
		return Score{}, err
	}
	if err := checkNotEmpty("R2Score", msgEmptyInput, yt); err != nil {
		return Score{}, err
	}

	n := yt.Size()
	if n < 2 {
		w := rabbitErrors.NewUndefinedMetricWarning("R2Score", "R² undefined for fewer than 2 points", n)
		rabbitErrors.Warn(w)
		return Score{Value: math.NaN(), Advisory: w}, nil
	}

	t, p := yt.RawData(), yp.RawData()
	mean := stat.Mean(t, nil)

	var ssTot float64
	for _, v := range t {
		ssTot += (v - mean) * (v - mean)
	}

	residuals := make([]float64, n)
	floats.SubTo(residuals, t, p)
	ssRes := floats.Dot(residuals, residuals)

	if ssTot == 0 {
		return Score{Value: 0.0}, nil
	}
	return Score{Value: 1 - ssRes/ssTot}, nil
}
