package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rabbitErrors "github.com/ezoic/reportrabbit/pkg/errors"
	"github.com/ezoic/reportrabbit/pkg/log"
)

func init() {
	log.SetupLogger("disabled")
}

func TestClassificationReport(t *testing.T) {
	summary, err := ClassificationReport([]int{0, 1, 1, 0}, []int{0, 1, 0, 0})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.NSamples)
	assert.Equal(t, 0.75, summary.Accuracy)
	assert.Equal(t, 1.0, summary.Precision)
	assert.Equal(t, 0.5, summary.Recall)
	assert.InDelta(t, 2.0/3.0, summary.F1, 1e-12)
	assert.Equal(t, ConfusionCounts{TruePositives: 1, FalseNegatives: 1, TrueNegatives: 2}, summary.Confusion)
}

func TestClassificationReport_Errors(t *testing.T) {
	_, err := ClassificationReport([]int{}, []int{})
	assert.ErrorIs(t, err, rabbitErrors.ErrEmptyInput)

	_, err = ClassificationReport([]int{1, 0}, []int{1})
	assert.ErrorIs(t, err, rabbitErrors.ErrLengthMismatch)
}

func TestRegressionReport(t *testing.T) {
	yTrue := []float64{3.0, -0.5, 2.0, 7.0}
	yPred := []float64{2.5, 0.0, 2.0, 8.0}

	summary, err := RegressionReport(yTrue, yPred)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.NSamples)
	assert.InDelta(t, 0.5, summary.MAE, 1e-12)
	assert.InDelta(t, 0.375, summary.MSE, 1e-12)
	assert.InDelta(t, math.Sqrt(0.375), summary.RMSE, 1e-12)
	require.NotNil(t, summary.MAPE)
	require.NotNil(t, summary.R2)
	assert.Empty(t, summary.Notes)

	r2, err := R2Score(yTrue, yPred)
	require.NoError(t, err)
	assert.Equal(t, r2.Value, *summary.R2)

	r, err := PearsonR(yTrue, yPred)
	require.NoError(t, err)
	assert.Equal(t, r, summary.R)
}

func TestRegressionReport_UndefinedMetricsBecomeNotes(t *testing.T) {
	tests := []struct {
		name     string
		yTrue    []float64
		yPred    []float64
		wantMAPE bool
		wantR2   bool
		wantNote string
	}{
		{
			name:     "zero in y_true",
			yTrue:    []float64{0, 2, 3},
			yPred:    []float64{1, 2, 3},
			wantMAPE: false,
			wantR2:   true,
			wantNote: "MAPE is undefined",
		},
		{
			name:     "single sample",
			yTrue:    []float64{1},
			yPred:    []float64{1.1},
			wantMAPE: true,
			wantR2:   false,
			wantNote: "R² undefined for fewer than 2 points",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := RegressionReport(tt.yTrue, tt.yPred)
			require.NoError(t, err)

			assert.Equal(t, tt.wantMAPE, summary.MAPE != nil)
			assert.Equal(t, tt.wantR2, summary.R2 != nil)
			require.Len(t, summary.Notes, 1)
			assert.Contains(t, summary.Notes[0], tt.wantNote)
		})
	}
}

func TestRegressionReport_Overflow(t *testing.T) {
	t.Run("squared error overflows", func(t *testing.T) {
		_, err := RegressionReport([]float64{1, 2, 3}, []float64{1, 2, 3e200})
		require.Error(t, err)
		assert.ErrorIs(t, err, rabbitErrors.ErrUndefinedMetric)
		assert.Contains(t, err.Error(), "MSE is undefined")
	})

	t.Run("percentage error overflows", func(t *testing.T) {
		summary, err := RegressionReport([]float64{1e-300, 1, 2}, []float64{1e10, 1, 2})
		require.NoError(t, err)
		assert.Nil(t, summary.MAPE)
		require.NotNil(t, summary.R2)
		require.Len(t, summary.Notes, 1)
		assert.Contains(t, summary.Notes[0], "MAPE is undefined")
		assert.Contains(t, summary.Notes[0], "+Inf")
	})

	t.Run("infinite weight", func(t *testing.T) {
		_, err := RegressionReport([]int{1, 2, 3}, []int{1, 2, 3}, WithSampleWeight([]string{"1", "inf", "1"}))
		assert.ErrorIs(t, err, rabbitErrors.ErrNonFinite)
	})
}

func TestRegressionReport_SampleWeight(t *testing.T) {
	summary, err := RegressionReport([]int{1, 2, 3}, []int{1, 2, 4}, WithSampleWeight([]int{1, 1, 2}))
	require.NoError(t, err)

	assert.Equal(t, 0.5, summary.MSE)
	assert.InDelta(t, 1.0/3.0, summary.MAE, 1e-12)
}

func TestRegressionReport_Errors(t *testing.T) {
	_, err := RegressionReport([]float64{1, math.NaN()}, []float64{1, 2})
	assert.ErrorIs(t, err, rabbitErrors.ErrNonFinite)

	_, err = RegressionReport([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, rabbitErrors.ErrShape)

	_, err = RegressionReport([]float64{}, []float64{})
	assert.ErrorIs(t, err, rabbitErrors.ErrEmptyInput)
}
