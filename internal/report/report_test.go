package report

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ezoic/reportrabbit/metrics"
	rabbitErrors "github.com/ezoic/reportrabbit/pkg/errors"
	"github.com/ezoic/reportrabbit/pkg/log"
)

func init() {
	log.SetupLogger("disabled")
}

func sampleResults(t *testing.T) []Result {
	t.Helper()

	cls, err := metrics.ClassificationReport([]int{0, 1, 1, 0}, []int{0, 1, 0, 0})
	require.NoError(t, err)
	reg, err := metrics.RegressionReport([]float64{0, 2, 3}, []float64{1, 2, 3})
	require.NoError(t, err)

	return []Result{
		{File: "labels.csv", Task: TaskClassification, Classification: &cls},
		{File: "scores.csv", Task: TaskRegression, Regression: &reg},
		{File: "broken.csv", Task: TaskRegression, Error: "column \"y_pred\" not found"},
	}
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "text", sampleResults(t)))
	out := buf.String()

	for _, want := range []string{
		"labels.csv (classification, n=4)",
		"accuracy:",
		"0.7500",
		"confusion:",
		"tp=1 fp=0 fn=1 tn=2",
		"scores.csv (regression, n=3)",
		"undefined",
		"note:",
		"MAPE is undefined",
		"broken.csv (regression)",
		"error:",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "reportrabbit: MAPE")
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "json", sampleResults(t)))

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)

	cls := got[0]["classification"].(map[string]interface{})
	assert.Equal(t, 0.75, cls["accuracy"])

	reg := got[1]["regression"].(map[string]interface{})
	assert.NotContains(t, reg, "mape")
	assert.Contains(t, reg, "r2")

	assert.Equal(t, "column \"y_pred\" not found", got[2]["error"])
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "yaml", sampleResults(t)))

	var got []Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	require.NotNil(t, got[0].Classification)
	assert.Equal(t, 2, got[0].Classification.Confusion.TrueNegatives)
	require.NotNil(t, got[1].Regression)
	assert.Nil(t, got[1].Regression.MAPE)
	assert.True(t, got[2].Failed())
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, "xml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

func TestParityPlot(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		file  string
		yTrue interface{}
		yPred interface{}
	}{
		{name: "png", file: "parity.png", yTrue: []float64{1, 2, 3, 4}, yPred: []float64{1.1, 1.9, 3.2, 3.8}},
		{name: "svg", file: "parity.svg", yTrue: []int{1, 2, 3}, yPred: []string{"1", "2", "4"}},
		{name: "constant values", file: "flat.png", yTrue: []float64{5, 5}, yPred: []float64{5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, ParityPlot(path, "test", tt.yTrue, tt.yPred))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestParityPlot_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		yTrue   interface{}
		yPred   interface{}
		wantErr error
	}{
		{name: "empty", yTrue: []float64{}, yPred: []float64{}, wantErr: rabbitErrors.ErrEmptyInput},
		{name: "length mismatch", yTrue: []float64{1, 2}, yPred: []float64{1}, wantErr: rabbitErrors.ErrLengthMismatch},
		{name: "non-finite", yTrue: []float64{1, math.Inf(1)}, yPred: []float64{1, 2}, wantErr: rabbitErrors.ErrNonFinite},
		{name: "non-numeric", yTrue: []string{"a"}, yPred: []float64{1}, wantErr: rabbitErrors.ErrTypeConversion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".png")
			err := ParityPlot(path, "test", tt.yTrue, tt.yPred)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoFileExists(t, path)
		})
	}
}
