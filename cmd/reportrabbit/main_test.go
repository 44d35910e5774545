package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ezoic/reportrabbit/internal/report"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "disabled"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestClassify_Text(t *testing.T) {
	path := writeFile(t, t.TempDir(), "labels.csv", "y_true,y_pred\n0,0\n1,1\n1,0\n0,0\n")

	out, err := runCLI(t, "classify", path)
	require.NoError(t, err)

	assert.Contains(t, out, "labels.csv (classification, n=4)")
	assert.Contains(t, out, "0.7500")
	assert.Contains(t, out, "tp=1 fp=0 fn=1 tn=2")
}

func TestRegress_JSONWithWeights(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scores.csv", "y_true,y_pred,w\n1,1.5,1\n2,2,1\n3,2.5,2\n")

	out, err := runCLI(t, "regress", "--weight-col", "w", "-f", "json", path)
	require.NoError(t, err)

	var results []report.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Regression)
	assert.InDelta(t, 0.1875, results[0].Regression.MSE, 1e-12)
	assert.InDelta(t, 1.0/3.0, results[0].Regression.MAE, 1e-12)
}

func TestRegress_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "scores.json", `{"label": [1, 2, 3, 4], "score": [1, 2, 3, 5]}`)
	cfg := writeFile(t, dir, "rr.yaml", "columns:\n  y_true: label\n  y_pred: score\noutput:\n  format: yaml\n")

	out, err := runCLI(t, "--config", cfg, "regress", data)
	require.NoError(t, err)

	var results []report.Result
	require.NoError(t, yaml.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Regression)
	assert.Equal(t, 4, results[0].Regression.NSamples)
	assert.InDelta(t, 0.25, results[0].Regression.MSE, 1e-12)

	// Flags win over the config file.
	out, err = runCLI(t, "--config", cfg, "regress", "-f", "json", data)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), out)

	_, err = runCLI(t, "--config", cfg, "regress", "--pred-col", "missing", data)
	var evalErr *EvaluationFailedError
	require.ErrorAs(t, err, &evalErr)
}

func TestEvaluate_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", "y_true,y_pred\n1,1\n2,2\n")
	bad := writeFile(t, dir, "bad.csv", "y_true,prediction\n1,1\n2,2\n")
	zero := writeFile(t, dir, "zero.csv", "y_true,y_pred\n0,1\n2,2\n")

	out, err := runCLI(t, "regress", good, bad, zero)
	require.Error(t, err)

	var evalErr *EvaluationFailedError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, 1, evalErr.Failed)
	assert.Equal(t, 3, evalErr.Total)
	assert.Equal(t, ExitEvalFailed, exitCode(err))

	assert.Contains(t, out, "good.csv (regression, n=2)")
	assert.Contains(t, out, "bad.csv (regression)")
	assert.Contains(t, out, `column "y_pred" not found`)
	assert.Contains(t, out, "MAPE is undefined")
}

func TestRegress_JSONKeepsOverflowingFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", "y_true,y_pred,w\n1,1,1\n2,2.5,1\n3,3,1\n")
	huge := writeFile(t, dir, "huge.csv", "y_true,y_pred,w\n1,1,1\n2,2,1\n3,3e200,1\n")
	infWeight := writeFile(t, dir, "inf.csv", "y_true,y_pred,w\n1,1,1\n2,2,inf\n3,4,1\n")

	out, err := runCLI(t, "regress", "-f", "json", "--weight-col", "w", good, huge, infWeight)

	var evalErr *EvaluationFailedError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, 2, evalErr.Failed)
	assert.Equal(t, ExitEvalFailed, exitCode(err))

	var results []report.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results), out)
	require.Len(t, results, 3)

	require.NotNil(t, results[0].Regression)
	assert.InDelta(t, 0.25/3, results[0].Regression.MSE, 1e-12)

	assert.Nil(t, results[1].Regression)
	assert.Contains(t, results[1].Error, "MSE is undefined")

	assert.Nil(t, results[2].Regression)
	assert.Contains(t, results[2].Error, "finite")
}

func TestEvaluate_PreservesFileOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 8; i++ {
		files = append(files, writeFile(t, dir, fmt.Sprintf("f%d.csv", i),
			fmt.Sprintf("y_true,y_pred\n%d,%d\n1,1\n", i, i)))
	}

	out, err := runCLI(t, append([]string{"classify", "-f", "json", "-w", "3"}, files...)...)
	require.NoError(t, err)

	var results []report.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, len(files))
	for i, r := range results {
		assert.Equal(t, files[i], r.File)
		assert.Equal(t, 1.0, r.Classification.Accuracy)
	}
}

func TestEvaluate_UsageErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "d.csv", "y_true,y_pred\n1,1\n")

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "no files", args: []string{"classify"}, wantMsg: "requires at least 1 arg"},
		{name: "bad format", args: []string{"regress", "-f", "xml", path}, wantMsg: "output.format must be one of"},
		{name: "zero workers", args: []string{"regress", "-w", "0", path}, wantMsg: "workers must be at least 1"},
		{name: "missing config", args: []string{"--config", "/nonexistent/rr.yaml", "classify", path}, wantMsg: "loading config"},
		{name: "weight on classify", args: []string{"classify", "--weight-col", "w", path}, wantMsg: "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, ExitError, exitCode(err))
		})
	}
}

func TestPlot(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "scores.yaml", "y_true: [1, 2, 3]\ny_pred: [1.2, 1.8, 3.1]\n")
	img := filepath.Join(dir, "out.png")

	out, err := runCLI(t, "plot", data, "--out", img)
	require.NoError(t, err)
	assert.Equal(t, "Plot saved to "+img+"\n", out)
	assert.FileExists(t, img)

	_, err = runCLI(t, "plot", data, "--out", filepath.Join(dir, "x.png"), "--pred-col", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "reportrabbit dev"), out)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "evaluation failed", err: &EvaluationFailedError{Failed: 1, Total: 2}, want: ExitEvalFailed},
		{name: "wrapped evaluation failed", err: fmt.Errorf("run: %w", &EvaluationFailedError{Failed: 1, Total: 1}), want: ExitEvalFailed},
		{name: "other", err: errors.New("boom"), want: ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
