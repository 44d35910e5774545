package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToLogLevel(tt.in))
		})
	}
}

func TestZerologProvider_NamedLogger(t *testing.T) {
	var buf bytes.Buffer
	SetProvider(NewZerologProviderWithWriter(&buf, zerolog.DebugLevel))
	defer SetupLogger("disabled")

	GetLoggerWithName("metrics").Debug("Evaluation completed",
		OperationKey, OperationEvaluate,
		SamplesKey, 4,
	)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "metrics", lines[0][NameKey])
	assert.Equal(t, "evaluate", lines[0][OperationKey])
	assert.Equal(t, float64(4), lines[0][SamplesKey])
	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "Evaluation completed", lines[0]["message"])
}

func TestZerologProvider_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProviderWithWriter(&buf, zerolog.WarnLevel)
	SetProvider(p)
	defer SetupLogger("disabled")

	logger := GetLogger()
	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown")
	assert.Len(t, decodeLines(t, &buf), 2)

	buf.Reset()
	p.SetLevel(zerolog.Disabled)
	GetLogger().Error("hidden")
	assert.Empty(t, buf.String())
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	SetProvider(NewZerologProviderWithWriter(&buf, zerolog.InfoLevel))
	defer SetupLogger("disabled")

	logger := GetLoggerWithName("dataset").With(FileKey, "holdout.csv")
	logger.Info("Loaded", "rows", 10)
	logger.Info("odd", "dangling")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "holdout.csv", lines[0][FileKey])
	assert.Equal(t, float64(10), lines[0]["rows"])
	assert.Equal(t, "holdout.csv", lines[1][FileKey])
	assert.Equal(t, "dangling", lines[1]["!BADKEY"])
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	SetProvider(NewZerologProviderWithWriter(&buf, zerolog.InfoLevel))
	defer SetupLogger("disabled")

	LogError(nil, "ignored")
	LogError(errors.New("boom"), "Evaluation failed")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "error", lines[0]["level"])
	assert.Equal(t, "boom", lines[0][ErrorKey])
}

func TestToFields(t *testing.T) {
	fields := toFields([]interface{}{"a", 1, 2, "b"})
	assert.Equal(t, map[string]interface{}{"a": 1, "2": "b"}, fields)
	assert.Empty(t, toFields(nil))
}
