package errors

import (
	"fmt"

	"github.com/ezoic/reportrabbit/pkg/log"
)

// UndefinedMetricWarning is a non-fatal advisory: the metric was computed but
// its value is a sentinel (NaN) because the input cannot support it.
type UndefinedMetricWarning struct {
	Metric   string
	Reason   string
	NSamples int
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("reportrabbit: UndefinedMetricWarning: %s: %s (n_samples=%d)", w.Metric, w.Reason, w.NSamples)
}

// NewUndefinedMetricWarning creates an UndefinedMetricWarning.
func NewUndefinedMetricWarning(metric, reason string, nSamples int) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Reason: reason, NSamples: nSamples}
}

// Warn emits a warning through the "warnings" logger at warn level.
// Nil warnings are ignored.
func Warn(w error) {
	if w == nil {
		return
	}
	logger := log.GetLoggerWithName("warnings")
	if uw, ok := w.(*UndefinedMetricWarning); ok {
		logger.Warn(uw.Reason,
			log.MetricKey, uw.Metric,
			log.SamplesKey, uw.NSamples,
		)
		return
	}
	logger.Warn(w.Error())
}
