// Package log provides the structured logging facade used across reportrabbit.
//
// Library code asks for a named Logger and emits key/value pairs using the
// constants below; the concrete backend is zerolog. The process-wide provider
// is configured once, typically by the CLI:
//
//	log.SetupLogger("debug")
//	logger := log.GetLoggerWithName("metrics")
//	logger.Debug("Evaluation completed",
//	    log.OperationKey, log.OperationEvaluate,
//	    log.SamplesKey, n,
//	)
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Standard field keys.
const (
	NameKey       = "logger"
	ComponentKey  = "component"
	OperationKey  = "operation"
	MetricKey     = "metric"
	SamplesKey    = "n_samples"
	DurationMsKey = "duration_ms"
	FileKey       = "file"
	ErrorKey      = "error"
)

// Standard operation values.
const (
	OperationEvaluate = "evaluate"
	OperationLoad     = "load"
	OperationRender   = "render"
)

// Logger is the logging interface handed out to packages.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	With(keysAndValues ...interface{}) Logger
}

// LoggerProvider creates loggers sharing one backend and level.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level zerolog.Level)
}

var (
	providerMu     sync.RWMutex
	globalProvider LoggerProvider
)

// ToLogLevel parses a level name. Unknown names map to info.
func ToLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// SetupLogger installs a stderr zerolog provider at the given level.
func SetupLogger(level string) {
	SetProvider(NewZerologProvider(ToLogLevel(level)))
}

// SetProvider replaces the process-wide provider.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	globalProvider = p
}

func provider() LoggerProvider {
	providerMu.RLock()
	p := globalProvider
	providerMu.RUnlock()
	if p != nil {
		return p
	}

	providerMu.Lock()
	defer providerMu.Unlock()
	if globalProvider == nil {
		globalProvider = NewZerologProvider(ToLogLevel("info"))
	}
	return globalProvider
}

// GetLogger returns the root logger of the current provider.
func GetLogger() Logger {
	return provider().GetLogger()
}

// GetLoggerWithName returns a logger tagged with name.
func GetLoggerWithName(name string) Logger {
	return provider().GetLoggerWithName(name)
}

// LogError logs err at error level on the root logger.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	GetLogger().Error(msg, ErrorKey, err)
}

// zerologProvider is the default LoggerProvider.
type zerologProvider struct {
	mu   sync.RWMutex
	base zerolog.Logger
}

// NewZerologProvider returns a provider writing JSON lines to stderr.
func NewZerologProvider(level zerolog.Level) LoggerProvider {
	return NewZerologProviderWithWriter(os.Stderr, level)
}

// NewZerologProviderWithWriter returns a provider writing JSON lines to w.
func NewZerologProviderWithWriter(w io.Writer, level zerolog.Level) LoggerProvider {
	return &zerologProvider{
		base: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

func (p *zerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{l: p.base}
}

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{l: p.base.With().Str(NameKey, name).Logger()}
}

func (p *zerologProvider) SetLevel(level zerolog.Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.base.Level(level)
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z *zerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	z.l.Debug().Fields(toFields(keysAndValues)).Msg(msg)
}

func (z *zerologLogger) Info(msg string, keysAndValues ...interface{}) {
	z.l.Info().Fields(toFields(keysAndValues)).Msg(msg)
}

func (z *zerologLogger) Warn(msg string, keysAndValues ...interface{}) {
	z.l.Warn().Fields(toFields(keysAndValues)).Msg(msg)
}

func (z *zerologLogger) Error(msg string, keysAndValues ...interface{}) {
	z.l.Error().Fields(toFields(keysAndValues)).Msg(msg)
}

func (z *zerologLogger) With(keysAndValues ...interface{}) Logger {
	return &zerologLogger{l: z.l.With().Fields(toFields(keysAndValues)).Logger()}
}

// toFields turns alternating key/value pairs into a field map.
// A trailing key without a value is recorded under "!BADKEY".
func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2+1)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 >= len(keysAndValues) {
			fields["!BADKEY"] = keysAndValues[i]
			break
		}
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
