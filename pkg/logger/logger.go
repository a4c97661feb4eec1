package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// Logger is the logging interface used across the treasury packages. It is satisfied by a
// go.uber.org/zap.SugaredLogger.
//
// Loggers should be injected into services rather than created inside them. Tests should use
// [Test] or [TestObserved]; [New] is reserved for the CLI runtime.
//
// Levels
//   - Error: an operation failed and the failure was returned to the caller.
//   - Warn: something unexpected happened that the caller recovered from (e.g. a retried request).
//   - Info: high level progress, such as a proposal handed to the submitter.
//   - Debug: request/response details useful when diagnosing a misbehaving endpoint.
type Logger interface {
	// Name returns the fully qualified name of the logger.
	Name() string

	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	// Fatal logs and then calls os.Exit(1)
	Fatal(args ...any)

	Debugf(format string, values ...any)
	Infof(format string, values ...any)
	Warnf(format string, values ...any)
	Errorf(format string, values ...any)
	Fatalf(format string, values ...any)

	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
	Fatalw(msg string, keysAndValues ...any)

	// Sync flushes any buffered log entries.
	Sync() error
}

// Format selects the encoding of runtime loggers.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// ParseFormat maps a user supplied format string to a Format. Unknown values fall back to JSON.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "console", "human":
		return FormatConsole
	default:
		return FormatJSON
	}
}

type Config struct {
	Level  zapcore.Level
	Format Format
}

// New returns a new Logger for the Config.
func (c Config) New() (Logger, error) {
	if c.Format == FormatConsole {
		return NewWith(func(cfg *zap.Config) {
			*cfg = zap.NewDevelopmentConfig()
			cfg.Level.SetLevel(c.Level)
			cfg.DisableStacktrace = true
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		})
	}

	return NewWith(func(cfg *zap.Config) {
		cfg.Level.SetLevel(c.Level)
	})
}

// New returns a new JSON Logger at info level.
func New() (Logger, error) { return Config{Level: zapcore.InfoLevel}.New() }

// NewWith returns a new Logger from a modified [zap.Config].
func NewWith(cfgFn func(*zap.Config)) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfgFn(&cfg)
	core, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &logger{core.Sugar()}, nil
}

// Named returns a child of l with name appended to its name. Loggers not created by this package
// are returned unchanged.
func Named(l Logger, name string) Logger {
	if zl, ok := l.(*logger); ok {
		return &logger{zl.SugaredLogger.Named(name)}
	}

	return l
}

// Test returns a new test Logger for tb.
func Test(tb testing.TB) Logger {
	tb.Helper()
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	lggr := zap.New(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(cfg),
			zaptest.NewTestingWriter(tb),
			zapcore.DebugLevel,
		),
	)

	return &logger{lggr.Sugar()}
}

// TestObserved returns a new test Logger for tb and the ObservedLogs at the given Level.
func TestObserved(tb testing.TB, lvl zapcore.Level) (Logger, *observer.ObservedLogs) {
	tb.Helper()
	oCore, logs := observer.New(lvl)
	observe := zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, oCore)
	})

	return &logger{zaptest.NewLogger(tb, zaptest.WrapOptions(observe)).Sugar()}, logs
}

// Nop returns a no-op Logger.
func Nop() Logger {
	return &logger{zap.New(zapcore.NewNopCore()).Sugar()}
}

type logger struct {
	*zap.SugaredLogger
}

func (l *logger) Name() string {
	return l.Desugar().Name()
}
