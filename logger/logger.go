package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	zlogsentry "github.com/archdx/zerolog-sentry"
	"github.com/rez-go/stev"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/timemore/publicstore/app"
)

type (
	Logger = zerolog.Logger
)

// PkgLogger is the logger a package keeps in its package-level log
// variable.
type PkgLogger struct {
	Logger
}

const EnvPrefixDefault = "LOG_"

var (
	sharedConfig     Config
	sharedOutput     io.Writer
	sharedOutputOnce sync.Once
)

// NewPkgLogger creates a logger configured from LOG_* environment
// variables. All package loggers share the same outputs.
func NewPkgLogger() PkgLogger {
	sharedOutputOnce.Do(func() {
		sharedConfig = ConfigFromEnv()
		sharedOutput = newOutput(sharedConfig)
	})
	return newPkgLogger(sharedConfig, sharedOutput)
}

// New creates a logger from an explicit configuration.
func New(config Config) PkgLogger {
	return newPkgLogger(config, newOutput(config))
}

// NewWithWriter creates a logger writing JSON lines to w.
func NewWithWriter(w io.Writer, level zerolog.Level) PkgLogger {
	return PkgLogger{zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

func ConfigFromEnv() Config {
	cfg := ConfigSkeleton()
	if err := stev.LoadEnv(EnvPrefixDefault, &cfg); err != nil {
		return ConfigSkeleton()
	}
	return cfg
}

func newPkgLogger(config Config, output io.Writer) PkgLogger {
	logLevel := zerolog.DebugLevel
	if config.Level != "" {
		if parsed, err := zerolog.ParseLevel(config.Level); err == nil {
			logLevel = parsed
		}
	}
	logger := zerolog.New(output).Level(logLevel)
	return PkgLogger{logger.With().Timestamp().Caller().Logger()}
}

func newOutput(config Config) io.Writer {
	var console io.Writer = os.Stderr
	if config.Pretty {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	writers := []io.Writer{console}

	if config.FileLogging {
		if rf := newRollingFile(config); rf != nil {
			writers = append(writers, rf)
		}
	}
	if config.SentryDSN != "" {
		if sw := newSentryWriter(config); sw != nil {
			writers = append(writers, sw)
		}
	}

	if len(writers) == 1 {
		return console
	}
	return zerolog.MultiLevelWriter(writers...)
}

func newRollingFile(config Config) io.Writer {
	filena := config.Filename
	if filena == "" {
		filena = "publicstore.log"
	}
	if err := os.MkdirAll(config.Directory, 0744); err != nil {
		return nil
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(config.Directory, filena),
		MaxBackups: int(config.MaxBackups), // files
		MaxSize:    int(config.MaxSize),    // megabytes
		MaxAge:     int(config.MaxAge),     // days
	}
}

// newSentryWriter returns nil when the DSN is rejected; logging must
// keep working without the error reporter.
func newSentryWriter(config Config) io.Writer {
	info, _ := app.InfoFromEnv()
	w, err := zlogsentry.New(config.SentryDSN,
		zlogsentry.WithLevels(zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel),
		zlogsentry.WithEnvironment(info.Env),
		zlogsentry.WithRelease(app.GetBuildInfo().RevisionID),
	)
	if err != nil {
		return nil
	}
	return w
}
