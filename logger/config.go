package logger

type Config struct {
	// Level is a zerolog level name. Empty or unknown means debug.
	Level string `env:"LEVEL"`
	// Pretty makes the console output human readable instead of JSON.
	Pretty bool `env:"PRETTY"`

	// FileLogging makes the framework log to a file as well.
	// The fields below can be skipped if this value is false!
	FileLogging bool `env:"FILE_LOGGING"`
	// Directory to log to when file logging is enabled
	Directory string `env:"DIRECTORY"`
	// Filename is the name of the logfile which will be placed inside the directory
	Filename string `env:"FILENAME"`
	// MaxSize the max size in MB of the logfile before it's rolled
	MaxSize int32 `env:"MAX_SIZE"`
	// MaxBackups the max number of rolled files to keep
	MaxBackups int32 `env:"MAX_BACKUPS"`
	// MaxAge the max age in days to keep a logfile
	MaxAge int32 `env:"MAX_AGE"`

	// SentryDSN enables forwarding of error events to Sentry.
	SentryDSN string `env:"SENTRY_DSN"`
}

func ConfigSkeleton() Config {
	return Config{
		Directory:  "/var/log",
		Filename:   "publicstore.log",
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
	}
}
