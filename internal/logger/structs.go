package logger

// Console implements a console based logger.
type Console struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled"`
	// Pretty switches to the human-readable zerolog console writer.
	Pretty bool `mapstructure:"pretty" toml:"pretty"`
}

// LogFile implements a file based logger with rolling output files, split by
// level.
type LogFile struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Path    string `mapstructure:"path" toml:"path"`

	InfoLog  string `mapstructure:"info" toml:"info"`
	WarnLog  string `mapstructure:"warn" toml:"warn"`
	ErrorLog string `mapstructure:"error" toml:"error"`
	TraceLog string `mapstructure:"trace" toml:"trace"`

	MaxSize    int `mapstructure:"maxSize" toml:"maxSize"`       // megabytes per file before rotation
	MaxBackups int `mapstructure:"maxBackups" toml:"maxBackups"` // rotated files kept per level
	MaxAge     int `mapstructure:"maxAge" toml:"maxAge"`         // days to keep rotated files
}

// Log implements the logger config.
type Log struct {
	LogLevel     string // trace, debug, info, warn, error.
	ReportCaller bool

	AppName     string
	ServiceName string

	// Console used mainly for docker and dev.
	Console Console

	File LogFile `mapstructure:"file" toml:"file"`
}
