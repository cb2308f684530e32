// Package logger builds the [logr.Logger] used by the demonstration.
package logger

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	flagLogEncoding = "log-encoding"
	flagLogLevel    = "log-level"
)

var levelStrings = map[string]zapcore.Level{
	// logr's V(n) maps to zap level -n,
	// so V(1) is debug and V(2) is trace.
	"trace": zapcore.DebugLevel - 1,
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"error": zapcore.ErrorLevel,
}

// Options contains the configuration options for the logger.
type Options struct {
	LogEncoding string
	LogLevel    string
}

// BindFlags binds the logger option flags to fs.
func (o *Options) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.LogEncoding, flagLogEncoding, "console",
		"Log encoding format. Can be 'json' or 'console'.")
	fs.StringVar(&o.LogLevel, flagLogLevel, "info",
		"Log verbosity level. Can be one of 'trace', 'debug', 'info', 'error'.")
}

// Changed reports which options were set on the command line.
func Changed(fs *pflag.FlagSet) (encoding, level bool) {
	return fs.Changed(flagLogEncoding), fs.Changed(flagLogLevel)
}

// NewLogger returns a logger configured with the given Options,
// and timestamps set to the ISO8601 format.
func NewLogger(opts Options) (logr.Logger, error) {
	level, ok := levelStrings[opts.LogLevel]
	if !ok {
		return logr.Discard(), fmt.Errorf("unknown log level %q", opts.LogLevel)
	}
	switch opts.LogEncoding {
	case "json", "console":
	default:
		return logr.Discard(), fmt.Errorf("unknown log encoding %q", opts.LogEncoding)
	}
	config := zap.NewProductionConfig()
	config.Encoding = opts.LogEncoding
	config.Level = zap.NewAtomicLevelAt(level)
	config.Sampling = nil
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zl, err := config.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(zl), nil
}
