package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scanmill/scanmill/pkg/shared/config"
)

// NewLogger builds a named hclog logger. The level comes from the validated
// configuration; the SCANMILL_LOG_LEVEL environment variable is the fallback
// for early startup paths that run before the configuration is loaded.
func NewLogger(config *config.Config, name string) hclog.Logger {
	var logLevel hclog.Level

	if config != nil && config.Logger.Level != "" {
		logLevel = getLogLevel(strings.ToUpper(config.Logger.Level))
	} else {
		// env variables has the second priority
		logLevelEnv := os.Getenv("SCANMILL_LOG_LEVEL")
		logLevel = getLogLevel(strings.ToUpper(logLevelEnv))
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		Output:      os.Stdout,
		Level:       logLevel,
	})

	return logger
}

// GetLoggerOutput adapts a logger into an io.Writer for subprocess and
// library progress streams; lines are emitted at debug level.
func GetLoggerOutput(logger hclog.Logger) io.Writer {
	return logger.StandardWriter(&hclog.StandardLoggerOptions{
		InferLevels: true,
		ForceLevel:  hclog.Debug,
	})
}

func getLogLevel(levelStr string) hclog.Level {
	switch levelStr {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
