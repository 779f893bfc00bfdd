package utils

import (
	"io"
	"log"
	"os"
)

// LoggerConfig configures the gateway logger.
type LoggerConfig struct {
	// Format is "text" or "json"
	Format string
	// Output defaults to os.Stdout
	Output io.Writer
	// EnableColors colours the prefix on terminals
	EnableColors bool
}

// InitLogger builds the logger shared by the middleware and the sessions.
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	prefix := "[Assignment Mate] "

	var logger *log.Logger
	if cfg.Format == "json" {
		logger = log.New(cfg.Output, prefix, log.LstdFlags|log.LUTC|log.Lmsgprefix)
	} else {
		if cfg.EnableColors {
			prefix = "\033[36m" + prefix + "\033[0m"
		}
		logger = log.New(cfg.Output, prefix, log.LstdFlags|log.Lshortfile|log.LUTC)
	}

	return logger
}
