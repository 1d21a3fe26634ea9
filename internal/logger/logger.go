package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns the bootstrap logger, used before configuration is loaded.
func New() zerolog.Logger {
	return SetLevel(zerolog.InfoLevel)
}

// SetLevel builds a stdout logger at the given level.
func SetLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	return logger.Level(level)
}
