package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/projcollab/project-collab-api/internal/config"
)

// New builds the process logger. Local runs get a console writer at trace
// level; dev and prod log JSON to stdout.
func New(env string) zerolog.Logger {
	w := io.Writer(os.Stdout)
	level := zerolog.InfoLevel

	switch env {
	case config.EnvDev:
		level = zerolog.DebugLevel
	case config.EnvLocal:
		level = zerolog.TraceLevel

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
}
