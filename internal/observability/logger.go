package observability

import (
	"io"
	"time"

	"github.com/danmuck/ktrdump/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger builds the console logger for app and installs it as the
// global zerolog logger. Record output owns stdout, so logs go to w.
func InitLogger(app string, w io.Writer) zerolog.Logger {
	cfg := logging.Current()
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    cfg.NoColor,
	}
	ctx := zerolog.New(output).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	logger := ctx.Str("app", app).Logger().Level(cfg.Level)
	log.Logger = logger
	return logger
}
