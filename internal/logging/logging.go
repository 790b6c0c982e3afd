// Package logging builds the zerolog logger used for diagnostics. Human
// output (tables, charts) goes to stdout; logs go to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Options configure New.
type Options struct {
	Level string
	JSON  bool
	Out   io.Writer
}

// New returns a logger writing to opts.Out (stderr when nil).
func New(opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parsing log level %q: %w", opts.Level, err)
		}
		level = l
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	if opts.JSON {
		return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
	}

	colored := false
	if f, ok := out.(*os.File); ok {
		colored = isatty.IsTerminal(f.Fd())
	}
	cw := zerolog.ConsoleWriter{
		Out:         out,
		NoColor:     !colored,
		TimeFormat:  time.TimeOnly,
		FormatLevel: formatLevel,
	}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger(), nil
}

func formatLevel(i any) string {
	s, _ := i.(string)
	switch s {
	case zerolog.LevelTraceValue:
		return "[TRC]"
	case zerolog.LevelDebugValue:
		return "[DBG]"
	case zerolog.LevelInfoValue:
		return "[INF]"
	case zerolog.LevelWarnValue:
		return "[WRN]"
	case zerolog.LevelErrorValue:
		return "[ERR]"
	case zerolog.LevelFatalValue:
		return "[FTL]"
	default:
		return "[???]"
	}
}
