package telemetry

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogOptions struct {
	// Console receives colored output, defaults to os.Stdout.
	Console io.Writer
	// File is the path of the rotating log file, empty disables it.
	File string
	// MaxSizeMB is the size a log file reaches before it is rotated.
	MaxSizeMB  int
	MaxBackups int
	Verbose    bool
}

// NewLogger builds a logger that writes to the console and to a size-capped
// rotating file at the same time. The returned closer releases the file.
func NewLogger(opts LogOptions) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	handlers := []slog.Handler{
		tint.NewHandler(console, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		err := os.MkdirAll(filepath.Dir(opts.File), 0777)
		if err != nil {
			return nil, nil, err
		}
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 5
		}
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: opts.MaxBackups,
		}
		handlers = append(handlers, slog.NewTextHandler(rotating, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		closer = rotating
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
