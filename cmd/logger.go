package cmd

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ziadkadry99/riskmap/internal/config"
)

// LoggerResult contains the logger a command should use and the file behind
// it, if any.
type LoggerResult struct {
	Logger   *slog.Logger
	LogFile  io.WriteCloser
	FilePath string
}

// Close closes the log file if it was opened.
func (r *LoggerResult) Close() error {
	if r.LogFile != nil {
		return r.LogFile.Close()
	}
	return nil
}

// logLevel maps the configured level to slog. verbose forces debug.
func logLevel(level config.LogLevel, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger writes JSON logs to stderr, or to a rotating file when
// log.file is set.
func SetupLogger(cfg config.LogConfig, verbose bool) *LoggerResult {
	level := logLevel(cfg.Level, verbose)
	if cfg.File == "" {
		return &LoggerResult{Logger: SetupLoggerWithWriter(os.Stderr, level)}
	}
	return SetupFileLogger(cfg.File, level, cfg)
}

// SetupFileLogger creates a logger that writes to a rotating file instead of
// stderr. The TUI always logs this way so log lines never reach the screen.
func SetupFileLogger(path string, level slog.Leveler, rotation config.LogConfig) *LoggerResult {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotation.MaxSizeMB,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
		Compress:   true,
	}

	return &LoggerResult{
		Logger:   slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})),
		LogFile:  w,
		FilePath: path,
	}
}

// SetupLoggerWithWriter creates a logger that writes to the given writer.
func SetupLoggerWithWriter(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// tuiLogPath is where the viewer logs when no log file is configured.
func tuiLogPath(cfg *config.Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(cfg.DataDir, "riskmap-view.log")
}
