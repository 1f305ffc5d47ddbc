package logger

import (
	"log/slog"
	"os"
)

var log = slog.Default()

// Init configures the global logger. Development gets human-readable text at
// debug level, everything else structured JSON at info.
func Init(environment string) {
	var handler slog.Handler
	if environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	log = slog.New(handler)
}

func Debug(msg string, args ...any) {
	log.Debug(msg, keyvals(args)...)
}

func Info(msg string, args ...any) {
	log.Info(msg, keyvals(args)...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, keyvals(args)...)
}

func Error(msg string, args ...any) {
	log.Error(msg, keyvals(args)...)
}

func Fatal(msg string, args ...any) {
	log.Error(msg, keyvals(args)...)
	os.Exit(1)
}

// keyvals tolerates call sites that pass a bare error or value as the last
// argument instead of a key/value pair.
func keyvals(args []any) []any {
	if len(args)%2 == 0 {
		return args
	}
	out := make([]any, 0, len(args)+1)
	out = append(out, args[:len(args)-1]...)
	return append(out, "detail", args[len(args)-1])
}
