package log

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/motemen/go-loghttp"
)

const (
	// EnvDebug enables debug logging when set
	EnvDebug = "OEMBED_DEBUG"
	// EnvFormat selects the handler; "json" emits JSON lines, anything else text
	EnvFormat = "OEMBED_LOG_FORMAT"
)

// Logger is the global logger instance
var Logger *slog.Logger

// New returns a logger writing to w. Debug lowers the level from Info.
func New(w io.Writer, debug, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("app", "oembed")
}

// InitLogger sets the global logger from the environment and hooks provider
// request logging into the shared transport.
func InitLogger() {
	Logger = New(os.Stderr, os.Getenv(EnvDebug) != "", os.Getenv(EnvFormat) == "json")
	slog.SetDefault(Logger)

	loghttp.DefaultTransport.LogRequest = func(req *http.Request) {
		Debug("oEmbed request",
			"method", req.Method,
			"url", req.URL.String(),
			"user_agent", req.UserAgent(),
		)
	}
	loghttp.DefaultTransport.LogResponse = func(resp *http.Response) {
		Debug("oEmbed response",
			"url", resp.Request.URL.String(),
			"status_code", resp.StatusCode,
			"content_type", resp.Header.Get("Content-Type"),
			"content_length", resp.ContentLength,
		)
	}
}

func init() {
	InitLogger()
}

// Transport returns the logging round tripper used for provider requests
func Transport() http.RoundTripper {
	return loghttp.DefaultTransport
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
