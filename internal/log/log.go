// Package log provides the structured logger used by the posture monitor.
// It wraps logrus with the nested formatter and can additionally write to a
// rotating log file.
package log

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	mu     sync.Mutex
)

// Fields are the structured key/values attached to a log line
type Fields = logrus.Fields

// Config defines the logger settings
type Config struct {
	// Level is one of debug, info, warn, error
	Level string
	// File is an optional path of a rotating log file written in addition to
	// stderr
	File string
	// NoColors disables terminal colors
	NoColors bool
	// Caller adds the calling file, line and function to each line
	Caller bool
}

// DefaultConfig returns info level logging to stderr only
func DefaultConfig() Config {
	return Config{
		Level: "info",
	}
}

// Init (re)configures the package logger
func Init(cfg Config) error {

	lvl, err := logrus.ParseLevel(cfg.Level)

	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	l := logrus.New()
	l.SetLevel(lvl)

	l.SetFormatter(&formatter.Formatter{
		NoColors:        cfg.NoColors,
		TimestampFormat: "15:04:05.000",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
		},
	})

	writers := []io.Writer{os.Stderr}

	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    20,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}

	l.SetOutput(io.MultiWriter(writers...))
	l.SetReportCaller(cfg.Caller)

	mu.Lock()
	logger = l
	mu.Unlock()

	return nil
}

// SetOutput redirects the logger, used by tests to capture output
func SetOutput(w io.Writer) {
	L().SetOutput(w)
}

// L returns the package logger, initialising it with defaults on first use
func L() *logrus.Logger {
	mu.Lock()
	l := logger
	mu.Unlock()

	if l == nil {
		_ = Init(DefaultConfig())

		mu.Lock()
		l = logger
		mu.Unlock()
	}

	return l
}

// With returns an entry carrying the given fields
func With(fields Fields) *logrus.Entry {
	if fields == nil {
		fields = Fields{}
	}
	return L().WithFields(fields)
}

func Debug(fields Fields, msg string) {
	With(fields).Debug(msg)
}

func Info(fields Fields, msg string) {
	With(fields).Info(msg)
}

func Warn(fields Fields, msg string) {
	With(fields).Warn(msg)
}

func Error(fields Fields, msg string) {
	With(fields).Error(msg)
}

func Fatal(fields Fields, msg string) {
	With(fields).Fatal(msg)
}
