// Copyright (C) 2025 Josh Simonot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

type Logger struct {
	prefix string
}

var (
	baseLogger *slog.Logger
	logFile    *os.File
	once       sync.Once
	outMu      sync.RWMutex
	level      = new(slog.LevelVar)
)

// Init initializes the base logger with stdout and, when logPath is set,
// a log file. Debug is enabled from the DEBUG env var at startup.
func Init(logPath string) error {
	var err error
	once.Do(func() {
		if os.Getenv("DEBUG") != "" {
			level.Set(slog.LevelDebug)
		}

		var w io.Writer = os.Stdout
		if logPath != "" {
			if mkErr := os.MkdirAll(filepath.Dir(logPath), 0o755); mkErr != nil {
				err = mkErr
			} else if logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
				w = io.MultiWriter(os.Stdout, logFile)
			}
		}
		setOutput(w)
	})
	return err
}

// setOutput rebuilds the base logger. Colour is only used when the output
// is a bare terminal so the log file stays plain text.
func setOutput(w io.Writer) {
	noColor := logFile != nil || !isatty.IsTerminal(os.Stdout.Fd())
	h := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    noColor,
	})
	outMu.Lock()
	baseLogger = slog.New(h)
	outMu.Unlock()
}

func base() *slog.Logger {
	outMu.RLock()
	defer outMu.RUnlock()
	return baseLogger
}

// Close cleans up the log file (call on shutdown)
func Close() {
	if logFile != nil {
		logFile.Close()
	}
}

// EnableDebug dynamically turns debug logging on/off
func EnableDebug(on bool) {
	if on {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// IsDebug returns current debug state
func IsDebug() bool {
	return level.Level() <= slog.LevelDebug
}

// Slog exposes the shared structured logger for libraries that take one.
func Slog() *slog.Logger {
	Init("")
	return base()
}

func New(prefix string) *Logger {
	Init("")
	return &Logger{prefix: prefix}
}

func (l *Logger) Info(fmtstr string, v ...any) {
	base().Info(fmt.Sprintf(fmtstr, v...), "svc", l.prefix)
}

func (l *Logger) Warn(fmtstr string, v ...any) {
	base().Warn(fmt.Sprintf(fmtstr, v...), "svc", l.prefix)
}

func (l *Logger) Error(fmtstr string, v ...any) {
	formatted := fmt.Sprintf(fmtstr, v...)
	_, file, line, ok := runtime.Caller(1)
	if ok {
		base().Error(formatted, "svc", l.prefix, "src", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	} else {
		base().Error(formatted, "svc", l.prefix)
	}
}

func (l *Logger) Fatal(fmtstr string, v ...any) {
	formatted := fmt.Sprintf(fmtstr, v...)
	_, file, line, ok := runtime.Caller(1)
	if ok {
		base().Error("FATAL: "+formatted, "svc", l.prefix, "src", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	} else {
		base().Error("FATAL: "+formatted, "svc", l.prefix)
	}
	panic(formatted)
}

func (l *Logger) Debug(fmtstr string, v ...any) {
	if !IsDebug() {
		return
	}
	base().Debug(fmt.Sprintf(fmtstr, v...), "svc", l.prefix)
}

// Errorf, Warnf and Debugf let a Logger stand in for the resty client logger.

func (l *Logger) Errorf(format string, v ...any) { l.Error(format, v...) }
func (l *Logger) Warnf(format string, v ...any)  { l.Warn(format, v...) }
func (l *Logger) Debugf(format string, v ...any) { l.Debug(format, v...) }
