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
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a logrus entry tagged with a component prefix, the unit every
// package in this tree asks for via New.
type Logger struct {
	entry *logrus.Entry
}

var (
	base    *logrus.Logger
	rotator *lumberjack.Logger
	path    string

	once         sync.Once
	debugEnabled bool
	debugMu      sync.RWMutex
)

// Init wires the base logrus instance: stdout plus a size-rotated,
// compressed file via lumberjack. Safe to call more than once; only the
// first call takes effect.
func Init(logPath string) error {
	var err error
	once.Do(func() {
		if dir := filepath.Dir(logPath); dir != "." {
			if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
				err = mkErr
				return
			}
		}

		path = logPath
		rotator = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}

		base = logrus.New()
		base.SetOutput(io.MultiWriter(os.Stdout, rotator))
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		base.SetLevel(logrus.InfoLevel)

		if os.Getenv("DEBUG") != "" {
			debugEnabled = true
			base.SetLevel(logrus.DebugLevel)
		}
	})
	return err
}

// Close flushes and closes the underlying log file.
func Close() {
	if rotator != nil {
		rotator.Close()
	}
}

// EnableDebug dynamically turns debug logging on/off.
func EnableDebug(on bool) {
	debugMu.Lock()
	debugEnabled = on
	debugMu.Unlock()

	if base == nil {
		return
	}
	if on {
		base.SetLevel(logrus.DebugLevel)
	} else {
		base.SetLevel(logrus.InfoLevel)
	}
}

// IsDebug returns current debug state.
func IsDebug() bool {
	debugMu.RLock()
	defer debugMu.RUnlock()
	return debugEnabled
}

// New returns a Logger tagged with prefix, initializing the base logger
// against a default path if Init hasn't run yet.
func New(prefix string) *Logger {
	Init("default.log")
	return &Logger{entry: base.WithField("component", prefix)}
}

func (l *Logger) Info(fmtstr string, v ...any) {
	l.entry.Infof(fmtstr, v...)
}

func (l *Logger) Error(fmtstr string, v ...any) {
	entry := l.entry
	if _, file, line, ok := runtime.Caller(1); ok {
		entry = entry.WithField("src", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Errorf(fmtstr, v...)
}

func (l *Logger) Fatal(fmtstr string, v ...any) {
	formatted := fmt.Sprintf(fmtstr, v...)
	entry := l.entry
	if _, file, line, ok := runtime.Caller(1); ok {
		entry = entry.WithField("src", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Error(formatted)
	panic(formatted)
}

func (l *Logger) Debug(fmtstr string, v ...any) {
	l.entry.Debugf(fmtstr, v...)
}
