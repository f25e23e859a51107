/*
Copyright 2025 The capest Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logging builds the logr.Logger used across capest and defines
// its verbosity levels.
package logging

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels passed to logr.Logger.V.
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// ParseLevel maps a level name to a logr verbosity.
func ParseLevel(name string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return INFO, nil
	case "debug":
		return DEBUG, nil
	case "trace":
		return TRACE, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q (want info, debug or trace)", name)
	}
}

// NewLogger returns a zap-backed logr.Logger that emits messages up to the
// given verbosity. Development loggers write human-readable console output.
func NewLogger(verbosity int, development bool) (logr.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	// logr V(n) maps onto zap level -n
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	cfg.OutputPaths = []string{"stderr"}

	z, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("building zap logger: %w", err)
	}
	return zapr.NewLogger(z), nil
}

var testLogger = logr.Discard()

// NewTestLogger installs a development logger at TRACE verbosity for test
// suites and returns it.
func NewTestLogger() logr.Logger {
	l, err := NewLogger(TRACE, true)
	if err == nil {
		testLogger = l
	}
	return testLogger
}

// IntoContext stores logger in ctx.
func IntoContext(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// FromContext returns the logger stored in ctx. Outside tests the fallback
// discards everything; after NewTestLogger it is the test logger.
func FromContext(ctx context.Context) logr.Logger {
	if ctx == nil {
		return testLogger
	}
	if l, err := logr.FromContext(ctx); err == nil {
		return l
	}
	return testLogger
}

// Sync flushes the zap core behind logger, if any.
func Sync(logger logr.Logger) error {
	if u, ok := logger.GetSink().(zapr.Underlier); ok {
		return u.GetUnderlying().Sync()
	}
	return nil
}
