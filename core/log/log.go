// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides a logging system that works well with context.
// It stores the active minimum severity and destination in the context so
// that deeply nested calls can log without needing a logger threaded
// through every signature.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

type contextKeyTy struct{}

var contextKey = contextKeyTy{}

// Handler receives formatted log lines.
type Handler func(s Severity, line string)

type state struct {
	min     Severity
	handler Handler
}

func defaultHandler(w io.Writer) Handler {
	return func(s Severity, line string) {
		fmt.Fprintf(w, "%s %s %s\n", time.Now().Format("15:04:05.000"), s.Short(), line)
	}
}

var root = &state{min: Info, handler: defaultHandler(os.Stderr)}

// PutHandler returns a context that logs through handler instead of stderr.
func PutHandler(ctx context.Context, handler Handler) context.Context {
	s := get(ctx)
	next := &state{min: s.min, handler: handler}
	return context.WithValue(ctx, contextKey, next)
}

// PutSeverity returns a context whose minimum logged severity is min.
func PutSeverity(ctx context.Context, min Severity) context.Context {
	s := get(ctx)
	next := &state{min: min, handler: s.handler}
	return context.WithValue(ctx, contextKey, next)
}

func get(ctx context.Context) *state {
	if ctx != nil {
		if s, ok := ctx.Value(contextKey).(*state); ok {
			return s
		}
	}
	return root
}

func emit(ctx context.Context, s Severity, format string, args []interface{}) {
	st := get(ctx)
	if s < st.min {
		return
	}
	st.handler(s, fmt.Sprintf(format, args...))
}

// V logs a verbose message.
func V(ctx context.Context, format string, args ...interface{}) { emit(ctx, Verbose, format, args) }

// D logs a debug message.
func D(ctx context.Context, format string, args ...interface{}) { emit(ctx, Debug, format, args) }

// I logs an informational message.
func I(ctx context.Context, format string, args ...interface{}) { emit(ctx, Info, format, args) }

// W logs a warning message.
func W(ctx context.Context, format string, args ...interface{}) { emit(ctx, Warning, format, args) }

// E logs an error message.
func E(ctx context.Context, format string, args ...interface{}) { emit(ctx, Error, format, args) }

// F logs a fatal message and terminates the process.
func F(ctx context.Context, format string, args ...interface{}) {
	emit(ctx, Fatal, format, args)
	os.Exit(1)
}
