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

// Package app provides the common command-line bootstrap used by the
// xenosrecomp binaries: flag parsing, a cancellable root context and a
// uniform exit-code convention.
package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

var (
	// Name is the name of the application, printed in usage text.
	Name string
	// ShortHelp is a one-line description of the application.
	ShortHelp string
	// ShortUsage describes the positional arguments, if any.
	ShortUsage string
	// ExitFuncForTesting can be overridden so tests don't call os.Exit.
	ExitFuncForTesting = os.Exit
)

// Task is the signature of an application's main body.
type Task func(ctx context.Context) error

// Run parses the command line, builds a context that is cancelled on
// SIGINT/SIGTERM, runs main, and exits the process with a status code
// derived from the returned error.
func Run(main Task) {
	ExitFuncForTesting(doRun(main))
}

func doRun(main Task) int {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", Name, ShortHelp)
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] %s\n", Name, ShortUsage)
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)
	go func() {
		if _, ok := <-sigc; ok {
			cancel()
		}
	}()

	if err := main(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", Name, err)
		return exitFailure
	}
	return exitSuccess
}
