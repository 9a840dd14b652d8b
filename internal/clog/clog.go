// This file is part of microcore.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package clog is the small leveled logger shared by the asm and emu
// command-line tools. It generalizes the atExit pattern from
// cmd/retro/main.go: debug traces go to stderr only when enabled, and a
// fatal error is printed with a full %+v stack trace in debug mode or a
// bare %v otherwise, mirroring github.com/pkg/errors's intended usage.
package clog

import (
	"fmt"
	"io"
	"os"
)

// Logger writes debug traces and fatal errors to an output stream.
type Logger struct {
	w     io.Writer
	debug bool
}

// New creates a Logger that writes to w. debug enables Debugf output and
// switches Fatal to print error stack traces.
func New(w io.Writer, debug bool) *Logger {
	return &Logger{w: w, debug: debug}
}

// Debugf writes a debug trace line, prefixed "[DEBUG] ", if debug mode is
// enabled. It is a no-op otherwise, so call sites need no guard.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	fmt.Fprintf(l.w, "[DEBUG] "+format+"\n", args...)
}

// Tracef writes an unconditional per-cycle or per-line trace line, used for
// the assembler's and emulator's "-d" output (spec.md §6).
func (l *Logger) Tracef(format string, args ...interface{}) {
	fmt.Fprintf(l.w, format+"\n", args...)
}

// Errorf writes a non-fatal diagnostic, prefixed "Error: ", and returns
// control to the caller. Used where a CLI can report a problem and keep
// going (an unwritable stats file, say) instead of aborting via Fatal.
func (l *Logger) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(l.w, "Error: "+format+"\n", args...)
}

// Fatal prints err to w — with a full stack trace when debug mode is
// enabled, a bare message otherwise — and exits the process with status 1.
func (l *Logger) Fatal(err error) {
	if err == nil {
		return
	}
	if l.debug {
		fmt.Fprintf(l.w, "%+v\n", err)
	} else {
		fmt.Fprintf(l.w, "%v\n", err)
	}
	os.Exit(1)
}
