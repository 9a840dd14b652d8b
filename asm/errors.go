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

package asm

import "fmt"

// ErrEntry is one diagnostic produced by the assembler, pinned to the
// source line and token that triggered it.
type ErrEntry struct {
	Line  int
	Token string
	Msg   string
}

func (e ErrEntry) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("Error: %s at line %d", e.Msg, e.Line)
	}
	return fmt.Sprintf("Error: %s at line %d near '%s'", e.Msg, e.Line, e.Token)
}

// ErrAsm collects every diagnostic produced by a single Assemble call. The
// first entry is always the fatal one that stopped assembly: unlike the
// free-form ngaro assembler this dialect stops at the first error, mirroring
// ASEMBLER.c's exit(EXIT_FAILURE) on the first problem encountered.
type ErrAsm []ErrEntry

func (e ErrAsm) Error() string {
	if len(e) == 0 {
		return "assembly failed"
	}
	return e[0].Error()
}

func newErr(line int, token, msg string) error {
	return ErrAsm{{Line: line, Token: token, Msg: msg}}
}
