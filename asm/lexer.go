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

import (
	"bufio"
	"io"
	"strings"
)

const (
	maxLines    = 1024
	maxLineLen  = 256
	maxTokens   = 16
	maxTokenLen = 64
)

// tokenLine is an ordered list of 1-3 (up to maxTokens) whitespace- or
// comma-separated tokens representing one source line, after comment
// stripping, trimming and empty-line filtering (spec.md §3, "Token-line").
// A line may also carry a label, written as a leading "name:" token; the
// label shares the address of whatever instruction follows it on the same
// line (spec.md §8 scenarios "skip: OUT" and "f: LDIMA 1" both execute the
// trailing instruction), or names a bare address if nothing follows.
type tokenLine struct {
	num    int // 1-based source line number, for diagnostics
	label  string
	tokens []string
}

// lex splits r into token-lines, stripping comments, trimming whitespace,
// and discarding empty lines (spec.md §4.1). Lines beyond maxLines are a
// fatal "too many lines in source file" error, and a line longer than
// maxLineLen is a fatal "line exceeds maximum length" error. trace, if
// non-nil, receives one line mirroring original_source/ASEMBLER.c's
// DEBUG_PRINT token dump for each surviving line.
func lex(r io.Reader, trace Tracer) ([]tokenLine, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, maxLineLen+1), maxLineLen+1)

	var lines []tokenLine
	n := 0
	for sc.Scan() {
		n++
		raw := sc.Text()
		if len(raw) > maxLineLen {
			return nil, newErr(n, "", "line exceeds maximum length")
		}
		if n > maxLines {
			return nil, newErr(n, "", "too many lines in source file")
		}

		// (a) strip from the first ';' to end-of-line
		if i := strings.IndexByte(raw, ';'); i >= 0 {
			raw = raw[:i]
		}
		// (b) trim leading and trailing whitespace
		raw = strings.TrimSpace(raw)
		// (c) discard if empty
		if raw == "" {
			continue
		}
		// (d) split on any run of spaces, tabs or commas
		toks := strings.FieldsFunc(raw, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})
		if len(toks) > maxTokens {
			toks = toks[:maxTokens]
		}
		for i, t := range toks {
			if len(t) > maxTokenLen {
				toks[i] = t[:maxTokenLen]
			}
		}
		var label string
		if len(toks) > 0 && strings.HasSuffix(toks[0], ":") {
			label = strings.TrimSuffix(toks[0], ":")
			toks = toks[1:]
		}
		lines = append(lines, tokenLine{num: n, label: label, tokens: toks})
		trace("line %d: label=%q tokens=%v", n, label, toks)
	}
	if err := sc.Err(); err != nil {
		if err == bufio.ErrTooLong {
			return nil, newErr(n+1, "", "line exceeds maximum length")
		}
		return nil, err
	}
	if n > maxLines {
		return nil, newErr(maxLines+1, "", "too many lines in source file")
	}
	return lines, nil
}
