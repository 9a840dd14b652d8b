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

// Package vm is the microcore emulator.
//
// A machine has five 8-bit general registers (RA, RB, RC, RE, SP), four
// hidden registers (PC, IR, and the stack-limit registers STOFR/STUFR), and
// 256 cells of unified 16-bit memory holding code, data and stack with no
// segmentation. New constructs an Instance from an Image loaded with
// LoadImage (or built directly, e.g. via ImageFromWords); Step executes one
// fetch/decode/execute cycle, and Run drives the machine to completion:
// HALTED on HLT, FAULTED on an unknown opcode or a stack overflow/underflow.
//
// The instance never resumes once HALTED or FAULTED; build a fresh one (or
// call Reset, which leaves memory as the previous run left it) to run again.
package vm
