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

package vm

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/mhsharp/microcore/isa"
)

// LoadImage reads a binary program image from fileName: a contiguous stream
// of 16-bit words, little-endian on the wire (spec.md §6). The first word
// lands at address 0. Words beyond memSize are ignored; a shorter file
// leaves the remaining cells zero.
func LoadImage(fileName string) (Image, error) {
	var img Image
	f, err := os.Open(fileName)
	if err != nil {
		return img, errors.Wrap(err, "open failed")
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for addr := 0; addr < memSize; addr++ {
		var w uint16
		if err := binary.Read(r, binary.LittleEndian, &w); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return img, errors.Wrap(err, "read failed")
		}
		img[addr] = isa.Word(w)
	}
	return img, nil
}

// Save writes img to fileName as a little-endian stream of 16-bit words
// (spec.md §6).
func (img Image) Save(fileName string) error {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "create failed")
	}
	w := bufio.NewWriter(f)
	defer f.Close()

	for _, cell := range img {
		if err := binary.Write(w, binary.LittleEndian, uint16(cell)); err != nil {
			return errors.Wrap(err, "write failed")
		}
	}
	return errors.Wrap(w.Flush(), "flush failed")
}

// ImageFromWords packs an assembled word stream (package asm's output) into
// a fixed 256-cell Image, zero-filling the remainder.
func ImageFromWords(words []isa.Word) Image {
	var img Image
	copy(img[:], words)
	return img
}
