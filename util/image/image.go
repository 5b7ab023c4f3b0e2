/*
 * DCPU-16 - Program image files.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package image reads and writes program images as big endian byte
// pairs, one pair per word.
package image

import (
	"encoding/binary"
	"fmt"
	"os"
)

const maxWords = 0x10000

// Load reads a program image from a file.
func Load(fileName string) ([]uint16, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("unable to read image file: %w", err)
	}
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("image file %s holds a torn word", fileName)
	}
	if len(data)/2 >= maxWords {
		return nil, fmt.Errorf("image file %s exceeds the address space", fileName)
	}
	words := make([]uint16, len(data)/2)
	for i := range words {
		words[i] = binary.BigEndian.Uint16(data[2*i:])
	}
	return words, nil
}

// Store writes a program image to a file.
func Store(fileName string, words []uint16) error {
	data := make([]byte, 2*len(words))
	for i, word := range words {
		binary.BigEndian.PutUint16(data[2*i:], word)
	}
	if err := os.WriteFile(fileName, data, 0o644); err != nil {
		return fmt.Errorf("unable to write image file: %w", err)
	}
	return nil
}
