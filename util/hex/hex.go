/*
 * DCPU-16 - Convert Hex to strings.
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

package hex

import "strings"

var hexMap = "0123456789ABCDEF"

// FormatWord appends one word as four uppercase hex digits.
func FormatWord(str *strings.Builder, word uint16) {
	shift := 12
	for range 4 {
		str.WriteByte(hexMap[(word>>shift)&0xf])
		shift -= 4
	}
}

// Dump formats words as rows of "ADDR: W1 W2 ... WN". Addresses start
// at base and count in words. A non-positive row width defaults to 8.
func Dump(words []uint16, base uint16, wordsPerRow int) string {
	if wordsPerRow <= 0 {
		wordsPerRow = 8
	}
	var str strings.Builder
	for i, word := range words {
		if i%wordsPerRow == 0 {
			if i != 0 {
				str.WriteByte('\n')
			}
			FormatWord(&str, base+uint16(i))
			str.WriteByte(':')
		}
		str.WriteByte(' ')
		FormatWord(&str, word)
	}
	if len(words) != 0 {
		str.WriteByte('\n')
	}
	return str.String()
}
