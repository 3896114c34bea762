/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package compress implements the optional compression pipeline: a
// pluggable algorithm (none/LZ4/gzip/deflate) with a configurable size
// threshold, "never emit larger than input" semantics, and a strict bounded
// decompression. It is grounded on the Algorithm-enum / DetectHeader /
// engine pattern of archive/compress, narrowed to the algorithm set this
// module requires and given the byte-slice oriented operations (rather than
// stream detection) that the session engine and the HTTP response path use.
package compress

import "strings"

// Algorithm identifies a compression codec.
type Algorithm uint8

const (
	None Algorithm = iota
	LZ4
	Gzip
	Deflate
)

// String returns the lowercase textual name of the algorithm, matching the
// tokens accepted by Parse and by the HTTP Accept-Encoding/Content-Encoding
// negotiation in the response-compression component.
func (a Algorithm) String() string {
	switch a {
	case LZ4:
		return "lz4"
	case Gzip:
		return "gzip"
	case Deflate:
		return "deflate"
	default:
		return "none"
	}
}

// Parse maps a case-insensitive textual token to an Algorithm, defaulting to
// None for anything unrecognised (mirroring archive/compress.Parse).
func Parse(s string) Algorithm {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lz4":
		return LZ4
	case "gzip":
		return Gzip
	case "deflate", "raw-deflate":
		return Deflate
	default:
		return None
	}
}

// MarshalText implements encoding.TextMarshaler; None marshals to an empty
// string so it can round-trip through `omitempty` JSON/YAML tags the way
// archive/compress.Algorithm does (None -> null).
func (a Algorithm) MarshalText() ([]byte, error) {
	if a == None {
		return []byte(""), nil
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(p []byte) error {
	*a = Parse(string(p))
	return nil
}
