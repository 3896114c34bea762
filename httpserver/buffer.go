/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

package httpserver

import (
	"bytes"
	"strconv"
	"strings"
)

const (
	maxBodySize    = 10 * 1024 * 1024
	maxHeaderBytes = 64 * 1024
)

// requestBuffer accumulates the chunks of one in-flight HTTP/1.1 request
// until the header section and declared body are both present.
type requestBuffer struct {
	bytes           []byte
	headersComplete bool
	headersEnd      int
	contentLength   int
}

// appendRejection distinguishes why append refused a chunk, so the caller
// can send the matching status code.
type appendRejection int

const (
	appendOK appendRejection = iota
	appendBodyTooLarge
	appendHeadersTooLarge
)

// append folds chunk into the buffer. A non-appendOK result means the
// buffer must be abandoned: appendBodyTooLarge maps to a 413 reply,
// appendHeadersTooLarge to a 431 reply.
func (b *requestBuffer) append(chunk []byte) appendRejection {
	if len(b.bytes)+len(chunk) > maxBodySize {
		return appendBodyTooLarge
	}
	b.bytes = append(b.bytes, chunk...)

	if !b.headersComplete {
		if idx := bytes.Index(b.bytes, []byte("\r\n\r\n")); idx >= 0 {
			b.headersComplete = true
			b.headersEnd = idx + 4
			b.contentLength = parseContentLength(b.bytes[:b.headersEnd])
		} else if len(b.bytes) > maxHeaderBytes {
			return appendHeadersTooLarge
		}
	}

	return appendOK
}

// isComplete reports whether the full header section and declared body
// have both arrived.
func (b *requestBuffer) isComplete() bool {
	return b.headersComplete && len(b.bytes) >= b.headersEnd+b.contentLength
}

// parseContentLength scans the header lines of a request for the first
// case-insensitive "content-length:" line and returns the first integer on
// its value side, defaulting to 0 when absent or unparseable.
func parseContentLength(header []byte) int {
	lines := strings.Split(string(header), "\r\n")
	for _, line := range lines {
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(line[:idx]))
		if name != "content-length" {
			continue
		}
		value := strings.TrimSpace(line[idx+1:])
		n, err := strconv.Atoi(firstInt(value))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// firstInt extracts the leading run of ASCII digits from s.
func firstInt(s string) string {
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return s[start:i]
		}
	}
	if start >= 0 {
		return s[start:]
	}
	return ""
}
