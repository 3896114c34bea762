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
	"strings"

	"github.com/kcenon/network-system-sub001/compress"
)

// defaultCompressionThreshold is the minimum response body size (spec
// section 4.8.3) below which compression is never attempted.
const defaultCompressionThreshold = 1024

// negotiateEncoding picks the first of "gzip", "deflate" advertised by the
// client's Accept-Encoding header, in that preference order.
func negotiateEncoding(acceptEncoding string) compress.Algorithm {
	tokens := strings.Split(acceptEncoding, ",")
	offered := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		name, _, _ := strings.Cut(strings.TrimSpace(t), ";")
		offered[strings.ToLower(strings.TrimSpace(name))] = true
	}

	switch {
	case offered["gzip"]:
		return compress.Gzip
	case offered["deflate"]:
		return compress.Deflate
	default:
		return compress.None
	}
}

// maybeCompress applies response compression per spec section 4.8.3: only
// above the threshold, only when the negotiated algorithm actually shrinks
// the body, and only ever replacing resp.Body with the smaller form.
func maybeCompress(resp *Response, acceptEncoding string, threshold int) {
	if threshold <= 0 {
		threshold = defaultCompressionThreshold
	}
	if len(resp.Body) < threshold {
		return
	}

	alg := negotiateEncoding(acceptEncoding)
	if alg == compress.None {
		return
	}

	pipe := compress.New(alg, 0)
	out, err := pipe.Compress(resp.Body)
	if err != nil || len(out) >= len(resp.Body) {
		return
	}

	resp.Body = out
	resp.Header.Set("Content-Encoding", alg.String())
}
