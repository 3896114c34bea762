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

import sckcfg "github.com/kcenon/network-system-sub001/socket/config"

// Config is the validated surface for one HTTP/1.1 server instance.
type Config struct {
	Server sckcfg.Server

	// ErrorFormat selects JSON (RFC 7807) or HTML bodies for generated
	// error responses (400/404/413/431/500/...).
	ErrorFormat ErrorFormat

	// ErrorHandlers overrides the generated error response for a specific
	// status code.
	ErrorHandlers map[int]func(req *Request, detail string) *Response

	// CompressionEnabled turns on response compression (spec 4.8.3).
	CompressionEnabled bool
	// CompressionThreshold is the minimum body size eligible for
	// compression; 0 uses the default of 1 KiB.
	CompressionThreshold int

	// ChunkedEncoding opts every response with a non-empty body into
	// chunked transfer framing (spec 4.8.4).
	ChunkedEncoding bool
}

// Validate checks the embedded socket server config.
func (c Config) Validate() error {
	if e := c.Server.Validate(); e != nil {
		return e
	}
	return nil
}
