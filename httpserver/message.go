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

// Package httpserver assembles raw byte chunks delivered by the TCP session
// engine into HTTP/1.1 requests, dispatches them through a regex-compiled
// route table, and serialises the handler's response back onto the same
// session — optionally gzip/deflate-compressed or chunk-framed.
package httpserver

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Request is a parsed HTTP/1.1 request.
type Request struct {
	Method  string
	Path    string
	Query   map[string]string
	Version string
	Header  *Header
	Body    []byte

	// PathParams holds the named captures of the route pattern that
	// matched this request, filled in by the dispatcher.
	PathParams map[string]string
}

// Response is what a handler builds and the dispatcher serialises.
type Response struct {
	Status int
	Header *Header
	Body   []byte
}

// NewResponse returns a Response with status and an empty header set.
func NewResponse(status int) *Response {
	return &Response{Status: status, Header: NewHeader()}
}

// parseRequest parses raw HTTP/1.1 request bytes (request line, headers,
// body). It fails when the request line or any header line is malformed.
func parseRequest(raw []byte) (*Request, error) {
	idx := bytes.Index(raw, []byte("\r\n\r\n"))
	if idx < 0 {
		return nil, fmt.Errorf("missing header terminator")
	}

	headSection := string(raw[:idx])
	body := raw[idx+4:]

	lines := strings.Split(headSection, "\r\n")
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty request")
	}

	requestLine := strings.Fields(lines[0])
	if len(requestLine) != 3 {
		return nil, fmt.Errorf("malformed request line")
	}
	method, uri, version := requestLine[0], requestLine[1], requestLine[2]

	if !knownMethods[method] {
		return nil, fmt.Errorf("unknown method %q", method)
	}
	if !knownVersions[version] {
		return nil, fmt.Errorf("unknown version %q", version)
	}

	path, rawQuery, _ := strings.Cut(uri, "?")
	path = percentDecode(path)

	header := NewHeader()
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		name, value, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("malformed header line %q", line)
		}
		header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	if cl := header.Get("Content-Length"); cl != "" {
		n, err := strconv.Atoi(strings.TrimSpace(cl))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("malformed content-length")
		}
		if n > len(body) {
			return nil, fmt.Errorf("body shorter than declared content-length")
		}
		body = body[:n]
	} else {
		body = body[:0]
	}

	return &Request{
		Method:  method,
		Path:    path,
		Query:   parseQuery(rawQuery),
		Version: version,
		Header:  header,
		Body:    body,
	}, nil
}

// serialise renders r as wire bytes: request line, canonicalised headers,
// blank line, body.
func (r *Request) serialise() []byte {
	var b bytes.Buffer

	uri := percentEncode(r.Path)
	if len(r.Query) > 0 {
		uri += "?" + encodeQuery(r.Query)
	}
	fmt.Fprintf(&b, "%s %s %s\r\n", r.Method, uri, r.Version)
	for _, k := range r.Header.Keys() {
		fmt.Fprintf(&b, "%s: %s\r\n", k, r.Header.Get(k))
	}
	b.WriteString("\r\n")
	b.Write(r.Body)

	return b.Bytes()
}

// serialise renders resp as wire bytes. When chunked is true and the body
// is non-empty, the body is emitted as a single chunked-transfer frame
// (spec section 4.8.4); otherwise headers and body are emitted verbatim.
func (resp *Response) serialise(chunked bool) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", resp.Status, getStatusMessage(resp.Status))
	for _, k := range resp.Header.Keys() {
		fmt.Fprintf(&b, "%s: %s\r\n", k, resp.Header.Get(k))
	}
	b.WriteString("\r\n")

	if chunked && len(resp.Body) > 0 {
		fmt.Fprintf(&b, "%x\r\n", len(resp.Body))
		b.Write(resp.Body)
		b.WriteString("\r\n0\r\n\r\n")
	} else {
		b.Write(resp.Body)
	}

	return b.Bytes()
}
