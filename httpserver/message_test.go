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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("parseRequest", func() {
	It("parses method, path, query, version, headers and body", func() {
		raw := []byte("POST /users?active=1 HTTP/1.1\r\nHost: x\r\nContent-Length: 5\r\n\r\nhello")

		req, err := parseRequest(raw)
		Expect(err).ToNot(HaveOccurred())
		Expect(req.Method).To(Equal("POST"))
		Expect(req.Path).To(Equal("/users"))
		Expect(req.Query).To(Equal(map[string]string{"active": "1"}))
		Expect(req.Version).To(Equal("HTTP/1.1"))
		Expect(req.Header.Get("Host")).To(Equal("x"))
		Expect(string(req.Body)).To(Equal("hello"))
	})

	It("defaults to an empty body when Content-Length is absent", func() {
		raw := []byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n")

		req, err := parseRequest(raw)
		Expect(err).ToNot(HaveOccurred())
		Expect(req.Body).To(BeEmpty())
	})

	It("truncates a longer body to the declared Content-Length", func() {
		raw := []byte("POST / HTTP/1.1\r\nContent-Length: 3\r\n\r\nabcdef")

		req, err := parseRequest(raw)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(req.Body)).To(Equal("abc"))
	})

	It("rejects a missing header terminator", func() {
		_, err := parseRequest([]byte("GET / HTTP/1.1\r\nHost: x"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unknown method", func() {
		_, err := parseRequest([]byte("FROB / HTTP/1.1\r\n\r\n"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unknown version", func() {
		_, err := parseRequest([]byte("GET / HTTP/9.9\r\n\r\n"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects a malformed header line", func() {
		_, err := parseRequest([]byte("GET / HTTP/1.1\r\nNotAHeader\r\n\r\n"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects a body shorter than the declared Content-Length", func() {
		_, err := parseRequest([]byte("POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\nshort"))
		Expect(err).To(HaveOccurred())
	})

	It("percent-decodes the path", func() {
		req, err := parseRequest([]byte("GET /a%20b HTTP/1.1\r\n\r\n"))
		Expect(err).ToNot(HaveOccurred())
		Expect(req.Path).To(Equal("/a b"))
	})
})

var _ = Describe("Response.serialise", func() {
	It("emits headers and body verbatim when not chunked", func() {
		resp := NewResponse(200)
		resp.Header.Set("Content-Type", "text/plain")
		resp.Body = []byte("ok")

		wire := string(resp.serialise(false))
		Expect(wire).To(HavePrefix("HTTP/1.1 200 OK\r\n"))
		Expect(wire).To(ContainSubstring("Content-Type: text/plain\r\n"))
		Expect(wire).To(HaveSuffix("\r\n\r\nok"))
	})

	It("frames a non-empty body as a single chunk when chunked", func() {
		resp := NewResponse(200)
		resp.Body = []byte("hello")

		wire := string(resp.serialise(true))
		Expect(wire).To(ContainSubstring("\r\n\r\n5\r\nhello\r\n0\r\n\r\n"))
	})

	It("does not chunk-frame an empty body", func() {
		resp := NewResponse(204)
		wire := string(resp.serialise(true))
		Expect(strings.Count(wire, "0\r\n\r\n")).To(Equal(0))
	})
})

var _ = Describe("Request.serialise", func() {
	It("renders the request line and headers", func() {
		req := &Request{Method: "GET", Path: "/a b", Version: "HTTP/1.1", Header: NewHeader(), Body: nil}
		req.Header.Set("Host", "x")

		wire := string(req.serialise())
		Expect(wire).To(HavePrefix("GET /a%20b HTTP/1.1\r\n"))
		Expect(wire).To(ContainSubstring("Host: x\r\n"))
	})

	It("appends the query string instead of dropping it", func() {
		req := &Request{
			Method:  "GET",
			Path:    "/users",
			Query:   map[string]string{"active": "1"},
			Version: "HTTP/1.1",
			Header:  NewHeader(),
		}

		wire := string(req.serialise())
		Expect(wire).To(HavePrefix("GET /users?active=1 HTTP/1.1\r\n"))
	})

	It("round-trips through parseRequest for a multi-key query", func() {
		req := &Request{
			Method:  "GET",
			Path:    "/search",
			Query:   map[string]string{"q": "go lang", "page": "2"},
			Version: "HTTP/1.1",
			Header:  NewHeader(),
		}
		req.Header.Set("Host", "x")

		parsed, err := parseRequest(req.serialise())
		Expect(err).ToNot(HaveOccurred())
		Expect(parsed.Path).To(Equal(req.Path))
		Expect(parsed.Query).To(Equal(req.Query))
	})
})
