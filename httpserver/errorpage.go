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
	"fmt"
	"strings"
	"time"
)

// ErrorFormat selects the body format of generated error responses.
type ErrorFormat uint8

const (
	ErrorFormatJSON ErrorFormat = iota
	ErrorFormatHTML
)

// ProblemDetail is the RFC 7807 "application/problem+json" shape.
type ProblemDetail struct {
	Type      string
	Title     string
	Status    int
	Detail    string
	Instance  string
	Timestamp time.Time
}

// escapeJSONString escapes control characters, '"' and '\' per RFC 8259.
func escapeJSONString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// escapeHTML escapes '&', '<', '>', '"' and '\''.
func escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}

func (p ProblemDetail) json() []byte {
	var b strings.Builder
	b.WriteString("{")
	fmt.Fprintf(&b, `"type":"%s",`, escapeJSONString(p.Type))
	fmt.Fprintf(&b, `"title":"%s",`, escapeJSONString(p.Title))
	fmt.Fprintf(&b, `"status":%d,`, p.Status)
	fmt.Fprintf(&b, `"detail":"%s",`, escapeJSONString(p.Detail))
	if p.Instance != "" {
		fmt.Fprintf(&b, `"instance":"%s",`, escapeJSONString(p.Instance))
	}
	fmt.Fprintf(&b, `"timestamp":"%s"`, p.Timestamp.UTC().Format(time.RFC3339))
	b.WriteString("}")
	return []byte(b.String())
}

func (p ProblemDetail) html() []byte {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>")
	b.WriteString(escapeHTML(p.Title))
	b.WriteString("</title></head><body><h1>")
	fmt.Fprintf(&b, "%d %s", p.Status, escapeHTML(p.Title))
	b.WriteString("</h1><p>")
	b.WriteString(escapeHTML(p.Detail))
	b.WriteString("</p></body></html>")
	return []byte(b.String())
}

// buildErrorResponse renders a ProblemDetail for status/detail in the
// configured format and returns a ready-to-serialise Response.
func buildErrorResponse(status int, detail string, format ErrorFormat) *Response {
	p := ProblemDetail{
		Type:      fmt.Sprintf("about:blank#%d", status),
		Title:     getStatusMessage(status),
		Status:    status,
		Detail:    detail,
		Timestamp: time.Now(),
	}

	resp := NewResponse(status)
	switch format {
	case ErrorFormatHTML:
		resp.Body = p.html()
		resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	default:
		resp.Body = p.json()
		resp.Header.Set("Content-Type", "application/problem+json")
	}
	return resp
}
