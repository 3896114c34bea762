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

import "strings"

// Header is a case-insensitive, order-preserving header collection. Keys
// are stored canonicalised (e.g. "content-type" -> "Content-Type") so that
// parse(serialise(r)) round-trips regardless of the casing on the wire.
type Header struct {
	order []string
	value map[string]string
}

// NewHeader returns an empty Header.
func NewHeader() *Header {
	return &Header{value: make(map[string]string)}
}

// canonicalHeaderKey title-cases each hyphen-separated word of key, e.g.
// "content-length" -> "Content-Length".
func canonicalHeaderKey(key string) string {
	parts := strings.Split(key, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, "-")
}

// Set replaces any existing value for name.
func (h *Header) Set(name, value string) {
	key := canonicalHeaderKey(name)
	if _, ok := h.value[key]; !ok {
		h.order = append(h.order, key)
	}
	h.value[key] = value
}

// Get returns the value for name, matched case-insensitively, or "".
func (h *Header) Get(name string) string {
	return h.value[canonicalHeaderKey(name)]
}

// Has reports whether name is present, matched case-insensitively.
func (h *Header) Has(name string) bool {
	_, ok := h.value[canonicalHeaderKey(name)]
	return ok
}

// Del removes name.
func (h *Header) Del(name string) {
	key := canonicalHeaderKey(name)
	if _, ok := h.value[key]; !ok {
		return
	}
	delete(h.value, key)
	for i, k := range h.order {
		if k == key {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// Keys returns the header names in insertion order.
func (h *Header) Keys() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

func (h *Header) clone() *Header {
	c := NewHeader()
	for _, k := range h.order {
		c.Set(k, h.value[k])
	}
	return c
}
