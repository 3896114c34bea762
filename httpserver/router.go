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
	"regexp"
	"strings"
	"sync"
)

// Handler answers one request. It may return an error, which the
// dispatcher turns into the configured 500 response.
type Handler func(req *Request) (*Response, error)

// Route is one (method, path pattern) registration.
type Route struct {
	Method  string
	Pattern string
	Handler Handler

	re     *regexp.Regexp
	names  []string
}

// Router is the mutex-guarded route table.
type Router struct {
	mu     sync.Mutex
	routes []*Route
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{}
}

var patternMeta = ".*+?[](){}^$|\\"

// patternToRegex compiles a route pattern such as "/users/:id" into an
// anchored regex "^/users/([^/]+)$", recording the identifiers captured by
// each ":name" run.
func patternToRegex(pattern string) (*regexp.Regexp, []string) {
	var (
		b     strings.Builder
		names []string
	)
	b.WriteString("^")

	i := 0
	for i < len(pattern) {
		c := pattern[i]
		if c == ':' {
			j := i + 1
			for j < len(pattern) && isIdentByte(pattern[j]) {
				j++
			}
			names = append(names, pattern[i+1:j])
			b.WriteString("([^/]+)")
			i = j
			continue
		}
		if strings.IndexByte(patternMeta, c) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
		i++
	}
	b.WriteString("$")

	return regexp.MustCompile(b.String()), names
}

func isIdentByte(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}

// Handle registers a route for method and pattern.
func (r *Router) Handle(method, pattern string, handler Handler) {
	re, names := patternToRegex(pattern)
	route := &Route{Method: method, Pattern: pattern, Handler: handler, re: re, names: names}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *Router) Get(pattern string, h Handler)     { r.Handle("GET", pattern, h) }
func (r *Router) Post(pattern string, h Handler)    { r.Handle("POST", pattern, h) }
func (r *Router) Put(pattern string, h Handler)     { r.Handle("PUT", pattern, h) }
func (r *Router) Delete(pattern string, h Handler)  { r.Handle("DELETE", pattern, h) }
func (r *Router) Head(pattern string, h Handler)    { r.Handle("HEAD", pattern, h) }
func (r *Router) Options(pattern string, h Handler) { r.Handle("OPTIONS", pattern, h) }
func (r *Router) Patch(pattern string, h Handler)   { r.Handle("PATCH", pattern, h) }

// findRoute linearly scans the route table for the first (method, path)
// match, filling the matched route's captures into out.
func (r *Router) findRoute(method, path string) (*Route, map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, route := range r.routes {
		if route.Method != method {
			continue
		}
		m := route.re.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		params := make(map[string]string, len(route.names))
		for i, name := range route.names {
			params[name] = m[i+1]
		}
		return route, params
	}
	return nil, nil
}
