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
	"context"
	"fmt"
	"sync"

	libsck "github.com/kcenon/network-system-sub001/socket"
	"github.com/kcenon/network-system-sub001/socket/server/tcp"
)

// Server is the public contract of the HTTP/1.1 server.
type Server interface {
	StartServer(ctx context.Context) error
	StopServer(ctx context.Context) error
	WaitForStop()

	IsRunning() bool
	OpenConnections() int64

	Router() *Router

	RegisterFuncError(fn libsck.FuncError)
	RegisterFuncInfo(fn libsck.FuncInfo)
}

type server struct {
	cfg    Config
	router *Router
	tcp    tcp.ServerTcp

	bufMu   sync.Mutex
	buffers map[string]*requestBuffer
}

// New validates cfg and builds a Server laid over a TCP session server:
// every accepted connection gets its own requestBuffer, fed chunk-by-chunk
// from the session's receive callback until a full request is assembled.
func New(cfg Config) (Server, error) {
	if e := cfg.Validate(); e != nil {
		return nil, ErrorInvalidConfig.Error(e)
	}

	s := &server{
		cfg:     cfg,
		router:  NewRouter(),
		buffers: make(map[string]*requestBuffer),
	}

	t, err := tcp.New(nil, s.onChunk, cfg.Server)
	if err != nil {
		return nil, err
	}
	s.tcp = t
	s.tcp.RegisterFuncDisconnection(s.onDisconnect)

	return s, nil
}

func (s *server) Router() *Router { return s.router }

func (s *server) IsRunning() bool        { return s.tcp.IsRunning() }
func (s *server) OpenConnections() int64 { return s.tcp.OpenConnections() }
func (s *server) WaitForStop()           { s.tcp.WaitForStop() }

func (s *server) StartServer(ctx context.Context) error { return s.tcp.StartServer(ctx) }

func (s *server) StopServer(ctx context.Context) error {
	s.bufMu.Lock()
	s.buffers = make(map[string]*requestBuffer)
	s.bufMu.Unlock()
	return s.tcp.StopServer(ctx)
}

func (s *server) RegisterFuncError(fn libsck.FuncError) { s.tcp.RegisterFuncError(fn) }
func (s *server) RegisterFuncInfo(fn libsck.FuncInfo)   { s.tcp.RegisterFuncInfo(fn) }

func (s *server) onDisconnect(sessionID string) {
	s.bufMu.Lock()
	delete(s.buffers, sessionID)
	s.bufMu.Unlock()
}

// onChunk is the session receive callback: it feeds the session's buffer,
// handles oversize rejection (413/431), and on completion dispatches and
// replies.
func (s *server) onChunk(sessionID string, chunk []byte) {
	s.bufMu.Lock()
	buf, ok := s.buffers[sessionID]
	if !ok {
		buf = &requestBuffer{}
		s.buffers[sessionID] = buf
	}
	s.bufMu.Unlock()

	if rej := buf.append(chunk); rej != appendOK {
		status := 431
		if rej == appendBodyTooLarge {
			status = 413
		}
		s.bufMu.Lock()
		delete(s.buffers, sessionID)
		s.bufMu.Unlock()

		s.reply(sessionID, s.errorResponse(nil, status, getStatusMessage(status)))
		return
	}

	if !buf.isComplete() {
		return
	}

	s.bufMu.Lock()
	raw := buf.bytes
	delete(s.buffers, sessionID)
	s.bufMu.Unlock()

	resp := s.processComplete(raw)
	s.reply(sessionID, resp)
}

// processComplete runs the request-processing pipeline of spec 4.8.2:
// parse, route, invoke handler, fill defaults, optionally compress.
func (s *server) processComplete(raw []byte) *Response {
	req, err := parseRequest(raw)
	if err != nil {
		return s.errorResponse(nil, 400, err.Error())
	}

	route, params := s.router.findRoute(req.Method, req.Path)
	if route == nil {
		return s.errorResponse(req, 404, fmt.Sprintf("no route for %s %s", req.Method, req.Path))
	}
	req.PathParams = params

	resp, herr := s.invokeHandler(route.Handler, req)
	if herr != nil {
		return s.errorResponse(req, 500, herr.Error())
	}

	s.fillDefaults(resp)

	if s.cfg.CompressionEnabled {
		maybeCompress(resp, req.Header.Get("Accept-Encoding"), s.cfg.CompressionThreshold)
		resp.Header.Set("Content-Length", fmt.Sprintf("%d", len(resp.Body)))
	}

	return resp
}

// invokeHandler runs handler and recovers a panic into the (caught, err)
// path the same way the route handler wrapper does in the source design.
func (s *server) invokeHandler(handler Handler, req *Request) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(req)
}

func (s *server) fillDefaults(resp *Response) {
	if !resp.Header.Has("Content-Length") {
		resp.Header.Set("Content-Length", fmt.Sprintf("%d", len(resp.Body)))
	}
	if !resp.Header.Has("Server") {
		resp.Header.Set("Server", "NetworkSystem-HTTP-Server/1.0")
	}
	if !resp.Header.Has("Connection") {
		resp.Header.Set("Connection", "close")
	}
}

// errorResponse builds the configured per-status override when present,
// else the default JSON/HTML problem-detail body.
func (s *server) errorResponse(req *Request, status int, detail string) *Response {
	if h, ok := s.cfg.ErrorHandlers[status]; ok && h != nil {
		resp := h(req, detail)
		s.fillDefaults(resp)
		return resp
	}
	resp := buildErrorResponse(status, detail, s.cfg.ErrorFormat)
	s.fillDefaults(resp)
	return resp
}

func (s *server) reply(sessionID string, resp *Response) {
	wire := resp.serialise(s.cfg.ChunkedEncoding)
	_ = s.tcp.SendToSession(sessionID, wire)
}
