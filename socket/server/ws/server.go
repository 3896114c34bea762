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

// Package ws is the thin WebSocket variant of the server core: one
// http.Server mounting a single golang.org/x/net/websocket.Handler at the
// configured path, each upgraded connection handed to the same session
// engine the TCP server uses.
package ws

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/kcenon/network-system-sub001/callback"
	"github.com/kcenon/network-system-sub001/lifecycle"
	"github.com/kcenon/network-system-sub001/runner/ticker"
	"github.com/kcenon/network-system-sub001/session"
	libsck "github.com/kcenon/network-system-sub001/socket"
	sckcfg "github.com/kcenon/network-system-sub001/socket/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/websocket"
)

// ServerWs is the public contract of the WebSocket server core.
type ServerWs interface {
	StartServer(ctx context.Context) error
	StopServer(ctx context.Context) error
	WaitForStop()

	IsRunning() bool
	IsGone() bool
	OpenConnections() int64

	RegisterFuncError(fn libsck.FuncError)
	RegisterFuncInfo(fn libsck.FuncInfo)
	RegisterFuncConnection(fn libsck.FuncConnection)
	RegisterFuncDisconnection(fn libsck.FuncDisconnection)
	RegisterFuncReceive(fn libsck.FuncReceive)
}

type serverCallbacks struct {
	onError   libsck.FuncError
	onInfo    libsck.FuncInfo
	onConn    libsck.FuncConnection
	onDisconn libsck.FuncDisconnection
	onRecv    libsck.FuncReceive
}

type server struct {
	cfg  sckcfg.Server
	path string

	lc  lifecycle.Manager
	cb  *callback.Registry[serverCallbacks]
	tck ticker.Ticker

	httpSrv *http.Server

	sessMu sync.Mutex
	sess   map[string]session.Session
}

// New validates cfg and builds a ServerWs mounting the websocket handler at
// path (defaulting to "/" when empty).
func New(path string, handler func(serverID string, data []byte), cfg sckcfg.Server) (ServerWs, error) {
	if e := cfg.Validate(); e != nil {
		return nil, e
	}
	if path == "" {
		path = "/"
	}

	s := &server{
		cfg:  cfg,
		path: path,
		lc:   lifecycle.New(),
		cb:   callback.New[serverCallbacks](),
		sess: make(map[string]session.Session),
	}
	if handler != nil {
		s.cb.Set(func(c *serverCallbacks) { c.onRecv = handler })
	}
	s.tck = ticker.New(30*time.Second, s.sweep)

	return s, nil
}

func (s *server) IsRunning() bool { return s.lc.IsRunning() }
func (s *server) IsGone() bool    { return !s.lc.IsRunning() }

func (s *server) OpenConnections() int64 {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	return int64(len(s.sess))
}

func (s *server) RegisterFuncError(fn libsck.FuncError) {
	s.cb.Set(func(c *serverCallbacks) { c.onError = fn })
}
func (s *server) RegisterFuncInfo(fn libsck.FuncInfo) {
	s.cb.Set(func(c *serverCallbacks) { c.onInfo = fn })
}
func (s *server) RegisterFuncConnection(fn libsck.FuncConnection) {
	s.cb.Set(func(c *serverCallbacks) { c.onConn = fn })
}
func (s *server) RegisterFuncDisconnection(fn libsck.FuncDisconnection) {
	s.cb.Set(func(c *serverCallbacks) { c.onDisconn = fn })
}
func (s *server) RegisterFuncReceive(fn libsck.FuncReceive) {
	s.cb.Set(func(c *serverCallbacks) { c.onRecv = fn })
}

func (s *server) fireError(err error) {
	if err = libsck.ErrorFilter(err); err == nil {
		return
	}
	s.cb.Invoke(func(c serverCallbacks) {
		if c.onError != nil {
			c.onError(err)
		}
	})
}

func (s *server) StartServer(ctx context.Context) error {
	if !s.lc.TryStart() {
		return ErrAlreadyRunning.Error(nil)
	}

	mux := http.NewServeMux()
	mux.Handle(s.path, websocket.Handler(s.onUpgrade))

	tlsCfg, e := s.cfg.TLS.TlsConfig()
	if e != nil {
		s.lc.MarkStopped()
		return ErrBindFailed.Error(e)
	}

	lst, err := net.Listen(s.cfg.Network.String(), s.cfg.Address)
	if err != nil {
		s.lc.MarkStopped()
		return ErrBindFailed.Error(err)
	}

	s.httpSrv = &http.Server{Handler: mux, TLSConfig: tlsCfg}

	go func() {
		var serveErr error
		if tlsCfg != nil {
			serveErr = s.httpSrv.ServeTLS(lst, "", "")
		} else {
			serveErr = s.httpSrv.Serve(lst)
		}
		if serveErr != nil && serveErr != http.ErrServerClosed {
			s.fireError(serveErr)
		}
	}()

	_ = s.tck.Start(ctx)
	return nil
}

func (s *server) StopServer(ctx context.Context) error {
	if !s.lc.IsRunning() {
		return ErrNotRunning.Error(nil)
	}

	_ = s.tck.Stop(ctx)

	if s.httpSrv != nil {
		_ = s.httpSrv.Close()
	}

	s.sessMu.Lock()
	for id, sx := range s.sess {
		sx.StopSession()
		delete(s.sess, id)
	}
	s.sessMu.Unlock()

	s.lc.MarkStopped()
	return nil
}

func (s *server) WaitForStop() { s.lc.WaitForStop() }

func (s *server) onUpgrade(ws *websocket.Conn) {
	sx := session.New(ws, "", logrus.NewEntry(logrus.StandardLogger()))

	s.cb.Invoke(func(c serverCallbacks) {
		if c.onRecv != nil {
			sx.SetReceiveCallback(c.onRecv)
		}
	})
	sx.SetErrorCallback(func(_ string, err error) { s.fireError(err) })
	sx.SetDisconnectionCallback(func(_ string) {
		s.sessMu.Lock()
		delete(s.sess, sx.ID())
		s.sessMu.Unlock()

		s.cb.Invoke(func(c serverCallbacks) {
			if c.onDisconn != nil {
				c.onDisconn(sx.ID())
			}
		})
	})

	s.sessMu.Lock()
	s.sess[sx.ID()] = sx
	s.sessMu.Unlock()

	s.cb.Invoke(func(c serverCallbacks) {
		if c.onConn != nil {
			c.onConn(sx.ID())
		}
	})

	sx.StartSession()

	// golang.org/x/net/websocket closes the connection as soon as the
	// handler returns; block until the session is torn down so the
	// upgrade handler's goroutine keeps the conn alive for the session.
	for !sx.IsStopped() {
		time.Sleep(50 * time.Millisecond)
	}
}

func (s *server) sweep(ctx context.Context, _ *time.Ticker) error {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	for id, sx := range s.sess {
		if sx.IsStopped() {
			delete(s.sess, id)
		}
	}
	return nil
}
