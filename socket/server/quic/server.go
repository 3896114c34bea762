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

// Package quic is the thin QUIC variant of the server core: quic-go accepts
// a connection, its first bidirectional stream is handed to the session
// engine as the connection's byte pipe. TLS is mandatory for QUIC, so the
// TLS policy in cfg must be enabled.
package quic

import (
	"context"
	"sync"
	"time"

	"github.com/kcenon/network-system-sub001/callback"
	"github.com/kcenon/network-system-sub001/lifecycle"
	"github.com/kcenon/network-system-sub001/runner/ticker"
	"github.com/kcenon/network-system-sub001/session"
	libsck "github.com/kcenon/network-system-sub001/socket"
	sckcfg "github.com/kcenon/network-system-sub001/socket/config"
	"github.com/quic-go/quic-go"
	"github.com/sirupsen/logrus"
)

// ServerQuic is the public contract of the QUIC server core.
type ServerQuic interface {
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
	cfg sckcfg.Server

	lc  lifecycle.Manager
	cb  *callback.Registry[serverCallbacks]
	tck ticker.Ticker

	lstMu sync.Mutex
	lst   *quic.Listener

	sessMu sync.Mutex
	sess   map[string]session.Session
}

// New validates cfg (which must carry an enabled TLS policy) and builds a
// ServerQuic.
func New(handler func(serverID string, data []byte), cfg sckcfg.Server) (ServerQuic, error) {
	if e := cfg.Validate(); e != nil {
		return nil, e
	}
	if !cfg.TLS.Enabled {
		return nil, ErrTLSRequired.Error(nil)
	}

	s := &server{
		cfg:  cfg,
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

	tlsCfg, e := s.cfg.TLS.TlsConfig()
	if e != nil {
		s.lc.MarkStopped()
		return ErrBindFailed.Error(e)
	}
	tlsCfg.NextProtos = []string{"network-system"}

	lst, err := quic.ListenAddr(s.cfg.Address, tlsCfg, nil)
	if err != nil {
		s.lc.MarkStopped()
		return ErrBindFailed.Error(err)
	}

	s.lstMu.Lock()
	s.lst = lst
	s.lstMu.Unlock()

	go s.acceptLoop(ctx)
	_ = s.tck.Start(ctx)

	return nil
}

func (s *server) StopServer(ctx context.Context) error {
	if !s.lc.IsRunning() {
		return ErrNotRunning.Error(nil)
	}

	_ = s.tck.Stop(ctx)

	s.lstMu.Lock()
	if s.lst != nil {
		_ = s.lst.Close()
	}
	s.lstMu.Unlock()

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

func (s *server) acceptLoop(ctx context.Context) {
	for {
		s.lstMu.Lock()
		lst := s.lst
		s.lstMu.Unlock()
		if lst == nil {
			return
		}

		conn, err := lst.Accept(ctx)
		if err != nil {
			if !s.lc.IsRunning() {
				return
			}
			s.fireError(err)
			continue
		}

		go s.handleConn(ctx, conn)
	}
}

func (s *server) handleConn(ctx context.Context, conn *quic.Conn) {
	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		s.fireError(err)
		return
	}

	sx := session.New(stream, "", logrus.NewEntry(logrus.StandardLogger()))

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
