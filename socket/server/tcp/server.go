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

package tcp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kcenon/network-system-sub001/callback"
	liberr "github.com/kcenon/network-system-sub001/errors"
	"github.com/kcenon/network-system-sub001/lifecycle"
	"github.com/kcenon/network-system-sub001/runner/ticker"
	"github.com/kcenon/network-system-sub001/session"
	libsck "github.com/kcenon/network-system-sub001/socket"
	sckcfg "github.com/kcenon/network-system-sub001/socket/config"
	"github.com/sirupsen/logrus"
)

var serverSeq atomic.Uint64

func newServerID() string {
	return fmt.Sprintf("tcp-server-%d", serverSeq.Add(1))
}

type serverCallbacks struct {
	onError   libsck.FuncError
	onInfo    libsck.FuncInfo
	onConn    libsck.FuncConnection
	onDisconn libsck.FuncDisconnection
	onRecv    libsck.FuncReceive
}

type server struct {
	id  string
	cfg sckcfg.Server
	upd func(net.Conn)
	cbu func(serverID string, data []byte)

	lc  lifecycle.Manager
	cb  *callback.Registry[serverCallbacks]
	tck ticker.Ticker

	lst   net.Listener
	lstMu sync.Mutex

	sessMu sync.Mutex
	sess   map[string]session.Session
}

func newServer(upd func(net.Conn), handler func(serverID string, data []byte), cfg sckcfg.Server) *server {
	s := &server{
		id:   newServerID(),
		cfg:  cfg,
		upd:  upd,
		cbu:  handler,
		lc:   lifecycle.New(),
		cb:   callback.New[serverCallbacks](),
		sess: make(map[string]session.Session),
	}
	s.tck = ticker.New(30*time.Second, s.sweep)
	return s
}

func (s *server) ServerID() string { return s.id }
func (s *server) IsRunning() bool  { return s.lc.IsRunning() }
func (s *server) IsGone() bool     { return !s.lc.IsRunning() }

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

func (s *server) fireInfo(local, remote net.Addr, st libsck.ConnState) {
	s.cb.Invoke(func(c serverCallbacks) {
		if c.onInfo != nil {
			c.onInfo(local, remote, st)
		}
	})
}

// StartServer implements the startable-base pattern: it is refused while
// already running, opens (optionally TLS-wrapping) the listener, and kicks
// off the accept loop and cleanup ticker on background goroutines.
func (s *server) StartServer(ctx context.Context) error {
	if s.lc.IsRunning() {
		return ErrAlreadyRunning.Error(nil)
	}

	network := s.cfg.Network.String()
	lst, err := net.Listen(network, s.cfg.Address)
	if err != nil {
		return ErrBindFailed.Error(err)
	}

	if tlsCfg, e := s.cfg.TLS.TlsConfig(); e != nil {
		_ = lst.Close()
		return ErrBindFailed.Error(e)
	} else if tlsCfg != nil {
		lst = tls.NewListener(lst, tlsCfg)
	}

	s.lstMu.Lock()
	s.lst = lst
	s.lstMu.Unlock()

	if !s.lc.TryStart() {
		_ = lst.Close()
		return ErrAlreadyRunning.Error(nil)
	}

	go s.acceptLoop()
	_ = s.tck.Start(ctx)

	return nil
}

// StopServer cancels the cleanup ticker, closes the listener, stops every
// open session and clears the registry.
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

func (s *server) WaitForStop() {
	s.lc.WaitForStop()
}

func (s *server) acceptLoop() {
	for {
		s.lstMu.Lock()
		lst := s.lst
		s.lstMu.Unlock()

		if lst == nil {
			return
		}

		conn, err := lst.Accept()
		if err != nil {
			if !s.lc.IsRunning() {
				return
			}
			s.fireError(err)
			continue
		}

		if s.upd != nil {
			s.upd(conn)
		}

		s.fireInfo(conn.LocalAddr(), conn.RemoteAddr(), libsck.ConnectionDial)
		s.registerSession(conn)
	}
}

func (s *server) registerSession(conn net.Conn) {
	sx := session.New(conn, s.id, logrus.NewEntry(logrus.StandardLogger()))

	if s.cbu != nil {
		sx.SetReceiveCallback(s.cbu)
	}
	sx.SetErrorCallback(func(serverID string, err error) {
		s.fireError(err)
	})
	sx.SetDisconnectionCallback(func(serverID string) {
		s.sessMu.Lock()
		delete(s.sess, sx.ID())
		s.sessMu.Unlock()

		s.cb.Invoke(func(c serverCallbacks) {
			if c.onDisconn != nil {
				c.onDisconn(sx.ID())
			}
		})
		s.fireInfo(conn.LocalAddr(), conn.RemoteAddr(), libsck.ConnectionClose)
	})

	s.sessMu.Lock()
	s.sess[sx.ID()] = sx
	s.sessMu.Unlock()

	s.cb.Invoke(func(c serverCallbacks) {
		if c.onConn != nil {
			c.onConn(sx.ID())
		}
	})
	s.fireInfo(conn.LocalAddr(), conn.RemoteAddr(), libsck.ConnectionNew)

	sx.StartSession()
}

// SendToSession writes p onto the single session identified by sessionID.
func (s *server) SendToSession(sessionID string, p []byte) liberr.Error {
	s.sessMu.Lock()
	sx, ok := s.sess[sessionID]
	s.sessMu.Unlock()

	if !ok {
		return ErrSessionNotFound.Error(nil)
	}
	return sx.SendPacketSync(p)
}

// sweep implements the 30-second dead-session cleanup of spec section 4.6.
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
