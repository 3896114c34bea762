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

// Package udp implements the connectionless variant of the server core: one
// shared net.PacketConn instead of a per-client accept loop and session
// registry, with a peer table swept every 30 seconds the same way the TCP
// server sweeps dead sessions.
package udp

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/kcenon/network-system-sub001/callback"
	"github.com/kcenon/network-system-sub001/lifecycle"
	"github.com/kcenon/network-system-sub001/runner/ticker"
	libsck "github.com/kcenon/network-system-sub001/socket"
	sckcfg "github.com/kcenon/network-system-sub001/socket/config"
)

const peerIdleTimeout = 2 * time.Minute

// ServerUdp is the public contract of the UDP server core.
type ServerUdp interface {
	StartServer(ctx context.Context) error
	StopServer(ctx context.Context) error
	WaitForStop()

	IsRunning() bool
	IsGone() bool
	OpenConnections() int64

	SendTo(remote net.Addr, p []byte) error

	RegisterFuncError(fn libsck.FuncError)
	RegisterFuncInfo(fn libsck.FuncInfo)
	RegisterFuncReceive(fn func(remote net.Addr, data []byte))
}

type udpCallbacks struct {
	onError libsck.FuncError
	onInfo  libsck.FuncInfo
	onRecv  func(remote net.Addr, data []byte)
}

type peer struct {
	addr     net.Addr
	lastSeen time.Time
}

type server struct {
	cfg sckcfg.Server
	upd func(net.PacketConn)

	lc  lifecycle.Manager
	cb  *callback.Registry[udpCallbacks]
	tck ticker.Ticker

	connMu sync.Mutex
	conn   net.PacketConn

	peerMu sync.Mutex
	peers  map[string]*peer
}

// New validates cfg and builds a ServerUdp. upd, when non-nil, runs against
// the bound net.PacketConn before the receive loop starts.
func New(upd func(net.PacketConn), handler func(remote net.Addr, data []byte), cfg sckcfg.Server) (ServerUdp, error) {
	if e := cfg.Validate(); e != nil {
		return nil, e
	}

	s := &server{
		cfg:   cfg,
		upd:   upd,
		lc:    lifecycle.New(),
		cb:    callback.New[udpCallbacks](),
		peers: make(map[string]*peer),
	}
	if handler != nil {
		s.cb.Set(func(c *udpCallbacks) { c.onRecv = handler })
	}
	s.tck = ticker.New(30*time.Second, s.sweep)

	return s, nil
}

func (s *server) IsRunning() bool { return s.lc.IsRunning() }
func (s *server) IsGone() bool    { return !s.lc.IsRunning() }

func (s *server) OpenConnections() int64 {
	s.peerMu.Lock()
	defer s.peerMu.Unlock()
	return int64(len(s.peers))
}

func (s *server) RegisterFuncError(fn libsck.FuncError) {
	s.cb.Set(func(c *udpCallbacks) { c.onError = fn })
}

func (s *server) RegisterFuncInfo(fn libsck.FuncInfo) {
	s.cb.Set(func(c *udpCallbacks) { c.onInfo = fn })
}

func (s *server) RegisterFuncReceive(fn func(remote net.Addr, data []byte)) {
	s.cb.Set(func(c *udpCallbacks) { c.onRecv = fn })
}

func (s *server) fireError(err error) {
	if err = libsck.ErrorFilter(err); err == nil {
		return
	}
	s.cb.Invoke(func(c udpCallbacks) {
		if c.onError != nil {
			c.onError(err)
		}
	})
}

func (s *server) StartServer(ctx context.Context) error {
	if !s.lc.TryStart() {
		return ErrAlreadyRunning.Error(nil)
	}

	pc, err := net.ListenPacket(s.cfg.Network.String(), s.cfg.Address)
	if err != nil {
		s.lc.MarkStopped()
		return ErrBindFailed.Error(err)
	}

	if s.upd != nil {
		s.upd(pc)
	}

	s.connMu.Lock()
	s.conn = pc
	s.connMu.Unlock()

	go s.readLoop()
	_ = s.tck.Start(ctx)

	return nil
}

func (s *server) StopServer(ctx context.Context) error {
	if !s.lc.IsRunning() {
		return ErrNotRunning.Error(nil)
	}

	_ = s.tck.Stop(ctx)

	s.connMu.Lock()
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.connMu.Unlock()

	s.peerMu.Lock()
	s.peers = make(map[string]*peer)
	s.peerMu.Unlock()

	s.lc.MarkStopped()
	return nil
}

func (s *server) WaitForStop() {
	s.lc.WaitForStop()
}

func (s *server) SendTo(remote net.Addr, p []byte) error {
	s.connMu.Lock()
	pc := s.conn
	s.connMu.Unlock()

	if pc == nil {
		return ErrNotRunning.Error(nil)
	}

	_, err := pc.WriteTo(p, remote)
	return err
}

func (s *server) readLoop() {
	buf := make([]byte, libsck.DefaultBufferSize)

	for {
		s.connMu.Lock()
		pc := s.conn
		s.connMu.Unlock()
		if pc == nil {
			return
		}

		n, remote, err := pc.ReadFrom(buf)
		if err != nil {
			if !s.lc.IsRunning() {
				return
			}
			s.fireError(err)
			continue
		}

		s.touchPeer(remote)
		s.fireInfo(pc.LocalAddr(), remote, libsck.ConnectionRead)

		view := make([]byte, n)
		copy(view, buf[:n])

		s.cb.Invoke(func(c udpCallbacks) {
			if c.onRecv != nil {
				c.onRecv(remote, view)
			}
		})
	}
}

func (s *server) fireInfo(local, remote net.Addr, st libsck.ConnState) {
	s.cb.Invoke(func(c udpCallbacks) {
		if c.onInfo != nil {
			c.onInfo(local, remote, st)
		}
	})
}

func (s *server) touchPeer(remote net.Addr) {
	s.peerMu.Lock()
	defer s.peerMu.Unlock()
	s.peers[remote.String()] = &peer{addr: remote, lastSeen: time.Now()}
}

// sweep drops peers that have been silent for longer than peerIdleTimeout,
// mirroring the TCP server's dead-session cleanup.
func (s *server) sweep(ctx context.Context, _ *time.Ticker) error {
	s.peerMu.Lock()
	defer s.peerMu.Unlock()

	now := time.Now()
	for k, p := range s.peers {
		if now.Sub(p.lastSeen) > peerIdleTimeout {
			delete(s.peers, k)
		}
	}
	return nil
}
