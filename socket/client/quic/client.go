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

// Package quic is the thin QUIC variant of the client core: quic-go dials
// the server and opens one bidirectional stream, handed to the session
// engine as the connection's byte pipe.
package quic

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kcenon/network-system-sub001/callback"
	"github.com/kcenon/network-system-sub001/errors"
	"github.com/kcenon/network-system-sub001/lifecycle"
	"github.com/kcenon/network-system-sub001/session"
	libsck "github.com/kcenon/network-system-sub001/socket"
	sckcfg "github.com/kcenon/network-system-sub001/socket/config"
	"github.com/quic-go/quic-go"
	"github.com/sirupsen/logrus"
)

type clientCallbacks struct {
	onError      libsck.FuncError
	onRecv       libsck.FuncReceive
	onConnected  func()
	onDisconnect func()
}

// ClientQuic is the public contract of the QUIC client core.
type ClientQuic interface {
	StartClient(ctx context.Context) error
	StopClient(ctx context.Context) error
	WaitForStop()

	IsRunning() bool
	IsConnected() bool

	SendPacket(p []byte)
	SendPacketSync(p []byte) errors.Error

	RegisterFuncError(fn libsck.FuncError)
	RegisterFuncReceive(fn libsck.FuncReceive)
	RegisterFuncConnected(fn func())
	RegisterFuncDisconnected(fn func())
}

type client struct {
	cfg sckcfg.Client

	lc  lifecycle.Manager
	cb  *callback.Registry[clientCallbacks]
	cnt atomic.Bool

	connMu sync.Mutex
	conn   *quic.Conn

	sessMu sync.Mutex
	sess   session.Session
}

// New validates cfg (which must carry an enabled TLS policy, QUIC being
// TLS-only) and builds a ClientQuic.
func New(cfg sckcfg.Client) (ClientQuic, error) {
	if e := cfg.Validate(); e != nil {
		return nil, e
	}
	if !cfg.TLS.Enabled {
		return nil, ErrDialFailed.Error(nil)
	}
	return &client{cfg: cfg, lc: lifecycle.New(), cb: callback.New[clientCallbacks]()}, nil
}

func (c *client) IsRunning() bool   { return c.lc.IsRunning() }
func (c *client) IsConnected() bool { return c.cnt.Load() }

func (c *client) RegisterFuncError(fn libsck.FuncError) {
	c.cb.Set(func(x *clientCallbacks) { x.onError = fn })
}
func (c *client) RegisterFuncReceive(fn libsck.FuncReceive) {
	c.cb.Set(func(x *clientCallbacks) { x.onRecv = fn })
}
func (c *client) RegisterFuncConnected(fn func()) {
	c.cb.Set(func(x *clientCallbacks) { x.onConnected = fn })
}
func (c *client) RegisterFuncDisconnected(fn func()) {
	c.cb.Set(func(x *clientCallbacks) { x.onDisconnect = fn })
}

func (c *client) fireError(err error) {
	if err = libsck.ErrorFilter(err); err == nil {
		return
	}
	c.cb.Invoke(func(x clientCallbacks) {
		if x.onError != nil {
			x.onError(err)
		}
	})
}

func (c *client) StartClient(ctx context.Context) error {
	if !c.lc.TryStart() {
		return ErrAlreadyRunning.Error(nil)
	}

	tlsCfg, e := c.cfg.TLS.TlsConfig()
	if e != nil {
		c.lc.MarkStopped()
		return ErrDialFailed.Error(e)
	}
	tlsCfg.NextProtos = []string{"network-system"}

	conn, err := quic.DialAddr(ctx, c.cfg.Address, tlsCfg, nil)
	if err != nil {
		c.lc.MarkStopped()
		c.fireError(err)
		return ErrDialFailed.Error(err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		c.lc.MarkStopped()
		c.fireError(err)
		return ErrDialFailed.Error(err)
	}

	sx := session.New(stream, "", logrus.NewEntry(logrus.StandardLogger()))
	c.cb.Invoke(func(x clientCallbacks) {
		if x.onRecv != nil {
			sx.SetReceiveCallback(x.onRecv)
		}
	})
	sx.SetErrorCallback(func(_ string, err error) { c.fireError(err) })
	sx.SetDisconnectionCallback(func(_ string) {
		c.cnt.Store(false)
		c.cb.Invoke(func(x clientCallbacks) {
			if x.onDisconnect != nil {
				x.onDisconnect()
			}
		})
	})

	c.sessMu.Lock()
	c.sess = sx
	c.sessMu.Unlock()

	sx.StartSession()
	c.cnt.Store(true)

	c.cb.Invoke(func(x clientCallbacks) {
		if x.onConnected != nil {
			x.onConnected()
		}
	})

	return nil
}

func (c *client) StopClient(ctx context.Context) error {
	if !c.lc.IsRunning() {
		return ErrNotRunning.Error(nil)
	}

	c.sessMu.Lock()
	sx := c.sess
	c.sessMu.Unlock()
	if sx != nil {
		sx.StopSession()
	}

	c.connMu.Lock()
	if c.conn != nil {
		_ = c.conn.CloseWithError(0, "")
	}
	c.connMu.Unlock()

	c.lc.MarkStopped()
	return nil
}

func (c *client) WaitForStop() { c.lc.WaitForStop() }

func (c *client) SendPacket(p []byte) {
	c.sessMu.Lock()
	sx := c.sess
	c.sessMu.Unlock()
	if sx == nil || !c.cnt.Load() {
		return
	}
	sx.SendPacket(p)
}

func (c *client) SendPacketSync(p []byte) errors.Error {
	c.sessMu.Lock()
	sx := c.sess
	c.sessMu.Unlock()
	if sx == nil || !c.cnt.Load() {
		return ErrConnectionClosed.Error(nil)
	}
	return sx.SendPacketSync(p)
}
