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
	"net"
	"sync"
	"sync/atomic"

	"github.com/kcenon/network-system-sub001/callback"
	"github.com/kcenon/network-system-sub001/errors"
	"github.com/kcenon/network-system-sub001/lifecycle"
	"github.com/kcenon/network-system-sub001/session"
	libsck "github.com/kcenon/network-system-sub001/socket"
	sckcfg "github.com/kcenon/network-system-sub001/socket/config"
	"github.com/sirupsen/logrus"
)

type clientCallbacks struct {
	onError      libsck.FuncError
	onRecv       libsck.FuncReceive
	onConnected  func()
	onDisconnect func()
}

type client struct {
	cfg sckcfg.Client
	upd func(net.Conn)

	lc lifecycle.Manager
	cb *callback.Registry[clientCallbacks]

	connected atomic.Bool

	sessMu sync.Mutex
	sess   session.Session
}

func newClient(upd func(net.Conn), cfg sckcfg.Client) *client {
	return &client{
		cfg: cfg,
		upd: upd,
		lc:  lifecycle.New(),
		cb:  callback.New[clientCallbacks](),
	}
}

func (c *client) IsRunning() bool   { return c.lc.IsRunning() }
func (c *client) IsConnected() bool { return c.connected.Load() }

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

// StartClient implements the connect algorithm of spec section 4.7: dial,
// optionally handshake TLS, install the session, flip connected and fire
// the connected callback.
func (c *client) StartClient(ctx context.Context) error {
	if !c.lc.TryStart() {
		return ErrAlreadyRunning.Error(nil)
	}

	network := c.cfg.Network.String()

	var (
		conn net.Conn
		err  error
	)

	d := net.Dialer{}
	conn, err = d.DialContext(ctx, network, c.cfg.Address)
	if err != nil {
		c.lc.MarkStopped()
		c.fireError(err)
		return ErrDialFailed.Error(err)
	}

	if tlsCfg, e := c.cfg.TLS.TlsConfig(); e != nil {
		_ = conn.Close()
		c.lc.MarkStopped()
		return ErrDialFailed.Error(e)
	} else if tlsCfg != nil {
		tc := tls.Client(conn, tlsCfg)
		if e = tc.HandshakeContext(ctx); e != nil {
			_ = conn.Close()
			c.lc.MarkStopped()
			c.fireError(e)
			return ErrDialFailed.Error(e)
		}
		conn = tc
	}

	if c.upd != nil {
		c.upd(conn)
	}

	c.installSession(conn)

	c.connected.Store(true)
	c.cb.Invoke(func(x clientCallbacks) {
		if x.onConnected != nil {
			x.onConnected()
		}
	})

	return nil
}

func (c *client) installSession(conn net.Conn) {
	sx := session.New(conn, "", logrus.NewEntry(logrus.StandardLogger()))

	c.cb.Invoke(func(x clientCallbacks) {
		if x.onRecv != nil {
			sx.SetReceiveCallback(x.onRecv)
		}
	})
	sx.SetErrorCallback(func(_ string, err error) {
		c.fireError(err)
	})
	sx.SetDisconnectionCallback(func(_ string) {
		c.connected.Store(false)
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
}

// StopClient is idempotent: it closes the session (if any), marks the
// lifecycle stopped and fires the disconnected callback via the session's
// own disconnection path.
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

	c.lc.MarkStopped()
	return nil
}

func (c *client) WaitForStop() {
	c.lc.WaitForStop()
}

func (c *client) SendPacket(p []byte) {
	c.sessMu.Lock()
	sx := c.sess
	c.sessMu.Unlock()

	if sx == nil || !c.connected.Load() {
		return
	}
	sx.SendPacket(p)
}

func (c *client) SendPacketSync(p []byte) errors.Error {
	c.sessMu.Lock()
	sx := c.sess
	c.sessMu.Unlock()

	if sx == nil || !c.connected.Load() {
		return ErrConnectionClosed.Error(nil)
	}
	return sx.SendPacketSync(p)
}
