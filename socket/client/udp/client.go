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

// Package udp implements the connectionless client core: a connected
// net.PacketConn (so Read/Write address the single remote peer) wrapped by
// the same session engine the TCP client uses.
package udp

import (
	"context"
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

// ClientUdp is the public contract of the UDP client core.
type ClientUdp interface {
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
	upd func(net.Conn)

	lc  lifecycle.Manager
	cb  *callback.Registry[clientCallbacks]
	cnt atomic.Bool

	sessMu sync.Mutex
	sess   session.Session
}

// New validates cfg and builds a ClientUdp bound to it.
func New(upd func(net.Conn), cfg sckcfg.Client) (ClientUdp, error) {
	if e := cfg.Validate(); e != nil {
		return nil, e
	}
	return &client{cfg: cfg, upd: upd, lc: lifecycle.New(), cb: callback.New[clientCallbacks]()}, nil
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

	d := net.Dialer{}
	conn, err := d.DialContext(ctx, c.cfg.Network.String(), c.cfg.Address)
	if err != nil {
		c.lc.MarkStopped()
		c.fireError(err)
		return ErrDialFailed.Error(err)
	}

	if c.upd != nil {
		c.upd(conn)
	}

	sx := session.New(conn, "", logrus.NewEntry(logrus.StandardLogger()))
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
