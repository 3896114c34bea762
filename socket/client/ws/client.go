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

// Package ws is the thin WebSocket variant of the client core, dialling
// through golang.org/x/net/websocket and handing the resulting *Conn to the
// same session engine the TCP client uses.
package ws

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kcenon/network-system-sub001/callback"
	"github.com/kcenon/network-system-sub001/errors"
	"github.com/kcenon/network-system-sub001/lifecycle"
	"github.com/kcenon/network-system-sub001/session"
	libsck "github.com/kcenon/network-system-sub001/socket"
	sckcfg "github.com/kcenon/network-system-sub001/socket/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/websocket"
)

type clientCallbacks struct {
	onError      libsck.FuncError
	onRecv       libsck.FuncReceive
	onConnected  func()
	onDisconnect func()
}

// ClientWs is the public contract of the WebSocket client core.
type ClientWs interface {
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
	cfg  sckcfg.Client
	path string
	origin string

	lc  lifecycle.Manager
	cb  *callback.Registry[clientCallbacks]
	cnt atomic.Bool

	sessMu sync.Mutex
	sess   session.Session
}

// New validates cfg and builds a ClientWs. path defaults to "/" and origin
// to "http://localhost/" when empty, matching websocket.Dial's
// requirements.
func New(path, origin string, cfg sckcfg.Client) (ClientWs, error) {
	if e := cfg.Validate(); e != nil {
		return nil, e
	}
	if path == "" {
		path = "/"
	}
	if origin == "" {
		origin = "http://localhost/"
	}
	return &client{cfg: cfg, path: path, origin: origin, lc: lifecycle.New(), cb: callback.New[clientCallbacks]()}, nil
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

func (c *client) url() string {
	scheme := "ws"
	if tlsCfg, _ := c.cfg.TLS.TlsConfig(); tlsCfg != nil {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s%s", scheme, c.cfg.Address, c.path)
}

func (c *client) StartClient(ctx context.Context) error {
	if !c.lc.TryStart() {
		return ErrAlreadyRunning.Error(nil)
	}

	wsCfg, err := websocket.NewConfig(c.url(), c.origin)
	if err != nil {
		c.lc.MarkStopped()
		return ErrDialFailed.Error(err)
	}
	if tlsCfg, e := c.cfg.TLS.TlsConfig(); e == nil && tlsCfg != nil {
		wsCfg.TlsConfig = tlsCfg
	}

	conn, err := websocket.DialConfig(wsCfg)
	if err != nil {
		c.lc.MarkStopped()
		c.fireError(err)
		return ErrDialFailed.Error(err)
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
