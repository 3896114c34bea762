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

// Package tcp implements the client core of spec section 4.7 over a
// plain-or-TLS TCP connection: resolve-and-dial, a single session wrapping
// the connection, and the connected/disconnected/receive/error callback
// family.
package tcp

import (
	"context"
	"net"

	"github.com/kcenon/network-system-sub001/errors"
	libsck "github.com/kcenon/network-system-sub001/socket"
	sckcfg "github.com/kcenon/network-system-sub001/socket/config"
)

// ClientTcp is the public contract of the TCP client core.
type ClientTcp interface {
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

// New validates cfg and builds a ClientTcp bound to it. upd, when non-nil,
// is run against the dialled net.Conn before it is wrapped into a session.
func New(upd func(net.Conn), cfg sckcfg.Client) (ClientTcp, error) {
	if e := cfg.Validate(); e != nil {
		return nil, e
	}

	return newClient(upd, cfg), nil
}
