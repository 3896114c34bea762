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

// Package tcp implements the server core of spec section 4.6 over a
// plain-or-TLS TCP listener: an accept loop that binds one session per
// accepted connection, a sessions registry swept every 30 seconds for dead
// entries, and the connection/disconnection/receive/error/info callback
// family.
package tcp

import (
	"context"
	"net"

	liberr "github.com/kcenon/network-system-sub001/errors"
	libsck "github.com/kcenon/network-system-sub001/socket"
	sckcfg "github.com/kcenon/network-system-sub001/socket/config"
)

// ServerTcp is the public contract of the TCP server core.
type ServerTcp interface {
	StartServer(ctx context.Context) error
	StopServer(ctx context.Context) error
	WaitForStop()

	IsRunning() bool
	IsGone() bool
	ServerID() string
	OpenConnections() int64

	RegisterFuncError(fn libsck.FuncError)
	RegisterFuncInfo(fn libsck.FuncInfo)
	RegisterFuncConnection(fn libsck.FuncConnection)
	RegisterFuncDisconnection(fn libsck.FuncDisconnection)
	RegisterFuncReceive(fn libsck.FuncReceive)

	// SendToSession writes p onto the single accepted connection
	// identified by sessionID (the id handed to the receive/disconnection
	// callbacks), used by protocols layered above raw TCP — such as the
	// HTTP dispatcher — to reply to one specific peer.
	SendToSession(sessionID string, p []byte) liberr.Error
}

// New validates cfg and builds a ServerTcp. upd, when non-nil, is run
// against every accepted net.Conn before it is wrapped into a session —
// the hook point for setting socket options such as keep-alive. handler
// receives every message popped off a session's receive queue.
func New(upd func(net.Conn), handler func(serverID string, data []byte), cfg sckcfg.Server) (ServerTcp, error) {
	if e := cfg.Validate(); e != nil {
		return nil, e
	}

	return newServer(upd, handler, cfg), nil
}
