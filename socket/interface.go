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

// Package socket declares the shared vocabulary used by every transport
// variant under socket/server and socket/client: connection lifecycle
// states, the default buffer sizing, and a filter that keeps routine
// connection-teardown errors out of the error callback.
package socket

import (
	"context"
	"net"
	"strings"
)

// DefaultBufferSize is the read buffer size used by the accept and connect
// loops when none is configured.
const DefaultBufferSize = 32 * 1024

// EOL is the line terminator used by line-oriented protocol helpers.
const EOL = '\n'

// ConnState enumerates the phases a connection passes through, reported to
// the info callback registered on a server or client.
type ConnState uint8

const (
	ConnectionDial ConnState = iota
	ConnectionNew
	ConnectionRead
	ConnectionCloseRead
	ConnectionHandler
	ConnectionWrite
	ConnectionCloseWrite
	ConnectionClose
)

func (c ConnState) String() string {
	switch c {
	case ConnectionDial:
		return "Dial Connection"
	case ConnectionNew:
		return "New Connection"
	case ConnectionRead:
		return "Read Incoming Stream"
	case ConnectionCloseRead:
		return "Close Incoming Stream"
	case ConnectionHandler:
		return "Run HandlerFunc"
	case ConnectionWrite:
		return "Write Outgoing Steam"
	case ConnectionCloseWrite:
		return "Close Outgoing Stream"
	case ConnectionClose:
		return "Close Connection"
	default:
		return "unknown connection state"
	}
}

// ErrorFilter drops the routine "use of closed network connection" error
// produced by a listener/conn torn down locally, so that it never reaches a
// user error callback. Every other error passes through unchanged.
func ErrorFilter(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "use of closed network connection") {
		return nil
	}
	return err
}

// FuncError is the error-callback signature shared by every server/client.
type FuncError func(errs ...error)

// FuncInfo reports a connection-state transition with the local and remote
// addresses involved.
type FuncInfo func(local, remote net.Addr, state ConnState)

// FuncReceive reports a complete message popped from a session's queue.
type FuncReceive func(serverID string, data []byte)

// FuncConnection reports a newly accepted or established connection,
// identified by its session id.
type FuncConnection func(sessionID string)

// FuncDisconnection reports that a session has been torn down.
type FuncDisconnection func(sessionID string)

// Handler processes an accepted connection; it is run on its own goroutine
// and must return when the connection should be considered finished for the
// purposes of the handler-driven servers (HTTP, and any custom protocol atop
// a raw accept loop).
type Handler func(ctx context.Context, conn net.Conn)
