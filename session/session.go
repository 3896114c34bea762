/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

// Package session implements the per-connection engine: a socket handle, a
// bounded receive queue with a two-stage backpressure policy (warn at 1000,
// forced disconnect at 2000), an optional compress/encrypt transform
// pipeline, and the receive/disconnection/error callbacks. One Session
// models one accepted connection on the server side, or the single
// connection owned by a client.
package session

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/kcenon/network-system-sub001/callback"
	"github.com/kcenon/network-system-sub001/compress"
	"github.com/kcenon/network-system-sub001/errors"
	"github.com/sirupsen/logrus"
)

const (
	backpressureWarnAt       = 1000
	backpressureDisconnectAt = 2000
)

// Callbacks is the struct-of-closures callback family for a session,
// matching the registry described in spec section 4.2/9: receive fires with
// one popped message at a time, disconnection fires exactly once, error
// fires before the session is torn down.
type Callbacks struct {
	OnReceive    func(serverID string, data []byte)
	OnDisconnect func(serverID string)
	OnError      func(serverID string, err error)
}

// Session is the public contract of the session engine.
type Session interface {
	ID() string
	ServerID() string

	StartSession()
	StopSession()
	IsStopped() bool

	// SendPacket dispatches asynchronously; failures surface through the
	// error callback, not through a returned value.
	SendPacket(p []byte)

	// SendPacketSync is the synchronous variant used by the HTTP response
	// path, where the response lifetime is tied to the request.
	SendPacketSync(p []byte) errors.Error

	SetReceiveCallback(fn func(serverID string, data []byte))
	SetDisconnectionCallback(fn func(serverID string))
	SetErrorCallback(fn func(serverID string, err error))

	SetCompression(p compress.Pipeline)
}

type session struct {
	id       string
	serverID string
	conn     io.ReadWriteCloser
	log      *logrus.Entry

	stopped atomic.Bool
	disconn atomic.Bool

	cb *callback.Registry[Callbacks]

	modeMu  sync.Mutex
	pipe    compress.Pipeline
	sendMu  sync.Mutex

	queueMu sync.Mutex
	queue   [][]byte
	signal  chan struct{}

	done chan struct{}
}

// New builds a Session around conn. serverID identifies the owning server
// (or "" for a client-side session) and is carried into every callback
// invocation and into the disconnection callback per spec 4.5.
func New(conn io.ReadWriteCloser, serverID string, log *logrus.Entry) Session {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	s := &session{
		id:       uuid.NewString(),
		serverID: serverID,
		conn:     conn,
		log:      log,
		cb:       callback.New[Callbacks](),
		signal:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	return s
}

func (s *session) ID() string       { return s.id }
func (s *session) ServerID() string { return s.serverID }
func (s *session) IsStopped() bool  { return s.stopped.Load() }

func (s *session) SetReceiveCallback(fn func(serverID string, data []byte)) {
	s.cb.Set(func(c *Callbacks) { c.OnReceive = fn })
}

func (s *session) SetDisconnectionCallback(fn func(serverID string)) {
	s.cb.Set(func(c *Callbacks) { c.OnDisconnect = fn })
}

func (s *session) SetErrorCallback(fn func(serverID string, err error)) {
	s.cb.Set(func(c *Callbacks) { c.OnError = fn })
}

func (s *session) SetCompression(p compress.Pipeline) {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	s.pipe = p
}

func (s *session) snapshotPipeline() compress.Pipeline {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	return s.pipe
}

// StartSession wires the socket's receive loop. It must be called at most
// once per session.
func (s *session) StartSession() {
	go s.readLoop()
	go s.processLoop()
}

func (s *session) readLoop() {
	buf := make([]byte, 64*1024)

	for {
		if s.IsStopped() {
			return
		}

		n, err := s.conn.Read(buf)
		if n > 0 {
			view := make([]byte, n)
			copy(view, buf[:n])
			s.onReceiveBytes(view)
		}

		if err != nil {
			if !s.IsStopped() {
				s.onError(err)
			}
			s.StopSession()
			return
		}
	}
}

// onReceiveBytes implements the receive path of spec 4.5: check queue size
// under lock (warn at 1000, disconnect at 2000), copy into an owned buffer,
// push to the back, then signal the processor.
func (s *session) onReceiveBytes(view []byte) {
	s.queueMu.Lock()

	n := len(s.queue)
	if n >= backpressureDisconnectAt {
		s.queueMu.Unlock()
		s.log.WithField("session", s.id).Error("receive queue overflow, forcing disconnect")
		s.StopSession()
		return
	}
	if n >= backpressureWarnAt {
		s.log.WithField("session", s.id).Warn("receive queue backpressure")
	}

	s.queue = append(s.queue, view)
	s.queueMu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *session) processLoop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.signal:
			for s.processNextMessage() {
			}
		}
	}
}

// processNextMessage pops one message and invokes the user's receive
// callback; it returns false when the queue is empty.
func (s *session) processNextMessage() bool {
	s.queueMu.Lock()
	if len(s.queue) == 0 {
		s.queueMu.Unlock()
		return false
	}
	msg := s.queue[0]
	s.queue = s.queue[1:]
	s.queueMu.Unlock()

	if s.IsStopped() {
		return false
	}

	pipe := s.snapshotPipeline()
	if pipe != nil {
		if out, e := pipe.Decompress(msg); e == nil {
			msg = out
		}
	}

	s.cb.Invoke(func(c Callbacks) {
		if c.OnReceive != nil {
			// The first argument identifies the originating session, not
			// the owning server, so that a server-wide receive handler can
			// tell concurrent connections apart (see ServerID for the
			// owning server's id).
			c.OnReceive(s.id, msg)
		}
	})

	return true
}

func (s *session) onError(err error) {
	s.cb.Invoke(func(c Callbacks) {
		if c.OnError != nil {
			c.OnError(s.id, err)
		}
	})
}

// StopSession is the CAS-guarded teardown: exactly one caller proceeds,
// closes the socket (absorbing errors) and fires the disconnection callback
// exactly once.
func (s *session) StopSession() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}

	_ = s.conn.Close()
	close(s.done)

	if s.disconn.CompareAndSwap(false, true) {
		s.cb.Invoke(func(c Callbacks) {
			if c.OnDisconnect != nil {
				c.OnDisconnect(s.id)
			}
		})
	}
}

// SendPacket snapshots the compression pipeline under the mode mutex and
// dispatches asynchronously; send failures fire the error callback.
func (s *session) SendPacket(p []byte) {
	if s.IsStopped() || len(p) == 0 {
		return
	}

	go func() {
		if e := s.SendPacketSync(p); e != nil {
			s.onError(e)
		}
	}()
}

func (s *session) SendPacketSync(p []byte) errors.Error {
	if s.IsStopped() {
		return nil
	}
	if len(p) == 0 {
		return nil
	}

	pipe := s.snapshotPipeline()
	out := p
	if pipe != nil {
		if c, e := pipe.Compress(p); e == nil {
			out = c
		}
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if _, err := s.conn.Write(out); err != nil {
		return ErrorSendFailed.Error(err)
	}
	return nil
}
