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
 */

package httpcli

import (
	"bytes"
	"context"
	"sync"
	"time"

	liberr "github.com/kcenon/network-system-sub001/errors"
	"github.com/kcenon/network-system-sub001/lifecycle"
	sckcfg "github.com/kcenon/network-system-sub001/socket/config"
)

// RunnableClient adapts the package's HTTP client to the Start/Stop/
// WaitForStop/IsRunning lifecycle contract shared by the other transport
// clients this module constructs (tcp, udp, ws, quic), so facade.NewClient
// can hand back an HTTP client through the same surface.
type RunnableClient struct {
	lc      lifecycle.Manager
	cfg     sckcfg.Client
	timeout time.Duration

	mu  sync.Mutex
	cli HTTP
}

// NewRunnableClient builds a lifecycle-wrapped HTTP client targeting
// cfg.Address. The scheme is derived from cfg.TLS.Enabled. timeout <= 0
// falls back to DefaultClientTimeout once StartClient is called.
func NewRunnableClient(cfg sckcfg.Client, timeout time.Duration) *RunnableClient {
	return &RunnableClient{
		lc:      lifecycle.New(),
		cfg:     cfg,
		timeout: timeout,
	}
}

// StartClient builds the underlying HTTP client bound to the configured
// address; HTTP itself is connectionless, so this performs no round trip.
func (c *RunnableClient) StartClient(ctx context.Context) error {
	if !c.lc.TryStart() {
		return ErrorAlreadyRunning.Error(nil)
	}

	scheme := "http"
	if c.cfg.TLS.Enabled {
		scheme = "https"
	}

	cli, e := NewClient(scheme+"://"+c.cfg.Address, c.timeout)
	if e != nil {
		c.lc.MarkStopped()
		return e
	}
	cli.SetContext(ctx)

	c.mu.Lock()
	c.cli = cli
	c.mu.Unlock()

	return nil
}

// StopClient releases the underlying HTTP client; it is idempotent.
func (c *RunnableClient) StopClient(_ context.Context) error {
	if !c.lc.IsRunning() {
		return ErrorNotRunning.Error(nil)
	}

	c.mu.Lock()
	c.cli = nil
	c.mu.Unlock()

	c.lc.MarkStopped()
	return nil
}

func (c *RunnableClient) WaitForStop() {
	c.lc.WaitForStop()
}

func (c *RunnableClient) IsRunning() bool {
	return c.lc.IsRunning()
}

// Check performs a HEAD request against the configured address.
func (c *RunnableClient) Check() liberr.Error {
	cli := c.current()
	if cli == nil {
		return ErrorNotRunning.Error(nil)
	}
	return cli.Check()
}

// Call performs a POST request carrying body against the configured
// address and returns the response body.
func (c *RunnableClient) Call(body *bytes.Buffer) (bool, *bytes.Buffer, liberr.Error) {
	cli := c.current()
	if cli == nil {
		return false, nil, ErrorNotRunning.Error(nil)
	}
	return cli.Call(body)
}

func (c *RunnableClient) current() HTTP {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cli
}
