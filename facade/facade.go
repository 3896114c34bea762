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

// Package facade stamps out concrete (transport, TLS) server/client
// variants from a validated config and a generated identifier, so callers
// never construct a socket/server/<proto> or socket/client/<proto> package
// directly. It is the thin constructor layer of spec section 4.9.
package facade

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/kcenon/network-system-sub001/httpcli"
	"github.com/kcenon/network-system-sub001/httpserver"
	"github.com/kcenon/network-system-sub001/socket/client/quic"
	clitcp "github.com/kcenon/network-system-sub001/socket/client/tcp"
	cliudp "github.com/kcenon/network-system-sub001/socket/client/udp"
	cliws "github.com/kcenon/network-system-sub001/socket/client/ws"
	sckcfg "github.com/kcenon/network-system-sub001/socket/config"
	srvquic "github.com/kcenon/network-system-sub001/socket/server/quic"
	srvtcp "github.com/kcenon/network-system-sub001/socket/server/tcp"
	srvudp "github.com/kcenon/network-system-sub001/socket/server/udp"
	srvws "github.com/kcenon/network-system-sub001/socket/server/ws"
)

// Transport selects which concrete protocol variant a ServerConfig or
// ClientConfig builds.
type Transport uint8

const (
	TransportTCP Transport = iota
	TransportUDP
	TransportWS
	TransportQUIC
	TransportHTTP
)

func (t Transport) String() string {
	switch t {
	case TransportTCP:
		return "tcp"
	case TransportUDP:
		return "udp"
	case TransportWS:
		return "ws"
	case TransportQUIC:
		return "quic"
	case TransportHTTP:
		return "http"
	default:
		return "unknown"
	}
}

// Runnable is the lifecycle contract every concrete server/client variant
// this package constructs satisfies, regardless of transport.
type Runnable interface {
	StartServer(ctx context.Context) error
	StopServer(ctx context.Context) error
	WaitForStop()
	IsRunning() bool
}

// Runnable is not satisfied by the client variants' method names
// (StartClient/StopClient); clientRunnable mirrors it for them.
type clientRunnable interface {
	StartClient(ctx context.Context) error
	StopClient(ctx context.Context) error
	WaitForStop()
	IsRunning() bool
}

// ServerConfig is the facade-level request to build one server instance.
type ServerConfig struct {
	Transport Transport
	Socket    sckcfg.Server
	HTTP      httpserver.Config
	Timeout   time.Duration
}

// ClientConfig is the facade-level request to build one client instance.
type ClientConfig struct {
	Transport Transport
	Socket    sckcfg.Client
	Timeout   time.Duration
}

// validatePort checks that address carries a numeric port in [1, 65535].
func validatePort(address string) error {
	_, port, err := net.SplitHostPort(address)
	if err != nil {
		return ErrInvalidPort.Error(err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return ErrInvalidPort.Error(nil)
	}
	return nil
}

// Validate checks the timeout and port budget shared by every transport.
func (c ServerConfig) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout.Error(nil)
	}
	if e := validatePort(c.Socket.Address); e != nil {
		return e
	}
	return c.Socket.Validate()
}

// Validate checks the timeout and port budget shared by every transport.
func (c ClientConfig) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout.Error(nil)
	}
	if e := validatePort(c.Socket.Address); e != nil {
		return e
	}
	return c.Socket.Validate()
}

// NewServer validates cfg, stamps a zero-padded identifier and builds the
// concrete server variant selected by cfg.Transport. handler receives
// every popped message for the TCP/UDP/WS/QUIC variants; it is ignored for
// TransportHTTP, which dispatches through cfg.HTTP.Router() instead.
func NewServer(cfg ServerConfig, handler func(sessionID string, data []byte)) (Runnable, string, error) {
	if e := cfg.Validate(); e != nil {
		return nil, "", e
	}

	id := nextIdentifier("srv-" + cfg.Transport.String())

	switch cfg.Transport {
	case TransportTCP:
		s, e := srvtcp.New(nil, handler, cfg.Socket)
		return s, id, e
	case TransportUDP:
		s, e := srvudp.New(nil, func(_ net.Addr, data []byte) { handler(id, data) }, cfg.Socket)
		return s, id, e
	case TransportWS:
		s, e := srvws.New("/", handler, cfg.Socket)
		return s, id, e
	case TransportQUIC:
		s, e := srvquic.New(handler, cfg.Socket)
		return s, id, e
	case TransportHTTP:
		httpCfg := cfg.HTTP
		httpCfg.Server = cfg.Socket
		s, e := httpserver.New(httpCfg)
		return s, id, e
	default:
		return nil, "", ErrInvalidTransport.Error(nil)
	}
}

// NewClient validates cfg, stamps a zero-padded identifier and builds the
// concrete client variant selected by cfg.Transport.
func NewClient(cfg ClientConfig) (clientRunnable, string, error) {
	if e := cfg.Validate(); e != nil {
		return nil, "", e
	}

	id := nextIdentifier("cli-" + cfg.Transport.String())

	switch cfg.Transport {
	case TransportTCP:
		c, e := clitcp.New(nil, cfg.Socket)
		return c, id, e
	case TransportUDP:
		c, e := cliudp.New(nil, cfg.Socket)
		return c, id, e
	case TransportWS:
		c, e := cliws.New("/", "", cfg.Socket)
		return c, id, e
	case TransportQUIC:
		c, e := quic.New(cfg.Socket)
		return c, id, e
	case TransportHTTP:
		c := httpcli.NewRunnableClient(cfg.Socket, cfg.Timeout)
		return c, id, nil
	default:
		return nil, "", ErrInvalidTransport.Error(nil)
	}
}
