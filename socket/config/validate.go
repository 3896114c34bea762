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

package config

import (
	"crypto/tls"
	"crypto/x509"
	"net"
	"os"
	"runtime"

	"github.com/kcenon/network-system-sub001/errors"
	libptc "github.com/kcenon/network-system-sub001/network/protocol"
)

func validateAddress(n libptc.NetworkProtocol, address string) errors.Error {
	switch n {
	case libptc.NetworkTCP, libptc.NetworkTCP4, libptc.NetworkTCP6:
		if _, e := net.ResolveTCPAddr(n.String(), address); e != nil {
			return ErrInvalidAddress.Error(e)
		}
	case libptc.NetworkUDP, libptc.NetworkUDP4, libptc.NetworkUDP6:
		if _, e := net.ResolveUDPAddr(n.String(), address); e != nil {
			return ErrInvalidAddress.Error(e)
		}
	case libptc.NetworkUnix, libptc.NetworkUnixGram:
		if runtime.GOOS == "windows" {
			return ErrInvalidProtocol.Error(nil)
		}
		if _, e := net.ResolveUnixAddr(n.String(), address); e != nil {
			return ErrInvalidAddress.Error(e)
		}
	case libptc.NetworkIP, libptc.NetworkIP4, libptc.NetworkIP6:
		// resolution requires a protocol-qualified network (e.g. "ip4:icmp")
		// which this config does not carry; presence of an address is enough.
		if address == "" {
			return ErrInvalidAddress.Error(nil)
		}
	default:
		return ErrInvalidProtocol.Error(nil)
	}

	return nil
}

// Validate checks the network/address pair and, when TLS is enabled, the
// certificate material.
func (c Client) Validate() errors.Error {
	if e := validateAddress(c.Network, c.Address); e != nil {
		return e
	}
	if c.TLS.Enabled {
		if _, e := c.TLS.TlsConfig(); e != nil {
			return ErrInvalidTLSConfig.Error(e)
		}
	}
	return nil
}

// Validate checks the network/address pair, the unix group permission bound
// and, when TLS is enabled, the certificate material.
func (s Server) Validate() errors.Error {
	if e := validateAddress(s.Network, s.Address); e != nil {
		return e
	}
	if s.GroupPerm < 0 || s.GroupPerm > MaxGID {
		return ErrInvalidGroup.Error(nil)
	}
	if s.TLS.Enabled {
		if _, e := s.TLS.TlsConfig(); e != nil {
			return ErrInvalidTLSConfig.Error(e)
		}
	}
	return nil
}

func buildTLSConfig(t TLS) (*tls.Config, error) {
	cfg := &tls.Config{
		InsecureSkipVerify: !t.VerifyPeer,
	}

	if t.CertFile != "" || t.KeyFile != "" {
		cert, e := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
		if e != nil {
			return nil, e
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	if t.CAFile != "" {
		pem, e := os.ReadFile(t.CAFile)
		if e != nil {
			return nil, e
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errInvalidCAFile
		}
		cfg.RootCAs = pool
	}

	return cfg, nil
}

var errInvalidCAFile = invalidCAFileError{}

type invalidCAFileError struct{}

func (invalidCAFileError) Error() string { return "unable to parse CA file as PEM" }
