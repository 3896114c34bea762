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

// Package config declares the validated configuration surface for socket
// clients and servers: network/address, TLS policy and, for unix-domain
// servers, file permissions. It mirrors the field names and .Validate()
// convention already exercised by this module's test suite.
package config

import (
	"crypto/tls"

	libdur "github.com/kcenon/network-system-sub001/duration"
	libprm "github.com/kcenon/network-system-sub001/file/perm"
	libptc "github.com/kcenon/network-system-sub001/network/protocol"
)

// MaxGID is the largest unix group id accepted for a unix-domain socket's
// GroupPerm field.
const MaxGID = 32767

// TLS is the policy record from spec section 6: certificate material plus a
// peer-verification flag. The secure variant of a client or server
// constructs its tls.Config from this record at construction time.
type TLS struct {
	Enabled    bool   `mapstructure:"enabled" json:"enabled" yaml:"enabled" toml:"enabled"`
	CertFile   string `mapstructure:"cert_file" json:"cert_file" yaml:"cert_file" toml:"cert_file"`
	KeyFile    string `mapstructure:"key_file" json:"key_file" yaml:"key_file" toml:"key_file"`
	CAFile     string `mapstructure:"ca_file" json:"ca_file" yaml:"ca_file" toml:"ca_file"`
	VerifyPeer bool   `mapstructure:"verify_peer" json:"verify_peer" yaml:"verify_peer" toml:"verify_peer"`
}

// TlsConfig builds a *tls.Config from the policy record. It returns nil when
// TLS is not enabled.
func (t TLS) TlsConfig() (*tls.Config, error) {
	if !t.Enabled {
		return nil, nil
	}
	return buildTLSConfig(t)
}

// Client is the connection target and policy for a socket client.
type Client struct {
	Network libptc.NetworkProtocol `mapstructure:"network" json:"network" yaml:"network" toml:"network"`
	Address string                 `mapstructure:"address" json:"address" yaml:"address" toml:"address"`
	TLS     TLS                    `mapstructure:"tls" json:"tls" yaml:"tls" toml:"tls"`
}

// Server is the bind target and policy for a socket server, plus unix-domain
// socket file permission fields.
type Server struct {
	Network   libptc.NetworkProtocol `mapstructure:"network" json:"network" yaml:"network" toml:"network"`
	Address   string                 `mapstructure:"address" json:"address" yaml:"address" toml:"address"`
	PermFile  libprm.Perm            `mapstructure:"perm_file" json:"perm_file" yaml:"perm_file" toml:"perm_file"`
	GroupPerm int32                  `mapstructure:"group_perm" json:"group_perm" yaml:"group_perm" toml:"group_perm"`
	TLS       TLS                    `mapstructure:"tls" json:"tls" yaml:"tls" toml:"tls"`

	// ConIdleTimeout closes an accepted connection that has been silent
	// (no successful read) for longer than this duration. Zero disables
	// the idle sweep.
	ConIdleTimeout libdur.Duration `mapstructure:"con_idle_timeout" json:"con_idle_timeout" yaml:"con_idle_timeout" toml:"con_idle_timeout"`
}
