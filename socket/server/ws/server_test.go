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

package ws_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	libptc "github.com/kcenon/network-system-sub001/network/protocol"
	cltws "github.com/kcenon/network-system-sub001/socket/client/ws"
	sckcfg "github.com/kcenon/network-system-sub001/socket/config"
	ws "github.com/kcenon/network-system-sub001/socket/server/ws"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("New", func() {
	It("rejects an invalid config", func() {
		srv, err := ws.New("", nil, sckcfg.Server{Network: libptc.NetworkTCP, Address: "not-an-address"})
		Expect(err).To(HaveOccurred())
		Expect(srv).To(BeNil())
	})

	It("builds a server for a valid config, defaulting the mount path", func() {
		srv, err := ws.New("", nil, sckcfg.Server{Network: libptc.NetworkTCP, Address: getTestAddr()})
		Expect(err).ToNot(HaveOccurred())
		Expect(srv).ToNot(BeNil())
	})
})

var _ = Describe("ServerWs lifecycle and exchange", func() {
	It("accepts an upgrade, exchanges a message and reports disconnection", func() {
		adr := getTestAddr()

		recvCh := make(chan string, 1)
		var gotConnID, gotDiscID atomic.Value

		srv, err := ws.New("/ws", func(sessionID string, data []byte) {
			recvCh <- string(data)
		}, sckcfg.Server{Network: libptc.NetworkTCP, Address: adr})
		Expect(err).ToNot(HaveOccurred())

		srv.RegisterFuncConnection(func(sessionID string) { gotConnID.Store(sessionID) })
		srv.RegisterFuncDisconnection(func(sessionID string) { gotDiscID.Store(sessionID) })

		ctx, cnl := context.WithCancel(context.Background())
		defer cnl()

		Expect(srv.StartServer(ctx)).To(Succeed())
		Eventually(func() bool { return srv.IsRunning() }, time.Second, 10*time.Millisecond).Should(BeTrue())

		origin := fmt.Sprintf("http://%s/", adr)
		cli, err := cltws.New("/ws", origin, sckcfg.Client{Network: libptc.NetworkTCP, Address: adr})
		Expect(err).ToNot(HaveOccurred())

		Expect(cli.StartClient(ctx)).To(Succeed())
		Eventually(cli.IsConnected, time.Second, 10*time.Millisecond).Should(BeTrue())

		cli.SendPacket([]byte("hello"))

		select {
		case got := <-recvCh:
			Expect(got).To(Equal("hello"))
		case <-time.After(time.Second):
			Fail("receive callback was not invoked")
		}

		Eventually(func() bool { return gotConnID.Load() != nil }, time.Second, 10*time.Millisecond).Should(BeTrue())

		Expect(cli.StopClient(ctx)).To(Succeed())
		Eventually(func() bool { return gotDiscID.Load() != nil }, time.Second, 10*time.Millisecond).Should(BeTrue())

		Expect(srv.StopServer(ctx)).To(Succeed())
	})
})
