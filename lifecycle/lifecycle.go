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

// Package lifecycle is the sole authority over a component's running state:
// an atomic running flag, an atomic stop-initiated flag, and a one-shot
// completion signal fulfilled exactly once per running->stopped cycle. It is
// the low-level primitive the Startable Base (runner/startStop) and the
// session/server/client cores build on.
package lifecycle

import (
	"sync"

	libatm "github.com/kcenon/network-system-sub001/atomic"
)

// Manager is the Lifecycle Manager described by the running/stop-initiated
// state machine: running is never observed true while the owner considers
// the component stopped, stopped->running is a CAS, and stop_initiated gates
// concurrent stoppers so only the winner calls the derived stop hook.
type Manager interface {
	// IsRunning is an acquire-load of the running flag.
	IsRunning() bool

	// TryStart attempts the stopped->running CAS; returns whether the
	// caller won the transition.
	TryStart() bool

	// MarkStopped releases running=false, fulfils the one-shot stop signal
	// if one is installed, and clears stop-initiated.
	MarkStopped()

	// WaitForStop blocks on the one-shot signal if one is installed;
	// otherwise it returns immediately.
	WaitForStop()

	// PrepareStop CASes stop-initiated to true; if it was already true it
	// returns false. If the component is not running it clears
	// stop-initiated and returns false. Otherwise it installs a fresh
	// one-shot signal and returns true.
	PrepareStop() bool

	// Reset forces the manager back to its initial, stopped state.
	Reset()
}

type manager struct {
	running libatm.Value[bool]

	mu            sync.Mutex
	stopInitiated bool
	stopSignal    chan struct{}
}

// New returns a Manager in the initial stopped state.
func New() Manager {
	m := &manager{
		running: libatm.NewValue[bool](),
	}
	return m
}

func (m *manager) IsRunning() bool {
	return m.running.Load()
}

func (m *manager) TryStart() bool {
	return m.running.CompareAndSwap(false, true)
}

func (m *manager) MarkStopped() {
	m.running.Store(false)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopSignal != nil {
		select {
		case <-m.stopSignal:
			// already fulfilled
		default:
			close(m.stopSignal)
		}
	}
	m.stopInitiated = false
}

func (m *manager) WaitForStop() {
	m.mu.Lock()
	sig := m.stopSignal
	m.mu.Unlock()

	if sig == nil {
		return
	}
	<-sig
}

func (m *manager) PrepareStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopInitiated {
		return false
	}

	if !m.running.Load() {
		m.stopInitiated = false
		return false
	}

	m.stopInitiated = true
	m.stopSignal = make(chan struct{})
	return true
}

func (m *manager) Reset() {
	m.running.Store(false)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopInitiated = false
	m.stopSignal = nil
}
