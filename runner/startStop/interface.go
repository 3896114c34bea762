/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package startStop implements the Startable Base mixin: a single start/stop
// contract shared by every client and server component in this module. It
// composes an atomic running flag with a one-shot stop signal (the Lifecycle
// Manager) and a supervised background goroutine running the caller-supplied
// start function until its context is cancelled.
package startStop

import (
	"context"
	"time"
)

// Func is the signature shared by start and stop hooks: it receives a
// context bound to the running period and returns an error observed through
// ErrorsLast/ErrorsList.
type Func func(ctx context.Context) error

// StartStop is the common lifecycle contract: start succeeds only when not
// already running; stop is idempotent; a second concurrent stop observes the
// first one in progress and returns ok without re-invoking the stop hook.
type StartStop interface {
	// Start launches the start function in a supervised goroutine bound to a
	// child of ctx. It returns immediately; failures are observable via
	// ErrorsLast/ErrorsList, not via the returned error of a quick call.
	Start(ctx context.Context) error

	// Stop cancels the running context, waits for the stop function to run
	// and for the supervised goroutine to return. Idempotent.
	Stop(ctx context.Context) error

	// Restart stops (if running) then starts again.
	Restart(ctx context.Context) error

	// IsRunning reports whether the component is currently started.
	IsRunning() bool

	// Uptime returns the duration since the last successful Start, or zero
	// when not running.
	Uptime() time.Duration

	// ErrorsLast returns the most recent error observed from the start or
	// stop function, or nil.
	ErrorsLast() error

	// ErrorsList returns every error observed since construction, oldest
	// first.
	ErrorsList() []error
}

// New builds a StartStop runner around the given start/stop functions. A nil
// start function makes every Start report an "invalid start function" error;
// a nil stop function is treated as a no-op on Stop.
func New(start, stop Func) StartStop {
	return &runner{
		fnStart: start,
		fnStop:  stop,
	}
}
