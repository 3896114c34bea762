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

package startStop

import (
	"context"
	"errors"
	"sync"
	"time"
)

type runner struct {
	mu sync.Mutex

	fnStart Func
	fnStop  Func

	running bool
	started time.Time

	stopInitiated bool
	cnl           context.CancelFunc
	done          chan struct{}

	errMu sync.Mutex
	errs  []error
}

func (r *runner) addErr(e error) {
	if e == nil {
		return
	}
	r.errMu.Lock()
	r.errs = append(r.errs, e)
	r.errMu.Unlock()
}

func (r *runner) ErrorsLast() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[len(r.errs)-1]
}

func (r *runner) ErrorsList() []error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

func (r *runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *runner) Uptime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running || r.started.IsZero() {
		return 0
	}
	return time.Since(r.started)
}

// Start implements the do_start algorithm of the Startable Base: a second
// Start stops the previous supervised goroutine (matching the teacher's
// tested "restart on double start" behaviour) before launching a fresh one.
func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		_ = r.Stop(ctx)
		r.mu.Lock()
	}

	cctx, cnl := context.WithCancel(ctx)
	done := make(chan struct{})

	r.cnl = cnl
	r.done = done
	r.running = true
	r.started = time.Now()
	r.stopInitiated = false
	fn := r.fnStart
	r.mu.Unlock()

	go func() {
		defer close(done)

		if fn == nil {
			r.addErr(errors.New("invalid start function"))
			return
		}

		if e := fn(cctx); e != nil {
			r.addErr(e)
		}
	}()

	return nil
}

// Stop implements the do_stop algorithm: idempotent via the stopInitiated
// guard, marks stopped only after the derived stop hook has run and the
// supervised goroutine has returned.
func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	if r.stopInitiated {
		r.mu.Unlock()
		return nil
	}
	r.stopInitiated = true
	cnl := r.cnl
	done := r.done
	fn := r.fnStop
	r.mu.Unlock()

	var stopErr error
	if fn != nil {
		stopErr = fn(ctx)
		r.addErr(stopErr)
	}

	if cnl != nil {
		cnl()
	}
	if done != nil {
		<-done
	}

	r.mu.Lock()
	r.running = false
	r.started = time.Time{}
	r.stopInitiated = false
	r.mu.Unlock()

	return stopErr
}

func (r *runner) Restart(ctx context.Context) error {
	if r.IsRunning() {
		if e := r.Stop(ctx); e != nil {
			return e
		}
	}
	return r.Start(ctx)
}
