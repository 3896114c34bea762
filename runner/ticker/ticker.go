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

package ticker

import (
	"context"
	"sync"
	"time"
)

type tick struct {
	mu sync.Mutex

	d  time.Duration
	fn Func

	running bool
	cnl     context.CancelFunc
	done    chan struct{}
}

func (t *tick) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *tick) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return nil
	}
	if t.d <= 0 || t.fn == nil {
		return nil
	}

	cctx, cnl := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cnl = cnl
	t.done = done
	t.running = true

	go func() {
		defer close(done)

		tk := time.NewTicker(t.d)
		defer tk.Stop()

		for {
			select {
			case <-cctx.Done():
				return
			case <-tk.C:
				_ = t.fn(cctx, tk)
			}
		}
	}()

	return nil
}

func (t *tick) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	cnl := t.cnl
	done := t.done
	t.running = false
	t.mu.Unlock()

	if cnl != nil {
		cnl()
	}
	if done != nil {
		<-done
	}

	return nil
}
