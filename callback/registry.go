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

// Package callback provides the typed, fixed-size, thread-safe callback
// registry shared by every client and server component family. It replaces
// the original's tuple-of-function-types indexed by a per-component enum
// (see original_source callback_manager.h) with a struct-of-closures per
// component family (the preferred re-architecture named in spec section 9):
// each family (TCP client, TCP server, UDP client/server, WS, QUIC, ...)
// declares its own plain struct of function fields, and Registry[T] wraps
// that struct with mutex-guarded set/get/invoke semantics.
package callback

import "sync"

// Registry holds one instance of a component family's callback struct T,
// guarded by a mutex. Set replaces fields via a mutator run under lock; Get
// returns a shallow copy taken under lock; Invoke takes that same copy and
// then runs the given function with the lock released, so user code invoked
// from inside a callback may safely call back into Set without deadlocking.
type Registry[T any] struct {
	mu  sync.Mutex
	val T
}

// New returns an empty Registry for callback struct type T.
func New[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Set mutates the stored callback struct under lock.
func (r *Registry[T]) Set(mutator func(*T)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mutator(&r.val)
}

// Get returns a copy of the stored callback struct, taken under lock.
func (r *Registry[T]) Get() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.val
}

// Invoke copies the current callback struct under lock, releases the lock,
// then runs fn against the copy. The mutex is never held while user code
// executes.
func (r *Registry[T]) Invoke(fn func(T)) {
	fn(r.Get())
}

// Clear resets the stored callback struct to its zero value.
func (r *Registry[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	r.val = zero
}
