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

package facade

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// idSequence is a per-prefix monotonically increasing counter used to stamp
// zero-padded identifiers on every component the facade builds.
type idSequence struct {
	n atomic.Uint64
}

var sequences sync.Map

// nextIdentifier returns "<prefix>-0001", "<prefix>-0002", ... for the
// given prefix, padded to 4 digits (falling back to the full number past
// 9999 rather than truncating).
func nextIdentifier(prefix string) string {
	v, _ := sequences.LoadOrStore(prefix, &idSequence{})
	seq := v.(*idSequence)
	n := seq.n.Add(1)
	return fmt.Sprintf("%s-%04d", prefix, n)
}
