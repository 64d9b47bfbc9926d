/*
 * pandos-core - TOD clock, interval timer and per-process local timer.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package machine

import "sync/atomic"

// Timing constants (spec.md 5, 6): quantum is 5ms, the pseudo-clock ticks
// every CLOCKINTERVAL (100ms in the Pandos family).
const (
	QuantumMicros         = 5_000
	ClockIntervalMicros   = 100_000
	TimeScale             = 1 // microseconds per TOD tick on this simulated machine
)

// Clock is the read-only (from the Nucleus's point of view) TOD source:
// a free-running microsecond counter the machine advances and the
// Nucleus/Support only ever read via Now(). A real simulator drives this
// from wall-clock or a cycle counter; tests drive it explicitly via
// Advance, which is why it is exposed as a concrete type rather than a
// machine-owned goroutine.
type Clock struct {
	now atomic.Int64
}

// NewClock returns a Clock starting at TOD 0.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current TOD value in microseconds.
func (c *Clock) Now() int64 {
	return c.now.Load()
}

// Advance moves the clock forward by the given number of microseconds,
// as the machine does between instructions.
func (c *Clock) Advance(micros int64) {
	c.now.Add(micros)
}
