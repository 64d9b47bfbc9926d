/*
 * pandos-core - Runner: the Machine/Interrupts implementation this
 * binary drives the Kernel with.
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

package main

import (
	"sync/atomic"

	"github.com/rcornwell/pandos/machine"
	"github.com/rcornwell/pandos/pcb"
)

// runner implements nucleus.Machine and support.Interrupts. The simulated
// CPU core that would actually execute a U-proc's instructions is
// deliberately out of scope for this kernel (spec.md 1, "the simulated
// machine model ... the precise instruction encoding"); Resume is
// therefore a no-op bookkeeping call rather than a second instruction
// interpreter. Everything else here -- the clock, the PLT/interval-timer
// deadlines, the interrupt-enable flag -- is real, and is what the
// driver loop in main.go ticks every pass.
type runner struct {
	clock *machine.Clock

	pltArmed    bool
	pltDeadline int64

	intervalArmed    bool
	intervalDeadline int64

	enabled atomic.Bool
}

func newRunner(clock *machine.Clock) *runner {
	r := &runner{clock: clock}
	r.enabled.Store(true)
	return r
}

func (r *runner) Now() int64 { return r.clock.Now() }

func (r *runner) LoadPLT(micros int64) {
	r.pltArmed = true
	r.pltDeadline = r.clock.Now() + micros
}

func (r *runner) LoadIntervalTimer(micros int64) {
	r.intervalArmed = true
	r.intervalDeadline = r.clock.Now() + micros
}

func (r *runner) EnableInterrupts()  { r.enabled.Store(true) }
func (r *runner) DisableInterrupts() { r.enabled.Store(false) }

// Resume is LDST (spec.md 9): on real hardware this never returns. The
// Kernel calls it only as the last step of a dispatch or resume, and
// the handler that triggered that does nothing afterwards, so there is nothing
// left for this to do once the Kernel has already recorded state as
// current.
func (r *runner) Resume(state *pcb.State) {}

// pltDue and intervalDue report whether a tick at now should fire the
// corresponding interrupt line, disarming it so it fires once per load.
func (r *runner) pltDue(now int64) bool {
	if !r.pltArmed || now < r.pltDeadline {
		return false
	}
	r.pltArmed = false
	return true
}

func (r *runner) intervalDue(now int64) bool {
	return r.intervalArmed && now >= r.intervalDeadline
}
