/*
 * pandos-core - Nucleus's view of the simulated machine (external collaborator).
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

package nucleus

import "github.com/rcornwell/pandos/pcb"

// Machine is everything the Nucleus consumes from the simulated machine
// without owning it (spec.md 1, "deliberately OUT of scope ... the
// simulated machine model"): the TOD clock, the PLT, the interrupt mask,
// and the LDST primitive that resumes a saved state. A real harness
// backs this with the actual simulated CPU; tests back it with a fake
// that records what the Nucleus asked for.
type Machine interface {
	// Now returns the current TOD in microseconds.
	Now() int64
	// LoadPLT arms the Process Local Timer for the given quantum.
	LoadPLT(micros int64)
	// LoadIntervalTimer re-arms the interval timer after it fires.
	LoadIntervalTimer(micros int64)
	// EnableInterrupts enables interrupts on the current processor,
	// used by the scheduler's wait-for-interrupt path.
	EnableInterrupts()
	// Resume is LDST: load the given state and transfer control to it.
	// By spec.md 9 this "never returns" on the original hardware; the
	// Go translation is a normal call; whatever invoked it is always
	// the last thing a handler does. See DESIGN.md for why a panic-
	// based non-local jump was rejected in favor of this.
	Resume(state *pcb.State)
}
