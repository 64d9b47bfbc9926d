/*
 * pandos-core - Scheduler: ready-queue FIFO with round-robin quanta.
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

import (
	"github.com/rcornwell/pandos/machine"
	"github.com/rcornwell/pandos/pcb"
)

// chargeCPU folds the time since `current` was last dispatched into its
// accumulated total, called before every blocking path and before the
// scheduler picks a new victim (spec.md 4.4, "must first save the
// current state ... charging CPU time up to the entry instant").
func (k *Kernel) chargeCPU() {
	if k.current == nil {
		return
	}
	k.current.CPUTime += k.Machine.Now() - k.dispatchedAt
}

// Schedule implements spec.md 4.3: dequeue the ready head and dispatch
// it, or HALT/wait-for-interrupt/PANIC when the ready queue is empty.
func (k *Kernel) Schedule() {
	if p := k.ready.RemoveHead(); p != nil {
		k.dispatch(p)
		return
	}

	k.current = nil
	switch {
	case k.processCount == 0:
		k.Halt()
	case k.softBlockCount > 0:
		// Nothing ready but someone will eventually unblock via an
		// interrupt; idle with interrupts enabled. The PLT is left as
		// it is: a quantum loaded by an earlier dispatch can still
		// fire, and HandlePLT with no current process just calls
		// Schedule again. The Go driver loop resumes this Kernel's interrupt handler
		// when the Machine signals one; there is nothing further to
		// do from inside Schedule itself.
		k.Machine.EnableInterrupts()
	default:
		k.Panic("deadlock: ready queue empty, soft-block count zero, processes remain")
	}
}

// dispatch loads p's local timer and transfers control to its saved
// state, recording the dispatch instant for the next chargeCPU.
func (k *Kernel) dispatch(p *pcb.PCB) {
	k.current = p
	k.dispatchedAt = k.Machine.Now()
	k.Machine.LoadPLT(machine.QuantumMicros)
	k.Machine.Resume(&p.State)
}
