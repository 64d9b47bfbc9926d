/*
 * pandos-core - Interrupt handling: PLT, interval timer, device lines.
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

import "github.com/rcornwell/pandos/machine"

// HandlePLT is the PLT line (spec.md 4.5): the running process's
// quantum expired. Re-enqueue it at the ready tail and reschedule.
func (k *Kernel) HandlePLT() {
	k.chargeCPU()
	if k.current != nil {
		k.EnqueueReady(k.current)
		k.current = nil
	}
	k.Schedule()
}

// HandleIntervalTimer is the interval-timer line: every
// machine.ClockIntervalMicros, V the pseudo-clock semaphore once per
// waiter currently queued on it, then reload the timer (spec.md 4.5).
// Unlike the PLT, this interrupt doesn't preempt whatever is running:
// it only reschedules when the processor was already idle, the same as
// HandleDeviceInterrupt below.
func (k *Kernel) HandleIntervalTimer() {
	for k.pseudoClock < 0 {
		k.verhogen(&k.pseudoClock)
		k.softBlockCount--
	}
	k.Machine.LoadIntervalTimer(machine.ClockIntervalMicros)
	if k.current == nil {
		k.Schedule()
	}
}

// HandleDeviceInterrupt is a device line (spec.md 4.5): V the named
// sub-channel's semaphore with status, unblocking its waiter if any.
// Per spec.md 9's pinned race policy, the V always happens even if no
// waiter remains (SYS2 already discarded the result); status is lost in
// that case, which is fine because nothing is watching it anymore.
// Waking a waiter only puts it on the ready queue; it does not preempt
// a process that is currently dispatched, so Schedule only runs when
// the processor was already idle.
func (k *Kernel) HandleDeviceInterrupt(line, unit int, status uint32) {
	sem := k.DeviceSemKey(line, unit)
	if p := k.verhogen(sem); p != nil {
		p.State.Reg[machine.RegV0] = status
		k.softBlockCount--
	}
	if k.current == nil {
		k.Schedule()
	}
}
