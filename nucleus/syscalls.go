/*
 * pandos-core - SYS1-8: process, semaphore and I/O-wait syscalls.
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

// Syscall numbers (spec.md 4.4).
const (
	SysCreateProcess   = 1
	SysTerminateProcess = 2
	SysPasseren        = 3
	SysVerhogen        = 4
	SysWaitIO          = 5
	SysGetCpuTime      = 6
	SysWaitClock       = 7
	SysGetSupportPtr   = 8
)

// isSemOwnedByDevice reports whether sem is one of the statically
// allocated device/pseudo-clock semaphores, needed to resolve spec.md 9's
// open question on softBlockCount bookkeeping at SYS2 cancellation time.
func (k *Kernel) isSemOwnedByDevice(sem *int) bool {
	if sem == &k.pseudoClock {
		return true
	}
	for i := range k.deviceSem {
		if sem == &k.deviceSem[i] {
			return true
		}
	}
	return false
}

// SysCreateProcess is SYS1: allocate a PCB, copy the provided state and
// optional Support Structure, insert as a child of current, and enqueue
// ready. Returns nil when the PCB pool is exhausted (v0 = -1 at the ABI
// boundary).
func (k *Kernel) SysCreateProcess(current *pcb.PCB, state pcb.State, support pcb.Support) *pcb.PCB {
	current.State.PC += 4
	p := k.PCBs.Alloc()
	if p == nil {
		return nil
	}
	p.State = state
	p.SetSupport(support)
	pcb.InsertChild(current, p)
	k.EnqueueReady(p)
	k.processCount++
	return p
}

// SysTerminateProcess is SYS2: kill current and its entire descendant
// subtree, then reschedule.
func (k *Kernel) SysTerminateProcess(current *pcb.PCB) {
	k.terminateTree(current)
	k.Schedule()
}

// terminateTree recursively kills p and every descendant, children
// first, without touching the semaphore counts of whatever they were
// blocked on (spec.md 4.4 SYS2, 5 "cancellation ... does NOT restore the
// semaphore").
func (k *Kernel) terminateTree(p *pcb.PCB) {
	for child := p.Child(); child != nil; child = p.Child() {
		k.terminateTree(child)
	}

	if sem := p.SemKey(); sem != nil {
		wasDevice := k.isSemOwnedByDevice(sem)
		k.ASL.OutBlocked(p)
		if wasDevice {
			k.softBlockCount--
		}
	} else {
		k.ready.Out(p) // no-op if p is the running process, on no queue
	}

	pcb.Out(p)
	k.processCount--
	if p == k.current {
		k.current = nil
	}
	k.PCBs.Free(p)
}

// SysPasseren is SYS3 (P): decrement *sem; block current on sem via the
// ASL and reschedule if it went negative.
func (k *Kernel) SysPasseren(current *pcb.PCB, sem *int) {
	current.State.PC += 4
	*sem--
	if *sem < 0 {
		k.chargeCPU()
		if !k.ASL.InsertBlocked(sem, current) {
			k.Panic("ASL descriptor pool exhausted")
			return
		}
		k.Schedule()
	}
}

// SysVerhogen is SYS4 (V): increment *sem; unblock one waiter and
// enqueue it ready if the count is now non-positive.
func (k *Kernel) SysVerhogen(current *pcb.PCB, sem *int) {
	current.State.PC += 4
	k.verhogen(sem)
}

// verhogen is the bare V operation, shared by SysVerhogen and the
// interrupt handlers that V a device/pseudo-clock semaphore without any
// syscalling process whose PC needs advancing.
func (k *Kernel) verhogen(sem *int) *pcb.PCB {
	*sem++
	if *sem <= 0 {
		if p := k.ASL.RemoveBlocked(sem); p != nil {
			k.EnqueueReady(p)
			return p
		}
	}
	return nil
}

// SysWaitIO is SYS5: decrement the named device's semaphore and always
// block on it (spec.md 4.4); on unblock the device interrupt handler
// will have written the device status into the waiter's saved v0.
func (k *Kernel) SysWaitIO(current *pcb.PCB, sem *int) {
	current.State.PC += 4
	*sem--
	k.chargeCPU()
	k.softBlockCount++
	if !k.ASL.InsertBlocked(sem, current) {
		k.Panic("ASL descriptor pool exhausted")
		return
	}
	k.Schedule()
}

// SysGetCpuTime is SYS6: accumulated time plus the elapsed portion of
// the current quantum.
func (k *Kernel) SysGetCpuTime(current *pcb.PCB) int64 {
	current.State.PC += 4
	return current.CPUTime + (k.Machine.Now() - k.dispatchedAt)
}

// SysWaitClock is SYS7: P on the pseudo-clock semaphore. Unlike a user
// SYS3/P this always counts as a soft (interrupt-releasable) block,
// since only the interval timer ever V's the pseudo-clock.
func (k *Kernel) SysWaitClock(current *pcb.PCB) {
	current.State.PC += 4
	k.pseudoClock--
	if k.pseudoClock < 0 {
		k.chargeCPU()
		k.softBlockCount++
		if !k.ASL.InsertBlocked(&k.pseudoClock, current) {
			k.Panic("ASL descriptor pool exhausted")
			return
		}
		k.Schedule()
	}
}

// SysGetSupportPtr is SYS8: return current's Support Structure pointer.
func (k *Kernel) SysGetSupportPtr(current *pcb.PCB) pcb.Support {
	current.State.PC += 4
	return current.Support()
}

// Acquire is Passeren without a PC advance, for mutexes a layer manages
// on a process's behalf rather than a syscall instruction the process
// itself issued (spec.md 5: the swap-pool mutex and the device mutex
// table, both P/V'd "via SYS3/SYS4" conceptually but owned by Support,
// which has no syscalling instruction of its own to advance).
func (k *Kernel) Acquire(current *pcb.PCB, sem *int) {
	*sem--
	if *sem < 0 {
		k.chargeCPU()
		if !k.ASL.InsertBlocked(sem, current) {
			k.Panic("ASL descriptor pool exhausted")
			return
		}
		k.Schedule()
	}
}

// Release is Verhogen without a syscalling process, the counterpart to
// Acquire.
func (k *Kernel) Release(sem *int) *pcb.PCB {
	return k.verhogen(sem)
}

// ResumeProcess re-establishes p as the running process with state and
// transfers control to it (spec.md 4.6-4.8): called by Support once a
// TLB refill, page fault, or SYS9-18 handler has finished and the
// faulting or syscalling process is ready to continue.
func (k *Kernel) ResumeProcess(p *pcb.PCB, state *pcb.State) {
	p.State = *state
	k.current = p
	k.dispatchedAt = k.Machine.Now()
	k.Machine.LoadPLT(machine.QuantumMicros)
	k.Machine.Resume(&p.State)
}
