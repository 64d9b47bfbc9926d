/*
 * pandos-core - SYS9-18: the Support level's own syscall vector.
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

package support

import (
	"github.com/rcornwell/pandos/machine"
	"github.com/rcornwell/pandos/nucleus"
	"github.com/rcornwell/pandos/pcb"
)

// Syscall numbers (spec.md 4.8), continuing the Nucleus's SYS1-8 range.
const (
	SysTerminate        = 9
	SysGetTOD           = 10
	SysWriteToPrinter   = 11
	SysWriteToTerminal  = 12
	SysReadFromTerminal = 13
	SysDiskPut          = 14
	SysDiskGet          = 15
	SysFlashPut         = 16
	SysFlashGet         = 17
	SysDelay            = 18
)

const newline byte = '\n'

// Dispatcher is Support's half of nucleus.Passup: it services every
// TLB-Mod/Invld and SYS>=9 exception the Nucleus hands it, one
// U-proc's Support Structure at a time (spec.md 4.6-4.8).
//
// Every device/memory access below goes through a narrow synchronous
// interface (CharDevice, BlockDevice, BackingStore, Memory) rather than
// a real SYS5/WaitIO suspension. See DESIGN.md for why: in short, this
// core has no simulated-memory or U-proc-bytecode model to give a
// blocked syscall somewhere to resume FROM mid-body (spec.md 1 excludes
// both), so any Support handler that did suspend mid-transfer would
// have nowhere of its own to come back to. SYS18 Delay is the one
// exception: it suspends for a real span of TOD, has nothing left to
// do until woken, and resumes through the ordinary ready-queue path
// like any other unblocked process -- not through this Dispatcher.
type Dispatcher struct {
	Kernel *nucleus.Kernel

	Mem   Memory
	Store BackingStore
	TLB   *machine.TLB
	Intr  Interrupts
	Pool  *Pool
	Delay *ADL

	Mutexes *MutexTable

	Printers [machine.DevPerLine]CharDevice
	TermRecv [machine.DevPerLine]CharDevice
	TermXmit [machine.DevPerLine]CharDevice
	Disks    [machine.DevPerLine]BlockDevice
	Flashes  [machine.DevPerLine]BlockDevice
}

// Deliver implements nucleus.Passup (spec.md 4.6): route a TLB passup
// to the page-fault handler, and a general passup to either the SYS9-18
// vector or, for a non-syscall program trap, straight to termination.
func (d *Dispatcher) Deliver(p *pcb.PCB, kind nucleus.PassupKind, state *pcb.State) {
	s, ok := p.Support().(*Structure)
	if !ok || s == nil {
		return
	}
	s.PCB = p
	s.OldState[kind] = *state

	if kind == nucleus.PassupTLB {
		d.handlePageFault(s, state)
		return
	}

	if machine.ExcCodeOf(state.Cause) != machine.ExcSys {
		d.terminate(s)
		return
	}
	d.dispatchSyscall(s, state)
}

func (d *Dispatcher) handlePageFault(s *Structure, state *pcb.State) {
	d.Kernel.Acquire(s.PCB, &d.Pool.Mutex)
	s.heldSwapMutex = true
	err := HandlePageFault(d.Store, d.TLB, d.Intr, d.Pool, s, state)
	d.Kernel.Release(&d.Pool.Mutex)
	s.heldSwapMutex = false
	if err != nil {
		d.Kernel.Log.Error("page fault I/O failure", "asid", s.ASID, "err", err)
		d.Kernel.Panic("page fault backing-store I/O failed")
		return
	}
	d.Kernel.ResumeProcess(s.PCB, state)
}

// dispatchSyscall decodes the SYS9-18 ABI (spec.md 6: number in a0,
// args in a1-a3, result in v0, PC advanced by one word) and runs the
// matching handler. Every handler either finishes with a result for v0
// (the common case, resumed below) or, when it terminates the process
// or truly suspends it (SYS18), returns having already made that call
// its own last action -- dispatchSyscall must not touch state or p
// afterward in those cases.
func (d *Dispatcher) dispatchSyscall(s *Structure, state *pcb.State) {
	p := s.PCB
	number := state.Reg[machine.RegA0]
	a1 := state.Reg[machine.RegA1]
	a2 := state.Reg[machine.RegA2]
	a3 := state.Reg[machine.RegA3]

	state.PC += 4

	var result uint32
	switch number {
	case SysTerminate:
		d.terminate(s)
		return

	case SysGetTOD:
		result = uint32(d.Kernel.Machine.Now())

	case SysWriteToPrinter:
		n, ok := d.writeChars(s, d.Printers[s.ASID-1], machine.LinePrinter, s.ASID-1, a1, a2)
		if !ok {
			return
		}
		result = uint32(n)

	case SysWriteToTerminal:
		n, ok := d.writeChars(s, d.TermXmit[s.ASID-1], machine.TerminalXmitLine, s.ASID-1, a1, a2)
		if !ok {
			return
		}
		result = uint32(n)

	case SysReadFromTerminal:
		n, ok := d.readLine(s, d.TermRecv[s.ASID-1], a1)
		if !ok {
			return
		}
		result = uint32(n)

	case SysDiskPut, SysDiskGet:
		st, ok := d.blockTransfer(s, d.Disks[:], number == SysDiskPut, true, a1, a2, a3)
		if !ok {
			return
		}
		result = st

	case SysFlashPut, SysFlashGet:
		st, ok := d.blockTransfer(s, d.Flashes[:], number == SysFlashPut, false, a1, a2, a3)
		if !ok {
			return
		}
		result = st

	case SysDelay:
		d.delay(s, state, a1)
		return

	default:
		d.terminate(s)
		return
	}

	state.Reg[machine.RegV0] = result
	d.Kernel.ResumeProcess(p, state)
}

// terminate is SYS9 (spec.md 4.8): release anything this U-proc holds,
// clear its swap-pool footprint, V the master semaphore, then SYS2.
// Also used for every "invalid parameters" kill (spec.md 4.8 last
// line, 7). Always its caller's last action: SysTerminateProcess ends
// in a Schedule() call that dispatches whoever is ready next.
func (d *Dispatcher) terminate(s *Structure) {
	if s.heldSwapMutex {
		d.Kernel.Release(&d.Pool.Mutex)
		s.heldSwapMutex = false
	}
	for idx := range s.heldDeviceMutex {
		d.Kernel.Release(d.Mutexes.SemAt(idx))
	}
	s.heldDeviceMutex = make(map[int]bool)

	for i := range d.Pool.Frames {
		f := &d.Pool.Frames[i]
		if f.ASID == s.ASID {
			f.ASID = UnoccupiedASID
			f.Owner = nil
		}
	}

	d.Kernel.Release(d.Kernel.MasterKey())
	d.Kernel.SysTerminateProcess(s.PCB)
}

// writeChars is SYS11/SYS12's shared body (spec.md 4.8): acquire the
// device mutex, transfer each character with interrupts disabled
// around the device call, and release on completion or error.
func (d *Dispatcher) writeChars(s *Structure, dev CharDevice, line, unit int, addr, length uint32) (int32, bool) {
	if dev == nil || length < 1 || length > MaxStringLen || !addressInKUSEG(addr) {
		d.terminate(s)
		return 0, false
	}

	idx := machine.DeviceIndex(line, unit)
	sem := d.Mutexes.SemAt(idx)
	d.Kernel.Acquire(s.PCB, sem)
	s.heldDeviceMutex[idx] = true

	var count int32
	for i := uint32(0); i < length; i++ {
		ch, err := d.Mem.ReadByte(s.ASID, addr+i)
		if err != nil {
			d.Kernel.Release(sem)
			delete(s.heldDeviceMutex, idx)
			d.terminate(s)
			return 0, false
		}

		d.Intr.DisableInterrupts()
		status, err := dev.PutChar(ch)
		d.Intr.EnableInterrupts()

		if err != nil || status&machine.StatusReady == 0 {
			d.Kernel.Release(sem)
			delete(s.heldDeviceMutex, idx)
			return -int32(status), true
		}
		count++
	}

	d.Kernel.Release(sem)
	delete(s.heldDeviceMutex, idx)
	return count, true
}

// readLine is SYS13 (spec.md 4.8): read characters from the receive
// sub-channel until NEWLINE, writing each into the U-proc's buffer.
func (d *Dispatcher) readLine(s *Structure, dev CharDevice, addr uint32) (int32, bool) {
	if dev == nil || !addressInKUSEG(addr) {
		d.terminate(s)
		return 0, false
	}

	unit := s.ASID - 1
	idx := machine.DeviceIndex(machine.TerminalRecvLine, unit)
	sem := d.Mutexes.SemAt(idx)
	d.Kernel.Acquire(s.PCB, sem)
	s.heldDeviceMutex[idx] = true

	var count int32
	for {
		d.Intr.DisableInterrupts()
		ch, status, err := dev.GetChar()
		d.Intr.EnableInterrupts()

		if err != nil || status&machine.StatusReady == 0 {
			d.Kernel.Release(sem)
			delete(s.heldDeviceMutex, idx)
			return -int32(status), true
		}

		if werr := d.Mem.WriteByte(s.ASID, addr+uint32(count), ch); werr != nil {
			d.Kernel.Release(sem)
			delete(s.heldDeviceMutex, idx)
			d.terminate(s)
			return 0, false
		}
		count++
		if ch == newline {
			break
		}
	}

	d.Kernel.Release(sem)
	delete(s.heldDeviceMutex, idx)
	return count, true
}

// blockTransfer is the shared body of SYS14-17 (spec.md 4.8): validate
// the buffer and unit/block, then hand a page to the device in one
// synchronous DMA-shaped call.
func (d *Dispatcher) blockTransfer(s *Structure, units []BlockDevice, write, isDisk bool, addr, unit, block uint32) (uint32, bool) {
	if !addressInKUSEG(addr) || !pageAligned(addr) {
		d.terminate(s)
		return 0, false
	}
	if isDisk && unit == 0 {
		d.terminate(s) // protected disk, forbidden (spec.md 4.8)
		return 0, false
	}
	if !isDisk && block < 32 {
		d.terminate(s) // blocks 0..31 reserved for this ASID's own backing store
		return 0, false
	}
	if unit >= uint32(len(units)) || units[unit] == nil {
		d.terminate(s)
		return 0, false
	}
	dev := units[unit]

	var buf [PageSize]byte
	if write {
		if err := d.Mem.ReadPage(s.ASID, addr, &buf); err != nil {
			d.terminate(s)
			return 0, false
		}
	}

	d.Intr.DisableInterrupts()
	status, err := dev.Transfer(block, &buf, write)
	d.Intr.EnableInterrupts()

	if err != nil || status&machine.StatusReady == 0 {
		return uint32(-int32(status)), true
	}

	if !write {
		if werr := d.Mem.WritePage(s.ASID, addr, &buf); werr != nil {
			d.terminate(s)
			return 0, false
		}
	}
	return 0, true
}

// delay is SYS18 (spec.md 4.8): enqueue a wakeup into the Active Delay
// List and block on a private semaphore. Unlike every other Support
// syscall, this suspension is real and open-ended, so this is always
// its caller's last action -- the eventual wakeup re-dispatches through
// the ordinary ready queue, not back through this Dispatcher.
func (d *Dispatcher) delay(s *Structure, state *pcb.State, secondsArg uint32) {
	seconds := int32(secondsArg)
	if seconds < 0 {
		d.terminate(s)
		return
	}

	p := s.PCB
	state.Reg[machine.RegV0] = 0
	p.State = *state

	wakeAt := d.Kernel.Machine.Now() + int64(seconds)*1_000_000

	d.Kernel.Acquire(p, &d.Delay.Mutex)
	s.delaySem = 0
	d.Delay.Insert(wakeAt, &s.delaySem)
	d.Kernel.Release(&d.Delay.Mutex)

	d.Kernel.Acquire(p, &s.delaySem)
}

// DrainDelays is the delay daemon's one job (spec.md 2, L3+ "delay
// daemon"): wake every SYS18 sleeper whose wakeAt has passed as of now.
// Called from the same single driver loop that also ticks the Nucleus's
// PLT/interval timer, so -- like everything else in this core -- it
// never races a concurrently running Schedule/Deliver.
func (d *Dispatcher) DrainDelays(now int64) {
	for _, sem := range d.Delay.PopExpired(now) {
		d.Kernel.Release(sem)
	}
}
