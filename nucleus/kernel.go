/*
 * pandos-core - Kernel: the single value holding every Nucleus global.
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

// Package nucleus implements the L2 layer (spec.md 4.3-4.6): the
// scheduler, syscalls 1-8, the interrupt handler, and the passup-or-die
// policy, bound together as methods on a single Kernel value (spec.md
// 9, "Globals ... Model as a single Kernel value constructed at boot").
package nucleus

import (
	"log/slog"

	"github.com/rcornwell/pandos/asl"
	"github.com/rcornwell/pandos/machine"
	"github.com/rcornwell/pandos/pcb"
)

// Passup is implemented by the Support level so the Nucleus can deliver
// an exception without importing the support package (spec.md 4.6).
type Passup interface {
	// Deliver copies the offending state into the process's TLB or
	// general passup slot and resumes the matching Support handler.
	// kind distinguishes the TLB-Mod/Invld (page fault) path from the
	// general one.
	Deliver(p *pcb.PCB, kind PassupKind, state *pcb.State)
}

// PassupKind selects which of a Support Structure's two saved-state /
// passup-context pairs an exception is delivered through (spec.md 3).
type PassupKind int

const (
	PassupTLB PassupKind = iota
	PassupGeneral
)

// TrapFunc is called for PANIC/HALT instead of os.Exit so tests can
// observe the event (spec.md 7, "tests observe via an injectable trap
// function").
type TrapFunc func(reason string)

// Kernel holds every Nucleus global as fields on one value; every
// handler in this package is a method on *Kernel (spec.md 9).
type Kernel struct {
	Log *slog.Logger

	Machine Machine
	Passup  Passup

	PCBs *pcb.Pool
	ASL  *asl.ASL

	ready   pcb.Queue
	current *pcb.PCB

	processCount   int
	softBlockCount int

	// Statically allocated semaphores (spec.md 3): one per device
	// sub-channel, the pseudo-clock, and the master semaphore the test
	// harness V's at the end of a run.
	deviceSem    [machine.DevIntNum * machine.DevPerLine]int
	pseudoClock  int
	master       int

	dispatchedAt int64 // TOD at which `current` was last loaded

	onHalt  TrapFunc
	onPanic TrapFunc
}

// New constructs a Kernel with pre-allocated PCB and ASL pools sized
// maxProc (spec.md 3), wired to the given Machine and Support passup
// target.
func New(log *slog.Logger, m Machine, passup Passup, maxProc int) *Kernel {
	return &Kernel{
		Log:     log,
		Machine: m,
		Passup:  passup,
		PCBs:    pcb.NewPool(maxProc),
		ASL:     asl.New(maxProc),
	}
}

// SetTraps installs the PANIC/HALT observers (spec.md 7).
func (k *Kernel) SetTraps(onHalt, onPanic TrapFunc) {
	k.onHalt = onHalt
	k.onPanic = onPanic
}

// Boot allocates a root PCB directly onto the ready queue, the one
// place a process is created without an already-running syscalling
// parent (spec.md 2, L3+ "Test/bootstrap of U-procs"). SysCreateProcess
// cannot serve this: it advances current's PC, and at boot there is no
// current. Called once per configured U-proc before the scheduler's
// first Schedule.
func (k *Kernel) Boot(state pcb.State, support pcb.Support) *pcb.PCB {
	p := k.PCBs.Alloc()
	if p == nil {
		return nil
	}
	p.State = state
	p.SetSupport(support)
	k.EnqueueReady(p)
	k.processCount++
	return p
}

// DeviceSemKey returns the address of the semaphore backing interrupt
// line/unit, usable with ASL.InsertBlocked/RemoveBlocked.
func (k *Kernel) DeviceSemKey(line, unit int) *int {
	return &k.deviceSem[machine.DeviceIndex(line, unit)]
}

// PseudoClockKey returns the pseudo-clock semaphore's address (spec.md
// 4.4 SYS7, 4.5 interval-timer interrupt).
func (k *Kernel) PseudoClockKey() *int { return &k.pseudoClock }

// MasterKey returns the master semaphore's address (spec.md 8, test
// scenario "halts normally when the master V's the master semaphore").
func (k *Kernel) MasterKey() *int { return &k.master }

// Current returns the PCB currently running, or nil when none is.
func (k *Kernel) Current() *pcb.PCB { return k.current }

// ProcessCount returns the number of non-terminated processes.
func (k *Kernel) ProcessCount() int { return k.processCount }

// SoftBlockCount returns the number of processes blocked but
// interruptible (device/clock waits, not user-semaphore waits).
func (k *Kernel) SoftBlockCount() int { return k.softBlockCount }

// EnqueueReady appends p to the ready queue (spec.md 4.3).
func (k *Kernel) EnqueueReady(p *pcb.PCB) { k.ready.Insert(p) }

// ReadyLen returns the number of processes currently on the ready
// queue, for operator visibility (e.g. the monitor's "show ready").
func (k *Kernel) ReadyLen() int { return k.ready.Len() }

// Panic halts the simulation on an unrecoverable kernel error (spec.md
// 7): pool exhaustion outside SYS1, and deadlock.
func (k *Kernel) Panic(reason string) {
	k.Log.Error("kernel panic", "reason", reason)
	if k.onPanic != nil {
		k.onPanic(reason)
	}
}

// Halt stops the simulation normally when the process count reaches
// zero (spec.md 4.3, 7).
func (k *Kernel) Halt() {
	k.Log.Info("kernel halt: process count reached zero")
	if k.onHalt != nil {
		k.onHalt("halt")
	}
}
