/*
 * pandos-core - Support Structure: per-U-proc page table and passup contexts.
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

// Package support implements the L3 layer (spec.md 4.7-4.8): the
// per-U-proc Support Structure, TLB-refill and page-fault handling over
// a shared swap pool, SYS9-18, the Active Delay List and its daemon,
// and the device mutex table. The Dispatcher's handlers are reached
// through nucleus.Kernel.PassupOrDie, which the Nucleus calls for
// TLB-Mod/Invld, Program Traps and SYS >= 9 (spec.md 4.6); RefillTLB is
// called directly on a TLB-refill miss and DrainDelays from the driver
// loop. Support calls back into the Nucleus only through the methods
// it already exposes (the Sys* methods, Acquire/Release and
// ResumeProcess).
package support

import "github.com/rcornwell/pandos/pcb"

// NumPages is the page table size of every Support Structure (spec.md
// 3, "32-entry page table"); VPN is used directly as a page-table
// index, matching the RAM layout's "stack page at VPN 31."
const NumPages = 32

// PTE is one page-table entry, shaped like a TLB entry so it can be
// written straight into the TLB on refill (spec.md 4.7).
type PTE struct {
	EntryHI uint32
	EntryLO uint32
}

// Valid reports the V bit (spec.md 3, "V/D bits").
func (e PTE) Valid() bool { return e.EntryLO&0x2 != 0 }

// PassupContext is a Support handler's entry point and stack pointer
// (spec.md 3, "two passup contexts (stack pointer + entry point)").
type PassupContext struct {
	SP uint32
	PC uint32
}

// Structure is the per-U-proc Support Structure (spec.md 3). Two of
// everything: TLB-kind and general-kind saved state / passup context,
// indexed by nucleus.PassupKind.
type Structure struct {
	ASID int

	PCB *pcb.PCB // the U-proc this structure belongs to

	OldState [2]pcb.State
	Context  [2]PassupContext

	PageTable [NumPages]PTE

	// Held mutexes, tracked so SYS9 (terminate) can release whatever
	// this U-proc was holding instead of leaving it locked forever
	// (spec.md 4.8, SYS9 "release any Support-level mutex held").
	heldSwapMutex   bool
	heldDeviceMutex map[int]bool

	// delaySem is this U-proc's private SYS18 wakeup semaphore (spec.md
	// 4.8): one outstanding delay at a time, which is all a single
	// sequential U-proc can ever have.
	delaySem int
}

// NewStructure allocates a Support Structure for asid, with both
// passup contexts pointed at entry/stack per boot's layout (spec.md 6,
// "U-proc kernel stacks packed downward from RAMTOP, two pages per
// U-proc (general, TLB), indexed by ASID").
func NewStructure(asid int, tlbContext, generalContext PassupContext) *Structure {
	return &Structure{
		ASID:            asid,
		Context:         [2]PassupContext{tlbContext, generalContext},
		heldDeviceMutex: make(map[int]bool),
	}
}
