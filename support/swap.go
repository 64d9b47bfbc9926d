/*
 * pandos-core - Swap pool: demand-paged frame table with clock-hand eviction.
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
	"github.com/rcornwell/pandos/pcb"
)

const PageSize = 4096

// UnoccupiedASID marks a swap-pool frame as free (spec.md 3).
const UnoccupiedASID = -1

// Frame is one swap-pool entry (spec.md 3): the occupying ASID (or
// UnoccupiedASID), the VPN it holds, a pointer back into that U-proc's
// PTE, and the frame's own backing memory.
type Frame struct {
	ASID  int
	VPN   uint32
	Owner *PTE
	Bytes [PageSize]byte
}

// Pool is the shared demand-paging frame table (spec.md 3,
// "SWAPPOOLSIZE = 2 * MAXUPROC"), guarded by a single mutex semaphore
// and a deterministic clock-hand victim pointer (spec.md 4.7).
type Pool struct {
	Frames []Frame
	Mutex  int // P/V'd via nucleus Kernel.Acquire/Release
	hand   int
}

// NewPool allocates a swap pool with `size` frames, all unoccupied, and
// its mutex unlocked (value 1).
func NewPool(size int) *Pool {
	p := &Pool{Frames: make([]Frame, size), Mutex: 1}
	for i := range p.Frames {
		p.Frames[i].ASID = UnoccupiedASID
	}
	return p
}

// nextVictim advances the clock hand and returns the frame index it
// now points at (spec.md 4.7, "deterministic pointer advancing modulo
// SWAPPOOLSIZE" -- not a reference-bit clock, a plain round-robin).
func (p *Pool) nextVictim() int {
	v := p.hand
	p.hand = (p.hand + 1) % len(p.Frames)
	return v
}

// BackingStore is the per-ASID flash device holding a U-proc's 32
// virtual pages (spec.md 6, "blocks 0..31 hold the process's 32
// virtual pages in VPN order"). Modeled as a direct synchronous
// transfer: the device models in package devices are deterministic
// software simulations with no real asynchronous latency, so there is
// nothing to gain from threading a WaitIO-shaped round trip through
// this narrow interface -- see DESIGN.md for why this boundary was
// drawn here instead of deeper.
type BackingStore interface {
	ReadBlock(asid int, block uint32, buf *[PageSize]byte) error
	WriteBlock(asid int, block uint32, buf *[PageSize]byte) error
}

// Interrupts is the narrow slice of the simulated machine the page
// fault handler needs around the atomic PTE+TLB update (spec.md 4.7,
// "interrupt disabling around the atomic PTE+TLB update is required").
type Interrupts interface {
	DisableInterrupts()
	EnableInterrupts()
}

// HandlePageFault is the slow path for a TLB-Invld exception passed up
// through Nucleus.PassupOrDie with PassupKind = TLB (spec.md 4.7). The
// caller must hold pool.Mutex (P'd via Kernel.Acquire before calling this
// and V'd via Kernel.Release after) so two faults can never race over the
// same victim frame.
func HandlePageFault(
	store BackingStore,
	tlb *machine.TLB,
	intr Interrupts,
	pool *Pool,
	s *Structure,
	state *pcb.State,
) error {
	vpn := machine.VPNOf(state.EntryHI)

	victim := pool.nextVictim()
	frame := &pool.Frames[victim]

	if frame.ASID != UnoccupiedASID {
		intr.DisableInterrupts()
		frame.Owner.EntryLO &^= machine.EntryLOValid
		if idx, ok := tlb.Probe(frame.Owner.EntryHI); ok {
			tlb.Invalidate(idx)
		}
		intr.EnableInterrupts()

		if err := store.WriteBlock(frame.ASID, frame.VPN, &frame.Bytes); err != nil {
			return err
		}
	}

	if err := store.ReadBlock(s.ASID, vpn, &frame.Bytes); err != nil {
		return err
	}

	dirty := machine.ExcCodeOf(state.Cause) == machine.ExcTLBS
	entryLO := (uint32(victim) << machine.EntryLOFrameShift) | machine.EntryLOValid
	if dirty {
		entryLO |= machine.EntryLODirty
	}

	pte := &s.PageTable[vpn]
	pte.EntryHI = state.EntryHI &^ machine.EntryHIVPNMask | (vpn << machine.EntryHIVPNShift)
	pte.EntryLO = entryLO

	frame.ASID = s.ASID
	frame.VPN = vpn
	frame.Owner = pte

	return nil
}
