/*
 * pandos-core - MIPS-like processor state and LDST/STST primitives.
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

// Saved-register indices for the syscall ABI (spec.md 6): Reg[i] holds
// architectural register r(i+1) since r0 is hardwired zero and is not
// part of the saved set.
const (
	RegV0 = 1  // r2
	RegA0 = 3  // r4
	RegA1 = 4  // r5
	RegA2 = 5  // r6
	RegA3 = 6  // r7
	RegSP = 28 // r29, stack pointer
)

// NumRegs is the number of general-purpose registers saved in a state,
// excluding PC: spec.md 3 "31 general registers" (r0 is hardwired zero and
// is not part of the saved set).
const NumRegs = 31

// State is a saved processor context: everything the Nucleus needs to
// resume a process exactly where it left off. This is the BIOS-saved
// state handed to every exception handler and the shape LDST/STST
// round-trip.
type State struct {
	EntryHI uint32
	Cause   uint32
	Status  uint32
	PC      uint32
	Reg     [NumRegs]uint32
}

// TLBEntry is one ASID-scoped mapping: EntryHI carries VPN+ASID, EntryLO
// carries the frame number plus V/D/G bits.
type TLBEntry struct {
	EntryHI uint32
	EntryLO uint32
}

// EntryLO bit layout.
const (
	EntryLOGlobal uint32 = 1 << 0
	EntryLOValid  uint32 = 1 << 1
	EntryLODirty  uint32 = 1 << 2

	EntryLOFrameShift = 12
	EntryLOFrameMask  uint32 = 0xFFFFF << EntryLOFrameShift
)

// EntryHI bit layout.
const (
	EntryHIASIDShift = 6
	EntryHIASIDMask  uint32 = 0x3F << EntryHIASIDShift

	EntryHIVPNShift = 12
	EntryHIVPNMask  uint32 = 0xFFFFF << EntryHIVPNShift
)

// VPNOf extracts the virtual page number from an EntryHI value.
func VPNOf(entryHI uint32) uint32 {
	return (entryHI & EntryHIVPNMask) >> EntryHIVPNShift
}

// ASIDOf extracts the ASID from an EntryHI value.
func ASIDOf(entryHI uint32) uint32 {
	return (entryHI & EntryHIASIDMask) >> EntryHIASIDShift
}

// TLB is a small fixed-size set-associative-free TLB: a linear array
// probed by EntryHI match, matching the simulated machine's ASID-scoped
// lookup (spec.md 6 "the CPU provides LDST/STST and a TLB with
// ASID-scoped entries"). Consumed, not owned: the Nucleus/Support only
// ever call Probe/Invalidate/WriteRandom.
type TLB struct {
	entries []TLBEntry
	next    int // round-robin cursor for WriteRandom
}

// NewTLB allocates a TLB with the given number of entries.
func NewTLB(size int) *TLB {
	return &TLB{entries: make([]TLBEntry, size)}
}

// ErrNoMatch is the error value for a TLB lookup with no matching
// entry; Probe itself reports a miss through its ok result.
var ErrNoMatch = errNoMatch{}

type errNoMatch struct{}

func (errNoMatch) Error() string { return "tlb: no matching entry" }

// Probe searches for an entry whose VPN+ASID matches entryHI (the G bit,
// when set on the stored entry, makes the ASID comparison wildcard).
// It must be called with interrupts disabled when used to invalidate a
// single mapping (spec.md 9, "TLB probe").
func (t *TLB) Probe(entryHI uint32) (index int, ok bool) {
	wantVPN := VPNOf(entryHI)
	wantASID := ASIDOf(entryHI)
	for i, e := range t.entries {
		if VPNOf(e.EntryHI) != wantVPN {
			continue
		}
		if e.EntryLO&EntryLOGlobal == 0 && ASIDOf(e.EntryHI) != wantASID {
			continue
		}
		return i, true
	}
	return 0, false
}

// WriteIndexed installs an entry at a specific index (TLBWI).
func (t *TLB) WriteIndexed(index int, entry TLBEntry) {
	t.entries[index] = entry
}

// WriteRandom installs an entry at an implementation-chosen index
// (TLBWR); the teacher's simulator picks a pseudo-random slot, this one
// round-robins, which is sufficient because the Nucleus never depends on
// which slot a refill lands in.
func (t *TLB) WriteRandom(entry TLBEntry) {
	t.entries[t.next] = entry
	t.next = (t.next + 1) % len(t.entries)
}

// Invalidate clears the entry at index so it can never again probe-hit.
func (t *TLB) Invalidate(index int) {
	t.entries[index] = TLBEntry{}
}
