/*
 * pandos-core - TLB-refill fast path (spec.md 4.7).
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

// RefillTLB is the BIOS-direct TLB-refill handler (spec.md 4.7): it
// never goes through Nucleus.PassupOrDie, never touches a semaphore,
// and never advances the PC -- the faulting instruction is simply
// retried once the mapping exists. The page table is indexed directly
// by VPN (spec.md 3's 32-entry table), so this is a single array read.
func RefillTLB(tlb *machine.TLB, s *Structure, state *pcb.State, resume func(*pcb.State)) {
	vpn := machine.VPNOf(state.EntryHI)
	entry := s.PageTable[vpn]
	tlb.WriteRandom(machine.TLBEntry{EntryHI: entry.EntryHI, EntryLO: entry.EntryLO})
	resume(state)
}
