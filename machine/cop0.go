/*
 * pandos-core - MIPS-like coprocessor 0 register and cause-code layout.
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

// Package machine stands in for the simulated machine: the BIOS passup
// vector, the device register area, the TLB, and the TOD/interval timers.
// The Nucleus and Support level only ever consume these primitives; the
// precise instruction encoding and the rest of the CPU pipeline are out of
// scope (spec.md section 1).
package machine

// ExcCode values carried in Cause.ExcCode, matching the Pandos-family
// cause encodings for a MIPS-like machine.
const (
	ExcInt    = 0  // Interrupt
	ExcMod    = 1  // TLB modification
	ExcTLBL   = 2  // TLB load/fetch miss
	ExcTLBS   = 3  // TLB store miss
	ExcAdEL   = 4  // Address error, load/fetch
	ExcAdES   = 5  // Address error, store
	ExcIBus   = 6  // Bus error, fetch
	ExcDBus   = 7  // Bus error, data
	ExcSys    = 8  // Syscall
	ExcBp     = 9  // Breakpoint
	ExcRI     = 10 // Reserved instruction
	ExcCpU    = 11 // Coprocessor unusable
	ExcOv     = 12 // Arithmetic overflow
	ExcTLBRef = 2  // Alias: TLB-refill shares TLBL's code on a miss
)

// Status register bits.
const (
	StatusIEc uint32 = 1 << 0 // Interrupt enable, current
	StatusKUc uint32 = 1 << 1 // Kernel/user mode, current (0 = kernel)
	StatusIEp uint32 = 1 << 2 // Interrupt enable, previous
	StatusKUp uint32 = 1 << 3 // Kernel/user mode, previous
	StatusIEo uint32 = 1 << 4 // Interrupt enable, old
	StatusKUo uint32 = 1 << 5 // Kernel/user mode, old

	StatusIMShift = 8 // Interrupt mask IM[7:0] at bits [15:8]
	StatusIMMask  uint32 = 0xFF << StatusIMShift

	StatusTE uint32 = 1 << 28 // Local timer enable
)

// Cause register bits.
const (
	CauseIPShift = 8
	CauseIPMask  uint32 = 0xFF << CauseIPShift

	CauseExcCodeShift = 2
	CauseExcCodeMask  uint32 = 0x1F << CauseExcCodeShift
)

// Interrupt line numbers, ascending priority as scanned by the Nucleus
// interrupt handler (spec.md 4.5): PLT first, then the interval timer,
// then devices 3..7 (terminals receive on line 6 and transmit on line 7).
const (
	LinePLT = 0
	LineInterval = 1
	LineDisk  = 3
	LineFlash = 4
	LinePrinter = 5
	LineTerminal = 6 // receive sub-line lives here, transmit on LineTerminal+1 conceptually
	LineReserved = 2
)

// ExcCodeOf extracts the cause code from a Cause register value.
func ExcCodeOf(cause uint32) uint32 {
	return (cause & CauseExcCodeMask) >> CauseExcCodeShift
}

// PendingLines returns the set bits of Cause.IP as a bitmask indexed by
// line number (bit i set means line i has a pending interrupt).
func PendingLines(cause uint32) uint8 {
	return uint8((cause & CauseIPMask) >> CauseIPShift)
}
