/*
 * pandos-core - Device transfer helpers shared by SYS11-17.
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

import "github.com/rcornwell/pandos/machine"

// MaxStringLen bounds a single SYS11/SYS12 write (spec.md 4.8).
const MaxStringLen = 128

// addressInKUSEG reports whether addr falls within the U-proc's mapped
// virtual space: VPN 0..NumPages-1 (spec.md 3's 32-entry page table,
// 6's "stack page at VPN 31"). Support has no separate KUSEG/KSEG split
// of its own, so "addressable by this page table" stands in for it.
func addressInKUSEG(addr uint32) bool {
	return machine.VPNOf(addr) < NumPages
}

// pageAligned reports whether addr is suitable as a DMA buffer (spec.md
// 4.8 SYS14/15, "buffer address page-aligned").
func pageAligned(addr uint32) bool {
	return addr%PageSize == 0
}

// CharDevice is a terminal or printer sub-channel (spec.md 4.8,
// SYS11-13). PutChar/GetChar each stand in for the full "disable
// interrupts, write command, SYS5 WaitIO, re-enable interrupts"
// sequence spec.md 4.8 describes: the device models behind this
// interface are deterministic software simulations, so collapsing that
// sequence into one synchronous call loses nothing but real hardware
// latency, which this core never simulates (spec.md 1 excludes the
// simulated machine model). See DESIGN.md for the full rationale,
// which also covers BackingStore and BlockDevice below.
type CharDevice interface {
	PutChar(ch byte) (status uint32, err error)
	GetChar() (ch byte, status uint32, err error)
}

// BlockDevice is a disk or flash unit addressed by a linear block
// number (spec.md 4.8 SYS14-17); disk geometry (head/cylinder/sector)
// is the concrete device's concern, not Support's.
type BlockDevice interface {
	Transfer(block uint32, buf *[PageSize]byte, write bool) (status uint32, err error)
}
