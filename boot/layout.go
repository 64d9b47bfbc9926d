/*
 * pandos-core - RAM layout constants for boot-time placement.
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

// Package boot computes RAM addresses at startup (spec.md's "RAM
// layout") and seeds each U-proc's flash backing store from a flat
// image file before the scheduler ever runs it, the same two jobs the
// teacher's config/boot code and util/tape package respectively do for
// an S/370 IPL.
package boot

import "github.com/rcornwell/pandos/support"

// Fixed low-memory addresses (spec.md "RAM layout"): the kernel stack
// and OS header sit at the bottom of RAM no matter how big RAM is.
const (
	KernelStackBase uint32 = 0x20000000
	KernelStackSize uint32 = support.PageSize
	OSHeaderAddr    uint32 = 0x20001000
)

// U-proc virtual layout (spec.md "U-proc virtual layout").
const (
	UTextStart uint32 = 0x800000B0
	StackVPN          = support.NumPages - 1 // top of KUSEG, VPN 31
)

// Layout is every boot-time-computed RAM address this kernel needs,
// derived once from RAMSIZE and MAXUPROC and handed to whatever builds
// the Support Structures and swap pool.
type Layout struct {
	RAMBase uint32
	RAMSize uint32
	MaxUproc int

	SwapPoolAddr uint32
	SwapPoolSize uint32

	ramTop uint32
}

// New computes a Layout for ramBase/ramSize bytes of RAM and maxUproc
// U-procs. osDataEnd is the address just past the OS text+data; New
// rounds it up to a page boundary so the swap pool is placed at the
// next page-aligned address after OS data, per spec.md.
func New(ramBase, ramSize uint32, maxUproc int, osDataEnd uint32) *Layout {
	swapAddr := pageRoundUp(osDataEnd)
	swapSize := uint32(2*maxUproc) * support.PageSize // SWAPPOOLSIZE = 2*MAXUPROC

	return &Layout{
		RAMBase:      ramBase,
		RAMSize:      ramSize,
		MaxUproc:     maxUproc,
		SwapPoolAddr: swapAddr,
		SwapPoolSize: swapSize,
		ramTop:       ramBase + ramSize,
	}
}

func pageRoundUp(addr uint32) uint32 {
	rem := addr % support.PageSize
	if rem == 0 {
		return addr
	}
	return addr + (support.PageSize - rem)
}

// UprocGeneralStackAddr and UprocTLBStackAddr return the two
// kernel-stack page addresses for ASID asid (1-based), packed downward
// from RAMTOP: general stack above TLB stack, U-proc 1 highest
// (spec.md's "U-proc kernel stacks packed downward from RAMTOP, two
// pages per U-proc (general, TLB), indexed by ASID").
func (l *Layout) UprocGeneralStackAddr(asid int) uint32 {
	return l.ramTop - uint32(2*(asid-1))*support.PageSize - support.PageSize
}

func (l *Layout) UprocTLBStackAddr(asid int) uint32 {
	return l.UprocGeneralStackAddr(asid) - support.PageSize
}

// DaemonStackAddr is one page below the lowest U-proc's TLB stack.
func (l *Layout) DaemonStackAddr() uint32 {
	return l.UprocTLBStackAddr(l.MaxUproc) - support.PageSize
}
