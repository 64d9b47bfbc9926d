/*
 * pandos-core - Support's view of U-proc virtual memory (external collaborator).
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

// Memory is the RAM backing a U-proc's KUSEG, the same kind of
// external collaborator nucleus.Machine is for the Nucleus (spec.md 1
// excludes "the simulated machine model" -- RAM included -- from the
// core; Support only ever consumes it through this narrow interface).
// A real harness backs this with the simulator's byte-addressable RAM;
// tests back it with a plain []byte arena.
type Memory interface {
	// ReadByte returns the byte at a virtual address already confirmed
	// to lie within the calling U-proc's mapped pages.
	ReadByte(asid int, addr uint32) (byte, error)
	// WriteByte stores a byte at a virtual address already confirmed
	// to lie within the calling U-proc's mapped pages.
	WriteByte(asid int, addr uint32, b byte) error
	// ReadPage and WritePage move one page-sized, page-aligned buffer,
	// used by SYS14-17 DMA transfers.
	ReadPage(asid int, addr uint32, buf *[PageSize]byte) error
	WritePage(asid int, addr uint32, buf *[PageSize]byte) error
}
