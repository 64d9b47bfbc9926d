/*
 * pandos-core - Backing-store image seeding: load a U-proc's flash unit
 * from a flat program image before it ever runs.
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

package boot

import (
	"fmt"
	"io"

	"github.com/rcornwell/pandos/support"
)

// MaxImageBlocks bounds a flat, page-sequential U-proc program image:
// blocks 0..MaxImageBlocks-1 become the process's flash backing-store blocks in
// order, the same sequential frame-at-a-time layout the teacher's
// util/tape reads, generalized from tape marks and record framing
// (irrelevant to a fixed-page-size backing store) down to "read
// support.PageSize bytes, write one block, repeat."
const MaxImageBlocks = support.NumPages // blocks 0..31, one U-proc's page table

// Writer is the subset of support.BackingStore an image load needs:
// one ASID's worth of WriteBlock calls. support.BackingStore itself
// satisfies this.
type Writer interface {
	WriteBlock(asid int, block uint32, buf *[support.PageSize]byte) error
}

// Load reads r page by page and writes each page to store at the next
// sequential block number for asid, starting at block 0, until r is
// exhausted or MaxImageBlocks is reached. A short final page (fewer
// than support.PageSize bytes before EOF) is zero-padded, matching the
// teacher's tape reader's end-of-data handling for a record shorter
// than its buffer. Load returns the number of full or partial blocks
// written.
func Load(store Writer, asid int, r io.Reader) (int, error) {
	var buf [support.PageSize]byte
	blocks := 0

	for blocks < MaxImageBlocks {
		n, err := io.ReadFull(r, buf[:])
		if n > 0 {
			if n < len(buf) {
				for i := n; i < len(buf); i++ {
					buf[i] = 0
				}
			}
			if werr := store.WriteBlock(asid, uint32(blocks), &buf); werr != nil {
				return blocks, fmt.Errorf("boot: writing image block %d for asid %d: %w", blocks, asid, werr)
			}
			blocks++
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return blocks, nil
		}
		if err != nil {
			return blocks, fmt.Errorf("boot: reading image for asid %d: %w", asid, err)
		}
	}
	return blocks, nil
}
