/*
 * pandos-core - Disk and flash block device models.
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

package devices

import (
	"fmt"
	"os"
	"sync"

	"github.com/rcornwell/pandos/machine"
	"github.com/rcornwell/pandos/support"
)

// Block is a fixed-geometry block device: numBlocks pages of
// support.PageSize bytes each, backed by an attached file when one is
// given and an in-memory arena otherwise. One Block instance is a
// single (line, unit) device -- a disk unit or a per-ASID flash unit
// -- the same granularity the teacher's tape Context models one drive
// at a time, generalized here from a sequential tape to a randomly
// addressable block store since spec.md's disk/flash are seek-by-block,
// not seek-by-record.
type Block struct {
	mu   sync.Mutex
	line int
	unit int

	numBlocks uint32
	file      *os.File
	arena     []byte

	reg machine.Device
}

// NewBlock creates an in-memory-backed block device of numBlocks
// pages on the given interrupt line/unit.
func NewBlock(line, unit int, numBlocks uint32) *Block {
	return &Block{
		line:      line,
		unit:      unit,
		numBlocks: numBlocks,
		arena:     make([]byte, int(numBlocks)*support.PageSize),
	}
}

// Attach backs this device with f instead of its in-memory arena,
// mirroring the teacher's optional-file device contexts (modelTape,
// model1403) that work against an in-memory default until a real file
// is attached.
func (b *Block) Attach(f *os.File) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.file = f
}

// Transfer implements support.BlockDevice: read or write one
// support.PageSize page at the given block number.
func (b *Block) Transfer(block uint32, buf *[support.PageSize]byte, write bool) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if block >= b.numBlocks {
		b.reg.Status = machine.StatusError
		return machine.StatusError, fmt.Errorf("block %d out of range (numBlocks=%d)", block, b.numBlocks)
	}

	var err error
	if b.file != nil {
		off := int64(block) * support.PageSize
		if write {
			_, err = b.file.WriteAt(buf[:], off)
		} else {
			_, err = b.file.ReadAt(buf[:], off)
		}
	} else {
		start := int(block) * support.PageSize
		if write {
			copy(b.arena[start:start+support.PageSize], buf[:])
		} else {
			copy(buf[:], b.arena[start:start+support.PageSize])
		}
	}
	if err != nil {
		b.reg.Status = machine.StatusError
		return machine.StatusError, err
	}

	b.reg.Status = machine.StatusReady
	return machine.StatusReady, nil
}

func (b *Block) Poll() (line, unit int, pending bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.line, b.unit, b.reg.Status&machine.StatusReady != 0
}

func (b *Block) Registers() *machine.Device {
	return &b.reg
}

// FlashBackingStore adapts a set of per-ASID flash Blocks (unit number
// equal to ASID, spec.md 6) into support.BackingStore: blocks 0..31 of
// a U-proc's own flash unit hold its 32 virtual pages in VPN order,
// the same blocks SYS16/17 refuse to touch directly (support.Dispatcher
// rejects block < 32 on a flash transfer) because this is where they
// live.
type FlashBackingStore struct {
	units []*Block // indexed by ASID-1
}

// NewFlashBackingStore wraps units, one flash Block per ASID.
func NewFlashBackingStore(units []*Block) *FlashBackingStore {
	return &FlashBackingStore{units: units}
}

func (f *FlashBackingStore) unitFor(asid int) (*Block, error) {
	if asid < 1 || asid > len(f.units) || f.units[asid-1] == nil {
		return nil, fmt.Errorf("no flash backing store for asid %d", asid)
	}
	return f.units[asid-1], nil
}

func (f *FlashBackingStore) ReadBlock(asid int, block uint32, buf *[support.PageSize]byte) error {
	unit, err := f.unitFor(asid)
	if err != nil {
		return err
	}
	status, err := unit.Transfer(block, buf, false)
	if err != nil {
		return err
	}
	if status&machine.StatusReady == 0 {
		return fmt.Errorf("flash read asid=%d block=%d: status %#x", asid, block, status)
	}
	return nil
}

func (f *FlashBackingStore) WriteBlock(asid int, block uint32, buf *[support.PageSize]byte) error {
	unit, err := f.unitFor(asid)
	if err != nil {
		return err
	}
	status, err := unit.Transfer(block, buf, true)
	if err != nil {
		return err
	}
	if status&machine.StatusReady == 0 {
		return fmt.Errorf("flash write asid=%d block=%d: status %#x", asid, block, status)
	}
	return nil
}
