/*
 * pandos-core - RAM: the support.Memory implementation backing this
 * binary's simulated KUSEG/KSEG0 address space.
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

package main

import (
	"fmt"
	"sync"

	"github.com/rcornwell/pandos/support"
)

// ramKey identifies one ASID-scoped page: RAM below the U-proc area
// (ASID 0, the resident kernel and swap pool) and each U-proc's KUSEG
// share the same byte-addressable space model, distinguished only by
// ASID the way support.Memory's doc comment describes.
type ramKey struct {
	asid int
	page uint32
}

// ram is the support.Memory this binary constructs at boot. A real
// harness would back every address with an actual byte array sized to
// RAMSIZE; this one allocates pages lazily, since most of a U-proc's
// 32-page KUSEG is never touched by the small worked examples spec.md's
// test U-procs run.
type ram struct {
	mu    sync.Mutex
	pages map[ramKey]*[support.PageSize]byte
}

func newRAM() *ram {
	return &ram{pages: make(map[ramKey]*[support.PageSize]byte)}
}

func (r *ram) pageFor(asid int, addr uint32, alloc bool) *[support.PageSize]byte {
	key := ramKey{asid: asid, page: addr / support.PageSize}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[key]
	if !ok {
		if !alloc {
			return nil
		}
		p = &[support.PageSize]byte{}
		r.pages[key] = p
	}
	return p
}

func (r *ram) ReadByte(asid int, addr uint32) (byte, error) {
	p := r.pageFor(asid, addr, false)
	if p == nil {
		return 0, nil
	}
	return p[addr%support.PageSize], nil
}

func (r *ram) WriteByte(asid int, addr uint32, value byte) error {
	p := r.pageFor(asid, addr, true)
	p[addr%support.PageSize] = value
	return nil
}

func (r *ram) ReadPage(asid int, addr uint32, buf *[support.PageSize]byte) error {
	if addr%support.PageSize != 0 {
		return fmt.Errorf("ram: ReadPage addr %#x is not page-aligned", addr)
	}
	p := r.pageFor(asid, addr, false)
	if p == nil {
		*buf = [support.PageSize]byte{}
		return nil
	}
	*buf = *p
	return nil
}

func (r *ram) WritePage(asid int, addr uint32, buf *[support.PageSize]byte) error {
	if addr%support.PageSize != 0 {
		return fmt.Errorf("ram: WritePage addr %#x is not page-aligned", addr)
	}
	p := r.pageFor(asid, addr, true)
	*p = *buf
	return nil
}
