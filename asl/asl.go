/*
 * pandos-core - Active Semaphore List: semaphore-address-indexed wait queues.
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

// Package asl implements the L1 layer (spec.md 4.2): a sorted, sentinel-
// bounded active list of semaphore descriptors, each bearing a FIFO
// queue of blocked PCBs. The shape -- a pre-allocated pool of pointer-
// linked nodes threaded onto either a free chain or a sorted active
// chain -- is the same one the teacher's emu/event.EventList uses for a
// time-sorted chain of pre-allocated Events; here the sort key is a
// semaphore address instead of a relative delta-time, and two sentinel
// descriptors replace the nil-terminated ends so insert/remove never
// special-case the list boundary.
package asl

import (
	"unsafe"

	"github.com/rcornwell/pandos/pcb"
)

// descriptor is one ASL entry: a semaphore's address, its blocked-PCB
// queue, and the active list's forward/back links (spec.md 3). The ASL
// indexes by the numeric value of the key's address, not by the count
// it holds -- "the ASL treats only its address as identity" (spec.md 3)
// -- so sentinels can bound the real address range with 0 and the
// largest representable address without ever allocating a real *int.
type descriptor struct {
	key  *int
	addr uintptr
	queue pcb.Queue

	next *descriptor
	prev *descriptor

	free *descriptor // next free descriptor, when not on the active list
}

func addrOf(key *int) uintptr {
	return uintptr(unsafe.Pointer(key))
}

// ASL is the Active Semaphore List: a pre-allocated descriptor pool plus
// a sentinel-bounded sorted active chain (spec.md 3, 4.2).
type ASL struct {
	storage []descriptor
	free    *descriptor

	head *descriptor // minimum sentinel
	tail *descriptor // maximum sentinel
}

// New allocates an ASL with room for size live descriptors plus the two
// sentinels (spec.md 3, "ASL entries are pre-allocated (size MAXPROC+2
// including sentinels)").
func New(size int) *ASL {
	a := &ASL{storage: make([]descriptor, size+2)}

	a.head = &a.storage[0]
	a.tail = &a.storage[1]
	a.head.addr = 0
	a.tail.addr = ^uintptr(0)
	a.head.next = a.tail
	a.tail.prev = a.head

	for i := len(a.storage) - 1; i >= 2; i-- {
		a.storage[i].free = a.free
		a.free = &a.storage[i]
	}
	return a
}

// find does the linear ascending scan from the head sentinel, returning
// the descriptor whose key equals target (or nil) and the descriptor
// immediately preceding the insertion point for target.
func (a *ASL) find(target *int) (found, prev *descriptor) {
	want := addrOf(target)
	curr := a.head.next
	before := a.head
	for curr.addr < want {
		before = curr
		curr = curr.next
	}
	if curr != a.tail && curr.addr == want {
		return curr, before
	}
	return nil, before
}

// InsertBlocked appends p to the queue of the descriptor for key,
// allocating one from the free pool if none exists yet. Returns false
// only when the free pool is exhausted (spec.md 4.2).
func (a *ASL) InsertBlocked(key *int, p *pcb.PCB) bool {
	found, before := a.find(key)
	if found == nil {
		if a.free == nil {
			return false
		}
		d := a.free
		a.free = d.free
		d.free = nil
		d.key = key
		d.addr = addrOf(key)

		d.next = before.next
		d.prev = before
		before.next.prev = d
		before.next = d
		found = d
	}
	found.queue.Insert(p)
	p.SetSemKey(key)
	return true
}

// RemoveBlocked detaches and returns the head PCB of key's queue. If
// that empties the queue, the descriptor is retired to the free pool.
func (a *ASL) RemoveBlocked(key *int) *pcb.PCB {
	found, _ := a.find(key)
	if found == nil {
		return nil
	}
	p := found.queue.RemoveHead()
	if p != nil {
		p.SetSemKey(nil)
	}
	if found.queue.Empty() {
		a.retire(found)
	}
	return p
}

// OutBlocked locates the descriptor by p's own stored key and detaches
// p from its queue, retiring the descriptor if that empties it.
func (a *ASL) OutBlocked(p *pcb.PCB) *pcb.PCB {
	key := p.SemKey()
	if key == nil {
		return nil
	}
	found, _ := a.find(key)
	if found == nil {
		return nil
	}
	out := found.queue.Out(p)
	if out != nil {
		out.SetSemKey(nil)
	}
	if found.queue.Empty() {
		a.retire(found)
	}
	return out
}

// HeadBlocked is a non-destructive peek at key's queue head.
func (a *ASL) HeadBlocked(key *int) *pcb.PCB {
	found, _ := a.find(key)
	if found == nil {
		return nil
	}
	return found.queue.Head()
}

// retire unlinks an empty descriptor from the active chain and returns
// it to the free pool.
func (a *ASL) retire(d *descriptor) {
	d.prev.next = d.next
	d.next.prev = d.prev
	d.next = nil
	d.prev = nil
	d.key = nil
	d.addr = 0
	d.free = a.free
	a.free = d
}

// Active returns the number of live semaphore descriptors on the active
// list, excluding the two sentinels -- for operator visibility (e.g. the
// monitor's "show asl"), not called from any scheduling path.
func (a *ASL) Active() int {
	n := 0
	for curr := a.head.next; curr != nil && curr != a.tail; curr = curr.next {
		n++
	}
	return n
}

// Sorted reports whether the active list is strictly ascending in key
// address (spec.md 8.2); exercised by tests, not called on any hot path.
func (a *ASL) Sorted() bool {
	prev := a.head
	for curr := a.head.next; curr != nil; curr = curr.next {
		if curr.addr <= prev.addr {
			return false
		}
		if curr.queue.Empty() && curr != a.tail {
			return false
		}
		prev = curr
		if curr == a.tail {
			break
		}
	}
	return true
}
