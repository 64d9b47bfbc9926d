/*
 * pandos-core - Process Control Block pool.
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

// Package pcb implements the L0 layer (spec.md 4.1): a pre-allocated pool
// of Process Control Blocks plus the circular doubly linked queue and
// N-ary tree primitives every other layer builds on. Pool, Queue and
// Tree mirror the shape of the teacher's emu/event list (a tail-pointer
// circular list of pre-allocated, pointer-linked nodes) generalized from
// one list (the event list) to three relationships (free list, generic
// queue membership, process tree) carried by a single node type.
package pcb

// State is the minimal saved-context shape a PCB carries; it is defined
// here rather than imported from machine to keep this package free of a
// machine dependency (machine.State satisfies the same field shape and
// callers assign it directly).
type State struct {
	EntryHI uint32
	Cause   uint32
	Status  uint32
	PC      uint32
	Reg     [31]uint32
}

// Support is the opaque per-process Support Structure pointer; the pcb
// package never dereferences it; only the support package does.
type Support any

// PCB is one process's kernel descriptor (spec.md 3).
type PCB struct {
	State State // saved processor state

	CPUTime int64 // accumulated CPU time, microseconds

	semKey  *int  // blocking semaphore key, nil when ready/running
	support Support

	// Circular doubly linked queue membership (free list, ready queue,
	// or a device/ASL semaphore queue -- a PCB is in at most one).
	next *PCB
	prev *PCB

	// N-ary process tree.
	parent   *PCB
	child    *PCB // first child; siblings form a circular list off here
	sibNext  *PCB
	sibPrev  *PCB
}

// SemKey returns the semaphore address this PCB is blocked on, or nil.
func (p *PCB) SemKey() *int { return p.semKey }

// SetSemKey records the semaphore address this PCB is about to block on.
// ASL.InsertBlocked is the only caller; cleared by RemoveBlocked/OutBlocked.
func (p *PCB) SetSemKey(key *int) { p.semKey = key }

// Support returns the process's Support Structure, or nil for a
// kernel-only process (spec.md 4.6).
func (p *PCB) Support() Support { return p.support }

// SetSupport attaches a Support Structure at SYS1 CreateProcess time.
func (p *PCB) SetSupport(s Support) { p.support = s }

// Parent returns the PCB's parent in the process tree, or nil for a root.
func (p *PCB) Parent() *PCB { return p.parent }

// Child returns the PCB's first child, or nil.
func (p *PCB) Child() *PCB { return p.child }

// onNoQueue reports whether p's queue links are both nil -- the
// membership proof spec.md 9 pins: link-nullness, no traversal.
func (p *PCB) onNoQueue() bool {
	return p.next == nil && p.prev == nil
}

// Pool is a fixed-size, pre-allocated free list of PCBs (spec.md 3,
// "PCBs are pre-allocated (size MAXPROC)").
type Pool struct {
	storage []PCB
	free    *PCB // head of a singly-threaded free chain via next
}

// NewPool pre-allocates size PCBs and chains them onto the free list.
func NewPool(size int) *Pool {
	pool := &Pool{storage: make([]PCB, size)}
	for i := range pool.storage {
		pool.storage[i].next = pool.free
		pool.free = &pool.storage[i]
	}
	return pool
}

// Alloc returns a zeroed PCB from the free list, or nil when the pool is
// exhausted (spec.md 4.1).
func (pool *Pool) Alloc() *PCB {
	if pool.free == nil {
		return nil
	}
	p := pool.free
	pool.free = p.next
	*p = PCB{}
	return p
}

// Free returns p to the pool. Callers must not double-free (spec.md 4.1);
// a terminated PCB has no parent, no children, and is on no queue before
// this is called.
func (pool *Pool) Free(p *PCB) {
	p.next = pool.free
	p.prev = nil
	pool.free = p
}

// Allocated reports the number of PCBs currently checked out, for tests
// exercising the pool-conservation invariant (spec.md 8.1).
func (pool *Pool) Allocated() int {
	free := 0
	for p := pool.free; p != nil; p = p.next {
		free++
	}
	return len(pool.storage) - free
}

// Size returns the pool's fixed capacity (MAXPROC).
func (pool *Pool) Size() int { return len(pool.storage) }
