/*
 * pandos-core - Circular doubly linked PCB queue, addressed by tail.
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

package pcb

// Queue is a circular doubly linked list of PCBs addressed by its tail,
// giving O(1) head-read, tail-insert and mid-delete (spec.md 4.1). The
// zero value is an empty queue.
type Queue struct {
	tail *PCB
}

// Empty reports whether the queue holds no processes.
func (q *Queue) Empty() bool { return q.tail == nil }

// Head returns the queue's head PCB without removing it, or nil if empty.
func (q *Queue) Head() *PCB {
	if q.tail == nil {
		return nil
	}
	return q.tail.next
}

// Len returns the number of PCBs currently queued, for operator
// visibility (e.g. the monitor's "show ready"); not on any scheduling
// path.
func (q *Queue) Len() int {
	if q.tail == nil {
		return 0
	}
	n := 1
	for p := q.tail.next; p != q.tail; p = p.next {
		n++
	}
	return n
}

// Insert appends p after the current tail and advances the tail to p.
func (q *Queue) Insert(p *PCB) {
	if q.tail == nil {
		p.next = p
		p.prev = p
	} else {
		head := q.tail.next
		p.next = head
		p.prev = q.tail
		q.tail.next = p
		head.prev = p
	}
	q.tail = p
}

// RemoveHead detaches and returns the node after the tail, or nil if the
// queue is empty. On single-element removal the tail becomes nil.
func (q *Queue) RemoveHead() *PCB {
	if q.tail == nil {
		return nil
	}
	head := q.tail.next
	q.out(head)
	return head
}

// Out detaches an arbitrary member p. It returns nil without modifying
// the queue when p is not a member of ANY queue, detected per spec.md 9
// by link-nullness alone -- no traversal validation that p belongs to
// this particular queue.
func (q *Queue) Out(p *PCB) *PCB {
	if p.onNoQueue() {
		return nil
	}
	q.out(p)
	return p
}

// out performs the unconditional detach-and-null shared by RemoveHead and
// Out, retreating the tail when the removed node was it and nilling both
// single-element edge cases.
func (q *Queue) out(p *PCB) {
	if p.next == p {
		// Sole element.
		q.tail = nil
	} else {
		p.prev.next = p.next
		p.next.prev = p.prev
		if p == q.tail {
			q.tail = p.prev
		}
	}
	p.next = nil
	p.prev = nil
}
