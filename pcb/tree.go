/*
 * pandos-core - N-ary process tree: parent/child/sibling links.
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

// InsertChild makes p a child of parent. The sibling list is a circular
// doubly linked list reachable from parent.child, the same shape as
// Queue but keyed by a head (first child) rather than a tail, since
// children have no FIFO ordering requirement.
func InsertChild(parent, p *PCB) {
	p.parent = parent
	if parent.child == nil {
		p.sibNext = p
		p.sibPrev = p
		parent.child = p
		return
	}
	first := parent.child
	last := first.sibPrev
	p.sibNext = first
	p.sibPrev = last
	last.sibNext = p
	first.sibPrev = p
}

// RemoveChild detaches and returns parent's first child, or nil if
// parent has none.
func RemoveChild(parent *PCB) *PCB {
	first := parent.child
	if first == nil {
		return nil
	}
	Out(first)
	return first
}

// Out detaches p from its parent's child list in O(1), wherever in the
// sibling order it sits. Safe to call on a p with no parent (no-op).
func Out(p *PCB) *PCB {
	parent := p.parent
	if parent == nil {
		return nil
	}
	if p.sibNext == p {
		parent.child = nil
	} else {
		p.sibPrev.sibNext = p.sibNext
		p.sibNext.sibPrev = p.sibPrev
		if parent.child == p {
			parent.child = p.sibNext
		}
	}
	p.parent = nil
	p.sibNext = nil
	p.sibPrev = nil
	return p
}
