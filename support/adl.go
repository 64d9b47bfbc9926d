/*
 * pandos-core - Active Delay List and delay daemon (SYS18).
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

// The Active Delay List is a singly linked, wakeup-time-sorted chain
// of pending delays, the same shape as the teacher's emu/event
// EventList generalized from a relative delta-time key to an absolute
// wakeup TOD (spec.md 4.8, SYS18): each node holds a wakeup instant and
// the private semaphore a delayed process blocks on; the daemon only
// ever needs to look at the head.
package support

// delayNode is one pending SYS18 wakeup.
type delayNode struct {
	wakeAt int64
	sem    *int
	next   *delayNode
}

// ADL is the Active Delay List: sorted ascending by wakeAt, guarded by
// its own mutex semaphore (spec.md 3, 5). Mutex is unlocked at 1, so a
// usable ADL is built with Mutex: 1.
type ADL struct {
	head  *delayNode
	Mutex int // P/V'd via nucleus Kernel.Acquire/Release
}

// Insert adds a new delay entry in sorted position. The caller must
// hold Mutex.
func (a *ADL) Insert(wakeAt int64, sem *int) {
	n := &delayNode{wakeAt: wakeAt, sem: sem}

	if a.head == nil || wakeAt < a.head.wakeAt {
		n.next = a.head
		a.head = n
		return
	}
	prev := a.head
	for prev.next != nil && prev.next.wakeAt <= wakeAt {
		prev = prev.next
	}
	n.next = prev.next
	prev.next = n
}

// PopExpired detaches and returns every node whose wakeAt has passed
// as of now, in wakeup order. The caller must hold Mutex.
func (a *ADL) PopExpired(now int64) []*int {
	var woken []*int
	for a.head != nil && a.head.wakeAt <= now {
		woken = append(woken, a.head.sem)
		a.head = a.head.next
	}
	return woken
}
