package pcb

import "testing"

func TestPoolAllocFree(t *testing.T) {
	pool := NewPool(4)

	if pool.Size() != 4 {
		t.Fatalf("size = %d, want 4", pool.Size())
	}

	var got []*PCB
	for range 4 {
		p := pool.Alloc()
		if p == nil {
			t.Fatal("alloc returned nil before pool exhausted")
		}
		got = append(got, p)
	}

	if p := pool.Alloc(); p != nil {
		t.Fatal("alloc should fail when pool is exhausted")
	}

	if pool.Allocated() != 4 {
		t.Fatalf("allocated = %d, want 4", pool.Allocated())
	}

	for _, p := range got {
		pool.Free(p)
	}

	if pool.Allocated() != 0 {
		t.Fatalf("allocated after free = %d, want 0", pool.Allocated())
	}

	// Pool conservation: free + live == size, always.
	if pool.Allocated()+4 != pool.Size()+pool.Allocated() {
		t.Fatal("pool conservation invariant violated")
	}
}

func TestQueueFIFO(t *testing.T) {
	pool := NewPool(3)
	a, b, c := pool.Alloc(), pool.Alloc(), pool.Alloc()

	var q Queue
	if !q.Empty() {
		t.Fatal("new queue should be empty")
	}

	q.Insert(a)
	q.Insert(b)
	q.Insert(c)

	if h := q.Head(); h != a {
		t.Fatalf("head = %p, want a %p", h, a)
	}

	if h := q.RemoveHead(); h != a {
		t.Fatalf("removeHead = %p, want a %p", h, a)
	}
	if h := q.RemoveHead(); h != b {
		t.Fatalf("removeHead = %p, want b %p", h, b)
	}
	if h := q.RemoveHead(); h != c {
		t.Fatalf("removeHead = %p, want c %p", h, c)
	}
	if !q.Empty() {
		t.Fatal("queue should be empty after draining all elements")
	}
	if h := q.RemoveHead(); h != nil {
		t.Fatal("removeHead on empty queue must return nil")
	}
}

func TestQueueLen(t *testing.T) {
	pool := NewPool(3)
	a, b, c := pool.Alloc(), pool.Alloc(), pool.Alloc()

	var q Queue
	if n := q.Len(); n != 0 {
		t.Fatalf("Len() = %d on an empty queue, want 0", n)
	}

	q.Insert(a)
	q.Insert(b)
	q.Insert(c)
	if n := q.Len(); n != 3 {
		t.Fatalf("Len() = %d after three inserts, want 3", n)
	}

	q.RemoveHead()
	if n := q.Len(); n != 2 {
		t.Fatalf("Len() = %d after one removeHead, want 2", n)
	}
}

func TestQueueOutMidElement(t *testing.T) {
	pool := NewPool(3)
	a, b, c := pool.Alloc(), pool.Alloc(), pool.Alloc()

	var q Queue
	q.Insert(a)
	q.Insert(b)
	q.Insert(c)

	if out := q.Out(b); out != b {
		t.Fatal("out should detach b")
	}
	if !b.onNoQueue() {
		t.Fatal("b's links must be nil after Out")
	}

	if h := q.RemoveHead(); h != a {
		t.Fatal("a should still be head")
	}
	if h := q.RemoveHead(); h != c {
		t.Fatal("c should follow a, b having been removed")
	}
}

func TestQueueOutNotMember(t *testing.T) {
	pool := NewPool(2)
	a, b := pool.Alloc(), pool.Alloc()

	var q Queue
	q.Insert(a)

	// b is on no queue; Out must return nil, not corrupt q.
	if out := q.Out(b); out != nil {
		t.Fatal("out of a non-member must return nil")
	}
	if h := q.Head(); h != a {
		t.Fatal("q must be unaffected by an out of a non-member")
	}
}

func TestQueueOutTailRetreat(t *testing.T) {
	pool := NewPool(2)
	a, b := pool.Alloc(), pool.Alloc()

	var q Queue
	q.Insert(a)
	q.Insert(b)

	q.Out(b)
	if h := q.RemoveHead(); h != a {
		t.Fatal("a should remain after tail element b is removed")
	}
	if !q.Empty() {
		t.Fatal("queue should be empty")
	}
}

func TestTreeInsertRemoveOut(t *testing.T) {
	pool := NewPool(4)
	parent, c1, c2, c3 := pool.Alloc(), pool.Alloc(), pool.Alloc(), pool.Alloc()

	InsertChild(parent, c1)
	InsertChild(parent, c2)
	InsertChild(parent, c3)

	if c1.Parent() != parent || c2.Parent() != parent || c3.Parent() != parent {
		t.Fatal("all children must point to parent")
	}

	Out(c2)
	if c2.Parent() != nil {
		t.Fatal("out must clear the parent pointer")
	}

	first := RemoveChild(parent)
	if first != c1 {
		t.Fatalf("RemoveChild should return first child c1, got %p", first)
	}

	second := RemoveChild(parent)
	if second != c3 {
		t.Fatalf("RemoveChild should return remaining child c3, got %p", second)
	}

	if parent.Child() != nil {
		t.Fatal("parent should have no children left")
	}
}
