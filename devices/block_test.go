package devices

import (
	"testing"

	"github.com/rcornwell/pandos/machine"
	"github.com/rcornwell/pandos/support"
)

func TestBlockTransferRoundTrip(t *testing.T) {
	b := NewBlock(machine.LineDisk, 1, 64)

	var in [support.PageSize]byte
	for i := range in {
		in[i] = byte(i)
	}
	if status, err := b.Transfer(5, &in, true); err != nil || status != machine.StatusReady {
		t.Fatalf("write Transfer = (%#x, %v), want (StatusReady, nil)", status, err)
	}

	var out [support.PageSize]byte
	if status, err := b.Transfer(5, &out, false); err != nil || status != machine.StatusReady {
		t.Fatalf("read Transfer = (%#x, %v), want (StatusReady, nil)", status, err)
	}
	if out != in {
		t.Fatal("read must reproduce the block exactly as written")
	}
}

func TestBlockTransferOutOfRangeErrors(t *testing.T) {
	b := NewBlock(machine.LineDisk, 1, 4)
	var buf [support.PageSize]byte

	status, err := b.Transfer(4, &buf, false)
	if err == nil {
		t.Fatal("transferring block >= numBlocks must return an error")
	}
	if status != machine.StatusError {
		t.Fatalf("status = %#x, want StatusError", status)
	}
}

func TestFlashBackingStoreRoutesByASID(t *testing.T) {
	flash1 := NewBlock(machine.LineFlash, 0, 64)
	flash2 := NewBlock(machine.LineFlash, 1, 64)
	store := NewFlashBackingStore([]*Block{flash1, flash2})

	var page [support.PageSize]byte
	page[0] = 0x7
	if err := store.WriteBlock(2, 3, &page); err != nil {
		t.Fatalf("WriteBlock returned %v", err)
	}

	var readBack [support.PageSize]byte
	if err := store.ReadBlock(2, 3, &readBack); err != nil {
		t.Fatalf("ReadBlock returned %v", err)
	}
	if readBack != page {
		t.Fatal("round trip through asid 2's flash unit must reproduce the page")
	}

	var empty [support.PageSize]byte
	if _, err := flash1.Transfer(3, &empty, false); err != nil {
		t.Fatalf("Transfer returned %v", err)
	}
	if empty == page {
		t.Fatal("asid 1's flash unit must be untouched by asid 2's write")
	}
}

func TestFlashBackingStoreUnknownASIDErrors(t *testing.T) {
	store := NewFlashBackingStore([]*Block{NewBlock(machine.LineFlash, 0, 64)})
	var buf [support.PageSize]byte
	if err := store.ReadBlock(9, 0, &buf); err == nil {
		t.Fatal("reading an unconfigured asid's flash backing store must error")
	}
}
