package support

import (
	"testing"

	"github.com/rcornwell/pandos/machine"
	"github.com/rcornwell/pandos/pcb"
)

func TestRefillTLBWritesPageTableEntryAndResumes(t *testing.T) {
	tlb := machine.NewTLB(4)
	s := newStructure(1)
	vpn := uint32(5)
	s.PageTable[vpn] = PTE{
		EntryHI: vpn << machine.EntryHIVPNShift,
		EntryLO: (uint32(2) << machine.EntryLOFrameShift) | machine.EntryLOValid,
	}

	state := &pcb.State{EntryHI: vpn << machine.EntryHIVPNShift}

	var resumed *pcb.State
	RefillTLB(tlb, s, state, func(st *pcb.State) { resumed = st })

	if resumed != state {
		t.Fatal("RefillTLB must resume with the same faulting state, unmodified otherwise")
	}

	idx, ok := tlb.Probe(state.EntryHI)
	if !ok {
		t.Fatal("TLB must hold the refilled entry after RefillTLB")
	}
	_ = idx
}
