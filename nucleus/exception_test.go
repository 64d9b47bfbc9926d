package nucleus

import (
	"testing"

	"github.com/rcornwell/pandos/pcb"
)

func TestPassupOrDieDeliversWhenSupportPresent(t *testing.T) {
	k, _, passup := newTestKernel(4)
	p := k.PCBs.Alloc()
	p.SetSupport(&struct{}{})
	state := &pcb.State{PC: 0x400}

	k.PassupOrDie(p, PassupGeneral, state)

	if len(passup.delivered) != 1 || passup.delivered[0] != p {
		t.Fatal("a process with a Support Structure must be delivered to it, not killed")
	}
	if passup.kinds[0] != PassupGeneral {
		t.Fatal("the passup kind must be forwarded unchanged")
	}
}

func TestPassupOrDieKillsWhenNoSupport(t *testing.T) {
	k, _, passup := newTestKernel(4)
	p := k.PCBs.Alloc()
	k.processCount = 1
	k.current = p
	state := &pcb.State{}

	before := k.PCBs.Allocated()
	k.PassupOrDie(p, PassupTLB, state)

	if len(passup.delivered) != 0 {
		t.Fatal("a process with no Support Structure must not be handed a passup")
	}
	if k.PCBs.Allocated() != before-1 {
		t.Fatal("a process with no Support Structure must be terminated instead")
	}
	if k.processCount != 0 {
		t.Fatalf("processCount = %d, want 0", k.processCount)
	}
}

func TestHandleTLBExceptionAndProgramTrapRouteThroughPassupOrDie(t *testing.T) {
	k, _, passup := newTestKernel(4)
	p := k.PCBs.Alloc()
	p.SetSupport(&struct{}{})
	state := &pcb.State{}

	k.HandleTLBException(p, state)
	k.HandleProgramTrap(p, state)

	if len(passup.kinds) != 2 || passup.kinds[0] != PassupTLB || passup.kinds[1] != PassupGeneral {
		t.Fatalf("kinds = %v, want [TLB, General]", passup.kinds)
	}
}

func TestValidSyscall(t *testing.T) {
	k, _, _ := newTestKernel(4)

	cases := []struct {
		number     int
		kernelMode bool
		want       bool
	}{
		{SysCreateProcess, true, true},
		{SysGetSupportPtr, true, true},
		{SysGetSupportPtr + 1, true, false},
		{SysCreateProcess - 1, true, false},
		{SysPasseren, false, false},
	}
	for _, c := range cases {
		if got := k.ValidSyscall(c.number, c.kernelMode); got != c.want {
			t.Errorf("ValidSyscall(%d, %v) = %v, want %v", c.number, c.kernelMode, got, c.want)
		}
	}
}
