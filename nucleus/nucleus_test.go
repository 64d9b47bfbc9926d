package nucleus

import (
	"io"
	"log/slog"

	"github.com/rcornwell/pandos/pcb"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeMachine records what the Nucleus asks of the simulated machine
// without actually simulating anything, matching the teacher's pattern
// of exercising hardware-adjacent code via small hand-rolled fakes
// rather than a mocking library.
type fakeMachine struct {
	now          int64
	pltLoads     []int64
	intervalLoad int64
	resumed      []*pcb.State
	enabled      bool
}

func (m *fakeMachine) Now() int64 { return m.now }

func (m *fakeMachine) LoadPLT(micros int64) { m.pltLoads = append(m.pltLoads, micros) }

func (m *fakeMachine) LoadIntervalTimer(micros int64) { m.intervalLoad = micros }

func (m *fakeMachine) EnableInterrupts() { m.enabled = true }

func (m *fakeMachine) Resume(state *pcb.State) { m.resumed = append(m.resumed, state) }

// fakePassup records passup-or-die deliveries instead of running a real
// Support-level handler.
type fakePassup struct {
	delivered []*pcb.PCB
	kinds     []PassupKind
}

func (f *fakePassup) Deliver(p *pcb.PCB, kind PassupKind, state *pcb.State) {
	f.delivered = append(f.delivered, p)
	f.kinds = append(f.kinds, kind)
}

func newTestKernel(maxProc int) (*Kernel, *fakeMachine, *fakePassup) {
	m := &fakeMachine{}
	p := &fakePassup{}
	k := New(discardLogger(), m, p, maxProc)
	return k, m, p
}
