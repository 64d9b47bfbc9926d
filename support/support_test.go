package support

import (
	"errors"
	"io"
	"log/slog"

	"github.com/rcornwell/pandos/machine"
	"github.com/rcornwell/pandos/nucleus"
	"github.com/rcornwell/pandos/pcb"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeMachine is nucleus.Machine, shared by every support test that
// needs a Kernel.
type fakeMachine struct {
	now      int64
	resumed  []*pcb.State
	intrDown int
}

func (m *fakeMachine) Now() int64                    { return m.now }
func (m *fakeMachine) LoadPLT(int64)                 {}
func (m *fakeMachine) LoadIntervalTimer(int64)       {}
func (m *fakeMachine) EnableInterrupts()             { m.intrDown-- }
func (m *fakeMachine) Resume(state *pcb.State)       { m.resumed = append(m.resumed, state) }

func (m *fakeMachine) DisableInterrupts() { m.intrDown++ }

func newTestKernel(maxProc int) (*nucleus.Kernel, *fakeMachine) {
	m := &fakeMachine{}
	k := nucleus.New(discardLogger(), m, nil, maxProc)
	return k, m
}

// fakeStore is a per-ASID flash-backed BackingStore that just keeps a
// map of written pages, round-tripping whatever was last written.
type fakeStore struct {
	pages map[[2]uint32][PageSize]byte
	err   error
}

func newFakeStore() *fakeStore { return &fakeStore{pages: map[[2]uint32][PageSize]byte{}} }

func (s *fakeStore) key(asid int, block uint32) [2]uint32 { return [2]uint32{uint32(asid), block} }

func (s *fakeStore) ReadBlock(asid int, block uint32, buf *[PageSize]byte) error {
	if s.err != nil {
		return s.err
	}
	*buf = s.pages[s.key(asid, block)]
	return nil
}

func (s *fakeStore) WriteBlock(asid int, block uint32, buf *[PageSize]byte) error {
	if s.err != nil {
		return s.err
	}
	s.pages[s.key(asid, block)] = *buf
	return nil
}

// fakeMemory is a flat per-ASID byte arena standing in for U-proc RAM.
type fakeMemory struct {
	arenas map[int]*[NumPages * PageSize]byte
}

func newFakeMemory() *fakeMemory { return &fakeMemory{arenas: map[int]*[NumPages * PageSize]byte{}} }

func (m *fakeMemory) arena(asid int) *[NumPages * PageSize]byte {
	a, ok := m.arenas[asid]
	if !ok {
		a = &[NumPages * PageSize]byte{}
		m.arenas[asid] = a
	}
	return a
}

func (m *fakeMemory) ReadByte(asid int, addr uint32) (byte, error) {
	if int(addr) >= len(m.arena(asid)) {
		return 0, errors.New("out of range")
	}
	return m.arena(asid)[addr], nil
}

func (m *fakeMemory) WriteByte(asid int, addr uint32, b byte) error {
	if int(addr) >= len(m.arena(asid)) {
		return errors.New("out of range")
	}
	m.arena(asid)[addr] = b
	return nil
}

func (m *fakeMemory) ReadPage(asid int, addr uint32, buf *[PageSize]byte) error {
	if int(addr)+PageSize > len(m.arena(asid)) {
		return errors.New("out of range")
	}
	copy(buf[:], m.arena(asid)[addr:addr+PageSize])
	return nil
}

func (m *fakeMemory) WritePage(asid int, addr uint32, buf *[PageSize]byte) error {
	if int(addr)+PageSize > len(m.arena(asid)) {
		return errors.New("out of range")
	}
	copy(m.arena(asid)[addr:addr+PageSize], buf[:])
	return nil
}

// fakeChar is a CharDevice that either echoes into a buffer (transmit)
// or drains a preloaded buffer (receive).
type fakeChar struct {
	written []byte
	toRead  []byte
	status  uint32
}

func newFakeChar() *fakeChar { return &fakeChar{status: machine.StatusReady} }

func (c *fakeChar) PutChar(ch byte) (uint32, error) {
	if c.status != machine.StatusReady {
		return c.status, nil
	}
	c.written = append(c.written, ch)
	return machine.StatusReady, nil
}

func (c *fakeChar) GetChar() (byte, uint32, error) {
	if c.status != machine.StatusReady {
		return 0, c.status, nil
	}
	if len(c.toRead) == 0 {
		return 0, machine.StatusError, nil
	}
	ch := c.toRead[0]
	c.toRead = c.toRead[1:]
	return ch, machine.StatusReady, nil
}

// fakeBlock is a BlockDevice backed by a plain map keyed by block.
type fakeBlock struct {
	blocks map[uint32][PageSize]byte
	status uint32
}

func newFakeBlock() *fakeBlock {
	return &fakeBlock{blocks: map[uint32][PageSize]byte{}, status: machine.StatusReady}
}

func (b *fakeBlock) Transfer(block uint32, buf *[PageSize]byte, write bool) (uint32, error) {
	if b.status != machine.StatusReady {
		return b.status, nil
	}
	if write {
		b.blocks[block] = *buf
	} else {
		*buf = b.blocks[block]
	}
	return machine.StatusReady, nil
}

func newStructure(asid int) *Structure {
	return NewStructure(asid, PassupContext{}, PassupContext{})
}
