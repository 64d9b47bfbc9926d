/*
 * pandos-core - monitor.State: operator-visible counters over the live Kernel.
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

package main

import (
	"fmt"
	"strings"

	"github.com/rcornwell/pandos/machine"
	"github.com/rcornwell/pandos/nucleus"
	"github.com/rcornwell/pandos/support"
	"github.com/rcornwell/pandos/util/hex"
)

// monitorState implements monitor.State against one running kernel, the
// read-only accessors (ASL.Active, Kernel.ReadyLen, pcb.Pool.Allocated)
// added specifically so the operator console never has to reach past
// them into kernel internals.
type monitorState struct {
	kernel *nucleus.Kernel
	pool   *support.Pool
}

func (m *monitorState) PoolStatus() string {
	return fmt.Sprintf("PCBs: %d/%d allocated", m.kernel.PCBs.Allocated(), m.kernel.PCBs.Size())
}

func (m *monitorState) ASLStatus() string {
	return fmt.Sprintf("ASL: %d blocked descriptor(s) active", m.kernel.ASL.Active())
}

func (m *monitorState) SwapStatus() string {
	var out strings.Builder
	occupied := 0
	for i := range m.pool.Frames {
		f := &m.pool.Frames[i]
		if f.ASID == support.UnoccupiedASID {
			continue
		}
		occupied++
		fmt.Fprintf(&out, "frame %d: asid=", i)
		hex.FormatByte(&out, byte(f.ASID))
		out.WriteString(" vpn=")
		hex.FormatWord(&out, []uint32{f.VPN})
		out.WriteString("bytes=")
		hex.FormatBytes(&out, true, f.Bytes[:4])
		out.WriteByte('\n')
	}
	fmt.Fprintf(&out, "swap pool: %d/%d frames occupied", occupied, len(m.pool.Frames))
	return out.String()
}

func (m *monitorState) ReadyStatus() string {
	var out strings.Builder
	if p := m.kernel.Current(); p != nil {
		state := p.State
		out.WriteString("current: pc=")
		hex.FormatHalf(&out, false, []uint16{uint16(state.PC >> 16), uint16(state.PC)})
		out.WriteString(" asid=")
		hex.FormatDigit(&out, byte(machine.ASIDOf(state.EntryHI)))
		out.WriteString(" regs=")
		hex.FormatWord(&out, state.Reg[:4])
		out.WriteByte('\n')
	}
	fmt.Fprintf(&out, "ready queue: %d process(es), %d total non-terminated",
		m.kernel.ReadyLen(), m.kernel.ProcessCount())
	return out.String()
}
