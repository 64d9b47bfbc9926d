/*
 * pandos-core - Terminal device model: receive/transmit sub-channels.
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

// Package devices implements the terminal, printer and disk/flash block
// device models support.Dispatcher drives, each shaped like the
// teacher's device contexts (a register quad plus whatever local
// buffering the device needs) rather than a bare function.
package devices

import (
	"io"
	"sync"

	"github.com/rcornwell/pandos/machine"
)

// Terminal is one U-proc's console: a receive sub-channel fed by
// Feed (bytes arriving from a remote terminal front-end) and a
// transmit sub-channel that writes straight through to out. One
// Terminal satisfies support.CharDevice for both directions; a boot
// wiring step assigns the same pointer into both the Dispatcher's
// TermRecv and TermXmit slots, the same way model1052 keeps one
// context for both its read and write commands.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
	in  []byte

	recvReg machine.Device
	xmitReg machine.Device
}

// NewTerminal creates a terminal transmitting to out. in starts empty;
// callers push received bytes with Feed. out may be nil, meaning no
// front-end is currently connected (spec.md D.3); PutChar reports
// StatusError rather than writing until Attach gives it a sink.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// Attach points this terminal's transmit sink at a freshly connected
// front-end, and Detach removes it again on disconnect -- the same
// connected/disconnected toggle model1052tel tracks around its net.Conn.
func (t *Terminal) Attach(out io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out = out
}

func (t *Terminal) Detach() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out = nil
}

// Feed appends bytes received from the terminal's front-end (spec.md
// D.3's real-socket terminal front-end) to the pending input queue.
func (t *Terminal) Feed(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.in = append(t.in, data...)
	t.recvReg.Status = machine.StatusReady
}

// PutChar is SYS12's device half: write one character out.
func (t *Terminal) PutChar(ch byte) (uint32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.out == nil {
		return machine.StatusError, nil
	}
	if _, err := t.out.Write([]byte{ch}); err != nil {
		t.xmitReg.Status = machine.StatusError
		return machine.StatusError, err
	}
	t.xmitReg.Status = machine.StatusReady
	return machine.StatusReady, nil
}

// GetChar is SYS13's device half: drain one character, reporting
// StatusError (not StatusReady) when nothing is pending -- this is
// not a device failure, just "nothing to read yet."
func (t *Terminal) GetChar() (byte, uint32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.in) == 0 {
		return 0, machine.StatusError, nil
	}
	ch := t.in[0]
	t.in = t.in[1:]
	if len(t.in) == 0 {
		t.recvReg.Status = 0
	}
	return ch, machine.StatusReady, nil
}

// pending reports whether input bytes are queued, for the recv view's
// Poll.
func (t *Terminal) pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.in) > 0
}

// RecvView and XmitView adapt one Terminal's two sub-channels to
// machine.Interrupting, since that interface speaks for a single
// line/unit and a Terminal owns two.
type RecvView struct {
	T    *Terminal
	Unit int
}

func (v *RecvView) Poll() (line, unit int, pending bool) {
	return machine.TerminalRecvLine, v.Unit, v.T.pending()
}

func (v *RecvView) Registers() *machine.Device { return &v.T.recvReg }

type XmitView struct {
	T    *Terminal
	Unit int
}

func (v *XmitView) Poll() (line, unit int, pending bool) {
	return machine.TerminalXmitLine, v.Unit, v.T.xmitReg.Status&machine.StatusReady != 0
}

func (v *XmitView) Registers() *machine.Device { return &v.T.xmitReg }
