/*
 * pandos-core - Printer device model: a one-way character sink.
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

package devices

import (
	"io"
	"sync"

	"github.com/rcornwell/pandos/machine"
)

// Printer is SYS11's device half: every character PutChar receives is
// appended to a line buffer, the way model1403
// accumulates a line before flushing it for debug output -- here the
// accumulated line is flushed to out on a newline, mirroring that
// buffering without the FCB/carriage-control machinery a line printer
// needs and a U-proc syscall has no use for.
type Printer struct {
	mu   sync.Mutex
	out  io.Writer
	unit int
	line []byte
	reg  machine.Device
}

// NewPrinter creates a printer for unit, writing flushed lines to out.
func NewPrinter(unit int, out io.Writer) *Printer {
	return &Printer{unit: unit, out: out}
}

// PutChar buffers ch, flushing the accumulated line to out on '\n'.
func (p *Printer) PutChar(ch byte) (uint32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.line = append(p.line, ch)
	if ch == '\n' {
		_, err := p.out.Write(p.line)
		p.line = p.line[:0]
		if err != nil {
			p.reg.Status = machine.StatusError
			return machine.StatusError, err
		}
	}
	p.reg.Status = machine.StatusReady
	return machine.StatusReady, nil
}

// GetChar is unused by a one-way printer; it always reports not
// ready rather than panicking, since support.CharDevice is shared by
// both directions of a terminal and this is the write-only half.
func (p *Printer) GetChar() (byte, uint32, error) {
	return 0, machine.StatusError, nil
}

func (p *Printer) Poll() (line, unit int, pending bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return machine.LinePrinter, p.unit, p.reg.Status&machine.StatusReady != 0
}

func (p *Printer) Registers() *machine.Device {
	return &p.reg
}
