/*
ibm370 IBM 370 Channel Interface functions

	Copyright (c) 2024, Richard Cornwell

	Permission is hereby granted, free of charge, to any person obtaining a
	copy of this software and associated documentation files (the "Software"),
	to deal in the Software without restriction, including without limitation
	the rights to use, copy, modify, merge, publish, distribute, sublicense,
	and/or sell copies of the Software, and to permit persons to whom the
	Software is furnished to do so, subject to the following conditions:

	The above copyright notice and this permission notice shall be included in
	all copies or substantial portions of the Software.

	THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
	IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
	FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
	RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
	IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
	CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

package machine

// Device is the register quad every device exposes at its fixed address
// (spec.md 6): status, command, and two data words used by DMA transfers.
type Device struct {
	Status uint32
	Command uint32
	Data0   uint32
	Data1   uint32
}

// Device command/status bits, shared by every device class.
const (
	StatusReady uint32 = 1 << 0 // Operation completed successfully
	StatusBusy  uint32 = 1 << 1
	StatusError uint32 = 1 << 2

	CmdAck uint32 = 0 // Write to Command to acknowledge/clear an interrupt

	// Terminal sub-commands written to Command (spec.md 4.8, SYS12/13).
	CmdTransmit uint32 = 1
	CmdReceive  uint32 = 2

	// Printer/disk/flash sub-commands.
	CmdPrintChr uint32 = 1
	CmdSeek     uint32 = 1
	CmdRead     uint32 = 2
	CmdWrite    uint32 = 3
)

// Line and sub-device numbering (spec.md 4.5 "compute the (line, device)
// index"; 3 "DEVINTNUM * DEVPERLINE binary semaphores"). DEVPERLINE U-procs
// may share a line; terminals additionally split transmit/receive.
const (
	DevIntNum  = 5 // lines 3..7: disk, flash, printer, terminal(recv), terminal(xmit)
	DevPerLine = 8
)

// DeviceIndex returns the flat index of device `unit` on interrupt `line`
// into a DevIntNum*DevPerLine device-mutex/semaphore table, relative to
// LineDisk (line 3). Terminal transmit occupies the slot one line above
// terminal receive, matching spec.md 4.5's two-semaphore terminal model.
func DeviceIndex(line, unit int) int {
	return (line-LineDisk)*DevPerLine + unit
}

// TerminalRecvLine / TerminalXmitLine are the two interrupt lines a
// terminal sub-channel can raise.
const (
	TerminalRecvLine = LineTerminal
	TerminalXmitLine = LineTerminal + 1
)

// Interrupting is implemented by every device model so the interrupt
// handler can ask "do you have a pending interrupt, and on which
// line/unit" without a type switch per device class.
type Interrupting interface {
	// Poll reports whether the device has a latched, unacknowledged
	// interrupt and, if so, its line/unit and the register quad to read.
	Poll() (line, unit int, pending bool)
	// Registers returns the device's register quad for memory-mapped
	// access (STATUS read, COMMAND write, DATA0/DATA1 for DMA).
	Registers() *Device
}
