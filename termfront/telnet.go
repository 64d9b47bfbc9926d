/*
 * pandos-core - Telnet option negotiation: strip IAC sequences from a stream.
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

// Package termfront drives support.CharDevice terminals from a real TCP
// socket, so SYS12/SYS13 terminal I/O can be exercised by an actual
// remote client instead of only a canned test double (spec.md D.3).
package termfront

import "io"

// Telnet protocol bytes this front-end needs to recognize and strip.
const (
	iac  byte = 255
	dont byte = 254
	do   byte = 253
	wont byte = 252
	will byte = 251
	sb   byte = 250
	se   byte = 240
)

// Line states for the small option-stripping state machine below.
const (
	stateData int = 1 + iota // normal
	stateIAC                 // IAC seen
	stateWILL                // WILL seen, one option byte follows
	stateDO                  // DO seen, one option byte follows
	stateWONT                // WONT seen, one option byte follows
	stateDONT                // DONT seen, one option byte follows
	stateSB                  // inside a subnegotiation, waiting for IAC SE
	stateSBIAC               // IAC seen while inside a subnegotiation
)

// This console has no 3270-style terminal-type negotiation or binary
// mode to offer (spec.md's machine speaks plain ASCII lines); the
// teacher's handleWILL/handleDO option table is replaced with one
// blanket refusal, the same fallback branch the teacher's own
// handleDO/handleWILL already fall through to for any option it does
// not specifically negotiate.
var initString = []byte{
	iac, wont, 34, // WONT line mode
	iac, will, 1, // WILL echo
	iac, will, 3, // WILL suppress-go-ahead
}

// decoder strips telnet IAC option negotiation out of a byte stream,
// the same per-byte line-state machine as the teacher's handleClient
// loop, trimmed to the options this front-end actually answers:
// WILL and DO are answered with a flat refusal (DONT and WONT), WONT
// and DONT are absorbed without a reply, and subnegotiations (SB ... IAC SE) are discarded rather than parsed for
// terminal type or environment variables, since nothing downstream of
// support.CharDevice cares what kind of terminal is attached.
type decoder struct {
	conn  io.Writer
	state int
}

// feed decodes buf in place, returning the plain data bytes with all
// IAC sequences removed. Negotiation replies are written back to conn
// immediately as they are decided, same as the teacher's state
// handlers do inline.
func (d *decoder) feed(buf []byte) []byte {
	var out []byte
	for _, b := range buf {
		switch d.state {
		case stateData:
			if b == iac {
				d.state = stateIAC
			} else {
				out = append(out, b)
			}

		case stateIAC:
			switch b {
			case iac:
				out = append(out, iac)
				d.state = stateData
			case will:
				d.state = stateWILL
			case wont:
				d.state = stateWONT
			case do:
				d.state = stateDO
			case dont:
				d.state = stateDONT
			case sb:
				d.state = stateSB
			default:
				d.state = stateData
			}

		case stateWILL:
			_, _ = d.conn.Write([]byte{iac, dont, b})
			d.state = stateData
		case stateDO:
			_, _ = d.conn.Write([]byte{iac, wont, b})
			d.state = stateData
		case stateWONT, stateDONT:
			d.state = stateData

		case stateSB:
			if b == iac {
				d.state = stateSBIAC
			}
		case stateSBIAC:
			if b == se {
				d.state = stateData
			} else {
				d.state = stateSB
			}
		}
	}
	return out
}
