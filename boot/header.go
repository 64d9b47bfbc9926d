/*
 * pandos-core - OS header: text/data section location record.
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

package boot

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the on-disk/in-RAM size of Header: five uint32 fields,
// little-endian, matching the teacher's fixed-width card/tape header
// records rather than a self-describing format -- this kernel always
// knows exactly what it is loading.
const HeaderSize = 5 * 4

// Header is the OS header at OSHeaderAddr (spec.md "OS header...
// encoding text and data section locations"): where the resident
// kernel's text and data sections land in RAM, and how big each is.
// TextStart/DataStart are absolute RAM addresses; *Size fields are
// byte counts.
type Header struct {
	TextStart uint32
	TextSize  uint32
	DataStart uint32
	DataSize  uint32
	EntryPC   uint32
}

// DataEnd is the first address past the data section, the address
// New's osDataEnd parameter expects so the swap pool lands
// page-aligned immediately after it.
func (h Header) DataEnd() uint32 { return h.DataStart + h.DataSize }

// Encode renders h as HeaderSize bytes, the layout ParseHeader expects.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.TextStart)
	binary.LittleEndian.PutUint32(buf[4:8], h.TextSize)
	binary.LittleEndian.PutUint32(buf[8:12], h.DataStart)
	binary.LittleEndian.PutUint32(buf[12:16], h.DataSize)
	binary.LittleEndian.PutUint32(buf[16:20], h.EntryPC)
	return buf
}

// ParseHeader reads a Header out of buf, the mirror of Encode.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("boot: header too short: got %d bytes, want %d", len(buf), HeaderSize)
	}
	return Header{
		TextStart: binary.LittleEndian.Uint32(buf[0:4]),
		TextSize:  binary.LittleEndian.Uint32(buf[4:8]),
		DataStart: binary.LittleEndian.Uint32(buf[8:12]),
		DataSize:  binary.LittleEndian.Uint32(buf[12:16]),
		EntryPC:   binary.LittleEndian.Uint32(buf[16:20]),
	}, nil
}
