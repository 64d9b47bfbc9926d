/*
 * pandos-core - RAM tests.
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
	"testing"

	"github.com/rcornwell/pandos/support"
)

func TestRAMReadByteUnwrittenIsZero(t *testing.T) {
	r := newRAM()

	v, err := r.ReadByte(1, 0x1000)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if v != 0 {
		t.Fatalf("ReadByte of unwritten address = %d, want 0", v)
	}
}

func TestRAMWriteByteThenReadByteRoundTrips(t *testing.T) {
	r := newRAM()

	if err := r.WriteByte(1, 0x1042, 0xAB); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	v, err := r.ReadByte(1, 0x1042)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if v != 0xAB {
		t.Fatalf("ReadByte = %#x, want 0xAB", v)
	}

	// A byte at the same offset in another page, or another ASID, must
	// stay untouched.
	if v, _ := r.ReadByte(1, 0x2042); v != 0 {
		t.Fatalf("write leaked into a different page: got %#x", v)
	}
	if v, _ := r.ReadByte(2, 0x1042); v != 0 {
		t.Fatalf("write leaked into a different ASID: got %#x", v)
	}
}

func TestRAMReadPageUnwrittenIsZeroFilled(t *testing.T) {
	r := newRAM()

	var buf [support.PageSize]byte
	for i := range buf {
		buf[i] = 0xFF
	}

	if err := r.ReadPage(1, 0x3000, &buf); err != nil {
		t.Fatalf("ReadPage: %v", err)
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("ReadPage of unwritten page: buf[%d] = %#x, want 0", i, b)
		}
	}
}

func TestRAMWritePageThenReadPageRoundTrips(t *testing.T) {
	r := newRAM()

	var want [support.PageSize]byte
	for i := range want {
		want[i] = byte(i)
	}

	if err := r.WritePage(1, 0x4000, &want); err != nil {
		t.Fatalf("WritePage: %v", err)
	}

	var got [support.PageSize]byte
	if err := r.ReadPage(1, 0x4000, &got); err != nil {
		t.Fatalf("ReadPage: %v", err)
	}
	if got != want {
		t.Fatal("ReadPage did not return what WritePage stored")
	}
}

func TestRAMPageOperationsRejectMisalignedAddresses(t *testing.T) {
	r := newRAM()
	var buf [support.PageSize]byte

	if err := r.ReadPage(1, 0x4001, &buf); err == nil {
		t.Fatal("ReadPage accepted a non-page-aligned address")
	}
	if err := r.WritePage(1, 0x4001, &buf); err == nil {
		t.Fatal("WritePage accepted a non-page-aligned address")
	}
}

func TestRAMByteAndPageAccessShareStorage(t *testing.T) {
	r := newRAM()

	if err := r.WriteByte(1, 0x5010, 0x7E); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}

	var buf [support.PageSize]byte
	if err := r.ReadPage(1, 0x5000, &buf); err != nil {
		t.Fatalf("ReadPage: %v", err)
	}
	if buf[0x10] != 0x7E {
		t.Fatalf("ReadPage did not see the byte written by WriteByte: got %#x", buf[0x10])
	}
}
