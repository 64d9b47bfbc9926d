/*
 * pandos-core - Device mutex table for SYS11-17 mutual exclusion.
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

package support

import "github.com/rcornwell/pandos/machine"

// MutexTable is the DEVINTNUM*DEVPERLINE table of binary semaphores
// U-procs P/V to serialize access to a device sub-channel across
// SYS11-17 (spec.md 3, 4.8). Distinct from the Nucleus's own per-device
// semaphores, which only ever count interrupt arrivals: a U-proc holds
// one of these for the whole "issue command, WaitIO, read result"
// sequence, never just across a single WaitIO.
type MutexTable struct {
	sems [machine.DevIntNum * machine.DevPerLine]int
}

// NewMutexTable returns a table with every mutex unlocked (value 1, the
// usual binary-semaphore convention: P blocks only when it has already
// been taken).
func NewMutexTable() *MutexTable {
	t := &MutexTable{}
	for i := range t.sems {
		t.sems[i] = 1
	}
	return t
}

// Sem returns the address of the mutex guarding device `unit` on
// `line`, for use with nucleus Kernel.Acquire/Release.
func (t *MutexTable) Sem(line, unit int) *int {
	return &t.sems[machine.DeviceIndex(line, unit)]
}

// SemAt returns the mutex at a flat machine.DeviceIndex value, used by
// SYS9 termination cleanup which tracks held mutexes by that index.
func (t *MutexTable) SemAt(idx int) *int {
	return &t.sems[idx]
}
