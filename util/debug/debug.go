/*
 * pandos-core - Log debug data to a file, gated per module by a bitmask.
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

// Package debug gates per-module trace output behind a bitmask, the
// same mechanism the teacher's util/debug package uses, with the
// module list swapped from channel/device/cpu names to this kernel's
// own layers.
package debug

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Module names this kernel's layers register debug masks under
// (spec.md's L0-L3 layering plus the delay daemon).
const (
	ASL   = "asl"   // Active Semaphore List operations
	Sched = "sched" // scheduler dispatch/quantum decisions
	Swap  = "swap"  // page fault / swap pool victim selection
	ADL   = "adl"   // Active Delay List, delay daemon wakeups
	Chan  = "chan"  // device interrupt / channel-program-style I/O
)

var (
	mu      sync.Mutex
	masks   = map[string]int{}
	logFile *os.File
)

// SetMask sets module's bitmask, the target of a "DEBUG module=mask"
// config directive. Unknown modules are rejected rather than silently
// accepted, matching the teacher's RegisterModel/create-not-found
// error path.
func SetMask(module string, mask int) error {
	module = strings.ToLower(module)
	switch module {
	case ASL, Sched, Swap, ADL, Chan:
	default:
		return fmt.Errorf("debug: unknown module %q", module)
	}
	mu.Lock()
	defer mu.Unlock()
	masks[module] = mask
	return nil
}

// SetLogFile directs Debugf output at f; nil disables file output
// (the default, matching the teacher's nil logFile before DEBUGFILE is
// configured).
func SetLogFile(f *os.File) {
	mu.Lock()
	defer mu.Unlock()
	logFile = f
}

// Debugf writes a trace line for module at level if module's
// registered mask has that bit set. A module with no registered mask
// never logs, the same "default off" behavior as the teacher's
// per-device zero mask.
func Debugf(module string, level int, format string, a ...interface{}) {
	mu.Lock()
	mask := masks[module]
	file := logFile
	mu.Unlock()

	if mask&level == 0 || file == nil {
		return
	}
	fmt.Fprintf(file, module+": "+format+"\n", a...)
}
