/*
 * pandos-core - General exception dispatch and the passup-or-die policy.
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

package nucleus

import "github.com/rcornwell/pandos/pcb"

// PassupOrDie is spec.md 4.6: TLB-Mod/Invld, Program Traps, and SYS >= 9
// all funnel here. A process with a Support Structure gets the exception
// delivered to its Support-level handler; a process with none is simply
// terminated, since there is nobody to hand the trap to.
func (k *Kernel) PassupOrDie(current *pcb.PCB, kind PassupKind, state *pcb.State) {
	if current.Support() != nil {
		k.Passup.Deliver(current, kind, state)
		return
	}
	k.SysTerminateProcess(current)
}

// HandleTLBException is the TLB-Mod/TLB-Invld trap (spec.md 4.6):
// always a passup-or-die case, never a Nucleus-level fix-up. The
// TLB-refill-miss exception is instead resolved entirely within the
// Support level's own exception vector and never reaches here.
func (k *Kernel) HandleTLBException(current *pcb.PCB, state *pcb.State) {
	k.PassupOrDie(current, PassupTLB, state)
}

// HandleProgramTrap is the Program Trap exception (spec.md 4.6):
// arithmetic overflow, reserved instruction outside a syscall, address
// error, and the like.
func (k *Kernel) HandleProgramTrap(current *pcb.PCB, state *pcb.State) {
	k.PassupOrDie(current, PassupGeneral, state)
}

// ValidSyscall reports whether number is one of SYS1-8 issued from
// kernel mode, the only case the Nucleus services directly (spec.md
// 4.4). A driver layer decodes the syscall's register arguments and
// calls the matching typed Sys* method itself; this just gates that
// call. Anything else -- SYS >= 9, or SYS1-8 attempted from user mode
// -- is a Program Trap, passed up or killed per spec.md 4.6.
func (k *Kernel) ValidSyscall(number int, kernelMode bool) bool {
	return kernelMode && number >= SysCreateProcess && number <= SysGetSupportPtr
}
