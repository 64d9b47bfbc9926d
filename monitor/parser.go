/*
 * pandos-core - Monitor command parser: abbreviation-matched commands
 * over a read-only view of kernel state.
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

// Package monitor is an interactive, liner-backed console for
// inspecting kernel state (PCB pool occupancy, ASL contents, swap-pool
// frame table, ready-queue depth) while the scheduler runs, mirroring
// the teacher's command console -- trimmed from a device-attach/detach
// console down to read-only inspection, since nothing in this kernel
// is a peripheral the operator configures at runtime.
package monitor

import (
	"errors"
	"strings"
	"unicode"
)

// State is the read-only view into running kernel state the monitor's
// show command reads from; cmd/pandos/state.go's monitorState supplies the concrete
// implementation wired to the live Kernel/ASL/swap pool.
type State interface {
	PoolStatus() string
	ASLStatus() string
	SwapStatus() string
	ReadyStatus() string
}

type cmd struct {
	name     string
	min      int // minimum unambiguous prefix length, same abbreviation rule as the teacher's command table
	process  func(*cmdLine, State) (quit bool, output string, err error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "show", min: 2, process: show, complete: showComplete},
	{name: "help", min: 1, process: help},
	{name: "quit", min: 1, process: quit},
}

var showTargets = map[string]func(State) string{
	"pool":  func(s State) string { return s.PoolStatus() },
	"asl":   func(s State) string { return s.ASLStatus() },
	"swap":  func(s State) string { return s.SwapStatus() },
	"ready": func(s State) string { return s.ReadyStatus() },
}

// ProcessCommand executes one command line against state, returning
// whatever text the command produced (printed by the caller) and
// whether the console loop should exit.
func ProcessCommand(commandLine string, state State) (quit bool, output string, err error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	switch len(match) {
	case 0:
		return false, "", errors.New("command not found: " + name)
	case 1:
		return match[0].process(&line, state)
	default:
		return false, "", errors.New("ambiguous command: " + name)
	}
}

// CompleteCmd drives liner's tab completion, the same split between
// completing a bare command name and delegating to a per-command
// completer as the teacher's CompleteCmd.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() && line.line[line.pos] == ' ' {
		line.skipSpace()
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(&line)
	}

	match := matchList(name)
	names := make([]string, len(match))
	for i, m := range match {
		names[i] = m.name
	}
	return names
}

func matchCommand(m cmd, name string) bool {
	if len(name) > len(m.name) {
		return false
	}
	for i := range name {
		if name[i] != m.name[i] {
			return false
		}
	}
	return len(name) >= m.min
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, name) {
			match = append(match, m)
		}
	}
	return match
}

func (l *cmdLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

func (l *cmdLine) getWord() string {
	l.skipSpace()
	if l.isEOL() {
		return ""
	}
	start := l.pos
	for l.pos < len(l.line) && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return strings.ToLower(l.line[start:l.pos])
}

func show(line *cmdLine, state State) (bool, string, error) {
	target := line.getWord()
	fn, ok := showTargets[target]
	if !ok {
		return false, "", errors.New("unknown show target: " + target)
	}
	return false, fn(state), nil
}

func showComplete(line *cmdLine) []string {
	prefix := line.getWord()
	var matches []string
	for name := range showTargets {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name+" ")
		}
	}
	return matches
}

func help(*cmdLine, State) (bool, string, error) {
	return false, "commands: show pool|asl|swap|ready, help, quit", nil
}

func quit(*cmdLine, State) (bool, string, error) {
	return true, "", nil
}
