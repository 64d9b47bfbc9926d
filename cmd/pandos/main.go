/*
 * pandos-core - Main process: boot sequence wiring the Kernel, Support
 * Dispatcher, devices and terminal front-ends into one runnable binary.
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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/pandos/boot"
	"github.com/rcornwell/pandos/config"
	"github.com/rcornwell/pandos/devices"
	"github.com/rcornwell/pandos/kernellog"
	"github.com/rcornwell/pandos/machine"
	"github.com/rcornwell/pandos/monitor"
	"github.com/rcornwell/pandos/nucleus"
	"github.com/rcornwell/pandos/pcb"
	"github.com/rcornwell/pandos/support"
	"github.com/rcornwell/pandos/termfront"
	"github.com/rcornwell/pandos/util/debug"
)

// basePort is the first TCP port a terminal front-end listens on; unit N
// gets basePort+N, the same one-port-per-unit convention the teacher's
// telnet front-ends use per configured console.
const basePort = 7000

func main() {
	optConfig := getopt.StringLong("config", 'c', "pandos.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optImages := getopt.StringLong("images", 'i', "", "Comma-separated asid=path backing-store images to preload")
	optMonitor := getopt.BoolLong("monitor", 'm', "Run the interactive operator console")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if *optLogFile != "" {
		var err error
		logFile, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pandos: creating log file: %v\n", err)
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	logger := slog.New(kernellog.New(logFile, &slog.HandlerOptions{Level: programLevel}, false))

	logger.Info("pandos booting")

	if _, err := os.Stat(*optConfig); os.IsNotExist(err) {
		logger.Error("configuration file not found", "path", *optConfig)
		os.Exit(1)
	}

	cfgFile, err := os.Open(*optConfig)
	if err != nil {
		logger.Error("opening configuration file", "err", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgFile)
	cfgFile.Close()
	if err != nil {
		logger.Error("loading configuration", "err", err)
		os.Exit(1)
	}

	if cfg.DebugFile != "" {
		dbgFile, err := os.Create(cfg.DebugFile)
		if err != nil {
			logger.Error("creating debug file", "err", err)
			os.Exit(1)
		}
		debug.SetLogFile(dbgFile)
		defer dbgFile.Close()
	}

	// There is no resident-kernel image to load: the simulated machine
	// model that would execute one is out of scope here (spec.md 1).
	// This Header reserves one nominal page of OS data after the header
	// record so the swap pool lands at a sensible page-aligned address,
	// standing in for a real image's measured text+data extent.
	osHeader := boot.Header{
		TextStart: boot.OSHeaderAddr + boot.HeaderSize,
		DataStart: boot.OSHeaderAddr + boot.HeaderSize,
		DataSize:  support.PageSize,
	}
	layout := boot.New(boot.KernelStackBase, cfg.RAMSize, cfg.MaxUproc, osHeader.DataEnd())

	clock := machine.NewClock()
	run := newRunner(clock)
	mem := newRAM()
	tlb := machine.NewTLB(16)
	mutexes := support.NewMutexTable()
	pool := support.NewPool(int(layout.SwapPoolSize / support.PageSize))
	delay := &support.ADL{Mutex: 1}

	numFlash := clampDevCount(max(cfg.Flashes, cfg.MaxUproc))
	flashUnits := make([]*devices.Block, numFlash)
	for i := range flashUnits {
		flashUnits[i] = devices.NewBlock(machine.LineFlash, i+1, 2*boot.MaxImageBlocks)
	}
	flashStore := devices.NewFlashBackingStore(flashUnits)

	numDisks := clampDevCount(cfg.Disks)
	disks := make([]*devices.Block, numDisks)
	for i := range disks {
		disks[i] = devices.NewBlock(machine.LineDisk, i, 256)
	}

	numPrinters := clampDevCount(cfg.Printers)
	printers := make([]*devices.Printer, numPrinters)
	for i := range printers {
		out, err := os.Create(fmt.Sprintf("printer%d.out", i))
		if err != nil {
			logger.Warn("creating printer output file, falling back to stdout", "unit", i, "err", err)
			out = os.Stdout
		}
		printers[i] = devices.NewPrinter(i, out)
	}

	numTerminals := clampDevCount(cfg.Terminals)
	terminals := make([]*devices.Terminal, numTerminals)
	for i := range terminals {
		terminals[i] = devices.NewTerminal(nil)
	}

	dispatcher := &support.Dispatcher{}
	kernel := nucleus.New(logger, run, dispatcher, cfg.MaxProc)
	dispatcher.Kernel = kernel
	dispatcher.Mem = mem
	dispatcher.Store = flashStore
	dispatcher.TLB = tlb
	dispatcher.Intr = run
	dispatcher.Pool = pool
	dispatcher.Delay = delay
	dispatcher.Mutexes = mutexes
	for i, d := range disks {
		dispatcher.Disks[i] = d
	}
	for i, f := range flashUnits {
		if i >= machine.DevPerLine {
			break
		}
		dispatcher.Flashes[i] = f
	}
	for i, p := range printers {
		dispatcher.Printers[i] = p
	}
	for i, t := range terminals {
		dispatcher.TermRecv[i] = t
		dispatcher.TermXmit[i] = t
	}

	var stopped atomic.Bool
	exitCode := 0
	kernel.SetTraps(
		func(reason string) {
			logger.Info("kernel halted", "reason", reason)
			stopped.Store(true)
		},
		func(reason string) {
			logger.Error("kernel panicked", "reason", reason)
			exitCode = 1
			stopped.Store(true)
		},
	)

	if *optImages != "" {
		if err := loadImages(flashStore, *optImages); err != nil {
			logger.Error("loading backing-store images", "err", err)
			os.Exit(1)
		}
	}

	for asid := 1; asid <= cfg.MaxUproc; asid++ {
		tlbContext := support.PassupContext{SP: layout.UprocTLBStackAddr(asid), PC: boot.UTextStart}
		generalContext := support.PassupContext{SP: layout.UprocGeneralStackAddr(asid), PC: boot.UTextStart}
		structure := support.NewStructure(asid, tlbContext, generalContext)

		state := pcb.State{PC: boot.UTextStart}
		state.Reg[machine.RegSP] = layout.UprocGeneralStackAddr(asid)

		p := kernel.Boot(state, structure)
		if p == nil {
			logger.Error("PCB pool exhausted while booting U-procs", "asid", asid)
			os.Exit(1)
		}
		structure.PCB = p
	}

	var servers []*termfront.Server
	for i, t := range terminals {
		addr := fmt.Sprintf(":%d", basePort+i)
		srv, err := termfront.Listen(logger, addr, t)
		if err != nil {
			logger.Error("starting terminal front-end", "unit", i, "addr", addr, "err", err)
			continue
		}
		servers = append(servers, srv)
		logger.Info("terminal front-end listening", "unit", i, "addr", addr)
	}

	// Arm the interval timer once before the driver loop starts; every
	// subsequent reload happens inside HandleIntervalTimer itself.
	run.LoadIntervalTimer(machine.ClockIntervalMicros)

	devs := interruptingDevices(terminals, printers, disks, flashUnits)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go driveKernel(kernel, run, dispatcher, devs, &stopped)

	if *optMonitor {
		monitor.Run(&monitorState{kernel: kernel, pool: pool})
		stopped.Store(true)
	} else {
		select {
		case <-sigChan:
			logger.Info("received shutdown signal")
		case <-waitStopped(&stopped):
			logger.Info("kernel run completed")
		}
	}

	for _, srv := range servers {
		srv.Close()
	}
	logger.Info("pandos shut down")
	os.Exit(exitCode)
}

// driveKernel is the single-threaded loop standing in for real hardware:
// each pass advances the simulated clock, fires PLT/interval-timer
// interrupts whose deadlines have passed, drains expired SYS18 sleepers,
// and scans every device model for a latched interrupt -- all on one
// goroutine, so nothing here ever needs to lock against Schedule/Deliver
// running concurrently.
func driveKernel(
	k *nucleus.Kernel,
	run *runner,
	dispatcher *support.Dispatcher,
	devs []machine.Interrupting,
	stopped *atomic.Bool,
) {
	const tick = 1000 // microseconds of simulated time per pass

	for !stopped.Load() {
		run.clock.Advance(tick)
		now := run.clock.Now()

		if run.pltDue(now) {
			k.HandlePLT()
		}
		if run.intervalDue(now) {
			k.HandleIntervalTimer()
		}

		dispatcher.DrainDelays(now)

		for _, d := range devs {
			line, unit, pending := d.Poll()
			if !pending {
				continue
			}
			k.HandleDeviceInterrupt(line, unit, d.Registers().Status)
			d.Registers().Status = 0
		}

		time.Sleep(time.Millisecond)
	}
}

func waitStopped(stopped *atomic.Bool) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		for !stopped.Load() {
			time.Sleep(10 * time.Millisecond)
		}
		close(done)
	}()
	return done
}

// interruptingDevices flattens every device's Interrupting view into one
// scan order: disks, flash units, printers, then each terminal's
// receive/transmit sub-channels -- the same ordering the Dispatcher's
// own per-line arrays use.
func interruptingDevices(
	terminals []*devices.Terminal,
	printers []*devices.Printer,
	disks []*devices.Block,
	flashUnits []*devices.Block,
) []machine.Interrupting {
	var devs []machine.Interrupting
	for _, d := range disks {
		devs = append(devs, d)
	}
	for _, f := range flashUnits {
		devs = append(devs, f)
	}
	for _, p := range printers {
		devs = append(devs, p)
	}
	for i, t := range terminals {
		devs = append(devs, &devices.RecvView{T: t, Unit: i})
		devs = append(devs, &devices.XmitView{T: t, Unit: i})
	}
	return devs
}

// loadImages parses "asid=path[,asid=path...]" and seeds each named
// U-proc's flash backing store from the given flat image file.
func loadImages(store *devices.FlashBackingStore, spec string) error {
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		asidStr, path, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("image spec %q: want asid=path", pair)
		}
		asid, err := strconv.Atoi(strings.TrimSpace(asidStr))
		if err != nil {
			return fmt.Errorf("image spec %q: invalid asid: %w", pair, err)
		}
		f, err := os.Open(strings.TrimSpace(path))
		if err != nil {
			return fmt.Errorf("image spec %q: %w", pair, err)
		}
		_, loadErr := boot.Load(store, asid, f)
		f.Close()
		if loadErr != nil {
			return loadErr
		}
	}
	return nil
}

func clampDevCount(n int) int {
	if n > machine.DevPerLine {
		return machine.DevPerLine
	}
	if n < 0 {
		return 0
	}
	return n
}
