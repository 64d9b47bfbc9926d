/*
 * pandos-core - Boot configuration file parser.
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

// Package config parses the boot configuration file: one
// "KEYWORD value..." directive per line, blank lines and '#' comments
// ignored, the same tokenizer shape as the teacher's
// config/configparser (bufio.Scanner, strings.Fields) trimmed down
// from its device-model grammar to this kernel's flat keyword set.
package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rcornwell/pandos/util/debug"
)

// Config is every boot-time tunable this kernel reads from a
// configuration file, defaulted to the values spec.md's examples use.
type Config struct {
	MaxProc  int    // PCB pool size
	MaxUproc int    // U-proc count, Support Structure pool size
	RAMSize  uint32 // bytes of simulated RAM

	Terminals int // one TCP front-end + one Terminal per unit
	Printers  int
	Disks     int
	Flashes   int // one flash unit per ASID, plus spares

	DebugFile string // "" means no debug trace file
}

// Default returns the configuration spec.md's worked examples assume.
func Default() Config {
	return Config{
		MaxProc:   20,
		MaxUproc:  8,
		RAMSize:   16 * 1024 * 1024,
		Terminals: 8,
		Printers:  8,
		Disks:     8,
		Flashes:   8,
	}
}

type directive func(*Config, []string, int) error

var directives = map[string]directive{
	"MAXPROC":   setMaxProc,
	"MAXUPROC":  setMaxUproc,
	"RAMSIZE":   setRAMSize,
	"TERMINALS": setTerminals,
	"PRINTERS":  setPrinters,
	"DISKS":     setDisks,
	"FLASHES":   setFlashes,
	"DEBUGFILE": setDebugFile,
	"DEBUG":     setDebug,
}

// Load reads directives from r into a Default configuration and
// returns it, the same one-pass line reader shape as the teacher's
// LoadConfigFile.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		keyword := strings.ToUpper(fields[0])
		fn, ok := directives[keyword]
		if !ok {
			return cfg, fmt.Errorf("config: unknown directive %q, line %d", fields[0], lineNumber)
		}
		if err := fn(&cfg, fields[1:], lineNumber); err != nil {
			return cfg, err
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: reading configuration: %w", err)
	}
	return cfg, nil
}

func requireOne(args []string, keyword string, line int) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("config: %s requires exactly one value, line %d", keyword, line)
	}
	return args[0], nil
}

func parseIntArg(args []string, keyword string, line int) (int, error) {
	value, err := requireOne(args, keyword, line)
	if err != nil {
		return 0, err
	}
	n, perr := strconv.Atoi(value)
	if perr != nil {
		return 0, fmt.Errorf("config: %s value %q is not a number, line %d", keyword, value, line)
	}
	return n, nil
}

func setMaxProc(cfg *Config, args []string, line int) error {
	n, err := parseIntArg(args, "MAXPROC", line)
	if err != nil {
		return err
	}
	cfg.MaxProc = n
	return nil
}

func setMaxUproc(cfg *Config, args []string, line int) error {
	n, err := parseIntArg(args, "MAXUPROC", line)
	if err != nil {
		return err
	}
	cfg.MaxUproc = n
	return nil
}

func setRAMSize(cfg *Config, args []string, line int) error {
	value, err := requireOne(args, "RAMSIZE", line)
	if err != nil {
		return err
	}
	n, perr := parseSizeSuffix(value)
	if perr != nil {
		return fmt.Errorf("config: RAMSIZE value %q invalid, line %d: %w", value, line, perr)
	}
	cfg.RAMSize = n
	return nil
}

// parseSizeSuffix accepts a bare byte count or one suffixed with K or
// M (1024/1024*1024 multiplier), the same shorthand spec.md's grammar
// note for <address> ::= ... <number><K|M> describes.
func parseSizeSuffix(value string) (uint32, error) {
	mult := uint64(1)
	switch {
	case strings.HasSuffix(value, "K"), strings.HasSuffix(value, "k"):
		mult = 1024
		value = value[:len(value)-1]
	case strings.HasSuffix(value, "M"), strings.HasSuffix(value, "m"):
		mult = 1024 * 1024
		value = value[:len(value)-1]
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n * mult), nil
}

func setTerminals(cfg *Config, args []string, line int) error {
	n, err := parseIntArg(args, "TERMINALS", line)
	if err != nil {
		return err
	}
	cfg.Terminals = n
	return nil
}

func setPrinters(cfg *Config, args []string, line int) error {
	n, err := parseIntArg(args, "PRINTERS", line)
	if err != nil {
		return err
	}
	cfg.Printers = n
	return nil
}

func setDisks(cfg *Config, args []string, line int) error {
	n, err := parseIntArg(args, "DISKS", line)
	if err != nil {
		return err
	}
	cfg.Disks = n
	return nil
}

func setFlashes(cfg *Config, args []string, line int) error {
	n, err := parseIntArg(args, "FLASHES", line)
	if err != nil {
		return err
	}
	cfg.Flashes = n
	return nil
}

func setDebugFile(cfg *Config, args []string, line int) error {
	value, err := requireOne(args, "DEBUGFILE", line)
	if err != nil {
		return err
	}
	cfg.DebugFile = value
	return nil
}

// setDebug implements "DEBUG module=mask", tying straight into
// util/debug.SetMask -- the config package's only directive with a
// side effect outside the returned Config, mirroring the teacher's
// config/debugconfig package wiring DEBUG lines straight into
// util/debug.
func setDebug(_ *Config, args []string, line int) error {
	value, err := requireOne(args, "DEBUG", line)
	if err != nil {
		return err
	}
	module, maskStr, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("config: DEBUG directive needs module=mask, line %d", line)
	}
	mask, perr := strconv.ParseInt(maskStr, 0, 64)
	if perr != nil {
		return fmt.Errorf("config: DEBUG mask %q invalid, line %d: %w", maskStr, line, perr)
	}
	return debug.SetMask(module, int(mask))
}
