package kernellog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandleWritesOneLineWithLevelAndMessage(t *testing.T) {
	var file bytes.Buffer
	h := New(&file, nil, true)
	log := slog.New(h)

	log.Warn("pool exhausted", "want", 4, "have", 0)

	line := file.String()
	if !strings.Contains(line, "WARN:") {
		t.Fatalf("line %q missing level", line)
	}
	if !strings.Contains(line, "pool exhausted") {
		t.Fatalf("line %q missing message", line)
	}
	if !strings.Contains(line, "want=4") || !strings.Contains(line, "have=0") {
		t.Fatalf("line %q missing attrs", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Fatal("Handle must terminate the line with a newline")
	}
}

func TestHandleSkipsFileWriteWithNilOut(t *testing.T) {
	h := New(nil, nil, false)
	log := slog.New(h)
	// Must not panic despite no file sink attached.
	log.Info("no file attached")
}

func TestSetDebugForcesInfoLinesToStderrPath(t *testing.T) {
	var file bytes.Buffer
	h := New(&file, nil, false)
	h.SetDebug(true)
	if !h.debug {
		t.Fatal("SetDebug(true) did not take effect")
	}
}

func TestWithAttrsPreservesFileSink(t *testing.T) {
	var file bytes.Buffer
	h := New(&file, nil, true)
	child := h.WithAttrs([]slog.Attr{slog.String("asid", "3")})
	log := slog.New(child)

	log.Error("boom")
	if !strings.Contains(file.String(), "asid=3") {
		t.Fatalf("child handler's attrs did not reach output: %q", file.String())
	}
}
