package debug

import (
	"os"
	"strings"
	"testing"
)

func TestSetMaskRejectsUnknownModule(t *testing.T) {
	if err := SetMask("bogus", 1); err == nil {
		t.Fatal("SetMask with an unregistered module name must error")
	}
}

func TestDebugfSkipsWithNoLogFile(t *testing.T) {
	SetLogFile(nil)
	if err := SetMask(Sched, 0xFF); err != nil {
		t.Fatalf("SetMask: %v", err)
	}
	// Must not panic with no file attached.
	Debugf(Sched, 0x1, "dispatch %d", 7)
}

func TestDebugfGatesOnMaskBits(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "debug")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()
	SetLogFile(f)
	defer SetLogFile(nil)

	if err := SetMask(ADL, 0x2); err != nil {
		t.Fatalf("SetMask: %v", err)
	}
	Debugf(ADL, 0x1, "should not appear")
	Debugf(ADL, 0x2, "wakeup asid=%d", 3)

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := string(data)
	if strings.Contains(got, "should not appear") {
		t.Fatalf("output %q contains a line whose bit was not set", got)
	}
	if !strings.Contains(got, "wakeup asid=3") {
		t.Fatalf("output %q missing the expected line", got)
	}
}
