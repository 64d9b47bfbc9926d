package devices

import (
	"bytes"
	"testing"

	"github.com/rcornwell/pandos/machine"
)

func TestPrinterFlushesOnNewline(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(0, &out)

	for _, ch := range []byte("ok\n") {
		if _, err := p.PutChar(ch); err != nil {
			t.Fatalf("PutChar(%q) returned %v", ch, err)
		}
	}
	if out.String() != "ok\n" {
		t.Fatalf("out = %q, want %q", out.String(), "ok\n")
	}
}

func TestPrinterDoesNotFlushBeforeNewline(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(0, &out)

	if _, err := p.PutChar('a'); err != nil {
		t.Fatalf("PutChar returned %v", err)
	}
	if out.Len() != 0 {
		t.Fatal("printer must not flush mid-line")
	}
}

func TestPrinterGetCharIsAlwaysNotReady(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(0, &out)

	_, status, err := p.GetChar()
	if err != nil {
		t.Fatalf("GetChar returned %v", err)
	}
	if status&machine.StatusReady != 0 {
		t.Fatal("a write-only printer's GetChar must never report StatusReady")
	}
}

func TestPrinterPollLineAndUnit(t *testing.T) {
	p := NewPrinter(4, &bytes.Buffer{})
	line, unit, _ := p.Poll()
	if line != machine.LinePrinter || unit != 4 {
		t.Fatalf("Poll() line/unit = %d/%d, want %d/4", line, unit, machine.LinePrinter)
	}
}
