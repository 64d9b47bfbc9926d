package devices

import (
	"bytes"
	"testing"

	"github.com/rcornwell/pandos/machine"
)

func TestTerminalPutCharWritesThrough(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	status, err := term.PutChar('A')
	if err != nil {
		t.Fatalf("PutChar returned %v", err)
	}
	if status != machine.StatusReady {
		t.Fatalf("status = %#x, want StatusReady", status)
	}
	if out.String() != "A" {
		t.Fatalf("out = %q, want %q", out.String(), "A")
	}
}

func TestTerminalGetCharDrainsFedBytes(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)
	term.Feed([]byte("hi"))

	ch, status, err := term.GetChar()
	if err != nil || status != machine.StatusReady || ch != 'h' {
		t.Fatalf("got (%q, %#x, %v), want ('h', StatusReady, nil)", ch, status, err)
	}
	ch, status, err = term.GetChar()
	if err != nil || status != machine.StatusReady || ch != 'i' {
		t.Fatalf("got (%q, %#x, %v), want ('i', StatusReady, nil)", ch, status, err)
	}
}

func TestTerminalGetCharWithNothingPendingReportsNotReady(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	_, status, err := term.GetChar()
	if err != nil {
		t.Fatalf("GetChar returned %v", err)
	}
	if status&machine.StatusReady != 0 {
		t.Fatal("GetChar on an empty terminal must not report StatusReady")
	}
}

func TestTerminalPutCharWithNoSinkReportsNotReady(t *testing.T) {
	term := NewTerminal(nil)

	status, err := term.PutChar('A')
	if err != nil {
		t.Fatalf("PutChar returned %v", err)
	}
	if status&machine.StatusReady != 0 {
		t.Fatal("PutChar with no attached sink must not report StatusReady")
	}
}

func TestTerminalAttachAndDetachSwapSink(t *testing.T) {
	term := NewTerminal(nil)
	var a, b bytes.Buffer

	term.Attach(&a)
	if _, err := term.PutChar('1'); err != nil {
		t.Fatalf("PutChar returned %v", err)
	}
	term.Attach(&b)
	if _, err := term.PutChar('2'); err != nil {
		t.Fatalf("PutChar returned %v", err)
	}
	if a.String() != "1" || b.String() != "2" {
		t.Fatalf("a=%q b=%q, want a=%q b=%q", a.String(), b.String(), "1", "2")
	}

	term.Detach()
	status, _ := term.PutChar('3')
	if status&machine.StatusReady != 0 {
		t.Fatal("PutChar after Detach must not report StatusReady")
	}
}

func TestRecvViewPollReflectsPendingInput(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)
	view := &RecvView{T: term, Unit: 3}

	if _, _, pending := view.Poll(); pending {
		t.Fatal("no input fed yet, Poll must report not pending")
	}
	term.Feed([]byte("x"))
	line, unit, pending := view.Poll()
	if line != machine.TerminalRecvLine || unit != 3 || !pending {
		t.Fatalf("Poll() = (%d, %d, %t), want (%d, 3, true)", line, unit, pending, machine.TerminalRecvLine)
	}
}

func TestXmitViewPollReflectsLastWrite(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)
	view := &XmitView{T: term, Unit: 2}

	if _, _, pending := view.Poll(); pending {
		t.Fatal("before any write, Poll must report not pending")
	}
	if _, err := term.PutChar('z'); err != nil {
		t.Fatalf("PutChar returned %v", err)
	}
	line, unit, pending := view.Poll()
	if line != machine.TerminalXmitLine || unit != 2 || !pending {
		t.Fatal("after a successful write, Poll must report pending on the xmit line")
	}
}
