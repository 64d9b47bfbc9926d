package monitor

import "testing"

type fakeState struct{}

func (fakeState) PoolStatus() string  { return "pool: 3/20 live" }
func (fakeState) ASLStatus() string   { return "asl: 1 waiter" }
func (fakeState) SwapStatus() string  { return "swap: 2/16 frames occupied" }
func (fakeState) ReadyStatus() string { return "ready: 4 pcbs" }

func TestProcessCommandShowPool(t *testing.T) {
	quit, out, err := ProcessCommand("show pool", fakeState{})
	if err != nil {
		t.Fatalf("ProcessCommand: %v", err)
	}
	if quit {
		t.Fatal("show must not quit")
	}
	if out != "pool: 3/20 live" {
		t.Fatalf("output = %q, want pool status", out)
	}
}

func TestProcessCommandShowAbbreviated(t *testing.T) {
	_, out, err := ProcessCommand("sh asl", fakeState{})
	if err != nil {
		t.Fatalf("ProcessCommand: %v", err)
	}
	if out != "asl: 1 waiter" {
		t.Fatalf("output = %q, want asl status", out)
	}
}

func TestProcessCommandUnknownCommandErrors(t *testing.T) {
	if _, _, err := ProcessCommand("bogus", fakeState{}); err == nil {
		t.Fatal("ProcessCommand with an unknown command must error")
	}
}

func TestProcessCommandUnknownShowTargetErrors(t *testing.T) {
	if _, _, err := ProcessCommand("show nope", fakeState{}); err == nil {
		t.Fatal("show with an unknown target must error")
	}
}

func TestProcessCommandQuit(t *testing.T) {
	quit, _, err := ProcessCommand("quit", fakeState{})
	if err != nil {
		t.Fatalf("ProcessCommand: %v", err)
	}
	if !quit {
		t.Fatal("quit must report quit=true")
	}
}

func TestProcessCommandHelp(t *testing.T) {
	quit, out, err := ProcessCommand("help", fakeState{})
	if err != nil || quit || out == "" {
		t.Fatalf("help returned (%v, %q, %v), want (false, non-empty, nil)", quit, out, err)
	}
}

func TestCompleteCmdCompletesCommandName(t *testing.T) {
	matches := CompleteCmd("sh")
	if len(matches) != 1 || matches[0] != "show" {
		t.Fatalf("CompleteCmd(%q) = %v, want [show]", "sh", matches)
	}
}

func TestCompleteCmdCompletesShowTarget(t *testing.T) {
	matches := CompleteCmd("show po")
	found := false
	for _, m := range matches {
		if m == "pool " {
			found = true
		}
	}
	if !found {
		t.Fatalf("CompleteCmd(%q) = %v, want it to include \"pool \"", "show po", matches)
	}
}

func TestEmptyCommandLineErrors(t *testing.T) {
	// show/help/quit share no overlapping prefixes, so the ambiguous-
	// prefix error cannot be reached through the command table; this
	// checks that an empty line matches no command and errors.
	if _, _, err := ProcessCommand("", fakeState{}); err == nil {
		t.Fatal("an empty command line must error, not silently match everything")
	}
}
