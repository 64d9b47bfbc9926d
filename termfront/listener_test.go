package termfront

import (
	"bytes"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/rcornwell/pandos/devices"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

func dial(t *testing.T, addr net.Addr) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	return conn
}

func readAtLeast(t *testing.T, conn net.Conn, n int) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 256)
	got := 0
	for got < n {
		m, err := conn.Read(buf[got:])
		if err != nil {
			t.Fatalf("Read: %v (got %d of %d bytes: %q)", err, got, n, buf[:got])
		}
		got += m
	}
	return buf[:got]
}

func TestListenSendsNegotiationOnConnect(t *testing.T) {
	term := devices.NewTerminal(nil)
	srv, err := Listen(newTestLogger(), "127.0.0.1:0", term)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()

	conn := dial(t, srv.Addr())
	defer conn.Close()

	got := readAtLeast(t, conn, len(initString))
	if !bytes.Equal(got[:len(initString)], initString) {
		t.Fatalf("negotiation = %v, want %v", got[:len(initString)], initString)
	}
}

func TestListenFeedsDataIntoTerminal(t *testing.T) {
	term := devices.NewTerminal(nil)
	srv, err := Listen(newTestLogger(), "127.0.0.1:0", term)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()

	conn := dial(t, srv.Addr())
	defer conn.Close()
	readAtLeast(t, conn, len(initString))

	if _, err := conn.Write([]byte("hi")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		ch, status, _ := term.GetChar()
		if status != 0 && ch == 'h' {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for fed byte to reach the terminal")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestListenStripsTelnetOptionsBeforeFeeding(t *testing.T) {
	term := devices.NewTerminal(nil)
	srv, err := Listen(newTestLogger(), "127.0.0.1:0", term)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()

	conn := dial(t, srv.Addr())
	defer conn.Close()
	readAtLeast(t, conn, len(initString))

	msg := append([]byte{iac, will, 31}, 'Q')
	if _, err := conn.Write(msg); err != nil {
		t.Fatalf("Write: %v", err)
	}

	readAtLeast(t, conn, 3) // the IAC DONT 31 refusal reply

	deadline := time.Now().Add(2 * time.Second)
	for {
		ch, status, _ := term.GetChar()
		if status != 0 {
			if ch != 'Q' {
				t.Fatalf("terminal received %q, want %q (option bytes must not leak through)", ch, 'Q')
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for fed byte to reach the terminal")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestListenRefusesSecondSimultaneousConnection(t *testing.T) {
	term := devices.NewTerminal(nil)
	srv, err := Listen(newTestLogger(), "127.0.0.1:0", term)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()

	first := dial(t, srv.Addr())
	defer first.Close()
	readAtLeast(t, first, len(initString))

	second := dial(t, srv.Addr())
	defer second.Close()
	got := readAtLeast(t, second, len(busyMessage))
	if !bytes.Equal(got, busyMessage) {
		t.Fatalf("second connection got %q, want %q", got, busyMessage)
	}
}

func TestListenAllowsReconnectAfterFirstDisconnects(t *testing.T) {
	term := devices.NewTerminal(nil)
	srv, err := Listen(newTestLogger(), "127.0.0.1:0", term)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()

	first := dial(t, srv.Addr())
	readAtLeast(t, first, len(initString))
	first.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		second, err := net.Dial("tcp", srv.Addr().String())
		if err != nil {
			t.Fatalf("Dial: %v", err)
		}
		buf := make([]byte, len(initString))
		second.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, _ := second.Read(buf)
		second.Close()
		if n > 0 && bytes.Equal(buf[:n], initString[:n]) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for the terminal to accept a reconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCloseStopsAcceptingNewConnections(t *testing.T) {
	term := devices.NewTerminal(nil)
	srv, err := Listen(newTestLogger(), "127.0.0.1:0", term)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	addr := srv.Addr()
	srv.Close()

	if _, err := net.Dial("tcp", addr.String()); err == nil {
		t.Fatal("dial succeeded after Close, want connection refused")
	}
}
