package boot

import "testing"

func TestHeaderEncodeParseRoundTrip(t *testing.T) {
	h := Header{
		TextStart: UTextStart,
		TextSize:  0x1000,
		DataStart: UTextStart + 0x1000,
		DataSize:  0x2000,
		EntryPC:   UTextStart,
	}

	got, err := ParseHeader(h.Encode())
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if got != h {
		t.Fatalf("got %+v, want %+v", got, h)
	}
}

func TestHeaderDataEnd(t *testing.T) {
	h := Header{DataStart: 0x20002000, DataSize: 0x500}
	if h.DataEnd() != 0x20002500 {
		t.Fatalf("DataEnd() = %#x, want %#x", h.DataEnd(), 0x20002500)
	}
}

func TestParseHeaderTooShortErrors(t *testing.T) {
	if _, err := ParseHeader(make([]byte, HeaderSize-1)); err == nil {
		t.Fatal("ParseHeader with a short buffer must error")
	}
}
