package hex

import (
	"strings"
	"testing"
)

func TestFormatWord(t *testing.T) {
	var b strings.Builder
	FormatWord(&b, []uint32{0x00000000, 0xDEADBEEF})
	want := "00000000 DEADBEEF "
	if b.String() != want {
		t.Fatalf("FormatWord = %q, want %q", b.String(), want)
	}
}

func TestFormatHalfWithSpacing(t *testing.T) {
	var b strings.Builder
	FormatHalf(&b, true, []uint16{0x00AB, 0x1234})
	want := "00AB 1234 "
	if b.String() != want {
		t.Fatalf("FormatHalf = %q, want %q", b.String(), want)
	}
}

func TestFormatHalfWithoutSpacing(t *testing.T) {
	var b strings.Builder
	FormatHalf(&b, false, []uint16{0x00AB, 0x1234})
	want := "00AB1234 "
	if b.String() != want {
		t.Fatalf("FormatHalf = %q, want %q", b.String(), want)
	}
}

func TestFormatBytes(t *testing.T) {
	var b strings.Builder
	FormatBytes(&b, true, []byte{0x01, 0xFF})
	want := "01 FF "
	if b.String() != want {
		t.Fatalf("FormatBytes = %q, want %q", b.String(), want)
	}
}

func TestFormatByte(t *testing.T) {
	var b strings.Builder
	FormatByte(&b, 0x3C)
	if b.String() != "3C" {
		t.Fatalf("FormatByte = %q, want %q", b.String(), "3C")
	}
}

func TestFormatDigit(t *testing.T) {
	var b strings.Builder
	FormatDigit(&b, 0x1F)
	if b.String() != "F" {
		t.Fatalf("FormatDigit = %q, want %q", b.String(), "F")
	}
}
