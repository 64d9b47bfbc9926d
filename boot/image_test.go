package boot

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rcornwell/pandos/support"
)

type fakeWriter struct {
	blocks map[uint32][support.PageSize]byte
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{blocks: map[uint32][support.PageSize]byte{}}
}

func (w *fakeWriter) WriteBlock(asid int, block uint32, buf *[support.PageSize]byte) error {
	w.blocks[block] = *buf
	return nil
}

func TestLoadWritesWholeBlocksSequentially(t *testing.T) {
	w := newFakeWriter()
	var page0, page1 [support.PageSize]byte
	for i := range page0 {
		page0[i] = 0xAA
	}
	for i := range page1 {
		page1[i] = 0xBB
	}
	src := bytes.NewBuffer(append(append([]byte{}, page0[:]...), page1[:]...))

	n, err := Load(w, 1, src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 2 {
		t.Fatalf("Load returned %d blocks, want 2", n)
	}
	if w.blocks[0] != page0 || w.blocks[1] != page1 {
		t.Fatal("blocks written out of order or corrupted")
	}
}

func TestLoadZeroPadsShortFinalBlock(t *testing.T) {
	w := newFakeWriter()
	short := bytes.Repeat([]byte{0x42}, 10)
	src := bytes.NewBuffer(short)

	n, err := Load(w, 1, src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 1 {
		t.Fatalf("Load returned %d blocks, want 1", n)
	}
	got := w.blocks[0]
	for i := 0; i < 10; i++ {
		if got[i] != 0x42 {
			t.Fatalf("byte %d = %#x, want 0x42", i, got[i])
		}
	}
	for i := 10; i < support.PageSize; i++ {
		if got[i] != 0 {
			t.Fatalf("byte %d = %#x, want zero padding", i, got[i])
		}
	}
}

func TestLoadStopsAtMaxImageBlocks(t *testing.T) {
	w := newFakeWriter()
	src := bytes.NewBuffer(bytes.Repeat([]byte{1}, (MaxImageBlocks+5)*support.PageSize))

	n, err := Load(w, 1, src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != MaxImageBlocks {
		t.Fatalf("Load returned %d blocks, want %d (capped)", n, MaxImageBlocks)
	}
}

type erroringReader struct{ err error }

func (r erroringReader) Read([]byte) (int, error) { return 0, r.err }

func TestLoadPropagatesReadErrors(t *testing.T) {
	w := newFakeWriter()
	wantErr := errors.New("disk fault")

	_, err := Load(w, 1, erroringReader{err: wantErr})
	if err == nil || !errors.Is(err, wantErr) {
		t.Fatalf("Load error = %v, want wrapping %v", err, wantErr)
	}
}
