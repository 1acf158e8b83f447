package signature

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/danmuck/aeprobe/internal/testutil/testlog"
)

func chunkWithMagic(at int, sig [7]byte, build byte) []byte {
	chunk := make([]byte, ChunkSize)
	copy(chunk[at:], Magic[:])
	copy(chunk[SignatureOffset:], sig[:])
	chunk[BuildOffset] = build
	return chunk
}

func TestScanExtractsChunkRelativeSignature(t *testing.T) {
	testlog.Start(t)

	chunk := chunkWithMagic(10, [7]byte{1, 2, 3, 4, 5, 6, 7}, 0x05)
	m, err := Scan(bytes.NewReader(chunk))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !m.Found {
		t.Fatalf("expected match")
	}
	if m.Signature.Hex() != "01020304050607" {
		t.Fatalf("unexpected signature: %s", m.Signature.Hex())
	}
	if m.Build != 5 {
		t.Fatalf("unexpected build: %d", m.Build)
	}
	if m.MagicIndex != 10 || m.ChunkOffset != 0 {
		t.Fatalf("unexpected position: index=%d offset=%d", m.MagicIndex, m.ChunkOffset)
	}
}

func TestScanStopsAtFirstMatchingChunk(t *testing.T) {
	testlog.Start(t)

	var data []byte
	data = append(data, make([]byte, ChunkSize)...)
	data = append(data, chunkWithMagic(0, [7]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x11}, 9)...)
	data = append(data, chunkWithMagic(0, [7]byte{}, 1)...)

	m, err := Scan(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !m.Found || m.ChunkOffset != ChunkSize || m.Build != 9 {
		t.Fatalf("unexpected match: %+v", m)
	}
	if m.BytesRead != 2*ChunkSize {
		t.Fatalf("expected scan to stop after second chunk, read=%d", m.BytesRead)
	}
}

func TestScanNotFound(t *testing.T) {
	testlog.Start(t)

	m, err := Scan(bytes.NewReader(bytes.Repeat([]byte("x"), 3*ChunkSize+7)))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if m.Found {
		t.Fatalf("unexpected match: %+v", m)
	}
	if m.BytesRead != 3*ChunkSize+7 {
		t.Fatalf("unexpected bytes read: %d", m.BytesRead)
	}

	m, err = Scan(bytes.NewReader(nil))
	if err != nil || m.Found {
		t.Fatalf("empty stream: %+v %v", m, err)
	}
}

// Known limitation: chunks do not overlap, so a magic split across two
// chunks is not detected even though the bytes are present in the stream.
func TestScanMissesMagicAcrossChunkBoundary(t *testing.T) {
	testlog.Start(t)

	data := make([]byte, 2*ChunkSize)
	copy(data[ChunkSize-2:], Magic[:])
	m, err := Scan(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if m.Found {
		t.Fatalf("straddling magic must not match: %+v", m)
	}
}

// Known limitation: offsets are chunk-relative, so a magic at the end of a
// chunk reads the bytes before it rather than the bytes that follow.
func TestScanOffsetsAreChunkRelative(t *testing.T) {
	testlog.Start(t)

	chunk := make([]byte, ChunkSize)
	copy(chunk[33:], Magic[:])
	chunk[BuildOffset] = 0x42
	next := bytes.Repeat([]byte{0xff}, ChunkSize)

	m, err := Scan(bytes.NewReader(append(chunk, next...)))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !m.Found {
		t.Fatalf("expected match")
	}
	want := Signature{0x00, 0x68, 0x65, 0x61, 0x64, 0x00, 0x00}
	if m.Signature != want || m.Build != 0x42 {
		t.Fatalf("expected chunk-relative extraction, got sig=%s build=%#x", m.Signature.Hex(), m.Build)
	}
}

func TestScanShortTrailingChunk(t *testing.T) {
	testlog.Start(t)

	data := append(make([]byte, ChunkSize), Magic[:]...)
	m, err := Scan(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if m.Found {
		t.Fatalf("short chunk cannot carry a signature: %+v", m)
	}
}

func TestScanReadsInBoundedChunks(t *testing.T) {
	testlog.Start(t)

	// One-byte reads exercise ReadFull reassembling full chunks.
	chunk := chunkWithMagic(3, [7]byte{9, 8, 7, 6, 5, 4, 3}, 2)
	data := append(bytes.Repeat([]byte{0}, 5*ChunkSize), chunk...)
	m, err := Scan(iotest.OneByteReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !m.Found || m.ChunkOffset != 5*ChunkSize || m.Signature.Hex() != "09080706050403" {
		t.Fatalf("unexpected match: %+v", m)
	}
}

func TestScanIOError(t *testing.T) {
	testlog.Start(t)

	r := io.MultiReader(bytes.NewReader(make([]byte, ChunkSize)), iotest.ErrReader(errors.New("bad sector")))
	_, err := Scan(r)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestParseHex(t *testing.T) {
	testlog.Start(t)

	sig, err := ParseHex("0102030405 0607")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sig != (Signature{1, 2, 3, 4, 5, 6, 7}) {
		t.Fatalf("unexpected signature: %v", sig)
	}
	for _, bad := range []string{"", "0102", "0102030405060708", "zz02030405060708"[:14], "010203040506"} {
		if _, err := ParseHex(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
