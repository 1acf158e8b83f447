// Package signature locates the version signature inside a binary project container.
//
// The container is read in sequential, non-overlapping 40-byte chunks. The first
// chunk that contains the magic "head" carries a 7-byte signature at chunk
// offset 32 and a build byte at chunk offset 39. Offsets are relative to the
// chunk start, not to the magic, so a magic that straddles a chunk boundary is
// never seen and a magic found late in a short trailing chunk yields nothing.
// Both behaviours are kept as-is for compatibility with existing catalogs.
package signature

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

const (
	ChunkSize       = 40
	SignatureOffset = 32
	SignatureLen    = 7
	BuildOffset     = 39
)

// Magic is the ASCII "head" marker.
var Magic = [4]byte{0x68, 0x65, 0x61, 0x64}

var ErrIO = errors.New("signature: stream unreadable")

// Signature is the raw 7-byte version signature.
type Signature [SignatureLen]byte

func (s Signature) Hex() string {
	return hex.EncodeToString(s[:])
}

func (s Signature) String() string {
	return s.Hex()
}

// ParseHex decodes a hex signature; whitespace between digits is ignored.
func ParseHex(raw string) (Signature, error) {
	clean := bytes.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, []byte(raw))
	var sig Signature
	if hex.DecodedLen(len(clean)) != SignatureLen {
		return sig, fmt.Errorf("signature: want %d bytes, got %q", SignatureLen, raw)
	}
	if _, err := hex.Decode(sig[:], clean); err != nil {
		return sig, fmt.Errorf("signature: bad hex %q: %w", raw, err)
	}
	return sig, nil
}

// Match is the outcome of a scan. Found is false when the stream ended
// without a usable magic chunk.
type Match struct {
	Found     bool
	Signature Signature
	Build     uint8
	// ChunkOffset is the absolute stream offset of the matching chunk.
	ChunkOffset int64
	// MagicIndex is the magic's position inside that chunk.
	MagicIndex int
	// BytesRead counts bytes consumed from the stream.
	BytesRead int64
}

// Scan reads r chunk by chunk until the first magic chunk or EOF.
// Memory use is one chunk regardless of stream size.
func Scan(r io.Reader) (Match, error) {
	var chunk [ChunkSize]byte
	var offset int64
	for {
		n, err := io.ReadFull(r, chunk[:])
		if n > 0 {
			if m, ok := matchChunk(chunk[:n]); ok {
				m.ChunkOffset = offset
				m.BytesRead = offset + int64(n)
				log.Debug().Msgf("signature.Scan found chunk_offset=%d magic_index=%d sig=%s build=%d",
					m.ChunkOffset, m.MagicIndex, m.Signature.Hex(), m.Build)
				return m, nil
			}
			offset += int64(n)
		}
		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			log.Debug().Msgf("signature.Scan not found bytes=%d", offset)
			return Match{BytesRead: offset}, nil
		default:
			return Match{BytesRead: offset}, fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
}

// matchChunk extracts the chunk-relative signature when chunk holds the magic.
// A short chunk that cannot reach BuildOffset never matches.
func matchChunk(chunk []byte) (Match, bool) {
	idx := bytes.Index(chunk, Magic[:])
	if idx < 0 || len(chunk) <= BuildOffset {
		return Match{}, false
	}
	m := Match{Found: true, MagicIndex: idx, Build: chunk[BuildOffset]}
	copy(m.Signature[:], chunk[SignatureOffset:SignatureOffset+SignatureLen])
	return m, true
}
