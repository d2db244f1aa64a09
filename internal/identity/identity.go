// Package identity computes stable book identifiers and normalizes the
// free-text creator and subject fields extracted from EPUB metadata.
//
// Hashing follows the donor lineage's contract: a deterministic,
// non-cryptographic 64-bit hash over (title, description, publisher,
// creator, subject, filesize), with cover, file path, and modification time
// excluded so that moving or touching a book's file never changes its id.
package identity

import (
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Hash computes the stable 64-bit content identifier for a book. The
// unsigned hash is reinterpreted as a signed int64, matching the donor
// lineage's own `as i64` cast so that ids stay bit-for-bit stable.
func Hash(title, description, publisher, creator string, subject []string, filesize int64) int64 {
	h := xxhash.New()
	writeField(h, title)
	writeField(h, description)
	writeField(h, publisher)
	writeField(h, creator)
	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(len(subject)))
	_, _ = h.Write(sizeBuf[:])
	for _, s := range subject {
		writeField(h, s)
	}
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(filesize))
	_, _ = h.Write(sizeBuf[:])
	return int64(h.Sum64())
}

// writeField writes a length-prefixed string into the hash so that
// ("ab", "c") and ("a", "bc") never collide.
func writeField(h *xxhash.Digest, s string) {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(s)))
	_, _ = h.Write(lenBuf[:])
	_, _ = h.Write([]byte(s))
}

// NormalizeCreator collapses whitespace runs to single spaces and trims the
// result. If the collapsed string contains exactly one comma, the two sides
// are swapped ("Lovecraft, H.P." -> "H.P. Lovecraft"); otherwise the
// collapsed string is returned unchanged.
func NormalizeCreator(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if strings.Count(collapsed, ",") != 1 {
		return collapsed
	}
	parts := strings.SplitN(collapsed, ",", 2)
	before := strings.TrimSpace(parts[0])
	after := strings.TrimSpace(parts[1])
	return after + " " + before
}
