package memo

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Fingerprint is a content-derived cache key. Fingerprints of composite
// values are built from the fingerprints of their parts, never from memory
// addresses, so that structurally equal values collide in the cache on
// purpose.
type Fingerprint [32]byte

// Zero is the fingerprint of nothing. It is never produced by a Hasher.
var Zero Fingerprint

func (fp Fingerprint) String() string {
	return hex.EncodeToString(fp[:8])
}

// IsZero returns true for the null fingerprint.
func (fp Fingerprint) IsZero() bool {
	return fp == Zero
}

// Fingerprinter is implemented by values which know how to hash their own
// content. Content nodes, style chains, sources and fonts all do.
type Fingerprinter interface {
	Fingerprint() Fingerprint
}

// Sum fingerprints a raw byte slice.
func Sum(data []byte) Fingerprint {
	return blake3.Sum256(data)
}

// Hasher incrementally builds a Fingerprint. The write methods prefix every
// datum with a type tag, so that e.g. the string "1" and the integer 1
// never hash alike.
type Hasher struct {
	h *blake3.Hasher
}

// NewHasher creates an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{h: blake3.New()}
}

const (
	tagBytes  = 0x01
	tagString = 0x02
	tagInt    = 0x03
	tagUint   = 0x04
	tagBool   = 0x05
	tagFP     = 0x06
)

func (h *Hasher) tagged(tag byte, data []byte) {
	h.h.Write([]byte{tag})
	var l [8]byte
	binary.LittleEndian.PutUint64(l[:], uint64(len(data)))
	h.h.Write(l[:])
	h.h.Write(data)
}

// WriteBytes hashes a length-prefixed byte slice.
func (h *Hasher) WriteBytes(data []byte) *Hasher {
	h.tagged(tagBytes, data)
	return h
}

// WriteString hashes a length-prefixed string.
func (h *Hasher) WriteString(s string) *Hasher {
	h.tagged(tagString, []byte(s))
	return h
}

// WriteInt hashes a signed integer.
func (h *Hasher) WriteInt(n int64) *Hasher {
	var b [9]byte
	b[0] = tagInt
	binary.LittleEndian.PutUint64(b[1:], uint64(n))
	h.h.Write(b[:])
	return h
}

// WriteUint hashes an unsigned integer.
func (h *Hasher) WriteUint(n uint64) *Hasher {
	var b [9]byte
	b[0] = tagUint
	binary.LittleEndian.PutUint64(b[1:], n)
	h.h.Write(b[:])
	return h
}

// WriteBool hashes a boolean.
func (h *Hasher) WriteBool(v bool) *Hasher {
	b := [2]byte{tagBool, 0}
	if v {
		b[1] = 1
	}
	h.h.Write(b[:])
	return h
}

// WriteFingerprint folds a sub-fingerprint into the hash. This is the hook
// for composite values: hash the parts, fold the part-fingerprints.
func (h *Hasher) WriteFingerprint(fp Fingerprint) *Hasher {
	h.h.Write([]byte{tagFP})
	h.h.Write(fp[:])
	return h
}

// Sum finalizes the hash. The Hasher may continue to be written to
// afterwards, yielding a fingerprint over the longer input.
func (h *Hasher) Sum() (fp Fingerprint) {
	copy(fp[:], h.h.Sum(nil))
	return fp
}
