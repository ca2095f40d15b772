// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package value

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// hashSeed is written as the first byte sequence into every hash stream, so
// that a Value's hash is reproducible across processes and versions as long
// as this constant does not change.
const hashSeed uint64 = 0x626c617a655f7631 // "blaze_v1"

// Hash returns a stable, non-cryptographic 64-bit digest of v, suitable for
// identity comparisons and cache keys. Two Values that Equal each other
// hash equal, except that Float 0 and -0 are Equal but hash by their
// differing IEEE-754 bit patterns; Object hashing is order-independent.
//
// Hash panics if v (or anything reachable from it) contains a non-finite
// float (NaN, +Inf, -Inf) — such Values have no well-defined hash and must
// not be used as map keys or persisted state identities. Call IsHashable
// first to check without panicking.
func (v Value) Hash() uint64 {
	d := xxhash.New()
	var seedBuf [8]byte
	binary.LittleEndian.PutUint64(seedBuf[:], hashSeed)
	_, _ = d.Write(seedBuf[:])
	v.writeHash(d)
	return d.Sum64()
}

func (v Value) writeHash(d *xxhash.Digest) {
	_ = d.WriteByte(byte(v.kind))
	switch v.kind {
	case KindNull:
	case KindBool:
		if v.b {
			_ = d.WriteByte(1)
		} else {
			_ = d.WriteByte(0)
		}
	case KindUnsigned:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], v.u)
		_, _ = d.Write(buf[:])
	case KindSigned:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(v.i))
		_, _ = d.Write(buf[:])
	case KindFloat:
		if isNonFinite(v.f) {
			panic("value: cannot hash a non-finite float")
		}
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.f))
		_, _ = d.Write(buf[:])
	case KindString:
		writeHashLenPrefixed(d, []byte(v.s))
	case KindArray:
		var lenBuf [8]byte
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(v.arr)))
		_, _ = d.Write(lenBuf[:])
		for _, e := range v.arr {
			e.writeHash(d)
		}
	case KindObject:
		keys := v.SortedKeys()
		var lenBuf [8]byte
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(keys)))
		_, _ = d.Write(lenBuf[:])
		for _, k := range keys {
			writeHashLenPrefixed(d, []byte(k))
			v.obj[k].writeHash(d)
		}
	}
}

func writeHashLenPrefixed(d *xxhash.Digest, b []byte) {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(b)))
	_, _ = d.Write(lenBuf[:])
	_, _ = d.Write(b)
}
