// Package cityhash implements CityHash128, the checksum algorithm used on
// every compressed Data packet envelope (spec §4.2). No example in the
// retrieved corpus vendors or wraps CityHash — internal/hash's xxHash64 is
// an in-memory dictionary key, not a wire checksum, and pierrec/lz4 and
// klauspost/compress/zstd only cover the compression step itself — so this
// is a direct, from-scratch port of the public-domain CityHash128 algorithm
// (the same variant ClickHouse's own implementation is built on).
package cityhash

import "encoding/binary"

const (
	k0 uint64 = 0xc3a5c85c97cb3127
	k1 uint64 = 0xb492b66fbe98f273
	k2 uint64 = 0x9ae16a3b2f90404f
	k3 uint64 = 0xc949d7c7509e6557
)

// Uint128 is a 128-bit CityHash result, stored as two 64-bit halves.
type Uint128 struct {
	Low, High uint64
}

// Sum128 computes the CityHash128 of data, used as the 16-byte checksum
// prefixing every compressed Data packet envelope.
func Sum128(data []byte) Uint128 {
	if len(data) >= 16 {
		return hash128WithSeed(data[16:], Uint128{
			Low:  fetch64(data) ^ k3,
			High: fetch64(data[8:]),
		})
	}

	return hash128WithSeed(data, Uint128{Low: k0, High: k1})
}

// Bytes marshals the checksum into the little-endian 16-byte wire form used
// by the compression envelope (low half first).
func (u Uint128) Bytes() [16]byte {
	var out [16]byte
	binary.LittleEndian.PutUint64(out[0:8], u.Low)
	binary.LittleEndian.PutUint64(out[8:16], u.High)

	return out
}

func fetch64(p []byte) uint64 { return binary.LittleEndian.Uint64(p) }
func fetch32(p []byte) uint32 { return binary.LittleEndian.Uint32(p) }

func rotate64(val uint64, shift uint) uint64 {
	if shift == 0 {
		return val
	}

	return (val >> shift) | (val << (64 - shift))
}

func shiftMix(val uint64) uint64 {
	return val ^ (val >> 47)
}

// hashLen16 mixes two 64-bit halves into one, the workhorse final-mix step
// used throughout the algorithm (Hash128to64 in the reference).
func hashLen16(u, v uint64) uint64 {
	return hashLen16Mul(u, v, 0x9ddfea08eb382d69)
}

func hashLen16Mul(u, v, mul uint64) uint64 {
	a := (u ^ v) * mul
	a ^= a >> 47
	b := (v ^ a) * mul
	b ^= b >> 47
	b *= mul

	return b
}

func hashLen0to16(data []byte) uint64 {
	l := uint64(len(data))
	switch {
	case l >= 8:
		mul := k2 + l*2
		a := fetch64(data) + k2
		b := fetch64(data[len(data)-8:])
		c := rotate64(b, 37)*mul + a
		d := (rotate64(a, 25) + b) * mul

		return hashLen16Mul(c, d, mul)
	case l >= 4:
		mul := k2 + l*2
		a := uint64(fetch32(data))

		return hashLen16Mul(l+(a<<3), uint64(fetch32(data[len(data)-4:])), mul)
	case l > 0:
		a := data[0]
		b := data[len(data)>>1]
		c := data[len(data)-1]
		y := uint32(a) + uint32(b)<<8
		z := uint32(l) + uint32(c)<<2

		return shiftMix(uint64(y)*k2^uint64(z)*k3) * k2
	default:
		return k2
	}
}

func weakHashLen32WithSeeds(w, x, y, z, a, b uint64) Uint128 {
	a += w
	b = rotate64(b+a+z, 21)
	c := a
	a += x
	a += y
	b += rotate64(a, 44)

	return Uint128{Low: a + z, High: b + c}
}

func weakHashLen32WithSeedsBytes(data []byte, a, b uint64) Uint128 {
	return weakHashLen32WithSeeds(
		fetch64(data), fetch64(data[8:]), fetch64(data[16:]), fetch64(data[24:]), a, b)
}

// cityMurmur handles the short-input fallback (len < 128) shared by every
// seeded 128-bit hash call.
func cityMurmur(data []byte, seed Uint128) Uint128 {
	a := seed.Low
	b := seed.High
	var c, d uint64
	l := len(data) - 16

	if l <= 0 {
		a = shiftMix(a*k1) * k1
		c = b*k1 + hashLen0to16(data)
		if len(data) >= 8 {
			d = shiftMix(a + fetch64(data))
		} else {
			d = shiftMix(a + c)
		}
	} else {
		c = hashLen16(fetch64(data[len(data)-8:])+k1, a)
		d = hashLen16(b+uint64(len(data)), c+fetch64(data[len(data)-16:]))
		a += d

		s := data
		for l > 0 {
			a ^= shiftMix(fetch64(s)*k1) * k1
			a *= k1
			b ^= a
			c ^= shiftMix(fetch64(s[8:])*k1) * k1
			c *= k1
			d ^= c
			s = s[16:]
			l -= 16
		}
	}

	a = hashLen16(a, c)
	b = hashLen16(d, b)

	return Uint128{Low: a ^ b, High: hashLen16(b, a)}
}

// hash128WithSeed implements CityHash128WithSeed: the long-input path
// (len >= 128) processes 64-byte chunks two at a time, keeping 56 bytes of
// running state (v, w, x, y, z), then folds the 0-127 remaining byte tail
// in 32-byte pieces before the final mix.
func hash128WithSeed(data []byte, seed Uint128) Uint128 {
	if len(data) < 128 {
		return cityMurmur(data, seed)
	}

	x := seed.Low
	y := seed.High
	z := uint64(len(data)) * k1

	v := Uint128{
		Low: rotate64(y^k1, 49)*k1 + fetch64(data),
	}
	v.High = rotate64(v.Low, 42)*k1 + fetch64(data[8:])
	w := Uint128{
		Low:  rotate64(y+z, 35)*k1 + x,
		High: rotate64(x+fetch64(data[88:]), 53) * k1,
	}

	s := data
	remaining := len(data)
	for remaining >= 128 {
		for range 2 {
			x = rotate64(x+y+v.Low+fetch64(s[8:]), 37) * k1
			y = rotate64(y+v.High+fetch64(s[48:]), 42) * k1
			x ^= w.High
			y ^= v.Low
			z = rotate64(z^w.Low, 33)
			v = weakHashLen32WithSeedsBytes(s, v.High*k1, x+w.Low)
			w = weakHashLen32WithSeedsBytes(s[32:], z+w.High, y)
			x, z = z, x
			s = s[64:]
		}
		remaining -= 128
	}

	x += rotate64(v.Low+z, 49) * k0
	y = y*k0 + rotate64(w.High, 37)
	z = z*k0 + rotate64(w.Low, 27)
	w.Low *= 9
	v.Low *= k0

	for tailDone := 0; tailDone < remaining; {
		tailDone += 32
		tail := data[len(data)-tailDone:]
		y = rotate64(x+y, 42)*k0 + v.High
		w.Low += fetch64(tail[16:])
		x = x*k0 + w.Low
		z += w.High + fetch64(tail)
		w.High += v.Low
		v = weakHashLen32WithSeedsBytes(tail, v.Low+z, v.High)
		v.Low *= k0
	}

	x = hashLen16(x, v.Low)
	y = hashLen16(y+z, w.Low)

	return Uint128{
		Low:  hashLen16(x+v.High, w.High) + y,
		High: hashLen16(x+w.High, y+v.High),
	}
}
