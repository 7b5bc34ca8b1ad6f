// Package sha256 implements SHA-256 from FIPS 180-4, byte-for-byte, with no
// dependency on the standard library's crypto/sha256 — this package IS the
// primitive being specified, not a wrapper around one.
package sha256

import (
	"github.com/libreciph/walletcore/internal/ctutil"
)

// Size is the SHA-256 digest length in bytes.
const Size = 32

// BlockSize is the SHA-256 compression block length in bytes.
const BlockSize = 64

// initial hash value H0, FIPS 180-4 Section 5.3.3.
var initState = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// round constants K, FIPS 180-4 Section 4.2.2.
var k = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// Context is a streaming SHA-256 computation. The zero value is not usable;
// create one with New. Context is caller-owned and must never be shared
// across goroutines.
type Context struct {
	state [8]uint32
	buf   [BlockSize]byte
	nbuf  int    // bytes currently buffered in buf
	total uint64 // total message length in bytes, for the length suffix
}

// New returns a fresh streaming SHA-256 context.
func New() *Context {
	c := &Context{}
	c.Reset()
	return c
}

// Reset restores c to its initial state, as if newly created by New.
func (c *Context) Reset() {
	c.state = initState
	c.nbuf = 0
	c.total = 0
	for i := range c.buf {
		c.buf[i] = 0
	}
}

// Write absorbs p into the running hash. It never fails.
func (c *Context) Write(p []byte) (int, error) {
	n := len(p)
	c.total += uint64(n)

	if c.nbuf > 0 {
		taken := copy(c.buf[c.nbuf:], p)
		c.nbuf += taken
		p = p[taken:]
		if c.nbuf == BlockSize {
			block(&c.state, c.buf[:])
			c.nbuf = 0
		}
	}

	for len(p) >= BlockSize {
		block(&c.state, p[:BlockSize])
		p = p[BlockSize:]
	}

	if len(p) > 0 {
		c.nbuf = copy(c.buf[:], p)
	}

	return n, nil
}

// Sum appends the 32-byte digest of everything written so far to dst and
// returns the resulting slice. Unlike the standard library's hash.Hash.Sum,
// this finalizes and zeroizes the context's internal state: per spec.md's
// "final emits a digest and zeros the context", Sum is a one-shot terminal
// operation, not a snapshot you can keep writing after.
func (c *Context) Sum(dst []byte) []byte {
	var lenBits [8]byte
	ctutil.PutUint64BE(lenBits[:], c.total*8)

	// Pad: 0x80, then zeros until 56 mod 64, then the 8-byte bit length.
	c.Write([]byte{0x80})
	zeros := (56 - c.nbuf%BlockSize + BlockSize) % BlockSize
	if zeros > 0 {
		c.Write(make([]byte, zeros))
	}
	c.Write(lenBits[:])

	var digest [Size]byte
	for i, s := range c.state {
		ctutil.PutUint32BE(digest[i*4:], s)
	}

	out := append(dst, digest[:]...)

	ctutil.SecureZero(digest[:])
	ctutil.SecureZero(c.buf[:])
	c.state = [8]uint32{}
	c.nbuf = 0
	c.total = 0

	return out
}

// Sum256 computes the SHA-256 digest of msg in one call.
func Sum256(msg []byte) [Size]byte {
	c := New()
	c.Write(msg)
	var out [Size]byte
	copy(out[:], c.Sum(nil))
	return out
}

func rotr(x uint32, n uint) uint32 { return (x >> n) | (x << (32 - n)) }

// block runs the compression function over one 64-byte block, FIPS 180-4
// Section 6.2.2.
func block(state *[8]uint32, p []byte) {
	var w [64]uint32
	for t := 0; t < 16; t++ {
		w[t] = ctutil.Uint32BE(p[t*4:])
	}
	for t := 16; t < 64; t++ {
		s0 := rotr(w[t-15], 7) ^ rotr(w[t-15], 18) ^ (w[t-15] >> 3)
		s1 := rotr(w[t-2], 17) ^ rotr(w[t-2], 19) ^ (w[t-2] >> 10)
		w[t] = w[t-16] + s0 + w[t-7] + s1
	}

	a, b, c, d, e, f, g, h := state[0], state[1], state[2], state[3], state[4], state[5], state[6], state[7]

	for t := 0; t < 64; t++ {
		s1 := rotr(e, 6) ^ rotr(e, 11) ^ rotr(e, 25)
		ch := (e & f) ^ (^e & g)
		t1 := h + s1 + ch + k[t] + w[t]
		s0 := rotr(a, 2) ^ rotr(a, 13) ^ rotr(a, 22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		t2 := s0 + maj

		h, g, f, e = g, f, e, d+t1
		d, c, b, a = c, b, a, t1+t2
	}

	state[0] += a
	state[1] += b
	state[2] += c
	state[3] += d
	state[4] += e
	state[5] += f
	state[6] += g
	state[7] += h
}
