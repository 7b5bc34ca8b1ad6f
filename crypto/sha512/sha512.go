// Package sha512 implements SHA-512 from FIPS 180-4, byte-for-byte, with no
// dependency on the standard library's crypto/sha512. Ed25519 signing and
// verification require SHA-512 exactly as specified in RFC 8032; this
// package exists to supply that without reaching into the standard library.
package sha512

import "github.com/libreciph/walletcore/internal/ctutil"

// Size is the SHA-512 digest length in bytes.
const Size = 64

// BlockSize is the SHA-512 compression block length in bytes.
const BlockSize = 128

// initial hash value H0, FIPS 180-4 Section 5.3.5.
var initState = [8]uint64{
	0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
	0x510e527fade682d1, 0x9b05688c2b3e6c1f, 0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
}

// round constants K, FIPS 180-4 Section 4.2.3.
var k = [80]uint64{
	0x428a2f98d728ae22, 0x7137449123ef65cd, 0xb5c0fbcfec4d3b2f, 0xe9b5dba58189dbbc,
	0x3956c25bf348b538, 0x59f111f1b605d019, 0x923f82a4af194f9b, 0xab1c5ed5da6d8118,
	0xd807aa98a3030242, 0x12835b0145706fbe, 0x243185be4ee4b28c, 0x550c7dc3d5ffb4e2,
	0x72be5d74f27b896f, 0x80deb1fe3b1696b1, 0x9bdc06a725c71235, 0xc19bf174cf692694,
	0xe49b69c19ef14ad2, 0xefbe4786384f25e3, 0x0fc19dc68b8cd5b5, 0x240ca1cc77ac9c65,
	0x2de92c6f592b0275, 0x4a7484aa6ea6e483, 0x5cb0a9dcbd41fbd4, 0x76f988da831153b5,
	0x983e5152ee66dfab, 0xa831c66d2db43210, 0xb00327c898fb213f, 0xbf597fc7beef0ee4,
	0xc6e00bf33da88fc2, 0xd5a79147930aa725, 0x06ca6351e003826f, 0x142929670a0e6e70,
	0x27b70a8546d22ffc, 0x2e1b21385c26c926, 0x4d2c6dfc5ac42aed, 0x53380d139d95b3df,
	0x650a73548baf63de, 0x766a0abb3c77b2a8, 0x81c2c92e47edaee6, 0x92722c851482353b,
	0xa2bfe8a14cf10364, 0xa81a664bbc423001, 0xc24b8b70d0f89791, 0xc76c51a30654be30,
	0xd192e819d6ef5218, 0xd69906245565a910, 0xf40e35855771202a, 0x106aa07032bbd1b8,
	0x19a4c116b8d2d0c8, 0x1e376c085141ab53, 0x2748774cdf8eeb99, 0x34b0bcb5e19b48a8,
	0x391c0cb3c5c95a63, 0x4ed8aa4ae3418acb, 0x5b9cca4f7763e373, 0x682e6ff3d6b2b8a3,
	0x748f82ee5defb2fc, 0x78a5636f43172f60, 0x84c87814a1f0ab72, 0x8cc702081a6439ec,
	0x90befffa23631e28, 0xa4506cebde82bde9, 0xbef9a3f7b2c67915, 0xc67178f2e372532b,
	0xca273eceea26619c, 0xd186b8c721c0c207, 0xeada7dd6cde0eb1e, 0xf57d4f7fee6ed178,
	0x06f067aa72176fba, 0x0a637dc5a2c898a6, 0x113f9804bef90dae, 0x1b710b35131c471b,
	0x28db77f523047d84, 0x32caab7b40c72493, 0x3c9ebe0a15c9bebc, 0x431d67c49c100d4c,
	0x4cc5d4becb3e42b6, 0x597f299cfc657e2a, 0x5fcb6fab3ad6faec, 0x6c44198c4a475817,
}

// Context is a streaming SHA-512 computation. The zero value is not usable;
// create one with New.
type Context struct {
	state [8]uint64
	buf   [BlockSize]byte
	nbuf  int
	total uint64 // bytes written; sufficient for the firmware-scale messages this package handles
}

// New returns a fresh streaming SHA-512 context.
func New() *Context {
	c := &Context{}
	c.Reset()
	return c
}

// Reset restores c to its initial state.
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

// Sum appends the 64-byte digest of everything written so far to dst,
// finalizing and zeroizing the context.
func (c *Context) Sum(dst []byte) []byte {
	// FIPS 180-4 uses a 128-bit bit-length suffix; the high 64 bits are
	// always zero at firmware message scales, so only the low word is kept.
	var lenBits [16]byte
	ctutil.PutUint64BE(lenBits[8:], c.total*8)

	c.Write([]byte{0x80})
	zeros := (112 - c.nbuf%BlockSize + BlockSize) % BlockSize
	if zeros > 0 {
		c.Write(make([]byte, zeros))
	}
	c.Write(lenBits[:])

	var digest [Size]byte
	for i, s := range c.state {
		ctutil.PutUint64BE(digest[i*8:], s)
	}

	out := append(dst, digest[:]...)

	ctutil.SecureZero(digest[:])
	ctutil.SecureZero(c.buf[:])
	c.state = [8]uint64{}
	c.nbuf = 0
	c.total = 0

	return out
}

// Sum512 computes the SHA-512 digest of msg in one call.
func Sum512(msg []byte) [Size]byte {
	c := New()
	c.Write(msg)
	var out [Size]byte
	copy(out[:], c.Sum(nil))
	return out
}

func rotr(x uint64, n uint) uint64 { return (x >> n) | (x << (64 - n)) }

// block runs the compression function over one 128-byte block, FIPS 180-4
// Section 6.4.2.
func block(state *[8]uint64, p []byte) {
	var w [80]uint64
	for t := 0; t < 16; t++ {
		w[t] = ctutil.Uint64BE(p[t*8:])
	}
	for t := 16; t < 80; t++ {
		s0 := rotr(w[t-15], 1) ^ rotr(w[t-15], 8) ^ (w[t-15] >> 7)
		s1 := rotr(w[t-2], 19) ^ rotr(w[t-2], 61) ^ (w[t-2] >> 6)
		w[t] = w[t-16] + s0 + w[t-7] + s1
	}

	a, b, c, d, e, f, g, h := state[0], state[1], state[2], state[3], state[4], state[5], state[6], state[7]

	for t := 0; t < 80; t++ {
		s1 := rotr(e, 14) ^ rotr(e, 18) ^ rotr(e, 41)
		ch := (e & f) ^ (^e & g)
		t1 := h + s1 + ch + k[t] + w[t]
		s0 := rotr(a, 28) ^ rotr(a, 34) ^ rotr(a, 39)
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
