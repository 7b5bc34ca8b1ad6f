package aesgcm

import (
	"errors"

	"github.com/libreciph/walletcore/internal/ctutil"
)

// NonceSize is the standard GCM IV length in bytes (96 bits), the only IV
// length this implementation accepts, per NIST SP 800-38D Section 5.2.1.1.
const NonceSize = 12

// TagSize is the GCM authentication tag length in bytes.
const TagSize = 16

// ErrInvalidKeySize is returned when a key is not exactly KeySize bytes.
var ErrInvalidKeySize = errors.New("aesgcm: invalid key size, must be 32 bytes")

// ErrInvalidNonceSize is returned when a nonce is not exactly NonceSize bytes.
var ErrInvalidNonceSize = errors.New("aesgcm: invalid nonce size, must be 12 bytes")

// core holds the per-key material shared by the streaming Context and the
// one-shot Seal/Open helpers: the AES-256 round keys and the derived GHASH
// subkey H = E(K, 0^128).
type core struct {
	rk *roundKeys
	h  [16]byte
}

func newCore(key []byte) (*core, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	c := &core{rk: expandKey(key)}
	var zero [16]byte
	encryptBlock(c.rk, c.h[:], zero[:])
	return c, nil
}

// Context is a streaming AES-256-GCM encryption context, mirroring the
// init/aad/update/finalize shape of a hardware AEAD peripheral driver: AAD
// must be absorbed before any plaintext, and Finalize produces the tag and
// zeroizes the context's running state. Context only encrypts; verifying
// and decrypting a tagged ciphertext needs the whole message up front; use
// Open for that.
type Context struct {
	core   *core
	j0     [16]byte
	ctr    [16]byte
	ghash  [16]byte
	aadLen uint64
	ctLen  uint64
}

// NewContext creates a streaming AES-256-GCM context from a 32-byte key.
func NewContext(key []byte) (*Context, error) {
	c, err := newCore(key)
	if err != nil {
		return nil, err
	}
	return &Context{core: c}, nil
}

// Init binds the context to a fresh 96-bit nonce, resetting all running
// state. It must be called before AAD or EncryptUpdate.
func (c *Context) Init(nonce []byte) error {
	if len(nonce) != NonceSize {
		return ErrInvalidNonceSize
	}
	c.j0 = j0Block(nonce)
	c.ctr = incr32(c.j0)
	c.ghash = [16]byte{}
	c.aadLen = 0
	c.ctLen = 0
	return nil
}

// AAD absorbs additional authenticated data into the running GHASH
// accumulator. All AAD must be supplied before the first EncryptUpdate
// call.
func (c *Context) AAD(aad []byte) {
	c.absorbPadded(aad)
	c.aadLen += uint64(len(aad))
}

// EncryptUpdate encrypts src into dst (which must be at least len(src)
// bytes) and absorbs the resulting ciphertext into GHASH.
func (c *Context) EncryptUpdate(dst, src []byte) {
	c.core.gctrAt(&c.ctr, dst, src)
	c.absorbPadded(dst[:len(src)])
	c.ctLen += uint64(len(src))
}

// Finalize appends the final GHASH length block, computes the
// authentication tag, and zeroizes the context's running state.
func (c *Context) Finalize(dst []byte) []byte {
	var lenBlock [16]byte
	ctutil.PutUint64BE(lenBlock[0:8], c.aadLen*8)
	ctutil.PutUint64BE(lenBlock[8:16], c.ctLen*8)
	xorBlock(&c.ghash, &lenBlock)
	c.ghash = gfMul(c.ghash, c.core.h)

	var ej0 [16]byte
	encryptBlock(c.core.rk, ej0[:], c.j0[:])
	var tag [16]byte
	for i := range tag {
		tag[i] = c.ghash[i] ^ ej0[i]
	}

	out := append(dst, tag[:]...)

	ctutil.SecureZero(c.ghash[:])
	ctutil.SecureZero(c.ctr[:])
	ctutil.SecureZero(c.j0[:])

	return out
}

func (c *Context) absorbPadded(data []byte) {
	for len(data) > 0 {
		var block [16]byte
		n := copy(block[:], data)
		data = data[n:]
		xorBlock(&c.ghash, &block)
		c.ghash = gfMul(c.ghash, c.core.h)
	}
}

// Seal encrypts and authenticates plaintext under nonce and aad in one
// call, appending ciphertext||tag to dst.
func Seal(dst, key, nonce, plaintext, aad []byte) ([]byte, error) {
	c, err := NewContext(key)
	if err != nil {
		return nil, err
	}
	if err := c.Init(nonce); err != nil {
		return nil, err
	}
	c.AAD(aad)

	ciphertext := make([]byte, len(plaintext))
	c.EncryptUpdate(ciphertext, plaintext)

	out := append(dst, ciphertext...)
	return c.Finalize(out), nil
}

// Open verifies and decrypts ciphertext (plaintext||tag) under nonce and
// aad, returning the plaintext and whether the tag was authentic. On a
// mismatch, authentic is false and the returned slice is all-zero, never
// the unauthenticated plaintext — matching the primitive-layer contract
// that a GCM decrypt never hands back unverified data.
func Open(dst, key, nonce, ciphertext, aad []byte) (plaintext []byte, authentic bool) {
	if len(nonce) != NonceSize || len(ciphertext) < TagSize {
		return nil, false
	}
	c, err := newCore(key)
	if err != nil {
		return nil, false
	}

	ct := ciphertext[:len(ciphertext)-TagSize]
	wantTag := ciphertext[len(ciphertext)-TagSize:]

	j0 := j0Block(nonce)
	gotTag := c.computeTag(j0, aad, ct)
	defer ctutil.SecureZero(gotTag[:])

	out := append(dst, make([]byte, len(ct))...)
	start := len(dst)

	if !ctutil.ConstantTimeCompare(gotTag[:], wantTag) {
		ctutil.SecureZero(out[start:])
		return out[start:], false
	}

	ctr := incr32(j0)
	c.gctrAt(&ctr, out[start:], ct)
	return out[start:], true
}

// j0Block builds J0 for a 96-bit IV, NIST SP 800-38D Section 7.1: the IV
// followed by 31 zero bits and a single one bit, i.e. IV || 0x00000001.
func j0Block(nonce []byte) [16]byte {
	var j0 [16]byte
	copy(j0[:12], nonce)
	j0[15] = 1
	return j0
}

// incr32 increments the rightmost 32 bits of a counter block, wrapping
// modulo 2^32, per NIST SP 800-38D Section 6.2.
func incr32(block [16]byte) [16]byte {
	out := block
	ctr := ctutil.Uint32BE(out[12:]) + 1
	ctutil.PutUint32BE(out[12:], ctr)
	return out
}

// gctrAt applies the GCTR keystream starting at *ctr, advancing it in
// place, XORing successive AES blocks into src to produce dst, NIST
// SP 800-38D Section 6.5.
func (c *core) gctrAt(ctr *[16]byte, dst, src []byte) {
	var ks [16]byte
	for i := 0; i < len(src); i += blockSize {
		encryptBlock(c.rk, ks[:], ctr[:])
		end := i + blockSize
		if end > len(src) {
			end = len(src)
		}
		for j := i; j < end; j++ {
			dst[j] = src[j] ^ ks[j-i]
		}
		*ctr = incr32(*ctr)
	}
}

// computeTag computes GHASH(H, AAD, C) encrypted with E(K, J0), NIST
// SP 800-38D Section 7.1 steps 5-6.
func (c *core) computeTag(j0 [16]byte, aad, ciphertext []byte) [16]byte {
	s := ghash(c.h, aad, ciphertext)
	var ej0 [16]byte
	encryptBlock(c.rk, ej0[:], j0[:])
	var tag [16]byte
	for i := range tag {
		tag[i] = s[i] ^ ej0[i]
	}
	return tag
}

// ghash computes the GHASH function over AAD and ciphertext, NIST
// SP 800-38D Section 6.4.
func ghash(h [16]byte, aad, ciphertext []byte) [16]byte {
	var y [16]byte

	absorb := func(data []byte) {
		for len(data) > 0 {
			var block [16]byte
			n := copy(block[:], data)
			data = data[n:]
			xorBlock(&y, &block)
			y = gfMul(y, h)
		}
	}

	absorb(aad)
	absorb(ciphertext)

	var lenBlock [16]byte
	ctutil.PutUint64BE(lenBlock[0:8], uint64(len(aad))*8)
	ctutil.PutUint64BE(lenBlock[8:16], uint64(len(ciphertext))*8)
	xorBlock(&y, &lenBlock)
	y = gfMul(y, h)

	return y
}

func xorBlock(dst, src *[16]byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

// gfMul multiplies x and y as elements of GF(2^128) with the reduction
// polynomial x^128 + x^7 + x^2 + x + 1, NIST SP 800-38D Section 6.3,
// processing y's bits from most significant to least significant. Both
// conditionals the textbook shift-and-add algorithm branches on (x's
// current bit, v's dropped low bit) are secret-dependent here, so each is
// turned into a mask that is unconditionally ANDed in rather than an if.
func gfMul(x, y [16]byte) [16]byte {
	var z, v [16]byte
	v = y

	for i := 0; i < 128; i++ {
		byteIdx := i / 8
		bitIdx := uint(7 - i%8)
		bitMask := byte(0) - ((x[byteIdx] >> bitIdx) & 1)
		for j := range z {
			z[j] ^= v[j] & bitMask
		}

		lsbMask := byte(0) - (v[15] & 1)
		shiftRight(&v)
		v[0] ^= 0xe1 & lsbMask
	}

	return z
}

// shiftRight shifts a 128-bit block right by one bit in place, treating
// v[0] as the most significant byte.
func shiftRight(v *[16]byte) {
	var carry byte
	for i := 0; i < 16; i++ {
		next := v[i] & 1
		v[i] = (v[i] >> 1) | (carry << 7)
		carry = next
	}
}
