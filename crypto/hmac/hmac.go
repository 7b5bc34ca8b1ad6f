// Package hmac implements HMAC-SHA256 per RFC 2104, built on this module's
// own crypto/sha256 — not the standard library's crypto/hmac.
package hmac

import (
	"github.com/libreciph/walletcore/crypto/sha256"
	"github.com/libreciph/walletcore/internal/ctutil"
)

const (
	// Size is the HMAC-SHA256 output length in bytes.
	Size = sha256.Size
	// blockSize is the SHA-256 compression block length; keys longer than
	// this are hashed down before use, per RFC 2104 Section 2.
	blockSize = sha256.BlockSize
)

// Sum computes HMAC-SHA256(key, msg) in one call and zeroizes its scratch
// (the padded key and the inner digest) before returning.
func Sum(key, msg []byte) [Size]byte {
	var ipad, opad [blockSize]byte
	padKey(key, ipad[:], 0x36)
	padKey(key, opad[:], 0x5c)

	inner := sha256.New()
	inner.Write(ipad[:])
	inner.Write(msg)
	innerDigest := inner.Sum(nil)

	outer := sha256.New()
	outer.Write(opad[:])
	outer.Write(innerDigest)
	result := outer.Sum(nil)

	var out [Size]byte
	copy(out[:], result)

	ctutil.SecureZero(ipad[:])
	ctutil.SecureZero(opad[:])
	ctutil.SecureZero(innerDigest)

	return out
}

// padKey writes (K0 XOR pad) into dst, where K0 is key right-padded (or
// hashed-then-right-padded, if key is longer than one block) to blockSize
// bytes, per RFC 2104 Section 2.
func padKey(key []byte, dst []byte, pad byte) {
	var k0 [blockSize]byte
	if len(key) > blockSize {
		digest := sha256.Sum256(key)
		copy(k0[:], digest[:])
	} else {
		copy(k0[:], key)
	}
	for i := range dst {
		dst[i] = k0[i] ^ pad
	}
	ctutil.SecureZero(k0[:])
}

// Context is a streaming HMAC-SHA256 computation, for callers that want to
// feed the message in pieces rather than assemble it in memory first.
type Context struct {
	outerPad [blockSize]byte
	inner    *sha256.Context
}

// New returns a streaming HMAC-SHA256 context keyed with key.
func New(key []byte) *Context {
	c := &Context{inner: sha256.New()}
	var ipad [blockSize]byte
	padKey(key, ipad[:], 0x36)
	padKey(key, c.outerPad[:], 0x5c)
	c.inner.Write(ipad[:])
	ctutil.SecureZero(ipad[:])
	return c
}

// Write absorbs p into the running MAC.
func (c *Context) Write(p []byte) (int, error) {
	return c.inner.Write(p)
}

// Sum finalizes the MAC and zeroizes the context's key material.
func (c *Context) Sum(dst []byte) []byte {
	innerDigest := c.inner.Sum(nil)

	outer := sha256.New()
	outer.Write(c.outerPad[:])
	outer.Write(innerDigest)
	result := outer.Sum(nil)

	ctutil.SecureZero(innerDigest)
	ctutil.SecureZero(c.outerPad[:])

	return append(dst, result...)
}
