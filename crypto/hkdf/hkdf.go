// Package hkdf implements HKDF-SHA256 per RFC 5869, built on this module's
// own crypto/hmac.
package hkdf

import (
	"errors"

	"github.com/libreciph/walletcore/crypto/hmac"
	"github.com/libreciph/walletcore/internal/ctutil"
)

// ErrOutputTooLong is returned by Expand when the requested output length
// exceeds 255 HMAC-SHA256 blocks (255*32 bytes), per RFC 5869 Section 2.3.
var ErrOutputTooLong = errors.New("hkdf: requested output length too long")

// maxOutput is 255 * hmac.Size, the RFC 5869 limit on Expand's length.
const maxOutput = 255 * hmac.Size

// Extract derives a pseudorandom key from ikm (input keying material) and an
// optional salt, per RFC 5869 Section 2.2. A nil or empty salt is treated as
// a string of Size zero bytes.
func Extract(salt, ikm []byte) [hmac.Size]byte {
	if len(salt) == 0 {
		salt = make([]byte, hmac.Size)
	}
	return hmac.Sum(salt, ikm)
}

// Expand derives length bytes of output keying material from prk (as
// produced by Extract) and an optional context string info, per RFC 5869
// Section 2.3. It zeroizes the running T(i) block before returning.
func Expand(prk []byte, info []byte, length int) ([]byte, error) {
	if length > maxOutput {
		return nil, ErrOutputTooLong
	}

	out := make([]byte, 0, length)
	var t []byte
	var counter byte = 1

	for len(out) < length {
		c := hmac.New(prk)
		c.Write(t)
		c.Write(info)
		c.Write([]byte{counter})
		t = c.Sum(nil)

		out = append(out, t...)
		counter++
	}

	out = out[:length]
	ctutil.SecureZero(t)

	return out, nil
}

// Sum runs Extract then Expand in one call, the common case of deriving a
// single key from IKM, salt, and an info label.
func Sum(salt, ikm, info []byte, length int) ([]byte, error) {
	prk := Extract(salt, ikm)
	out, err := Expand(prk[:], info, length)
	ctutil.SecureZero(prk[:])
	return out, err
}
