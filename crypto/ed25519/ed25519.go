// Package ed25519 implements the Ed25519 signature scheme from RFC 8032,
// with no dependency on the standard library's crypto/ed25519. Field and
// scalar arithmetic run on math/big rather than hand-rolled fixed-radix
// limbs: correctness of the modular arithmetic matters more here than
// shaving cycles off a firmware-scale signing operation. math/big is not
// constant-time: the cost of its multiplication, reduction and inversion
// depends on operand values and bit lengths, and scalarMult iterates once
// per bit of the scalar's actual bit length, so key generation and signing
// are not timing-independent of the secret scalars.
package ed25519

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/libreciph/walletcore/crypto/sha512"
	"github.com/libreciph/walletcore/internal/ctutil"
)

const (
	// PublicKeySize is the Ed25519 public key length in bytes.
	PublicKeySize = 32
	// PrivateKeySize is the Ed25519 private key length in bytes: a 32-byte
	// seed followed by its 32-byte public key, matching the standard
	// library's crypto/ed25519 convention.
	PrivateKeySize = 64
	// SeedSize is the length of the random seed that determines a key pair.
	SeedSize = 32
	// SignatureSize is the Ed25519 signature length in bytes.
	SignatureSize = 64
)

// ErrInvalidSignatureSize is returned by Verify when sig is not
// SignatureSize bytes.
var ErrInvalidSignatureSize = errors.New("ed25519: invalid signature size")

// ErrInvalidPublicKeySize is returned when a public key is not
// PublicKeySize bytes.
var ErrInvalidPublicKeySize = errors.New("ed25519: invalid public key size")

// ErrInvalidPrivateKeySize is returned when a private key is not
// PrivateKeySize bytes.
var ErrInvalidPrivateKeySize = errors.New("ed25519: invalid private key size")

var (
	fieldP = mustBig("57896044618658097711785492504343953926634992332820282019728792003956564819949")
	curveD = mustBig("37095705934669439343138083508754565189542113879843219016388785533085940283555")
	sqrtM1 = mustBig("19681161376707505956807079304988542015446066515923890162744021073123829784752")
	groupL = mustBig("7237005577332262213973186563042994240857116359379907606001950938285454250989")

	basePoint = &point{
		x: mustBig("15112221349535400772501151409588531511454012693041857206046113283949847762202"),
		y: mustBig("46316835694926478169428394003475163141307993866256225615783033603165251855960"),
		z: big.NewInt(1),
		t: mustBig("46827403850823179245072216630277197565144205554125654976674165829533817101731"),
	}
)

func mustBig(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("ed25519: bad constant " + s)
	}
	return n
}

// PublicKey is an Ed25519 public key.
type PublicKey []byte

// PrivateKey is an Ed25519 private key, the 32-byte seed followed by its
// 32-byte public key.
type PrivateKey []byte

// Seed returns the 32-byte seed that determines priv.
func (priv PrivateKey) Seed() []byte {
	return append([]byte(nil), priv[:SeedSize]...)
}

// Public returns the public key half of priv.
func (priv PrivateKey) Public() PublicKey {
	return append([]byte(nil), priv[SeedSize:]...)
}

// GenerateKey generates a new key pair from fresh randomness read from
// crypto/rand.
func GenerateKey() (PublicKey, PrivateKey, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, nil, err
	}
	return NewKeyFromSeed(seed)
}

// NewKeyFromSeed derives a key pair deterministically from a 32-byte seed,
// RFC 8032 Section 5.1.5 steps 1-3.
func NewKeyFromSeed(seed []byte) (PublicKey, PrivateKey, error) {
	if len(seed) != SeedSize {
		return nil, nil, errors.New("ed25519: bad seed length")
	}

	h := sha512.Sum512(seed)
	s := clampScalar(h[:32])
	defer ctutil.SecureZero(h[:])

	A := scalarMultBase(s)
	pub := encodePoint(A)

	priv := make([]byte, PrivateKeySize)
	copy(priv[:SeedSize], seed)
	copy(priv[SeedSize:], pub)

	return PublicKey(pub), PrivateKey(priv), nil
}

// Sign produces a detached signature of message under priv, RFC 8032
// Section 5.1.6.
func Sign(priv PrivateKey, message []byte) ([]byte, error) {
	if len(priv) != PrivateKeySize {
		return nil, ErrInvalidPrivateKeySize
	}

	seed := priv[:SeedSize]
	pub := priv[SeedSize:]

	h := sha512.Sum512(seed)
	s := clampScalar(h[:32])
	prefix := h[32:64]

	rh := sha512.New()
	rh.Write(prefix)
	rh.Write(message)
	rDigest := rh.Sum(nil)
	r := reduceScalar(rDigest)

	R := scalarMultBase(r)
	Rbytes := encodePoint(R)

	kh := sha512.New()
	kh.Write(Rbytes)
	kh.Write(pub)
	kh.Write(message)
	kDigest := kh.Sum(nil)
	k := reduceScalar(kDigest)

	// S = (r + k*s) mod L
	S := new(big.Int).Mul(k, s)
	S.Add(S, r)
	S.Mod(S, groupL)

	sig := make([]byte, SignatureSize)
	copy(sig[:32], Rbytes)
	copy(sig[32:], encodeScalar(S))

	ctutil.SecureZero(h[:])
	ctutil.SecureZero(rDigest)

	return sig, nil
}

// Verify reports whether sig is a valid Ed25519 signature of message under
// pub, RFC 8032 Section 5.1.7. It rejects any signature whose S component
// is not in canonical range [0, L), closing the malleability gap the
// original firmware's verifier left open.
func Verify(pub PublicKey, message, sig []byte) bool {
	if len(pub) != PublicKeySize {
		return false
	}
	if len(sig) != SignatureSize {
		return false
	}

	R, ok := decodePoint(sig[:32])
	if !ok {
		return false
	}

	S := new(big.Int).SetBytes(reverse(sig[32:64]))
	if S.Sign() < 0 || S.Cmp(groupL) >= 0 {
		return false
	}

	A, ok := decodePoint(pub)
	if !ok {
		return false
	}

	kh := sha512.New()
	kh.Write(sig[:32])
	kh.Write(pub)
	kh.Write(message)
	k := reduceScalar(kh.Sum(nil))

	lhs := scalarMultBase(S)
	rhs := pointAdd(R, scalarMult(k, A))

	return ctutil.ConstantTimeCompare(encodePoint(lhs), encodePoint(rhs))
}

// clampScalar applies the RFC 8032 Section 5.1.5 clamping to a 32-byte
// SHA-512 prefix and returns it as a scalar.
func clampScalar(h []byte) *big.Int {
	var b [32]byte
	copy(b[:], h)
	b[0] &= 248
	b[31] &= 127
	b[31] |= 64
	return new(big.Int).SetBytes(reverse(b[:]))
}

// reduceScalar reduces a 64-byte hash output modulo the group order L,
// RFC 8032 Section 5.1.6 step 2's "interpret as little-endian, reduce
// mod L".
func reduceScalar(h []byte) *big.Int {
	n := new(big.Int).SetBytes(reverse(h))
	return n.Mod(n, groupL)
}

// encodeScalar encodes a scalar value as 32 little-endian bytes.
func encodeScalar(s *big.Int) []byte {
	b := s.Bytes() // big-endian, no leading zeros
	out := make([]byte, 32)
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
