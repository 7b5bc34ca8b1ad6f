package ed25519

import "math/big"

// point is a curve point in extended twisted-Edwards coordinates
// (X:Y:Z:T), with affine x = X/Z, y = Y/Z, and x*y = T/Z, per
// Hisil-Wong-Carter-Dawson. This avoids a modular inversion on every
// addition; only encoding to wire format needs one.
type point struct {
	x, y, z, t *big.Int
}

// identity returns the neutral element (0, 1).
func identity() *point {
	return &point{x: big.NewInt(0), y: big.NewInt(1), z: big.NewInt(1), t: big.NewInt(0)}
}

func fmod(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, fieldP)
}

func fadd(a, b *big.Int) *big.Int { return fmod(new(big.Int).Add(a, b)) }
func fsub(a, b *big.Int) *big.Int { return fmod(new(big.Int).Sub(a, b)) }
func fmul(a, b *big.Int) *big.Int { return fmod(new(big.Int).Mul(a, b)) }

func finv(a *big.Int) *big.Int {
	return new(big.Int).ModInverse(a, fieldP)
}

// pointAdd computes p1+p2 using the unified addition formula for
// twisted-Edwards curves with a=-1 (add-2008-hwcd-3).
func pointAdd(p1, p2 *point) *point {
	A := fmul(fsub(p1.y, p1.x), fsub(p2.y, p2.x))
	B := fmul(fadd(p1.y, p1.x), fadd(p2.y, p2.x))
	C := fmul(fmul(p1.t, big.NewInt(2)), fmul(curveD, p2.t))
	D := fmul(fmul(p1.z, big.NewInt(2)), p2.z)
	E := fsub(B, A)
	F := fsub(D, C)
	G := fadd(D, C)
	H := fadd(B, A)
	return &point{
		x: fmul(E, F),
		y: fmul(G, H),
		t: fmul(E, H),
		z: fmul(F, G),
	}
}

// pointDouble computes 2*p using dbl-2008-hwcd-3 for a=-1.
func pointDouble(p *point) *point {
	A := fmul(p.x, p.x)
	B := fmul(p.y, p.y)
	C := fmul(big.NewInt(2), fmul(p.z, p.z))
	xy := fadd(p.x, p.y)
	E := fsub(fsub(fmul(xy, xy), A), B) // E = (x+y)^2 - A - B = 2xy
	G := fsub(B, A)                     // G = -A + B  (a=-1)
	F := fsub(G, C)
	H := fmod(new(big.Int).Neg(fadd(A, B))) // H = -A - B
	return &point{
		x: fmul(E, F),
		y: fmul(G, H),
		t: fmul(E, H),
		z: fmul(F, G),
	}
}

// scalarMult computes s*p via a left-to-right double-and-add-and-select
// over the scalar's bits: every iteration unconditionally doubles and
// unconditionally adds, then pointSelect masks in the addition only where
// the bit was set. No branch in this loop is keyed on a scalar bit.
func scalarMult(s *big.Int, p *point) *point {
	result := identity()
	for i := s.BitLen() - 1; i >= 0; i-- {
		result = pointDouble(result)
		added := pointAdd(result, p)
		result = pointSelect(s.Bit(i), result, added)
	}
	return result
}

// pointSelect returns p0 if bit == 0, p1 if bit == 1. Both points are
// always serialized and masked together; bit never drives a branch.
func pointSelect(bit uint, p0, p1 *point) *point {
	return &point{
		x: fieldSelect(bit, p0.x, p1.x),
		y: fieldSelect(bit, p0.y, p1.y),
		z: fieldSelect(bit, p0.z, p1.z),
		t: fieldSelect(bit, p0.t, p1.t),
	}
}

// fieldSelect returns a if bit == 0, b if bit == 1, by serializing both to
// fixed-width 32-byte buffers (every field element here is already reduced
// mod fieldP, a 255-bit prime, so 32 bytes always holds it) and masking
// byte-by-byte with a mask derived from bit rather than branching on it.
func fieldSelect(bit uint, a, b *big.Int) *big.Int {
	mask := byte(0) - byte(bit&1)
	var ab, bb, out [32]byte
	a.FillBytes(ab[:])
	b.FillBytes(bb[:])
	for i := range out {
		out[i] = ab[i] ^ (mask & (ab[i] ^ bb[i]))
	}
	return new(big.Int).SetBytes(out[:])
}

// scalarMultBase computes s*B, the base point scalar multiplication used
// by both key generation and signing.
func scalarMultBase(s *big.Int) *point {
	return scalarMult(s, basePoint)
}

// encodePoint encodes p as 32 little-endian bytes: y with the sign of x
// folded into the top bit, per RFC 8032 Section 5.1.2.
func encodePoint(p *point) []byte {
	zinv := finv(p.z)
	x := fmul(p.x, zinv)
	y := fmul(p.y, zinv)

	out := encodeScalar(y)
	if x.Bit(0) == 1 {
		out[31] |= 0x80
	}
	return out
}

// decodePoint decodes a 32-byte little-endian encoding into a curve point,
// RFC 8032 Section 5.1.3, rejecting any encoding that does not correspond
// to a point on the curve.
func decodePoint(b []byte) (*point, bool) {
	if len(b) != 32 {
		return nil, false
	}
	signBit := b[31] >> 7
	var yb [32]byte
	copy(yb[:], b)
	yb[31] &= 0x7f

	y := new(big.Int).SetBytes(reverse(yb[:]))
	if y.Cmp(fieldP) >= 0 {
		return nil, false
	}

	ySq := fmul(y, y)
	numerator := fsub(ySq, big.NewInt(1))
	denominator := fadd(fmul(curveD, ySq), big.NewInt(1))
	denomInv := finv(denominator)
	x2 := fmul(numerator, denomInv)

	x := sqrtMod(x2)
	if x == nil {
		return nil, false
	}

	if x.Sign() == 0 && signBit == 1 {
		return nil, false
	}
	if uint(x.Bit(0)) != uint(signBit) {
		x = fsub(fieldP, x)
	}

	t := fmul(x, y)
	return &point{x: x, y: y, z: big.NewInt(1), t: t}, true
}

// sqrtMod computes a square root of a modulo the field prime p = 2^255-19,
// which satisfies p = 5 (mod 8); the candidate-then-correct method of RFC
// 8032 Section 5.1.3. Returns nil if a is not a quadratic residue.
func sqrtMod(a *big.Int) *big.Int {
	exp := new(big.Int).Add(fieldP, big.NewInt(3))
	exp.Div(exp, big.NewInt(8))
	cand := new(big.Int).Exp(a, exp, fieldP)

	if fmul(cand, cand).Cmp(fmod(a)) == 0 {
		return cand
	}

	cand2 := fmul(cand, sqrtM1)
	if fmul(cand2, cand2).Cmp(fmod(a)) == 0 {
		return cand2
	}

	return nil
}
