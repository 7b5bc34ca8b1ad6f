// Package aesgcm implements AES-256 and AES-256-GCM (NIST SP 800-38D) from
// scratch, with no dependency on the standard library's crypto/aes or
// crypto/cipher — this package IS the primitive being specified, not a
// wrapper around one.
package aesgcm

import "github.com/libreciph/walletcore/internal/ctutil"

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// blockSize is the AES block length in bytes, fixed at 128 bits regardless
// of key size.
const blockSize = 16

// nk is the key length in 32-bit words for AES-256.
const nk = 8

// nr is the number of encryption rounds for AES-256, FIPS 197 Section 5.
const nr = 14

// sbox is the AES S-box, FIPS 197 Figure 7.
var sbox = [256]byte{
	0x63, 0x7c, 0x77, 0x7b, 0xf2, 0x6b, 0x6f, 0xc5, 0x30, 0x01, 0x67, 0x2b, 0xfe, 0xd7, 0xab, 0x76,
	0xca, 0x82, 0xc9, 0x7d, 0xfa, 0x59, 0x47, 0xf0, 0xad, 0xd4, 0xa2, 0xaf, 0x9c, 0xa4, 0x72, 0xc0,
	0xb7, 0xfd, 0x93, 0x26, 0x36, 0x3f, 0xf7, 0xcc, 0x34, 0xa5, 0xe5, 0xf1, 0x71, 0xd8, 0x31, 0x15,
	0x04, 0xc7, 0x23, 0xc3, 0x18, 0x96, 0x05, 0x9a, 0x07, 0x12, 0x80, 0xe2, 0xeb, 0x27, 0xb2, 0x75,
	0x09, 0x83, 0x2c, 0x1a, 0x1b, 0x6e, 0x5a, 0xa0, 0x52, 0x3b, 0xd6, 0xb3, 0x29, 0xe3, 0x2f, 0x84,
	0x53, 0xd1, 0x00, 0xed, 0x20, 0xfc, 0xb1, 0x5b, 0x6a, 0xcb, 0xbe, 0x39, 0x4a, 0x4c, 0x58, 0xcf,
	0xd0, 0xef, 0xaa, 0xfb, 0x43, 0x4d, 0x33, 0x85, 0x45, 0xf9, 0x02, 0x7f, 0x50, 0x3c, 0x9f, 0xa8,
	0x51, 0xa3, 0x40, 0x8f, 0x92, 0x9d, 0x38, 0xf5, 0xbc, 0xb6, 0xda, 0x21, 0x10, 0xff, 0xf3, 0xd2,
	0xcd, 0x0c, 0x13, 0xec, 0x5f, 0x97, 0x44, 0x17, 0xc4, 0xa7, 0x7e, 0x3d, 0x64, 0x5d, 0x19, 0x73,
	0x60, 0x81, 0x4f, 0xdc, 0x22, 0x2a, 0x90, 0x88, 0x46, 0xee, 0xb8, 0x14, 0xde, 0x5e, 0x0b, 0xdb,
	0xe0, 0x32, 0x3a, 0x0a, 0x49, 0x06, 0x24, 0x5c, 0xc2, 0xd3, 0xac, 0x62, 0x91, 0x95, 0xe4, 0x79,
	0xe7, 0xc8, 0x37, 0x6d, 0x8d, 0xd5, 0x4e, 0xa9, 0x6c, 0x56, 0xf4, 0xea, 0x65, 0x7a, 0xae, 0x08,
	0xba, 0x78, 0x25, 0x2e, 0x1c, 0xa6, 0xb4, 0xc6, 0xe8, 0xdd, 0x74, 0x1f, 0x4b, 0xbd, 0x8b, 0x8a,
	0x70, 0x3e, 0xb5, 0x66, 0x48, 0x03, 0xf6, 0x0e, 0x61, 0x35, 0x57, 0xb9, 0x86, 0xc1, 0x1d, 0x9e,
	0xe1, 0xf8, 0x98, 0x11, 0x69, 0xd9, 0x8e, 0x94, 0x9b, 0x1e, 0x87, 0xe9, 0xce, 0x55, 0x28, 0xdf,
	0x8c, 0xa1, 0x89, 0x0d, 0xbf, 0xe6, 0x42, 0x68, 0x41, 0x99, 0x2d, 0x0f, 0xb0, 0x54, 0xbb, 0x16,
}

// rcon is the round constant array, FIPS 197 Section 5.2. Only indices
// 1..7 are ever used for AES-256's key expansion; the table runs longer
// than needed for headroom.
var rcon = [16]byte{
	0x00, 0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40,
	0x80, 0x1b, 0x36, 0x6c, 0xd8, 0xab, 0x4d, 0x9a,
}

// roundKeys holds the AES-256 expanded key schedule: Nb*(Nr+1) = 60 words.
type roundKeys struct {
	words [4 * (nr + 1)]uint32
}

// expandKey runs FIPS 197 Section 5.2's key expansion over a 32-byte key.
func expandKey(key []byte) *roundKeys {
	rk := &roundKeys{}
	for i := 0; i < nk; i++ {
		rk.words[i] = ctutil.Uint32BE(key[i*4:])
	}
	for i := nk; i < len(rk.words); i++ {
		temp := rk.words[i-1]
		if i%nk == 0 {
			temp = subWord(rotWord(temp)) ^ (uint32(rcon[i/nk]) << 24)
		} else if nk > 6 && i%nk == 4 {
			temp = subWord(temp)
		}
		rk.words[i] = rk.words[i-nk] ^ temp
	}
	return rk
}

func rotWord(w uint32) uint32 {
	return (w << 8) | (w >> 24)
}

func subWord(w uint32) uint32 {
	var b [4]byte
	ctutil.PutUint32BE(b[:], w)
	for i := range b {
		b[i] = sbox[b[i]]
	}
	return ctutil.Uint32BE(b[:])
}

// encryptBlock runs the AES-256 forward cipher over one 16-byte block,
// FIPS 197 Section 5.1.
func encryptBlock(rk *roundKeys, dst, src []byte) {
	var state [16]byte
	copy(state[:], src)

	addRoundKey(&state, rk.words[0:4])
	for round := 1; round < nr; round++ {
		subBytes(&state)
		shiftRows(&state)
		mixColumns(&state)
		addRoundKey(&state, rk.words[round*4:round*4+4])
	}
	subBytes(&state)
	shiftRows(&state)
	addRoundKey(&state, rk.words[nr*4:nr*4+4])

	copy(dst, state[:])
}

func addRoundKey(state *[16]byte, words []uint32) {
	for c := 0; c < 4; c++ {
		var w [4]byte
		ctutil.PutUint32BE(w[:], words[c])
		for r := 0; r < 4; r++ {
			state[c*4+r] ^= w[r]
		}
	}
}

func subBytes(state *[16]byte) {
	for i := range state {
		state[i] = sbox[state[i]]
	}
}

// shiftRows cyclically shifts row r left by r bytes. state is stored
// column-major: state[c*4+r].
func shiftRows(state *[16]byte) {
	var tmp [16]byte
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			tmp[c*4+r] = state[((c+r)%4)*4+r]
		}
	}
	*state = tmp
}

func xtime(b byte) byte {
	hi := b & 0x80
	b <<= 1
	if hi != 0 {
		b ^= 0x1b
	}
	return b
}

func gmul(a, b byte) byte {
	var p byte
	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			p ^= a
		}
		a = xtime(a)
		b >>= 1
	}
	return p
}

func mixColumns(state *[16]byte) {
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := state[c*4], state[c*4+1], state[c*4+2], state[c*4+3]
		state[c*4+0] = gmul(a0, 2) ^ gmul(a1, 3) ^ a2 ^ a3
		state[c*4+1] = a0 ^ gmul(a1, 2) ^ gmul(a2, 3) ^ a3
		state[c*4+2] = a0 ^ a1 ^ gmul(a2, 2) ^ gmul(a3, 3)
		state[c*4+3] = gmul(a0, 3) ^ a1 ^ a2 ^ gmul(a3, 2)
	}
}
