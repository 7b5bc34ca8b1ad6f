package ed25519

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"
)

// Test vectors from RFC 8032 Section 7.1, plus one longer message
// cross-checked against an independent Ed25519 implementation.
var vectors = []struct {
	name    string
	seed    string
	pub     string
	message string
	sig     string
}{
	{
		name:    "RFC8032_TEST1_empty_message",
		seed:    "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60",
		pub:     "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a",
		message: "",
		sig:     "e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b",
	},
	{
		name:    "RFC8032_TEST2_one_byte_message",
		seed:    "4ccd089b28ff96da9db6c346ec114e0f5b8a319f35aba624da8cf6ed4fb8a6fb",
		pub:     "3d4017c3e843895a92b70aa74d1b7ebc9c982ccf2ec4968cc0cd55f12af4660c",
		message: "72",
		sig:     "92a009a9f0d4cab8720e820b5f642540a2b27b5416503f8fb3762223ebdb69da085ac1e43e15996e458f3613d0f11d8c387b2eaeb4302aeeb00d291612bb0c00",
	},
	{
		name:    "longer_message",
		seed:    "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		pub:     "03a107bff3ce10be1d70dd18e74bc09967e4d6309ba50d5f1ddc8664125531b8",
		message: "6c69627265636970682077616c6c6574206669726d77617265207369676e696e67207465737420766563746f722c20736f6d6577686174206c6f6e676572206d65737361676520636f6e74656e74",
		sig:     "a9ef908761debb4e90acc200adf80903a1e6bd9e481ebaabaafebbbd35abdb77f04a2b4b980e2f44b4e15113a991ac5f4623eb2f4e596111691ce685aa031109",
	},
}

func TestVectors(t *testing.T) {
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			seed, _ := hex.DecodeString(v.seed)
			message, _ := hex.DecodeString(v.message)
			wantPub, _ := hex.DecodeString(v.pub)
			wantSig, _ := hex.DecodeString(v.sig)

			pub, priv, err := NewKeyFromSeed(seed)
			if err != nil {
				t.Fatalf("NewKeyFromSeed() error: %v", err)
			}
			if !bytes.Equal(pub, wantPub) {
				t.Fatalf("public key = %x, want %x", pub, wantPub)
			}

			sig, err := Sign(priv, message)
			if err != nil {
				t.Fatalf("Sign() error: %v", err)
			}
			if !bytes.Equal(sig, wantSig) {
				t.Fatalf("signature = %x, want %x", sig, wantSig)
			}

			if !Verify(pub, message, sig) {
				t.Fatal("Verify() rejected a valid signature")
			}
		})
	}
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	pub, priv, err := NewKeyFromSeed(bytes.Repeat([]byte{0x11}, SeedSize))
	if err != nil {
		t.Fatalf("NewKeyFromSeed() error: %v", err)
	}

	msg := []byte("unlock command")
	sig, err := Sign(priv, msg)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	if Verify(pub, []byte("unlock comm_nd"), sig) {
		t.Fatal("Verify() accepted a signature over a different message")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	_, priv, err := NewKeyFromSeed(bytes.Repeat([]byte{0x22}, SeedSize))
	if err != nil {
		t.Fatalf("NewKeyFromSeed() error: %v", err)
	}
	otherPub, _, err := NewKeyFromSeed(bytes.Repeat([]byte{0x33}, SeedSize))
	if err != nil {
		t.Fatalf("NewKeyFromSeed() error: %v", err)
	}

	msg := []byte("sign this")
	sig, err := Sign(priv, msg)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	if Verify(otherPub, msg, sig) {
		t.Fatal("Verify() accepted a signature under the wrong public key")
	}
}

func TestVerifyRejectsNonCanonicalS(t *testing.T) {
	pub, priv, err := NewKeyFromSeed(bytes.Repeat([]byte{0x44}, SeedSize))
	if err != nil {
		t.Fatalf("NewKeyFromSeed() error: %v", err)
	}
	msg := []byte("canonical check")
	sig, err := Sign(priv, msg)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	// Add the group order L to S; the resulting bytes decode as a
	// different (non-canonical) integer but the same point, which a
	// canonical-S check must reject.
	S := new(big.Int).SetBytes(reverse(sig[32:]))
	S.Add(S, groupL)
	tampered := append([]byte(nil), sig[:32]...)
	tampered = append(tampered, encodeScalar(S)...)

	if Verify(pub, msg, tampered) {
		t.Fatal("Verify() accepted a non-canonical S value")
	}
}

func TestGenerateKeyProducesVerifiableSignature(t *testing.T) {
	pub, priv, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	msg := []byte("generated key round trip")
	sig, err := Sign(priv, msg)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	if !Verify(pub, msg, sig) {
		t.Fatal("Verify() rejected a signature from a freshly generated key")
	}
}

func TestInvalidSizes(t *testing.T) {
	if Verify(make([]byte, 10), nil, make([]byte, SignatureSize)) {
		t.Fatal("Verify() accepted a short public key")
	}
	if Verify(make([]byte, PublicKeySize), nil, make([]byte, 10)) {
		t.Fatal("Verify() accepted a short signature")
	}
	if _, err := Sign(make([]byte, 10), nil); err != ErrInvalidPrivateKeySize {
		t.Fatalf("got err %v, want ErrInvalidPrivateKeySize", err)
	}
}
