package secureboot

import (
	"bytes"
	"testing"

	"github.com/pion/logging"

	"github.com/libreciph/walletcore/crypto/ed25519"
	"github.com/libreciph/walletcore/crypto/sha256"
	"github.com/libreciph/walletcore/flash"
)

func testLogger() logging.LeveledLogger {
	return logging.NewDefaultLoggerFactory().NewLogger("secureboot-test")
}

// buildImage writes a signed firmware image with the given body, entry
// point, and rollback counter into region, returning the signing key's
// public half.
func buildImage(t *testing.T, region flash.Region, body []byte, entry, rollback uint32) ed25519.PublicKey {
	t.Helper()

	pub, priv, err := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{0x77}, ed25519.SeedSize))
	if err != nil {
		t.Fatalf("NewKeyFromSeed() error: %v", err)
	}

	digest := sha256.Sum256(body)
	sig, err := ed25519.Sign(priv, digest[:])
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	h := &header{
		magic:    headerMagic,
		size:     uint32(len(body)),
		entry:    entry,
		rollback: rollback,
	}
	copy(h.digest[:], digest[:])
	copy(h.signature[:], sig)

	if err := region.Program(HeaderOffset, encodeHeader(h)); err != nil {
		t.Fatalf("Program(header) error: %v", err)
	}
	if err := flash.ProgramAll(region, FirmwareOffset, body); err != nil {
		t.Fatalf("ProgramAll(body) error: %v", err)
	}

	return pub
}

func newImageRegion(t *testing.T) *flash.Fake {
	t.Helper()
	return flash.NewFake(HeaderOffset + 4096)
}

func TestVerifyAcceptsWellFormedImage(t *testing.T) {
	region := newImageRegion(t)
	body := bytes.Repeat([]byte("firmware "), 32)
	pub := buildImage(t, region, body, 0x00010100, 1)

	out := Verify(region, pub, testLogger())
	if out.Status != StatusOK || out.Recovery {
		t.Fatalf("got %+v, want StatusOK", out)
	}
	if out.Entry != 0x00010100 {
		t.Fatalf("entry = %#x, want 0x00010100", out.Entry)
	}
}

func TestVerifyRejectsBadMagic(t *testing.T) {
	region := newImageRegion(t)
	body := bytes.Repeat([]byte("firmware "), 32)
	pub := buildImage(t, region, body, 0, 1)

	region.Erase(HeaderOffset)

	out := Verify(region, pub, testLogger())
	if out.Status != StatusInvalidMagic || !out.Recovery {
		t.Fatalf("got %+v, want StatusInvalidMagic", out)
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	region := newImageRegion(t)
	body := bytes.Repeat([]byte("firmware "), 32)
	pub := buildImage(t, region, body, 0, 1)

	region.Program(FirmwareOffset, []byte{0x00})

	out := Verify(region, pub, testLogger())
	if out.Status != StatusInvalidHash || !out.Recovery {
		t.Fatalf("got %+v, want StatusInvalidHash", out)
	}
}

func TestVerifyRejectsRollback(t *testing.T) {
	region := newImageRegion(t)
	body := bytes.Repeat([]byte("firmware "), 32)
	pub := buildImage(t, region, body, 0, 5)

	if out := Verify(region, pub, testLogger()); out.Status != StatusOK {
		t.Fatalf("first boot got %+v, want StatusOK", out)
	}

	buildImage(t, region, body, 0, 2)
	out := Verify(region, pub, testLogger())
	if out.Status != StatusRollbackDetected || !out.Recovery {
		t.Fatalf("got %+v, want StatusRollbackDetected", out)
	}
}

func TestVerifyAdvancesStoredRollbackCounter(t *testing.T) {
	region := newImageRegion(t)
	body := bytes.Repeat([]byte("firmware "), 32)
	pub := buildImage(t, region, body, 0, 5)
	Verify(region, pub, testLogger())

	store := flash.NewRollbackStore(region, RollbackOffset)
	stored, err := store.Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if stored != 5 {
		t.Fatalf("stored rollback = %d, want 5", stored)
	}
}

func TestVerifyRejectsWrongSignature(t *testing.T) {
	region := newImageRegion(t)
	body := bytes.Repeat([]byte("firmware "), 32)
	_ = buildImage(t, region, body, 0, 1)

	otherPub, _, err := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{0x99}, ed25519.SeedSize))
	if err != nil {
		t.Fatalf("NewKeyFromSeed() error: %v", err)
	}

	out := Verify(region, otherPub, testLogger())
	if out.Status != StatusInvalidSignature || !out.Recovery {
		t.Fatalf("got %+v, want StatusInvalidSignature", out)
	}
}

func TestVerifyRejectsOversizedFirmware(t *testing.T) {
	region := newImageRegion(t)
	h := &header{magic: headerMagic, size: maxFirmwareSize + 1}
	region.Program(HeaderOffset, encodeHeader(h))

	out := Verify(region, ed25519.PublicKey(make([]byte, ed25519.PublicKeySize)), testLogger())
	if out.Status != StatusInvalidSize || !out.Recovery {
		t.Fatalf("got %+v, want StatusInvalidSize", out)
	}
}
