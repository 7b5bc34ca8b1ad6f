package wallet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/libreciph/walletcore/crypto/ed25519"
)

func TestCreateUnlocksAndSignsVerifiably(t *testing.T) {
	w := New()
	if w.Status() != Uninitialized {
		t.Fatal("new wallet is not Uninitialized")
	}

	if err := w.Create([]byte("correct horse battery staple")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if w.Status() != Unlocked {
		t.Fatalf("status = %v, want Unlocked", w.Status())
	}

	pub, err := w.PublicKey(0)
	if err != nil {
		t.Fatalf("PublicKey() error: %v", err)
	}

	hash := bytes.Repeat([]byte{0xAB}, 32)
	sig, err := w.Sign(hash, 0)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	if !ed25519.Verify(pub[:], hash, sig) {
		t.Fatal("signature produced by Wallet.Sign does not verify under Wallet.PublicKey")
	}
}

func TestCreateTwiceFails(t *testing.T) {
	w := New()
	if err := w.Create([]byte("pin one")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := w.Create([]byte("pin two")); err != ErrAlreadyInitialized {
		t.Fatalf("got err %v, want ErrAlreadyInitialized", err)
	}
}

func TestLockThenUnlockWithCorrectPIN(t *testing.T) {
	w := New()
	pin := []byte("1234")
	if err := w.Create(pin); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	pubBefore, err := w.PublicKey(0)
	if err != nil {
		t.Fatalf("PublicKey() error: %v", err)
	}

	w.Lock()
	if w.Status() != Locked {
		t.Fatalf("status after Lock = %v, want Locked", w.Status())
	}

	if _, err := w.PublicKey(0); err != ErrLocked {
		t.Fatalf("got err %v, want ErrLocked", err)
	}

	if err := w.Unlock(pin); err != nil {
		t.Fatalf("Unlock() error: %v", err)
	}
	if w.Status() != Unlocked {
		t.Fatalf("status after Unlock = %v, want Unlocked", w.Status())
	}

	pubAfter, err := w.PublicKey(0)
	if err != nil {
		t.Fatalf("PublicKey() error: %v", err)
	}
	if !bytes.Equal(pubBefore[:], pubAfter[:]) {
		t.Fatal("public key changed across Lock/Unlock")
	}
}

func TestUnlockWithWrongPINFailsAndStaysLocked(t *testing.T) {
	w := New()
	if err := w.Create([]byte("right pin")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	w.Lock()

	if err := w.Unlock([]byte("wrong pin")); err != ErrWrongPIN {
		t.Fatalf("got err %v, want ErrWrongPIN", err)
	}
	if w.Status() != Locked {
		t.Fatalf("status after failed Unlock = %v, want Locked", w.Status())
	}
}

func TestUnlockRequiresLocked(t *testing.T) {
	w := New()
	if err := w.Unlock([]byte("anything")); err != ErrNotLocked {
		t.Fatalf("got err %v, want ErrNotLocked on Uninitialized", err)
	}

	if err := w.Create([]byte("a pin")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := w.Unlock([]byte("a pin")); err != ErrNotLocked {
		t.Fatalf("got err %v, want ErrNotLocked on Unlocked", err)
	}
}

func TestLockOnUninitializedStaysUninitialized(t *testing.T) {
	w := New()
	w.Lock()
	if w.Status() != Uninitialized {
		t.Fatalf("status = %v, want Uninitialized", w.Status())
	}
}

func TestSignRequiresUnlocked(t *testing.T) {
	w := New()
	if _, err := w.Sign(make([]byte, 32), 0); err != ErrLocked {
		t.Fatalf("got err %v, want ErrLocked on Uninitialized", err)
	}

	if err := w.Create([]byte("pin")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	w.Lock()
	if _, err := w.Sign(make([]byte, 32), 0); err != ErrLocked {
		t.Fatalf("got err %v, want ErrLocked on Locked", err)
	}
}

func TestCreateRejectsEmptyPIN(t *testing.T) {
	w := New()
	if err := w.Create(nil); err != ErrPINTooShort {
		t.Fatalf("got err %v, want ErrPINTooShort", err)
	}
}

func TestGetAddressFormat(t *testing.T) {
	w := New()
	if err := w.Create([]byte("address pin")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	addr, err := w.GetAddress(0)
	if err != nil {
		t.Fatalf("GetAddress() error: %v", err)
	}
	if !strings.HasPrefix(addr, "wc1") {
		t.Fatalf("address %q missing wc1 prefix", addr)
	}

	pub, err := w.PublicKey(0)
	if err != nil {
		t.Fatalf("PublicKey() error: %v", err)
	}
	want := "wc1" + addressEncoding.EncodeToString(pub[:])
	if addr != want {
		t.Fatalf("address = %q, want %q", addr, want)
	}
}

func TestDifferentWalletsDeriveDifferentKeys(t *testing.T) {
	a, b := New(), New()
	if err := a.Create([]byte("same pin")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := b.Create([]byte("same pin")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	pa, err := a.PublicKey(0)
	if err != nil {
		t.Fatalf("PublicKey() error: %v", err)
	}
	pb, err := b.PublicKey(0)
	if err != nil {
		t.Fatalf("PublicKey() error: %v", err)
	}
	if bytes.Equal(pa[:], pb[:]) {
		t.Fatal("two independently created wallets with the same PIN derived the same key; random seed draw is not being used")
	}
}
