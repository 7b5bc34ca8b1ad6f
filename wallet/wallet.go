// Package wallet implements the PIN-gated master key lifecycle and
// Ed25519 signing operation at the core of the device: the single
// long-lived holder of secret key material.
package wallet

import (
	"crypto/rand"
	"encoding/base32"
	"io"
	"sync"

	"github.com/libreciph/walletcore/crypto/ed25519"
	"github.com/libreciph/walletcore/crypto/hkdf"
	"github.com/libreciph/walletcore/crypto/sha256"
	"github.com/libreciph/walletcore/internal/ctutil"
)

// Status is the wallet's lifecycle state.
type Status uint8

const (
	// Uninitialized is the wallet's state before the first Create: no PIN
	// digest and no master key exist.
	Uninitialized Status = iota
	// Locked is the state after Lock on a created wallet: the PIN digest
	// is present but the master key is zeroed. Nothing is persisted, so a
	// new Wallet always starts Uninitialized, never Locked.
	Locked
	// Unlocked is the state in which the master key is held in memory and
	// Sign, PublicKey, and GetAddress are available.
	Unlocked
)

// String names a Status for logs and the GET_STATUS protocol response.
func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

const seedSize = 32

// masterInfo is the HKDF info string binding a derived master key to its
// purpose, so the same seed/PIN pair could never collide with a key
// derived for some other purpose under a shared HKDF call site.
const masterInfo = "wallet-master"

// Wallet is the PIN-gated holder of the Ed25519 master key. The zero value
// is an Uninitialized wallet, ready to use. A *Wallet is safe for
// concurrent use; every operation is serialized behind a single mutex, per
// the single main-loop dispatch model this module is built for.
type Wallet struct {
	mu sync.Mutex

	rng io.Reader // the entropy source Create draws its seed from

	status    Status
	pinDigest [sha256.Size]byte
	master    [seedSize]byte
}

// New returns a fresh Uninitialized wallet that draws randomness from
// crypto/rand.Reader, the same CSPRNG-backed source the rest of this
// codebase treats as the default io.Reader for key material (see
// crypto/ed25519.GenerateKey).
func New() *Wallet {
	return NewWithRand(rand.Reader)
}

// NewWithRand returns a fresh Uninitialized wallet that draws Create's seed
// from rng instead of the system CSPRNG. Production callers want New; this
// constructor exists so tests can supply a deterministic source without the
// core ever assuming anything about where its randomness comes from beyond
// the io.Reader contract, matching spec.md's "random_bytes is an external
// collaborator" framing.
func NewWithRand(rng io.Reader) *Wallet {
	return &Wallet{rng: rng}
}

// Status reports the wallet's current lifecycle state.
func (w *Wallet) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Create initializes a new wallet from fresh randomness: it requires
// Uninitialized, draws a 32-byte seed, stores pinDigest = SHA-256(pin),
// derives master = HKDF(seed, salt=pinDigest, info="wallet-master"), zeroes
// the seed, and transitions to Unlocked.
func (w *Wallet) Create(pin []byte) error {
	if len(pin) == 0 {
		return ErrPINTooShort
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.status != Uninitialized {
		return ErrAlreadyInitialized
	}

	rng := w.rng
	if rng == nil {
		rng = rand.Reader
	}
	var seed [seedSize]byte
	if _, err := io.ReadFull(rng, seed[:]); err != nil {
		return err
	}
	defer ctutil.SecureZero(seed[:])

	digest := sha256.Sum256(pin)

	master, err := hkdf.Sum(digest[:], seed[:], []byte(masterInfo), seedSize)
	if err != nil {
		return err
	}
	defer ctutil.SecureZero(master)

	w.pinDigest = digest
	copy(w.master[:], master)
	w.status = Unlocked
	return nil
}

// Unlock requires Locked. It compares SHA-256(pin) against the stored PIN
// digest in constant time; on a match it transitions to Unlocked. This
// implementation does not persist the master key across Lock/cold boot
// (see the open question in this module's design notes), so Unlock only
// succeeds within the same process that last held the master key in
// memory; a genuinely cold boot has no master key to restore and Unlock
// always fails with ErrWrongPIN.
func (w *Wallet) Unlock(pin []byte) error {
	digest := sha256.Sum256(pin)
	defer ctutil.SecureZero(digest[:])

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.status != Locked {
		return ErrNotLocked
	}

	if !ctutil.ConstantTimeCompare(digest[:], w.pinDigest[:]) {
		return ErrWrongPIN
	}

	w.status = Unlocked
	return nil
}

// Lock zeroes the master key and transitions to Locked, from any state.
// An Uninitialized wallet remains Uninitialized.
func (w *Wallet) Lock() {
	w.mu.Lock()
	defer w.mu.Unlock()

	ctutil.SecureZero(w.master[:])
	if w.status == Unlocked {
		w.status = Locked
	}
}

// deriveSeed returns the Ed25519 seed for account, the master key itself
// for account 0. Non-zero account derivation is a future extension; this
// minimum implementation treats every account as the identity mapping to
// account 0's key, matching the original firmware's single-account scope.
func (w *Wallet) deriveSeed(account uint32) [seedSize]byte {
	var seed [seedSize]byte
	copy(seed[:], w.master[:])
	return seed
}

// Sign requires Unlocked. It produces a 64-byte Ed25519 signature over
// txHash under the key selected by account.
func (w *Wallet) Sign(txHash []byte, account uint32) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.status != Unlocked {
		return nil, ErrLocked
	}

	seed := w.deriveSeed(account)
	defer ctutil.SecureZero(seed[:])

	_, priv, err := ed25519.NewKeyFromSeed(seed[:])
	if err != nil {
		return nil, err
	}
	defer ctutil.SecureZero(priv)

	return ed25519.Sign(priv, txHash)
}

// PublicKey requires Unlocked. It returns the Ed25519 public key for
// account without re-deriving the signing key at every call site that
// only needs the public half (GetAddress, GET_ADDRESS dispatch).
func (w *Wallet) PublicKey(account uint32) ([32]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.status != Unlocked {
		return [32]byte{}, ErrLocked
	}

	seed := w.deriveSeed(account)
	defer ctutil.SecureZero(seed[:])

	pub, priv, err := ed25519.NewKeyFromSeed(seed[:])
	if err != nil {
		return [32]byte{}, err
	}
	defer ctutil.SecureZero(priv)

	var out [32]byte
	copy(out[:], pub)
	return out, nil
}

// addressEncoding is unpadded base32 over the standard RFC 4648 alphabet,
// chosen for a readable, case-insensitive wire address without the
// original firmware's placeholder string.
var addressEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GetAddress requires Unlocked. It computes "wc1" + base32(public key) for
// account, replacing the original firmware's stubbed placeholder address
// with one actually derived from the account's Ed25519 public key.
func (w *Wallet) GetAddress(account uint32) (string, error) {
	pub, err := w.PublicKey(account)
	if err != nil {
		return "", err
	}
	return "wc1" + addressEncoding.EncodeToString(pub[:]), nil
}
