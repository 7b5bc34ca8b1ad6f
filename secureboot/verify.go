// Package secureboot implements the firmware header check, digest and
// signature verification, and wear-leveled rollback-counter gate a
// device runs once at startup before jumping into the firmware image.
package secureboot

import (
	"github.com/pion/logging"

	"github.com/libreciph/walletcore/crypto/ed25519"
	"github.com/libreciph/walletcore/crypto/sha256"
	"github.com/libreciph/walletcore/flash"
	"github.com/libreciph/walletcore/internal/ctutil"
)

// Firmware image layout offsets this verifier reads against.
const (
	HeaderOffset   = 0x00010000
	FirmwareOffset = 0x00010100
	RollbackOffset = 0x0000F000

	maxFirmwareSize = 2 * 1024 * 1024
)

// BootStatus is the outcome of one verification attempt.
type BootStatus uint8

const (
	StatusOK BootStatus = iota
	StatusNoFirmware
	StatusInvalidMagic
	StatusInvalidSize
	StatusInvalidHash
	StatusInvalidSignature
	StatusRollbackDetected
)

// String names a BootStatus for log lines.
func (s BootStatus) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNoFirmware:
		return "NO_FIRMWARE"
	case StatusInvalidMagic:
		return "INVALID_MAGIC"
	case StatusInvalidSize:
		return "INVALID_SIZE"
	case StatusInvalidHash:
		return "INVALID_HASH"
	case StatusInvalidSignature:
		return "INVALID_SIGNATURE"
	case StatusRollbackDetected:
		return "ROLLBACK_DETECTED"
	default:
		return "RECOVERY_MODE"
	}
}

// Outcome is the result a caller uses to decide whether to jump into the
// firmware or fall back to recovery.
type Outcome struct {
	Status   BootStatus
	Entry    uint32
	Recovery bool
}

// recovery builds a failing Outcome: every non-OK status routes to
// recovery mode.
func recovery(status BootStatus) Outcome {
	return Outcome{Status: status, Recovery: true}
}

// Verify runs the seven-step boot check against region: header read and
// magic check, size bound, digest comparison, rollback-counter gate,
// signature verification against pubKey, and (on success) persisting an
// advanced rollback counter. It never jumps anywhere itself; Outcome
// tells the caller whether to proceed.
func Verify(region flash.Region, pubKey ed25519.PublicKey, log logging.LeveledLogger) Outcome {
	rawHeader := make([]byte, headerSize)
	if err := region.Read(HeaderOffset, rawHeader); err != nil {
		log.Warnf("secureboot: header read failed: %v", err)
		return recovery(StatusNoFirmware)
	}

	h, err := decodeHeader(rawHeader)
	if err != nil {
		log.Warnf("secureboot: header decode failed: %v", err)
		return recovery(StatusNoFirmware)
	}

	if h.magic != headerMagic {
		log.Warnf("secureboot: bad magic %#x", h.magic)
		return recovery(StatusInvalidMagic)
	}

	if h.size == 0 || h.size > maxFirmwareSize {
		log.Warnf("secureboot: bad firmware size %d", h.size)
		return recovery(StatusInvalidSize)
	}

	body := make([]byte, h.size)
	if err := region.Read(FirmwareOffset, body); err != nil {
		log.Warnf("secureboot: firmware body read failed: %v", err)
		return recovery(StatusNoFirmware)
	}
	digest := sha256.Sum256(body)
	if !ctutil.ConstantTimeCompare(digest[:], h.digest[:]) {
		log.Warnf("secureboot: digest mismatch")
		return recovery(StatusInvalidHash)
	}

	store := flash.NewRollbackStore(region, RollbackOffset)
	stored, err := store.Read()
	if err != nil {
		log.Warnf("secureboot: rollback counter read failed: %v", err)
		return recovery(StatusNoFirmware)
	}
	if h.rollback < stored {
		log.Warnf("secureboot: rollback counter %d below stored %d", h.rollback, stored)
		return recovery(StatusRollbackDetected)
	}

	if !ed25519.Verify(pubKey, h.digest[:], h.signature[:]) {
		log.Warnf("secureboot: signature verification failed")
		return recovery(StatusInvalidSignature)
	}

	if h.rollback > stored {
		if err := store.Write(h.rollback); err != nil {
			log.Warnf("secureboot: rollback counter persist failed: %v", err)
			return recovery(StatusNoFirmware)
		}
	}

	log.Infof("secureboot: verified firmware, entry=%#x rollback=%d", h.entry, h.rollback)
	return Outcome{Status: StatusOK, Entry: h.entry, Recovery: false}
}
